package e2etest

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Filter decides whether a scenario should run.
type Filter func(TestID) bool

// RegexFilters selects scenarios by --run and --skip patterns. A scenario runs if it matches
// at least one MustMatch pattern (or there are none) and matches no MustNotMatch pattern.
type RegexFilters struct {
	MustMatch    TestIDPatternList
	MustNotMatch TestIDPatternList
}

func (r RegexFilters) Match(id TestID) bool {
	return (!r.MustMatch.IsDefined() || r.MustMatch.AnyMatch(id, true)) &&
		!r.MustNotMatch.AnyMatch(id, false)
}

// IsDefined is true if any pattern was given.
func (r RegexFilters) IsDefined() bool {
	return r.MustMatch.IsDefined() || r.MustNotMatch.IsDefined()
}

// TestIDPattern is a slash-separated list of regexes, one per TestID component.
type TestIDPattern []*regexp.Regexp

func (p TestIDPattern) Match(id TestID, includeParents bool) bool {
	n := len(p)
	if n > len(id) {
		if !includeParents {
			return false
		}
		n = len(id)
	}
	for i := 0; i < n; i++ {
		if !p[i].MatchString(id[i]) {
			return false
		}
	}
	return true
}

func (p TestIDPattern) String() string {
	ss := make([]string, 0, len(p))
	for _, c := range p {
		ss = append(ss, c.String())
	}
	return strings.Join(ss, "/")
}

func ParseTestIDPattern(s string) (TestIDPattern, error) {
	parts := strings.Split(s, "/")
	ret := make(TestIDPattern, 0, len(parts))
	for _, part := range parts {
		rx, err := regexp.Compile(part)
		if err != nil {
			return nil, fmt.Errorf("invalid regex %q: %w", part, err)
		}
		ret = append(ret, rx)
	}
	return ret, nil
}

// TestIDPatternList can be used directly as a repeatable command-line flag value.
type TestIDPatternList []TestIDPattern

func (l TestIDPatternList) String() string {
	ss := make([]string, 0, len(l))
	for _, p := range l {
		ss = append(ss, `"`+p.String()+`"`)
	}
	return strings.Join(ss, " or ")
}

func (l *TestIDPatternList) Set(value string) error {
	p, err := ParseTestIDPattern(value)
	if err != nil {
		return err
	}
	*l = append(*l, p)
	return nil
}

func (l *TestIDPatternList) Type() string {
	return "pattern"
}

func (l TestIDPatternList) IsDefined() bool {
	return len(l) != 0
}

func (l TestIDPatternList) AnyMatch(id TestID, includeParents bool) bool {
	for _, p := range l {
		if p.Match(id, includeParents) {
			return true
		}
	}
	return false
}

// LoadSuppressions reads one scenario ID per line, as written by WriteFailures, and adds each
// as a literal skip pattern. Blank lines and lines starting with # are ignored.
func (r *RegexFilters) LoadSuppressions(in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, "/")
		for i, part := range parts {
			parts[i] = "^" + regexp.QuoteMeta(part) + "$"
		}
		if err := r.MustNotMatch.Set(strings.Join(parts, "/")); err != nil {
			return fmt.Errorf("cannot parse suppression %q: %w", line, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("while reading suppressions: %w", err)
	}
	return nil
}

// WriteFailures writes the IDs of failed scenarios in a form LoadSuppressions accepts. A
// scenario that failed under several engines is listed once.
func WriteFailures(out io.Writer, results Results) error {
	seen := make(map[string]bool)
	for _, f := range results.Failures {
		id := f.TestID.String()
		if seen[id] {
			continue
		}
		seen[id] = true
		if _, err := fmt.Fprintln(out, id); err != nil {
			return err
		}
	}
	return nil
}

// PrintFilterDescription explains which scenarios will be excluded.
func PrintFilterDescription(out io.Writer, filters RegexFilters, focused bool) {
	if filters.IsDefined() {
		fmt.Fprintln(out, "Some scenarios will be skipped based on the filter criteria for this run:")
		if filters.MustMatch.IsDefined() {
			fmt.Fprintf(out, "  skip any not matching %s\n", filters.MustMatch)
		}
		if filters.MustNotMatch.IsDefined() {
			fmt.Fprintf(out, "  skip any matching %s\n", filters.MustNotMatch)
		}
		fmt.Fprintln(out)
	}
	if focused {
		fmt.Fprintln(out, "Some scenarios are focused with Only; all others will be skipped.")
		fmt.Fprintln(out)
	}
}
