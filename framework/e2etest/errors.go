package e2etest

import (
	"fmt"
	"path"
	"regexp"
	"runtime"
	"strings"
)

// Failure is a scenario failure together with the suite call sites that raised it.
type Failure struct {
	Message string
	Sites   []CallSite
	Err     error
}

// CallSite is one frame of suite code leading to a failure.
type CallSite struct {
	FileName string
	Package  string
	Function string
	Line     int
}

func (f Failure) Error() string { return f.Message }

func (f Failure) Unwrap() error { return f.Err }

func (c CallSite) String() string {
	pkg := strings.TrimPrefix(c.Package, modulePath()+"/")
	return fmt.Sprintf("%s.%s (%s:%d)", pkg, c.Function, c.FileName, c.Line)
}

var testifyTracePrefix = regexp.MustCompile(`^(?s:\s*Error Trace:.*\sError:\s*)`)

// asFailure wraps err with its call sites. testify embeds its own trace in assertion
// messages; that part is dropped since the sites already say where the failure happened.
func asFailure(err error, sites []CallSite) error {
	msg := err.Error()
	if strings.Contains(msg, "Error Trace:") {
		msg = strings.TrimSpace(testifyTracePrefix.ReplaceAllLiteralString(msg, ""))
	}
	return Failure{Message: msg, Sites: sites, Err: err}
}

func thisPackage() string {
	pc, _, _, _ := runtime.Caller(0)
	pkg, _ := splitFuncName(runtime.FuncForPC(pc).Name())
	return pkg
}

// modulePath is the first three elements of this package's import path.
func modulePath() string {
	p := thisPackage()
	if parts := strings.SplitN(p, "/", 4); len(parts) == 4 {
		return strings.Join(parts[:3], "/")
	}
	return p
}

// callSites walks the stack of the calling goroutine up to the scenario body. Framework
// frames are dropped unless withFramework is set; helpers are always dropped.
func callSites(withFramework bool, helpers []string) []CallSite {
	pcs := make([]uintptr, 64)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	own := thisPackage()
	framework := modulePath() + "/framework"
	var sites []CallSite
	for {
		frame, more := frames.Next()
		if frame.Function == "" {
			break
		}
		pkg, fn := splitFuncName(frame.Function)
		if pkg == own && fn == "(*T).run" {
			break
		}
		if keepFrame(pkg, frame.Function, withFramework, own, framework, helpers) {
			sites = append(sites, CallSite{
				FileName: path.Base(frame.File),
				Package:  pkg,
				Function: fn,
				Line:     frame.Line,
			})
		}
		if !more {
			break
		}
	}
	return sites
}

func keepFrame(pkg, fullName string, withFramework bool, own, framework string, helpers []string) bool {
	if pkg == "runtime" || strings.HasPrefix(pkg, "runtime/") {
		return false
	}
	if !withFramework && (pkg == own || strings.HasPrefix(pkg, framework)) {
		return false
	}
	for _, h := range helpers {
		if h == fullName {
			return false
		}
	}
	return true
}

// splitFuncName splits "a/b/pkg.(*T).fn" into "a/b/pkg" and "(*T).fn".
func splitFuncName(fullName string) (string, string) {
	slash := strings.LastIndex(fullName, "/")
	dot := strings.Index(fullName[slash+1:], ".")
	if dot < 0 {
		return fullName, ""
	}
	cut := slash + 1 + dot
	return fullName[:cut], fullName[cut+1:]
}
