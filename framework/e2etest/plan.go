package e2etest

// Plan is the tree of scenario groups registered by the suites. It is built once before the
// run starts and is read-only afterwards.
type Plan struct {
	root    *Group
	ordinal int
}

// Group is a describe block: a named collection of scenarios and subgroups that share
// BeforeEach hooks.
type Group struct {
	plan     *Plan
	parent   *Group
	name     string
	hooks    []hook
	children []*Group
	tests    []*Scenario
}

type hook struct {
	name string
	fn   func(*T)
}

// Scenario is one registered test case.
type Scenario struct {
	group *Group
	id    TestID
	fn    func(*T)
	focus bool
	skip  string
	order int
}

// NewPlan creates an empty plan.
func NewPlan() *Plan {
	p := &Plan{}
	p.root = &Group{plan: p}
	return p
}

// Describe adds a top-level group and calls body to populate it.
func (p *Plan) Describe(name string, body func(*Group)) *Group {
	return p.root.Describe(name, body)
}

// Describe adds a nested group.
func (g *Group) Describe(name string, body func(*Group)) *Group {
	child := &Group{plan: g.plan, parent: g, name: name}
	g.children = append(g.children, child)
	if body != nil {
		body(child)
	}
	return child
}

// BeforeEach registers a setup step that runs, on the scenario's own session, before every
// scenario in this group and its subgroups. Hooks of outer groups run first. Any failure
// raised during a hook is reported as a setup failure of the scenario.
func (g *Group) BeforeEach(name string, fn func(*T)) {
	g.hooks = append(g.hooks, hook{name: name, fn: fn})
}

// It registers a scenario.
func (g *Group) It(name string, fn func(*T)) *Scenario {
	s := &Scenario{group: g, id: g.id().Plus(name), fn: fn, order: g.plan.ordinal}
	g.plan.ordinal++
	g.tests = append(g.tests, s)
	return s
}

// Only registers a focused scenario. When any scenario is focused, all others are excluded.
func (g *Group) Only(name string, fn func(*T)) *Scenario {
	s := g.It(name, fn)
	s.focus = true
	return s
}

// Skip registers a scenario that is reported as skipped without running.
func (g *Group) Skip(name, reason string, fn func(*T)) *Scenario {
	s := g.It(name, fn)
	s.skip = reason
	return s
}

// ID returns the full scenario name.
func (s *Scenario) ID() TestID {
	return s.id
}

// Focused reports whether the scenario was registered with Only.
func (s *Scenario) Focused() bool {
	return s.focus
}

func (g *Group) id() TestID {
	if g.parent == nil {
		return nil
	}
	return g.parent.id().Plus(g.name)
}

// hooks returns every BeforeEach that applies to s, outermost first.
func (s *Scenario) hooks() []hook {
	var chain []*Group
	for g := s.group; g != nil; g = g.parent {
		chain = append(chain, g)
	}
	var out []hook
	for i := len(chain) - 1; i >= 0; i-- {
		out = append(out, chain[i].hooks...)
	}
	return out
}

// Scenarios returns every scenario in registration order.
func (p *Plan) Scenarios() []*Scenario {
	var out []*Scenario
	var walk func(*Group)
	walk = func(g *Group) {
		out = append(out, g.tests...)
		for _, c := range g.children {
			walk(c)
		}
	}
	walk(p.root)
	sortScenarios(out)
	return out
}

// HasFocused reports whether any scenario was registered with Only.
func (p *Plan) HasFocused() bool {
	for _, s := range p.Scenarios() {
		if s.focus {
			return true
		}
	}
	return false
}

// unit is a set of scenarios that run serially on one worker, in order. The outermost group
// declaring a BeforeEach forms a unit, so scenarios sharing setup never run concurrently with
// each other; every scenario with no setup ancestry is a unit of its own.
type unit struct {
	name      string
	scenarios []*Scenario
}

func (p *Plan) units() []unit {
	var out []unit
	var walk func(*Group)
	walk = func(g *Group) {
		if len(g.hooks) > 0 {
			u := unit{name: g.id().String()}
			var collect func(*Group)
			collect = func(x *Group) {
				u.scenarios = append(u.scenarios, x.tests...)
				for _, c := range x.children {
					collect(c)
				}
			}
			collect(g)
			if len(u.scenarios) > 0 {
				sortScenarios(u.scenarios)
				out = append(out, u)
			}
			return
		}
		for _, s := range g.tests {
			out = append(out, unit{name: s.id.String(), scenarios: []*Scenario{s}})
		}
		for _, c := range g.children {
			walk(c)
		}
	}
	walk(p.root)
	return out
}

func sortScenarios(ss []*Scenario) {
	// insertion sort keeps this stable and the slices are small
	for i := 1; i < len(ss); i++ {
		for j := i; j > 0 && ss[j].order < ss[j-1].order; j-- {
			ss[j], ss[j-1] = ss[j-1], ss[j]
		}
	}
}
