// Package gc implements the cycle-collecting garbage collector: a
// mark-and-sweep tracer over the reachable value graph. Plain unreachable
// values are reclaimed by the Go runtime once nothing refers to them; this
// collector exists for the case ordinary reclamation cannot observe —
// compound values whose internal references form a cycle — and breaks such
// cycles by clearing the members' internal references.
package gc

import "github.com/naab-lang/naab/internal/runtime"

// envCarrier is implemented by values that hold a live environment the
// tracer must walk: closures and module namespaces.
type envCarrier interface {
	CapturedEnv() *runtime.Environment
}

// Collector owns the set of live compound allocations and runs the
// mark-and-sweep cycle pass on demand. Sweeping clears an unreachable
// value's internal references; the memory itself is then an ordinary
// garbage object for the host runtime to reclaim.
type Collector struct {
	threshold int // allocations since last Collect before an automatic run; 0 disables
	allocated int
	live      map[runtime.Value]struct{}
	roots     []*runtime.Environment // active call frames, innermost last
}

// New creates a Collector. A threshold of 0 disables automatic collection;
// callers must invoke Collect explicitly.
func New(threshold int) *Collector {
	return &Collector{threshold: threshold, live: map[runtime.Value]struct{}{}}
}

// PushRoot registers an active environment (a call frame or module body
// being executed) as a tracer root until the matching PopRoot. Without
// this, a collection triggered inside a callee would only see the callee's
// chain and sweep the caller's live locals.
func (c *Collector) PushRoot(e *runtime.Environment) { c.roots = append(c.roots, e) }

// PopRoot unregisters the most recent root.
func (c *Collector) PopRoot() {
	if len(c.roots) > 0 {
		c.roots = c.roots[:len(c.roots)-1]
	}
}

// TrackAllocation registers a freshly created compound value as a
// candidate for the cycle tracer, and triggers an automatic Collect if the
// threshold has been reached.
func (c *Collector) TrackAllocation(v runtime.Value, root *runtime.Environment) {
	switch v.(type) {
	case *runtime.ListValue, *runtime.DictValue, *runtime.StructValue, *runtime.FunctionValue:
	default:
		return
	}
	c.live[v] = struct{}{}
	c.allocated++
	if c.threshold > 0 && c.allocated >= c.threshold {
		c.Collect(root)
		c.allocated = 0
	}
}

// Collect runs one mark-and-sweep pass rooted at root plus every pushed
// root: every value transitively reachable (following Environment parent
// chains, compound Children, and captured closure/module environments) is
// marked live; anything tracked but unmarked is swept, its internal
// references cleared via runtime.Clear to break any cycle it participates
// in.
//
// Known limitation: the tracer is rooted only at live
// environments. A cycle that has already been detached from every live
// environment before Collect runs is invisible here and leaks; a complete
// tracer would need a weak-reference global value registry and is future
// work.
func (c *Collector) Collect(root *runtime.Environment) int {
	m := &marker{values: map[runtime.Value]struct{}{}, envs: map[*runtime.Environment]struct{}{}}
	m.markEnv(root)
	for _, r := range c.roots {
		m.markEnv(r)
	}

	swept := 0
	for v := range c.live {
		if _, ok := m.values[v]; !ok {
			runtime.Clear(v)
			delete(c.live, v)
			swept++
		}
	}
	return swept
}

type marker struct {
	values map[runtime.Value]struct{}
	envs   map[*runtime.Environment]struct{}
}

func (m *marker) markEnv(e *runtime.Environment) {
	for env := e; env != nil; env = env.Parent() {
		if _, seen := m.envs[env]; seen {
			return
		}
		m.envs[env] = struct{}{}
		env.Range(func(_ string, v runtime.Value) bool {
			m.markValue(v)
			return true
		})
	}
}

func (m *marker) markValue(v runtime.Value) {
	if v == nil {
		return
	}
	switch v.(type) {
	case *runtime.ListValue, *runtime.DictValue, *runtime.StructValue, *runtime.FunctionValue:
		if _, seen := m.values[v]; seen {
			return
		}
		m.values[v] = struct{}{}
	}
	for _, child := range runtime.Children(v) {
		m.markValue(child)
	}
	if ec, ok := v.(envCarrier); ok {
		m.markEnv(ec.CapturedEnv())
	}
}

// Live reports the number of compound allocations currently tracked, for
// diagnostics and tests.
func (c *Collector) Live() int { return len(c.live) }
