// Package driver feeds a trace of memory references into the top of a cache
// hierarchy and reports each resulting hit or miss to any registered hooks.
package driver

import "github.com/archsim/cachesim/cache"

// Op is the kind of a memory reference, per §6's trace format.
type Op int

const (
	// OpRead is a load ("r" in the trace format).
	OpRead Op = iota
	// OpWrite is a store ("w" in the trace format).
	OpWrite
)

// String renders the op the way it appears in a trace line.
func (o Op) String() string {
	if o == OpWrite {
		return "w"
	}
	return "r"
}

// A Reference is one parsed trace line: an operation against an address.
type Reference struct {
	Op      Op
	Address uint64
}

// IsWrite reports whether this reference should be issued as a write.
func (r Reference) IsWrite() bool { return r.Op == OpWrite }

// A Source yields references one at a time, so the driver never needs the
// whole trace resident in memory (internal/traceio.Scanner implements this).
type Source interface {
	Next() (Reference, bool)
}

// AccessEvent describes the outcome of issuing one reference against the top
// of the hierarchy.
type AccessEvent struct {
	Index     int
	Reference Reference
	Hit       bool
}

// A Hook observes every AccessEvent the driver produces. Unlike the
// teacher's reflect-typed Hook (hook.go), there is exactly one event type
// here, so Hook.Func takes it directly instead of an interface{} plus a
// reflect.Type filter.
type Hook interface {
	Func(event AccessEvent)
}

// HookFunc adapts a plain function to the Hook interface.
type HookFunc func(event AccessEvent)

// Func implements Hook.
func (f HookFunc) Func(event AccessEvent) { f(event) }

// Driver pulls references from a Source and issues them against the top of
// a cache hierarchy, one at a time, in order (§5: no concurrency, no
// reordering).
type Driver struct {
	top   cache.Accessor
	hooks []Hook
}

// NewDriver returns a Driver that issues references against top.
func NewDriver(top cache.Accessor) *Driver {
	return &Driver{top: top}
}

// AcceptHook registers a hook, invoked after every reference in the order
// hooks were registered, matching the teacher's AcceptHook naming
// (hook.go/hookable.go) for an object that accepts observers.
func (d *Driver) AcceptHook(hook Hook) {
	d.hooks = append(d.hooks, hook)
}

// Run drains src, issuing each reference against the top level and invoking
// every hook with the outcome. It returns the number of references
// processed.
func (d *Driver) Run(src Source) int {
	count := 0
	for {
		ref, ok := src.Next()
		if !ok {
			break
		}

		hit := d.top.Access(ref.Address, ref.IsWrite())

		event := AccessEvent{Index: count, Reference: ref, Hit: hit}
		for _, hook := range d.hooks {
			hook.Func(event)
		}

		count++
	}
	return count
}
