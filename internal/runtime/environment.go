package runtime

import "fmt"

// Environment is a lexically nested name→Value mapping with an optional
// parent pointer. NAAb identifiers are case-sensitive, so a plain map keyed
// by name suffices; Range exists because the cycle collector's mark phase
// walks every binding.
type Environment struct {
	store map[string]Value
	outer *Environment
}

// NewEnvironment creates a new root-level environment with no parent. Used
// for the global scope and for each module's private environment.
func NewEnvironment() *Environment {
	return &Environment{store: map[string]Value{}}
}

// Child creates a new environment nested inside e.
func (e *Environment) Child() *Environment {
	return &Environment{store: map[string]Value{}, outer: e}
}

// Parent returns the enclosing environment, or nil at the root.
func (e *Environment) Parent() *Environment { return e.outer }

// Define binds name in the current frame. It is an error to redefine a name
// already bound in this exact frame; callers that want
// shadow-or-overwrite semantics should check Has first.
func (e *Environment) Define(name string, val Value) error {
	if _, exists := e.store[name]; exists {
		return fmt.Errorf("name already defined in this scope: %s", name)
	}
	e.store[name] = val
	return nil
}

// ForceDefine binds name in the current frame, overwriting any existing
// local binding. Used for parameter binding and loop-variable rebinding,
// where redefinition across iterations/calls is expected.
func (e *Environment) ForceDefine(name string, val Value) {
	e.store[name] = val
}

// Get walks the parent chain outward looking for name.
func (e *Environment) Get(name string) (Value, bool) {
	for env := e; env != nil; env = env.outer {
		if v, ok := env.store[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Set walks the parent chain to find where name is bound and rebinds it
// there. It fails if name is unbound anywhere in the chain.
func (e *Environment) Set(name string, val Value) error {
	for env := e; env != nil; env = env.outer {
		if _, ok := env.store[name]; ok {
			env.store[name] = val
			return nil
		}
	}
	return fmt.Errorf("undefined variable: %s", name)
}

// Has reports whether name is bound in this frame or any ancestor.
func (e *Environment) Has(name string) bool {
	_, ok := e.Get(name)
	return ok
}

// Range iterates over bindings in the current frame only (not ancestors).
// The cycle collector's mark phase walks the whole chain itself by
// following Parent().
func (e *Environment) Range(f func(name string, v Value) bool) {
	for k, v := range e.store {
		if !f(k, v) {
			return
		}
	}
}

// Names returns the bound names in the current frame, for the "available
// alternatives" list in diagnostics.
func (e *Environment) Names() []string {
	out := make([]string, 0, len(e.store))
	for k := range e.store {
		out = append(out, k)
	}
	return out
}
