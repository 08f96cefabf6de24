package interp

import "strings"

// Environment is the per-call name→value store, layered over the
// caller's (§4.E: "a per-activation environment layered over the
// caller's"). Composite variables have no entry of their own; only
// their flattened field-path descendants (`P.Name`, `A.0`, `A.len`) do.
type Environment struct {
	values map[string]Value
	parent *Environment
}

// NewEnvironment creates a root environment with no parent.
func NewEnvironment() *Environment {
	return &Environment{values: make(map[string]Value)}
}

// NewChildEnvironment creates an environment layered over e.
func (e *Environment) NewChildEnvironment() *Environment {
	return &Environment{values: make(map[string]Value), parent: e}
}

// Set binds name directly in this environment (no parent search).
func (e *Environment) Set(name string, v Value) {
	e.values[name] = v
}

// hasPrefix reports whether this environment (not its parents) holds
// any key with the given dotted prefix — i.e. whether name is a
// composite base with flattened descendants rather than an unbound
// name.
func (e *Environment) hasPrefix(prefix string) bool {
	for k := range e.values {
		if strings.HasPrefix(k, prefix) {
			return true
		}
	}
	return false
}

// suffixSearch is the addressing model's last-chance fallback: find
// any variable (in this frame or a parent's) whose dotted suffix
// matches the requested one.
func (e *Environment) suffixSearch(suffix string) (Value, bool) {
	for env := e; env != nil; env = env.parent {
		for k, v := range env.values {
			if k == suffix || strings.HasSuffix(k, "."+suffix) {
				return v, true
			}
		}
	}
	return nil, false
}

// Lookup resolves name per §4.E's addressing model: a direct hit in
// this frame or a parent's; failing that, for a dotted name, the base
// segment consulted for a RefValue alias and the lookup retried against
// the alias's namespace; failing that, a last-chance suffix search;
// failing that, None (runtime errors default silently, §7).
func (e *Environment) Lookup(name string) Value {
	if v, ok := e.lookupChain(name); ok {
		return v
	}

	if dot := strings.IndexByte(name, '.'); dot >= 0 {
		base, suffix := name[:dot], name[dot+1:]
		if ref, ok := e.lookupChain(base); ok {
			if r, isRef := ref.(RefValue); isRef {
				if v, ok := e.lookupChain(r.Base + "." + suffix); ok {
					return v
				}
			}
		}
		if v, ok := e.suffixSearch(suffix); ok {
			return v
		}
		return NoneValue{}
	}

	// Bare name with no direct binding: if this frame (or a parent's)
	// holds flattened descendants of it, it names a composite variable
	// with no scalar value of its own — hand back a reference alias so
	// a caller storing it elsewhere (e.g. into a call argument / another
	// variable) can still resolve field access against the original.
	for env := e; env != nil; env = env.parent {
		if env.hasPrefix(name + ".") {
			return RefValue{Base: name}
		}
	}
	return NoneValue{}
}

func (e *Environment) lookupChain(name string) (Value, bool) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.values[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// Store implements store-var (§4.E): if name is already bound
// somewhere up the parent chain (a global, or a field already written
// by a caller), that binding is mutated in place so calls layered over
// globals see and affect the same storage; otherwise name is created
// fresh in this frame (the common case for a function's own locals).
//
// Lowering's hidden temporaries (consult's retry state, anonymous
// array literals, for-in's index) are all named with a literal "$" and
// are never meant to be visible outside the activation that introduced
// them — two functions can independently synthesize the same hidden
// name (lowering's counters restart per function), so those always
// bind in the current frame rather than searching the parent chain.
func (e *Environment) Store(name string, v Value) {
	if strings.Contains(name, "$") {
		e.values[name] = v
		return
	}
	for env := e; env != nil; env = env.parent {
		if _, ok := env.values[name]; ok {
			env.values[name] = v
			return
		}
	}
	e.values[name] = v
}
