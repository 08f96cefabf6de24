package typecheck

import "github.com/liminal-lang/liminal/internal/types"

// Scope is a nested lexical environment mapping names to semantic types.
type Scope struct {
	vars   map[string]types.Type
	parent *Scope
}

func newScope(parent *Scope) *Scope {
	return &Scope{vars: map[string]types.Type{}, parent: parent}
}

func (s *Scope) define(name string, t types.Type) {
	s.vars[name] = t
}

func (s *Scope) lookup(name string) (types.Type, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if t, ok := sc.vars[name]; ok {
			return t, true
		}
	}
	return nil, false
}
