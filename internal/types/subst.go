package types

// Subst maps type-variable ids to their resolved types. Composable and
// idempotent: Apply always fully resolves chains of substituted variables,
// and substitutions never introduce a cycle because the unifier's
// occurs-check (internal/typecheck) refuses to bind a variable to a type
// containing itself.
type Subst struct {
	m map[int]Type
}

// NewSubst returns an empty substitution.
func NewSubst() *Subst { return &Subst{m: map[int]Type{}} }

// Bind records that variable id resolves to t.
func (s *Subst) Bind(id int, t Type) { s.m[id] = t }

// Lookup returns the direct (non-recursive) binding for id, if any.
func (s *Subst) Lookup(id int) (Type, bool) {
	t, ok := s.m[id]
	return t, ok
}

// Apply fully resolves t through the substitution, chasing variable chains
// until reaching a non-variable or an unbound variable.
func (s *Subst) Apply(t Type) Type {
	switch v := t.(type) {
	case *Var:
		if bound, ok := s.m[v.ID]; ok {
			return s.Apply(bound)
		}
		return v
	case *Tuple:
		elems := make([]Type, len(v.Elems))
		for i, e := range v.Elems {
			elems[i] = s.Apply(e)
		}
		return &Tuple{Elems: elems}
	case *Array:
		return &Array{Elem: s.Apply(v.Elem), Len: v.Len}
	case *Fn:
		params := make([]Type, len(v.Params))
		for i, p := range v.Params {
			params[i] = s.Apply(p)
		}
		return &Fn{Params: params, Ret: s.Apply(v.Ret)}
	case *Ref:
		return &Ref{Mut: v.Mut, Elem: s.Apply(v.Elem)}
	case *Nullable:
		return NewNullable(s.Apply(v.Elem))
	case *Forall:
		return &Forall{Binders: v.Binders, Body: s.Apply(v.Body)}
	default:
		return t
	}
}

// Compose returns a substitution equivalent to applying s first, then next
// (i.e. next after s), without mutating either input.
func Compose(s, next *Subst) *Subst {
	out := NewSubst()
	for id, t := range s.m {
		out.m[id] = next.Apply(t)
	}
	for id, t := range next.m {
		if _, already := out.m[id]; !already {
			out.m[id] = t
		}
	}
	return out
}

// Occurs reports whether variable id appears free anywhere inside t,
// including through already-recorded bindings in s — the occurs-check
// that keeps substitutions cycle-free (§4.3 unification failure mode
// OccursCheckFailed).
func Occurs(s *Subst, id int, t Type) bool {
	switch v := t.(type) {
	case *Var:
		if v.ID == id {
			return true
		}
		if bound, ok := s.m[v.ID]; ok {
			return Occurs(s, id, bound)
		}
		return false
	case *Tuple:
		for _, e := range v.Elems {
			if Occurs(s, id, e) {
				return true
			}
		}
		return false
	case *Array:
		return Occurs(s, id, v.Elem)
	case *Fn:
		for _, p := range v.Params {
			if Occurs(s, id, p) {
				return true
			}
		}
		return Occurs(s, id, v.Ret)
	case *Ref:
		return Occurs(s, id, v.Elem)
	case *Nullable:
		return Occurs(s, id, v.Elem)
	case *Forall:
		return Occurs(s, id, v.Body)
	default:
		return false
	}
}
