package recordc

// Type Resolver: normalizes a declared annotation into a concrete descriptor.
// Resolution is pure with respect to the namespace; it never mutates the
// input descriptor. After a successful resolve no TypeDeferred or TypeVar
// remains in the returned tree.

// resolveType resolves t against ns and the active generic substitution map.
// A deferred reference that cannot be looked up yields a BuildError with
// CodeUnresolvedReference; in lenient mode the caller marks the enclosing
// record incomplete, in strict (finalize) mode the error is fatal.
func resolveType(t *Type, ns *Namespace, subst map[string]*Type) (*Type, error) {
	return resolve(t, ns, subst, map[string]bool{})
}

func resolve(t *Type, ns *Namespace, subst map[string]*Type, chasing map[string]bool) (*Type, error) {
	if t == nil {
		return &Type{Kind: TypeAny}, nil
	}
	switch t.Kind {
	case TypeDeferred:
		if chasing[t.Name] {
			return nil, &BuildError{
				Code:    CodeUnresolvedReference,
				Ref:     t.Name,
				Message: "reference cycle through name " + t.Name + " never reaches a record",
			}
		}
		bound, ok := ns.Lookup(t.Name)
		if !ok {
			return nil, &BuildError{
				Code:    CodeUnresolvedReference,
				Ref:     t.Name,
				Message: "name " + t.Name + " is not declared",
			}
		}
		chasing[t.Name] = true
		out, err := resolve(bound, ns, subst, chasing)
		delete(chasing, t.Name)
		return out, err
	case TypeVar:
		if sub, ok := subst[t.Name]; ok {
			return resolve(sub, ns, subst, chasing)
		}
		// An unsubstituted parameter collapses to the open descriptor.
		return &Type{Kind: TypeAny}, nil
	case TypeContainer:
		out := shallowCopy(t)
		args, err := resolveAll(t.Args, ns, subst, chasing)
		if err != nil {
			return nil, err
		}
		out.Args = args
		if t.Rest != nil {
			rest, err := resolve(t.Rest, ns, subst, chasing)
			if err != nil {
				return nil, err
			}
			out.Rest = rest
		}
		return out, nil
	case TypeUnion:
		out := shallowCopy(t)
		args, err := resolveAll(t.Args, ns, subst, chasing)
		if err != nil {
			return nil, err
		}
		out.Args = args
		return out, nil
	case TypeEnum:
		out := shallowCopy(t)
		if t.Base != nil {
			base, err := resolve(t.Base, ns, subst, chasing)
			if err != nil {
				return nil, err
			}
			out.Base = base
		}
		return out, nil
	case TypeGeneric:
		out := shallowCopy(t)
		args, err := resolveAll(t.Args, ns, subst, chasing)
		if err != nil {
			return nil, err
		}
		out.Args = args
		return out, nil
	case TypeAnnotated:
		out := shallowCopy(t)
		elem, err := resolve(t.Elem, ns, subst, chasing)
		if err != nil {
			return nil, err
		}
		out.Elem = elem
		return out, nil
	default:
		// Primitive, any, none, literal, record, opaque, custom descriptors
		// are already concrete. Record fields resolve lazily when the record
		// itself compiles.
		return t, nil
	}
}

func resolveAll(ts []*Type, ns *Namespace, subst map[string]*Type, chasing map[string]bool) ([]*Type, error) {
	if ts == nil {
		return nil, nil
	}
	out := make([]*Type, len(ts))
	for i, a := range ts {
		r, err := resolve(a, ns, subst, chasing)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}

func shallowCopy(t *Type) *Type {
	c := *t
	return &c
}
