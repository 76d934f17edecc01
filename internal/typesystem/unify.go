package typesystem

// Unify attempts to find a substitution that makes t1 and t2 equal.
// Tuples unify pointwise regardless of element names, and a tuple unifies
// with its carrier spelling.
func Unify(t1, t2 Type) (Subst, error) {
	return unify(t1, t2, Subst{})
}

func unify(t1, t2 Type, s Subst) (Subst, error) {
	t1 = t1.Apply(s)
	t2 = t2.Apply(s)

	if Identical(t1, t2) {
		return s, nil
	}

	if tv, ok := t1.(TVar); ok {
		return bindInto(s, tv, t2)
	}
	if tv, ok := t2.(TVar); ok {
		return bindInto(s, tv, t1)
	}

	tup1, ok1 := AsTuple(t1)
	tup2, ok2 := AsTuple(t2)
	if ok1 && ok2 {
		if tup1.Arity() != tup2.Arity() {
			return nil, &UnifyError{Left: t1, Right: t2, Reason: "tuple arity differs"}
		}
		var err error
		for k := 1; k <= tup1.Arity(); k++ {
			e1, _ := tup1.ElementType(k)
			e2, _ := tup2.ElementType(k)
			if s, err = unify(e1, e2, s); err != nil {
				return nil, err
			}
		}
		return s, nil
	}

	app1, ok1 := t1.(TApp)
	app2, ok2 := t2.(TApp)
	if ok1 && ok2 {
		if len(app1.Args) != len(app2.Args) {
			return nil, &UnifyError{Left: t1, Right: t2, Reason: "type argument count differs"}
		}
		var err error
		if s, err = unify(app1.Constructor, app2.Constructor, s); err != nil {
			return nil, err
		}
		for i := range app1.Args {
			if s, err = unify(app1.Args[i], app2.Args[i], s); err != nil {
				return nil, err
			}
		}
		return s, nil
	}

	return nil, &UnifyError{Left: t1, Right: t2}
}

func bindInto(s Subst, tv TVar, t Type) (Subst, error) {
	b, err := Bind(tv, t)
	if err != nil {
		return nil, err
	}
	return b.Compose(s).Compose(b), nil
}

// Bind binds a type variable to a type, performing the occurs check.
func Bind(tv TVar, t Type) (Subst, error) {
	if tVal, ok := t.(TVar); ok && tVal.Name == tv.Name {
		return Subst{}, nil
	}
	// Occurs check: ensure tv does not appear in t (to avoid infinite types)
	if OccursCheck(tv, t) {
		return nil, &UnifyError{Left: tv, Right: t, Reason: "infinite type"}
	}
	return Subst{tv.Name: t}, nil
}

// OccursCheck returns true if tv appears free in t.
func OccursCheck(tv TVar, t Type) bool {
	for _, v := range t.FreeTypeVariables() {
		if v.Name == tv.Name {
			return true
		}
	}
	return false
}
