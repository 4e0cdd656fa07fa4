package ir

// MutateExprChildren rebuilds e with f applied to each direct child
// expression. The original node is returned when no child changed, so
// callers can detect "no rewrite" by pointer identity.
func MutateExprChildren(e Expr, f func(Expr) Expr) Expr {
	switch e := e.(type) {
	case *IntImm, *BoolImm, *Variable:
		return e
	case *BinOp:
		x, y := f(e.X), f(e.Y)
		if x == e.X && y == e.Y {
			return e
		}
		return &BinOp{Op: e.Op, X: x, Y: y}
	case *Not:
		x := f(e.X)
		if x == e.X {
			return e
		}
		return &Not{X: x}
	case *Select:
		c, t, els := f(e.Cond), f(e.Then), f(e.Else)
		if c == e.Cond && t == e.Then && els == e.Else {
			return e
		}
		return &Select{Cond: c, Then: t, Else: els}
	case *LetExpr:
		v, b := f(e.Value), f(e.Body)
		if v == e.Value && b == e.Body {
			return e
		}
		return &LetExpr{Name: e.Name, Value: v, Body: b}
	case *Likely:
		x := f(e.X)
		if x == e.X {
			return e
		}
		return &Likely{X: x}
	}
	return e
}

// MutateStmtChildren rebuilds s with fs applied to each direct child
// statement and fe to each embedded expression, preserving identity when
// nothing changed. Either callback may be nil to leave that class of child
// untouched.
func MutateStmtChildren(s Stmt, fs func(Stmt) Stmt, fe func(Expr) Expr) Stmt {
	if fs == nil {
		fs = func(s Stmt) Stmt { return s }
	}
	if fe == nil {
		fe = func(e Expr) Expr { return e }
	}
	switch s := s.(type) {
	case *For:
		min, extent := fe(s.Min), fe(s.Extent)
		body := fs(s.Body)
		if min == s.Min && extent == s.Extent && body == s.Body {
			return s
		}
		return &For{Name: s.Name, Min: min, Extent: extent, Kind: s.Kind, Body: body}
	case *LetStmt:
		v := fe(s.Value)
		body := fs(s.Body)
		if v == s.Value && body == s.Body {
			return s
		}
		return &LetStmt{Name: s.Name, Value: v, Body: body}
	case *ProducerConsumer:
		body := fs(s.Body)
		if body == s.Body {
			return s
		}
		return &ProducerConsumer{Name: s.Name, IsProducer: s.IsProducer, Body: body}
	case *Realize:
		bounds := s.Bounds
		changed := false
		for i, b := range s.Bounds {
			min, extent := fe(b.Min), fe(b.Extent)
			if min != b.Min || extent != b.Extent {
				if !changed {
					bounds = make([]Range, len(s.Bounds))
					copy(bounds, s.Bounds)
					changed = true
				}
				bounds[i] = Range{Min: min, Extent: extent}
			}
		}
		body := fs(s.Body)
		if !changed && body == s.Body {
			return s
		}
		return &Realize{Name: s.Name, Bounds: bounds, Body: body}
	case *IfThenElse:
		cond := fe(s.Cond)
		then := fs(s.Then)
		if cond == s.Cond && then == s.Then {
			return s
		}
		return &IfThenElse{Cond: cond, Then: then}
	case *Block:
		stmts := s.Stmts
		changed := false
		for i, child := range s.Stmts {
			c := fs(child)
			if c != child {
				if !changed {
					stmts = make([]Stmt, len(s.Stmts))
					copy(stmts, s.Stmts)
					changed = true
				}
				stmts[i] = c
			}
		}
		if !changed {
			return s
		}
		return &Block{Stmts: stmts}
	case *Provide:
		index := s.Index
		changed := false
		for i, idx := range s.Index {
			x := fe(idx)
			if x != idx {
				if !changed {
					index = make([]Expr, len(s.Index))
					copy(index, s.Index)
					changed = true
				}
				index[i] = x
			}
		}
		v := fe(s.Value)
		if !changed && v == s.Value {
			return s
		}
		return &Provide{Name: s.Name, Index: index, Value: v}
	}
	return s
}
