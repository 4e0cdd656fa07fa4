package ir

// Equal reports structural equality of two nodes. Nil compares equal only to
// nil.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a == b {
		return true
	}
	switch a := a.(type) {
	case *IntImm:
		b, ok := b.(*IntImm)
		return ok && a.Value == b.Value
	case *BoolImm:
		b, ok := b.(*BoolImm)
		return ok && a.Value == b.Value
	case *Variable:
		b, ok := b.(*Variable)
		return ok && a.Name == b.Name
	case *BinOp:
		b, ok := b.(*BinOp)
		return ok && a.Op == b.Op && Equal(a.X, b.X) && Equal(a.Y, b.Y)
	case *Not:
		b, ok := b.(*Not)
		return ok && Equal(a.X, b.X)
	case *Select:
		b, ok := b.(*Select)
		return ok && Equal(a.Cond, b.Cond) && Equal(a.Then, b.Then) && Equal(a.Else, b.Else)
	case *LetExpr:
		b, ok := b.(*LetExpr)
		return ok && a.Name == b.Name && Equal(a.Value, b.Value) && Equal(a.Body, b.Body)
	case *Likely:
		b, ok := b.(*Likely)
		return ok && Equal(a.X, b.X)
	case *For:
		b, ok := b.(*For)
		return ok && a.Name == b.Name && a.Kind == b.Kind &&
			Equal(a.Min, b.Min) && Equal(a.Extent, b.Extent) && Equal(a.Body, b.Body)
	case *LetStmt:
		b, ok := b.(*LetStmt)
		return ok && a.Name == b.Name && Equal(a.Value, b.Value) && Equal(a.Body, b.Body)
	case *ProducerConsumer:
		b, ok := b.(*ProducerConsumer)
		return ok && a.Name == b.Name && a.IsProducer == b.IsProducer && Equal(a.Body, b.Body)
	case *Realize:
		b, ok := b.(*Realize)
		if !ok || a.Name != b.Name || len(a.Bounds) != len(b.Bounds) {
			return false
		}
		for i := range a.Bounds {
			if !Equal(a.Bounds[i].Min, b.Bounds[i].Min) || !Equal(a.Bounds[i].Extent, b.Bounds[i].Extent) {
				return false
			}
		}
		return Equal(a.Body, b.Body)
	case *IfThenElse:
		b, ok := b.(*IfThenElse)
		return ok && Equal(a.Cond, b.Cond) && Equal(a.Then, b.Then)
	case *Block:
		b, ok := b.(*Block)
		if !ok || len(a.Stmts) != len(b.Stmts) {
			return false
		}
		for i := range a.Stmts {
			if !Equal(a.Stmts[i], b.Stmts[i]) {
				return false
			}
		}
		return true
	case *Provide:
		b, ok := b.(*Provide)
		if !ok || a.Name != b.Name || len(a.Index) != len(b.Index) {
			return false
		}
		for i := range a.Index {
			if !Equal(a.Index[i], b.Index[i]) {
				return false
			}
		}
		return Equal(a.Value, b.Value)
	}
	return false
}
