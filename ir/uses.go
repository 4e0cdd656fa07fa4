package ir

// UsesVar reports whether name occurs free in the tree rooted at n. A binder
// of the same name shields its body but its bound value is still checked.
func UsesVar(n Node, name string) bool {
	switch n := n.(type) {
	case nil:
		return false
	case *IntImm, *BoolImm:
		return false
	case *Variable:
		return n.Name == name
	case *BinOp:
		return UsesVar(n.X, name) || UsesVar(n.Y, name)
	case *Not:
		return UsesVar(n.X, name)
	case *Select:
		return UsesVar(n.Cond, name) || UsesVar(n.Then, name) || UsesVar(n.Else, name)
	case *LetExpr:
		if UsesVar(n.Value, name) {
			return true
		}
		return n.Name != name && UsesVar(n.Body, name)
	case *Likely:
		return UsesVar(n.X, name)
	case *For:
		if UsesVar(n.Min, name) || UsesVar(n.Extent, name) {
			return true
		}
		return n.Name != name && UsesVar(n.Body, name)
	case *LetStmt:
		if UsesVar(n.Value, name) {
			return true
		}
		return n.Name != name && UsesVar(n.Body, name)
	case *ProducerConsumer:
		return UsesVar(n.Body, name)
	case *Realize:
		for _, b := range n.Bounds {
			if UsesVar(b.Min, name) || UsesVar(b.Extent, name) {
				return true
			}
		}
		return UsesVar(n.Body, name)
	case *IfThenElse:
		return UsesVar(n.Cond, name) || UsesVar(n.Then, name)
	case *Block:
		for _, s := range n.Stmts {
			if UsesVar(s, name) {
				return true
			}
		}
		return false
	case *Provide:
		for _, idx := range n.Index {
			if UsesVar(idx, name) {
				return true
			}
		}
		return UsesVar(n.Value, name)
	}
	return false
}
