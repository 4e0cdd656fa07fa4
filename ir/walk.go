package ir

// Walk traverses the tree rooted at n in depth-first pre-order, calling f on
// every node. If f returns false the node's children are skipped.
func Walk(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	switch n := n.(type) {
	case *IntImm, *BoolImm, *Variable:
	case *BinOp:
		Walk(n.X, f)
		Walk(n.Y, f)
	case *Not:
		Walk(n.X, f)
	case *Select:
		Walk(n.Cond, f)
		Walk(n.Then, f)
		Walk(n.Else, f)
	case *LetExpr:
		Walk(n.Value, f)
		Walk(n.Body, f)
	case *Likely:
		Walk(n.X, f)
	case *For:
		Walk(n.Min, f)
		Walk(n.Extent, f)
		Walk(n.Body, f)
	case *LetStmt:
		Walk(n.Value, f)
		Walk(n.Body, f)
	case *ProducerConsumer:
		Walk(n.Body, f)
	case *Realize:
		for _, b := range n.Bounds {
			Walk(b.Min, f)
			Walk(b.Extent, f)
		}
		Walk(n.Body, f)
	case *IfThenElse:
		Walk(n.Cond, f)
		Walk(n.Then, f)
	case *Block:
		for _, s := range n.Stmts {
			Walk(s, f)
		}
	case *Provide:
		for _, idx := range n.Index {
			Walk(idx, f)
		}
		Walk(n.Value, f)
	}
}
