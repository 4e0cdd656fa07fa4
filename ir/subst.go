package ir

// SubstituteExpr replaces free occurrences of name in e with repl.
func SubstituteExpr(e Expr, name string, repl Expr) Expr {
	return SubstituteMapExpr(e, map[string]Expr{name: repl})
}

// SubstituteStmt replaces free occurrences of name in s with repl.
func SubstituteStmt(s Stmt, name string, repl Expr) Stmt {
	return SubstituteMapStmt(s, map[string]Expr{name: repl})
}

// SubstituteMapExpr applies all substitutions in subs to e simultaneously.
// Binders shadow: a let whose name is a substitution target shields its body
// but not its value.
func SubstituteMapExpr(e Expr, subs map[string]Expr) Expr {
	if len(subs) == 0 {
		return e
	}
	return subster{subs}.expr(e)
}

// SubstituteMapStmt applies all substitutions in subs to s simultaneously.
func SubstituteMapStmt(s Stmt, subs map[string]Expr) Stmt {
	if len(subs) == 0 {
		return s
	}
	return subster{subs}.stmt(s)
}

type subster struct {
	subs map[string]Expr
}

// shadow returns a subster with name removed from the substitution set.
func (sb subster) shadow(name string) subster {
	if _, ok := sb.subs[name]; !ok {
		return sb
	}
	inner := make(map[string]Expr, len(sb.subs))
	for k, v := range sb.subs {
		if k != name {
			inner[k] = v
		}
	}
	return subster{inner}
}

func (sb subster) expr(e Expr) Expr {
	switch e := e.(type) {
	case *Variable:
		if repl, ok := sb.subs[e.Name]; ok {
			return repl
		}
		return e
	case *LetExpr:
		value := sb.expr(e.Value)
		body := sb.shadow(e.Name).expr(e.Body)
		if value == e.Value && body == e.Body {
			return e
		}
		return &LetExpr{Name: e.Name, Value: value, Body: body}
	default:
		return MutateExprChildren(e, sb.expr)
	}
}

func (sb subster) stmt(s Stmt) Stmt {
	switch s := s.(type) {
	case *LetStmt:
		value := sb.expr(s.Value)
		body := sb.shadow(s.Name).stmt(s.Body)
		if value == s.Value && body == s.Body {
			return s
		}
		return &LetStmt{Name: s.Name, Value: value, Body: body}
	case *For:
		min, extent := sb.expr(s.Min), sb.expr(s.Extent)
		body := sb.shadow(s.Name).stmt(s.Body)
		if min == s.Min && extent == s.Extent && body == s.Body {
			return s
		}
		return &For{Name: s.Name, Min: min, Extent: extent, Kind: s.Kind, Body: body}
	default:
		return MutateStmtChildren(s, sb.stmt, sb.expr)
	}
}
