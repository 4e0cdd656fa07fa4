package ir

// Constructors for concise IR building, mainly used by passes building
// replacement expressions and by tests.

func Int(v int64) Expr { return &IntImm{Value: v} }

func Bool(v bool) Expr { return &BoolImm{Value: v} }

func Var(name string) *Variable { return &Variable{Name: name} }

func Add(x, y Expr) Expr { return &BinOp{Op: OpAdd, X: x, Y: y} }
func Sub(x, y Expr) Expr { return &BinOp{Op: OpSub, X: x, Y: y} }
func Mul(x, y Expr) Expr { return &BinOp{Op: OpMul, X: x, Y: y} }
func Div(x, y Expr) Expr { return &BinOp{Op: OpDiv, X: x, Y: y} }
func Mod(x, y Expr) Expr { return &BinOp{Op: OpMod, X: x, Y: y} }
func Min(x, y Expr) Expr { return &BinOp{Op: OpMin, X: x, Y: y} }
func Max(x, y Expr) Expr { return &BinOp{Op: OpMax, X: x, Y: y} }
func EQ(x, y Expr) Expr  { return &BinOp{Op: OpEQ, X: x, Y: y} }
func NE(x, y Expr) Expr  { return &BinOp{Op: OpNE, X: x, Y: y} }
func LT(x, y Expr) Expr  { return &BinOp{Op: OpLT, X: x, Y: y} }
func LE(x, y Expr) Expr  { return &BinOp{Op: OpLE, X: x, Y: y} }
func GT(x, y Expr) Expr  { return &BinOp{Op: OpGT, X: x, Y: y} }
func GE(x, y Expr) Expr  { return &BinOp{Op: OpGE, X: x, Y: y} }
func And(x, y Expr) Expr { return &BinOp{Op: OpAnd, X: x, Y: y} }
func Or(x, y Expr) Expr  { return &BinOp{Op: OpOr, X: x, Y: y} }

// LikelyExpr wraps e in a scheduling hint.
func LikelyExpr(e Expr) Expr { return &Likely{X: e} }

// SelectExpr builds a select(cond, then, else) expression.
func SelectExpr(cond, then, els Expr) Expr {
	return &Select{Cond: cond, Then: then, Else: els}
}

// Produce marks body as the producer of buffer name.
func Produce(name string, body Stmt) Stmt {
	return &ProducerConsumer{Name: name, IsProducer: true, Body: body}
}

// Consume marks body as a consumer of buffer name.
func Consume(name string, body Stmt) Stmt {
	return &ProducerConsumer{Name: name, IsProducer: false, Body: body}
}

// Seq builds a Block, flattening a single statement to itself.
func Seq(stmts ...Stmt) Stmt {
	if len(stmts) == 1 {
		return stmts[0]
	}
	return &Block{Stmts: stmts}
}

// IsConstOne reports whether e is the integer literal 1.
func IsConstOne(e Expr) bool {
	i, ok := e.(*IntImm)
	return ok && i.Value == 1
}

// IsPure reports whether e can be duplicated or recomputed freely. All
// expression nodes are side-effect free; only scheduling hints are excluded,
// because duplicating a likely marker distorts downstream lowering.
func IsPure(e Expr) bool {
	pure := true
	Walk(e, func(n Node) bool {
		if _, ok := n.(*Likely); ok {
			pure = false
			return false
		}
		return true
	})
	return pure
}
