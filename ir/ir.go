// Package ir defines the lowered loop-nest intermediate representation
// consumed by the scheduling passes.
//
// Nodes are immutable and shared by reference: a rewrite never modifies a
// node in place, it rebuilds the spine from the changed node to the root and
// reuses every untouched subtree. Passes rely on pointer identity to detect
// "no change" cheaply, so helpers in this package return their argument
// unmodified whenever possible.
package ir

// A Node is any expression or statement in the IR.
type Node interface {
	String() string
}

// An Expr is a symbolic integer or boolean expression tree.
type Expr interface {
	Node
	exprNode()
}

// A Stmt is a loop-nest construct.
type Stmt interface {
	Node
	stmtNode()
}

// Op is a binary operator.
type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpMin
	OpMax
	OpEQ
	OpNE
	OpLT
	OpLE
	OpGT
	OpGE
	OpAnd
	OpOr
)

// IntImm is an integer literal.
type IntImm struct {
	Value int64
}

// BoolImm is a boolean literal.
type BoolImm struct {
	Value bool
}

// Variable is a reference to a named value bound elsewhere (a loop variable,
// a let binding, or a symbolic input left free by bounds inference).
type Variable struct {
	Name string
}

// BinOp applies Op to two subexpressions.
type BinOp struct {
	Op   Op
	X, Y Expr
}

// Not is boolean negation.
type Not struct {
	X Expr
}

// Select evaluates Then or Else depending on Cond.
type Select struct {
	Cond, Then, Else Expr
}

// LetExpr binds Name to Value within Body.
type LetExpr struct {
	Name  string
	Value Expr
	Body  Expr
}

// Likely is a scheduling hint marking X as the branch to favour when the
// enclosing condition is lowered. It has no semantic effect.
type Likely struct {
	X Expr
}

func (*IntImm) exprNode()   {}
func (*BoolImm) exprNode()  {}
func (*Variable) exprNode() {}
func (*BinOp) exprNode()    {}
func (*Not) exprNode()      {}
func (*Select) exprNode()   {}
func (*LetExpr) exprNode()  {}
func (*Likely) exprNode()   {}

// ForKind describes how the iterations of a For execute.
type ForKind int

const (
	Serial ForKind = iota
	Parallel
	Unrolled
	Vectorized
)

func (k ForKind) String() string {
	switch k {
	case Serial:
		return "serial"
	case Parallel:
		return "parallel"
	case Unrolled:
		return "unrolled"
	case Vectorized:
		return "vectorized"
	}
	return "unknown"
}

// For is a loop running Body for Name in [Min, Min+Extent).
type For struct {
	Name   string
	Min    Expr
	Extent Expr
	Kind   ForKind
	Body   Stmt
}

// LetStmt binds Name to Value within Body.
type LetStmt struct {
	Name  string
	Value Expr
	Body  Stmt
}

// ProducerConsumer marks Body as computing (IsProducer) or reading the
// buffer Name.
type ProducerConsumer struct {
	Name       string
	IsProducer bool
	Body       Stmt
}

// Range is a [Min, Min+Extent) interval of one allocation dimension.
type Range struct {
	Min    Expr
	Extent Expr
}

// Realize introduces storage for the buffer Name over Bounds for the
// duration of Body.
type Realize struct {
	Name   string
	Bounds []Range
	Body   Stmt
}

// IfThenElse runs Then when Cond holds. There is no else branch in the
// lowered form this pass sees.
type IfThenElse struct {
	Cond Expr
	Then Stmt
}

// Block runs Stmts in order.
type Block struct {
	Stmts []Stmt
}

// Provide stores Value to buffer Name at Index.
type Provide struct {
	Name  string
	Index []Expr
	Value Expr
}

func (*For) stmtNode()              {}
func (*LetStmt) stmtNode()          {}
func (*ProducerConsumer) stmtNode() {}
func (*Realize) stmtNode()          {}
func (*IfThenElse) stmtNode()       {}
func (*Block) stmtNode()            {}
func (*Provide) stmtNode()          {}
