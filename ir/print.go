package ir

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Fprint writes a readable rendering of the tree rooted at n to w.
func Fprint(w io.Writer, n Node) {
	p := printer{w: w}
	switch n := n.(type) {
	case Stmt:
		p.stmt(n)
	case Expr:
		fmt.Fprint(w, exprString(n))
	}
}

// PrintString renders a statement tree to a string.
func PrintString(s Stmt) string {
	var buf bytes.Buffer
	Fprint(&buf, s)
	return buf.String()
}

type printer struct {
	w      io.Writer
	indent int
}

func (p *printer) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.w, "%s", strings.Repeat("  ", p.indent))
	fmt.Fprintf(p.w, format, args...)
}

func (p *printer) block(body Stmt) {
	p.indent++
	p.stmt(body)
	p.indent--
}

func (p *printer) stmt(s Stmt) {
	switch s := s.(type) {
	case *For:
		p.printf("for<%s> (%s, %s, %s) {\n", s.Kind, s.Name, exprString(s.Min), exprString(s.Extent))
		p.block(s.Body)
		p.printf("}\n")
	case *LetStmt:
		p.printf("let %s = %s\n", s.Name, exprString(s.Value))
		p.stmt(s.Body)
	case *ProducerConsumer:
		if s.IsProducer {
			p.printf("produce %s {\n", s.Name)
		} else {
			p.printf("consume %s {\n", s.Name)
		}
		p.block(s.Body)
		p.printf("}\n")
	case *Realize:
		bounds := make([]string, len(s.Bounds))
		for i, b := range s.Bounds {
			bounds[i] = fmt.Sprintf("[%s, %s]", exprString(b.Min), exprString(b.Extent))
		}
		p.printf("realize %s(%s) {\n", s.Name, strings.Join(bounds, ", "))
		p.block(s.Body)
		p.printf("}\n")
	case *IfThenElse:
		p.printf("if (%s) {\n", exprString(s.Cond))
		p.block(s.Then)
		p.printf("}\n")
	case *Block:
		for _, child := range s.Stmts {
			p.stmt(child)
		}
	case *Provide:
		index := make([]string, len(s.Index))
		for i, idx := range s.Index {
			index[i] = exprString(idx)
		}
		p.printf("%s(%s) = %s\n", s.Name, strings.Join(index, ", "), exprString(s.Value))
	}
}

func opString(op Op) string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpMod:
		return "%"
	case OpEQ:
		return "=="
	case OpNE:
		return "!="
	case OpLT:
		return "<"
	case OpLE:
		return "<="
	case OpGT:
		return ">"
	case OpGE:
		return ">="
	case OpAnd:
		return "&&"
	case OpOr:
		return "||"
	}
	return "?"
}

func exprString(e Expr) string {
	switch e := e.(type) {
	case *IntImm:
		return strconv.FormatInt(e.Value, 10)
	case *BoolImm:
		return strconv.FormatBool(e.Value)
	case *Variable:
		return e.Name
	case *BinOp:
		switch e.Op {
		case OpMin:
			return fmt.Sprintf("min(%s, %s)", exprString(e.X), exprString(e.Y))
		case OpMax:
			return fmt.Sprintf("max(%s, %s)", exprString(e.X), exprString(e.Y))
		}
		return fmt.Sprintf("(%s %s %s)", exprString(e.X), opString(e.Op), exprString(e.Y))
	case *Not:
		return fmt.Sprintf("!(%s)", exprString(e.X))
	case *Select:
		return fmt.Sprintf("select(%s, %s, %s)", exprString(e.Cond), exprString(e.Then), exprString(e.Else))
	case *LetExpr:
		return fmt.Sprintf("(let %s = %s in %s)", e.Name, exprString(e.Value), exprString(e.Body))
	case *Likely:
		return fmt.Sprintf("likely(%s)", exprString(e.X))
	}
	return "<nil>"
}

func (e *IntImm) String() string   { return exprString(e) }
func (e *BoolImm) String() string  { return exprString(e) }
func (e *Variable) String() string { return exprString(e) }
func (e *BinOp) String() string    { return exprString(e) }
func (e *Not) String() string      { return exprString(e) }
func (e *Select) String() string   { return exprString(e) }
func (e *LetExpr) String() string  { return exprString(e) }
func (e *Likely) String() string   { return exprString(e) }

func (s *For) String() string              { return PrintString(s) }
func (s *LetStmt) String() string          { return PrintString(s) }
func (s *ProducerConsumer) String() string { return PrintString(s) }
func (s *Realize) String() string          { return PrintString(s) }
func (s *IfThenElse) String() string       { return PrintString(s) }
func (s *Block) String() string            { return PrintString(s) }
func (s *Provide) String() string          { return PrintString(s) }
