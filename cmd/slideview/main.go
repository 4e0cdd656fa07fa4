// Command slideview prints a lowered pipeline fragment before and after the
// sliding window pass.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/xyproto/env/v2"

	"github.com/ripl-lang/ripl/funcs"
	"github.com/ripl-lang/ripl/ir"
	"github.com/ripl-lang/ripl/slide"
)

const (
	Usage = `slideview is a tool for inspecting the sliding window pass.

It builds a lowered blur pipeline, applies the pass, and prints the IR
before and after. Set SLIDEVIEW_DEBUG=1 to trace the slide decisions.

Usage:

  slideview [options]

Options:

`
)

var (
	outPath string
	debug   bool

	out io.Writer
)

func init() {
	flag.StringVar(&outPath, "out", "", "Specify output file (default: stdout)")
	flag.BoolVar(&debug, "debug", env.Bool("SLIDEVIEW_DEBUG"), "Trace slide decisions")
}

func main() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, Usage)
		flag.PrintDefaults()
	}
	flag.Parse()
	if env.Bool("SLIDEVIEW_NOCOLOR") {
		color.NoColor = true
	}

	switch outPath {
	case "":
		out = os.Stdout
	default:
		f, err := os.Create(outPath)
		if err != nil {
			log.Fatalf("Cannot create output file %s: %v", outPath, err)
		}
		defer f.Close()
		out = f
	}

	stmt, fenv := blurPipeline()

	var opts []slide.Option
	if debug {
		opts = append(opts, slide.WithLogger(slide.NewLogger()))
	}

	header := color.New(color.FgGreen, color.Bold)
	header.Fprintln(out, "Before sliding window:")
	ir.Fprint(out, stmt)

	after := slide.Run(stmt, fenv, opts...)

	fmt.Fprintln(out)
	header.Fprintln(out, "After sliding window:")
	ir.Fprint(out, after)
}

// blurPipeline lowers a 1-D blur by hand: a producer blurred over a 3-wide
// stencil of in, recomputed per iteration of the consumer loop v, with its
// storage hoisted outside the loop.
func blurPipeline() (ir.Stmt, funcs.Env) {
	v := ir.Var("v")
	produce := ir.Produce("blurred", &ir.For{
		Name:   "x",
		Min:    ir.Var("blurred.s0.x.min"),
		Extent: ir.Add(ir.Sub(ir.Var("blurred.s0.x.max"), ir.Var("blurred.s0.x.min")), ir.Int(1)),
		Kind:   ir.Serial,
		Body: &ir.Provide{
			Name:  "blurred",
			Index: []ir.Expr{ir.Var("x")},
			Value: ir.Add(ir.Var("in"), ir.Var("x")),
		},
	})
	consume := ir.Consume("blurred", &ir.Provide{
		Name:  "out",
		Index: []ir.Expr{v},
		Value: ir.Add(ir.Add(v, ir.Add(v, ir.Int(1))), ir.Add(v, ir.Int(2))),
	})

	var body ir.Stmt = ir.Seq(produce, consume)
	body = &ir.LetStmt{Name: "blurred.s0.x.max", Value: ir.Add(v, ir.Int(2)), Body: body}
	body = &ir.LetStmt{Name: "blurred.s0.x.min", Value: v, Body: body}

	var loop ir.Stmt = &ir.For{
		Name:   "v",
		Min:    ir.Var("v.loop_min"),
		Extent: ir.Var("v.loop_extent"),
		Kind:   ir.Serial,
		Body:   body,
	}
	loop = &ir.LetStmt{Name: "v.loop_max", Value: ir.Int(9), Body: loop}
	loop = &ir.LetStmt{Name: "v.loop_extent", Value: ir.Int(10), Body: loop}
	loop = &ir.LetStmt{Name: "v.loop_min", Value: ir.Int(0), Body: loop}

	root := &ir.Realize{
		Name:   "blurred",
		Bounds: []ir.Range{{Min: ir.Int(0), Extent: ir.Int(12)}},
		Body:   loop,
	}

	blurred := funcs.Make("blurred", "x").Schedule(funcs.Root(), funcs.At("out", "v"))
	return root, funcs.MakeEnv(blurred)
}
