// Package main provides the borncore CLI.
package main

import (
	"fmt"
	"os"

	"github.com/born-ml/borncore/graph"
	"github.com/born-ml/borncore/runtime"
)

const version = "v0.0.1-dev"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version":
			fmt.Printf("borncore %s\n", version)
			return
		case "demo":
			runDemo()
			return
		}
	}

	fmt.Println("borncore - computation-graph IR, optimizer, and memory planner")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version    Show version")
	fmt.Println("  demo       Build a small graph, optimize it, and plan its memory")
}

// runDemo builds the inverse-transpose-elimination example graph, prints it
// before and after optimize, then runs shape inference and data_malloc.
func runDemo() {
	rt := runtime.NewHeap()
	g := graph.New(rt)

	x := g.NewTensor(graph.Shape{2, 3, 4}, graph.Float32)
	_, y, err := g.AddTranspose(x, []int{0, 2, 1})
	must(err)
	_, z, err := g.AddTranspose(y, []int{0, 2, 1})
	must(err)
	_, _, err = g.AddGeneric(&graph.Generic{Name: "Relu"}, []*graph.Tensor{z})
	must(err)

	must(errIf(!g.TopoSort(), "cycle detected before optimize"))
	fmt.Println("--- before optimize ---")
	fmt.Print(g)

	must(graph.Optimize(g))

	must(errIf(!g.TopoSort(), "cycle detected after optimize"))
	must(g.ShapeInfer())
	fmt.Println("--- after optimize ---")
	fmt.Print(g)

	must(g.CheckValid())
	must(g.DataMalloc())
}

func errIf(cond bool, msg string) error {
	if cond {
		return fmt.Errorf("%s", msg)
	}
	return nil
}

func must(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "borncore:", err)
		os.Exit(1)
	}
}
