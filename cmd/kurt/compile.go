package main

import (
	"fmt"

	"github.com/isaacazuelos/kurt/internal/compiler"
	"github.com/isaacazuelos/kurt/internal/parser"
	"github.com/isaacazuelos/kurt/internal/trace"
	"github.com/isaacazuelos/kurt/internal/vm"
	"github.com/isaacazuelos/kurt/pkg/diagnostic"
)

// compileAndRun compiles src as a whole module and runs it to completion,
// the non-REPL path shared by `run` and `eval`.
func compileAndRun(src string) error {
	const input diagnostic.InputID = 0

	m, perr := parser.Parse(input, src)
	if perr != nil {
		return perr
	}

	c := compiler.New(input, compiler.DefaultOptions())
	if cerr := c.CompileModule(m); cerr != nil {
		return cerr
	}
	built := c.Build()

	if verbose {
		printDisasm(built)
	}

	machine := vm.New()
	modIdx := machine.Load(input, built)

	result, rerr := machine.Start(modIdx)
	if rerr != nil {
		frames := make([]trace.Frame, 0, len(machine.CallStack()))
		for _, f := range machine.CallStack() {
			frames = append(frames, trace.Frame{FunctionName: f.FunctionName, Span: f.Span})
		}
		return trace.New(rerr, frames)
	}

	fmt.Println(formatValue(machine, result))
	return nil
}
