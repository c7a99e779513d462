package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/isaacazuelos/kurt/internal/compiler"
	"github.com/isaacazuelos/kurt/internal/trace"
	"github.com/isaacazuelos/kurt/internal/vm"
	"github.com/isaacazuelos/kurt/pkg/diagnostic"
	"github.com/isaacazuelos/kurt/pkg/index"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runRepl(os.Stdin, os.Stdout)
			return nil
		},
	}
	rootCmd.AddCommand(cmd)
}

// runRepl implements the incremental PushSyntax/ReloadMain/Resume cycle:
// each line is compiled onto the same growing module (spec.md §4.2's
// "resumable compilation"), and the VM's suspended main frame picks up
// exactly where the previous line left off.
func runRepl(in *os.File, out *os.File) {
	const input diagnostic.InputID = 0

	c := compiler.New(input, compiler.DefaultOptions())
	machine := vm.New()

	var modIdx index.Module
	loaded := false

	scanner := bufio.NewScanner(in)
	fmt.Fprint(out, "> ")
	for scanner.Scan() {
		line := scanner.Text()

		if cerr := c.PushSyntax(line); cerr != nil {
			fmt.Fprintln(out, cerr.Error())
			fmt.Fprint(out, "> ")
			continue
		}
		built := c.Build()

		if !loaded {
			modIdx = machine.Load(input, built)
			loaded = true
		} else {
			machine.ReloadMain(modIdx, built)
		}

		result, rerr := machine.Resume(modIdx)
		if rerr != nil {
			frames := make([]trace.Frame, 0, len(machine.CallStack()))
			for _, f := range machine.CallStack() {
				frames = append(frames, trace.Frame{FunctionName: f.FunctionName, Span: f.Span})
			}
			fmt.Fprintln(out, trace.New(rerr, frames).Error())
		} else {
			fmt.Fprintln(out, formatValue(machine, result))
		}
		fmt.Fprint(out, "> ")
	}
	fmt.Fprintln(out)
}
