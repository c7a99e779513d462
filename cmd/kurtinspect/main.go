package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/isaacazuelos/kurt/internal/compiler"
	"github.com/isaacazuelos/kurt/internal/parser"
	"github.com/isaacazuelos/kurt/pkg/diagnostic"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: kurtinspect <file>")
		os.Exit(1)
	}

	src, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	const input diagnostic.InputID = 0
	m, perr := parser.Parse(input, string(src))
	if perr != nil {
		fmt.Fprintln(os.Stderr, perr.Error())
		os.Exit(1)
	}

	c := compiler.New(input, compiler.DefaultOptions())
	if cerr := c.CompileModule(m); cerr != nil {
		fmt.Fprintln(os.Stderr, cerr.Error())
		os.Exit(1)
	}

	p := tea.NewProgram(newModel(c.Build()))
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
