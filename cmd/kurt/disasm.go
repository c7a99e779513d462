package main

import (
	"os"

	"github.com/isaacazuelos/kurt/internal/compiler"
	"github.com/isaacazuelos/kurt/internal/parser"
	"github.com/isaacazuelos/kurt/pkg/diagnostic"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "disasm <file>",
		Short: "Compile a kurt source file and print its bytecode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			const input diagnostic.InputID = 0

			src, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			m, perr := parser.Parse(input, string(src))
			if perr != nil {
				return perr
			}

			c := compiler.New(input, compiler.DefaultOptions())
			if cerr := c.CompileModule(m); cerr != nil {
				return cerr
			}
			printDisasm(c.Build())
			return nil
		},
	}
	rootCmd.AddCommand(cmd)
}
