// Command kurt is the CLI front end for the language: run a file, eval an
// expression, start a REPL, or disassemble compiled bytecode. It follows
// hivectl's cobra root-command-plus-subcommand layout.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:     "kurt",
	Short:   "Run and inspect kurt programs",
	Version: "0.1.0",
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print the compiled module before running")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
