package main

import "github.com/spf13/cobra"

func init() {
	cmd := &cobra.Command{
		Use:   "eval <source>",
		Short: "Compile and run a kurt expression given on the command line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return compileAndRun(args[0])
		},
	}
	rootCmd.AddCommand(cmd)
}
