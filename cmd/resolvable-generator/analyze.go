package main

import (
	"github.com/spf13/cobra"

	"resolvable-generator/internal/analyze"
	"resolvable-generator/internal/schema"
)

func newAnalyzeCommand(a *app) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "analyze <patterns...>",
		Short: "Write declarations for the marked structs of Go packages",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			decls, err := analyze.NewAnalyzer(a.logger).LoadPackages(args...)
			if err != nil {
				return err
			}

			f := &schema.File{Version: schema.CurrentVersion, Schemas: decls}

			if out != "" {
				return schema.WriteFile(f, out)
			}

			data, err := schema.Marshal(f)
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(data)

			return err
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "declaration file to write (default stdout)")

	return cmd
}
