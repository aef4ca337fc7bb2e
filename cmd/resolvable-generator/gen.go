package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"resolvable-generator/internal/gen"
)

func newGenCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen <file>",
		Short: "Generate Go source for every schema of a declaration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.process(cmd.Context(), cmd.ErrOrStderr(), args[0])
			if err != nil {
				return err
			}

			cfg := a.cfg.Generator()

			files, err := gen.NewGenerator(cfg, a.logger).Generate(reg)
			if err != nil {
				return err
			}

			written, err := gen.WriteFiles(files, cfg.OutputDir)
			if err != nil {
				return err
			}

			for _, path := range written {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), path); err != nil {
					return err
				}
			}

			return nil
		},
	}

	cmd.Flags().StringP("output", "o", "", "output directory (default ./generated)")
	cmd.Flags().String("package", "", "package name of the generated files")

	return cmd
}
