package main

import (
	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newDescribeCommand(a *app) *cobra.Command {
	var dump bool

	cmd := &cobra.Command{
		Use:   "describe <file>",
		Short: "Print the synthesized descriptor families",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.process(cmd.Context(), cmd.ErrOrStderr(), args[0])
			if err != nil {
				return err
			}

			families, _ := reg.Order()

			if dump {
				cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, SortKeys: true}
				cfg.Fdump(cmd.OutOrStdout(), families)

				return nil
			}

			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)

			if err := enc.Encode(families); err != nil {
				return err
			}

			return enc.Close()
		},
	}

	cmd.Flags().BoolVar(&dump, "dump", false, "print a Go value dump instead of YAML")

	return cmd
}
