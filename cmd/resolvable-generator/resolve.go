package main

import (
	"github.com/spf13/cobra"

	"resolvable-generator/internal/engine"
)

func newResolveCommand(a *app) *cobra.Command {
	var dataFile, schemaName string

	cmd := &cobra.Command{
		Use:   "resolve <file>",
		Short: "Resolve the records of one schema from a YAML data set",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.process(cmd.Context(), cmd.ErrOrStderr(), args[0])
			if err != nil {
				return err
			}

			ds, err := engine.LoadDataSet(dataFile)
			if err != nil {
				return err
			}

			eng := engine.New(reg)
			eng.Duplicates = a.cfg.DuplicatePolicy()

			recs, err := eng.ResolveDataSet(ds, schemaName)
			if err != nil {
				return err
			}

			data, err := engine.MarshalRecords(recs)
			if err != nil {
				return err
			}

			_, err = cmd.OutOrStdout().Write(data)

			return err
		},
	}

	cmd.Flags().StringVar(&dataFile, "data", "", "YAML data set with definitions, overrides and instances")
	cmd.Flags().StringVar(&schemaName, "schema", "", "schema to resolve")
	_ = cmd.MarkFlagRequired("data")
	_ = cmd.MarkFlagRequired("schema")

	return cmd
}
