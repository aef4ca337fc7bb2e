package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"resolvable-generator/internal/config"
	"resolvable-generator/internal/diagnostic"
	"resolvable-generator/internal/logging"
	"resolvable-generator/internal/schema"
	"resolvable-generator/internal/synth"
)

// errInvalidSchemas is returned when a declaration file has error diagnostics.
var errInvalidSchemas = errors.New("declarations have errors")

// app carries the state shared by subcommands after flag parsing.
type app struct {
	configFile string
	cfg        *config.Config
	logger     *zap.Logger
}

// NewRootCommand creates the root command with every subcommand attached.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "resolvable-generator",
		Short: "Generate definition/instance/override/resolved shape families",
		Long: `resolvable-generator reads schema declarations and derives, for every schema,
a Definition, an Instance, a sparse Override and a merged Resolved shape
together with the resolver that builds Resolved records.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(a.configFile, cmd.Flags())
			if err != nil {
				return err
			}

			a.cfg = cfg
			a.logger = logging.New(cfg.Verbose)

			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default ./resolvable.yaml)")
	flags.Bool("no-color", false, "disable colored diagnostics")
	flags.BoolP("verbose", "v", false, "enable debug logging")
	flags.String("default-policy", "", "override policy for schemas that omit one (opt_in, all_overridable)")
	flags.String("default-pattern", "", "pattern for schemas that omit one (full, non_instantiable)")
	flags.String("duplicates", "", "duplicate override handling (reject, last_wins)")

	rootCmd.AddCommand(newAnalyzeCommand(a))
	rootCmd.AddCommand(newCheckCommand(a))
	rootCmd.AddCommand(newDescribeCommand(a))
	rootCmd.AddCommand(newGenCommand(a))
	rootCmd.AddCommand(newResolveCommand(a))

	return rootCmd
}

// process loads a declaration file and runs the synthesis pipeline.
// Diagnostics are written to w; a file with errors yields errInvalidSchemas.
func (a *app) process(ctx context.Context, w io.Writer, path string) (*synth.Registry, error) {
	f, err := schema.LoadFile(path)
	if err != nil {
		return nil, err
	}

	reg, diags, err := synth.NewProcessor(a.cfg.Defaults(), a.logger).Process(ctx, f)
	if err != nil {
		return nil, err
	}

	if err := diagnostic.Render(w, diags, a.cfg.NoColor); err != nil {
		return nil, err
	}

	if diags.HasErrors() {
		return reg, fmt.Errorf("%w: %s", errInvalidSchemas, diagnostic.Summary(diags))
	}

	return reg, nil
}
