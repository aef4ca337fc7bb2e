package synth

import (
	"context"
	"fmt"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"resolvable-generator/internal/classify"
	"resolvable-generator/internal/diagnostic"
	"resolvable-generator/internal/schema"
)

// Processor runs validation, extraction, classification and synthesis over a
// declaration file and links the result.
type Processor struct {
	Defaults schema.Defaults
	// Concurrency bounds the number of schemas processed at once; <= 0 means GOMAXPROCS.
	Concurrency int
	logger      *zap.Logger
}

// NewProcessor creates a processor. A nil logger disables logging.
func NewProcessor(defaults schema.Defaults, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Processor{Defaults: defaults, logger: logger}
}

type schemaResult struct {
	family *Family
	diags  diagnostic.Diagnostics
}

// Process synthesizes every schema of f. Schemas are independent, so they are
// processed concurrently; diagnostics are reported in declaration order.
// A schema with error diagnostics is not registered. The returned error is
// only set when ctx is cancelled.
func (p *Processor) Process(ctx context.Context, f *schema.File) (*Registry, diagnostic.Diagnostics, error) {
	reg := NewRegistry()
	diags := *schema.Validate(f)

	if f == nil {
		return reg, diags, nil
	}

	rejected := map[string]bool{}

	for _, d := range diags.Errors {
		if d.Schema == "" {
			p.logger.Info("declaration file rejected", zap.Int("errors", len(diags.Errors)))
			return reg, diags, nil
		}

		rejected[d.Schema] = true
	}

	results := make([]schemaResult, len(f.Schemas))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.limit())

	for i, decl := range f.Schemas {
		if rejected[decl.Name] || decl.Name == "" {
			continue
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			results[i] = p.processOne(decl)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, diags, fmt.Errorf("processing schemas: %w", err)
	}

	for _, res := range results {
		diags.Merge(res.diags)

		if res.family == nil {
			continue
		}

		if err := reg.Register(res.family); err != nil {
			diags.AddError(diagnostic.CodeDuplicateSchema, err.Error(), res.family.Name, "")
		}
	}

	diags.Merge(reg.Link())

	_, orderDiags := reg.Order()
	diags.Merge(orderDiags)

	p.logger.Info("schemas processed",
		zap.Int("declared", len(f.Schemas)),
		zap.Int("synthesized", reg.Len()),
		zap.Int("errors", len(diags.Errors)),
		zap.Int("warnings", len(diags.Warnings)),
	)

	return reg, diags, nil
}

// processOne handles a single declaration with no shared state.
func (p *Processor) processOne(decl schema.Declaration) schemaResult {
	var res schemaResult

	s, diags := schema.Extract(decl, p.Defaults)
	res.diags.Merge(diags)

	c, diags := classify.Classify(s)
	res.diags.Merge(diags)

	if res.diags.HasErrors() {
		p.logger.Debug("schema rejected",
			zap.String("schema", decl.Name),
			zap.Int("errors", len(res.diags.Errors)))

		return res
	}

	res.family = Synthesize(c)

	p.logger.Debug("schema synthesized",
		zap.String("schema", decl.Name),
		zap.Int("fields", len(c.Fields)),
		zap.Bool("instance", res.family.HasInstance()),
		zap.Bool("override", res.family.HasOverride()))

	return res
}

func (p *Processor) limit() int {
	if p.Concurrency > 0 {
		return p.Concurrency
	}

	return runtime.GOMAXPROCS(0)
}
