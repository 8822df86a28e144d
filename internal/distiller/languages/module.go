// Package languages implements the per-language extraction modules. Each
// module chains strategies ordered by fidelity: a structured parser first,
// then a line-oriented scanner that approximates declaration boundaries when
// the structured parser is unavailable or fails on a given file.
package languages

import (
	"context"
	"fmt"

	"github.com/apisurface/distill/internal/distiller"
)

// Strategy is one extraction implementation inside a module's chain.
type Strategy interface {
	// Name identifies the strategy in diagnostics.
	Name() string

	// Probe verifies the strategy can run at all. Called once at module
	// initialization so the cost is not paid per file.
	Probe() error

	// Extract distills one file or returns an error, in which case the
	// module falls through to the next strategy.
	Extract(ctx context.Context, source []byte, path string, opts distiller.Options) (*distiller.ProcessResult, error)
}

// module is the shared strategy-chain runner behind every language.
type module struct {
	name       string
	extensions []string
	caps       distiller.Capabilities
	strategies []Strategy
	available  []Strategy
}

func newModule(name string, extensions []string, caps distiller.Capabilities, strategies ...Strategy) *module {
	return &module{
		name:       name,
		extensions: extensions,
		caps:       caps,
		strategies: strategies,
	}
}

func (m *module) Name() string                        { return m.name }
func (m *module) Extensions() []string                { return m.extensions }
func (m *module) Capabilities() distiller.Capabilities { return m.caps }

// Init probes every strategy and keeps the ones that answered. At least one
// strategy must survive or the module is unusable.
func (m *module) Init() error {
	m.available = m.available[:0]
	var lastErr error
	for _, s := range m.strategies {
		if err := s.Probe(); err != nil {
			lastErr = err
			continue
		}
		m.available = append(m.available, s)
	}
	if len(m.available) == 0 {
		return fmt.Errorf("%s: no extraction strategy available: %w", m.name, lastErr)
	}
	return nil
}

// Process tries each available strategy in fidelity order. A strategy error
// is wrapped as a ParseError and recorded; only when every strategy fails
// does the module return the degraded empty result. Process itself returns
// an error only for context cancellation.
func (m *module) Process(ctx context.Context, source []byte, path string, opts distiller.Options) (*distiller.ProcessResult, error) {
	if len(m.available) == 0 {
		if err := m.Init(); err != nil {
			return distiller.EmptyResult(err.Error()), nil
		}
	}

	var diagnostics []string
	for _, s := range m.available {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result, err := m.tryStrategy(ctx, s, source, path, opts)
		if err != nil {
			perr := &distiller.ParseError{Strategy: s.Name(), Path: path, Err: err}
			diagnostics = append(diagnostics, perr.Error())
			continue
		}
		result.Diagnostics = append(diagnostics, result.Diagnostics...)
		return result, nil
	}
	return distiller.EmptyResult(diagnostics...), nil
}

// tryStrategy isolates one attempt, converting panics inside a parser into
// ordinary errors so the chain can keep falling through.
func (m *module) tryStrategy(ctx context.Context, s Strategy, source []byte, path string, opts distiller.Options) (result *distiller.ProcessResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("strategy panicked: %v", r)
		}
	}()

	result, err = s.Extract(ctx, source, path, opts)
	if err == nil && result == nil {
		err = fmt.Errorf("strategy produced no result")
	}
	return result, err
}
