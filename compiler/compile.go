package compiler

import (
	"fmt"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/polkovnikov-ph/peggy/ast"
	"github.com/polkovnikov-ph/peggy/diag"
)

// stageOrder is the fixed check → transform → generate sequence (spec §2).
var stageOrder = []diag.Stage{diag.StageCheck, diag.StageTransform, diag.StageGenerate}

// Compile runs the full pipeline against an already-parsed grammar: it
// clones the default pass lists and reserved-word list into a fresh
// Config, runs every configured plugin's Use hook, validates and
// normalizes Options.AllowedStartRules, then drives the grammar through
// each stage's passes in order, stopping as soon as a stage ends with a
// recorded error (spec §4.7).
//
// It does not parse grammar source — the meta-grammar parser is an
// external collaborator (spec §1) — so g must already be a complete,
// located AST.
func Compile(g *ast.Grammar, opts *Options) (*diag.Session, error) {
	cfg := DefaultConfig()
	for _, p := range opts.Plugins {
		if err := p.Use(cfg, opts); err != nil {
			return nil, fmt.Errorf("compiler: plugin configuration failed: %w", err)
		}
	}
	if err := normalizeAllowedStartRules(g, opts); err != nil {
		return nil, err
	}

	s := diag.NewSession(opts.OnError, opts.OnWarning, opts.OnInfo, opts.Log)
	log := s.Logger()

	for _, stage := range stageOrder {
		s.Stage = stage
		log.Debug("stage start",
			zap.Stringer("stage", stage),
			zap.String("session", s.ID.String()),
			zap.Int("rules", len(g.Rules)))

		for _, pass := range cfg.Passes[stage] {
			before := len(s.Problems)
			if err := pass(g, opts, s); err != nil {
				return s, fmt.Errorf("compiler: %s: %w", stage, err)
			}
			if len(s.Problems) > before {
				log.Info("pass reported problems",
					zap.Stringer("stage", stage),
					zap.Int("count", len(s.Problems)-before))
			}
		}
		if err := s.CheckErrors(); err != nil {
			return s, err
		}
	}
	return s, nil
}

// normalizeAllowedStartRules applies spec §4.7's option-validation rules:
// an empty list defaults to the grammar's first rule; the sentinel "*"
// expands to every rule name; any other unknown rule name is a fatal
// usage error, caught here before a single pass runs.
func normalizeAllowedStartRules(g *ast.Grammar, opts *Options) error {
	if len(opts.AllowedStartRules) == 0 {
		if len(g.Rules) == 0 {
			return fmt.Errorf("compiler: grammar has no rules to default allowedStartRules to")
		}
		opts.AllowedStartRules = []string{g.Rules[0].Name}
		return nil
	}
	if len(opts.AllowedStartRules) == 1 && opts.AllowedStartRules[0] == "*" {
		opts.AllowedStartRules = lo.Map(g.Rules, func(r *ast.Rule, _ int) string { return r.Name })
		return nil
	}
	for _, name := range opts.AllowedStartRules {
		if ast.FindRule(g, name) == nil {
			return fmt.Errorf("compiler: allowedStartRules: %q is not a rule in this grammar", name)
		}
	}
	return nil
}

// Generate is the top-level entry point (spec §2/§6): it runs Compile and,
// unless Options.Output is OutputAST, hands the compiled grammar to the
// configured Emitter. With no Emitter configured, any non-AST output
// fails with ErrEmitterNotConfigured rather than silently producing
// nothing.
func Generate(g *ast.Grammar, opts *Options) (*diag.Session, error) {
	s, err := Compile(g, opts)
	if err != nil {
		return s, err
	}
	if opts.Output == OutputAST {
		return s, nil
	}
	emitter, ok := opts.Emitter.(Emitter)
	if !ok || emitter == nil {
		return s, ErrEmitterNotConfigured
	}
	if _, err := emitter.Emit(g, opts); err != nil {
		return s, fmt.Errorf("compiler: emit: %w", err)
	}
	return s, nil
}
