// Package options defines the compile-time configuration shared by every
// stage of the pipeline (spec §6): it is a leaf package so that check,
// transform and generate can all depend on the Options/Pass/Plugin shapes
// without creating an import cycle back through the compiler package that
// assembles them.
package options

import (
	"go.uber.org/zap"

	"github.com/polkovnikov-ph/peggy/ast"
	"github.com/polkovnikov-ph/peggy/diag"
)

// Output selects what compiler.Generate produces (spec §6).
type Output int

const (
	OutputParser Output = iota
	OutputSource
	OutputSourceAndMap
	OutputSourceWithInlineMap
	OutputAST
)

// Options is the input options record of spec §6.
type Options struct {
	// AllowedStartRules is the set of rule names usable as entry points.
	// "*" expands to every rule name; the zero value defaults to the
	// first rule's name (spec §4.7).
	AllowedStartRules []string

	Cache bool
	Trace bool

	// GrammarSource is an opaque identifier attached to every location
	// range for error formatting; the core never interprets it.
	GrammarSource any

	Plugins []Plugin

	OnError   diag.Callback
	OnWarning diag.Callback
	OnInfo    diag.Callback

	Output Output
	Format string

	// ReceiverName names the receiver variable for generated code blocks
	// (an emitter concern, passed through unchanged — mirrors pigeon's
	// -receiver-name flag, doc.go).
	ReceiverName string

	// Log is an optional structured logger; nil is treated as a no-op
	// logger (see diag.NewSession).
	Log *zap.Logger

	// Emitter is the out-of-scope target-language emitter, consulted by
	// compiler.Generate whenever Output != OutputAST. Typed any here (the
	// compiler.Emitter interface lives one level up, to keep this package
	// free of a cycle back to compiler) and type-asserted there.
	Emitter any
}

// Pass is the shape of every check/transform/generate pass: it receives
// the AST, the compile options and a shared session, and may mutate the
// AST or report diagnostics (spec §2). It returns an error only for
// infeasible-invariant (internal bug) conditions — semantic problems are
// reported through the session, never returned.
type Pass func(g *ast.Grammar, opts *Options, s *diag.Session) error

// Plugin is a configurator run once, before compilation starts, that may
// extend the pass lists, replace the reserved-word list, or swap the
// meta-grammar parser (spec §9 "Plugin hook"). The core does not implement
// dynamic plugin loading — only the hook shape.
type Plugin interface {
	Use(cfg *Config, opts *Options) error
}

// Stage identifies which of the three pipeline stages a pass list belongs
// to.
type Stage = diag.Stage

// Config is the mutable per-invocation pipeline configuration a plugin may
// alter: the cloned default pass lists and the cloned default reserved-word
// list (spec §4.7 — "clones the default pass lists... so plugins may
// extend per-invocation without global mutation").
type Config struct {
	Passes        map[Stage][]Pass
	ReservedWords []string
}

// Clone returns a deep-enough copy of cfg for a single compilation: the
// Passes map and each of its slices, and the ReservedWords slice, are all
// copied so a plugin's mutations never leak back into the package-level
// defaults.
func (c *Config) Clone() *Config {
	cp := &Config{
		Passes:        make(map[Stage][]Pass, len(c.Passes)),
		ReservedWords: append([]string(nil), c.ReservedWords...),
	}
	for stage, passes := range c.Passes {
		cp.Passes[stage] = append([]Pass(nil), passes...)
	}
	return cp
}
