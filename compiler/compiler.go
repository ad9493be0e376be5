// Package compiler is the pipeline driver (spec §4.7, C7): it owns the
// default pass lists, runs plugin configuration hooks, validates options,
// and drives the grammar through check, transform, and generate in order,
// stopping as soon as a stage reports an error.
//
// Options, Pass, Plugin, and Config are the leaf types from package
// options, re-exported here under the names callers actually reach for —
// this package is the one with an import cycle to avoid (it assembles
// default passes from check/transform/generate), so the shared shapes live
// one level down.
package compiler

import (
	"errors"

	"github.com/polkovnikov-ph/peggy/ast"
	"github.com/polkovnikov-ph/peggy/check"
	"github.com/polkovnikov-ph/peggy/diag"
	"github.com/polkovnikov-ph/peggy/generate"
	"github.com/polkovnikov-ph/peggy/options"
	"github.com/polkovnikov-ph/peggy/transform"
)

type (
	Options = options.Options
	Pass    = options.Pass
	Plugin  = options.Plugin
	Config  = options.Config
	Output  = options.Output
)

const (
	OutputParser              = options.OutputParser
	OutputSource              = options.OutputSource
	OutputSourceAndMap        = options.OutputSourceAndMap
	OutputSourceWithInlineMap = options.OutputSourceWithInlineMap
	OutputAST                 = options.OutputAST
)

// DefaultReservedWords is the ECMAScript 2015 reserved-word list plus the
// strict-mode and module-mode additions (spec §6, "Reserved-word list").
// It is a JavaScript-emitter concern carried here purely as external
// configuration a plugin or emitter may consult; the core itself only
// ever copies and hands the list onward.
var DefaultReservedWords = []string{
	"break", "case", "catch", "class", "const", "continue", "debugger",
	"default", "delete", "do", "else", "export", "extends", "finally",
	"for", "function", "if", "import", "in", "instanceof", "new", "return",
	"super", "switch", "this", "throw", "try", "typeof", "var", "void",
	"while", "with", "null", "true", "false", "enum", "implements",
	"interface", "let", "package", "private", "protected", "public",
	"static", "yield", "await",
}

// canonicalConfig is the package-level default configuration: one fixed
// instance of the default per-stage pass lists and reserved-word list,
// built once. DefaultConfig clones it rather than handing it out directly,
// so a plugin's mutations of its own per-invocation Config never reach
// this shared instance.
var canonicalConfig = &Config{
	Passes: map[options.Stage][]Pass{
		diag.StageCheck:     check.DefaultPasses(),
		diag.StageTransform: transform.DefaultPasses(),
		diag.StageGenerate:  generate.DefaultPasses(),
	},
	ReservedWords: append([]string(nil), DefaultReservedWords...),
}

// DefaultConfig clones the package's default per-stage pass lists and
// default reserved-word list into a fresh Config — the pipeline's starting
// configuration before any plugin hook runs (spec §4.7: "the driver clones
// the default pass lists ... copies the default reserved-word list").
func DefaultConfig() *Config {
	return canonicalConfig.Clone()
}

// Emitter is the seam for an out-of-scope target-language emitter: turning
// a compiled grammar into runnable parser source, a source map, or a
// loadable Parser value is outside this core's responsibility (spec §1).
// Generate calls Emit only when Options.Output != OutputAST.
type Emitter interface {
	Emit(g *ast.Grammar, opts *Options) (any, error)
}

// ErrEmitterNotConfigured is returned by Generate when Options.Output asks
// for anything beyond the AST itself but Options carries no Emitter. This
// is a usage error (spec §7's taxonomy) — a caller-configuration mistake,
// not a problem with the grammar — so it is returned directly rather than
// routed through the diagnostics session.
var ErrEmitterNotConfigured = errors.New("compiler: no Emitter configured for the requested output")
