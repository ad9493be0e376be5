package generate

import "github.com/polkovnikov-ph/peggy/ast"

// envBinding records the stack depth a label was bound at.
type envBinding struct {
	name string
	sp   int
}

// genEnv is an immutable, order-preserving label environment (spec §9's
// "represent the environment as an immutable persistent map" design note).
// bind never mutates the receiver, so a genEnv can be safely handed to
// several callers (e.g. every alternative of a Choice) without cloning.
type genEnv []envBinding

func (e genEnv) bind(name string, sp int) genEnv {
	next := make(genEnv, len(e), len(e)+1)
	copy(next, e)
	return append(next, envBinding{name: name, sp: sp})
}

// names returns the bound label names in binding order, for FunctionDesc.Params.
func (e genEnv) names() []string {
	if len(e) == 0 {
		return nil
	}
	names := make([]string, len(e))
	for i, b := range e {
		names[i] = b.name
	}
	return names
}

// offsets returns, for each bound label in binding order, its distance
// below the given current stack pointer (spec §4.6 build_call: "offset =
// sp - env[name]").
func (e genEnv) offsets(sp int) []int {
	if len(e) == 0 {
		return nil
	}
	offs := make([]int, len(e))
	for i, b := range e {
		offs[i] = sp - b.sp
	}
	return offs
}

// genContext is the per-expression compilation context threaded through
// emission: sp, env and the nearest enclosing action. The pluck list is not
// part of it; sequenceRec passes it as a separate argument.
// sp is the 0-based depth of the most recently pushed value relative to
// the rule's entry stack (an empty stack has sp -1); every emitted
// fragment nets exactly +1 against it.
type genContext struct {
	sp     int
	env    genEnv
	action *ast.Action
}
