// Package simulate provides a reference stack-effect simulator for
// generate's bytecode (spec §8's "stack discipline" testable property). It
// does not interpret instructions against real input — there is no parser
// runtime in scope — it only tracks how many values each instruction
// pushes or pops, so tests can assert that a rule's compiled bytecode
// nets exactly +1 on the stack and that every branch's arms agree.
//
// This is adapted from 32bitkid-pigeon's vm/ops.go decode-and-walk shape
// (ϡinstr/ϡencodeInstr and the opcode switch in its interpreter loop),
// generalized from that package's bit-packed uint64 instructions to this
// module's flat []int stream and its own opcode set.
package simulate

import (
	"fmt"

	"github.com/polkovnikov-ph/peggy/generate"
)

// Run computes the net stack-pointer effect of a single rule's bytecode.
// It panics (rather than returning an error) on any malformed instruction
// stream — a grammar that passed Check and Transform and was compiled by
// Bytecode should never produce one, so a panic here indicates a bug in
// the generator itself, not bad user input.
func Run(code []int) int {
	d, n := stepSequence(code)
	if n != len(code) {
		panic(fmt.Sprintf("simulate: %d trailing bytes after decoding rule bytecode", len(code)-n))
	}
	return d
}

// stepSequence walks a flat run of instructions (a rule body or a branch
// arm) to its end, returning the cumulative stack delta and how many ints
// were consumed.
func stepSequence(code []int) (delta, consumed int) {
	for consumed < len(code) {
		d, n := step(code[consumed:])
		delta += d
		consumed += n
	}
	return delta, consumed
}

// step decodes exactly one instruction at the front of code and returns
// its stack delta and width in ints.
func step(code []int) (delta, width int) {
	op := generate.Opcode(code[0])
	switch op {
	case generate.OpPushEmptyString, generate.OpPushUndefined, generate.OpPushNull,
		generate.OpPushFailed, generate.OpPushEmptyArray, generate.OpPushCurrPos:
		return 1, 1
	case generate.OpPop, generate.OpPopCurrPos, generate.OpNip, generate.OpAppend:
		return -1, 1
	case generate.OpPopN:
		n := code[1]
		return -n, 2
	case generate.OpWrap:
		n := code[1]
		return 1 - n, 2
	case generate.OpText:
		return 0, 1
	case generate.OpPluck:
		total := code[1]
		k := code[2]
		return -(total - 1), 3 + k
	case generate.OpIf, generate.OpIfError, generate.OpIfNotError:
		return branchDelta(op, code)
	case generate.OpWhileNotError:
		bodyLen := code[1]
		body := code[2 : 2+bodyLen]
		bd, bn := stepSequence(body)
		if bn != bodyLen {
			panic("simulate: WHILE_NOT_ERROR body length mismatch")
		}
		if bd != 0 {
			panic(fmt.Sprintf("simulate: WHILE_NOT_ERROR body nets %d, want 0", bd))
		}
		return 0, 2 + bodyLen
	case generate.OpMatchAny:
		return matchBranchDelta(code, 0)
	case generate.OpMatchString, generate.OpMatchStringIC, generate.OpMatchCharClass:
		return matchBranchDelta(code, 1)
	case generate.OpAcceptN, generate.OpAcceptString, generate.OpFail:
		return 1, 2
	case generate.OpLoadSavedPos, generate.OpUpdateSavedPos:
		if op == generate.OpUpdateSavedPos {
			return 0, 1
		}
		return 0, 2
	case generate.OpCall:
		delta := code[2]
		arity := code[3]
		return -delta + 1, 4 + arity
	case generate.OpRule:
		return 1, 2
	case generate.OpSilentFailsOn, generate.OpSilentFailsOff:
		return 0, 1
	default:
		panic(fmt.Sprintf("simulate: unknown opcode %d", code[0]))
	}
}

// branchDelta decodes a plain two-armed branch instruction (op, thenLen,
// elseLen, then-body, else-body) at code[0:], requiring the two arms to
// have an identical net delta (spec §8's branch-consistency property).
func branchDelta(op generate.Opcode, code []int) (delta, width int) {
	thenLen, elseLen := code[1], code[2]
	then := code[3 : 3+thenLen]
	els := code[3+thenLen : 3+thenLen+elseLen]
	td, tn := stepSequence(then)
	if tn != thenLen {
		panic(fmt.Sprintf("simulate: %s then-arm length mismatch", op))
	}
	ed, en := stepSequence(els)
	if en != elseLen {
		panic(fmt.Sprintf("simulate: %s else-arm length mismatch", op))
	}
	if td != ed {
		panic(fmt.Sprintf("simulate: %s then-arm nets %d, else-arm nets %d", op, td, ed))
	}
	return td, 3 + thenLen + elseLen
}

// matchBranchDelta decodes a MATCH_* fused instruction: op, preOperandN
// opcode-specific operands, thenLen, elseLen, then-body, else-body.
func matchBranchDelta(code []int, preOperands int) (delta, width int) {
	thenLen, elseLen := code[1+preOperands], code[2+preOperands]
	base := 3 + preOperands
	then := code[base : base+thenLen]
	els := code[base+thenLen : base+thenLen+elseLen]
	td, tn := stepSequence(then)
	if tn != thenLen {
		panic("simulate: match then-arm length mismatch")
	}
	ed, en := stepSequence(els)
	if en != elseLen {
		panic("simulate: match else-arm length mismatch")
	}
	if td != ed {
		panic(fmt.Sprintf("simulate: match then-arm nets %d, else-arm nets %d", td, ed))
	}
	return td, base + thenLen + elseLen
}
