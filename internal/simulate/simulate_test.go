package simulate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/polkovnikov-ph/peggy/generate"
	"github.com/polkovnikov-ph/peggy/internal/simulate"
)

func TestRunFlatStackOps(t *testing.T) {
	code := []int{int(generate.OpPushEmptyArray), int(generate.OpPushFailed), int(generate.OpAppend)}
	assert.Equal(t, 1, simulate.Run(code))
}

func TestRunWrapAndPluck(t *testing.T) {
	wrap := []int{int(generate.OpPushUndefined), int(generate.OpPushUndefined), int(generate.OpWrap), 2}
	assert.Equal(t, 1, simulate.Run(wrap))

	pluck := []int{
		int(generate.OpPushUndefined), int(generate.OpPushUndefined), int(generate.OpPushUndefined),
		int(generate.OpPluck), 3, 1, 0,
	}
	assert.Equal(t, 1, simulate.Run(pluck))
}

func TestRunBalancedBranchSucceeds(t *testing.T) {
	thenCode := []int{int(generate.OpPop), int(generate.OpPushNull)}
	elseCode := []int{}
	code := append([]int{int(generate.OpPushFailed)}, branch(generate.OpIfError, thenCode, elseCode)...)
	assert.Equal(t, 1, simulate.Run(code))
}

func TestRunUnbalancedBranchPanics(t *testing.T) {
	thenCode := []int{int(generate.OpPushNull)}
	elseCode := []int{}
	code := append([]int{int(generate.OpPushFailed)}, branch(generate.OpIfError, thenCode, elseCode)...)
	assert.Panics(t, func() { simulate.Run(code) })
}

func TestRunWhileNotErrorRequiresZeroNetBody(t *testing.T) {
	goodBody := []int{int(generate.OpPushUndefined), int(generate.OpPop)}
	good := loopInstr(generate.OpWhileNotError, goodBody)
	assert.NotPanics(t, func() { simulate.Run(good) })

	badBody := []int{int(generate.OpPushUndefined)}
	bad := loopInstr(generate.OpWhileNotError, badBody)
	assert.Panics(t, func() { simulate.Run(bad) })
}

func TestRunMatchStringFusedBranch(t *testing.T) {
	thenCode := []int{int(generate.OpAcceptString), 0}
	elseCode := []int{int(generate.OpFail), 0}
	code := []int{int(generate.OpMatchString), 0, len(thenCode), len(elseCode)}
	code = append(code, thenCode...)
	code = append(code, elseCode...)
	assert.Equal(t, 1, simulate.Run(code))
}

func TestRunUnknownOpcodePanics(t *testing.T) {
	assert.Panics(t, func() { simulate.Run([]int{999}) })
}

// branch is a tiny local re-implementation of generate's unexported branch
// helper, kept here so this black-box test file can build well-formed
// branch instructions without importing generate's internals.
func branch(op generate.Opcode, thenCode, elseCode []int) []int {
	out := []int{int(op), len(thenCode), len(elseCode)}
	out = append(out, thenCode...)
	out = append(out, elseCode...)
	return out
}

func loopInstr(op generate.Opcode, body []int) []int {
	out := []int{int(op), len(body)}
	out = append(out, body...)
	return out
}
