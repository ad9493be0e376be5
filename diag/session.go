// Package diag implements the diagnostics session shared by every stage of
// the compiler pipeline (spec §4.2): a bounded accumulator of problems that
// lets a pass report more than one error without unwinding, plus a
// stage-scoped "raise the first error" checkpoint run between stages.
package diag

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/polkovnikov-ph/peggy/ast"
)

// Severity is one of error, warning or info.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "info"
	}
}

// Note is a secondary annotation attached to a Problem, e.g. pointing back
// at the location of the rule/label/step a problem conflicts with.
type Note struct {
	Message  string
	Location ast.Location
}

// Problem is one recorded diagnostic: (severity, message, location?, notes?).
type Problem struct {
	Severity Severity
	Message  string
	Location *ast.Location
	Notes    []Note
}

func (p Problem) String() string {
	var b strings.Builder
	if p.Location != nil {
		fmt.Fprintf(&b, "%s: ", p.Location)
	}
	b.WriteString(p.Message)
	return b.String()
}

// Stage identifies which stage of the pipeline a session is currently
// running. The zero value, StageNone, is never valid to report against.
type Stage int

const (
	StageNone Stage = iota
	StageCheck
	StageTransform
	StageGenerate
)

func (s Stage) String() string {
	switch s {
	case StageCheck:
		return "check"
	case StageTransform:
		return "transform"
	case StageGenerate:
		return "generate"
	default:
		return "none"
	}
}

// Callback is invoked once per reported diagnostic of the matching
// severity, in addition to it being recorded into Session.Problems.
type Callback func(message string, location *ast.Location, notes []Note)

// Session is per-compilation mutable state: it is passed explicitly to
// every pass (no process-wide or thread-local state, per spec §9's
// "Session as shared mutable state" design note), so two Generate calls on
// distinct ASTs may run concurrently provided each owns its own Session.
type Session struct {
	ID uuid.UUID

	Stage Stage

	Problems   []Problem
	errorCount int
	firstError *CompileError

	onError   Callback
	onWarning Callback
	onInfo    Callback

	log *zap.Logger
}

// NewSession builds a Session with optional per-severity callbacks
// (defaulted to no-ops) and an optional structured logger (defaulted to a
// no-op logger — logging here is strictly observational).
func NewSession(onError, onWarning, onInfo Callback, log *zap.Logger) *Session {
	if onError == nil {
		onError = func(string, *ast.Location, []Note) {}
	}
	if onWarning == nil {
		onWarning = func(string, *ast.Location, []Note) {}
	}
	if onInfo == nil {
		onInfo = func(string, *ast.Location, []Note) {}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{
		ID:        uuid.New(),
		onError:   onError,
		onWarning: onWarning,
		onInfo:    onInfo,
		log:       log,
	}
}

func (s *Session) requireStage() {
	if s.Stage == StageNone {
		panic("diag: Session.Stage must be set by the driver before reporting a diagnostic")
	}
}

// Error records an error-severity problem, increments the error count,
// invokes the error callback, and — on the first error only — retains a
// *CompileError snapshotting the session's stage and aliasing its growing
// Problems list. Reporting an error does not unwind the call stack; the
// calling pass is responsible for its own local control flow to stop
// traversing once it has reported what it needs to.
func (s *Session) Error(message string, location *ast.Location, notes ...Note) {
	s.requireStage()
	p := Problem{Severity: SeverityError, Message: message, Location: location, Notes: notes}
	s.Problems = append(s.Problems, p)
	s.errorCount++
	if s.firstError == nil {
		s.firstError = &CompileError{Stage: s.Stage, Problems: &s.Problems}
	}
	s.onError(message, location, notes)
}

// Warning records a warning-severity problem. It does not affect the error
// count.
func (s *Session) Warning(message string, location *ast.Location, notes ...Note) {
	s.requireStage()
	s.Problems = append(s.Problems, Problem{Severity: SeverityWarning, Message: message, Location: location, Notes: notes})
	s.onWarning(message, location, notes)
}

// Info records an info-severity problem. It does not affect the error
// count.
func (s *Session) Info(message string, location *ast.Location, notes ...Note) {
	s.requireStage()
	s.Problems = append(s.Problems, Problem{Severity: SeverityInfo, Message: message, Location: location, Notes: notes})
	s.onInfo(message, location, notes)
}

// ErrorCount returns the number of error-severity problems recorded so far.
func (s *Session) ErrorCount() int { return s.errorCount }

// CheckErrors raises the retained first error if any error has been
// recorded. The driver calls this at the end of every stage (spec §4.7).
func (s *Session) CheckErrors() error {
	if s.errorCount == 0 {
		return nil
	}
	s.log.Debug("stage failed", zap.String("session", s.ID.String()), zap.Stringer("stage", s.Stage), zap.Int("errors", s.errorCount))
	return s.firstError
}

// Logger returns the session's structured logger (never nil).
func (s *Session) Logger() *zap.Logger { return s.log }

// AllProblems folds every error-severity problem recorded so far into one
// combined error via go.uber.org/multierr, so a caller can report every
// error rather than only the first one CheckErrors raises. Format does not
// use it; it renders CompileError.AllProblemsList.
func (s *Session) AllProblems() error {
	var combined error
	for _, p := range s.Problems {
		if p.Severity != SeverityError {
			continue
		}
		combined = multierr.Append(combined, fmt.Errorf("%s", p.String()))
	}
	return combined
}

// CompileError is raised by CheckErrors the first time a stage ends with at
// least one recorded error. It is built by the first Session.Error call;
// Problems points at the session's problem list, which may still grow after
// that, so it reflects every problem — including warnings and infos —
// accumulated up to the point the error propagates out.
type CompileError struct {
	Stage    Stage
	Problems *[]Problem
}

func (e *CompileError) Error() string {
	if e.Problems == nil || len(*e.Problems) == 0 {
		return fmt.Sprintf("%s: compile error", e.Stage)
	}
	for _, p := range *e.Problems {
		if p.Severity == SeverityError {
			return fmt.Sprintf("%s: %s", e.Stage, p.String())
		}
	}
	return fmt.Sprintf("%s: compile error", e.Stage)
}

// AllProblemsList returns every problem recorded up to the point this error
// was raised, for a formatter to render.
func (e *CompileError) AllProblemsList() []Problem {
	if e.Problems == nil {
		return nil
	}
	return *e.Problems
}
