package diag

import (
	"fmt"
	"strings"

	"github.com/polkovnikov-ph/peggy/ast"
)

// Source is one named source text a formatted diagnostic location can be
// resolved against.
type Source struct {
	ID   any
	Text string
}

// Format renders one caret-underlined block per problem in err's list
// (spec §7, "user-visible failure behavior"), excluding info-severity
// problems from the summary. err must be a *CompileError, as returned by
// Session.CheckErrors.
func Format(err *CompileError, sources []Source) string {
	if err == nil {
		return ""
	}
	byID := make(map[any]string, len(sources))
	for _, s := range sources {
		byID[s.ID] = s.Text
	}

	var b strings.Builder
	for _, p := range err.AllProblemsList() {
		if p.Severity == SeverityInfo {
			continue
		}
		fmt.Fprintf(&b, "%s: %s\n", strings.ToUpper(p.Severity.String()), p.Message)
		if p.Location != nil {
			if text, ok := byID[p.Location.Source]; ok {
				writeCaret(&b, text, *p.Location)
			}
		}
		for _, n := range p.Notes {
			fmt.Fprintf(&b, "  note: %s (%s)\n", n.Message, n.Location)
		}
	}
	return b.String()
}

func writeCaret(b *strings.Builder, text string, loc ast.Location) {
	lines := strings.Split(text, "\n")
	row := loc.Start.Line - 1
	if row < 0 || row >= len(lines) {
		return
	}
	line := lines[row]
	fmt.Fprintf(b, "  %d: %s\n", loc.Start.Line, line)
	col := loc.Start.Col - 1
	if col < 0 {
		col = 0
	}
	b.WriteString("  ")
	b.WriteString(strings.Repeat(" ", len(fmt.Sprint(loc.Start.Line))+2))
	b.WriteString(strings.Repeat(" ", col))
	b.WriteString("^\n")
}
