// Package render formats a diagnostics.Queue's output for the three
// consumers spec.md §5/§7 names: a human-readable terminal report, a
// machine-readable JSON document, and a SARIF log for CI/editor
// ingestion. Grounded on the sibling teacher fork's DiagnosticError.Error()
// "file: [phase] error at line:col [CODE]: message" format
// (internal/diagnostics/diagnostics.go in mcgru-funxy), generalized from
// one flat string into three renderers sharing the same Diagnostic model
// (internal/diagnostics), and on the teacher's own isatty-gated color
// decision (evaluator/builtins_term.go) for the human emitter's ANSI use.
package render

import (
	"github.com/funvibe/sigilc/internal/diagnostics"
)

// Source optionally supplies the original file text so a renderer can
// translate a span's byte offsets into 1-based line/column pairs; with a
// nil Source (or nil Text) every position is line 1, column 1, and only
// Position.Offset carries the raw byte offset.
type Source struct {
	Path string
	Text []byte
}

// Position is a 1-based line/column pair, along with the 0-based byte
// offset it was computed from.
type Position struct {
	Line   int
	Column int
	Offset uint32
}

// locate walks src.Text counting newlines up to offset. O(n) per call;
// fine for a diagnostic report, which renders at most a few hundred
// spans (diagnostics.DefaultBudget), not a hot path.
func locate(src *Source, offset uint32) Position {
	pos := Position{Line: 1, Column: 1, Offset: offset}
	if src == nil || src.Text == nil {
		return pos
	}
	limit := int(offset)
	if limit > len(src.Text) {
		limit = len(src.Text)
	}
	line, col := 1, 1
	for i := 0; i < limit; i++ {
		if src.Text[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	pos.Line, pos.Column = line, col
	return pos
}

func severityLabel(s diagnostics.Severity) string {
	switch s {
	case diagnostics.Warning:
		return "warning"
	case diagnostics.Soft:
		return "note"
	default:
		return "error"
	}
}
