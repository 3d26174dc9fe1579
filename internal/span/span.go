// Package span defines byte-offset source positions shared by every stage of the
// middle end, from the arena (internal/ast) through to rendered diagnostics
// (internal/render).
package span

import "fmt"

// Span is a half-open byte range [Start, End) in a single source file.
// Synthetic nodes (compiler-generated, e.g. derive expansion) use Dummy.
type Span struct {
	Start uint32
	End   uint32
}

// Dummy is the sentinel span for compiler-synthesized nodes that have no
// source-level counterpart.
var Dummy = Span{Start: 0, End: 0}

// IsDummy reports whether s is the synthetic sentinel span.
func (s Span) IsDummy() bool {
	return s == Dummy
}

func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}

// Join returns the smallest span covering both a and b. Dummy operands are
// ignored unless both are dummy.
func Join(a, b Span) Span {
	if a.IsDummy() {
		return b
	}
	if b.IsDummy() {
		return a
	}
	start := a.Start
	if b.Start < start {
		start = b.Start
	}
	end := a.End
	if b.End > end {
		end = b.End
	}
	return Span{Start: start, End: end}
}

// Spanned is implemented by every AST/IR node that carries source position
// information for diagnostics.
type Spanned interface {
	SourceSpan() Span
}
