// Package diagnostics is the error/warning model shared by every middle-end
// phase. Grounded on the sibling teacher fork's diagnostics.go
// (ErrorCode/Phase/DiagnosticError), generalized from its fixed
// "one-token, one-template" shape into the labeled multi-span model
// spec.md §7 requires (primary + secondary labels, notes, suggestions).
package diagnostics

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/funvibe/sigilc/internal/span"
)

// Severity distinguishes diagnostics that abort downstream reasoning about
// a node (Hard) from ones that are advisory or speculative (Soft). A Soft
// diagnostic is suppressed if a Hard one later covers the same span.
type Severity uint8

const (
	Hard Severity = iota
	Soft
	Warning
)

// Code is one taxonomy entry from spec.md §7: first digit groups by phase
// (2xxx type/resolve, 3xxx pattern, 9xxx internal; W-prefixed are
// warnings).
type Code string

const (
	// Type errors.
	E2001 Code = "E2001" // type mismatch
	E2002 Code = "E2002" // unknown type
	E2003 Code = "E2003" // unknown identifier
	E2004 Code = "E2004" // arity mismatch
	E2005 Code = "E2005" // ambiguous type
	E2006 Code = "E2006" // duplicate definition
	E2007 Code = "E2007" // closure self-reference
	E2008 Code = "E2008" // cyclic/infinite type
	E2009 Code = "E2009" // missing trait bound
	E2020 Code = "E2020" // operator mismatch
	E2021 Code = "E2021" // coherence violation
	E2023 Code = "E2023" // ambiguous method
	E2024 Code = "E2024" // trait not object-safe
	E2028 Code = "E2028" // derive violation: unsupported field type
	E2029 Code = "E2029" // derive violation: missing required method
	E2030 Code = "E2030" // derive violation: conflicting manual impl
	E2031 Code = "E2031" // derive violation: recursive structure without base case
	E2032 Code = "E2032" // derive violation: unknown trait name treated as unsupported
	E2033 Code = "E2033" // derive violation: non-nominal target
	E2036 Code = "E2036" // operator mismatch: wrong arity for user operator
	E2037 Code = "E2037" // operator mismatch: non-Bool comparison result

	// Pattern errors.
	E3001 Code = "E3001" // unknown pattern form
	E3002 Code = "E3002" // non-exhaustive match
	E3003 Code = "E3003" // redundant arm

	// Internal.
	E9001 Code = "E9001" // internal compiler error
	E9002 Code = "E9002" // diagnostic budget exceeded

	// Warnings.
	W1001 Code = "W1001" // detached doc comment
	W2001 Code = "W2001" // infinite iterator unconstrained
)

// Label attaches a message to a span; Primary marks the span the
// diagnostic is "about", Secondary spans add related context (e.g. a
// duplicate definition's first occurrence).
type Label struct {
	Span      span.Span
	Message   string
	Secondary bool
}

// Suggestion proposes a concrete fix. Applicability follows the same
// three-tier scheme LSP-style tooling expects: MachineApplicable edits are
// safe to apply automatically, MaybeIncorrect edits need review, and
// Unspecified ones are illustrative only.
type Suggestion struct {
	Message       string
	Replacement   string
	Span          span.Span
	Applicability Applicability
}

// Applicability classifies how safe a Suggestion is to apply without
// review.
type Applicability uint8

const (
	Unspecified Applicability = iota
	MachineApplicable
	MaybeIncorrect
)

// Diagnostic is one reported error or warning.
type Diagnostic struct {
	Code     Code
	Severity Severity
	Message  string
	Labels   []Label
	Notes    []string

	Suggestions           []Suggestion
	StructuredSuggestions []Suggestion // same shape; kept distinct per spec.md's wording
}

// PrimarySpan returns the span of the first primary label, or the zero
// span if the diagnostic carries none.
func (d Diagnostic) PrimarySpan() span.Span {
	for _, l := range d.Labels {
		if !l.Secondary {
			return l.Span
		}
	}
	return span.Dummy
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s (%s)", d.Code, d.Message, d.PrimarySpan())
}

// New builds a Hard diagnostic with a single primary label.
func New(code Code, primary span.Span, message string) Diagnostic {
	return Diagnostic{
		Code:     code,
		Severity: Hard,
		Message:  message,
		Labels:   []Label{{Span: primary, Message: message}},
	}
}

// NewSoft builds a Soft diagnostic — suppressed later if a Hard diagnostic
// covers the same span (see Queue.Add).
func NewSoft(code Code, primary span.Span, message string) Diagnostic {
	d := New(code, primary, message)
	d.Severity = Soft
	return d
}

// NewWarning builds a Warning-severity diagnostic.
func NewWarning(code Code, primary span.Span, message string) Diagnostic {
	d := New(code, primary, message)
	d.Severity = Warning
	return d
}

// WithSecondary appends a secondary label and returns d for chaining.
func (d Diagnostic) WithSecondary(s span.Span, message string) Diagnostic {
	d.Labels = append(d.Labels, Label{Span: s, Message: message, Secondary: true})
	return d
}

// WithNote appends a free-form explanatory note.
func (d Diagnostic) WithNote(note string) Diagnostic {
	d.Notes = append(d.Notes, note)
	return d
}

// WithSuggestion appends a concrete fix suggestion.
func (d Diagnostic) WithSuggestion(s Suggestion) Diagnostic {
	d.Suggestions = append(d.Suggestions, s)
	return d
}

// RunID correlates every diagnostic emitted by one compilation invocation,
// surfaced in JSON/SARIF output for log aggregation across a build farm.
// There is no teacher precedent for this (the teacher is a single-process
// interpreter with no distributed build story); grounded on google/uuid
// since that is the dependency the domain stack wires in for exactly this
// purpose (SPEC_FULL.md §2).
type RunID string

// NewRunID mints a fresh run identifier.
func NewRunID() RunID { return RunID(uuid.NewString()) }
