package render

import (
	"fmt"
	"io"
	"os"

	"github.com/funvibe/sigilc/internal/config"
	"github.com/funvibe/sigilc/internal/diagnostics"
)

const (
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
	ansiBold   = "\x1b[1m"
	ansiReset  = "\x1b[0m"
)

func colorFor(s diagnostics.Severity) string {
	switch s {
	case diagnostics.Warning:
		return ansiYellow
	case diagnostics.Soft:
		return ansiBlue
	default:
		return ansiRed
	}
}

// Human writes diags to w in the "file:line:col: [CODE] severity: message"
// form the sibling teacher fork's DiagnosticError.Error() uses, labels and
// notes indented beneath, colored when colored is true.
func Human(w io.Writer, src *Source, diags []diagnostics.Diagnostic, colored bool) {
	path := "<input>"
	if src != nil && src.Path != "" {
		path = src.Path
	}
	for _, d := range diags {
		humanOne(w, path, src, d, colored)
	}
}

func humanOne(w io.Writer, path string, src *Source, d diagnostics.Diagnostic, colored bool) {
	pos := locate(src, d.PrimarySpan().Start)
	label := severityLabel(d.Severity)

	if colored {
		fmt.Fprintf(w, "%s%s:%d:%d:%s %s[%s]%s %s%s%s: %s\n",
			ansiBold, path, pos.Line, pos.Column, ansiReset,
			ansiBold, d.Code, ansiReset,
			colorFor(d.Severity), label, ansiReset, d.Message)
	} else {
		fmt.Fprintf(w, "%s:%d:%d: [%s] %s: %s\n", path, pos.Line, pos.Column, d.Code, label, d.Message)
	}

	for _, l := range d.Labels {
		if l.Secondary {
			lp := locate(src, l.Span.Start)
			fmt.Fprintf(w, "  - %s:%d:%d: %s\n", path, lp.Line, lp.Column, l.Message)
		}
	}
	for _, n := range d.Notes {
		fmt.Fprintf(w, "  note: %s\n", n)
	}
	for _, s := range d.Suggestions {
		fmt.Fprintf(w, "  suggestion: %s -> %q\n", s.Message, s.Replacement)
	}
}

// HumanToStdout renders diags to os.Stdout, resolving cfg's ansi setting
// against whether stdout is actually a terminal (config.Config.ResolveAnsi,
// which wraps go-isatty the same way evaluator/builtins_term.go does in
// the teacher).
func HumanToStdout(cfg *config.Config, src *Source, diags []diagnostics.Diagnostic) {
	Human(os.Stdout, src, diags, cfg.ResolveAnsi(os.Stdout.Fd()))
}
