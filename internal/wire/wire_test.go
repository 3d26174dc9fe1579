package wire

import (
	"testing"

	"github.com/funvibe/sigilc/internal/diagnostics"
	"github.com/funvibe/sigilc/internal/span"
)

func TestSchemaDeclaresExpectedMessages(t *testing.T) {
	for _, name := range []string{"Label", "Diagnostic", "CanonResultSummary", "ExportRequest", "ExportChunk"} {
		if messageType(name) == nil {
			t.Errorf("embedded schema is missing message %s", name)
		}
	}
	if service() == nil {
		t.Fatal("embedded schema is missing service DiagnosticExporter")
	}
}

func TestToDynamicDiagnosticRoundTrips(t *testing.T) {
	d := diagnostics.New(diagnostics.E2003, span.Span{Start: 1, End: 4}, "unknown identifier: foo").
		WithNote("did you mean bar?")

	msg, err := ToDynamicDiagnostic(d)
	if err != nil {
		t.Fatalf("ToDynamicDiagnostic: %v", err)
	}

	code, err := msg.TryGetFieldByName("code")
	if err != nil {
		t.Fatalf("TryGetFieldByName(code): %v", err)
	}
	if code.(string) != string(diagnostics.E2003) {
		t.Errorf("code = %v, want %s", code, diagnostics.E2003)
	}

	sev, err := msg.TryGetFieldByName("severity")
	if err != nil {
		t.Fatalf("TryGetFieldByName(severity): %v", err)
	}
	if sev.(string) != "hard" {
		t.Errorf("severity = %v, want hard", sev)
	}
}

func TestSeverityString(t *testing.T) {
	cases := map[diagnostics.Severity]string{
		diagnostics.Hard:    "hard",
		diagnostics.Soft:    "soft",
		diagnostics.Warning: "warning",
	}
	for sev, want := range cases {
		if got := severityString(sev); got != want {
			t.Errorf("severityString(%v) = %q, want %q", sev, got, want)
		}
	}
}
