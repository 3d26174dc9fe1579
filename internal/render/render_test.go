package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/funvibe/sigilc/internal/diagnostics"
	"github.com/funvibe/sigilc/internal/span"
)

func sampleDiag() diagnostics.Diagnostic {
	return diagnostics.New(diagnostics.E2001, span.Span{Start: 12, End: 15}, "type mismatch: expected Int, found Str").
		WithNote("this binding was inferred earlier in the block")
}

func sampleSource() *Source {
	return &Source{Path: "demo.sigil", Text: []byte("fn main() -> Int {\n  \"nope\"\n}\n")}
}

func TestLocate(t *testing.T) {
	src := sampleSource()
	pos := locate(src, 22) // inside the second line
	if pos.Line != 2 {
		t.Errorf("Line = %d, want 2", pos.Line)
	}
}

func TestHumanUncoloredFormat(t *testing.T) {
	var buf bytes.Buffer
	Human(&buf, sampleSource(), []diagnostics.Diagnostic{sampleDiag()}, false)
	out := buf.String()
	if !strings.HasPrefix(out, "demo.sigil:") {
		t.Errorf("output doesn't start with the file path: %q", out)
	}
	if !strings.Contains(out, "[E2001]") {
		t.Errorf("output missing code: %q", out)
	}
	if !strings.Contains(out, "note: this binding was inferred earlier in the block") {
		t.Errorf("output missing note: %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("uncolored output should carry no ANSI escapes: %q", out)
	}
}

func TestHumanColoredFormatCarriesEscapes(t *testing.T) {
	var buf bytes.Buffer
	Human(&buf, sampleSource(), []diagnostics.Diagnostic{sampleDiag()}, true)
	if !strings.Contains(buf.String(), "\x1b[") {
		t.Error("colored output should carry ANSI escapes")
	}
}

func TestJSONReport(t *testing.T) {
	run := diagnostics.NewRunID()
	data, err := MarshalJSON(sampleSource(), run, []diagnostics.Diagnostic{sampleDiag()})
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}

	var report JSONReport
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("round-trip unmarshal: %v", err)
	}
	if report.RunID != string(run) {
		t.Errorf("RunID = %q, want %q", report.RunID, run)
	}
	if len(report.Diagnostics) != 1 {
		t.Fatalf("len(Diagnostics) = %d, want 1", len(report.Diagnostics))
	}
	if report.Diagnostics[0].Code != "E2001" {
		t.Errorf("Code = %q, want E2001", report.Diagnostics[0].Code)
	}
}

func TestSARIFIncludesRunIDAndRule(t *testing.T) {
	run := diagnostics.NewRunID()
	data := SARIF(sampleSource(), run, []diagnostics.Diagnostic{sampleDiag()})

	var log map[string]any
	if err := json.Unmarshal(data, &log); err != nil {
		t.Fatalf("SARIF output did not parse as JSON: %v", err)
	}
	runs, ok := log["runs"].([]any)
	if !ok || len(runs) != 1 {
		t.Fatalf("expected exactly one run, got %v", log["runs"])
	}
	if !strings.Contains(string(data), string(run)) {
		t.Error("SARIF output should embed the run id in automationDetails.id")
	}
	if !strings.Contains(string(data), `"E2001"`) {
		t.Error("SARIF output should list E2001 as a rule id")
	}
}

func TestSeverityLabel(t *testing.T) {
	cases := []struct {
		sev  diagnostics.Severity
		want string
	}{
		{diagnostics.Hard, "error"},
		{diagnostics.Soft, "note"},
		{diagnostics.Warning, "warning"},
	}
	for _, c := range cases {
		if got := severityLabel(c.sev); got != c.want {
			t.Errorf("severityLabel(%v) = %q, want %q", c.sev, got, c.want)
		}
	}
}
