package render

import (
	"encoding/json"

	"github.com/funvibe/sigilc/internal/diagnostics"
)

// JSONLabel is one rendered diagnostics.Label.
type JSONLabel struct {
	Line      int    `json:"line"`
	Column    int    `json:"column"`
	Offset    uint32 `json:"offset"`
	Message   string `json:"message"`
	Secondary bool   `json:"secondary"`
}

// JSONDiagnostic is one rendered diagnostics.Diagnostic.
type JSONDiagnostic struct {
	Code     string      `json:"code"`
	Severity string      `json:"severity"`
	Message  string      `json:"message"`
	File     string      `json:"file"`
	Labels   []JSONLabel `json:"labels"`
	Notes    []string    `json:"notes,omitempty"`
}

// JSONReport is the top-level document JSON produces, carrying the run id
// every diagnostics.Queue stamps (diagnostics.Queue.Run) so log
// aggregation across a build farm can correlate one compilation's full
// output, the same run id internal/wire's gRPC envelope carries.
type JSONReport struct {
	RunID       string           `json:"run_id"`
	Diagnostics []JSONDiagnostic `json:"diagnostics"`
}

// JSON builds a JSONReport for diags, tagged with run.
func JSON(src *Source, run diagnostics.RunID, diags []diagnostics.Diagnostic) JSONReport {
	path := ""
	if src != nil {
		path = src.Path
	}
	report := JSONReport{RunID: string(run), Diagnostics: make([]JSONDiagnostic, 0, len(diags))}
	for _, d := range diags {
		jd := JSONDiagnostic{
			Code:     string(d.Code),
			Severity: severityLabel(d.Severity),
			Message:  d.Message,
			File:     path,
			Notes:    d.Notes,
		}
		for _, l := range d.Labels {
			pos := locate(src, l.Span.Start)
			jd.Labels = append(jd.Labels, JSONLabel{
				Line: pos.Line, Column: pos.Column, Offset: l.Span.Start,
				Message: l.Message, Secondary: l.Secondary,
			})
		}
		report.Diagnostics = append(report.Diagnostics, jd)
	}
	return report
}

// MarshalJSON renders diags as indented JSON bytes.
func MarshalJSON(src *Source, run diagnostics.RunID, diags []diagnostics.Diagnostic) ([]byte, error) {
	return json.MarshalIndent(JSON(src, run, diags), "", "  ")
}
