package render

import (
	"encoding/json"

	"github.com/funvibe/sigilc/internal/diagnostics"
)

// sarifSchemaURI and sarifVersion pin the SARIF 2.1.0 log format most CI
// annotators (GitHub code scanning, editors) expect.
const (
	sarifSchemaURI = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"
	sarifVersion   = "2.1.0"
	toolName       = "sigilc"
)

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool               sarifTool              `json:"tool"`
	AutomationDetails  sarifAutomationDetails `json:"automationDetails"`
	Results            []sarifResult          `json:"results"`
}

type sarifAutomationDetails struct {
	ID string `json:"id"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name  string      `json:"name"`
	Rules []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type sarifResult struct {
	RuleID    string           `json:"ruleId"`
	Level     string           `json:"level"`
	Message   sarifMessage     `json:"message"`
	Locations []sarifLocation  `json:"locations"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           sarifRegion           `json:"region"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   int    `json:"startLine"`
	StartColumn int    `json:"startColumn"`
	ByteOffset  uint32 `json:"byteOffset"`
}

// sarifLevel maps diagnostics.Severity onto SARIF's level vocabulary
// ("error"/"warning"/"note"), the same three-way split the human and JSON
// renderers use.
func sarifLevel(s diagnostics.Severity) string {
	switch s {
	case diagnostics.Warning:
		return "warning"
	case diagnostics.Soft:
		return "note"
	default:
		return "error"
	}
}

// SARIF builds a one-run SARIF 2.1.0 log for diags, stamping run into
// automationDetails.id so a CI pipeline can correlate a SARIF upload with
// the same compilation's JSON/gRPC output (internal/wire).
func SARIF(src *Source, run diagnostics.RunID, diags []diagnostics.Diagnostic) []byte {
	path := "<input>"
	if src != nil && src.Path != "" {
		path = src.Path
	}

	seen := make(map[string]bool)
	var rules []sarifRule
	results := make([]sarifResult, 0, len(diags))
	for _, d := range diags {
		if !seen[string(d.Code)] {
			seen[string(d.Code)] = true
			rules = append(rules, sarifRule{ID: string(d.Code), Name: string(d.Code)})
		}
		pos := locate(src, d.PrimarySpan().Start)
		results = append(results, sarifResult{
			RuleID:  string(d.Code),
			Level:   sarifLevel(d.Severity),
			Message: sarifMessage{Text: d.Message},
			Locations: []sarifLocation{{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: sarifArtifactLocation{URI: path},
					Region: sarifRegion{
						StartLine:   pos.Line,
						StartColumn: pos.Column,
						ByteOffset:  pos.Offset,
					},
				},
			}},
		})
	}

	log := sarifLog{
		Schema:  sarifSchemaURI,
		Version: sarifVersion,
		Runs: []sarifRun{{
			Tool:              sarifTool{Driver: sarifDriver{Name: toolName, Rules: rules}},
			AutomationDetails: sarifAutomationDetails{ID: string(run)},
			Results:           results,
		}},
	}

	data, err := json.MarshalIndent(log, "", "  ")
	if err != nil {
		// A SARIF log is built entirely from plain structs with no cyclic
		// or unsupported field types, so MarshalIndent cannot fail here;
		// this mirrors internal/canon's ValidationError style of
		// reporting a would-be-impossible condition rather than ignoring
		// the error outright.
		return []byte(`{"error":"` + err.Error() + `"}`)
	}
	return data
}
