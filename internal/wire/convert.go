package wire

import (
	"github.com/jhump/protoreflect/dynamic"

	"github.com/funvibe/sigilc/internal/canon"
	"github.com/funvibe/sigilc/internal/diagnostics"
)

func severityString(s diagnostics.Severity) string {
	switch s {
	case diagnostics.Warning:
		return "warning"
	case diagnostics.Soft:
		return "soft"
	default:
		return "hard"
	}
}

// ToDynamicLabel builds a dynamic.Message for diagnostic.proto's Label
// message from one diagnostics.Label.
func ToDynamicLabel(l diagnostics.Label) (*dynamic.Message, error) {
	msg := dynamic.NewMessage(messageType("Label"))
	if err := msg.TrySetFieldByName("start", l.Span.Start); err != nil {
		return nil, err
	}
	if err := msg.TrySetFieldByName("end", l.Span.End); err != nil {
		return nil, err
	}
	if err := msg.TrySetFieldByName("message", l.Message); err != nil {
		return nil, err
	}
	if err := msg.TrySetFieldByName("secondary", l.Secondary); err != nil {
		return nil, err
	}
	return msg, nil
}

// ToDynamicDiagnostic builds a dynamic.Message for diagnostic.proto's
// Diagnostic message from d, the shape internal/wire's gRPC server
// streams to subscribers.
func ToDynamicDiagnostic(d diagnostics.Diagnostic) (*dynamic.Message, error) {
	msg := dynamic.NewMessage(messageType("Diagnostic"))
	if err := msg.TrySetFieldByName("code", string(d.Code)); err != nil {
		return nil, err
	}
	if err := msg.TrySetFieldByName("severity", severityString(d.Severity)); err != nil {
		return nil, err
	}
	if err := msg.TrySetFieldByName("message", d.Message); err != nil {
		return nil, err
	}
	for _, l := range d.Labels {
		lm, err := ToDynamicLabel(l)
		if err != nil {
			return nil, err
		}
		if err := msg.TryAddRepeatedFieldByName("labels", lm); err != nil {
			return nil, err
		}
	}
	for _, n := range d.Notes {
		if err := msg.TryAddRepeatedFieldByName("notes", n); err != nil {
			return nil, err
		}
	}
	return msg, nil
}

// ToDynamicSummary builds a dynamic.Message for diagnostic.proto's
// CanonResultSummary message from one function's lowering result, valid
// reporting whether canon.Validate found zero ValidationErrors for it.
func ToDynamicSummary(functionName string, r *canon.CanonResult, valid bool) (*dynamic.Message, error) {
	msg := dynamic.NewMessage(messageType("CanonResultSummary"))
	if err := msg.TrySetFieldByName("function_name", functionName); err != nil {
		return nil, err
	}
	if err := msg.TrySetFieldByName("node_count", uint32(r.Arena.Len())); err != nil {
		return nil, err
	}
	if err := msg.TrySetFieldByName("constant_count", uint32(r.Constants.Len())); err != nil {
		return nil, err
	}
	if err := msg.TrySetFieldByName("decision_tree_count", uint32(len(r.Trees))); err != nil {
		return nil, err
	}
	if err := msg.TrySetFieldByName("valid", valid); err != nil {
		return nil, err
	}
	return msg, nil
}
