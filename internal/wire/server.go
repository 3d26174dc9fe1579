package wire

import (
	"fmt"

	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"

	"github.com/funvibe/sigilc/internal/diagnostics"
)

// exportHandler implements the one method DiagnosticExporter declares,
// streaming run's diagnostics to whatever client called ExportDiagnostics.
// Grounded on the teacher's builtinGrpcRegister, which likewise builds a
// grpc.ServiceDesc by hand from a *desc.ServiceDescriptor rather than
// from protoc-generated stubs — the difference here is this server's
// handler is a real Go closure over a []diagnostics.Diagnostic slice
// instead of a dispatch into an interpreted Funxy function.
type exportHandler struct {
	run   diagnostics.RunID
	diags []diagnostics.Diagnostic
}

func (h *exportHandler) streamDiagnostics(stream grpc.ServerStream) error {
	for _, d := range h.diags {
		dm, err := ToDynamicDiagnostic(d)
		if err != nil {
			return fmt.Errorf("converting diagnostic %s: %w", d.Code, err)
		}
		chunk := dynamic.NewMessage(messageType("ExportChunk"))
		if err := chunk.TrySetFieldByName("run_id", string(h.run)); err != nil {
			return err
		}
		if err := chunk.TrySetFieldByName("diagnostic", dm); err != nil {
			return err
		}
		if err := stream.SendMsg(chunk); err != nil {
			return err
		}
	}
	return nil
}

// serviceDesc builds the grpc.ServiceDesc for DiagnosticExporter,
// dispatching its single streaming method to the handler embedded in srv
// (an *exportHandler, set fresh per export by NewExportServer).
func serviceDesc() grpc.ServiceDesc {
	sd := service()
	return grpc.ServiceDesc{
		ServiceName: sd.GetFullyQualifiedName(),
		HandlerType: (*interface{})(nil),
		Streams: []grpc.StreamDesc{{
			StreamName: "ExportDiagnostics",
			Handler: func(srv interface{}, stream grpc.ServerStream) error {
				return srv.(*exportHandler).streamDiagnostics(stream)
			},
			ServerStreams: true,
		}},
		Metadata: schemaFile,
	}
}

// NewExportServer builds a grpc.Server whose sole service streams diags
// (tagged with run) to any client that calls ExportDiagnostics — the
// "Middle end -> backends" delivery mechanism spec.md §1 describes as an
// external collaborator rather than something this module calls
// in-process.
func NewExportServer(run diagnostics.RunID, diags []diagnostics.Diagnostic) *grpc.Server {
	desc := serviceDesc()
	server := grpc.NewServer()
	server.RegisterService(&desc, &exportHandler{run: run, diags: diags})
	return server
}
