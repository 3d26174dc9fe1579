// Package wire exports internal/diagnostics and internal/canon results
// across a process boundary: a backend (the evaluator/VM/LLVM codegen
// this middle end's output feeds, spec.md §1's out-of-scope external
// collaborator) subscribes over gRPC instead of importing this module's
// Go types directly. Grounded on the teacher's protoparse -> desc ->
// dynamic pipeline (evaluator/builtins_grpc.go: builtinGrpcLoadProto,
// builtinGrpcServer, builtinGrpcRegister), adapted from "load whatever
// .proto the Funxy script points at" into "parse this module's own
// embedded schema once at package init".
package wire

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
)

//go:embed diagnostic.proto
var schemaSource string

const schemaFile = "diagnostic.proto"

var (
	schemaOnce sync.Once
	schemaFD   *desc.FileDescriptor
	schemaErr  error
)

// Schema parses this package's embedded diagnostic.proto exactly once
// (protoparse.Parser.Accessor fed the in-memory source via
// protoparse.FileContentsFromMap, the same virtual-file approach the
// teacher's protoRegistry uses for scripts that `grpcLoadProto` a path on
// disk — here there is no disk path, since the schema ships inside the
// compiled binary).
func Schema() (*desc.FileDescriptor, error) {
	schemaOnce.Do(func() {
		parser := protoparse.Parser{
			Accessor: protoparse.FileContentsFromMap(map[string]string{schemaFile: schemaSource}),
		}
		fds, err := parser.ParseFiles(schemaFile)
		if err != nil {
			schemaErr = fmt.Errorf("parsing embedded %s: %w", schemaFile, err)
			return
		}
		schemaFD = fds[0]
	})
	return schemaFD, schemaErr
}

// messageType looks up one of Schema's message descriptors by name,
// panicking if the embedded schema doesn't declare it — a mismatch here
// means diagnostic.proto and this package's Go code have drifted apart,
// a programmer error rather than a runtime condition callers can recover
// from.
func messageType(name string) *desc.MessageDescriptor {
	fd, err := Schema()
	if err != nil {
		panic(err)
	}
	md := fd.FindMessage("sigilc.wire." + name)
	if md == nil {
		panic("wire: embedded schema has no message " + name)
	}
	return md
}

// service looks up DiagnosticExporter's descriptor, panicking on the same
// drift condition messageType does.
func service() *desc.ServiceDescriptor {
	fd, err := Schema()
	if err != nil {
		panic(err)
	}
	sd := fd.FindService("sigilc.wire.DiagnosticExporter")
	if sd == nil {
		panic("wire: embedded schema has no service DiagnosticExporter")
	}
	return sd
}
