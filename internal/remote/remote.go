// Package remote derives signatures from protobuf service definitions and
// invokes the methods dynamically over gRPC. Each input-message field
// becomes a parameter: scalar fields bind by position or name in
// field-number order, and since proto3 fields are all optional every
// parameter defaults to nil (absent fields are simply not set on the
// request).
package remote

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"

	"github.com/funvibe/sigbind/internal/binder"
	"github.com/funvibe/sigbind/internal/config"
	"github.com/funvibe/sigbind/internal/diagnostics"
	"github.com/funvibe/sigbind/internal/signature"
)

// Catalog holds loaded proto descriptors and the signatures derived from
// their services.
//
// Thread-safe: loading usually happens at startup, lookups on every call.
type Catalog struct {
	mu    sync.RWMutex
	files map[string]*desc.FileDescriptor
}

func NewCatalog() *Catalog {
	return &Catalog{files: make(map[string]*desc.FileDescriptor)}
}

// LoadProto parses the given .proto files (resolving imports against
// importPaths, or the current directory when empty) into the catalog.
func (c *Catalog) LoadProto(importPaths []string, filenames ...string) error {
	if len(importPaths) == 0 {
		importPaths = []string{"."}
	}
	parser := protoparse.Parser{ImportPaths: importPaths}

	fds, err := parser.ParseFiles(filenames...)
	if err != nil {
		return fmt.Errorf("failed to parse proto: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, fd := range fds {
		c.files[fd.GetName()] = fd
	}

	return nil
}

// Method finds a method descriptor by "package.Service/Method" path.
func (c *Catalog) Method(path string) (*desc.MethodDescriptor, error) {
	serviceName, methodName, ok := splitMethodPath(path)
	if !ok {
		return nil, diagnostics.Newf(diagnostics.ErrR006,
			"invalid method path %q, expected 'package.Service/Method'", path)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, fd := range c.files {
		svc := fd.FindService(serviceName)
		if svc == nil {
			continue
		}
		if method := svc.FindMethodByName(methodName); method != nil {
			return method, nil
		}
	}

	return nil, diagnostics.Newf(diagnostics.ErrR003,
		"method %q not found (did you load the proto?)", path)
}

// Signature derives the classified signature for a method path.
func (c *Catalog) Signature(path string) (*signature.Signature, error) {
	md, err := c.Method(path)
	if err != nil {
		return nil, err
	}
	return MethodSignature(md)
}

// Signatures derives signatures for every unary method of every loaded
// service, keyed by "package.Service/Method" path.
func (c *Catalog) Signatures() (map[string]*signature.Signature, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]*signature.Signature)
	for _, fd := range c.files {
		for _, svc := range fd.GetServices() {
			for _, md := range svc.GetMethods() {
				if md.IsClientStreaming() || md.IsServerStreaming() {
					continue
				}
				sig, err := MethodSignature(md)
				if err != nil {
					return nil, err
				}
				path := fmt.Sprintf("%s/%s", svc.GetFullyQualifiedName(), md.GetName())
				out[path] = sig
			}
		}
	}
	return out, nil
}

// MethodSignature maps a method's input message to a signature. Fields are
// ordered by field number and every parameter is optional with a nil
// default, mirroring proto3 presence rules.
func MethodSignature(md *desc.MethodDescriptor) (*signature.Signature, error) {
	fields := md.GetInputType().GetFields()

	params := make([]*signature.Parameter, 0, len(fields))
	for _, fd := range fields {
		params = append(params, &signature.Parameter{
			Name:       fd.GetName(),
			Kind:       signature.PositionalOrKeyword,
			Annotation: annotationForField(fd),
			Default:    nil,
			HasDefault: true,
		})
	}

	return signature.New(md.GetName(), params...)
}

func annotationForField(fd *desc.FieldDescriptor) string {
	if fd.IsRepeated() || fd.IsMap() || fd.GetMessageType() != nil {
		// Structured input is entered as a flow literal.
		return config.AnnotationYAML
	}

	switch fd.GetType().String() {
	case "TYPE_STRING", "TYPE_BYTES", "TYPE_ENUM":
		return config.AnnotationStr
	case "TYPE_BOOL":
		return config.AnnotationBool
	case "TYPE_FLOAT", "TYPE_DOUBLE":
		return config.AnnotationFloat
	default:
		return config.AnnotationInt
	}
}

// Invoker executes bound calls against a live connection.
type Invoker struct {
	conn    *grpc.ClientConn
	catalog *Catalog
}

func NewInvoker(conn *grpc.ClientConn, catalog *Catalog) *Invoker {
	return &Invoker{conn: conn, catalog: catalog}
}

// Invoke builds the request message from the bound arguments and performs
// the unary call. The response comes back as a field-name map.
func (inv *Invoker) Invoke(ctx context.Context, path string, bound *binder.BoundArguments) (map[string]interface{}, error) {
	md, err := inv.catalog.Method(path)
	if err != nil {
		return nil, err
	}

	reqMsg := dynamic.NewMessage(md.GetInputType())
	for _, fd := range md.GetInputType().GetFields() {
		v, ok := bound.Value(fd.GetName())
		if !ok || v == nil {
			continue
		}
		pv, err := toProtoValue(v, fd)
		if err != nil {
			return nil, diagnostics.Wrap(diagnostics.ErrB006, err,
				"%s: field %q", path, fd.GetName())
		}
		if err := reqMsg.TrySetFieldByName(fd.GetName(), pv); err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}
	}

	respMsg := dynamic.NewMessage(md.GetOutputType())

	// grpc.Invoke expects "/package.Service/Method".
	if path[0] != '/' {
		path = "/" + path
	}
	if err := inv.conn.Invoke(ctx, path, reqMsg, respMsg); err != nil {
		return nil, fmt.Errorf("RPC failed: %w", err)
	}

	return messageToMap(respMsg), nil
}

func splitMethodPath(path string) (service, method string, ok bool) {
	if len(path) > 0 && path[0] == '/' {
		path = path[1:]
	}
	for i := 0; i < len(path); i++ {
		if path[i] == '/' {
			return path[:i], path[i+1:], i > 0 && i < len(path)-1
		}
	}
	return "", "", false
}

// toProtoValue coerces a bound value to the wire shape the field wants.
// Converters produce int64/float64; narrower proto fields need narrowing.
func toProtoValue(v interface{}, fd *desc.FieldDescriptor) (interface{}, error) {
	if fd.IsRepeated() && !fd.IsMap() {
		items, ok := v.([]interface{})
		if !ok {
			items = []interface{}{v}
		}
		out := make([]interface{}, len(items))
		for i, item := range items {
			pv, err := toProtoSingleValue(item, fd)
			if err != nil {
				return nil, err
			}
			out[i] = pv
		}
		return out, nil
	}
	if fd.IsMap() {
		m, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("expected a map for field %q, got %T", fd.GetName(), v)
		}
		return m, nil
	}
	return toProtoSingleValue(v, fd)
}

func toProtoSingleValue(v interface{}, fd *desc.FieldDescriptor) (interface{}, error) {
	switch fd.GetType().String() {
	case "TYPE_INT32", "TYPE_SINT32", "TYPE_SFIXED32":
		n, ok := asInt64(v)
		if !ok {
			return nil, fmt.Errorf("expected an integer, got %T", v)
		}
		return int32(n), nil
	case "TYPE_INT64", "TYPE_SINT64", "TYPE_SFIXED64":
		n, ok := asInt64(v)
		if !ok {
			return nil, fmt.Errorf("expected an integer, got %T", v)
		}
		return n, nil
	case "TYPE_UINT32", "TYPE_FIXED32":
		n, ok := asInt64(v)
		if !ok {
			return nil, fmt.Errorf("expected an integer, got %T", v)
		}
		return uint32(n), nil
	case "TYPE_UINT64", "TYPE_FIXED64":
		n, ok := asInt64(v)
		if !ok {
			return nil, fmt.Errorf("expected an integer, got %T", v)
		}
		return uint64(n), nil
	case "TYPE_FLOAT":
		f, ok := asFloat64(v)
		if !ok {
			return nil, fmt.Errorf("expected a number, got %T", v)
		}
		return float32(f), nil
	case "TYPE_DOUBLE":
		f, ok := asFloat64(v)
		if !ok {
			return nil, fmt.Errorf("expected a number, got %T", v)
		}
		return f, nil
	case "TYPE_BOOL":
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("expected a bool, got %T", v)
		}
		return b, nil
	case "TYPE_BYTES":
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected a string, got %T", v)
		}
		return []byte(s), nil
	case "TYPE_STRING", "TYPE_ENUM":
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected a string, got %T", v)
		}
		return s, nil
	case "TYPE_MESSAGE":
		fields, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("expected a map for message field, got %T", v)
		}
		msg := dynamic.NewMessage(fd.GetMessageType())
		for _, inner := range fd.GetMessageType().GetFields() {
			fv, ok := fields[inner.GetName()]
			if !ok || fv == nil {
				continue
			}
			pv, err := toProtoValue(fv, inner)
			if err != nil {
				return nil, err
			}
			if err := msg.TrySetFieldByName(inner.GetName(), pv); err != nil {
				return nil, err
			}
		}
		return msg, nil
	default:
		return nil, fmt.Errorf("unsupported field type %s", fd.GetType())
	}
}

func asInt64(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case float64:
		if n == float64(int64(n)) {
			return int64(n), true
		}
	}
	return 0, false
}

func asFloat64(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	}
	return 0, false
}

// messageToMap converts a response message to plain Go values.
func messageToMap(msg *dynamic.Message) map[string]interface{} {
	out := make(map[string]interface{})
	for _, fd := range msg.GetMessageDescriptor().GetFields() {
		out[fd.GetName()] = fromProtoValue(msg.GetField(fd), fd)
	}
	return out
}

func fromProtoValue(v interface{}, fd *desc.FieldDescriptor) interface{} {
	if fd.IsRepeated() && !fd.IsMap() {
		slice, ok := v.([]interface{})
		if !ok {
			return []interface{}{}
		}
		out := make([]interface{}, len(slice))
		for i, item := range slice {
			out[i] = fromProtoSingleValue(item)
		}
		return out
	}
	return fromProtoSingleValue(v)
}

func fromProtoSingleValue(v interface{}) interface{} {
	switch n := v.(type) {
	case int32:
		return int64(n)
	case uint32:
		return int64(n)
	case uint64:
		return int64(n)
	case float32:
		return float64(n)
	case []byte:
		return string(n)
	case *dynamic.Message:
		return messageToMap(n)
	default:
		return v
	}
}
