package grpcattest

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// AttestServer is the server API for the Attest gRPC service.
//
// We intentionally use protobuf well-known wrapper types so this package does
// not require a protoc/codegen toolchain. Verify and Archive take the JSON
// wire document (model.RenderAttestation bytes); Fetch and Has take a CID
// string.
//
// Proto definition: attest.proto.
type AttestServer interface {
	Verify(context.Context, *wrapperspb.BytesValue) (*wrapperspb.StringValue, error)
	Archive(context.Context, *wrapperspb.BytesValue) (*wrapperspb.StringValue, error)
	Fetch(context.Context, *wrapperspb.StringValue) (*wrapperspb.BytesValue, error)
	Has(context.Context, *wrapperspb.StringValue) (*wrapperspb.BoolValue, error)
}

// UnimplementedAttestServer can be embedded to have forward compatible implementations.
type UnimplementedAttestServer struct{}

func (UnimplementedAttestServer) Verify(context.Context, *wrapperspb.BytesValue) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Verify not implemented")
}
func (UnimplementedAttestServer) Archive(context.Context, *wrapperspb.BytesValue) (*wrapperspb.StringValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Archive not implemented")
}
func (UnimplementedAttestServer) Fetch(context.Context, *wrapperspb.StringValue) (*wrapperspb.BytesValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Fetch not implemented")
}
func (UnimplementedAttestServer) Has(context.Context, *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Has not implemented")
}

// RegisterAttestServer registers the Attest service on a gRPC server.
func RegisterAttestServer(s grpc.ServiceRegistrar, srv AttestServer) {
	s.RegisterService(&Attest_ServiceDesc, srv)
}

// AttestClient is the client API for the Attest gRPC service.
type AttestClient interface {
	Verify(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	Archive(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	Fetch(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error)
	Has(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error)
}

type attestClient struct{ cc grpc.ClientConnInterface }

func NewAttestClient(cc grpc.ClientConnInterface) AttestClient { return &attestClient{cc: cc} }

func (c *attestClient) Verify(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	err := c.cc.Invoke(ctx, "/primus.zktls.attest.v1.Attest/Verify", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *attestClient) Archive(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	err := c.cc.Invoke(ctx, "/primus.zktls.attest.v1.Attest/Archive", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *attestClient) Fetch(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BytesValue, error) {
	out := new(wrapperspb.BytesValue)
	err := c.cc.Invoke(ctx, "/primus.zktls.attest.v1.Attest/Fetch", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *attestClient) Has(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error) {
	out := new(wrapperspb.BoolValue)
	err := c.cc.Invoke(ctx, "/primus.zktls.attest.v1.Attest/Has", in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func _Attest_Verify_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AttestServer).Verify(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/primus.zktls.attest.v1.Attest/Verify"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AttestServer).Verify(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _Attest_Archive_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.BytesValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AttestServer).Archive(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/primus.zktls.attest.v1.Attest/Archive"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AttestServer).Archive(ctx, req.(*wrapperspb.BytesValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _Attest_Fetch_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AttestServer).Fetch(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/primus.zktls.attest.v1.Attest/Fetch"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AttestServer).Fetch(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func _Attest_Has_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AttestServer).Has(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/primus.zktls.attest.v1.Attest/Has"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(AttestServer).Has(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

// Attest_ServiceDesc is the grpc.ServiceDesc for the Attest service.
var Attest_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "primus.zktls.attest.v1.Attest",
	HandlerType: (*AttestServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Verify", Handler: _Attest_Verify_Handler},
		{MethodName: "Archive", Handler: _Attest_Archive_Handler},
		{MethodName: "Fetch", Handler: _Attest_Fetch_Handler},
		{MethodName: "Has", Handler: _Attest_Has_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "attest.proto",
}
