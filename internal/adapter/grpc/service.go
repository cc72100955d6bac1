package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Messages on the wire are google.protobuf.Struct, so the service is
// described by hand instead of through generated stubs.
const (
	ServiceName = "fundflow.v1.CashFlowService"

	ValidateFullMethod   = "/" + ServiceName + "/Validate"
	BuildFullMethod      = "/" + ServiceName + "/Build"
	ComputeIRRFullMethod = "/" + ServiceName + "/ComputeIRR"
	EvaluateFullMethod   = "/" + ServiceName + "/Evaluate"
)

// CashFlowServiceServer is the server API for the CashFlowService
type CashFlowServiceServer interface {
	Validate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Build(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ComputeIRR(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Evaluate(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// CashFlowServiceDesc is the grpc.ServiceDesc for the CashFlowService
var CashFlowServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CashFlowServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Validate", Handler: unaryHandler(ValidateFullMethod, CashFlowServiceServer.Validate)},
		{MethodName: "Build", Handler: unaryHandler(BuildFullMethod, CashFlowServiceServer.Build)},
		{MethodName: "ComputeIRR", Handler: unaryHandler(ComputeIRRFullMethod, CashFlowServiceServer.ComputeIRR)},
		{MethodName: "Evaluate", Handler: unaryHandler(EvaluateFullMethod, CashFlowServiceServer.Evaluate)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "fundflow/v1/cashflow.proto",
}

// RegisterCashFlowServiceServer registers srv with the gRPC server
func RegisterCashFlowServiceServer(s grpc.ServiceRegistrar, srv CashFlowServiceServer) {
	s.RegisterService(&CashFlowServiceDesc, srv)
}

type unaryMethod func(CashFlowServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, method unaryMethod) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return method(srv.(CashFlowServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return method(srv.(CashFlowServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// CashFlowServiceClient is the client API for the CashFlowService
type CashFlowServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewCashFlowServiceClient creates a client bound to cc
func NewCashFlowServiceClient(cc grpc.ClientConnInterface) *CashFlowServiceClient {
	return &CashFlowServiceClient{cc: cc}
}

func (c *CashFlowServiceClient) Validate(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, ValidateFullMethod, in, opts...)
}

func (c *CashFlowServiceClient) Build(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, BuildFullMethod, in, opts...)
}

func (c *CashFlowServiceClient) ComputeIRR(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, ComputeIRRFullMethod, in, opts...)
}

func (c *CashFlowServiceClient) Evaluate(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, EvaluateFullMethod, in, opts...)
}

func (c *CashFlowServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
