package dashboard

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "dashboard.v1.DashboardSync"

// Full method names.
const (
	GetTimezoneFullMethodName       = "/" + ServiceName + "/GetTimezone"
	SetTimezoneFullMethodName       = "/" + ServiceName + "/SetTimezone"
	GetCurrentDayFullMethodName     = "/" + ServiceName + "/GetCurrentDay"
	WatchCurrentDayFullMethodName   = "/" + ServiceName + "/WatchCurrentDay"
	ResolveCardImageFullMethodName  = "/" + ServiceName + "/ResolveCardImage"
	GetBenefitPeriodFullMethodName  = "/" + ServiceName + "/GetBenefitPeriod"
	GetFiveTwentyFourFullMethodName = "/" + ServiceName + "/GetFiveTwentyFour"
)

// Metadata keys identifying the caller of SetTimezone.
const (
	MetadataActorHostname = "x-actor-hostname"
	MetadataActorUsername = "x-actor-username"
)

// DashboardSyncServer is the server API of the dashboard sync service.
type DashboardSyncServer interface {
	GetTimezone(ctx context.Context, in *emptypb.Empty) (*wrapperspb.StringValue, error)
	SetTimezone(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
	GetCurrentDay(ctx context.Context, in *emptypb.Empty) (*wrapperspb.StringValue, error)
	WatchCurrentDay(in *emptypb.Empty, stream grpc.ServerStreamingServer[wrapperspb.StringValue]) error
	ResolveCardImage(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	GetBenefitPeriod(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
	GetFiveTwentyFour(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)
}

// RegisterDashboardSyncServer registers srv on s.
func RegisterDashboardSyncServer(s grpc.ServiceRegistrar, srv DashboardSyncServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// ServiceDesc describes the dashboard sync service for grpc.Server.
//
//nolint:gochecknoglobals // grpc.ServiceDesc is registered by address.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DashboardSyncServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetTimezone",
			Handler: unaryHandler(GetTimezoneFullMethodName,
				func(s DashboardSyncServer, ctx context.Context, in *emptypb.Empty) (any, error) {
					return s.GetTimezone(ctx, in)
				}),
		},
		{
			MethodName: "SetTimezone",
			Handler: unaryHandler(SetTimezoneFullMethodName,
				func(s DashboardSyncServer, ctx context.Context, in *wrapperspb.StringValue) (any, error) {
					return s.SetTimezone(ctx, in)
				}),
		},
		{
			MethodName: "GetCurrentDay",
			Handler: unaryHandler(GetCurrentDayFullMethodName,
				func(s DashboardSyncServer, ctx context.Context, in *emptypb.Empty) (any, error) {
					return s.GetCurrentDay(ctx, in)
				}),
		},
		{
			MethodName: "ResolveCardImage",
			Handler: unaryHandler(ResolveCardImageFullMethodName,
				func(s DashboardSyncServer, ctx context.Context, in *structpb.Struct) (any, error) {
					return s.ResolveCardImage(ctx, in)
				}),
		},
		{
			MethodName: "GetBenefitPeriod",
			Handler: unaryHandler(GetBenefitPeriodFullMethodName,
				func(s DashboardSyncServer, ctx context.Context, in *structpb.Struct) (any, error) {
					return s.GetBenefitPeriod(ctx, in)
				}),
		},
		{
			MethodName: "GetFiveTwentyFour",
			Handler: unaryHandler(GetFiveTwentyFourFullMethodName,
				func(s DashboardSyncServer, ctx context.Context, in *structpb.Struct) (any, error) {
					return s.GetFiveTwentyFour(ctx, in)
				}),
		},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "WatchCurrentDay",
			Handler:       watchCurrentDayHandler,
			ServerStreams: true,
		},
	},
	Metadata: "dashboard/v1/dashboard.proto",
}

// unaryHandler adapts a typed call to grpc.MethodHandler, running interceptors
// the same way generated code does.
func unaryHandler[Req any](
	fullMethod string,
	call func(DashboardSyncServer, context.Context, *Req) (any, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}

		server, _ := srv.(DashboardSyncServer)
		if interceptor == nil {
			return call(server, ctx, in)
		}

		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}

		handler := func(ctx context.Context, req any) (any, error) {
			typed, _ := req.(*Req)

			return call(server, ctx, typed)
		}

		return interceptor(ctx, in, info, handler)
	}
}

// watchCurrentDayHandler reads the request and hands the typed stream to the server.
func watchCurrentDayHandler(srv any, stream grpc.ServerStream) error {
	in := new(emptypb.Empty)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}

	server, _ := srv.(DashboardSyncServer)

	return server.WatchCurrentDay(in, &grpc.GenericServerStream[emptypb.Empty, wrapperspb.StringValue]{ServerStream: stream})
}

// DashboardSyncClient is the client API of the dashboard sync service.
type DashboardSyncClient interface {
	GetTimezone(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	SetTimezone(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	GetCurrentDay(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	WatchCurrentDay(
		ctx context.Context,
		in *emptypb.Empty,
		opts ...grpc.CallOption,
	) (grpc.ServerStreamingClient[wrapperspb.StringValue], error)
	ResolveCardImage(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetBenefitPeriod(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetFiveTwentyFour(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

// dashboardSyncClient implements DashboardSyncClient over a connection.
type dashboardSyncClient struct {
	// cc is the underlying connection.
	cc grpc.ClientConnInterface
}

// NewDashboardSyncClient creates a client stub over cc.
func NewDashboardSyncClient(cc grpc.ClientConnInterface) DashboardSyncClient {
	return &dashboardSyncClient{cc: cc}
}

// GetTimezone calls GetTimezone.
func (c *dashboardSyncClient) GetTimezone(
	ctx context.Context,
	in *emptypb.Empty,
	opts ...grpc.CallOption,
) (*wrapperspb.StringValue, error) {
	return invoke[wrapperspb.StringValue](ctx, c.cc, GetTimezoneFullMethodName, in, opts)
}

// SetTimezone calls SetTimezone.
func (c *dashboardSyncClient) SetTimezone(
	ctx context.Context,
	in *wrapperspb.StringValue,
	opts ...grpc.CallOption,
) (*wrapperspb.StringValue, error) {
	return invoke[wrapperspb.StringValue](ctx, c.cc, SetTimezoneFullMethodName, in, opts)
}

// GetCurrentDay calls GetCurrentDay.
func (c *dashboardSyncClient) GetCurrentDay(
	ctx context.Context,
	in *emptypb.Empty,
	opts ...grpc.CallOption,
) (*wrapperspb.StringValue, error) {
	return invoke[wrapperspb.StringValue](ctx, c.cc, GetCurrentDayFullMethodName, in, opts)
}

// WatchCurrentDay opens the WatchCurrentDay stream.
func (c *dashboardSyncClient) WatchCurrentDay(
	ctx context.Context,
	in *emptypb.Empty,
	opts ...grpc.CallOption,
) (grpc.ServerStreamingClient[wrapperspb.StringValue], error) {
	stream, err := c.cc.NewStream(ctx, &ServiceDesc.Streams[0], WatchCurrentDayFullMethodName, opts...)
	if err != nil {
		return nil, err
	}

	x := &grpc.GenericClientStream[emptypb.Empty, wrapperspb.StringValue]{ClientStream: stream}
	if err := x.SendMsg(in); err != nil {
		return nil, err
	}

	if err := x.CloseSend(); err != nil {
		return nil, err
	}

	return x, nil
}

// ResolveCardImage calls ResolveCardImage.
func (c *dashboardSyncClient) ResolveCardImage(
	ctx context.Context,
	in *structpb.Struct,
	opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, ResolveCardImageFullMethodName, in, opts)
}

// GetBenefitPeriod calls GetBenefitPeriod.
func (c *dashboardSyncClient) GetBenefitPeriod(
	ctx context.Context,
	in *structpb.Struct,
	opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, GetBenefitPeriodFullMethodName, in, opts)
}

// GetFiveTwentyFour calls GetFiveTwentyFour.
func (c *dashboardSyncClient) GetFiveTwentyFour(
	ctx context.Context,
	in *structpb.Struct,
	opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	return invoke[structpb.Struct](ctx, c.cc, GetFiveTwentyFourFullMethodName, in, opts)
}

// invoke performs a unary call decoding the response into a new Res.
func invoke[Res any](
	ctx context.Context,
	cc grpc.ClientConnInterface,
	method string,
	in any,
	opts []grpc.CallOption,
) (*Res, error) {
	out := new(Res)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}
