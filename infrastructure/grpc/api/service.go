package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "meeting.v1.MeetingService"

const (
	MeetingService_Login_FullMethodName         = "/meeting.v1.MeetingService/Login"
	MeetingService_RedeemInvite_FullMethodName  = "/meeting.v1.MeetingService/RedeemInvite"
	MeetingService_Me_FullMethodName            = "/meeting.v1.MeetingService/Me"
	MeetingService_Post_FullMethodName          = "/meeting.v1.MeetingService/Post"
	MeetingService_Moderate_FullMethodName      = "/meeting.v1.MeetingService/Moderate"
	MeetingService_AssignProxies_FullMethodName = "/meeting.v1.MeetingService/AssignProxies"
	MeetingService_CreateInvite_FullMethodName  = "/meeting.v1.MeetingService/CreateInvite"
	MeetingService_Export_FullMethodName        = "/meeting.v1.MeetingService/Export"
	MeetingService_Search_FullMethodName        = "/meeting.v1.MeetingService/Search"
	MeetingService_Connect_FullMethodName       = "/meeting.v1.MeetingService/Connect"
)

// PublicMethods can be called without a bearer token.
var PublicMethods = []string{
	MeetingService_Login_FullMethodName,
	MeetingService_RedeemInvite_FullMethodName,
}

// MeetingService_ConnectServer sends frames of the live stream to one client.
type MeetingService_ConnectServer interface {
	Send(*Frame) error
	grpc.ServerStream
}

type meetingServiceConnectServer struct {
	grpc.ServerStream
}

func (x *meetingServiceConnectServer) Send(f *Frame) error {
	return x.ServerStream.SendMsg(f.toProto())
}

type MeetingServiceServer interface {
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	RedeemInvite(context.Context, *RedeemRequest) (*LoginResponse, error)
	Me(context.Context, *Empty) (*MeResponse, error)
	Post(context.Context, *PostRequest) (*CommandResponse, error)
	Moderate(context.Context, *ModerateRequest) (*CommandResponse, error)
	AssignProxies(context.Context, *ProxyRequest) (*ProxyResponse, error)
	CreateInvite(context.Context, *InviteRequest) (*InviteResponse, error)
	Export(context.Context, *Empty) (*ExportResponse, error)
	Search(context.Context, *SearchRequest) (*SearchResponse, error)
	Connect(*ConnectRequest, MeetingService_ConnectServer) error
}

func RegisterMeetingServiceServer(s grpc.ServiceRegistrar, srv MeetingServiceServer) {
	s.RegisterService(&MeetingService_ServiceDesc, srv)
}

// unary builds the handler the generated code would emit for one method. The
// interceptors see the Struct payloads, the server sees typed messages.
func unary[Req, Res any, PReq interface {
	*Req
	wireMessage
}, PRes interface {
	*Res
	wireMessage
}](method string, call func(MeetingServiceServer, context.Context, PReq) (PRes, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		handler := func(ctx context.Context, req any) (any, error) {
			msg := PReq(new(Req))
			msg.fromProto(req.(*structpb.Struct))
			out, err := call(srv.(MeetingServiceServer), ctx, msg)
			if err != nil {
				return nil, err
			}
			return out.toProto(), nil
		}
		if interceptor == nil {
			return handler(ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		return interceptor(ctx, in, info, handler)
	}
}

func connectHandler(srv any, stream grpc.ServerStream) error {
	in := new(structpb.Struct)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	req := new(ConnectRequest)
	req.fromProto(in)
	return srv.(MeetingServiceServer).Connect(req, &meetingServiceConnectServer{ServerStream: stream})
}

var MeetingService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*MeetingServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Login", Handler: unary(MeetingService_Login_FullMethodName, MeetingServiceServer.Login)},
		{MethodName: "RedeemInvite", Handler: unary(MeetingService_RedeemInvite_FullMethodName, MeetingServiceServer.RedeemInvite)},
		{MethodName: "Me", Handler: unary(MeetingService_Me_FullMethodName, MeetingServiceServer.Me)},
		{MethodName: "Post", Handler: unary(MeetingService_Post_FullMethodName, MeetingServiceServer.Post)},
		{MethodName: "Moderate", Handler: unary(MeetingService_Moderate_FullMethodName, MeetingServiceServer.Moderate)},
		{MethodName: "AssignProxies", Handler: unary(MeetingService_AssignProxies_FullMethodName, MeetingServiceServer.AssignProxies)},
		{MethodName: "CreateInvite", Handler: unary(MeetingService_CreateInvite_FullMethodName, MeetingServiceServer.CreateInvite)},
		{MethodName: "Export", Handler: unary(MeetingService_Export_FullMethodName, MeetingServiceServer.Export)},
		{MethodName: "Search", Handler: unary(MeetingService_Search_FullMethodName, MeetingServiceServer.Search)},
	},
	Streams: []grpc.StreamDesc{
		{
			StreamName:    "Connect",
			Handler:       connectHandler,
			ServerStreams: true,
		},
	},
	Metadata: "meeting/v1/meeting.proto",
}
