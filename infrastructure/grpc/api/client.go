package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

type MeetingServiceClient interface {
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error)
	RedeemInvite(ctx context.Context, in *RedeemRequest, opts ...grpc.CallOption) (*LoginResponse, error)
	Me(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*MeResponse, error)
	Post(ctx context.Context, in *PostRequest, opts ...grpc.CallOption) (*CommandResponse, error)
	Moderate(ctx context.Context, in *ModerateRequest, opts ...grpc.CallOption) (*CommandResponse, error)
	AssignProxies(ctx context.Context, in *ProxyRequest, opts ...grpc.CallOption) (*ProxyResponse, error)
	CreateInvite(ctx context.Context, in *InviteRequest, opts ...grpc.CallOption) (*InviteResponse, error)
	Export(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ExportResponse, error)
	Search(ctx context.Context, in *SearchRequest, opts ...grpc.CallOption) (*SearchResponse, error)
	Connect(ctx context.Context, in *ConnectRequest, opts ...grpc.CallOption) (MeetingService_ConnectClient, error)
}

type meetingServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewMeetingServiceClient(cc grpc.ClientConnInterface) MeetingServiceClient {
	return &meetingServiceClient{cc}
}

// MeetingService_ConnectClient receives the frames of the live stream.
type MeetingService_ConnectClient interface {
	Recv() (*Frame, error)
	grpc.ClientStream
}

type meetingServiceConnectClient struct {
	grpc.ClientStream
}

func (x *meetingServiceConnectClient) Recv() (*Frame, error) {
	in := new(structpb.Struct)
	if err := x.ClientStream.RecvMsg(in); err != nil {
		return nil, err
	}
	f := new(Frame)
	f.fromProto(in)
	return f, nil
}

func invoke[Res any, PRes interface {
	*Res
	wireMessage
}](ctx context.Context, cc grpc.ClientConnInterface, method string, in wireMessage, opts []grpc.CallOption) (PRes, error) {
	out := new(structpb.Struct)
	if err := cc.Invoke(ctx, method, in.toProto(), out, opts...); err != nil {
		var zero PRes
		return zero, err
	}
	res := PRes(new(Res))
	res.fromProto(out)
	return res, nil
}

func (c *meetingServiceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, MeetingService_Login_FullMethodName, in, opts)
}

func (c *meetingServiceClient) RedeemInvite(ctx context.Context, in *RedeemRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, MeetingService_RedeemInvite_FullMethodName, in, opts)
}

func (c *meetingServiceClient) Me(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*MeResponse, error) {
	return invoke[MeResponse](ctx, c.cc, MeetingService_Me_FullMethodName, in, opts)
}

func (c *meetingServiceClient) Post(ctx context.Context, in *PostRequest, opts ...grpc.CallOption) (*CommandResponse, error) {
	return invoke[CommandResponse](ctx, c.cc, MeetingService_Post_FullMethodName, in, opts)
}

func (c *meetingServiceClient) Moderate(ctx context.Context, in *ModerateRequest, opts ...grpc.CallOption) (*CommandResponse, error) {
	return invoke[CommandResponse](ctx, c.cc, MeetingService_Moderate_FullMethodName, in, opts)
}

func (c *meetingServiceClient) AssignProxies(ctx context.Context, in *ProxyRequest, opts ...grpc.CallOption) (*ProxyResponse, error) {
	return invoke[ProxyResponse](ctx, c.cc, MeetingService_AssignProxies_FullMethodName, in, opts)
}

func (c *meetingServiceClient) CreateInvite(ctx context.Context, in *InviteRequest, opts ...grpc.CallOption) (*InviteResponse, error) {
	return invoke[InviteResponse](ctx, c.cc, MeetingService_CreateInvite_FullMethodName, in, opts)
}

func (c *meetingServiceClient) Export(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ExportResponse, error) {
	return invoke[ExportResponse](ctx, c.cc, MeetingService_Export_FullMethodName, in, opts)
}

func (c *meetingServiceClient) Search(ctx context.Context, in *SearchRequest, opts ...grpc.CallOption) (*SearchResponse, error) {
	return invoke[SearchResponse](ctx, c.cc, MeetingService_Search_FullMethodName, in, opts)
}

func (c *meetingServiceClient) Connect(ctx context.Context, in *ConnectRequest, opts ...grpc.CallOption) (MeetingService_ConnectClient, error) {
	stream, err := c.cc.NewStream(ctx, &MeetingService_ServiceDesc.Streams[0], MeetingService_Connect_FullMethodName, opts...)
	if err != nil {
		return nil, err
	}
	x := &meetingServiceConnectClient{ClientStream: stream}
	if err := x.ClientStream.SendMsg(in.toProto()); err != nil {
		return nil, err
	}
	if err := x.ClientStream.CloseSend(); err != nil {
		return nil, err
	}
	return x, nil
}
