package server

import (
	"log/slog"
	"meeting-lab/auth"
	"meeting-lab/infrastructure/grpc/api"
	"time"

	grpc3 "github.com/mama165/sdk-go/grpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/keepalive"
)

const keepaliveInterval = 30 * time.Second

// NewGRPCServer builds the gRPC server with logging and bearer authentication on every call.
// Login and RedeemInvite stay reachable without a token. A peer that misses a
// keepalive ack for deliveryTimeout is dropped, which ends its live stream.
func NewGRPCServer(logger *slog.Logger, interceptor *auth.Interceptor, meetingServer api.MeetingServiceServer, deliveryTimeout time.Duration) *grpc.Server {
	s := grpc.NewServer(
		grpc.KeepaliveParams(keepalive.ServerParameters{
			Time:    keepaliveInterval,
			Timeout: deliveryTimeout,
		}),
		grpc.ChainUnaryInterceptor(
			grpc3.UnaryLoggingInterceptor(logger),
			interceptor.Unary(),
		),
		grpc.ChainStreamInterceptor(interceptor.Stream()),
	)
	api.RegisterMeetingServiceServer(s, meetingServer)
	return s
}
