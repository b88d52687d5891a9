package auth

import (
	"context"
	"meeting-lab/domain"
	"meeting-lab/errors"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// Interceptor handles JWT validation for incoming gRPC calls.
type Interceptor struct {
	tokens        *TokenManager
	publicMethods map[string]struct{}
}

// NewInterceptor takes the full names of the methods callable without a token.
func NewInterceptor(tokens *TokenManager, publicMethods ...string) *Interceptor {
	public := make(map[string]struct{}, len(publicMethods))
	for _, m := range publicMethods {
		public[m] = struct{}{}
	}
	return &Interceptor{tokens: tokens, publicMethods: public}
}

func (i *Interceptor) Unary() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if i.isPublicMethod(info.FullMethod) {
			return handler(ctx, req)
		}
		identity, err := i.fromMetadata(ctx)
		if err != nil {
			return nil, err
		}
		return handler(WithIdentity(ctx, identity), req)
	}
}

func (i *Interceptor) Stream() grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		if i.isPublicMethod(info.FullMethod) {
			return handler(srv, ss)
		}
		identity, err := i.fromMetadata(ss.Context())
		if err != nil {
			return err
		}
		return handler(srv, &authenticatedStream{ServerStream: ss, ctx: WithIdentity(ss.Context(), identity)})
	}
}

// Authenticate validates a raw "Bearer <token>" header or a bare token.
// The HTTP gateway uses it for headers and the websocket query parameter.
func (i *Interceptor) Authenticate(header string) (domain.Identity, error) {
	tokenStr := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if tokenStr == "" {
		return domain.Identity{}, errors.ErrUnauthorized
	}
	claims, err := i.tokens.Validate(tokenStr)
	if err != nil {
		return domain.Identity{}, err
	}
	return claims.Identity(), nil
}

func (i *Interceptor) fromMetadata(ctx context.Context) (domain.Identity, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return domain.Identity{}, status.Error(codes.Unauthenticated, "metadata is missing")
	}
	values := md.Get("authorization")
	if len(values) == 0 {
		return domain.Identity{}, status.Error(codes.Unauthenticated, "authorization token is missing")
	}
	identity, err := i.Authenticate(values[0])
	if err != nil {
		return domain.Identity{}, status.Error(codes.Unauthenticated, "invalid or expired token")
	}
	return identity, nil
}

func (i *Interceptor) isPublicMethod(method string) bool {
	_, ok := i.publicMethods[method]
	return ok
}

type authenticatedStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *authenticatedStream) Context() context.Context {
	return s.ctx
}
