package grpc

import (
	"context"
	"strings"

	"github.com/pharmlab/procure/internal/config"
	"github.com/pharmlab/procure/pkg/common"
	"github.com/pharmlab/procure/pkg/middleware/auth"
	"github.com/pharmlab/procure/pkg/middleware/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type actorContextKey struct{}

// skipAuth returns true for services that should not require authentication.
func skipAuth(fullMethod string) bool {
	return strings.HasPrefix(fullMethod, "/grpc.reflection.") ||
		strings.HasPrefix(fullMethod, "/grpc.health.")
}

func ActorFromContext(ctx context.Context) *common.Actor {
	a, _ := ctx.Value(actorContextKey{}).(*common.Actor)
	return a
}

func extractAndValidateToken(ctx context.Context) (*common.Actor, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing metadata")
	}

	values := md.Get("authorization")
	if len(values) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing authorization header")
	}

	parts := strings.Fields(values[0])
	if len(parts) != 2 {
		return nil, status.Error(codes.Unauthenticated, "invalid authorization format")
	}
	tokenType, token := parts[0], parts[1]

	if auth.AuthType(tokenType) != auth.AuthTypeBearer {
		return nil, status.Errorf(codes.Unauthenticated, "unsupported auth type: %s", tokenType)
	}

	conf := config.Global().Auth
	var (
		actor *common.Actor
		err   error
	)
	switch conf.AuthSource {
	case config.AuthOAuth2:
		actor, err = auth.ValidateToken(ctx, tokenType, token)
	default:
		actor, err = auth.ParseToken(conf.JWTSecret, conf.JWTIssuer, token)
	}
	if err != nil {
		logger.Errorf(ctx, "gRPC auth: bearer token validation failed: %v", err)
		return nil, status.Error(codes.Unauthenticated, "invalid token")
	}
	return actor, nil
}

func UnaryAuthInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if skipAuth(info.FullMethod) {
			return handler(ctx, req)
		}
		actor, err := extractAndValidateToken(ctx)
		if err != nil {
			return nil, err
		}
		return handler(context.WithValue(ctx, actorContextKey{}, actor), req)
	}
}

func StreamAuthInterceptor() grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		if skipAuth(info.FullMethod) {
			return handler(srv, ss)
		}
		actor, err := extractAndValidateToken(ss.Context())
		if err != nil {
			return err
		}
		wrapped := &wrappedStream{ServerStream: ss, ctx: context.WithValue(ss.Context(), actorContextKey{}, actor)}
		return handler(srv, wrapped)
	}
}

type wrappedStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (w *wrappedStream) Context() context.Context {
	return w.ctx
}
