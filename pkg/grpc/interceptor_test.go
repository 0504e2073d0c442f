package grpc

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pharmlab/procure/internal/config"
	"github.com/pharmlab/procure/pkg/common"
	"github.com/pharmlab/procure/pkg/middleware/auth"
	ggrpc "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func bearer(t *testing.T, role string) string {
	t.Helper()
	conf := config.Global().Auth
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u-central",
			Issuer:    conf.JWTIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role: role,
	}).SignedString([]byte(conf.JWTSecret))
	if err != nil {
		t.Fatal(err)
	}
	return "Bearer " + token
}

func TestUnaryAuthInterceptor(t *testing.T) {
	intercept := UnaryAuthInterceptor()
	var seen *common.Actor
	handler := func(ctx context.Context, _ any) (any, error) {
		seen = ActorFromContext(ctx)
		return "ok", nil
	}

	tests := []struct {
		name   string
		method string
		header string
		want   codes.Code
		actor  bool
	}{
		{"health skips auth", "/grpc.health.v1.Health/Check", "", codes.OK, false},
		{"missing header", "/procure.v1.Quotation/Get", "", codes.Unauthenticated, false},
		{"wrong scheme", "/procure.v1.Quotation/Get", "Basic abc", codes.Unauthenticated, false},
		{"garbage token", "/procure.v1.Quotation/Get", "Bearer abc", codes.Unauthenticated, false},
		{"valid token", "/procure.v1.Quotation/Get", bearer(t, "central_lab_admin"), codes.OK, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			ctx := context.Background()
			if tt.header != "" {
				ctx = metadata.NewIncomingContext(ctx, metadata.Pairs("authorization", tt.header))
			} else {
				ctx = metadata.NewIncomingContext(ctx, metadata.MD{})
			}
			_, err := intercept(ctx, nil, &ggrpc.UnaryServerInfo{FullMethod: tt.method}, handler)
			if got := status.Code(err); got != tt.want {
				t.Fatalf("code %v, want %v", got, tt.want)
			}
			if tt.actor && (seen == nil || seen.Role != common.CentralStoreAdmin) {
				t.Fatalf("actor %+v", seen)
			}
		})
	}
}

func TestHealthServing(t *testing.T) {
	s := newServer()
	resp, err := s.health.Check(context.Background(), &healthpb.HealthCheckRequest{Service: QuotationService})
	if err != nil {
		t.Fatal(err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("status %v", resp.GetStatus())
	}
	s.GracefulStop()
	resp, err = s.health.Check(context.Background(), &healthpb.HealthCheckRequest{Service: QuotationService})
	if err != nil {
		t.Fatal(err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Fatalf("status after stop %v", resp.GetStatus())
	}
}
