package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pharmlab/procure/pkg/common"
)

const testSecret = "test-secret"

func sign(t *testing.T, claims *Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func claims(sub, role string, exp time.Time) *Claims {
	return &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			Issuer:    "procure",
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Role:  role,
		LabID: "LAB01",
	}
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Auth(map[AuthType]AuthFunc{AuthTypeBearer: JWTAuth(testSecret, "procure")}))
	r.GET("/me", func(ctx *gin.Context) {
		common.ReplyOk(ctx, GetCurrentUser(ctx))
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	future := time.Now().Add(time.Hour)
	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"malformed", "Bearer", http.StatusUnauthorized},
		{"unknown scheme", "Basic abc", http.StatusUnauthorized},
		{"valid", "Bearer " + sign(t, claims("u1", "lab_assistant", future)), http.StatusOK},
		{"alias role", "Bearer " + sign(t, claims("u2", "central_lab_admin", future)), http.StatusOK},
		{"unknown role", "Bearer " + sign(t, claims("u3", "janitor", future)), http.StatusUnauthorized},
		{"expired", "Bearer " + sign(t, claims("u4", "admin", time.Now().Add(-time.Minute))), http.StatusUnauthorized},
	}
	r := newRouter()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tc.want {
				t.Fatalf("status %d, want %d: %s", w.Code, tc.want, w.Body.String())
			}
		})
	}
}

func TestParseTokenResolvesAlias(t *testing.T) {
	actor, err := ParseToken(testSecret, "procure", sign(t, claims("u2", "central_lab_admin", time.Now().Add(time.Hour))))
	if err != nil {
		t.Fatal(err)
	}
	if actor.Role != common.CentralStoreAdmin || actor.LabID != "LAB01" {
		t.Fatalf("unexpected actor %+v", actor)
	}
	if _, err := ParseToken("other-secret", "procure", sign(t, claims("u2", "admin", time.Now().Add(time.Hour)))); err == nil {
		t.Fatal("token signed with another secret was accepted")
	}
}
