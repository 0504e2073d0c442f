package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func serve(t *testing.T, h gin.HandlerFunc) (int, *Report) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	g := gin.New()
	g.GET("/", h)
	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	r := &Report{}
	if err := json.Unmarshal(w.Body.Bytes(), r); err != nil {
		t.Fatal(err)
	}
	return w.Code, r
}

func TestLive(t *testing.T) {
	if status, r := serve(t, Live); status != http.StatusOK || r.Status != "ok" {
		t.Fatalf("status %d report %+v", status, r)
	}
}

func TestReady(t *testing.T) {
	up := Dependency{Name: "up", Ping: func(context.Context) error { return nil }}
	down := Dependency{Name: "down", Ping: func(context.Context) error { return errors.New("connection refused") }}

	status, r := serve(t, Ready(up))
	if status != http.StatusOK || r.Status != "ready" || r.Checks["up"] != "ok" {
		t.Fatalf("status %d report %+v", status, r)
	}

	status, r = serve(t, Ready(up, down))
	if status != http.StatusServiceUnavailable || r.Status != "not_ready" {
		t.Fatalf("status %d report %+v", status, r)
	}
	if r.Checks["up"] != "ok" || r.Checks["down"] != "unhealthy" {
		t.Fatalf("checks %+v", r.Checks)
	}
}

func TestReadyBeforeInfraInit(t *testing.T) {
	status, r := serve(t, Ready(Postgres(), Redis()))
	if status != http.StatusServiceUnavailable {
		t.Fatalf("status %d", status)
	}
	if r.Checks["postgres"] != "not_initialized" || r.Checks["redis"] != "not_initialized" {
		t.Fatalf("checks %+v", r.Checks)
	}
}
