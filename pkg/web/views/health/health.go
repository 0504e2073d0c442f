package health

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pharmlab/procure/pkg/middleware/db"
	"github.com/pharmlab/procure/pkg/middleware/logger"
	"github.com/pharmlab/procure/pkg/middleware/redis"
)

const pingTimeout = 2 * time.Second

var errNotInitialized = errors.New("not initialized")

// Dependency is a backing service procurement needs before it takes traffic.
type Dependency struct {
	Name string
	Ping func(ctx context.Context) error
}

type Report struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Postgres holds quotations, their history and chemical stock.
func Postgres() Dependency {
	return Dependency{Name: "postgres", Ping: func(ctx context.Context) error {
		ds := db.DB()
		if ds == nil {
			return errNotInitialized
		}
		sqlDB, err := ds.DBIns().DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}}
}

// Redis carries quotation change events to the notify server.
func Redis() Dependency {
	return Dependency{Name: "redis", Ping: func(ctx context.Context) error {
		rc := redis.GetClient()
		if rc == nil {
			return errNotInitialized
		}
		return rc.Ping(ctx).Err()
	}}
}

// Live answers as long as the process serves HTTP.
func Live(g *gin.Context) {
	g.JSON(http.StatusOK, &Report{Status: "ok"})
}

// Ready reports 503 until every dependency answers a ping.
func Ready(deps ...Dependency) gin.HandlerFunc {
	return func(g *gin.Context) {
		ctx, cancel := context.WithTimeout(g.Request.Context(), pingTimeout)
		defer cancel()

		report := &Report{Status: "ready", Checks: make(map[string]string, len(deps))}
		status := http.StatusOK
		for _, d := range deps {
			err := d.Ping(ctx)
			switch {
			case err == nil:
				report.Checks[d.Name] = "ok"
				continue
			case errors.Is(err, errNotInitialized):
				report.Checks[d.Name] = "not_initialized"
			default:
				report.Checks[d.Name] = "unhealthy"
				logger.Warnf(ctx, "ready check %s err: %+v", d.Name, err)
			}
			status = http.StatusServiceUnavailable
			report.Status = "not_ready"
		}
		g.JSON(status, report)
	}
}
