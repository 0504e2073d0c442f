package api

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	_ "github.com/pharmlab/procure/docs" // swagger docs

	"github.com/gin-gonic/gin"
	"github.com/pharmlab/procure/internal/config"
	inventoryImpl "github.com/pharmlab/procure/pkg/core/inventory/inventory"
	"github.com/pharmlab/procure/pkg/core/notify"
	"github.com/pharmlab/procure/pkg/core/notify/events"
	quotationImpl "github.com/pharmlab/procure/pkg/core/quotation/quotation"
	procuregrpc "github.com/pharmlab/procure/pkg/grpc"
	"github.com/pharmlab/procure/pkg/middleware/db"
	"github.com/pharmlab/procure/pkg/middleware/logger"
	"github.com/pharmlab/procure/pkg/middleware/redis"
	"github.com/pharmlab/procure/pkg/middleware/trace"
	"github.com/pharmlab/procure/pkg/repo/catalog"
	inventoryRepo "github.com/pharmlab/procure/pkg/repo/inventory"
	migrate "github.com/pharmlab/procure/pkg/repo/migrate"
	quotationRepo "github.com/pharmlab/procure/pkg/repo/quotation"
	"github.com/pharmlab/procure/pkg/utils"
	"github.com/pharmlab/procure/pkg/web"
	"github.com/spf13/cobra"
)

var center notify.MsgCenter

func NewWeb() *cobra.Command {
	return &cobra.Command{
		Use:          "apiserver",
		Long:         "Start the API server (HTTP + gRPC)",
		SilenceUsage: true,
		PreRunE:      initWeb,
		RunE:         newRouter,
		PostRunE:     cleanWebResource,
	}
}

func NewMigrate() *cobra.Command {
	return &cobra.Command{
		Use:          "migrate",
		Long:         "Run database migrations",
		SilenceUsage: true,
		PreRunE:      initMigrate,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return migrate.Table(cmd.Root().Context())
		},
		PostRunE: func(cmd *cobra.Command, _ []string) error {
			db.ClosePostgres(cmd.Context())
			return nil
		},
	}
}

func initMigrate(cmd *cobra.Command, _ []string) error {
	InitPostgres(cmd.Context())
	return nil
}

// InitPostgres opens the global datastore from config.
func InitPostgres(ctx context.Context) {
	conf := config.Global()
	db.InitPostgres(ctx, &db.Config{
		Host: conf.Database.Host, Port: conf.Database.Port,
		User: conf.Database.User, PW: conf.Database.Password,
		DBName: conf.Database.Name, LogConf: db.LogConf{Level: conf.Log.LogLevel},
	})
}

// InitInfra starts tracing, postgres and redis for a server command.
func InitInfra(ctx context.Context) {
	conf := config.Global()
	trace.InitTrace(ctx, &trace.InitConfig{
		ServiceName:    fmt.Sprintf("%s-%s", conf.Server.Service, conf.Server.Platform),
		Version:        conf.Trace.Version,
		Env:            conf.Server.Env,
		TraceEndpoint:  conf.Trace.TraceEndpoint,
		MetricEndpoint: conf.Trace.MetricEndpoint,
		Stdout:         conf.Trace.Stdout,
	})
	InitPostgres(ctx)
	redis.InitRedis(ctx, &redis.Redis{
		Host: conf.Redis.Host, Port: conf.Redis.Port,
		Password: conf.Redis.Password, DB: conf.Redis.DB,
	})
}

// NewCenter publishes and consumes quotation events over redis.
func NewCenter() notify.MsgCenter {
	conf := config.Global().Notify
	return events.NewEvents(redis.GetClient(), conf.Channel, conf.PoolSize)
}

func initWeb(cmd *cobra.Command, _ []string) error {
	InitInfra(cmd.Context())
	center = NewCenter()
	return nil
}

func newServices() *web.Services {
	store := quotationRepo.New()
	stock := inventoryRepo.New()
	inv := inventoryImpl.New(stock)
	return &web.Services{
		Inventory: inv,
		Quotation: quotationImpl.New(store, stock, inv, catalog.New()),
		Center:    center,
	}
}

func newRouter(cmd *cobra.Command, _ []string) error {
	router := gin.New()
	router.Use(gin.Recovery())
	web.NewRouter(router, newServices())
	conf := config.Global()
	port := conf.Server.Port
	addr := ":" + strconv.Itoa(port)

	httpServer := http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 30 * time.Second,
		IdleTimeout:       30 * time.Second,
		TLSNextProto:      make(map[string]func(*http.Server, *tls.Conn, http.Handler)),
	}

	fmt.Printf("API Server starting on http://0.0.0.0:%d\n", port)

	utils.SafelyGo(func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorf(cmd.Context(), "start server err: %v\n", err)
		}
	}, func(err error) {
		logger.Errorf(cmd.Context(), "run http server err: %+v", err)
		os.Exit(1)
	})

	grpcPort := conf.Server.GrpcPort
	grpcServer, err := procuregrpc.NewServer(cmd.Root().Context(), grpcPort)
	if err != nil {
		logger.Errorf(cmd.Context(), "start gRPC server err: %+v", err)
	} else {
		fmt.Printf("gRPC Server starting on port %d\n", grpcPort)
	}

	fmt.Printf("Server started. Press Ctrl+C to shutdown.\n")
	<-cmd.Context().Done()

	if grpcServer != nil {
		grpcServer.GracefulStop()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		fmt.Printf("shut down server err: %+v", err)
	}
	return nil
}

// CleanInfra releases what InitInfra and NewCenter opened.
func CleanInfra(ctx context.Context, c notify.MsgCenter) {
	if c != nil {
		if err := c.Close(ctx); err != nil {
			logger.Errorf(ctx, "close notify center err: %+v", err)
		}
	}
	redis.CloseRedis(ctx)
	db.ClosePostgres(ctx)
	trace.CloseTrace()
}

func cleanWebResource(cmd *cobra.Command, _ []string) error {
	CleanInfra(cmd.Context(), center)
	return nil
}
