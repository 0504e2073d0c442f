package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pharmlab/procure/cmd/api"
	"github.com/pharmlab/procure/internal/config"
	coreNotify "github.com/pharmlab/procure/pkg/core/notify"
	"github.com/pharmlab/procure/pkg/middleware/logger"
	"github.com/pharmlab/procure/pkg/utils"
	"github.com/pharmlab/procure/pkg/web"
	"github.com/spf13/cobra"
)

var center coreNotify.MsgCenter

func New() *cobra.Command {
	return &cobra.Command{
		Use:          "notify",
		Long:         "Start the notify server (WebSocket fan-out of quotation events from redis)",
		SilenceUsage: true,
		PreRunE:      initNotify,
		RunE:         newRouter,
		PostRunE:     cleanNotify,
	}
}

func initNotify(cmd *cobra.Command, _ []string) error {
	api.InitInfra(cmd.Context())
	center = api.NewCenter()
	return nil
}

func newRouter(cmd *cobra.Command, _ []string) error {
	router := gin.New()
	router.Use(gin.Recovery())
	cancel, err := web.NewNotify(cmd.Root().Context(), router, center)
	if err != nil {
		return err
	}
	port := config.Global().Server.NotifyPort
	addr := ":" + strconv.Itoa(port)

	httpServer := http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 30 * time.Second,
		IdleTimeout:       120 * time.Second,
		TLSNextProto:      make(map[string]func(*http.Server, *tls.Conn, http.Handler)),
	}

	fmt.Printf("Notify Server starting on http://0.0.0.0:%d\n", port)

	utils.SafelyGo(func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Errorf(cmd.Context(), "start server err: %v\n", err)
		}
	}, func(err error) {
		logger.Errorf(cmd.Context(), "run http server err: %+v", err)
		os.Exit(1)
	})

	<-cmd.Context().Done()

	cancel()
	ctx, cancelTimeout := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancelTimeout()
	if err := httpServer.Shutdown(ctx); err != nil {
		fmt.Printf("shut down server err: %+v", err)
	}
	return nil
}

func cleanNotify(cmd *cobra.Command, _ []string) error {
	api.CleanInfra(cmd.Context(), center)
	return nil
}
