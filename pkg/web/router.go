package web

import (
	"fmt"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/pharmlab/procure/internal/config"
	"github.com/pharmlab/procure/pkg/core/inventory"
	"github.com/pharmlab/procure/pkg/core/notify"
	"github.com/pharmlab/procure/pkg/core/quotation"
	"github.com/pharmlab/procure/pkg/middleware/auth"
	"github.com/pharmlab/procure/pkg/middleware/logger"
	"github.com/pharmlab/procure/pkg/middleware/metrics"
	"github.com/pharmlab/procure/pkg/web/views/chemical"
	"github.com/pharmlab/procure/pkg/web/views/health"
	quotationView "github.com/pharmlab/procure/pkg/web/views/quotation"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

type Services struct {
	Inventory inventory.Service
	Quotation quotation.Service
	Center    notify.MsgCenter
}

func NewRouter(g *gin.Engine, svc *Services) {
	installMiddleware(g)
	installURL(g, svc)
}

func installMiddleware(g *gin.Engine) {
	g.ContextWithFallback = true
	server := config.Global().Server
	g.Use(cors.Default())
	g.Use(otelgin.Middleware(fmt.Sprintf("%s-%s", server.Platform, server.Service)))
	g.Use(logger.LogWithWriter())
}

func installHealth(g *gin.Engine) *gin.RouterGroup {
	g.GET("/metrics", metrics.Handler())
	api := g.Group("/api")
	api.GET("/health", health.Live)
	api.GET("/health/live", health.Live)
	api.GET("/health/ready", health.Ready(health.Postgres(), health.Redis()))
	return api
}

func installURL(g *gin.Engine, svc *Services) {
	api := installHealth(g)
	api.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	cHandle := chemical.NewHandle(svc.Inventory)
	qHandle := quotationView.NewHandle(svc.Quotation, svc.Center)

	v1 := api.Group("/v1", auth.AuthWeb())
	{
		v1.GET("/chemicals", cHandle.Search)
		v1.GET("/chemicals/availability", cHandle.Availability)
	}

	// Every wildcard under /quotations is named :id; gin rejects two names
	// for the same segment.
	{
		qRouter := v1.Group("/quotations")
		qRouter.POST("", qHandle.CreateRequest)
		qRouter.GET("/detail/:id", qHandle.Get)
		qRouter.GET("/:id", qHandle.List)
		qRouter.PATCH("/:id", qHandle.Transition)
		qRouter.PATCH("/:id/chemicals/remarks", qHandle.UpdateRemarks)
		qRouter.PATCH("/:id/chemicals/batch-remarks", qHandle.BatchRemarks)
		qRouter.POST("/:id/comments", qHandle.AddComment)
		qRouter.GET("/:id/comments", qHandle.ListComments)

		draftRouter := qRouter.Group("/central/draft")
		draftRouter.POST("", qHandle.CreateDraft)
		draftRouter.PATCH("/add-chemical", qHandle.AddChemicals)
		draftRouter.PATCH("/submit", qHandle.SubmitDraft)
	}
}
