package web

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/pharmlab/procure/internal/config"
	"github.com/pharmlab/procure/pkg/core/notify"
	"github.com/pharmlab/procure/pkg/core/notify/hub"
	"github.com/pharmlab/procure/pkg/middleware/auth"
	notifyView "github.com/pharmlab/procure/pkg/web/views/notify"
)

func NewNotify(ctx context.Context, g *gin.Engine, center notify.MsgCenter) (context.CancelFunc, error) {
	installMiddleware(g)
	return installNotifyURL(ctx, g, center)
}

func installNotifyURL(ctx context.Context, g *gin.Engine, center notify.MsgCenter) (context.CancelFunc, error) {
	api := installHealth(g)
	h, err := hub.New(ctx, center, config.Global().Notify.MaxMsgLen)
	if err != nil {
		return nil, err
	}
	handle := notifyView.NewHandle(h)

	{
		v1 := api.Group("/v1/ws", auth.AuthWeb())
		v1.GET("/quotations", handle.Connect)
		v1.GET("/online", handle.Online)
	}

	return func() {
		h.Close(ctx)
	}, nil
}
