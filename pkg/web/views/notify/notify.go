package notify

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pharmlab/procure/pkg/core/notify/hub"
)

type Handle struct{ hub *hub.Hub }

func NewHandle(h *hub.Hub) *Handle { return &Handle{hub: h} }

// Connect upgrades to a websocket that streams quotation events the caller
// may see.
func (h *Handle) Connect(ctx *gin.Context) {
	h.hub.Connect(ctx)
}

func (h *Handle) Online(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"online": h.hub.Online()})
}
