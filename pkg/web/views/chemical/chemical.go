package chemical

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pharmlab/procure/pkg/common"
	"github.com/pharmlab/procure/pkg/common/code"
	"github.com/pharmlab/procure/pkg/core/inventory"
)

type Handle struct{ svc inventory.Service }

func NewHandle(svc inventory.Service) *Handle { return &Handle{svc: svc} }

// @Summary	Search chemicals with per-lab availability
// @Tags		chemical
// @Param		search		query	string	false	"name fragment"
// @Param		lab_context	query	string	false	"lab whose usable quantity is reported"
// @Param		limit		query	int		false	"max results"
// @Success	200	{object}	common.Resp
// @Router		/v1/chemicals [get]
func (h *Handle) Search(ctx *gin.Context) {
	req := &inventory.SearchReq{}
	if err := ctx.ShouldBindQuery(req); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	resp, err := h.svc.Search(ctx, req)
	common.Reply(ctx, err, resp)
}

// @Summary	Usable quantity of chemicals for a lab, served from cached snapshots
// @Tags		chemical
// @Param		lab_context	query	string		false	"lab whose usable quantity is reported"
// @Param		names		query	[]string	true	"chemical names, repeated or comma separated"
// @Success	200	{object}	common.Resp
// @Router		/v1/chemicals/availability [get]
func (h *Handle) Availability(ctx *gin.Context) {
	req := &inventory.AvailabilityReq{}
	if err := ctx.ShouldBindQuery(req); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	names := make([]string, 0, len(req.Names))
	for _, n := range req.Names {
		names = append(names, strings.Split(n, ",")...)
	}
	req.Names = names
	resp, err := h.svc.Availability(ctx, req)
	common.Reply(ctx, err, resp)
}
