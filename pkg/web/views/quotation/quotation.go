package quotation

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/pharmlab/procure/pkg/common"
	"github.com/pharmlab/procure/pkg/common/code"
	"github.com/pharmlab/procure/pkg/common/uuid"
	"github.com/pharmlab/procure/pkg/core/notify"
	core "github.com/pharmlab/procure/pkg/core/quotation"
	"github.com/pharmlab/procure/pkg/middleware/auth"
	"github.com/pharmlab/procure/pkg/middleware/logger"
)

type Handle struct {
	svc    core.Service
	center notify.MsgCenter
}

// NewHandle serves the quotation routes. center may be nil, in which case
// no change events are published.
func NewHandle(svc core.Service, center notify.MsgCenter) *Handle {
	return &Handle{svc: svc, center: center}
}

func quotationID(ctx *gin.Context) (uuid.UUID, error) {
	id, err := uuid.FromString(ctx.Param("id"))
	if err != nil {
		return uuid.Nil, code.ParamErr.WithMsgf("invalid quotation id %q", ctx.Param("id"))
	}
	return id, nil
}

// @Summary	List quotations visible to the caller's scope
// @Tags		quotation
// @Param		id			path	string	true	"lab, central or admin"
// @Param		status		query	string	false	"status filter"
// @Param		page		query	int		false	"page"
// @Param		page_size	query	int		false	"page size"
// @Success	200	{object}	common.Resp
// @Router		/v1/quotations/{id} [get]
func (h *Handle) List(ctx *gin.Context) {
	req := &core.ListReq{}
	if err := ctx.ShouldBindQuery(req); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	// The scope shares the :id segment with the per-quotation routes.
	req.Scope = core.Scope(ctx.Param("id"))
	resp, err := h.svc.List(ctx, auth.GetCurrentUser(ctx), req)
	common.Reply(ctx, err, resp)
}

// @Summary	Quotation detail
// @Tags		quotation
// @Param		id	path	string	true	"quotation id"
// @Success	200	{object}	common.Resp
// @Router		/v1/quotations/detail/{id} [get]
func (h *Handle) Get(ctx *gin.Context) {
	id, err := quotationID(ctx)
	if err != nil {
		common.ReplyErr(ctx, err)
		return
	}
	resp, err := h.svc.Get(ctx, auth.GetCurrentUser(ctx), &core.GetReq{QuotationUUID: id})
	common.Reply(ctx, err, resp)
}

// @Summary	Create a lab request
// @Tags		quotation
// @Accept		json
// @Param		req	body	core.CreateRequestReq	true	"experiments and requested items"
// @Success	200	{object}	common.Resp
// @Router		/v1/quotations [post]
func (h *Handle) CreateRequest(ctx *gin.Context) {
	req := &core.CreateRequestReq{}
	if err := ctx.ShouldBindJSON(req); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	resp, err := h.svc.CreateRequest(ctx, auth.GetCurrentUser(ctx), req)
	h.changed(ctx, notify.QuotationChanged, resp, err)
	common.Reply(ctx, err, resp)
}

// @Summary	Create a vendor draft
// @Tags		quotation
// @Accept		json
// @Param		req	body	core.CreateDraftReq	true	"vendor and chemicals"
// @Success	200	{object}	common.Resp
// @Router		/v1/quotations/central/draft [post]
func (h *Handle) CreateDraft(ctx *gin.Context) {
	req := &core.CreateDraftReq{}
	if err := ctx.ShouldBindJSON(req); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	resp, err := h.svc.CreateDraft(ctx, auth.GetCurrentUser(ctx), req)
	h.changed(ctx, notify.QuotationChanged, resp, err)
	common.Reply(ctx, err, resp)
}

// @Summary	Merge chemicals into a draft
// @Tags		quotation
// @Accept		json
// @Param		req	body	core.AddChemicalsReq	true	"draft id and chemicals"
// @Success	200	{object}	common.Resp
// @Router		/v1/quotations/central/draft/add-chemical [patch]
func (h *Handle) AddChemicals(ctx *gin.Context) {
	req := &core.AddChemicalsReq{}
	if err := ctx.ShouldBindJSON(req); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	resp, err := h.svc.AddChemicalsToDraft(ctx, auth.GetCurrentUser(ctx), req)
	h.changed(ctx, notify.QuotationChanged, resp, err)
	common.Reply(ctx, err, resp)
}

// @Summary	Submit a draft to the admin
// @Tags		quotation
// @Accept		json
// @Param		req	body	core.SubmitDraftReq	true	"draft id"
// @Success	200	{object}	common.Resp
// @Router		/v1/quotations/central/draft/submit [patch]
func (h *Handle) SubmitDraft(ctx *gin.Context) {
	req := &core.SubmitDraftReq{}
	if err := ctx.ShouldBindJSON(req); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	resp, err := h.svc.SubmitDraft(ctx, auth.GetCurrentUser(ctx), req)
	h.changed(ctx, notify.QuotationChanged, resp, err)
	common.Reply(ctx, err, resp)
}

// @Summary	Change quotation status
// @Tags		quotation
// @Accept		json
// @Param		id	path	string				true	"quotation id"
// @Param		req	body	core.TransitionReq	true	"target status"
// @Success	200	{object}	common.Resp
// @Failure	409	{object}	common.Resp
// @Router		/v1/quotations/{id} [patch]
func (h *Handle) Transition(ctx *gin.Context) {
	req := &core.TransitionReq{}
	if err := ctx.ShouldBindJSON(req); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	id, err := quotationID(ctx)
	if err != nil {
		common.ReplyErr(ctx, err)
		return
	}
	req.QuotationUUID = id
	resp, err := h.svc.Transition(ctx, auth.GetCurrentUser(ctx), req)
	h.changed(ctx, notify.QuotationChanged, resp, err)
	common.Reply(ctx, err, resp)
}

// @Summary	Set remarks on one chemical line
// @Tags		quotation
// @Accept		json
// @Param		id	path	string					true	"quotation id"
// @Param		req	body	core.UpdateRemarksReq	true	"line index and remarks"
// @Success	200	{object}	common.Resp
// @Router		/v1/quotations/{id}/chemicals/remarks [patch]
func (h *Handle) UpdateRemarks(ctx *gin.Context) {
	req := &core.UpdateRemarksReq{}
	if err := ctx.ShouldBindJSON(req); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	id, err := quotationID(ctx)
	if err != nil {
		common.ReplyErr(ctx, err)
		return
	}
	req.QuotationUUID = id
	resp, err := h.svc.UpdateRemarks(ctx, auth.GetCurrentUser(ctx), req)
	h.changed(ctx, notify.QuotationChanged, resp, err)
	common.Reply(ctx, err, resp)
}

// @Summary	Set one remark on every chemical line of a draft
// @Tags		quotation
// @Accept		json
// @Param		id	path	string					true	"quotation id"
// @Param		req	body	core.BatchRemarksReq	true	"remark"
// @Success	200	{object}	common.Resp
// @Router		/v1/quotations/{id}/chemicals/batch-remarks [patch]
func (h *Handle) BatchRemarks(ctx *gin.Context) {
	req := &core.BatchRemarksReq{}
	if err := ctx.ShouldBindJSON(req); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	id, err := quotationID(ctx)
	if err != nil {
		common.ReplyErr(ctx, err)
		return
	}
	req.QuotationUUID = id
	resp, err := h.svc.BatchRemarks(ctx, auth.GetCurrentUser(ctx), req)
	h.changed(ctx, notify.QuotationChanged, resp, err)
	common.Reply(ctx, err, resp)
}

// @Summary	Append a comment
// @Tags		quotation
// @Accept		json
// @Param		id	path	string				true	"quotation id"
// @Param		req	body	core.AddCommentReq	true	"comment text"
// @Success	200	{object}	common.Resp
// @Router		/v1/quotations/{id}/comments [post]
func (h *Handle) AddComment(ctx *gin.Context) {
	req := &core.AddCommentReq{}
	if err := ctx.ShouldBindJSON(req); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	id, err := quotationID(ctx)
	if err != nil {
		common.ReplyErr(ctx, err)
		return
	}
	req.QuotationUUID = id
	actor := auth.GetCurrentUser(ctx)
	resp, err := h.svc.AddComment(ctx, actor, req)
	if err == nil && h.center != nil {
		q, qErr := h.svc.Get(ctx, actor, &core.GetReq{QuotationUUID: id})
		if qErr != nil {
			logger.Warnf(ctx, "load quotation %s for comment event err: %+v", id, qErr)
		} else {
			h.changed(ctx, notify.CommentAdded, q, nil)
		}
	}
	common.Reply(ctx, err, resp)
}

// @Summary	List comments
// @Tags		quotation
// @Param		id		path	string	true	"quotation id"
// @Param		dedup	query	bool	false	"collapse repeated comments"
// @Success	200	{object}	common.Resp
// @Router		/v1/quotations/{id}/comments [get]
func (h *Handle) ListComments(ctx *gin.Context) {
	req := &core.ListCommentsReq{}
	if err := ctx.ShouldBindQuery(req); err != nil {
		common.ReplyErr(ctx, code.ParamErr.WithMsg(err.Error()))
		return
	}
	id, err := quotationID(ctx)
	if err != nil {
		common.ReplyErr(ctx, err)
		return
	}
	req.QuotationUUID = id
	resp, err := h.svc.ListComments(ctx, auth.GetCurrentUser(ctx), req)
	common.Reply(ctx, err, resp)
}

// changed publishes a change event for a successful mutation. Publishing is
// best effort; the mutation is already committed.
func (h *Handle) changed(ctx context.Context, action notify.Action, q *core.QuotationResp, err error) {
	if err != nil || q == nil || h.center == nil {
		return
	}
	actor := auth.GetCurrentUser(ctx)
	msg := &notify.SendMsg{
		Channel:       action,
		QuotationUUID: q.UUID,
		Kind:          string(q.Kind),
		LabID:         q.LabID,
		Status:        string(q.Status),
		Data:          q,
	}
	if actor != nil {
		msg.ActorID = actor.ID
		msg.ActorRole = actor.Role
	}
	if err := h.center.Broadcast(ctx, msg); err != nil {
		logger.Errorf(ctx, "broadcast %s for quotation %s err: %+v", action, q.UUID, err)
	}
}
