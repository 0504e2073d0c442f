package quotation

import (
	"context"
	"errors"
	"strings"

	"github.com/pharmlab/procure/pkg/common"
	"github.com/pharmlab/procure/pkg/common/code"
	"github.com/pharmlab/procure/pkg/common/uuid"
	"github.com/pharmlab/procure/pkg/core/inventory"
	core "github.com/pharmlab/procure/pkg/core/quotation"
	"github.com/pharmlab/procure/pkg/middleware/logger"
	"github.com/pharmlab/procure/pkg/middleware/metrics"
	"github.com/pharmlab/procure/pkg/repo"
	"github.com/pharmlab/procure/pkg/repo/model"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/pharmlab/procure/pkg/core/quotation")

type quotationImpl struct {
	store     repo.QuotationRepo
	stock     repo.InventoryRepo
	snapshots inventory.CachingProvider
	catalog   repo.CourseCatalog
}

func New(store repo.QuotationRepo, stock repo.InventoryRepo, snapshots inventory.CachingProvider, catalog repo.CourseCatalog) core.Service {
	return &quotationImpl{
		store:     store,
		stock:     stock,
		snapshots: snapshots,
		catalog:   catalog,
	}
}

type mutateFunc func(txCtx context.Context, q *model.Quotation) (*model.QuotationHistory, error)

// mutate loads the quotation, applies fn and saves it in one transaction.
// Actors that may not read the quotation are refused before fn runs. A lost
// version race or a state conflict is returned with the stored quotation
// attached.
func (s *quotationImpl) mutate(ctx context.Context, op string, actor *common.Actor, id uuid.UUID, fn mutateFunc) (*model.Quotation, error) {
	ctx, span := tracer.Start(ctx, "quotation."+op, trace.WithAttributes(
		attribute.String("quotation.id", id.String()),
	))
	defer span.End()

	var saved *model.Quotation
	err := s.store.ExecTx(ctx, func(txCtx context.Context) error {
		q, err := s.store.GetQuotation(txCtx, id)
		if err != nil {
			return err
		}
		if !core.CanView(actor, q) {
			return code.ViewNotAllowedErr.WithMsgf("quotation %s", id)
		}
		history, err := fn(txCtx, q)
		if err != nil {
			return err
		}
		if err := s.store.SaveQuotation(txCtx, q, history); err != nil {
			return err
		}
		saved = q
		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, code.KindOf(err).String())
		return nil, s.reject(ctx, op, id, err)
	}
	span.SetAttributes(
		attribute.String("quotation.status", string(saved.Status)),
		attribute.Int64("quotation.version", saved.Version),
	)
	return saved, nil
}

func (s *quotationImpl) reject(ctx context.Context, op string, id uuid.UUID, err error) error {
	kind := code.KindOf(err)
	metrics.Rejections.WithLabelValues(op, kind.String()).Inc()
	switch kind {
	case code.KindInternal:
		logger.Errorf(ctx, "%s quotation %s err: %+v", op, id, err)
	case code.KindStateConflict:
		fresh, ferr := s.store.GetQuotation(ctx, id)
		if ferr != nil {
			logger.Warnf(ctx, "%s reload quotation %s err: %+v", op, id, ferr)
			return err
		}
		var e *code.Error
		if errors.As(err, &e) {
			return e.WithData(core.NewQuotationResp(fresh))
		}
		return code.CodeOf(err).WithData(core.NewQuotationResp(fresh))
	}
	return err
}

func (s *quotationImpl) CreateRequest(ctx context.Context, actor *common.Actor, req *core.CreateRequestReq) (*core.QuotationResp, error) {
	if actor == nil {
		return nil, code.UnLogin
	}
	if actor.Role != common.LabAssistant {
		return nil, code.CreateNotAllowedErr.WithMsgf("%s may not submit lab requests", actor.Role)
	}

	snapshots, err := s.snapshots.Snapshots(ctx, core.RequestedChemicals(req))
	if err != nil {
		return nil, err
	}
	q, err := core.BuildRequest(ctx, actor, req, inventory.ByName(snapshots), s.catalog)
	if err != nil {
		metrics.Rejections.WithLabelValues("create_request", code.KindOf(err).String()).Inc()
		return nil, err
	}

	if err := s.store.CreateQuotation(ctx, q); err != nil {
		logger.Errorf(ctx, "CreateRequest err: %+v", err)
		return nil, err
	}
	metrics.Transitions.WithLabelValues("", string(q.Status), string(actor.Role)).Inc()
	return core.NewQuotationResp(q), nil
}

func (s *quotationImpl) CreateDraft(ctx context.Context, actor *common.Actor, req *core.CreateDraftReq) (*core.QuotationResp, error) {
	if actor == nil {
		return nil, code.UnLogin
	}
	if actor.Role != common.CentralStoreAdmin {
		return nil, code.CreateNotAllowedErr.WithMsgf("%s may not create vendor drafts", actor.Role)
	}
	q := &model.Quotation{
		Kind:          model.KindVendor,
		LabID:         actor.LabID,
		CreatedBy:     actor.ID,
		CreatedByRole: actor.Role,
		VendorName:    strings.TrimSpace(req.VendorName),
		Status:        model.StatusDraft,
	}
	if q.VendorName == "" {
		return nil, code.RequestInvalidErr.WithMsg("vendor_name is required")
	}
	if err := core.MergeDraftChemicals(q, req.Chemicals); err != nil {
		return nil, err
	}

	if err := s.store.CreateQuotation(ctx, q); err != nil {
		logger.Errorf(ctx, "CreateDraft err: %+v", err)
		return nil, err
	}
	return core.NewQuotationResp(q), nil
}

func (s *quotationImpl) AddChemicalsToDraft(ctx context.Context, actor *common.Actor, req *core.AddChemicalsReq) (*core.QuotationResp, error) {
	if actor == nil {
		return nil, code.UnLogin
	}
	q, err := s.mutate(ctx, "add_chemicals", actor, req.QuotationUUID, func(_ context.Context, q *model.Quotation) (*model.QuotationHistory, error) {
		if err := core.CheckDraftOwner(actor, q); err != nil {
			return nil, err
		}
		return nil, core.MergeDraftChemicals(q, req.Chemicals)
	})
	if err != nil {
		return nil, err
	}
	return core.NewQuotationResp(q), nil
}

func (s *quotationImpl) SubmitDraft(ctx context.Context, actor *common.Actor, req *core.SubmitDraftReq) (*core.QuotationResp, error) {
	if actor == nil {
		return nil, code.UnLogin
	}
	q, err := s.mutate(ctx, "submit_draft", actor, req.QuotationUUID, func(_ context.Context, q *model.Quotation) (*model.QuotationHistory, error) {
		if err := core.CheckDraftOwner(actor, q); err != nil {
			return nil, err
		}
		if len(q.Chemicals()) == 0 {
			return nil, code.RequestInvalidErr.WithMsg("draft has no chemicals")
		}
		history := core.NewHistory(actor, q, model.StatusPending, nil)
		q.Status = model.StatusPending
		return history, nil
	})
	if err != nil {
		return nil, err
	}
	metrics.Transitions.WithLabelValues(string(model.StatusDraft), string(q.Status), string(actor.Role)).Inc()
	return core.NewQuotationResp(q), nil
}

func (s *quotationImpl) Transition(ctx context.Context, actor *common.Actor, req *core.TransitionReq) (*core.QuotationResp, error) {
	if actor == nil {
		return nil, code.UnLogin
	}
	var (
		from  model.QuotationStatus
		drawn []string
	)
	q, err := s.mutate(ctx, "transition", actor, req.QuotationUUID, func(txCtx context.Context, q *model.Quotation) (*model.QuotationHistory, error) {
		from = q.Status
		history, draws, err := core.ApplyTransition(actor, q, req)
		if err != nil {
			return nil, err
		}
		if drawn, err = s.drawStock(txCtx, q.LabID, draws); err != nil {
			return nil, err
		}
		return history, nil
	})
	if err != nil {
		return nil, err
	}
	if len(drawn) > 0 {
		s.snapshots.Invalidate(drawn...)
	}
	metrics.Transitions.WithLabelValues(string(from), string(q.Status), string(actor.Role)).Inc()
	return core.NewQuotationResp(q), nil
}

// drawStock takes each chemical from the requesting lab's own holding first
// and the rest from the central store. Stock is read inside the transaction,
// not from the snapshot cache. It returns the names whose stock changed.
func (s *quotationImpl) drawStock(ctx context.Context, labID string, draws []core.StockDraw) ([]string, error) {
	if len(draws) == 0 {
		return nil, nil
	}
	names := make([]string, 0, len(draws))
	need := make(map[string]float64, len(draws))
	for _, d := range draws {
		key := model.NormalizedName(d.Name)
		if _, ok := need[key]; !ok {
			names = append(names, d.Name)
		}
		need[key] += d.Quantity
	}

	chemicals, err := s.stock.GetChemicalsByNames(ctx, names)
	if err != nil {
		return nil, err
	}
	held := make(map[string]*inventory.Snapshot, len(chemicals))
	for _, c := range chemicals {
		held[model.NormalizedName(c.Name)] = inventory.FromChemical(c)
	}

	for _, name := range names {
		key := model.NormalizedName(name)
		fromLab, fromCentral := 0.0, need[key]
		if snap, ok := held[key]; ok {
			fromLab, fromCentral = snap.Draw(labID, need[key])
		}
		if err := s.stock.DecrementStock(ctx, name, labID, fromLab); err != nil {
			return nil, err
		}
		if err := s.stock.DecrementStock(ctx, name, model.CentralStoreLabID, fromCentral); err != nil {
			return nil, err
		}
	}
	return names, nil
}

func (s *quotationImpl) BatchRemarks(ctx context.Context, actor *common.Actor, req *core.BatchRemarksReq) (*core.QuotationResp, error) {
	if actor == nil {
		return nil, code.UnLogin
	}
	if strings.TrimSpace(req.Remark) == "" {
		return nil, code.ParamErr.WithMsg("remark is required")
	}
	q, err := s.mutate(ctx, "batch_remarks", actor, req.QuotationUUID, func(_ context.Context, q *model.Quotation) (*model.QuotationHistory, error) {
		if err := core.CheckDraftOwner(actor, q); err != nil {
			return nil, err
		}
		core.ApplyBatchRemarks(q, req.Remark)
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	return core.NewQuotationResp(q), nil
}

func (s *quotationImpl) UpdateRemarks(ctx context.Context, actor *common.Actor, req *core.UpdateRemarksReq) (*core.QuotationResp, error) {
	if actor == nil {
		return nil, code.UnLogin
	}
	q, err := s.mutate(ctx, "update_remarks", actor, req.QuotationUUID, func(_ context.Context, q *model.Quotation) (*model.QuotationHistory, error) {
		return nil, core.UpdateRemarks(actor, q, req.Index, req.Remarks)
	})
	if err != nil {
		return nil, err
	}
	return core.NewQuotationResp(q), nil
}

func (s *quotationImpl) AddComment(ctx context.Context, actor *common.Actor, req *core.AddCommentReq) (*core.CommentResp, error) {
	if actor == nil {
		return nil, code.UnLogin
	}
	var comment *model.Comment
	err := s.store.ExecTx(ctx, func(txCtx context.Context) error {
		q, err := s.store.GetQuotation(txCtx, req.QuotationUUID)
		if err != nil {
			return err
		}
		if !core.CanView(actor, q) {
			return code.ViewNotAllowedErr.WithMsgf("quotation %s", req.QuotationUUID)
		}
		if comment, err = core.NewComment(actor, q, req.Text); err != nil {
			return err
		}
		return s.store.AppendComment(txCtx, comment)
	})
	if err != nil {
		return nil, s.reject(ctx, "add_comment", req.QuotationUUID, err)
	}
	metrics.Comments.WithLabelValues(string(actor.Role)).Inc()
	return core.NewCommentResp(comment), nil
}

func (s *quotationImpl) ListComments(ctx context.Context, actor *common.Actor, req *core.ListCommentsReq) ([]*core.CommentResp, error) {
	q, err := s.load(ctx, actor, req.QuotationUUID)
	if err != nil {
		return nil, err
	}
	if req.Dedup {
		return core.NewCommentsResp(core.DedupComments(q.Comments)), nil
	}
	return core.NewCommentsResp(q.Comments), nil
}

func (s *quotationImpl) Get(ctx context.Context, actor *common.Actor, req *core.GetReq) (*core.QuotationResp, error) {
	q, err := s.load(ctx, actor, req.QuotationUUID)
	if err != nil {
		return nil, err
	}
	return core.NewQuotationResp(q), nil
}

func (s *quotationImpl) load(ctx context.Context, actor *common.Actor, id uuid.UUID) (*model.Quotation, error) {
	if actor == nil {
		return nil, code.UnLogin
	}
	q, err := s.store.GetQuotation(ctx, id)
	if err != nil {
		return nil, err
	}
	if !core.CanView(actor, q) {
		return nil, code.ViewNotAllowedErr.WithMsgf("quotation %s", id)
	}
	return q, nil
}

func (s *quotationImpl) List(ctx context.Context, actor *common.Actor, req *core.ListReq) (*common.PageResp[[]*core.QuotationResp], error) {
	if actor == nil {
		return nil, code.UnLogin
	}
	query, err := core.ScopeQuery(actor, req.Scope)
	if err != nil {
		return nil, err
	}
	req.Normalize()
	query.Status = req.Status
	query.Offset = req.Offset()
	query.Limit = req.PageSize

	quotations, total, err := s.store.ListQuotations(ctx, query)
	if err != nil {
		logger.Errorf(ctx, "ListQuotations err: %+v", err)
		return nil, err
	}
	data := make([]*core.QuotationResp, 0, len(quotations))
	for _, q := range quotations {
		data = append(data, core.NewQuotationResp(q))
	}
	return &common.PageResp[[]*core.QuotationResp]{
		Data:     data,
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	}, nil
}
