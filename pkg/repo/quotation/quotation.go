package quotation

import (
	"context"
	"errors"
	"time"

	"github.com/pharmlab/procure/pkg/common/code"
	"github.com/pharmlab/procure/pkg/common/uuid"
	"github.com/pharmlab/procure/pkg/middleware/db"
	"github.com/pharmlab/procure/pkg/middleware/logger"
	"github.com/pharmlab/procure/pkg/repo"
	"github.com/pharmlab/procure/pkg/repo/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type quotationImpl struct {
	*db.Datastore
}

func New() repo.QuotationRepo {
	return &quotationImpl{Datastore: db.DB()}
}

func (s *quotationImpl) CreateQuotation(ctx context.Context, q *model.Quotation) error {
	return s.ExecTx(ctx, func(txCtx context.Context) error {
		tx := s.DBWithContext(txCtx)
		if q.Version == 0 {
			q.Version = 1
		}
		if err := tx.Omit(clause.Associations).Create(q).Error; err != nil {
			logger.Errorf(txCtx, "CreateQuotation err: %+v", err)
			return code.CreateDataErr.WithErr(err)
		}

		// Line items point at experiments by slice position until the
		// experiment rows have ids.
		expIDs := make(map[int]int64, len(q.Experiments))
		for _, e := range q.Experiments {
			e.QuotationID = q.ID
			if err := tx.Create(e).Error; err != nil {
				logger.Errorf(txCtx, "CreateQuotation experiment err: %+v", err)
				return code.CreateDataErr.WithErr(err)
			}
			expIDs[e.Position] = e.ID
		}
		for _, item := range q.LineItems {
			item.QuotationID = q.ID
			if item.ExperimentID != nil {
				id := expIDs[int(*item.ExperimentID)]
				item.ExperimentID = &id
			}
		}
		if len(q.LineItems) > 0 {
			if err := tx.Create(&q.LineItems).Error; err != nil {
				logger.Errorf(txCtx, "CreateQuotation line items err: %+v", err)
				return code.CreateDataErr.WithErr(err)
			}
		}
		for _, c := range q.Comments {
			c.QuotationID = q.ID
			if err := tx.Create(c).Error; err != nil {
				return code.CreateDataErr.WithErr(err)
			}
		}
		return nil
	})
}

func (s *quotationImpl) GetQuotation(ctx context.Context, id uuid.UUID) (*model.Quotation, error) {
	q := &model.Quotation{}
	err := s.DBWithContext(ctx).
		Preload("Experiments", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		Preload("LineItems", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		Preload("Comments", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Where("uuid = ?", id).
		First(q).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, code.QuotationNotFoundErr.WithMsgf("uuid: %s", id)
		}
		logger.Errorf(ctx, "GetQuotation err: %+v", err)
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return q, nil
}

func (s *quotationImpl) ListQuotations(ctx context.Context, query repo.QuotationQuery) ([]*model.Quotation, int64, error) {
	q := s.DBWithContext(ctx).Model(&model.Quotation{})
	if len(query.Kinds) > 0 {
		q = q.Where("kind IN ?", query.Kinds)
	}
	if query.LabID != "" {
		q = q.Where("lab_id = ?", query.LabID)
	}
	if query.ExcludeDraft {
		q = q.Where("status <> ?", model.StatusDraft)
	}
	if query.DraftOwner != "" {
		q = q.Where("(status <> ? OR created_by = ?)", model.StatusDraft, query.DraftOwner)
	}
	if query.Status != nil {
		q = q.Where("status = ?", *query.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, code.QueryRecordErr.WithErr(err)
	}
	if query.Limit == 0 {
		query.Limit = 20
	}
	list := make([]*model.Quotation, 0, query.Limit)
	err := q.Preload("LineItems", func(db *gorm.DB) *gorm.DB { return db.Order("position asc") }).
		Order("id desc").Offset(query.Offset).Limit(query.Limit).Find(&list).Error
	if err != nil {
		logger.Errorf(ctx, "ListQuotations err: %+v", err)
		return nil, 0, code.QueryRecordErr.WithErr(err)
	}
	return list, total, nil
}

func (s *quotationImpl) SaveQuotation(ctx context.Context, q *model.Quotation, history *model.QuotationHistory) error {
	return s.ExecTx(ctx, func(txCtx context.Context) error {
		tx := s.DBWithContext(txCtx)
		now := time.Now().UTC()
		res := tx.Model(&model.Quotation{}).
			Where("id = ? AND version = ?", q.ID, q.Version).
			Updates(map[string]any{
				"status":      q.Status,
				"vendor_name": q.VendorName,
				"version":     q.Version + 1,
				"updated_at":  now,
			})
		if res.Error != nil {
			logger.Errorf(txCtx, "SaveQuotation err: %+v", res.Error)
			return code.UpdateDataErr.WithErr(res.Error)
		}
		if res.RowsAffected == 0 {
			return code.QuotationVersionConflictErr.WithMsgf("uuid: %s version: %d", q.UUID, q.Version)
		}

		for _, item := range q.LineItems {
			if item.ID == 0 {
				item.QuotationID = q.ID
				if err := tx.Create(item).Error; err != nil {
					return code.CreateDataErr.WithErr(err)
				}
				continue
			}
			err := tx.Model(&model.LineItem{}).Where("id = ? AND quotation_id = ?", item.ID, q.ID).
				Updates(map[string]any{
					"quantity":           item.Quantity,
					"remarks":            item.Remarks,
					"description":        item.Description,
					"price_per_unit":     item.PricePerUnit,
					"allocated_quantity": item.AllocatedQuantity,
					"updated_at":         now,
				}).Error
			if err != nil {
				logger.Errorf(txCtx, "SaveQuotation line item err: %+v", err)
				return code.UpdateDataErr.WithErr(err)
			}
		}
		for _, c := range q.Comments {
			if c.ID != 0 {
				continue
			}
			c.QuotationID = q.ID
			if err := tx.Create(c).Error; err != nil {
				return code.CreateDataErr.WithErr(err)
			}
		}
		if history != nil {
			history.QuotationID = q.ID
			if err := tx.Create(history).Error; err != nil {
				return code.CreateDataErr.WithErr(err)
			}
		}
		q.Version++
		q.UpdatedAt = now
		return nil
	})
}

func (s *quotationImpl) AppendComment(ctx context.Context, c *model.Comment) error {
	if err := s.DBWithContext(ctx).Create(c).Error; err != nil {
		logger.Errorf(ctx, "AppendComment err: %+v", err)
		return code.CreateDataErr.WithErr(err)
	}
	return nil
}
