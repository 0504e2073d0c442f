package repo

import (
	"context"

	"github.com/pharmlab/procure/pkg/common/uuid"
	"github.com/pharmlab/procure/pkg/repo/model"
)

type QuotationQuery struct {
	Kinds        []model.QuotationKind
	LabID        string
	ExcludeDraft bool
	// DraftOwner keeps only the drafts created by this user when set.
	DraftOwner string
	Status     *model.QuotationStatus
	Offset     int
	Limit      int
}

type QuotationRepo interface {
	Transactor

	// CreateQuotation inserts the quotation with its experiments and line items.
	CreateQuotation(ctx context.Context, q *model.Quotation) error
	// GetQuotation loads the quotation with experiments, line items and comments.
	GetQuotation(ctx context.Context, id uuid.UUID) (*model.Quotation, error)
	ListQuotations(ctx context.Context, query QuotationQuery) ([]*model.Quotation, int64, error)
	// SaveQuotation persists status and line item changes, appends new
	// comments and the history row. The write only succeeds if the stored
	// version still equals q.Version; q.Version is incremented on success.
	SaveQuotation(ctx context.Context, q *model.Quotation, history *model.QuotationHistory) error
	AppendComment(ctx context.Context, c *model.Comment) error
}
