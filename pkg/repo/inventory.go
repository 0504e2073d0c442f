package repo

import (
	"context"

	"github.com/pharmlab/procure/pkg/repo/model"
)

type InventoryRepo interface {
	// SearchChemicals returns chemicals whose name contains search, stocks preloaded.
	SearchChemicals(ctx context.Context, search string, limit int) ([]*model.Chemical, error)
	// GetChemicalsByNames matches names case-insensitively, stocks preloaded.
	GetChemicalsByNames(ctx context.Context, names []string) ([]*model.Chemical, error)
	// DecrementStock lowers the stock held at labID. It fails with
	// code.InsufficientStockErr rather than going negative.
	DecrementStock(ctx context.Context, chemicalName string, labID string, quantity float64) error
}
