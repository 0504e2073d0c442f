package inventory

import (
	"context"
	"strings"

	"github.com/pharmlab/procure/pkg/common/code"
	"github.com/pharmlab/procure/pkg/middleware/db"
	"github.com/pharmlab/procure/pkg/middleware/logger"
	"github.com/pharmlab/procure/pkg/repo"
	"github.com/pharmlab/procure/pkg/repo/model"
	"gorm.io/gorm"
)

type inventoryImpl struct {
	*db.Datastore
}

func New() repo.InventoryRepo {
	return &inventoryImpl{Datastore: db.DB()}
}

func (i *inventoryImpl) SearchChemicals(ctx context.Context, search string, limit int) ([]*model.Chemical, error) {
	if limit <= 0 {
		limit = 50
	}
	q := i.DBWithContext(ctx).Model(&model.Chemical{}).Preload("Stocks")
	if s := strings.TrimSpace(search); s != "" {
		q = q.Where("name ILIKE ?", "%"+s+"%")
	}
	chemicals := make([]*model.Chemical, 0, limit)
	if err := q.Order("name asc").Limit(limit).Find(&chemicals).Error; err != nil {
		logger.Errorf(ctx, "SearchChemicals err: %+v", err)
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return chemicals, nil
}

func (i *inventoryImpl) GetChemicalsByNames(ctx context.Context, names []string) ([]*model.Chemical, error) {
	if len(names) == 0 {
		return nil, nil
	}
	lowered := make([]string, 0, len(names))
	for _, n := range names {
		lowered = append(lowered, model.NormalizedName(n))
	}
	chemicals := make([]*model.Chemical, 0, len(names))
	err := i.DBWithContext(ctx).Model(&model.Chemical{}).Preload("Stocks").
		Where("LOWER(TRIM(name)) IN ?", lowered).
		Find(&chemicals).Error
	if err != nil {
		logger.Errorf(ctx, "GetChemicalsByNames err: %+v", err)
		return nil, code.QueryRecordErr.WithErr(err)
	}
	return chemicals, nil
}

func (i *inventoryImpl) DecrementStock(ctx context.Context, chemicalName string, labID string, quantity float64) error {
	if quantity <= 0 {
		return nil
	}
	sub := i.DBWithContext(ctx).Model(&model.Chemical{}).Select("id").
		Where("LOWER(TRIM(name)) = ?", model.NormalizedName(chemicalName))
	res := i.DBWithContext(ctx).Model(&model.ChemicalStock{}).
		Where("chemical_id = (?) AND lab_id = ? AND quantity >= ?", sub, labID, quantity).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", quantity))
	if res.Error != nil {
		logger.Errorf(ctx, "DecrementStock err: %+v", res.Error)
		return code.UpdateDataErr.WithErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return code.InsufficientStockErr.WithMsgf("%s: need %g at %s", chemicalName, quantity, labID)
	}
	return nil
}
