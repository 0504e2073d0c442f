package migrate

import (
	"context"

	"github.com/pharmlab/procure/pkg/middleware/db"
	"github.com/pharmlab/procure/pkg/middleware/logger"
	"github.com/pharmlab/procure/pkg/repo/model"
)

// Models lists the tables in dependency order.
var Models = []any{
	&model.Chemical{},
	&model.ChemicalStock{},
	&model.Quotation{},
	&model.Experiment{},
	&model.LineItem{},
	&model.Comment{},
	&model.QuotationHistory{},
}

func Table(ctx context.Context) error {
	d := db.DB().DBWithContext(ctx)
	for _, m := range Models {
		if err := d.AutoMigrate(m); err != nil {
			logger.Errorf(ctx, "migrate table err: %+v", err)
			return err
		}
	}
	return nil
}
