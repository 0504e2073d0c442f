package inventory

import (
	"context"
	"time"

	"github.com/pharmlab/procure/internal/config"
	"github.com/pharmlab/procure/pkg/common/code"
	core "github.com/pharmlab/procure/pkg/core/inventory"
	"github.com/pharmlab/procure/pkg/middleware/logger"
	"github.com/pharmlab/procure/pkg/repo"
	"github.com/pharmlab/procure/pkg/repo/model"
)

const defaultSearchLimit = 50

type inventoryImpl struct {
	store repo.InventoryRepo
	cache *core.SnapshotCache
}

// New returns the inventory service. Snapshots are cached for
// INVENTORY_SNAPSHOT_TTL_SECONDS across requests.
func New(store repo.InventoryRepo) core.Service {
	i := &inventoryImpl{store: store}
	ttl := time.Duration(config.Global().Inventory.SnapshotTTL) * time.Second
	i.cache = core.NewSnapshotCache(core.SnapshotProviderFunc(i.fetch), ttl)
	return i
}

func (i *inventoryImpl) Search(ctx context.Context, req *core.SearchReq) ([]*core.ChemicalView, error) {
	limit := req.Limit
	if limit <= 0 || limit > defaultSearchLimit {
		limit = defaultSearchLimit
	}
	chemicals, err := i.store.SearchChemicals(ctx, req.Search, limit)
	if err != nil {
		logger.Errorf(ctx, "SearchChemicals err: %+v", err)
		return nil, code.QueryRecordErr.WithErr(err)
	}

	views := make([]*core.ChemicalView, 0, len(chemicals))
	for _, c := range chemicals {
		views = append(views, core.FromChemical(c).View(req.LabContext))
	}
	return views, nil
}

// Snapshots serves names from the cache and reads only the missing ones.
func (i *inventoryImpl) Snapshots(ctx context.Context, names []string) ([]*core.Snapshot, error) {
	loaded, err := i.cache.Load(ctx, names)
	if err != nil {
		return nil, err
	}
	out := make([]*core.Snapshot, 0, len(loaded))
	for _, s := range loaded {
		out = append(out, s)
	}
	return out, nil
}

func (i *inventoryImpl) Invalidate(names ...string) {
	i.cache.Invalidate(names...)
}

// Availability reports usable quantities for req.LabContext in the order the
// names were asked. Unknown chemicals are left out.
func (i *inventoryImpl) Availability(ctx context.Context, req *core.AvailabilityReq) ([]*core.ChemicalAvailability, error) {
	names := make([]string, 0, len(req.Names))
	seen := make(map[string]bool, len(req.Names))
	for _, n := range req.Names {
		key := model.NormalizedName(n)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		names = append(names, n)
	}
	if len(names) == 0 {
		return nil, code.ParamErr.WithMsg("names is required")
	}
	if len(names) > defaultSearchLimit {
		return nil, code.ParamErr.WithMsgf("at most %d names per call", defaultSearchLimit)
	}

	loaded, err := i.cache.Load(ctx, names)
	if err != nil {
		return nil, err
	}
	usable := i.cache.Reaggregate(req.LabContext, names)
	out := make([]*core.ChemicalAvailability, 0, len(usable))
	for _, n := range names {
		key := model.NormalizedName(n)
		s, ok := loaded[key]
		if !ok {
			continue
		}
		a, ok := usable[key]
		if !ok {
			a = s.Availability(req.LabContext)
		}
		out = append(out, &core.ChemicalAvailability{Name: s.Name, Unit: s.Unit, Availability: a})
	}
	return out, nil
}

func (i *inventoryImpl) fetch(ctx context.Context, names []string) ([]*core.Snapshot, error) {
	if len(names) == 0 {
		return []*core.Snapshot{}, nil
	}
	chemicals, err := i.store.GetChemicalsByNames(ctx, names)
	if err != nil {
		logger.Errorf(ctx, "GetChemicalsByNames err: %+v", err)
		return nil, code.QueryRecordErr.WithErr(err)
	}

	out := make([]*core.Snapshot, 0, len(chemicals))
	for _, c := range chemicals {
		out = append(out, core.FromChemical(c))
	}
	return out, nil
}
