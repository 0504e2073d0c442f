package inventory

import (
	"context"
	"time"

	"github.com/alphadose/haxmap"
	"github.com/pharmlab/procure/pkg/repo/model"
)

// SnapshotProviderFunc adapts a fetch function to SnapshotProvider.
type SnapshotProviderFunc func(ctx context.Context, names []string) ([]*Snapshot, error)

func (f SnapshotProviderFunc) Snapshots(ctx context.Context, names []string) ([]*Snapshot, error) {
	return f(ctx, names)
}

type cachedSnapshot struct {
	snapshot  *Snapshot
	fetchedAt time.Time
}

// SnapshotCache keeps snapshots per chemical once fetched so that a change of
// lab selection is re-aggregated in memory instead of re-queried. Entries
// older than ttl are fetched again; a zero ttl keeps them until invalidated.
type SnapshotCache struct {
	provider  SnapshotProvider
	ttl       time.Duration
	now       func() time.Time
	snapshots *haxmap.Map[string, cachedSnapshot]
}

func NewSnapshotCache(provider SnapshotProvider, ttl time.Duration) *SnapshotCache {
	return &SnapshotCache{
		provider:  provider,
		ttl:       ttl,
		now:       time.Now,
		snapshots: haxmap.New[string, cachedSnapshot](),
	}
}

func (c *SnapshotCache) fresh(key string) (*Snapshot, bool) {
	e, ok := c.snapshots.Get(key)
	if !ok {
		return nil, false
	}
	if c.ttl > 0 && c.now().Sub(e.fetchedAt) > c.ttl {
		c.snapshots.Del(key)
		return nil, false
	}
	return e.snapshot, true
}

// Load returns snapshots for names keyed by normalized name, fetching only the
// ones not cached yet. Unknown chemicals are absent from the result.
func (c *SnapshotCache) Load(ctx context.Context, names []string) (map[string]*Snapshot, error) {
	out := make(map[string]*Snapshot, len(names))
	missing := make([]string, 0)
	for _, name := range names {
		key := model.NormalizedName(name)
		if s, ok := c.fresh(key); ok {
			out[key] = s
			continue
		}
		missing = append(missing, name)
	}
	if len(missing) == 0 {
		return out, nil
	}

	fetched, err := c.provider.Snapshots(ctx, missing)
	if err != nil {
		return nil, err
	}
	at := c.now()
	for _, s := range fetched {
		key := model.NormalizedName(s.Name)
		c.snapshots.Set(key, cachedSnapshot{snapshot: s, fetchedAt: at})
		out[key] = s
	}
	return out, nil
}

func (c *SnapshotCache) Get(name string) (*Snapshot, bool) {
	return c.fresh(model.NormalizedName(name))
}

// Reaggregate recomputes availability of already loaded chemicals for labID.
// Names that were never loaded, or have expired, are skipped.
func (c *SnapshotCache) Reaggregate(labID string, names []string) map[string]Availability {
	out := make(map[string]Availability, len(names))
	for _, name := range names {
		key := model.NormalizedName(name)
		if s, ok := c.fresh(key); ok {
			out[key] = s.Availability(labID)
		}
	}
	return out
}

// Invalidate drops cached snapshots, all of them when no name is given.
func (c *SnapshotCache) Invalidate(names ...string) {
	keys := make([]string, 0, len(names))
	if len(names) == 0 {
		c.snapshots.ForEach(func(key string, _ cachedSnapshot) bool {
			keys = append(keys, key)
			return true
		})
	}
	for _, name := range names {
		keys = append(keys, model.NormalizedName(name))
	}
	if len(keys) > 0 {
		c.snapshots.Del(keys...)
	}
}

// ByName keys snapshots by normalized chemical name.
func ByName(snapshots []*Snapshot) map[string]*Snapshot {
	out := make(map[string]*Snapshot, len(snapshots))
	for _, s := range snapshots {
		out[model.NormalizedName(s.Name)] = s
	}
	return out
}
