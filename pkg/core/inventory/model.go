package inventory

import (
	"context"

	"github.com/pharmlab/procure/pkg/common/uuid"
)

type LabQuantity struct {
	LabID    string  `json:"lab_id"`
	Quantity float64 `json:"quantity"`
}

// Snapshot is the stock of one chemical across all locations at fetch time.
// It is never mutated after construction.
type Snapshot struct {
	ChemicalUUID uuid.UUID
	Name         string
	Unit         string
	Central      float64
	Labs         map[string]float64
}

type Availability struct {
	Usable      float64 `json:"usable_quantity"`
	Total       float64 `json:"total_quantity"`
	Unavailable bool    `json:"unavailable"`
}

type SearchReq struct {
	Search     string `form:"search"`
	LabContext string `form:"lab_context"`
	Limit      int    `form:"limit"`
}

// AvailabilityReq asks for usable quantities of names as seen from
// LabContext. It is served from cached snapshots, so switching the lab is
// answered without another inventory read.
type AvailabilityReq struct {
	LabContext string   `form:"lab_context"`
	Names      []string `form:"names"`
}

type ChemicalAvailability struct {
	Name string `json:"name"`
	Unit string `json:"unit"`
	Availability
}

type ChemicalView struct {
	UUID             uuid.UUID     `json:"id"`
	Name             string        `json:"name"`
	Unit             string        `json:"unit"`
	PerLabQuantities []LabQuantity `json:"per_lab_quantities"`
	UsableQuantity   float64       `json:"usable_quantity"`
	TotalQuantity    float64       `json:"total_quantity"`
	Unavailable      bool          `json:"unavailable"`
}

// SnapshotProvider fetches snapshots for chemicals by name. Unknown names are
// absent from the result.
type SnapshotProvider interface {
	Snapshots(ctx context.Context, names []string) ([]*Snapshot, error)
}

// CachingProvider serves snapshots from a cache. Whoever changes stock drops
// the affected entries with Invalidate.
type CachingProvider interface {
	SnapshotProvider
	Invalidate(names ...string)
}

type Service interface {
	CachingProvider
	Search(ctx context.Context, req *SearchReq) ([]*ChemicalView, error)
	Availability(ctx context.Context, req *AvailabilityReq) ([]*ChemicalAvailability, error)
}
