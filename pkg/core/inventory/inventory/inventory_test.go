package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/pharmlab/procure/pkg/common/code"
	core "github.com/pharmlab/procure/pkg/core/inventory"
	"github.com/pharmlab/procure/pkg/repo/memory"
	"github.com/pharmlab/procure/pkg/repo/model"
)

func newStore() *memory.Store {
	s := memory.New()
	s.PutChemical("Ethanol", "ml", map[string]float64{model.CentralStoreLabID: 30, "LAB01": 10})
	s.PutChemical("Ethyl acetate", "ml", map[string]float64{"LAB02": 4})
	s.PutChemical("Sodium chloride", "g", map[string]float64{model.CentralStoreLabID: 500})
	return s
}

func TestSearch(t *testing.T) {
	svc := New(newStore())
	views, err := svc.Search(context.Background(), &core.SearchReq{Search: "eth", LabContext: "LAB01"})
	if err != nil {
		t.Fatal(err)
	}
	if len(views) != 2 {
		t.Fatalf("got %d views, want 2", len(views))
	}

	byName := map[string]*core.ChemicalView{}
	for _, v := range views {
		byName[v.Name] = v
	}
	if v := byName["Ethanol"]; v == nil || v.UsableQuantity != 40 || v.Unavailable {
		t.Fatalf("ethanol view %+v", v)
	}
	if v := byName["Ethyl acetate"]; v == nil || !v.Unavailable || v.TotalQuantity != 4 {
		t.Fatalf("ethyl acetate view %+v", v)
	}
}

func TestSnapshots(t *testing.T) {
	svc := New(newStore())
	snaps, err := svc.Snapshots(context.Background(), []string{"ethanol", "missing"})
	if err != nil {
		t.Fatal(err)
	}
	if len(snaps) != 1 || snaps[0].UsableQuantity("") != 30 {
		t.Fatalf("unexpected snapshots %+v", snaps)
	}
}

func TestSnapshotsServedFromCacheUntilInvalidated(t *testing.T) {
	store := newStore()
	svc := New(store)
	ctx := context.Background()
	if _, err := svc.Snapshots(ctx, []string{"Ethanol"}); err != nil {
		t.Fatal(err)
	}

	store.PutChemical("Ethanol", "ml", map[string]float64{model.CentralStoreLabID: 1})
	snaps, err := svc.Snapshots(ctx, []string{"ethanol"})
	if err != nil {
		t.Fatal(err)
	}
	if len(snaps) != 1 || snaps[0].Central != 30 {
		t.Fatalf("cached snapshot not reused: %+v", snaps)
	}

	svc.Invalidate("ETHANOL")
	snaps, err = svc.Snapshots(ctx, []string{"ethanol"})
	if err != nil {
		t.Fatal(err)
	}
	if len(snaps) != 1 || snaps[0].Central != 1 {
		t.Fatalf("stale snapshot after Invalidate: %+v", snaps)
	}
}

func TestAvailabilityFollowsLabContext(t *testing.T) {
	store := newStore()
	svc := New(store)
	ctx := context.Background()
	names := []string{"Ethyl acetate", "Ethanol", "ethanol", "Unobtainium"}

	lab1, err := svc.Availability(ctx, &core.AvailabilityReq{LabContext: "LAB01", Names: names})
	if err != nil {
		t.Fatal(err)
	}
	if len(lab1) != 2 || lab1[0].Name != "Ethyl acetate" || lab1[1].Name != "Ethanol" {
		t.Fatalf("unexpected availability %+v", lab1)
	}
	if !lab1[0].Unavailable || lab1[1].Usable != 40 {
		t.Fatalf("LAB01 availability %+v %+v", lab1[0], lab1[1])
	}

	// stock changes are not visible until the cache is dropped, so the second
	// lab is answered from the snapshots already loaded
	store.PutChemical("Ethyl acetate", "ml", map[string]float64{})
	lab2, err := svc.Availability(ctx, &core.AvailabilityReq{LabContext: "LAB02", Names: names})
	if err != nil {
		t.Fatal(err)
	}
	if lab2[0].Usable != 4 || lab2[0].Unavailable || lab2[1].Usable != 30 {
		t.Fatalf("LAB02 availability %+v %+v", lab2[0], lab2[1])
	}
}

func TestAvailabilityRequiresNames(t *testing.T) {
	svc := New(newStore())
	_, err := svc.Availability(context.Background(), &core.AvailabilityReq{Names: []string{" ", ""}})
	if !errors.Is(err, code.ParamErr) {
		t.Fatalf("got %v, want ParamErr", err)
	}
}
