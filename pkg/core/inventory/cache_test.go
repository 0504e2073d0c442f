package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/pharmlab/procure/pkg/repo/model"
)

type countingProvider struct {
	calls     int
	requested []string
	known     map[string]*Snapshot
}

func (p *countingProvider) Snapshots(_ context.Context, names []string) ([]*Snapshot, error) {
	p.calls++
	p.requested = append(p.requested, names...)
	out := make([]*Snapshot, 0, len(names))
	for _, n := range names {
		if s, ok := p.known[model.NormalizedName(n)]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func TestSnapshotCacheFetchesOnce(t *testing.T) {
	p := &countingProvider{known: map[string]*Snapshot{"ethanol": ethanol()}}
	c := NewSnapshotCache(p, 0)
	ctx := context.Background()

	got, err := c.Load(ctx, []string{"Ethanol", "Unobtainium"})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := got["ethanol"]; !ok || len(got) != 1 {
		t.Fatalf("unexpected load result %v", got)
	}
	if _, err := c.Load(ctx, []string{" ETHANOL "}); err != nil {
		t.Fatal(err)
	}
	if p.calls != 1 {
		t.Fatalf("provider called %d times, want 1", p.calls)
	}
}

func TestSnapshotCacheReaggregateWithoutRefetch(t *testing.T) {
	p := &countingProvider{known: map[string]*Snapshot{"ethanol": ethanol()}}
	c := NewSnapshotCache(p, 0)
	if _, err := c.Load(context.Background(), []string{"Ethanol"}); err != nil {
		t.Fatal(err)
	}

	lab1 := c.Reaggregate("LAB01", []string{"Ethanol", "Missing"})
	lab2 := c.Reaggregate("LAB02", []string{"Ethanol"})
	if lab1["ethanol"].Usable != 40 || lab2["ethanol"].Usable != 35 {
		t.Fatalf("lab1 %+v lab2 %+v", lab1, lab2)
	}
	if _, ok := lab1["missing"]; ok {
		t.Fatal("unloaded chemical must be skipped")
	}
	if p.calls != 1 {
		t.Fatalf("provider called %d times, want 1", p.calls)
	}

	c.Invalidate()
	if _, ok := c.Get("ethanol"); ok {
		t.Fatal("snapshot survived Invalidate")
	}
}

func TestSnapshotCacheExpires(t *testing.T) {
	p := &countingProvider{known: map[string]*Snapshot{"ethanol": ethanol()}}
	c := NewSnapshotCache(p, time.Minute)
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	if _, err := c.Load(ctx, []string{"Ethanol"}); err != nil {
		t.Fatal(err)
	}
	now = now.Add(30 * time.Second)
	if got := c.Reaggregate("LAB01", []string{"Ethanol"}); got["ethanol"].Usable != 40 {
		t.Fatalf("fresh entry not served: %+v", got)
	}

	now = now.Add(time.Minute)
	if _, ok := c.Get("Ethanol"); ok {
		t.Fatal("expired snapshot served")
	}
	if _, err := c.Load(ctx, []string{"Ethanol"}); err != nil {
		t.Fatal(err)
	}
	if p.calls != 2 {
		t.Fatalf("provider called %d times, want 2", p.calls)
	}
}

func TestSnapshotCacheInvalidateByName(t *testing.T) {
	p := &countingProvider{known: map[string]*Snapshot{"ethanol": ethanol()}}
	c := NewSnapshotCache(p, 0)
	ctx := context.Background()
	if _, err := c.Load(ctx, []string{"Ethanol"}); err != nil {
		t.Fatal(err)
	}
	c.Invalidate(" ETHANOL")
	if _, err := c.Load(ctx, []string{"Ethanol"}); err != nil {
		t.Fatal(err)
	}
	if p.calls != 2 {
		t.Fatalf("provider called %d times, want 2", p.calls)
	}
}
