package inventory

import (
	"testing"

	"github.com/pharmlab/procure/pkg/repo/model"
)

func ethanol() *Snapshot {
	return FromChemical(&model.Chemical{
		Name: "Ethanol",
		Unit: "ml",
		Stocks: []*model.ChemicalStock{
			{LabID: "LAB02", Quantity: 5},
			{LabID: model.CentralStoreLabID, Quantity: 30},
			{LabID: "LAB01", Quantity: 10},
		},
	})
}

func TestUsableQuantity(t *testing.T) {
	s := ethanol()
	cases := []struct {
		name  string
		labID string
		want  float64
	}{
		{"no lab chosen", "", 30},
		{"central plus lab", "LAB01", 40},
		{"other lab", "LAB02", 35},
		{"lab without stock", "LAB09", 30},
		{"central store counted once", model.CentralStoreLabID, 30},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := s.UsableQuantity(tc.labID); got != tc.want {
				t.Fatalf("UsableQuantity(%q) = %v, want %v", tc.labID, got, tc.want)
			}
		})
	}
}

func TestUsableQuantityEqualsCentralPlusLab(t *testing.T) {
	s := ethanol()
	for lab, qty := range s.Labs {
		if got := s.UsableQuantity(lab); got != s.Central+qty {
			t.Fatalf("lab %s: got %v want %v", lab, got, s.Central+qty)
		}
	}
}

func TestPerLabBreakdownCentralFirst(t *testing.T) {
	got := ethanol().PerLabBreakdown()
	want := []LabQuantity{
		{model.CentralStoreLabID, 30},
		{"LAB01", 10},
		{"LAB02", 5},
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestAvailabilityFlagsZeroUsable(t *testing.T) {
	s := FromChemical(&model.Chemical{
		Name: "Acetone",
		Stocks: []*model.ChemicalStock{
			{LabID: model.CentralStoreLabID, Quantity: 0},
			{LabID: "LAB02", Quantity: 12},
		},
	})
	a := s.Availability("LAB01")
	if !a.Unavailable || a.Usable != 0 || a.Total != 12 {
		t.Fatalf("unexpected availability %+v", a)
	}
	if a := s.Availability("LAB02"); a.Unavailable || a.Usable != 12 {
		t.Fatalf("LAB02 availability %+v", a)
	}

	v := s.View("LAB01")
	if !v.Unavailable || v.TotalQuantity != 12 || len(v.PerLabQuantities) != 2 {
		t.Fatalf("unexpected view %+v", v)
	}
}

func TestDrawConsumesLabFirst(t *testing.T) {
	s := ethanol()
	cases := []struct {
		name        string
		labID       string
		quantity    float64
		lab, centre float64
	}{
		{"covered by lab", "LAB01", 4, 4, 0},
		{"lab then central", "LAB01", 40, 10, 30},
		{"beyond usable", "LAB01", 45, 10, 35},
		{"lab without stock", "LAB09", 7, 0, 7},
		{"no lab", "", 7, 0, 7},
		{"central store", model.CentralStoreLabID, 7, 0, 7},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lab, central := s.Draw(tc.labID, tc.quantity)
			if lab != tc.lab || central != tc.centre {
				t.Fatalf("Draw(%q, %v) = (%v, %v), want (%v, %v)", tc.labID, tc.quantity, lab, central, tc.lab, tc.centre)
			}
		})
	}
}
