package quotation

import (
	"testing"

	"github.com/pharmlab/procure/pkg/common"
	"github.com/pharmlab/procure/pkg/common/code"
	"github.com/pharmlab/procure/pkg/common/uuid"
	"github.com/pharmlab/procure/pkg/repo/model"
	"github.com/shopspring/decimal"
)

func TestCheckDraftOwner(t *testing.T) {
	other := &common.Actor{ID: "u-central-2", Role: common.CentralStoreAdmin}
	cases := []struct {
		name  string
		actor *common.Actor
		q     *model.Quotation
		want  code.Kind
		ok    bool
	}{
		{"owner on draft", centralUser, vendorQuotation(model.StatusDraft), 0, true},
		{"other central user", other, vendorQuotation(model.StatusDraft), code.KindPermission, false},
		{"admin", adminUser, vendorQuotation(model.StatusDraft), code.KindPermission, false},
		{"owner after submit", centralUser, vendorQuotation(model.StatusPending), code.KindStateConflict, false},
		{"lab request is no draft", centralUser, labRequest(model.StatusPending), code.KindPermission, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckDraftOwner(tc.actor, tc.q)
			if tc.ok {
				if err != nil {
					t.Fatal(err)
				}
				return
			}
			if code.KindOf(err) != tc.want {
				t.Fatalf("got %v, want %s", err, tc.want)
			}
		})
	}
}

func TestMergeDraftChemicals(t *testing.T) {
	src := uuid.NewV4()
	q := vendorQuotation(model.StatusDraft)
	err := MergeDraftChemicals(q, []*DraftChemical{
		{ChemicalName: " ethanol", Quantity: 5, Unit: "L", PricePerUnit: decimal.RequireFromString("3"), Description: "lab 1", SourceQuotationUUID: &src},
		{ChemicalName: "Ethanol", Quantity: 1, Unit: "l", Description: "lab 2"},
		{ChemicalName: "Methanol", Quantity: 2, Unit: "l", Description: "lab 2"},
		{ChemicalName: "Ethanol", Quantity: 1, Unit: "ml"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if q.Status != model.StatusDraft {
		t.Fatalf("merge changed status to %s", q.Status)
	}
	chems := q.Chemicals()
	if len(chems) != 4 {
		t.Fatalf("got %d chemicals, want 4", len(chems))
	}
	ethanol := chems[0]
	if ethanol.Quantity != 16 || !ethanol.PricePerUnit.Equal(decimal.RequireFromString("3")) || ethanol.Description != "lab 1; lab 2" {
		t.Fatalf("unexpected merged line %+v", ethanol)
	}
	if chems[2].Name != "Methanol" || chems[3].Unit != "ml" {
		t.Fatalf("unexpected new lines %+v %+v", chems[2], chems[3])
	}
	if want := decimal.RequireFromString("48"); !q.TotalPrice().Equal(want) {
		t.Fatalf("total %s, want %s", q.TotalPrice(), want)
	}
}

func TestMergeDraftChemicalsRejectsInvalid(t *testing.T) {
	q := vendorQuotation(model.StatusDraft)
	err := MergeDraftChemicals(q, []*DraftChemical{
		{ChemicalName: "Ethanol", Quantity: 1, Unit: "l"},
		{ChemicalName: "Methanol", Quantity: 0, Unit: "l"},
	})
	if code.KindOf(err) != code.KindValidation {
		t.Fatalf("got %v, want validation", err)
	}
}

func TestApplyBatchRemarks(t *testing.T) {
	q := vendorQuotation(model.StatusDraft)
	if n := ApplyBatchRemarks(q, "R"); n != 1 {
		t.Fatalf("applied to %d items, want 1", n)
	}
	if q.LineItems[0].Remarks != "R" || q.LineItems[1].Remarks != "x" {
		t.Fatalf("remarks %q %q", q.LineItems[0].Remarks, q.LineItems[1].Remarks)
	}
}
