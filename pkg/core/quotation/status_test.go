package quotation

import (
	"testing"

	"github.com/pharmlab/procure/pkg/common"
	"github.com/pharmlab/procure/pkg/common/code"
	"github.com/pharmlab/procure/pkg/repo/model"
	"github.com/shopspring/decimal"
)

var (
	labUser     = &common.Actor{ID: "u-lab", Role: common.LabAssistant, LabID: "LAB01"}
	centralUser = &common.Actor{ID: "u-central", Role: common.CentralStoreAdmin}
	adminUser   = &common.Actor{ID: "u-admin", Role: common.Admin}
)

func vendorQuotation(status model.QuotationStatus) *model.Quotation {
	return &model.Quotation{
		Kind:          model.KindVendor,
		CreatedBy:     centralUser.ID,
		CreatedByRole: common.CentralStoreAdmin,
		VendorName:    "Acme Chemicals",
		Status:        status,
		LineItems: []*model.LineItem{
			{Kind: model.ItemChemical, Name: "Ethanol", Quantity: 10, Unit: "l", PricePerUnit: decimal.RequireFromString("2.50")},
			{Kind: model.ItemChemical, Name: "Acetone", Quantity: 4, Unit: "l", Remarks: "x"},
		},
	}
}

func labRequest(status model.QuotationStatus) *model.Quotation {
	return &model.Quotation{
		Kind:          model.KindRequest,
		LabID:         "LAB01",
		CreatedBy:     labUser.ID,
		CreatedByRole: common.LabAssistant,
		Status:        status,
		LineItems: []*model.LineItem{
			{Kind: model.ItemChemical, Name: "Ethanol", Quantity: 20, Unit: "ml"},
			{Kind: model.ItemGlassware, Name: "Beaker", Quantity: 2},
			{Kind: model.ItemChemical, Name: "Acetone", Quantity: 5, Unit: "ml"},
		},
	}
}

func TestStatusesClassified(t *testing.T) {
	if len(Statuses) != len(terminal) {
		t.Fatalf("%d statuses but %d classified", len(Statuses), len(terminal))
	}
	for _, s := range Statuses {
		if !ValidStatus(s) {
			t.Fatalf("status %s is not classified", s)
		}
	}
	for _, s := range []model.QuotationStatus{model.StatusRejected, model.StatusPurchased, model.StatusAllocated} {
		if !IsTerminal(s) {
			t.Fatalf("%s must be terminal", s)
		}
	}
	if IsTerminal(model.StatusApproved) {
		t.Fatal("approved must not be terminal")
	}
}

func TestCheckTransition(t *testing.T) {
	cases := []struct {
		name   string
		role   common.Role
		q      *model.Quotation
		target model.QuotationStatus
		want   error
	}{
		{"admin approves central quotation", common.Admin, vendorQuotation(model.StatusPending), model.StatusApproved, nil},
		{"admin purchases approved", common.Admin, vendorQuotation(model.StatusApproved), model.StatusPurchased, nil},
		{"admin re-approves", common.Admin, vendorQuotation(model.StatusApproved), model.StatusApproved, nil},
		{"admin cannot touch draft", common.Admin, vendorQuotation(model.StatusDraft), model.StatusApproved, code.TransitionNotAllowedErr},
		{"admin cannot allocate", common.Admin, vendorQuotation(model.StatusPending), model.StatusAllocated, code.TransitionNotAllowedErr},
		{"admin cannot act on lab request", common.Admin, labRequest(model.StatusPending), model.StatusApproved, code.TransitionNotAllowedErr},
		{"central allocates lab request", common.CentralStoreAdmin, labRequest(model.StatusPending), model.StatusAllocated, nil},
		{"central partially fulfils", common.CentralStoreAdmin, labRequest(model.StatusPending), model.StatusPartiallyFulfilled, nil},
		{"central rejects lab request", common.CentralStoreAdmin, labRequest(model.StatusPending), model.StatusRejected, nil},
		{"central cannot approve own quotation", common.CentralStoreAdmin, vendorQuotation(model.StatusPending), model.StatusApproved, code.TransitionNotAllowedErr},
		{"central cannot submit via transition", common.CentralStoreAdmin, vendorQuotation(model.StatusDraft), model.StatusPending, code.TransitionNotAllowedErr},
		{"lab cannot transition", common.LabAssistant, labRequest(model.StatusPending), model.StatusRejected, code.TransitionNotAllowedErr},
		{"nobody targets ordered", common.Admin, vendorQuotation(model.StatusPending), model.StatusOrdered, code.TransitionNotAllowedErr},
		{"unknown target", common.Admin, vendorQuotation(model.StatusPending), "shipped", code.ParamErr},
		{"terminal wins over permission", common.LabAssistant, vendorQuotation(model.StatusPurchased), model.StatusApproved, code.QuotationTerminalErr},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckTransition(tc.role, tc.q, tc.target)
			if tc.want == nil {
				if err != nil {
					t.Fatalf("unexpected error %v", err)
				}
				return
			}
			if code.CodeOf(err) != tc.want {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestTerminalQuotationUnchanged(t *testing.T) {
	actors := []*common.Actor{labUser, centralUser, adminUser}
	for _, status := range []model.QuotationStatus{model.StatusRejected, model.StatusPurchased, model.StatusAllocated} {
		for _, actor := range actors {
			for _, target := range Statuses {
				q := vendorQuotation(status)
				before := q.Clone()
				_, _, err := ApplyTransition(actor, q, &TransitionReq{
					Status:          target,
					Comments:        "again",
					ChemicalUpdates: []*ChemicalUpdate{{Index: 0, Remarks: "late"}},
				})
				if code.KindOf(err) != code.KindStateConflict {
					t.Fatalf("%s -> %s by %s: got %v, want state conflict", status, target, actor.Role, err)
				}
				if q.Status != before.Status || q.LineItems[0].Remarks != before.LineItems[0].Remarks || len(q.Comments) != 0 {
					t.Fatalf("%s -> %s by %s mutated the quotation", status, target, actor.Role)
				}
			}
		}
	}
}

func TestAdminApproveWithRemarksThenPurchase(t *testing.T) {
	q := vendorQuotation(model.StatusPending)
	req := &TransitionReq{
		Status:          model.StatusApproved,
		Comments:        "looks fine",
		ChemicalUpdates: []*ChemicalUpdate{{Index: 0, Remarks: "check purity"}},
	}
	history, draws, err := ApplyTransition(adminUser, q, req)
	if err != nil {
		t.Fatal(err)
	}
	if q.Status != model.StatusApproved || q.LineItems[0].Remarks != "check purity" {
		t.Fatalf("status %s remarks %q", q.Status, q.LineItems[0].Remarks)
	}
	if len(draws) != 0 {
		t.Fatalf("approval must not draw stock, got %v", draws)
	}
	if history.FromStatus != model.StatusPending || history.ToStatus != model.StatusApproved || len(history.Payload) == 0 {
		t.Fatalf("unexpected history %+v", history)
	}
	if len(q.Comments) != 1 || q.Comments[0].Role != common.Admin {
		t.Fatalf("unexpected comments %+v", q.Comments)
	}

	if _, _, err := ApplyTransition(adminUser, q, req); err != nil {
		t.Fatalf("repeated approval: %v", err)
	}
	if _, _, err := ApplyTransition(adminUser, q, &TransitionReq{Status: model.StatusPurchased}); err != nil {
		t.Fatalf("purchase after approval: %v", err)
	}
	_, _, err = ApplyTransition(adminUser, q, req)
	if code.KindOf(err) != code.KindStateConflict {
		t.Fatalf("after purchase got %v, want state conflict", err)
	}
}

func TestChemicalUpdates(t *testing.T) {
	t.Run("non admin", func(t *testing.T) {
		q := labRequest(model.StatusPending)
		_, _, err := ApplyTransition(centralUser, q, &TransitionReq{
			Status:          model.StatusRejected,
			ChemicalUpdates: []*ChemicalUpdate{{Index: 0, Remarks: "no"}},
		})
		if code.KindOf(err) != code.KindPermission {
			t.Fatalf("got %v, want permission error", err)
		}
	})
	t.Run("index out of range", func(t *testing.T) {
		q := vendorQuotation(model.StatusPending)
		_, _, err := ApplyTransition(adminUser, q, &TransitionReq{
			Status:          model.StatusApproved,
			ChemicalUpdates: []*ChemicalUpdate{{Index: 2, Remarks: "no"}},
		})
		if code.KindOf(err) != code.KindNotFound {
			t.Fatalf("got %v, want not found", err)
		}
	})
	t.Run("remarks trimmed", func(t *testing.T) {
		q := vendorQuotation(model.StatusPending)
		_, _, err := ApplyTransition(adminUser, q, &TransitionReq{
			Status:          model.StatusApproved,
			ChemicalUpdates: []*ChemicalUpdate{{Index: 1, Remarks: "\tcheck purity  "}},
		})
		if err != nil {
			t.Fatal(err)
		}
		if q.LineItems[1].Remarks != "check purity" {
			t.Fatalf("remarks %q", q.LineItems[1].Remarks)
		}
	})
	t.Run("index counts chemicals only", func(t *testing.T) {
		q := labRequest(model.StatusPending)
		err := UpdateRemarks(centralUser, q, 1, "use grade A")
		if err != nil {
			t.Fatal(err)
		}
		if q.LineItems[2].Remarks != "use grade A" || q.LineItems[1].Remarks != "" {
			t.Fatalf("remarks landed on the wrong item: %+v", q.LineItems)
		}
	})
}

func TestUpdateRemarksRules(t *testing.T) {
	if err := UpdateRemarks(labUser, labRequest(model.StatusPending), 0, "x"); code.KindOf(err) != code.KindPermission {
		t.Fatalf("lab assistant: got %v", err)
	}
	if err := UpdateRemarks(adminUser, vendorQuotation(model.StatusPurchased), 0, "x"); code.KindOf(err) != code.KindStateConflict {
		t.Fatalf("terminal: got %v", err)
	}
	if err := UpdateRemarks(adminUser, vendorQuotation(model.StatusPending), -1, "x"); code.KindOf(err) != code.KindNotFound {
		t.Fatalf("negative index: got %v", err)
	}
}

func TestAllocation(t *testing.T) {
	t.Run("allocated takes remaining", func(t *testing.T) {
		q := labRequest(model.StatusPending)
		q.LineItems[0].AllocatedQuantity = 5
		_, draws, err := ApplyTransition(centralUser, q, &TransitionReq{Status: model.StatusAllocated})
		if err != nil {
			t.Fatal(err)
		}
		want := []StockDraw{{"Ethanol", 15}, {"Acetone", 5}}
		if len(draws) != len(want) || draws[0] != want[0] || draws[1] != want[1] {
			t.Fatalf("draws %v, want %v", draws, want)
		}
		if q.LineItems[0].Remaining() != 0 || q.LineItems[1].AllocatedQuantity != 0 {
			t.Fatalf("unexpected allocation %+v", q.LineItems)
		}
	})
	t.Run("partial", func(t *testing.T) {
		q := labRequest(model.StatusPending)
		_, draws, err := ApplyTransition(centralUser, q, &TransitionReq{
			Status:      model.StatusPartiallyFulfilled,
			Allocations: []*Allocation{{Index: 1, Quantity: 2}},
		})
		if err != nil {
			t.Fatal(err)
		}
		if len(draws) != 1 || draws[0].Name != "Acetone" || q.LineItems[2].AllocatedQuantity != 2 {
			t.Fatalf("draws %v items %+v", draws, q.LineItems)
		}
		if IsTerminal(q.Status) {
			t.Fatal("partially_fulfilled must stay open")
		}
	})
	t.Run("partial without allocations", func(t *testing.T) {
		q := labRequest(model.StatusPending)
		_, _, err := ApplyTransition(centralUser, q, &TransitionReq{Status: model.StatusPartiallyFulfilled})
		if code.CodeOf(err) != code.ParamErr || q.Status != model.StatusPending {
			t.Fatalf("got %v status %s, want ParamErr", err, q.Status)
		}
	})
	t.Run("partial covering everything allocates", func(t *testing.T) {
		q := labRequest(model.StatusPartiallyFulfilled)
		q.LineItems[0].AllocatedQuantity = 18
		history, draws, err := ApplyTransition(centralUser, q, &TransitionReq{
			Status:      model.StatusPartiallyFulfilled,
			Allocations: []*Allocation{{Index: 0, Quantity: 2}, {Index: 1, Quantity: 5}},
		})
		if err != nil {
			t.Fatal(err)
		}
		if q.Status != model.StatusAllocated || history.ToStatus != model.StatusAllocated || len(draws) != 2 {
			t.Fatalf("status %s history %s draws %v", q.Status, history.ToStatus, draws)
		}
	})
	t.Run("over allocation", func(t *testing.T) {
		q := labRequest(model.StatusPending)
		_, _, err := ApplyTransition(centralUser, q, &TransitionReq{
			Status:      model.StatusPartiallyFulfilled,
			Allocations: []*Allocation{{Index: 0, Quantity: 21}},
		})
		if code.KindOf(err) != code.KindValidation {
			t.Fatalf("got %v, want validation", err)
		}
	})
	t.Run("allocations on reject", func(t *testing.T) {
		q := labRequest(model.StatusPending)
		_, _, err := ApplyTransition(centralUser, q, &TransitionReq{
			Status:      model.StatusRejected,
			Allocations: []*Allocation{{Index: 0, Quantity: 1}},
		})
		if code.KindOf(err) != code.KindValidation {
			t.Fatalf("got %v, want validation", err)
		}
	})
}
