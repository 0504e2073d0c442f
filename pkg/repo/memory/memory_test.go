package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/pharmlab/procure/pkg/common"
	"github.com/pharmlab/procure/pkg/common/code"
	"github.com/pharmlab/procure/pkg/repo"
	"github.com/pharmlab/procure/pkg/repo/model"
)

func newRequest() *model.Quotation {
	pos := int64(0)
	return &model.Quotation{
		Kind:          model.KindRequest,
		LabID:         "LAB01",
		CreatedBy:     "u-lab",
		CreatedByRole: common.LabAssistant,
		Status:        model.StatusPending,
		Experiments:   []*model.Experiment{{Position: 0, ExperimentID: "EXP-1"}},
		LineItems: []*model.LineItem{
			{ExperimentID: &pos, Kind: model.ItemChemical, Name: "Ethanol", Quantity: 5, Unit: "ml"},
		},
	}
}

func TestCreateRemapsExperiments(t *testing.T) {
	s := New()
	q := newRequest()
	if err := s.CreateQuotation(context.Background(), q); err != nil {
		t.Fatal(err)
	}
	got, err := s.GetQuotation(context.Background(), q.UUID)
	if err != nil {
		t.Fatal(err)
	}
	if *got.LineItems[0].ExperimentID != got.Experiments[0].ID || got.Version != 1 {
		t.Fatalf("unexpected stored quotation %+v", got)
	}
}

func TestSaveRejectsStaleVersion(t *testing.T) {
	s := New()
	ctx := context.Background()
	q := newRequest()
	if err := s.CreateQuotation(ctx, q); err != nil {
		t.Fatal(err)
	}

	first, _ := s.GetQuotation(ctx, q.UUID)
	second, _ := s.GetQuotation(ctx, q.UUID)

	first.Status = model.StatusAllocated
	if err := s.SaveQuotation(ctx, first, nil); err != nil {
		t.Fatal(err)
	}
	second.Status = model.StatusRejected
	err := s.SaveQuotation(ctx, second, nil)
	if !errors.Is(err, code.QuotationVersionConflictErr) || code.KindOf(err) != code.KindStateConflict {
		t.Fatalf("got %v, want version conflict", err)
	}

	cur, _ := s.GetQuotation(ctx, q.UUID)
	if cur.Status != model.StatusAllocated || cur.Version != 2 {
		t.Fatalf("status %s version %d", cur.Status, cur.Version)
	}
}

func TestExecTxRollsBack(t *testing.T) {
	s := New()
	s.PutChemical("Ethanol", "ml", map[string]float64{model.CentralStoreLabID: 10})
	ctx := context.Background()
	q := newRequest()
	if err := s.CreateQuotation(ctx, q); err != nil {
		t.Fatal(err)
	}

	err := s.ExecTx(ctx, func(txCtx context.Context) error {
		cur, err := s.GetQuotation(txCtx, q.UUID)
		if err != nil {
			return err
		}
		if err := s.DecrementStock(txCtx, "Ethanol", model.CentralStoreLabID, 4); err != nil {
			return err
		}
		cur.Status = model.StatusPartiallyFulfilled
		if err := s.SaveQuotation(txCtx, cur, nil); err != nil {
			return err
		}
		return s.DecrementStock(txCtx, "Ethanol", model.CentralStoreLabID, 7)
	})
	if !errors.Is(err, code.InsufficientStockErr) {
		t.Fatalf("got %v, want insufficient stock", err)
	}
	if got := s.Quantity("Ethanol", model.CentralStoreLabID); got != 10 {
		t.Fatalf("stock %v after rollback, want 10", got)
	}
	cur, _ := s.GetQuotation(ctx, q.UUID)
	if cur.Status != model.StatusPending || cur.Version != 1 {
		t.Fatalf("quotation not rolled back: %s v%d", cur.Status, cur.Version)
	}
}

func TestAppendCommentSurvivesSave(t *testing.T) {
	s := New()
	ctx := context.Background()
	q := newRequest()
	if err := s.CreateQuotation(ctx, q); err != nil {
		t.Fatal(err)
	}
	loaded, _ := s.GetQuotation(ctx, q.UUID)
	if err := s.AppendComment(ctx, &model.Comment{QuotationID: q.ID, Role: common.LabAssistant, Text: "hi"}); err != nil {
		t.Fatal(err)
	}
	loaded.Status = model.StatusRejected
	if err := s.SaveQuotation(ctx, loaded, nil); err != nil {
		t.Fatal(err)
	}
	cur, _ := s.GetQuotation(ctx, q.UUID)
	if len(cur.Comments) != 1 {
		t.Fatalf("comments %+v", cur.Comments)
	}
}

func TestListKeepsOnlyOwnDrafts(t *testing.T) {
	s := New()
	ctx := context.Background()
	for _, q := range []*model.Quotation{
		newRequest(),
		{Kind: model.KindVendor, CreatedBy: "u-central", CreatedByRole: common.CentralStoreAdmin, Status: model.StatusDraft},
		{Kind: model.KindVendor, CreatedBy: "u-central-2", CreatedByRole: common.CentralStoreAdmin, Status: model.StatusDraft},
		{Kind: model.KindVendor, CreatedBy: "u-central-2", CreatedByRole: common.CentralStoreAdmin, Status: model.StatusPending},
	} {
		if err := s.CreateQuotation(ctx, q); err != nil {
			t.Fatal(err)
		}
	}

	list, total, err := s.ListQuotations(ctx, repo.QuotationQuery{DraftOwner: "u-central"})
	if err != nil {
		t.Fatal(err)
	}
	if total != 3 {
		t.Fatalf("total %d, want 3", total)
	}
	for _, q := range list {
		if q.Status == model.StatusDraft && q.CreatedBy != "u-central" {
			t.Fatalf("listed another user's draft %+v", q)
		}
	}
}
