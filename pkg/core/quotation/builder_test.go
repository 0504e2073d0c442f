package quotation

import (
	"context"
	"errors"
	"testing"

	"github.com/pharmlab/procure/pkg/common/code"
	"github.com/pharmlab/procure/pkg/core/inventory"
	"github.com/pharmlab/procure/pkg/repo/model"
)

type fakeCatalog struct {
	inactive map[string]bool
	err      error
}

func (f *fakeCatalog) IsActive(_ context.Context, courseID, batchID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return !f.inactive[courseID+"/"+batchID], nil
}

func snapshots() map[string]*inventory.Snapshot {
	return map[string]*inventory.Snapshot{
		"ethanol": {Name: "Ethanol", Unit: "ml", Central: 30, Labs: map[string]float64{"LAB01": 10}},
		"acetone": {Name: "Acetone", Unit: "ml", Central: 100, Labs: map[string]float64{}},
	}
}

func experiment(chems ...*ChemicalReq) *ExperimentReq {
	return &ExperimentReq{
		ExperimentID: "EXP-1",
		CourseID:     "PHARM101",
		BatchID:      "2026A",
		Date:         "2026-10-20",
		Chemicals:    chems,
	}
}

func TestBuildRequest(t *testing.T) {
	e1 := experiment(&ChemicalReq{ChemicalName: "Ethanol", Quantity: 25, Unit: "ml"})
	e1.Glassware = []*ItemReq{{Name: "Beaker", Quantity: 2}, {Name: " ", Quantity: 3}, {Name: "Flask", Quantity: 0}}
	e1.Equipment = []*ItemReq{{Name: "Centrifuge", Quantity: 1}}
	e2 := experiment(&ChemicalReq{ChemicalName: "acetone", Quantity: 10, Unit: "ml", Remarks: " dry "})
	e2.ExperimentID = "EXP-2"

	q, err := BuildRequest(context.Background(), labUser, &CreateRequestReq{
		Experiments: []*ExperimentReq{e1, e2},
		Comments:    "for Tuesday",
	}, snapshots(), &fakeCatalog{})
	if err != nil {
		t.Fatal(err)
	}
	if q.Status != model.StatusPending || q.LabID != "LAB01" || q.Kind != model.KindRequest {
		t.Fatalf("unexpected header %+v", q)
	}
	if len(q.Experiments) != 2 || len(q.LineItems) != 4 || len(q.Chemicals()) != 2 {
		t.Fatalf("experiments %d items %d", len(q.Experiments), len(q.LineItems))
	}
	for i, item := range q.LineItems {
		if item.Position != i || item.ExperimentID == nil {
			t.Fatalf("item %d position %d experiment %v", i, item.Position, item.ExperimentID)
		}
	}
	if *q.LineItems[3].ExperimentID != 1 || q.LineItems[3].Remarks != "dry" {
		t.Fatalf("unexpected last item %+v", q.LineItems[3])
	}
	if len(q.Comments) != 1 {
		t.Fatalf("comments %+v", q.Comments)
	}
}

func TestBuildRequestQuantityExceeded(t *testing.T) {
	_, err := BuildRequest(context.Background(), labUser, &CreateRequestReq{
		LabID:       "LAB01",
		Experiments: []*ExperimentReq{experiment(&ChemicalReq{ChemicalName: "Ethanol", Quantity: 50, Unit: "ml"})},
	}, snapshots(), &fakeCatalog{})
	if code.KindOf(err) != code.KindValidation || !errors.Is(err, code.QuantityExceededErr) {
		t.Fatalf("got %v, want quantity exceeded", err)
	}
	d, ok := code.DataOf(err).(*ValidationDetail)
	if !ok || d.Chemical != "Ethanol" || d.Usable != 40 || d.Requested != 50 {
		t.Fatalf("unexpected detail %+v", code.DataOf(err))
	}
}

func TestBuildRequestSumsAcrossExperiments(t *testing.T) {
	e2 := experiment(&ChemicalReq{ChemicalName: "ETHANOL", Quantity: 20, Unit: "ml"})
	e2.ExperimentID = "EXP-2"
	_, err := BuildRequest(context.Background(), labUser, &CreateRequestReq{
		Experiments: []*ExperimentReq{experiment(&ChemicalReq{ChemicalName: "Ethanol", Quantity: 25, Unit: "ml"}), e2},
	}, snapshots(), &fakeCatalog{})
	if !errors.Is(err, code.QuantityExceededErr) {
		t.Fatalf("got %v, want quantity exceeded", err)
	}
}

func TestBuildRequestValidation(t *testing.T) {
	valid := func() *ChemicalReq { return &ChemicalReq{ChemicalName: "Ethanol", Quantity: 1, Unit: "ml"} }
	cases := []struct {
		name   string
		mutate func(r *CreateRequestReq)
		reason Reason
	}{
		{"no experiments", func(r *CreateRequestReq) { r.Experiments = nil }, ReasonNoExperiments},
		{"no experiment id", func(r *CreateRequestReq) { r.Experiments[0].ExperimentID = "" }, ReasonExperimentIDMissing},
		{"no date", func(r *CreateRequestReq) { r.Experiments[0].Date = "" }, ReasonDateMissing},
		{"bad date", func(r *CreateRequestReq) { r.Experiments[0].Date = "20/10/2026" }, ReasonDateInvalid},
		{"no course", func(r *CreateRequestReq) { r.Experiments[0].CourseID = "" }, ReasonCourseMissing},
		{"no batch", func(r *CreateRequestReq) { r.Experiments[0].BatchID = "" }, ReasonBatchMissing},
		{"no chemicals", func(r *CreateRequestReq) { r.Experiments[0].Chemicals = nil }, ReasonNoChemicals},
		{"no chemical name", func(r *CreateRequestReq) { r.Experiments[0].Chemicals[0].ChemicalName = "" }, ReasonChemicalNameMissing},
		{"zero quantity", func(r *CreateRequestReq) { r.Experiments[0].Chemicals[0].Quantity = 0 }, ReasonQuantityInvalid},
		{"no unit", func(r *CreateRequestReq) { r.Experiments[0].Chemicals[0].Unit = "" }, ReasonUnitMissing},
		{"unknown chemical", func(r *CreateRequestReq) { r.Experiments[0].Chemicals[0].ChemicalName = "Unobtainium" }, ReasonChemicalUnknown},
		{"inactive course", func(r *CreateRequestReq) { r.Experiments[0].CourseID = "OLD100" }, ReasonCourseInactive},
	}
	catalog := &fakeCatalog{inactive: map[string]bool{"OLD100/2026A": true}}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := &CreateRequestReq{Experiments: []*ExperimentReq{experiment(valid())}}
			tc.mutate(req)
			_, err := BuildRequest(context.Background(), labUser, req, snapshots(), catalog)
			if code.KindOf(err) != code.KindValidation {
				t.Fatalf("got %v, want validation", err)
			}
			d, ok := code.DataOf(err).(*ValidationDetail)
			if !ok || d.Reason != tc.reason {
				t.Fatalf("detail %+v, want reason %s", code.DataOf(err), tc.reason)
			}
		})
	}
}

func TestBuildRequestCatalogError(t *testing.T) {
	boom := code.RPCHttpErr.WithMsg("catalog down")
	_, err := BuildRequest(context.Background(), labUser, &CreateRequestReq{
		Experiments: []*ExperimentReq{experiment(&ChemicalReq{ChemicalName: "Ethanol", Quantity: 1, Unit: "ml"})},
	}, snapshots(), &fakeCatalog{err: boom})
	if !errors.Is(err, code.RPCHttpErr) {
		t.Fatalf("got %v, want catalog error", err)
	}
}
