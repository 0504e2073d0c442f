package quotation

import (
	"context"
	"time"

	"github.com/pharmlab/procure/pkg/common"
	"github.com/pharmlab/procure/pkg/common/code"
	"github.com/pharmlab/procure/pkg/core/inventory"
	"github.com/pharmlab/procure/pkg/repo"
	"github.com/pharmlab/procure/pkg/repo/model"
)

const dateLayout = "2006-01-02"

// Reason enumerates why a request failed validation. It is carried as the
// error data so clients can point at the offending field.
type Reason string

const (
	ReasonLabMissing          Reason = "lab_missing"
	ReasonNoExperiments       Reason = "no_experiments"
	ReasonExperimentIDMissing Reason = "experiment_id_missing"
	ReasonDateMissing         Reason = "date_missing"
	ReasonDateInvalid         Reason = "date_invalid"
	ReasonCourseMissing       Reason = "course_missing"
	ReasonBatchMissing        Reason = "batch_missing"
	ReasonNoChemicals         Reason = "no_chemicals"
	ReasonChemicalNameMissing Reason = "chemical_name_missing"
	ReasonQuantityInvalid     Reason = "quantity_invalid"
	ReasonUnitMissing         Reason = "unit_missing"
	ReasonChemicalUnknown     Reason = "chemical_unknown"
	ReasonQuantityExceeded    Reason = "quantity_exceeded"
	ReasonCourseInactive      Reason = "course_inactive"
)

type ValidationDetail struct {
	Reason     Reason  `json:"reason"`
	Experiment int     `json:"experiment"`
	Item       int     `json:"item,omitempty"`
	Chemical   string  `json:"chemical,omitempty"`
	Requested  float64 `json:"requested,omitempty"`
	Usable     float64 `json:"usable,omitempty"`
}

func invalid(c code.ErrCode, d *ValidationDetail, format string, args ...any) error {
	return c.WithMsgf(format, args...).WithData(d)
}

// RequestedChemicals returns the distinct chemical names of req in first-seen order.
func RequestedChemicals(req *CreateRequestReq) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, e := range req.Experiments {
		if e == nil {
			continue
		}
		for _, c := range e.Chemicals {
			if c == nil {
				continue
			}
			key := model.NormalizedName(c.ChemicalName)
			if key != "" && !seen[key] {
				seen[key] = true
				out = append(out, c.ChemicalName)
			}
		}
	}
	return out
}

// BuildRequest validates req and assembles a pending lab request. snapshots is
// keyed by normalized chemical name. Nothing is persisted and no stock is
// touched; a returned error means the whole request is rejected.
func BuildRequest(ctx context.Context, actor *common.Actor, req *CreateRequestReq,
	snapshots map[string]*inventory.Snapshot, catalog repo.CourseCatalog,
) (*model.Quotation, error) {
	labID := trimmed(req.LabID)
	if labID == "" {
		labID = actor.LabID
	}
	if labID == "" {
		return nil, invalid(code.RequestInvalidErr, &ValidationDetail{Reason: ReasonLabMissing}, "lab_id is required")
	}
	if len(req.Experiments) == 0 {
		return nil, invalid(code.RequestInvalidErr, &ValidationDetail{Reason: ReasonNoExperiments}, "at least one experiment is required")
	}

	q := &model.Quotation{
		Kind:          model.KindRequest,
		LabID:         labID,
		CreatedBy:     actor.ID,
		CreatedByRole: actor.Role,
		Status:        model.StatusPending,
	}
	requested := make(map[string]float64)
	names := make(map[string]string)
	order := make([]string, 0)

	for i, e := range req.Experiments {
		exp, err := buildExperiment(i, e)
		if err != nil {
			return nil, err
		}
		q.Experiments = append(q.Experiments, exp)
		expPos := int64(i)

		for j, c := range e.Chemicals {
			if err := validateChemical(i, j, c); err != nil {
				return nil, err
			}
			key := model.NormalizedName(c.ChemicalName)
			requested[key] += c.Quantity
			if _, ok := names[key]; !ok {
				names[key] = trimmed(c.ChemicalName)
				order = append(order, key)
			}
			q.LineItems = append(q.LineItems, &model.LineItem{
				ExperimentID: &expPos,
				Position:     len(q.LineItems),
				Kind:         model.ItemChemical,
				Name:         trimmed(c.ChemicalName),
				Quantity:     c.Quantity,
				Unit:         trimmed(c.Unit),
				Remarks:      trimmed(c.Remarks),
			})
		}
		q.LineItems = appendItems(q.LineItems, expPos, model.ItemGlassware, e.Glassware)
		q.LineItems = appendItems(q.LineItems, expPos, model.ItemEquipment, e.Equipment)
	}

	for _, key := range order {
		qty := requested[key]
		s, ok := snapshots[key]
		if !ok {
			return nil, invalid(code.ChemicalUnknownErr,
				&ValidationDetail{Reason: ReasonChemicalUnknown, Chemical: names[key]},
				"%s is not in inventory", names[key])
		}
		if usable := s.UsableQuantity(labID); qty > usable {
			return nil, invalid(code.QuantityExceededErr,
				&ValidationDetail{Reason: ReasonQuantityExceeded, Chemical: names[key], Requested: qty, Usable: usable},
				"%s: requested %g exceeds usable %g", names[key], qty, usable)
		}
	}

	if catalog != nil {
		for i, exp := range q.Experiments {
			active, err := catalog.IsActive(ctx, exp.CourseID, exp.BatchID)
			if err != nil {
				return nil, err
			}
			if !active {
				return nil, invalid(code.CourseUnresolvedErr,
					&ValidationDetail{Reason: ReasonCourseInactive, Experiment: i},
					"course %s batch %s is not active", exp.CourseID, exp.BatchID)
			}
		}
	}

	if text := trimmed(req.Comments); text != "" {
		q.Comments = append(q.Comments, &model.Comment{UserID: actor.ID, Role: actor.Role, Text: text})
	}
	return q, nil
}

func buildExperiment(i int, e *ExperimentReq) (*model.Experiment, error) {
	fail := func(r Reason, format string, args ...any) error {
		return invalid(code.ExperimentInvalidErr, &ValidationDetail{Reason: r, Experiment: i}, format, args...)
	}
	if e == nil {
		return nil, fail(ReasonExperimentIDMissing, "experiment %d is empty", i)
	}
	switch {
	case trimmed(e.ExperimentID) == "":
		return nil, fail(ReasonExperimentIDMissing, "experiment %d: experiment_id is required", i)
	case trimmed(e.Date) == "":
		return nil, fail(ReasonDateMissing, "experiment %d: date is required", i)
	case trimmed(e.CourseID) == "":
		return nil, fail(ReasonCourseMissing, "experiment %d: course_id is required", i)
	case trimmed(e.BatchID) == "":
		return nil, fail(ReasonBatchMissing, "experiment %d: batch_id is required", i)
	case len(e.Chemicals) == 0:
		return nil, fail(ReasonNoChemicals, "experiment %d: at least one chemical is required", i)
	}
	date, err := time.Parse(dateLayout, trimmed(e.Date))
	if err != nil {
		return nil, fail(ReasonDateInvalid, "experiment %d: date %q is not yyyy-mm-dd", i, e.Date)
	}
	return &model.Experiment{
		Position:     i,
		ExperimentID: trimmed(e.ExperimentID),
		CourseID:     trimmed(e.CourseID),
		BatchID:      trimmed(e.BatchID),
		Date:         date,
	}, nil
}

func validateChemical(i, j int, c *ChemicalReq) error {
	fail := func(r Reason, name string, format string, args ...any) error {
		return invalid(code.LineItemInvalidErr,
			&ValidationDetail{Reason: r, Experiment: i, Item: j, Chemical: name}, format, args...)
	}
	switch {
	case c == nil || trimmed(c.ChemicalName) == "":
		return fail(ReasonChemicalNameMissing, "", "experiment %d chemical %d: chemical_name is required", i, j)
	case c.Quantity <= 0:
		return fail(ReasonQuantityInvalid, c.ChemicalName, "%s: quantity must be positive", c.ChemicalName)
	case trimmed(c.Unit) == "":
		return fail(ReasonUnitMissing, c.ChemicalName, "%s: unit is required", c.ChemicalName)
	}
	return nil
}

// appendItems adds glassware or equipment rows, dropping blank ones.
func appendItems(items []*model.LineItem, expPos int64, kind model.LineItemKind, rows []*ItemReq) []*model.LineItem {
	for _, r := range rows {
		if r == nil || trimmed(r.Name) == "" || r.Quantity <= 0 {
			continue
		}
		items = append(items, &model.LineItem{
			ExperimentID: &expPos,
			Position:     len(items),
			Kind:         kind,
			Name:         trimmed(r.Name),
			Quantity:     r.Quantity,
			Unit:         trimmed(r.Unit),
			Remarks:      trimmed(r.Remarks),
		})
	}
	return items
}
