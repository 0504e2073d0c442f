package quotation

import (
	"encoding/json"
	"slices"
	"strings"
	"time"

	"github.com/pharmlab/procure/pkg/common"
	"github.com/pharmlab/procure/pkg/common/code"
	"github.com/pharmlab/procure/pkg/repo/model"
	"gorm.io/datatypes"
)

// Statuses lists every quotation status; terminal classifies each of them.
var Statuses = []model.QuotationStatus{
	model.StatusDraft,
	model.StatusPending,
	model.StatusApproved,
	model.StatusRejected,
	model.StatusPurchasing,
	model.StatusPurchased,
	model.StatusOrdered,
	model.StatusAllocated,
	model.StatusPartiallyFulfilled,
}

var terminal = map[model.QuotationStatus]bool{
	model.StatusDraft:              false,
	model.StatusPending:            false,
	model.StatusApproved:           false,
	model.StatusRejected:           true,
	model.StatusPurchasing:         false,
	model.StatusPurchased:          true,
	model.StatusOrdered:            false,
	model.StatusAllocated:          true,
	model.StatusPartiallyFulfilled: false,
}

func IsTerminal(s model.QuotationStatus) bool {
	return terminal[s]
}

func ValidStatus(s model.QuotationStatus) bool {
	_, ok := terminal[s]
	return ok
}

// Rule grants Actor the Targets on quotations created by CreatedBy.
// Drafts never match a rule; they leave draft only through SubmitDraft.
type Rule struct {
	Actor     common.Role
	CreatedBy common.Role
	Targets   []model.QuotationStatus
}

var Rules = []Rule{
	{
		Actor:     common.Admin,
		CreatedBy: common.CentralStoreAdmin,
		Targets: []model.QuotationStatus{
			model.StatusApproved,
			model.StatusPurchasing,
			model.StatusRejected,
			model.StatusPurchased,
		},
	},
	{
		Actor:     common.CentralStoreAdmin,
		CreatedBy: common.LabAssistant,
		Targets: []model.QuotationStatus{
			model.StatusAllocated,
			model.StatusPartiallyFulfilled,
			model.StatusRejected,
		},
	},
}

// AllowedTargets returns the statuses role may move q to.
func AllowedTargets(role common.Role, q *model.Quotation) []model.QuotationStatus {
	if q.Status == model.StatusDraft || IsTerminal(q.Status) {
		return nil
	}
	for _, r := range Rules {
		if r.Actor == role && r.CreatedBy == q.CreatedByRole {
			return r.Targets
		}
	}
	return nil
}

// CheckTransition reports whether role may move q to target. A terminal
// quotation is a conflict whoever asks.
func CheckTransition(role common.Role, q *model.Quotation, target model.QuotationStatus) error {
	if !ValidStatus(target) {
		return code.ParamErr.WithMsgf("unknown status %q", target)
	}
	if IsTerminal(q.Status) {
		return code.QuotationTerminalErr.WithMsgf("quotation %s is %s", q.UUID, q.Status)
	}
	if !slices.Contains(AllowedTargets(role, q), target) {
		return code.TransitionNotAllowedErr.WithMsgf("%s may not move a %s quotation created by %s to %s",
			role, q.Status, q.CreatedByRole, target)
	}
	return nil
}

// UpdateRemarks replaces the remarks of one chemical. Central store and admin
// may do so on any quotation they can view that is not terminal.
func UpdateRemarks(actor *common.Actor, q *model.Quotation, index int, remarks string) error {
	if IsTerminal(q.Status) {
		return code.QuotationTerminalErr.WithMsgf("quotation %s is %s", q.UUID, q.Status)
	}
	if actor.Role != common.CentralStoreAdmin && actor.Role != common.Admin {
		return code.RemarksNotAllowedErr.WithMsgf("%s may not update remarks", actor.Role)
	}
	chemicals := q.Chemicals()
	if index < 0 || index >= len(chemicals) {
		return code.LineItemIndexErr.WithMsgf("index %d, quotation has %d chemicals", index, len(chemicals))
	}
	chemicals[index].Remarks = trimmed(remarks)
	return nil
}

// StockDraw is stock consumed by an allocation, before it is split between
// the requesting lab and the central store.
type StockDraw struct {
	Name     string
	Quantity float64
}

type transitionPayload struct {
	ChemicalUpdates []*ChemicalUpdate `json:"chemical_updates,omitempty"`
	Allocations     []*Allocation     `json:"allocations,omitempty"`
	Comments        string            `json:"comments,omitempty"`
}

// ApplyTransition validates req against q and applies it in place. On error q
// may be partially modified and must be discarded.
func ApplyTransition(actor *common.Actor, q *model.Quotation, req *TransitionReq) (*model.QuotationHistory, []StockDraw, error) {
	if err := CheckTransition(actor.Role, q, req.Status); err != nil {
		return nil, nil, err
	}
	chemicals := q.Chemicals()

	if len(req.ChemicalUpdates) > 0 {
		if actor.Role != common.Admin {
			return nil, nil, code.RemarksNotAllowedErr.WithMsgf("%s may not send chemical updates", actor.Role)
		}
		for _, u := range req.ChemicalUpdates {
			if u.Index < 0 || u.Index >= len(chemicals) {
				return nil, nil, code.LineItemIndexErr.WithMsgf("index %d, quotation has %d chemicals", u.Index, len(chemicals))
			}
			chemicals[u.Index].Remarks = trimmed(u.Remarks)
		}
	}

	draws, err := allocate(chemicals, req)
	if err != nil {
		return nil, nil, err
	}

	if text := trimmed(req.Comments); text != "" {
		q.Comments = append(q.Comments, &model.Comment{
			UserID: actor.ID,
			Role:   actor.Role,
			Text:   text,
		})
	}

	to := req.Status
	if to == model.StatusPartiallyFulfilled && fullyAllocated(chemicals) {
		to = model.StatusAllocated
	}
	history := NewHistory(actor, q, to, &transitionPayload{
		ChemicalUpdates: req.ChemicalUpdates,
		Allocations:     req.Allocations,
		Comments:        trimmed(req.Comments),
	})
	q.Status = to
	return history, draws, nil
}

// allocate marks allocated quantities. allocated takes everything remaining,
// partially_fulfilled takes the listed quantities.
func allocate(chemicals []*model.LineItem, req *TransitionReq) ([]StockDraw, error) {
	switch req.Status {
	case model.StatusAllocated:
		if len(req.Allocations) > 0 {
			return nil, code.ParamErr.WithMsg("allocations apply to partially_fulfilled only")
		}
		draws := make([]StockDraw, 0, len(chemicals))
		for _, item := range chemicals {
			if r := item.Remaining(); r > 0 {
				item.AllocatedQuantity += r
				draws = append(draws, StockDraw{Name: item.Name, Quantity: r})
			}
		}
		return draws, nil
	case model.StatusPartiallyFulfilled:
		if len(req.Allocations) == 0 {
			return nil, code.ParamErr.WithMsg("partially_fulfilled needs at least one allocation")
		}
		draws := make([]StockDraw, 0, len(req.Allocations))
		for _, a := range req.Allocations {
			if a.Index < 0 || a.Index >= len(chemicals) {
				return nil, code.LineItemIndexErr.WithMsgf("index %d, quotation has %d chemicals", a.Index, len(chemicals))
			}
			item := chemicals[a.Index]
			if a.Quantity <= 0 || a.Quantity > item.Remaining() {
				return nil, code.LineItemInvalidErr.WithMsgf("%s: allocation %g outside (0, %g]", item.Name, a.Quantity, item.Remaining())
			}
			item.AllocatedQuantity += a.Quantity
			draws = append(draws, StockDraw{Name: item.Name, Quantity: a.Quantity})
		}
		return draws, nil
	default:
		if len(req.Allocations) > 0 {
			return nil, code.ParamErr.WithMsgf("allocations do not apply to %s", req.Status)
		}
		return nil, nil
	}
}

// fullyAllocated reports whether nothing is left to allocate.
func fullyAllocated(chemicals []*model.LineItem) bool {
	for _, item := range chemicals {
		if item.Remaining() > 0 {
			return false
		}
	}
	return true
}

// NewHistory records q moving to status to. payload is stored as JSON.
func NewHistory(actor *common.Actor, q *model.Quotation, to model.QuotationStatus, payload any) *model.QuotationHistory {
	h := &model.QuotationHistory{
		QuotationID: q.ID,
		FromStatus:  q.Status,
		ToStatus:    to,
		Role:        actor.Role,
		UserID:      actor.ID,
		CreatedAt:   time.Now().UTC(),
	}
	if payload != nil {
		if data, err := json.Marshal(payload); err == nil {
			h.Payload = datatypes.JSON(data)
		}
	}
	return h
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}
