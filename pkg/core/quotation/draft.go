package quotation

import (
	"strings"

	"github.com/pharmlab/procure/pkg/common"
	"github.com/pharmlab/procure/pkg/common/code"
	"github.com/pharmlab/procure/pkg/repo/model"
)

// CheckDraftOwner allows only the central store owner of a vendor draft.
// Ownership is checked before status so a repeated submit by the owner is a
// conflict rather than a permission error.
func CheckDraftOwner(actor *common.Actor, q *model.Quotation) error {
	if actor.Role != common.CentralStoreAdmin || q.Kind != model.KindVendor || q.CreatedBy != actor.ID {
		return code.NotDraftOwnerErr.WithMsgf("quotation %s", q.UUID)
	}
	if q.Status != model.StatusDraft {
		return code.QuotationNotDraftErr.WithMsgf("quotation %s is %s", q.UUID, q.Status)
	}
	return nil
}

func validateDraftChemicals(chemicals []*DraftChemical) error {
	for i, c := range chemicals {
		switch {
		case c == nil:
			return code.LineItemInvalidErr.WithMsgf("chemical %d is empty", i)
		case trimmed(c.ChemicalName) == "":
			return code.LineItemInvalidErr.WithMsgf("chemical %d: name is required", i)
		case c.Quantity <= 0:
			return code.LineItemInvalidErr.WithMsgf("%s: quantity must be positive", c.ChemicalName)
		case trimmed(c.Unit) == "":
			return code.LineItemInvalidErr.WithMsgf("%s: unit is required", c.ChemicalName)
		case c.PricePerUnit.IsNegative():
			return code.LineItemInvalidErr.WithMsgf("%s: price must not be negative", c.ChemicalName)
		}
	}
	return nil
}

// MergeDraftChemicals folds chemicals into the draft's line items. Entries
// with the same normalized name and unit share one line: quantities add up,
// the last non-zero price wins and descriptions are joined.
func MergeDraftChemicals(q *model.Quotation, chemicals []*DraftChemical) error {
	if err := validateDraftChemicals(chemicals); err != nil {
		return err
	}

	type key struct{ name, unit string }
	lines := make(map[key]*model.LineItem, len(q.LineItems))
	for _, item := range q.Chemicals() {
		lines[key{model.NormalizedName(item.Name), model.NormalizedName(item.Unit)}] = item
	}

	for _, c := range chemicals {
		k := key{model.NormalizedName(c.ChemicalName), model.NormalizedName(c.Unit)}
		item, ok := lines[k]
		if !ok {
			item = &model.LineItem{
				Position:            len(q.LineItems),
				Kind:                model.ItemChemical,
				Name:                trimmed(c.ChemicalName),
				Unit:                trimmed(c.Unit),
				SourceQuotationUUID: c.SourceQuotationUUID,
			}
			q.LineItems = append(q.LineItems, item)
			lines[k] = item
		}
		item.Quantity += c.Quantity
		if !c.PricePerUnit.IsZero() {
			item.PricePerUnit = c.PricePerUnit
		}
		item.Description = joinDescription(item.Description, c.Description)
		if item.SourceQuotationUUID == nil {
			item.SourceQuotationUUID = c.SourceQuotationUUID
		}
	}
	return nil
}

func joinDescription(existing, add string) string {
	add = trimmed(add)
	switch {
	case add == "":
		return existing
	case existing == "":
		return add
	case strings.Contains(existing, add):
		return existing
	}
	return existing + "; " + add
}

// ApplyBatchRemarks sets remark on every chemical whose remarks are blank and
// returns how many were set.
func ApplyBatchRemarks(q *model.Quotation, remark string) int {
	remark = trimmed(remark)
	if remark == "" {
		return 0
	}
	n := 0
	for _, item := range q.Chemicals() {
		if trimmed(item.Remarks) == "" {
			item.Remarks = remark
			n++
		}
	}
	return n
}
