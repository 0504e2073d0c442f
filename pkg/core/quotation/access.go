package quotation

import (
	"github.com/pharmlab/procure/pkg/common"
	"github.com/pharmlab/procure/pkg/common/code"
	"github.com/pharmlab/procure/pkg/repo"
	"github.com/pharmlab/procure/pkg/repo/model"
)

// CanView reports whether actor may read q. Lab staff see requests of their
// lab and admins see vendor quotations once submitted. The central store sees
// everything except drafts owned by another central store user.
func CanView(actor *common.Actor, q *model.Quotation) bool {
	switch actor.Role {
	case common.CentralStoreAdmin:
		return q.Status != model.StatusDraft || q.CreatedBy == actor.ID
	case common.Admin:
		return q.Kind == model.KindVendor && q.Status != model.StatusDraft
	case common.LabAssistant:
		return q.Kind == model.KindRequest && (q.CreatedBy == actor.ID || (actor.LabID != "" && q.LabID == actor.LabID))
	}
	return false
}

// ScopeQuery maps a listing scope to a repository query for actor.
func ScopeQuery(actor *common.Actor, scope Scope) (repo.QuotationQuery, error) {
	deny := func() (repo.QuotationQuery, error) {
		return repo.QuotationQuery{}, code.ViewNotAllowedErr.WithMsgf("%s may not list the %s scope", actor.Role, scope)
	}
	switch scope {
	case ScopeLab:
		if actor.Role != common.LabAssistant || actor.LabID == "" {
			return deny()
		}
		return repo.QuotationQuery{Kinds: []model.QuotationKind{model.KindRequest}, LabID: actor.LabID}, nil
	case ScopeCentral:
		if actor.Role != common.CentralStoreAdmin {
			return deny()
		}
		return repo.QuotationQuery{
			Kinds:      []model.QuotationKind{model.KindRequest, model.KindVendor},
			DraftOwner: actor.ID,
		}, nil
	case ScopeAdmin:
		if actor.Role != common.Admin {
			return deny()
		}
		return repo.QuotationQuery{Kinds: []model.QuotationKind{model.KindVendor}, ExcludeDraft: true}, nil
	}
	return repo.QuotationQuery{}, code.ParamErr.WithMsgf("unknown scope %q", scope)
}
