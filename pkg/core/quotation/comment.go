package quotation

import (
	"strings"

	"github.com/pharmlab/procure/pkg/common"
	"github.com/pharmlab/procure/pkg/common/code"
	"github.com/pharmlab/procure/pkg/repo/model"
)

var commentMatrix = map[common.Role][]common.Role{
	common.CentralStoreAdmin: {common.LabAssistant, common.CentralStoreAdmin},
	common.Admin:             {common.CentralStoreAdmin},
	common.LabAssistant:      {common.LabAssistant},
}

// CanAddComment reports whether actor may comment on items created by createdBy.
func CanAddComment(actor common.Role, createdBy common.Role) bool {
	for _, r := range commentMatrix[actor] {
		if r == createdBy {
			return true
		}
	}
	return false
}

// NewComment checks eligibility and text for a comment on q.
func NewComment(actor *common.Actor, q *model.Quotation, text string) (*model.Comment, error) {
	if !CanAddComment(actor.Role, q.CreatedByRole) {
		return nil, code.CommentNotAllowedErr.WithMsgf("%s may not comment on items created by %s", actor.Role, q.CreatedByRole)
	}
	text = trimmed(text)
	if text == "" {
		return nil, code.CommentEmptyErr
	}
	return &model.Comment{
		QuotationID: q.ID,
		UserID:      actor.ID,
		Role:        actor.Role,
		Text:        text,
	}, nil
}

// DedupComments keeps the first comment of each trimmed, case-insensitive
// text in arrival order. The stored thread is left untouched.
func DedupComments(comments []*model.Comment) []*model.Comment {
	seen := make(map[string]struct{}, len(comments))
	out := make([]*model.Comment, 0, len(comments))
	for _, c := range comments {
		key := strings.ToLower(strings.TrimSpace(c.Text))
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}
