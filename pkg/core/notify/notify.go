package notify

import (
	"context"

	"github.com/pharmlab/procure/pkg/common"
	"github.com/pharmlab/procure/pkg/common/uuid"
)

type Action string

const (
	KindRequest = "request"
	KindVendor  = "vendor"

	statusDraft = "draft"
)

const (
	QuotationChanged Action = "quotation-changed"
	CommentAdded     Action = "comment-added"
)

// SendMsg is published after a quotation mutation succeeded. Receivers fan
// it out to the lab that owns the quotation and to central/admin sessions.
type SendMsg struct {
	Channel       Action      `json:"action"`
	QuotationUUID uuid.UUID   `json:"quotation_uuid"`
	Kind          string      `json:"kind"`
	LabID         string      `json:"lab_id"`
	Status        string      `json:"status"`
	ActorID       string      `json:"actor_id"`
	ActorRole     common.Role `json:"actor_role"`
	Data          any         `json:"data"`
	UUID          uuid.UUID   `json:"uuid"`
	Timestamp     int64       `json:"timestamp"`
}

// Deliverable reports whether msg concerns actor: lab staff get events of
// their lab's requests, admins get vendor quotations and the central store
// gets everything. Draft events reach only the draft's owner, who is the only
// one able to change it.
func Deliverable(actor *common.Actor, msg *SendMsg) bool {
	if msg.Status == statusDraft {
		return actor.Role == common.CentralStoreAdmin && actor.ID == msg.ActorID
	}
	switch actor.Role {
	case common.CentralStoreAdmin:
		return true
	case common.Admin:
		return msg.Kind == KindVendor
	case common.LabAssistant:
		return msg.Kind == KindRequest && msg.LabID != "" && msg.LabID == actor.LabID
	}
	return false
}

type HandleFunc func(ctx context.Context, msg string) error

type MsgCenter interface {
	Registry(ctx context.Context, msgName Action, handleFunc HandleFunc) error
	Broadcast(ctx context.Context, msg *SendMsg) error
	Close(ctx context.Context) error
}
