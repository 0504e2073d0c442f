package hub

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/olahol/melody"
	"github.com/pharmlab/procure/pkg/common"
	"github.com/pharmlab/procure/pkg/common/code"
	"github.com/pharmlab/procure/pkg/core/notify"
	"github.com/pharmlab/procure/pkg/middleware/auth"
	"github.com/pharmlab/procure/pkg/middleware/logger"
)

const actorKey = "actor"

// Hub pushes quotation events received from the message center to the
// websocket sessions allowed to see them.
type Hub struct {
	ws     *melody.Melody
	cancel context.CancelFunc
	once   sync.Once
}

func New(ctx context.Context, center notify.MsgCenter, maxMessageSize int64) (*Hub, error) {
	ws := melody.New()
	ws.Config.MaxMessageSize = maxMessageSize
	ws.Config.PingPeriod = 10 * time.Second

	h := &Hub{ws: ws}
	logger.Infof(ctx, "notify hub started, max message size: %d", maxMessageSize)
	h.initWebSocket(ctx)

	subCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	h.cancel = cancel
	for _, action := range []notify.Action{notify.QuotationChanged, notify.CommentAdded} {
		if err := center.Registry(subCtx, action, h.dispatch); err != nil {
			cancel()
			return nil, err
		}
	}
	return h, nil
}

// Connect upgrades the request of an authenticated caller.
func (h *Hub) Connect(ctx *gin.Context) {
	actor := auth.GetCurrentUser(ctx)
	if actor == nil {
		common.ReplyErr(ctx, code.UnLogin)
		return
	}
	if err := h.ws.HandleRequestWithKeys(ctx.Writer, ctx.Request, map[string]any{actorKey: actor}); err != nil {
		logger.Errorf(ctx, "notify hub HandleRequestWithKeys err: %+v", err)
	}
}

func (h *Hub) initWebSocket(ctx context.Context) {
	h.ws.HandleConnect(func(s *melody.Session) {
		logger.Debugf(ctx, "notify hub session connected, online: %d", h.ws.Len())
	})
	h.ws.HandleError(func(s *melody.Session, err error) {
		if errors.Is(err, melody.ErrMessageBufferFull) {
			return
		}
		var closeErr *websocket.CloseError
		if errors.As(err, &closeErr) && closeErr.Code == websocket.CloseGoingAway {
			return
		}
		logger.Infof(ctx, "notify hub websocket err keys: %+v, err: %+v", s.Keys, err)
	})
	// Clients only listen; anything they send is ignored.
	h.ws.HandleMessage(func(*melody.Session, []byte) {})
}

func (h *Hub) dispatch(ctx context.Context, payload string) error {
	msg := &notify.SendMsg{}
	if err := json.Unmarshal([]byte(payload), msg); err != nil {
		return code.UnmarshalWSDataErr.WithErr(err)
	}
	data := []byte(payload)
	return h.ws.BroadcastFilter(data, func(s *melody.Session) bool {
		v, ok := s.Get(actorKey)
		if !ok {
			return false
		}
		actor, ok := v.(*common.Actor)
		return ok && notify.Deliverable(actor, msg)
	})
}

func (h *Hub) Online() int {
	return h.ws.Len()
}

// Close stops the subscriptions and drops every session. The message center
// is left open for its owner to close.
func (h *Hub) Close(ctx context.Context) {
	h.once.Do(func() {
		h.cancel()
		if err := h.ws.Close(); err != nil {
			logger.Errorf(ctx, "notify hub close websocket err: %+v", err)
		}
	})
}
