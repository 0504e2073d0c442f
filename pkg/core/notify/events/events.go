package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/pharmlab/procure/pkg/common/code"
	"github.com/pharmlab/procure/pkg/common/uuid"
	"github.com/pharmlab/procure/pkg/core/notify"
	"github.com/pharmlab/procure/pkg/middleware/logger"
	"github.com/pharmlab/procure/pkg/utils"
	r "github.com/redis/go-redis/v9"
)

// Events broadcasts notify messages between processes over redis pub/sub.
// Handlers run on a bounded ants pool so a slow receiver cannot stall the
// subscription loop.
type Events struct {
	actions sync.Map
	client  r.UniversalClient
	pool    *ants.Pool
	prefix  string
	wait    sync.WaitGroup
}

func NewEvents(client r.UniversalClient, prefix string, poolSize int) notify.MsgCenter {
	if poolSize <= 0 {
		poolSize = ants.DefaultAntsPoolSize
	}
	pool, err := ants.NewPool(poolSize, ants.WithExpiryDuration(10*time.Second))
	if err != nil {
		pool, _ = ants.NewPool(ants.DefaultAntsPoolSize)
	}
	return &Events{
		client: client,
		pool:   pool,
		prefix: prefix,
	}
}

func (e *Events) channel(action notify.Action) string {
	if e.prefix == "" {
		return string(action)
	}
	return e.prefix + ":" + string(action)
}

func (e *Events) Registry(ctx context.Context, msgName notify.Action, handleFunc notify.HandleFunc) error {
	if _, ok := e.actions.LoadOrStore(msgName, handleFunc); ok {
		return code.NotifyActionAlreadyRegistryErr.WithMsg(string(msgName))
	}

	channel := e.channel(msgName)
	sub := e.client.Subscribe(ctx, channel)

	e.wait.Add(1)
	utils.SafelyGo(func() {
		defer e.wait.Done()
		defer e.actions.Delete(msgName)
		defer func() {
			if err := sub.Close(); err != nil {
				logger.Errorf(ctx, "close subscription %s err: %+v", channel, err)
			}
		}()

		ch := sub.Channel()
		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					logger.Infof(ctx, "exit redis channel name: %s", channel)
					return
				}
				if msg == nil {
					continue
				}
				payload := msg.Payload
				if err := e.pool.Submit(func() {
					if err := handleFunc(ctx, payload); err != nil {
						logger.Errorf(ctx, "handle redis msg fail name: %s, err: %+v", channel, err)
					}
				}); err != nil {
					logger.Errorf(ctx, "submit redis msg %s err: %+v", channel, err)
				}
			case <-ctx.Done():
				logger.Infof(ctx, "exit redis channel name: %s", channel)
				return
			}
		}
	}, func(err error) {
		logger.Errorf(ctx, "Registry handle msg err: %+v", err)
	})
	return nil
}

func (e *Events) Broadcast(ctx context.Context, msg *notify.SendMsg) error {
	msg.Timestamp = time.Now().Unix()
	if msg.UUID.IsNil() {
		msg.UUID = uuid.NewV4()
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return code.NotifySendMsgErr.WithErr(err)
	}
	if err := e.client.Publish(ctx, e.channel(msg.Channel), data).Err(); err != nil {
		logger.Errorf(ctx, "send msg fail action: %s, err: %+v", msg.Channel, err)
		return code.NotifySendMsgErr.WithErr(err)
	}
	return nil
}

// Close waits for subscription loops to end, which happens when the context
// given to Registry is cancelled, then releases the handler pool.
func (e *Events) Close(_ context.Context) error {
	e.wait.Wait()
	e.pool.Release()
	return nil
}
