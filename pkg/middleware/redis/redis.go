package redis

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/pharmlab/procure/pkg/middleware/logger"
	"github.com/redis/go-redis/extra/rediscmd/v9"
	r "github.com/redis/go-redis/v9"
)

type Redis struct {
	Host     string
	Port     int
	Password string
	DB       int
}

const slowCommand = 200 * time.Millisecond

var redisClient *r.Client

func InitRedis(ctx context.Context, conf *Redis) {
	var err error
	redisClient, err = initRedis(ctx, conf)
	if err != nil {
		logger.Fatalf(ctx, "init redis fail err: %+v", err)
	}
}

func initRedis(ctx context.Context, conf *Redis) (*r.Client, error) {
	client := r.NewClient(&r.Options{
		Addr:     fmt.Sprintf("%s:%d", conf.Host, conf.Port),
		Password: conf.Password,
		DB:       conf.DB,
	})
	client.AddHook(slowLogHook{})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return client, nil
}

func CloseRedis(_ context.Context) {
	if redisClient != nil {
		redisClient.Close()
	}
}

// GetClient returns the process-wide client.
func GetClient() *r.Client {
	return redisClient
}

type slowLogHook struct{}

func (slowLogHook) DialHook(next r.DialHook) r.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

func (slowLogHook) ProcessHook(next r.ProcessHook) r.ProcessHook {
	return func(ctx context.Context, cmd r.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		if d := time.Since(start); d > slowCommand {
			logger.Warnf(ctx, "slow redis cmd %s took %s", rediscmd.CmdString(cmd), d)
		}
		return err
	}
}

func (slowLogHook) ProcessPipelineHook(next r.ProcessPipelineHook) r.ProcessPipelineHook {
	return func(ctx context.Context, cmds []r.Cmder) error {
		start := time.Now()
		err := next(ctx, cmds)
		if d := time.Since(start); d > slowCommand {
			summary, _ := rediscmd.CmdsString(cmds)
			logger.Warnf(ctx, "slow redis pipeline %s took %s", summary, d)
		}
		return err
	}
}
