package db

import (
	"context"
	"fmt"
	"time"

	"github.com/pharmlab/procure/pkg/middleware/logger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"gorm.io/plugin/opentelemetry/tracing"
)

type LogConf struct {
	Level         string
	SlowThreshold time.Duration
}

type Config struct {
	Host    string
	Port    int
	User    string
	PW      string
	DBName  string
	LogConf LogConf
}

type txKey struct{}

// Datastore wraps the gorm handle. Repos embed it and call DBWithContext so
// that a transaction opened by ExecTx is picked up from ctx.
type Datastore struct {
	db *gorm.DB
}

var store *Datastore

func InitPostgres(ctx context.Context, conf *Config) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		conf.Host, conf.Port, conf.User, conf.PW, conf.DBName)

	slow := conf.LogConf.SlowThreshold
	if slow == 0 {
		slow = 500 * time.Millisecond
	}
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormLevel(conf.LogConf.Level)),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		logger.Fatalf(ctx, "open postgres err: %+v", err)
	}
	gdb.Logger = gormlogger.New(gormWriter{ctx: ctx}, gormlogger.Config{
		SlowThreshold:             slow,
		LogLevel:                  gormLevel(conf.LogConf.Level),
		IgnoreRecordNotFoundError: true,
	})

	if err := gdb.Use(tracing.NewPlugin(tracing.WithoutMetrics())); err != nil {
		logger.Errorf(ctx, "install gorm tracing plugin err: %+v", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		logger.Fatalf(ctx, "get sql db err: %+v", err)
	}
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(time.Hour)

	store = &Datastore{db: gdb}
}

func ClosePostgres(_ context.Context) {
	if store == nil {
		return
	}
	if sqlDB, err := store.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func DB() *Datastore {
	return store
}

func NewDatastore(gdb *gorm.DB) *Datastore {
	return &Datastore{db: gdb}
}

func (d *Datastore) DBIns() *gorm.DB {
	return d.db
}

func (d *Datastore) DBWithContext(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return d.db.WithContext(ctx)
}

// ExecTx runs fn in a transaction. Nested calls reuse the outer transaction.
func (d *Datastore) ExecTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

func gormLevel(level string) gormlogger.LogLevel {
	switch level {
	case "debug":
		return gormlogger.Info
	case "warn":
		return gormlogger.Warn
	case "error":
		return gormlogger.Error
	default:
		return gormlogger.Warn
	}
}

type gormWriter struct {
	ctx context.Context
}

func (w gormWriter) Printf(format string, args ...any) {
	logger.Infof(w.ctx, format, args...)
}
