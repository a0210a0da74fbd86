package xcontext

import (
	"context"
	"net/http"

	"github.com/rafflefi/backend/config"
	"github.com/rafflefi/backend/pkg/logger"
	"gorm.io/gorm"
)

type (
	configsKey     struct{}
	loggerKey      struct{}
	dbKey          struct{}
	dbTxKey        struct{}
	httpRequestKey struct{}
)

type dbTransaction struct {
	tx     *gorm.DB
	joined bool
	done   bool
}

func WithConfigs(ctx context.Context, cfg config.Configs) context.Context {
	return context.WithValue(ctx, configsKey{}, cfg)
}

func Configs(ctx context.Context) config.Configs {
	cfg, ok := ctx.Value(configsKey{}).(config.Configs)
	if !ok {
		return config.Configs{}
	}

	return cfg
}

func WithLogger(ctx context.Context, l logger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

func Logger(ctx context.Context) logger.Logger {
	l, ok := ctx.Value(loggerKey{}).(logger.Logger)
	if !ok {
		return logger.NewLogger(logger.SILENCE)
	}

	return l
}

func WithHTTPRequest(ctx context.Context, r *http.Request) context.Context {
	return context.WithValue(ctx, httpRequestKey{}, r)
}

func HTTPRequest(ctx context.Context) *http.Request {
	r, _ := ctx.Value(httpRequestKey{}).(*http.Request)
	return r
}

func WithDB(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, dbKey{}, db)
}

// DB returns the database handle of this context. If the context is inside
// a transaction which has not been committed or rolled back yet, the
// transaction is returned instead.
func DB(ctx context.Context) *gorm.DB {
	if t, ok := ctx.Value(dbTxKey{}).(*dbTransaction); ok && !t.done {
		return t.tx.WithContext(ctx)
	}

	db, ok := ctx.Value(dbKey{}).(*gorm.DB)
	if !ok {
		panic("database is not set in context")
	}

	return db.WithContext(ctx)
}

// WithDBTransaction begins a transaction. A context which is already inside a
// transaction joins it, the outermost caller owns commit and rollback.
func WithDBTransaction(ctx context.Context) context.Context {
	if t, ok := ctx.Value(dbTxKey{}).(*dbTransaction); ok && !t.done {
		return context.WithValue(ctx, dbTxKey{}, &dbTransaction{tx: t.tx, joined: true})
	}

	return context.WithValue(ctx, dbTxKey{}, &dbTransaction{tx: DB(ctx).Begin()})
}

func WithCommitDBTransaction(ctx context.Context) error {
	t, ok := ctx.Value(dbTxKey{}).(*dbTransaction)
	if !ok || t.done {
		return nil
	}

	t.done = true
	if t.joined {
		return nil
	}

	return t.tx.Commit().Error
}

// WithRollbackDBTransaction is safe to defer right after WithDBTransaction, it
// does nothing if the transaction has been committed.
func WithRollbackDBTransaction(ctx context.Context) context.Context {
	t, ok := ctx.Value(dbTxKey{}).(*dbTransaction)
	if !ok || t.done {
		return ctx
	}

	t.done = true
	if !t.joined {
		t.tx.Rollback()
	}

	return ctx
}
