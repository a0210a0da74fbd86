package testutil

import (
	"context"

	"github.com/rafflefi/backend/config"
	"github.com/rafflefi/backend/migration"
	"github.com/rafflefi/backend/pkg/logger"
	"github.com/rafflefi/backend/pkg/xcontext"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewMockContext returns a context with a fresh migrated in-memory database.
func NewMockContext() context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		panic(err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}

	// Every connection of sqlite :memory: opens its own database.
	sqlDB.SetMaxOpenConns(1)

	cfg := config.Default()
	cfg.Raffle.ChainID = ChainID

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE))
	ctx = xcontext.WithDB(ctx, db)

	if err := migration.AutoMigrate(ctx); err != nil {
		panic(err)
	}

	return ctx
}
