package main

import (
	"fmt"
	"time"

	"github.com/rafflefi/backend/config"
	"github.com/rafflefi/backend/internal/common"
	"github.com/rafflefi/backend/internal/domain"
	"github.com/rafflefi/backend/internal/repository"
	"github.com/rafflefi/backend/migration"
	"github.com/rafflefi/backend/pkg/kafka"
	"github.com/rafflefi/backend/pkg/logger"
	"github.com/rafflefi/backend/pkg/xcontext"
	"github.com/rafflefi/backend/pkg/xredis"

	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func (s *srv) loadConfig(cctx *cli.Context) error {
	cfg, err := config.Load(cctx.String("config"))
	if err != nil {
		return err
	}

	s.ctx = xcontext.WithConfigs(s.ctx, cfg)
	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger(logger.ParseLevel(cfg.LogLevel)))
	return nil
}

func (s *srv) newDatabase() (*gorm.DB, error) {
	cfg := xcontext.Configs(s.ctx).Database

	logLevel := gormlogger.Warn
	if xcontext.Configs(s.ctx).Env == "local" {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(mysql.Open(cfg.ConnectionString()), &gorm.Config{
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
		NowFunc:                                  func() time.Time { return time.Now().UTC() },
		Logger:                                   gormlogger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("cannot open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	return db, nil
}

func (s *srv) loadDatabase() error {
	db, err := s.newDatabase()
	if err != nil {
		return err
	}

	s.ctx = xcontext.WithDB(s.ctx, db)
	return nil
}

func (s *srv) migrateDB() error {
	return migration.AutoMigrate(s.ctx)
}

// loadRedisClient connects the listing cache. The cache is optional, so a
// failed connection only disables it.
func (s *srv) loadRedisClient() {
	cfg := xcontext.Configs(s.ctx).Redis
	if cfg.Addr == "" || cfg.ListingTTL <= 0 {
		xcontext.Logger(s.ctx).Infof("Listing cache is disabled")
		return
	}

	client, err := xredis.NewClient(s.ctx)
	if err != nil {
		xcontext.Logger(s.ctx).Warnf("Cannot connect to redis, listing cache is disabled: %v", err)
		return
	}

	s.redisClient = client
}

func (s *srv) loadPublisher() error {
	cfg := xcontext.Configs(s.ctx).Kafka
	if len(cfg.Addrs) == 0 {
		xcontext.Logger(s.ctx).Warnf("No kafka broker is configured, events are not published")
		return nil
	}

	publisher, err := kafka.NewPublisher(cfg.ClientID, cfg.Addrs)
	if err != nil {
		return fmt.Errorf("cannot create kafka publisher: %w", err)
	}

	s.publisher = publisher
	return nil
}

func (s *srv) loadRepos() {
	s.raffleRepo = repository.NewRaffleRepository()
	s.ticketRepo = repository.NewTicketRepository()
	s.orderRepo = repository.NewOrderRepository()
	s.currencyRepo = repository.NewCurrencyRepository()
	s.lotteryRepo = repository.NewLotteryRepository()
}

func (s *srv) loadCommon() {
	s.listingCache = common.NewListingCache(s.redisClient, xcontext.Configs(s.ctx).Redis.ListingTTL)
	s.eventPublisher = common.NewEventPublisher(s.publisher)
}

func (s *srv) loadDomains() {
	s.raffleDomain = domain.NewRaffleDomain(s.raffleRepo, s.ticketRepo, s.listingCache, s.eventPublisher)
	s.ticketDomain = domain.NewTicketDomain(s.raffleRepo, s.ticketRepo, s.listingCache, s.eventPublisher)
	s.orderDomain = domain.NewOrderDomain(
		s.orderRepo,
		s.ticketRepo,
		s.raffleRepo,
		s.currencyRepo,
		common.NewEthSignatureVerifier(),
		s.listingCache,
		s.eventPublisher,
	)
	s.lotteryDomain = domain.NewLotteryDomain(s.lotteryRepo, s.eventPublisher)
	s.currencyDomain = domain.NewCurrencyDomain(s.currencyRepo)
	s.statisticDomain = domain.NewStatisticDomain(s.raffleRepo, s.ticketRepo, s.orderRepo)
}

// loadAll prepares everything a long running service needs.
func (s *srv) loadAll() error {
	if err := s.loadDatabase(); err != nil {
		return err
	}

	if err := s.migrateDB(); err != nil {
		return err
	}

	s.loadRedisClient()
	if err := s.loadPublisher(); err != nil {
		return err
	}

	s.loadRepos()
	s.loadCommon()
	s.loadDomains()
	return nil
}

func (s *srv) close() {
	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil {
			xcontext.Logger(s.ctx).Warnf("Cannot close redis client: %v", err)
		}
	}
}
