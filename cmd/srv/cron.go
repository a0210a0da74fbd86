package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rafflefi/backend/internal/domain/cron"
	"github.com/rafflefi/backend/pkg/xcontext"

	"github.com/urfave/cli/v2"
)

func (s *srv) startCron(*cli.Context) error {
	if err := s.loadAll(); err != nil {
		return err
	}
	defer s.close()

	ctx, stop := signal.NotifyContext(s.ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cronJobManager := cron.NewCronJobManager()
	cronJobManager.Start(
		ctx,
		cron.NewExpiredRaffleCronJob(s.raffleRepo, s.eventPublisher,
			xcontext.Configs(s.ctx).Cron.ExpiredRaffleInterval),
	)

	return nil
}
