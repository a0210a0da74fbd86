package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rafflefi/backend/internal/ingestion"
	"github.com/rafflefi/backend/internal/model"
	"github.com/rafflefi/backend/pkg/kafka"
	"github.com/rafflefi/backend/pkg/xcontext"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

func (s *srv) startIngest(*cli.Context) error {
	if err := s.loadAll(); err != nil {
		return err
	}
	defer s.close()

	handler := ingestion.NewSubscribeHandler(s.raffleDomain, s.ticketDomain, s.orderDomain, s.lotteryDomain)

	cfg := xcontext.Configs(s.ctx).Kafka
	subscriber, err := kafka.NewSubscriber(
		cfg.ClientID+"-ingest",
		cfg.Addrs,
		[]string{model.IngestionTopic},
		handler.Subscribe,
	)
	if err != nil {
		return err
	}
	defer func() {
		if err := subscriber.Stop(context.Background()); err != nil {
			xcontext.Logger(s.ctx).Warnf("Cannot stop subscriber: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(s.ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	s.servePrometheus(ctx, g)

	xcontext.Logger(s.ctx).Infof("Start ingesting topic %s", model.IngestionTopic)
	subscriber.Subscribe(ctx)
	stop()

	return g.Wait()
}
