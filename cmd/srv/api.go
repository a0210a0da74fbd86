package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rafflefi/backend/internal/middleware"
	"github.com/rafflefi/backend/pkg/router"
	"github.com/rafflefi/backend/pkg/xcontext"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func (s *srv) startApi(*cli.Context) error {
	if err := s.loadAll(); err != nil {
		return err
	}
	defer s.close()

	s.loadRouter()

	cfg := xcontext.Configs(s.ctx).ApiServer
	s.server = &http.Server{
		Addr:              cfg.Address(),
		Handler:           s.router.Handler(cfg.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(s.ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		xcontext.Logger(s.ctx).Infof("Starting server on %s", cfg.Address())
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	})

	s.servePrometheus(ctx, g)

	if err := g.Wait(); err != nil {
		return err
	}

	xcontext.Logger(s.ctx).Infof("Server stopped")
	return nil
}

func (s *srv) loadRouter() {
	s.router = router.New(s.ctx)
	s.router.Observe(middleware.Prometheus(), middleware.Logger())

	if len(xcontext.Configs(s.ctx).Operator.APIKeys) == 0 {
		xcontext.Logger(s.ctx).Warnf("No operator API key is configured, operator routes deny every request")
	}

	// These following APIs apply facts of the chain, only operators may call
	// them.
	operatorRouter := s.router.Branch()
	operatorRouter.Before(middleware.NewOnlyOperator(xcontext.Configs(s.ctx).Operator.APIKeys).Middleware())
	{
		router.POST(operatorRouter, "/createRaffle", s.raffleDomain.CreateRaffle)
		router.POST(operatorRouter, "/settleRaffle", s.raffleDomain.SettleRaffle)
		router.POST(operatorRouter, "/issueTicket", s.ticketDomain.IssueTicket)
		router.POST(operatorRouter, "/settleOrder", s.orderDomain.SettleOrder)

		lotteryRouter := operatorRouter.Group("/lottery")
		router.POST(lotteryRouter, "/openRound", s.lotteryDomain.OpenRound)
		router.POST(lotteryRouter, "/recordTicket", s.lotteryDomain.RecordTicket)
		router.POST(lotteryRouter, "/recordShare", s.lotteryDomain.RecordShare)
		router.POST(lotteryRouter, "/recordAsset", s.lotteryDomain.RecordAsset)
		router.POST(lotteryRouter, "/snapshotTokenPool", s.lotteryDomain.SnapshotTokenPool)
		router.POST(lotteryRouter, "/recordWinner", s.lotteryDomain.RecordWinner)
	}

	// Raffle API
	router.GET(s.router, "/getRaffle", s.raffleDomain.GetRaffle)
	router.GET(s.router, "/getWinner", s.raffleDomain.GetWinner)
	router.GET(s.router, "/getCreatedRaffles", s.raffleDomain.GetCreatedRaffles)
	router.GET(s.router, "/getRafflesByStatus", s.raffleDomain.GetRafflesByStatus)
	router.GET(s.router, "/getWhitelistedRaffles", s.raffleDomain.GetWhitelistedRaffles)

	// Ticket API
	router.GET(s.router, "/getTicketsByRaffle", s.ticketDomain.GetTicketsByRaffle)
	router.GET(s.router, "/getTicket", s.ticketDomain.GetTicket)
	router.GET(s.router, "/getTicketsByAccount", s.ticketDomain.GetTicketsByAccount)

	// Order API, sellers authenticate each listing with a signature.
	router.GET(s.router, "/getOpenOrder", s.orderDomain.GetOpenOrder)
	router.GET(s.router, "/getOpenOrdersByRaffle", s.orderDomain.GetOpenOrdersByRaffle)
	router.GET(s.router, "/getOpenOrders", s.orderDomain.GetOpenOrders)
	router.POST(s.router, "/listTicket", s.orderDomain.ListTicket)
	router.POST(s.router, "/withdrawOrder", s.orderDomain.WithdrawOrder)

	// Lottery API
	lotteryRouter := s.router.Group("/lottery")
	{
		router.GET(lotteryRouter, "/getCurrentRound", s.lotteryDomain.GetCurrentRound)
		router.GET(lotteryRouter, "/getTickets", s.lotteryDomain.GetTickets)
		router.GET(lotteryRouter, "/getProof", s.lotteryDomain.GetProof)
		router.GET(lotteryRouter, "/getAssets", s.lotteryDomain.GetAssets)
		router.GET(lotteryRouter, "/getTokenPool", s.lotteryDomain.GetTokenPool)
		router.GET(lotteryRouter, "/getWhitelistedTokens", s.lotteryDomain.GetWhitelistedTokens)
	}

	// Reference data and statistics
	router.GET(s.router, "/getCurrencies", s.currencyDomain.GetCurrencies)
	router.GET(s.router, "/countCreatedRaffles", s.statisticDomain.CountCreatedRaffles)
	router.GET(s.router, "/countBoughtTickets", s.statisticDomain.CountBoughtTickets)
	router.GET(s.router, "/countResaleSold", s.statisticDomain.CountResaleSold)
}
