package main

import (
	"context"
	"net/http"

	"github.com/rafflefi/backend/internal/common"
	"github.com/rafflefi/backend/internal/domain"
	"github.com/rafflefi/backend/internal/repository"
	"github.com/rafflefi/backend/pkg/pubsub"
	"github.com/rafflefi/backend/pkg/router"
	"github.com/rafflefi/backend/pkg/xredis"

	"github.com/urfave/cli/v2"
)

type srv struct {
	ctx context.Context
	app *cli.App

	redisClient    xredis.Client
	publisher      pubsub.Publisher
	listingCache   *common.ListingCache
	eventPublisher *common.EventPublisher

	raffleRepo   repository.RaffleRepository
	ticketRepo   repository.TicketRepository
	orderRepo    repository.OrderRepository
	currencyRepo repository.CurrencyRepository
	lotteryRepo  repository.LotteryRepository

	raffleDomain    domain.RaffleDomain
	ticketDomain    domain.TicketDomain
	orderDomain     domain.OrderDomain
	lotteryDomain   domain.LotteryDomain
	currencyDomain  domain.CurrencyDomain
	statisticDomain domain.StatisticDomain

	router *router.Router
	server *http.Server
}
