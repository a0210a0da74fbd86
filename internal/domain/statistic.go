package domain

import (
	"context"

	"github.com/rafflefi/backend/internal/model"
	"github.com/rafflefi/backend/internal/repository"
)

type StatisticDomain interface {
	CountCreatedRaffles(context.Context, *model.CountCreatedRafflesRequest) (*model.CountCreatedRafflesResponse, error)
	CountBoughtTickets(context.Context, *model.CountBoughtTicketsRequest) (*model.CountBoughtTicketsResponse, error)
	CountResaleSold(context.Context, *model.CountResaleSoldRequest) (*model.CountResaleSoldResponse, error)
}

type statisticDomain struct {
	raffleRepo repository.RaffleRepository
	ticketRepo repository.TicketRepository
	orderRepo  repository.OrderRepository
}

func NewStatisticDomain(
	raffleRepo repository.RaffleRepository,
	ticketRepo repository.TicketRepository,
	orderRepo repository.OrderRepository,
) *statisticDomain {
	return &statisticDomain{
		raffleRepo: raffleRepo,
		ticketRepo: ticketRepo,
		orderRepo:  orderRepo,
	}
}

func (d *statisticDomain) CountCreatedRaffles(
	ctx context.Context, req *model.CountCreatedRafflesRequest,
) (*model.CountCreatedRafflesResponse, error) {
	address, err := normalizeAddress(req.Address, "owner")
	if err != nil {
		return nil, err
	}

	amount, err := d.raffleRepo.CountByOwner(ctx, address)
	if err != nil {
		return nil, unavailable(ctx, "count created raffles", err)
	}

	return &model.CountCreatedRafflesResponse{Amount: amount}, nil
}

// CountBoughtTickets counts the tickets currently held by the address.
func (d *statisticDomain) CountBoughtTickets(
	ctx context.Context, req *model.CountBoughtTicketsRequest,
) (*model.CountBoughtTicketsResponse, error) {
	address, err := normalizeAddress(req.Address, "account")
	if err != nil {
		return nil, err
	}

	amount, err := d.ticketRepo.CountByAccount(ctx, address)
	if err != nil {
		return nil, unavailable(ctx, "count bought tickets", err)
	}

	return &model.CountBoughtTicketsResponse{Amount: amount}, nil
}

func (d *statisticDomain) CountResaleSold(
	ctx context.Context, req *model.CountResaleSoldRequest,
) (*model.CountResaleSoldResponse, error) {
	address, err := normalizeAddress(req.Address, "seller")
	if err != nil {
		return nil, err
	}

	amount, err := d.orderRepo.CountSoldBySeller(ctx, address)
	if err != nil {
		return nil, unavailable(ctx, "count resale sold", err)
	}

	return &model.CountResaleSoldResponse{Amount: amount}, nil
}
