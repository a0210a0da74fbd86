package domain

import (
	"context"
	"errors"
	"time"

	"github.com/rafflefi/backend/internal/common"
	"github.com/rafflefi/backend/internal/domain/event"
	"github.com/rafflefi/backend/internal/entity"
	"github.com/rafflefi/backend/internal/model"
	"github.com/rafflefi/backend/internal/repository"
	"github.com/rafflefi/backend/pkg/errorx"
	"github.com/rafflefi/backend/pkg/xcontext"

	"gorm.io/gorm"
)

type TicketDomain interface {
	IssueTicket(context.Context, *model.IssueTicketRequest) (*model.IssueTicketResponse, error)
	GetTicketsByRaffle(context.Context, *model.GetTicketsByRaffleRequest) (*model.GetTicketsByRaffleResponse, error)
	GetTicket(context.Context, *model.GetTicketRequest) (*model.GetTicketResponse, error)
	GetTicketsByAccount(context.Context, *model.GetTicketsByAccountRequest) (*model.GetTicketsByAccountResponse, error)
}

type ticketDomain struct {
	raffleRepo     repository.RaffleRepository
	ticketRepo     repository.TicketRepository
	listingCache   *common.ListingCache
	eventPublisher *common.EventPublisher
}

func NewTicketDomain(
	raffleRepo repository.RaffleRepository,
	ticketRepo repository.TicketRepository,
	listingCache *common.ListingCache,
	eventPublisher *common.EventPublisher,
) *ticketDomain {
	return &ticketDomain{
		raffleRepo:     raffleRepo,
		ticketRepo:     ticketRepo,
		listingCache:   listingCache,
		eventPublisher: eventPublisher,
	}
}

// IssueTicket reserves the next ticket id of the raffle. The counter is
// increased by a conditional update, so concurrent issuances get distinct
// and contiguous ids and never exceed the capacity.
func (d *ticketDomain) IssueTicket(
	ctx context.Context, req *model.IssueTicketRequest,
) (*model.IssueTicketResponse, error) {
	account, err := normalizeAddress(req.Account, "account")
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.raffleRepo.IncreaseTicketsSold(ctx, req.RaffleID, now); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Release the transaction before finding out the reason.
			ctx = xcontext.WithRollbackDBTransaction(ctx)
			return nil, d.rejectIssuance(ctx, req.RaffleID, now)
		}

		return nil, unavailable(ctx, "increase tickets sold", err)
	}

	raffle, err := d.raffleRepo.GetByID(ctx, req.RaffleID)
	if err != nil {
		return nil, unavailable(ctx, "get raffle", err)
	}

	ticket := &entity.Ticket{
		RaffleID: raffle.RaffleID,
		TicketID: raffle.TicketsSold - 1,
		Account:  account,
	}

	if err := d.ticketRepo.Create(ctx, ticket); err != nil {
		return nil, unavailable(ctx, "create ticket", err)
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		return nil, unavailable(ctx, "commit ticket", err)
	}

	d.listingCache.InvalidateRaffles(ctx)
	d.eventPublisher.Publish(ctx, model.RaffleTopic, raffleKey(ticket.RaffleID), &event.TicketIssuedEvent{
		RaffleID: ticket.RaffleID,
		TicketID: ticket.TicketID,
		Account:  ticket.Account,
	})

	return &model.IssueTicketResponse{TicketID: ticket.TicketID}, nil
}

func (d *ticketDomain) rejectIssuance(ctx context.Context, raffleID uint64, now time.Time) error {
	raffle, err := d.raffleRepo.GetByID(ctx, raffleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errorx.New(errorx.NotFound, "Not found raffle")
		}

		return unavailable(ctx, "get raffle", err)
	}

	switch {
	case raffle.State != entity.RaffleInProgress:
		return errorx.New(errorx.RaffleClosed, "Raffle is closed")
	case raffle.SoldOut():
		return errorx.New(errorx.SoldOut, "Raffle is sold out")
	case raffle.Ended(now):
		return errorx.New(errorx.RaffleClosed, "Raffle has ended")
	}

	xcontext.Logger(ctx).Warnf("Raffle %d rejected a ticket without a visible reason", raffleID)
	return errUnavailable
}

func (d *ticketDomain) GetTicketsByRaffle(
	ctx context.Context, req *model.GetTicketsByRaffleRequest,
) (*model.GetTicketsByRaffleResponse, error) {
	tickets, err := d.ticketRepo.GetList(ctx, repository.GetListTicketFilter{RaffleID: req.RaffleID})
	if err != nil {
		return nil, unavailable(ctx, "get tickets of raffle", err)
	}

	return &model.GetTicketsByRaffleResponse{Tickets: convertTickets(tickets)}, nil
}

func (d *ticketDomain) GetTicket(
	ctx context.Context, req *model.GetTicketRequest,
) (*model.GetTicketResponse, error) {
	account, err := normalizeAddress(req.Account, "account")
	if err != nil {
		return nil, err
	}

	ticket, err := d.ticketRepo.GetOwned(ctx, req.RaffleID, req.TicketID, account)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found ticket")
		}

		return nil, unavailable(ctx, "get ticket", err)
	}

	return &model.GetTicketResponse{Ticket: model.ConvertTicket(ticket)}, nil
}

func (d *ticketDomain) GetTicketsByAccount(
	ctx context.Context, req *model.GetTicketsByAccountRequest,
) (*model.GetTicketsByAccountResponse, error) {
	account, err := normalizeAddress(req.Account, "account")
	if err != nil {
		return nil, err
	}

	raffleType, err := parseRaffleType(req.Type, true)
	if err != nil {
		return nil, err
	}

	tickets, err := d.ticketRepo.GetList(ctx, repository.GetListTicketFilter{
		Account:    account,
		RaffleType: raffleType,
	})
	if err != nil {
		return nil, unavailable(ctx, "get tickets of account", err)
	}

	if !req.Grouped {
		return &model.GetTicketsByAccountResponse{Tickets: convertTickets(tickets)}, nil
	}

	groups := groupByAsset(convertTickets(tickets), func(t model.Ticket) *model.Raffle { return t.Raffle })
	return &model.GetTicketsByAccountResponse{Groups: groups}, nil
}

func convertTickets(tickets []entity.Ticket) []model.Ticket {
	result := []model.Ticket{}
	for i := range tickets {
		result = append(result, model.ConvertTicket(&tickets[i]))
	}

	return result
}
