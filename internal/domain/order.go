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

type OrderDomain interface {
	ListTicket(context.Context, *model.ListTicketRequest) (*model.ListTicketResponse, error)
	SettleOrder(context.Context, *model.SettleOrderRequest) (*model.SettleOrderResponse, error)
	WithdrawOrder(context.Context, *model.WithdrawOrderRequest) (*model.WithdrawOrderResponse, error)
	GetOpenOrder(context.Context, *model.GetOpenOrderRequest) (*model.GetOpenOrderResponse, error)
	GetOpenOrdersByRaffle(context.Context, *model.GetOpenOrdersByRaffleRequest) (*model.GetOpenOrdersByRaffleResponse, error)
	GetOpenOrders(context.Context, *model.GetOpenOrdersRequest) (*model.GetOpenOrdersResponse, error)
}

type orderDomain struct {
	orderRepo         repository.OrderRepository
	ticketRepo        repository.TicketRepository
	raffleRepo        repository.RaffleRepository
	currencyRepo      repository.CurrencyRepository
	signatureVerifier common.SignatureVerifier
	listingCache      *common.ListingCache
	eventPublisher    *common.EventPublisher
}

func NewOrderDomain(
	orderRepo repository.OrderRepository,
	ticketRepo repository.TicketRepository,
	raffleRepo repository.RaffleRepository,
	currencyRepo repository.CurrencyRepository,
	signatureVerifier common.SignatureVerifier,
	listingCache *common.ListingCache,
	eventPublisher *common.EventPublisher,
) *orderDomain {
	return &orderDomain{
		orderRepo:         orderRepo,
		ticketRepo:        ticketRepo,
		raffleRepo:        raffleRepo,
		currencyRepo:      currencyRepo,
		signatureVerifier: signatureVerifier,
		listingCache:      listingCache,
		eventPublisher:    eventPublisher,
	}
}

func (d *orderDomain) ListTicket(
	ctx context.Context, req *model.ListTicketRequest,
) (*model.ListTicketResponse, error) {
	seller, err := normalizeAddress(req.Seller, "seller")
	if err != nil {
		return nil, err
	}

	currencyAddress, err := normalizeAddress(req.Currency, "currency")
	if err != nil {
		return nil, err
	}

	price, err := parseBaseUnits(req.Price, "price")
	if err != nil {
		return nil, err
	}

	if !price.IsPositive() {
		return nil, errorx.New(errorx.BadRequest, "Price must be a positive number")
	}

	if req.Signature == "" {
		return nil, errorx.New(errorx.BadRequest, "Signature is required")
	}

	currency, err := d.currencyRepo.GetByAddress(ctx, currencyAddress)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.BadRequest, "Currency is not whitelisted")
		}

		return nil, unavailable(ctx, "get currency", err)
	}

	raffle, err := d.raffleRepo.GetByID(ctx, req.RaffleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found raffle")
		}

		return nil, unavailable(ctx, "get raffle", err)
	}

	if raffle.State != entity.RaffleInProgress || raffle.Ended(time.Now().UTC()) {
		return nil, errorx.New(errorx.RaffleClosed, "Cannot list a ticket of a closed raffle")
	}

	ticket, err := d.ticketRepo.Get(ctx, req.RaffleID, req.TicketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found ticket")
		}

		return nil, unavailable(ctx, "get ticket", err)
	}

	if ticket.Account != seller {
		return nil, errorx.New(errorx.NotOwner, "Seller does not own the ticket")
	}

	_, err = d.orderRepo.GetOpenByTicket(ctx, req.RaffleID, req.TicketID)
	if err == nil {
		return nil, errorx.New(errorx.DuplicateListing, "Ticket has been listed already")
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, unavailable(ctx, "get open order", err)
	}

	message := common.ListingMessage(xcontext.Configs(ctx).Raffle.ChainID,
		req.RaffleID, req.TicketID, price, currency.Address, seller)
	ok, err := d.signatureVerifier.Verify(ctx, seller, message, req.Signature)
	if err != nil {
		return nil, unavailable(ctx, "verify signature", err)
	}

	if !ok {
		return nil, errorx.New(errorx.InvalidSignature, "Invalid signature")
	}

	order := &entity.Order{
		RaffleID:         req.RaffleID,
		TicketID:         req.TicketID,
		Currency:         currency.Address,
		CurrencyName:     currency.Name,
		CurrencyDecimals: currency.Decimals,
		Price:            price,
		Seller:           seller,
		Signature:        req.Signature,
	}

	if err := d.orderRepo.Create(ctx, order); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errorx.New(errorx.DuplicateListing, "Ticket has been listed already")
		}

		return nil, unavailable(ctx, "create order", err)
	}

	d.listingCache.InvalidateOrders(ctx)
	d.eventPublisher.Publish(ctx, model.OrderTopic, raffleKey(order.RaffleID),
		&event.OrderListedEvent{Order: model.ConvertOrder(order)})

	return &model.ListTicketResponse{OrderID: order.OrderID}, nil
}

// SettleOrder closes the order and moves the ticket to the buyer in one
// transaction. Only one of racing settlements of the same order succeeds.
func (d *orderDomain) SettleOrder(
	ctx context.Context, req *model.SettleOrderRequest,
) (*model.SettleOrderResponse, error) {
	buyer, err := normalizeAddress(req.Buyer, "buyer")
	if err != nil {
		return nil, err
	}

	order, err := d.orderRepo.GetByID(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found order")
		}

		return nil, unavailable(ctx, "get order", err)
	}

	if order.Bought {
		return nil, errorx.New(errorx.AlreadySold, "Order has been sold")
	}

	if order.Seller == buyer {
		return nil, errorx.New(errorx.BadRequest, "Buyer must not be the seller")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.orderRepo.MarkBought(ctx, order.OrderID, buyer); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.AlreadySold, "Order has been sold")
		}

		return nil, unavailable(ctx, "mark order as bought", err)
	}

	err = d.ticketRepo.Transfer(ctx, order.RaffleID, order.TicketID, order.Seller, buyer)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotOwner, "Seller does not own the ticket anymore")
		}

		return nil, unavailable(ctx, "transfer ticket", err)
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		return nil, unavailable(ctx, "commit order", err)
	}

	d.listingCache.InvalidateOrders(ctx)
	d.eventPublisher.Publish(ctx, model.OrderTopic, raffleKey(order.RaffleID), &event.OrderSettledEvent{
		OrderID:  order.OrderID,
		RaffleID: order.RaffleID,
		TicketID: order.TicketID,
		Seller:   order.Seller,
		Buyer:    buyer,
	})

	return &model.SettleOrderResponse{}, nil
}

func (d *orderDomain) WithdrawOrder(
	ctx context.Context, req *model.WithdrawOrderRequest,
) (*model.WithdrawOrderResponse, error) {
	seller, err := normalizeAddress(req.Seller, "seller")
	if err != nil {
		return nil, err
	}

	order, err := d.orderRepo.GetByID(ctx, req.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found order")
		}

		return nil, unavailable(ctx, "get order", err)
	}

	if order.Bought {
		return nil, errorx.New(errorx.AlreadySold, "Order has been sold")
	}

	if order.Seller != seller {
		return nil, errorx.New(errorx.NotOwner, "Only the seller can withdraw the order")
	}

	if err := d.orderRepo.DeleteOpen(ctx, order.OrderID, seller); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.AlreadySold, "Order has been sold")
		}

		return nil, unavailable(ctx, "delete order", err)
	}

	d.listingCache.InvalidateOrders(ctx)
	d.eventPublisher.Publish(ctx, model.OrderTopic, raffleKey(order.RaffleID), &event.OrderWithdrawnEvent{
		OrderID:  order.OrderID,
		RaffleID: order.RaffleID,
		TicketID: order.TicketID,
	})

	return &model.WithdrawOrderResponse{}, nil
}

func (d *orderDomain) GetOpenOrder(
	ctx context.Context, req *model.GetOpenOrderRequest,
) (*model.GetOpenOrderResponse, error) {
	order, err := d.orderRepo.GetOpenByTicket(ctx, req.RaffleID, req.TicketID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found open order")
		}

		return nil, unavailable(ctx, "get open order", err)
	}

	return &model.GetOpenOrderResponse{Order: model.ConvertOrder(order)}, nil
}

func (d *orderDomain) GetOpenOrdersByRaffle(
	ctx context.Context, req *model.GetOpenOrdersByRaffleRequest,
) (*model.GetOpenOrdersByRaffleResponse, error) {
	orders, err := d.orderRepo.GetOpenList(ctx, repository.GetListOpenOrderFilter{RaffleID: req.RaffleID})
	if err != nil {
		return nil, unavailable(ctx, "get open orders of raffle", err)
	}

	return &model.GetOpenOrdersByRaffleResponse{Orders: convertOrders(orders)}, nil
}

func (d *orderDomain) GetOpenOrders(
	ctx context.Context, req *model.GetOpenOrdersRequest,
) (*model.GetOpenOrdersResponse, error) {
	raffleType, err := parseRaffleType(req.Type, true)
	if err != nil {
		return nil, err
	}

	cacheKey := common.RedisKeyOpenOrders(string(raffleType))
	resp := &model.GetOpenOrdersResponse{}
	if d.listingCache.Get(ctx, cacheKey, resp) {
		return resp, nil
	}

	orders, err := d.orderRepo.GetOpenList(ctx, repository.GetListOpenOrderFilter{
		RaffleType:  raffleType,
		RaffleState: entity.RaffleInProgress,
	})
	if err != nil {
		return nil, unavailable(ctx, "get open orders", err)
	}

	resp.Groups = groupByAsset(convertOrders(orders), func(o model.Order) *model.Raffle { return o.Raffle })
	d.listingCache.Set(ctx, cacheKey, resp)

	return resp, nil
}

func convertOrders(orders []entity.Order) []model.Order {
	result := []model.Order{}
	for i := range orders {
		result = append(result, model.ConvertOrder(&orders[i]))
	}

	return result
}
