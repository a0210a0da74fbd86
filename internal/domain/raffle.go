package domain

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/rafflefi/backend/internal/common"
	"github.com/rafflefi/backend/internal/domain/event"
	"github.com/rafflefi/backend/internal/entity"
	"github.com/rafflefi/backend/internal/model"
	"github.com/rafflefi/backend/internal/repository"
	"github.com/rafflefi/backend/pkg/errorx"
	"github.com/rafflefi/backend/pkg/ethutil"
	"github.com/rafflefi/backend/pkg/xcontext"

	"gorm.io/gorm"
)

type RaffleDomain interface {
	CreateRaffle(context.Context, *model.CreateRaffleRequest) (*model.CreateRaffleResponse, error)
	SettleRaffle(context.Context, *model.SettleRaffleRequest) (*model.SettleRaffleResponse, error)
	GetRaffle(context.Context, *model.GetRaffleRequest) (*model.GetRaffleResponse, error)
	GetWinner(context.Context, *model.GetWinnerRequest) (*model.GetWinnerResponse, error)
	GetCreatedRaffles(context.Context, *model.GetCreatedRafflesRequest) (*model.GetCreatedRafflesResponse, error)
	GetRafflesByStatus(context.Context, *model.GetRafflesByStatusRequest) (*model.GetRafflesByStatusResponse, error)
	GetWhitelistedRaffles(context.Context, *model.GetWhitelistedRafflesRequest) (*model.GetWhitelistedRafflesResponse, error)
}

type raffleDomain struct {
	raffleRepo     repository.RaffleRepository
	ticketRepo     repository.TicketRepository
	listingCache   *common.ListingCache
	eventPublisher *common.EventPublisher
}

func NewRaffleDomain(
	raffleRepo repository.RaffleRepository,
	ticketRepo repository.TicketRepository,
	listingCache *common.ListingCache,
	eventPublisher *common.EventPublisher,
) *raffleDomain {
	return &raffleDomain{
		raffleRepo:     raffleRepo,
		ticketRepo:     ticketRepo,
		listingCache:   listingCache,
		eventPublisher: eventPublisher,
	}
}

func (d *raffleDomain) CreateRaffle(
	ctx context.Context, req *model.CreateRaffleRequest,
) (*model.CreateRaffleResponse, error) {
	raffleType, err := parseRaffleType(req.Type, false)
	if err != nil {
		return nil, err
	}

	if req.NumberOfTickets <= 0 {
		return nil, errorx.New(errorx.BadRequest, "The number of tickets must be a positive number")
	}

	owner, err := normalizeAddress(req.Owner, "owner")
	if err != nil {
		return nil, err
	}

	assetContract, err := normalizeAddress(req.AssetContract, "asset contract")
	if err != nil {
		return nil, err
	}

	currency, err := normalizeAddress(req.Currency, "currency")
	if err != nil {
		return nil, err
	}

	nftIDOrAmount, err := parseBaseUnits(req.NftIDOrAmount, "nft id or amount")
	if err != nil {
		return nil, err
	}

	pricePerTicket, err := parseBaseUnits(req.PricePerTicket, "price per ticket")
	if err != nil {
		return nil, err
	}

	if req.EndTimestamp.IsZero() {
		return nil, errorx.New(errorx.BadRequest, "End timestamp is required")
	}

	if req.MerkleRoot != "" && !ethutil.IsHash(req.MerkleRoot) {
		return nil, errorx.New(errorx.BadRequest, "Invalid merkle root")
	}

	_, err = d.raffleRepo.GetByID(ctx, req.RaffleID)
	if err == nil {
		return nil, errorx.New(errorx.AlreadyExists, "Raffle %d already exists", req.RaffleID)
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, unavailable(ctx, "get raffle", err)
	}

	raffle := &entity.Raffle{
		RaffleID:          req.RaffleID,
		Owner:             owner,
		AssetContract:     assetContract,
		AssetContractName: req.AssetContractName,
		Type:              raffleType,
		NftIDOrAmount:     nftIDOrAmount,
		Decimals:          req.Decimals,
		Symbol:            req.Symbol,
		TokenURI:          req.TokenURI,
		PricePerTicket:    pricePerTicket,
		NumberOfTickets:   uint64(req.NumberOfTickets),
		TicketsSold:       0,
		Currency:          currency,
		CurrencyName:      req.CurrencyName,
		CurrencyDecimals:  req.CurrencyDecimals,
		EndTimestamp:      req.EndTimestamp.UTC(),
		MerkleRoot:        strings.ToLower(req.MerkleRoot),
		State:             entity.RaffleInProgress,
	}

	if err := d.raffleRepo.Create(ctx, raffle); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errorx.New(errorx.AlreadyExists, "Raffle %d already exists", req.RaffleID)
		}

		return nil, unavailable(ctx, "create raffle", err)
	}

	d.listingCache.InvalidateRaffles(ctx)
	d.eventPublisher.Publish(ctx, model.RaffleTopic, raffleKey(raffle.RaffleID),
		&event.RaffleCreatedEvent{Raffle: model.ConvertRaffle(raffle)})

	return &model.CreateRaffleResponse{}, nil
}

func (d *raffleDomain) SettleRaffle(
	ctx context.Context, req *model.SettleRaffleRequest,
) (*model.SettleRaffleResponse, error) {
	raffle, err := d.raffleRepo.GetByID(ctx, req.RaffleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found raffle")
		}

		return nil, unavailable(ctx, "get raffle", err)
	}

	if raffle.State == entity.RaffleFinished {
		return nil, errorx.New(errorx.AlreadySettled, "Raffle has been settled")
	}

	if !raffle.Ended(time.Now().UTC()) {
		return nil, errorx.New(errorx.RaffleNotEnded, "Raffle has not ended")
	}

	winner := sql.NullString{}
	if raffle.TicketsSold > 0 {
		address, err := normalizeAddress(req.Winner, "winner")
		if err != nil {
			return nil, err
		}

		hasTicket, err := d.ticketRepo.HasTicket(ctx, raffle.RaffleID, address)
		if err != nil {
			return nil, unavailable(ctx, "check ticket of winner", err)
		}

		if !hasTicket {
			return nil, errorx.New(errorx.BadRequest, "Winner does not hold any ticket of the raffle")
		}

		winner = sql.NullString{String: address, Valid: true}
	} else if req.Winner != "" {
		xcontext.Logger(ctx).Debugf("Ignore winner %s of raffle %d without tickets sold",
			req.Winner, raffle.RaffleID)
	}

	if err := d.raffleRepo.Finish(ctx, raffle.RaffleID, winner); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.AlreadySettled, "Raffle has been settled")
		}

		return nil, unavailable(ctx, "finish raffle", err)
	}

	d.listingCache.InvalidateRaffles(ctx)
	d.eventPublisher.Publish(ctx, model.RaffleTopic, raffleKey(raffle.RaffleID),
		&event.RaffleSettledEvent{RaffleID: raffle.RaffleID, Winner: winner.String})

	return &model.SettleRaffleResponse{}, nil
}

func (d *raffleDomain) GetRaffle(
	ctx context.Context, req *model.GetRaffleRequest,
) (*model.GetRaffleResponse, error) {
	raffle, err := d.raffleRepo.GetByID(ctx, req.RaffleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found raffle")
		}

		return nil, unavailable(ctx, "get raffle", err)
	}

	return &model.GetRaffleResponse{Raffle: model.ConvertRaffle(raffle)}, nil
}

func (d *raffleDomain) GetWinner(
	ctx context.Context, req *model.GetWinnerRequest,
) (*model.GetWinnerResponse, error) {
	raffle, err := d.raffleRepo.GetByID(ctx, req.RaffleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found raffle")
		}

		return nil, unavailable(ctx, "get raffle", err)
	}

	if raffle.State != entity.RaffleFinished {
		return nil, errorx.New(errorx.RaffleNotEnded, "Raffle has not been settled")
	}

	return &model.GetWinnerResponse{Winner: raffle.Winner.String}, nil
}

func (d *raffleDomain) GetCreatedRaffles(
	ctx context.Context, req *model.GetCreatedRafflesRequest,
) (*model.GetCreatedRafflesResponse, error) {
	owner, err := normalizeAddress(req.Owner, "owner")
	if err != nil {
		return nil, err
	}

	raffleType, err := parseRaffleType(req.Type, true)
	if err != nil {
		return nil, err
	}

	raffles, err := d.raffleRepo.GetList(ctx, repository.GetListRaffleFilter{
		Owner: owner,
		Type:  raffleType,
	})
	if err != nil {
		return nil, unavailable(ctx, "get created raffles", err)
	}

	return &model.GetCreatedRafflesResponse{Raffles: convertRaffles(raffles)}, nil
}

func (d *raffleDomain) GetRafflesByStatus(
	ctx context.Context, req *model.GetRafflesByStatusRequest,
) (*model.GetRafflesByStatusResponse, error) {
	raffleType, err := parseRaffleType(req.Type, false)
	if err != nil {
		return nil, err
	}

	status := strings.ToLower(req.Status)
	var state entity.RaffleState
	switch status {
	case common.RaffleStatusActive:
		state = entity.RaffleInProgress
	case common.RaffleStatusFinished:
		state = entity.RaffleFinished
	default:
		return nil, errorx.New(errorx.BadRequest, "Status must be active or finished")
	}

	cacheKey := common.RedisKeyRafflesByStatus(string(raffleType), status)
	resp := &model.GetRafflesByStatusResponse{}
	if d.listingCache.Get(ctx, cacheKey, resp) {
		return resp, nil
	}

	raffles, err := d.raffleRepo.GetList(ctx, repository.GetListRaffleFilter{
		Type:  raffleType,
		State: state,
	})
	if err != nil {
		return nil, unavailable(ctx, "get raffles by status", err)
	}

	resp.Groups = groupByAsset(convertRaffles(raffles), func(r model.Raffle) *model.Raffle { return &r })
	d.listingCache.Set(ctx, cacheKey, resp)

	return resp, nil
}

func (d *raffleDomain) GetWhitelistedRaffles(
	ctx context.Context, req *model.GetWhitelistedRafflesRequest,
) (*model.GetWhitelistedRafflesResponse, error) {
	if !ethutil.IsHash(req.MerkleRoot) {
		return nil, errorx.New(errorx.BadRequest, "Invalid merkle root")
	}

	raffleType, err := parseRaffleType(req.Type, true)
	if err != nil {
		return nil, err
	}

	raffles, err := d.raffleRepo.GetList(ctx, repository.GetListRaffleFilter{
		Type:       raffleType,
		MerkleRoot: strings.ToLower(req.MerkleRoot),
	})
	if err != nil {
		return nil, unavailable(ctx, "get whitelisted raffles", err)
	}

	return &model.GetWhitelistedRafflesResponse{Raffles: convertRaffles(raffles)}, nil
}

func convertRaffles(raffles []entity.Raffle) []model.Raffle {
	result := []model.Raffle{}
	for i := range raffles {
		result = append(result, model.ConvertRaffle(&raffles[i]))
	}

	return result
}

func raffleKey(raffleID uint64) string {
	return strconv.FormatUint(raffleID, 10)
}
