package domain

import (
	"context"
	"errors"
	"strconv"
	"strings"

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

type LotteryDomain interface {
	GetCurrentRound(context.Context, *model.GetCurrentRoundRequest) (*model.GetCurrentRoundResponse, error)
	OpenRound(context.Context, *model.OpenRoundRequest) (*model.OpenRoundResponse, error)
	RecordTicket(context.Context, *model.RecordLotteryTicketRequest) (*model.RecordLotteryTicketResponse, error)
	GetTickets(context.Context, *model.GetLotteryTicketsRequest) (*model.GetLotteryTicketsResponse, error)
	RecordShare(context.Context, *model.RecordShareRequest) (*model.RecordShareResponse, error)
	GetProof(context.Context, *model.GetProofRequest) (*model.GetProofResponse, error)
	RecordAsset(context.Context, *model.RecordAssetRequest) (*model.RecordAssetResponse, error)
	GetAssets(context.Context, *model.GetAssetsRequest) (*model.GetAssetsResponse, error)
	SnapshotTokenPool(context.Context, *model.SnapshotTokenPoolRequest) (*model.SnapshotTokenPoolResponse, error)
	GetTokenPool(context.Context, *model.GetTokenPoolRequest) (*model.GetTokenPoolResponse, error)
	GetWhitelistedTokens(context.Context, *model.GetWhitelistedTokensRequest) (*model.GetWhitelistedTokensResponse, error)
	RecordWinner(context.Context, *model.RecordLotteryWinnerRequest) (*model.RecordLotteryWinnerResponse, error)
}

type lotteryDomain struct {
	lotteryRepo    repository.LotteryRepository
	eventPublisher *common.EventPublisher
}

func NewLotteryDomain(
	lotteryRepo repository.LotteryRepository,
	eventPublisher *common.EventPublisher,
) *lotteryDomain {
	return &lotteryDomain{
		lotteryRepo:    lotteryRepo,
		eventPublisher: eventPublisher,
	}
}

// currentRound returns the round with the greatest lottery id.
func (d *lotteryDomain) currentRound(ctx context.Context, kind entity.LotteryKind) (*entity.LotteryRound, error) {
	round, err := d.lotteryRepo.GetLastRound(ctx, kind)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NoActiveRound, "No active %s lottery round", kind)
		}

		return nil, unavailable(ctx, "get last round", err)
	}

	return round, nil
}

// openRound returns the round lotteryID if it is the current round. It locks
// the current round, so ctx must be inside a transaction which lasts until the
// write to the round is done.
func (d *lotteryDomain) openRound(
	ctx context.Context, kind entity.LotteryKind, lotteryID uint64,
) (*entity.LotteryRound, error) {
	current, err := d.lotteryRepo.LockLastRound(ctx, kind)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found %s lottery round %d", kind, lotteryID)
		}

		return nil, unavailable(ctx, "lock last round", err)
	}

	if current.LotteryID == lotteryID {
		return current, nil
	}

	if lotteryID > current.LotteryID {
		return nil, errorx.New(errorx.NotFound, "Not found %s lottery round %d", kind, lotteryID)
	}

	if _, err := d.lotteryRepo.GetRound(ctx, kind, lotteryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found %s lottery round %d", kind, lotteryID)
		}

		return nil, unavailable(ctx, "get round", err)
	}

	return nil, errorx.New(errorx.RoundClosed, "The %s lottery round %d is closed", kind, lotteryID)
}

func (d *lotteryDomain) GetCurrentRound(
	ctx context.Context, req *model.GetCurrentRoundRequest,
) (*model.GetCurrentRoundResponse, error) {
	kind, err := parseLotteryKind(req.Kind)
	if err != nil {
		return nil, err
	}

	round, err := d.currentRound(ctx, kind)
	if err != nil {
		return nil, err
	}

	return &model.GetCurrentRoundResponse{Round: model.ConvertLotteryRound(round)}, nil
}

func (d *lotteryDomain) OpenRound(
	ctx context.Context, req *model.OpenRoundRequest,
) (*model.OpenRoundResponse, error) {
	kind, err := parseLotteryKind(req.Kind)
	if err != nil {
		return nil, err
	}

	if req.StartTimestamp.IsZero() || req.EndTimestamp.Before(req.StartTimestamp) {
		return nil, errorx.New(errorx.BadRequest, "Invalid round time")
	}

	if req.MerkleRoot != "" && !ethutil.IsHash(req.MerkleRoot) {
		return nil, errorx.New(errorx.BadRequest, "Invalid merkle root")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	current, err := d.lotteryRepo.LockLastRound(ctx, kind)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, unavailable(ctx, "lock last round", err)
	}

	if err == nil && req.LotteryID <= current.LotteryID {
		return nil, errorx.New(errorx.AlreadyExists,
			"The round id must be greater than the current round %d", current.LotteryID)
	}

	round := &entity.LotteryRound{
		LotteryID:      req.LotteryID,
		StartTimestamp: req.StartTimestamp.UTC(),
		EndTimestamp:   req.EndTimestamp.UTC(),
		MerkleRoot:     strings.ToLower(req.MerkleRoot),
	}

	if err := d.lotteryRepo.CreateRound(ctx, kind, round); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errorx.New(errorx.AlreadyExists, "The round %d exists already", req.LotteryID)
		}

		return nil, unavailable(ctx, "create round", err)
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		return nil, unavailable(ctx, "commit round", err)
	}

	d.eventPublisher.Publish(ctx, model.LotteryTopic, string(kind), &event.LotteryRoundOpenedEvent{
		Kind:         string(kind),
		LotteryRound: model.ConvertLotteryRound(round),
	})

	return &model.OpenRoundResponse{}, nil
}

func (d *lotteryDomain) RecordTicket(
	ctx context.Context, req *model.RecordLotteryTicketRequest,
) (*model.RecordLotteryTicketResponse, error) {
	kind, err := parseLotteryKind(req.Kind)
	if err != nil {
		return nil, err
	}

	account, err := normalizeAddress(req.Account, "account")
	if err != nil {
		return nil, err
	}

	if req.Count == 0 {
		return nil, errorx.New(errorx.BadRequest, "The number of tickets must be a positive number")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if _, err := d.openRound(ctx, kind, req.LotteryID); err != nil {
		return nil, err
	}

	if err := d.lotteryRepo.IncreaseTickets(ctx, kind, req.LotteryID, account, req.Count); err != nil {
		return nil, unavailable(ctx, "increase lottery tickets", err)
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		return nil, unavailable(ctx, "commit lottery tickets", err)
	}

	return &model.RecordLotteryTicketResponse{}, nil
}

func (d *lotteryDomain) GetTickets(
	ctx context.Context, req *model.GetLotteryTicketsRequest,
) (*model.GetLotteryTicketsResponse, error) {
	kind, err := parseLotteryKind(req.Kind)
	if err != nil {
		return nil, err
	}

	account, err := normalizeAddress(req.Account, "account")
	if err != nil {
		return nil, err
	}

	lotteryID := req.LotteryID
	if req.Current {
		round, err := d.currentRound(ctx, kind)
		if err != nil {
			return nil, err
		}

		lotteryID = &round.LotteryID
	}

	tickets, err := d.lotteryRepo.GetTickets(ctx, kind, account, lotteryID)
	if err != nil {
		return nil, unavailable(ctx, "get lottery tickets", err)
	}

	result := []model.LotteryTicket{}
	for i := range tickets {
		result = append(result, model.ConvertLotteryTicket(&tickets[i]))
	}

	return &model.GetLotteryTicketsResponse{Tickets: result}, nil
}

// RecordShare stores the merkle proof of the leaf (address, lottery id). Only
// accounts holding monthly tickets of the round are leaves of its tree.
func (d *lotteryDomain) RecordShare(
	ctx context.Context, req *model.RecordShareRequest,
) (*model.RecordShareResponse, error) {
	address, err := normalizeAddress(req.Address, "share")
	if err != nil {
		return nil, err
	}

	if len(req.Proof) == 0 {
		return nil, errorx.New(errorx.BadRequest, "Proof must not be empty")
	}

	proof := make(entity.Array[string], 0, len(req.Proof))
	for i, hash := range req.Proof {
		if !ethutil.IsHash(hash) {
			return nil, errorx.New(errorx.BadRequest, "Invalid proof hash at %d", i)
		}

		proof = append(proof, strings.ToLower(hash))
	}

	if _, err := d.lotteryRepo.GetRound(ctx, entity.MonthlyLottery, req.LotteryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found monthly lottery round %d", req.LotteryID)
		}

		return nil, unavailable(ctx, "get round", err)
	}

	tickets, err := d.lotteryRepo.GetTickets(ctx, entity.MonthlyLottery, address, &req.LotteryID)
	if err != nil {
		return nil, unavailable(ctx, "get lottery tickets", err)
	}

	if len(tickets) == 0 || tickets[0].Tickets == 0 {
		return nil, errorx.New(errorx.NotFound, "Cannot find the leaf")
	}

	err = d.lotteryRepo.UpsertShare(ctx, &entity.MonthlyLotteryErc721Share{
		Address: address,
		ID:      req.LotteryID,
		Proof:   proof,
	})
	if err != nil {
		return nil, unavailable(ctx, "upsert share", err)
	}

	return &model.RecordShareResponse{}, nil
}

func (d *lotteryDomain) GetProof(
	ctx context.Context, req *model.GetProofRequest,
) (*model.GetProofResponse, error) {
	address, err := normalizeAddress(req.Address, "share")
	if err != nil {
		return nil, err
	}

	share, err := d.lotteryRepo.GetShare(ctx, address, req.LotteryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found proof")
		}

		return nil, unavailable(ctx, "get share", err)
	}

	round, err := d.lotteryRepo.GetRound(ctx, entity.MonthlyLottery, req.LotteryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found monthly lottery round %d", req.LotteryID)
		}

		return nil, unavailable(ctx, "get round", err)
	}

	return &model.GetProofResponse{Proof: share.Proof, MerkleRoot: round.MerkleRoot}, nil
}

func (d *lotteryDomain) RecordAsset(
	ctx context.Context, req *model.RecordAssetRequest,
) (*model.RecordAssetResponse, error) {
	assetContract, err := normalizeAddress(req.AssetContract, "asset contract")
	if err != nil {
		return nil, err
	}

	contributor, err := normalizeAddress(req.Contributor, "contributor")
	if err != nil {
		return nil, err
	}

	if _, err := parseBaseUnits(req.NftID, "nft id"); err != nil {
		return nil, err
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if _, err := d.openRound(ctx, entity.MonthlyLottery, req.LotteryID); err != nil {
		return nil, err
	}

	err = d.lotteryRepo.CreateAsset(ctx, &entity.MonthlyLotteryErc721Asset{
		ID:                req.LotteryID,
		AssetContract:     assetContract,
		AssetContractName: req.AssetContractName,
		NftID:             req.NftID,
		Contributor:       contributor,
	})
	if err != nil {
		return nil, unavailable(ctx, "create asset", err)
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		return nil, unavailable(ctx, "commit asset", err)
	}

	return &model.RecordAssetResponse{}, nil
}

func (d *lotteryDomain) GetAssets(
	ctx context.Context, req *model.GetAssetsRequest,
) (*model.GetAssetsResponse, error) {
	assets, err := d.lotteryRepo.GetAssets(ctx, req.LotteryID)
	if err != nil {
		return nil, unavailable(ctx, "get assets", err)
	}

	result := []model.LotteryAsset{}
	for i := range assets {
		result = append(result, model.ConvertLotteryAsset(&assets[i]))
	}

	return &model.GetAssetsResponse{Assets: result}, nil
}

// SnapshotTokenPool overwrites the amounts of the given currencies in the
// weekly token pool.
func (d *lotteryDomain) SnapshotTokenPool(
	ctx context.Context, req *model.SnapshotTokenPoolRequest,
) (*model.SnapshotTokenPoolResponse, error) {
	if len(req.Tokens) == 0 {
		return nil, errorx.New(errorx.BadRequest, "Tokens must not be empty")
	}

	whitelisted, err := d.lotteryRepo.GetWhitelistedTokens(ctx)
	if err != nil {
		return nil, unavailable(ctx, "get whitelisted tokens", err)
	}

	whitelistedSet := map[string]bool{}
	for _, c := range whitelisted {
		whitelistedSet[c.Address] = true
	}

	tokens := []entity.WeeklyLotteryToken{}
	for _, t := range req.Tokens {
		currency, err := normalizeAddress(t.Currency, "currency")
		if err != nil {
			return nil, err
		}

		if !whitelistedSet[currency] {
			return nil, errorx.New(errorx.BadRequest, "Currency %s is not whitelisted", currency)
		}

		amount, err := parseBaseUnits(t.Amount, "amount of "+currency)
		if err != nil {
			return nil, err
		}

		tokens = append(tokens, entity.WeeklyLotteryToken{
			LotteryID: req.LotteryID,
			Currency:  currency,
			Amount:    amount,
		})
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if _, err := d.openRound(ctx, entity.WeeklyLottery, req.LotteryID); err != nil {
		return nil, err
	}

	if err := d.lotteryRepo.UpsertTokens(ctx, tokens); err != nil {
		return nil, unavailable(ctx, "upsert tokens", err)
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		return nil, unavailable(ctx, "commit tokens", err)
	}

	return &model.SnapshotTokenPoolResponse{}, nil
}

func (d *lotteryDomain) GetTokenPool(
	ctx context.Context, req *model.GetTokenPoolRequest,
) (*model.GetTokenPoolResponse, error) {
	var lotteryID uint64
	if req.LotteryID != nil {
		lotteryID = *req.LotteryID
	} else {
		round, err := d.currentRound(ctx, entity.WeeklyLottery)
		if err != nil {
			return nil, err
		}

		lotteryID = round.LotteryID
	}

	entries, err := d.lotteryRepo.GetTokenPool(ctx, lotteryID)
	if err != nil {
		return nil, unavailable(ctx, "get token pool", err)
	}

	result := []model.LotteryToken{}
	for i := range entries {
		result = append(result, model.ConvertTokenPoolEntry(&entries[i]))
	}

	return &model.GetTokenPoolResponse{LotteryID: lotteryID, Tokens: result}, nil
}

func (d *lotteryDomain) GetWhitelistedTokens(
	ctx context.Context, req *model.GetWhitelistedTokensRequest,
) (*model.GetWhitelistedTokensResponse, error) {
	currencies, err := d.lotteryRepo.GetWhitelistedTokens(ctx)
	if err != nil {
		return nil, unavailable(ctx, "get whitelisted tokens", err)
	}

	result := []model.Currency{}
	for _, c := range currencies {
		result = append(result, model.Currency{
			Address:  c.Address,
			Name:     c.Name,
			Symbol:   c.Symbol,
			Decimals: c.Decimals,
		})
	}

	return &model.GetWhitelistedTokensResponse{Tokens: result}, nil
}

func (d *lotteryDomain) RecordWinner(
	ctx context.Context, req *model.RecordLotteryWinnerRequest,
) (*model.RecordLotteryWinnerResponse, error) {
	kind, err := parseLotteryKind(req.Kind)
	if err != nil {
		return nil, err
	}

	winner, err := normalizeAddress(req.Winner, "winner")
	if err != nil {
		return nil, err
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if _, err := d.openRound(ctx, kind, req.LotteryID); err != nil {
		return nil, err
	}

	if err := d.lotteryRepo.SetWinner(ctx, kind, req.LotteryID, winner); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.AlreadySettled, "The round has a winner already")
		}

		return nil, unavailable(ctx, "set winner", err)
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		return nil, unavailable(ctx, "commit winner", err)
	}

	d.eventPublisher.Publish(ctx, model.LotteryTopic, string(kind)+":"+strconv.FormatUint(req.LotteryID, 10),
		&event.LotteryWinnerEvent{
			Kind:      string(kind),
			LotteryID: req.LotteryID,
			Winner:    winner,
		})

	return &model.RecordLotteryWinnerResponse{}, nil
}
