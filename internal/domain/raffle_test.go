package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/rafflefi/backend/internal/common"
	"github.com/rafflefi/backend/internal/model"
	"github.com/rafflefi/backend/internal/repository"
	"github.com/rafflefi/backend/pkg/errorx"
	"github.com/rafflefi/backend/pkg/testutil"

	"github.com/stretchr/testify/require"
)

func newTestRaffleDomain(publisher *testutil.MockPublisher, cache *common.ListingCache) *raffleDomain {
	if publisher == nil {
		publisher = &testutil.MockPublisher{}
	}

	return NewRaffleDomain(
		repository.NewRaffleRepository(),
		repository.NewTicketRepository(),
		cache,
		common.NewEventPublisher(publisher),
	)
}

func newCreateRaffleRequest(raffleID uint64) *model.CreateRaffleRequest {
	return &model.CreateRaffleRequest{
		RaffleID:          raffleID,
		Owner:             testutil.Owner1,
		AssetContract:     testutil.AssetContract2,
		AssetContractName: "Azuki",
		Type:              "erc721",
		NftIDOrAmount:     "42",
		PricePerTicket:    "1000",
		NumberOfTickets:   3,
		Currency:          testutil.Currency1,
		CurrencyName:      "Wrapped Ether",
		CurrencyDecimals:  18,
		EndTimestamp:      time.Now().Add(time.Hour),
		MerkleRoot:        testutil.MerkleRoot1,
	}
}

func Test_raffleDomain_CreateRaffle(t *testing.T) {
	ctx := testutil.NewMockContext()
	publisher := &testutil.MockPublisher{}
	d := newTestRaffleDomain(publisher, nil)

	_, err := d.CreateRaffle(ctx, newCreateRaffleRequest(1))
	require.NoError(t, err)

	resp, err := d.GetRaffle(ctx, &model.GetRaffleRequest{RaffleID: 1})
	require.NoError(t, err)
	require.Equal(t, "ERC721", resp.Raffle.Type)
	require.Equal(t, "IN_PROGRESS", resp.Raffle.State)
	require.Equal(t, uint64(0), resp.Raffle.TicketsSold)
	require.Equal(t, "42", resp.Raffle.NftIDOrAmount)
	require.Equal(t, testutil.AssetContract2, resp.Raffle.AssetContract)
	require.Equal(t, []string{"raffle_created"}, publisher.Ops(model.RaffleTopic))

	_, err = d.CreateRaffle(ctx, newCreateRaffleRequest(1))
	require.True(t, errorx.Is(err, errorx.AlreadyExists), err)
}

func Test_raffleDomain_CreateRaffle_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		modify func(req *model.CreateRaffleRequest)
	}{
		{
			name:   "invalid type",
			modify: func(req *model.CreateRaffleRequest) { req.Type = "erc1155" },
		},
		{
			name:   "zero tickets",
			modify: func(req *model.CreateRaffleRequest) { req.NumberOfTickets = 0 },
		},
		{
			name:   "invalid owner",
			modify: func(req *model.CreateRaffleRequest) { req.Owner = "0x1234" },
		},
		{
			name:   "invalid currency",
			modify: func(req *model.CreateRaffleRequest) { req.Currency = "weth" },
		},
		{
			name:   "negative price",
			modify: func(req *model.CreateRaffleRequest) { req.PricePerTicket = "-1" },
		},
		{
			name:   "missing end timestamp",
			modify: func(req *model.CreateRaffleRequest) { req.EndTimestamp = time.Time{} },
		},
		{
			name:   "fractional price",
			modify: func(req *model.CreateRaffleRequest) { req.PricePerTicket = "1.5" },
		},
		{
			name:   "fractional amount",
			modify: func(req *model.CreateRaffleRequest) { req.NftIDOrAmount = "0.01" },
		},
		{
			name:   "invalid merkle root",
			modify: func(req *model.CreateRaffleRequest) { req.MerkleRoot = "0xabc" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := testutil.NewMockContext()
			d := newTestRaffleDomain(nil, nil)

			req := newCreateRaffleRequest(1)
			tt.modify(req)

			_, err := d.CreateRaffle(ctx, req)
			require.True(t, errorx.Is(err, errorx.BadRequest), err)
		})
	}
}

func Test_raffleDomain_SettleRaffle(t *testing.T) {
	ctx := testutil.NewMockContext()
	publisher := &testutil.MockPublisher{}
	d := newTestRaffleDomain(publisher, nil)

	testutil.InsertRaffle(ctx, 1, 2, time.Now().Add(time.Hour))
	testutil.InsertTicket(ctx, 1, 0, testutil.User1)

	_, err := d.SettleRaffle(ctx, &model.SettleRaffleRequest{RaffleID: 1, Winner: testutil.User1})
	require.True(t, errorx.Is(err, errorx.RaffleNotEnded), err)

	_, err = d.GetWinner(ctx, &model.GetWinnerRequest{RaffleID: 1})
	require.True(t, errorx.Is(err, errorx.RaffleNotEnded), err)

	testutil.InsertTicket(ctx, 1, 1, testutil.User2)
	testutil.EndRaffle(ctx, 1)

	// The winner must hold a ticket.
	_, err = d.SettleRaffle(ctx, &model.SettleRaffleRequest{RaffleID: 1, Winner: testutil.User3})
	require.True(t, errorx.Is(err, errorx.BadRequest), err)

	_, err = d.SettleRaffle(ctx, &model.SettleRaffleRequest{RaffleID: 1, Winner: testutil.User2})
	require.NoError(t, err)

	_, err = d.SettleRaffle(ctx, &model.SettleRaffleRequest{RaffleID: 1, Winner: testutil.User1})
	require.True(t, errorx.Is(err, errorx.AlreadySettled), err)

	resp, err := d.GetWinner(ctx, &model.GetWinnerRequest{RaffleID: 1})
	require.NoError(t, err)
	require.Equal(t, testutil.User2, resp.Winner)

	raffle, err := d.GetRaffle(ctx, &model.GetRaffleRequest{RaffleID: 1})
	require.NoError(t, err)
	require.Equal(t, "FINISHED", raffle.Raffle.State)

	require.Equal(t, []string{"raffle_settled"}, publisher.Ops(model.RaffleTopic))

	_, err = d.SettleRaffle(ctx, &model.SettleRaffleRequest{RaffleID: 2, Winner: testutil.User1})
	require.True(t, errorx.Is(err, errorx.NotFound), err)
}

func Test_raffleDomain_SettleRaffle_SoldOutBeforeEnd(t *testing.T) {
	ctx := testutil.NewMockContext()
	d := newTestRaffleDomain(nil, nil)

	testutil.InsertRaffle(ctx, 1, 1, time.Now().Add(time.Hour))
	testutil.InsertTicket(ctx, 1, 0, testutil.User1)

	_, err := d.SettleRaffle(ctx, &model.SettleRaffleRequest{RaffleID: 1, Winner: testutil.User1})
	require.True(t, errorx.Is(err, errorx.RaffleNotEnded), err)

	raffle, err := d.GetRaffle(ctx, &model.GetRaffleRequest{RaffleID: 1})
	require.NoError(t, err)
	require.Equal(t, "IN_PROGRESS", raffle.Raffle.State)
	require.Equal(t, uint64(1), raffle.Raffle.TicketsSold)

	testutil.EndRaffle(ctx, 1)

	_, err = d.SettleRaffle(ctx, &model.SettleRaffleRequest{RaffleID: 1, Winner: testutil.User1})
	require.NoError(t, err)
}

func Test_raffleDomain_SettleRaffle_NoTicketSold(t *testing.T) {
	ctx := testutil.NewMockContext()
	d := newTestRaffleDomain(nil, nil)
	testutil.InsertRaffle(ctx, 1, 2, time.Now().Add(-time.Hour))

	_, err := d.SettleRaffle(ctx, &model.SettleRaffleRequest{RaffleID: 1, Winner: testutil.User1})
	require.NoError(t, err)

	resp, err := d.GetWinner(ctx, &model.GetWinnerRequest{RaffleID: 1})
	require.NoError(t, err)
	require.Empty(t, resp.Winner)
}

func Test_raffleDomain_GetRafflesByStatus(t *testing.T) {
	ctx := testutil.NewMockContext()
	cache := common.NewListingCache(testutil.NewMockRedisClient(), time.Minute)
	d := newTestRaffleDomain(nil, cache)

	testutil.InsertRaffle(ctx, 1, 2, time.Now().Add(time.Hour))
	testutil.InsertRaffle(ctx, 2, 2, time.Now().Add(time.Hour))

	resp, err := d.GetRafflesByStatus(ctx, &model.GetRafflesByStatusRequest{Type: "ERC721", Status: "Active"})
	require.NoError(t, err)
	require.Len(t, resp.Groups, 1)
	require.Equal(t, testutil.AssetContract1, resp.Groups[0].AssetContract)
	require.Len(t, resp.Groups[0].Items, 2)

	// Creating a raffle invalidates the cached listing.
	_, err = d.CreateRaffle(ctx, newCreateRaffleRequest(3))
	require.NoError(t, err)

	resp, err = d.GetRafflesByStatus(ctx, &model.GetRafflesByStatusRequest{Type: "ERC721", Status: "active"})
	require.NoError(t, err)
	require.Len(t, resp.Groups, 2)
	require.Equal(t, "Azuki", resp.Groups[0].AssetContractName)
	require.Equal(t, "BoredApeYachtClub", resp.Groups[1].AssetContractName)

	resp, err = d.GetRafflesByStatus(ctx, &model.GetRafflesByStatusRequest{Type: "ERC721", Status: "finished"})
	require.NoError(t, err)
	require.Empty(t, resp.Groups)

	_, err = d.GetRafflesByStatus(ctx, &model.GetRafflesByStatusRequest{Type: "ERC721", Status: "paused"})
	require.True(t, errorx.Is(err, errorx.BadRequest), err)
}

func Test_raffleDomain_GetCreatedAndWhitelistedRaffles(t *testing.T) {
	ctx := testutil.NewMockContext()
	d := newTestRaffleDomain(nil, nil)

	testutil.InsertRaffle(ctx, 1, 2, time.Now().Add(time.Hour))

	created, err := d.GetCreatedRaffles(ctx, &model.GetCreatedRafflesRequest{Owner: testutil.Owner1})
	require.NoError(t, err)
	require.Len(t, created.Raffles, 1)

	created, err = d.GetCreatedRaffles(ctx, &model.GetCreatedRafflesRequest{Owner: testutil.User1})
	require.NoError(t, err)
	require.Empty(t, created.Raffles)

	whitelisted, err := d.GetWhitelistedRaffles(ctx, &model.GetWhitelistedRafflesRequest{
		MerkleRoot: testutil.MerkleRoot1,
		Type:       "erc721",
	})
	require.NoError(t, err)
	require.Len(t, whitelisted.Raffles, 1)

	// Merkle roots match whatever the case of their hex digits.
	req := newCreateRaffleRequest(2)
	req.MerkleRoot = "0x" + strings.ToUpper(testutil.MerkleRoot2[2:])
	_, err = d.CreateRaffle(ctx, req)
	require.NoError(t, err)

	whitelisted, err = d.GetWhitelistedRaffles(ctx, &model.GetWhitelistedRafflesRequest{MerkleRoot: testutil.MerkleRoot2})
	require.NoError(t, err)
	require.Len(t, whitelisted.Raffles, 1)
	require.Equal(t, uint64(2), whitelisted.Raffles[0].RaffleID)
	require.Equal(t, testutil.MerkleRoot2, whitelisted.Raffles[0].MerkleRoot)

	whitelisted, err = d.GetWhitelistedRaffles(ctx, &model.GetWhitelistedRafflesRequest{MerkleRoot: req.MerkleRoot})
	require.NoError(t, err)
	require.Len(t, whitelisted.Raffles, 1)

	_, err = d.GetWhitelistedRaffles(ctx, &model.GetWhitelistedRafflesRequest{MerkleRoot: "root"})
	require.True(t, errorx.Is(err, errorx.BadRequest), err)
}
