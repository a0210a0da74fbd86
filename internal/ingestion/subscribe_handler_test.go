package ingestion

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/rafflefi/backend/internal/common"
	"github.com/rafflefi/backend/internal/domain"
	"github.com/rafflefi/backend/internal/model"
	"github.com/rafflefi/backend/internal/repository"
	"github.com/rafflefi/backend/pkg/errorx"
	"github.com/rafflefi/backend/pkg/pubsub"
	"github.com/rafflefi/backend/pkg/testutil"
	"github.com/rafflefi/backend/pkg/xcontext"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func newTestSubscribeHandler() (*SubscribeHandler, domain.TicketDomain) {
	raffleRepo := repository.NewRaffleRepository()
	ticketRepo := repository.NewTicketRepository()
	orderRepo := repository.NewOrderRepository()
	eventPublisher := common.NewEventPublisher(&testutil.MockPublisher{})

	raffleDomain := domain.NewRaffleDomain(raffleRepo, ticketRepo, nil, eventPublisher)
	ticketDomain := domain.NewTicketDomain(raffleRepo, ticketRepo, nil, eventPublisher)
	orderDomain := domain.NewOrderDomain(
		orderRepo, ticketRepo, raffleRepo, repository.NewCurrencyRepository(),
		&testutil.MockSignatureVerifier{}, nil, eventPublisher,
	)
	lotteryDomain := domain.NewLotteryDomain(repository.NewLotteryRepository(), eventPublisher)

	return NewSubscribeHandler(raffleDomain, ticketDomain, orderDomain, lotteryDomain), ticketDomain
}

func newPack(t *testing.T, op string, data any) *pubsub.Pack {
	b, err := json.Marshal(data)
	require.NoError(t, err)

	msg, err := json.Marshal(map[string]any{"id": op + "-1", "o": op, "d": json.RawMessage(b)})
	require.NoError(t, err)

	return &pubsub.Pack{Key: []byte(op), Msg: msg}
}

func ingested(op, result string) float64 {
	return promtestutil.ToFloat64(common.PromCounters[common.IngestionMessageTotal].WithLabelValues(op, result))
}

func Test_SubscribeHandler(t *testing.T) {
	ctx := testutil.NewMockContext()
	handler, ticketDomain := newTestSubscribeHandler()

	applied := ingested(OpIssueTicket, resultApplied)
	rejected := ingested(OpIssueTicket, resultRejected)

	err := handler.Subscribe(ctx, newPack(t, OpCreateRaffle, &model.CreateRaffleRequest{
		RaffleID:          1,
		Owner:             testutil.Owner1,
		AssetContract:     testutil.AssetContract1,
		AssetContractName: "BoredApeYachtClub",
		Type:              "erc721",
		NftIDOrAmount:     "1",
		PricePerTicket:    "100",
		NumberOfTickets:   1,
		Currency:          testutil.Currency1,
		EndTimestamp:      time.Now().Add(time.Hour),
	}), time.Now())
	require.NoError(t, err)

	issue := newPack(t, OpIssueTicket, &model.IssueTicketRequest{RaffleID: 1, Account: testutil.User1})
	require.NoError(t, handler.Subscribe(ctx, issue, time.Now()))

	// A rejected message is skipped without side effects.
	require.NoError(t, handler.Subscribe(ctx, newPack(t, OpIssueTicket, &model.IssueTicketRequest{
		RaffleID: 1, Account: testutil.User2,
	}), time.Now()))

	require.NoError(t, handler.Subscribe(ctx, newPack(t, "unknown", map[string]any{}), time.Now()))
	require.NoError(t, handler.Subscribe(ctx, &pubsub.Pack{Msg: []byte("{")}, time.Now()))
	require.NoError(t, handler.Subscribe(ctx, &pubsub.Pack{
		Msg: []byte(`{"id":"x","o":"issue_ticket","d":"not an object"}`),
	}, time.Now()))

	resp, err := ticketDomain.GetTicketsByRaffle(ctx, &model.GetTicketsByRaffleRequest{RaffleID: 1})
	require.NoError(t, err)
	require.Len(t, resp.Tickets, 1)
	require.Equal(t, testutil.User1, resp.Tickets[0].Account)
	require.Equal(t, uint64(0), resp.Tickets[0].TicketID)

	require.Equal(t, applied+1, ingested(OpIssueTicket, resultApplied))
	require.Equal(t, rejected+2, ingested(OpIssueTicket, resultRejected))
}

func Test_SubscribeHandler_StoreUnavailable(t *testing.T) {
	ctx := testutil.NewMockContext()
	handler, _ := newTestSubscribeHandler()

	sqlDB, err := xcontext.DB(ctx).DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	failed := ingested(OpCreateRaffle, resultFailed)

	err = handler.Subscribe(ctx, newPack(t, OpCreateRaffle, &model.CreateRaffleRequest{
		RaffleID:        1,
		Owner:           testutil.Owner1,
		AssetContract:   testutil.AssetContract1,
		Type:            "erc721",
		NftIDOrAmount:   "1",
		PricePerTicket:  "100",
		NumberOfTickets: 1,
		Currency:        testutil.Currency1,
		EndTimestamp:    time.Now().Add(time.Hour),
	}), time.Now())
	require.True(t, errorx.Is(err, errorx.Unavailable), err)
	require.Equal(t, failed+1, ingested(OpCreateRaffle, resultFailed))
}
