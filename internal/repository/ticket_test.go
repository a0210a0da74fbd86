package repository

import (
	"testing"
	"time"

	"github.com/rafflefi/backend/internal/entity"
	"github.com/rafflefi/backend/pkg/testutil"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func Test_ticketRepository_Transfer(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.InsertRaffle(ctx, 1, 2, time.Now().Add(time.Hour))
	testutil.InsertTicket(ctx, 1, 0, testutil.User1)

	repo := NewTicketRepository()
	require.NoError(t, repo.Transfer(ctx, 1, 0, testutil.User1, testutil.User2))
	require.ErrorIs(t, repo.Transfer(ctx, 1, 0, testutil.User1, testutil.User3), gorm.ErrRecordNotFound)

	ticket, err := repo.Get(ctx, 1, 0)
	require.NoError(t, err)
	require.Equal(t, testutil.User2, ticket.Account)

	_, err = repo.GetOwned(ctx, 1, 0, testutil.User1)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	owned, err := repo.GetOwned(ctx, 1, 0, testutil.User2)
	require.NoError(t, err)
	require.NotNil(t, owned.Raffle)
	require.Equal(t, testutil.AssetContract1, owned.Raffle.AssetContract)
}

func Test_ticketRepository_GetList(t *testing.T) {
	ctx := testutil.NewMockContext()
	end := time.Now().Add(time.Hour)
	testutil.InsertRaffle(ctx, 1, 3, end)
	testutil.InsertRaffle(ctx, 2, 3, end)
	testutil.InsertTicket(ctx, 1, 0, testutil.User1)
	testutil.InsertTicket(ctx, 1, 1, testutil.User2)
	testutil.InsertTicket(ctx, 2, 0, testutil.User1)

	repo := NewTicketRepository()

	tickets, err := repo.GetList(ctx, GetListTicketFilter{RaffleID: 1})
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	require.Equal(t, uint64(0), tickets[0].TicketID)
	require.Equal(t, uint64(1), tickets[1].TicketID)

	tickets, err = repo.GetList(ctx, GetListTicketFilter{Account: testutil.User1, RaffleType: entity.RaffleERC721})
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	for _, ticket := range tickets {
		require.NotNil(t, ticket.Raffle)
	}

	tickets, err = repo.GetList(ctx, GetListTicketFilter{Account: testutil.User1, RaffleType: entity.RaffleERC20})
	require.NoError(t, err)
	require.Empty(t, tickets)

	ok, err := repo.HasTicket(ctx, 1, testutil.User2)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = repo.HasTicket(ctx, 2, testutil.User2)
	require.NoError(t, err)
	require.False(t, ok)

	count, err := repo.CountByAccount(ctx, testutil.User1)
	require.NoError(t, err)
	require.Equal(t, int64(2), count)
}
