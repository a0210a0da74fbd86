package repository

import (
	"database/sql"
	"testing"
	"time"

	"github.com/rafflefi/backend/internal/entity"
	"github.com/rafflefi/backend/pkg/testutil"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func Test_raffleRepository_IncreaseTicketsSold(t *testing.T) {
	ctx := testutil.NewMockContext()
	now := time.Now().UTC()
	testutil.InsertRaffle(ctx, 1, 2, now.Add(time.Hour))
	testutil.InsertRaffle(ctx, 2, 2, now.Add(-time.Hour))

	repo := NewRaffleRepository()

	require.NoError(t, repo.IncreaseTicketsSold(ctx, 1, now))
	require.NoError(t, repo.IncreaseTicketsSold(ctx, 1, now))
	require.ErrorIs(t, repo.IncreaseTicketsSold(ctx, 1, now), gorm.ErrRecordNotFound)

	raffle, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, uint64(2), raffle.TicketsSold)

	// Ended raffle.
	require.ErrorIs(t, repo.IncreaseTicketsSold(ctx, 2, now), gorm.ErrRecordNotFound)

	// Missing raffle.
	require.ErrorIs(t, repo.IncreaseTicketsSold(ctx, 3, now), gorm.ErrRecordNotFound)
}

func Test_raffleRepository_Finish(t *testing.T) {
	ctx := testutil.NewMockContext()
	testutil.InsertRaffle(ctx, 1, 2, time.Now().Add(-time.Hour))

	repo := NewRaffleRepository()
	winner := sql.NullString{String: testutil.User1, Valid: true}
	require.NoError(t, repo.Finish(ctx, 1, winner))
	require.ErrorIs(t, repo.Finish(ctx, 1, sql.NullString{String: testutil.User2, Valid: true}),
		gorm.ErrRecordNotFound)

	raffle, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, entity.RaffleFinished, raffle.State)
	require.Equal(t, winner, raffle.Winner)

	// Finished raffles do not sell tickets anymore.
	require.ErrorIs(t, repo.IncreaseTicketsSold(ctx, 1, time.Now().Add(-2*time.Hour)), gorm.ErrRecordNotFound)
}

func Test_raffleRepository_GetExpired(t *testing.T) {
	ctx := testutil.NewMockContext()
	now := time.Now().UTC()
	testutil.InsertRaffle(ctx, 1, 2, now.Add(-2*time.Hour))
	testutil.InsertRaffle(ctx, 2, 2, now.Add(time.Hour))
	testutil.InsertRaffle(ctx, 3, 2, now.Add(-time.Hour))

	repo := NewRaffleRepository()
	require.NoError(t, repo.Finish(ctx, 3, sql.NullString{}))

	raffles, err := repo.GetExpired(ctx, now)
	require.NoError(t, err)
	require.Len(t, raffles, 1)
	require.Equal(t, uint64(1), raffles[0].RaffleID)
}

func Test_raffleRepository_GetList(t *testing.T) {
	ctx := testutil.NewMockContext()
	end := time.Now().Add(time.Hour)
	testutil.InsertRaffle(ctx, 1, 2, end)
	testutil.InsertRaffle(ctx, 2, 2, end)

	repo := NewRaffleRepository()
	require.NoError(t, repo.Finish(ctx, 2, sql.NullString{}))

	raffles, err := repo.GetList(ctx, GetListRaffleFilter{State: entity.RaffleInProgress})
	require.NoError(t, err)
	require.Len(t, raffles, 1)
	require.Equal(t, uint64(1), raffles[0].RaffleID)

	raffles, err = repo.GetList(ctx, GetListRaffleFilter{Owner: testutil.Owner1, MerkleRoot: testutil.MerkleRoot1})
	require.NoError(t, err)
	require.Len(t, raffles, 2)

	raffles, err = repo.GetList(ctx, GetListRaffleFilter{Type: entity.RaffleERC20})
	require.NoError(t, err)
	require.Empty(t, raffles)

	count, err := repo.CountByOwner(ctx, testutil.Owner1)
	require.NoError(t, err)
	require.Equal(t, int64(2), count)
}
