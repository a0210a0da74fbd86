package cron

import (
	"context"
	"database/sql"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rafflefi/backend/internal/common"
	"github.com/rafflefi/backend/internal/model"
	"github.com/rafflefi/backend/internal/repository"
	"github.com/rafflefi/backend/pkg/testutil"

	"github.com/stretchr/testify/require"
)

type countingJob struct {
	runNow bool
	count  atomic.Int32
}

func (job *countingJob) Do(context.Context) { job.count.Add(1) }
func (job *countingJob) RunNow() bool        { return job.runNow }
func (job *countingJob) Next() time.Time     { return time.Now().Add(5 * time.Millisecond) }

func Test_CronJobManager(t *testing.T) {
	ctx, cancel := context.WithTimeout(testutil.NewMockContext(), 100*time.Millisecond)
	defer cancel()

	now := &countingJob{runNow: true}
	later := &countingJob{}

	NewCronJobManager().Start(ctx, now, later)

	require.GreaterOrEqual(t, now.count.Load(), int32(2))
	require.GreaterOrEqual(t, later.count.Load(), int32(1))

	// Nothing runs after the manager stopped.
	stopped := now.count.Load()
	time.Sleep(30 * time.Millisecond)
	require.Equal(t, stopped, now.count.Load())
}

func Test_ExpiredRaffleCronJob(t *testing.T) {
	ctx := testutil.NewMockContext()
	publisher := &testutil.MockPublisher{}
	job := NewExpiredRaffleCronJob(
		repository.NewRaffleRepository(),
		common.NewEventPublisher(publisher),
		time.Minute,
	)

	testutil.InsertRaffle(ctx, 1, 2, time.Now().Add(-time.Hour))
	testutil.InsertRaffle(ctx, 2, 2, time.Now().Add(time.Hour))
	testutil.InsertRaffle(ctx, 3, 2, time.Now().Add(-2*time.Hour))
	require.NoError(t, repository.NewRaffleRepository().Finish(ctx, 3, sql.NullString{}))

	require.True(t, job.RunNow())
	require.WithinDuration(t, time.Now().Add(time.Minute), job.Next(), time.Second)

	job.Do(ctx)
	require.Equal(t, []string{"raffle_expired"}, publisher.Ops(model.RaffleTopic))

	// Expired raffles are announced again until settled.
	job.Do(ctx)
	require.Len(t, publisher.Ops(model.RaffleTopic), 2)
}
