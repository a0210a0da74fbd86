package cron

import (
	"context"
	"strconv"
	"time"

	"github.com/rafflefi/backend/internal/common"
	"github.com/rafflefi/backend/internal/domain/event"
	"github.com/rafflefi/backend/internal/model"
	"github.com/rafflefi/backend/internal/repository"
	"github.com/rafflefi/backend/pkg/xcontext"
)

// ExpiredRaffleCronJob announces raffles which passed their end time but are
// still in progress. The announcement repeats every interval until the raffle
// is settled.
type ExpiredRaffleCronJob struct {
	raffleRepo     repository.RaffleRepository
	eventPublisher *common.EventPublisher
	interval       time.Duration
}

func NewExpiredRaffleCronJob(
	raffleRepo repository.RaffleRepository,
	eventPublisher *common.EventPublisher,
	interval time.Duration,
) *ExpiredRaffleCronJob {
	return &ExpiredRaffleCronJob{
		raffleRepo:     raffleRepo,
		eventPublisher: eventPublisher,
		interval:       interval,
	}
}

func (job *ExpiredRaffleCronJob) Do(ctx context.Context) {
	raffles, err := job.raffleRepo.GetExpired(ctx, time.Now().UTC())
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get expired raffles: %v", err)
		return
	}

	for _, r := range raffles {
		job.eventPublisher.Publish(ctx, model.RaffleTopic, strconv.FormatUint(r.RaffleID, 10),
			&event.RaffleExpiredEvent{
				RaffleID:     r.RaffleID,
				TicketsSold:  r.TicketsSold,
				EndTimestamp: r.EndTimestamp.UTC().Format(model.DefaultTimeLayout),
			})
	}

	if len(raffles) > 0 {
		xcontext.Logger(ctx).Infof("Announced %d expired raffles", len(raffles))
	}
}

func (job *ExpiredRaffleCronJob) RunNow() bool {
	return true
}

func (job *ExpiredRaffleCronJob) Next() time.Time {
	return time.Now().Add(job.interval)
}
