package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rafflefi/backend/pkg/logger"
	"github.com/rafflefi/backend/pkg/pubsub"
	"github.com/rafflefi/backend/pkg/xcontext"

	"github.com/stretchr/testify/require"
)

var errStoreDown = errors.New("store is down")

func newTestConsumer(ctx context.Context, backoff time.Duration, fn pubsub.SubscribeHandler) *consumerGroupHandler {
	return &consumerGroupHandler{
		ctx:        xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE)),
		fn:         fn,
		minBackoff: backoff,
		maxBackoff: 4 * backoff,
	}
}

func Test_consumerGroupHandler_RetryUntilApplied(t *testing.T) {
	calls := 0
	h := newTestConsumer(context.Background(), time.Millisecond, func(context.Context, *pubsub.Pack, time.Time) error {
		calls++
		if calls < 4 {
			return errStoreDown
		}

		return nil
	})

	require.True(t, h.handle(nil, &pubsub.Pack{Key: []byte("issue_ticket")}, time.Now()))
	require.Equal(t, 4, calls)
}

func Test_consumerGroupHandler_ClaimRevoked(t *testing.T) {
	done := make(chan struct{})
	calls := 0
	h := newTestConsumer(context.Background(), time.Hour, func(context.Context, *pubsub.Pack, time.Time) error {
		calls++
		close(done)
		return errStoreDown
	})

	require.False(t, h.handle(done, &pubsub.Pack{Key: []byte("settle_order")}, time.Now()))
	require.Equal(t, 1, calls)
}

func Test_consumerGroupHandler_ProcessStopped(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	h := newTestConsumer(ctx, time.Hour, func(context.Context, *pubsub.Pack, time.Time) error {
		calls++
		cancel()
		return errStoreDown
	})

	require.False(t, h.handle(nil, &pubsub.Pack{Key: []byte("settle_order")}, time.Now()))
	require.Equal(t, 1, calls)
}

func Test_consumerGroupHandler_AppliedOnce(t *testing.T) {
	calls := 0
	h := newTestConsumer(context.Background(), time.Hour, func(context.Context, *pubsub.Pack, time.Time) error {
		calls++
		return nil
	})

	require.True(t, h.handle(nil, &pubsub.Pack{Key: []byte("open_round")}, time.Now()))
	require.Equal(t, 1, calls)
}
