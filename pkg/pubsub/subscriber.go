package pubsub

import (
	"context"
	"time"
)

// SubscribeHandler handles a message. A non-nil error asks the subscriber to
// deliver the same message again later.
type SubscribeHandler func(context.Context, *Pack, time.Time) error

type Subscriber interface {
	Subscribe(context.Context)
	Stop(ctx context.Context) error
}
