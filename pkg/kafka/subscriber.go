package kafka

import (
	"context"
	"time"

	"github.com/rafflefi/backend/pkg/pubsub"
	"github.com/rafflefi/backend/pkg/xcontext"

	"github.com/Shopify/sarama"
)

const (
	minRetryBackoff = 500 * time.Millisecond
	maxRetryBackoff = 30 * time.Second
)

type subscriber struct {
	groupID     string
	brokerAddrs []string
	topics      []string
	client      sarama.ConsumerGroup
	handler     pubsub.SubscribeHandler
}

func NewSubscriber(
	groupID string,
	brokerAddrs []string,
	topics []string,
	handler pubsub.SubscribeHandler,
) (*subscriber, error) {
	config := sarama.NewConfig()
	config.Consumer.Group.Rebalance.Strategy = sarama.BalanceStrategyRoundRobin
	config.Consumer.Offsets.Initial = sarama.OffsetOldest

	client, err := sarama.NewConsumerGroup(brokerAddrs, groupID, config)
	if err != nil {
		return nil, err
	}

	return &subscriber{
		groupID:     groupID,
		brokerAddrs: brokerAddrs,
		topics:      topics,
		client:      client,
		handler:     handler,
	}, nil
}

func (g *subscriber) Stop(ctx context.Context) error {
	return g.client.Close()
}

// Subscribe consumes the topics until ctx is cancelled. Consume returns on
// every server-side rebalance, so it is called again in a loop.
func (g *subscriber) Subscribe(ctx context.Context) {
	consumer := consumerGroupHandler{
		ctx:        ctx,
		fn:         g.handler,
		minBackoff: minRetryBackoff,
		maxBackoff: maxRetryBackoff,
	}
	for {
		if err := g.client.Consume(ctx, g.topics, &consumer); err != nil {
			xcontext.Logger(ctx).Errorf("Error from consumer: %v", err)
			time.Sleep(time.Second)
		}

		if ctx.Err() != nil {
			return
		}
	}
}

type consumerGroupHandler struct {
	// ctx carries the process values (database, logger, configs) which the
	// session context of sarama does not have.
	ctx context.Context
	fn  pubsub.SubscribeHandler

	minBackoff time.Duration
	maxBackoff time.Duration
}

func (h *consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *consumerGroupHandler) Cleanup(session sarama.ConsumerGroupSession) error {
	return nil
}

// ConsumeClaim handles a message before marking it, so a crash replays the
// message instead of losing it. A failed message is retried with backoff and
// blocks the rest of its partition until it succeeds.
func (h *consumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		pack := &pubsub.Pack{
			Key: message.Key,
			Msg: message.Value,
		}

		if !h.handle(session.Context().Done(), pack, message.Timestamp) {
			// The claim is revoked, the next owner starts from this message.
			return nil
		}

		session.MarkMessage(message, "")
	}
	return nil
}

// handle calls fn until it succeeds. It returns false if done is closed or the
// process context ends before that.
func (h *consumerGroupHandler) handle(done <-chan struct{}, pack *pubsub.Pack, t time.Time) bool {
	backoff := h.minBackoff
	for {
		err := h.fn(h.ctx, pack, t)
		if err == nil {
			return true
		}

		xcontext.Logger(h.ctx).Warnf("Retry message %s in %s: %v", pack.Key, backoff, err)

		timer := time.NewTimer(backoff)
		select {
		case <-done:
			timer.Stop()
			return false
		case <-h.ctx.Done():
			timer.Stop()
			return false
		case <-timer.C:
		}

		backoff = min(backoff*2, h.maxBackoff)
	}
}
