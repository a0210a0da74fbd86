package common

import (
	"context"
	"errors"
	"time"

	"github.com/rafflefi/backend/internal/entity"
	"github.com/rafflefi/backend/pkg/xcontext"
	"github.com/rafflefi/backend/pkg/xredis"
)

const (
	RaffleStatusActive   = "active"
	RaffleStatusFinished = "finished"
)

// ListingCache keeps grouped listings in redis for a short time. A nil client
// or a zero ttl disables it. Redis errors never fail the caller.
type ListingCache struct {
	client xredis.Client
	ttl    time.Duration
}

func NewListingCache(client xredis.Client, ttl time.Duration) *ListingCache {
	return &ListingCache{client: client, ttl: ttl}
}

func (c *ListingCache) enabled() bool {
	return c != nil && c.client != nil && c.ttl > 0
}

// Get loads the cached value of key into v and reports whether it was found.
func (c *ListingCache) Get(ctx context.Context, key string, v any) bool {
	if !c.enabled() {
		return false
	}

	if err := c.client.GetObj(ctx, key, v); err != nil {
		if !errors.Is(err, xredis.ErrNotFound) {
			xcontext.Logger(ctx).Warnf("Cannot get listing cache %s: %v", key, err)
		}
		return false
	}

	return true
}

func (c *ListingCache) Set(ctx context.Context, key string, v any) {
	if !c.enabled() {
		return
	}

	if err := c.client.SetObj(ctx, key, v, c.ttl); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot set listing cache %s: %v", key, err)
	}
}

// InvalidateRaffles drops every cached raffle and open order listing.
func (c *ListingCache) InvalidateRaffles(ctx context.Context) {
	if !c.enabled() {
		return
	}

	keys := []string{RedisKeyOpenOrders("")}
	for _, t := range []entity.RaffleType{entity.RaffleERC20, entity.RaffleERC721} {
		keys = append(keys,
			RedisKeyRafflesByStatus(string(t), RaffleStatusActive),
			RedisKeyRafflesByStatus(string(t), RaffleStatusFinished),
			RedisKeyOpenOrders(string(t)),
		)
	}

	if err := c.client.Del(ctx, keys...); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot invalidate listing cache: %v", err)
	}
}

// InvalidateOrders drops every cached open order listing.
func (c *ListingCache) InvalidateOrders(ctx context.Context) {
	if !c.enabled() {
		return
	}

	keys := []string{
		RedisKeyOpenOrders(""),
		RedisKeyOpenOrders(string(entity.RaffleERC20)),
		RedisKeyOpenOrders(string(entity.RaffleERC721)),
	}
	if err := c.client.Del(ctx, keys...); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot invalidate listing cache: %v", err)
	}
}
