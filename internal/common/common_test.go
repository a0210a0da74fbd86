package common

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rafflefi/backend/internal/domain/event"
	"github.com/rafflefi/backend/pkg/pubsub"
	"github.com/rafflefi/backend/pkg/testutil"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func signPersonal(t *testing.T, message []byte) (string, string) {
	key, err := ethcrypto.GenerateKey()
	require.NoError(t, err)

	sig, err := ethcrypto.Sign(accounts.TextHash(message), key)
	require.NoError(t, err)

	// Wallets return the yellow paper V.
	sig[ethcrypto.RecoveryIDOffset] += 27

	return ethcrypto.PubkeyToAddress(key.PublicKey).Hex(), hexutil.Encode(sig)
}

func Test_ListingMessage(t *testing.T) {
	msg := ListingMessage(1, 7, 3, decimal.RequireFromString("1.50"), testutil.Currency1, testutil.User1)

	require.Equal(t,
		"RaffleFi listing\nchain: 1\nraffle: 7\nticket: 3\nprice: 1.5\n"+
			"currency: "+strings.ToLower(testutil.Currency1)+"\n"+
			"seller: "+strings.ToLower(testutil.User1),
		string(msg))

	// Address spelling does not change the message.
	require.Equal(t, msg, ListingMessage(1, 7, 3, decimal.RequireFromString("1.5"),
		strings.ToLower(testutil.Currency1), "0x"+strings.ToUpper(testutil.User1[2:])))

	require.NotEqual(t, msg, ListingMessage(5, 7, 3, decimal.RequireFromString("1.5"),
		testutil.Currency1, testutil.User1))
}

func Test_ethSignatureVerifier(t *testing.T) {
	ctx := testutil.NewMockContext()
	verifier := NewEthSignatureVerifier()

	message := ListingMessage(1, 1, 0, decimal.NewFromInt(10), testutil.Currency1, testutil.User1)
	signer, signature := signPersonal(t, message)

	ok, err := verifier.Verify(ctx, signer, message, signature)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = verifier.Verify(ctx, strings.ToLower(signer), message, signature)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = verifier.Verify(ctx, testutil.User2, message, signature)
	require.NoError(t, err)
	require.False(t, ok)

	other := ListingMessage(1, 1, 0, decimal.NewFromInt(11), testutil.Currency1, testutil.User1)
	ok, err = verifier.Verify(ctx, signer, other, signature)
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = verifier.Verify(ctx, signer, message, "0x1234")
	require.NoError(t, err)
	require.False(t, ok)

	ok, err = verifier.Verify(ctx, signer, message, "not-hex")
	require.NoError(t, err)
	require.False(t, ok)
}

func Test_ListingCache(t *testing.T) {
	ctx := testutil.NewMockContext()
	client := testutil.NewMockRedisClient()
	cache := NewListingCache(client, time.Minute)

	key := RedisKeyRafflesByStatus("ERC721", RaffleStatusActive)

	var got []string
	require.False(t, cache.Get(ctx, key, &got))

	cache.Set(ctx, key, []string{"a", "b"})
	require.True(t, cache.Get(ctx, key, &got))
	require.Equal(t, []string{"a", "b"}, got)

	cache.Set(ctx, RedisKeyOpenOrders(""), []string{"order"})
	cache.InvalidateOrders(ctx)
	require.False(t, cache.Get(ctx, RedisKeyOpenOrders(""), &got))
	require.True(t, cache.Get(ctx, key, &got))

	cache.InvalidateRaffles(ctx)
	require.False(t, cache.Get(ctx, key, &got))

	// Disabled caches never hit.
	for _, disabled := range []*ListingCache{nil, NewListingCache(nil, time.Minute), NewListingCache(client, 0)} {
		disabled.Set(ctx, key, []string{"c"})
		require.False(t, disabled.Get(ctx, key, &got))
		disabled.InvalidateRaffles(ctx)
	}
}

func Test_RedisKey(t *testing.T) {
	require.Equal(t, "raffles:ERC20:finished", RedisKeyRafflesByStatus("ERC20", RaffleStatusFinished))
	require.Equal(t, "openorders:all", RedisKeyOpenOrders(""))
	require.Equal(t, "openorders:ERC721", RedisKeyOpenOrders("ERC721"))
}

func Test_EventPublisher(t *testing.T) {
	ctx := testutil.NewMockContext()

	var published *pubsub.Pack
	publisher := &testutil.MockPublisher{
		PublishFunc: func(_ context.Context, _ string, pack *pubsub.Pack) error {
			published = pack
			return nil
		},
	}

	NewEventPublisher(publisher).Publish(ctx, "raffle", "1", &event.RaffleSettledEvent{
		RaffleID: 1,
		Winner:   testutil.User1,
	})

	require.Equal(t, []string{"raffle_settled"}, publisher.Ops("raffle"))
	require.Equal(t, []byte("1"), published.Key)

	var req event.RawEventRequest
	require.NoError(t, json.Unmarshal(published.Msg, &req))
	require.NotEmpty(t, req.ID)
	require.False(t, req.Time.IsZero())

	var data event.RaffleSettledEvent
	require.NoError(t, json.Unmarshal(req.Data, &data))
	require.Equal(t, uint64(1), data.RaffleID)
	require.Equal(t, testutil.User1, data.Winner)

	// Broker failures never reach the caller.
	failing := &testutil.MockPublisher{
		PublishFunc: func(context.Context, string, *pubsub.Pack) error { return errors.New("broker down") },
	}
	NewEventPublisher(failing).Publish(ctx, "raffle", "1", &event.RaffleSettledEvent{RaffleID: 1})
	require.Len(t, failing.Ops("raffle"), 1)

	var nilPublisher *EventPublisher
	nilPublisher.Publish(ctx, "raffle", "1", &event.RaffleSettledEvent{RaffleID: 1})
	NewEventPublisher(nil).Publish(ctx, "raffle", "1", &event.RaffleSettledEvent{RaffleID: 1})
}
