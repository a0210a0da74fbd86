package domain

import (
	"context"
	"strings"

	"github.com/rafflefi/backend/internal/entity"
	"github.com/rafflefi/backend/internal/model"
	"github.com/rafflefi/backend/pkg/enum"
	"github.com/rafflefi/backend/pkg/errorx"
	"github.com/rafflefi/backend/pkg/ethutil"
	"github.com/rafflefi/backend/pkg/xcontext"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

var errUnavailable = errorx.New(errorx.Unavailable, "Service is temporarily unavailable")

// unavailable logs an unexpected store error and hides it from the caller.
func unavailable(ctx context.Context, action string, err error) error {
	xcontext.Logger(ctx).Errorf("Cannot %s: %v", action, err)
	return errUnavailable
}

func normalizeAddress(s, field string) (string, error) {
	if !ethutil.IsAddress(s) {
		return "", errorx.New(errorx.BadRequest, "Invalid %s address", field)
	}

	return ethutil.NormalizeAddress(s), nil
}

// parseBaseUnits parses a non-negative whole amount of base units, the only
// shape the DECIMAL(65,0) columns store without rounding.
func parseBaseUnits(s, field string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() || !d.IsInteger() {
		return decimal.Decimal{}, errorx.New(errorx.BadRequest, "Invalid %s, expect a whole number of base units", field)
	}

	return d, nil
}

// parseRaffleType accepts an empty string as "any type" if optional is set.
func parseRaffleType(s string, optional bool) (entity.RaffleType, error) {
	if s == "" && optional {
		return "", nil
	}

	t, err := enum.ToEnumFold[entity.RaffleType](s)
	if err != nil {
		return "", errorx.New(errorx.BadRequest, "Invalid raffle type %q", s)
	}

	return t, nil
}

func parseLotteryKind(s string) (entity.LotteryKind, error) {
	kind, err := enum.ToEnumFold[entity.LotteryKind](s)
	if err != nil {
		return "", errorx.New(errorx.BadRequest, "Invalid lottery kind %q", s)
	}

	return kind, nil
}

// groupByAsset groups items by asset contract address. Groups are ordered by
// contract name then address, items keep their order.
func groupByAsset[T any](items []T, raffleOf func(T) *model.Raffle) []model.AssetGroup[T] {
	index := map[string]int{}
	groups := []model.AssetGroup[T]{}
	for _, item := range items {
		raffle := raffleOf(item)
		if raffle == nil {
			continue
		}

		i, ok := index[raffle.AssetContract]
		if !ok {
			i = len(groups)
			index[raffle.AssetContract] = i
			groups = append(groups, model.AssetGroup[T]{
				AssetContract:     raffle.AssetContract,
				AssetContractName: raffle.AssetContractName,
				Items:             []T{},
			})
		}

		groups[i].Items = append(groups[i].Items, item)
	}

	slices.SortFunc(groups, func(a, b model.AssetGroup[T]) int {
		if c := strings.Compare(a.AssetContractName, b.AssetContractName); c != 0 {
			return c
		}

		return strings.Compare(a.AssetContract, b.AssetContract)
	})

	return groups
}
