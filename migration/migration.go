package migration

import (
	"context"
	"errors"

	"github.com/rafflefi/backend/internal/entity"
	"github.com/rafflefi/backend/pkg/xcontext"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

var Migrators = map[string]func(context.Context) error{
	"0000": migrate0000,
	"0001": migrate0001,
}

func entities() []any {
	return []any{
		&entity.Raffle{},
		&entity.Ticket{},
		&entity.Order{},
		&entity.Currency{},
		&entity.WeeklyLotteryRound{},
		&entity.WeeklyLotteryTicket{},
		&entity.WeeklyLotteryCurrency{},
		&entity.WeeklyLotteryToken{},
		&entity.MonthlyLotteryErc721{},
		&entity.MonthlyLotteryTicketsErc721{},
		&entity.MonthlyLotteryErc721Share{},
		&entity.MonthlyLotteryErc721Asset{},
		&entity.Migration{},
	}
}

// When this migrator is called, no need to call other migrators.
func AutoMigrate(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(entities()...)
}

// Migrate applies every migrator which has not been recorded yet, in version
// order.
func Migrate(ctx context.Context) error {
	if err := xcontext.DB(ctx).AutoMigrate(&entity.Migration{}); err != nil {
		return err
	}

	versions := maps.Keys(Migrators)
	slices.Sort(versions)

	for _, v := range versions {
		err := xcontext.DB(ctx).Take(&entity.Migration{}, "version=?", v).Error
		if err == nil {
			continue
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		xcontext.Logger(ctx).Infof("Apply migration %s", v)
		if err := Migrators[v](ctx); err != nil {
			return err
		}

		if err := xcontext.DB(ctx).Create(&entity.Migration{Version: v}).Error; err != nil {
			return err
		}
	}

	return nil
}
