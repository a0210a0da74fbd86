package migration

import (
	"context"
	"database/sql"

	"github.com/rafflefi/backend/internal/entity"
	"github.com/rafflefi/backend/pkg/xcontext"
)

// migrate0001 fills the open key of open orders imported without it, so the
// unique index covers them.
func migrate0001(ctx context.Context) error {
	var orders []entity.Order
	err := xcontext.DB(ctx).
		Where("bought=? AND open_key IS NULL", false).
		Order("order_id ASC").
		Find(&orders).Error
	if err != nil {
		return err
	}

	for _, o := range orders {
		key := sql.NullString{String: entity.OrderOpenKey(o.RaffleID, o.TicketID), Valid: true}
		err := xcontext.DB(ctx).Model(&entity.Order{}).
			Where("order_id=?", o.OrderID).
			Update("open_key", key).Error
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot fill open key of order %d: %v", o.OrderID, err)
			return err
		}
	}

	return nil
}
