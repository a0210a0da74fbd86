package repository

import (
	"context"
	"database/sql"

	"github.com/rafflefi/backend/internal/entity"
	"github.com/rafflefi/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type GetListOpenOrderFilter struct {
	RaffleID    uint64
	RaffleType  entity.RaffleType
	RaffleState entity.RaffleState
}

type OrderRepository interface {
	Create(ctx context.Context, e *entity.Order) error
	GetByID(ctx context.Context, orderID uint64) (*entity.Order, error)
	GetOpenByTicket(ctx context.Context, raffleID, ticketID uint64) (*entity.Order, error)
	GetOpenList(ctx context.Context, filter GetListOpenOrderFilter) ([]entity.Order, error)
	CountSoldBySeller(ctx context.Context, seller string) (int64, error)
	MarkBought(ctx context.Context, orderID uint64, buyer string) error
	DeleteOpen(ctx context.Context, orderID uint64, seller string) error
}

type orderRepository struct{}

func NewOrderRepository() *orderRepository {
	return &orderRepository{}
}

// Create inserts an open order. A second open order of the same ticket is
// rejected by the unique index on open_key with gorm.ErrDuplicatedKey.
func (r *orderRepository) Create(ctx context.Context, e *entity.Order) error {
	e.Bought = false
	e.BoughtBy = sql.NullString{}
	e.OpenKey = sql.NullString{String: entity.OrderOpenKey(e.RaffleID, e.TicketID), Valid: true}
	return xcontext.DB(ctx).Omit("Raffle").Create(e).Error
}

func (r *orderRepository) GetByID(ctx context.Context, orderID uint64) (*entity.Order, error) {
	var result entity.Order
	if err := xcontext.DB(ctx).Preload("Raffle").Take(&result, "order_id=?", orderID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *orderRepository) GetOpenByTicket(ctx context.Context, raffleID, ticketID uint64) (*entity.Order, error) {
	var result entity.Order
	err := xcontext.DB(ctx).Preload("Raffle").
		Take(&result, "raffle_id=? AND ticket_id=? AND bought=?", raffleID, ticketID, false).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *orderRepository) GetOpenList(ctx context.Context, filter GetListOpenOrderFilter) ([]entity.Order, error) {
	var result []entity.Order
	tx := xcontext.DB(ctx).Model(&entity.Order{}).Preload("Raffle").Where("bought=?", false)
	if filter.RaffleID != 0 {
		tx = tx.Where("raffle_id=?", filter.RaffleID)
	}

	if filter.RaffleType != "" || filter.RaffleState != "" {
		raffles := xcontext.DB(ctx).Model(&entity.Raffle{}).Select("raffle_id")
		if filter.RaffleType != "" {
			raffles = raffles.Where("type=?", filter.RaffleType)
		}

		if filter.RaffleState != "" {
			raffles = raffles.Where("state=?", filter.RaffleState)
		}

		tx = tx.Where("raffle_id IN (?)", raffles)
	}

	if err := tx.Order("order_id ASC").Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *orderRepository) CountSoldBySeller(ctx context.Context, seller string) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.Order{}).
		Where("seller=? AND bought=?", seller, true).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// MarkBought closes an open order. It returns gorm.ErrRecordNotFound if the
// order does not exist or has been bought already.
func (r *orderRepository) MarkBought(ctx context.Context, orderID uint64, buyer string) error {
	tx := xcontext.DB(ctx).Model(&entity.Order{}).
		Where("order_id=? AND bought=?", orderID, false).
		Updates(map[string]any{
			"bought":    true,
			"bought_by": sql.NullString{String: buyer, Valid: true},
			"open_key":  sql.NullString{},
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// DeleteOpen removes an open order of seller. Bought orders are never removed.
func (r *orderRepository) DeleteOpen(ctx context.Context, orderID uint64, seller string) error {
	tx := xcontext.DB(ctx).
		Where("order_id=? AND seller=? AND bought=?", orderID, seller, false).
		Delete(&entity.Order{})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
