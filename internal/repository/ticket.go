package repository

import (
	"context"

	"github.com/rafflefi/backend/internal/entity"
	"github.com/rafflefi/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type GetListTicketFilter struct {
	RaffleID   uint64
	Account    string
	RaffleType entity.RaffleType
}

type TicketRepository interface {
	Create(ctx context.Context, e *entity.Ticket) error
	Get(ctx context.Context, raffleID, ticketID uint64) (*entity.Ticket, error)
	GetOwned(ctx context.Context, raffleID, ticketID uint64, account string) (*entity.Ticket, error)
	GetList(ctx context.Context, filter GetListTicketFilter) ([]entity.Ticket, error)
	HasTicket(ctx context.Context, raffleID uint64, account string) (bool, error)
	CountByAccount(ctx context.Context, account string) (int64, error)
	Transfer(ctx context.Context, raffleID, ticketID uint64, from, to string) error
}

type ticketRepository struct{}

func NewTicketRepository() *ticketRepository {
	return &ticketRepository{}
}

func (r *ticketRepository) Create(ctx context.Context, e *entity.Ticket) error {
	return xcontext.DB(ctx).Omit("Raffle").Create(e).Error
}

func (r *ticketRepository) Get(ctx context.Context, raffleID, ticketID uint64) (*entity.Ticket, error) {
	var result entity.Ticket
	err := xcontext.DB(ctx).Take(&result, "raffle_id=? AND ticket_id=?", raffleID, ticketID).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// GetOwned returns the ticket together with its raffle if it is owned by
// account.
func (r *ticketRepository) GetOwned(
	ctx context.Context, raffleID, ticketID uint64, account string,
) (*entity.Ticket, error) {
	var result entity.Ticket
	err := xcontext.DB(ctx).Preload("Raffle").
		Take(&result, "raffle_id=? AND ticket_id=? AND account=?", raffleID, ticketID, account).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// GetList returns tickets with their raffles preloaded.
func (r *ticketRepository) GetList(ctx context.Context, filter GetListTicketFilter) ([]entity.Ticket, error) {
	var result []entity.Ticket
	tx := xcontext.DB(ctx).Model(&entity.Ticket{}).Preload("Raffle")
	if filter.RaffleID != 0 {
		tx = tx.Where("raffle_id=?", filter.RaffleID)
	}

	if filter.Account != "" {
		tx = tx.Where("account=?", filter.Account)
	}

	if filter.RaffleType != "" {
		tx = tx.Where("raffle_id IN (?)", xcontext.DB(ctx).Model(&entity.Raffle{}).
			Select("raffle_id").Where("type=?", filter.RaffleType))
	}

	if err := tx.Order("raffle_id ASC, ticket_id ASC").Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *ticketRepository) HasTicket(ctx context.Context, raffleID uint64, account string) (bool, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.Ticket{}).
		Where("raffle_id=? AND account=?", raffleID, account).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *ticketRepository) CountByAccount(ctx context.Context, account string) (int64, error) {
	var count int64
	if err := xcontext.DB(ctx).Model(&entity.Ticket{}).Where("account=?", account).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

// Transfer moves the ticket to a new owner only if it is still owned by from.
// It returns gorm.ErrRecordNotFound otherwise.
func (r *ticketRepository) Transfer(ctx context.Context, raffleID, ticketID uint64, from, to string) error {
	tx := xcontext.DB(ctx).Model(&entity.Ticket{}).
		Where("raffle_id=? AND ticket_id=? AND account=?", raffleID, ticketID, from).
		Update("account", to)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
