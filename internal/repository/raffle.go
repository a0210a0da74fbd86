package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/rafflefi/backend/internal/entity"
	"github.com/rafflefi/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type GetListRaffleFilter struct {
	Owner      string
	Type       entity.RaffleType
	State      entity.RaffleState
	MerkleRoot string
}

type RaffleRepository interface {
	Create(ctx context.Context, e *entity.Raffle) error
	GetByID(ctx context.Context, raffleID uint64) (*entity.Raffle, error)
	GetList(ctx context.Context, filter GetListRaffleFilter) ([]entity.Raffle, error)
	GetExpired(ctx context.Context, now time.Time) ([]entity.Raffle, error)
	CountByOwner(ctx context.Context, owner string) (int64, error)
	IncreaseTicketsSold(ctx context.Context, raffleID uint64, now time.Time) error
	Finish(ctx context.Context, raffleID uint64, winner sql.NullString) error
}

type raffleRepository struct{}

func NewRaffleRepository() *raffleRepository {
	return &raffleRepository{}
}

func (r *raffleRepository) Create(ctx context.Context, e *entity.Raffle) error {
	return xcontext.DB(ctx).Create(e).Error
}

func (r *raffleRepository) GetByID(ctx context.Context, raffleID uint64) (*entity.Raffle, error) {
	var result entity.Raffle
	if err := xcontext.DB(ctx).Take(&result, "raffle_id=?", raffleID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *raffleRepository) GetList(ctx context.Context, filter GetListRaffleFilter) ([]entity.Raffle, error) {
	var result []entity.Raffle
	tx := xcontext.DB(ctx).Model(&entity.Raffle{})
	if filter.Owner != "" {
		tx = tx.Where("owner=?", filter.Owner)
	}

	if filter.Type != "" {
		tx = tx.Where("type=?", filter.Type)
	}

	if filter.State != "" {
		tx = tx.Where("state=?", filter.State)
	}

	if filter.MerkleRoot != "" {
		tx = tx.Where("merkle_root=?", filter.MerkleRoot)
	}

	if err := tx.Order("raffle_id ASC").Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *raffleRepository) GetExpired(ctx context.Context, now time.Time) ([]entity.Raffle, error) {
	var result []entity.Raffle
	err := xcontext.DB(ctx).
		Where("state=? AND end_timestamp<=?", entity.RaffleInProgress, now).
		Order("end_timestamp ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *raffleRepository) CountByOwner(ctx context.Context, owner string) (int64, error) {
	var count int64
	if err := xcontext.DB(ctx).Model(&entity.Raffle{}).Where("owner=?", owner).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

// IncreaseTicketsSold reserves one ticket of an open raffle. It returns
// gorm.ErrRecordNotFound if the raffle is missing, not in progress, ended or
// sold out.
func (r *raffleRepository) IncreaseTicketsSold(ctx context.Context, raffleID uint64, now time.Time) error {
	tx := xcontext.DB(ctx).Model(&entity.Raffle{}).
		Where("raffle_id=? AND state=? AND tickets_sold<number_of_tickets AND end_timestamp>?",
			raffleID, entity.RaffleInProgress, now).
		Update("tickets_sold", gorm.Expr("tickets_sold+?", 1))
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// Finish moves an in-progress raffle to the finished state. It returns
// gorm.ErrRecordNotFound if the raffle is not in progress anymore.
func (r *raffleRepository) Finish(ctx context.Context, raffleID uint64, winner sql.NullString) error {
	tx := xcontext.DB(ctx).Model(&entity.Raffle{}).
		Where("raffle_id=? AND state=?", raffleID, entity.RaffleInProgress).
		Updates(map[string]any{
			"state":  entity.RaffleFinished,
			"winner": winner,
		})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
