package repository

import (
	"context"

	"github.com/rafflefi/backend/internal/entity"
	"github.com/rafflefi/backend/pkg/xcontext"
)

type CurrencyRepository interface {
	Create(ctx context.Context, e *entity.Currency) error
	GetByAddress(ctx context.Context, address string) (*entity.Currency, error)
	GetList(ctx context.Context) ([]entity.Currency, error)
}

type currencyRepository struct{}

func NewCurrencyRepository() *currencyRepository {
	return &currencyRepository{}
}

func (r *currencyRepository) Create(ctx context.Context, e *entity.Currency) error {
	return xcontext.DB(ctx).Create(e).Error
}

func (r *currencyRepository) GetByAddress(ctx context.Context, address string) (*entity.Currency, error) {
	var result entity.Currency
	if err := xcontext.DB(ctx).Take(&result, "address=?", address).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *currencyRepository) GetList(ctx context.Context) ([]entity.Currency, error) {
	var result []entity.Currency
	if err := xcontext.DB(ctx).Order("name ASC").Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}
