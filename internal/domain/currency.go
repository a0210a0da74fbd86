package domain

import (
	"context"

	"github.com/rafflefi/backend/internal/model"
	"github.com/rafflefi/backend/internal/repository"
)

type CurrencyDomain interface {
	GetCurrencies(context.Context, *model.GetCurrenciesRequest) (*model.GetCurrenciesResponse, error)
}

type currencyDomain struct {
	currencyRepo repository.CurrencyRepository
}

func NewCurrencyDomain(currencyRepo repository.CurrencyRepository) *currencyDomain {
	return &currencyDomain{currencyRepo: currencyRepo}
}

func (d *currencyDomain) GetCurrencies(
	ctx context.Context, req *model.GetCurrenciesRequest,
) (*model.GetCurrenciesResponse, error) {
	currencies, err := d.currencyRepo.GetList(ctx)
	if err != nil {
		return nil, unavailable(ctx, "get currencies", err)
	}

	result := []model.Currency{}
	for i := range currencies {
		result = append(result, model.ConvertCurrency(&currencies[i]))
	}

	return &model.GetCurrenciesResponse{Currencies: result}, nil
}
