package model

type GetCurrenciesRequest struct{}

type GetCurrenciesResponse struct {
	Currencies []Currency `json:"currencies"`
}
