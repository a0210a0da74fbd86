package model

import "time"

type CreateRaffleRequest struct {
	RaffleID          uint64    `json:"raffle_id"`
	Owner             string    `json:"owner"`
	AssetContract     string    `json:"asset_contract"`
	AssetContractName string    `json:"asset_contract_name"`
	Type              string    `json:"type"`
	NftIDOrAmount     string    `json:"nft_id_or_amount"`
	Decimals          int       `json:"decimals"`
	Symbol            string    `json:"symbol"`
	TokenURI          string    `json:"token_uri"`
	PricePerTicket    string    `json:"price_per_ticket"`
	NumberOfTickets   int64     `json:"number_of_tickets"`
	Currency          string    `json:"currency"`
	CurrencyName      string    `json:"currency_name"`
	CurrencyDecimals  int       `json:"currency_decimals"`
	EndTimestamp      time.Time `json:"end_timestamp"`
	MerkleRoot        string    `json:"merkle_root"`
}

type CreateRaffleResponse struct{}

type SettleRaffleRequest struct {
	RaffleID uint64 `json:"raffle_id"`
	Winner   string `json:"winner"`
}

type SettleRaffleResponse struct{}

type GetRaffleRequest struct {
	RaffleID uint64 `json:"raffle_id" form:"raffle_id"`
}

type GetRaffleResponse struct {
	Raffle Raffle `json:"raffle"`
}

type GetWinnerRequest struct {
	RaffleID uint64 `json:"raffle_id" form:"raffle_id"`
}

type GetWinnerResponse struct {
	Winner string `json:"winner"`
}

type GetCreatedRafflesRequest struct {
	Owner string `json:"owner" form:"owner"`
	Type  string `json:"type" form:"type"`
}

type GetCreatedRafflesResponse struct {
	Raffles []Raffle `json:"raffles"`
}

type GetRafflesByStatusRequest struct {
	Type   string `json:"type" form:"type"`
	Status string `json:"status" form:"status"`
}

type GetRafflesByStatusResponse struct {
	Groups []AssetGroup[Raffle] `json:"groups"`
}

type GetWhitelistedRafflesRequest struct {
	MerkleRoot string `json:"merkle_root" form:"merkle_root"`
	Type       string `json:"type" form:"type"`
}

type GetWhitelistedRafflesResponse struct {
	Raffles []Raffle `json:"raffles"`
}
