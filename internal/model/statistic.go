package model

type CountCreatedRafflesRequest struct {
	Address string `json:"address" form:"address"`
}

type CountCreatedRafflesResponse struct {
	Amount int64 `json:"amount"`
}

type CountBoughtTicketsRequest struct {
	Address string `json:"address" form:"address"`
}

type CountBoughtTicketsResponse struct {
	Amount int64 `json:"amount"`
}

type CountResaleSoldRequest struct {
	Address string `json:"address" form:"address"`
}

type CountResaleSoldResponse struct {
	Amount int64 `json:"amount"`
}
