package model

// ListTicketRequest lists a ticket for resale. The currency name and decimals
// of the order are taken from the whitelisted currency.
type ListTicketRequest struct {
	RaffleID  uint64 `json:"raffle_id"`
	TicketID  uint64 `json:"ticket_id"`
	Currency  string `json:"currency"`
	Price     string `json:"price"`
	Seller    string `json:"seller"`
	Signature string `json:"signature"`
}

type ListTicketResponse struct {
	OrderID uint64 `json:"order_id"`
}

type SettleOrderRequest struct {
	OrderID uint64 `json:"order_id"`
	Buyer   string `json:"buyer"`
}

type SettleOrderResponse struct{}

type WithdrawOrderRequest struct {
	OrderID uint64 `json:"order_id"`
	Seller  string `json:"seller"`
}

type WithdrawOrderResponse struct{}

type GetOpenOrderRequest struct {
	RaffleID uint64 `json:"raffle_id" form:"raffle_id"`
	TicketID uint64 `json:"ticket_id" form:"ticket_id"`
}

type GetOpenOrderResponse struct {
	Order Order `json:"order"`
}

type GetOpenOrdersByRaffleRequest struct {
	RaffleID uint64 `json:"raffle_id" form:"raffle_id"`
}

type GetOpenOrdersByRaffleResponse struct {
	Orders []Order `json:"orders"`
}

type GetOpenOrdersRequest struct {
	Type string `json:"type" form:"type"`
}

type GetOpenOrdersResponse struct {
	Groups []AssetGroup[Order] `json:"groups"`
}
