package event

import "github.com/rafflefi/backend/internal/model"

// ORDER LISTED EVENT
type OrderListedEvent struct {
	model.Order
}

func (*OrderListedEvent) Op() string {
	return "order_listed"
}

// ORDER SETTLED EVENT
type OrderSettledEvent struct {
	OrderID  uint64 `json:"order_id"`
	RaffleID uint64 `json:"raffle_id"`
	TicketID uint64 `json:"ticket_id"`
	Seller   string `json:"seller"`
	Buyer    string `json:"buyer"`
}

func (*OrderSettledEvent) Op() string {
	return "order_settled"
}

// ORDER WITHDRAWN EVENT
type OrderWithdrawnEvent struct {
	OrderID  uint64 `json:"order_id"`
	RaffleID uint64 `json:"raffle_id"`
	TicketID uint64 `json:"ticket_id"`
}

func (*OrderWithdrawnEvent) Op() string {
	return "order_withdrawn"
}
