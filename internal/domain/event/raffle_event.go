package event

import "github.com/rafflefi/backend/internal/model"

// RAFFLE CREATED EVENT
type RaffleCreatedEvent struct {
	model.Raffle
}

func (*RaffleCreatedEvent) Op() string {
	return "raffle_created"
}

// TICKET ISSUED EVENT
type TicketIssuedEvent struct {
	RaffleID uint64 `json:"raffle_id"`
	TicketID uint64 `json:"ticket_id"`
	Account  string `json:"account"`
}

func (*TicketIssuedEvent) Op() string {
	return "ticket_issued"
}

// RAFFLE SETTLED EVENT
type RaffleSettledEvent struct {
	RaffleID uint64 `json:"raffle_id"`
	Winner   string `json:"winner,omitempty"`
}

func (*RaffleSettledEvent) Op() string {
	return "raffle_settled"
}

// RAFFLE EXPIRED EVENT
type RaffleExpiredEvent struct {
	RaffleID     uint64 `json:"raffle_id"`
	TicketsSold  uint64 `json:"tickets_sold"`
	EndTimestamp string `json:"end_timestamp"`
}

func (*RaffleExpiredEvent) Op() string {
	return "raffle_expired"
}
