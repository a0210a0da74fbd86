package model

type IssueTicketRequest struct {
	RaffleID uint64 `json:"raffle_id"`
	Account  string `json:"account"`
}

type IssueTicketResponse struct {
	TicketID uint64 `json:"ticket_id"`
}

type GetTicketsByRaffleRequest struct {
	RaffleID uint64 `json:"raffle_id" form:"raffle_id"`
}

type GetTicketsByRaffleResponse struct {
	Tickets []Ticket `json:"tickets"`
}

type GetTicketRequest struct {
	RaffleID uint64 `json:"raffle_id" form:"raffle_id"`
	Account  string `json:"account" form:"account"`
	TicketID uint64 `json:"ticket_id" form:"ticket_id"`
}

type GetTicketResponse struct {
	Ticket Ticket `json:"ticket"`
}

type GetTicketsByAccountRequest struct {
	Account string `json:"account" form:"account"`
	Type    string `json:"type" form:"type"`
	Grouped bool   `json:"grouped" form:"grouped"`
}

// GetTicketsByAccountResponse carries Groups if the request is grouped,
// Tickets otherwise.
type GetTicketsByAccountResponse struct {
	Tickets []Ticket             `json:"tickets,omitempty"`
	Groups  []AssetGroup[Ticket] `json:"groups,omitempty"`
}
