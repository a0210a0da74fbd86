package model

type Raffle struct {
	RaffleID          uint64 `json:"raffle_id"`
	Owner             string `json:"owner"`
	AssetContract     string `json:"asset_contract"`
	AssetContractName string `json:"asset_contract_name"`
	Type              string `json:"type"`
	NftIDOrAmount     string `json:"nft_id_or_amount"`
	Decimals          int    `json:"decimals"`
	Symbol            string `json:"symbol"`
	TokenURI          string `json:"token_uri"`

	PricePerTicket   string `json:"price_per_ticket"`
	NumberOfTickets  uint64 `json:"number_of_tickets"`
	TicketsSold      uint64 `json:"tickets_sold"`
	Currency         string `json:"currency"`
	CurrencyName     string `json:"currency_name"`
	CurrencyDecimals int    `json:"currency_decimals"`

	EndTimestamp string `json:"end_timestamp"`
	MerkleRoot   string `json:"merkle_root"`
	State        string `json:"state"`
	Winner       string `json:"winner,omitempty"`
}

type Ticket struct {
	RaffleID uint64  `json:"raffle_id"`
	TicketID uint64  `json:"ticket_id"`
	Account  string  `json:"account"`
	Raffle   *Raffle `json:"raffle,omitempty"`
}

type Order struct {
	OrderID          uint64  `json:"order_id"`
	RaffleID         uint64  `json:"raffle_id"`
	TicketID         uint64  `json:"ticket_id"`
	Currency         string  `json:"currency"`
	CurrencyName     string  `json:"currency_name"`
	CurrencyDecimals int     `json:"currency_decimals"`
	Price            string  `json:"price"`
	Seller           string  `json:"seller"`
	BoughtBy         string  `json:"bought_by,omitempty"`
	Signature        string  `json:"signature"`
	Bought           bool    `json:"bought"`
	Raffle           *Raffle `json:"raffle,omitempty"`
}

type Currency struct {
	Address  string `json:"address"`
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals int    `json:"decimals"`
}

type LotteryRound struct {
	LotteryID      uint64 `json:"lottery_id"`
	StartTimestamp string `json:"start_timestamp"`
	EndTimestamp   string `json:"end_timestamp"`
	MerkleRoot     string `json:"merkle_root,omitempty"`
	Winner         string `json:"winner,omitempty"`
}

type LotteryTicket struct {
	LotteryID uint64 `json:"lottery_id"`
	Account   string `json:"account"`
	Tickets   uint64 `json:"tickets"`
}

type LotteryAsset struct {
	LotteryID         uint64 `json:"lottery_id"`
	AssetContract     string `json:"asset_contract"`
	AssetContractName string `json:"asset_contract_name"`
	NftID             string `json:"nft_id"`
	Contributor       string `json:"contributor"`
}

type LotteryToken struct {
	Currency string `json:"currency"`
	Amount   string `json:"amount"`
	Name     string `json:"name,omitempty"`
	Symbol   string `json:"symbol,omitempty"`
	Decimals int    `json:"decimals,omitempty"`
}

// AssetGroup is a grouped listing keyed by the asset contract address. The
// contract name is only a display label.
type AssetGroup[T any] struct {
	AssetContract     string `json:"asset_contract"`
	AssetContractName string `json:"asset_contract_name"`
	Items             []T    `json:"items"`
}
