package entity

import (
	"database/sql"
	"time"

	"github.com/rafflefi/backend/pkg/enum"
	"github.com/shopspring/decimal"
)

type RaffleType string

var (
	RaffleERC20  = enum.New(RaffleType("ERC20"))
	RaffleERC721 = enum.New(RaffleType("ERC721"))
)

type RaffleState string

var (
	RaffleInProgress = enum.New(RaffleState("IN_PROGRESS"))
	RaffleFinished   = enum.New(RaffleState("FINISHED"))
)

type Raffle struct {
	RaffleID          uint64 `gorm:"primaryKey;autoIncrement:false"`
	Owner             string `gorm:"index"`
	AssetContract     string `gorm:"index"`
	AssetContractName string
	Type              RaffleType      `gorm:"index"`
	NftIDOrAmount     decimal.Decimal `gorm:"type:DECIMAL(65,0)"`
	Decimals          int
	Symbol            string
	TokenURI          string

	PricePerTicket   decimal.Decimal `gorm:"type:DECIMAL(65,0)"`
	NumberOfTickets  uint64
	TicketsSold      uint64
	Currency         string
	CurrencyName     string
	CurrencyDecimals int

	EndTimestamp time.Time
	MerkleRoot   string      `gorm:"index"`
	State        RaffleState `gorm:"index"`
	Winner       sql.NullString

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Ended reports whether the raffle passed its end time at now.
func (r *Raffle) Ended(now time.Time) bool {
	return !now.Before(r.EndTimestamp)
}

func (r *Raffle) SoldOut() bool {
	return r.TicketsSold >= r.NumberOfTickets
}
