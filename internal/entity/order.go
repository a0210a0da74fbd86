package entity

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	OrderID  uint64 `gorm:"primaryKey;autoIncrement"`
	RaffleID uint64 `gorm:"index:idx_order_ticket"`
	TicketID uint64 `gorm:"index:idx_order_ticket"`
	Raffle   *Raffle `gorm:"foreignKey:RaffleID;references:RaffleID"`

	Currency         string
	CurrencyName     string
	CurrencyDecimals int
	Price            decimal.Decimal `gorm:"type:DECIMAL(65,0)"`

	Seller    string `gorm:"index"`
	BoughtBy  sql.NullString
	Signature string
	Bought    bool `gorm:"index"`

	// OpenKey holds OrderOpenKey while the order is not bought and NULL after.
	// Its unique index guarantees one open order per ticket.
	OpenKey sql.NullString `gorm:"uniqueIndex"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func OrderOpenKey(raffleID, ticketID uint64) string {
	return fmt.Sprintf("%d:%d", raffleID, ticketID)
}
