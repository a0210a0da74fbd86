package entity

import "time"

type Ticket struct {
	RaffleID uint64 `gorm:"primaryKey;autoIncrement:false"`
	TicketID uint64 `gorm:"primaryKey;autoIncrement:false"`
	Account  string `gorm:"index"`
	Raffle   *Raffle `gorm:"foreignKey:RaffleID;references:RaffleID"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
