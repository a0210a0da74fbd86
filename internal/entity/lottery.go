package entity

import (
	"database/sql"
	"time"

	"github.com/rafflefi/backend/pkg/enum"
	"github.com/shopspring/decimal"
)

type LotteryKind string

var (
	WeeklyLottery  = enum.New(LotteryKind("weekly"))
	MonthlyLottery = enum.New(LotteryKind("monthly"))
)

// LotteryRound is the common shape of weekly and monthly rounds.
type LotteryRound struct {
	LotteryID      uint64 `gorm:"primaryKey;autoIncrement:false"`
	StartTimestamp time.Time
	EndTimestamp   time.Time
	MerkleRoot     string
	Winner         sql.NullString
}

// LotteryTicket is the per account ticket counter of a round.
type LotteryTicket struct {
	LotteryID uint64 `gorm:"primaryKey;autoIncrement:false"`
	Account   string `gorm:"primaryKey"`
	Tickets   uint64
}

type WeeklyLotteryRound struct {
	LotteryRound
}

func (WeeklyLotteryRound) TableName() string {
	return "weekly_lottery"
}

type WeeklyLotteryTicket struct {
	LotteryTicket
}

func (WeeklyLotteryTicket) TableName() string {
	return "weekly_lottery_tickets"
}

type WeeklyLotteryCurrency struct {
	Address  string `gorm:"primaryKey"`
	Name     string
	Symbol   string
	Decimals int
}

func (WeeklyLotteryCurrency) TableName() string {
	return "weekly_lottery_currencies"
}

type WeeklyLotteryToken struct {
	LotteryID uint64          `gorm:"primaryKey;autoIncrement:false"`
	Currency  string          `gorm:"primaryKey"`
	Amount    decimal.Decimal `gorm:"type:DECIMAL(65,0)"`
}

func (WeeklyLotteryToken) TableName() string {
	return "weekly_lottery_tokens"
}

type MonthlyLotteryErc721 struct {
	LotteryRound
}

func (MonthlyLotteryErc721) TableName() string {
	return "monthly_lottery_erc721"
}

type MonthlyLotteryTicketsErc721 struct {
	LotteryTicket
}

func (MonthlyLotteryTicketsErc721) TableName() string {
	return "monthly_lottery_tickets_erc721"
}

// MonthlyLotteryErc721Share stores the merkle proof of the leaf (Address, ID)
// where ID is the monthly lottery id.
type MonthlyLotteryErc721Share struct {
	Address string `gorm:"primaryKey"`
	ID      uint64 `gorm:"primaryKey;autoIncrement:false"`
	Proof   Array[string] `gorm:"type:text"`

	UpdatedAt time.Time
}

func (MonthlyLotteryErc721Share) TableName() string {
	return "monthly_lottery_erc721_shares"
}

type MonthlyLotteryErc721Asset struct {
	AssetID           uint64 `gorm:"primaryKey;autoIncrement"`
	ID                uint64 `gorm:"index"`
	AssetContract     string
	AssetContractName string
	NftID             string
	Contributor       string
}

func (MonthlyLotteryErc721Asset) TableName() string {
	return "monthly_lottery_erc721_assets"
}
