package repository

import (
	"context"
	"database/sql"

	"github.com/rafflefi/backend/internal/entity"
	"github.com/rafflefi/backend/pkg/xcontext"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TokenPoolEntry is a weekly token amount joined with its currency metadata.
type TokenPoolEntry struct {
	Currency string
	Amount   decimal.Decimal
	Name     string
	Symbol   string
	Decimals int
}

type LotteryRepository interface {
	// Round
	CreateRound(ctx context.Context, kind entity.LotteryKind, round *entity.LotteryRound) error
	GetRound(ctx context.Context, kind entity.LotteryKind, lotteryID uint64) (*entity.LotteryRound, error)
	GetLastRound(ctx context.Context, kind entity.LotteryKind) (*entity.LotteryRound, error)
	LockLastRound(ctx context.Context, kind entity.LotteryKind) (*entity.LotteryRound, error)
	SetWinner(ctx context.Context, kind entity.LotteryKind, lotteryID uint64, winner string) error

	// Ticket
	IncreaseTickets(ctx context.Context, kind entity.LotteryKind, lotteryID uint64, account string, n uint64) error
	GetTickets(ctx context.Context, kind entity.LotteryKind, account string, lotteryID *uint64) ([]entity.LotteryTicket, error)

	// Monthly share
	UpsertShare(ctx context.Context, share *entity.MonthlyLotteryErc721Share) error
	GetShare(ctx context.Context, address string, lotteryID uint64) (*entity.MonthlyLotteryErc721Share, error)

	// Monthly asset
	CreateAsset(ctx context.Context, asset *entity.MonthlyLotteryErc721Asset) error
	GetAssets(ctx context.Context, lotteryID uint64) ([]entity.MonthlyLotteryErc721Asset, error)

	// Weekly token
	CreateWhitelistedToken(ctx context.Context, currency *entity.WeeklyLotteryCurrency) error
	GetWhitelistedTokens(ctx context.Context) ([]entity.WeeklyLotteryCurrency, error)
	UpsertTokens(ctx context.Context, tokens []entity.WeeklyLotteryToken) error
	GetTokenPool(ctx context.Context, lotteryID uint64) ([]TokenPoolEntry, error)
}

type lotteryRepository struct{}

func NewLotteryRepository() *lotteryRepository {
	return &lotteryRepository{}
}

func roundTable(kind entity.LotteryKind) string {
	if kind == entity.MonthlyLottery {
		return entity.MonthlyLotteryErc721{}.TableName()
	}

	return entity.WeeklyLotteryRound{}.TableName()
}

func ticketTable(kind entity.LotteryKind) string {
	if kind == entity.MonthlyLottery {
		return entity.MonthlyLotteryTicketsErc721{}.TableName()
	}

	return entity.WeeklyLotteryTicket{}.TableName()
}

func (r *lotteryRepository) CreateRound(
	ctx context.Context, kind entity.LotteryKind, round *entity.LotteryRound,
) error {
	return xcontext.DB(ctx).Table(roundTable(kind)).Create(round).Error
}

func (r *lotteryRepository) GetRound(
	ctx context.Context, kind entity.LotteryKind, lotteryID uint64,
) (*entity.LotteryRound, error) {
	var result entity.LotteryRound
	err := xcontext.DB(ctx).Table(roundTable(kind)).Take(&result, "lottery_id=?", lotteryID).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *lotteryRepository) GetLastRound(ctx context.Context, kind entity.LotteryKind) (*entity.LotteryRound, error) {
	var result entity.LotteryRound
	err := xcontext.DB(ctx).Table(roundTable(kind)).Order("lottery_id DESC").Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// LockLastRound reads the round with the greatest lottery id with a row lock.
// It must run inside a transaction.
func (r *lotteryRepository) LockLastRound(ctx context.Context, kind entity.LotteryKind) (*entity.LotteryRound, error) {
	var result entity.LotteryRound
	err := xcontext.DB(ctx).Table(roundTable(kind)).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Order("lottery_id DESC").
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// SetWinner records the winner of a round once. It returns
// gorm.ErrRecordNotFound if the round has a winner already.
func (r *lotteryRepository) SetWinner(
	ctx context.Context, kind entity.LotteryKind, lotteryID uint64, winner string,
) error {
	tx := xcontext.DB(ctx).Table(roundTable(kind)).
		Where("lottery_id=? AND winner IS NULL", lotteryID).
		Update("winner", sql.NullString{String: winner, Valid: true})
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *lotteryRepository) IncreaseTickets(
	ctx context.Context, kind entity.LotteryKind, lotteryID uint64, account string, n uint64,
) error {
	return xcontext.DB(ctx).Table(ticketTable(kind)).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "lottery_id"}, {Name: "account"}},
			DoUpdates: clause.Assignments(map[string]any{"tickets": gorm.Expr("tickets+?", n)}),
		}).
		Create(&entity.LotteryTicket{LotteryID: lotteryID, Account: account, Tickets: n}).Error
}

func (r *lotteryRepository) GetTickets(
	ctx context.Context, kind entity.LotteryKind, account string, lotteryID *uint64,
) ([]entity.LotteryTicket, error) {
	var result []entity.LotteryTicket
	tx := xcontext.DB(ctx).Table(ticketTable(kind)).Where("account=?", account)
	if lotteryID != nil {
		tx = tx.Where("lottery_id=?", *lotteryID)
	}

	if err := tx.Order("lottery_id ASC").Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *lotteryRepository) UpsertShare(ctx context.Context, share *entity.MonthlyLotteryErc721Share) error {
	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "address"}, {Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"proof", "updated_at"}),
		}).
		Create(share).Error
}

func (r *lotteryRepository) GetShare(
	ctx context.Context, address string, lotteryID uint64,
) (*entity.MonthlyLotteryErc721Share, error) {
	var result entity.MonthlyLotteryErc721Share
	if err := xcontext.DB(ctx).Take(&result, "address=? AND id=?", address, lotteryID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *lotteryRepository) CreateAsset(ctx context.Context, asset *entity.MonthlyLotteryErc721Asset) error {
	return xcontext.DB(ctx).Create(asset).Error
}

func (r *lotteryRepository) GetAssets(ctx context.Context, lotteryID uint64) ([]entity.MonthlyLotteryErc721Asset, error) {
	var result []entity.MonthlyLotteryErc721Asset
	if err := xcontext.DB(ctx).Order("asset_id ASC").Find(&result, "id=?", lotteryID).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *lotteryRepository) CreateWhitelistedToken(ctx context.Context, currency *entity.WeeklyLotteryCurrency) error {
	return xcontext.DB(ctx).Create(currency).Error
}

func (r *lotteryRepository) GetWhitelistedTokens(ctx context.Context) ([]entity.WeeklyLotteryCurrency, error) {
	var result []entity.WeeklyLotteryCurrency
	if err := xcontext.DB(ctx).Order("symbol ASC").Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *lotteryRepository) UpsertTokens(ctx context.Context, tokens []entity.WeeklyLotteryToken) error {
	if len(tokens) == 0 {
		return nil
	}

	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "lottery_id"}, {Name: "currency"}},
			DoUpdates: clause.AssignmentColumns([]string{"amount"}),
		}).
		Create(&tokens).Error
}

func (r *lotteryRepository) GetTokenPool(ctx context.Context, lotteryID uint64) ([]TokenPoolEntry, error) {
	var result []TokenPoolEntry
	err := xcontext.DB(ctx).Table("weekly_lottery_tokens").
		Select("weekly_lottery_tokens.currency, weekly_lottery_tokens.amount, " +
			"weekly_lottery_currencies.name, weekly_lottery_currencies.symbol, weekly_lottery_currencies.decimals").
		Joins("INNER JOIN weekly_lottery_currencies ON weekly_lottery_tokens.currency=weekly_lottery_currencies.address").
		Where("weekly_lottery_tokens.lottery_id=?", lotteryID).
		Order("weekly_lottery_tokens.currency ASC").
		Scan(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
