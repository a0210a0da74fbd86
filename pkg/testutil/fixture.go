package testutil

import (
	"context"
	"time"

	"github.com/rafflefi/backend/internal/entity"
	"github.com/rafflefi/backend/pkg/ethutil"
	"github.com/rafflefi/backend/pkg/xcontext"

	"github.com/shopspring/decimal"
)

const ChainID int64 = 1

var (
	Owner1 = ethutil.NormalizeAddress("0x5a0b54d5dc17e0aadc383d2db43b0a0d3e029c4c")
	User1  = ethutil.NormalizeAddress("0x1f9090aae28b8a3dceadf281b0f12828e676c326")
	User2  = ethutil.NormalizeAddress("0x95222290dd7278aa3ddd389cc1e1d165cc4bafe5")
	User3  = ethutil.NormalizeAddress("0x388c818ca8b9251b393131c08a736a67ccb19297")

	AssetContract1 = ethutil.NormalizeAddress("0xbc4ca0eda7647a8ab7c2061c2e118a18a936f13d")
	AssetContract2 = ethutil.NormalizeAddress("0x60e4d786628fea6478f785a6d7e704777c86a7c6")

	Currency1       = ethutil.NormalizeAddress("0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2")
	Currency2       = ethutil.NormalizeAddress("0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48")
	WeeklyCurrency1 = ethutil.NormalizeAddress("0x6b175474e89094c44da98b954eedeac495271d0f")

	MerkleRoot1 = "0x4e3d6b7c1f0a2d6a9c8b7e5f4a3b2c1d0e9f8a7b6c5d4e3f2a1b0c9d8e7f6a5b"
	MerkleRoot2 = "0xabcdef0123456789abcdef0123456789abcdef0123456789abcdef0123456789"
	ProofHash1  = "0x1111111111111111111111111111111111111111111111111111111111111111"
	ProofHash2  = "0x2222222222222222222222222222222222222222222222222222222222222222"
)

// InsertCurrencies whitelists Currency1 for orders and WeeklyCurrency1 for the
// weekly lottery.
func InsertCurrencies(ctx context.Context) {
	err := xcontext.DB(ctx).Create(&entity.Currency{
		Address:  Currency1,
		Name:     "Wrapped Ether",
		Symbol:   "WETH",
		Decimals: 18,
	}).Error
	if err != nil {
		panic(err)
	}

	err = xcontext.DB(ctx).Create(&entity.WeeklyLotteryCurrency{
		Address:  WeeklyCurrency1,
		Name:     "Dai Stablecoin",
		Symbol:   "DAI",
		Decimals: 18,
	}).Error
	if err != nil {
		panic(err)
	}
}

// InsertRaffle creates an in-progress ERC721 raffle of AssetContract1 owned by
// Owner1.
func InsertRaffle(ctx context.Context, raffleID, numberOfTickets uint64, end time.Time) *entity.Raffle {
	raffle := &entity.Raffle{
		RaffleID:          raffleID,
		Owner:             Owner1,
		AssetContract:     AssetContract1,
		AssetContractName: "BoredApeYachtClub",
		Type:              entity.RaffleERC721,
		NftIDOrAmount:     decimal.NewFromInt(int64(raffleID)),
		PricePerTicket:    decimal.NewFromInt(1000),
		NumberOfTickets:   numberOfTickets,
		Currency:          Currency1,
		CurrencyName:      "Wrapped Ether",
		CurrencyDecimals:  18,
		EndTimestamp:      end.UTC(),
		MerkleRoot:        MerkleRoot1,
		State:             entity.RaffleInProgress,
	}

	if err := xcontext.DB(ctx).Create(raffle).Error; err != nil {
		panic(err)
	}

	return raffle
}

// InsertTicket creates a ticket and bumps the counter of its raffle.
func InsertTicket(ctx context.Context, raffleID, ticketID uint64, account string) {
	err := xcontext.DB(ctx).Omit("Raffle").Create(&entity.Ticket{
		RaffleID: raffleID,
		TicketID: ticketID,
		Account:  account,
	}).Error
	if err != nil {
		panic(err)
	}

	err = xcontext.DB(ctx).Model(&entity.Raffle{}).
		Where("raffle_id=?", raffleID).
		Update("tickets_sold", ticketID+1).Error
	if err != nil {
		panic(err)
	}
}

// EndRaffle moves the end timestamp of a raffle into the past.
func EndRaffle(ctx context.Context, raffleID uint64) {
	err := xcontext.DB(ctx).Model(&entity.Raffle{}).
		Where("raffle_id=?", raffleID).
		Update("end_timestamp", time.Now().Add(-time.Minute).UTC()).Error
	if err != nil {
		panic(err)
	}
}
