package model

import (
	"database/sql"
	"time"

	"github.com/rafflefi/backend/internal/entity"
	"github.com/rafflefi/backend/internal/repository"
)

const DefaultTimeLayout string = time.RFC3339Nano

func nullString(s sql.NullString) string {
	if !s.Valid {
		return ""
	}

	return s.String
}

func ConvertRaffle(raffle *entity.Raffle) Raffle {
	if raffle == nil {
		return Raffle{}
	}

	return Raffle{
		RaffleID:          raffle.RaffleID,
		Owner:             raffle.Owner,
		AssetContract:     raffle.AssetContract,
		AssetContractName: raffle.AssetContractName,
		Type:              string(raffle.Type),
		NftIDOrAmount:     raffle.NftIDOrAmount.String(),
		Decimals:          raffle.Decimals,
		Symbol:            raffle.Symbol,
		TokenURI:          raffle.TokenURI,
		PricePerTicket:    raffle.PricePerTicket.String(),
		NumberOfTickets:   raffle.NumberOfTickets,
		TicketsSold:       raffle.TicketsSold,
		Currency:          raffle.Currency,
		CurrencyName:      raffle.CurrencyName,
		CurrencyDecimals:  raffle.CurrencyDecimals,
		EndTimestamp:      raffle.EndTimestamp.UTC().Format(DefaultTimeLayout),
		MerkleRoot:        raffle.MerkleRoot,
		State:             string(raffle.State),
		Winner:            nullString(raffle.Winner),
	}
}

func ConvertTicket(ticket *entity.Ticket) Ticket {
	if ticket == nil {
		return Ticket{}
	}

	result := Ticket{
		RaffleID: ticket.RaffleID,
		TicketID: ticket.TicketID,
		Account:  ticket.Account,
	}

	if ticket.Raffle != nil {
		raffle := ConvertRaffle(ticket.Raffle)
		result.Raffle = &raffle
	}

	return result
}

func ConvertOrder(order *entity.Order) Order {
	if order == nil {
		return Order{}
	}

	result := Order{
		OrderID:          order.OrderID,
		RaffleID:         order.RaffleID,
		TicketID:         order.TicketID,
		Currency:         order.Currency,
		CurrencyName:     order.CurrencyName,
		CurrencyDecimals: order.CurrencyDecimals,
		Price:            order.Price.String(),
		Seller:           order.Seller,
		BoughtBy:         nullString(order.BoughtBy),
		Signature:        order.Signature,
		Bought:           order.Bought,
	}

	if order.Raffle != nil {
		raffle := ConvertRaffle(order.Raffle)
		result.Raffle = &raffle
	}

	return result
}

func ConvertCurrency(currency *entity.Currency) Currency {
	if currency == nil {
		return Currency{}
	}

	return Currency{
		Address:  currency.Address,
		Name:     currency.Name,
		Symbol:   currency.Symbol,
		Decimals: currency.Decimals,
	}
}

func ConvertLotteryRound(round *entity.LotteryRound) LotteryRound {
	if round == nil {
		return LotteryRound{}
	}

	return LotteryRound{
		LotteryID:      round.LotteryID,
		StartTimestamp: round.StartTimestamp.UTC().Format(DefaultTimeLayout),
		EndTimestamp:   round.EndTimestamp.UTC().Format(DefaultTimeLayout),
		MerkleRoot:     round.MerkleRoot,
		Winner:         nullString(round.Winner),
	}
}

func ConvertLotteryTicket(ticket *entity.LotteryTicket) LotteryTicket {
	if ticket == nil {
		return LotteryTicket{}
	}

	return LotteryTicket{
		LotteryID: ticket.LotteryID,
		Account:   ticket.Account,
		Tickets:   ticket.Tickets,
	}
}

func ConvertLotteryAsset(asset *entity.MonthlyLotteryErc721Asset) LotteryAsset {
	if asset == nil {
		return LotteryAsset{}
	}

	return LotteryAsset{
		LotteryID:         asset.ID,
		AssetContract:     asset.AssetContract,
		AssetContractName: asset.AssetContractName,
		NftID:             asset.NftID,
		Contributor:       asset.Contributor,
	}
}

func ConvertTokenPoolEntry(entry *repository.TokenPoolEntry) LotteryToken {
	if entry == nil {
		return LotteryToken{}
	}

	return LotteryToken{
		Currency: entry.Currency,
		Amount:   entry.Amount.String(),
		Name:     entry.Name,
		Symbol:   entry.Symbol,
		Decimals: entry.Decimals,
	}
}
