package event

import "github.com/rafflefi/backend/internal/model"

// LOTTERY ROUND OPENED EVENT
type LotteryRoundOpenedEvent struct {
	Kind string `json:"kind"`
	model.LotteryRound
}

func (*LotteryRoundOpenedEvent) Op() string {
	return "lottery_round_opened"
}

// LOTTERY WINNER EVENT
type LotteryWinnerEvent struct {
	Kind      string `json:"kind"`
	LotteryID uint64 `json:"lottery_id"`
	Winner    string `json:"winner"`
}

func (*LotteryWinnerEvent) Op() string {
	return "lottery_winner"
}
