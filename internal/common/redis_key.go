package common

import "fmt"

func RedisKeyRafflesByStatus(raffleType, status string) string {
	return fmt.Sprintf("raffles:%s:%s", raffleType, status)
}

func RedisKeyOpenOrders(raffleType string) string {
	if raffleType == "" {
		raffleType = "all"
	}

	return fmt.Sprintf("openorders:%s", raffleType)
}
