package model

import "time"

type GetCurrentRoundRequest struct {
	Kind string `json:"kind" form:"kind"`
}

type GetCurrentRoundResponse struct {
	Round LotteryRound `json:"round"`
}

type OpenRoundRequest struct {
	Kind           string    `json:"kind"`
	LotteryID      uint64    `json:"lottery_id"`
	StartTimestamp time.Time `json:"start_timestamp"`
	EndTimestamp   time.Time `json:"end_timestamp"`
	MerkleRoot     string    `json:"merkle_root"`
}

type OpenRoundResponse struct{}

type RecordLotteryTicketRequest struct {
	Kind      string `json:"kind"`
	LotteryID uint64 `json:"lottery_id"`
	Account   string `json:"account"`
	Count     uint64 `json:"count"`
}

type RecordLotteryTicketResponse struct{}

// GetLotteryTicketsRequest returns the tickets of all rounds if LotteryID is
// nil, or of the current round if Current is set.
type GetLotteryTicketsRequest struct {
	Kind      string  `json:"kind" form:"kind"`
	Account   string  `json:"account" form:"account"`
	LotteryID *uint64 `json:"lottery_id" form:"lottery_id"`
	Current   bool    `json:"current" form:"current"`
}

type GetLotteryTicketsResponse struct {
	Tickets []LotteryTicket `json:"tickets"`
}

type RecordShareRequest struct {
	Address   string   `json:"address"`
	LotteryID uint64   `json:"lottery_id"`
	Proof     []string `json:"proof"`
}

type RecordShareResponse struct{}

type GetProofRequest struct {
	Address   string `json:"address" form:"address"`
	LotteryID uint64 `json:"lottery_id" form:"lottery_id"`
}

type GetProofResponse struct {
	Proof      []string `json:"proof"`
	MerkleRoot string   `json:"merkle_root"`
}

type RecordAssetRequest struct {
	LotteryID         uint64 `json:"lottery_id"`
	AssetContract     string `json:"asset_contract"`
	AssetContractName string `json:"asset_contract_name"`
	NftID             string `json:"nft_id"`
	Contributor       string `json:"contributor"`
}

type RecordAssetResponse struct{}

type GetAssetsRequest struct {
	LotteryID uint64 `json:"lottery_id" form:"lottery_id"`
}

type GetAssetsResponse struct {
	Assets []LotteryAsset `json:"assets"`
}

type SnapshotTokenPoolRequest struct {
	LotteryID uint64         `json:"lottery_id"`
	Tokens    []LotteryToken `json:"tokens"`
}

type SnapshotTokenPoolResponse struct{}

// GetTokenPoolRequest uses the current weekly round if LotteryID is nil.
type GetTokenPoolRequest struct {
	LotteryID *uint64 `json:"lottery_id" form:"lottery_id"`
}

type GetTokenPoolResponse struct {
	LotteryID uint64         `json:"lottery_id"`
	Tokens    []LotteryToken `json:"tokens"`
}

type GetWhitelistedTokensRequest struct{}

type GetWhitelistedTokensResponse struct {
	Tokens []Currency `json:"tokens"`
}

type RecordLotteryWinnerRequest struct {
	Kind      string `json:"kind"`
	LotteryID uint64 `json:"lottery_id"`
	Winner    string `json:"winner"`
}

type RecordLotteryWinnerResponse struct{}
