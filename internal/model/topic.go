package model

const (
	RaffleTopic  = "raffle"
	OrderTopic   = "order"
	LotteryTopic = "lottery"

	// IngestionTopic carries events of the on-chain indexer which are applied
	// by the ingest command.
	IngestionTopic = "ingestion"
)
