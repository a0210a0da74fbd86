package ingestion

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rafflefi/backend/internal/common"
	"github.com/rafflefi/backend/internal/domain"
	"github.com/rafflefi/backend/internal/domain/event"
	"github.com/rafflefi/backend/pkg/errorx"
	"github.com/rafflefi/backend/pkg/pubsub"
	"github.com/rafflefi/backend/pkg/xcontext"
)

// Operations of the ingestion feed.
const (
	OpCreateRaffle        = "create_raffle"
	OpIssueTicket         = "issue_ticket"
	OpSettleRaffle        = "settle_raffle"
	OpSettleOrder         = "settle_order"
	OpOpenRound           = "open_round"
	OpRecordLotteryTicket = "record_lottery_ticket"
	OpRecordShare         = "record_share"
	OpRecordAsset         = "record_asset"
	OpSnapshotTokenPool   = "snapshot_token_pool"
	OpRecordLotteryWinner = "record_lottery_winner"
)

const (
	resultApplied  = "applied"
	resultRejected = "rejected"
	resultFailed   = "failed"
	resultUnknown  = "unknown"
)

type handleFunc func(ctx context.Context, data json.RawMessage) error

func handle[Request, Response any](fn func(context.Context, *Request) (*Response, error)) handleFunc {
	return func(ctx context.Context, data json.RawMessage) error {
		var req Request
		if err := json.Unmarshal(data, &req); err != nil {
			return errorx.New(errorx.BadRequest, "Invalid data: %v", err)
		}

		_, err := fn(ctx, &req)
		return err
	}
}

type SubscribeHandler struct {
	handlers map[string]handleFunc
}

func NewSubscribeHandler(
	raffleDomain domain.RaffleDomain,
	ticketDomain domain.TicketDomain,
	orderDomain domain.OrderDomain,
	lotteryDomain domain.LotteryDomain,
) *SubscribeHandler {
	return &SubscribeHandler{
		handlers: map[string]handleFunc{
			OpCreateRaffle:        handle(raffleDomain.CreateRaffle),
			OpIssueTicket:         handle(ticketDomain.IssueTicket),
			OpSettleRaffle:        handle(raffleDomain.SettleRaffle),
			OpSettleOrder:         handle(orderDomain.SettleOrder),
			OpOpenRound:           handle(lotteryDomain.OpenRound),
			OpRecordLotteryTicket: handle(lotteryDomain.RecordTicket),
			OpRecordShare:         handle(lotteryDomain.RecordShare),
			OpRecordAsset:         handle(lotteryDomain.RecordAsset),
			OpSnapshotTokenPool:   handle(lotteryDomain.SnapshotTokenPool),
			OpRecordLotteryWinner: handle(lotteryDomain.RecordWinner),
		},
	}
}

// Subscribe applies one message of the ingestion feed. Rejected messages are
// logged and skipped, a replayed message is rejected by the domain rules. An
// unavailable store fails the message, so it is delivered again.
func (h *SubscribeHandler) Subscribe(ctx context.Context, pack *pubsub.Pack, t time.Time) error {
	var req event.RawEventRequest
	if err := json.Unmarshal(pack.Msg, &req); err != nil {
		xcontext.Logger(ctx).Errorf("Unable to unmarshal ingestion message: %v", err)
		return nil
	}

	fn, ok := h.handlers[req.Op]
	if !ok {
		xcontext.Logger(ctx).Warnf("Unknown ingestion operation %q", req.Op)
		observe("other", resultUnknown)
		return nil
	}

	if err := fn(ctx, req.Data); err != nil {
		var errx errorx.Error
		if errors.As(err, &errx) && errx.Code != errorx.Unavailable {
			xcontext.Logger(ctx).Warnf("Ingestion %s %s rejected: %v", req.Op, req.ID, err)
			observe(req.Op, resultRejected)
			return nil
		}

		xcontext.Logger(ctx).Errorf("Cannot apply ingestion %s %s: %v", req.Op, req.ID, err)
		observe(req.Op, resultFailed)
		return err
	}

	observe(req.Op, resultApplied)
	xcontext.Logger(ctx).Debugf("Applied ingestion %s %s (%s)", req.Op, req.ID, t.Format(time.RFC3339))
	return nil
}

func observe(op, result string) {
	common.PromCounters[common.IngestionMessageTotal].WithLabelValues(op, result).Inc()
}
