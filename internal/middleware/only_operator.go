package middleware

import (
	"context"
	"crypto/subtle"

	"github.com/rafflefi/backend/pkg/errorx"
	"github.com/rafflefi/backend/pkg/router"
	"github.com/rafflefi/backend/pkg/xcontext"
)

const OperatorKeyHeader = "X-Api-Key"

// OnlyOperator lets a request through only if it carries one of the operator
// API keys. Without configured keys every request is denied.
type OnlyOperator struct {
	apiKeys [][]byte
}

func NewOnlyOperator(apiKeys []string) *OnlyOperator {
	keys := [][]byte{}
	for _, key := range apiKeys {
		if key != "" {
			keys = append(keys, []byte(key))
		}
	}

	return &OnlyOperator{apiKeys: keys}
}

func (a *OnlyOperator) Middleware() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		req := xcontext.HTTPRequest(ctx)
		if req == nil {
			return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}

		key := req.Header.Get(OperatorKeyHeader)
		if key == "" {
			return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}

		for _, apiKey := range a.apiKeys {
			if subtle.ConstantTimeCompare([]byte(key), apiKey) == 1 {
				return nil, nil
			}
		}

		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}
}
