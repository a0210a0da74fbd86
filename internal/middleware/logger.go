package middleware

import (
	"context"
	"fmt"
	"time"

	"github.com/rafflefi/backend/pkg/errorx"
	"github.com/rafflefi/backend/pkg/router"
	"github.com/rafflefi/backend/pkg/xcontext"
)

func Logger() router.ObserverFunc {
	return func(ctx context.Context, path string, code int64, elapsed time.Duration) {
		method := ""
		if req := xcontext.HTTPRequest(ctx); req != nil {
			method = req.Method
		}

		info := fmt.Sprintf("%s | %s | %s", method, path, elapsed)
		switch code {
		case 0:
			xcontext.Logger(ctx).Infof("%s", info)
		case int64(errorx.Unknown.Code):
			xcontext.Logger(ctx).Errorf("%s | %d", info, code)
		default:
			xcontext.Logger(ctx).Warnf("%s | %d", info, code)
		}
	}
}
