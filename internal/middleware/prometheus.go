package middleware

import (
	"context"
	"strconv"
	"time"

	"github.com/rafflefi/backend/internal/common"
	"github.com/rafflefi/backend/pkg/router"
)

// Prometheus counts every request and its duration by route and response
// code.
func Prometheus() router.ObserverFunc {
	return func(ctx context.Context, path string, code int64, elapsed time.Duration) {
		status := strconv.FormatInt(code, 10)

		common.PromCounters[common.HTTPRequestTotal].
			WithLabelValues(path, status).Inc()
		common.PromHistograms[common.HTTPRequestDurationSeconds].
			WithLabelValues(path, status).Observe(elapsed.Seconds())
	}
}
