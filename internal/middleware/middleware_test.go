package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/rafflefi/backend/internal/common"
	"github.com/rafflefi/backend/pkg/errorx"
	"github.com/rafflefi/backend/pkg/logger"
	"github.com/rafflefi/backend/pkg/router"
	"github.com/rafflefi/backend/pkg/xcontext"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

type pingRequest struct {
	Fail bool `form:"fail"`
}

type pingResponse struct{}

func ping(ctx context.Context, req *pingRequest) (*pingResponse, error) {
	if req.Fail {
		return nil, errorx.New(errorx.SoldOut, "Sold out")
	}

	return &pingResponse{}, nil
}

func requests(path string, code int64) float64 {
	return promtestutil.ToFloat64(common.PromCounters[common.HTTPRequestTotal].
		WithLabelValues(path, strconv.FormatInt(code, 10)))
}

func TestObservers(t *testing.T) {
	ctx := xcontext.WithLogger(context.Background(), logger.NewLogger(logger.SILENCE))
	r := router.New(ctx)
	router.GET(r, "/ping", ping)
	r.Observe(Prometheus(), Logger())
	h := r.Handler(nil)

	ok := requests("/ping", 0)
	soldOut := requests("/ping", int64(errorx.SoldOut))

	for _, target := range []string{"/ping", "/ping", "/ping?fail=true"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	require.Equal(t, ok+2, requests("/ping", 0))
	require.Equal(t, soldOut+1, requests("/ping", int64(errorx.SoldOut)))

	count := promtestutil.CollectAndCount(common.PromHistograms[common.HTTPRequestDurationSeconds])
	require.GreaterOrEqual(t, count, 2)
}

func TestOnlyOperator(t *testing.T) {
	ctx := xcontext.WithLogger(context.Background(), logger.NewLogger(logger.SILENCE))

	tests := []struct {
		name     string
		apiKeys  []string
		key      string
		wantCode int64
	}{
		{name: "valid key", apiKeys: []string{"indexer-key", "lottery-key"}, key: "lottery-key"},
		{name: "missing key", apiKeys: []string{"indexer-key"}, wantCode: int64(errorx.Unauthenticated)},
		{name: "wrong key", apiKeys: []string{"indexer-key"}, key: "indexer", wantCode: int64(errorx.PermissionDenied)},
		{name: "no configured key", apiKeys: []string{""}, key: "anything", wantCode: int64(errorx.PermissionDenied)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := router.New(ctx)
			operatorRouter := r.Branch()
			operatorRouter.Before(NewOnlyOperator(tt.apiKeys).Middleware())
			router.POST(operatorRouter, "/ping", ping)
			h := r.Handler(nil)

			req := httptest.NewRequest(http.MethodPost, "/ping", strings.NewReader(`{}`))
			req.Header.Set("Content-Type", "application/json")
			if tt.key != "" {
				req.Header.Set(OperatorKeyHeader, tt.key)
			}

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			require.Equal(t, http.StatusOK, rec.Code)

			var resp struct {
				Code int64 `json:"code"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			require.Equal(t, tt.wantCode, resp.Code)
		})
	}
}
