package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rafflefi/backend/pkg/errorx"
	"github.com/rafflefi/backend/pkg/logger"
	"github.com/rafflefi/backend/pkg/xcontext"

	"github.com/stretchr/testify/require"
)

type echoRequest struct {
	RaffleID uint64 `json:"raffle_id" form:"raffle_id"`
	Account  string `json:"account" form:"account"`
}

type echoResponse struct {
	RaffleID uint64 `json:"raffle_id"`
	Account  string `json:"account"`
}

type rawResponse struct {
	Code  int64           `json:"code"`
	Error string          `json:"error"`
	Data  json.RawMessage `json:"data"`
}

func echo(ctx context.Context, req *echoRequest) (*echoResponse, error) {
	switch req.RaffleID {
	case 0:
		return nil, errorx.New(errorx.NotFound, "Not found raffle")
	case 1:
		return nil, errors.New("database is gone")
	}

	return &echoResponse{RaffleID: req.RaffleID, Account: req.Account}, nil
}

func newTestRouter() http.Handler {
	ctx := xcontext.WithLogger(context.Background(), logger.NewLogger(logger.SILENCE))
	r := New(ctx)
	GET(r, "/getEcho", echo)
	POST(r, "/postEcho", echo)
	GET(r.Group("/lottery"), "/getEcho", echo)

	return r.Handler(nil)
}

func serve(t *testing.T, h http.Handler, method, target, body string) rawResponse {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp rawResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestRouter(t *testing.T) {
	h := newTestRouter()

	tests := []struct {
		name     string
		method   string
		target   string
		body     string
		wantCode int64
		wantData string
	}{
		{
			name:     "get",
			method:   http.MethodGet,
			target:   "/getEcho?raffle_id=7&account=alice",
			wantData: `{"raffle_id":7,"account":"alice"}`,
		},
		{
			name:     "post",
			method:   http.MethodPost,
			target:   "/postEcho",
			body:     `{"raffle_id":8,"account":"bob"}`,
			wantData: `{"raffle_id":8,"account":"bob"}`,
		},
		{
			name:     "group",
			method:   http.MethodGet,
			target:   "/lottery/getEcho?raffle_id=9",
			wantData: `{"raffle_id":9,"account":""}`,
		},
		{
			name:     "domain error",
			method:   http.MethodGet,
			target:   "/getEcho?raffle_id=0",
			wantCode: int64(errorx.NotFound),
		},
		{
			name:     "unknown error",
			method:   http.MethodGet,
			target:   "/getEcho?raffle_id=1",
			wantCode: int64(errorx.Unknown.Code),
		},
		{
			name:     "invalid query",
			method:   http.MethodGet,
			target:   "/getEcho?raffle_id=abc",
			wantCode: int64(errorx.BadRequest),
		},
		{
			name:     "invalid body",
			method:   http.MethodPost,
			target:   "/postEcho",
			body:     `{"raffle_id":`,
			wantCode: int64(errorx.BadRequest),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := serve(t, h, tt.method, tt.target, tt.body)
			require.Equal(t, tt.wantCode, resp.Code)

			if tt.wantCode == 0 {
				require.Empty(t, resp.Error)
				require.JSONEq(t, tt.wantData, string(resp.Data))
			} else {
				require.NotEmpty(t, resp.Error)
				require.Empty(t, resp.Data)
			}
		})
	}
}

func TestRouter_CORS(t *testing.T) {
	h := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/getEcho?raffle_id=7", nil)
	req.Header.Set("Origin", "https://rafflefi.example")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_Observe(t *testing.T) {
	ctx := xcontext.WithLogger(context.Background(), logger.NewLogger(logger.SILENCE))
	r := New(ctx)
	GET(r.Group("/lottery"), "/getEcho", echo)

	type observed struct {
		path string
		code int64
	}

	var got []observed
	r.Observe(func(_ context.Context, path string, code int64, _ time.Duration) {
		got = append(got, observed{path: path, code: code})
	})

	h := r.Handler(nil)
	serve(t, h, http.MethodGet, "/lottery/getEcho?raffle_id=5", "")
	serve(t, h, http.MethodGet, "/lottery/getEcho?raffle_id=0", "")

	require.Equal(t, []observed{
		{path: "/lottery/getEcho", code: 0},
		{path: "/lottery/getEcho", code: int64(errorx.NotFound)},
	}, got)
}

func TestRouter_Before(t *testing.T) {
	ctx := xcontext.WithLogger(context.Background(), logger.NewLogger(logger.SILENCE))
	r := New(ctx)

	gated := r.Branch()
	gated.Before(func(ctx context.Context) (context.Context, error) {
		if xcontext.HTTPRequest(ctx).Header.Get("X-Api-Key") != "secret" {
			return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
		}

		return nil, nil
	})
	POST(gated, "/settleEcho", echo)
	POST(gated.Group("/lottery"), "/settleEcho", echo)
	GET(r, "/getEcho", echo)

	var observed []int64
	r.Observe(func(_ context.Context, _ string, code int64, _ time.Duration) {
		observed = append(observed, code)
	})

	h := r.Handler(nil)
	post := func(target, key string) rawResponse {
		req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(`{"raffle_id":7}`))
		req.Header.Set("Content-Type", "application/json")
		if key != "" {
			req.Header.Set("X-Api-Key", key)
		}

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp rawResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		return resp
	}

	require.Equal(t, int64(errorx.PermissionDenied), post("/settleEcho", "").Code)
	require.Equal(t, int64(errorx.PermissionDenied), post("/settleEcho", "guess").Code)
	require.Equal(t, int64(errorx.PermissionDenied), post("/lottery/settleEcho", "").Code)
	require.Equal(t, int64(0), post("/settleEcho", "secret").Code)
	require.Equal(t, int64(0), post("/lottery/settleEcho", "secret").Code)

	// The branch middleware does not apply to the parent router.
	resp := serve(t, h, http.MethodGet, "/getEcho?raffle_id=7", "")
	require.Equal(t, int64(0), resp.Code)

	require.Equal(t, []int64{
		int64(errorx.PermissionDenied),
		int64(errorx.PermissionDenied),
		int64(errorx.PermissionDenied),
		0, 0, 0,
	}, observed)
}
