package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rafflefi/backend/pkg/errorx"
	"github.com/rafflefi/backend/pkg/xcontext"
)

func wrapHandler[Request, Response any](
	router *Router,
	method string,
	befores []MiddlewareFunc,
	handler HandlerFunc[Request, Response],
) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		ctx := xcontext.WithHTTPRequest(router.ctx, c.Request)

		for _, before := range befores {
			newCtx, err := before(ctx)
			if err != nil {
				finish(ctx, router, c, start, newErrorResponse(err))
				return
			}

			if newCtx != nil {
				ctx = newCtx
			}
		}

		var req Request
		var err error
		switch method {
		case http.MethodGet:
			err = c.ShouldBindQuery(&req)
		case http.MethodPost:
			err = c.ShouldBindJSON(&req)
		default:
			err = errorx.New(errorx.NotImplemented, "Unsupported method %s", method)
		}

		if err != nil {
			xcontext.Logger(ctx).Debugf("Cannot bind request of %s: %v", c.FullPath(), err)
			finish(ctx, router, c, start, newErrorResponse(errorx.New(errorx.BadRequest, "Invalid request")))
			return
		}

		resp, err := handler(ctx, &req)
		if err != nil {
			finish(ctx, router, c, start, newErrorResponse(err))
		} else {
			finish(ctx, router, c, start, newResponse(resp))
		}
	}
}

func finish(ctx context.Context, router *Router, c *gin.Context, start time.Time, resp response) {
	c.JSON(http.StatusOK, resp)

	elapsed := time.Since(start)
	for _, observe := range *router.observers {
		observe(ctx, c.FullPath(), resp.Code, elapsed)
	}
}
