package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"golang.org/x/exp/slices"
)

type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before the handler of a route. A non-nil context
// replaces the request context, an error is returned to the client instead of
// calling the handler.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// ObserverFunc is called after every request with the route pattern, the
// response code and the handling time.
type ObserverFunc func(ctx context.Context, path string, code int64, elapsed time.Duration)

type Router struct {
	engine *gin.Engine
	inner  gin.IRouter

	// ctx carries the process values (configs, logger, database) which every
	// request context inherits.
	ctx context.Context

	// observers is shared by all groups of the same engine.
	observers *[]ObserverFunc

	// befores apply to the routes registered on this router after Before is
	// called.
	befores []MiddlewareFunc
}

func New(ctx context.Context) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Router{engine: engine, inner: engine, ctx: ctx, observers: &[]ObserverFunc{}}
}

// Observe registers fn for every route of the router, including routes added
// before.
func (r *Router) Observe(fn ...ObserverFunc) {
	*r.observers = append(*r.observers, fn...)
}

// Before adds middlewares to the routes registered on r from now on.
func (r *Router) Before(fn ...MiddlewareFunc) {
	r.befores = append(r.befores, fn...)
}

// Branch returns a router on the same path whose middlewares do not leak back
// into r.
func (r *Router) Branch() *Router {
	return &Router{
		engine:    r.engine,
		inner:     r.inner,
		ctx:       r.ctx,
		observers: r.observers,
		befores:   slices.Clone(r.befores),
	}
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.inner.GET(pattern, wrapHandler(r, http.MethodGet, slices.Clone(r.befores), handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.inner.POST(pattern, wrapHandler(r, http.MethodPost, slices.Clone(r.befores), handler))
}

func (r *Router) Group(pattern string) *Router {
	return &Router{
		engine:    r.engine,
		inner:     r.inner.Group(pattern),
		ctx:       r.ctx,
		observers: r.observers,
		befores:   slices.Clone(r.befores),
	}
}

// Handler returns the http handler of all routes with CORS enabled for
// allowedOrigins. An empty list allows every origin.
func (r *Router) Handler(allowedOrigins []string) http.Handler {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"*"},
	}).Handler(r.engine)
}
