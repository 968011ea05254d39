package httpadapter

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/KeSHaMI/hexaframe/pkg/ports"
)

type routerOptions struct {
	logger      ports.Logger
	corsOrigins []string
	middlewares []func(http.Handler) http.Handler
	metrics     http.Handler
}

// RouterOption configures NewRouter.
type RouterOption func(*routerOptions)

// WithLogger logs every request through l.
func WithLogger(l ports.Logger) RouterOption {
	return func(o *routerOptions) { o.logger = l }
}

// WithCORS allows cross-origin requests from origins.
func WithCORS(origins ...string) RouterOption {
	return func(o *routerOptions) { o.corsOrigins = origins }
}

// WithMiddleware appends middleware after the defaults.
func WithMiddleware(mw ...func(http.Handler) http.Handler) RouterOption {
	return func(o *routerOptions) { o.middlewares = append(o.middlewares, mw...) }
}

// WithMetrics serves h at GET /metrics.
func WithMetrics(h http.Handler) RouterOption {
	return func(o *routerOptions) { o.metrics = h }
}

// NewRouter returns a chi router with request IDs, real IP detection,
// request logging and panic recovery installed.
func NewRouter(opts ...RouterOption) chi.Router {
	var o routerOptions
	for _, opt := range opts {
		opt(&o)
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	if o.logger != nil {
		r.Use(RequestLogger(o.logger))
	}
	r.Use(chimw.Recoverer)
	if len(o.corsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: o.corsOrigins,
			AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}
	for _, mw := range o.middlewares {
		r.Use(mw)
	}
	if o.metrics != nil {
		r.Method(http.MethodGet, "/metrics", o.metrics)
	}
	return r
}

// RequestLogger logs method, path, status and duration of each request.
// 4xx responses log at warn and 5xx at error.
func RequestLogger(l ports.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				status := ww.Status()
				if status == 0 {
					status = http.StatusOK
				}
				level := ports.LevelInfo
				switch {
				case status >= 500:
					level = ports.LevelError
				case status >= 400:
					level = ports.LevelWarn
				}
				l.Log(level, "http request", map[string]any{
					"method":      r.Method,
					"path":        r.URL.Path,
					"status":      status,
					"duration_ms": time.Since(start).Milliseconds(),
					"bytes":       ww.BytesWritten(),
					"request_id":  chimw.GetReqID(r.Context()),
				})
			}()

			next.ServeHTTP(ww, r)
		})
	}
}
