package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/cors"
	"github.com/julienschmidt/httprouter"

	apiContext "securehook/internal/api/context"
	"securehook/internal/api/handlers"
	"securehook/internal/api/middleware"
	"securehook/internal/platform/config"
)

type Dependencies struct {
	WebhookHandler   *handlers.WebhookHandler
	SignatureHandler *handlers.SignatureHandler
	HealthHandler    *handlers.HealthHandler
	WebhookAuth      *middleware.WebhookAuth
	RateLimiter      *middleware.RateLimiter
	CORS             config.CORSConfig
	// StaticDir, when set, is served for GET requests that match no route.
	StaticDir string
}

func NewRouter(deps *Dependencies) http.Handler {
	router := httprouter.New()

	router.GET("/healthz", wrap(deps.HealthHandler.Check))

	// Webhook receiver; path segments are part of the wire contract.
	router.POST("/webhook/:token/:signature",
		chain(deps.WebhookHandler.Receive, deps.WebhookAuth.Handle))

	router.POST("/api/generate-signature",
		chain(deps.SignatureHandler.Generate, deps.RateLimiter.Handle))

	if deps.StaticDir != "" {
		router.NotFound = staticFiles(deps.StaticDir)
	}

	var handler http.Handler = router
	handler = escapedWebhookPath(handler)
	handler = cors.Handler(corsOptions(deps.CORS))(handler)
	handler = middleware.RequestLogger(handler)
	return handler
}

func corsOptions(cfg config.CORSConfig) cors.Options {
	opts := cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: cfg.AllowedMethods,
		AllowedHeaders: cfg.AllowedHeaders,
		ExposedHeaders: []string{middleware.RequestIDHeader, "Retry-After"},
		MaxAge:         cfg.MaxAge,
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	return opts
}

// escapedWebhookPath routes webhook deliveries on the escaped path so an
// encoded "/" stays inside its segment. WebhookAuth unescapes the params.
func escapedWebhookPath(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/webhook/") {
			next.ServeHTTP(w, r)
			return
		}
		routed := r.Clone(r.Context())
		routed.URL.Path = r.URL.EscapedPath()
		routed.URL.RawPath = ""
		next.ServeHTTP(w, routed)
	})
}

func staticFiles(dir string) http.Handler {
	files := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.NotFound(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}

// Helper function to chain middlewares
func chain(handler http.HandlerFunc, middlewares ...func(http.HandlerFunc) http.HandlerFunc) httprouter.Handle {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}
	return wrap(handler)
}

// Convert http.HandlerFunc to httprouter.Handle
func wrap(handler http.HandlerFunc) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		// Inject params into context
		ctx := context.WithValue(r.Context(), apiContext.Params, ps)
		handler(w, r.WithContext(ctx))
	}
}
