package httpapi

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"scoring-api/internal/api/http/middleware"
	"scoring-api/internal/config"
	"scoring-api/internal/metrics"
)

// MethodPath - единственный эндпоинт API
const MethodPath = "/method"

// NewRouter собирает HTTP роутер API с middleware.
// m может быть nil, тогда запросы не инструментируются.
func NewRouter(h *Handler, cfg *config.ConfigGateway, m *metrics.Metrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Порядок выполнения: request id, реальный IP, метрики, лог, CORS, rate limit
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(m.InstrumentHandler)
	r.Use(middleware.Logging(logger))
	r.Use(setupCORS(cfg).Handler)
	r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, logger))
	r.Use(chimw.StripSlashes)

	r.Post(MethodPath, h.ServeMethod)
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}

// setupCORS настраивает CORS middleware используя конфигурацию
func setupCORS(cfg *config.ConfigGateway) *cors.Cors {
	origins := strings.Split(cfg.CORSAllowedOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	maxAge := cfg.CORSMaxAge
	if maxAge == 0 {
		maxAge = 86400 // 24 часа по умолчанию
	}

	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{
			"Content-Type",
			middleware.RequestIDHeader,
			"X-Requested-With",
		},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         maxAge,
	})
}
