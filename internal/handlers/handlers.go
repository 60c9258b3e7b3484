package handlers

import (
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dotapit/stats-api/internal/logic"
	"github.com/dotapit/stats-api/internal/store"
)

// MaxBodySize limits the size of request bodies to 1MB
const MaxBodySize = 1048576

type Config struct {
	Redis          *redis.Client
	Logger         *zap.Logger
	CacheTTL       time.Duration
	AllowedOrigins []string
	// Services
	Analysis logic.AnalysisService
	Draft    logic.DraftService
	Registry store.Registry
	Dataset  logic.DatasetProvider
}

type Handler struct {
	redis     *redis.Client
	logger    *zap.SugaredLogger
	validator *validator.Validate
	cacheTTL  time.Duration
	origins   []string
	analysis  logic.AnalysisService
	draft     logic.DraftService
	registry  store.Registry
	dataset   logic.DatasetProvider
}

func New(cfg Config) *Handler {
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Handler{
		redis:     cfg.Redis,
		logger:    cfg.Logger.Sugar(),
		validator: validator.New(),
		cacheTTL:  ttl,
		origins:   cfg.AllowedOrigins,
		analysis:  cfg.Analysis,
		draft:     cfg.Draft,
		registry:  cfg.Registry,
		dataset:   cfg.Dataset,
	}
}

// Routes builds the full router: health probes, metrics, and the
// versioned API surface.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(h.metricsMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   h.origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/players/{name}", h.GetPlayerProfile)
		r.Get("/players/{name}/compare/{other}", h.ComparePlayers)
		r.Get("/heroes/{name}", h.GetHeroAnalysis)
		r.Get("/heroes/{name}/counters", h.GetHeroCounters)
		r.Get("/heroes/{name}/timings", h.GetHeroTimings)
		r.Get("/meta", h.GetMeta)
		r.Get("/leaderboard/{stat}", h.GetLeaderboard)
		r.Post("/drafts", h.CreateDraft)
		r.Get("/roster", h.GetRoster)
		r.Post("/roster/{name}", h.JoinRoster)
		r.Delete("/roster/{name}", h.LeaveRoster)
	})

	return r
}
