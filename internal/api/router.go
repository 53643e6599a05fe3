// Package api exposes the engine over HTTP: JSON endpoints for blueprints,
// synastry, layers and snapshot history, plus a websocket transit stream.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"cosmic-blueprint/internal/domain"
	"cosmic-blueprint/internal/observability"
	"cosmic-blueprint/internal/service"
	"cosmic-blueprint/internal/verification"
)

// Service is the application layer the handlers call.
type Service interface {
	Blueprint(ctx context.Context, userID string, in domain.BirthInput, persist bool) (*service.BlueprintResult, error)
	ComputeBatch(ctx context.Context, inputs []domain.BirthInput) ([]*domain.Blueprint, error)
	Synastry(ctx context.Context, a, b domain.BirthInput) (*domain.SynastryResult, error)
	Layers(ctx context.Context, in domain.BirthInput) (domain.ProfileLayers, error)
	History(ctx context.Context, userID string, from, to time.Time) ([]*domain.Snapshot, error)
	Evolution(ctx context.Context, userID string) ([]*domain.LayerScoreRecord, error)
	Diff(ctx context.Context, fromID, toID string) (*service.DiffResult, error)
	Verify(ctx context.Context, id string) (*verification.VerificationResult, error)
	Sky(t time.Time) (*domain.SkySnapshot, error)
}

// DefaultTransitInterval is used when Options leaves TransitInterval unset.
const DefaultTransitInterval = 10 * time.Second

// Options for creating the router.
type Options struct {
	Service Service // required
	Logger  *zap.Logger
	Metrics *observability.Metrics

	// MetricsHandler serves /metrics; defaults to observability.Handler().
	MetricsHandler http.Handler

	TransitInterval time.Duration
	Clock           func() time.Time // transit clock; defaults to time.Now
	RequestTimeout  time.Duration    // JSON endpoints; 0 disables
}

type handler struct {
	svc      Service
	logger   *zap.Logger
	metrics  *observability.Metrics
	validate *validator.Validate
	upgrader websocket.Upgrader
	interval time.Duration
	now      func() time.Time
}

// NewRouter builds the HTTP handler with all routes and middleware.
func NewRouter(opts Options) http.Handler {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.MetricsHandler == nil {
		opts.MetricsHandler = observability.Handler()
	}
	if opts.TransitInterval <= 0 {
		opts.TransitInterval = DefaultTransitInterval
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	h := &handler{
		svc:      opts.Service,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
		validate: newValidator(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		interval: opts.TransitInterval,
		now:      opts.Clock,
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(opts.Logger, opts.Metrics))

	r.Get("/health", h.health)
	r.Method(http.MethodGet, "/metrics", opts.MetricsHandler)
	r.Get("/ws/transits", h.transits)

	r.Route("/v1", func(r chi.Router) {
		if opts.RequestTimeout > 0 {
			r.Use(middleware.Timeout(opts.RequestTimeout))
		}
		r.Use(middleware.AllowContentType("application/json"))

		r.Post("/blueprints", h.createBlueprint)
		r.Post("/blueprints/batch", h.batchBlueprints)
		r.Post("/synastry", h.synastry)
		r.Post("/layers", h.layers)

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/snapshots", h.history)
			r.Get("/evolution", h.evolution)
		})

		r.Route("/snapshots/{id}", func(r chi.Router) {
			r.Get("/verify", h.verify)
			r.Get("/diff/{otherID}", h.diff)
		})
	})

	return r
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
