package public

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/SUMMERxKx/Review/internal/application"
)

// Handler wires the unauthenticated customer endpoints to application services.
type Handler struct {
	logger         *zap.Logger
	reviewCommands application.ReviewCommandService
	reviewQueries  application.ReviewQueryService
}

// Config defines dependencies required by Handler.
type Config struct {
	Logger         *zap.Logger
	ReviewCommands application.ReviewCommandService
	ReviewQueries  application.ReviewQueryService
}

// NewHandler constructs a public HTTP handler set.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		logger:         logger,
		reviewCommands: cfg.ReviewCommands,
		reviewQueries:  cfg.ReviewQueries,
	}
}

// Register mounts all public routes onto the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/reviews", h.reviewCreateHandler())
	r.Get("/reviews/form/{businessId}", h.formHandler())
}

