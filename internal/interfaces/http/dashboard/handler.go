package dashboard

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/SUMMERxKx/Review/internal/application"
	"github.com/SUMMERxKx/Review/internal/interfaces/http/common"
)

// Handler wires owner-facing endpoints to application services.
type Handler struct {
	logger        *zap.Logger
	businesses    application.BusinessService
	questions     application.QuestionService
	reviewQueries application.ReviewQueryService
	location      *time.Location
}

// Config provides dependencies for Handler.
type Config struct {
	Logger        *zap.Logger
	Businesses    application.BusinessService
	Questions     application.QuestionService
	ReviewQueries application.ReviewQueryService
	// Location is used for timestamps in the spreadsheet export.
	Location *time.Location
}

// NewHandler constructs a dashboard HTTP handler set.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		logger:        logger,
		businesses:    cfg.Businesses,
		questions:     cfg.Questions,
		reviewQueries: cfg.ReviewQueries,
		location:      loc,
	}
}

// Register mounts dashboard routes. Everything except register/login sits behind auth.
func (h *Handler) Register(r chi.Router, auth func(http.Handler) http.Handler) {
	r.Post("/auth/register", h.registerHandler())
	r.Post("/auth/login", h.loginHandler())

	r.Group(func(r chi.Router) {
		r.Use(auth)

		r.Get("/auth/profile", h.profileHandler())
		r.Put("/auth/profile", h.profileUpdateHandler())
		r.Post("/auth/regenerate-qr", h.regenerateQRHandler())

		r.Get("/questions/business", h.questionListHandler())
		r.Post("/questions", h.questionCreateHandler())
		r.Post("/questions/reorder", h.questionReorderHandler())
		r.Put("/questions/{id}", h.questionUpdateHandler())
		r.Delete("/questions/{id}", h.questionDeleteHandler())

		r.Get("/reviews/business", h.reviewListHandler())
		r.Get("/reviews/analytics", h.analyticsHandler())
		r.Get("/reviews/export", h.exportHandler())
		r.Get("/reviews/{id}", h.reviewDetailHandler())
	})
}

// currentUser は認証ミドルウェアが詰めたユーザーを取り出す。無ければ 401 を返して false。
func (h *Handler) currentUser(w http.ResponseWriter, r *http.Request) (common.AuthenticatedUser, bool) {
	user, ok := common.UserFromContext(r.Context())
	if !ok || user.BusinessID == "" {
		common.WriteMessage(h.logger, w, http.StatusUnauthorized, "Unauthorized")
		return common.AuthenticatedUser{}, false
	}
	return user, true
}
