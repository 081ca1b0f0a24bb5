package dashboard

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/SUMMERxKx/Review/internal/domain"
	"github.com/SUMMERxKx/Review/internal/interfaces/http/common"
)

type topicCountResponse struct {
	Topic string `json:"topic"`
	Count int    `json:"count"`
}

type analyticsResponse struct {
	TotalReviews     int                  `json:"totalReviews"`
	AverageSentiment float64              `json:"averageSentiment"`
	AverageRating    float64              `json:"averageRating"`
	ReviewsByMonth   map[string]int       `json:"reviewsByMonth"`
	TopTopics        []topicCountResponse `json:"topTopics"`
	PendingAnalysis  int                  `json:"pendingAnalysis"`
}

func newAnalyticsResponse(a domain.Analytics) analyticsResponse {
	topics := make([]topicCountResponse, 0, len(a.TopTopics))
	for _, t := range a.TopTopics {
		topics = append(topics, topicCountResponse{Topic: t.Topic, Count: t.Count})
	}
	byMonth := a.ReviewsByMonth
	if byMonth == nil {
		byMonth = map[string]int{}
	}
	return analyticsResponse{
		TotalReviews:     a.TotalReviews,
		AverageSentiment: a.AverageSentiment,
		AverageRating:    a.AverageRating,
		ReviewsByMonth:   byMonth,
		TopTopics:        topics,
		PendingAnalysis:  a.PendingAnalysis,
	}
}

func (h *Handler) reviewListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.currentUser(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		reviews, err := h.reviewQueries.List(ctx, user.BusinessID)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, common.NewReviewResponses(reviews))
	}
}

func (h *Handler) reviewDetailHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.currentUser(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		review, err := h.reviewQueries.Detail(ctx, user.BusinessID, chi.URLParam(r, "id"))
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, common.NewReviewResponse(*review))
	}
}

func (h *Handler) analyticsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.currentUser(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		analytics, err := h.reviewQueries.Analytics(ctx, user.BusinessID)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, newAnalyticsResponse(analytics))
	}
}
