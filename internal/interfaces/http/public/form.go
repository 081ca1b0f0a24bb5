package public

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/SUMMERxKx/Review/internal/interfaces/http/common"
)

type formBusinessResponse struct {
	ID           string                      `json:"id"`
	Name         string                      `json:"name"`
	FormSettings common.FormSettingsResponse `json:"formSettings"`
}

type formResponse struct {
	Business  formBusinessResponse      `json:"business"`
	Questions []common.QuestionResponse `json:"questions"`
}

func (h *Handler) formHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		form, err := h.reviewQueries.Form(ctx, chi.URLParam(r, "businessId"))
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusOK, formResponse{
			Business: formBusinessResponse{
				ID:           form.Business.ID,
				Name:         form.Business.Name,
				FormSettings: common.NewFormSettingsResponse(form.Business.FormSettings),
			},
			Questions: common.NewQuestionResponses(form.Questions),
		})
	}
}
