package dashboard

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/SUMMERxKx/Review/internal/application"
	"github.com/SUMMERxKx/Review/internal/interfaces/http/common"
)

type questionCreateRequest struct {
	QuestionText string   `json:"questionText" validate:"required,max=500"`
	QuestionType string   `json:"questionType"`
	Options      []string `json:"options" validate:"max=20"`
	Required     bool     `json:"required"`
	Order        *int     `json:"order" validate:"omitempty,gte=0"`
}

type questionUpdateRequest struct {
	QuestionText *string   `json:"questionText" validate:"omitempty,max=500"`
	QuestionType *string   `json:"questionType"`
	Options      *[]string `json:"options"`
	Required     *bool     `json:"required"`
	Order        *int      `json:"order" validate:"omitempty,gte=0"`
}

type questionReorderRequest struct {
	QuestionIDs []string `json:"questionIds" validate:"required,min=1"`
}

func (h *Handler) questionListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.currentUser(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		questions, err := h.questions.List(ctx, user.BusinessID)
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, common.NewQuestionResponses(questions))
	}
}

func (h *Handler) questionCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.currentUser(w, r)
		if !ok {
			return
		}

		var req questionCreateRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.WriteMessage(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		question, err := h.questions.Create(ctx, user.BusinessID, application.CreateQuestionCommand{
			Text:     req.QuestionText,
			Type:     req.QuestionType,
			Options:  req.Options,
			Required: req.Required,
			Order:    req.Order,
		})
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusCreated, common.NewQuestionResponse(*question))
	}
}

func (h *Handler) questionUpdateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.currentUser(w, r)
		if !ok {
			return
		}

		var req questionUpdateRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.WriteMessage(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		question, err := h.questions.Update(ctx, user.BusinessID, chi.URLParam(r, "id"), application.UpdateQuestionCommand{
			Text:     req.QuestionText,
			Type:     req.QuestionType,
			Options:  req.Options,
			Required: req.Required,
			Order:    req.Order,
		})
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, common.NewQuestionResponse(*question))
	}
}

func (h *Handler) questionDeleteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.currentUser(w, r)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		if err := h.questions.Delete(ctx, user.BusinessID, chi.URLParam(r, "id")); err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]string{"message": "Question deleted successfully"})
	}
}

// 並び替えは全件が呼び出し元の所有であることをサービス側で確認してから一括更新する。
func (h *Handler) questionReorderHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := h.currentUser(w, r)
		if !ok {
			return
		}

		var req questionReorderRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.WriteMessage(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		if err := h.questions.Reorder(ctx, user.BusinessID, req.QuestionIDs); err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusOK, map[string]string{"message": "Questions reordered successfully"})
	}
}
