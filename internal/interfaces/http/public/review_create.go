package public

import (
	"context"
	"net/http"

	"github.com/SUMMERxKx/Review/internal/application"
	"github.com/SUMMERxKx/Review/internal/interfaces/http/common"
)

type createReviewRequest struct {
	BusinessID    string          `json:"businessId" validate:"required"`
	CustomerName  string          `json:"customerName" validate:"max=200"`
	CustomerEmail string          `json:"customerEmail" validate:"max=320"`
	OverallRating *int            `json:"overallRating" validate:"omitempty,min=1,max=5"`
	Answers       []answerPayload `json:"answers" validate:"max=100,dive"`
}

type answerPayload struct {
	QuestionID   string   `json:"questionId"`
	QuestionText string   `json:"questionText" validate:"max=500"`
	AnswerText   string   `json:"answerText" validate:"max=5000"`
	AnswerRating *float64 `json:"answerRating" validate:"omitempty,gte=0,lte=5"`
}

type createReviewResponse struct {
	Message string                `json:"message"`
	Review  common.ReviewResponse `json:"review"`
}

func (req createReviewRequest) command() application.SubmitReviewCommand {
	answers := make([]application.AnswerInput, 0, len(req.Answers))
	for _, a := range req.Answers {
		answers = append(answers, application.AnswerInput{
			QuestionID:   a.QuestionID,
			QuestionText: a.QuestionText,
			AnswerText:   a.AnswerText,
			AnswerRating: a.AnswerRating,
		})
	}
	return application.SubmitReviewCommand{
		BusinessID:    req.BusinessID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		OverallRating: req.OverallRating,
		Answers:       answers,
	}
}

// reviewCreateHandler は保存のみ行い、分析はワーカーに任せて即座に 201 を返す。
func (h *Handler) reviewCreateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createReviewRequest
		if err := common.DecodeJSON(r, &req); err != nil {
			common.WriteMessage(h.logger, w, http.StatusBadRequest, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), common.RequestTimeout)
		defer cancel()

		review, err := h.reviewCommands.Submit(ctx, req.command())
		if err != nil {
			common.WriteError(h.logger, w, r, err)
			return
		}

		common.WriteJSON(h.logger, w, http.StatusCreated, createReviewResponse{
			Message: "Review submitted successfully",
			Review:  common.NewReviewResponse(*review),
		})
	}
}
