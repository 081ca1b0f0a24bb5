package public

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SUMMERxKx/Review/internal/application"
	"github.com/SUMMERxKx/Review/internal/domain"
)

type mockCommands struct{ mock.Mock }

func (m *mockCommands) Submit(ctx context.Context, cmd application.SubmitReviewCommand) (*domain.Review, error) {
	args := m.Called(ctx, cmd)
	review, _ := args.Get(0).(*domain.Review)
	return review, args.Error(1)
}

type mockQueries struct{ mock.Mock }

func (m *mockQueries) List(ctx context.Context, businessID string) ([]domain.Review, error) {
	args := m.Called(ctx, businessID)
	reviews, _ := args.Get(0).([]domain.Review)
	return reviews, args.Error(1)
}

func (m *mockQueries) Detail(ctx context.Context, businessID, reviewID string) (*domain.Review, error) {
	args := m.Called(ctx, businessID, reviewID)
	review, _ := args.Get(0).(*domain.Review)
	return review, args.Error(1)
}

func (m *mockQueries) Analytics(ctx context.Context, businessID string) (domain.Analytics, error) {
	args := m.Called(ctx, businessID)
	return args.Get(0).(domain.Analytics), args.Error(1)
}

func (m *mockQueries) Form(ctx context.Context, businessID string) (*application.FeedbackForm, error) {
	args := m.Called(ctx, businessID)
	form, _ := args.Get(0).(*application.FeedbackForm)
	return form, args.Error(1)
}

func newTestRouter(commands *mockCommands, queries *mockQueries) http.Handler {
	r := chi.NewRouter()
	NewHandler(Config{ReviewCommands: commands, ReviewQueries: queries}).Register(r)
	return r
}

func TestCreateReview(t *testing.T) {
	commands := &mockCommands{}
	rating := 5
	commands.On("Submit", mock.Anything, mock.MatchedBy(func(cmd application.SubmitReviewCommand) bool {
		return cmd.BusinessID == "b1" && len(cmd.Answers) == 1 && cmd.Answers[0].AnswerText == "Great"
	})).Return(&domain.Review{
		ID:            "r1",
		BusinessID:    "b1",
		OverallRating: &rating,
		Answers:       []domain.Answer{{QuestionText: "How was it?", AnswerText: "Great"}},
		CreatedAt:     time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
	}, nil)

	body := `{"businessId":"b1","customerName":"Jane","overallRating":5,"answers":[{"questionText":"How was it?","answerText":"Great"}]}`
	rec := httptest.NewRecorder()
	newTestRouter(commands, &mockQueries{}).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reviews", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Review submitted successfully", resp["message"])
	review := resp["review"].(map[string]any)
	assert.Equal(t, "r1", review["id"])
	assert.Equal(t, false, review["processed"])
	assert.NotContains(t, review, "analysis")
	commands.AssertExpectations(t)
}

func TestCreateReviewUnknownBusiness(t *testing.T) {
	commands := &mockCommands{}
	commands.On("Submit", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)

	rec := httptest.NewRecorder()
	newTestRouter(commands, &mockQueries{}).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reviews", strings.NewReader(`{"businessId":"missing"}`)))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateReviewPassesFreeFormEmail(t *testing.T) {
	commands := &mockCommands{}
	commands.On("Submit", mock.Anything, mock.MatchedBy(func(cmd application.SubmitReviewCommand) bool {
		return cmd.BusinessID == "missing" && cmd.CustomerEmail == "call me maybe"
	})).Return(nil, domain.ErrNotFound)

	body := `{"businessId":"missing","customerEmail":"call me maybe","answers":[{"answerText":"no prompt"}]}`
	rec := httptest.NewRecorder()
	newTestRouter(commands, &mockQueries{}).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reviews", strings.NewReader(body)))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	commands.AssertExpectations(t)
}

func TestCreateReviewRejectsBadPayloads(t *testing.T) {
	commands := &mockCommands{}
	router := newTestRouter(commands, &mockQueries{})

	for name, body := range map[string]string{
		"not json":       `{`,
		"no business":    `{"answers":[]}`,
		"unknown field":  `{"businessId":"b1","sentiment":1}`,
		"rating too big": `{"businessId":"b1","overallRating":9}`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reviews", strings.NewReader(body)))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
	commands.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
}

func TestFormHandler(t *testing.T) {
	queries := &mockQueries{}
	queries.On("Form", mock.Anything, "b1").Return(&application.FeedbackForm{
		Business:  domain.Business{ID: "b1", Name: "Cafe", PasswordHash: "hash", FormSettings: domain.DefaultFormSettings()},
		Questions: []domain.Question{{ID: "q1", BusinessID: "b1", Text: "How was it?", Type: domain.QuestionTypeRating}},
	}, nil)
	queries.On("Form", mock.Anything, "nope").Return(nil, domain.ErrNotFound)
	router := newTestRouter(&mockCommands{}, queries)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reviews/form/b1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "hash")

	var resp formResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Cafe", resp.Business.Name)
	assert.Equal(t, domain.DefaultThemeColor, resp.Business.FormSettings.ThemeColor)
	require.Len(t, resp.Questions, 1)
	assert.Equal(t, "rating", resp.Questions[0].QuestionType)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reviews/form/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
