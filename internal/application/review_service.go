package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/SUMMERxKx/Review/internal/analytics"
	"github.com/SUMMERxKx/Review/internal/domain"
)

const (
	maxAnswers          = 100
	maxAnswerTextRunes  = 5000
	maxCustomerNameRune = 200
)

// ReviewCommandConfig wires the intake use-case.
type ReviewCommandConfig struct {
	Businesses BusinessRepository
	Questions  QuestionRepository
	Reviews    ReviewRepository
	Queue      AnalysisQueue
	Clock      Clock
	Logger     *zap.Logger
}

// NewReviewCommandService builds the intake service.
func NewReviewCommandService(cfg ReviewCommandConfig) ReviewCommandService {
	clock := cfg.Clock
	if clock == nil {
		clock = SystemClock{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &reviewCommandService{
		businesses: cfg.Businesses,
		questions:  cfg.Questions,
		reviews:    cfg.Reviews,
		queue:      cfg.Queue,
		clock:      clock,
		logger:     logger,
	}
}

type reviewCommandService struct {
	businesses BusinessRepository
	questions  QuestionRepository
	reviews    ReviewRepository
	queue      AnalysisQueue
	clock      Clock
	logger     *zap.Logger
}

// Submit stores the review unprocessed and queues it for analysis.
// The response never waits for the analysis.
func (s *reviewCommandService) Submit(ctx context.Context, cmd SubmitReviewCommand) (*domain.Review, error) {
	businessID := strings.TrimSpace(cmd.BusinessID)
	if businessID == "" {
		return nil, domain.NewValidationError("businessId", "businessId is required")
	}
	if _, err := s.businesses.FindByID(ctx, businessID); err != nil {
		return nil, err
	}

	review, err := s.buildReview(ctx, businessID, cmd)
	if err != nil {
		return nil, err
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}

	task := NewAnalysisTask(review.ID, review.BusinessID, 1, s.clock.Now())
	if err := s.queue.Enqueue(ctx, task); err != nil {
		s.logger.Warn("enqueue analysis failed; sweeper will retry",
			zap.String("reviewId", review.ID),
			zap.Error(err),
		)
	}
	return review, nil
}

func (s *reviewCommandService) buildReview(ctx context.Context, businessID string, cmd SubmitReviewCommand) (*domain.Review, error) {
	name := strings.TrimSpace(cmd.CustomerName)
	if utf8.RuneCountInString(name) > maxCustomerNameRune {
		return nil, domain.NewValidationError("customerName", "customerName must be at most 200 characters")
	}
	rating, err := domain.NewOverallRating(cmd.OverallRating)
	if err != nil {
		return nil, err
	}
	if len(cmd.Answers) > maxAnswers {
		return nil, domain.NewValidationError("answers", "too many answers")
	}

	answers := make([]domain.Answer, 0, len(cmd.Answers))
	for i, in := range cmd.Answers {
		answer, err := s.buildAnswer(ctx, businessID, i, in)
		if err != nil {
			return nil, err
		}
		answers = append(answers, answer)
	}

	return &domain.Review{
		BusinessID:    businessID,
		CustomerName:  name,
		CustomerEmail: strings.TrimSpace(cmd.CustomerEmail),
		Answers:       answers,
		OverallRating: rating,
		Processed:     false,
		CreatedAt:     s.clock.Now(),
	}, nil
}

func (s *reviewCommandService) buildAnswer(ctx context.Context, businessID string, index int, in AnswerInput) (domain.Answer, error) {
	field := fmt.Sprintf("answers[%d]", index)
	answer := domain.Answer{
		QuestionID:   strings.TrimSpace(in.QuestionID),
		QuestionText: strings.TrimSpace(in.QuestionText),
		AnswerText:   strings.TrimSpace(in.AnswerText),
	}
	if utf8.RuneCountInString(answer.AnswerText) > maxAnswerTextRunes {
		return domain.Answer{}, domain.NewValidationError(field+".answerText", "answerText must be at most 5000 characters")
	}
	if in.AnswerRating != nil {
		r := *in.AnswerRating
		if r < 0 || r > 5 {
			return domain.Answer{}, domain.NewValidationError(field+".answerRating", "answerRating must be between 0 and 5")
		}
		answer.AnswerRating = &r
	}

	// 自店舗の質問なら保存済みの質問文をスナップショットする。
	// 見つからない・他店舗の質問 ID は捨てて、クライアントの質問文をそのまま残す。
	if answer.QuestionID != "" {
		question, err := s.questions.FindByID(ctx, answer.QuestionID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			answer.QuestionID = ""
		case err != nil:
			return domain.Answer{}, err
		case !question.OwnedBy(businessID):
			answer.QuestionID = ""
		default:
			answer.QuestionText = question.Text
		}
	}
	return answer, nil
}

// NewAnalysisTask builds a task with a fresh id.
func NewAnalysisTask(reviewID, businessID string, attempt int, at time.Time) AnalysisTask {
	return AnalysisTask{
		ID:         uuid.NewString(),
		ReviewID:   reviewID,
		BusinessID: businessID,
		Attempt:    attempt,
		EnqueuedAt: at,
	}
}

// NewReviewQueryService builds the read side. loc buckets analytics months.
func NewReviewQueryService(businesses BusinessRepository, questions QuestionRepository, reviews ReviewRepository, loc *time.Location) ReviewQueryService {
	if loc == nil {
		loc = time.UTC
	}
	return &reviewQueryService{businesses: businesses, questions: questions, reviews: reviews, loc: loc}
}

type reviewQueryService struct {
	businesses BusinessRepository
	questions  QuestionRepository
	reviews    ReviewRepository
	loc        *time.Location
}

func (s *reviewQueryService) List(ctx context.Context, businessID string) ([]domain.Review, error) {
	return s.reviews.ListByBusiness(ctx, businessID)
}

func (s *reviewQueryService) Detail(ctx context.Context, businessID, reviewID string) (*domain.Review, error) {
	review, err := s.reviews.FindByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if !review.OwnedBy(businessID) {
		return nil, domain.ErrForbidden
	}
	return review, nil
}

func (s *reviewQueryService) Analytics(ctx context.Context, businessID string) (domain.Analytics, error) {
	reviews, err := s.reviews.ListByBusiness(ctx, businessID)
	if err != nil {
		return domain.Analytics{}, err
	}
	return analytics.Compute(reviews, s.loc), nil
}

func (s *reviewQueryService) Form(ctx context.Context, businessID string) (*FeedbackForm, error) {
	business, err := s.businesses.FindByID(ctx, businessID)
	if err != nil {
		return nil, err
	}
	questions, err := s.questions.ListByBusiness(ctx, business.ID)
	if err != nil {
		return nil, err
	}
	return &FeedbackForm{Business: *business, Questions: questions}, nil
}
