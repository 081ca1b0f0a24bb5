package application

import (
	"context"
	"errors"
	"time"

	"github.com/SUMMERxKx/Review/internal/domain"
)

// BusinessRepository persists businesses.
type BusinessRepository interface {
	Create(ctx context.Context, business *domain.Business) error
	FindByID(ctx context.Context, id string) (*domain.Business, error)
	FindByEmail(ctx context.Context, email string) (*domain.Business, error)
	UpdateProfile(ctx context.Context, business *domain.Business) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
	UpdateQRCode(ctx context.Context, id, qrCodeURL, feedbackURL string) error
}

// QuestionRepository persists questions. Ownership is checked by the service.
type QuestionRepository interface {
	ListByBusiness(ctx context.Context, businessID string) ([]domain.Question, error)
	FindByID(ctx context.Context, id string) (*domain.Question, error)
	Create(ctx context.Context, question *domain.Question) error
	Update(ctx context.Context, question *domain.Question) error
	Delete(ctx context.Context, businessID, id string) error
	// CountOwned counts how many of ids belong to businessID.
	CountOwned(ctx context.Context, businessID string, ids []string) (int, error)
	// Reorder sets each question's order to its index in ids.
	Reorder(ctx context.Context, businessID string, ids []string) error
}

// ReviewRepository persists reviews.
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	FindByID(ctx context.Context, id string) (*domain.Review, error)
	ListByBusiness(ctx context.Context, businessID string) ([]domain.Review, error)
	// MarkAnalyzed attaches the result only while the review is unprocessed.
	// It reports false when the review was already processed.
	MarkAnalyzed(ctx context.Context, id string, result domain.AnalysisResult, at time.Time) (bool, error)
	ListUnprocessed(ctx context.Context, createdBefore time.Time, limit int) ([]domain.Review, error)
}

// ReviewAnalyzer turns a review into an analysis result. Implementations never fail;
// they substitute domain.FallbackAnalysis instead.
type ReviewAnalyzer interface {
	Analyze(ctx context.Context, review domain.Review) domain.AnalysisResult
}

// AnalysisTask asks a worker to analyse one stored review.
type AnalysisTask struct {
	ID         string    `json:"id"`
	ReviewID   string    `json:"reviewId"`
	BusinessID string    `json:"businessId"`
	Attempt    int       `json:"attempt"`
	EnqueuedAt time.Time `json:"enqueuedAt"`
}

// TaskHandler processes one task. The queue acknowledges the task once it returns.
type TaskHandler func(ctx context.Context, task AnalysisTask) error

// ErrQueueFull is returned by bounded queues that cannot accept more tasks.
var ErrQueueFull = errors.New("analysis queue is full")

// AnalysisQueue hands analysis tasks from the intake path to the workers.
type AnalysisQueue interface {
	Enqueue(ctx context.Context, task AnalysisTask) error
	// Consume blocks, calling handler for each task until ctx is cancelled.
	Consume(ctx context.Context, handler TaskHandler) error
}

// PasswordHasher hashes and verifies owner passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer signs bearer tokens for a business.
type TokenIssuer interface {
	Issue(business domain.Business) (string, time.Time, error)
}

// QRCode is a rendered feedback-form QR code.
type QRCode struct {
	ImageURL    string
	FeedbackURL string
}

// QRGenerator renders the QR code pointing at a business's feedback form.
type QRGenerator interface {
	Generate(ctx context.Context, businessID string) (QRCode, error)
}
