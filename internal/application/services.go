package application

import (
	"context"

	"github.com/SUMMERxKx/Review/internal/domain"
)

// BusinessService covers registration, login and profile use-cases.
type BusinessService interface {
	Register(ctx context.Context, cmd RegisterCommand) (*domain.Business, error)
	Login(ctx context.Context, cmd LoginCommand) (*LoginResult, error)
	Profile(ctx context.Context, businessID string) (*domain.Business, error)
	UpdateProfile(ctx context.Context, businessID string, cmd UpdateProfileCommand) (*domain.Business, error)
	RegenerateQR(ctx context.Context, businessID string) (QRCode, error)
}

// QuestionService manages the owner's feedback form questions.
type QuestionService interface {
	List(ctx context.Context, businessID string) ([]domain.Question, error)
	Create(ctx context.Context, businessID string, cmd CreateQuestionCommand) (*domain.Question, error)
	Update(ctx context.Context, businessID, questionID string, cmd UpdateQuestionCommand) (*domain.Question, error)
	Delete(ctx context.Context, businessID, questionID string) error
	Reorder(ctx context.Context, businessID string, questionIDs []string) error
}

// ReviewCommandService accepts public review submissions.
type ReviewCommandService interface {
	Submit(ctx context.Context, cmd SubmitReviewCommand) (*domain.Review, error)
}

// ReviewQueryService serves the owner's review reads and the public form.
type ReviewQueryService interface {
	List(ctx context.Context, businessID string) ([]domain.Review, error)
	Detail(ctx context.Context, businessID, reviewID string) (*domain.Review, error)
	Analytics(ctx context.Context, businessID string) (domain.Analytics, error)
	Form(ctx context.Context, businessID string) (*FeedbackForm, error)
}

// RegisterCommand creates a business account.
type RegisterCommand struct {
	Name       string
	OwnerEmail string
	Password   string
}

// LoginCommand authenticates an owner.
type LoginCommand struct {
	OwnerEmail string
	Password   string
}

// LoginResult carries the issued token.
type LoginResult struct {
	Token     string
	ExpiresAt int64
	Business  domain.Business
}

// UpdateProfileCommand holds optional profile changes; nil fields are left untouched.
type UpdateProfileCommand struct {
	Name            *string
	Title           *string
	Description     *string
	ThankYouMessage *string
	LogoURL         *string
	ThemeColor      *string
}

// CreateQuestionCommand holds inputs for a new question. A nil Order appends the question.
type CreateQuestionCommand struct {
	Text     string
	Type     string
	Options  []string
	Required bool
	Order    *int
}

// UpdateQuestionCommand holds optional question changes.
type UpdateQuestionCommand struct {
	Text     *string
	Type     *string
	Options  *[]string
	Required *bool
	Order    *int
}

// SubmitReviewCommand captures a public submission.
type SubmitReviewCommand struct {
	BusinessID    string
	CustomerName  string
	CustomerEmail string
	OverallRating *int
	Answers       []AnswerInput
}

// AnswerInput is one submitted answer.
type AnswerInput struct {
	QuestionID   string
	QuestionText string
	AnswerText   string
	AnswerRating *float64
}

// FeedbackForm is what the public form endpoint renders.
type FeedbackForm struct {
	Business  domain.Business
	Questions []domain.Question
}
