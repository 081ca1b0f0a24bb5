package application

import (
	"context"
	"strings"

	"github.com/SUMMERxKx/Review/internal/domain"
)

// NewQuestionService builds the question management service.
func NewQuestionService(repo QuestionRepository, clock Clock) QuestionService {
	if clock == nil {
		clock = SystemClock{}
	}
	return &questionService{repo: repo, clock: clock}
}

type questionService struct {
	repo  QuestionRepository
	clock Clock
}

func (s *questionService) List(ctx context.Context, businessID string) ([]domain.Question, error) {
	return s.repo.ListByBusiness(ctx, businessID)
}

func (s *questionService) Create(ctx context.Context, businessID string, cmd CreateQuestionCommand) (*domain.Question, error) {
	qType, err := domain.NewQuestionType(cmd.Type)
	if err != nil {
		return nil, err
	}

	order := 0
	if cmd.Order != nil {
		order = *cmd.Order
	} else {
		existing, err := s.repo.ListByBusiness(ctx, businessID)
		if err != nil {
			return nil, err
		}
		order = len(existing)
	}

	now := s.clock.Now()
	question := &domain.Question{
		BusinessID: businessID,
		Text:       cmd.Text,
		Type:       qType,
		Options:    append([]string{}, cmd.Options...),
		Required:   cmd.Required,
		Order:      order,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := question.Normalize(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, question); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *questionService) Update(ctx context.Context, businessID, questionID string, cmd UpdateQuestionCommand) (*domain.Question, error) {
	question, err := s.owned(ctx, businessID, questionID)
	if err != nil {
		return nil, err
	}

	updated := *question
	updated.Options = append([]string{}, question.Options...)
	if cmd.Text != nil {
		updated.Text = *cmd.Text
	}
	if cmd.Type != nil {
		qType, err := domain.NewQuestionType(*cmd.Type)
		if err != nil {
			return nil, err
		}
		updated.Type = qType
	}
	if cmd.Options != nil {
		updated.Options = append([]string{}, (*cmd.Options)...)
	}
	if cmd.Required != nil {
		updated.Required = *cmd.Required
	}
	if cmd.Order != nil {
		updated.Order = *cmd.Order
	}
	if err := updated.Normalize(); err != nil {
		return nil, err
	}
	updated.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *questionService) Delete(ctx context.Context, businessID, questionID string) error {
	if _, err := s.owned(ctx, businessID, questionID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, businessID, questionID)
}

// Reorder assigns order = index. Every id must belong to the caller or nothing changes.
func (s *questionService) Reorder(ctx context.Context, businessID string, questionIDs []string) error {
	if len(questionIDs) == 0 {
		return domain.NewValidationError("questionIds", "questionIds must not be empty")
	}
	ids := make([]string, 0, len(questionIDs))
	seen := make(map[string]struct{}, len(questionIDs))
	for _, id := range questionIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			return domain.NewValidationError("questionIds", "questionIds must not contain empty ids")
		}
		if _, ok := seen[id]; ok {
			return domain.NewValidationError("questionIds", "questionIds must not contain duplicates")
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	owned, err := s.repo.CountOwned(ctx, businessID, ids)
	if err != nil {
		return err
	}
	if owned != len(ids) {
		return domain.ErrForbidden
	}
	return s.repo.Reorder(ctx, businessID, ids)
}

func (s *questionService) owned(ctx context.Context, businessID, questionID string) (*domain.Question, error) {
	question, err := s.repo.FindByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if !question.OwnedBy(businessID) {
		return nil, domain.ErrForbidden
	}
	return question, nil
}
