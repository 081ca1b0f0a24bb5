package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/SUMMERxKx/Review/internal/domain"
)

const (
	minPasswordLength   = 8
	maxBusinessNameRune = 200
)

// BusinessServiceConfig wires the business use-cases.
type BusinessServiceConfig struct {
	Businesses BusinessRepository
	Hasher     PasswordHasher
	Tokens     TokenIssuer
	QRCodes    QRGenerator
	Clock      Clock
	Logger     *zap.Logger
}

// NewBusinessService builds the account/profile service.
func NewBusinessService(cfg BusinessServiceConfig) BusinessService {
	clock := cfg.Clock
	if clock == nil {
		clock = SystemClock{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &businessService{
		repo:    cfg.Businesses,
		hasher:  cfg.Hasher,
		tokens:  cfg.Tokens,
		qrcodes: cfg.QRCodes,
		clock:   clock,
		logger:  logger,
	}
}

type businessService struct {
	repo    BusinessRepository
	hasher  PasswordHasher
	tokens  TokenIssuer
	qrcodes QRGenerator
	clock   Clock
	logger  *zap.Logger
}

func (s *businessService) Register(ctx context.Context, cmd RegisterCommand) (*domain.Business, error) {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "name is required")
	}
	if utf8.RuneCountInString(name) > maxBusinessNameRune {
		return nil, domain.NewValidationError("name", "name must be at most 200 characters")
	}
	email, err := domain.NewEmail(cmd.OwnerEmail)
	if err != nil {
		return nil, err
	}
	if email == "" {
		return nil, domain.NewValidationError("ownerEmail", "ownerEmail is required")
	}
	if len(cmd.Password) < minPasswordLength {
		return nil, domain.NewValidationError("password", "password must be at least 8 characters")
	}

	hash, err := s.hasher.Hash(cmd.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.clock.Now()
	business := &domain.Business{
		Name:         name,
		OwnerEmail:   email,
		PasswordHash: hash,
		FormSettings: domain.DefaultFormSettings(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, business); err != nil {
		return nil, err
	}

	// QR 生成は登録の成否に影響させない。
	if s.qrcodes != nil {
		if _, err := s.storeQRCode(ctx, business); err != nil {
			s.logger.Warn("qr code generation failed", zap.String("businessId", business.ID), zap.Error(err))
		}
	}
	return business, nil
}

func (s *businessService) Login(ctx context.Context, cmd LoginCommand) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(cmd.OwnerEmail))
	if email == "" || cmd.Password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	business, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := s.hasher.Compare(business.PasswordHash, cmd.Password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(*business)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	now := s.clock.Now()
	if err := s.repo.UpdateLastLogin(ctx, business.ID, now); err != nil {
		s.logger.Warn("update last login failed", zap.String("businessId", business.ID), zap.Error(err))
	} else {
		business.LastLogin = &now
	}

	return &LoginResult{Token: token, ExpiresAt: expiresAt.Unix(), Business: *business}, nil
}

func (s *businessService) Profile(ctx context.Context, businessID string) (*domain.Business, error) {
	return s.repo.FindByID(ctx, businessID)
}

func (s *businessService) UpdateProfile(ctx context.Context, businessID string, cmd UpdateProfileCommand) (*domain.Business, error) {
	business, err := s.repo.FindByID(ctx, businessID)
	if err != nil {
		return nil, err
	}

	if cmd.Name != nil {
		name := strings.TrimSpace(*cmd.Name)
		if name == "" {
			return nil, domain.NewValidationError("name", "name must not be empty")
		}
		if utf8.RuneCountInString(name) > maxBusinessNameRune {
			return nil, domain.NewValidationError("name", "name must be at most 200 characters")
		}
		business.Name = name
	}
	settings := business.FormSettings
	if cmd.Title != nil {
		settings.Title = strings.TrimSpace(*cmd.Title)
		if settings.Title == "" {
			settings.Title = domain.DefaultFormTitle
		}
	}
	if cmd.Description != nil {
		settings.Description = strings.TrimSpace(*cmd.Description)
	}
	if cmd.ThankYouMessage != nil {
		settings.ThankYouMessage = strings.TrimSpace(*cmd.ThankYouMessage)
		if settings.ThankYouMessage == "" {
			settings.ThankYouMessage = domain.DefaultThankYouMessage
		}
	}
	if cmd.LogoURL != nil {
		settings.LogoURL = strings.TrimSpace(*cmd.LogoURL)
	}
	if cmd.ThemeColor != nil {
		color, err := domain.NewHexColor(*cmd.ThemeColor)
		if err != nil {
			return nil, err
		}
		if color == "" {
			color = domain.DefaultThemeColor
		}
		settings.ThemeColor = color
	}
	business.FormSettings = settings
	business.UpdatedAt = s.clock.Now()

	if err := s.repo.UpdateProfile(ctx, business); err != nil {
		return nil, err
	}
	return business, nil
}

func (s *businessService) RegenerateQR(ctx context.Context, businessID string) (QRCode, error) {
	business, err := s.repo.FindByID(ctx, businessID)
	if err != nil {
		return QRCode{}, err
	}
	if s.qrcodes == nil {
		return QRCode{}, errors.New("qr code generator is not configured")
	}
	return s.storeQRCode(ctx, business)
}

func (s *businessService) storeQRCode(ctx context.Context, business *domain.Business) (QRCode, error) {
	code, err := s.qrcodes.Generate(ctx, business.ID)
	if err != nil {
		return QRCode{}, fmt.Errorf("generate qr code: %w", err)
	}
	if err := s.repo.UpdateQRCode(ctx, business.ID, code.ImageURL, code.FeedbackURL); err != nil {
		return QRCode{}, fmt.Errorf("store qr code: %w", err)
	}
	business.QRCodeURL = code.ImageURL
	business.FeedbackURL = code.FeedbackURL
	return code, nil
}
