package domain

import "time"

const (
	DefaultFormTitle       = "Customer Feedback"
	DefaultThankYouMessage = "Thank you for your feedback!"
	DefaultThemeColor      = "#3B82F6"
)

// Business is the tenant that owns questions and collects reviews.
type Business struct {
	ID           string
	Name         string
	OwnerEmail   string
	PasswordHash string
	QRCodeURL    string
	FeedbackURL  string
	FormSettings FormSettings
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLogin    *time.Time
}

// FormSettings controls how the public feedback form is presented.
type FormSettings struct {
	Title           string
	Description     string
	ThankYouMessage string
	LogoURL         string
	ThemeColor      string
}

// DefaultFormSettings returns the settings a new business starts with.
func DefaultFormSettings() FormSettings {
	return FormSettings{
		Title:           DefaultFormTitle,
		ThankYouMessage: DefaultThankYouMessage,
		ThemeColor:      DefaultThemeColor,
	}
}

// OwnedBy reports whether the business is the given caller.
func (b Business) OwnedBy(businessID string) bool {
	return b.ID != "" && b.ID == businessID
}
