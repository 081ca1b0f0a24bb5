package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/SUMMERxKx/Review/internal/domain"
)

// BusinessDocument は businesses コレクションのスキーマ。
type BusinessDocument struct {
	ID           primitive.ObjectID   `bson:"_id"`
	Name         string               `bson:"name"`
	OwnerEmail   string               `bson:"ownerEmail"`
	PasswordHash string               `bson:"passwordHash"`
	QRCodeURL    string               `bson:"qrCodeUrl,omitempty"`
	FeedbackURL  string               `bson:"feedbackUrl,omitempty"`
	FormSettings FormSettingsDocument `bson:"formSettings"`
	CreatedAt    time.Time            `bson:"createdAt"`
	UpdatedAt    time.Time            `bson:"updatedAt"`
	LastLogin    *time.Time           `bson:"lastLogin,omitempty"`
}

// FormSettingsDocument は businesses.formSettings の埋め込みドキュメント。
type FormSettingsDocument struct {
	Title           string `bson:"title"`
	Description     string `bson:"description,omitempty"`
	ThankYouMessage string `bson:"thankyouMessage"`
	LogoURL         string `bson:"logoUrl,omitempty"`
	ThemeColor      string `bson:"themeColor"`
}

// QuestionDocument は questions コレクションのスキーマ。
type QuestionDocument struct {
	ID           primitive.ObjectID `bson:"_id"`
	BusinessID   primitive.ObjectID `bson:"businessId"`
	QuestionText string             `bson:"questionText"`
	QuestionType string             `bson:"questionType"`
	Options      []string           `bson:"options,omitempty"`
	Required     bool               `bson:"required"`
	Order        int                `bson:"order"`
	CreatedAt    time.Time          `bson:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt"`
}

// ReviewDocument は reviews コレクションのスキーマ。analysis は分析完了まで存在しない。
type ReviewDocument struct {
	ID            primitive.ObjectID `bson:"_id"`
	BusinessID    primitive.ObjectID `bson:"businessId"`
	CustomerName  string             `bson:"customerName,omitempty"`
	CustomerEmail string             `bson:"customerEmail,omitempty"`
	Answers       []AnswerDocument   `bson:"answers"`
	OverallRating *int               `bson:"overallRating,omitempty"`
	Analysis      *AnalysisDocument  `bson:"analysis,omitempty"`
	Processed     bool               `bson:"processed"`
	CreatedAt     time.Time          `bson:"createdAt"`
	AnalyzedAt    *time.Time         `bson:"analyzedAt,omitempty"`
}

// AnswerDocument は 1 問分の回答。questionId は自由記述の質問では空になる。
type AnswerDocument struct {
	QuestionID   *primitive.ObjectID `bson:"questionId,omitempty"`
	QuestionText string              `bson:"questionText"`
	AnswerText   string              `bson:"answerText,omitempty"`
	AnswerRating *float64            `bson:"answerRating,omitempty"`
}

// AnalysisDocument は AI 分析結果の埋め込みドキュメント。
type AnalysisDocument struct {
	SentimentScore float64  `bson:"sentimentScore"`
	KeyTopics      []string `bson:"keyTopics"`
	Summary        string   `bson:"summary"`
	Suggestions    string   `bson:"suggestions"`
	Fallback       bool     `bson:"fallback,omitempty"`
}

func mapBusinessDocument(doc BusinessDocument) domain.Business {
	return domain.Business{
		ID:           doc.ID.Hex(),
		Name:         doc.Name,
		OwnerEmail:   doc.OwnerEmail,
		PasswordHash: doc.PasswordHash,
		QRCodeURL:    doc.QRCodeURL,
		FeedbackURL:  doc.FeedbackURL,
		FormSettings: domain.FormSettings{
			Title:           doc.FormSettings.Title,
			Description:     doc.FormSettings.Description,
			ThankYouMessage: doc.FormSettings.ThankYouMessage,
			LogoURL:         doc.FormSettings.LogoURL,
			ThemeColor:      doc.FormSettings.ThemeColor,
		},
		CreatedAt: doc.CreatedAt,
		UpdatedAt: doc.UpdatedAt,
		LastLogin: doc.LastLogin,
	}
}

func formSettingsDocument(s domain.FormSettings) FormSettingsDocument {
	return FormSettingsDocument{
		Title:           s.Title,
		Description:     s.Description,
		ThankYouMessage: s.ThankYouMessage,
		LogoURL:         s.LogoURL,
		ThemeColor:      s.ThemeColor,
	}
}

func mapQuestionDocument(doc QuestionDocument) domain.Question {
	return domain.Question{
		ID:         doc.ID.Hex(),
		BusinessID: doc.BusinessID.Hex(),
		Text:       doc.QuestionText,
		Type:       domain.QuestionType(doc.QuestionType),
		Options:    append([]string(nil), doc.Options...),
		Required:   doc.Required,
		Order:      doc.Order,
		CreatedAt:  doc.CreatedAt,
		UpdatedAt:  doc.UpdatedAt,
	}
}

func mapReviewDocument(doc ReviewDocument) domain.Review {
	answers := make([]domain.Answer, 0, len(doc.Answers))
	for _, a := range doc.Answers {
		answer := domain.Answer{
			QuestionText: a.QuestionText,
			AnswerText:   a.AnswerText,
			AnswerRating: a.AnswerRating,
		}
		if a.QuestionID != nil {
			answer.QuestionID = a.QuestionID.Hex()
		}
		answers = append(answers, answer)
	}
	review := domain.Review{
		ID:            doc.ID.Hex(),
		BusinessID:    doc.BusinessID.Hex(),
		CustomerName:  doc.CustomerName,
		CustomerEmail: doc.CustomerEmail,
		Answers:       answers,
		OverallRating: doc.OverallRating,
		Processed:     doc.Processed,
		CreatedAt:     doc.CreatedAt,
		AnalyzedAt:    doc.AnalyzedAt,
	}
	if doc.Analysis != nil {
		review.Analysis = &domain.AnalysisResult{
			SentimentScore: doc.Analysis.SentimentScore,
			KeyTopics:      append([]string(nil), doc.Analysis.KeyTopics...),
			Summary:        doc.Analysis.Summary,
			Suggestions:    doc.Analysis.Suggestions,
			Fallback:       doc.Analysis.Fallback,
		}
	}
	return review
}

func analysisDocument(result domain.AnalysisResult) AnalysisDocument {
	topics := result.KeyTopics
	if topics == nil {
		topics = []string{}
	}
	return AnalysisDocument{
		SentimentScore: result.SentimentScore,
		KeyTopics:      topics,
		Summary:        result.Summary,
		Suggestions:    result.Suggestions,
		Fallback:       result.Fallback,
	}
}
