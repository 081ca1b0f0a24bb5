package ai

import (
	"strconv"
	"strings"

	"github.com/SUMMERxKx/Review/internal/domain"
)

const promptTemplate = `Analyze the following customer feedback and provide:
1. Overall sentiment score (between -1 and 1, where -1 is very negative and 1 is very positive)
2. Key topics or themes mentioned (maximum 5)
3. A brief summary of the feedback (maximum 2 sentences)
4. Actionable suggestions for the business (maximum 3)

Customer Feedback:
%TRANSCRIPT%

Respond with one JSON object only, no markdown:
{
  "sentimentScore": number,
  "keyTopics": [string],
  "summary": string,
  "suggestions": string
}`

// FormatReview renders the review as the plain-text transcript sent to the model.
func FormatReview(review domain.Review) string {
	var b strings.Builder
	name := review.CustomerName
	if name == "" {
		name = "Anonymous"
	}
	b.WriteString("Customer Name: " + name + "\n")
	if review.OverallRating != nil && *review.OverallRating != 0 {
		b.WriteString("Overall Rating: " + strconv.Itoa(*review.OverallRating) + "/5\n\n")
	}
	b.WriteString("Answers:\n")
	for _, answer := range review.Answers {
		b.WriteString("Q: " + answer.QuestionText + "\n")
		if answer.AnswerRating != nil && *answer.AnswerRating != 0 {
			b.WriteString("A: " + strconv.FormatFloat(*answer.AnswerRating, 'f', -1, 64) + "/5\n")
		}
		if answer.AnswerText != "" {
			b.WriteString("A: " + answer.AnswerText + "\n")
		}
		b.WriteString("\n")
	}
	return b.String()
}

// BuildPrompt embeds a transcript in the analysis instruction.
func BuildPrompt(transcript string) string {
	return strings.Replace(promptTemplate, "%TRANSCRIPT%", transcript, 1)
}

// ExtractJSON returns the text between the first '{' and the last '}'.
func ExtractJSON(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return "", false
	}
	return text[start : end+1], true
}
