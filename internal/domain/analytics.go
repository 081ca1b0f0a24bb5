package domain

// Analytics aggregates all reviews of a business.
type Analytics struct {
	TotalReviews     int
	AverageSentiment float64
	AverageRating    float64
	ReviewsByMonth   map[string]int
	TopTopics        []TopicCount
	PendingAnalysis  int
}

// TopicCount is one topic label with its frequency.
type TopicCount struct {
	Topic string
	Count int
}
