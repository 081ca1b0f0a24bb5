package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/SUMMERxKx/Review/internal/domain"
)

// ReviewRepository は reviews コレクションを扱う。
type ReviewRepository struct {
	collection *mongo.Collection
}

func NewReviewRepository(db *mongo.Database, collection string) *ReviewRepository {
	return &ReviewRepository{collection: db.Collection(collection)}
}

func (r *ReviewRepository) Create(ctx context.Context, review *domain.Review) error {
	businessID, err := objectID(review.BusinessID)
	if err != nil {
		return err
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = time.Now().UTC()
	}

	answers := make([]AnswerDocument, 0, len(review.Answers))
	for _, a := range review.Answers {
		doc := AnswerDocument{
			QuestionText: a.QuestionText,
			AnswerText:   a.AnswerText,
			AnswerRating: a.AnswerRating,
		}
		if a.QuestionID != "" {
			qid, err := objectID(a.QuestionID)
			if err != nil {
				return err
			}
			doc.QuestionID = &qid
		}
		answers = append(answers, doc)
	}

	doc := ReviewDocument{
		ID:            primitive.NewObjectID(),
		BusinessID:    businessID,
		CustomerName:  review.CustomerName,
		CustomerEmail: review.CustomerEmail,
		Answers:       answers,
		OverallRating: review.OverallRating,
		Processed:     review.Processed,
		CreatedAt:     review.CreatedAt,
	}
	if review.Analysis != nil {
		analysis := analysisDocument(*review.Analysis)
		doc.Analysis = &analysis
		doc.AnalyzedAt = review.AnalyzedAt
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert review: %w", err)
	}
	review.ID = doc.ID.Hex()
	return nil
}

func (r *ReviewRepository) FindByID(ctx context.Context, id string) (*domain.Review, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc ReviewDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, mapFindError(err)
	}
	review := mapReviewDocument(doc)
	return &review, nil
}

// ListByBusiness は新しい順で返す。
func (r *ReviewRepository) ListByBusiness(ctx context.Context, businessID string) ([]domain.Review, error) {
	oid, err := objectID(businessID)
	if err != nil {
		return []domain.Review{}, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return r.find(ctx, bson.M{"businessId": oid}, opts)
}

// MarkAnalyzed は processed=false のときだけ更新する。二重実行は no-op になる。
func (r *ReviewRepository) MarkAnalyzed(ctx context.Context, id string, result domain.AnalysisResult, at time.Time) (bool, error) {
	oid, err := objectID(id)
	if err != nil {
		return false, err
	}
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": oid, "processed": false},
		bson.M{"$set": bson.M{
			"analysis":   analysisDocument(result),
			"processed":  true,
			"analyzedAt": at,
		}},
	)
	if err != nil {
		return false, fmt.Errorf("mark review analyzed: %w", err)
	}
	return res.ModifiedCount > 0, nil
}

// ListUnprocessed は古い順に limit 件まで返す。
func (r *ReviewRepository) ListUnprocessed(ctx context.Context, createdBefore time.Time, limit int) ([]domain.Review, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}}).
		SetLimit(int64(limit))
	return r.find(ctx, bson.M{"processed": false, "createdAt": bson.M{"$lt": createdBefore}}, opts)
}

func (r *ReviewRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.Review, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find reviews: %w", err)
	}
	defer cursor.Close(ctx)

	reviews := make([]domain.Review, 0)
	for cursor.Next(ctx) {
		var doc ReviewDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		reviews = append(reviews, mapReviewDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return reviews, nil
}
