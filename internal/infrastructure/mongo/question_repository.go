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

// QuestionRepository は questions コレクションを扱う。所有者チェックはサービス層で行う。
type QuestionRepository struct {
	collection *mongo.Collection
}

func NewQuestionRepository(db *mongo.Database, collection string) *QuestionRepository {
	return &QuestionRepository{collection: db.Collection(collection)}
}

// ListByBusiness は order 昇順、同順位は作成順で返す。
func (r *QuestionRepository) ListByBusiness(ctx context.Context, businessID string) ([]domain.Question, error) {
	oid, err := objectID(businessID)
	if err != nil {
		return []domain.Question{}, nil
	}
	opts := options.Find().SetSort(bson.D{{Key: "order", Value: 1}, {Key: "createdAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"businessId": oid}, opts)
	if err != nil {
		return nil, fmt.Errorf("find questions: %w", err)
	}
	defer cursor.Close(ctx)

	questions := make([]domain.Question, 0)
	for cursor.Next(ctx) {
		var doc QuestionDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		questions = append(questions, mapQuestionDocument(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return questions, nil
}

func (r *QuestionRepository) FindByID(ctx context.Context, id string) (*domain.Question, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	var doc QuestionDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		return nil, mapFindError(err)
	}
	question := mapQuestionDocument(doc)
	return &question, nil
}

func (r *QuestionRepository) Create(ctx context.Context, question *domain.Question) error {
	businessID, err := objectID(question.BusinessID)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	if question.CreatedAt.IsZero() {
		question.CreatedAt = now
	}
	if question.UpdatedAt.IsZero() {
		question.UpdatedAt = question.CreatedAt
	}
	doc := QuestionDocument{
		ID:           primitive.NewObjectID(),
		BusinessID:   businessID,
		QuestionText: question.Text,
		QuestionType: question.Type.String(),
		Options:      question.Options,
		Required:     question.Required,
		Order:        question.Order,
		CreatedAt:    question.CreatedAt,
		UpdatedAt:    question.UpdatedAt,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert question: %w", err)
	}
	question.ID = doc.ID.Hex()
	return nil
}

// Update は businessId も条件に含め、他テナントの質問を書き換えない。
func (r *QuestionRepository) Update(ctx context.Context, question *domain.Question) error {
	oid, err := objectID(question.ID)
	if err != nil {
		return err
	}
	businessID, err := objectID(question.BusinessID)
	if err != nil {
		return err
	}
	set := bson.M{
		"questionText": question.Text,
		"questionType": question.Type.String(),
		"required":     question.Required,
		"order":        question.Order,
		"updatedAt":    question.UpdatedAt,
	}
	update := bson.M{"$set": set}
	if len(question.Options) > 0 {
		set["options"] = question.Options
	} else {
		update["$unset"] = bson.M{"options": ""}
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid, "businessId": businessID}, update)
	if err != nil {
		return fmt.Errorf("update question: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete も businessId を条件に含める。他テナントの質問は ErrNotFound。
func (r *QuestionRepository) Delete(ctx context.Context, businessID, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	owner, err := objectID(businessID)
	if err != nil {
		return err
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid, "businessId": owner})
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CountOwned は不正な ID を所有外として数えない。
func (r *QuestionRepository) CountOwned(ctx context.Context, businessID string, ids []string) (int, error) {
	owner, err := objectID(businessID)
	if err != nil {
		return 0, nil
	}
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := objectID(id)
		if err != nil {
			continue
		}
		oids = append(oids, oid)
	}
	if len(oids) == 0 {
		return 0, nil
	}
	n, err := r.collection.CountDocuments(ctx, bson.M{"_id": bson.M{"$in": oids}, "businessId": owner})
	if err != nil {
		return 0, fmt.Errorf("count questions: %w", err)
	}
	return int(n), nil
}

// Reorder は order = 添字 を 1 回の BulkWrite で反映する。
func (r *QuestionRepository) Reorder(ctx context.Context, businessID string, ids []string) error {
	owner, err := objectID(businessID)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	models := make([]mongo.WriteModel, 0, len(ids))
	for i, id := range ids {
		oid, err := objectID(id)
		if err != nil {
			return err
		}
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": oid, "businessId": owner}).
			SetUpdate(bson.M{"$set": bson.M{"order": i, "updatedAt": now}}))
	}
	if len(models) == 0 {
		return nil
	}
	if _, err := r.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(true)); err != nil {
		return fmt.Errorf("reorder questions: %w", err)
	}
	return nil
}
