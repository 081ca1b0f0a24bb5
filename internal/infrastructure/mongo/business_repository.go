package mongo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/SUMMERxKx/Review/internal/domain"
)

// BusinessRepository は businesses コレクションを扱う。
type BusinessRepository struct {
	collection *mongo.Collection
}

func NewBusinessRepository(db *mongo.Database, collection string) *BusinessRepository {
	return &BusinessRepository{collection: db.Collection(collection)}
}

// Create は ID を採番して挿入する。ownerEmail の一意制約違反は ErrDuplicateEmail。
func (r *BusinessRepository) Create(ctx context.Context, business *domain.Business) error {
	now := time.Now().UTC()
	createdAt := business.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	updatedAt := business.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	doc := BusinessDocument{
		ID:           primitive.NewObjectID(),
		Name:         business.Name,
		OwnerEmail:   strings.ToLower(business.OwnerEmail),
		PasswordHash: business.PasswordHash,
		QRCodeURL:    business.QRCodeURL,
		FeedbackURL:  business.FeedbackURL,
		FormSettings: formSettingsDocument(business.FormSettings),
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
		LastLogin:    business.LastLogin,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("insert business: %w", err)
	}

	business.ID = doc.ID.Hex()
	business.OwnerEmail = doc.OwnerEmail
	business.CreatedAt = createdAt
	business.UpdatedAt = updatedAt
	return nil
}

func (r *BusinessRepository) FindByID(ctx context.Context, id string) (*domain.Business, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *BusinessRepository) FindByEmail(ctx context.Context, email string) (*domain.Business, error) {
	return r.findOne(ctx, bson.M{"ownerEmail": strings.ToLower(strings.TrimSpace(email))})
}

func (r *BusinessRepository) findOne(ctx context.Context, filter bson.M) (*domain.Business, error) {
	var doc BusinessDocument
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		return nil, mapFindError(err)
	}
	business := mapBusinessDocument(doc)
	return &business, nil
}

// UpdateProfile は name と formSettings のみを書き換える。
func (r *BusinessRepository) UpdateProfile(ctx context.Context, business *domain.Business) error {
	return r.set(ctx, business.ID, bson.M{
		"name":         business.Name,
		"formSettings": formSettingsDocument(business.FormSettings),
		"updatedAt":    business.UpdatedAt,
	})
}

func (r *BusinessRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	return r.set(ctx, id, bson.M{"lastLogin": at})
}

func (r *BusinessRepository) UpdateQRCode(ctx context.Context, id, qrCodeURL, feedbackURL string) error {
	return r.set(ctx, id, bson.M{
		"qrCodeUrl":   qrCodeURL,
		"feedbackUrl": feedbackURL,
		"updatedAt":   time.Now().UTC(),
	})
}

func (r *BusinessRepository) set(ctx context.Context, id string, fields bson.M) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("update business: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}
