package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ranbenri-hacklberry/self-service-kiosk-sub003/internal/domain"
	"github.com/ranbenri-hacklberry/self-service-kiosk-sub003/internal/repo"
)

// DraftRepository is the local offline cache of onboarding items.
type DraftRepository struct {
	collection *mongo.Collection
}

func NewDraftRepository(db *mongo.Database) *DraftRepository {
	return &DraftRepository{
		collection: db.Collection("onboarding_drafts"),
	}
}

func (r *DraftRepository) Upsert(ctx context.Context, item *domain.OnboardingItem) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	now := time.Now()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now

	filter := bson.M{"_id": item.ID, "business_id": item.BusinessID}
	update := bson.M{"$set": item}
	opts := options.Update().SetUpsert(true)

	if _, err := r.collection.UpdateOne(ctx, filter, update, opts); err != nil {
		return fmt.Errorf("failed to upsert draft: %w", err)
	}

	return nil
}

func (r *DraftRepository) GetByID(ctx context.Context, businessID, itemID string) (*domain.OnboardingItem, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var item domain.OnboardingItem
	err := r.collection.FindOne(ctx, bson.M{"_id": itemID, "business_id": businessID}).Decode(&item)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, repo.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get draft: %w", err)
	}

	return &item, nil
}

func (r *DraftRepository) ListByBusiness(ctx context.Context, businessID string) ([]domain.OnboardingItem, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "category", Value: 1}, {Key: "name", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"business_id": businessID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list drafts: %w", err)
	}
	defer cursor.Close(ctx)

	var items []domain.OnboardingItem
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode drafts: %w", err)
	}

	return items, nil
}

func (r *DraftRepository) Delete(ctx context.Context, businessID, itemID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": itemID, "business_id": businessID})
	if err != nil {
		return fmt.Errorf("failed to delete draft: %w", err)
	}

	if result.DeletedCount == 0 {
		return repo.ErrNotFound
	}

	return nil
}
