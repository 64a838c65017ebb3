package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ranbenri-hacklberry/self-service-kiosk-sub003/internal/domain"
)

type SyncAuditRepository struct {
	collection *mongo.Collection
}

func NewSyncAuditRepository(db *mongo.Database) *SyncAuditRepository {
	return &SyncAuditRepository{
		collection: db.Collection("sync_audit"),
	}
}

func (r *SyncAuditRepository) Create(ctx context.Context, audit *domain.SyncAudit) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if audit.ID.IsZero() {
		audit.ID = primitive.NewObjectID()
	}
	if audit.Timestamp.IsZero() {
		audit.Timestamp = time.Now()
	}

	_, err := r.collection.InsertOne(ctx, audit)
	if err != nil {
		return fmt.Errorf("failed to create sync audit: %w", err)
	}

	return nil
}

func (r *SyncAuditRepository) GetByBusinessID(ctx context.Context, businessID string, limit int) ([]domain.SyncAudit, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"business_id": businessID}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}).SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to get sync audits: %w", err)
	}
	defer cursor.Close(ctx)

	var audits []domain.SyncAudit
	if err := cursor.All(ctx, &audits); err != nil {
		return nil, fmt.Errorf("failed to decode sync audits: %w", err)
	}

	return audits, nil
}
