package repo

import (
	"context"

	"github.com/ranbenri-hacklberry/self-service-kiosk-sub003/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ImportTaskRepository interface {
	Create(ctx context.Context, task *domain.ImportTask) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ImportTask, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.ImportTaskStatus, errorMsg string) error
	CompleteWithReport(ctx context.Context, id primitive.ObjectID, itemCount int, skipped []domain.SkippedRow, warnings []string) error
	IncrementRetryCount(ctx context.Context, id primitive.ObjectID) error
}
