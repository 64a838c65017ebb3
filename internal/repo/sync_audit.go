package repo

import (
	"context"

	"github.com/ranbenri-hacklberry/self-service-kiosk-sub003/internal/domain"
)

type SyncAuditRepository interface {
	Create(ctx context.Context, audit *domain.SyncAudit) error
	GetByBusinessID(ctx context.Context, businessID string, limit int) ([]domain.SyncAudit, error)
}
