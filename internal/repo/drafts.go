package repo

import (
	"context"

	"github.com/ranbenri-hacklberry/self-service-kiosk-sub003/internal/domain"
)

// DraftRepository is the local offline cache of onboarding drafts. It is
// always reachable and remains the durable source of truth while remote
// writes wait on the offline queue.
type DraftRepository interface {
	Upsert(ctx context.Context, item *domain.OnboardingItem) error
	GetByID(ctx context.Context, businessID, itemID string) (*domain.OnboardingItem, error)
	ListByBusiness(ctx context.Context, businessID string) ([]domain.OnboardingItem, error)
	Delete(ctx context.Context, businessID, itemID string) error
}
