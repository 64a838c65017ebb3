package service

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/ranbenri-hacklberry/self-service-kiosk-sub003/internal/queue"
	"github.com/ranbenri-hacklberry/self-service-kiosk-sub003/internal/repo"
	msync "github.com/ranbenri-hacklberry/self-service-kiosk-sub003/internal/sync"
)

// SessionManager hands out one Session per business id. Sessions are
// created lazily and loaded on first use, then reused for the lifetime of
// the process.
type SessionManager struct {
	drafts  repo.DraftRepository
	remote  repo.RemoteStore
	syncer  *msync.Synchronizer
	offline *queue.OfflineQueue
	audit   repo.SyncAuditRepository
	logger  *zap.SugaredLogger

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewSessionManager(
	drafts repo.DraftRepository,
	remote repo.RemoteStore,
	syncer *msync.Synchronizer,
	offline *queue.OfflineQueue,
	audit repo.SyncAuditRepository,
	logger *zap.SugaredLogger,
) *SessionManager {
	return &SessionManager{
		drafts:   drafts,
		remote:   remote,
		syncer:   syncer,
		offline:  offline,
		audit:    audit,
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Get returns the session for the business, creating and loading it on
// the first call. A failed initial load evicts the session so the next
// request retries from scratch.
func (m *SessionManager) Get(ctx context.Context, businessID string) (*Session, error) {
	m.mu.Lock()
	s, ok := m.sessions[businessID]
	if !ok {
		s = NewSession(SessionConfig{BusinessID: businessID},
			m.drafts, m.remote, m.syncer, m.offline, m.audit, m.logger)
		m.sessions[businessID] = s
	}
	m.mu.Unlock()

	if !ok {
		if _, err := s.Load(ctx); err != nil {
			m.mu.Lock()
			delete(m.sessions, businessID)
			m.mu.Unlock()
			return nil, err
		}
	}

	return s, nil
}
