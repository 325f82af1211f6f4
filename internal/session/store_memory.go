// Copyright (c) 2026 Gavella. All rights reserved.

package session

import (
	"context"
	"sync"
	"time"

	"github.com/gavella/gavella/internal/platform/apperr"
)

// MemoryRepository is an in-memory implementation of [Repository] for tests
// and local development.
type MemoryRepository struct {
	mu     sync.RWMutex
	byID   map[string]*Session
	byUser map[string]string // userID -> sessionID
}

// NewMemoryRepository creates an empty in-memory session Repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:   make(map[string]*Session),
		byUser: make(map[string]string),
	}
}

// Create stores a new session.
func (repository *MemoryRepository) Create(_ context.Context, session *Session) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	cloned := *session
	repository.byID[session.ID] = &cloned
	repository.byUser[session.UserID] = session.ID
	return nil
}

// FindByID retrieves a session by UUID, live or not.
func (repository *MemoryRepository) FindByID(_ context.Context, id string) (*Session, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	session, ok := repository.byID[id]
	if !ok {
		return nil, apperr.NotFound("Session")
	}

	cloned := *session
	return &cloned, nil
}

// FindByUser retrieves the session bound to a user.
func (repository *MemoryRepository) FindByUser(_ context.Context, userID string) (*Session, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	id, ok := repository.byUser[userID]
	if !ok {
		return nil, apperr.NotFound("Session")
	}

	cloned := *repository.byID[id]
	return &cloned, nil
}

// UpdateExpiry slides a session's expiry.
func (repository *MemoryRepository) UpdateExpiry(_ context.Context, id string, expiresAt time.Time) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	session, ok := repository.byID[id]
	if !ok {
		return apperr.NotFound("Session")
	}

	session.ExpiresAt = expiresAt
	return nil
}

// Delete removes a session row.
func (repository *MemoryRepository) Delete(_ context.Context, id string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	session, ok := repository.byID[id]
	if !ok {
		return apperr.NotFound("Session")
	}

	delete(repository.byUser, session.UserID)
	delete(repository.byID, id)
	return nil
}

// DeleteByUser removes the session of a user, if any.
func (repository *MemoryRepository) DeleteByUser(_ context.Context, userID string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	id, ok := repository.byUser[userID]
	if !ok {
		return nil
	}

	delete(repository.byUser, userID)
	delete(repository.byID, id)
	return nil
}

// DeleteBySite removes every session belonging to a site.
func (repository *MemoryRepository) DeleteBySite(_ context.Context, siteID string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	for id, session := range repository.byID {
		if session.SiteID == siteID {
			delete(repository.byUser, session.UserID)
			delete(repository.byID, id)
		}
	}
	return nil
}
