// Copyright (c) 2026 Gavella. All rights reserved.

package user

import (
	"context"
	"sort"
	"sync"

	"github.com/gavella/gavella/internal/platform/apperr"
)

// MemoryRepository is an in-memory implementation of [Repository] for tests
// and local development.
type MemoryRepository struct {
	mu     sync.RWMutex
	byID   map[string]*User
	byName map[string]string // siteID + "\x00" + username -> id
}

// NewMemoryRepository creates an empty in-memory user Repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:   make(map[string]*User),
		byName: make(map[string]string),
	}
}

func nameKey(siteID, username string) string {
	return siteID + "\x00" + username
}

// Create stores a new user, enforcing per-site username uniqueness.
func (repository *MemoryRepository) Create(_ context.Context, user *User) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	key := nameKey(user.SiteID, user.Username)
	if _, exists := repository.byName[key]; exists {
		return apperr.AlreadyExists("User already exists")
	}

	cloned := *user
	repository.byID[user.ID] = &cloned
	repository.byName[key] = user.ID
	return nil
}

// FindByID retrieves a user by UUID.
func (repository *MemoryRepository) FindByID(_ context.Context, id string) (*User, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	user, ok := repository.byID[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}

	cloned := *user
	return &cloned, nil
}

// FindByUsername retrieves a user by site-scoped username.
func (repository *MemoryRepository) FindByUsername(_ context.Context, siteID, username string) (*User, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	id, ok := repository.byName[nameKey(siteID, username)]
	if !ok {
		return nil, apperr.NotFound("User")
	}

	cloned := *repository.byID[id]
	return &cloned, nil
}

// List returns all users of a site ordered by username.
func (repository *MemoryRepository) List(_ context.Context, siteID string) ([]*User, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	users := make([]*User, 0)
	for _, user := range repository.byID {
		if user.SiteID == siteID {
			cloned := *user
			users = append(users, &cloned)
		}
	}

	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

// Delete removes a user row.
func (repository *MemoryRepository) Delete(_ context.Context, id string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	user, ok := repository.byID[id]
	if !ok {
		return nil
	}

	delete(repository.byName, nameKey(user.SiteID, user.Username))
	delete(repository.byID, id)
	return nil
}

// DeleteBySite removes every user belonging to a site.
func (repository *MemoryRepository) DeleteBySite(_ context.Context, siteID string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	for id, user := range repository.byID {
		if user.SiteID == siteID {
			delete(repository.byName, nameKey(user.SiteID, user.Username))
			delete(repository.byID, id)
		}
	}
	return nil
}
