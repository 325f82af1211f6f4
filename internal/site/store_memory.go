// Copyright (c) 2026 Gavella. All rights reserved.

package site

import (
	"context"
	"sort"
	"sync"

	"github.com/gavella/gavella/internal/platform/apperr"
)

// MemoryRepository is an in-memory implementation of [Repository].
//
// It backs tests and local development; a mutex-guarded map stands in for the
// database, with name uniqueness enforced by a secondary index.
type MemoryRepository struct {
	mu     sync.RWMutex
	byID   map[string]*Site
	byName map[string]string // name -> id
}

// NewMemoryRepository creates an empty in-memory site Repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byID:   make(map[string]*Site),
		byName: make(map[string]string),
	}
}

// Create stores a new site, enforcing name uniqueness.
func (repository *MemoryRepository) Create(_ context.Context, site *Site) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, exists := repository.byName[site.Name]; exists {
		return apperr.AlreadyExists("Site already exists")
	}

	cloned := *site
	repository.byID[site.ID] = &cloned
	repository.byName[site.Name] = site.ID
	return nil
}

// FindByID retrieves a site by UUID.
func (repository *MemoryRepository) FindByID(_ context.Context, id string) (*Site, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	site, ok := repository.byID[id]
	if !ok {
		return nil, apperr.NotFound("Site")
	}

	cloned := *site
	return &cloned, nil
}

// FindByName retrieves a site by its unique name.
func (repository *MemoryRepository) FindByName(_ context.Context, name string) (*Site, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	id, ok := repository.byName[name]
	if !ok {
		return nil, apperr.NotFound("Site")
	}

	cloned := *repository.byID[id]
	return &cloned, nil
}

// List returns all sites ordered by name.
func (repository *MemoryRepository) List(_ context.Context) ([]*Site, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	sites := make([]*Site, 0, len(repository.byID))
	for _, site := range repository.byID {
		cloned := *site
		sites = append(sites, &cloned)
	}

	sort.Slice(sites, func(i, j int) bool { return sites[i].Name < sites[j].Name })
	return sites, nil
}

// Delete removes a site row. Site-scoped data lives in other repositories and
// is removed by the service-level purge hooks.
func (repository *MemoryRepository) Delete(_ context.Context, id string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	site, ok := repository.byID[id]
	if !ok {
		return nil
	}

	delete(repository.byName, site.Name)
	delete(repository.byID, id)
	return nil
}
