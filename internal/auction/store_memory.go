// Copyright (c) 2026 Gavella. All rights reserved.

package auction

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/gavella/gavella/internal/platform/apperr"
)

// MemoryRepository is an in-memory implementation of [Repository] for tests
// and local development.
//
// Per-auction mutual exclusion uses a keyed mutex: ResolveBid locks only the
// targeted auction, so bids on different auctions proceed concurrently, the
// same guarantee the Postgres row lock gives.
type MemoryRepository struct {
	mu     sync.RWMutex
	byKey  map[string]*Auction
	nextID int64

	lockMu sync.Mutex
	locks  map[string]*sync.Mutex
}

// NewMemoryRepository creates an empty in-memory auction Repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byKey:  make(map[string]*Auction),
		nextID: 1,
		locks:  make(map[string]*sync.Mutex),
	}
}

func auctionKey(siteID string, id int64) string {
	return fmt.Sprintf("%s/%d", siteID, id)
}

// lockFor returns the mutex dedicated to one auction, creating it on first use.
func (repository *MemoryRepository) lockFor(key string) *sync.Mutex {
	repository.lockMu.Lock()
	defer repository.lockMu.Unlock()

	lock, ok := repository.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		repository.locks[key] = lock
	}
	return lock
}

// Create stores a new auction and assigns the next sequence ID.
func (repository *MemoryRepository) Create(_ context.Context, auction *Auction) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	auction.ID = repository.nextID
	repository.nextID++

	cloned := *auction
	repository.byKey[auctionKey(auction.SiteID, auction.ID)] = &cloned
	return nil
}

// FindByID retrieves an auction by its site-scoped identity.
func (repository *MemoryRepository) FindByID(_ context.Context, siteID string, id int64) (*Auction, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	auction, ok := repository.byKey[auctionKey(siteID, id)]
	if !ok {
		return nil, apperr.NotFound("Auction")
	}

	cloned := *auction
	return &cloned, nil
}

// ListBySite returns all auctions of a site ordered by ID.
func (repository *MemoryRepository) ListBySite(_ context.Context, siteID string) ([]*Auction, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	auctions := make([]*Auction, 0)
	for _, auction := range repository.byKey {
		if auction.SiteID == siteID {
			cloned := *auction
			auctions = append(auctions, &cloned)
		}
	}

	sort.Slice(auctions, func(i, j int) bool { return auctions[i].ID < auctions[j].ID })
	return auctions, nil
}

// ListWonByUser returns ended auctions whose final winner is the user.
func (repository *MemoryRepository) ListWonByUser(_ context.Context, siteID, userID string, now time.Time) ([]*Auction, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	won := make([]*Auction, 0)
	for _, auction := range repository.byKey {
		if auction.SiteID != siteID || auction.OpenAt(now) {
			continue
		}
		if auction.WinnerID != nil && *auction.WinnerID == userID {
			cloned := *auction
			won = append(won, &cloned)
		}
	}

	sort.Slice(won, func(i, j int) bool { return won[i].EndsOn.After(won[j].EndsOn) })
	return won, nil
}

// HasOpenInvolvement reports whether the user is seller or current winner of
// any open auction.
func (repository *MemoryRepository) HasOpenInvolvement(_ context.Context, siteID, userID string, now time.Time) (bool, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	for _, auction := range repository.byKey {
		if auction.SiteID != siteID || !auction.OpenAt(now) {
			continue
		}
		if auction.SellerID == userID {
			return true, nil
		}
		if auction.WinnerID != nil && *auction.WinnerID == userID {
			return true, nil
		}
	}
	return false, nil
}

// ResolveBid executes fn under the auction's keyed mutex.
func (repository *MemoryRepository) ResolveBid(_ context.Context, siteID string, id int64, fn ResolveFunc) (bool, error) {
	key := auctionKey(siteID, id)

	lock := repository.lockFor(key)
	lock.Lock()
	defer lock.Unlock()

	repository.mu.RLock()
	stored, ok := repository.byKey[key]
	repository.mu.RUnlock()
	if !ok {
		return false, apperr.NotFound("Auction")
	}

	// fn works on a copy; the stored record only changes on success.
	working := *stored
	accepted, err := fn(&working)
	if err != nil {
		return false, err
	}

	repository.mu.Lock()
	stored.Price = working.Price
	stored.WinnerID = working.WinnerID
	stored.Ceiling = working.Ceiling
	repository.mu.Unlock()

	return accepted, nil
}

// Delete removes an auction unconditionally.
func (repository *MemoryRepository) Delete(_ context.Context, siteID string, id int64) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	delete(repository.byKey, auctionKey(siteID, id))
	return nil
}

// DeleteBySite removes every auction of a site.
func (repository *MemoryRepository) DeleteBySite(_ context.Context, siteID string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	for key, auction := range repository.byKey {
		if auction.SiteID == siteID {
			delete(repository.byKey, key)
		}
	}
	return nil
}
