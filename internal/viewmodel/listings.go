// internal/viewmodel/listings.go
package viewmodel

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/greenloop/market-client/internal/models"
	"github.com/greenloop/market-client/internal/utils"
)

// ListingDraft is the raw form input for a new listing. Tags arrive
// as free text split on commas; image URL slots may be blank.
type ListingDraft struct {
	Title       string
	Description string
	Price       float64
	Category    string
	Condition   models.Condition
	Images      []string
	Tags        string
}

// DraftValidationError reports local validation failures. Nothing is
// sent to the gateway when one is returned.
type DraftValidationError struct {
	Errors []utils.ValidationError
}

func (e *DraftValidationError) Error() string {
	messages := make([]string, len(e.Errors))
	for i, v := range e.Errors {
		messages[i] = v.Message
	}
	return "invalid listing: " + strings.Join(messages, "; ")
}

// ListingManager owns the session user's listing collection. Creation
// never splices the server response into the local set; it re-fetches
// instead, so server-computed fields (id, timestamps, view counter)
// have a single source. Deletion removes the id locally on success,
// which is safe because a delete has no derived fields to reconcile.
type ListingManager struct {
	gw     ListingGateway
	locks  *LockTable
	logger *logrus.Logger

	mtx      sync.Mutex
	listings []models.Product
}

func NewListingManager(gw ListingGateway, locks *LockTable, logger *logrus.Logger) *ListingManager {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	return &ListingManager{gw: gw, locks: locks, logger: logger}
}

// Refresh replaces the local listing collection with the server's.
func (m *ListingManager) Refresh(ctx context.Context) error {
	listings, err := m.gw.MyProducts(ctx)
	if err != nil {
		return fmt.Errorf("fetch listings: %w", err)
	}

	m.mtx.Lock()
	m.listings = listings
	m.mtx.Unlock()

	return nil
}

// normalize trims image slots, drops blank ones and splits the tag
// text into a clean list.
func (d ListingDraft) normalize() *models.ProductDraft {
	var images []string
	for _, img := range d.Images {
		if trimmed := strings.TrimSpace(img); trimmed != "" {
			images = append(images, trimmed)
		}
	}

	var tags []string
	if strings.TrimSpace(d.Tags) != "" {
		for _, tag := range strings.Split(d.Tags, ",") {
			if trimmed := strings.TrimSpace(tag); trimmed != "" {
				tags = append(tags, trimmed)
			}
		}
	}

	return &models.ProductDraft{
		Title:       strings.TrimSpace(d.Title),
		Description: strings.TrimSpace(d.Description),
		Price:       d.Price,
		Category:    d.Category,
		Condition:   d.Condition,
		Images:      images,
		Tags:        tags,
	}
}

// CreateListing validates the draft locally, submits it, then
// re-fetches the listing collection. A validation failure issues no
// network call.
func (m *ListingManager) CreateListing(ctx context.Context, draft ListingDraft) (*models.Product, error) {
	normalized := draft.normalize()

	if err := utils.ValidateStruct(normalized); err != nil {
		return nil, &DraftValidationError{Errors: utils.GetValidationErrors(err)}
	}

	created, err := m.gw.CreateProduct(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("create listing: %w", err)
	}

	// The collection view reloads rather than splicing the response in.
	if err := m.Refresh(ctx); err != nil {
		m.logger.WithError(err).Warn("Listing created but collection refresh failed")
	}

	return created, nil
}

// DeleteListing removes a listing under its entity lock. User
// confirmation happens before this is invoked. A second delete for
// the same id is rejected until the first settles.
func (m *ListingManager) DeleteListing(ctx context.Context, id string) error {
	if !m.locks.TryAcquire(id) {
		m.logger.WithField("listing_id", id).Debug("Delete rejected, lock held")
		return ErrLocked
	}
	defer m.locks.Release(id)

	if err := m.gw.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("delete listing %s: %w", id, err)
	}

	m.mtx.Lock()
	kept := m.listings[:0]
	for _, p := range m.listings {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	m.listings = kept
	m.mtx.Unlock()

	return nil
}

// Listings returns a snapshot of the local collection.
func (m *ListingManager) Listings() []models.Product {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	listings := make([]models.Product, len(m.listings))
	copy(listings, m.listings)
	return listings
}

// IsDeleting reports whether a mutation for the given listing is
// outstanding.
func (m *ListingManager) IsDeleting(id string) bool {
	return m.locks.IsLocked(id)
}

// ListingStats are the derived counters shown on the listings view.
type ListingStats struct {
	Total     int
	Available int
	Sold      int
}

func (m *ListingManager) Stats() ListingStats {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	stats := ListingStats{Total: len(m.listings)}
	for _, p := range m.listings {
		if p.IsAvailable {
			stats.Available++
		} else {
			stats.Sold++
		}
	}
	return stats
}
