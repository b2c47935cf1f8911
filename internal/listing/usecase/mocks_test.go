package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"automarket/internal/listing/domain"
)

// In-memory fakes recording every call, so tests can assert not only on
// results but on which side effects happened.

type mockRepo struct {
	listings map[string]*domain.Listing
	nextID   int

	createErr error
	findErr   error
	deleteErr error

	createCalls int
	deleteCalls int
}

func newMockRepo() *mockRepo {
	return &mockRepo{listings: map[string]*domain.Listing{}}
}

func (r *mockRepo) add(l *domain.Listing) *domain.Listing {
	r.nextID++
	l.ID = fmt.Sprintf("listing-%d", r.nextID)
	r.listings[l.ID] = l
	return l
}

func (r *mockRepo) Create(ctx context.Context, listing *domain.Listing) error {
	r.createCalls++
	if r.createErr != nil {
		return r.createErr
	}
	listing.CreatedAt = time.Now()
	r.add(listing)
	return nil
}

func (r *mockRepo) FindAll(ctx context.Context) ([]*domain.Listing, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	return r.sorted(func(l *domain.Listing) bool { return true }), nil
}

func (r *mockRepo) FindByOwner(ctx context.Context, ownerID string) ([]*domain.Listing, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	return r.sorted(func(l *domain.Listing) bool { return l.OwnerID == ownerID }), nil
}

func (r *mockRepo) sorted(keep func(*domain.Listing) bool) []*domain.Listing {
	out := []*domain.Listing{}
	for _, l := range r.listings {
		if keep(l) {
			out = append(out, l)
		}
	}
	// newest first
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].CreatedAt.After(out[i].CreatedAt) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out
}

func (r *mockRepo) FindByID(ctx context.Context, id string) (*domain.Listing, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	listing, ok := r.listings[id]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	return listing, nil
}

func (r *mockRepo) Delete(ctx context.Context, id, ownerID string) error {
	r.deleteCalls++
	if r.deleteErr != nil {
		return r.deleteErr
	}
	listing, ok := r.listings[id]
	if !ok || listing.OwnerID != ownerID {
		return domain.ErrListingNotFound
	}
	delete(r.listings, id)
	return nil
}

type mockStorage struct {
	uploadErrAfter int // fail the (n+1)th upload; -1 = never fail
	removeErr      error

	uploads []string // file names in upload order
	removed []string // object paths removed
}

func newMockStorage() *mockStorage {
	return &mockStorage{uploadErrAfter: -1}
}

func (s *mockStorage) Upload(ctx context.Context, ownerID, fileName, contentType string, data []byte) (domain.ImageRef, error) {
	if s.uploadErrAfter >= 0 && len(s.uploads) >= s.uploadErrAfter {
		return domain.ImageRef{}, errors.New("storage unavailable")
	}
	s.uploads = append(s.uploads, fileName)
	path := fmt.Sprintf("%s/%s", ownerID, fileName)
	return domain.ImageRef{Path: path, PublicURL: "https://cdn.example/" + path}, nil
}

func (s *mockStorage) Remove(ctx context.Context, path string) error {
	s.removed = append(s.removed, path)
	return s.removeErr
}

type mockCache struct {
	feed        []*domain.Listing
	invalidated int
}

func (c *mockCache) GetFeed(ctx context.Context) ([]*domain.Listing, error) { return c.feed, nil }

func (c *mockCache) SetFeed(ctx context.Context, listings []*domain.Listing) error {
	c.feed = listings
	return nil
}

func (c *mockCache) Invalidate(ctx context.Context) error {
	c.invalidated++
	c.feed = nil
	return nil
}

type mockEvents struct {
	subjects []string
}

func (e *mockEvents) Publish(ctx context.Context, subject string, data interface{}) error {
	e.subjects = append(e.subjects, subject)
	return nil
}

type mockIdentity struct {
	deleteErr  error
	deletedIDs []string
}

func (m *mockIdentity) DeleteUser(ctx context.Context, userID string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletedIDs = append(m.deletedIDs, userID)
	return nil
}
