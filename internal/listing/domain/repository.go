package domain

import "context"

// ListingRepository is the persistence port for the listings collection.
// FindAll and FindByOwner return listings sorted by creation time descending.
type ListingRepository interface {
	Create(ctx context.Context, listing *Listing) error
	FindAll(ctx context.Context) ([]*Listing, error)
	FindByOwner(ctx context.Context, ownerID string) ([]*Listing, error)
	FindByID(ctx context.Context, id string) (*Listing, error)
	// Delete removes the listing only when ownerID matches the stored owner.
	Delete(ctx context.Context, id, ownerID string) error
}

// ImageStorage uploads listing photos to the blob store and removes them.
// Objects are namespaced under a per-owner prefix.
type ImageStorage interface {
	Upload(ctx context.Context, ownerID, fileName, contentType string, data []byte) (ImageRef, error)
	Remove(ctx context.Context, path string) error
}

// Geocoder resolves a free-text city name to coordinates. A nil result with
// a nil error means the city could not be resolved; callers must cope.
type Geocoder interface {
	ResolveCity(ctx context.Context, name string) (*Coordinates, error)
}

// IdentityService is the slice of the hosted auth provider the lifecycle
// workflow needs: the server-side account purge used by the deletion cascade.
type IdentityService interface {
	DeleteUser(ctx context.Context, userID string) error
}

// EventPublisher emits lifecycle events. Publishing is best-effort.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}

// FeedCache caches the public feed. A nil, nil return is a cache miss.
type FeedCache interface {
	GetFeed(ctx context.Context) ([]*Listing, error)
	SetFeed(ctx context.Context, listings []*Listing) error
	Invalidate(ctx context.Context) error
}
