package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"automarket/internal/listing/domain"
)

var tracer = otel.Tracer("automarket/listing")

// ListingUsecase drives the listing lifecycle: validated multi-image upload,
// creation, ownership-checked deletion with blob cleanup.
type ListingUsecase struct {
	repo    domain.ListingRepository
	storage domain.ImageStorage
	cache   domain.FeedCache
	events  domain.EventPublisher
	logger  *zap.Logger
}

func NewListingUsecase(
	repo domain.ListingRepository,
	storage domain.ImageStorage,
	cache domain.FeedCache,
	events domain.EventPublisher,
	logger *zap.Logger,
) *ListingUsecase {
	return &ListingUsecase{
		repo:    repo,
		storage: storage,
		cache:   cache,
		events:  events,
		logger:  logger,
	}
}

// CreateListingInput carries the new-listing form fields plus the raw image
// files selected by the user.
type CreateListingInput struct {
	Title       string
	Description string
	Price       float64
	Year        int
	Mileage     int
	PhoneNumber string
	Email       string
	City        string
	Images      []domain.UploadFile
}

func (in *CreateListingInput) validate() error {
	if in.Title == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidListing)
	}
	if in.Description == "" {
		return fmt.Errorf("%w: description is required", domain.ErrInvalidListing)
	}
	if in.Price < 0 {
		return fmt.Errorf("%w: price cannot be negative", domain.ErrInvalidListing)
	}
	if in.Mileage < 0 {
		return fmt.Errorf("%w: mileage cannot be negative", domain.ErrInvalidListing)
	}
	if in.Year < 1900 || in.Year > time.Now().Year()+1 {
		return fmt.Errorf("%w: implausible model year %d", domain.ErrInvalidListing, in.Year)
	}
	return validateImages(in.Images)
}

// validateImages checks every selected file before any upload starts, so a
// rejected submission causes zero storage calls.
func validateImages(files []domain.UploadFile) error {
	if len(files) > domain.MaxImagesPerListing {
		return domain.ErrTooManyImages
	}
	for _, f := range files {
		if len(f.Data) > domain.MaxImageSizeBytes {
			return fmt.Errorf("%w: %s", domain.ErrImageTooLarge, f.Name)
		}
		if !domain.AllowedImageTypes[f.ContentType] {
			return fmt.Errorf("%w: %s", domain.ErrUnsupportedImageType, f.Name)
		}
	}
	return nil
}

// CreateListing validates the whole submission, uploads images sequentially,
// then persists the listing owned by the session user. If an upload or the
// insert fails, already-uploaded blobs for this attempt are removed again so
// a failed submission leaves no orphans behind.
func (uc *ListingUsecase) CreateListing(ctx context.Context, owner domain.Session, input CreateListingInput) (*domain.Listing, error) {
	ctx, span := tracer.Start(ctx, "CreateListing")
	defer span.End()

	uc.logger.Info("creating listing",
		zap.String("owner_id", owner.UserID),
		zap.String("title", input.Title),
		zap.Int("image_count", len(input.Images)))

	if err := input.validate(); err != nil {
		return nil, err
	}

	uploaded := make([]domain.ImageRef, 0, len(input.Images))
	for _, file := range input.Images {
		ref, err := uc.storage.Upload(ctx, owner.UserID, file.Name, file.ContentType, file.Data)
		if err != nil {
			uc.logger.Error("image upload failed, discarding submission",
				zap.String("owner_id", owner.UserID),
				zap.String("file", file.Name),
				zap.Error(err))
			uc.removeBlobs(ctx, uploaded)
			return nil, fmt.Errorf("upload image %s: %w", file.Name, err)
		}
		uploaded = append(uploaded, ref)
	}

	listing := &domain.Listing{
		OwnerID:     owner.UserID,
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		Year:        input.Year,
		Mileage:     input.Mileage,
		Images:      uploaded,
		PhoneNumber: input.PhoneNumber,
		Email:       input.Email,
		City:        input.City,
	}
	if err := uc.repo.Create(ctx, listing); err != nil {
		uc.logger.Error("failed to persist listing", zap.String("owner_id", owner.UserID), zap.Error(err))
		uc.removeBlobs(ctx, uploaded)
		return nil, err
	}

	uc.publish(ctx, "listing.created", listingEvent{ListingID: listing.ID, OwnerID: listing.OwnerID})
	uc.invalidateFeed(ctx)
	return listing, nil
}

// Feed returns all listings, newest first. The Redis cache is consulted
// first; any cache failure falls through to the repository.
func (uc *ListingUsecase) Feed(ctx context.Context) ([]*domain.Listing, error) {
	if cached, err := uc.cache.GetFeed(ctx); err != nil {
		uc.logger.Warn("feed cache read failed", zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}

	listings, err := uc.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if err := uc.cache.SetFeed(ctx, listings); err != nil {
		uc.logger.Warn("feed cache write failed", zap.Error(err))
	}
	return listings, nil
}

// ListByOwner returns the session user's own listings, newest first.
func (uc *ListingUsecase) ListByOwner(ctx context.Context, ownerID string) ([]*domain.Listing, error) {
	return uc.repo.FindByOwner(ctx, ownerID)
}

func (uc *ListingUsecase) GetListing(ctx context.Context, id string) (*domain.Listing, error) {
	listing, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if listing == nil {
		return nil, domain.ErrListingNotFound
	}
	return listing, nil
}

// DeleteListing removes a listing after verifying the requester owns it.
// The record delete is the authoritative success signal; blob removal
// afterwards is best-effort and never fails the operation.
func (uc *ListingUsecase) DeleteListing(ctx context.Context, id string, requester domain.Session) error {
	ctx, span := tracer.Start(ctx, "DeleteListing")
	defer span.End()

	listing, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if listing == nil {
		return domain.ErrListingNotFound
	}
	if listing.OwnerID != requester.UserID {
		uc.logger.Warn("delete refused: requester is not the owner",
			zap.String("listing_id", id),
			zap.String("owner_id", listing.OwnerID),
			zap.String("requester_id", requester.UserID))
		return domain.ErrNotOwner
	}

	if err := uc.repo.Delete(ctx, id, requester.UserID); err != nil {
		if errors.Is(err, domain.ErrListingNotFound) {
			return domain.ErrListingNotFound
		}
		return err
	}

	uc.removeBlobs(ctx, listing.Images)
	uc.publish(ctx, "listing.deleted", listingEvent{ListingID: id, OwnerID: requester.UserID})
	uc.invalidateFeed(ctx)
	return nil
}

// removeBlobs deletes stored images, logging failures instead of returning
// them. A stray blob must never block listing or account deletion.
func (uc *ListingUsecase) removeBlobs(ctx context.Context, images []domain.ImageRef) {
	for _, img := range images {
		if err := uc.storage.Remove(ctx, img.Path); err != nil {
			uc.logger.Warn("failed to remove image blob", zap.String("path", img.Path), zap.Error(err))
		}
	}
}

func (uc *ListingUsecase) publish(ctx context.Context, subject string, event interface{}) {
	if err := uc.events.Publish(ctx, subject, event); err != nil {
		uc.logger.Warn("event publish failed", zap.String("subject", subject), zap.Error(err))
	}
}

func (uc *ListingUsecase) invalidateFeed(ctx context.Context) {
	if err := uc.cache.Invalidate(ctx); err != nil {
		uc.logger.Warn("feed cache invalidation failed", zap.Error(err))
	}
}

type listingEvent struct {
	ListingID string `json:"listing_id"`
	OwnerID   string `json:"owner_id"`
}
