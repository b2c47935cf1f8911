package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"automarket/internal/listing/domain"
)

// AccountUsecase runs the account-deletion cascade: remote identity purge
// first, then cleanup of everything the account owned.
type AccountUsecase struct {
	repo     domain.ListingRepository
	storage  domain.ImageStorage
	identity domain.IdentityService
	cache    domain.FeedCache
	events   domain.EventPublisher
	logger   *zap.Logger
}

func NewAccountUsecase(
	repo domain.ListingRepository,
	storage domain.ImageStorage,
	identity domain.IdentityService,
	cache domain.FeedCache,
	events domain.EventPublisher,
	logger *zap.Logger,
) *AccountUsecase {
	return &AccountUsecase{
		repo:     repo,
		storage:  storage,
		identity: identity,
		cache:    cache,
		events:   events,
		logger:   logger,
	}
}

// DeleteAccount removes the account and everything it owns. Nothing is
// mutated until the remote identity deletion succeeds; once it has, the
// account is gone and local cleanup failures are logged but do not fail the
// cascade. Cleanup runs on a context detached from the request so an
// abandoned request cannot tear it down halfway.
func (uc *AccountUsecase) DeleteAccount(ctx context.Context, sess domain.Session) error {
	ctx, span := tracer.Start(ctx, "DeleteAccount")
	defer span.End()

	uc.logger.Info("deleting account", zap.String("user_id", sess.UserID))

	listings, err := uc.repo.FindByOwner(ctx, sess.UserID)
	if err != nil {
		return fmt.Errorf("fetch owned listings: %w", err)
	}

	if err := uc.identity.DeleteUser(ctx, sess.UserID); err != nil {
		uc.logger.Error("identity deletion failed, cascade aborted",
			zap.String("user_id", sess.UserID), zap.Error(err))
		return fmt.Errorf("delete identity: %w", err)
	}

	// Point of no return: the identity record is gone.
	cleanupCtx := context.WithoutCancel(ctx)

	for _, listing := range listings {
		for _, img := range listing.Images {
			if err := uc.storage.Remove(cleanupCtx, img.Path); err != nil {
				uc.logger.Warn("failed to remove image blob during cascade",
					zap.String("user_id", sess.UserID),
					zap.String("path", img.Path),
					zap.Error(err))
			}
		}
	}

	for _, listing := range listings {
		if err := uc.repo.Delete(cleanupCtx, listing.ID, sess.UserID); err != nil {
			uc.logger.Warn("failed to delete listing during cascade",
				zap.String("user_id", sess.UserID),
				zap.String("listing_id", listing.ID),
				zap.Error(err))
		}
	}

	if err := uc.events.Publish(cleanupCtx, "account.deleted", accountEvent{UserID: sess.UserID}); err != nil {
		uc.logger.Warn("event publish failed", zap.String("subject", "account.deleted"), zap.Error(err))
	}
	if err := uc.cache.Invalidate(cleanupCtx); err != nil {
		uc.logger.Warn("feed cache invalidation failed", zap.Error(err))
	}
	return nil
}

type accountEvent struct {
	UserID string `json:"user_id"`
}
