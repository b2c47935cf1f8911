package domain

import "errors"

var (
	ErrListingNotFound      = errors.New("listing not found")
	ErrNotOwner             = errors.New("user is not the owner of this listing")
	ErrInvalidListing       = errors.New("invalid listing data")
	ErrTooManyImages        = errors.New("a listing can have at most 3 images")
	ErrImageTooLarge        = errors.New("image exceeds the 2 MiB size limit")
	ErrUnsupportedImageType = errors.New("image format not supported (JPEG or PNG only)")
)
