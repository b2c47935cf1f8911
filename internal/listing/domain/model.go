package domain

import "time"

// Image upload rules. Validation happens in the usecase before any upload
// starts, and again in the storage adapter.
const (
	MaxImagesPerListing = 3
	MaxImageSizeBytes   = 2 << 20 // 2 MiB
)

// AllowedImageTypes are the content types accepted for listing photos.
var AllowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
}

// ImageRef is a stored listing photo: the object path inside the bucket and
// the public URL derived from it. The path is persisted with the listing so
// deletion never has to re-derive it from the URL.
type ImageRef struct {
	Path      string `bson:"path" json:"path"`
	PublicURL string `bson:"public_url" json:"public_url"`
}

// Listing is a car-for-sale advertisement. OwnerID is set from the
// authenticated session at creation and never changes.
type Listing struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	Price       float64
	Year        int
	Mileage     int
	Images      []ImageRef
	PhoneNumber string
	Email       string
	City        string
	CreatedAt   time.Time
}

// Coordinates is a geocoded point for the listing's city.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Session identifies the authenticated account behind a request.
type Session struct {
	UserID      string
	Email       string
	AccessToken string
}

// UploadFile is one image selected on the new-listing form.
type UploadFile struct {
	Name        string
	ContentType string
	Data        []byte
}
