package mongodb

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"automarket/internal/listing/domain"
)

// listingDocument is the MongoDB shape of a listing.
type listingDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	OwnerID     string             `bson:"owner_id"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Price       float64            `bson:"price"`
	Year        int                `bson:"year"`
	Mileage     int                `bson:"mileage"`
	Images      []domain.ImageRef  `bson:"images,omitempty"`
	PhoneNumber string             `bson:"phone_number,omitempty"`
	Email       string             `bson:"email,omitempty"`
	City        string             `bson:"city,omitempty"`
	CreatedAt   time.Time          `bson:"created_at"`
}

func toListingDocument(l *domain.Listing) (*listingDocument, error) {
	if l == nil {
		return nil, nil
	}

	docID := primitive.NilObjectID
	if l.ID != "" {
		var err error
		docID, err = primitive.ObjectIDFromHex(l.ID)
		if err != nil {
			return nil, fmt.Errorf("invalid listing id %q: %w", l.ID, err)
		}
	}

	return &listingDocument{
		ID:          docID,
		OwnerID:     l.OwnerID,
		Title:       l.Title,
		Description: l.Description,
		Price:       l.Price,
		Year:        l.Year,
		Mileage:     l.Mileage,
		Images:      l.Images,
		PhoneNumber: l.PhoneNumber,
		Email:       l.Email,
		City:        l.City,
		CreatedAt:   l.CreatedAt,
	}, nil
}

func toDomainListing(d *listingDocument) *domain.Listing {
	if d == nil {
		return nil
	}
	return &domain.Listing{
		ID:          d.ID.Hex(),
		OwnerID:     d.OwnerID,
		Title:       d.Title,
		Description: d.Description,
		Price:       d.Price,
		Year:        d.Year,
		Mileage:     d.Mileage,
		Images:      d.Images,
		PhoneNumber: d.PhoneNumber,
		Email:       d.Email,
		City:        d.City,
		CreatedAt:   d.CreatedAt,
	}
}

func toDomainListings(docs []*listingDocument) []*domain.Listing {
	listings := make([]*domain.Listing, 0, len(docs))
	for _, doc := range docs {
		listings = append(listings, toDomainListing(doc))
	}
	return listings
}
