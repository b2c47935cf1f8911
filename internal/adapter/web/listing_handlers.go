package web

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"automarket/internal/listing/domain"
	"automarket/internal/listing/usecase"
)

// maxUploadBytes bounds the whole multipart body: three maximum-size images
// plus headroom for the text fields.
const maxUploadBytes = domain.MaxImagesPerListing*domain.MaxImageSizeBytes + 1<<20

type detailData struct {
	Listing *domain.Listing
	Coords  *domain.Coordinates
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	listings, err := s.listings.Feed(r.Context())
	if err != nil {
		s.logger.Error("failed to load feed", zap.Error(err))
		s.render(w, r, http.StatusInternalServerError, "home", pageData{Error: "Could not load listings. Please try again."})
		return
	}
	s.render(w, r, http.StatusOK, "home", pageData{Data: listings})
}

func (s *Server) handleCarDetails(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	listing, err := s.listings.GetListing(r.Context(), id)
	if errors.Is(err, domain.ErrListingNotFound) {
		s.render(w, r, http.StatusNotFound, "not_found", pageData{})
		return
	}
	if err != nil {
		s.logger.Error("failed to load listing", zap.String("listing_id", id), zap.Error(err))
		s.render(w, r, http.StatusInternalServerError, "not_found", pageData{Error: "Could not load this listing."})
		return
	}

	// Map display is best-effort: an unresolved city just hides the map.
	var coords *domain.Coordinates
	if listing.City != "" {
		coords, err = s.geocoder.ResolveCity(r.Context(), listing.City)
		if err != nil {
			s.logger.Warn("geocoding failed", zap.String("city", listing.City), zap.Error(err))
			coords = nil
		}
	}

	s.render(w, r, http.StatusOK, "detail", pageData{Data: detailData{Listing: listing, Coords: coords}})
}

func (s *Server) handleNewListingForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "new_listing", pageData{})
}

func (s *Server) handleNewListing(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.render(w, r, http.StatusBadRequest, "new_listing", pageData{Error: "Upload too large: images are limited to 2 MiB each."})
		return
	}

	input, err := parseListingForm(r)
	if err != nil {
		s.render(w, r, http.StatusBadRequest, "new_listing", pageData{Error: err.Error()})
		return
	}

	_, err = s.listings.CreateListing(r.Context(), *sess, *input)
	if err != nil {
		status := http.StatusInternalServerError
		msg := "Could not publish the listing. Please try again."
		if isValidationError(err) {
			status = http.StatusBadRequest
			msg = err.Error()
		}
		s.render(w, r, status, "new_listing", pageData{Error: msg})
		return
	}

	http.Redirect(w, r, "/my-listings", http.StatusSeeOther)
}

func (s *Server) handleMyListings(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	listings, err := s.listings.ListByOwner(r.Context(), sess.UserID)
	if err != nil {
		s.logger.Error("failed to load own listings", zap.String("user_id", sess.UserID), zap.Error(err))
		s.render(w, r, http.StatusInternalServerError, "my_listings", pageData{Error: "Could not load your listings."})
		return
	}
	s.render(w, r, http.StatusOK, "my_listings", pageData{Data: listings})
}

func (s *Server) handleDeleteListing(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	id := chi.URLParam(r, "id")

	err := s.listings.DeleteListing(r.Context(), id, *sess)
	switch {
	case errors.Is(err, domain.ErrListingNotFound):
		s.render(w, r, http.StatusNotFound, "not_found", pageData{})
		return
	case errors.Is(err, domain.ErrNotOwner):
		// Generic failure, no detail leaked about someone else's listing.
		s.renderMyListingsError(w, r, http.StatusForbidden, "Could not delete this listing.")
		return
	case err != nil:
		s.logger.Error("failed to delete listing", zap.String("listing_id", id), zap.Error(err))
		s.renderMyListingsError(w, r, http.StatusInternalServerError, "Could not delete this listing. Please try again.")
		return
	}

	http.Redirect(w, r, "/my-listings", http.StatusSeeOther)
}

func (s *Server) renderMyListingsError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	sess := sessionFrom(r.Context())
	listings, err := s.listings.ListByOwner(r.Context(), sess.UserID)
	if err != nil {
		listings = nil
	}
	s.render(w, r, status, "my_listings", pageData{Error: msg, Data: listings})
}

// parseListingForm converts the multipart form into a workflow input,
// reading every selected image into memory.
func parseListingForm(r *http.Request) (*usecase.CreateListingInput, error) {
	price, err := strconv.ParseFloat(r.FormValue("price"), 64)
	if err != nil {
		return nil, errors.New("price must be a number")
	}
	year, err := strconv.Atoi(r.FormValue("year"))
	if err != nil {
		return nil, errors.New("year must be a number")
	}
	mileage, err := strconv.Atoi(r.FormValue("mileage"))
	if err != nil {
		return nil, errors.New("mileage must be a number")
	}

	var files []domain.UploadFile
	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["images"] {
			file, err := readUpload(header)
			if err != nil {
				return nil, err
			}
			files = append(files, *file)
		}
	}

	return &usecase.CreateListingInput{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Price:       price,
		Year:        year,
		Mileage:     mileage,
		PhoneNumber: r.FormValue("phone_number"),
		Email:       r.FormValue("email"),
		City:        r.FormValue("city"),
		Images:      files,
	}, nil
}

func readUpload(header *multipart.FileHeader) (*domain.UploadFile, error) {
	src, err := header.Open()
	if err != nil {
		return nil, errors.New("could not read an uploaded file")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, errors.New("could not read an uploaded file")
	}
	return &domain.UploadFile{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func isValidationError(err error) bool {
	return errors.Is(err, domain.ErrInvalidListing) ||
		errors.Is(err, domain.ErrTooManyImages) ||
		errors.Is(err, domain.ErrImageTooLarge) ||
		errors.Is(err, domain.ErrUnsupportedImageType)
}
