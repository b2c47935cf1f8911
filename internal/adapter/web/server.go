// Package web serves the AutoMarket pages: public feed, listing detail with
// map, auth forms, my-listings management and account deletion.
package web

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"automarket/internal/listing/domain"
	"automarket/internal/listing/usecase"
)

// ListingService is the slice of the listing workflow the handlers use.
type ListingService interface {
	CreateListing(ctx context.Context, owner domain.Session, input usecase.CreateListingInput) (*domain.Listing, error)
	Feed(ctx context.Context) ([]*domain.Listing, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Listing, error)
	GetListing(ctx context.Context, id string) (*domain.Listing, error)
	DeleteListing(ctx context.Context, id string, requester domain.Session) error
}

// AccountService runs the account-deletion cascade.
type AccountService interface {
	DeleteAccount(ctx context.Context, sess domain.Session) error
}

// AuthClient wraps the hosted identity provider's session operations.
type AuthClient interface {
	SignUp(ctx context.Context, email, password string) error
	SignIn(ctx context.Context, email, password string) (*domain.Session, error)
	SignOut(ctx context.Context, accessToken string) error
}

type Server struct {
	listings      ListingService
	accounts      AccountService
	auth          AuthClient
	geocoder      domain.Geocoder
	sessionSecret string
	logger        *zap.Logger
}

func NewServer(
	listings ListingService,
	accounts AccountService,
	auth AuthClient,
	geocoder domain.Geocoder,
	sessionSecret string,
	logger *zap.Logger,
) *Server {
	return &Server{
		listings:      listings,
		accounts:      accounts,
		auth:          auth,
		geocoder:      geocoder,
		sessionSecret: sessionSecret,
		logger:        logger,
	}
}

// Router builds the chi router with all application routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(requestLogger(s.logger))
	r.Use(s.withSession)

	r.Get("/", s.handleHome)
	r.Get("/car/{id}", s.handleCarDetails)
	r.Get("/login", s.handleLoginForm)
	r.Post("/login", s.handleLogin)
	r.Get("/register", s.handleRegisterForm)
	r.Post("/register", s.handleRegister)
	r.Post("/logout", s.handleLogout)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Get("/new-listing", s.handleNewListingForm)
		r.Post("/new-listing", s.handleNewListing)
		r.Get("/my-listings", s.handleMyListings)
		r.Post("/my-listings/{id}/delete", s.handleDeleteListing)
		r.Get("/unsubscribe", s.handleUnsubscribeForm)
		r.Post("/unsubscribe", s.handleUnsubscribe)
	})

	return r
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
			logger.Debug("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path))
		})
	}
}
