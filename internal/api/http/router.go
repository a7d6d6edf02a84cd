package http

import (
	"context"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/go-playground/validator/v10"

	"github.com/mbocharov/shortkv/internal/models"
)

type URLService interface {
	ShortenURL(ctx context.Context, originalURL, customCode string, expiresInDays int) (*models.URLRecord, error)
	ResolveShortCode(ctx context.Context, shortCode string) (*models.URLRecord, error)
	DeleteURL(ctx context.Context, shortCode string) error
	GetURLStats(ctx context.Context, shortCode string) (*models.URLRecord, error)
}

func getValidate() *validator.Validate {
	validate := validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return validate
}

// NewRouter wires the API routes and the catch-all redirect route. The
// redirect route is registered last; /api/* is matched first, and codes
// with the literal "api" prefix are refused by the redirect handler so the
// two layers agree on the boundary.
func NewRouter(logger *httplog.Logger, urlSvc URLService, baseURL string) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"POST", "GET", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           84600,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))

		validate := getValidate()

		r.Get("/ping", handlePing)
		r.Post("/shorten", handleShortenURL(urlSvc, validate, baseURL))
		r.Get("/stats/{shortCode}", handleGetURLStats(urlSvc))
		r.Delete("/{shortCode}", handleDeleteURL(urlSvc))
	})

	r.Get("/{shortCode}", handleRedirect(urlSvc))

	return r
}
