package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"github.com/mbocharov/shortkv/internal/models"
	"github.com/mbocharov/shortkv/internal/service"
	"github.com/mbocharov/shortkv/internal/shortener"
	"github.com/mbocharov/shortkv/pkg/response"
)

func handlePing(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintln(w, "pong")
}

type shortenRequest struct {
	URL           string `json:"url" validate:"required,max=2048"`
	CustomCode    string `json:"customCode"`
	ExpiresInDays int    `json:"expiresInDays" validate:"omitempty,min=1,max=365"`
}

type shortenResponse struct {
	ShortCode   string     `json:"shortCode"`
	OriginalURL string     `json:"originalUrl"`
	ShortURL    string     `json:"shortUrl"`
	CreatedAt   time.Time  `json:"createdAt"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
}

type statsResponse struct {
	ShortCode    string     `json:"shortCode"`
	OriginalURL  string     `json:"originalUrl"`
	CreatedAt    time.Time  `json:"createdAt"`
	ExpiresAt    *time.Time `json:"expiresAt,omitempty"`
	ClickCount   int64      `json:"clickCount"`
	LastAccessed *time.Time `json:"lastAccessed,omitempty"`
}

// shortURLFor builds the public short link. The configured base URL wins;
// without one the link is derived from the request the way the original
// origin would be.
func shortURLFor(r *http.Request, baseURL, shortCode string) string {
	if baseURL != "" {
		return strings.TrimRight(baseURL, "/") + "/" + shortCode
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}

	return fmt.Sprintf("%s://%s/%s", scheme, r.Host, shortCode)
}

func handleShortenURL(svc URLService, validate *validator.Validate, baseURL string) http.HandlerFunc {
	const op = "api.http.handleShortenURL"

	return func(w http.ResponseWriter, r *http.Request) {
		var req shortenRequest

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			if errors.Is(err, io.EOF) {
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.EmptyRequestBodyResponse)
				return
			}

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.BadRequestResponse)
			return
		}

		if err := validate.Struct(req); err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationErrorResponse(err))
			return
		}

		record, err := svc.ShortenURL(r.Context(), req.URL, req.CustomCode, req.ExpiresInDays)
		if err != nil {
			switch {
			case errors.Is(err, shortener.ErrInvalidURL):
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error("invalid URL: must be a reachable http(s) address"))
			case errors.Is(err, shortener.ErrInvalidCode):
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error("invalid custom code: 3-10 alphanumeric characters, not all digits, not reserved"))
			case errors.Is(err, service.ErrInvalidExpiry):
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, response.Error("expiresInDays must be between 1 and 365"))
			case errors.Is(err, shortener.ErrCodeTaken):
				render.Status(r, http.StatusConflict)
				render.JSON(w, r, response.Error("custom code is already taken"))
			case errors.Is(err, shortener.ErrGenerationExhausted):
				httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("could not generate a unique short code, try again"))
			default:
				httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.ServerErrorResponse)
			}
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, shortenResponse{
			ShortCode:   record.ShortCode,
			OriginalURL: record.OriginalURL,
			ShortURL:    shortURLFor(r, baseURL, record.ShortCode),
			CreatedAt:   record.CreatedAt,
			ExpiresAt:   record.ExpiresAt,
		})
	}
}

func handleGetURLStats(svc URLService) http.HandlerFunc {
	const op = "api.http.handleGetURLStats"

	return func(w http.ResponseWriter, r *http.Request) {
		shortCode := chi.URLParam(r, "shortCode")

		if !shortener.IsValidFormat(shortCode) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid short code"))
			return
		}

		record, err := svc.GetURLStats(r.Context(), shortCode)
		if err != nil {
			if errors.Is(err, shortener.ErrURLNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("short url not found"))
				return
			}

			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, toStatsResponse(record))
	}
}

func handleDeleteURL(svc URLService) http.HandlerFunc {
	const op = "api.http.handleDeleteURL"

	return func(w http.ResponseWriter, r *http.Request) {
		shortCode := chi.URLParam(r, "shortCode")

		if !shortener.IsValidFormat(shortCode) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid short code"))
			return
		}

		if err := svc.DeleteURL(r.Context(), shortCode); err != nil {
			if errors.Is(err, shortener.ErrURLNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, response.Error("short url not found"))
				return
			}

			httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
			return
		}

		render.Status(r, http.StatusOK)
		render.JSON(w, r, response.Message("short url deleted"))
	}
}

// handleRedirect resolves a short code and issues the 302. Errors here are
// plain text: the caller is a browser following a link, not an API client.
func handleRedirect(svc URLService) http.HandlerFunc {
	const op = "api.http.handleRedirect"

	return func(w http.ResponseWriter, r *http.Request) {
		shortCode := chi.URLParam(r, "shortCode")

		if shortCode == "" {
			http.Error(w, "short code is required", http.StatusBadRequest)
			return
		}

		// Codes with the "api" prefix belong to the API namespace and are
		// never assignable, so they cannot resolve.
		if strings.HasPrefix(shortCode, "api") {
			http.NotFound(w, r)
			return
		}

		record, err := svc.ResolveShortCode(r.Context(), shortCode)
		if err != nil {
			switch {
			case errors.Is(err, shortener.ErrURLNotFound):
				http.NotFound(w, r)
			case errors.Is(err, shortener.ErrURLExpired):
				http.Error(w, "short url expired", http.StatusGone)
			default:
				httplog.LogEntrySetFields(r.Context(), map[string]any{"op": op, "err": err})

				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
			return
		}

		http.Redirect(w, r, record.OriginalURL, http.StatusFound)
	}
}

func toStatsResponse(record *models.URLRecord) statsResponse {
	return statsResponse{
		ShortCode:    record.ShortCode,
		OriginalURL:  record.OriginalURL,
		CreatedAt:    record.CreatedAt,
		ExpiresAt:    record.ExpiresAt,
		ClickCount:   record.ClickCount,
		LastAccessed: record.LastAccessed,
	}
}
