package signals

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/amtrading0706/us-whisperer-pro/internal/domain"
)

// Handler exposes the scan pipelines over HTTP.
type Handler struct {
	service *Service
	log     zerolog.Logger
}

// NewHandler creates a new signals HTTP handler
func NewHandler(service *Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "signals").Logger(),
	}
}

// Routes registers the signal routes on a router.
func (h *Handler) Routes(r chi.Router) {
	r.Post("/scan/earnings", h.scanEarnings)
	r.Post("/scan/filings", h.scanFilings)
	r.Post("/scan/insiders", h.scanInsiders)

	r.Get("/signals/earnings", h.latest(domain.SourceEarnings))
	r.Get("/signals/filings", h.latest(domain.SourceFiling))
	r.Get("/signals/insiders", h.latest(domain.SourceInsider))
}

func (h *Handler) scanEarnings(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.service.ScanEarnings(r.Context()))
}

func (h *Handler) scanFilings(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.service.ScanFilings(r.Context()))
}

func (h *Handler) scanInsiders(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.service.ScanInsiders(r.Context()))
}

func (h *Handler) latest(kind domain.SourceKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, ok := h.service.Latest(kind)
		if !ok {
			h.respondJSON(w, http.StatusNotFound, map[string]string{"error": "no data"})
			return
		}
		h.respondJSON(w, http.StatusOK, result)
	}
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode response")
	}
}
