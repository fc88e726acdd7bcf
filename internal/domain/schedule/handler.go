package schedule

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	// Sin Route/Mount: /schedule/week lo registra el módulo de citas y
	// un mount con wildcard acá chocaría con ese path.
	r.Get("/schedule", getConfigHandler(svc))
	r.Put("/schedule", replaceConfigHandler(svc))

	r.Route("/holidays", func(hr chi.Router) {
		hr.Get("/", listHolidaysHandler(svc))
		hr.Post("/", addHolidayHandler(svc))
		hr.Delete("/{holidayID}", removeHolidayHandler(svc))
	})
}

type addHolidayRequest struct {
	Date   string `json:"date"` // YYYY-MM-DD
	Reason string `json:"reason"`
}

type holidayResponse struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

// getConfigHandler godoc
// @Summary Horario semanal vigente (se siembra el default en el primer uso)
// @Produce json
// @Success 200 {object} schedule.Config
// @Router /schedule [get]
func getConfigHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg, err := svc.GetConfig(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, cfg)
	}
}

func replaceConfigHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var cfg Config
		if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		if err := svc.ReplaceConfig(r.Context(), cfg); err != nil {
			if errors.Is(err, ErrInvalidConfig) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, cfg)
	}
}

func listHolidaysHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListHolidays(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]holidayResponse, 0, len(items))
		for _, h := range items {
			out = append(out, toHolidayResponse(h))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func addHolidayHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addHolidayRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		h, err := svc.AddHoliday(r.Context(), req.Date, req.Reason)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toHolidayResponse(h))
	}
}

func removeHolidayHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "holidayID")
		if err := svc.RemoveHoliday(r.Context(), id); err != nil {
			switch {
			case errors.Is(err, ErrNotFound):
				http.Error(w, "holiday not found", http.StatusNotFound)
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func toHolidayResponse(h Holiday) holidayResponse {
	return holidayResponse{
		ID:        h.ID,
		Date:      h.Date,
		Reason:    h.Reason,
		CreatedAt: h.CreatedAt,
	}
}

// writeJSON se repite en los handlers de cada módulo a propósito;
// extraer un helper común recién vale la pena si sigue creciendo.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
