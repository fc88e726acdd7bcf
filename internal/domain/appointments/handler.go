package appointments

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/appointments", func(ar chi.Router) {
		ar.Get("/", listHandler(svc))
		ar.Post("/", createHandler(svc))

		// Purga administrativa: borra todo lo que no esté pending.
		ar.Delete("/non-pending", purgeHandler(svc))

		ar.Get("/{appointmentID}", getHandler(svc))
		ar.Post("/{appointmentID}/complete", completeHandler(svc))
		ar.Post("/{appointmentID}/cancel", cancelHandler(svc))
		ar.Post("/{appointmentID}/postpone", postponeHandler(svc))
	})

	r.Get("/availability", availabilityHandler(svc))
	r.Get("/schedule/week", weekViewHandler(svc))
	r.Get("/history", historyHandler(svc))
}

type createRequest struct {
	PetID  string `json:"pet_id"`
	Date   string `json:"date"` // YYYY-MM-DD
	Time   string `json:"time"` // HH:MM
	Reason string `json:"reason"`
}

type postponeRequest struct {
	Date   string `json:"date"`
	Time   string `json:"time"`
	Reason string `json:"reason"`
}

// Response se exporta porque el módulo de mascotas la reutiliza en
// GET /pets/{id}/appointments.
type Response struct {
	ID             string     `json:"id"`
	PetID          string     `json:"pet_id"`
	Date           string     `json:"date"`
	Time           string     `json:"time"`
	Reason         string     `json:"reason"`
	Status         Status     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	CancelledAt    *time.Time `json:"cancelled_at,omitempty"`
	OriginalDate   string     `json:"original_date,omitempty"`
	OriginalTime   string     `json:"original_time,omitempty"`
	PostponeReason string     `json:"postpone_reason,omitempty"`
}

type availabilityResponse struct {
	Date  string   `json:"date"`
	Slots []string `json:"slots"`
}

type purgeResponse struct {
	Deleted int `json:"deleted"`
}

// createHandler godoc
// @Summary Agenda una cita; 409 si el slot ya está ocupado
// @Accept json
// @Produce json
// @Router /appointments [post]
func createHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		a, err := svc.Create(r.Context(), CreateInput{
			PetID:  req.PetID,
			Date:   req.Date,
			Time:   req.Time,
			Reason: req.Reason,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, ToResponse(a))
	}
}

func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filter := ListFilter{
			Date:   r.URL.Query().Get("date"),
			Status: Status(r.URL.Query().Get("status")),
		}

		items, err := svc.List(r.Context(), filter)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ToResponses(items))
	}
}

func getHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.GetByID(r.Context(), chi.URLParam(r, "appointmentID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ToResponse(a))
	}
}

func completeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.Complete(r.Context(), chi.URLParam(r, "appointmentID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ToResponse(a))
	}
}

func cancelHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.Cancel(r.Context(), chi.URLParam(r, "appointmentID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ToResponse(a))
	}
}

func postponeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req postponeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		a, err := svc.Postpone(r.Context(), chi.URLParam(r, "appointmentID"), req.Date, req.Time, req.Reason)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ToResponse(a))
	}
}

func purgeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		deleted, err := svc.PurgeNonPending(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, purgeResponse{Deleted: deleted})
	}
}

// availabilityHandler godoc
// @Summary Horas libres de una fecha
// @Param date query string true "YYYY-MM-DD"
// @Param exclude query string false "cita a excluir (edición/aplazo)"
// @Produce json
// @Router /availability [get]
func availabilityHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date := r.URL.Query().Get("date")
		exclude := r.URL.Query().Get("exclude")

		slots, err := svc.AvailableSlots(r.Context(), date, exclude)
		if err != nil {
			if errors.Is(err, ErrNoDate) {
				http.Error(w, "select a date first", http.StatusBadRequest)
				return
			}
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, availabilityResponse{Date: date, Slots: slots})
	}
}

func weekViewHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := svc.ComputeWeekView(r.Context(), r.URL.Query().Get("start"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

// historyHandler lista las visitas ya atendidas (la vista "historial").
func historyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context(), ListFilter{Status: StatusCompleted})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ToResponses(items))
	}
}

func ToResponse(a Appointment) Response {
	return Response{
		ID:             a.ID,
		PetID:          a.PetID,
		Date:           a.Date,
		Time:           a.Time,
		Reason:         a.Reason,
		Status:         a.Status,
		CreatedAt:      a.CreatedAt,
		CompletedAt:    a.CompletedAt,
		CancelledAt:    a.CancelledAt,
		OriginalDate:   a.OriginalDate,
		OriginalTime:   a.OriginalTime,
		PostponeReason: a.PostponeReason,
	}
}

func ToResponses(items []Appointment) []Response {
	out := make([]Response, 0, len(items))
	for _, a := range items {
		out = append(out, ToResponse(a))
	}
	return out
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "appointment not found", http.StatusNotFound)
	case errors.Is(err, ErrConflict):
		http.Error(w, "slot already booked", http.StatusConflict)
	case errors.Is(err, ErrInvalidTransition):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// writeJSON duplicado a propósito por módulo, igual que en el resto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
