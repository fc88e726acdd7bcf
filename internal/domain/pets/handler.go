package pets

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"vitalpet/internal/domain/appointments"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, apptSvc *appointments.Service) {
	r.Route("/pets", func(pr chi.Router) {
		pr.Post("/", createHandler(svc))
		pr.Get("/", listHandler(svc))

		pr.Get("/{petID}", getHandler(svc))
		pr.Put("/{petID}", updateHandler(svc))
		pr.Delete("/{petID}", deleteHandler(svc))

		pr.Get("/{petID}/appointments", listAppointmentsHandler(svc, apptSvc))
	})
}

type petRequest struct {
	ClientID string   `json:"client_id"`
	Name     string   `json:"name"`
	Species  string   `json:"species"`
	Breed    string   `json:"breed"`
	AgeYears *int     `json:"age_years"`
	WeightKg *float64 `json:"weight_kg"`
	Notes    string   `json:"notes"`
}

// PetResponse se exporta porque el módulo de clientes la reutiliza en
// GET /clients/{id}/pets.
type PetResponse struct {
	ID           string    `json:"id"`
	ClientID     string    `json:"client_id"`
	Name         string    `json:"name"`
	Species      Species   `json:"species"`
	Breed        string    `json:"breed,omitempty"`
	AgeYears     *int      `json:"age_years,omitempty"`
	WeightKg     *float64  `json:"weight_kg,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	RegisteredAt time.Time `json:"registered_at"`
}

func createHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req petRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.Create(r.Context(), CreateInput{
			ClientID: req.ClientID,
			Name:     req.Name,
			Species:  req.Species,
			Breed:    req.Breed,
			AgeYears: req.AgeYears,
			WeightKg: req.WeightKg,
			Notes:    req.Notes,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, ToResponse(p))
	}
}

func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ToResponses(items))
	}
}

func getHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ToResponse(p))
	}
}

func updateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req petRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		p, err := svc.Update(r.Context(), chi.URLParam(r, "petID"), CreateInput{
			Name:     req.Name,
			Species:  req.Species,
			Breed:    req.Breed,
			AgeYears: req.AgeYears,
			WeightKg: req.WeightKg,
			Notes:    req.Notes,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, ToResponse(p))
	}
}

// deleteHandler borra la mascota. No toca sus citas.
func deleteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "petID")); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

func listAppointmentsHandler(svc *Service, apptSvc *appointments.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		petID := chi.URLParam(r, "petID")

		if _, err := svc.GetByID(r.Context(), petID); err != nil {
			writeError(w, err)
			return
		}

		items, err := apptSvc.ListByPet(r.Context(), petID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, appointments.ToResponses(items))
	}
}

func ToResponse(p Pet) PetResponse {
	return PetResponse{
		ID:           p.ID,
		ClientID:     p.ClientID,
		Name:         p.Name,
		Species:      p.Species,
		Breed:        p.Breed,
		AgeYears:     p.AgeYears,
		WeightKg:     p.WeightKg,
		Notes:        p.Notes,
		RegisteredAt: p.RegisteredAt,
	}
}

func ToResponses(items []Pet) []PetResponse {
	out := make([]PetResponse, 0, len(items))
	for _, p := range items {
		out = append(out, ToResponse(p))
	}
	return out
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "pet not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
