package clients

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"vitalpet/internal/domain/pets"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, petsSvc *pets.Service) {
	r.Route("/clients", func(cr chi.Router) {
		cr.Post("/", createHandler(svc))
		cr.Get("/", listHandler(svc))

		cr.Get("/{clientID}", getHandler(svc))
		cr.Put("/{clientID}", updateHandler(svc))
		cr.Delete("/{clientID}", deleteHandler(svc, petsSvc))

		cr.Get("/{clientID}/pets", listPetsHandler(svc, petsSvc))
	})
}

type clientRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
}

type clientResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email,omitempty"`
	Address      string    `json:"address,omitempty"`
	RegisteredAt time.Time `json:"registered_at"`
}

func createHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req clientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		c, err := svc.Create(r.Context(), CreateInput{
			Name:    req.Name,
			Phone:   req.Phone,
			Email:   req.Email,
			Address: req.Address,
		})
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toResponse(c))
	}
}

func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}

		out := make([]clientResponse, 0, len(items))
		for _, c := range items {
			out = append(out, toResponse(c))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := svc.GetByID(r.Context(), chi.URLParam(r, "clientID"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(c))
	}
}

func updateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req clientRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		c, err := svc.Update(r.Context(), chi.URLParam(r, "clientID"), CreateInput{
			Name:    req.Name,
			Phone:   req.Phone,
			Email:   req.Email,
			Address: req.Address,
		})
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toResponse(c))
	}
}

// deleteHandler borra el cliente y, en cascada, todas sus mascotas.
// Las citas de esas mascotas quedan como están (historial).
func deleteHandler(svc *Service, petsSvc *pets.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID := chi.URLParam(r, "clientID")

		if _, err := svc.GetByID(r.Context(), clientID); err != nil {
			writeError(w, err)
			return
		}

		if err := svc.Delete(r.Context(), clientID); err != nil {
			writeError(w, err)
			return
		}

		deletedPets, err := petsSvc.DeleteByClient(r.Context(), clientID)
		if err != nil {
			http.Error(w, "client deleted but pet cascade failed", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"success":      true,
			"deleted_pets": deletedPets,
		})
	}
}

func listPetsHandler(svc *Service, petsSvc *pets.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID := chi.URLParam(r, "clientID")

		if _, err := svc.GetByID(r.Context(), clientID); err != nil {
			writeError(w, err)
			return
		}

		items, err := petsSvc.ListByClient(r.Context(), clientID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, pets.ToResponses(items))
	}
}

func toResponse(c Client) clientResponse {
	return clientResponse{
		ID:           c.ID,
		Name:         c.Name,
		Phone:        c.Phone,
		Email:        c.Email,
		Address:      c.Address,
		RegisteredAt: c.RegisteredAt,
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "client not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
