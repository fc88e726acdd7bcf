package router

import (
	"encoding/json"
	"net/http"
	"time"

	"vitalpet/internal/domain/appointments"
	"vitalpet/internal/domain/clients"
	"vitalpet/internal/domain/pets"
)

type dashboardResponse struct {
	Date              string                  `json:"date"`
	TodayAppointments int                     `json:"today_appointments"`
	TotalClients      int                     `json:"total_clients"`
	TotalPets         int                     `json:"total_pets"`
	PendingCount      int                     `json:"pending_count"`
	Today             []appointments.Response `json:"today"`
}

// dashboardHandler arma los contadores de la pantalla principal:
// citas de hoy (sin las canceladas), totales y pendientes.
func dashboardHandler(clientsSvc *clients.Service, petsSvc *pets.Service, apptSvc *appointments.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		today := time.Now().Format("2006-01-02")

		clientList, err := clientsSvc.List(ctx)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		petList, err := petsSvc.List(ctx)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		all, err := apptSvc.List(ctx, appointments.ListFilter{})
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		resp := dashboardResponse{
			Date:         today,
			TotalClients: len(clientList),
			TotalPets:    len(petList),
			Today:        make([]appointments.Response, 0),
		}

		for _, a := range all {
			if a.Status == appointments.StatusPending {
				resp.PendingCount++
			}
			if a.Date == today && a.Status != appointments.StatusCancelled {
				resp.Today = append(resp.Today, appointments.ToResponse(a))
			}
		}
		resp.TodayAppointments = len(resp.Today)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(resp)
	}
}
