package main

import (
	"net/http"
	"os"
	"time"

	"vitalpet/internal/platform/logger"
	"vitalpet/internal/router"
)

// @title VitalPet API
// @version 1.0
// @description Gestión de citas de una clínica veterinaria: clientes, mascotas, horarios, festivos y agenda.
// @BasePath /
func main() {
	log := logger.NewFromEnv()

	addr := ":8080"
	if v := os.Getenv("PORT"); v != "" {
		addr = ":" + v
	}

	r := router.NewRouter(router.Options{Logger: log})

	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", map[string]any{"addr": addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}
