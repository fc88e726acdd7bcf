package router

import (
	"context"
	"database/sql"
	"net/http"
	"os"

	mem "vitalpet/internal/adapters/storage/memory"
	pg "vitalpet/internal/adapters/storage/postgres"
	_ "vitalpet/docs"
	"vitalpet/internal/domain/appointments"
	"vitalpet/internal/domain/clients"
	"vitalpet/internal/domain/pets"
	"vitalpet/internal/domain/schedule"
	"vitalpet/internal/middleware"
	"vitalpet/internal/platform/logger"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"
)

type Options struct {
	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB

	Logger logger.Logger
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(log))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	var (
		clientRepo clients.Repository
		petRepo    pets.Repository
		apptRepo   appointments.Repository
		schedRepo  schedule.Repository
	)

	// Si no te pasan DB explícita, intenta por env (para dev/handoff)
	db := opts.DB
	if db == nil {
		if dsn := os.Getenv("DB_DSN"); dsn != "" {
			opened, err := pg.Open(dsn)
			if err == nil {
				db = opened
			} else {
				log.Warn("could not open postgres, falling back to memory", map[string]any{
					"error": err.Error(),
				})
			}
		}
	}

	if db != nil {
		if err := pg.EnsureSchema(context.Background(), db); err != nil {
			log.Error("schema init failed, falling back to memory", map[string]any{
				"error": err.Error(),
			})
			db = nil
		}
	}

	if db != nil {
		clientRepo = pg.NewClientsRepo(db)
		petRepo = pg.NewPetsRepo(db)
		apptRepo = pg.NewAppointmentsRepo(db)
		schedRepo = pg.NewScheduleRepo(db)
	} else {
		clientRepo = mem.NewClientRepo()
		petRepo = mem.NewPetRepo()
		apptRepo = mem.NewAppointmentRepo()
		schedRepo = mem.NewScheduleRepo()
	}

	// Services por módulo
	clientsSvc := clients.NewService(clientRepo)
	petsSvc := pets.NewService(petRepo)
	schedSvc := schedule.NewService(schedRepo)
	apptSvc := appointments.NewService(apptRepo, schedSvc, log)

	// Rutas por módulo
	clients.RegisterRoutes(r, clientsSvc, petsSvc)
	pets.RegisterRoutes(r, petsSvc, apptSvc)
	schedule.RegisterRoutes(r, schedSvc)
	appointments.RegisterRoutes(r, apptSvc)

	r.Get("/dashboard", dashboardHandler(clientsSvc, petsSvc, apptSvc))

	return r
}
