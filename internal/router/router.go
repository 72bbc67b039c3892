package router

import (
	"database/sql"
	"net/http"
	"time"

	_ "pet-vaccination-history/docs" // registra la doc de swagger
	mem "pet-vaccination-history/internal/adapters/storage/memory"
	pg "pet-vaccination-history/internal/adapters/storage/postgres"
	lite "pet-vaccination-history/internal/adapters/storage/sqlite"
	"pet-vaccination-history/internal/domain/pets"
	"pet-vaccination-history/internal/domain/vaccinations"
	"pet-vaccination-history/internal/middleware"
	"pet-vaccination-history/internal/platform/logger"
	"pet-vaccination-history/internal/ports/auth"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Options struct {
	AuthVerifier auth.AuthVerifier // puede ser nil (modo dev)
	Logger       logger.Logger     // nil = descarta

	// Opcional: con DB se usa Driver (postgres | sqlite). Sin DB, in-memory.
	DB     *sql.DB
	Driver string

	Policy   *vaccinations.PolicyTable // nil = tabla de fábrica
	Location *time.Location            // zona para "hoy"; nil = UTC

	AllowedOrigins []string

	// nil = registry nuevo por router (tests en paralelo no chocan)
	Registry *prometheus.Registry
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector())
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", middleware.DebugUserHeader},
	}).Handler)

	r.Use(middleware.AuthContext(opts.AuthVerifier))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	var (
		petRepo pets.Repository
		vaxRepo vaccinations.Repository
	)
	switch {
	case opts.DB != nil && opts.Driver == DriverSQLite:
		petRepo = lite.NewPetsRepo(opts.DB)
		vaxRepo = lite.NewVaccinationsRepo(opts.DB)
	case opts.DB != nil:
		petRepo = pg.NewPetsRepo(opts.DB)
		vaxRepo = pg.NewVaccinationsRepo(opts.DB)
	default:
		petRepo = mem.NewPetRepo()
		vaxRepo = mem.NewVaccinationRepo()
	}

	// Services por módulo; pets purga el historial al borrar
	vaxSvc := vaccinations.NewService(vaxRepo, vaccinations.Options{
		Policy:   opts.Policy,
		Location: opts.Location,
		Metrics:  vaccinations.NewMetrics(reg),
	})
	petsSvc := pets.NewService(petRepo, vaxSvc, opts.Location)

	pets.RegisterRoutes(r, petsSvc, log)
	vaccinations.RegisterRoutes(r, vaxSvc, petsSvc, log)

	return r
}
