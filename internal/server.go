package internal

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"itassets-dashboard/internal/assets"
	"itassets-dashboard/internal/auth"
	"itassets-dashboard/internal/config"
	"itassets-dashboard/internal/database"
	"itassets-dashboard/internal/entity"
	"itassets-dashboard/internal/handlers"
	"itassets-dashboard/internal/models"
	"itassets-dashboard/internal/store"
	"itassets-dashboard/internal/ui"
	"itassets-dashboard/pkg/importer"
)

type Server struct {
	Pool     *pgxpool.Pool
	Router   *chi.Mux
	Auth     *auth.Service
	Profiles store.Profiles
	Tables   *assets.Tables
	Metrics  *Metrics
	Log      logrus.FieldLogger

	cfg *config.Config
}

// NewServer opens the configured store and builds the router. With
// STORE_DRIVER=postgres pending migrations are applied first.
func NewServer(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*Server, error) {
	s := &Server{
		Router:  chi.NewRouter(),
		Metrics: NewMetrics(),
		Log:     log,
		cfg:     cfg,
	}

	switch cfg.StoreDriver {
	case config.DriverMemory:
		log.Warn("using the in-memory store; data is lost on restart")
		s.Tables = assets.NewMemory()
		s.Profiles = store.NewMemoryProfiles()
	case config.DriverPostgres:
		if err := database.Migrate(cfg.DatabaseDSN, log); err != nil {
			return nil, err
		}
		pool, err := database.Connect(ctx, cfg.DatabaseDSN, log)
		if err != nil {
			return nil, err
		}
		s.Pool = pool
		s.Tables = assets.NewPostgres(pool, cfg.RLSEnabled)
		s.Profiles = store.NewPGProfiles(pool)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, cfg.JWTExpiry)
	if err := jwtManager.ValidateConfig(); err != nil {
		s.Close(ctx)
		return nil, fmt.Errorf("jwt config: %w", err)
	}
	s.Auth = auth.NewService(s.Profiles, jwtManager)

	var mapping *importer.Mapping
	if cfg.ImportMapping != "" {
		m, err := importer.LoadMapping(cfg.ImportMapping)
		if err != nil {
			s.Close(ctx)
			return nil, err
		}
		mapping = m
	}

	pages, err := ui.New(ui.Options{
		Tables:   s.Tables,
		Auth:     s.Auth,
		Log:      log,
		Observer: s.Metrics,
		Secure:   cfg.CookieSecure,
	})
	if err != nil {
		s.Close(ctx)
		return nil, err
	}

	s.routes(pages, handlers.NewImportsHandler(s.Tables, mapping, s.Metrics, log))
	return s, nil
}

// Close releases the database pool.
func (s *Server) Close(_ context.Context) error {
	if s.Pool != nil {
		s.Pool.Close()
	}
	return nil
}

func (s *Server) routes(pages *ui.Handler, imports *handlers.ImportsHandler) {
	r := s.Router
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.Log))
	r.Use(middleware.Recoverer)
	if s.cfg.EnableMetrics {
		r.Use(s.Metrics.Middleware())
		r.Get("/metrics", s.Metrics.Handler().ServeHTTP)
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		if _, err := w.Write([]byte("ok")); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
	r.Get("/dbping", s.dbPing)

	// JSON auth
	r.Post("/auth/login", s.loginUser)
	r.Post("/auth/register", s.registerUser)

	r.Route("/api", func(r chi.Router) {
		r.Use(auth.AuthMiddleware(s.Auth.JWT()))
		r.Use(withActor)

		r.Get("/profile", s.getUserProfile)
		r.Put("/profile", s.updateUserProfile)
		r.Get("/counts", s.getCounts)

		mountResource(s, r, entity.Computers, s.Tables.Computers)
		mountResource(s, r, entity.Phones, s.Tables.Phones)
		mountResource(s, r, entity.Switches, s.Tables.Switches)
		mountResource(s, r, entity.AccessPoints, s.Tables.AccessPoints)
		mountResource(s, r, entity.Collectors, s.Tables.Collectors)

		r.Post("/imports/excel", auth.MustRole(models.RoleAdmin)(http.HandlerFunc(imports.UploadExcel)).(http.HandlerFunc))
	})

	// HTML pages
	pages.Public(r)
	r.Group(func(r chi.Router) {
		r.Use(auth.CookieMiddleware(s.Auth.JWT(), s.cfg.CookieSecure))
		r.Use(withActor)
		pages.Protected(r)
	})
}

func (s *Server) dbPing(w http.ResponseWriter, r *http.Request) {
	if s.Pool == nil {
		_, _ = w.Write([]byte("db: memory"))
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := s.Pool.Ping(ctx); err != nil {
		http.Error(w, "db: "+err.Error(), http.StatusServiceUnavailable)
		return
	}
	_, _ = w.Write([]byte("db: ok"))
}
