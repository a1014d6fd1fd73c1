package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spitex-domus/domus-backend/internal/auth"
	authhandler "github.com/spitex-domus/domus-backend/internal/auth/handler"
	"github.com/spitex-domus/domus-backend/internal/auth/jwt"
	authservice "github.com/spitex-domus/domus-backend/internal/auth/service"
	balancehandler "github.com/spitex-domus/domus-backend/internal/balance/handler"
	balancerepo "github.com/spitex-domus/domus-backend/internal/balance/repository"
	balanceservice "github.com/spitex-domus/domus-backend/internal/balance/service"
	employeehandler "github.com/spitex-domus/domus-backend/internal/employee/handler"
	employeerepo "github.com/spitex-domus/domus-backend/internal/employee/repository"
	employeeservice "github.com/spitex-domus/domus-backend/internal/employee/service"
	plausibilityhandler "github.com/spitex-domus/domus-backend/internal/plausibility/handler"
	plausibilityservice "github.com/spitex-domus/domus-backend/internal/plausibility/service"
	schedulehandler "github.com/spitex-domus/domus-backend/internal/schedule/handler"
	schedulerepo "github.com/spitex-domus/domus-backend/internal/schedule/repository"
	scheduleservice "github.com/spitex-domus/domus-backend/internal/schedule/service"
	timeentryhandler "github.com/spitex-domus/domus-backend/internal/timeentry/handler"
	timeentryrepo "github.com/spitex-domus/domus-backend/internal/timeentry/repository"
	timeentryservice "github.com/spitex-domus/domus-backend/internal/timeentry/service"
	"github.com/spitex-domus/domus-backend/pkg/config"
	"github.com/spitex-domus/domus-backend/pkg/database"
	"github.com/spitex-domus/domus-backend/pkg/httputil"
	"github.com/spitex-domus/domus-backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadWithValidation()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New("domus-backend", cfg.Server.Environment)
	log.Info().Msg("starting Domus backend")

	// Connect to database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Initialize repositories
	employeeRepo := employeerepo.NewEmployeeRepository(db)
	timeEntryRepo := timeentryrepo.NewTimeEntryRepository(db)
	scheduleRepo := schedulerepo.NewScheduleRepository(db)
	serviceRepo := schedulerepo.NewServiceRepository(db)
	balanceRepo := balancerepo.NewBalanceRepository(db)
	vacationRepo := balancerepo.NewVacationRepository(db)

	// Initialize services
	tokenManager := jwt.NewManager(&cfg.JWT)
	authService := authservice.NewAuthService(employeeRepo, tokenManager, log)
	employeeService := employeeservice.NewEmployeeService(employeeRepo, log)
	balanceService := balanceservice.NewBalanceService(balanceRepo, vacationRepo, employeeRepo, timeEntryRepo, scheduleRepo, log)
	timeEntryService := timeentryservice.NewTimeEntryService(timeEntryRepo, balanceService, log)
	scheduleService := scheduleservice.NewScheduleService(scheduleRepo, serviceRepo, balanceService, log)
	scanner := plausibilityservice.NewScanner(timeEntryRepo, log)

	// Initialize handlers
	authHandler := authhandler.NewAuthHandler(authService, log)
	employeeHandler := employeehandler.NewEmployeeHandler(employeeService, log)
	timeEntryHandler := timeentryhandler.NewTimeEntryHandler(timeEntryService, log)
	scheduleHandler := schedulehandler.NewScheduleHandler(scheduleService, log)
	balanceHandler := balancehandler.NewBalanceHandler(balanceService, log)
	plausibilityHandler := plausibilityhandler.NewPlausibilityHandler(scanner, log)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]interface{}{
			"status":   "healthy",
			"service":  "domus-backend",
			"database": db.Health(r.Context()),
		})
	})

	// Public routes
	r.Post("/api/v1/auth/login", authHandler.Login)

	// Authenticated routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.RequireAuth(tokenManager))

		r.Get("/auth/me", authHandler.Me)

		r.Route("/time-entries", func(r chi.Router) {
			r.Get("/", timeEntryHandler.List)
			r.Post("/", timeEntryHandler.Create)
			r.Get("/open", timeEntryHandler.GetOpen)
			r.Post("/stop", timeEntryHandler.Stop)
			r.Put("/{id}", timeEntryHandler.Update)
			r.Delete("/{id}", timeEntryHandler.Delete)
		})

		r.Route("/schedule", func(r chi.Router) {
			r.Get("/", scheduleHandler.List)
			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAdmin)
				r.Post("/", scheduleHandler.Create)
				r.Put("/{id}", scheduleHandler.Update)
				r.Delete("/{id}", scheduleHandler.Delete)
			})
		})

		r.Route("/services", func(r chi.Router) {
			r.Get("/", scheduleHandler.ListServices)
			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAdmin)
				r.Post("/", scheduleHandler.CreateService)
				r.Put("/{id}", scheduleHandler.UpdateService)
				r.Delete("/{id}", scheduleHandler.DeleteService)
			})
		})

		r.Route("/balances", func(r chi.Router) {
			r.Get("/", balanceHandler.ListYear)
			r.Post("/recompute", balanceHandler.Recompute)
		})

		r.Route("/vacation", func(r chi.Router) {
			r.Get("/", balanceHandler.GetVacation)
			r.With(auth.RequireAdmin).Put("/", balanceHandler.SetVacation)
		})

		r.Get("/plausibility", plausibilityHandler.Scan)

		r.Route("/employees", func(r chi.Router) {
			r.Get("/", employeeHandler.List)
			r.Get("/{id}", employeeHandler.Get)
			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAdmin)
				r.Post("/", employeeHandler.Create)
				r.Put("/{id}", employeeHandler.Update)
				r.Put("/{id}/password", employeeHandler.ChangePassword)
				r.Delete("/{id}", employeeHandler.Deactivate)
			})
		})
	})

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
