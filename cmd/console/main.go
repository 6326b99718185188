package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/dental-console/internal/config"
	appointmentHandler "github.com/jwalitptl/dental-console/internal/handler/appointment"
	authHandler "github.com/jwalitptl/dental-console/internal/handler/auth"
	"github.com/jwalitptl/dental-console/internal/handler/health"
	patientHandler "github.com/jwalitptl/dental-console/internal/handler/patient"
	promhandler "github.com/jwalitptl/dental-console/internal/handler/prometheus"
	settingsHandler "github.com/jwalitptl/dental-console/internal/handler/settings"
	"github.com/jwalitptl/dental-console/internal/handler/shell"
	"github.com/jwalitptl/dental-console/internal/middleware"
	"github.com/jwalitptl/dental-console/internal/repository"
	"github.com/jwalitptl/dental-console/internal/repository/backend"
	"github.com/jwalitptl/dental-console/internal/repository/memory"
	"github.com/jwalitptl/dental-console/internal/router"
	appointmentService "github.com/jwalitptl/dental-console/internal/service/appointment"
	authService "github.com/jwalitptl/dental-console/internal/service/auth"
	patientService "github.com/jwalitptl/dental-console/internal/service/patient"
	"github.com/jwalitptl/dental-console/internal/service/session"
	settingsService "github.com/jwalitptl/dental-console/internal/service/settings"
	"github.com/jwalitptl/dental-console/internal/storage"
	"github.com/jwalitptl/dental-console/pkg/auth"
	"github.com/jwalitptl/dental-console/pkg/logger"
	"github.com/jwalitptl/dental-console/pkg/metrics"
	"github.com/jwalitptl/dental-console/pkg/security"
	"github.com/jwalitptl/dental-console/pkg/validator"
)

type stores struct {
	appointments  repository.AppointmentStore
	patients      repository.PatientStore
	authenticator repository.Authenticator
}

func main() {
	// a missing .env is normal outside development
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(&logger.Config{
		Level:      logger.ParseLevel(cfg.Log.Level),
		Format:     cfg.Log.Format,
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
	})

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New("console", reg)

	ctx := context.Background()
	store, err := storage.Open(ctx, cfg.Storage, m)
	if err != nil {
		log.Fatal(err, "failed to open local storage", "driver", cfg.Storage.Driver)
	}
	defer store.Close()

	v := validator.New()
	s, err := buildStores(cfg, v, log, m)
	if err != nil {
		log.Fatal(err, "failed to set up backend", "mode", cfg.Backend.Mode)
	}

	sessions := session.NewService(store, cfg.Session.TTL, m, log)
	authSvc := authService.NewService(s.authenticator, sessions, v, log)
	appointmentSvc := appointmentService.NewService(s.appointments, v, m, log)
	patientSvc := patientService.NewService(s.patients, v, m, log)
	settingsSvc := settingsService.NewService(store, v, log)

	var loginMWs []gin.HandlerFunc
	if cfg.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  rate.Limit(cfg.RateLimit.RequestsPerSecond),
			Burst: cfg.RateLimit.Burst,
		})
		loginMWs = append(loginMWs, limiter.RateLimit())
	}

	var metricsH *promhandler.Handler
	if cfg.Metrics.Enabled {
		metricsH = promhandler.New("console", reg)
	}

	r := router.NewRouter(
		router.RouterConfig{
			Mode:           cfg.Server.Mode,
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			MetricsPath:    cfg.Metrics.Path,
			Logger:         log,
		},
		middleware.RequireSession(sessions, cfg.Session.CookieName),
		health.NewHandler(store),
		authHandler.NewHandler(authSvc, authHandler.CookieConfig{
			Name:   cfg.Session.CookieName,
			Secure: cfg.Session.Secure,
			TTL:    cfg.Session.TTL,
		}, []authHandler.SessionForgetter{settingsSvc, appointmentSvc, patientSvc}, loginMWs...),
		shell.NewHandler(),
		metricsH,
		appointmentHandler.NewHandler(appointmentSvc),
		patientHandler.NewHandler(patientSvc),
		settingsHandler.NewHandler(settingsSvc),
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("console listening", "addr", srv.Addr, "backend_mode", cfg.Backend.Mode, "storage", cfg.Storage.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err, "failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(err, "server forced to shutdown")
	}

	log.Info("server exited properly")
}

func buildStores(cfg *config.Config, v validator.Validator, log *logger.Logger, m *metrics.Metrics) (*stores, error) {
	switch cfg.Backend.Mode {
	case "http":
		client := backend.NewClient(cfg.Backend.BaseURL, cfg.Backend.RequestTimeout, log, backend.WithMetrics(m))
		return &stores{
			appointments:  backend.NewAppointmentStore(client),
			patients:      backend.NewPatientStore(client),
			authenticator: backend.NewAuthenticator(client),
		}, nil
	case "memory":
		jwtSvc, err := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.Expiry())
		if err != nil {
			return nil, err
		}
		accounts := make([]memory.Account, 0, len(cfg.Auth.DemoUsers))
		for _, u := range cfg.Auth.DemoUsers {
			accounts = append(accounts, memory.Account{Name: u.Name, Email: u.Email, Password: u.Password, Role: u.Role})
		}
		if len(accounts) == 0 {
			log.Warn("no demo users configured; nobody can log in")
		}
		credentials, err := security.NewCredentials(bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		authenticator, err := memory.NewAuthenticator(credentials, jwtSvc, v, accounts)
		if err != nil {
			return nil, err
		}
		return &stores{
			appointments:  memory.NewAppointmentStore(memory.SampleAppointments(time.Now()), memory.RequireToken(jwtSvc)),
			patients:      memory.NewPatientStore(memory.SamplePatients(), memory.RequireToken(jwtSvc)),
			authenticator: authenticator,
		}, nil
	default:
		return nil, fmt.Errorf("unknown backend mode %q", cfg.Backend.Mode)
	}
}
