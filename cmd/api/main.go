package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/SiddhuQuant/dietec-api/internal/config"
	"github.com/SiddhuQuant/dietec-api/internal/email"
	adminhandler "github.com/SiddhuQuant/dietec-api/internal/handler/admin"
	authhandler "github.com/SiddhuQuant/dietec-api/internal/handler/auth"
	doctorhandler "github.com/SiddhuQuant/dietec-api/internal/handler/doctor"
	healthhandler "github.com/SiddhuQuant/dietec-api/internal/handler/health"
	portalhandler "github.com/SiddhuQuant/dietec-api/internal/handler/portal"
	"github.com/SiddhuQuant/dietec-api/internal/localstore"
	"github.com/SiddhuQuant/dietec-api/internal/middleware"
	"github.com/SiddhuQuant/dietec-api/internal/repository/postgres"
	"github.com/SiddhuQuant/dietec-api/internal/router"
	"github.com/SiddhuQuant/dietec-api/internal/service/admindash"
	"github.com/SiddhuQuant/dietec-api/internal/service/doctordash"
	"github.com/SiddhuQuant/dietec-api/internal/service/identity"
	"github.com/SiddhuQuant/dietec-api/internal/service/portal"
	"github.com/SiddhuQuant/dietec-api/internal/session"
	"github.com/SiddhuQuant/dietec-api/pkg/logger"
	"github.com/SiddhuQuant/dietec-api/pkg/security"
)

func main() {
	_ = godotenv.Load()

	log := logger.New(&logger.Config{
		Level:      logger.InfoLevel,
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
	})

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	hasher := security.NewBcryptHasher(0)

	patientRepo := postgres.NewPatientRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db, hasher)
	adminRepo := postgres.NewAdminRepository(db, hasher)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	billRepo := postgres.NewBillRepository(db)
	accountRepo := postgres.NewAuthAccountRepository(db)

	var sessionStore session.Store
	redisStore, err := session.NewRedisStore(cfg.Redis.URL)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, using in-memory session store")
		sessionStore = session.NewMemoryStore()
	} else {
		sessionStore = redisStore
		defer redisStore.Close()
	}

	provider := session.NewProvider(accountRepo, sessionStore, hasher, cfg.Session.Secret, cfg.Session.TTL, log)
	store := localstore.New(cfg.Store.FilePath, log)
	emailSvc := email.NewService(cfg.SMTP)

	identitySvc := identity.NewService(patientRepo, doctorRepo, adminRepo, provider, store, emailSvc, log)
	adminSvc := admindash.NewService(patientRepo, doctorRepo, adminRepo, appointmentRepo, billRepo, log)
	doctorSvc := doctordash.NewService(patientRepo, appointmentRepo, log)
	portalSvc := portal.NewService(patientRepo, appointmentRepo, billRepo, store, log)

	go logSessionEvents(provider, log)

	authMw := middleware.NewAuthMiddleware(identitySvc, provider)

	r := router.NewRouter(
		authMw,
		authhandler.NewHandler(identitySvc),
		adminhandler.NewHandler(adminSvc),
		doctorhandler.NewHandler(doctorSvc),
		portalhandler.NewHandler(portalSvc),
		healthhandler.NewHandler(db),
		log,
		router.RouterConfig{
			RateLimit:     100,
			RateBurst:     200,
			Timeout:       time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
			CORSConfig:    middleware.DefaultCORSConfig(),
			MetricsPrefix: "dietec",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}

// logSessionEvents drains the provider's transition events so sign-in
// and sign-out activity shows up in the process log.
func logSessionEvents(provider *session.Provider, log zerolog.Logger) {
	for event := range provider.Events() {
		entry := log.Info().Str("type", string(event.Type))
		if event.Session != nil {
			entry = entry.Str("email", event.Session.Email)
		}
		entry.Msg("session event")
	}
}
