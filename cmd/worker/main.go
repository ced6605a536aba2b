package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/SiddhuQuant/dietec-api/internal/config"
	"github.com/SiddhuQuant/dietec-api/internal/repository/postgres"
	"github.com/SiddhuQuant/dietec-api/internal/service/admindash"
	"github.com/SiddhuQuant/dietec-api/internal/session"
	"github.com/SiddhuQuant/dietec-api/pkg/logger"
	"github.com/SiddhuQuant/dietec-api/pkg/security"
)

var (
	activeSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dietec_active_sessions",
		Help: "Number of live provider sessions",
	})
	revenueTotal = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "dietec_revenue_total",
		Help: "All-time paid revenue as of the last nightly summary",
	})
	jobFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dietec_worker_job_failures_total",
		Help: "Number of failed worker job runs",
	}, []string{"job"})
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

	dashSvc := admindash.NewService(patientRepo, doctorRepo, adminRepo, appointmentRepo, billRepo, log)

	var sessionStore session.Store
	redisStore, err := session.NewRedisStore(cfg.Redis.URL)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, session census disabled")
	} else {
		sessionStore = redisStore
		defer redisStore.Close()
	}

	setupHealthCheck(log)

	c := cron.New()

	if sessionStore != nil {
		if _, err := c.AddFunc("@hourly", func() { sessionCensus(sessionStore, log) }); err != nil {
			log.Fatal().Err(err).Msg("failed to schedule session census")
		}
	}
	if _, err := c.AddFunc("0 2 * * *", func() { revenueSummary(dashSvc, log) }); err != nil {
		log.Fatal().Err(err).Msg("failed to schedule revenue summary")
	}

	c.Start()
	log.Info().Msg("worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("worker shutting down")
	<-c.Stop().Done()
}

// sessionCensus records how many provider sessions are live.
func sessionCensus(store session.Store, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := store.Count(ctx)
	if err != nil {
		jobFailures.WithLabelValues("session_census").Inc()
		log.Error().Err(err).Msg("session census failed")
		return
	}

	activeSessions.Set(float64(n))
	log.Info().Int64("sessions", n).Msg("session census")
}

// revenueSummary logs the revenue buckets once a night and exports the
// all-time total.
func revenueSummary(svc *admindash.Service, log zerolog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	rev := svc.Revenue(ctx)
	revenueTotal.Set(rev.Total)
	log.Info().
		Float64("today", rev.Today).
		Float64("week", rev.Week).
		Float64("month", rev.Month).
		Float64("total", rev.Total).
		Msg("nightly revenue summary")
}

func setupHealthCheck(log zerolog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.Handle("/metrics", promhttp.Handler())

	go func() {
		if err := http.ListenAndServe(":8081", mux); err != nil {
			log.Error().Err(err).Msg("health check server failed")
			os.Exit(1)
		}
	}()
}
