package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pitchside/cricket-league/config"
	"github.com/pitchside/cricket-league/db"
	"github.com/pitchside/cricket-league/handlers"
	"github.com/pitchside/cricket-league/notify"
	"github.com/pitchside/cricket-league/payments"
	"github.com/pitchside/cricket-league/repositories"
	"github.com/pitchside/cricket-league/routes"
	"github.com/pitchside/cricket-league/services"
	"github.com/pitchside/cricket-league/storage"
)

const statusSweepInterval = time.Minute

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)
	handlers.SetLogger(logger)

	if err := run(logger); err != nil {
		logger.Error("application terminated", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	database, err := db.Connect(cfg.DatabaseURL, 10*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()
	logger.Info("database connection established")

	if err := db.Migrate(database, cfg.MigrationsPath); err != nil {
		return err
	}
	logger.Info("migrations applied")

	// Optional collaborators degrade to no-ops when unconfigured.
	var uploader storage.FileUploader
	if cfg.R2AccountID != "" {
		uploader, err = storage.NewCloudflareR2Uploader(storage.CloudflareR2UploaderConfig{
			AccountID:       cfg.R2AccountID,
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			BucketName:      cfg.R2Bucket,
			PublicBaseURL:   cfg.R2PublicBaseURL,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize R2 uploader: %w", err)
		}
		logger.Info("asset store initialized", "bucket", cfg.R2Bucket)
	} else {
		logger.Info("asset store disabled")
	}

	var gateway payments.Gateway
	if cfg.PaymentKeyID != "" {
		gateway, err = payments.NewRESTGateway(cfg.PaymentBaseURL, cfg.PaymentKeyID, cfg.PaymentKeySecret)
		if err != nil {
			return fmt.Errorf("failed to initialize payment gateway: %w", err)
		}
		logger.Info("payment gateway initialized")
	} else {
		logger.Warn("payment gateway disabled, order creation will fail")
	}
	verifier := payments.NewSignatureVerifier(cfg.PaymentWebhookKey)

	queue := notify.NewKafkaQueue(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
	defer queue.Close()

	txManager := repositories.NewSQLTxManager(database)
	userRepo := repositories.NewPostgresUserRepository(database)
	clubRepo := repositories.NewPostgresClubRepository(database)
	tournamentRepo := repositories.NewPostgresTournamentRepository(database)
	enrollmentRepo := repositories.NewPostgresEnrollmentRepository(database)
	roundRepo := repositories.NewPostgresFixtureRoundRepository(database)
	matchRepo := repositories.NewPostgresMatchRepository(database)
	inningsRepo := repositories.NewPostgresInningsRepository(database)
	pointsRepo := repositories.NewPostgresPointTableRepository(database)
	progressionRepo := repositories.NewPostgresProgressionRepository(database)
	ledgerRepo := repositories.NewPostgresLedgerRepository(database)

	authService := services.NewAuthService(userRepo)
	clubService := services.NewClubService(clubRepo, userRepo, uploader, logger)
	tournamentService := services.NewTournamentService(txManager, tournamentRepo, uploader, logger)
	ledgerService := services.NewLedgerService(ledgerRepo)
	enrollmentService := services.NewEnrollmentService(
		txManager, enrollmentRepo, tournamentRepo, clubRepo,
		ledgerService, gateway, verifier, queue, logger,
	)
	fixtureService := services.NewFixtureService(
		txManager, roundRepo, matchRepo, tournamentRepo, enrollmentRepo, queue, logger,
	)
	standingsService := services.NewStandingsService(txManager, pointsRepo, matchRepo, inningsRepo)
	resultService := services.NewResultService(txManager, matchRepo, inningsRepo, standingsService, queue, logger)
	progressionService := services.NewProgressionService(
		txManager, progressionRepo, tournamentRepo, enrollmentRepo, queue, logger,
	)

	router := routes.Setup(routes.Handlers{
		Auth:        handlers.NewAuthHandler(authService, cfg.JWTSecret),
		Tournament:  handlers.NewTournamentHandler(tournamentService),
		Club:        handlers.NewClubHandler(clubService),
		Enrollment:  handlers.NewEnrollmentHandler(enrollmentService),
		Fixture:     handlers.NewFixtureHandler(fixtureService),
		Match:       handlers.NewMatchHandler(resultService),
		Standings:   handlers.NewStandingsHandler(standingsService),
		Progression: handlers.NewProgressionHandler(progressionService),
		Ledger:      handlers.NewLedgerHandler(ledgerService),
	}, []byte(cfg.JWTSecret))

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  time.Minute,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Background sweep advancing tournament statuses past their dates.
	go func() {
		ticker := time.NewTicker(statusSweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := tournamentService.AutoUpdateStatusesByDates(ctx); err != nil {
					logger.Error("tournament status sweep failed", "error", err)
				}
			}
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
