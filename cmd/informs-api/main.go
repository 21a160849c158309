package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/noah-isme/informs-api/internal/repository"
	"github.com/noah-isme/informs-api/internal/service"
	"github.com/noah-isme/informs-api/pkg/cache"
	"github.com/noah-isme/informs-api/pkg/config"
	"github.com/noah-isme/informs-api/pkg/database"
	"github.com/noah-isme/informs-api/pkg/logger"
)

// @title Informs Exam Scheduling API
// @version 1.0.0
// @description Rooms, exams, timeslots and versioned exam schedules with conflict and analytics reports.
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

type options struct {
	migrateOnly bool
	seed        bool
	issueToken  string
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		log.Fatalf("invalid arguments: %v", err)
	}
	if err := run(opts); err != nil {
		log.Fatalf("informs-api: %v", err)
	}
}

func parseFlags(args []string) (options, error) {
	var opts options
	flagSet := pflag.NewFlagSet("informs-api", pflag.ContinueOnError)
	flagSet.BoolVar(&opts.migrateOnly, "migrate-only", false, "apply database migrations and exit")
	flagSet.BoolVar(&opts.seed, "seed", false, "load the sample dataset when the database is empty")
	flagSet.StringVar(&opts.issueToken, "issue-token", "", "print a write-scope bearer token for the given subject and exit")
	if err := flagSet.Parse(args); err != nil {
		return opts, err
	}
	if extra := flagSet.Args(); len(extra) > 0 {
		return opts, fmt.Errorf("unexpected argument: %s", extra[0])
	}
	return opts, nil
}

func run(opts options) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logr.Sync() //nolint:errcheck

	authService := service.NewAuthService(service.AuthConfig{
		Secret:     cfg.Auth.Secret,
		Expiration: cfg.Auth.Expiration,
	}, logr)

	if opts.issueToken != "" {
		token, expires, err := authService.IssueToken(opts.issueToken)
		if err != nil {
			return fmt.Errorf("issue token: %w", err)
		}
		fmt.Fprintf(os.Stdout, "%s\n", token)
		logr.Info("token issued", zap.String("subject", opts.issueToken), zap.Time("expires_at", expires))
		return nil
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer db.Close() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Database.AutoMigrate || opts.migrateOnly {
		if err := database.Migrate(ctx, db.DB, logr); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	if opts.migrateOnly {
		logr.Info("migrations applied, exiting")
		return nil
	}

	metrics := service.NewMetricsService()

	cacheRepo := repository.NewCacheRepository(nil, logr)
	if cfg.Reports.CacheEnabled {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, report cache disabled", zap.Error(err))
		} else {
			cacheRepo = repository.NewCacheRepository(client, logr)
			defer cacheRepo.Close() //nolint:errcheck
		}
	}
	cacheService := service.NewCacheService(cacheRepo, metrics, cfg.Reports.CacheTTL, logr, cfg.Reports.CacheEnabled)
	validate := validator.New()

	if cfg.Database.Seed || opts.seed {
		seeder := service.NewSeedService(repository.NewSeedRepository(db), cacheService, logr)
		if _, err := seeder.Seed(ctx); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	versionRepo := repository.NewScheduleVersionRepository(db)
	versionService := service.NewVersionService(versionRepo, cacheService, metrics, validate, logr)
	if _, err := versionService.EnsureDefaultVersion(ctx); err != nil {
		return fmt.Errorf("ensure default version: %w", err)
	}

	resolver := service.NewVersionResolver(versionRepo)
	examRepo := repository.NewExamRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	timeslotRepo := repository.NewTimeSlotRepository(db)
	studentRepo := repository.NewStudentRepository(db)

	scheduleService := service.NewScheduleService(service.ScheduleServiceParams{
		Schedules:   repository.NewScheduleRepository(db),
		Versions:    versionRepo,
		Resolver:    resolver,
		Exams:       examRepo,
		Rooms:       roomRepo,
		Timeslots:   timeslotRepo,
		Students:    studentRepo,
		Enrollments: repository.NewEnrollmentRepository(db),
		Cache:       cacheService,
		Metrics:     metrics,
		Validator:   validate,
		Logger:      logr,
	})
	reportService := service.NewReportService(repository.NewReportRepository(db), resolver, cacheService, metrics, logr)

	if cacheService.Enabled() {
		warmer := service.NewReportWarmer(reportService, cfg.Reports.WarmupWorkers, logr)
		cacheService.OnReportsInvalidated(warmer.Trigger)
		warmer.Start(ctx)
		defer warmer.Stop()
		warmer.Trigger()
	}

	deps := routerDeps{
		rooms:     service.NewRoomService(roomRepo, cacheService, metrics, validate, logr),
		exams:     service.NewExamService(examRepo, cacheService, metrics, validate, logr),
		timeslots: service.NewTimeSlotService(timeslotRepo, cacheService, metrics, validate, logr),
		students:  service.NewStudentService(studentRepo),
		versions:  versionService,
		schedules: scheduleService,
		reports:   reportService,
		exports:   service.NewExportService(scheduleService, reportService, resolver, logr),
		auth:      authService,
		metrics:   metrics,
		db:        db,
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	router := newRouter(cfg, logr, deps)

	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "prefix", cfg.APIPrefix)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
