package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/cmlabs-hris/office-attendance/internal/config"
	"github.com/cmlabs-hris/office-attendance/internal/domain/employee"
	"github.com/cmlabs-hris/office-attendance/internal/domain/punch"
	appHTTP "github.com/cmlabs-hris/office-attendance/internal/handler/http"
	"github.com/cmlabs-hris/office-attendance/internal/pkg/cache"
	"github.com/cmlabs-hris/office-attendance/internal/pkg/cron"
	"github.com/cmlabs-hris/office-attendance/internal/pkg/database"
	"github.com/cmlabs-hris/office-attendance/internal/pkg/jwt"
	"github.com/cmlabs-hris/office-attendance/internal/pkg/storage"
	"github.com/cmlabs-hris/office-attendance/internal/repository/cached"
	"github.com/cmlabs-hris/office-attendance/internal/repository/postgresql"
	"github.com/cmlabs-hris/office-attendance/internal/repository/sqlite"
	complianceService "github.com/cmlabs-hris/office-attendance/internal/service/compliance"
	employeeService "github.com/cmlabs-hris/office-attendance/internal/service/employee"
	qualityService "github.com/cmlabs-hris/office-attendance/internal/service/quality"
	reportService "github.com/cmlabs-hris/office-attendance/internal/service/report"
	"github.com/go-chi/httplog/v3"
)

const (
	appName    = "office-attendance"
	appVersion = "v1.0.0"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logger := newLogger(cfg)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	employeeRepo, punchRepo, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("Failed to open attendance store", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	appCache, closeCache, err := openCache(ctx, cfg)
	if err != nil {
		slog.Error("Failed to open cache", "driver", cfg.Cache.Driver, "error", err)
		os.Exit(1)
	}
	defer closeCache()

	ttl := cfg.TTLPolicy()
	cachedEmployees := cached.NewEmployeeRepository(employeeRepo, appCache, ttl)
	cachedPunches := cached.NewPunchRepository(punchRepo, appCache, ttl, time.Now)

	fileStorage, err := storage.NewLocalStorage(cfg.Export.BasePath)
	if err != nil {
		slog.Error("Failed to initialize local storage", "path", cfg.Export.BasePath, "error", err)
		os.Exit(1)
	}

	policy := cfg.Policy()
	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	complianceSvc := complianceService.NewComplianceService(cachedPunches, cachedEmployees, policy, time.Now)
	qualitySvc := qualityService.NewQualityService(cachedPunches, cachedEmployees, policy, time.Now)
	reportSvc := reportService.NewReportService(cachedPunches, cachedEmployees, fileStorage, policy, time.Now)
	employeeSvc := employeeService.NewEmployeeService(cachedEmployees)

	scheduler := cron.NewScheduler()
	cron.NewCacheRefreshJobs(appCache, cachedEmployees, reportSvc, policy.Loc(), time.Now).
		RegisterJobs(scheduler, cfg.Cache.RefreshInterval)

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		Logger:         logger,
		AllowedOrigins: strings.Split(cfg.App.FrontendURL, ","),
	}, JWTService, appHTTP.Handlers{
		Compliance: appHTTP.NewComplianceHandler(complianceSvc),
		Quality:    appHTTP.NewQualityHandler(qualitySvc),
		Report:     appHTTP.NewReportHandler(reportSvc, time.Now),
		Employee:   appHTTP.NewEmployeeHandler(employeeSvc),
		Admin:      appHTTP.NewAdminHandler(scheduler),
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if cfg.Cache.Driver != config.CacheNone {
		scheduler.Start()
		defer scheduler.Stop()
	}

	go func() {
		slog.Info("Server starting", "addr", server.Addr, "driver", cfg.Database.Driver, "cache", cfg.Cache.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}
	slog.Info("Server stopped")
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.App.LogLevel)); err != nil {
		level = slog.LevelInfo
	}

	logFormat := httplog.SchemaECS.Concise(false)
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", appName),
		slog.String("version", appVersion),
		slog.String("env", cfg.App.Env),
	)
}

// openStore connects the configured punch store.
func openStore(ctx context.Context, cfg *config.Config) (employee.EmployeeRepository, punch.PunchRepository, func(), error) {
	switch cfg.Database.Driver {
	case config.DriverSQLite:
		db, err := database.NewSQLiteDB(ctx, cfg.Database.SQLitePath)
		if err != nil {
			return nil, nil, nil, err
		}
		return sqlite.NewEmployeeRepository(db), sqlite.NewPunchRepository(db), func() { db.Close() }, nil
	default:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return nil, nil, nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, nil, err
		}
		return postgresql.NewEmployeeRepository(db), postgresql.NewPunchRepository(db), db.Close, nil
	}
}

// openCache returns the configured cache. Redis falls back to memory when the
// server is unreachable so the API keeps serving.
func openCache(ctx context.Context, cfg *config.Config) (cache.Cache, func(), error) {
	switch cfg.Cache.Driver {
	case config.CacheNone:
		return cache.Noop{}, func() {}, nil
	case config.CacheRedis:
		client, err := cache.ConnectRedis(ctx, cfg.RedisAddr(), cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			slog.Warn("Redis unavailable, using in-memory cache", "addr", cfg.RedisAddr(), "error", err)
			return cache.NewMemory(), func() {}, nil
		}
		return cache.NewRedis(client, appName+":"), func() { client.Close() }, nil
	default:
		return cache.NewMemory(), func() {}, nil
	}
}
