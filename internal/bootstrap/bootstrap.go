// Package bootstrap wires configuration, storage and the HTTP stack together.
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/seyi/unimark/internal/app/controllers"
	appMigrations "github.com/seyi/unimark/internal/app/migrations"
	appRepos "github.com/seyi/unimark/internal/app/repositories"
	appRoutes "github.com/seyi/unimark/internal/app/routes"
	appServices "github.com/seyi/unimark/internal/app/services"
	"github.com/seyi/unimark/internal/cache"
	"github.com/seyi/unimark/internal/config"
	"github.com/seyi/unimark/internal/db"
	appMiddleware "github.com/seyi/unimark/internal/middleware"
	pkgAuth "github.com/seyi/unimark/internal/pkg/auth"
	"github.com/seyi/unimark/internal/pkg/logger"
	"github.com/seyi/unimark/internal/pkg/qrtoken"
	"github.com/seyi/unimark/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService          *appServices.AuthService
	SessionService       *appServices.SessionService
	AttendanceService    *appServices.AttendanceService
	ReportService        *appServices.ReportService
	AuthController       *appControllers.AuthController
	SessionController    *appControllers.SessionController
	AttendanceController *appControllers.AttendanceController
	AuthMiddleware       *appMiddleware.AuthMiddleware
	ScanLimiter          *appMiddleware.RateLimiter
	Repos                *appRepos.Repositories
	JWTService           *pkgAuth.JWTService
	Logger               zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}
	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if cfg.Server.Mode == "development" {
		if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
			lgr.Error().Err(err).Msg("Failed to create demo accounts, proceeding anyway...")
		}
	}

	return dbPool, nil
}

// SetupRedis connects the live-count cache. A failed connection is logged and
// the application continues without caching.
func SetupRedis(cfg *config.Config, lgr zerolog.Logger) *redis.Client {
	if cfg.Redis.Addr == "" {
		lgr.Info().Msg("Redis not configured, live counts served from storage")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		lgr.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis unreachable, live counts served from storage")
		return nil
	}

	lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Redis connection established")
	return client
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, redisClient *redis.Client, lgr zerolog.Logger) (*Dependencies, error) {
	repos := appRepos.NewRepositories(dbPool)

	jwtService := pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: cfg.AccessTokenExpiration(),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	signer := qrtoken.NewSigner(cfg.QR.Secret, cfg.SessionTTL(), cfg.JWT.Issuer)
	liveCounter := cache.NewLiveCounter(redisClient)

	authService := appServices.NewAuthService(repos.UserRepository, jwtService, lgr)
	sessionService := appServices.NewSessionService(repos.SessionRepository, repos.AttendanceRepository, repos.UserRepository, signer, liveCounter, lgr)
	attendanceService := appServices.NewAttendanceService(repos.SessionRepository, repos.AttendanceRepository, signer, liveCounter, lgr)
	reportService := appServices.NewReportService(repos.SessionRepository, repos.AttendanceRepository, lgr)

	return &Dependencies{
		AuthService:          authService,
		SessionService:       sessionService,
		AttendanceService:    attendanceService,
		ReportService:        reportService,
		AuthController:       appControllers.NewAuthController(authService, lgr),
		SessionController:    appControllers.NewSessionController(sessionService, reportService, lgr),
		AttendanceController: appControllers.NewAttendanceController(attendanceService, lgr),
		AuthMiddleware:       appMiddleware.NewAuthMiddleware(jwtService),
		ScanLimiter:          appMiddleware.NewRateLimiter(cfg.RateLimit.ScanPerMinute, cfg.RateLimit.ScanPerMinute),
		Repos:                repos,
		JWTService:           jwtService,
		Logger:               lgr,
	}, nil
}

// SetupRouter creates the gin engine and registers all routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	appRoutes.SetupRouter(
		router,
		deps.AuthController,
		deps.SessionController,
		deps.AttendanceController,
		deps.AuthMiddleware,
		deps.ScanLimiter,
		cfg.Server.CronSecret,
	)

	lgr.Info().Msg("Router configured")
	return router
}
