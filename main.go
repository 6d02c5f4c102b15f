// Package main provides the main entry point for the expedientes case management system
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/caribelex/expedientes/app/handlers"
	"github.com/caribelex/expedientes/app/middleware"
	"github.com/caribelex/expedientes/app/router"
	"github.com/caribelex/expedientes/app/services"
	businessflow "github.com/caribelex/expedientes/business_flow"
	"github.com/caribelex/expedientes/config"
	"github.com/caribelex/expedientes/models"
	"github.com/caribelex/expedientes/repository"
	"github.com/caribelex/expedientes/utils"
	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Application represents the main application structure
type Application struct {
	router    *router.FiberRouter
	config    *config.ProductionConfig
	server    *fiber.App
	stopFuncs []func()
}

func main() {
	log.Println("Starting expedientes application...")

	cfg, err := config.LoadProductionConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	setupLogging(cfg.Logging)

	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	app.router.SetupRoutes()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Start server in goroutine
	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Server starting on %s", address)

		if err := app.server.Listen(address); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	log.Println("Shutting down gracefully...")

	// Stop background workers
	for _, fn := range app.stopFuncs {
		fn()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// setupLogging routes the standard logger through a rotating file when one is
// configured, keeping stdout as a second sink.
func setupLogging(cfg config.LoggingConfig) {
	if cfg.FilePath == "" {
		return
	}

	rotator := &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   cfg.Compress,
	}
	log.SetOutput(io.MultiWriter(os.Stdout, rotator))
}

// initializeDatabase initializes the database connection with connection pooling
func initializeDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := db.AutoMigrate(
		&models.AppUser{},
		&models.UserSession{},
		&models.AuditLog{},
		&models.Catalogo{},
		&models.SequenceCounter{},
		&models.Expediente{},
		&models.Actuacion{},
		&models.Notificacion{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database schema: %w", err)
	}

	log.Printf("Database connection established with %d max open connections, %d max idle connections",
		cfg.MaxOpenConns, cfg.MaxIdleConns)

	return db, nil
}

// initializeCache initializes the Redis client and verifies connectivity
func initializeCache(cfg config.CacheConfig) (*redis.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	opt.DB = cfg.RedisDB

	rc := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Printf("Redis connection established to %s (db=%d)", cfg.RedisURL, cfg.RedisDB)
	return rc, nil
}

// startCacheHealthMonitor starts a background goroutine that periodically pings Redis
// to detect connectivity issues. The returned cancel function stops the monitor.
func startCacheHealthMonitor(parent context.Context, client *redis.Client, interval time.Duration) func() {
	monitorCtx, cancel := context.WithCancel(parent)
	if interval <= 0 {
		interval = 30 * time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-monitorCtx.Done():
				return
			case <-ticker.C:
				ctx, c := context.WithTimeout(context.Background(), 3*time.Second)
				if err := client.Ping(ctx).Err(); err != nil {
					log.Printf("Redis healthcheck failed: %v", err)
				}
				c()
			}
		}
	}()
	return cancel
}

// startOverdueSweep runs the overdue-case notification sweep once per day.
// The returned cancel function stops the sweep.
func startOverdueSweep(parent context.Context, alertsFlow businessflow.AlertsFlow) func() {
	sweepCtx, cancel := context.WithCancel(parent)
	go func() {
		ticker := time.NewTicker(24 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-sweepCtx.Done():
				return
			case <-ticker.C:
				ctx, c := context.WithTimeout(context.Background(), 5*time.Minute)
				if n, err := alertsFlow.NotifyOverdue(ctx); err != nil {
					log.Printf("Overdue sweep failed: %v", err)
				} else if n > 0 {
					log.Printf("Overdue sweep created %d notifications", n)
				}
				c()
			}
		}
	}()
	return cancel
}

// ensureAdminUser seeds the configured administrator account on first boot
func ensureAdminUser(db *gorm.DB, cfg config.AdminConfig, bcryptCost int) error {
	if cfg.Email == "" || cfg.Password == "" {
		return nil
	}

	userRepo := repository.NewAppUserRepository(db)

	existing, err := userRepo.ByEmail(context.Background(), cfg.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcryptCost)
	if err != nil {
		return err
	}

	admin := models.AppUser{
		DisplayName:  cfg.DisplayName,
		Email:        cfg.Email,
		PasswordHash: string(hash),
		Rol:          models.RoleAdmin,
		IsActive:     utils.ToPtr(true),
		CreatedAt:    utils.UTCNow(),
		UpdatedAt:    utils.UTCNow(),
	}
	if err := userRepo.Save(context.Background(), &admin); err != nil {
		return err
	}

	log.Printf("Seeded administrator account %s", cfg.Email)
	return nil
}

// initializeApplication initializes the main application components
func initializeApplication(cfg *config.ProductionConfig) (*Application, error) {
	var stopFuncs []func()

	db, err := initializeDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	rc, err := initializeCache(cfg.Cache)
	if err != nil {
		return nil, err
	}
	if rc != nil {
		cancel := startCacheHealthMonitor(context.Background(), rc, cfg.Cache.HealthInterval)
		stopFuncs = append(stopFuncs, cancel)
	}

	tables, err := config.LoadDomainTables(cfg.Domain)
	if err != nil {
		return nil, err
	}
	log.Printf("Domain tables loaded: %d origin prefixes", len(tables.OriginPrefixes))

	if err := ensureAdminUser(db, cfg.Admin, cfg.Security.BcryptCost); err != nil {
		return nil, fmt.Errorf("failed to seed administrator account: %w", err)
	}

	// Initialize repositories
	userRepo := repository.NewAppUserRepository(db)
	sessionRepo := repository.NewUserSessionRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)
	catalogoRepo := repository.NewCatalogoRepository(db)
	counterRepo := repository.NewSequenceCounterRepository(db)
	expedienteRepo := repository.NewExpedienteRepository(db)
	actuacionRepo := repository.NewActuacionRepository(db)
	notifRepo := repository.NewNotificacionRepository(db)

	// Initialize services
	notificationService := services.NewNotificationService(services.NewMockEmailProvider())

	tokenService, err := services.NewTokenService(
		cfg.JWT.AccessTokenTTL,
		cfg.JWT.RefreshTokenTTL,
		cfg.JWT.Issuer,
		cfg.JWT.Audience,
		cfg.JWT.UseRSAKeys,
		cfg.JWT.PrivateKey,
		cfg.JWT.PublicKey,
		cfg.JWT.SecretKey,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}

	log.Printf("Token service initialized with issuer: %s, audience: %s", cfg.JWT.Issuer, cfg.JWT.Audience)

	// Initialize flows
	radicacionFlow := businessflow.NewRadicacionFlow(counterRepo, tables.OriginPrefixes)

	loginFlow := businessflow.NewLoginFlow(
		userRepo,
		sessionRepo,
		auditRepo,
		tokenService,
		db,
	)

	expedienteFlow := businessflow.NewExpedienteFlow(
		expedienteRepo,
		catalogoRepo,
		userRepo,
		notifRepo,
		auditRepo,
		radicacionFlow,
		notificationService,
		db,
	)

	actuacionFlow := businessflow.NewActuacionFlow(
		actuacionRepo,
		expedienteRepo,
		userRepo,
		notifRepo,
		auditRepo,
		db,
	)

	alertsFlow := businessflow.NewAlertsFlow(
		expedienteRepo,
		actuacionRepo,
		catalogoRepo,
		userRepo,
		notifRepo,
		tables,
		&cfg.Cache,
		rc,
	)

	catalogoFlow := businessflow.NewCatalogoFlow(catalogoRepo, auditRepo)
	notificacionFlow := businessflow.NewNotificacionFlow(notifRepo)
	reportFlow := businessflow.NewReportFlow(alertsFlow, actuacionRepo, expedienteRepo, userRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(loginFlow)
	expedienteHandler := handlers.NewExpedienteHandler(expedienteFlow)
	actuacionHandler := handlers.NewActuacionHandler(actuacionFlow, filepath.Join(cfg.Uploads.Dir, "actuaciones"))
	catalogoHandler := handlers.NewCatalogoHandler(catalogoFlow)
	alertsHandler := handlers.NewAlertsHandler(alertsFlow)
	reportHandler := handlers.NewReportHandler(reportFlow)
	notificacionHandler := handlers.NewNotificacionHandler(notificacionFlow)

	// Initialize auth middleware
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	// Initialize router
	appRouter := router.NewFiberRouter(
		cfg,
		authHandler,
		expedienteHandler,
		actuacionHandler,
		catalogoHandler,
		alertsHandler,
		reportHandler,
		notificacionHandler,
		authMiddleware,
	)

	stopSweep := startOverdueSweep(context.Background(), alertsFlow)
	stopFuncs = append(stopFuncs, stopSweep)

	fiberRouter := appRouter.(*router.FiberRouter)
	application := &Application{
		router:    fiberRouter,
		config:    cfg,
		server:    fiberRouter.GetApp(),
		stopFuncs: stopFuncs,
	}

	return application, nil
}
