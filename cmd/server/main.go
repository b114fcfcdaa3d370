package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	contentapp "github.com/lifeos/backend/internal/application/content"
	crmapp "github.com/lifeos/backend/internal/application/crm"
	gameapp "github.com/lifeos/backend/internal/application/game"
	identityapp "github.com/lifeos/backend/internal/application/identity"
	plannerapp "github.com/lifeos/backend/internal/application/planner"
	"github.com/lifeos/backend/internal/infrastructure/auth"
	"github.com/lifeos/backend/internal/infrastructure/calendar"
	"github.com/lifeos/backend/internal/infrastructure/config"
	"github.com/lifeos/backend/internal/infrastructure/crypto"
	"github.com/lifeos/backend/internal/infrastructure/logger"
	"github.com/lifeos/backend/internal/infrastructure/mailer"
	"github.com/lifeos/backend/internal/infrastructure/migration"
	"github.com/lifeos/backend/internal/infrastructure/outbox"
	"github.com/lifeos/backend/internal/infrastructure/persistence"
	"github.com/lifeos/backend/internal/infrastructure/taskboard"
	"github.com/lifeos/backend/internal/interfaces/http/handler"
	"github.com/lifeos/backend/internal/interfaces/http/middleware"
	"github.com/lifeos/backend/internal/interfaces/http/router"

	"github.com/lifeos/backend/internal/domain/shared"
)

const migrationsPath = "migrations"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting LifeOS Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database connection with zap-backed GORM logging
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Apply pending migrations before serving traffic
	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatal("Failed to obtain sql.DB", zap.Error(err))
	}
	migrator, err := migration.New(sqlDB, migrationsPath, log)
	if err != nil {
		log.Fatal("Failed to initialize migrator", zap.Error(err))
	}
	if err := migrator.Up(); err != nil {
		log.Fatal("Failed to apply migrations", zap.Error(err))
	}

	// Redis for the token blacklist and cron dedup
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing Redis client", zap.Error(err))
		}
	}()

	// Auth and field encryption
	tokenValidator := auth.NewTokenValidator(cfg.Auth.Secret, cfg.Auth.Issuer, cfg.Auth.Audience, cfg.Auth.ClockSkew)
	blacklist := auth.NewRedisTokenBlacklist(redisClient)
	cipher, err := crypto.NewFieldCipher(cfg.Crypto.MasterKey)
	if err != nil {
		log.Fatal("Failed to initialize field cipher", zap.Error(err))
	}

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	areaRepo := persistence.NewGormAreaRepository(db.DB)
	goalRepo := persistence.NewGormGoalRepository(db.DB)
	stepRepo := persistence.NewGormStepRepository(db.DB)
	habitRepo := persistence.NewGormHabitRepository(db.DB)
	milestoneRepo := persistence.NewGormMilestoneRepository(db.DB)
	leadRepo := persistence.NewGormLeadRepository(db.DB)
	workflowRepo := persistence.NewGormWorkflowRepository(db.DB)
	bookingRepo := persistence.NewGormBookingRepository(db.DB)
	articleRepo := persistence.NewGormArticleRepository(db.DB)
	subscriberRepo := persistence.NewGormSubscriberRepository(db.DB)
	playerRepo := persistence.NewGormPlayerRepository(db.DB)
	outboxRepo := persistence.NewGormOutboxRepository(db.DB)

	// Outbox processor with the provider clients behind each side effect
	mailerClient := mailer.NewClient(cfg.Mailer)
	calendarClient := calendar.NewClient(cfg.Calendar)
	taskboardClient := taskboard.NewClient(cfg.Taskboard)

	processor := outbox.NewProcessor(outboxRepo, outbox.Config{
		BatchSize:        cfg.Outbox.BatchSize,
		PollInterval:     cfg.Outbox.PollInterval,
		CleanupEnabled:   cfg.Outbox.CleanupEnabled,
		CleanupRetention: cfg.Outbox.CleanupRetention,
	}, log)
	processor.Register(shared.SideEffectEmail, outbox.NewEmailHandler(mailerClient))
	processor.Register(shared.SideEffectCalendarEvent, outbox.NewCalendarHandler(calendarClient, bookingRepo))
	processor.Register(shared.SideEffectTaskboardCard, outbox.NewTaskboardHandler(taskboardClient, leadRepo))

	if cfg.Outbox.ProcessorEnabled {
		if err := processor.Start(context.Background()); err != nil {
			log.Fatal("Failed to start outbox processor", zap.Error(err))
		}
		defer processor.Stop()
		log.Info("Outbox processor started",
			zap.Int("batch_size", cfg.Outbox.BatchSize),
			zap.Duration("poll_interval", cfg.Outbox.PollInterval),
		)
	}

	// Application services. The player service doubles as the XP awarder for
	// the planner and CRM services.
	playerService := gameapp.NewPlayerService(playerRepo, userRepo)
	userService := identityapp.NewUserService(userRepo, blacklist)
	areaService := plannerapp.NewAreaService(areaRepo)
	goalService := plannerapp.NewGoalService(goalRepo, playerService)
	stepService := plannerapp.NewStepService(stepRepo, playerService)
	habitService := plannerapp.NewHabitService(habitRepo, playerService)
	milestoneService := plannerapp.NewMilestoneService(milestoneRepo, goalRepo, playerService)
	workflowService := crmapp.NewWorkflowService(workflowRepo)
	leadService := crmapp.NewLeadService(leadRepo, workflowRepo, userRepo, outboxRepo, cipher)
	bookingService := crmapp.NewBookingService(bookingRepo, outboxRepo, playerService, calendarClient)
	articleService := contentapp.NewArticleService(articleRepo)
	newsletterService := contentapp.NewNewsletterService(subscriberRepo, outboxRepo, cfg.Public.BaseURL)

	siteOwnerID := uuid.Nil
	if cfg.Public.SiteOwnerID != "" {
		siteOwnerID, err = uuid.Parse(cfg.Public.SiteOwnerID)
		if err != nil {
			log.Fatal("public.site_owner_id is not a valid UUID", zap.Error(err))
		}
	} else {
		log.Warn("public.site_owner_id is not set, public newsletter signup is disabled")
	}

	// HTTP handlers
	systemHandler := handler.NewSystemHandler(db, redisClient)
	authHandler := handler.NewAuthHandler(userService)
	areaHandler := handler.NewAreaHandler(areaService)
	goalHandler := handler.NewGoalHandler(goalService, milestoneService)
	stepHandler := handler.NewStepHandler(stepService)
	habitHandler := handler.NewHabitHandler(habitService)
	milestoneHandler := handler.NewMilestoneHandler(milestoneService)
	workflowHandler := handler.NewWorkflowHandler(workflowService, leadService)
	leadHandler := handler.NewLeadHandler(leadService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	articleHandler := handler.NewArticleHandler(articleService)
	newsletterHandler := handler.NewNewsletterHandler(newsletterService)
	playerHandler := handler.NewPlayerHandler(playerService)
	dashboardHandler := handler.NewDashboardHandler(stepService, habitService, goalService, bookingService)
	publicHandler := handler.NewPublicHandler(articleService, newsletterService, siteOwnerID)
	cronHandler := handler.NewCronHandler(userRepo, stepService, bookingService, processor)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Token validation runs on every route except the listed prefixes; the
	// resolver then provisions or refreshes the local user for valid tokens.
	engine.Use(middleware.TokenAuth(middleware.AuthConfig{
		Validator: tokenValidator,
		Blacklist: blacklist,
		SkipPathPrefixes: []string{
			"/api/v1/health",
			"/api/v1/system",
			"/api/v1/public",
			"/api/v1/cron",
		},
		Logger: log,
	}))
	engine.Use(middleware.ResolveUser(userService))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(systemHandler).
		Register(authHandler).
		Register(areaHandler).
		Register(goalHandler).
		Register(stepHandler).
		Register(habitHandler).
		Register(milestoneHandler).
		Register(workflowHandler).
		Register(leadHandler).
		Register(bookingHandler).
		Register(articleHandler).
		Register(newsletterHandler).
		Register(playerHandler).
		Register(dashboardHandler).
		Register(publicHandler)
	r.RegisterWith(cronHandler,
		middleware.CronAuth(cfg.Cron.Token),
		middleware.CronDedup(redisClient, time.Minute),
	)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
