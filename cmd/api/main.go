package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/helpdesk-service/internal/api/http"
	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/license"
	"github.com/spec-kit/helpdesk-service/internal/mail"
	"github.com/spec-kit/helpdesk-service/internal/observability"
	"github.com/spec-kit/helpdesk-service/internal/persistence"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/service"
	"github.com/spec-kit/helpdesk-service/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	commentRepo := repository.NewCommentRepository(pool)
	attachmentRepo := repository.NewAttachmentRepository(pool)
	equipmentRepo := repository.NewEquipmentRequestRepository(pool)
	userRequestRepo := repository.NewUserRequestRepository(pool)
	studentRepo := repository.NewStudentRequestRepository(pool)
	taskRepo := repository.NewTaskRepository(pool)
	logRepo := repository.NewLogRepository(pool)
	statsRepo := repository.NewStatsRepository(pool)

	loc := cfg.App.Location()
	files := storage.NewFileStore(cfg.Uploads.Dir, cfg.Uploads.AllowedExtensions)
	sender := mail.NewSMTPSender(cfg.SMTP, logger)

	dispatcher := events.NewInMemoryDispatcher()
	notifications := service.NewNotificationService(userRepo, sender, logger, loc)
	notifications.Register(dispatcher)

	authService := service.NewAuthService(cfg.Auth, userRepo, logger)
	userService := service.NewUserService(cfg.Auth, userRepo)
	ticketService := service.NewTicketService(ticketRepo, commentRepo, attachmentRepo, userRepo, files, dispatcher, logger, loc)
	requestService := service.NewRequestService(equipmentRepo, userRequestRepo, studentRepo, dispatcher)
	taskService := service.NewTaskService(taskRepo, logRepo, statsRepo, files, logger, loc)
	assistantService := service.NewAssistantService(cfg.Assistant, logger)

	if err := authService.EnsureSuperAdmin(ctx); err != nil {
		logger.Fatal("failed to seed super admin", zap.Error(err))
	}

	checker := license.NewChecker(cfg.License, redis.Client, logger, loc)

	app := fiber.New(fiber.Config{
		BodyLimit: cfg.Uploads.MaxBodyBytes(),
	})
	httptransport.RegisterMiddlewares(app, logger, checker, cfg.Auth.SuperAdminEmail, cfg.App.RequestTimeout())

	sessions := auth.NewMiddleware(authService.TokenManager(), userRepo, cfg.Auth.SessionCookieName)
	app.Use(sessions.Handle)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:          handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:            handlers.NewAuthHandler(authService, cfg.Auth.SessionCookieName),
		Users:           handlers.NewUsersHandler(userService),
		Tickets:         handlers.NewTicketsHandler(ticketService, loc),
		Requests:        handlers.NewRequestsHandler(requestService),
		Tasks:           handlers.NewTasksHandler(taskService),
		Assistant:       handlers.NewAssistantHandler(assistantService),
		General:         handlers.NewGeneralHandler(sender),
		SuperAdminEmail: cfg.Auth.SuperAdminEmail,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
