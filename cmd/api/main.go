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

	_ "dha-governance/docs" // This is for Swagger
	"dha-governance/internal/config"
	"dha-governance/internal/database"
	"dha-governance/internal/email"
	"dha-governance/internal/handlers"
	"dha-governance/internal/logger"
	"dha-governance/internal/middleware"
	"dha-governance/internal/repository"
	"dha-governance/internal/scheduler"
	"dha-governance/internal/securestore"
	"dha-governance/internal/service"
	"dha-governance/internal/vault"

	httpSwagger "github.com/swaggo/http-swagger"
)

// @title Digital Health Atlas Governance API
// @version 1.0
// @description Backend API for intake governance: criteria versioning, board voting, and decision-gated project conversion

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logger
	logger.Setup(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	slog.Info("Starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"env", cfg.App.Env,
		"log_level", cfg.Log.Level,
	)

	// Initialize database
	db, err := database.New(&cfg.Database)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func(db *database.Database) {
		err := db.Close()
		if err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}(db)

	slog.Info("Database connection established")

	// Run database migrations
	migrator := database.NewMigrationExecutor(db.DB)
	if err := migrator.RunMigrations("./migrations"); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database migrations completed")

	// The probe decides whether governance endpoints are served at all.
	// Intake keeps working against a database without the governance schema.
	probe := database.NewGovernanceProbe(db.DB)

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.DB)
	auditRepo := repository.NewAuditRepository(db.DB)
	settingsRepo := repository.NewSettingsRepository(db.DB)
	boardRepo := repository.NewBoardRepository(db.DB)
	membershipRepo := repository.NewMembershipRepository(db.DB)
	criteriaRepo := repository.NewCriteriaRepository(db.DB)
	formRepo := repository.NewFormRepository(db.DB)
	submissionRepo := repository.NewSubmissionRepository(db.DB)
	voteRepo := repository.NewVoteRepository(db.DB)
	projectRepo := repository.NewProjectRepository(db.DB)
	encryptedRecordRepo := repository.NewEncryptedRecordRepository(db.DB)

	// Initialize Vault-backed encryption (if enabled)
	var vaultClient *vault.Client
	if cfg.Vault.Enabled {
		slog.Info("Vault is enabled - initializing transit encryption")
		vaultClient, err = vault.NewClient(&vault.Config{
			Address:      cfg.Vault.Address,
			Token:        cfg.Vault.Token,
			TransitMount: cfg.Vault.TransitMount,
		})
		if err != nil {
			slog.Error("Failed to initialize Vault client", "error", err)
			os.Exit(1)
		}
	} else {
		slog.Warn("Vault is disabled - vote comments and decision reasons stay in plaintext")
	}
	secureStore, err := securestore.New(vaultClient, encryptedRecordRepo)
	if err != nil {
		slog.Error("Failed to initialize secure store", "error", err)
		os.Exit(1)
	}

	// Initialize services
	emailService := email.NewService(&cfg.Email)
	auditService := service.NewAuditService(auditRepo)
	settingsService := service.NewSettingsService(settingsRepo, probe, auditService)
	boardService := service.NewBoardService(boardRepo, membershipRepo, userRepo, auditService)
	criteriaService := service.NewCriteriaService(criteriaRepo, boardRepo, auditService)
	intakeService := service.NewIntakeService(formRepo, submissionRepo, boardRepo, settingsService, auditService)
	reviewService := service.NewReviewService(submissionRepo, formRepo, boardRepo, membershipRepo, criteriaRepo, voteRepo, userRepo, secureStore, emailService, auditService, cfg.Governance)
	conversionService := service.NewConversionService(submissionRepo, projectRepo, auditService)

	// Initialize scheduler
	schedulerService := scheduler.NewScheduler(submissionRepo, membershipRepo, voteRepo, emailService, &cfg.Scheduler)
	schedulerService.Start()
	defer schedulerService.Stop()

	// Initialize middleware
	authMw := middleware.NewAuthMiddleware(cfg.JWT, userRepo)
	rbacMw := middleware.NewRBACMiddleware(db.DB)
	corsMw := middleware.NewCORSMiddleware(&cfg.CORS)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit)
	auditMw := middleware.NewAuditMiddleware(db.DB)
	probeMw := middleware.NewProbeMiddleware(probe)

	// Initialize handlers
	settingsHandler := handlers.NewSettingsHandler(settingsService)
	boardHandler := handlers.NewBoardHandler(boardService)
	criteriaHandler := handlers.NewCriteriaHandler(criteriaService)
	formHandler := handlers.NewFormHandler(intakeService)
	submissionHandler := handlers.NewSubmissionHandler(intakeService, reviewService, conversionService)
	queueHandler := handlers.NewQueueHandler(reviewService)
	auditHandler := handlers.NewAuditHandler(auditService)

	// Setup router
	mux := http.NewServeMux()

	// manage wires authentication, governance availability, and a permission
	// check in front of a governance endpoint
	manage := func(permission string, h http.HandlerFunc) http.Handler {
		return authMw.Authenticate(
			probeMw.RequireGovernance(
				rbacMw.RequirePermission(permission)(h),
			),
		)
	}

	// Intake routes. Submission intake stays available without governance.
	mux.Handle("POST /api/v1/submissions", authMw.Authenticate(http.HandlerFunc(submissionHandler.CreateSubmission)))
	mux.Handle("GET /api/v1/submissions/{id}", authMw.Authenticate(http.HandlerFunc(submissionHandler.GetSubmission)))
	mux.Handle("POST /api/v1/submissions/{id}/convert",
		authMw.Authenticate(
			rbacMw.RequirePermission("can_manage_governance")(
				auditMw.Log("convert", "submission")(
					http.HandlerFunc(submissionHandler.Convert),
				),
			),
		),
	)

	// Form routes
	mux.Handle("GET /api/v1/forms", authMw.Authenticate(http.HandlerFunc(formHandler.ListForms)))
	mux.Handle("GET /api/v1/forms/{id}", authMw.Authenticate(http.HandlerFunc(formHandler.GetForm)))
	mux.Handle("POST /api/v1/forms",
		authMw.Authenticate(
			rbacMw.RequirePermission("can_manage_governance")(
				http.HandlerFunc(formHandler.CreateForm),
			),
		),
	)
	mux.Handle("PUT /api/v1/forms/{id}",
		authMw.Authenticate(
			rbacMw.RequirePermission("can_manage_governance")(
				http.HandlerFunc(formHandler.UpdateForm),
			),
		),
	)

	// Governance settings
	mux.Handle("GET /api/v1/governance/settings", manage("can_view_governance_queue", settingsHandler.GetSettings))
	mux.Handle("PUT /api/v1/governance/settings", manage("can_manage_governance", settingsHandler.UpdateSettings))

	// Board routes
	mux.Handle("GET /api/v1/governance/boards", manage("can_view_governance_queue", boardHandler.ListBoards))
	mux.Handle("POST /api/v1/governance/boards", manage("can_manage_governance", boardHandler.CreateBoard))
	mux.Handle("GET /api/v1/governance/boards/{id}", manage("can_view_governance_queue", boardHandler.GetBoard))
	mux.Handle("PUT /api/v1/governance/boards/{id}", manage("can_manage_governance", boardHandler.UpdateBoard))
	mux.Handle("GET /api/v1/governance/boards/{id}/members", manage("can_view_governance_queue", boardHandler.ListMembers))
	mux.Handle("PUT /api/v1/governance/boards/{id}/members", manage("can_manage_governance", boardHandler.UpsertMembership))

	// Criteria routes
	mux.Handle("GET /api/v1/governance/boards/{id}/criteria-versions", manage("can_view_governance_queue", criteriaHandler.ListVersions))
	mux.Handle("POST /api/v1/governance/boards/{id}/criteria-versions", manage("can_manage_governance", criteriaHandler.CreateDraft))
	mux.Handle("GET /api/v1/governance/boards/{id}/criteria-versions/published", manage("can_view_governance_queue", criteriaHandler.GetPublished))
	mux.Handle("GET /api/v1/governance/criteria-versions/{id}", manage("can_view_governance_queue", criteriaHandler.GetVersion))
	mux.Handle("PUT /api/v1/governance/criteria-versions/{id}", manage("can_manage_governance", criteriaHandler.UpdateDraft))
	mux.Handle("POST /api/v1/governance/criteria-versions/{id}/publish", manage("can_manage_governance", criteriaHandler.Publish))

	// Review workflow routes
	mux.Handle("POST /api/v1/governance/submissions/{id}/apply", manage("can_manage_governance", submissionHandler.ApplyGovernance))
	mux.Handle("POST /api/v1/governance/submissions/{id}/skip", manage("can_manage_governance", submissionHandler.SkipGovernance))
	mux.Handle("POST /api/v1/governance/submissions/{id}/start-review", manage("can_manage_governance", submissionHandler.StartReview))
	mux.Handle("PUT /api/v1/governance/submissions/{id}/votes", manage("can_vote_governance", submissionHandler.SubmitVote))
	mux.Handle("POST /api/v1/governance/submissions/{id}/decision",
		authMw.Authenticate(
			probeMw.RequireGovernance(
				rbacMw.RequirePermission("can_decide_governance")(
					auditMw.Log("decide", "submission")(
						http.HandlerFunc(submissionHandler.Decide),
					),
				),
			),
		),
	)
	mux.Handle("GET /api/v1/governance/submissions/{id}/review", manage("can_view_governance_queue", submissionHandler.GetReviewDetails))

	// Queue projection
	mux.Handle("GET /api/v1/governance/queue", manage("can_view_governance_queue", queueHandler.GetQueue))

	// Admin routes
	mux.Handle("GET /api/v1/admin/audit-logs",
		authMw.Authenticate(
			rbacMw.RequireAnyRole("admin")(
				http.HandlerFunc(auditHandler.ListAuditLogs),
			),
		),
	)

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.HealthCheck(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, err := w.Write([]byte(`{"status":"unhealthy","database":"error"}`))
			if err != nil {
				slog.Error("Failed to write health check response", "error", err)
				return
			}
			return
		}
		governance := "unavailable"
		if probe.Provisioned() {
			governance = "available"
		}
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte(`{"status":"healthy","governance":"` + governance + `","version":"` + cfg.App.Version + `"}`))
		if err != nil {
			slog.Error("Failed to write health check response", "error", err)
			return
		}
	})

	// Swagger documentation
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	// Apply global middleware
	handler := middleware.LoggingMiddleware(
		middleware.SecurityHeaders(
			corsMw.Handler(
				rateLimiter.Limit(mux),
			),
		),
	)

	// Create server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.TimeoutRead,
		WriteTimeout: cfg.Server.TimeoutWrite,
		IdleTimeout:  cfg.Server.TimeoutIdle,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Server starting", "address", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Server shutting down...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped")
}
