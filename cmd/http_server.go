package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/mbarcellos/finance-tracker/internal"
	"github.com/mbarcellos/finance-tracker/internal/auth"
	authPostgres "github.com/mbarcellos/finance-tracker/internal/auth/postgres"
	"github.com/mbarcellos/finance-tracker/internal/cashflow"
	cashflowPostgres "github.com/mbarcellos/finance-tracker/internal/cashflow/postgres"
	"github.com/mbarcellos/finance-tracker/internal/category"
	categoryPostgres "github.com/mbarcellos/finance-tracker/internal/category/postgres"
	"github.com/mbarcellos/finance-tracker/internal/core/events"
	"github.com/mbarcellos/finance-tracker/internal/entry"
	entryPostgres "github.com/mbarcellos/finance-tracker/internal/entry/postgres"
	"github.com/mbarcellos/finance-tracker/internal/report"
	reportPostgres "github.com/mbarcellos/finance-tracker/internal/report/postgres"
	"github.com/mbarcellos/finance-tracker/internal/transport/rest"
	"github.com/mbarcellos/finance-tracker/internal/transport/swagger"
	"github.com/mbarcellos/finance-tracker/internal/user"
	userPostgres "github.com/mbarcellos/finance-tracker/internal/user/postgres"
	"github.com/mbarcellos/finance-tracker/pkg/logger"
)

const openAPISpecPath = "./api/openapi.yml"

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config *internal.Config
	DB     *sqlx.DB
	Router *chi.Mux
	Logger *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"))
	lg := logger.L()

	if err := swagger.ValidateSpec(context.Background(), openAPISpecPath); err != nil {
		return nil, fmt.Errorf("openapi spec check failed: %w", err)
	}

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	eventBus := events.NewEventBus(lg)

	tokenGen := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
		config.Security.AccessTokenDuration,
		config.Security.RefreshTokenDuration,
	)

	authService := auth.NewService(
		authPostgres.NewRepository(gormDB),
		tokenGen,
		config.Security.BCryptCost,
		config.Security.ResetTokenDuration,
		lg,
	)
	userService := user.NewService(userPostgres.NewRepository(gormDB), lg)
	categoryService := category.NewService(categoryPostgres.NewRepository(gormDB), lg)
	entryService := entry.NewService(entryPostgres.NewRepository(gormDB), categoryService, eventBus, lg)
	cashFlowService := cashflow.NewService(cashflowPostgres.NewRepository(gormDB), lg)
	reportService := report.NewService(
		entryService,
		cashFlowService,
		groupResolver{users: userService},
		reportPostgres.NewSummaryRepository(gormDB),
		lg,
	)

	eventBus.Subscribe(events.EventTypeEntryStatusChanged, reportService.HandleEntryStatusChanged)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, db.DB, rest.Handlers{
		Auth:     auth.NewHandler(authService, lg),
		User:     user.NewHandler(userService, lg),
		Category: category.NewHandler(categoryService, lg),
		Entry:    entry.NewHandler(entryService, lg),
		CashFlow: cashflow.NewHandler(cashFlowService, lg),
		Report:   report.NewHandler(reportService, lg),
	}, config.Server.AllowedOrigins, lg)

	return &Dependencies{
		Config: config,
		Logger: lg,
		DB:     db,
		Router: router,
	}, nil
}

// groupResolver adapts the user service to the report engine's view of a
// shared financial group.
type groupResolver struct {
	users *user.Service
}

func (g groupResolver) SharedUserIDs(userID int64) ([]int64, error) {
	u, err := g.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	return u.SharedUserIDs(), nil
}

func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
