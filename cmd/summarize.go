package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/mbarcellos/finance-tracker/internal/cashflow"
	cashflowPostgres "github.com/mbarcellos/finance-tracker/internal/cashflow/postgres"
	"github.com/mbarcellos/finance-tracker/internal/category"
	categoryPostgres "github.com/mbarcellos/finance-tracker/internal/category/postgres"
	"github.com/mbarcellos/finance-tracker/internal/core/events"
	"github.com/mbarcellos/finance-tracker/internal/entry"
	entryPostgres "github.com/mbarcellos/finance-tracker/internal/entry/postgres"
	"github.com/mbarcellos/finance-tracker/internal/report"
	reportPostgres "github.com/mbarcellos/finance-tracker/internal/report/postgres"
	"github.com/mbarcellos/finance-tracker/internal/schedule"
	"github.com/mbarcellos/finance-tracker/internal/user"
	userPostgres "github.com/mbarcellos/finance-tracker/internal/user/postgres"
	"github.com/mbarcellos/finance-tracker/pkg/logger"
)

var summarizeMonthsBack int

// summarizeCmd rebuilds the cached monthly snapshots for every active user.
// The HTTP path keeps them fresh per status change; this command backfills
// after migrations or manual data fixes.
var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Recompute cached financial summaries",
	Long:  `Recompute the cached per-user monthly financial summaries from live entries and cash flows.`,
	Run: func(cmd *cobra.Command, args []string) {
		runSummarize()
	},
}

func init() {
	summarizeCmd.Flags().IntVar(&summarizeMonthsBack, "months-back", 0, "Also recompute N months before the current one")
	rootCmd.AddCommand(summarizeCmd)
}

func runSummarize() {
	config, err := loadConfig(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(os.Getenv("APP_ENV"))
	lg := logger.L()

	db, err := initDB(config.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize orm: %v\n", err)
		os.Exit(1)
	}

	eventBus := events.NewEventBus(lg)
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

	rows, err := db.Query("SELECT id FROM users WHERE is_active = true")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to list users: %v\n", err)
		os.Exit(1)
	}
	defer rows.Close()

	var userIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to scan user id: %v\n", err)
			os.Exit(1)
		}
		userIDs = append(userIDs, id)
	}

	now := time.Now()
	for _, userID := range userIDs {
		for back := 0; back <= summarizeMonthsBack; back++ {
			period := schedule.AddMonths(schedule.MonthStart(now), -back)
			if err := reportService.RecomputeSummary(userID, period.Year(), int(period.Month())); err != nil {
				lg.Error("summary recompute failed",
					"user_id", userID, "year", period.Year(), "month", int(period.Month()), "error", err)
			}
		}
	}

	lg.Info("summaries recomputed", "users", len(userIDs), "months_back", summarizeMonthsBack)
}
