package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	summaryDatamodel "github.com/mbarcellos/finance-tracker/internal/core/datamodel/summary"
	"github.com/mbarcellos/finance-tracker/internal/core/events"
	"github.com/mbarcellos/finance-tracker/internal/entry"
	"github.com/mbarcellos/finance-tracker/internal/schedule"
)

// EntryReader is the slice of the entry service the report engine reads
// through. All aggregation happens in memory over the loaded set.
type EntryReader interface {
	List(typ entry.Type, groupIDs []int64, filters entry.ListFilters) ([]*entry.Entry, error)
}

// CashFlowReader supplies the signed cash flow total that seeds balances.
type CashFlowReader interface {
	Balance(groupIDs []int64) (decimal.Decimal, error)
}

// GroupResolver resolves a user to their shared financial group.
type GroupResolver interface {
	SharedUserIDs(userID int64) ([]int64, error)
}

type SummaryStore interface {
	Upsert(s *summaryDatamodel.FinancialSummary) error
	ListByUser(userID int64) ([]*summaryDatamodel.FinancialSummary, error)
}

type Service struct {
	entries   EntryReader
	cashFlows CashFlowReader
	groups    GroupResolver
	summaries SummaryStore
	logger    *slog.Logger
}

func NewService(entries EntryReader, cashFlows CashFlowReader, groups GroupResolver, summaries SummaryStore, logger *slog.Logger) *Service {
	return &Service{
		entries:   entries,
		cashFlows: cashFlows,
		groups:    groups,
		summaries: summaries,
		logger:    logger,
	}
}

// ComputeMetrics builds one snapshot of the group's position as of today.
// Each component is an independent aggregation pass; nothing is cached.
func (s *Service) ComputeMetrics(groupIDs []int64, today time.Time) (MetricsSnapshot, error) {
	incomes, expenses, err := s.loadEntries(groupIDs)
	if err != nil {
		return MetricsSnapshot{}, err
	}

	cashFlowTotal, err := s.cashFlows.Balance(groupIDs)
	if err != nil {
		return MetricsSnapshot{}, err
	}

	incomePaidThisMonth := SumWhere(incomes, PaidInMonth(today))
	expensesPaidThisMonth := SumWhere(expenses, PaidInMonth(today))

	overdue := FilterWhere(expenses, Overdue(today))

	return MetricsSnapshot{
		CurrentBalance:       cashFlowTotal.Add(incomePaidThisMonth).Sub(expensesPaidThisMonth),
		MonthlyFixedExpenses: SumWhere(expenses, ByKind(entry.KindFixed)),
		TotalDebt: SumWhere(expenses, All(
			ByKind(entry.KindInstallment),
			ByStatus(entry.StatusPending),
		)),
		MonthlyIncome: SumWhere(incomes, All(
			ByKind(entry.KindFixed, entry.KindSingle),
			StartedInMonth(today),
		)),
		PaidAmount:    expensesPaidThisMonth,
		PendingAmount: SumWhere(expenses, ByStatus(entry.StatusPending)),
		OverdueAmount: SumWhere(overdue, Any),
		OverdueCount:  len(overdue),
	}, nil
}

// Project builds monthsAhead sequential rows starting at the month of
// start. The accumulated balance is seeded by the group's cash flow total
// and carried mutably across iterations, so the order is strictly month 0
// onward.
//
// Fixed entries contribute their full amount every month; single entries
// contribute only in the month of their start date; installment entries
// contribute from their start date onward with no upper bound.
func (s *Service) Project(groupIDs []int64, monthsAhead int, start time.Time) ([]MonthlyProjection, error) {
	if monthsAhead < 1 {
		monthsAhead = 1
	}

	incomes, expenses, err := s.loadEntries(groupIDs)
	if err != nil {
		return nil, err
	}

	accumulated, err := s.cashFlows.Balance(groupIDs)
	if err != nil {
		return nil, err
	}

	fixedIncome := SumWhere(incomes, ByKind(entry.KindFixed))
	fixedExpenses := SumWhere(expenses, ByKind(entry.KindFixed))

	projections := make([]MonthlyProjection, 0, monthsAhead)
	for i := 0; i < monthsAhead; i++ {
		monthDate := schedule.AddMonths(schedule.MonthStart(start), i)

		singleIncome := SumWhere(incomes, All(ByKind(entry.KindSingle), StartedInMonth(monthDate)))
		installmentIncome := SumWhere(incomes, All(ByKind(entry.KindInstallment), StartedOnOrBefore(monthDate)))
		totalIncome := fixedIncome.Add(singleIncome).Add(installmentIncome)

		singleExpenses := SumWhere(expenses, All(ByKind(entry.KindSingle), StartedInMonth(monthDate)))
		installmentExpenses := SumWhere(expenses, All(ByKind(entry.KindInstallment), StartedOnOrBefore(monthDate)))
		totalExpenses := fixedExpenses.Add(singleExpenses).Add(installmentExpenses)

		estimated := totalIncome.Sub(totalExpenses)
		accumulated = accumulated.Add(estimated)

		projections = append(projections, MonthlyProjection{
			Year:                monthDate.Year(),
			Month:               int(monthDate.Month()),
			MonthName:           monthDate.Month().String(),
			TotalIncome:         totalIncome,
			FixedExpenses:       fixedExpenses,
			InstallmentExpenses: installmentExpenses,
			TotalExpenses:       totalExpenses,
			EstimatedBalance:    estimated,
			AccumulatedBalance:  accumulated,
		})
	}

	return projections, nil
}

// ListSummaries returns the cached monthly snapshots for one user.
func (s *Service) ListSummaries(userID int64) ([]SummaryResponse, error) {
	models, err := s.summaries.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	result := make([]SummaryResponse, len(models))
	for i, m := range models {
		result[i] = SummaryResponse{
			UserID:              m.UserID,
			Year:                m.Year,
			Month:               m.Month,
			TotalIncome:         m.TotalIncome.StringFixed(2),
			TotalExpenses:       m.TotalExpenses.StringFixed(2),
			FixedExpenses:       m.FixedExpenses.StringFixed(2),
			InstallmentExpenses: m.InstallmentExpenses.StringFixed(2),
			Balance:             m.Balance.StringFixed(2),
			PaidAmount:          m.PaidAmount.StringFixed(2),
			PendingAmount:       m.PendingAmount.StringFixed(2),
			OverdueAmount:       m.OverdueAmount.StringFixed(2),
			CalculatedAt:        m.CalculatedAt,
		}
	}
	return result, nil
}

// SummariesForPeriod narrows the cached snapshots by year and/or month.
// When a fully specified period matches nothing the snapshot is computed
// on demand, so asking for a month always answers with its numbers.
func (s *Service) SummariesForPeriod(userID int64, year, month int) ([]SummaryResponse, error) {
	summaries, err := s.ListSummaries(userID)
	if err != nil {
		return nil, err
	}

	filtered := filterSummaries(summaries, year, month)
	if len(filtered) > 0 || year == 0 || month == 0 {
		return filtered, nil
	}

	if err := s.RecomputeSummary(userID, year, month); err != nil {
		return nil, err
	}
	summaries, err = s.ListSummaries(userID)
	if err != nil {
		return nil, err
	}
	return filterSummaries(summaries, year, month), nil
}

func filterSummaries(summaries []SummaryResponse, year, month int) []SummaryResponse {
	if year == 0 && month == 0 {
		return summaries
	}
	filtered := make([]SummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		if year > 0 && s.Year != year {
			continue
		}
		if month > 0 && s.Month != month {
			continue
		}
		filtered = append(filtered, s)
	}
	return filtered
}

// RecomputeSummary rebuilds the cached snapshot for one user and period
// from the group's live records. The cache is derivable state, never the
// source of truth.
func (s *Service) RecomputeSummary(userID int64, year, month int) error {
	groupIDs, err := s.groups.SharedUserIDs(userID)
	if err != nil {
		return err
	}

	incomes, expenses, err := s.loadEntries(groupIDs)
	if err != nil {
		return err
	}

	reference := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	now := time.Now()

	totalIncome := SumWhere(incomes, PaidInMonth(reference))
	totalExpenses := SumWhere(expenses, PaidInMonth(reference))

	snapshot := &summaryDatamodel.FinancialSummary{
		UserID:        userID,
		Year:          year,
		Month:         month,
		TotalIncome:   totalIncome,
		TotalExpenses: totalExpenses,
		FixedExpenses: SumWhere(expenses, ByKind(entry.KindFixed)),
		InstallmentExpenses: SumWhere(expenses, All(
			ByKind(entry.KindInstallment),
			ByStatus(entry.StatusPending),
		)),
		Balance:       totalIncome.Sub(totalExpenses),
		PaidAmount:    totalExpenses,
		PendingAmount: SumWhere(expenses, ByStatus(entry.StatusPending)),
		OverdueAmount: SumWhere(expenses, Overdue(now)),
		CalculatedAt:  now,
	}

	if err := s.summaries.Upsert(snapshot); err != nil {
		s.logger.Error("failed to upsert financial summary",
			"error", err, "user_id", userID, "year", year, "month", month)
		return err
	}

	s.logger.Info("financial summary recomputed", "user_id", userID, "year", year, "month", month)
	return nil
}

// HandleEntryStatusChanged is the event bus subscriber that keeps the
// snapshot for the entry's month fresh after mark_paid/mark_pending.
func (s *Service) HandleEntryStatusChanged(ctx context.Context, event events.Event) error {
	changed, ok := event.(*events.EntryStatusChangedEvent)
	if !ok {
		return fmt.Errorf("unexpected event payload for %s", event.EventType())
	}
	return s.RecomputeSummary(changed.UserID, changed.EntryDate.Year(), int(changed.EntryDate.Month()))
}

func (s *Service) loadEntries(groupIDs []int64) (incomes, expenses []*entry.Entry, err error) {
	incomes, err = s.entries.List(entry.TypeIncome, groupIDs, entry.ListFilters{})
	if err != nil {
		s.logger.Error("failed to load incomes", "error", err)
		return nil, nil, err
	}
	expenses, err = s.entries.List(entry.TypeExpense, groupIDs, entry.ListFilters{})
	if err != nil {
		s.logger.Error("failed to load expenses", "error", err)
		return nil, nil, err
	}
	return incomes, expenses, nil
}
