package report_test

import (
	"context"
	"errors"
	"log/slog"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	summaryDatamodel "github.com/mbarcellos/finance-tracker/internal/core/datamodel/summary"
	"github.com/mbarcellos/finance-tracker/internal/core/events"
	"github.com/mbarcellos/finance-tracker/internal/entry"
	"github.com/mbarcellos/finance-tracker/internal/report"
)

type mockEntryReader struct {
	incomes   []*entry.Entry
	expenses  []*entry.Entry
	listError error
}

func (m *mockEntryReader) List(typ entry.Type, groupIDs []int64, filters entry.ListFilters) ([]*entry.Entry, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	if typ == entry.TypeIncome {
		return m.incomes, nil
	}
	return m.expenses, nil
}

type mockCashFlowReader struct {
	balance      decimal.Decimal
	balanceError error
}

func (m *mockCashFlowReader) Balance(groupIDs []int64) (decimal.Decimal, error) {
	if m.balanceError != nil {
		return decimal.Zero, m.balanceError
	}
	return m.balance, nil
}

type mockGroupResolver struct {
	groupIDs []int64
}

func (m *mockGroupResolver) SharedUserIDs(userID int64) ([]int64, error) {
	return m.groupIDs, nil
}

type mockSummaryStore struct {
	upserted    []*summaryDatamodel.FinancialSummary
	stored      []*summaryDatamodel.FinancialSummary
	upsertError error
}

func (m *mockSummaryStore) Upsert(s *summaryDatamodel.FinancialSummary) error {
	if m.upsertError != nil {
		return m.upsertError
	}
	m.upserted = append(m.upserted, s)
	for i, existing := range m.stored {
		if existing.UserID == s.UserID && existing.Year == s.Year && existing.Month == s.Month {
			m.stored[i] = s
			return nil
		}
	}
	m.stored = append(m.stored, s)
	return nil
}

func (m *mockSummaryStore) ListByUser(userID int64) ([]*summaryDatamodel.FinancialSummary, error) {
	return m.stored, nil
}

var _ = Describe("Report Service", func() {
	var (
		entryReader *mockEntryReader
		cashFlows   *mockCashFlowReader
		groups      *mockGroupResolver
		summaries   *mockSummaryStore
		service     *report.Service

		groupIDs []int64
		today    time.Time
	)

	BeforeEach(func() {
		entryReader = &mockEntryReader{}
		cashFlows = &mockCashFlowReader{balance: decimal.Zero}
		groups = &mockGroupResolver{groupIDs: []int64{10, 11}}
		summaries = &mockSummaryStore{}
		service = report.NewService(entryReader, cashFlows, groups, summaries,
			slog.New(slog.NewTextHandler(GinkgoWriter, nil)))
		groupIDs = []int64{10, 11}
		today = day(2024, time.March, 15)
	})

	paidOn := func(d time.Time) *time.Time { return &d }

	Describe("ComputeMetrics", func() {
		BeforeEach(func() {
			entryReader.incomes = []*entry.Entry{
				{ID: 1, Kind: entry.KindFixed, Status: entry.StatusPaid, Amount: amount("3000.00"),
					StartDate: day(2024, time.March, 1), PaidDate: paidOn(day(2024, time.March, 5))},
				{ID: 2, Kind: entry.KindSingle, Status: entry.StatusPending, Amount: amount("400.00"),
					StartDate: day(2024, time.March, 20)},
				{ID: 3, Kind: entry.KindSingle, Status: entry.StatusPending, Amount: amount("999.00"),
					StartDate: day(2024, time.May, 1)},
			}
			entryReader.expenses = []*entry.Entry{
				{ID: 4, Kind: entry.KindFixed, Status: entry.StatusPaid, Amount: amount("100.00"),
					StartDate: day(2024, time.March, 5), PaidDate: paidOn(day(2024, time.March, 7))},
				{ID: 5, Kind: entry.KindInstallment, Status: entry.StatusPending, Amount: amount("250.00"),
					StartDate: day(2024, time.February, 10)},
				{ID: 6, Kind: entry.KindSingle, Status: entry.StatusPending, Amount: amount("80.00"),
					StartDate: day(2024, time.March, 1)},
			}
			cashFlows.balance = amount("500.00")
		})

		It("derives the current balance from cash flow plus this month's paid movement", func() {
			snapshot, err := service.ComputeMetrics(groupIDs, today)

			Expect(err).NotTo(HaveOccurred())
			// 500.00 + 3000.00 paid income - 100.00 paid expenses
			Expect(snapshot.CurrentBalance.Equal(amount("3400.00"))).To(BeTrue())
		})

		It("sums fixed expenses regardless of status", func() {
			snapshot, err := service.ComputeMetrics(groupIDs, today)

			Expect(err).NotTo(HaveOccurred())
			Expect(snapshot.MonthlyFixedExpenses.Equal(amount("100.00"))).To(BeTrue())
		})

		It("counts pending installments as debt", func() {
			snapshot, err := service.ComputeMetrics(groupIDs, today)

			Expect(err).NotTo(HaveOccurred())
			Expect(snapshot.TotalDebt.Equal(amount("250.00"))).To(BeTrue())
		})

		It("takes monthly income from fixed and single entries starting this month", func() {
			snapshot, err := service.ComputeMetrics(groupIDs, today)

			Expect(err).NotTo(HaveOccurred())
			// 3000.00 fixed (starts in March) + 400.00 single in March; the May single is out
			Expect(snapshot.MonthlyIncome.Equal(amount("3400.00"))).To(BeTrue())
		})

		It("splits paid and pending expense amounts", func() {
			snapshot, err := service.ComputeMetrics(groupIDs, today)

			Expect(err).NotTo(HaveOccurred())
			Expect(snapshot.PaidAmount.Equal(amount("100.00"))).To(BeTrue())
			Expect(snapshot.PendingAmount.Equal(amount("330.00"))).To(BeTrue())
		})

		It("reports overdue sum and count over pending expenses already started", func() {
			snapshot, err := service.ComputeMetrics(groupIDs, today)

			Expect(err).NotTo(HaveOccurred())
			// the February installment and the March 1 single are both late on March 15
			Expect(snapshot.OverdueAmount.Equal(amount("330.00"))).To(BeTrue())
			Expect(snapshot.OverdueCount).To(Equal(2))
		})

		It("propagates loading failures", func() {
			entryReader.listError = errors.New("db down")
			_, err := service.ComputeMetrics(groupIDs, today)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Project", func() {
		BeforeEach(func() {
			entryReader.incomes = []*entry.Entry{
				{ID: 1, Kind: entry.KindFixed, Status: entry.StatusPending, Amount: amount("3000.00"),
					StartDate: day(2024, time.January, 1)},
				{ID: 2, Kind: entry.KindSingle, Status: entry.StatusPending, Amount: amount("500.00"),
					StartDate: day(2024, time.April, 10)},
			}
			entryReader.expenses = []*entry.Entry{
				{ID: 3, Kind: entry.KindFixed, Status: entry.StatusPending, Amount: amount("1200.00"),
					StartDate: day(2024, time.January, 1)},
				{ID: 4, Kind: entry.KindInstallment, Status: entry.StatusPending, Amount: amount("300.00"),
					StartDate: day(2024, time.April, 1)},
			}
			cashFlows.balance = amount("100.00")
		})

		It("produces one row per month starting at the requested month", func() {
			rows, err := service.Project(groupIDs, 3, day(2024, time.March, 20))

			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(3))
			Expect(rows[0].Month).To(Equal(3))
			Expect(rows[1].Month).To(Equal(4))
			Expect(rows[2].Month).To(Equal(5))
			Expect(rows[0].MonthName).To(Equal("March"))
		})

		It("applies fixed entries every month and single entries only in theirs", func() {
			rows, err := service.Project(groupIDs, 3, day(2024, time.March, 1))

			Expect(err).NotTo(HaveOccurred())
			// March: fixed only
			Expect(rows[0].TotalIncome.Equal(amount("3000.00"))).To(BeTrue())
			// April: fixed plus the single income
			Expect(rows[1].TotalIncome.Equal(amount("3500.00"))).To(BeTrue())
			// May: the single is gone again
			Expect(rows[2].TotalIncome.Equal(amount("3000.00"))).To(BeTrue())
		})

		It("keeps installments contributing from their start month onward", func() {
			rows, err := service.Project(groupIDs, 3, day(2024, time.March, 1))

			Expect(err).NotTo(HaveOccurred())
			Expect(rows[0].InstallmentExpenses.IsZero()).To(BeTrue())
			Expect(rows[1].InstallmentExpenses.Equal(amount("300.00"))).To(BeTrue())
			Expect(rows[2].InstallmentExpenses.Equal(amount("300.00"))).To(BeTrue())
		})

		It("chains the accumulated balance from the cash flow seed", func() {
			rows, err := service.Project(groupIDs, 3, day(2024, time.March, 1))

			Expect(err).NotTo(HaveOccurred())
			// March estimated: 3000 - 1200 = 1800; accumulated: 100 + 1800
			Expect(rows[0].EstimatedBalance.Equal(amount("1800.00"))).To(BeTrue())
			Expect(rows[0].AccumulatedBalance.Equal(amount("1900.00"))).To(BeTrue())
			// April estimated: 3500 - 1500 = 2000
			Expect(rows[1].AccumulatedBalance.Equal(rows[0].AccumulatedBalance.Add(rows[1].EstimatedBalance))).To(BeTrue())
			Expect(rows[2].AccumulatedBalance.Equal(rows[1].AccumulatedBalance.Add(rows[2].EstimatedBalance))).To(BeTrue())
		})

		It("treats a months count below one as one", func() {
			rows, err := service.Project(groupIDs, 0, day(2024, time.March, 1))

			Expect(err).NotTo(HaveOccurred())
			Expect(rows).To(HaveLen(1))
		})
	})

	Describe("RecomputeSummary", func() {
		BeforeEach(func() {
			entryReader.incomes = []*entry.Entry{
				{ID: 1, Kind: entry.KindFixed, Status: entry.StatusPaid, Amount: amount("3000.00"),
					StartDate: day(2024, time.March, 1), PaidDate: paidOn(day(2024, time.March, 5))},
			}
			entryReader.expenses = []*entry.Entry{
				{ID: 2, Kind: entry.KindFixed, Status: entry.StatusPaid, Amount: amount("1200.00"),
					StartDate: day(2024, time.March, 5), PaidDate: paidOn(day(2024, time.March, 6))},
				{ID: 3, Kind: entry.KindInstallment, Status: entry.StatusPending, Amount: amount("300.00"),
					StartDate: day(2024, time.February, 1)},
			}
		})

		It("stores the recomputed snapshot for the period", func() {
			err := service.RecomputeSummary(10, 2024, 3)

			Expect(err).NotTo(HaveOccurred())
			Expect(summaries.upserted).To(HaveLen(1))

			snapshot := summaries.upserted[0]
			Expect(snapshot.UserID).To(Equal(int64(10)))
			Expect(snapshot.Year).To(Equal(2024))
			Expect(snapshot.Month).To(Equal(3))
			Expect(snapshot.TotalIncome.Equal(amount("3000.00"))).To(BeTrue())
			Expect(snapshot.TotalExpenses.Equal(amount("1200.00"))).To(BeTrue())
			Expect(snapshot.FixedExpenses.Equal(amount("1200.00"))).To(BeTrue())
			Expect(snapshot.InstallmentExpenses.Equal(amount("300.00"))).To(BeTrue())
			Expect(snapshot.Balance.Equal(amount("1800.00"))).To(BeTrue())
			Expect(snapshot.PendingAmount.Equal(amount("300.00"))).To(BeTrue())
		})

		It("only counts payments inside the requested month", func() {
			err := service.RecomputeSummary(10, 2024, 4)

			Expect(err).NotTo(HaveOccurred())
			snapshot := summaries.upserted[0]
			Expect(snapshot.TotalIncome.IsZero()).To(BeTrue())
			Expect(snapshot.TotalExpenses.IsZero()).To(BeTrue())
		})

		It("propagates store failures", func() {
			summaries.upsertError = errors.New("constraint violation")
			Expect(service.RecomputeSummary(10, 2024, 3)).To(HaveOccurred())
		})
	})

	Describe("HandleEntryStatusChanged", func() {
		It("recomputes the summary for the entry's month", func() {
			event := events.NewEntryStatusChangedEvent(5, "expense", "pending", "paid", 10, day(2024, time.March, 12))

			err := service.HandleEntryStatusChanged(context.Background(), event)

			Expect(err).NotTo(HaveOccurred())
			Expect(summaries.upserted).To(HaveLen(1))
			Expect(summaries.upserted[0].Year).To(Equal(2024))
			Expect(summaries.upserted[0].Month).To(Equal(3))
		})

		It("rejects foreign event payloads", func() {
			event := events.NewEntryCreatedEvent(5, "expense", "10.00", 10, day(2024, time.March, 12))

			err := service.HandleEntryStatusChanged(context.Background(), event)

			Expect(err).To(HaveOccurred())
		})
	})

	Describe("SummariesForPeriod", func() {
		BeforeEach(func() {
			summaries.stored = []*summaryDatamodel.FinancialSummary{
				{UserID: 10, Year: 2024, Month: 2, TotalIncome: amount("2800"), CalculatedAt: time.Now()},
				{UserID: 10, Year: 2024, Month: 3, TotalIncome: amount("3000"), CalculatedAt: time.Now()},
			}
		})

		It("returns everything when no period is given", func() {
			result, err := service.SummariesForPeriod(10, 0, 0)

			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(HaveLen(2))
			Expect(summaries.upserted).To(BeEmpty())
		})

		It("narrows to the requested year and month", func() {
			result, err := service.SummariesForPeriod(10, 2024, 3)

			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(HaveLen(1))
			Expect(result[0].Month).To(Equal(3))
			Expect(summaries.upserted).To(BeEmpty())
		})

		It("computes the snapshot on demand when the requested month has none", func() {
			entryReader.incomes = []*entry.Entry{
				{ID: 1, Kind: entry.KindFixed, Status: entry.StatusPaid, Amount: amount("3000.00"),
					StartDate: day(2024, time.April, 1), PaidDate: paidOn(day(2024, time.April, 5))},
			}

			result, err := service.SummariesForPeriod(10, 2024, 4)

			Expect(err).NotTo(HaveOccurred())
			Expect(summaries.upserted).To(HaveLen(1))
			Expect(result).To(HaveLen(1))
			Expect(result[0].Year).To(Equal(2024))
			Expect(result[0].Month).To(Equal(4))
			Expect(result[0].TotalIncome).To(Equal("3000.00"))
		})

		It("leaves the cache alone when only part of the period misses", func() {
			result, err := service.SummariesForPeriod(10, 2030, 0)

			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(BeEmpty())
			Expect(summaries.upserted).To(BeEmpty())
		})
	})

	Describe("ListSummaries", func() {
		It("renders stored snapshots with fixed-point amounts", func() {
			summaries.stored = []*summaryDatamodel.FinancialSummary{
				{UserID: 10, Year: 2024, Month: 3, TotalIncome: amount("3000"), TotalExpenses: amount("1200"),
					Balance: amount("1800"), CalculatedAt: time.Now()},
			}

			result, err := service.ListSummaries(10)

			Expect(err).NotTo(HaveOccurred())
			Expect(result).To(HaveLen(1))
			Expect(result[0].TotalIncome).To(Equal("3000.00"))
			Expect(result[0].Balance).To(Equal("1800.00"))
		})
	})
})
