package cashflow_test

import (
	"errors"
	"log/slog"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/mbarcellos/finance-tracker/internal"
	"github.com/mbarcellos/finance-tracker/internal/cashflow"
	cashflowDatamodel "github.com/mbarcellos/finance-tracker/internal/core/datamodel/cashflow"
	"github.com/mbarcellos/finance-tracker/internal/entry"
)

func TestCashFlow(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "CashFlow Suite")
}

type mockCashFlowRepository struct {
	flows       map[int64]*cashflowDatamodel.CashFlow
	nextID      int64
	lastFilters cashflow.ListFilters
	createError error
	sumError    error
}

func newMockCashFlowRepository() *mockCashFlowRepository {
	return &mockCashFlowRepository{flows: make(map[int64]*cashflowDatamodel.CashFlow), nextID: 1}
}

func (m *mockCashFlowRepository) List(groupIDs []int64, filters cashflow.ListFilters) ([]*cashflowDatamodel.CashFlow, error) {
	m.lastFilters = filters
	var result []*cashflowDatamodel.CashFlow
	for _, c := range m.flows {
		inGroup := false
		for _, id := range groupIDs {
			if c.CreatedBy == id {
				inGroup = true
				break
			}
		}
		if !inGroup {
			continue
		}
		if filters.FlowType != "" && c.FlowType != string(filters.FlowType) {
			continue
		}
		if filters.Responsible != "" && c.Responsible != string(filters.Responsible) {
			continue
		}
		if !filters.DateFrom.IsZero() && c.Date.Before(filters.DateFrom) {
			continue
		}
		if !filters.DateTo.IsZero() && c.Date.After(filters.DateTo) {
			continue
		}
		copied := *c
		result = append(result, &copied)
	}
	return result, nil
}

func (m *mockCashFlowRepository) GetByID(id int64) (*cashflowDatamodel.CashFlow, error) {
	c, ok := m.flows[id]
	if !ok {
		return nil, nil
	}
	copied := *c
	return &copied, nil
}

func (m *mockCashFlowRepository) Create(c *cashflowDatamodel.CashFlow) error {
	if m.createError != nil {
		return m.createError
	}
	c.ID = m.nextID
	m.nextID++
	copied := *c
	m.flows[c.ID] = &copied
	return nil
}

func (m *mockCashFlowRepository) Update(c *cashflowDatamodel.CashFlow) error {
	copied := *c
	m.flows[c.ID] = &copied
	return nil
}

func (m *mockCashFlowRepository) Delete(id int64) error {
	delete(m.flows, id)
	return nil
}

func (m *mockCashFlowRepository) SumAmounts(groupIDs []int64) (decimal.Decimal, error) {
	if m.sumError != nil {
		return decimal.Zero, m.sumError
	}
	total := decimal.Zero
	flows, _ := m.List(groupIDs, cashflow.ListFilters{})
	for _, c := range flows {
		total = total.Add(c.Amount)
	}
	return total, nil
}

var _ = Describe("CashFlow Service", func() {
	var (
		repo    *mockCashFlowRepository
		service *cashflow.Service

		groupIDs []int64
	)

	BeforeEach(func() {
		repo = newMockCashFlowRepository()
		service = cashflow.NewService(repo, slog.New(slog.NewTextHandler(GinkgoWriter, nil)))
		groupIDs = []int64{10, 11}
	})

	create := func(amount string, flowType cashflow.FlowType) *cashflow.CashFlow {
		c, err := service.Create(10, cashflow.CreateCashFlowDTO{
			Description: "movement",
			Amount:      decimal.RequireFromString(amount),
			FlowType:    flowType,
			Responsible: entry.ResponsiblePerson1,
		})
		Expect(err).NotTo(HaveOccurred())
		return c
	}

	Describe("Create", func() {
		It("accepts all three flow types", func() {
			for _, ft := range []cashflow.FlowType{cashflow.FlowInitial, cashflow.FlowAdjustment, cashflow.FlowTransfer} {
				c := create("100.00", ft)
				Expect(c.FlowType).To(Equal(ft))
			}
		})

		It("stores the amount with the sign it was entered with", func() {
			c := create("-75.50", cashflow.FlowAdjustment)
			Expect(c.Amount.Equal(decimal.RequireFromString("-75.50"))).To(BeTrue())
		})

		It("rejects a zero amount", func() {
			_, err := service.Create(10, cashflow.CreateCashFlowDTO{
				Description: "bad",
				Amount:      decimal.Zero,
				FlowType:    cashflow.FlowInitial,
				Responsible: entry.ResponsiblePerson1,
			})
			Expect(err).To(HaveOccurred())
		})

		It("rejects an unknown flow type", func() {
			for _, ft := range []cashflow.FlowType{"income", "expense", "deposit"} {
				_, err := service.Create(10, cashflow.CreateCashFlowDTO{
					Description: "bad",
					Amount:      decimal.RequireFromString("5.00"),
					FlowType:    ft,
					Responsible: entry.ResponsiblePerson1,
				})
				Expect(err).To(HaveOccurred())
			}
		})
	})

	Describe("List", func() {
		It("passes the filters through to the repository", func() {
			create("100.00", cashflow.FlowInitial)
			create("-20.00", cashflow.FlowAdjustment)

			flows, err := service.List(groupIDs, cashflow.ListFilters{FlowType: cashflow.FlowAdjustment})

			Expect(err).NotTo(HaveOccurred())
			Expect(flows).To(HaveLen(1))
			Expect(flows[0].FlowType).To(Equal(cashflow.FlowAdjustment))
			Expect(repo.lastFilters.FlowType).To(Equal(cashflow.FlowAdjustment))
		})

		It("narrows by responsible and date range", func() {
			create("100.00", cashflow.FlowInitial)

			from := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
			flows, err := service.List(groupIDs, cashflow.ListFilters{
				Responsible: entry.ResponsiblePerson2,
				DateFrom:    from,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(flows).To(BeEmpty())
			Expect(repo.lastFilters.Responsible).To(Equal(entry.ResponsiblePerson2))
			Expect(repo.lastFilters.DateFrom.Equal(from)).To(BeTrue())
		})
	})

	Describe("Update", func() {
		It("changes the flow type without touching the amount", func() {
			c := create("150.00", cashflow.FlowInitial)

			transfer := cashflow.FlowTransfer
			updated, err := service.Update(c.ID, groupIDs, cashflow.UpdateCashFlowDTO{FlowType: &transfer})

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.FlowType).To(Equal(cashflow.FlowTransfer))
			Expect(updated.Amount.Equal(decimal.RequireFromString("150.00"))).To(BeTrue())
		})

		It("accepts a negative replacement amount", func() {
			c := create("150.00", cashflow.FlowAdjustment)

			amount := decimal.RequireFromString("-80.00")
			updated, err := service.Update(c.ID, groupIDs, cashflow.UpdateCashFlowDTO{Amount: &amount})

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Amount.Equal(amount)).To(BeTrue())
		})

		It("rejects a zero replacement amount", func() {
			c := create("150.00", cashflow.FlowAdjustment)

			zero := decimal.Zero
			_, err := service.Update(c.ID, groupIDs, cashflow.UpdateCashFlowDTO{Amount: &zero})
			Expect(err).To(HaveOccurred())
		})

		It("hides flows outside the group as not found", func() {
			c := create("150.00", cashflow.FlowInitial)

			desc := "mine now"
			_, err := service.Update(c.ID, []int64{99}, cashflow.UpdateCashFlowDTO{Description: &desc})
			Expect(err).To(Equal(internal.ErrCashFlowNotFound))
		})
	})

	Describe("Balance", func() {
		It("is the plain sum of the signed amounts", func() {
			create("200.00", cashflow.FlowInitial)
			create("-50.00", cashflow.FlowAdjustment)

			balance, err := service.Balance(groupIDs)

			Expect(err).NotTo(HaveOccurred())
			Expect(balance.Equal(decimal.RequireFromString("150.00"))).To(BeTrue())
		})

		It("is zero with no movements", func() {
			balance, err := service.Balance(groupIDs)
			Expect(err).NotTo(HaveOccurred())
			Expect(balance.IsZero()).To(BeTrue())
		})

		It("propagates repository failures", func() {
			repo.sumError = errors.New("timeout")
			_, err := service.Balance(groupIDs)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Delete", func() {
		It("removes the flow", func() {
			c := create("25.00", cashflow.FlowInitial)
			Expect(service.Delete(c.ID, groupIDs)).To(Succeed())
			Expect(repo.flows).To(BeEmpty())
		})

		It("refuses flows outside the group", func() {
			c := create("25.00", cashflow.FlowInitial)
			Expect(service.Delete(c.ID, []int64{99})).To(Equal(internal.ErrCashFlowNotFound))
			Expect(repo.flows).To(HaveLen(1))
		})
	})
})
