package entry_test

import (
	"context"
	"errors"
	"log/slog"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/mbarcellos/finance-tracker/internal"
	"github.com/mbarcellos/finance-tracker/internal/category"
	entryDatamodel "github.com/mbarcellos/finance-tracker/internal/core/datamodel/entry"
	"github.com/mbarcellos/finance-tracker/internal/core/events"
	"github.com/mbarcellos/finance-tracker/internal/entry"
)

type mockEntryRepository struct {
	entries     map[int64]*entryDatamodel.Entry
	nextID      int64
	listError   error
	getError    error
	createError error
	updateError error
	deleteError error
}

func newMockEntryRepository() *mockEntryRepository {
	return &mockEntryRepository{entries: make(map[int64]*entryDatamodel.Entry), nextID: 1}
}

func (m *mockEntryRepository) List(typ entry.Type, groupIDs []int64, filters entry.ListFilters) ([]*entryDatamodel.Entry, error) {
	if m.listError != nil {
		return nil, m.listError
	}
	var result []*entryDatamodel.Entry
	for _, e := range m.entries {
		if e.Type != string(typ) {
			continue
		}
		if filters.Status != "" && e.Status != string(filters.Status) {
			continue
		}
		owned := false
		for _, id := range groupIDs {
			if e.CreatedBy == id {
				owned = true
			}
		}
		if owned {
			copied := *e
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (m *mockEntryRepository) GetByID(id int64) (*entryDatamodel.Entry, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	e, ok := m.entries[id]
	if !ok {
		return nil, nil
	}
	copied := *e
	return &copied, nil
}

func (m *mockEntryRepository) Create(e *entryDatamodel.Entry) error {
	if m.createError != nil {
		return m.createError
	}
	e.ID = m.nextID
	m.nextID++
	copied := *e
	m.entries[e.ID] = &copied
	return nil
}

func (m *mockEntryRepository) Update(e *entryDatamodel.Entry) error {
	if m.updateError != nil {
		return m.updateError
	}
	copied := *e
	m.entries[e.ID] = &copied
	return nil
}

func (m *mockEntryRepository) Delete(id int64) error {
	if m.deleteError != nil {
		return m.deleteError
	}
	delete(m.entries, id)
	return nil
}

type mockCategoryReader struct {
	categories map[int64]*category.Category
	getError   error
}

func newMockCategoryReader(cats ...*category.Category) *mockCategoryReader {
	m := &mockCategoryReader{categories: make(map[int64]*category.Category)}
	for _, c := range cats {
		m.categories[c.ID] = c
	}
	return m
}

func (m *mockCategoryReader) GetVisible(id int64, groupIDs []int64) (*category.Category, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	c, ok := m.categories[id]
	if !ok {
		return nil, internal.ErrCategoryNotFound
	}
	return c, nil
}

func (m *mockCategoryReader) List(groupIDs []int64, typ category.Type) ([]*category.Category, error) {
	var result []*category.Category
	for _, c := range m.categories {
		result = append(result, c)
	}
	return result, nil
}

type mockPublisher struct {
	published []events.Event
}

func (m *mockPublisher) Publish(ctx context.Context, event events.Event) error {
	m.published = append(m.published, event)
	return nil
}

func (m *mockPublisher) lastEvent() events.Event {
	if len(m.published) == 0 {
		return nil
	}
	return m.published[len(m.published)-1]
}

var _ = Describe("Entry Service", func() {
	var (
		repo      *mockEntryRepository
		cats      *mockCategoryReader
		publisher *mockPublisher
		service   *entry.Service
		ctx       context.Context

		groupIDs []int64
	)

	BeforeEach(func() {
		repo = newMockEntryRepository()
		cats = newMockCategoryReader(
			&category.Category{ID: 1, Name: "Salary", Type: category.TypeIncome, Color: "#2ecc71", IsDefault: true},
			&category.Category{ID: 2, Name: "Housing", Type: category.TypeExpense, Color: "#e74c3c", IsDefault: true},
		)
		publisher = &mockPublisher{}
		service = entry.NewService(repo, cats, publisher, slog.New(slog.NewTextHandler(GinkgoWriter, nil)))
		ctx = context.Background()
		groupIDs = []int64{10, 11}
	})

	validCreate := func() entry.CreateEntryDTO {
		return entry.CreateEntryDTO{
			Description: "Rent",
			Amount:      decimal.NewFromInt(1500),
			CategoryID:  2,
			DueDay:      5,
			Kind:        entry.KindFixed,
			Responsible: entry.ResponsibleBoth,
		}
	}

	Describe("Create", func() {
		It("persists a pending entry and publishes a creation event", func() {
			created, err := service.Create(ctx, entry.TypeExpense, 10, groupIDs, validCreate())

			Expect(err).NotTo(HaveOccurred())
			Expect(created.ID).To(Equal(int64(1)))
			Expect(created.Status).To(Equal(entry.StatusPending))
			Expect(created.CategoryName).To(Equal("Housing"))
			Expect(repo.entries).To(HaveLen(1))
			Expect(publisher.lastEvent().EventType()).To(Equal(events.EventTypeEntryCreated))
		})

		It("defaults entry_date to today and start_date to entry_date", func() {
			created, err := service.Create(ctx, entry.TypeExpense, 10, groupIDs, validCreate())

			Expect(err).NotTo(HaveOccurred())
			today := time.Now()
			Expect(created.EntryDate.Year()).To(Equal(today.Year()))
			Expect(created.EntryDate.Month()).To(Equal(today.Month()))
			Expect(created.EntryDate.Day()).To(Equal(today.Day()))
			Expect(created.StartDate).To(Equal(created.EntryDate))
		})

		It("defaults current_installment to 1 for installment entries", func() {
			dto := validCreate()
			dto.Kind = entry.KindInstallment
			total := 12
			dto.TotalInstallments = &total

			created, err := service.Create(ctx, entry.TypeExpense, 10, groupIDs, dto)

			Expect(err).NotTo(HaveOccurred())
			Expect(created.CurrentInstallment).NotTo(BeNil())
			Expect(*created.CurrentInstallment).To(Equal(1))
		})

		It("creates nothing when validation fails", func() {
			dto := validCreate()
			dto.Amount = decimal.Zero

			_, err := service.Create(ctx, entry.TypeExpense, 10, groupIDs, dto)

			Expect(err).To(HaveOccurred())
			Expect(repo.entries).To(BeEmpty())
			Expect(publisher.published).To(BeEmpty())
		})

		It("rejects a category of the opposite type", func() {
			dto := validCreate()
			dto.CategoryID = 1

			_, err := service.Create(ctx, entry.TypeExpense, 10, groupIDs, dto)

			Expect(err).To(HaveOccurred())
			Expect(repo.entries).To(BeEmpty())
		})

		It("propagates repository failures", func() {
			repo.createError = errors.New("connection reset")

			_, err := service.Create(ctx, entry.TypeExpense, 10, groupIDs, validCreate())

			Expect(err).To(HaveOccurred())
			Expect(publisher.published).To(BeEmpty())
		})
	})

	Describe("QuickEntry", func() {
		It("creates a single entry when kind is omitted", func() {
			created, err := service.QuickEntry(ctx, 10, groupIDs, entry.QuickEntryDTO{
				Type:        entry.TypeIncome,
				Description: "Bonus",
				Amount:      decimal.NewFromInt(500),
				CategoryID:  1,
				Responsible: entry.ResponsiblePerson1,
				DueDay:      1,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(created.Kind).To(Equal(entry.KindSingle))
		})

		It("creates nothing on a validation failure", func() {
			_, err := service.QuickEntry(ctx, 10, groupIDs, entry.QuickEntryDTO{
				Type:        "transfer",
				Description: "Bad",
				Amount:      decimal.NewFromInt(500),
				CategoryID:  1,
				Responsible: entry.ResponsiblePerson1,
				DueDay:      1,
			})

			Expect(err).To(HaveOccurred())
			Expect(repo.entries).To(BeEmpty())
		})
	})

	Describe("Get", func() {
		var createdID int64

		BeforeEach(func() {
			created, err := service.Create(ctx, entry.TypeExpense, 10, groupIDs, validCreate())
			Expect(err).NotTo(HaveOccurred())
			createdID = created.ID
		})

		It("returns an entry that belongs to the group", func() {
			got, err := service.Get(createdID, entry.TypeExpense, groupIDs)

			Expect(err).NotTo(HaveOccurred())
			Expect(got.Description).To(Equal("Rent"))
		})

		It("hides entries outside the group as not found", func() {
			_, err := service.Get(createdID, entry.TypeExpense, []int64{99})
			Expect(err).To(Equal(internal.ErrEntryNotFound))
		})

		It("hides entries of the other type as not found", func() {
			_, err := service.Get(createdID, entry.TypeIncome, groupIDs)
			Expect(err).To(Equal(internal.ErrEntryNotFound))
		})
	})

	Describe("Update", func() {
		var createdID int64

		BeforeEach(func() {
			created, err := service.Create(ctx, entry.TypeExpense, 10, groupIDs, validCreate())
			Expect(err).NotTo(HaveOccurred())
			createdID = created.ID
		})

		It("merges only the provided fields", func() {
			desc := "Rent + condo fee"
			updated, err := service.Update(ctx, createdID, entry.TypeExpense, groupIDs, entry.UpdateEntryDTO{
				Description: &desc,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Description).To(Equal(desc))
			Expect(updated.Amount).To(Equal(decimal.NewFromInt(1500)))
		})

		It("re-runs the invariants when the kind changes", func() {
			kind := entry.KindInstallment
			_, err := service.Update(ctx, createdID, entry.TypeExpense, groupIDs, entry.UpdateEntryDTO{
				Kind: &kind,
			})

			Expect(err).To(HaveOccurred())
		})

		It("re-validates the category on a category change", func() {
			incomeCategory := int64(1)
			_, err := service.Update(ctx, createdID, entry.TypeExpense, groupIDs, entry.UpdateEntryDTO{
				CategoryID: &incomeCategory,
			})

			Expect(err).To(HaveOccurred())
		})
	})

	Describe("MarkPaid and MarkPending", func() {
		var createdID int64

		BeforeEach(func() {
			created, err := service.Create(ctx, entry.TypeExpense, 10, groupIDs, validCreate())
			Expect(err).NotTo(HaveOccurred())
			createdID = created.ID
			publisher.published = nil
		})

		It("marks the entry paid and publishes a status change", func() {
			paid, err := service.MarkPaid(ctx, createdID, entry.TypeExpense, groupIDs, entry.MarkPaidDTO{PaidDate: "2024-03-07"})

			Expect(err).NotTo(HaveOccurred())
			Expect(paid.Status).To(Equal(entry.StatusPaid))
			Expect(paid.PaidDate).NotTo(BeNil())

			event, ok := publisher.lastEvent().(*events.EntryStatusChangedEvent)
			Expect(ok).To(BeTrue())
			Expect(event.OldStatus).To(Equal("pending"))
			Expect(event.NewStatus).To(Equal("paid"))
		})

		It("rejects a malformed paid_date", func() {
			_, err := service.MarkPaid(ctx, createdID, entry.TypeExpense, groupIDs, entry.MarkPaidDTO{PaidDate: "07/03/2024"})
			Expect(err).To(HaveOccurred())
		})

		It("returns the entry to pending and clears paid_date", func() {
			_, err := service.MarkPaid(ctx, createdID, entry.TypeExpense, groupIDs, entry.MarkPaidDTO{})
			Expect(err).NotTo(HaveOccurred())

			pending, err := service.MarkPending(ctx, createdID, entry.TypeExpense, groupIDs)
			Expect(err).NotTo(HaveOccurred())
			Expect(pending.Status).To(Equal(entry.StatusPending))
			Expect(pending.PaidDate).To(BeNil())
		})
	})

	Describe("Overdue", func() {
		It("returns only pending entries whose start date has passed", func() {
			past := validCreate()
			past.StartDate = "2020-01-01"
			past.EntryDate = "2020-01-01"
			overdueEntry, err := service.Create(ctx, entry.TypeExpense, 10, groupIDs, past)
			Expect(err).NotTo(HaveOccurred())

			future := validCreate()
			future.Description = "Insurance"
			future.StartDate = "2999-01-01"
			future.EntryDate = "2999-01-01"
			_, err = service.Create(ctx, entry.TypeExpense, 10, groupIDs, future)
			Expect(err).NotTo(HaveOccurred())

			overdue, err := service.Overdue(entry.TypeExpense, groupIDs, time.Now())

			Expect(err).NotTo(HaveOccurred())
			Expect(overdue).To(HaveLen(1))
			Expect(overdue[0].ID).To(Equal(overdueEntry.ID))
		})

		It("excludes paid entries regardless of dates", func() {
			past := validCreate()
			past.StartDate = "2020-01-01"
			created, err := service.Create(ctx, entry.TypeExpense, 10, groupIDs, past)
			Expect(err).NotTo(HaveOccurred())

			_, err = service.MarkPaid(ctx, created.ID, entry.TypeExpense, groupIDs, entry.MarkPaidDTO{})
			Expect(err).NotTo(HaveOccurred())

			overdue, err := service.Overdue(entry.TypeExpense, groupIDs, time.Now())

			Expect(err).NotTo(HaveOccurred())
			Expect(overdue).To(BeEmpty())
		})
	})

	Describe("Delete", func() {
		It("removes the entry and publishes a deletion event", func() {
			created, err := service.Create(ctx, entry.TypeExpense, 10, groupIDs, validCreate())
			Expect(err).NotTo(HaveOccurred())

			err = service.Delete(ctx, created.ID, entry.TypeExpense, groupIDs)

			Expect(err).NotTo(HaveOccurred())
			Expect(repo.entries).To(BeEmpty())
			Expect(publisher.lastEvent().EventType()).To(Equal(events.EventTypeEntryDeleted))
		})

		It("refuses to delete an entry outside the group", func() {
			created, err := service.Create(ctx, entry.TypeExpense, 10, groupIDs, validCreate())
			Expect(err).NotTo(HaveOccurred())

			err = service.Delete(ctx, created.ID, entry.TypeExpense, []int64{99})

			Expect(err).To(Equal(internal.ErrEntryNotFound))
			Expect(repo.entries).To(HaveLen(1))
		})
	})
})
