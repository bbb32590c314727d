package events_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mbarcellos/finance-tracker/internal/core/events"
)

func TestEvents(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Events Suite")
}

var _ = Describe("EventBus", func() {
	var bus *events.EventBus

	BeforeEach(func() {
		bus = events.NewEventBus(slog.New(slog.NewTextHandler(GinkgoWriter, nil)))
	})

	entryDate := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)

	Describe("Publish", func() {
		It("delivers the event to every subscriber", func() {
			var mu sync.Mutex
			received := 0
			done := make(chan struct{}, 2)

			handler := func(ctx context.Context, event events.Event) error {
				mu.Lock()
				received++
				mu.Unlock()
				done <- struct{}{}
				return nil
			}
			bus.Subscribe(events.EventTypeEntryStatusChanged, handler)
			bus.Subscribe(events.EventTypeEntryStatusChanged, handler)

			event := events.NewEntryStatusChangedEvent(1, "expense", "pending", "paid", 10, entryDate)
			Expect(bus.Publish(context.Background(), event)).To(Succeed())

			Eventually(done).Should(Receive())
			Eventually(done).Should(Receive())
			mu.Lock()
			defer mu.Unlock()
			Expect(received).To(Equal(2))
		})

		It("is a no-op without subscribers", func() {
			event := events.NewEntryCreatedEvent(1, "income", "10.00", 10, entryDate)
			Expect(bus.Publish(context.Background(), event)).To(Succeed())
		})

		It("does not propagate handler failures", func() {
			done := make(chan struct{}, 1)
			bus.Subscribe(events.EventTypeEntryDeleted, func(ctx context.Context, event events.Event) error {
				done <- struct{}{}
				return errors.New("boom")
			})

			event := events.NewEntryDeletedEvent(1, "expense", 10, entryDate)
			Expect(bus.Publish(context.Background(), event)).To(Succeed())
			Eventually(done).Should(Receive())
		})
	})

	Describe("PublishSync", func() {
		It("stops on the first failing handler", func() {
			calls := 0
			bus.Subscribe(events.EventTypeEntryCreated, func(ctx context.Context, event events.Event) error {
				calls++
				return errors.New("boom")
			})
			bus.Subscribe(events.EventTypeEntryCreated, func(ctx context.Context, event events.Event) error {
				calls++
				return nil
			})

			event := events.NewEntryCreatedEvent(1, "income", "10.00", 10, entryDate)
			err := bus.PublishSync(context.Background(), event)

			Expect(err).To(HaveOccurred())
			Expect(calls).To(Equal(1))
		})

		It("only reaches subscribers of the event's type", func() {
			called := false
			bus.Subscribe(events.EventTypeEntryDeleted, func(ctx context.Context, event events.Event) error {
				called = true
				return nil
			})

			event := events.NewEntryCreatedEvent(1, "income", "10.00", 10, entryDate)
			Expect(bus.PublishSync(context.Background(), event)).To(Succeed())
			Expect(called).To(BeFalse())
		})
	})
})

var _ = Describe("Entry events", func() {
	entryDate := time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)

	It("carries identity and timing metadata", func() {
		event := events.NewEntryStatusChangedEvent(7, "expense", "pending", "paid", 10, entryDate)

		Expect(event.EventType()).To(Equal(events.EventTypeEntryStatusChanged))
		Expect(event.EventID()).NotTo(BeEmpty())
		Expect(event.OccurredAt()).To(BeTemporally("~", time.Now(), time.Second))
		Expect(event.EntryID).To(Equal(int64(7)))
		Expect(event.OldStatus).To(Equal("pending"))
		Expect(event.NewStatus).To(Equal("paid"))
	})
})
