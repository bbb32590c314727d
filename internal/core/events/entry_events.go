package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeEntryCreated       = "entry.created"
	EventTypeEntryStatusChanged = "entry.status_changed"
	EventTypeEntryDeleted       = "entry.deleted"
)

// EntryCreatedEvent fires after a new income or expense is persisted.
type EntryCreatedEvent struct {
	BaseEvent
	EntryID   int64     `json:"entry_id"`
	EntryType string    `json:"entry_type"`
	Amount    string    `json:"amount"`
	UserID    int64     `json:"user_id"`
	EntryDate time.Time `json:"entry_date"`
}

func NewEntryCreatedEvent(entryID int64, entryType, amount string, userID int64, entryDate time.Time) *EntryCreatedEvent {
	return &EntryCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeEntryCreated,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"entry_id":   entryID,
				"entry_type": entryType,
				"amount":     amount,
				"user_id":    userID,
				"entry_date": entryDate,
			},
		},
		EntryID:   entryID,
		EntryType: entryType,
		Amount:    amount,
		UserID:    userID,
		EntryDate: entryDate,
	}
}

// EntryStatusChangedEvent fires on mark_paid and mark_pending transitions.
// The monthly summary recompute subscribes to it.
type EntryStatusChangedEvent struct {
	BaseEvent
	EntryID   int64     `json:"entry_id"`
	EntryType string    `json:"entry_type"`
	OldStatus string    `json:"old_status"`
	NewStatus string    `json:"new_status"`
	UserID    int64     `json:"user_id"`
	EntryDate time.Time `json:"entry_date"`
}

func NewEntryStatusChangedEvent(entryID int64, entryType, oldStatus, newStatus string, userID int64, entryDate time.Time) *EntryStatusChangedEvent {
	return &EntryStatusChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeEntryStatusChanged,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"entry_id":   entryID,
				"entry_type": entryType,
				"old_status": oldStatus,
				"new_status": newStatus,
				"user_id":    userID,
				"entry_date": entryDate,
			},
		},
		EntryID:   entryID,
		EntryType: entryType,
		OldStatus: oldStatus,
		NewStatus: newStatus,
		UserID:    userID,
		EntryDate: entryDate,
	}
}

// EntryDeletedEvent fires after an entry is removed.
type EntryDeletedEvent struct {
	BaseEvent
	EntryID   int64     `json:"entry_id"`
	EntryType string    `json:"entry_type"`
	UserID    int64     `json:"user_id"`
	EntryDate time.Time `json:"entry_date"`
}

func NewEntryDeletedEvent(entryID int64, entryType string, userID int64, entryDate time.Time) *EntryDeletedEvent {
	return &EntryDeletedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeEntryDeleted,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"entry_id":   entryID,
				"entry_type": entryType,
				"user_id":    userID,
				"entry_date": entryDate,
			},
		},
		EntryID:   entryID,
		EntryType: entryType,
		UserID:    userID,
		EntryDate: entryDate,
	}
}
