package domain

import "time"

// CatalogEventType identifies a catalog domain event
type CatalogEventType string

const (
	CatalogEventSaved         CatalogEventType = "event.saved"
	CatalogEventStatusChanged CatalogEventType = "event.status_changed"
)

// CatalogEvent is published when an event is saved or moderated
type CatalogEvent struct {
	ID         string           `json:"id"`
	Type       CatalogEventType `json:"type"`
	EventID    string           `json:"event_id"`
	ManagerID  string           `json:"manager_id"`
	Status     EventStatus      `json:"status"`
	IsPaid     bool             `json:"is_paid"`
	Batches    int              `json:"batches"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// NewCatalogEvent builds a catalog event for e
func NewCatalogEvent(id string, typ CatalogEventType, e *Event, batches int) *CatalogEvent {
	return &CatalogEvent{
		ID:         id,
		Type:       typ,
		EventID:    e.ID,
		ManagerID:  e.ManagerID,
		Status:     e.Status,
		IsPaid:     e.IsPaid,
		Batches:    batches,
		OccurredAt: time.Now().UTC(),
	}
}

// Key partitions catalog events by event id
func (c *CatalogEvent) Key() string {
	return c.EventID
}
