package domain

import (
	"fmt"
	"time"
)

// DateLayout is the persisted date format
const DateLayout = "2006-01-02"

// EventStatus is the moderation status of an event
type EventStatus string

const (
	EventStatusPending  EventStatus = "pending"
	EventStatusApproved EventStatus = "approved"
	EventStatusRejected EventStatus = "rejected"
)

// ParseEventStatus validates a moderation status
func ParseEventStatus(s string) (EventStatus, error) {
	switch st := EventStatus(s); st {
	case EventStatusPending, EventStatusApproved, EventStatusRejected:
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// Event is a persisted event as created through the wizard
type Event struct {
	ID               string      `json:"id"`
	ManagerID        string      `json:"manager_id"`
	CompanyID        *string     `json:"company_id,omitempty"`
	Title            string      `json:"title"`
	Description      string      `json:"description"`
	Date             time.Time   `json:"date"`
	Time             string      `json:"time"`
	Location         string      `json:"location"`
	Address          string      `json:"address"`
	ImageURL1        string      `json:"image_url_1"`
	ImageURL2        string      `json:"image_url_2"`
	ImageURL3        string      `json:"image_url_3"`
	MinAge           int         `json:"min_age"`
	Category         string      `json:"category"`
	Capacity         int         `json:"capacity"`
	Duration         string      `json:"duration"`
	IsPaid           bool        `json:"is_paid"`
	TicketPrice      *Money      `json:"ticket_price,omitempty"`
	ContractID       *string     `json:"contract_id,omitempty"`
	ContractAccepted bool        `json:"contract_accepted"`
	Status           EventStatus `json:"status"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// DateString returns the date in yyyy-MM-dd
func (e *Event) DateString() string {
	return e.Date.Format(DateLayout)
}

// OwnedBy reports whether managerID created the event
func (e *Event) OwnedBy(managerID string) bool {
	return e.ManagerID == managerID
}

// TicketBatch is a named block of tickets with its own price and sale window
type TicketBatch struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	Name      string    `json:"name"`
	Quantity  Quantity  `json:"quantity"`
	Price     Money     `json:"price"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	SortOrder int       `json:"sort_order"`
}

// EventWithBatches is an event together with its ordered batches
type EventWithBatches struct {
	Event   *Event         `json:"event"`
	Batches []*TicketBatch `json:"batches"`
}

// EventFilter filters event listings
type EventFilter struct {
	ManagerID string
	Status    EventStatus
	Limit     int
	Offset    int
}
