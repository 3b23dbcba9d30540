package dto

import (
	"time"

	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/domain"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/notify"
)

// EventResponse represents an event in API responses. Dates use yyyy-MM-dd.
type EventResponse struct {
	ID               string        `json:"id"`
	ManagerID        string        `json:"manager_id"`
	CompanyID        *string       `json:"company_id,omitempty"`
	Title            string        `json:"title"`
	Description      string        `json:"description"`
	Date             string        `json:"date"`
	Time             string        `json:"time"`
	Location         string        `json:"location"`
	Address          string        `json:"address"`
	ImageURL1        string        `json:"image_url_1"`
	ImageURL2        string        `json:"image_url_2"`
	ImageURL3        string        `json:"image_url_3"`
	MinAge           int           `json:"min_age"`
	Category         string        `json:"category"`
	Capacity         int           `json:"capacity"`
	Duration         string        `json:"duration"`
	IsPaid           bool          `json:"is_paid"`
	TicketPrice      *domain.Money `json:"ticket_price,omitempty"`
	ContractID       *string       `json:"contract_id,omitempty"`
	ContractAccepted bool          `json:"contract_accepted"`
	Status           string        `json:"status"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// BatchResponse represents a ticket batch in API responses
type BatchResponse struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Quantity  int          `json:"quantity"`
	Price     domain.Money `json:"price"`
	StartDate string       `json:"start_date"`
	EndDate   string       `json:"end_date"`
	SortOrder int          `json:"sort_order"`
}

// EventDetailResponse is an event with its batches
type EventDetailResponse struct {
	Event   *EventResponse   `json:"event"`
	Batches []*BatchResponse `json:"batches"`
}

// SaveEventResponse is returned by create and update
type SaveEventResponse struct {
	Event    *EventResponse   `json:"event"`
	Batches  []*BatchResponse `json:"batches"`
	Redirect string           `json:"redirect"`
}

// EventListFilter represents filters for listing events
type EventListFilter struct {
	Status string `form:"status"`
	Limit  int    `form:"limit"`
	Offset int    `form:"offset"`
}

// SetDefaults sets default values for pagination
func (f *EventListFilter) SetDefaults() {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}

// ListMeta is the paging block of list responses
type ListMeta struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// NoticeMeta carries the notices raised while handling a request
type NoticeMeta struct {
	Notices []notify.Notice `json:"notices"`
}

// UpdateStatusRequest represents a moderation decision
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending approved rejected"`
}

// EventFromDomain converts a domain Event to EventResponse
func EventFromDomain(e *domain.Event) *EventResponse {
	return &EventResponse{
		ID:               e.ID,
		ManagerID:        e.ManagerID,
		CompanyID:        e.CompanyID,
		Title:            e.Title,
		Description:      e.Description,
		Date:             e.DateString(),
		Time:             e.Time,
		Location:         e.Location,
		Address:          e.Address,
		ImageURL1:        e.ImageURL1,
		ImageURL2:        e.ImageURL2,
		ImageURL3:        e.ImageURL3,
		MinAge:           e.MinAge,
		Category:         e.Category,
		Capacity:         e.Capacity,
		Duration:         e.Duration,
		IsPaid:           e.IsPaid,
		TicketPrice:      e.TicketPrice,
		ContractID:       e.ContractID,
		ContractAccepted: e.ContractAccepted,
		Status:           string(e.Status),
		CreatedAt:        e.CreatedAt,
		UpdatedAt:        e.UpdatedAt,
	}
}

// EventsFromDomain converts a list of events
func EventsFromDomain(events []*domain.Event) []*EventResponse {
	out := make([]*EventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, EventFromDomain(e))
	}
	return out
}

// BatchFromDomain converts a domain TicketBatch to BatchResponse
func BatchFromDomain(b *domain.TicketBatch) *BatchResponse {
	return &BatchResponse{
		ID:        b.ID,
		Name:      b.Name,
		Quantity:  int(b.Quantity),
		Price:     b.Price,
		StartDate: b.StartDate.Format(domain.DateLayout),
		EndDate:   b.EndDate.Format(domain.DateLayout),
		SortOrder: b.SortOrder,
	}
}

// BatchesFromDomain converts a list of batches
func BatchesFromDomain(batches []*domain.TicketBatch) []*BatchResponse {
	out := make([]*BatchResponse, 0, len(batches))
	for _, b := range batches {
		out = append(out, BatchFromDomain(b))
	}
	return out
}
