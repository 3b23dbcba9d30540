package dto

import "github.com/maiszoomimpressos-create/tipoevento-sub000/internal/domain"

// ContractRequest represents a contract create or update
type ContractRequest struct {
	Title   string `json:"title" binding:"required,min=3,max=200"`
	Content string `json:"content" binding:"required"`
}

// RangeRequest represents a commission range create or update
type RangeRequest struct {
	MinTickets int      `json:"min_tickets" binding:"required,min=1"`
	MaxTickets *int     `json:"max_tickets"`
	Percentage *float64 `json:"percentage" binding:"required"`
	IsActive   *bool    `json:"is_active"`
}

// ToDomain converts the request into a CommissionRange with the given ID
func (r *RangeRequest) ToDomain(id string) *domain.CommissionRange {
	cr := &domain.CommissionRange{
		ID:         id,
		MinTickets: r.MinTickets,
		MaxTickets: r.MaxTickets,
		IsActive:   true,
	}
	if r.Percentage != nil {
		cr.Percentage = *r.Percentage
	}
	if r.IsActive != nil {
		cr.IsActive = *r.IsActive
	}
	return cr
}

// ContractPreviewResponse is a contract rendered with the active ranges
type ContractPreviewResponse struct {
	Contract *domain.CommissionContract `json:"contract"`
	HTML     string                     `json:"html"`
}
