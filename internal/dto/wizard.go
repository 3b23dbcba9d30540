package dto

import "github.com/maiszoomimpressos-create/tipoevento-sub000/internal/wizard"

// ResolveStepRequest asks which stage a step number shows
type ResolveStepRequest struct {
	Step        int  `json:"step"`
	HasContract bool `json:"has_contract"`
}

// ResolveStepResponse describes the resolved stage
type ResolveStepResponse struct {
	Step   wizard.Step   `json:"step"`
	Number int           `json:"number"`
	Count  int           `json:"count"`
	Steps  []wizard.Step `json:"steps"`
}

// SyncBatchesRequest carries the current rows and the new batch count
type SyncBatchesRequest struct {
	Batches []wizard.BatchRow `json:"batches"`
	Count   *int              `json:"number_of_batches" binding:"required,lte=50"`
}

// ValidationDetails is the details block of a VALIDATION_FAILED error
type ValidationDetails struct {
	Step   wizard.Step        `json:"step"`
	Number int                `json:"step_number"`
	Fields wizard.FieldErrors `json:"fields"`
}

// RuleDetails is the details block of a RULE_VIOLATION error
type RuleDetails struct {
	Step   wizard.Step `json:"step"`
	Number int         `json:"step_number"`
}

// ValidateResponse is returned when a form passes every check
type ValidateResponse struct {
	Valid bool `json:"valid"`
}
