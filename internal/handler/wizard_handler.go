package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/dto"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/notify"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/service"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/wizard"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/pkg/logger"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/pkg/response"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/pkg/telemetry"
	"go.opentelemetry.io/otel/codes"
)

// WizardHandler serves the event wizard helpers
type WizardHandler struct {
	wizardService service.WizardService
	eventService  service.EventService
	log           *logger.Logger
}

// NewWizardHandler creates a new wizard handler
func NewWizardHandler(wizardService service.WizardService, eventService service.EventService, log *logger.Logger) *WizardHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &WizardHandler{wizardService: wizardService, eventService: eventService, log: log}
}

// Context handles GET /manager/events/wizard[?event_id=]
func (h *WizardHandler) Context(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.wizard.context")
	defer span.End()

	actor, ok := actorFrom(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	wc, err := h.wizardService.LoadContext(ctx, actor, c.Query("event_id"))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, h.log, err, false)
		return
	}
	response.Success(c, wc)
}

// ResolveStep handles POST /manager/events/wizard/steps
func (h *WizardHandler) ResolveStep(c *gin.Context) {
	var req dto.ResolveStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	step := wizard.ResolveStep(req.Step, req.HasContract)
	response.Success(c, dto.ResolveStepResponse{
		Step:   step,
		Number: wizard.StepNumber(step, req.HasContract),
		Count:  wizard.StepCount(req.HasContract),
		Steps:  wizard.Steps(req.HasContract),
	})
}

// SyncBatches handles POST /manager/events/wizard/batches
func (h *WizardHandler) SyncBatches(c *gin.Context) {
	var req dto.SyncBatchesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result := wizard.SyncBatches(req.Batches, *req.Count)

	notices := []notify.Notice{}
	if len(result.Discarded) > 0 {
		notices = append(notices, notify.Notice{
			Level:   notify.LevelWarning,
			Message: "Reducing the number of batches removed batches that already had data.",
		})
	}
	response.SuccessWithMeta(c, http.StatusOK, result, dto.NoticeMeta{Notices: notices})
}

// Validate handles POST /manager/events/wizard/validate. It runs every
// submission check without saving.
func (h *WizardHandler) Validate(c *gin.Context) {
	var form wizard.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if err := h.eventService.CheckSubmission(c.Request.Context(), &form); err != nil {
		handleError(c, h.log, err, form.ContractID != "")
		return
	}
	response.Success(c, dto.ValidateResponse{Valid: true})
}
