package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/dto"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/service"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/pkg/logger"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/pkg/response"
)

// CommissionHandler handles commission range administration
type CommissionHandler struct {
	commissionService service.CommissionService
	log               *logger.Logger
}

// NewCommissionHandler creates a new commission handler
func NewCommissionHandler(commissionService service.CommissionService, log *logger.Logger) *CommissionHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &CommissionHandler{commissionService: commissionService, log: log}
}

// List handles GET /admin/commission-ranges
func (h *CommissionHandler) List(c *gin.Context) {
	ranges, err := h.commissionService.ListRanges(c.Request.Context())
	if err != nil {
		handleError(c, h.log, err, false)
		return
	}
	response.Success(c, ranges)
}

// Create handles POST /admin/commission-ranges
func (h *CommissionHandler) Create(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req dto.RangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	r, err := h.commissionService.CreateRange(c.Request.Context(), actor, req.ToDomain(""))
	if err != nil {
		handleError(c, h.log, err, false)
		return
	}
	response.Created(c, r)
}

// Update handles PUT /admin/commission-ranges/:id
func (h *CommissionHandler) Update(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req dto.RangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	r, err := h.commissionService.UpdateRange(c.Request.Context(), actor, req.ToDomain(c.Param("id")))
	if err != nil {
		handleError(c, h.log, err, false)
		return
	}
	response.Success(c, r)
}

// Deactivate handles DELETE /admin/commission-ranges/:id
func (h *CommissionHandler) Deactivate(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	r, err := h.commissionService.DeactivateRange(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		handleError(c, h.log, err, false)
		return
	}
	response.Success(c, r)
}

// History handles GET /admin/commission-ranges/:id/history
func (h *CommissionHandler) History(c *gin.Context) {
	history, err := h.commissionService.ListHistory(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, h.log, err, false)
		return
	}
	response.Success(c, history)
}
