package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/dto"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/service"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/pkg/logger"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/pkg/response"
)

// ContractHandler handles commission contract administration
type ContractHandler struct {
	contractService service.ContractService
	log             *logger.Logger
}

// NewContractHandler creates a new contract handler
func NewContractHandler(contractService service.ContractService, log *logger.Logger) *ContractHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &ContractHandler{contractService: contractService, log: log}
}

// List handles GET /admin/contracts
func (h *ContractHandler) List(c *gin.Context) {
	contracts, err := h.contractService.ListContracts(c.Request.Context())
	if err != nil {
		handleError(c, h.log, err, false)
		return
	}
	response.Success(c, contracts)
}

// Get handles GET /admin/contracts/:id
func (h *ContractHandler) Get(c *gin.Context) {
	contract, err := h.contractService.GetContract(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, h.log, err, false)
		return
	}
	response.Success(c, contract)
}

// Preview handles GET /admin/contracts/:id/preview
func (h *ContractHandler) Preview(c *gin.Context) {
	ctx := c.Request.Context()
	contract, err := h.contractService.GetContract(ctx, c.Param("id"))
	if err != nil {
		handleError(c, h.log, err, false)
		return
	}
	ranges := h.contractService.FetchActiveCommissionRanges(ctx)
	response.Success(c, dto.ContractPreviewResponse{
		Contract: contract,
		HTML:     service.RenderContract(contract, ranges),
	})
}

// Active handles GET /manager/contract
func (h *ContractHandler) Active(c *gin.Context) {
	ctx := c.Request.Context()
	contract, err := h.contractService.FetchActiveContract(ctx)
	if err != nil {
		handleError(c, h.log, err, false)
		return
	}
	if contract == nil {
		response.Success(c, nil)
		return
	}
	ranges := h.contractService.FetchActiveCommissionRanges(ctx)
	response.Success(c, dto.ContractPreviewResponse{
		Contract: contract,
		HTML:     service.RenderContract(contract, ranges),
	})
}

// Create handles POST /admin/contracts
func (h *ContractHandler) Create(c *gin.Context) {
	var req dto.ContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	contract, err := h.contractService.CreateContract(c.Request.Context(), req.Title, req.Content)
	if err != nil {
		handleError(c, h.log, err, false)
		return
	}
	response.Created(c, contract)
}

// Update handles PUT /admin/contracts/:id
func (h *ContractHandler) Update(c *gin.Context) {
	var req dto.ContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	contract, err := h.contractService.UpdateContract(c.Request.Context(), c.Param("id"), req.Title, req.Content)
	if err != nil {
		handleError(c, h.log, err, false)
		return
	}
	response.Success(c, contract)
}

// Activate handles POST /admin/contracts/:id/activate
func (h *ContractHandler) Activate(c *gin.Context) {
	contract, err := h.contractService.ActivateContract(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, h.log, err, false)
		return
	}
	response.Success(c, contract)
}
