package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/domain"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/gateway"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/service"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/pkg/logger"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/pkg/response"
)

// AddressHandler serves postal code lookups for the wizard address field
type AddressHandler struct {
	lookup gateway.AddressLookup
	log    *logger.Logger
}

// NewAddressHandler creates a new address handler
func NewAddressHandler(lookup gateway.AddressLookup, log *logger.Logger) *AddressHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &AddressHandler{lookup: lookup, log: log}
}

// Lookup handles GET /address/:cep
func (h *AddressHandler) Lookup(c *gin.Context) {
	addr, err := h.lookup.Lookup(c.Request.Context(), c.Param("cep"))
	if err != nil {
		if !domain.IsNotFoundError(err) && !domain.IsValidationError(err) {
			err = &service.GatewayError{Op: "address lookup", Err: err}
		}
		handleError(c, h.log, err, false)
		return
	}
	response.Success(c, gin.H{
		"address": addr,
		"line":    addr.Line(),
	})
}
