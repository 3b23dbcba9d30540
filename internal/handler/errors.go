package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/domain"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/dto"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/service"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/wizard"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/pkg/logger"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/pkg/middleware"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/pkg/response"
	"go.uber.org/zap"
)

// handleError maps service errors to HTTP responses. hasContract decides the
// step numbering reported with wizard errors.
func handleError(c *gin.Context, log *logger.Logger, err error, hasContract bool) {
	if fe, ok := wizard.AsFieldErrors(err); ok {
		first := fe.First()
		response.UnprocessableEntity(c, "VALIDATION_FAILED", first.Message, dto.ValidationDetails{
			Step:   first.Step,
			Number: wizard.StepNumber(first.Step, hasContract),
			Fields: fe,
		})
		return
	}
	if rv, ok := service.AsRuleViolation(err); ok {
		response.UnprocessableEntity(c, "RULE_VIOLATION", rv.Error(), dto.RuleDetails{
			Step:   rv.Step,
			Number: wizard.StepNumber(rv.Step, hasContract),
		})
		return
	}

	switch {
	case errors.Is(err, service.ErrSubmissionInProgress):
		response.Conflict(c, "SUBMISSION_IN_PROGRESS", err.Error())
	case errors.Is(err, service.ErrContractPermissionDenied):
		response.Error(c, http.StatusForbidden, "CONTRACT_PERMISSION_DENIED", service.ErrContractPermissionDenied.Error(), nil)
	case domain.IsNotFoundError(err):
		response.NotFound(c, notFoundMessage(err))
	case domain.IsForbiddenError(err):
		response.Forbidden(c, err.Error())
	case domain.IsValidationError(err):
		response.UnprocessableEntity(c, "INVALID_VALUE", err.Error(), nil)
	default:
		var ge *service.GatewayError
		if errors.As(err, &ge) {
			log.Error("gateway error",
				zap.String("op", ge.Op),
				zap.String("request_id", middleware.GetRequestID(c)),
				zap.Error(ge.Err),
			)
			response.BadGateway(c, ge.Err.Error())
			return
		}
		log.Error("unexpected error",
			zap.String("path", c.FullPath()),
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Error(err),
		)
		response.InternalError(c, err)
	}
}

func notFoundMessage(err error) string {
	for _, target := range []error{
		domain.ErrEventNotFound,
		domain.ErrContractNotFound,
		domain.ErrRangeNotFound,
		domain.ErrProfileNotFound,
		domain.ErrCompanyNotFound,
		domain.ErrAddressNotFound,
	} {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return "not found"
}

// actorFrom builds the service actor from the authenticated context
func actorFrom(c *gin.Context) (domain.Actor, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return domain.Actor{}, false
	}
	return domain.Actor{UserID: userID, Role: domain.Role(middleware.GetRole(c))}, true
}
