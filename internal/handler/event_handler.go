package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/domain"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/dto"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/notify"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/service"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/internal/wizard"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/pkg/logger"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/pkg/response"
	"github.com/maiszoomimpressos-create/tipoevento-sub000/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// EventHandler handles event HTTP requests
type EventHandler struct {
	eventService service.EventService
	log          *logger.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventService service.EventService, log *logger.Logger) *EventHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &EventHandler{eventService: eventService, log: log}
}

// ListCatalog handles GET /events
func (h *EventHandler) ListCatalog(c *gin.Context) {
	var filter dto.EventListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	filter.SetDefaults()

	events, total, err := h.eventService.ListCatalog(c.Request.Context(), filter.Limit, filter.Offset)
	if err != nil {
		handleError(c, h.log, err, false)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, dto.EventsFromDomain(events), dto.ListMeta{
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
}

// GetPublic handles GET /events/:id
func (h *EventHandler) GetPublic(c *gin.Context) {
	out, err := h.eventService.GetPublicEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleError(c, h.log, err, false)
		return
	}
	response.Success(c, dto.EventDetailResponse{
		Event:   dto.EventFromDomain(out.Event),
		Batches: dto.BatchesFromDomain(out.Batches),
	})
}

// ListMine handles GET /manager/events
func (h *EventHandler) ListMine(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var filter dto.EventListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	filter.SetDefaults()

	status, ok := parseOptionalStatus(c, filter.Status)
	if !ok {
		return
	}

	events, total, err := h.eventService.ListManagerEvents(c.Request.Context(), actor, status, filter.Limit, filter.Offset)
	if err != nil {
		handleError(c, h.log, err, false)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, dto.EventsFromDomain(events), dto.ListMeta{
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
}

// GetManaged handles GET /manager/events/:id
func (h *EventHandler) GetManaged(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	out, err := h.eventService.GetManagedEvent(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		handleError(c, h.log, err, false)
		return
	}
	response.Success(c, dto.EventDetailResponse{
		Event:   dto.EventFromDomain(out.Event),
		Batches: dto.BatchesFromDomain(out.Batches),
	})
}

// Create handles POST /manager/events
func (h *EventHandler) Create(c *gin.Context) {
	h.save(c, "")
}

// Update handles PUT /manager/events/:id
func (h *EventHandler) Update(c *gin.Context) {
	h.save(c, c.Param("id"))
}

func (h *EventHandler) save(c *gin.Context, editID string) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.event.save")
	defer span.End()

	actor, ok := actorFrom(c)
	if !ok {
		span.SetStatus(codes.Error, "unauthorized")
		response.Unauthorized(c, "Authentication required")
		return
	}

	var form wizard.Form
	if err := c.ShouldBindJSON(&form); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid request")
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	span.SetAttributes(
		attribute.String("manager_id", actor.UserID),
		attribute.String("event_id", editID),
		attribute.Bool("is_paid", form.IsPaid),
	)

	collector := notify.NewCollector()
	ctx = notify.WithNotifier(ctx, collector)
	c.Request = c.Request.WithContext(ctx)

	result, err := h.eventService.SaveEvent(ctx, actor, &form, editID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, h.log, err, form.ContractID != "")
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	span.SetAttributes(attribute.String("saved_event_id", result.Event.ID))
	span.SetStatus(codes.Ok, "")
	response.SuccessWithMeta(c, status, dto.SaveEventResponse{
		Event:    dto.EventFromDomain(result.Event),
		Batches:  dto.BatchesFromDomain(result.Batches),
		Redirect: result.Redirect,
	}, dto.NoticeMeta{Notices: collector.Notices()})
}

// AdminList handles GET /admin/events
func (h *EventHandler) AdminList(c *gin.Context) {
	var filter dto.EventListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	filter.SetDefaults()

	status, ok := parseOptionalStatus(c, filter.Status)
	if !ok {
		return
	}

	events, total, err := h.eventService.ListAllEvents(c.Request.Context(), status, filter.Limit, filter.Offset)
	if err != nil {
		handleError(c, h.log, err, false)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, dto.EventsFromDomain(events), dto.ListMeta{
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
}

// UpdateStatus handles PATCH /admin/events/:id/status
func (h *EventHandler) UpdateStatus(c *gin.Context) {
	ctx, span := telemetry.StartSpan(c.Request.Context(), "handler.event.update_status")
	defer span.End()

	actor, ok := actorFrom(c)
	if !ok {
		response.Unauthorized(c, "Authentication required")
		return
	}

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	event, err := h.eventService.UpdateStatus(ctx, actor, c.Param("id"), domain.EventStatus(req.Status))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		handleError(c, h.log, err, false)
		return
	}
	response.Success(c, dto.EventFromDomain(event))
}

func parseOptionalStatus(c *gin.Context, raw string) (domain.EventStatus, bool) {
	if raw == "" {
		return "", true
	}
	status, err := domain.ParseEventStatus(raw)
	if err != nil {
		response.BadRequest(c, err.Error())
		return "", false
	}
	return status, true
}
