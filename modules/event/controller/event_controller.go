package controller

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"stagecrew-api/core/constants"
	"stagecrew-api/core/controller"
	coreEntity "stagecrew-api/core/entity"
	"stagecrew-api/core/errors"
	"stagecrew-api/core/params"
	"stagecrew-api/core/utils"
	"stagecrew-api/modules/event/dto"
	"stagecrew-api/modules/event/service"
)

// EventController handles event HTTP requests
type EventController struct {
	controller.BaseController
	EventService service.EventServiceInterface
}

// NewEventController creates a new controller
func NewEventController(svc service.EventServiceInterface) *EventController {
	return &EventController{
		BaseController: controller.NewBaseController(),
		EventService:   svc,
	}
}

// getActorFromContext extracts the acting identity and role from JWT context
func (c *EventController) getActorFromContext(ctx echo.Context) (coreEntity.Actor, error) {
	tokenData := ctx.Get(constants.ContextTokenData)
	if tokenData == nil {
		return coreEntity.Actor{}, errors.NewAppError(errors.ErrUnauthorized, "User not authenticated", nil)
	}

	claims, ok := tokenData.(*utils.TokenClaims)
	if !ok {
		return coreEntity.Actor{}, errors.NewAppError(errors.ErrUnauthorized, "Invalid token data", nil)
	}

	return coreEntity.Actor{ID: claims.UserID, Role: claims.Role}, nil
}

// CreateEvent handles POST /events
// @Summary Create an event
// @Description Create a new draft event with its staffing window and audience
// @Tags Event
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.CreateEventRequest true "Event details"
// @Success 200 {object} dto.EventResponse
// @Failure 400 {object} errors.AppError
// @Failure 403 {object} errors.AppError
// @Router /private/events [post]
func (c *EventController) CreateEvent(ctx echo.Context) error {
	actor, err := c.getActorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	var req dto.CreateEventRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.EventService.CreateEvent(ctx.Request().Context(), actor, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Event created successfully")
}

// GetEvent handles GET /events/:id
// @Summary Get an event
// @Tags Event
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} dto.EventResponse
// @Failure 404 {object} errors.AppError
// @Router /private/events/{id} [get]
func (c *EventController) GetEvent(ctx echo.Context) error {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	result, appErr := c.EventService.GetEvent(ctx.Request().Context(), eventID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// ListEvents handles GET /events
// @Summary List events
// @Tags Event
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.PaginatedEventResponse
// @Router /private/events [get]
func (c *EventController) ListEvents(ctx echo.Context) error {
	qp := params.FromEchoContext(ctx)

	result, appErr := c.EventService.ListEvents(ctx.Request().Context(), qp)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// TransitionEvent handles POST /events/:id/transition
// @Summary Change event lifecycle status
// @Description Move an event along draft/published/cancelled/completed
// @Tags Event
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body dto.TransitionEventRequest true "Target status"
// @Success 200 {object} dto.EventResponse
// @Failure 409 {object} errors.AppError
// @Router /private/events/{id}/transition [post]
func (c *EventController) TransitionEvent(ctx echo.Context) error {
	actor, err := c.getActorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	var req dto.TransitionEventRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.EventService.TransitionEvent(ctx.Request().Context(), actor, eventID, req.Target)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Event status updated")
}

// DeleteEvent handles DELETE /events/:id
// @Summary Delete a draft event
// @Tags Event
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} map[string]string
// @Failure 409 {object} errors.AppError
// @Router /private/events/{id} [delete]
func (c *EventController) DeleteEvent(ctx echo.Context) error {
	actor, err := c.getActorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	if appErr := c.EventService.DeleteEvent(ctx.Request().Context(), actor, eventID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Event deleted successfully")
}

// ListHistory handles GET /events/:id/history
// @Summary List lifecycle audit entries for an event
// @Tags Event
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {array} dto.HistoryResponse
// @Router /private/events/{id}/history [get]
func (c *EventController) ListHistory(ctx echo.Context) error {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	result, appErr := c.EventService.ListHistory(ctx.Request().Context(), eventID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}
