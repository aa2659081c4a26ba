package controller

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"stagecrew-api/core/constants"
	"stagecrew-api/core/controller"
	coreEntity "stagecrew-api/core/entity"
	"stagecrew-api/core/errors"
	"stagecrew-api/core/utils"
	"stagecrew-api/modules/schedule/dto"
	"stagecrew-api/modules/schedule/service"
)

// ScheduleController handles daily schedule HTTP requests
type ScheduleController struct {
	controller.BaseController
	ScheduleService service.ScheduleServiceInterface
}

// NewScheduleController creates a new controller
func NewScheduleController(svc service.ScheduleServiceInterface) *ScheduleController {
	return &ScheduleController{
		BaseController:  controller.NewBaseController(),
		ScheduleService: svc,
	}
}

func (c *ScheduleController) getActorFromContext(ctx echo.Context) (coreEntity.Actor, error) {
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

// CreateSchedule handles POST /events/:id/schedules
// @Summary Create a schedule block
// @Description Add a time-boxed activity block to one day of an event. Overlaps must be acknowledged explicitly.
// @Tags Schedule
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body dto.CreateScheduleRequest true "Schedule details"
// @Success 200 {object} dto.ScheduleResponse
// @Failure 409 {object} errors.AppError
// @Failure 422 {object} errors.AppError
// @Router /private/events/{id}/schedules [post]
func (c *ScheduleController) CreateSchedule(ctx echo.Context) error {
	actor, err := c.getActorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	var req dto.CreateScheduleRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.ScheduleService.CreateSchedule(ctx.Request().Context(), actor, eventID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Schedule created successfully")
}

// ListSchedules handles GET /events/:id/schedules
// @Summary List an event's schedules grouped by day
// @Tags Schedule
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {array} dto.DayScheduleResponse
// @Router /private/events/{id}/schedules [get]
func (c *ScheduleController) ListSchedules(ctx echo.Context) error {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	result, appErr := c.ScheduleService.ListSchedules(ctx.Request().Context(), eventID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// ListConflicts handles POST /events/:id/schedules/conflicts
// @Summary Preview conflicts for a candidate block without writing
// @Tags Schedule
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body dto.CreateScheduleRequest true "Candidate schedule"
// @Success 200 {object} dto.ConflictListResponse
// @Router /private/events/{id}/schedules/conflicts [post]
func (c *ScheduleController) ListConflicts(ctx echo.Context) error {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	var req dto.CreateScheduleRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.ScheduleService.ListConflicts(ctx.Request().Context(), eventID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// UpdateSchedule handles PUT /schedules/:id
// @Summary Edit a schedule block
// @Tags Schedule
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Schedule ID"
// @Param request body dto.UpdateScheduleRequest true "Schedule details"
// @Success 200 {object} dto.ScheduleResponse
// @Failure 409 {object} errors.AppError
// @Router /private/schedules/{id} [put]
func (c *ScheduleController) UpdateSchedule(ctx echo.Context) error {
	actor, err := c.getActorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	scheduleID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid schedule ID")
	}

	var req dto.UpdateScheduleRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.ScheduleService.UpdateSchedule(ctx.Request().Context(), actor, scheduleID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Schedule updated successfully")
}

// DeleteSchedule handles DELETE /schedules/:id
// @Summary Delete a schedule block
// @Tags Schedule
// @Security BearerAuth
// @Param id path string true "Schedule ID"
// @Success 200 {object} map[string]string
// @Router /private/schedules/{id} [delete]
func (c *ScheduleController) DeleteSchedule(ctx echo.Context) error {
	actor, err := c.getActorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	scheduleID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid schedule ID")
	}

	if appErr := c.ScheduleService.DeleteSchedule(ctx.Request().Context(), actor, scheduleID); appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, nil, "Schedule deleted successfully")
}

// ReorderSchedules handles POST /events/:id/schedules/reorder
// @Summary Persist a new display order for one day's blocks
// @Tags Schedule
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body dto.ReorderSchedulesRequest true "Ordered schedule IDs"
// @Success 200 {array} dto.ScheduleResponse
// @Router /private/events/{id}/schedules/reorder [post]
func (c *ScheduleController) ReorderSchedules(ctx echo.Context) error {
	actor, err := c.getActorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	var req dto.ReorderSchedulesRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.ScheduleService.ReorderSchedules(ctx.Request().Context(), actor, eventID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Schedules reordered successfully")
}
