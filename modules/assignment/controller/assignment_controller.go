package controller

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"stagecrew-api/core/constants"
	"stagecrew-api/core/controller"
	coreEntity "stagecrew-api/core/entity"
	"stagecrew-api/core/errors"
	"stagecrew-api/core/utils"
	"stagecrew-api/modules/assignment/dto"
	"stagecrew-api/modules/assignment/service"
)

// AssignmentController handles assignment HTTP requests
type AssignmentController struct {
	controller.BaseController
	AssignmentService service.AssignmentServiceInterface
}

// NewAssignmentController creates a new controller
func NewAssignmentController(svc service.AssignmentServiceInterface) *AssignmentController {
	return &AssignmentController{
		BaseController:    controller.NewBaseController(),
		AssignmentService: svc,
	}
}

// getActorFromContext extracts the acting identity and role from JWT context
func (c *AssignmentController) getActorFromContext(ctx echo.Context) (coreEntity.Actor, error) {
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

// CreateAssignment handles POST /events/:id/assignments
// @Summary Propose a worker for an event
// @Tags Assignment
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body dto.CreateAssignmentRequest true "Worker to propose"
// @Success 200 {object} dto.AssignmentResponse
// @Failure 409 {object} errors.AppError
// @Router /private/events/{id}/assignments [post]
func (c *AssignmentController) CreateAssignment(ctx echo.Context) error {
	actor, err := c.getActorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	var req dto.CreateAssignmentRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.AssignmentService.CreateAssignment(ctx.Request().Context(), actor, eventID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Worker proposed successfully")
}

// ListAssignments handles GET /events/:id/assignments
// @Summary List an event's assignments
// @Tags Assignment
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {array} dto.AssignmentResponse
// @Router /private/events/{id}/assignments [get]
func (c *AssignmentController) ListAssignments(ctx echo.Context) error {
	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	result, appErr := c.AssignmentService.ListByEvent(ctx.Request().Context(), eventID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// ListMyAssignments handles GET /assignments/mine
// @Summary List the calling worker's assignments
// @Tags Assignment
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.AssignmentResponse
// @Router /private/assignments/mine [get]
func (c *AssignmentController) ListMyAssignments(ctx echo.Context) error {
	actor, err := c.getActorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	result, appErr := c.AssignmentService.ListMine(ctx.Request().Context(), actor)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Success")
}

// Respond handles POST /assignments/:id/respond
// @Summary Answer a staffing proposal
// @Description Record the assigned worker's availability answer
// @Tags Assignment
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Assignment ID"
// @Param request body dto.RespondRequest true "available, uncertain or unavailable"
// @Success 200 {object} dto.AssignmentResponse
// @Failure 409 {object} errors.AppError
// @Router /private/assignments/{id}/respond [post]
func (c *AssignmentController) Respond(ctx echo.Context) error {
	actor, err := c.getActorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	assignmentID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid assignment ID")
	}

	var req dto.RespondRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.AssignmentService.Respond(ctx.Request().Context(), actor, assignmentID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Response recorded")
}

// Revoke handles POST /assignments/:id/revoke
// @Summary Reset an assignment to proposed
// @Tags Assignment
// @Security BearerAuth
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} dto.AssignmentResponse
// @Failure 409 {object} errors.AppError
// @Router /private/assignments/{id}/revoke [post]
func (c *AssignmentController) Revoke(ctx echo.Context) error {
	actor, err := c.getActorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	assignmentID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid assignment ID")
	}

	result, appErr := c.AssignmentService.Revoke(ctx.Request().Context(), actor, assignmentID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Assignment revoked")
}

// Decline handles POST /assignments/:id/decline
// @Summary Withdraw from a validated team spot
// @Tags Assignment
// @Security BearerAuth
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} dto.AssignmentResponse
// @Failure 409 {object} errors.AppError
// @Router /private/assignments/{id}/decline [post]
func (c *AssignmentController) Decline(ctx echo.Context) error {
	actor, err := c.getActorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	assignmentID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid assignment ID")
	}

	result, appErr := c.AssignmentService.Decline(ctx.Request().Context(), actor, assignmentID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Assignment declined")
}

// FinalizeTeam handles POST /events/:id/team/finalize
// @Summary Finalize the event team
// @Description Validate the selected assignments and mark the rest not retained
// @Tags Assignment
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param request body dto.FinalizeTeamRequest true "Selected assignment IDs"
// @Success 200 {object} dto.TeamResponse
// @Failure 409 {object} errors.AppError
// @Failure 422 {object} errors.AppError
// @Router /private/events/{id}/team/finalize [post]
func (c *AssignmentController) FinalizeTeam(ctx echo.Context) error {
	actor, err := c.getActorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	var req dto.FinalizeTeamRequest
	if err := ctx.Bind(&req); err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid request body")
	}

	result, appErr := c.AssignmentService.FinalizeTeam(ctx.Request().Context(), actor, eventID, &req)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Team finalized")
}

// CompleteAssignments handles POST /events/:id/assignments/complete
// @Summary Close out validated assignments after the event
// @Tags Assignment
// @Security BearerAuth
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {array} dto.AssignmentResponse
// @Failure 409 {object} errors.AppError
// @Router /private/events/{id}/assignments/complete [post]
func (c *AssignmentController) CompleteAssignments(ctx echo.Context) error {
	actor, err := c.getActorFromContext(ctx)
	if err != nil {
		return c.Unauthorized(errors.ErrUnauthorized, "User not authenticated")
	}

	eventID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		return c.BadRequest(errors.ErrInvalidInput, "Invalid event ID")
	}

	result, appErr := c.AssignmentService.CompleteForEvent(ctx.Request().Context(), actor, eventID)
	if appErr != nil {
		return c.ErrorResponse(ctx, appErr)
	}

	return c.SuccessResponse(ctx, result, "Assignments completed")
}
