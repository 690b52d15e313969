package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/ashboi005/insight-ai/errors"
	taskdto "github.com/ashboi005/insight-ai/internal/adapter/dto/task"
	"github.com/ashboi005/insight-ai/internal/domain/entities"
	"github.com/ashboi005/insight-ai/internal/domain/repositories"
	"github.com/ashboi005/insight-ai/internal/usecase/task"
)

// Task handles task HTTP requests
type Task struct {
	service *task.Service
	logger  *zap.Logger
}

// NewTask creates a new task handler
func NewTask(service *task.Service, logger *zap.Logger) *Task {
	return &Task{
		service: service,
		logger:  logger,
	}
}

// List returns tasks filtered by query parameters
// GET /v1/tasks
func (h *Task) List(c echo.Context) error {
	ctx := c.Request().Context()

	var req taskdto.ListRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}

	filters, err := buildTaskFilters(&req)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	tasks, err := h.service.List(ctx, filters)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, taskdto.NewResponseList(tasks))
}

// Get returns a task by ID
// GET /v1/tasks/:id
func (h *Task) Get(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid task ID"))
	}

	t, err := h.service.Get(ctx, id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, taskdto.NewResponse(t))
}

// Update applies partial updates to a task
// PUT /v1/tasks/:id
func (h *Task) Update(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid task ID"))
	}

	var req taskdto.UpdateRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	input := task.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
	}
	if req.Priority != nil {
		priority := entities.TaskPriority(*req.Priority)
		input.Priority = &priority
	}
	if req.AssignedTeam != nil {
		team := entities.Team(*req.AssignedTeam)
		input.AssignedTeam = &team
	}

	updated, err := h.service.Update(ctx, id, input)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, taskdto.NewResponse(updated))
}

// UpdateStatus transitions a task's lifecycle state
// PATCH /v1/tasks/:id/status
func (h *Task) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid task ID"))
	}

	var req taskdto.UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	updated, err := h.service.SetStatus(ctx, id, entities.TaskStatus(req.Status))
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, taskdto.NewResponse(updated))
}

// Delete removes a task
// DELETE /v1/tasks/:id
func (h *Task) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("invalid task ID"))
	}

	if err := h.service.Delete(ctx, id); err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, map[string]string{"message": "Task deleted"})
}

// Analytics returns aggregated task statistics
// GET /v1/tasks/analytics?my_team_only=true
func (h *Task) Analytics(c echo.Context) error {
	ctx := c.Request().Context()

	analytics, err := h.service.GetAnalytics(ctx, teamScope(c))
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, analytics)
}

// Dashboard returns the landing-view summary
// GET /v1/tasks/dashboard?my_team_only=true
func (h *Task) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()

	dashboard, err := h.service.GetDashboard(ctx, teamScope(c))
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, dashboard)
}

// teamScope returns the caller's team when my_team_only is set
func teamScope(c echo.Context) *entities.Team {
	if c.QueryParam("my_team_only") != "true" {
		return nil
	}
	user, ok := currentUser(c)
	if !ok {
		return nil
	}
	return &user.Team
}

// buildTaskFilters converts ListRequest query params to repository filters
func buildTaskFilters(req *taskdto.ListRequest) (repositories.TaskFilters, error) {
	filters := repositories.TaskFilters{
		Search: req.Search,
		Limit:  req.Limit,
		Offset: req.Offset,
	}

	if req.TranscriptID != "" {
		id, err := uuid.Parse(req.TranscriptID)
		if err != nil {
			return filters, errors.ErrInvalidArgument("invalid transcript_id filter")
		}
		filters.TranscriptID = &id
	}
	if req.Team != "" {
		team := entities.Team(req.Team)
		if !team.IsValid() {
			return filters, errors.ErrInvalidArgument("invalid team filter")
		}
		filters.Team = &team
	}
	if req.Status != "" {
		status := entities.TaskStatus(req.Status)
		if !status.IsValid() {
			return filters, errors.ErrInvalidArgument("invalid status filter")
		}
		filters.Status = &status
	}
	if req.Priority != "" {
		priority := entities.TaskPriority(req.Priority)
		if !priority.IsValid() {
			return filters, errors.ErrInvalidArgument("invalid priority filter")
		}
		filters.Priority = &priority
	}

	return filters, nil
}
