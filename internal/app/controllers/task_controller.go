package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anandr/kuliahku/internal/app/models/dto"
	"github.com/anandr/kuliahku/internal/app/services"
	"github.com/anandr/kuliahku/internal/middleware"
	"github.com/anandr/kuliahku/internal/pkg/apperrors"
)

// TaskController handles task-related operations
type TaskController struct {
	taskService *services.TaskService
}

// NewTaskController creates a new TaskController
func NewTaskController(taskService *services.TaskService) *TaskController {
	return &TaskController{taskService: taskService}
}

// ListTasks retrieves all tasks of the signed-in user
// @Summary List tasks
// @Description Retrieves all tasks of the authenticated user ordered by deadline, each joined to its course name
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Task} "Tasks retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /tasks [get]
func (c *TaskController) ListTasks(ctx *gin.Context) {
	ownerID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrAuthenticationRequired)
		return
	}

	tasks, err := c.taskService.List(ctx.Request.Context(), ownerID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(tasks))
}

// GetTask retrieves one task by id
// @Summary Get task details
// @Description Retrieves one task of the authenticated user
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID" Format(uuid)
// @Success 200 {object} dto.APIResponse{data=models.Task} "Task retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Task not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /tasks/{id} [get]
func (c *TaskController) GetTask(ctx *gin.Context) {
	ownerID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrAuthenticationRequired)
		return
	}

	task, err := c.taskService.Get(ctx.Request.Context(), ownerID, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(task))
}

// CreateTask handles task creation
// @Summary Create a new task
// @Description Creates a new task for the authenticated user; status defaults to pending
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateTaskRequest true "Task information"
// @Success 201 {object} dto.APIResponse{data=models.Task} "Task created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /tasks [post]
func (c *TaskController) CreateTask(ctx *gin.Context) {
	ownerID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrAuthenticationRequired)
		return
	}

	var req dto.CreateTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid task data").
			WithDebugInfo("%v", err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	task, err := req.ToModel()
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	created, err := c.taskService.Create(ctx.Request.Context(), ownerID, task)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewAPIResponse(created))
}

// UpdateTask applies a partial edit to a task
// @Summary Update a task
// @Description Updates a task of the authenticated user; omitted fields keep their stored values
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID" Format(uuid)
// @Param request body dto.UpdateTaskRequest true "Changed task fields"
// @Success 200 {object} dto.APIResponse{data=models.Task} "Task updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Task not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /tasks/{id} [patch]
func (c *TaskController) UpdateTask(ctx *gin.Context) {
	ownerID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrAuthenticationRequired)
		return
	}

	var req dto.UpdateTaskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid task data").
			WithDebugInfo("%v", err)
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	changes, err := req.ToChanges()
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	updated, err := c.taskService.Update(ctx.Request.Context(), ownerID, ctx.Param("id"), changes)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(updated))
}

// DeleteTask deletes a task
// @Summary Delete a task
// @Description Deletes a task of the authenticated user
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID" Format(uuid)
// @Success 200 {object} dto.APIResponse "Task deleted successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 404 {object} dto.ErrorResponse "Task not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /tasks/{id} [delete]
func (c *TaskController) DeleteTask(ctx *gin.Context) {
	ownerID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		middleware.HandleAPIError(ctx, apperrors.ErrAuthenticationRequired)
		return
	}

	if err := c.taskService.Delete(ctx.Request.Context(), ownerID, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewAPIResponse(dto.SuccessResponse{Message: "Task deleted"}))
}
