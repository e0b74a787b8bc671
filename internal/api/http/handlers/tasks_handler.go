package handlers

import (
	"fmt"
	"os"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// TasksHandler exposes the checklist board, audit logs, and dashboard
// statistics.
type TasksHandler struct {
	tasks *service.TaskService
}

// NewTasksHandler constructs the handler.
func NewTasksHandler(tasks *service.TaskService) *TasksHandler {
	return &TasksHandler{tasks: tasks}
}

func taskID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return 0, apperrors.NewNotFound("Task", nil)
	}
	return id, nil
}

// bodyCategory reads the category from the request body.
func bodyCategory(c *fiber.Ctx) (domain.TaskCategory, error) {
	var req dto.TaskCategoryRequest
	if err := c.BodyParser(&req); err != nil || req.Category == "" {
		return "", apperrors.NewValidationError("Valid category is required.", nil)
	}
	return domain.TaskCategory(req.Category), nil
}

// Add handles POST /api/tasks/.
func (h *TasksHandler) Add(c *fiber.Ctx) error {
	var req dto.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Title and category are required.", nil)
	}

	principal := auth.MustPrincipal(c)
	task, err := h.tasks.Add(c.UserContext(), principal.User, req.Title, req.Description, domain.TaskCategory(req.Category))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewTaskResponse(task))
}

// List handles GET /api/tasks/?category=...
func (h *TasksHandler) List(c *fiber.Ctx) error {
	tasks, err := h.tasks.ListByCategory(c.UserContext(), domain.TaskCategory(c.Query("category")))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTaskResponses(tasks))
}

// Complete handles PUT /api/tasks/:id/complete.
func (h *TasksHandler) Complete(c *fiber.Ctx) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}
	category, err := bodyCategory(c)
	if err != nil {
		return err
	}

	principal := auth.MustPrincipal(c)
	task, err := h.tasks.Complete(c.UserContext(), principal.User, id, category)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTaskResponse(task))
}

// Reset handles PUT /api/tasks/:id/reset.
func (h *TasksHandler) Reset(c *fiber.Ctx) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}
	category, err := bodyCategory(c)
	if err != nil {
		return err
	}

	principal := auth.MustPrincipal(c)
	task, err := h.tasks.Reset(c.UserContext(), principal.User, id, category)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTaskResponse(task))
}

// Delete handles DELETE /api/tasks/:id.
func (h *TasksHandler) Delete(c *fiber.Ctx) error {
	id, err := taskID(c)
	if err != nil {
		return err
	}
	category, err := bodyCategory(c)
	if err != nil {
		return err
	}

	principal := auth.MustPrincipal(c)
	if err := h.tasks.Delete(c.UserContext(), principal.User, id, category); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: fmt.Sprintf("Task %d deleted successfully.", id)})
}

// Logs handles GET /api/tasks/logs?category=...
func (h *TasksHandler) Logs(c *fiber.Ctx) error {
	entries, err := h.tasks.Logs(c.UserContext(), domain.TaskCategory(c.Query("category")))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewLogResponses(entries))
}

// ClearLogs handles DELETE /api/tasks/logs/clear. Entries are exported
// to a backup file before deletion.
func (h *TasksHandler) ClearLogs(c *fiber.Ctx) error {
	category, err := bodyCategory(c)
	if err != nil {
		return err
	}
	if !domain.ValidTaskCategory(category) {
		return apperrors.NewValidationError("Valid category is required.", nil)
	}

	path, err := h.tasks.ClearLogs(c.UserContext(), category)
	if err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{
		Message: fmt.Sprintf("Logs for %s cleared successfully. Backup created at %s", category, path),
	})
}

// DownloadLogs handles GET /api/tasks/logs/download?category=...
func (h *TasksHandler) DownloadLogs(c *fiber.Ctx) error {
	path, err := h.tasks.ExportLogs(c.UserContext(), domain.TaskCategory(c.Query("category")))
	if err != nil {
		return err
	}
	if path == "" {
		return apperrors.NewDomainError("NOT_FOUND", "No logs to download or failed to create file.", fiber.StatusNotFound, nil)
	}
	if _, statErr := os.Stat(path); statErr != nil {
		return apperrors.NewDomainError("NOT_FOUND", "No logs to download or failed to create file.", fiber.StatusNotFound, nil)
	}
	return c.Download(path)
}

// Statistics handles GET /api/tasks/statistics.
func (h *TasksHandler) Statistics(c *fiber.Ctx) error {
	stats, err := h.tasks.Statistics(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewStatisticsResponse(stats))
}
