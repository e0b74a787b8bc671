package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/storage"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// auditTimeLayout formats timestamps in audit log lines.
const auditTimeLayout = "January 02, 2006, 03:04 PM"

// TaskService implements the per-category checklist board and its
// append-only audit log. Every state change on a task writes a
// human-readable line to the category's log.
type TaskService struct {
	tasks  repository.TaskRepository
	logs   repository.LogRepository
	stats  repository.StatsRepository
	files  *storage.FileStore
	logger *zap.Logger
	loc    *time.Location
}

func NewTaskService(
	tasks repository.TaskRepository,
	logs repository.LogRepository,
	stats repository.StatsRepository,
	files *storage.FileStore,
	logger *zap.Logger,
	loc *time.Location,
) *TaskService {
	return &TaskService{
		tasks:  tasks,
		logs:   logs,
		stats:  stats,
		files:  files,
		logger: logger,
		loc:    loc,
	}
}

// audit appends a log line for the category. Audit failures are logged
// but never fail the triggering operation.
func (s *TaskService) audit(ctx context.Context, category domain.TaskCategory, actor *domain.User, message string) {
	entry := &domain.LogEntry{Message: message, Category: category, ActorID: &actor.ID}
	if err := s.logs.Create(ctx, entry); err != nil {
		s.logger.Error("failed to write audit log entry",
			zap.String("category", string(category)), zap.Error(err))
	}
}

// Add creates a checklist task and records the addition.
func (s *TaskService) Add(ctx context.Context, actor *domain.User, title, description string, category domain.TaskCategory) (*domain.Task, error) {
	if title == "" || category == "" {
		return nil, apperrors.NewValidationError("Title and category are required.", nil)
	}
	if !domain.ValidTaskCategory(category) {
		return nil, apperrors.NewValidationError("Invalid category.", nil)
	}

	task := &domain.Task{
		Title:       title,
		Description: description,
		Category:    category,
		CreatorID:   &actor.ID,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.audit(ctx, category, actor, fmt.Sprintf("Task '%s' added at %s by %s",
		task.Title, task.CreatedAt.In(s.loc).Format(auditTimeLayout), actor.Email))
	return task, nil
}

// ListByCategory returns the category's tasks, oldest first.
func (s *TaskService) ListByCategory(ctx context.Context, category domain.TaskCategory) ([]domain.Task, error) {
	if !domain.ValidTaskCategory(category) {
		return nil, apperrors.NewValidationError("Valid category is required.", nil)
	}
	tasks, err := s.tasks.ListByCategory(ctx, category)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tasks, nil
}

func (s *TaskService) getTask(ctx context.Context, id int64, category domain.TaskCategory) (*domain.Task, error) {
	if !domain.ValidTaskCategory(category) {
		return nil, apperrors.NewValidationError("Valid category is required.", nil)
	}
	task, err := s.tasks.GetByID(ctx, id, category)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("Task", nil)
		}
		return nil, apperrors.MapError(err)
	}
	return task, nil
}

// Complete marks the task done. Completing an already-completed task
// is a no-op: no mutation and no audit line.
func (s *TaskService) Complete(ctx context.Context, actor *domain.User, id int64, category domain.TaskCategory) (*domain.Task, error) {
	task, err := s.getTask(ctx, id, category)
	if err != nil {
		return nil, err
	}
	if task.Completed {
		return task, nil
	}

	completedAt := time.Now().In(s.loc)
	task.Completed = true
	task.CompletedAt = &completedAt
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.audit(ctx, category, actor, fmt.Sprintf("Task '%s' completed at %s by %s",
		task.Title, completedAt.Format(auditTimeLayout), actor.Email))
	return task, nil
}

// Reset clears the completed flag, remembering the previous completion
// time. Resetting a task that is not completed is a no-op.
func (s *TaskService) Reset(ctx context.Context, actor *domain.User, id int64, category domain.TaskCategory) (*domain.Task, error) {
	task, err := s.getTask(ctx, id, category)
	if err != nil {
		return nil, err
	}
	if !task.Completed {
		return task, nil
	}

	task.Completed = false
	task.LastCompletedAt = task.CompletedAt
	task.CompletedAt = nil
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.audit(ctx, category, actor, fmt.Sprintf("Task '%s' reset at %s by %s",
		task.Title, time.Now().In(s.loc).Format(auditTimeLayout), actor.Email))
	return task, nil
}

// Delete removes the task permanently and records the deletion.
func (s *TaskService) Delete(ctx context.Context, actor *domain.User, id int64, category domain.TaskCategory) error {
	task, err := s.getTask(ctx, id, category)
	if err != nil {
		return err
	}
	if err := s.tasks.Delete(ctx, id, category); err != nil {
		return apperrors.MapError(err)
	}

	s.audit(ctx, category, actor, fmt.Sprintf("Task '%s' deleted at %s by %s",
		task.Title, time.Now().In(s.loc).Format(auditTimeLayout), actor.Email))
	return nil
}

// Logs returns the category's audit trail, newest first.
func (s *TaskService) Logs(ctx context.Context, category domain.TaskCategory) ([]domain.LogEntry, error) {
	if !domain.ValidTaskCategory(category) {
		return nil, apperrors.NewValidationError("Valid category is required.", nil)
	}
	entries, err := s.logs.ListByCategory(ctx, category)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return entries, nil
}

// ExportLogs writes the category's audit trail to a timestamped backup
// file and returns its path. An empty trail produces no file.
func (s *TaskService) ExportLogs(ctx context.Context, category domain.TaskCategory) (string, error) {
	entries, err := s.Logs(ctx, category)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", nil
	}

	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		lines = append(lines, entry.Message)
	}
	path, err := s.files.WriteLogExport(string(category), lines)
	if err != nil {
		return "", apperrors.NewInternalError(err)
	}
	return path, nil
}

// ClearLogs exports the category's entries to a backup file and then
// deletes them. The clear does not proceed if the export fails.
func (s *TaskService) ClearLogs(ctx context.Context, category domain.TaskCategory) (string, error) {
	path, err := s.ExportLogs(ctx, category)
	if err != nil {
		return "", err
	}
	if err := s.logs.DeleteByCategory(ctx, category); err != nil {
		return "", apperrors.MapError(err)
	}
	return path, nil
}

// Statistics aggregates the dashboard counters.
func (s *TaskService) Statistics(ctx context.Context) (*domain.DashboardStats, error) {
	stats, err := s.stats.DashboardStats(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return stats, nil
}
