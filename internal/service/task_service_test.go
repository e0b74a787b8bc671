package service_test

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
	"github.com/spec-kit/helpdesk-service/internal/storage"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

type taskFixture struct {
	svc   *service.TaskService
	tasks *fakeTaskRepo
	logs  *fakeLogRepo
	users *fakeUserRepo
}

func newTaskFixture(t *testing.T) *taskFixture {
	t.Helper()
	tasks := newFakeTaskRepo()
	logs := &fakeLogRepo{}
	files := storage.NewFileStore(t.TempDir(), []string{"txt"})
	svc := service.NewTaskService(tasks, logs, &fakeStatsRepo{}, files, zap.NewNop(), time.UTC)
	return &taskFixture{svc: svc, tasks: tasks, logs: logs, users: newFakeUserRepo()}
}

func TestAddTaskValidation(t *testing.T) {
	f := newTaskFixture(t)
	actor := seedUser(t, f.users, "admin@example.com", domain.UserRoleAdmin)
	ctx := context.Background()

	_, err := f.svc.Add(ctx, actor, "", "", domain.TaskCategoryTech)
	require.Error(t, err)
	assert.Equal(t, "Title and category are required.", apperrors.ToDomainError(err).Message)

	_, err = f.svc.Add(ctx, actor, "Check projectors", "", "janitorial")
	require.Error(t, err)
	assert.Equal(t, "Invalid category.", apperrors.ToDomainError(err).Message)

	task, err := f.svc.Add(ctx, actor, "Check projectors", "All classrooms", domain.TaskCategoryTech)
	require.NoError(t, err)
	assert.False(t, task.Completed)

	entries, err := f.svc.Logs(ctx, domain.TaskCategoryTech)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Message, "Task 'Check projectors' added at")
	assert.Contains(t, entries[0].Message, "by admin@example.com")
}

func TestCompleteTaskIsIdempotent(t *testing.T) {
	f := newTaskFixture(t)
	actor := seedUser(t, f.users, "admin@example.com", domain.UserRoleAdmin)
	ctx := context.Background()

	task, err := f.svc.Add(ctx, actor, "Restock toner", "", domain.TaskCategoryTech)
	require.NoError(t, err)

	completed, err := f.svc.Complete(ctx, actor, task.ID, domain.TaskCategoryTech)
	require.NoError(t, err)
	require.NotNil(t, completed.CompletedAt)

	again, err := f.svc.Complete(ctx, actor, task.ID, domain.TaskCategoryTech)
	require.NoError(t, err)
	assert.Equal(t, completed.CompletedAt.Unix(), again.CompletedAt.Unix())

	entries, err := f.svc.Logs(ctx, domain.TaskCategoryTech)
	require.NoError(t, err)
	assert.Len(t, entries, 2) // add + one complete, no line for the no-op
}

func TestResetTaskKeepsLastCompletion(t *testing.T) {
	f := newTaskFixture(t)
	actor := seedUser(t, f.users, "admin@example.com", domain.UserRoleAdmin)
	ctx := context.Background()

	task, err := f.svc.Add(ctx, actor, "Restock toner", "", domain.TaskCategoryMaintenance)
	require.NoError(t, err)

	untouched, err := f.svc.Reset(ctx, actor, task.ID, domain.TaskCategoryMaintenance)
	require.NoError(t, err)
	assert.False(t, untouched.Completed)
	assert.Nil(t, untouched.LastCompletedAt)

	completed, err := f.svc.Complete(ctx, actor, task.ID, domain.TaskCategoryMaintenance)
	require.NoError(t, err)

	reset, err := f.svc.Reset(ctx, actor, task.ID, domain.TaskCategoryMaintenance)
	require.NoError(t, err)
	assert.False(t, reset.Completed)
	assert.Nil(t, reset.CompletedAt)
	require.NotNil(t, reset.LastCompletedAt)
	assert.Equal(t, completed.CompletedAt.Unix(), reset.LastCompletedAt.Unix())
}

func TestDeleteTaskWrongCategoryIsNotFound(t *testing.T) {
	f := newTaskFixture(t)
	actor := seedUser(t, f.users, "admin@example.com", domain.UserRoleAdmin)
	ctx := context.Background()

	task, err := f.svc.Add(ctx, actor, "Fix door", "", domain.TaskCategoryMaintenance)
	require.NoError(t, err)

	err = f.svc.Delete(ctx, actor, task.ID, domain.TaskCategoryTech)
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apperrors.ToDomainError(err).HTTPStatus)

	require.NoError(t, f.svc.Delete(ctx, actor, task.ID, domain.TaskCategoryMaintenance))
}

func TestClearLogsExportsFirst(t *testing.T) {
	f := newTaskFixture(t)
	actor := seedUser(t, f.users, "admin@example.com", domain.UserRoleAdmin)
	ctx := context.Background()

	_, err := f.svc.Add(ctx, actor, "Inventory check", "", domain.TaskCategoryAdministration)
	require.NoError(t, err)

	path, err := f.svc.ClearLogs(ctx, domain.TaskCategoryAdministration)
	require.NoError(t, err)
	require.NotEmpty(t, path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Task 'Inventory check' added at")

	entries, err := f.svc.Logs(ctx, domain.TaskCategoryAdministration)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestClearLogsWithNoEntries(t *testing.T) {
	f := newTaskFixture(t)

	path, err := f.svc.ClearLogs(context.Background(), domain.TaskCategoryTech)
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestLogsRejectUnknownCategory(t *testing.T) {
	f := newTaskFixture(t)

	_, err := f.svc.Logs(context.Background(), "janitorial")
	require.Error(t, err)
	assert.Equal(t, "Valid category is required.", apperrors.ToDomainError(err).Message)
}
