package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// CreateTaskRequest is the checklist task payload.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

// TaskCategoryRequest carries the category for task state changes.
type TaskCategoryRequest struct {
	Category string `json:"category"`
}

// TaskResponse is the checklist task representation.
type TaskResponse struct {
	ID              int64   `json:"id"`
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	Category        string  `json:"category"`
	Completed       bool    `json:"completed"`
	CreatedAt       string  `json:"created_at"`
	CompletedAt     *string `json:"completed_at"`
	LastCompletedAt *string `json:"last_completed_at"`
}

// NewTaskResponse maps a task.
func NewTaskResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:              task.ID,
		Title:           task.Title,
		Description:     task.Description,
		Category:        string(task.Category),
		Completed:       task.Completed,
		CreatedAt:       task.CreatedAt.Format(time.RFC3339),
		CompletedAt:     formatOptionalTime(task.CompletedAt),
		LastCompletedAt: formatOptionalTime(task.LastCompletedAt),
	}
}

// NewTaskResponses maps a slice.
func NewTaskResponses(tasks []domain.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, NewTaskResponse(&tasks[i]))
	}
	return out
}

// LogResponse is an audit log line.
type LogResponse struct {
	ID        int64   `json:"id"`
	Message   string  `json:"message"`
	Timestamp string  `json:"timestamp"`
	Category  string  `json:"category"`
	UserEmail *string `json:"user_email"`
}

// NewLogResponse maps a log entry.
func NewLogResponse(entry *domain.LogEntry) LogResponse {
	return LogResponse{
		ID:        entry.ID,
		Message:   entry.Message,
		Timestamp: entry.CreatedAt.Format(time.RFC3339),
		Category:  string(entry.Category),
		UserEmail: entry.ActorEmail,
	}
}

// NewLogResponses maps a slice.
func NewLogResponses(entries []domain.LogEntry) []LogResponse {
	out := make([]LogResponse, 0, len(entries))
	for i := range entries {
		out = append(out, NewLogResponse(&entries[i]))
	}
	return out
}

// StatisticsResponse aggregates the dashboard counters.
type StatisticsResponse struct {
	NumTotalTickets      int64            `json:"num_total_tickets"`
	NumOpenTickets       int64            `json:"num_open_tickets"`
	NumClosedTickets     int64            `json:"num_closed_tickets"`
	NumComments          int64            `json:"num_comments"`
	NumShimmerTickets    int64            `json:"num_shimmer_tickets"`
	NumEquipmentRequests int64            `json:"num_equipment_requests"`
	NumUserRequests      int64            `json:"num_user_requests"`
	NumStudentRequests   int64            `json:"num_student_requests"`
	TotalRequests        int64            `json:"total_requests"`
	TotalUsers           int64            `json:"total_users"`
	TicketsByDepartment  map[string]int64 `json:"tickets_by_department"`
}

// NewStatisticsResponse maps dashboard statistics.
func NewStatisticsResponse(stats *domain.DashboardStats) StatisticsResponse {
	return StatisticsResponse{
		NumTotalTickets:      stats.TotalTickets,
		NumOpenTickets:       stats.OpenTickets,
		NumClosedTickets:     stats.ClosedTickets,
		NumComments:          stats.Comments,
		NumShimmerTickets:    stats.ShimmerTickets,
		NumEquipmentRequests: stats.EquipmentRequests,
		NumUserRequests:      stats.UserRequests,
		NumStudentRequests:   stats.StudentRequests,
		TotalRequests:        stats.TotalRequests,
		TotalUsers:           stats.TotalUsers,
		TicketsByDepartment:  stats.TicketsByDepartment,
	}
}

func formatOptionalTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}
