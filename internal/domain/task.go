package domain

import "time"

// TaskCategory scopes checklist tasks and their audit logs.
type TaskCategory string

const (
	TaskCategoryTech           TaskCategory = "tech"
	TaskCategoryMaintenance    TaskCategory = "maintenance"
	TaskCategoryAdministration TaskCategory = "administration"
)

// ValidTaskCategory reports whether the value is a known category.
func ValidTaskCategory(c TaskCategory) bool {
	switch c {
	case TaskCategoryTech, TaskCategoryMaintenance, TaskCategoryAdministration:
		return true
	}
	return false
}

// Task is a per-category checklist item. LastCompletedAt remembers the
// previous completion time after a reset.
type Task struct {
	ID              int64
	Title           string
	Description     string
	Category        TaskCategory
	Completed       bool
	CreatedAt       time.Time
	CompletedAt     *time.Time
	LastCompletedAt *time.Time
	CreatorID       *int64
}

// LogEntry is an append-only audit line for a task category.
type LogEntry struct {
	ID         int64
	Message    string
	Category   TaskCategory
	ActorID    *int64
	ActorEmail *string
	CreatedAt  time.Time
}

// DashboardStats aggregates counts shown on the admin dashboard.
type DashboardStats struct {
	TotalTickets        int64
	OpenTickets         int64
	ClosedTickets       int64
	Comments            int64
	ShimmerTickets      int64
	EquipmentRequests   int64
	UserRequests        int64
	StudentRequests     int64
	TotalRequests       int64
	TotalUsers          int64
	TicketsByDepartment map[string]int64
}
