package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health          *handlers.HealthHandler
	Auth            *handlers.AuthHandler
	Users           *handlers.UsersHandler
	Tickets         *handlers.TicketsHandler
	Requests        *handlers.RequestsHandler
	Tasks           *handlers.TasksHandler
	Assistant       *handlers.AssistantHandler
	General         *handlers.GeneralHandler
	SuperAdminEmail string
}

// RegisterRoutes wires HTTP routes. Fixed paths (admins, self, logs,
// statistics, attachments) are registered before their sibling
// parameterized routes so they match first.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/logout", cfg.Auth.Logout)
	authGroup.Get("/status", cfg.Auth.Status)

	users := api.Group("/users")
	users.Get("/", auth.RequireAdmin(), cfg.Users.List)
	users.Get("/admins", auth.RequireAdmin(), cfg.Users.ListAdmins)
	users.Put("/self/password", auth.RequireAuth(), cfg.Users.UpdateSelfPassword)
	users.Get("/:email", auth.RequireAdmin(), cfg.Users.Get)
	users.Put("/:email/role", auth.RequireAdmin(), cfg.Users.UpdateRole)
	users.Put("/:email/associations", auth.RequireAdmin(), cfg.Users.UpdateAssociations)
	users.Put("/:email/password", auth.RequireAdmin(), cfg.Users.UpdatePassword)
	users.Delete("/:email", auth.RequireSuperAdmin(cfg.SuperAdminEmail), cfg.Users.Delete)

	tickets := api.Group("/tickets")
	tickets.Post("/", auth.RequireAuth(), cfg.Tickets.Create)
	tickets.Get("/", auth.RequireAuth(), cfg.Tickets.List)
	tickets.Get("/attachments/:id", auth.RequireAuth(), cfg.Tickets.DownloadAttachment)
	tickets.Get("/:id", auth.RequireAuth(), cfg.Tickets.Get)
	tickets.Post("/:id/comments", auth.RequireAuth(), cfg.Tickets.AddComment)
	tickets.Get("/:id/comments/count", auth.RequireAuth(), cfg.Tickets.CommentCount)
	tickets.Put("/:id/close", auth.RequireDepartmentAdmin(domain.DepartmentAny), cfg.Tickets.Close)
	tickets.Put("/:id/assign", auth.RequireDepartmentAdmin(domain.DepartmentAny), cfg.Tickets.Assign)
	tickets.Delete("/:id", auth.RequireAdmin(), cfg.Tickets.Delete)

	requests := api.Group("/requests")
	requests.Post("/equipment", auth.RequireAuth(), cfg.Requests.CreateEquipment)
	requests.Get("/equipment", auth.RequireAuth(), cfg.Requests.ListEquipment)
	requests.Get("/equipment/:id", auth.RequireAuth(), cfg.Requests.GetEquipment)
	requests.Put("/equipment/:id/approve", auth.RequireDepartmentAdmin(domain.DepartmentIT), cfg.Requests.ApproveEquipment)
	requests.Put("/equipment/:id/deny", auth.RequireDepartmentAdmin(domain.DepartmentIT), cfg.Requests.DenyEquipment)
	requests.Put("/equipment/:id/close", auth.RequireDepartmentAdmin(domain.DepartmentIT), cfg.Requests.CloseEquipment)
	requests.Post("/users", auth.RequireAuth(), cfg.Requests.CreateUser)
	requests.Get("/users", auth.RequireAuth(), cfg.Requests.ListUser)
	requests.Get("/users/:id", auth.RequireAuth(), cfg.Requests.GetUser)
	requests.Put("/users/:id/close", auth.RequireDepartmentAdmin(domain.DepartmentIT), cfg.Requests.CloseUser)
	requests.Post("/students", auth.RequireAuth(), cfg.Requests.CreateStudent)
	requests.Get("/students", auth.RequireAuth(), cfg.Requests.ListStudent)
	requests.Get("/students/:id", auth.RequireAuth(), cfg.Requests.GetStudent)
	requests.Put("/students/:id/close", auth.RequireDepartmentAdmin(domain.DepartmentIT), cfg.Requests.CloseStudent)
	requests.Put("/students/:id/toggle/:field", auth.RequireDepartmentAdmin(domain.DepartmentIT), cfg.Requests.ToggleStudentFlag)

	tasks := api.Group("/tasks")
	tasks.Post("/", auth.RequireAdmin(), cfg.Tasks.Add)
	tasks.Get("/", auth.RequireAuth(), cfg.Tasks.List)
	tasks.Get("/logs", auth.RequireAdmin(), cfg.Tasks.Logs)
	tasks.Delete("/logs/clear", auth.RequireAdmin(), cfg.Tasks.ClearLogs)
	tasks.Get("/logs/download", auth.RequireAdmin(), cfg.Tasks.DownloadLogs)
	tasks.Get("/statistics", auth.RequireAuth(), cfg.Tasks.Statistics)
	tasks.Put("/:id/complete", auth.RequireAdmin(), cfg.Tasks.Complete)
	tasks.Put("/:id/reset", auth.RequireAdmin(), cfg.Tasks.Reset)
	tasks.Delete("/:id", auth.RequireAdmin(), cfg.Tasks.Delete)

	api.Post("/gemini/generate", auth.RequireAuth(), cfg.Assistant.Generate)
	api.Post("/report_bug", auth.RequireAuth(), cfg.General.ReportBug)
}
