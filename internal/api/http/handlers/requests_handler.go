package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// RequestsHandler exposes the equipment, new-hire, and student request
// endpoints.
type RequestsHandler struct {
	requests *service.RequestService
}

// NewRequestsHandler constructs the handler.
func NewRequestsHandler(requests *service.RequestService) *RequestsHandler {
	return &RequestsHandler{requests: requests}
}

// CreateEquipment handles POST /api/requests/equipment.
func (h *RequestsHandler) CreateEquipment(c *fiber.Ctx) error {
	var req dto.CreateEquipmentRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Missing required fields.", nil)
	}
	if req.Name == "" || req.Event == "" || req.Date == "" || req.Time == "" || req.Location == "" ||
		req.Equipment == "" || req.Description == "" || req.ReturnDate == "" || req.ReturnTime == "" {
		return apperrors.NewValidationError("Missing required fields.", nil)
	}

	principal := auth.MustPrincipal(c)
	created, err := h.requests.CreateEquipment(c.UserContext(), principal.User, service.CreateEquipmentRequestInput{
		Name:        req.Name,
		Event:       req.Event,
		Date:        req.Date,
		Time:        req.Time,
		Location:    req.Location,
		Equipment:   req.Equipment,
		Description: req.Description,
		ReturnDate:  req.ReturnDate,
		ReturnTime:  req.ReturnTime,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewEquipmentRequestResponse(created))
}

// ListEquipment handles GET /api/requests/equipment.
func (h *RequestsHandler) ListEquipment(c *fiber.Ctx) error {
	principal := auth.MustPrincipal(c)
	requests, err := h.requests.ListEquipment(c.UserContext(), principal.User, c.Query("search"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewEquipmentRequestResponses(requests))
}

// GetEquipment handles GET /api/requests/equipment/:id.
func (h *RequestsHandler) GetEquipment(c *fiber.Ctx) error {
	principal := auth.MustPrincipal(c)
	req, err := h.requests.GetEquipment(c.UserContext(), principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewEquipmentRequestResponse(req))
}

// ApproveEquipment handles PUT /api/requests/equipment/:id/approve.
func (h *RequestsHandler) ApproveEquipment(c *fiber.Ctx) error {
	req, err := h.requests.ApproveEquipment(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Request %s approved. Notification sent.", req.ID),
		"request": dto.NewEquipmentRequestResponse(req),
	})
}

// DenyEquipment handles PUT /api/requests/equipment/:id/deny.
func (h *RequestsHandler) DenyEquipment(c *fiber.Ctx) error {
	req, err := h.requests.DenyEquipment(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Request %s denied. Notification sent.", req.ID),
		"request": dto.NewEquipmentRequestResponse(req),
	})
}

// CloseEquipment handles PUT /api/requests/equipment/:id/close.
func (h *RequestsHandler) CloseEquipment(c *fiber.Ctx) error {
	req, err := h.requests.CloseEquipment(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Request %s has been closed.", req.ID),
		"request": dto.NewEquipmentRequestResponse(req),
	})
}

// CreateUser handles POST /api/requests/users.
func (h *RequestsHandler) CreateUser(c *fiber.Ctx) error {
	var req dto.CreateUserRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Missing required fields.", nil)
	}
	if req.FirstName == "" || req.LastName == "" || req.JobTitle == "" ||
		req.Department == "" || req.StartDate == "" || req.Description == "" {
		return apperrors.NewValidationError("Missing required fields.", nil)
	}

	principal := auth.MustPrincipal(c)
	created, err := h.requests.CreateUser(c.UserContext(), principal.User, service.CreateUserRequestInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		JobTitle:    req.JobTitle,
		Department:  req.Department,
		StartDate:   req.StartDate,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewUserRequestResponse(created))
}

// ListUser handles GET /api/requests/users.
func (h *RequestsHandler) ListUser(c *fiber.Ctx) error {
	principal := auth.MustPrincipal(c)
	requests, err := h.requests.ListUser(c.UserContext(), principal.User, c.Query("search"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserRequestResponses(requests))
}

// GetUser handles GET /api/requests/users/:id.
func (h *RequestsHandler) GetUser(c *fiber.Ctx) error {
	principal := auth.MustPrincipal(c)
	req, err := h.requests.GetUser(c.UserContext(), principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserRequestResponse(req))
}

// CloseUser handles PUT /api/requests/users/:id/close.
func (h *RequestsHandler) CloseUser(c *fiber.Ctx) error {
	req, err := h.requests.CloseUser(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Request %s has been closed.", req.ID),
		"request": dto.NewUserRequestResponse(req),
	})
}

// CreateStudent handles POST /api/requests/students.
func (h *RequestsHandler) CreateStudent(c *fiber.Ctx) error {
	var req dto.CreateStudentRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Missing required fields.", nil)
	}
	if req.FirstName == "" || req.LastName == "" || req.Grade == "" ||
		req.Teacher == "" || req.Description == "" {
		return apperrors.NewValidationError("Missing required fields.", nil)
	}

	principal := auth.MustPrincipal(c)
	created, err := h.requests.CreateStudent(c.UserContext(), principal.User, service.CreateStudentRequestInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Grade:       req.Grade,
		Teacher:     req.Teacher,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewStudentRequestResponse(created))
}

// ListStudent handles GET /api/requests/students.
func (h *RequestsHandler) ListStudent(c *fiber.Ctx) error {
	principal := auth.MustPrincipal(c)
	requests, err := h.requests.ListStudent(c.UserContext(), principal.User, c.Query("search"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewStudentRequestResponses(requests))
}

// GetStudent handles GET /api/requests/students/:id.
func (h *RequestsHandler) GetStudent(c *fiber.Ctx) error {
	principal := auth.MustPrincipal(c)
	req, err := h.requests.GetStudent(c.UserContext(), principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewStudentRequestResponse(req))
}

// CloseStudent handles PUT /api/requests/students/:id/close.
func (h *RequestsHandler) CloseStudent(c *fiber.Ctx) error {
	req, err := h.requests.CloseStudent(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Request %s has been closed.", req.ID),
		"request": dto.NewStudentRequestResponse(req),
	})
}

// ToggleStudentFlag handles PUT /api/requests/students/:id/toggle/:field.
func (h *RequestsHandler) ToggleStudentFlag(c *fiber.Ctx) error {
	field := c.Params("field")
	req, err := h.requests.ToggleStudentFlag(c.UserContext(), c.Params("id"), field)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("%s toggled for request %s.", field, req.ID),
		"request": dto.NewStudentRequestResponse(req),
	})
}
