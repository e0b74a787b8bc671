package handlers

import (
	"fmt"
	"mime/multipart"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// TicketsHandler exposes the ticket lifecycle endpoints.
type TicketsHandler struct {
	tickets *service.TicketService
	loc     *time.Location
}

// NewTicketsHandler constructs the handler.
func NewTicketsHandler(tickets *service.TicketService, loc *time.Location) *TicketsHandler {
	return &TicketsHandler{tickets: tickets, loc: loc}
}

// formFile extracts an optional uploaded file from a multipart body.
func formFile(c *fiber.Ctx, name string) *multipart.FileHeader {
	file, err := c.FormFile(name)
	if err != nil {
		return nil
	}
	return file
}

// Create handles POST /api/tickets/. The payload may be JSON or, when
// a file accompanies it, multipart form fields.
func (h *TicketsHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Missing required ticket fields.", nil)
	}

	principal := auth.MustPrincipal(c)
	ticket, err := h.tickets.Create(c.UserContext(), principal.User, service.CreateTicketInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Department:  domain.Department(req.Department),
		Shimmer:     req.Shimmer,
		File:        formFile(c, "file"),
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewTicketResponse(ticket, h.loc))
}

// List handles GET /api/tickets/.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	principal := auth.MustPrincipal(c)
	tickets, err := h.tickets.List(c.UserContext(), principal.User, service.ListTicketsInput{
		Search:         c.Query("search"),
		Department:     c.Query("department"),
		IncludeShimmer: !strings.EqualFold(c.Query("include_shimmer", "true"), "false"),
		Status:         c.Query("status"),
		SortAscending:  c.Query("sort_by") == "date_asc",
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketResponses(tickets, h.loc))
}

// Get handles GET /api/tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	principal := auth.MustPrincipal(c)
	view, err := h.tickets.Get(c.UserContext(), principal.User, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketDetailResponse(view, h.loc))
}

// AddComment handles POST /api/tickets/:id/comments.
func (h *TicketsHandler) AddComment(c *fiber.Ctx) error {
	text := c.FormValue("comment_text")
	if text == "" {
		return apperrors.NewValidationError("Comment text is required.", nil)
	}

	principal := auth.MustPrincipal(c)
	view, err := h.tickets.AddComment(c.UserContext(), principal.User, c.Params("id"), text, formFile(c, "file"))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewCommentResponse(&view.Comment, view.Attachments))
}

// CommentCount handles GET /api/tickets/:id/comments/count.
func (h *TicketsHandler) CommentCount(c *fiber.Ctx) error {
	ticketID := c.Params("id")
	count, err := h.tickets.CommentCount(c.UserContext(), ticketID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"ticket_id": ticketID, "total_comments": count})
}

// Close handles PUT /api/tickets/:id/close.
func (h *TicketsHandler) Close(c *fiber.Ctx) error {
	ticket, err := h.tickets.Close(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Ticket %s closed successfully.", ticket.ID),
		"ticket":  dto.NewTicketResponse(ticket, h.loc),
	})
}

// Delete handles DELETE /api/tickets/:id.
func (h *TicketsHandler) Delete(c *fiber.Ctx) error {
	ticketID := c.Params("id")
	if err := h.tickets.Delete(c.UserContext(), ticketID); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{
		Message: fmt.Sprintf("Ticket %s and its comments/attachments deleted successfully.", ticketID),
	})
}

// Assign handles PUT /api/tickets/:id/assign.
func (h *TicketsHandler) Assign(c *fiber.Ctx) error {
	var req dto.AssignTicketRequest
	if err := c.BodyParser(&req); err != nil || req.AssigneeEmail == "" {
		return apperrors.NewValidationError("Assignee email is required.", nil)
	}

	ticket, err := h.tickets.Assign(c.UserContext(), c.Params("id"), req.AssigneeEmail)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Ticket %s assigned to %s.", ticket.ID, req.AssigneeEmail),
		"ticket":  dto.NewTicketResponse(ticket, h.loc),
	})
}

// DownloadAttachment handles GET /api/tickets/attachments/:id. Missing
// metadata is 404; a row whose file is gone from disk is a server
// error.
func (h *TicketsHandler) DownloadAttachment(c *fiber.Ctx) error {
	attachmentID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return apperrors.NewNotFound("Attachment", nil)
	}

	principal := auth.MustPrincipal(c)
	attachment, err := h.tickets.ResolveAttachment(c.UserContext(), principal.User, attachmentID)
	if err != nil {
		return err
	}

	if info, statErr := os.Stat(attachment.Filepath); statErr != nil || info.IsDir() {
		return apperrors.NewDomainError("FILE_MISSING", "Attachment file not found on server.", fiber.StatusInternalServerError, nil)
	}
	return c.Download(attachment.Filepath, attachment.Filename)
}
