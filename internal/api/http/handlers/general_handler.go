package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/mail"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// GeneralHandler covers endpoints outside the entity families.
type GeneralHandler struct {
	sender mail.Sender
}

// NewGeneralHandler constructs the handler.
func NewGeneralHandler(sender mail.Sender) *GeneralHandler {
	return &GeneralHandler{sender: sender}
}

// ReportBug handles POST /api/report_bug by mailing the feedback
// address.
func (h *GeneralHandler) ReportBug(c *fiber.Ctx) error {
	var req dto.ReportBugRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Title and description are required.", nil)
	}
	if req.Title == "" || req.Description == "" {
		return apperrors.NewValidationError("Title and description are required.", nil)
	}

	location := req.Location
	if location == "" {
		location = "N/A"
	}
	principal := auth.MustPrincipal(c)
	body := fmt.Sprintf(
		"A bug has been reported.\nTitle: %s\nDescription: %s\nLocation: %s\nUser: %s\n\nThis is an automated message. Do not reply to this email.",
		req.Title, req.Description, location, principal.User.Email)

	h.sender.SendReport("Bug Report / Feedback", body)
	return c.JSON(dto.MessageResponse{Message: "Report sent successfully!"})
}
