package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// AssistantHandler exposes the AI question endpoint.
type AssistantHandler struct {
	assistant *service.AssistantService
}

// NewAssistantHandler constructs the handler.
func NewAssistantHandler(assistant *service.AssistantService) *AssistantHandler {
	return &AssistantHandler{assistant: assistant}
}

// Generate handles POST /api/gemini/generate.
func (h *AssistantHandler) Generate(c *fiber.Ctx) error {
	var req dto.GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Invalid JSON payload or missing Content-Type: application/json header.", nil)
	}
	if req.Question == "" {
		return apperrors.NewValidationError("Question is required.", nil)
	}

	answer, err := h.assistant.Generate(c.UserContext(), req.Question)
	if err != nil {
		return err
	}
	return c.JSON(dto.GenerateResponse{Response: answer})
}
