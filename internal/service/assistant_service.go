package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/config"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// AssistantService answers free-form questions through the Gemini
// generateContent API. Failures are surfaced to the caller as
// message-only errors since the AI response is the payload.
type AssistantService struct {
	cfg    config.AssistantConfig
	client *http.Client
	logger *zap.Logger
}

func NewAssistantService(cfg config.AssistantConfig, logger *zap.Logger) *AssistantService {
	return &AssistantService{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
		logger: logger,
	}
}

type generateContentRequest struct {
	Contents []generateContent `json:"contents"`
}

type generateContent struct {
	Parts []generatePart `json:"parts"`
}

type generatePart struct {
	Text string `json:"text"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []generatePart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// aiError builds a 500 whose message is meant for the caller, unlike
// the generic internal error.
func aiError(message string) error {
	return apperrors.NewDomainError("AI_SERVICE_ERROR", message, http.StatusInternalServerError, nil)
}

// Generate asks the model the given question and returns its text
// response.
func (s *AssistantService) Generate(ctx context.Context, question string) (string, error) {
	if question == "" {
		return "", apperrors.NewValidationError("Question is required.", nil)
	}
	if s.cfg.APIKey == "" {
		return "", aiError("Gemini API not configured. Please check the API key.")
	}

	payload, err := json.Marshal(generateContentRequest{
		Contents: []generateContent{{Parts: []generatePart{{Text: question}}}},
	})
	if err != nil {
		return "", apperrors.NewInternalError(err)
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s",
		strings.TrimRight(s.cfg.Endpoint, "/"), s.cfg.Model, s.cfg.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", apperrors.NewInternalError(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Error("gemini request failed", zap.Error(err))
		return "", aiError(fmt.Sprintf("An error occurred while communicating with the AI service: %v", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", apperrors.NewInternalError(err)
	}
	if resp.StatusCode != http.StatusOK {
		s.logger.Error("gemini returned non-OK status",
			zap.Int("status", resp.StatusCode), zap.ByteString("body", body))
		return "", aiError(fmt.Sprintf("An error occurred while communicating with the AI service: status %d", resp.StatusCode))
	}

	var parsed generateContentResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", apperrors.NewInternalError(err)
	}
	if len(parsed.Candidates) == 0 {
		return "", aiError("The AI could not generate a response for this question due to content restrictions or other issues.")
	}

	var b strings.Builder
	for _, part := range parsed.Candidates[0].Content.Parts {
		b.WriteString(part.Text)
	}
	if b.Len() == 0 {
		return "", aiError("The AI returned an empty response.")
	}
	return b.String(), nil
}
