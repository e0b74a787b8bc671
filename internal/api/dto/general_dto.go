package dto

// ReportBugRequest is the bug report payload. Location is free-form
// context, not necessarily a physical place.
type ReportBugRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
}

// GenerateRequest is the AI question payload.
type GenerateRequest struct {
	Question string `json:"question"`
}

// GenerateResponse carries the AI answer.
type GenerateResponse struct {
	Response string `json:"response"`
}

// MessageResponse is the generic message envelope.
type MessageResponse struct {
	Message string `json:"message"`
}
