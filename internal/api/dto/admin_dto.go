package dto

import (
	"time"

	"github.com/spec-kit/support-router/internal/domain"
)

// OperatorLoginRequest payload.
type OperatorLoginRequest struct {
	Password string `json:"password"`
}

// AuthResponse carries the issued bearer token.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TicketSummary response.
type TicketSummary struct {
	ID         int64               `json:"id"`
	UserID     int64               `json:"user_id"`
	Text       string              `json:"text"`
	Department domain.Department   `json:"department"`
	Status     domain.TicketStatus `json:"status"`
	CreatedAt  time.Time           `json:"created_at"`
}

// TicketSummaryFrom maps the aggregate to the response shape.
func TicketSummaryFrom(t domain.Ticket) TicketSummary {
	return TicketSummary{
		ID:         t.ID,
		UserID:     t.UserID,
		Text:       t.Text,
		Department: t.Department,
		Status:     t.Status,
		CreatedAt:  t.CreatedAt,
	}
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status domain.TicketStatus `json:"status"`
}

// ClassifyRequest payload for the classifier preview.
type ClassifyRequest struct {
	Text string `json:"text"`
}

// ClassifyResponse reports the detected department, null when no keyword
// matched.
type ClassifyResponse struct {
	Department *domain.Department `json:"department"`
}
