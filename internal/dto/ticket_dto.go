package dto

import (
	"time"

	"github.com/google/uuid"
)

type TicketResponse struct {
	Id          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Department  string    `json:"department"`
	Description string    `json:"description"`
	Urgency     string    `json:"urgency,omitempty"`
	Category    string    `json:"category,omitempty"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"created_at"`
}
