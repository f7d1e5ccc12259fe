// Package store holds the in-memory conversation state shared between the
// dialogue service and its TTL-backed repository.
package store

// Slot names the piece of information the bot is waiting for.
const (
	SlotNone        = "NONE"
	SlotDepartment  = "DEPARTMENT"
	SlotDescription = "DESCRIPTION"
)

// TicketDraft is a support ticket under construction. Department and
// Description are filled over one or more turns; the draft is only persisted
// once both are present.
type TicketDraft struct {
	Department  string `json:"department"` // canonical name, empty until matched
	Description string `json:"description"`
	Urgency     string `json:"urgency"`
	Category    string `json:"category"`
}

// ConversationState is the per-user dialogue state. One instance per active
// user, created lazily on the first turn and evicted by the repository's TTL.
type ConversationState struct {
	UserID         string       `json:"user_id"`
	AwaitingSlot   string       `json:"awaiting_slot"`
	PendingTicket  *TicketDraft `json:"pending_ticket"`
	LastDepartment string       `json:"last_department"`
	PreferredModel string       `json:"preferred_model"`
}

// NewConversationState returns an idle state for a user.
func NewConversationState(userID string) *ConversationState {
	return &ConversationState{
		UserID:       userID,
		AwaitingSlot: SlotNone,
	}
}

// ResetPending clears any pending multi-turn action.
func (s *ConversationState) ResetPending() {
	s.PendingTicket = nil
	s.AwaitingSlot = SlotNone
}
