package disperse

import "github.com/google/uuid"

// State is the transfer sequencer's position in the two-phase flow.
type State string

const (
	StateIdle       State = "idle"
	StateApproving  State = "approving"
	StateApproved   State = "approved"
	StateDisbursing State = "disbursing"
	StateCompleted  State = "completed"
)

// Session is the transient transfer state. It is reset whenever the selected
// asset, the recipient set or the total changes: approvals are asset-and-
// amount specific and must never be trusted across such a change.
type Session struct {
	ID           string `json:"id"`
	State        State  `json:"state"`
	Approved     bool   `json:"approved"`
	InFlight     bool   `json:"in_flight"`
	TxHash       string `json:"tx_hash,omitempty"`
	Status       string `json:"status,omitempty"`
	ShowFeedback bool   `json:"show_feedback"`
}

func newSession() Session {
	return Session{
		ID:    uuid.NewString(),
		State: StateIdle,
	}
}

// invalidate drops everything approval- and transaction-related while
// keeping the session identity.
func (s *Session) invalidate() {
	s.State = StateIdle
	s.Approved = false
	s.TxHash = ""
	s.Status = ""
	s.ShowFeedback = false
}
