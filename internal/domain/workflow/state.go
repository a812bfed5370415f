// Package workflow models the invoice lifecycle as a state machine.
package workflow

import "github.com/likelee/agency-dashboard/internal/domain/entity"

// State is an invoice status
type State string

const (
	StateDraft     State = entity.InvoiceStatusDraft
	StateSent      State = entity.InvoiceStatusSent
	StatePartial   State = entity.InvoiceStatusPartial
	StateOverdue   State = entity.InvoiceStatusOverdue
	StatePaid      State = entity.InvoiceStatusPaid
	StateCancelled State = entity.InvoiceStatusCancelled
)

var terminalStates = map[State]bool{
	StatePaid: true,
}

// IsTerminal returns true if no further transitions are allowed
func (s State) IsTerminal() bool {
	return terminalStates[s]
}

func (s State) String() string {
	return string(s)
}

// IsValid returns true if s is a known invoice status
func (s State) IsValid() bool {
	return entity.IsValidInvoiceStatus(string(s))
}
