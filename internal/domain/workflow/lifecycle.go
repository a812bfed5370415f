package workflow

import (
	"context"

	"github.com/likelee/agency-dashboard/internal/domain/entity"
)

// open states can still be sent, paid, cancelled or reopened
var openStates = []State{StateSent, StatePartial, StateOverdue}

// InvoiceLifecycle returns a machine positioned at the invoice's current
// status. Paid is final. Returning to draft requires that nothing has been
// paid yet.
func InvoiceLifecycle(inv *entity.Invoice) (StateMachine, error) {
	unpaid := func(context.Context) bool { return inv.PaidCents == 0 }

	b := NewBuilder().
		Permit(StateDraft, TriggerSend, StateSent).
		Permit(StateDraft, TriggerCancel, StateCancelled).
		Permit(StateDraft, TriggerReturnDraft, StateDraft).
		Permit(StateCancelled, TriggerCancel, StateCancelled).
		PermitIf(StateCancelled, TriggerReturnDraft, StateDraft, unpaid)

	for _, s := range openStates {
		b.Permit(s, TriggerSend, s).
			Permit(s, TriggerPayPartial, StatePartial).
			Permit(s, TriggerPayInFull, StatePaid).
			Permit(s, TriggerCancel, StateCancelled).
			PermitIf(s, TriggerReturnDraft, StateDraft, unpaid)
	}

	return b.Build(State(inv.Status))
}
