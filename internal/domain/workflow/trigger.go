package workflow

// Trigger is an action taken on an invoice
type Trigger string

const (
	TriggerSend        Trigger = "send"
	TriggerPayPartial  Trigger = "pay_partial"
	TriggerPayInFull   Trigger = "pay_in_full"
	TriggerCancel      Trigger = "cancel"
	TriggerReturnDraft Trigger = "return_to_draft"
)

func (t Trigger) String() string {
	return string(t)
}
