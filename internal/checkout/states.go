package checkout

// State is the position of one checkout attempt in its lifecycle.
type State string

const (
	StateIdle            State = "IDLE"
	StateBillingEntry    State = "BILLING_ENTRY"
	StateSubmittingOrder State = "SUBMITTING_ORDER"
	StateAwaitingPayment State = "AWAITING_PAYMENT"
	StateCompleted       State = "COMPLETED"
	StateCanceled        State = "CANCELED"
	StateFailed          State = "FAILED"
)

// transitions lists the legal moves. Failed returns control to
// BillingEntry so the user can retry without losing the basket.
var transitions = map[State][]State{
	StateIdle:            {StateBillingEntry},
	StateBillingEntry:    {StateSubmittingOrder},
	StateSubmittingOrder: {StateAwaitingPayment, StateFailed},
	StateAwaitingPayment: {StateCompleted, StateCanceled, StateBillingEntry},
	StateFailed:          {StateBillingEntry},
}

// CanTransition reports whether moving from one state to another is legal.
func CanTransition(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func (s State) IsTerminal() bool {
	return s == StateCompleted || s == StateCanceled
}

// String representation (for logging)
func (s State) String() string {
	return string(s)
}
