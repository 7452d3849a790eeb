package payment

import "sync"

// Outcome is the provider's asynchronous verdict on a payment attempt.
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeCanceled  Outcome = "canceled"
)

// Notifier routes provider callbacks (webhook or in-process bridge) to
// the checkout attempt that created the payment, keyed by the merchant
// payment reference. Each subscription receives at most one outcome;
// an outcome whose reference has no active subscription is dropped,
// which is how late responses after the user has moved on are ignored.
type Notifier struct {
	mu   sync.Mutex
	subs map[string]chan Outcome
}

func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[string]chan Outcome)}
}

// Subscribe opens a fresh single-shot subscription for the payment
// reference, replacing any previous one under the same reference.
func (n *Notifier) Subscribe(paymentID string) <-chan Outcome {
	n.mu.Lock()
	defer n.mu.Unlock()
	ch := make(chan Outcome, 1)
	n.subs[paymentID] = ch
	return ch
}

// Unsubscribe drops the payment's subscription. Safe to call repeatedly.
func (n *Notifier) Unsubscribe(paymentID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.subs, paymentID)
}

// Publish delivers the outcome to the attempt waiting on the payment
// reference. Returns false when the signal was dropped (no subscriber
// under that reference, or one already delivered).
func (n *Notifier) Publish(paymentID string, o Outcome) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	ch, ok := n.subs[paymentID]
	if !ok {
		return false
	}
	ch <- o
	delete(n.subs, paymentID)
	return true
}
