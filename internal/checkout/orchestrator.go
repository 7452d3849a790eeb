package checkout

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/ludmilpaulo/ClinicSystemMobile/internal/domain"
	"github.com/ludmilpaulo/ClinicSystemMobile/internal/payment"
)

var ErrIllegalTransition = errors.New("illegal transition of checkout state")

// OrderClient submits the order draft and later status changes.
// Consumers define this interface, not the HTTP client.
type OrderClient interface {
	Submit(ctx context.Context, draft domain.OrderDraft, status domain.OrderStatus) error
	UpdateStatus(ctx context.Context, draft domain.OrderDraft, status domain.OrderStatus) error
}

// PaymentClient creates provider payment sessions.
type PaymentClient interface {
	CreateSession(ctx context.Context, fields []payment.Field) (string, error)
}

// Basket is the slice of the basket store the orchestrator needs: it
// only ever reads snapshots and clears on completion, never mutates
// lines directly.
type Basket interface {
	Snapshot() domain.Basket
	Clear()
}

// Orchestrator drives one checkout attempt through its states:
// Idle -> BillingEntry -> SubmittingOrder -> AwaitingPayment ->
// Completed | Canceled | Failed. Network failures during submission
// surface the error and hand control back to BillingEntry with the
// basket untouched.
type Orchestrator struct {
	mu       sync.Mutex
	state    State
	basket   Basket
	orders   OrderClient
	payments PaymentClient
	notifier *payment.Notifier
	merchant payment.MerchantConfig
	userID   *int64

	// waitTimeout bounds AwaitPayment; a silent provider leaves the
	// order pending and returns the user to the billing form.
	waitTimeout time.Duration

	draft     *domain.OrderDraft
	sessionID string
	paymentID string
	sub       <-chan payment.Outcome
}

func NewOrchestrator(b Basket, orders OrderClient, payments PaymentClient, notifier *payment.Notifier, merchant payment.MerchantConfig, userID *int64, waitTimeout time.Duration) *Orchestrator {
	return &Orchestrator{
		state:       StateIdle,
		basket:      b,
		orders:      orders,
		payments:    payments,
		notifier:    notifier,
		merchant:    merchant,
		userID:      userID,
		waitTimeout: waitTimeout,
	}
}

// State returns the current checkout state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// SessionID is the provider payment session for the current attempt,
// empty before AwaitingPayment.
func (o *Orchestrator) SessionID() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.sessionID
}

// PaymentID is the merchant payment reference for the current attempt,
// empty before an order has been submitted.
func (o *Orchestrator) PaymentID() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.paymentID
}

// Begin starts the checkout. The basket must be non-empty.
func (o *Orchestrator) Begin() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !CanTransition(o.state, StateBillingEntry) {
		return ErrIllegalTransition
	}
	if o.basket.Snapshot().IsEmpty() {
		return domain.ErrEmptyBasket
	}
	o.state = StateBillingEntry
	return nil
}

// SubmitBilling validates the billing form, submits the pending order
// and opens the payment session. On success the orchestrator is in
// AwaitingPayment and the returned id launches the provider flow.
func (o *Orchestrator) SubmitBilling(ctx context.Context, billing domain.BillingDetails) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if !CanTransition(o.state, StateSubmittingOrder) {
		return "", ErrIllegalTransition
	}
	if err := validateBilling(billing); err != nil {
		return "", err
	}

	snapshot := o.basket.Snapshot()
	if snapshot.IsEmpty() {
		return "", domain.ErrEmptyBasket
	}

	draft := domain.DraftFromBasket(snapshot, billing, o.userID)
	o.state = StateSubmittingOrder

	if err := o.orders.Submit(ctx, draft, domain.OrderStatusPending); err != nil {
		o.fail(err)
		return "", err
	}

	o.paymentID = payment.NewPaymentID()
	fields := payment.CheckoutFields(o.merchant, billing, draft.TotalPrice, o.paymentID)

	sessionID, err := o.payments.CreateSession(ctx, fields)
	if err != nil {
		o.fail(err)
		return "", err
	}

	o.draft = &draft
	o.sessionID = sessionID
	// Subscribe before handing the session id to the caller, so a
	// provider callback racing the caller's AwaitPayment is buffered
	// rather than dropped.
	o.sub = o.notifier.Subscribe(o.paymentID)
	o.state = StateAwaitingPayment
	return sessionID, nil
}

// AwaitPayment blocks until the provider reports an outcome, the
// context is done, or the wait times out. Completed clears the basket
// and marks the order completed; canceled marks the order canceled and
// leaves the basket intact so the user can retry; a timeout abandons
// the attempt in place, keeping the order pending.
func (o *Orchestrator) AwaitPayment(ctx context.Context) (State, error) {
	o.mu.Lock()
	if o.state != StateAwaitingPayment || o.sub == nil {
		o.mu.Unlock()
		return o.state, ErrIllegalTransition
	}
	sub := o.sub
	draft := *o.draft
	o.mu.Unlock()

	timer := time.NewTimer(o.waitTimeout)
	defer timer.Stop()

	select {
	case outcome := <-sub:
		return o.finalize(ctx, draft, outcome)
	case <-timer.C:
		return o.abandon(), nil
	case <-ctx.Done():
		return o.abandon(), ctx.Err()
	}
}

func (o *Orchestrator) finalize(ctx context.Context, draft domain.OrderDraft, outcome payment.Outcome) (State, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch outcome {
	case payment.OutcomeCompleted:
		if err := o.orders.UpdateStatus(ctx, draft, domain.OrderStatusCompleted); err != nil {
			// The payment went through; the status update is the only
			// casualty. Log and complete anyway.
			log.Printf("order completion update failed: %v", err)
		}
		o.basket.Clear()
		o.state = StateCompleted
	case payment.OutcomeCanceled:
		if err := o.orders.UpdateStatus(ctx, draft, domain.OrderStatusCanceled); err != nil {
			log.Printf("order cancellation update failed: %v", err)
		}
		o.state = StateCanceled
	}
	o.notifier.Unsubscribe(o.paymentID)
	o.sub = nil
	return o.state, nil
}

// abandon returns control to the billing form after a silent provider.
func (o *Orchestrator) abandon() State {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.notifier.Unsubscribe(o.paymentID)
	o.sub = nil
	if o.state == StateAwaitingPayment {
		o.state = StateBillingEntry
		o.sessionID = ""
	}
	return o.state
}

// fail marks the attempt failed. Failed is not terminal: Begin moves
// it back to BillingEntry for a retry, basket untouched. Caller holds
// the lock.
func (o *Orchestrator) fail(err error) {
	log.Printf("checkout failed during submission: %v", err)
	o.state = StateFailed
}

func validateBilling(b domain.BillingDetails) error {
	required := []struct {
		field string
		value string
	}{
		{"name", b.Name},
		{"email", b.Email},
		{"address", b.Address},
		{"city", b.City},
		{"postal_code", b.PostalCode},
		{"country", b.Country},
	}
	for _, r := range required {
		if r.value == "" {
			return &domain.ValidationError{Field: r.field}
		}
	}
	return nil
}
