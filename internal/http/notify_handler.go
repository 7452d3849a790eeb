package http

import (
	"log"
	"net/http"

	"github.com/ludmilpaulo/ClinicSystemMobile/internal/payment"
)

// NotifyHandler receives the payment provider's asynchronous callback
// and routes it to the checkout attempt identified by the merchant
// payment reference. Signals with no waiting checkout are acknowledged
// and dropped.
type NotifyHandler struct {
	notifier *payment.Notifier
}

func NewNotifyHandler(notifier *payment.Notifier) *NotifyHandler {
	return &NotifyHandler{notifier: notifier}
}

// POST /payment/notify (form-encoded, provider contract)
func (h *NotifyHandler) Notify(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid form body")
		return
	}

	paymentID := r.PostFormValue("m_payment_id")
	if paymentID == "" {
		respondError(w, http.StatusBadRequest, "invalid_request", "missing m_payment_id")
		return
	}

	var outcome payment.Outcome
	switch r.PostFormValue("payment_status") {
	case "COMPLETE", "completed":
		outcome = payment.OutcomeCompleted
	case "CANCELLED", "cancelled", "canceled":
		outcome = payment.OutcomeCanceled
	default:
		respondError(w, http.StatusBadRequest, "invalid_status", "unknown payment_status")
		return
	}

	if !h.notifier.Publish(paymentID, outcome) {
		log.Printf("payment notification dropped, no checkout waiting (payment %s, status %s)", paymentID, outcome)
	}
	w.WriteHeader(http.StatusOK)
}
