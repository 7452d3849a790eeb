package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/ludmilpaulo/ClinicSystemMobile/internal/basket"
	"github.com/ludmilpaulo/ClinicSystemMobile/internal/checkout"
	"github.com/ludmilpaulo/ClinicSystemMobile/internal/domain"
	"github.com/ludmilpaulo/ClinicSystemMobile/internal/payment"
)

type CheckoutHandler struct {
	baskets     *basket.Manager
	orders      checkout.OrderClient
	payments    checkout.PaymentClient
	notifier    *payment.Notifier
	merchant    payment.MerchantConfig
	timeout     time.Duration
	waitTimeout time.Duration
}

func NewCheckoutHandler(baskets *basket.Manager, orders checkout.OrderClient, payments checkout.PaymentClient, notifier *payment.Notifier, merchant payment.MerchantConfig, timeout, waitTimeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{
		baskets:     baskets,
		orders:      orders,
		payments:    payments,
		notifier:    notifier,
		merchant:    merchant,
		timeout:     timeout,
		waitTimeout: waitTimeout,
	}
}

type CheckoutRequestDTO struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type CheckoutResponseDTO struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
}

// POST /api/v1/checkout
//
// Runs one checkout attempt up to AwaitingPayment and responds with the
// provider session id; the outcome arrives later through the notify
// webhook, which a background wait turns into the terminal state.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	if userID == 0 {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	store := h.baskets.Store(r.Context(), fmt.Sprint(userID))
	orch := checkout.NewOrchestrator(store, h.orders, h.payments, h.notifier, h.merchant, &userID, h.waitTimeout)

	if err := orch.Begin(); err != nil {
		handleDomainError(w, err)
		return
	}

	billing := domain.BillingDetails{
		Name:       req.Name,
		Email:      req.Email,
		Address:    req.Address,
		City:       req.City,
		PostalCode: req.PostalCode,
		Country:    req.Country,
	}

	sessionID, err := orch.SubmitBilling(ctx, billing)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	requestID := getRequestID(r.Context())
	go func() {
		state, err := orch.AwaitPayment(context.Background())
		if err != nil {
			log.Printf("checkout wait ended with error (request %s): %v", requestID, err)
			return
		}
		log.Printf("checkout finished in state %s (request %s)", state, requestID)
	}()

	respondJSON(w, http.StatusAccepted, CheckoutResponseDTO{
		SessionID: sessionID,
		Status:    orch.State().String(),
	})
}
