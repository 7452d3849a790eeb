package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ludmilpaulo/ClinicSystemMobile/internal/payment"
)

func postNotify(handler *NotifyHandler, body string) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("POST", "/payment/notify", strings.NewReader(body))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	handler.Notify(recorder, request)
	return recorder
}

func TestNotify_CompletedReachesSubscriber(t *testing.T) {
	notifier := payment.NewNotifier()
	sub := notifier.Subscribe("pay-1")
	handler := NewNotifyHandler(notifier)

	recorder := postNotify(handler, "m_payment_id=pay-1&payment_status=COMPLETE")

	if recorder.Code != http.StatusOK {
		t.Errorf("Expected status code %d, got %d", http.StatusOK, recorder.Code)
	}

	select {
	case outcome := <-sub:
		if outcome != payment.OutcomeCompleted {
			t.Errorf("Expected outcome completed, got %s", outcome)
		}
	default:
		t.Error("Expected outcome on subscription, got none")
	}
}

func TestNotify_Cancelled(t *testing.T) {
	notifier := payment.NewNotifier()
	sub := notifier.Subscribe("pay-1")
	handler := NewNotifyHandler(notifier)

	postNotify(handler, "m_payment_id=pay-1&payment_status=CANCELLED")

	select {
	case outcome := <-sub:
		if outcome != payment.OutcomeCanceled {
			t.Errorf("Expected outcome canceled, got %s", outcome)
		}
	default:
		t.Error("Expected outcome on subscription, got none")
	}
}

// A callback for one payment must not reach another payment's waiter.
func TestNotify_OtherPaymentUntouched(t *testing.T) {
	notifier := payment.NewNotifier()
	other := notifier.Subscribe("pay-2")
	handler := NewNotifyHandler(notifier)

	recorder := postNotify(handler, "m_payment_id=pay-1&payment_status=COMPLETE")

	if recorder.Code != http.StatusOK {
		t.Errorf("Expected status code %d, got %d", http.StatusOK, recorder.Code)
	}
	select {
	case <-other:
		t.Error("callback for pay-1 was delivered to pay-2")
	default:
	}
}

func TestNotify_MissingPaymentID(t *testing.T) {
	handler := NewNotifyHandler(payment.NewNotifier())

	recorder := postNotify(handler, "payment_status=COMPLETE")

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("Expected status code %d, got %d", http.StatusBadRequest, recorder.Code)
	}
}

func TestNotify_UnknownStatus(t *testing.T) {
	handler := NewNotifyHandler(payment.NewNotifier())

	recorder := postNotify(handler, "m_payment_id=pay-1&payment_status=MAYBE")

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("Expected status code %d, got %d", http.StatusBadRequest, recorder.Code)
	}
}

// A late callback with nobody waiting is acknowledged and dropped.
func TestNotify_NoSubscriberStillOK(t *testing.T) {
	handler := NewNotifyHandler(payment.NewNotifier())

	recorder := postNotify(handler, "m_payment_id=pay-1&payment_status=COMPLETE")

	if recorder.Code != http.StatusOK {
		t.Errorf("Expected status code %d, got %d", http.StatusOK, recorder.Code)
	}
}
