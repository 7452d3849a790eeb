package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifier_DeliversOnce(t *testing.T) {
	n := NewNotifier()
	sub := n.Subscribe("pay-1")

	require.True(t, n.Publish("pay-1", OutcomeCompleted))
	assert.Equal(t, OutcomeCompleted, <-sub)

	// second signal is dropped, subscription already consumed
	assert.False(t, n.Publish("pay-1", OutcomeCanceled))
}

func TestNotifier_DropsWithoutSubscriber(t *testing.T) {
	n := NewNotifier()
	assert.False(t, n.Publish("pay-1", OutcomeCompleted))
}

func TestNotifier_UnsubscribeDropsLateSignals(t *testing.T) {
	n := NewNotifier()
	n.Subscribe("pay-1")
	n.Unsubscribe("pay-1")

	assert.False(t, n.Publish("pay-1", OutcomeCanceled))
}

func TestNotifier_ResubscribeReplacesOld(t *testing.T) {
	n := NewNotifier()
	old := n.Subscribe("pay-1")
	fresh := n.Subscribe("pay-1")

	require.True(t, n.Publish("pay-1", OutcomeCompleted))

	select {
	case <-old:
		t.Fatal("stale subscription received the outcome")
	default:
	}
	assert.Equal(t, OutcomeCompleted, <-fresh)
}

// Outcomes are routed by payment reference: one payment completing must
// never reach another payment's subscription.
func TestNotifier_RoutesByPaymentID(t *testing.T) {
	n := NewNotifier()
	subA := n.Subscribe("pay-a")
	subB := n.Subscribe("pay-b")

	require.True(t, n.Publish("pay-a", OutcomeCompleted))

	select {
	case <-subB:
		t.Fatal("outcome for pay-a was delivered to pay-b")
	default:
	}
	assert.Equal(t, OutcomeCompleted, <-subA)

	// pay-b is still live and receives its own outcome
	require.True(t, n.Publish("pay-b", OutcomeCanceled))
	assert.Equal(t, OutcomeCanceled, <-subB)
}

func TestNotifier_UnsubscribeLeavesOthersAlone(t *testing.T) {
	n := NewNotifier()
	n.Subscribe("pay-a")
	subB := n.Subscribe("pay-b")

	n.Unsubscribe("pay-a")

	require.True(t, n.Publish("pay-b", OutcomeCompleted))
	assert.Equal(t, OutcomeCompleted, <-subB)
}
