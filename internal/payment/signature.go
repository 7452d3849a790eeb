package payment

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ludmilpaulo/ClinicSystemMobile/internal/domain"
)

// Field is one key=value pair of the payment request. The provider
// verifies the signature over the fields in the exact order they were
// signed, so fields are an ordered slice, never a map.
type Field struct {
	Key   string
	Value string
}

// MerchantConfig holds the provider credentials and callback URLs.
type MerchantConfig struct {
	MerchantID  string
	MerchantKey string
	ReturnURL   string
	CancelURL   string
	NotifyURL   string
	Passphrase  string
}

// Sign computes the keyed digest over the ordered field set: key=value
// pairs joined with "&", values percent-encoded with space as "+", the
// passphrase appended as a final pair, MD5 over the whole string.
// The field order is part of the provider contract.
func Sign(fields []Field, passphrase string) string {
	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(f.Key)
		b.WriteByte('=')
		b.WriteString(encode(f.Value))
	}
	b.WriteString("&passphrase=")
	b.WriteString(encode(passphrase))

	sum := md5.Sum([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// ParamString renders the fields as a form-encoded body, in order.
func ParamString(fields []Field) string {
	pairs := make([]string, 0, len(fields))
	for _, f := range fields {
		pairs = append(pairs, f.Key+"="+encode(f.Value))
	}
	return strings.Join(pairs, "&")
}

// CheckoutFields assembles the signed transaction field set for one
// checkout attempt. The ordering below is fixed by the provider.
func CheckoutFields(cfg MerchantConfig, billing domain.BillingDetails, amount float64, paymentID string) []Field {
	first, last := splitName(billing.Name)

	fields := []Field{
		{"merchant_id", cfg.MerchantID},
		{"merchant_key", cfg.MerchantKey},
		{"return_url", cfg.ReturnURL},
		{"cancel_url", cfg.CancelURL},
		{"notify_url", cfg.NotifyURL},
		{"name_first", first},
		{"name_last", last},
		{"email_address", billing.Email},
		{"m_payment_id", paymentID},
		{"amount", fmt.Sprintf("%.2f", amount)},
		{"item_name", "Order #" + paymentID},
	}
	fields = append(fields, Field{"signature", Sign(fields, cfg.Passphrase)})
	return fields
}

// NewPaymentID issues the merchant-side payment reference. The
// timestamp keeps references sortable in the merchant backend; the
// suffix keeps concurrent checkouts distinct.
func NewPaymentID() string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), uuid.NewString())
}

func splitName(name string) (first, last string) {
	parts := strings.Fields(name)
	if len(parts) == 0 {
		return "", ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}

func encode(v string) string {
	return url.QueryEscape(strings.TrimSpace(v))
}
