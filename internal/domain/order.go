package domain

// OrderStatus values match the remote order API.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCanceled  OrderStatus = "canceled"
)

func (s OrderStatus) String() string {
	return string(s)
}

// BillingDetails is the checkout form. Every field is required before
// an order can be submitted.
type BillingDetails struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// OrderItemRef is the id/quantity pair sent to the order API. Full
// product data stays out of the payload to avoid staleness.
type OrderItemRef struct {
	ID       int64 `json:"id"`
	Quantity int   `json:"quantity"`
}

// OrderDraft is assembled once per checkout attempt from the basket
// snapshot and the billing form. It is never persisted locally.
type OrderDraft struct {
	UserID        *int64
	Billing       BillingDetails
	TotalPrice    float64
	PaymentMethod string
	Items         []OrderItemRef
}

// DraftFromBasket builds the order draft for the given basket snapshot.
func DraftFromBasket(b Basket, billing BillingDetails, userID *int64) OrderDraft {
	items := make([]OrderItemRef, 0, len(b.Lines))
	for _, l := range b.Lines {
		items = append(items, OrderItemRef{ID: l.Product.ID, Quantity: l.Quantity})
	}
	return OrderDraft{
		UserID:        userID,
		Billing:       billing,
		TotalPrice:    b.Total(),
		PaymentMethod: "payfast",
		Items:         items,
	}
}
