package payments

import (
	"context"
	"errors"
)

// ErrSessionNotFound is returned by GetSession when the provider has no
// session with the given id.
var ErrSessionNotFound = errors.New("payments: checkout session not found")

// LineItem is one purchasable line sent to the payment provider. Amounts are
// integer cents to avoid float drift on the wire.
type LineItem struct {
	Name        string
	Description string
	AmountCents int64
	Quantity    int
}

// CheckoutParams describes a checkout session to be created.
type CheckoutParams struct {
	SessionID  string
	Email      string
	Items      []LineItem
	SuccessURL string
	CancelURL  string
}

// CheckoutResponse is the provider's answer to a session creation.
type CheckoutResponse struct {
	URL        string
	ProviderID string
}

// SessionStatus reports the state of a previously created checkout session.
type SessionStatus struct {
	ID            string
	Status        string
	PaymentStatus string
	CustomerEmail string
	AmountCents   int64
}

// Paid reports whether the session completed with a successful payment.
func (s SessionStatus) Paid() bool {
	return s.PaymentStatus == "paid"
}

// CheckoutService creates hosted checkout sessions and reports their outcome.
type CheckoutService interface {
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutResponse, error)
	GetSession(ctx context.Context, providerID string) (*SessionStatus, error)
}
