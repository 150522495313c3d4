package domain

import "time"

// PaymentStatus is the outcome of a gateway call.
type PaymentStatus string

const (
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// FailureDeclined is the reason recorded for gateway declines.
const FailureDeclined = "payment_declined"

// PaymentRequest asks the gateway to charge an amount.
type PaymentRequest struct {
	OrderID  string  `json:"orderId"`
	Amount   float64 `json:"amount" validate:"gt=0"`
	Currency string  `json:"currency"`
	MethodID string  `json:"methodId" validate:"required"`
	CardID   string  `json:"cardId,omitempty"`
}

// PaymentResponse is the persisted transaction record. Exactly one of the
// completed or failed variants is described by Status; declines are values, not errors.
type PaymentResponse struct {
	TransactionID string        `json:"transactionId"`
	OrderID       string        `json:"orderId,omitempty"`
	Amount        float64       `json:"amount"`
	Currency      string        `json:"currency"`
	Method        string        `json:"method"`
	Status        PaymentStatus `json:"status"`
	FailureReason string        `json:"failureReason,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
}

// Approved reports whether the charge went through.
func (r PaymentResponse) Approved() bool {
	return r.Status == PaymentStatusCompleted
}
