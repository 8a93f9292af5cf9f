package models

const (
	MetadataProductID     = "product_id"
	MetadataProductName   = "product_name"
	MetadataCustomerEmail = "customer_email"

	IntentStatusSucceeded = "succeeded"
	CurrencyUSD           = "usd"
)

// PaymentIntent is the gateway-neutral view of a Stripe PaymentIntent.
type PaymentIntent struct {
	ID           string
	ClientSecret string
	Amount       int64 // minor units
	Currency     string
	Status       string
	Metadata     map[string]string
}

// CreatePaymentIntentRequest is the body of POST /create-payment-intent.
type CreatePaymentIntentRequest struct {
	ProductID string `json:"product_id"`
	Email     string `json:"email"`
}

// CreatePaymentIntentResponse is returned to the checkout form.
type CreatePaymentIntentResponse struct {
	ClientSecret string  `json:"client_secret"`
	ProductName  string  `json:"product_name"`
	Amount       float64 `json:"amount"`
}

// ConfirmPaymentRequest is the body of POST /confirm-payment.
type ConfirmPaymentRequest struct {
	PaymentIntentID string `json:"payment_intent_id"`
}

// ConfirmPaymentResult reports the persisted order and the confirmation email outcome.
// EmailStatus is one of StatusSent, StatusPartial or StatusFailed.
type ConfirmPaymentResult struct {
	OrderID     string
	EmailSent   bool
	EmailStatus string
}

// PlaceOrderRequest is the body of the legacy POST /place_order.
type PlaceOrderRequest struct {
	Email     string `json:"email"`
	ProductID string `json:"product_id"`
}

// OrderCompletedEvent is published to SNS after a confirmed payment.
type OrderCompletedEvent struct {
	EventType       string  `json:"event_type"`
	OrderID         string  `json:"order_id"`
	ProductID       string  `json:"product_id"`
	Email           string  `json:"email"`
	AmountPaid      float64 `json:"amount_paid"`
	PaymentIntentID string  `json:"payment_intent_id"`
	EmailSent       bool    `json:"email_sent"`
	EmailStatus     string  `json:"email_status"`
	Timestamp       string  `json:"timestamp"`
}
