package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// OrderStatusCompleted marks an order created from a succeeded payment intent.
	OrderStatusCompleted = "completed"
	// OrderStatusPlaced marks an order from the legacy no-payment path.
	OrderStatusPlaced = "placed"
)

// Order is written once per confirmation and never mutated.
// ProductID is a plain string reference; nothing enforces that the product still exists.
type Order struct {
	ID                    primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Email                 string             `json:"email" bson:"email"`
	ProductID             string             `json:"product_id" bson:"product_id"`
	ProductName           string             `json:"product_name" bson:"product_name"`
	AmountPaid            float64            `json:"amount_paid" bson:"amount_paid"`
	StripePaymentIntentID string             `json:"stripe_payment_intent,omitempty" bson:"stripe_payment_intent,omitempty"`
	OrderDate             time.Time          `json:"order_date" bson:"order_date"`
	Status                string             `json:"status" bson:"status"`
}
