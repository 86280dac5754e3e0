package models

import "time"

// PaymentConfirmation is the gateway callback payload. The service only
// records the reference; gateway protocol logic lives upstream.
type PaymentConfirmation struct {
	OrderID    string `json:"orderId"`
	Method     string `json:"method"` // card, upi, wallet, cod
	PaymentRef string `json:"paymentRef"`
}

// IdempotencyRecord represents an idempotency key record stored in Mongo.
type IdempotencyRecord struct {
	Key         string                 `bson:"key" json:"key"`
	Method      string                 `bson:"method" json:"method"`
	Path        string                 `bson:"path" json:"path"`
	UserID      string                 `bson:"userid" json:"userid"`
	RequestHash string                 `bson:"request_hash" json:"request_hash"`
	Response    map[string]interface{} `bson:"response,omitempty" json:"response,omitempty"`
	StatusCode  int                    `bson:"status_code" json:"status_code"`
	CreatedAt   time.Time              `bson:"created_at" json:"created_at"`
	ExpiresAt   time.Time              `bson:"expires_at" json:"expires_at"`
}

// Pincode is one row of the shipping serviceability table.
type Pincode struct {
	Code        string `json:"code" bson:"code"`
	City        string `json:"city" bson:"city"`
	State       string `json:"state" bson:"state"`
	Serviceable bool   `json:"serviceable" bson:"serviceable"`
	ETADays     int    `json:"etaDays" bson:"etaDays"`
}
