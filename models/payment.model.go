package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Payment statuses
const (
	PaymentPending   = "PENDING"
	PaymentCompleted = "COMPLETED"
	PaymentFailed    = "FAILED"
)

// Payment gateways
const (
	GatewayCard = "CARD"
	GatewayPix  = "PIX"
)

// Payment is the money side of a paid enrollment, exactly one per
// enrollment. It is created PENDING together with its enrollment and only
// the webhook reconciler (or the expiry sweep) moves it to a terminal state.
type Payment struct {
	gorm.Model
	EnrollmentID      uint           `json:"enrollment_id" gorm:"not null;uniqueIndex"`
	UserID            uint           `json:"user_id" gorm:"index;not null"`
	CourseID          uint           `json:"course_id" gorm:"index;not null"`
	AmountCents       int64          `json:"amount_cents"`
	Currency          string         `json:"currency" gorm:"default:'BRL'"`
	Status            string         `json:"status" gorm:"default:'PENDING'"` // PENDING, COMPLETED, FAILED
	Gateway           string         `json:"gateway"`                         // CARD, PIX
	ProviderReference string         `json:"provider_reference" gorm:"index"` // checkout session / billing id
	CouponID          *uint          `json:"coupon_id"`
	PaymentMethod     string         `json:"payment_method"` // as reported by the provider
	PaidAt            *time.Time     `json:"paid_at"`
	ProviderPayload   datatypes.JSON `json:"-"` // raw webhook payload snapshot
}
