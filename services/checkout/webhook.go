package checkout

import (
	"fmt"
	"log"
	"time"

	"coursebox/models"
	courseModels "coursebox/models/course"
	couponService "coursebox/services/coupon"

	"gorm.io/gorm"
)

// Event is a normalized, already-authenticated payment-provider callback.
// Controllers verify gateway authenticity and map raw payloads into this
// shape before reconciling.
type Event struct {
	Gateway       string
	ProviderRef   string // checkout session / billing id
	UserID        uint   // from echoed metadata; 0 when absent
	CourseID      uint
	CouponID      uint
	CustomerEmail string // fallback resolution path
	Method        string // payment method as reported by the provider
	AmountCents   int64
	Raw           []byte // payload snapshot persisted on the payment row
}

// Reconcile outcomes
const (
	OutcomeApproved = "approved" // PENDING pair moved to APPROVED/COMPLETED
	OutcomeCreated  = "created"  // deferred-enrollment flow: pair created settled
	OutcomeNoop     = "noop"     // duplicate delivery, already settled
	OutcomeExpired  = "expired"  // payment failed, enrollment left PENDING
	OutcomeIgnored  = "ignored"  // event did not resolve to anything ours
)

// Outcome reports what a reconciliation did
type Outcome struct {
	Action       string `json:"action"`
	EnrollmentID uint   `json:"enrollment_id,omitempty"`
	PaymentID    uint   `json:"payment_id,omitempty"`
}

// Reconcile applies a confirmed payment to enrollment state. Delivery is
// at least once and possibly out of order, so the function is idempotent:
// an already-approved enrollment is a no-op and the coupon counter moves at
// most once per settlement. Enrollment and payment always transition inside
// one transaction. Business rules (pricing, coupon validity) are NOT
// re-checked here; the provider is the price authority at settlement time.
func Reconcile(db *gorm.DB, ev Event) (*Outcome, error) {
	enrollment, payment := resolve(db, ev)
	if enrollment == nil {
		if ev.UserID != 0 && ev.CourseID != 0 {
			return createSettled(db, ev)
		}
		log.Printf("[WEBHOOK] %s event %s did not resolve to an enrollment, ignoring", ev.Gateway, ev.ProviderRef)
		return &Outcome{Action: OutcomeIgnored}, nil
	}

	if enrollment.Status == courseModels.EnrollmentApproved {
		// Duplicate or replayed delivery
		out := &Outcome{Action: OutcomeNoop, EnrollmentID: enrollment.ID}
		if payment != nil {
			out.PaymentID = payment.ID
		}
		return out, nil
	}

	now := time.Now()
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(enrollment).Updates(map[string]interface{}{
			"status":      courseModels.EnrollmentApproved,
			"approved_at": now,
		}).Error; err != nil {
			return fmt.Errorf("failed to approve enrollment: %v", err)
		}

		if payment == nil {
			// Event matched the enrollment through metadata before a payment
			// row existed; settle a fresh one alongside it
			payment = &models.Payment{
				EnrollmentID: enrollment.ID,
				UserID:       enrollment.UserID,
				CourseID:     enrollment.CourseID,
				AmountCents:  ev.AmountCents,
				Gateway:      ev.Gateway,
			}
			if err := tx.Create(payment).Error; err != nil {
				return fmt.Errorf("failed to create payment: %v", err)
			}
		}

		if err := tx.Model(payment).Updates(map[string]interface{}{
			"status":             models.PaymentCompleted,
			"provider_reference": ev.ProviderRef,
			"payment_method":     ev.Method,
			"paid_at":            now,
			"provider_payload":   ev.Raw,
		}).Error; err != nil {
			return fmt.Errorf("failed to complete payment: %v", err)
		}

		return redeemCoupon(tx, payment, ev, enrollment.UserID)
	})
	if err != nil {
		return nil, err
	}

	return &Outcome{Action: OutcomeApproved, EnrollmentID: enrollment.ID, PaymentID: payment.ID}, nil
}

// Expire marks a payment FAILED after the provider reports the checkout
// expired. The enrollment stays PENDING so the user can retry.
func Expire(db *gorm.DB, providerRef string) (*Outcome, error) {
	var payment models.Payment
	if err := db.Where("provider_reference = ?", providerRef).First(&payment).Error; err != nil {
		log.Printf("[WEBHOOK] expiry for unknown reference %s, ignoring", providerRef)
		return &Outcome{Action: OutcomeIgnored}, nil
	}

	if payment.Status != models.PaymentPending {
		return &Outcome{Action: OutcomeNoop, EnrollmentID: payment.EnrollmentID, PaymentID: payment.ID}, nil
	}

	if err := db.Model(&payment).Update("status", models.PaymentFailed).Error; err != nil {
		return nil, fmt.Errorf("failed to expire payment: %v", err)
	}

	return &Outcome{Action: OutcomeExpired, EnrollmentID: payment.EnrollmentID, PaymentID: payment.ID}, nil
}

// resolve finds the enrollment targeted by an event: primary path is the
// provider reference on the payment row, fallback is echoed metadata, last
// resort is the customer email.
func resolve(db *gorm.DB, ev Event) (*courseModels.Enrollment, *models.Payment) {
	var payment models.Payment
	if ev.ProviderRef != "" {
		if err := db.Where("provider_reference = ?", ev.ProviderRef).First(&payment).Error; err == nil {
			var enrollment courseModels.Enrollment
			if err := db.Where("id = ?", payment.EnrollmentID).First(&enrollment).Error; err == nil {
				return &enrollment, &payment
			}
		}
	}

	userID := ev.UserID
	if userID == 0 && ev.CustomerEmail != "" {
		var user models.User
		if err := db.Where("email = ? AND is_deleted = ?", ev.CustomerEmail, false).First(&user).Error; err == nil {
			userID = user.ID
		}
	}
	if userID == 0 || ev.CourseID == 0 {
		return nil, nil
	}

	var enrollment courseModels.Enrollment
	if err := db.Where("user_id = ? AND course_id = ?", userID, ev.CourseID).First(&enrollment).Error; err != nil {
		return nil, nil
	}
	if err := db.Where("enrollment_id = ?", enrollment.ID).First(&payment).Error; err != nil {
		return &enrollment, nil
	}
	return &enrollment, &payment
}

// createSettled handles the gateway flow where enrollment is deferred until
// the payment confirms: both rows are created already settled, atomically.
func createSettled(db *gorm.DB, ev Event) (*Outcome, error) {
	now := time.Now()
	enrollment := courseModels.Enrollment{
		UserID:     ev.UserID,
		CourseID:   ev.CourseID,
		Status:     courseModels.EnrollmentApproved,
		ApprovedAt: &now,
	}
	payment := models.Payment{
		UserID:            ev.UserID,
		CourseID:          ev.CourseID,
		AmountCents:       ev.AmountCents,
		Status:            models.PaymentCompleted,
		Gateway:           ev.Gateway,
		ProviderReference: ev.ProviderRef,
		PaymentMethod:     ev.Method,
		PaidAt:            &now,
		ProviderPayload:   ev.Raw,
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&enrollment).Error; err != nil {
			return fmt.Errorf("failed to create enrollment: %v", err)
		}
		payment.EnrollmentID = enrollment.ID
		if err := tx.Create(&payment).Error; err != nil {
			return fmt.Errorf("failed to create payment: %v", err)
		}
		return redeemCoupon(tx, &payment, ev, ev.UserID)
	})
	if err != nil {
		return nil, err
	}

	return &Outcome{Action: OutcomeCreated, EnrollmentID: enrollment.ID, PaymentID: payment.ID}, nil
}

// redeemCoupon consumes the coupon referenced by the payment or the event
// metadata. It only runs on the PENDING->settled transition, so the counter
// moves at most once per reconciliation.
func redeemCoupon(tx *gorm.DB, payment *models.Payment, ev Event, userID uint) error {
	couponID := ev.CouponID
	if payment.CouponID != nil {
		couponID = *payment.CouponID
	}
	if couponID == 0 {
		return nil
	}
	return couponService.Redeem(tx, couponID, userID)
}
