package checkout

import (
	"fmt"

	"coursebox/models"
	courseModels "coursebox/models/course"
	couponService "coursebox/services/coupon"

	"gorm.io/gorm"
)

// Minimum charge accepted by both gateways: 1 currency unit
const minChargeCents int64 = 100

// Customer identifies the payer to the gateway
type Customer struct {
	Name  string
	Email string
}

// SessionRequest is what a gateway needs to open a checkout
type SessionRequest struct {
	Reference   string // internal order reference
	AmountCents int64
	Currency    string
	Customer    Customer
	Metadata    map[string]string // echoed back on webhooks
}

// SessionInfo is the provider-hosted checkout created by a gateway
type SessionInfo struct {
	ID  string // provider reference (session / billing id)
	URL string // provider-hosted payment page
}

// Gateway is a payment provider able to open a checkout session.
// utils.CardGateway and utils.PixGateway satisfy it.
type Gateway interface {
	Name() string
	CreateSession(req SessionRequest) (*SessionInfo, error)
}

// Session is the result of a successful initiation
type Session struct {
	PaymentURL        string `json:"payment_url"`
	ProviderReference string `json:"provider_reference"`
	AmountCents       int64  `json:"amount_cents"`
	EnrollmentID      uint   `json:"enrollment_id"`
	PaymentID         uint   `json:"payment_id"`
}

// InitiateError is a validation failure surfaced to the caller
type InitiateError struct {
	Reason string
}

func (e *InitiateError) Error() string {
	return e.Reason
}

// Initiate starts a paid checkout: validates the coupon, creates (or
// reuses) the PENDING enrollment+payment pair in one transaction, then asks
// the gateway for a checkout session. A gateway failure leaves the PENDING
// pair in place so the user can retry; a later attempt reuses it and
// refreshes its provider reference.
func Initiate(db *gorm.DB, gw Gateway, userID, courseID uint, couponCode string) (*Session, error) {
	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return nil, &InitiateError{Reason: "user not found"}
	}

	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ? AND status = ?", courseID, false, "ACTIVE").First(&course).Error; err != nil {
		return nil, &InitiateError{Reason: "course not found or not active"}
	}

	if course.PriceCents <= 0 {
		return nil, &InitiateError{Reason: "course is free, use direct enrollment"}
	}

	// An existing enrollment decides the path: APPROVED/REJECTED block a new
	// checkout, PENDING is reused rather than duplicated
	var enrollment courseModels.Enrollment
	haveEnrollment := db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error == nil
	if haveEnrollment {
		switch enrollment.Status {
		case courseModels.EnrollmentApproved:
			return nil, &InitiateError{Reason: "user already enrolled in this course"}
		case courseModels.EnrollmentRejected:
			return nil, &InitiateError{Reason: "enrollment was rejected"}
		}
	}

	finalCents := course.PriceCents
	var couponID *uint
	if couponCode != "" {
		quote, err := couponService.Validate(db, couponCode, courseID, userID, course.PriceCents)
		if err != nil {
			return nil, err
		}
		finalCents = quote.FinalCents
		id := quote.Coupon.ID
		couponID = &id
	}
	if finalCents < minChargeCents {
		finalCents = minChargeCents
	}

	var payment models.Payment

	// Enrollment and payment must exist together or not at all
	err := db.Transaction(func(tx *gorm.DB) error {
		if !haveEnrollment {
			enrollment = courseModels.Enrollment{
				UserID:   userID,
				CourseID: courseID,
				Status:   courseModels.EnrollmentPending,
			}
			if err := tx.Create(&enrollment).Error; err != nil {
				return fmt.Errorf("failed to create enrollment: %v", err)
			}
		}

		if err := tx.Where("enrollment_id = ?", enrollment.ID).First(&payment).Error; err != nil {
			payment = models.Payment{
				EnrollmentID: enrollment.ID,
				UserID:       userID,
				CourseID:     courseID,
				AmountCents:  finalCents,
				Currency:     course.Currency,
				Status:       models.PaymentPending,
				Gateway:      gw.Name(),
				CouponID:     couponID,
			}
			if err := tx.Create(&payment).Error; err != nil {
				return fmt.Errorf("failed to create payment: %v", err)
			}
			return nil
		}

		if payment.Status == models.PaymentCompleted {
			return &InitiateError{Reason: "payment already completed"}
		}

		// Reused pair: refresh amount, coupon and gateway for this attempt
		payment.AmountCents = finalCents
		payment.Currency = course.Currency
		payment.Status = models.PaymentPending
		payment.Gateway = gw.Name()
		payment.CouponID = couponID
		return tx.Save(&payment).Error
	})
	if err != nil {
		if ie, ok := err.(*InitiateError); ok {
			return nil, ie
		}
		return nil, err
	}

	metadata := map[string]string{
		"user_id":   fmt.Sprintf("%d", userID),
		"course_id": fmt.Sprintf("%d", courseID),
	}
	if couponID != nil {
		metadata["coupon_id"] = fmt.Sprintf("%d", *couponID)
	}

	session, err := gw.CreateSession(SessionRequest{
		Reference:   fmt.Sprintf("enrollment-%d", enrollment.ID),
		AmountCents: finalCents,
		Currency:    course.Currency,
		Customer:    Customer{Name: user.Name, Email: user.Email},
		Metadata:    metadata,
	})
	if err != nil {
		// The PENDING pair stays for a retry; surface the provider's message
		return nil, fmt.Errorf("payment provider rejected the request: %v", err)
	}

	payment.ProviderReference = session.ID
	if err := db.Model(&payment).Update("provider_reference", session.ID).Error; err != nil {
		return nil, fmt.Errorf("failed to save provider reference: %v", err)
	}

	return &Session{
		PaymentURL:        session.URL,
		ProviderReference: session.ID,
		AmountCents:       finalCents,
		EnrollmentID:      enrollment.ID,
		PaymentID:         payment.ID,
	}, nil
}
