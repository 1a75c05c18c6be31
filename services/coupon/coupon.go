package coupon

import (
	"fmt"
	"math"
	"strings"
	"time"

	"coursebox/models"

	"gorm.io/gorm"
)

// Quote is a successful validation result
type Quote struct {
	Coupon        *models.Coupon `json:"coupon"`
	PriceCents    int64          `json:"price_cents"`
	DiscountCents int64          `json:"discount_cents"`
	FinalCents    int64          `json:"final_cents"`
}

// InvalidCouponError carries the first failed rule as a human-readable reason
type InvalidCouponError struct {
	Reason string
}

func (e *InvalidCouponError) Error() string {
	return e.Reason
}

// Validate runs the coupon rules in order and returns a discounted quote.
// The first failing rule wins. Rules: exists, active flag, validity window,
// usage cap, course applicability, minimum purchase, one redemption per user.
func Validate(db *gorm.DB, code string, courseID, userID uint, priceCents int64) (*Quote, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return nil, &InvalidCouponError{Reason: "coupon code is required"}
	}

	var cpn models.Coupon
	if err := db.Where("code = ? AND is_deleted = ?", normalized, false).First(&cpn).Error; err != nil {
		return nil, &InvalidCouponError{Reason: "coupon not found"}
	}

	if !cpn.IsActive {
		return nil, &InvalidCouponError{Reason: "coupon is not active"}
	}

	now := time.Now()
	if now.Before(cpn.ValidFrom) {
		return nil, &InvalidCouponError{Reason: "coupon is not valid yet"}
	}
	if cpn.ValidUntil != nil && now.After(*cpn.ValidUntil) {
		return nil, &InvalidCouponError{Reason: "coupon has expired"}
	}

	if cpn.MaxUses != nil && cpn.UsedCount >= *cpn.MaxUses {
		return nil, &InvalidCouponError{Reason: "coupon usage limit reached"}
	}

	if !cpn.AppliesToAll {
		var count int64
		db.Model(&models.CouponCourse{}).Where("coupon_id = ? AND course_id = ?", cpn.ID, courseID).Count(&count)
		if count == 0 {
			return nil, &InvalidCouponError{Reason: "coupon does not apply to this course"}
		}
	}

	if cpn.MinPurchase != nil && priceCents < *cpn.MinPurchase {
		return nil, &InvalidCouponError{Reason: "purchase amount below coupon minimum"}
	}

	var used int64
	db.Model(&models.CouponUsage{}).Where("coupon_id = ? AND user_id = ?", cpn.ID, userID).Count(&used)
	if used > 0 {
		return nil, &InvalidCouponError{Reason: "coupon already used"}
	}

	discount := discountCents(&cpn, priceCents)

	return &Quote{
		Coupon:        &cpn,
		PriceCents:    priceCents,
		DiscountCents: discount,
		FinalCents:    priceCents - discount,
	}, nil
}

func discountCents(cpn *models.Coupon, priceCents int64) int64 {
	switch cpn.DiscountType {
	case models.DiscountPercentage:
		d := int64(math.Round(float64(priceCents) * cpn.DiscountValue / 100))
		if d > priceCents {
			d = priceCents
		}
		return d
	case models.DiscountFixed:
		d := int64(math.Round(cpn.DiscountValue))
		if d > priceCents {
			d = priceCents // FIXED discounts floor the price at 0
		}
		return d
	default:
		return 0
	}
}

// Redeem consumes one use of the coupon for the user inside the caller's
// transaction. The counter increment is a single atomic UPDATE so
// concurrent redemptions cannot lose updates against MaxUses, and the
// unique (coupon, user) index rejects a double redemption.
func Redeem(tx *gorm.DB, couponID, userID uint) error {
	var existing int64
	tx.Model(&models.CouponUsage{}).Where("coupon_id = ? AND user_id = ?", couponID, userID).Count(&existing)
	if existing > 0 {
		return fmt.Errorf("coupon %d already redeemed by user %d", couponID, userID)
	}

	usage := models.CouponUsage{
		CouponID: couponID,
		UserID:   userID,
		UsedAt:   time.Now(),
	}
	if err := tx.Create(&usage).Error; err != nil {
		return fmt.Errorf("failed to record coupon usage: %v", err)
	}

	if err := tx.Model(&models.Coupon{}).Where("id = ?", couponID).
		UpdateColumn("used_count", gorm.Expr("used_count + ?", 1)).Error; err != nil {
		return fmt.Errorf("failed to increment coupon usage: %v", err)
	}

	return nil
}
