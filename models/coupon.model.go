package models

import (
	"time"

	"gorm.io/gorm"
)

// Coupon discount types
const (
	DiscountPercentage = "PERCENTAGE"
	DiscountFixed      = "FIXED"
)

// Coupon is a discount code. Codes are stored uppercased and matched
// case-insensitively.
type Coupon struct {
	gorm.Model
	Code          string     `json:"code" gorm:"unique;not null"`
	DiscountType  string     `json:"discount_type" gorm:"default:'PERCENTAGE'"` // PERCENTAGE, FIXED
	DiscountValue float64    `json:"discount_value"`                            // percent (0-100) or fixed cents
	IsActive      bool       `json:"is_active" gorm:"default:true"`
	ValidFrom     time.Time  `json:"valid_from"`
	ValidUntil    *time.Time `json:"valid_until"`                      // nil = no expiry
	MaxUses       *int       `json:"max_uses"`                         // nil = unlimited
	UsedCount     int        `json:"used_count" gorm:"default:0"`      // incremented atomically on redemption
	AppliesToAll  bool       `json:"applies_to_all" gorm:"default:true"`
	MinPurchase   *int64     `json:"min_purchase"` // cents; nil = no minimum
	IsDeleted     bool       `json:"-" gorm:"default:false"`
}

// CouponCourse restricts a coupon to specific courses when AppliesToAll is false
type CouponCourse struct {
	gorm.Model
	CouponID uint `json:"coupon_id" gorm:"not null;uniqueIndex:idx_coupon_courses_pair"`
	CourseID uint `json:"course_id" gorm:"not null;uniqueIndex:idx_coupon_courses_pair"`
}

// CouponUsage records a redemption. A user may redeem a given coupon once.
type CouponUsage struct {
	gorm.Model
	CouponID uint      `json:"coupon_id" gorm:"not null;uniqueIndex:idx_coupon_usages_user"`
	UserID   uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_coupon_usages_user"`
	UsedAt   time.Time `json:"used_at"`
}
