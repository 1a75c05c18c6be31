package coupon

import (
	"testing"
	"time"

	"coursebox/database"
	"coursebox/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	database.RunMigrations(db)
	return db
}

func seedCoupon(t *testing.T, db *gorm.DB, cpn models.Coupon) models.Coupon {
	t.Helper()
	require.NoError(t, db.Create(&cpn).Error)
	return cpn
}

func TestValidatePercentageQuote(t *testing.T) {
	db := newTestDB(t)
	seedCoupon(t, db, models.Coupon{
		Code: "SAVE20", DiscountType: models.DiscountPercentage, DiscountValue: 20,
		IsActive: true, AppliesToAll: true,
	})

	quote, err := Validate(db, "save20", 1, 1, 10000)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), quote.DiscountCents)
	assert.Equal(t, int64(8000), quote.FinalCents)
	assert.Equal(t, "SAVE20", quote.Coupon.Code)
}

func TestValidateFixedDiscountFloorsAtZero(t *testing.T) {
	db := newTestDB(t)
	seedCoupon(t, db, models.Coupon{
		Code: "BIGFIX", DiscountType: models.DiscountFixed, DiscountValue: 50000,
		IsActive: true, AppliesToAll: true,
	})

	quote, err := Validate(db, "BIGFIX", 1, 1, 10000)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), quote.DiscountCents)
	assert.Equal(t, int64(0), quote.FinalCents)
}

func TestValidateRejections(t *testing.T) {
	db := newTestDB(t)

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)
	one := 1

	seedCoupon(t, db, models.Coupon{Code: "INACTIVE", DiscountType: models.DiscountPercentage, DiscountValue: 10, IsActive: false, AppliesToAll: true})
	seedCoupon(t, db, models.Coupon{Code: "EXPIRED", DiscountType: models.DiscountPercentage, DiscountValue: 10, IsActive: true, AppliesToAll: true, ValidUntil: &past})
	seedCoupon(t, db, models.Coupon{Code: "NOTYET", DiscountType: models.DiscountPercentage, DiscountValue: 10, IsActive: true, AppliesToAll: true, ValidFrom: future})
	seedCoupon(t, db, models.Coupon{Code: "CAPPED", DiscountType: models.DiscountPercentage, DiscountValue: 10, IsActive: true, AppliesToAll: true, MaxUses: &one, UsedCount: 1})

	min := int64(5000)
	seedCoupon(t, db, models.Coupon{Code: "MIN50", DiscountType: models.DiscountPercentage, DiscountValue: 10, IsActive: true, AppliesToAll: true, MinPurchase: &min})

	restricted := seedCoupon(t, db, models.Coupon{Code: "COURSE7", DiscountType: models.DiscountPercentage, DiscountValue: 10, IsActive: true, AppliesToAll: false})
	require.NoError(t, db.Create(&models.CouponCourse{CouponID: restricted.ID, CourseID: 7}).Error)

	used := seedCoupon(t, db, models.Coupon{Code: "ONCE", DiscountType: models.DiscountPercentage, DiscountValue: 10, IsActive: true, AppliesToAll: true})
	require.NoError(t, db.Create(&models.CouponUsage{CouponID: used.ID, UserID: 1, UsedAt: time.Now()}).Error)

	tests := []struct {
		name       string
		code       string
		courseID   uint
		priceCents int64
		wantReason string
	}{
		{"unknown code", "NOPE", 1, 10000, "coupon not found"},
		{"empty code", "", 1, 10000, "coupon code is required"},
		{"inactive", "INACTIVE", 1, 10000, "coupon is not active"},
		{"expired", "EXPIRED", 1, 10000, "coupon has expired"},
		{"not yet valid", "NOTYET", 1, 10000, "coupon is not valid yet"},
		{"usage cap reached", "CAPPED", 1, 10000, "coupon usage limit reached"},
		{"wrong course", "COURSE7", 8, 10000, "coupon does not apply to this course"},
		{"below minimum", "MIN50", 1, 4999, "purchase amount below coupon minimum"},
		{"already used", "ONCE", 1, 10000, "coupon already used"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Validate(db, tc.code, tc.courseID, 1, tc.priceCents)
			require.Error(t, err)
			ie, ok := err.(*InvalidCouponError)
			require.True(t, ok)
			assert.Equal(t, tc.wantReason, ie.Reason)
		})
	}

	// The restricted coupon still works on its own course
	quote, err := Validate(db, "COURSE7", 7, 1, 10000)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), quote.DiscountCents)
}

func TestRedeem(t *testing.T) {
	db := newTestDB(t)
	cpn := seedCoupon(t, db, models.Coupon{
		Code: "REDEEM", DiscountType: models.DiscountPercentage, DiscountValue: 10,
		IsActive: true, AppliesToAll: true,
	})

	require.NoError(t, Redeem(db, cpn.ID, 42))

	var reloaded models.Coupon
	require.NoError(t, db.First(&reloaded, cpn.ID).Error)
	assert.Equal(t, 1, reloaded.UsedCount)

	var usages int64
	db.Model(&models.CouponUsage{}).Where("coupon_id = ? AND user_id = ?", cpn.ID, 42).Count(&usages)
	assert.Equal(t, int64(1), usages)

	// Second redemption by the same user is refused and the counter holds
	require.Error(t, Redeem(db, cpn.ID, 42))
	require.NoError(t, db.First(&reloaded, cpn.ID).Error)
	assert.Equal(t, 1, reloaded.UsedCount)

	// A different user still can redeem
	require.NoError(t, Redeem(db, cpn.ID, 43))
	require.NoError(t, db.First(&reloaded, cpn.ID).Error)
	assert.Equal(t, 2, reloaded.UsedCount)
}
