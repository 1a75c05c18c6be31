package checkout

import (
	"testing"

	"coursebox/models"
	courseModels "coursebox/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileApprovesPendingPair(t *testing.T) {
	db := newTestDB(t)
	gw := &fakeGateway{name: models.GatewayCard}
	userID, courseID := seedUserAndCourse(t, db, 14900)

	session, err := Initiate(db, gw, userID, courseID, "")
	require.NoError(t, err)

	out, err := Reconcile(db, Event{
		Gateway:     models.GatewayCard,
		ProviderRef: session.ProviderReference,
		Method:      "credit_card",
		AmountCents: 14900,
		Raw:         []byte(`{"type":"checkout.session.completed"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, OutcomeApproved, out.Action)

	var enrollment courseModels.Enrollment
	require.NoError(t, db.First(&enrollment, out.EnrollmentID).Error)
	assert.Equal(t, courseModels.EnrollmentApproved, enrollment.Status)
	assert.NotNil(t, enrollment.ApprovedAt)

	var payment models.Payment
	require.NoError(t, db.First(&payment, out.PaymentID).Error)
	assert.Equal(t, models.PaymentCompleted, payment.Status)
	assert.Equal(t, "credit_card", payment.PaymentMethod)
	assert.NotNil(t, payment.PaidAt)
	assert.NotEmpty(t, payment.ProviderPayload)
}

func TestReconcileIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	gw := &fakeGateway{name: models.GatewayCard}
	userID, courseID := seedUserAndCourse(t, db, 14900)

	session, err := Initiate(db, gw, userID, courseID, "")
	require.NoError(t, err)

	ev := Event{Gateway: models.GatewayCard, ProviderRef: session.ProviderReference, AmountCents: 14900}

	first, err := Reconcile(db, ev)
	require.NoError(t, err)
	assert.Equal(t, OutcomeApproved, first.Action)

	second, err := Reconcile(db, ev)
	require.NoError(t, err)
	assert.Equal(t, OutcomeNoop, second.Action)
	assert.Equal(t, first.EnrollmentID, second.EnrollmentID)
}

func TestReconcileRedeemsCouponExactlyOnce(t *testing.T) {
	db := newTestDB(t)
	gw := &fakeGateway{name: models.GatewayCard}
	userID, courseID := seedUserAndCourse(t, db, 10000)

	require.NoError(t, db.Create(&models.Coupon{
		Code: "WEBHOOK10", DiscountType: models.DiscountPercentage, DiscountValue: 10,
		IsActive: true, AppliesToAll: true,
	}).Error)

	session, err := Initiate(db, gw, userID, courseID, "WEBHOOK10")
	require.NoError(t, err)

	// Validation at initiation must not consume the coupon
	var cpn models.Coupon
	require.NoError(t, db.Where("code = ?", "WEBHOOK10").First(&cpn).Error)
	assert.Equal(t, 0, cpn.UsedCount)

	ev := Event{Gateway: models.GatewayCard, ProviderRef: session.ProviderReference, AmountCents: 9000}
	_, err = Reconcile(db, ev)
	require.NoError(t, err)

	require.NoError(t, db.Where("code = ?", "WEBHOOK10").First(&cpn).Error)
	assert.Equal(t, 1, cpn.UsedCount)

	// Replayed delivery leaves the counter alone
	_, err = Reconcile(db, ev)
	require.NoError(t, err)
	require.NoError(t, db.Where("code = ?", "WEBHOOK10").First(&cpn).Error)
	assert.Equal(t, 1, cpn.UsedCount)
}

func TestReconcileResolvesThroughMetadata(t *testing.T) {
	db := newTestDB(t)
	userID, courseID := seedUserAndCourse(t, db, 14900)

	// Enrollment exists but no payment row and no known provider reference
	enrollment := courseModels.Enrollment{UserID: userID, CourseID: courseID, Status: courseModels.EnrollmentPending}
	require.NoError(t, db.Create(&enrollment).Error)

	out, err := Reconcile(db, Event{
		Gateway:     models.GatewayPix,
		ProviderRef: "bill_unseen",
		UserID:      userID,
		CourseID:    courseID,
		Method:      "PIX",
		AmountCents: 14900,
	})
	require.NoError(t, err)
	assert.Equal(t, OutcomeApproved, out.Action)
	assert.Equal(t, enrollment.ID, out.EnrollmentID)

	// A payment row was settled alongside the approval
	var payment models.Payment
	require.NoError(t, db.Where("enrollment_id = ?", enrollment.ID).First(&payment).Error)
	assert.Equal(t, models.PaymentCompleted, payment.Status)
	assert.Equal(t, "bill_unseen", payment.ProviderReference)
}

func TestReconcileCreatesSettledPairFromMetadata(t *testing.T) {
	db := newTestDB(t)
	userID, courseID := seedUserAndCourse(t, db, 14900)

	// No enrollment at all: the deferred-enrollment flow creates both rows
	out, err := Reconcile(db, Event{
		Gateway:     models.GatewayPix,
		ProviderRef: "bill_deferred",
		UserID:      userID,
		CourseID:    courseID,
		Method:      "PIX",
		AmountCents: 14900,
	})
	require.NoError(t, err)
	assert.Equal(t, OutcomeCreated, out.Action)

	var enrollment courseModels.Enrollment
	require.NoError(t, db.First(&enrollment, out.EnrollmentID).Error)
	assert.Equal(t, courseModels.EnrollmentApproved, enrollment.Status)

	var payment models.Payment
	require.NoError(t, db.First(&payment, out.PaymentID).Error)
	assert.Equal(t, models.PaymentCompleted, payment.Status)
	assert.Equal(t, enrollment.ID, payment.EnrollmentID)
}

func TestReconcileIgnoresUnresolvableEvent(t *testing.T) {
	db := newTestDB(t)

	out, err := Reconcile(db, Event{
		Gateway:     models.GatewayCard,
		ProviderRef: "sess_nobody_knows",
	})
	require.NoError(t, err)
	assert.Equal(t, OutcomeIgnored, out.Action)
}

func TestReconcileResolvesThroughCustomerEmail(t *testing.T) {
	db := newTestDB(t)

	user := models.User{Name: "Mail Student", Email: "mail@test.local", Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	course := courseModels.Course{Title: "Course", Status: "ACTIVE", PriceCents: 9900}
	require.NoError(t, db.Create(&course).Error)
	enrollment := courseModels.Enrollment{UserID: user.ID, CourseID: course.ID, Status: courseModels.EnrollmentPending}
	require.NoError(t, db.Create(&enrollment).Error)

	out, err := Reconcile(db, Event{
		Gateway:       models.GatewayPix,
		ProviderRef:   "bill_email",
		CourseID:      course.ID,
		CustomerEmail: "mail@test.local",
		AmountCents:   9900,
	})
	require.NoError(t, err)
	assert.Equal(t, OutcomeApproved, out.Action)
	assert.Equal(t, enrollment.ID, out.EnrollmentID)
}

func TestExpire(t *testing.T) {
	db := newTestDB(t)
	gw := &fakeGateway{name: models.GatewayCard}
	userID, courseID := seedUserAndCourse(t, db, 14900)

	session, err := Initiate(db, gw, userID, courseID, "")
	require.NoError(t, err)

	out, err := Expire(db, session.ProviderReference)
	require.NoError(t, err)
	assert.Equal(t, OutcomeExpired, out.Action)

	var payment models.Payment
	require.NoError(t, db.First(&payment, out.PaymentID).Error)
	assert.Equal(t, models.PaymentFailed, payment.Status)

	// The enrollment stays PENDING so the user can retry checkout
	var enrollment courseModels.Enrollment
	require.NoError(t, db.First(&enrollment, out.EnrollmentID).Error)
	assert.Equal(t, courseModels.EnrollmentPending, enrollment.Status)

	// A second expiry is a no-op, and an unknown reference is ignored
	out, err = Expire(db, session.ProviderReference)
	require.NoError(t, err)
	assert.Equal(t, OutcomeNoop, out.Action)

	out, err = Expire(db, "sess_unknown")
	require.NoError(t, err)
	assert.Equal(t, OutcomeIgnored, out.Action)
}

func TestExpireDoesNotDowngradeCompletedPayment(t *testing.T) {
	db := newTestDB(t)
	gw := &fakeGateway{name: models.GatewayCard}
	userID, courseID := seedUserAndCourse(t, db, 14900)

	session, err := Initiate(db, gw, userID, courseID, "")
	require.NoError(t, err)

	_, err = Reconcile(db, Event{Gateway: models.GatewayCard, ProviderRef: session.ProviderReference, AmountCents: 14900})
	require.NoError(t, err)

	// An out-of-order expiry after settlement must not fail the payment
	out, err := Expire(db, session.ProviderReference)
	require.NoError(t, err)
	assert.Equal(t, OutcomeNoop, out.Action)

	var payment models.Payment
	require.NoError(t, db.Where("provider_reference = ?", session.ProviderReference).First(&payment).Error)
	assert.Equal(t, models.PaymentCompleted, payment.Status)
}
