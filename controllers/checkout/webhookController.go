package controllers

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"log"
	"strconv"

	"coursebox/config"
	"coursebox/database"
	"coursebox/middleware"
	"coursebox/models"
	courseModels "coursebox/models/course"
	checkoutService "coursebox/services/checkout"
	"coursebox/utils"

	"github.com/gofiber/fiber/v2"
)

// CardWebhook receives card-gateway events. Authenticity is an HMAC over
// the raw body carried in X-Webhook-Signature; anything that fails the
// check is rejected with no state change. Every authenticated event is
// acked with 200 so the provider stops retrying, even when it does not
// resolve to one of our enrollments.
func CardWebhook(c *fiber.Ctx) error {
	body := c.Body()

	signature := c.Get("X-Webhook-Signature")
	if !validCardSignature(body, signature) {
		log.Println("[WEBHOOK] Card event rejected: invalid signature")
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid webhook signature!", nil)
	}

	var event struct {
		Type string `json:"type"`
		Data struct {
			ID            string            `json:"id"`
			PaymentMethod string            `json:"payment_method"`
			Amount        int64             `json:"amount"`
			CustomerEmail string            `json:"customer_email"`
			Metadata      map[string]string `json:"metadata"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &event); err != nil {
		log.Printf("[WEBHOOK] Malformed card payload, acking: %v", err)
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Acknowledged", nil)
	}

	switch event.Type {
	case "checkout.session.completed":
		ev := checkoutService.Event{
			Gateway:       models.GatewayCard,
			ProviderRef:   event.Data.ID,
			UserID:        metadataID(event.Data.Metadata, "user_id"),
			CourseID:      metadataID(event.Data.Metadata, "course_id"),
			CouponID:      metadataID(event.Data.Metadata, "coupon_id"),
			CustomerEmail: event.Data.CustomerEmail,
			Method:        event.Data.PaymentMethod,
			AmountCents:   event.Data.Amount,
			Raw:           body,
		}
		outcome, err := checkoutService.Reconcile(database.Database.Db, ev)
		if err != nil {
			log.Printf("[WEBHOOK] Card reconciliation failed for %s: %v", event.Data.ID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Reconciliation failed!", nil)
		}
		notifyOnApproval(outcome)
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Processed", outcome)

	case "checkout.session.expired":
		outcome, err := checkoutService.Expire(database.Database.Db, event.Data.ID)
		if err != nil {
			log.Printf("[WEBHOOK] Card expiry failed for %s: %v", event.Data.ID, err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Expiry failed!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Processed", outcome)

	default:
		log.Printf("[WEBHOOK] Ignoring card event type %s", event.Type)
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Acknowledged", nil)
	}
}

// PixWebhook receives PIX-gateway events, authenticated by a shared-secret
// query parameter
func PixWebhook(c *fiber.Ctx) error {
	secret := c.Query("secret")
	if subtle.ConstantTimeCompare([]byte(secret), []byte(config.AppConfig.PixWebhookSecret)) != 1 {
		log.Println("[WEBHOOK] PIX event rejected: invalid secret")
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid webhook secret!", nil)
	}

	body := c.Body()

	var event struct {
		Event string `json:"event"`
		Data  struct {
			Billing struct {
				ID       string            `json:"id"`
				Amount   int64             `json:"amount"`
				Metadata map[string]string `json:"metadata"`
			} `json:"billing"`
			Payment struct {
				Method string `json:"method"`
			} `json:"payment"`
			Customer struct {
				Name  string `json:"name"`
				Email string `json:"email"`
			} `json:"customer"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &event); err != nil {
		log.Printf("[WEBHOOK] Malformed PIX payload, acking: %v", err)
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Acknowledged", nil)
	}

	if event.Event != "billing.paid" {
		log.Printf("[WEBHOOK] Ignoring PIX event type %s", event.Event)
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Acknowledged", nil)
	}

	ev := checkoutService.Event{
		Gateway:       models.GatewayPix,
		ProviderRef:   event.Data.Billing.ID,
		UserID:        metadataID(event.Data.Billing.Metadata, "user_id"),
		CourseID:      metadataID(event.Data.Billing.Metadata, "course_id"),
		CouponID:      metadataID(event.Data.Billing.Metadata, "coupon_id"),
		CustomerEmail: event.Data.Customer.Email,
		Method:        event.Data.Payment.Method,
		AmountCents:   event.Data.Billing.Amount,
		Raw:           body,
	}

	outcome, err := checkoutService.Reconcile(database.Database.Db, ev)
	if err != nil {
		log.Printf("[WEBHOOK] PIX reconciliation failed for %s: %v", event.Data.Billing.ID, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Reconciliation failed!", nil)
	}
	notifyOnApproval(outcome)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Processed", outcome)
}

func validCardSignature(body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(config.AppConfig.CardWebhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func metadataID(metadata map[string]string, key string) uint {
	if metadata == nil {
		return 0
	}
	id, err := strconv.ParseUint(metadata[key], 10, 32)
	if err != nil {
		return 0
	}
	return uint(id)
}

// notifyOnApproval sends the enrollment-confirmed mail after a settlement
func notifyOnApproval(outcome *checkoutService.Outcome) {
	if outcome == nil || (outcome.Action != checkoutService.OutcomeApproved && outcome.Action != checkoutService.OutcomeCreated) {
		return
	}

	db := database.Database.Db
	var enrollment courseModels.Enrollment
	if err := db.Where("id = ?", outcome.EnrollmentID).First(&enrollment).Error; err != nil {
		return
	}
	var user models.User
	var course courseModels.Course
	if db.Where("id = ?", enrollment.UserID).First(&user).Error != nil ||
		db.Where("id = ?", enrollment.CourseID).First(&course).Error != nil {
		return
	}
	go utils.SendEnrollmentApprovedEmail(user.Name, user.Email, course.Title)
}
