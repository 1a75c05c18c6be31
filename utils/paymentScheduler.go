package utils

import (
	"log"
	"time"

	"coursebox/config"
	"coursebox/database"
	"coursebox/models"

	"github.com/robfig/cron/v3"
)

// InitializePaymentScheduler sets up the stale-payment sweep
func InitializePaymentScheduler() {
	log.Println("[PAYMENT-SCHEDULER] Initializing payment scheduler...")

	c := cron.New()

	// Run daily at 3 AM to fail checkouts the provider never confirmed
	c.AddFunc("0 3 * * *", func() {
		log.Println("[PAYMENT-SCHEDULER] Running daily stale payment sweep...")
		ExpireStalePayments()
	})

	c.Start()
	log.Println("[PAYMENT-SCHEDULER] Payment scheduler started - runs daily at 3 AM")
}

// ExpireStalePayments fails PENDING payments older than the configured
// expiry window. The enrollment is left PENDING so the user can start a
// fresh checkout that reuses the pair.
func ExpireStalePayments() {
	db := database.Database.Db
	cutoff := time.Now().AddDate(0, 0, -config.AppConfig.PaymentExpiryDays)

	result := db.Model(&models.Payment{}).
		Where("status = ? AND created_at < ?", models.PaymentPending, cutoff).
		Update("status", models.PaymentFailed)
	if result.Error != nil {
		log.Printf("[PAYMENT-SCHEDULER] Error sweeping stale payments: %v", result.Error)
		return
	}

	if result.RowsAffected > 0 {
		log.Printf("[PAYMENT-SCHEDULER] Marked %d stale payments as FAILED", result.RowsAffected)
	}
}
