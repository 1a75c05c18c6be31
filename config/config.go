package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	JWTKey    string
	SaltRound int

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string

	// Certificate issuance
	CertificateSecret string // HMAC key for certificate signatures
	CertificateIssuer string // display name on generated certificates

	// Blob storage (certificate documents, templates)
	StorageBaseURL string
	StorageAPIKey  string

	// Card payment gateway
	CardGatewayURL     string
	CardGatewayKey     string
	CardWebhookSecret  string
	CheckoutSuccessURL string
	CheckoutCancelURL  string

	// PIX payment gateway
	PixGatewayURL    string
	PixGatewayKey    string
	PixWebhookSecret string

	// Pending payments older than this many days are swept to FAILED
	PaymentExpiryDays int

	SendgridAPIKey string
	EmailSender    string
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:      getEnv("PORT", "3000"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "coursebox"),
		DBPort:     getEnv("DB_PORT", "5432"),

		CertificateSecret: getEnv("CERTIFICATE_SECRET", "defaultSecret"),
		CertificateIssuer: getEnv("CERTIFICATE_ISSUER", "Coursebox Academy"),

		StorageBaseURL: getEnv("STORAGE_BASE_URL", "http://localhost:9000"),
		StorageAPIKey:  getEnv("STORAGE_API_KEY", ""),

		CardGatewayURL:     getEnv("CARD_GATEWAY_URL", "https://api.cardpay.test/v1"),
		CardGatewayKey:     getEnv("CARD_GATEWAY_KEY", ""),
		CardWebhookSecret:  getEnv("CARD_WEBHOOK_SECRET", "defaultSecret"),
		CheckoutSuccessURL: getEnv("CHECKOUT_SUCCESS_URL", "http://localhost:3000/checkout/success"),
		CheckoutCancelURL:  getEnv("CHECKOUT_CANCEL_URL", "http://localhost:3000/checkout/cancel"),

		PixGatewayURL:    getEnv("PIX_GATEWAY_URL", "https://api.pixpay.test/v1"),
		PixGatewayKey:    getEnv("PIX_GATEWAY_KEY", ""),
		PixWebhookSecret: getEnv("PIX_WEBHOOK_SECRET", "defaultSecret"),

		PaymentExpiryDays: getEnvInt("PAYMENT_EXPIRY_DAYS", 3),

		SendgridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		EmailSender:    getEnv("EMAIL_SENDER", "noreply@coursebox.test"),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.CertificateSecret == "defaultSecret" {
		log.Println("Warning: Using default CERTIFICATE_SECRET. Update it in your environment.")
	}
	if AppConfig.CardWebhookSecret == "defaultSecret" || AppConfig.PixWebhookSecret == "defaultSecret" {
		log.Println("Warning: Using default webhook secrets. Update them in your environment.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}
