package certificate

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"strings"
	"time"

	"coursebox/config"
	"coursebox/models"
	courseModels "coursebox/models/course"
	"coursebox/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Storage is the blob-store collaborator used for certificate documents
// and template downloads. utils.BlobStorage satisfies it.
type Storage interface {
	Upload(data []byte, filename, contentType, folder string) (string, error)
	Fetch(url string) ([]byte, error)
}

// NotEligibleError carries the human-readable reason issuance was refused
type NotEligibleError struct {
	Reason string
}

func (e *NotEligibleError) Error() string {
	return "not eligible for certificate: " + e.Reason
}

// Generate issues a certificate for the (user, course) pair, or returns the
// existing one unchanged. At most one certificate ever exists per pair: the
// early return handles the common case and the unique index catches races,
// in which case the loser re-fetches the winner's row.
func Generate(db *gorm.DB, store Storage, userID, courseID, issuerID uint) (*courseModels.Certificate, error) {
	// Idempotent fast path
	var existing courseModels.Certificate
	if err := db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&existing).Error; err == nil {
		return &existing, nil
	}

	// Re-validate eligibility; direct calls must not bypass the gating
	if reason := checkRequirements(db, userID, courseID); reason != "" {
		return nil, &NotEligibleError{Reason: reason}
	}

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return nil, fmt.Errorf("user %d not found", userID)
	}

	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return nil, fmt.Errorf("course %d not found", courseID)
	}

	finalScore, ok := latestPassingScore(db, userID, courseID)
	if !ok {
		return nil, &NotEligibleError{Reason: "final exam has not been passed"}
	}

	issuedAt := time.Now()
	hash := certificateHash(userID, courseID, issuedAt)

	fields := utils.CertificateFields{
		StudentName: user.Name,
		CourseTitle: course.Title,
		Score:       finalScore,
		IssueDate:   issuedAt.Format("02 Jan 2006"),
		Code:        hash,
		Issuer:      config.AppConfig.CertificateIssuer,
	}

	document, templateID := renderDocument(db, store, course, fields)

	// Upload before creating the row: a certificate must never reference a
	// document that was not persisted
	filename := fmt.Sprintf("certificate-%s-%s.html", hash, uuid.NewString())
	docURL, err := store.Upload([]byte(document), filename, "text/html", "certificates")
	if err != nil {
		return nil, fmt.Errorf("failed to store certificate document: %v", err)
	}

	cert := courseModels.Certificate{
		UserID:      userID,
		CourseID:    courseID,
		Hash:        hash,
		Signature:   Sign(hash, userID, courseID, finalScore),
		FinalScore:  finalScore,
		DocumentURL: docURL,
		TemplateID:  templateID,
		IssuedBy:    issuerID,
		IssuedAt:    issuedAt,
		IssuerName:  config.AppConfig.CertificateIssuer,
	}

	if err := db.Create(&cert).Error; err != nil {
		// A concurrent call may have won the insert; fall back to its row
		var winner courseModels.Certificate
		if ferr := db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&winner).Error; ferr == nil {
			return &winner, nil
		}
		return nil, fmt.Errorf("failed to save certificate: %v", err)
	}

	return &cert, nil
}

// renderDocument picks the template bound to the course (or the owning
// company) and fills it. Any template problem falls back to the generic
// renderer: rendering must never abort issuance.
func renderDocument(db *gorm.DB, store Storage, course courseModels.Course, fields utils.CertificateFields) (string, *uint) {
	tpl := findTemplate(db, course)
	if tpl == nil {
		return utils.GenericCertificateHTML(fields), nil
	}

	raw, err := store.Fetch(tpl.TemplateURL)
	if err != nil {
		log.Printf("[CERTIFICATE] Template %d download failed, using generic renderer: %v", tpl.ID, err)
		return utils.GenericCertificateHTML(fields), nil
	}

	rendered, err := utils.FillCertificateTemplate(string(raw), fields)
	if err != nil {
		log.Printf("[CERTIFICATE] Template %d rendering failed, using generic renderer: %v", tpl.ID, err)
		return utils.GenericCertificateHTML(fields), nil
	}

	id := tpl.ID
	return rendered, &id
}

func findTemplate(db *gorm.DB, course courseModels.Course) *courseModels.CertificateTemplate {
	var tpl courseModels.CertificateTemplate
	if err := db.Where("course_id = ? AND is_deleted = ?", course.ID, false).First(&tpl).Error; err == nil {
		return &tpl
	}
	if course.CompanyID != nil {
		if err := db.Where("company_id = ? AND is_deleted = ?", *course.CompanyID, false).First(&tpl).Error; err == nil {
			return &tpl
		}
	}
	return nil
}

// certificateHash derives the short public verification code. Truncating
// the digest to 12 hex chars trades collision resistance for a
// human-presentable code; the unique index rejects the rare collision.
func certificateHash(userID, courseID uint, issuedAt time.Time) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d:%d:%d", userID, courseID, issuedAt.UnixNano())))
	return strings.ToUpper(hex.EncodeToString(sum[:])[:12])
}

// Sign computes the symmetric integrity stamp stored with the certificate.
// It is tamper evidence for the row, not a public-key signature.
func Sign(hash string, userID, courseID uint, score float64) string {
	mac := hmac.New(sha256.New, []byte(config.AppConfig.CertificateSecret))
	fmt.Fprintf(mac, "%s:%d:%d:%.2f", hash, userID, courseID, score)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyByHash is the public verification surface: look up a certificate by
// its short code and return issuance metadata.
func VerifyByHash(db *gorm.DB, hash string) (*courseModels.Certificate, error) {
	var cert courseModels.Certificate
	if err := db.Where("hash = ?", strings.ToUpper(strings.TrimSpace(hash))).First(&cert).Error; err != nil {
		return nil, fmt.Errorf("certificate not found")
	}
	return &cert, nil
}
