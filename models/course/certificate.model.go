package course

import (
	"time"

	"gorm.io/gorm"
)

// Certificate is an issued proof of completion. At most one exists per
// (user, course) pair; the unique index is the last line of defense when
// two issuance calls race.
type Certificate struct {
	gorm.Model
	UserID       uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_certificates_user_course"`
	CourseID     uint      `json:"course_id" gorm:"not null;uniqueIndex:idx_certificates_user_course"`
	Hash         string    `json:"hash" gorm:"unique;not null"` // short public verification code
	Signature    string    `json:"signature"`                   // HMAC over (hash, user, course, score)
	FinalScore   float64   `json:"final_score"`
	DocumentURL  string    `json:"document_url"`
	TemplateID   *uint     `json:"template_id"` // nil when the generic renderer was used
	IssuedBy     uint      `json:"issued_by"`
	IssuedAt     time.Time `json:"issued_at"`
	IssuerName   string    `json:"issuer_name"`
}

// CertificateTemplate is an optional HTML document template bound to a
// course or a company. Placeholders are filled at issuance time; any
// rendering problem falls back to the built-in generic renderer.
type CertificateTemplate struct {
	gorm.Model
	Name        string `json:"name"`
	CourseID    *uint  `json:"course_id" gorm:"index"`
	CompanyID   *uint  `json:"company_id" gorm:"index"`
	TemplateURL string `json:"template_url"` // blob-store URL of the HTML template
	IsDeleted   bool   `gorm:"default:false"`
}
