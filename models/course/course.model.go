package course

import "gorm.io/gorm"

// Program types: individual courses sold to students, corporate trainings
// assigned to a company's employees. Both share the same enrollment,
// assessment and certificate machinery.
const (
	ProgramIndividual = "INDIVIDUAL"
	ProgramCorporate  = "CORPORATE"
)

// Course represents a learning course or corporate training track
type Course struct {
	gorm.Model
	Title        string `json:"title"`
	Description  string `json:"description"`
	Author       string `json:"author"`
	ProgramType  string `json:"program_type" gorm:"default:'INDIVIDUAL'"` // INDIVIDUAL, CORPORATE
	CompanyID    *uint  `json:"company_id" gorm:"index"`                  // owner company for corporate trainings
	PriceCents   int64  `json:"price_cents" gorm:"default:0"`             // 0 = free, enroll directly
	Currency     string `json:"currency" gorm:"default:'BRL'"`
	Status       string `json:"status" gorm:"default:'DRAFT'"` // DRAFT, ACTIVE, INACTIVE
	ThumbnailURL string `json:"thumbnail_url"`
	IsPublished  bool   `json:"is_published" gorm:"default:false"`
	IsDeleted    bool   `gorm:"default:false"`
}

// Lesson represents a content unit within a course
type Lesson struct {
	gorm.Model
	CourseID    uint   `json:"course_id" gorm:"index;not null"`
	Title       string `json:"title"`
	Description string `json:"description"`
	ContentType string `json:"content_type" gorm:"default:'TEXT'"` // TEXT, VIDEO
	TextContent string `json:"text_content" gorm:"type:text"`
	VideoURL    string `json:"video_url"`
	OrderIndex  int    `json:"order_index" gorm:"default:0"`
	IsPublished bool   `json:"is_published" gorm:"default:false"`
	IsDeleted   bool   `gorm:"default:false"`
}
