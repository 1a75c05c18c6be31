package course

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Attempt is one graded submission of an assessment. Rows are append-only:
// they are inserted by the submission flow and never updated afterwards.
type Attempt struct {
	gorm.Model
	UserID       uint           `json:"user_id" gorm:"index;not null"`
	AssessmentID uint           `json:"assessment_id" gorm:"index;not null"`
	CourseID     uint           `json:"course_id" gorm:"index;not null"`
	Answers      datatypes.JSON `json:"answers"` // questionID -> chosen optionID
	Score        float64        `json:"score"`   // 0-100
	Passed       bool           `json:"passed" gorm:"default:false"`
	CorrectCount int            `json:"correct_count"`
	TotalCount   int            `json:"total_count"`
}
