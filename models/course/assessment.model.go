package course

import "gorm.io/gorm"

// Assessment kinds
const (
	AssessmentQuiz      = "QUIZ"
	AssessmentFinalExam = "FINAL_EXAM"
)

// Assessment is a quiz or final exam attached to a course
type Assessment struct {
	gorm.Model
	CourseID     uint    `json:"course_id" gorm:"index;not null"`
	Kind         string  `json:"kind" gorm:"default:'QUIZ'"` // QUIZ, FINAL_EXAM
	Title        string  `json:"title"`
	PassingScore float64 `json:"passing_score" gorm:"default:70"` // percentage threshold (0-100)
	IsPublished  bool    `json:"is_published" gorm:"default:false"`
	IsDeleted    bool    `gorm:"default:false"`
}

// Question belongs to an assessment; exactly one of its options is correct
type Question struct {
	gorm.Model
	AssessmentID uint   `json:"assessment_id" gorm:"index;not null"`
	Text         string `json:"text" gorm:"type:text"`
	OrderIndex   int    `json:"order_index" gorm:"default:0"`
	IsDeleted    bool   `gorm:"default:false"`
}

// AnswerOption is one choice of a question
type AnswerOption struct {
	gorm.Model
	QuestionID uint   `json:"question_id" gorm:"index;not null"`
	Text       string `json:"text"`
	IsCorrect  bool   `json:"-" gorm:"default:false"`
	OrderIndex int    `json:"order_index" gorm:"default:0"`
	IsDeleted  bool   `gorm:"default:false"`
}
