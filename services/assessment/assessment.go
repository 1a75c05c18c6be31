package assessment

import (
	"encoding/json"
	"fmt"
	"log"

	courseModels "coursebox/models/course"
	certService "coursebox/services/certificate"
	"coursebox/services/scoring"

	"gorm.io/gorm"
)

// SubmitResult is the graded outcome of one submission. When the
// submission passed a final exam, Certificate carries the issued (or
// already existing) certificate; CertificateError carries the reason when
// inline issuance could not complete.
type SubmitResult struct {
	Attempt          *courseModels.Attempt     `json:"attempt"`
	Score            float64                   `json:"score"`
	Passed           bool                      `json:"passed"`
	CorrectCount     int                       `json:"correct_count"`
	TotalCount       int                       `json:"total_count"`
	Certificate      *courseModels.Certificate `json:"certificate,omitempty"`
	CertificateError string                    `json:"certificate_error,omitempty"`
}

// SubmitError is a validation failure surfaced to the caller
type SubmitError struct {
	Status int // suggested HTTP status
	Reason string
}

func (e *SubmitError) Error() string {
	return e.Reason
}

// Submit grades a submission, records the attempt, and, for a passed final
// exam, issues the certificate inline. Grading never fails on malformed
// answers: unknown questions or options simply count as incorrect. The
// attempt row is always inserted before any certificate decision.
func Submit(db *gorm.DB, store certService.Storage, userID, assessmentID uint, answers map[uint]uint) (*SubmitResult, error) {
	var asm courseModels.Assessment
	if err := db.Where("id = ? AND is_deleted = ? AND is_published = ?", assessmentID, false, true).First(&asm).Error; err != nil {
		return nil, &SubmitError{Status: 404, Reason: "assessment not found"}
	}

	var enrollment courseModels.Enrollment
	if err := db.Where("user_id = ? AND course_id = ?", userID, asm.CourseID).First(&enrollment).Error; err != nil {
		return nil, &SubmitError{Status: 403, Reason: "user is not enrolled in this course"}
	}
	if enrollment.Status != courseModels.EnrollmentApproved {
		return nil, &SubmitError{Status: 403, Reason: "enrollment is not approved"}
	}

	keys, err := questionKeys(db, assessmentID)
	if err != nil {
		return nil, err
	}

	result := scoring.Score(keys, answers, asm.PassingScore)

	answersJSON, _ := json.Marshal(answers)
	attempt := courseModels.Attempt{
		UserID:       userID,
		AssessmentID: assessmentID,
		CourseID:     asm.CourseID,
		Answers:      answersJSON,
		Score:        result.Score,
		Passed:       result.Passed,
		CorrectCount: result.CorrectCount,
		TotalCount:   result.TotalCount,
	}
	if err := db.Create(&attempt).Error; err != nil {
		return nil, fmt.Errorf("failed to record attempt: %v", err)
	}

	out := &SubmitResult{
		Attempt:      &attempt,
		Score:        result.Score,
		Passed:       result.Passed,
		CorrectCount: result.CorrectCount,
		TotalCount:   result.TotalCount,
	}

	// A passed final exam triggers certificate issuance inline. Issuance
	// problems are reported on the result, never as a submission failure:
	// the learner keeps the graded attempt either way.
	if result.Passed && asm.Kind == courseModels.AssessmentFinalExam {
		cert, err := certService.Generate(db, store, userID, asm.CourseID, userID)
		if err != nil {
			log.Printf("[ASSESSMENT] Certificate issuance after passing exam %d failed: %v", assessmentID, err)
			out.CertificateError = err.Error()
		} else {
			out.Certificate = cert
		}
	}

	return out, nil
}

// questionKeys loads the grading view of an assessment: question ids paired
// with their single correct option.
func questionKeys(db *gorm.DB, assessmentID uint) ([]scoring.QuestionKey, error) {
	var questions []courseModels.Question
	if err := db.Where("assessment_id = ? AND is_deleted = ?", assessmentID, false).
		Order("order_index asc").Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("failed to load questions: %v", err)
	}

	keys := make([]scoring.QuestionKey, 0, len(questions))
	for _, q := range questions {
		var correct courseModels.AnswerOption
		if err := db.Where("question_id = ? AND is_correct = ? AND is_deleted = ?", q.ID, true, false).
			First(&correct).Error; err != nil {
			// A question without a correct option cannot be answered right;
			// keep it in the total so the learner is not graded on a shorter exam
			keys = append(keys, scoring.QuestionKey{ID: q.ID, CorrectOptionID: 0})
			continue
		}
		keys = append(keys, scoring.QuestionKey{ID: q.ID, CorrectOptionID: correct.ID})
	}
	return keys, nil
}

// ListAttempts returns a user's attempts for one assessment, newest first
func ListAttempts(db *gorm.DB, userID, assessmentID uint) ([]courseModels.Attempt, error) {
	var attempts []courseModels.Attempt
	err := db.Where("user_id = ? AND assessment_id = ?", userID, assessmentID).
		Order("created_at desc").Find(&attempts).Error
	return attempts, err
}
