package certificate

import (
	courseModels "coursebox/models/course"

	"gorm.io/gorm"
)

// Eligibility is the read-only issuance decision for a (user, course) pair
type Eligibility struct {
	CanIssue      bool                      `json:"can_issue"`
	AlreadyExists bool                      `json:"already_exists"`
	Reason        string                    `json:"reason,omitempty"`
	Existing      *courseModels.Certificate `json:"certificate,omitempty"`
}

// CheckEligibility decides whether a certificate may be issued. Checks run
// in order and short-circuit:
//  1. certificate already exists -> AlreadyExists (callers treat as success)
//  2. enrollment missing or not APPROVED
//  3. no passing final-exam attempt
func CheckEligibility(db *gorm.DB, userID, courseID uint) Eligibility {
	var existing courseModels.Certificate
	if err := db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&existing).Error; err == nil {
		return Eligibility{CanIssue: false, AlreadyExists: true, Existing: &existing}
	}

	if reason := checkRequirements(db, userID, courseID); reason != "" {
		return Eligibility{CanIssue: false, Reason: reason}
	}

	return Eligibility{CanIssue: true}
}

// checkRequirements runs the enrollment and exam checks shared by the
// read-only checker and the generator's defensive re-validation. Empty
// string means eligible.
func checkRequirements(db *gorm.DB, userID, courseID uint) string {
	var enrollment courseModels.Enrollment
	if err := db.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error; err != nil {
		return "user is not enrolled in this course"
	}
	if enrollment.Status != courseModels.EnrollmentApproved {
		return "enrollment is not approved"
	}

	var passed int64
	db.Model(&courseModels.Attempt{}).
		Joins("JOIN assessments ON assessments.id = attempts.assessment_id").
		Where("attempts.user_id = ? AND attempts.course_id = ? AND attempts.passed = ? AND assessments.kind = ?",
			userID, courseID, true, courseModels.AssessmentFinalExam).
		Count(&passed)
	if passed == 0 {
		return "final exam has not been passed"
	}

	return ""
}

// latestPassingScore returns the score snapshot of the most recent passing
// final-exam attempt.
func latestPassingScore(db *gorm.DB, userID, courseID uint) (float64, bool) {
	var attempt courseModels.Attempt
	err := db.
		Joins("JOIN assessments ON assessments.id = attempts.assessment_id").
		Where("attempts.user_id = ? AND attempts.course_id = ? AND attempts.passed = ? AND assessments.kind = ?",
			userID, courseID, true, courseModels.AssessmentFinalExam).
		Order("attempts.created_at desc").
		First(&attempt).Error
	if err != nil {
		return 0, false
	}
	return attempt.Score, true
}
