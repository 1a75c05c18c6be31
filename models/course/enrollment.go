package course

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment statuses
const (
	EnrollmentPending  = "PENDING"
	EnrollmentApproved = "APPROVED"
	EnrollmentRejected = "REJECTED"
)

// Enrollment links a user to a course. One row per (user, course) pair.
// Free sign-ups start PENDING until an admin approves; paid sign-ups start
// PENDING and are flipped to APPROVED by the payment webhook.
type Enrollment struct {
	gorm.Model
	UserID     uint       `json:"user_id" gorm:"not null;uniqueIndex:idx_enrollments_user_course"`
	CourseID   uint       `json:"course_id" gorm:"not null;uniqueIndex:idx_enrollments_user_course"`
	Status     string     `json:"status" gorm:"default:'PENDING'"` // PENDING, APPROVED, REJECTED
	ApprovedAt *time.Time `json:"approved_at"`
	ApprovedBy *uint      `json:"approved_by"` // admin id for manual approvals
}
