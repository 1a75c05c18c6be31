package assessment

import (
	"fmt"
	"testing"
	"time"

	"coursebox/config"
	"coursebox/database"
	"coursebox/models"
	courseModels "coursebox/models/course"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeStore struct{}

func (fakeStore) Upload(data []byte, filename, contentType, folder string) (string, error) {
	return "https://blobs.test/" + folder + "/" + filename, nil
}

func (fakeStore) Fetch(url string) ([]byte, error) {
	return nil, fmt.Errorf("not found")
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	database.RunMigrations(db)

	if config.AppConfig == nil {
		config.LoadConfig()
	}
	config.AppConfig.CertificateSecret = "test-secret"
	config.AppConfig.CertificateIssuer = "Coursebox"
	return db
}

type fixture struct {
	userID    uint
	courseID  uint
	examID    uint
	questions []uint // question ids
	correct   []uint // correct option ids, parallel to questions
}

// seedExam builds an enrolled user and a published assessment with three
// questions of three options each.
func seedExam(t *testing.T, db *gorm.DB, kind string, enrollmentStatus string) fixture {
	t.Helper()

	user := models.User{Name: "Student", Email: "student@test.local", Password: "x"}
	require.NoError(t, db.Create(&user).Error)

	course := courseModels.Course{Title: "Course", Status: "ACTIVE", IsPublished: true}
	require.NoError(t, db.Create(&course).Error)

	if enrollmentStatus != "" {
		enrollment := courseModels.Enrollment{UserID: user.ID, CourseID: course.ID, Status: enrollmentStatus}
		require.NoError(t, db.Create(&enrollment).Error)
	}

	exam := courseModels.Assessment{CourseID: course.ID, Kind: kind, Title: "Exam", PassingScore: 70, IsPublished: true}
	require.NoError(t, db.Create(&exam).Error)

	fx := fixture{userID: user.ID, courseID: course.ID, examID: exam.ID}
	for i := 0; i < 3; i++ {
		q := courseModels.Question{AssessmentID: exam.ID, Text: fmt.Sprintf("Q%d", i+1), OrderIndex: i + 1}
		require.NoError(t, db.Create(&q).Error)
		fx.questions = append(fx.questions, q.ID)
		for j := 0; j < 3; j++ {
			opt := courseModels.AnswerOption{QuestionID: q.ID, Text: fmt.Sprintf("O%d", j+1), IsCorrect: j == 0, OrderIndex: j + 1}
			require.NoError(t, db.Create(&opt).Error)
			if j == 0 {
				fx.correct = append(fx.correct, opt.ID)
			}
		}
	}
	return fx
}

func (f fixture) allCorrect() map[uint]uint {
	answers := make(map[uint]uint)
	for i, q := range f.questions {
		answers[q] = f.correct[i]
	}
	return answers
}

func TestSubmitRejectsUnknownAssessment(t *testing.T) {
	db := newTestDB(t)

	_, err := Submit(db, fakeStore{}, 1, 999, nil)
	require.Error(t, err)
	se, ok := err.(*SubmitError)
	require.True(t, ok)
	assert.Equal(t, 404, se.Status)
}

func TestSubmitRequiresApprovedEnrollment(t *testing.T) {
	db := newTestDB(t)

	// Not enrolled at all
	fx := seedExam(t, db, courseModels.AssessmentQuiz, "")
	_, err := Submit(db, fakeStore{}, fx.userID, fx.examID, fx.allCorrect())
	require.Error(t, err)
	se, ok := err.(*SubmitError)
	require.True(t, ok)
	assert.Equal(t, 403, se.Status)
	assert.Equal(t, "user is not enrolled in this course", se.Reason)

	// Enrollment pending approval
	db = newTestDB(t)
	fx = seedExam(t, db, courseModels.AssessmentQuiz, courseModels.EnrollmentPending)
	_, err = Submit(db, fakeStore{}, fx.userID, fx.examID, fx.allCorrect())
	require.Error(t, err)
	se, ok = err.(*SubmitError)
	require.True(t, ok)
	assert.Equal(t, "enrollment is not approved", se.Reason)
}

func TestSubmitGradesQuiz(t *testing.T) {
	db := newTestDB(t)
	fx := seedExam(t, db, courseModels.AssessmentQuiz, courseModels.EnrollmentApproved)

	// Two of three correct: 66.67, below the 70 threshold
	answers := fx.allCorrect()
	answers[fx.questions[2]] = fx.correct[2] + 1

	result, err := Submit(db, fakeStore{}, fx.userID, fx.examID, answers)
	require.NoError(t, err)
	assert.False(t, result.Passed)
	assert.Equal(t, 2, result.CorrectCount)
	assert.Equal(t, 3, result.TotalCount)
	assert.InDelta(t, 66.67, result.Score, 0.01)
	assert.Nil(t, result.Certificate)

	var attempts int64
	db.Model(&courseModels.Attempt{}).Where("user_id = ?", fx.userID).Count(&attempts)
	assert.Equal(t, int64(1), attempts)
}

func TestSubmitPassedQuizDoesNotIssueCertificate(t *testing.T) {
	db := newTestDB(t)
	fx := seedExam(t, db, courseModels.AssessmentQuiz, courseModels.EnrollmentApproved)

	result, err := Submit(db, fakeStore{}, fx.userID, fx.examID, fx.allCorrect())
	require.NoError(t, err)
	assert.True(t, result.Passed)
	assert.Nil(t, result.Certificate)
	assert.Empty(t, result.CertificateError)

	var certs int64
	db.Model(&courseModels.Certificate{}).Count(&certs)
	assert.Equal(t, int64(0), certs)
}

func TestSubmitPassedFinalExamIssuesCertificate(t *testing.T) {
	db := newTestDB(t)
	fx := seedExam(t, db, courseModels.AssessmentFinalExam, courseModels.EnrollmentApproved)

	result, err := Submit(db, fakeStore{}, fx.userID, fx.examID, fx.allCorrect())
	require.NoError(t, err)
	assert.True(t, result.Passed)
	require.NotNil(t, result.Certificate)
	assert.Equal(t, fx.userID, result.Certificate.UserID)
	assert.Equal(t, fx.courseID, result.Certificate.CourseID)
	assert.Equal(t, 100.0, result.Certificate.FinalScore)

	// Retaking the passed exam returns the existing certificate unchanged
	again, err := Submit(db, fakeStore{}, fx.userID, fx.examID, fx.allCorrect())
	require.NoError(t, err)
	require.NotNil(t, again.Certificate)
	assert.Equal(t, result.Certificate.ID, again.Certificate.ID)

	var certs int64
	db.Model(&courseModels.Certificate{}).Count(&certs)
	assert.Equal(t, int64(1), certs)
}

func TestSubmitFailedFinalExamRecordsAttemptOnly(t *testing.T) {
	db := newTestDB(t)
	fx := seedExam(t, db, courseModels.AssessmentFinalExam, courseModels.EnrollmentApproved)

	result, err := Submit(db, fakeStore{}, fx.userID, fx.examID, map[uint]uint{})
	require.NoError(t, err)
	assert.False(t, result.Passed)
	assert.Equal(t, 0.0, result.Score)
	assert.Nil(t, result.Certificate)

	var attempts int64
	db.Model(&courseModels.Attempt{}).Where("user_id = ?", fx.userID).Count(&attempts)
	assert.Equal(t, int64(1), attempts)
}

func TestListAttemptsNewestFirst(t *testing.T) {
	db := newTestDB(t)
	fx := seedExam(t, db, courseModels.AssessmentQuiz, courseModels.EnrollmentApproved)

	base := time.Now().Add(-time.Hour)
	for i, score := range []float64{10, 50, 90} {
		attempt := courseModels.Attempt{UserID: fx.userID, AssessmentID: fx.examID, CourseID: fx.courseID, Score: score}
		attempt.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, db.Create(&attempt).Error)
	}

	attempts, err := ListAttempts(db, fx.userID, fx.examID)
	require.NoError(t, err)
	require.Len(t, attempts, 3)
	assert.Equal(t, 90.0, attempts[0].Score)
	assert.Equal(t, 10.0, attempts[2].Score)
}
