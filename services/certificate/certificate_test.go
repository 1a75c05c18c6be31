package certificate

import (
	"fmt"
	"strings"
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

// fakeStore is an in-memory Storage double. Upload returns a fake URL,
// Fetch serves whatever templates points at.
type fakeStore struct {
	uploads   int
	templates map[string]string
	failFetch bool
}

func (s *fakeStore) Upload(data []byte, filename, contentType, folder string) (string, error) {
	s.uploads++
	return "https://blobs.test/" + folder + "/" + filename, nil
}

func (s *fakeStore) Fetch(url string) ([]byte, error) {
	if s.failFetch {
		return nil, fmt.Errorf("connection refused")
	}
	tpl, ok := s.templates[url]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return []byte(tpl), nil
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

// seedPassedCourse builds a user with an approved enrollment and a passing
// final-exam attempt, returning (userID, courseID).
func seedPassedCourse(t *testing.T, db *gorm.DB, score float64) (uint, uint) {
	t.Helper()

	user := models.User{Name: "Ada Lovelace", Email: fmt.Sprintf("ada-%d@test.local", time.Now().UnixNano()), Password: "x"}
	require.NoError(t, db.Create(&user).Error)

	course := courseModels.Course{Title: "Analytical Engines", Status: "ACTIVE", IsPublished: true}
	require.NoError(t, db.Create(&course).Error)

	now := time.Now()
	enrollment := courseModels.Enrollment{UserID: user.ID, CourseID: course.ID, Status: courseModels.EnrollmentApproved, ApprovedAt: &now}
	require.NoError(t, db.Create(&enrollment).Error)

	exam := courseModels.Assessment{CourseID: course.ID, Kind: courseModels.AssessmentFinalExam, Title: "Final", PassingScore: 70, IsPublished: true}
	require.NoError(t, db.Create(&exam).Error)

	attempt := courseModels.Attempt{UserID: user.ID, AssessmentID: exam.ID, CourseID: course.ID, Score: score, Passed: true, CorrectCount: 9, TotalCount: 10}
	require.NoError(t, db.Create(&attempt).Error)

	return user.ID, course.ID
}

func TestCheckEligibility(t *testing.T) {
	db := newTestDB(t)

	user := models.User{Name: "Bob", Email: "bob@test.local", Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	course := courseModels.Course{Title: "Course", Status: "ACTIVE"}
	require.NoError(t, db.Create(&course).Error)

	// No enrollment
	el := CheckEligibility(db, user.ID, course.ID)
	assert.False(t, el.CanIssue)
	assert.Equal(t, "user is not enrolled in this course", el.Reason)

	// Enrollment still pending
	enrollment := courseModels.Enrollment{UserID: user.ID, CourseID: course.ID, Status: courseModels.EnrollmentPending}
	require.NoError(t, db.Create(&enrollment).Error)
	el = CheckEligibility(db, user.ID, course.ID)
	assert.False(t, el.CanIssue)
	assert.Equal(t, "enrollment is not approved", el.Reason)

	// Approved but no passing final exam
	require.NoError(t, db.Model(&enrollment).Update("status", courseModels.EnrollmentApproved).Error)
	el = CheckEligibility(db, user.ID, course.ID)
	assert.False(t, el.CanIssue)
	assert.Equal(t, "final exam has not been passed", el.Reason)

	// A passed quiz does not count as the final exam
	quiz := courseModels.Assessment{CourseID: course.ID, Kind: courseModels.AssessmentQuiz, IsPublished: true}
	require.NoError(t, db.Create(&quiz).Error)
	require.NoError(t, db.Create(&courseModels.Attempt{UserID: user.ID, AssessmentID: quiz.ID, CourseID: course.ID, Score: 100, Passed: true}).Error)
	el = CheckEligibility(db, user.ID, course.ID)
	assert.False(t, el.CanIssue)

	// Passing the final exam flips the decision
	exam := courseModels.Assessment{CourseID: course.ID, Kind: courseModels.AssessmentFinalExam, IsPublished: true}
	require.NoError(t, db.Create(&exam).Error)
	require.NoError(t, db.Create(&courseModels.Attempt{UserID: user.ID, AssessmentID: exam.ID, CourseID: course.ID, Score: 80, Passed: true}).Error)
	el = CheckEligibility(db, user.ID, course.ID)
	assert.True(t, el.CanIssue)
}

func TestGenerateIssuesCertificate(t *testing.T) {
	db := newTestDB(t)
	store := &fakeStore{}
	userID, courseID := seedPassedCourse(t, db, 85)

	cert, err := Generate(db, store, userID, courseID, userID)
	require.NoError(t, err)

	assert.Len(t, cert.Hash, 12)
	assert.Equal(t, strings.ToUpper(cert.Hash), cert.Hash)
	assert.Equal(t, 85.0, cert.FinalScore)
	assert.Equal(t, Sign(cert.Hash, userID, courseID, 85), cert.Signature)
	assert.Contains(t, cert.DocumentURL, "certificates/")
	assert.Nil(t, cert.TemplateID)
	assert.Equal(t, 1, store.uploads)
}

func TestGenerateIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	store := &fakeStore{}
	userID, courseID := seedPassedCourse(t, db, 90)

	first, err := Generate(db, store, userID, courseID, userID)
	require.NoError(t, err)

	second, err := Generate(db, store, userID, courseID, userID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Hash, second.Hash)
	assert.Equal(t, 1, store.uploads, "second call must not render again")

	var count int64
	db.Model(&courseModels.Certificate{}).Where("user_id = ? AND course_id = ?", userID, courseID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestGenerateRefusesWhenNotEligible(t *testing.T) {
	db := newTestDB(t)
	store := &fakeStore{}

	user := models.User{Name: "Eve", Email: "eve@test.local", Password: "x"}
	require.NoError(t, db.Create(&user).Error)
	course := courseModels.Course{Title: "Course", Status: "ACTIVE"}
	require.NoError(t, db.Create(&course).Error)

	_, err := Generate(db, store, user.ID, course.ID, user.ID)
	require.Error(t, err)
	_, ok := err.(*NotEligibleError)
	assert.True(t, ok)
	assert.Equal(t, 0, store.uploads)
}

func TestGenerateUsesBoundTemplate(t *testing.T) {
	db := newTestDB(t)
	userID, courseID := seedPassedCourse(t, db, 75)

	store := &fakeStore{templates: map[string]string{
		"https://blobs.test/templates/custom.html": "<h1>{{STUDENT_NAME}} finished {{COURSE_TITLE}}</h1>",
	}}
	cID := courseID
	tpl := courseModels.CertificateTemplate{Name: "Custom", CourseID: &cID, TemplateURL: "https://blobs.test/templates/custom.html"}
	require.NoError(t, db.Create(&tpl).Error)

	cert, err := Generate(db, store, userID, courseID, userID)
	require.NoError(t, err)
	require.NotNil(t, cert.TemplateID)
	assert.Equal(t, tpl.ID, *cert.TemplateID)
}

func TestGenerateFallsBackWhenTemplateFetchFails(t *testing.T) {
	db := newTestDB(t)
	userID, courseID := seedPassedCourse(t, db, 75)

	store := &fakeStore{failFetch: true}
	cID := courseID
	tpl := courseModels.CertificateTemplate{Name: "Broken", CourseID: &cID, TemplateURL: "https://blobs.test/templates/broken.html"}
	require.NoError(t, db.Create(&tpl).Error)

	cert, err := Generate(db, store, userID, courseID, userID)
	require.NoError(t, err)
	assert.Nil(t, cert.TemplateID, "generic renderer leaves the template unset")
	assert.NotEmpty(t, cert.DocumentURL)
}

func TestLatestPassingScoreWins(t *testing.T) {
	db := newTestDB(t)
	store := &fakeStore{}
	userID, courseID := seedPassedCourse(t, db, 72)

	// A later, higher passing attempt becomes the snapshot
	var exam courseModels.Assessment
	require.NoError(t, db.Where("course_id = ?", courseID).First(&exam).Error)
	later := courseModels.Attempt{UserID: userID, AssessmentID: exam.ID, CourseID: courseID, Score: 95, Passed: true}
	later.CreatedAt = time.Now().Add(time.Minute)
	require.NoError(t, db.Create(&later).Error)

	cert, err := Generate(db, store, userID, courseID, userID)
	require.NoError(t, err)
	assert.Equal(t, 95.0, cert.FinalScore)
}

func TestVerifyByHash(t *testing.T) {
	db := newTestDB(t)
	store := &fakeStore{}
	userID, courseID := seedPassedCourse(t, db, 88)

	cert, err := Generate(db, store, userID, courseID, userID)
	require.NoError(t, err)

	// Lookup is case and whitespace tolerant
	found, err := VerifyByHash(db, "  "+strings.ToLower(cert.Hash)+" ")
	require.NoError(t, err)
	assert.Equal(t, cert.ID, found.ID)

	_, err = VerifyByHash(db, "000000000000")
	assert.Error(t, err)
}

func TestSignDetectsTampering(t *testing.T) {
	newTestDB(t) // sets the secret

	sig := Sign("ABCDEF123456", 1, 2, 91.5)
	assert.Equal(t, sig, Sign("ABCDEF123456", 1, 2, 91.5))
	assert.NotEqual(t, sig, Sign("ABCDEF123456", 1, 2, 99.0))
	assert.NotEqual(t, sig, Sign("ABCDEF123456", 3, 2, 91.5))
}
