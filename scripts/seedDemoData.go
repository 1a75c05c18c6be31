package main

import (
	"log"

	"coursebox/config"
	"coursebox/database"
	"coursebox/models"
	courseModels "coursebox/models/course"

	"golang.org/x/crypto/bcrypt"
)

// Seeds an admin account and a demo course with a quiz, a final exam and a
// launch coupon. Safe to run more than once: existing rows are kept.
func main() {
	config.LoadConfig()
	database.ConnectDb()

	db := database.Database.Db

	// Admin account
	var admin models.User
	if err := db.Where("email = ?", "admin@coursebox.local").First(&admin).Error; err != nil {
		hashed, err := bcrypt.GenerateFromPassword([]byte("ChangeMe123!"), config.AppConfig.SaltRound)
		if err != nil {
			log.Fatalf("Failed to hash admin password: %v", err)
		}
		admin = models.User{
			Name:            "Platform Admin",
			Email:           "admin@coursebox.local",
			Role:            models.RoleAdmin,
			Password:        string(hashed),
			IsEmailVerified: true,
		}
		if err := db.Create(&admin).Error; err != nil {
			log.Fatalf("Failed to create admin: %v", err)
		}
		log.Println("Created admin account admin@coursebox.local")
	}

	// Demo course
	var demo courseModels.Course
	if err := db.Where("title = ?", "Go for Backend Engineers").First(&demo).Error; err == nil {
		log.Println("Demo course already present, nothing to do")
		return
	}

	demo = courseModels.Course{
		Title:       "Go for Backend Engineers",
		Description: "A hands-on introduction to building web services in Go.",
		Author:      "Coursebox Team",
		ProgramType: courseModels.ProgramIndividual,
		PriceCents:  14900,
		Currency:    "BRL",
		Status:      "ACTIVE",
		IsPublished: true,
	}
	if err := db.Create(&demo).Error; err != nil {
		log.Fatalf("Failed to create demo course: %v", err)
	}

	lessons := []courseModels.Lesson{
		{CourseID: demo.ID, Title: "Getting Started", ContentType: "TEXT", TextContent: "Installing Go and writing your first program.", OrderIndex: 1, IsPublished: true},
		{CourseID: demo.ID, Title: "HTTP Services", ContentType: "TEXT", TextContent: "Routing, handlers and middleware.", OrderIndex: 2, IsPublished: true},
	}
	for i := range lessons {
		if err := db.Create(&lessons[i]).Error; err != nil {
			log.Fatalf("Failed to create lesson: %v", err)
		}
	}

	seedAssessment(demo.ID, courseModels.AssessmentQuiz, "Lesson 1 Quiz", 70)
	seedAssessment(demo.ID, courseModels.AssessmentFinalExam, "Final Exam", 70)

	coupon := models.Coupon{
		Code:          "LAUNCH10",
		DiscountType:  models.DiscountPercentage,
		DiscountValue: 10,
		IsActive:      true,
		AppliesToAll:  true,
	}
	if err := db.Create(&coupon).Error; err != nil {
		log.Printf("Skipping coupon seed: %v", err)
	}

	log.Printf("Seeded demo course %d with lessons, assessments and coupon LAUNCH10", demo.ID)
}

func seedAssessment(courseID uint, kind, title string, passing float64) {
	db := database.Database.Db

	assessment := courseModels.Assessment{
		CourseID:     courseID,
		Kind:         kind,
		Title:        title,
		PassingScore: passing,
		IsPublished:  true,
	}
	if err := db.Create(&assessment).Error; err != nil {
		log.Fatalf("Failed to create assessment: %v", err)
	}

	questions := []struct {
		text    string
		options []string
		correct int
	}{
		{"Which keyword declares a new variable with inferred type?", []string{"var", ":=", "let"}, 1},
		{"What does a nil map lookup return?", []string{"panic", "the zero value", "an error"}, 1},
	}

	for i, q := range questions {
		question := courseModels.Question{
			AssessmentID: assessment.ID,
			Text:         q.text,
			OrderIndex:   i + 1,
		}
		if err := db.Create(&question).Error; err != nil {
			log.Fatalf("Failed to create question: %v", err)
		}
		for j, opt := range q.options {
			option := courseModels.AnswerOption{
				QuestionID: question.ID,
				Text:       opt,
				IsCorrect:  j == q.correct,
				OrderIndex: j + 1,
			}
			if err := db.Create(&option).Error; err != nil {
				log.Fatalf("Failed to create option: %v", err)
			}
		}
	}
}
