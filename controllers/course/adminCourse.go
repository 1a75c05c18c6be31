package controllers

import (
	"coursebox/database"
	"coursebox/middleware"
	courseModels "coursebox/models/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CreateCourse creates a course or corporate training (admin only)
func CreateCourse(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCourse").(*struct {
		Title       string `json:"title" validate:"required,min=3"`
		Description string `json:"description"`
		Author      string `json:"author"`
		ProgramType string `json:"program_type" validate:"omitempty,oneof=INDIVIDUAL CORPORATE"`
		CompanyID   *uint  `json:"company_id"`
		PriceCents  int64  `json:"price_cents" validate:"gte=0"`
		Currency    string `json:"currency"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	programType := reqData.ProgramType
	if programType == "" {
		programType = courseModels.ProgramIndividual
	}
	if programType == courseModels.ProgramCorporate && reqData.CompanyID == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Corporate trainings require a company!", nil)
	}

	currency := reqData.Currency
	if currency == "" {
		currency = "BRL"
	}

	course := courseModels.Course{
		Title:       reqData.Title,
		Description: reqData.Description,
		Author:      reqData.Author,
		ProgramType: programType,
		CompanyID:   reqData.CompanyID,
		PriceCents:  reqData.PriceCents,
		Currency:    currency,
		Status:      "ACTIVE",
		IsPublished: true,
	}

	if err := database.Database.Db.Create(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

// CreateLesson adds a content unit to a course (admin only)
func CreateLesson(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	reqData, ok := c.Locals("validatedLesson").(*struct {
		Title       string `json:"title" validate:"required"`
		Description string `json:"description"`
		ContentType string `json:"content_type" validate:"omitempty,oneof=TEXT VIDEO"`
		TextContent string `json:"text_content"`
		VideoURL    string `json:"video_url"`
		OrderIndex  int    `json:"order_index"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	contentType := reqData.ContentType
	if contentType == "" {
		contentType = "TEXT"
	}

	lesson := courseModels.Lesson{
		CourseID:    uint(courseID),
		Title:       reqData.Title,
		Description: reqData.Description,
		ContentType: contentType,
		TextContent: reqData.TextContent,
		VideoURL:    reqData.VideoURL,
		OrderIndex:  reqData.OrderIndex,
		IsPublished: true,
	}

	if err := database.Database.Db.Create(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Lesson created successfully!", lesson)
}

// AssessmentInput is the admin payload for an assessment with its questions
type AssessmentInput struct {
	Kind         string  `json:"kind" validate:"required,oneof=QUIZ FINAL_EXAM"`
	Title        string  `json:"title" validate:"required"`
	PassingScore float64 `json:"passing_score" validate:"gte=0,lte=100"`
	Questions    []struct {
		Text    string `json:"text" validate:"required"`
		Options []struct {
			Text      string `json:"text" validate:"required"`
			IsCorrect bool   `json:"is_correct"`
		} `json:"options" validate:"required,min=2"`
	} `json:"questions" validate:"required,min=1"`
}

// CreateAssessment creates a quiz or final exam with all of its questions
// in one transaction (admin only). Every question must carry exactly one
// correct option.
func CreateAssessment(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	reqData, ok := c.Locals("validatedAssessment").(*AssessmentInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	// Exactly one correct option per question
	for i, q := range reqData.Questions {
		correct := 0
		for _, opt := range q.Options {
			if opt.IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false,
				"Each question must have exactly one correct option!", fiber.Map{"question_index": i})
		}
	}

	// One final exam per course
	if reqData.Kind == courseModels.AssessmentFinalExam {
		var count int64
		database.Database.Db.Model(&courseModels.Assessment{}).
			Where("course_id = ? AND kind = ? AND is_deleted = ?", courseID, courseModels.AssessmentFinalExam, false).
			Count(&count)
		if count > 0 {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Course already has a final exam!", nil)
		}
	}

	assessment := courseModels.Assessment{
		CourseID:     uint(courseID),
		Kind:         reqData.Kind,
		Title:        reqData.Title,
		PassingScore: reqData.PassingScore,
		IsPublished:  true,
	}

	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&assessment).Error; err != nil {
			return err
		}
		for qi, q := range reqData.Questions {
			question := courseModels.Question{
				AssessmentID: assessment.ID,
				Text:         q.Text,
				OrderIndex:   qi,
			}
			if err := tx.Create(&question).Error; err != nil {
				return err
			}
			for oi, opt := range q.Options {
				option := courseModels.AnswerOption{
					QuestionID: question.ID,
					Text:       opt.Text,
					IsCorrect:  opt.IsCorrect,
					OrderIndex: oi,
				}
				if err := tx.Create(&option).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create assessment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Assessment created successfully!", assessment)
}

// BindCertificateTemplate binds an uploaded template to a course or company
// (admin only)
func BindCertificateTemplate(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedTemplate").(*struct {
		Name        string `json:"name" validate:"required"`
		CourseID    *uint  `json:"course_id"`
		CompanyID   *uint  `json:"company_id"`
		TemplateURL string `json:"template_url" validate:"required,url"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.CourseID == nil && reqData.CompanyID == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Template must be bound to a course or a company!", nil)
	}

	tpl := courseModels.CertificateTemplate{
		Name:        reqData.Name,
		CourseID:    reqData.CourseID,
		CompanyID:   reqData.CompanyID,
		TemplateURL: reqData.TemplateURL,
	}

	if err := database.Database.Db.Create(&tpl).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to bind template!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Template bound successfully!", tpl)
}
