package controllers

import (
	"encoding/json"
	"errors"

	"academy/database"
	"academy/middleware"
	courseModels "academy/models/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// QuizSubmitRequest is parsed by the quiz validator and stashed in Locals
type QuizSubmitRequest struct {
	ModuleID      uint            `json:"module_id" validate:"required"`
	Answers       json.RawMessage `json:"answers"`
	TotalAnswered int             `json:"total_answered" validate:"gte=0"`
}

// QuizGradeRequest carries an admin's score for a submission
type QuizGradeRequest struct {
	Score float64 `json:"score" validate:"gte=0,lte=100"`
}

// GetModuleQuizzes lists the quizzes attached to a module
func GetModuleQuizzes(c *fiber.Ctx) error {
	moduleID := c.Locals("moduleID").(int)

	var quizzes []courseModels.Quiz
	if err := database.Database.Db.Where("module_id = ?", moduleID).
		Order("created_at asc").Find(&quizzes).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quizzes!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quizzes fetched successfully!", quizzes)
}

// SubmitQuiz records or replaces the student's answers for a module.
// The score is untouched here; grading is a separate admin step.
func SubmitQuiz(c *fiber.Ctx) error {
	studentID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	request := c.Locals("quizSubmitRequest").(QuizSubmitRequest)

	var module courseModels.Module
	if err := database.Database.Db.First(&module, request.ModuleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch module!", nil)
	}

	result := courseModels.QuizResult{
		StudentID:     studentID,
		ModuleID:      request.ModuleID,
		Answers:       datatypes.JSON(request.Answers),
		TotalAnswered: request.TotalAnswered,
	}
	if err := database.Database.Db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}, {Name: "module_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"answers", "total_answered", "updated_at"}),
	}).Create(&result).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz submitted successfully!", result)
}

// GradeQuiz lets an admin score a student's quiz submission
func GradeQuiz(c *fiber.Ctx) error {
	resultID := c.Locals("quizResultID").(int)
	request := c.Locals("quizGradeRequest").(QuizGradeRequest)

	var result courseModels.QuizResult
	if err := database.Database.Db.First(&result, resultID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz result not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quiz result!", nil)
	}

	result.Score = request.Score
	if err := database.Database.Db.Save(&result).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to grade quiz!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz graded successfully!", result)
}

// GetQuizResult returns the current student's submission for a module
func GetQuizResult(c *fiber.Ctx) error {
	studentID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	moduleID := c.Locals("moduleID").(int)

	var result courseModels.QuizResult
	if err := database.Database.Db.Where("student_id = ? AND module_id = ?", studentID, moduleID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Quiz result not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch quiz result!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Quiz result fetched successfully!", result)
}
