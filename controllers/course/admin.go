package controllers

import (
	"errors"

	"academy/database"
	"academy/middleware"
	courseModels "academy/models/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CourseCreateRequest is parsed by the course validator
type CourseCreateRequest struct {
	Title            string   `json:"title" validate:"required,min=3"`
	ShortDescription string   `json:"short_description"`
	FullDescription  string   `json:"full_description"`
	Price            *float64 `json:"price" validate:"omitempty,gte=0"`
	Level            string   `json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
	Language         string   `json:"language"`
	Duration         string   `json:"duration"`
	Status           string   `json:"status" validate:"omitempty,oneof=draft pending_review published archived"`
}

// ModuleCreateRequest adds one module to a course
type ModuleCreateRequest struct {
	CourseID    uint   `json:"course_id" validate:"required"`
	Title       string `json:"title" validate:"required,min=3"`
	Description string `json:"description"`
	ModuleOrder int    `json:"module_order" validate:"required,gte=1"`
	Duration    string `json:"duration"`
}

// LessonCreateRequest adds one lesson to a module
type LessonCreateRequest struct {
	ModuleID    uint   `json:"module_id" validate:"required"`
	Title       string `json:"title" validate:"required,min=3"`
	Content     string `json:"content"`
	VideoURL    string `json:"video_url"`
	Duration    string `json:"duration"`
	LessonOrder int    `json:"lesson_order" validate:"required,gte=1"`
	FreePreview bool   `json:"is_free_preview"`
}

// CreateCourse creates a catalog entry, draft by default
func CreateCourse(c *fiber.Ctx) error {
	request := c.Locals("courseCreateRequest").(CourseCreateRequest)

	course := courseModels.Course{
		Title:            request.Title,
		ShortDescription: request.ShortDescription,
		FullDescription:  request.FullDescription,
		Price:            request.Price,
		Level:            request.Level,
		Language:         request.Language,
		Duration:         request.Duration,
		Status:           request.Status,
	}
	if course.Level == "" {
		course.Level = "beginner"
	}
	if course.Status == "" {
		course.Status = "draft"
	}

	if err := database.Database.Db.Create(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

// UpdateCourse applies a partial update to a course
func UpdateCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)
	request := c.Locals("courseCreateRequest").(CourseCreateRequest)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).
		First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course!", nil)
	}

	course.Title = request.Title
	course.ShortDescription = request.ShortDescription
	course.FullDescription = request.FullDescription
	if request.Price != nil {
		course.Price = request.Price
	}
	if request.Level != "" {
		course.Level = request.Level
	}
	if request.Language != "" {
		course.Language = request.Language
	}
	if request.Duration != "" {
		course.Duration = request.Duration
	}
	if request.Status != "" {
		course.Status = request.Status
	}

	if err := database.Database.Db.Save(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", course)
}

// DeleteCourse soft-deletes a course from the catalog
func DeleteCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	result := database.Database.Db.Model(&courseModels.Course{}).
		Where("id = ? AND is_deleted = ?", courseID, false).
		Update("is_deleted", true)
	if result.Error != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}
	if result.RowsAffected == 0 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully!", nil)
}

// CreateModule appends a module to a course
func CreateModule(c *fiber.Ctx) error {
	request := c.Locals("moduleCreateRequest").(ModuleCreateRequest)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", request.CourseID, false).
		First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course!", nil)
	}

	module := courseModels.Module{
		CourseID:    course.ID,
		Title:       request.Title,
		Description: request.Description,
		ModuleOrder: request.ModuleOrder,
		Duration:    request.Duration,
	}
	if err := database.Database.Db.Create(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create module!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Module created successfully!", module)
}

// CreateLesson appends a lesson to a module
func CreateLesson(c *fiber.Ctx) error {
	request := c.Locals("lessonCreateRequest").(LessonCreateRequest)

	var module courseModels.Module
	if err := database.Database.Db.First(&module, request.ModuleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch module!", nil)
	}

	lesson := courseModels.Lesson{
		ModuleID:    module.ID,
		Title:       request.Title,
		Content:     request.Content,
		VideoURL:    request.VideoURL,
		Duration:    request.Duration,
		LessonOrder: request.LessonOrder,
		FreePreview: request.FreePreview,
	}
	if err := database.Database.Db.Create(&lesson).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create lesson!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Lesson created successfully!", lesson)
}
