package controllers

import (
	"errors"
	"strconv"

	"academy/database"
	"academy/middleware"
	courseModels "academy/models/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetAllCourses lists published courses with pagination
func GetAllCourses(c *fiber.Ctx) error {
	page, _ := strconv.Atoi(c.Query("page", "1"))
	limit, _ := strconv.Atoi(c.Query("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	offset := (page - 1) * limit

	query := database.Database.Db.Model(&courseModels.Course{}).
		Where("status = ? AND is_deleted = ?", "published", false)

	if level := c.Query("level"); level != "" {
		query = query.Where("level = ?", level)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("title ILIKE ?", "%"+search+"%")
	}

	var total int64
	query.Count(&total)

	var courses []courseModels.Course
	if err := query.Order("created_at desc").Offset(offset).Limit(limit).
		Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", fiber.Map{
		"total":   total,
		"page":    page,
		"limit":   limit,
		"courses": courses,
	})
}

// GetCourseDetails returns one course with its modules and lessons,
// plus the caller's enrollment state when logged in. Lesson content for
// locked modules is withheld, only free previews pass through.
func GetCourseDetails(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).
		First(&course).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course!", nil)
	}

	var modules []courseModels.Module
	if err := database.Database.Db.Where("course_id = ?", course.ID).
		Order("module_order asc").Find(&modules).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch modules!", nil)
	}

	unlockedModules := 0
	var ledger *courseModels.StudentCourse
	if studentID, ok := c.Locals("userId").(uint); ok {
		var enrollment courseModels.StudentCourse
		err := database.Database.Db.Where("student_id = ? AND course_id = ?", studentID, course.ID).
			First(&enrollment).Error
		if err == nil {
			ledger = &enrollment
			unlockedModules = enrollment.UnlockedModules
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch enrollment!", nil)
		}
	}

	type lessonView struct {
		courseModels.Lesson
		Locked bool `json:"locked"`
	}
	type moduleView struct {
		courseModels.Module
		Unlocked bool         `json:"unlocked"`
		Lessons  []lessonView `json:"lessons"`
	}

	moduleViews := make([]moduleView, 0, len(modules))
	for _, module := range modules {
		unlocked := module.ModuleOrder <= unlockedModules

		var lessons []courseModels.Lesson
		if err := database.Database.Db.Where("module_id = ?", module.ID).
			Order("lesson_order asc").Find(&lessons).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch lessons!", nil)
		}

		lessonViews := make([]lessonView, 0, len(lessons))
		for _, lesson := range lessons {
			view := lessonView{Lesson: lesson}
			if !unlocked && !lesson.FreePreview {
				view.Locked = true
				view.Content = ""
				view.VideoURL = ""
			}
			lessonViews = append(lessonViews, view)
		}

		moduleViews = append(moduleViews, moduleView{
			Module:   module,
			Unlocked: unlocked,
			Lessons:  lessonViews,
		})
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course fetched successfully!", fiber.Map{
		"course":     course,
		"modules":    moduleViews,
		"enrollment": ledger,
	})
}
