package controllers

import (
	"errors"
	"log"

	certController "academy/controllers/certificate"
	notificationController "academy/controllers/notification"
	"academy/database"
	"academy/middleware"
	courseModels "academy/models/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var (
	ErrLessonNotFound   = errors.New("lesson not found")
	ErrProgressNotFound = errors.New("progress not found")
	ErrModuleLocked     = errors.New("module is locked")
)

// CompletionResult describes everything a single lesson completion caused.
type CompletionResult struct {
	Progress            courseModels.Progress     `json:"progress"`
	LessonJustCompleted bool                      `json:"lesson_just_completed"`
	ModuleCompleted     bool                      `json:"module_completed"`
	ModuleJustCompleted bool                      `json:"module_just_completed"`
	CourseCompleted     bool                      `json:"course_completed"`
	Certificate         *courseModels.Certificate `json:"course_certificate,omitempty"`
}

// StartLesson moves a not_started lesson to started. The Progress row must
// already exist (it is seeded when the module unlocks); starting an
// already-started or completed lesson is a no-op.
func StartLesson(c *fiber.Ctx) error {
	studentID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	lessonID := c.Locals("lessonID").(int)

	var progress courseModels.Progress
	if err := database.Database.Db.Where("student_id = ? AND lesson_id = ?", studentID, lessonID).
		First(&progress).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Progress not found. Unlock this module first!", nil)
	}

	if progress.Status == courseModels.ProgressNotStarted {
		progress.Status = courseModels.ProgressStarted
		if err := database.Database.Db.Save(&progress).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to start lesson!", nil)
		}
		if _, err := notificationController.Send(database.Database.Db, studentID,
			"Lesson Started", "You have started a lesson. Keep going!"); err != nil {
			log.Printf("[PROGRESS] Error notifying student %d: %v", studentID, err)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson started!", progress)
}

// CompleteLesson is the transactional core of lesson completion: flips the
// Progress row, recomputes every module completion cache for the course,
// and issues the course certificate when the last module flips. Runs
// entirely inside tx; the caller owns commit/rollback.
func CompleteLesson(tx *gorm.DB, studentID uint, studentName string, lessonID uint) (*CompletionResult, error) {
	var lesson courseModels.Lesson
	if err := tx.First(&lesson, lessonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLessonNotFound
		}
		return nil, err
	}

	var module courseModels.Module
	if err := tx.First(&module, lesson.ModuleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLessonNotFound
		}
		return nil, err
	}

	// Financial unlock gate: paying for modules 1..N unlocks lessons in
	// module_order <= N only.
	var studentCourse courseModels.StudentCourse
	if err := tx.Where("student_id = ? AND course_id = ?", studentID, module.CourseID).
		First(&studentCourse).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrModuleLocked
		}
		return nil, err
	}
	if studentCourse.UnlockedModules < module.ModuleOrder {
		return nil, ErrModuleLocked
	}

	result := &CompletionResult{}

	var progress courseModels.Progress
	err := tx.Where("student_id = ? AND lesson_id = ?", studentID, lessonID).First(&progress).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		progress = courseModels.Progress{
			StudentID: studentID,
			LessonID:  lessonID,
			Status:    courseModels.ProgressCompleted,
		}
		if err := tx.Create(&progress).Error; err != nil {
			return nil, err
		}
		result.LessonJustCompleted = true
	case err != nil:
		return nil, err
	case progress.Status != courseModels.ProgressCompleted:
		// works from started and over_stayed alike; overstay is advisory
		progress.Status = courseModels.ProgressCompleted
		if err := tx.Save(&progress).Error; err != nil {
			return nil, err
		}
		result.LessonJustCompleted = true
	}
	result.Progress = progress

	if result.LessonJustCompleted {
		if _, err := notificationController.Send(tx, studentID,
			"Lesson Completed", "You have successfully completed a lesson. Keep going!"); err != nil {
			return nil, err
		}
	}

	// Recompute every module cache for the course, not just the touched
	// one, so out-of-order seeding can never leave a stale cache behind.
	var modules []courseModels.Module
	if err := tx.Where("course_id = ?", module.CourseID).Find(&modules).Error; err != nil {
		return nil, err
	}
	moduleIDs := make([]uint, len(modules))
	for i, m := range modules {
		moduleIDs[i] = m.ID
	}

	var lessons []courseModels.Lesson
	if err := tx.Where("module_id IN ?", moduleIDs).Find(&lessons).Error; err != nil {
		return nil, err
	}
	lessonIDs := make([]uint, len(lessons))
	for i, l := range lessons {
		lessonIDs[i] = l.ID
	}

	var completedIDs []uint
	if err := tx.Model(&courseModels.Progress{}).
		Where("student_id = ? AND lesson_id IN ? AND status = ?", studentID, lessonIDs, courseModels.ProgressCompleted).
		Pluck("lesson_id", &completedIDs).Error; err != nil {
		return nil, err
	}
	completedSet := make(map[uint]bool, len(completedIDs))
	for _, id := range completedIDs {
		completedSet[id] = true
	}

	// previous cached value of the touched module, read before the upsert
	var previous courseModels.StudentModule
	wasCompletedBefore := false
	if err := tx.Where("student_id = ? AND module_id = ?", studentID, module.ID).
		First(&previous).Error; err == nil {
		wasCompletedBefore = previous.Completed
	}

	allModulesCompleted := len(modules) > 0
	for _, m := range modules {
		total := 0
		completed := 0
		for _, l := range lessons {
			if l.ModuleID != m.ID {
				continue
			}
			total++
			if completedSet[l.ID] {
				completed++
			}
		}
		// a module with no lessons is vacuously complete
		moduleDone := completed == total
		if !moduleDone {
			allModulesCompleted = false
		}

		var cache courseModels.StudentModule
		err := tx.Where("student_id = ? AND module_id = ?", studentID, m.ID).First(&cache).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			cache = courseModels.StudentModule{StudentID: studentID, ModuleID: m.ID, Completed: moduleDone}
			if err := tx.Create(&cache).Error; err != nil {
				return nil, err
			}
		case err != nil:
			return nil, err
		case cache.Completed != moduleDone:
			cache.Completed = moduleDone
			if err := tx.Save(&cache).Error; err != nil {
				return nil, err
			}
		}

		if m.ID == module.ID {
			result.ModuleCompleted = moduleDone
		}
	}

	if result.ModuleCompleted && !wasCompletedBefore {
		result.ModuleJustCompleted = true
		if _, err := notificationController.Send(tx, studentID,
			"Module Completed", "You have successfully completed a module. Great progress!"); err != nil {
			return nil, err
		}
	}

	if allModulesCompleted {
		result.CourseCompleted = true

		var courseRow courseModels.Course
		if err := tx.First(&courseRow, module.CourseID).Error; err != nil {
			return nil, err
		}

		certificate, created, err := certController.IssueCourseCertificate(tx, studentID, module.CourseID, studentName, courseRow.Title)
		if err != nil {
			return nil, err
		}
		result.Certificate = certificate

		if created {
			if _, err := notificationController.Send(tx, studentID,
				"Course Completed", "Congratulations! You have completed the course and earned your certificate."); err != nil {
				return nil, err
			}
		}
	}

	return result, nil
}

// MarkLessonCompleted completes a lesson for the current student
func MarkLessonCompleted(c *fiber.Ctx) error {
	studentID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}
	studentName, _ := c.Locals("userName").(string)

	lessonID := c.Locals("lessonID").(int)

	var result *CompletionResult
	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		result, txErr = CompleteLesson(tx, studentID, studentName, uint(lessonID))
		return txErr
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrLessonNotFound):
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
		case errors.Is(err, ErrModuleLocked):
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Module is locked. Complete payments to unlock this module!", nil)
		default:
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to complete lesson!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson marked completed!", result)
}
