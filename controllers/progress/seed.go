package controllers

import (
	courseModels "academy/models/course"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedModuleProgress creates not_started Progress rows for every lesson of
// the course's Nth module (1-based module_order) once that module becomes
// financially unlocked. Create-if-absent on (student, lesson): re-seeding
// an already-seeded module neither duplicates rows nor resets completed
// ones. Modules the catalog has not defined yet, or modules without
// lessons, are skipped silently.
func SeedModuleProgress(tx *gorm.DB, studentID, courseID uint, moduleNumber int) error {
	var module courseModels.Module
	if err := tx.Where("course_id = ? AND module_order = ?", courseID, moduleNumber).
		First(&module).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return err
	}

	var lessons []courseModels.Lesson
	if err := tx.Where("module_id = ?", module.ID).Find(&lessons).Error; err != nil {
		return err
	}
	if len(lessons) == 0 {
		return nil
	}

	rows := make([]courseModels.Progress, 0, len(lessons))
	for _, lesson := range lessons {
		rows = append(rows, courseModels.Progress{
			StudentID: studentID,
			LessonID:  lesson.ID,
			Status:    courseModels.ProgressNotStarted,
		})
	}

	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "student_id"}, {Name: "lesson_id"}},
		DoNothing: true,
	}).Create(&rows).Error
}
