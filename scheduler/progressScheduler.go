package scheduler

import (
	"log"
	"time"

	notificationController "academy/controllers/notification"
	courseModels "academy/models/course"
	"academy/utils"

	"gorm.io/gorm"
)

// ProcessLessonOverstays flags started lessons whose time since the
// last activity exceeds the lesson's stated duration and notifies the
// student. Lessons with no parseable duration are left alone. Returns
// the number of rows flagged.
func ProcessLessonOverstays(db *gorm.DB, now time.Time) int {
	var inProgress []courseModels.Progress
	if err := db.Preload("Lesson").
		Where("status = ?", courseModels.ProgressStarted).
		Find(&inProgress).Error; err != nil {
		log.Printf("[PROGRESS-SCHEDULER] Error fetching started lessons: %v", err)
		return 0
	}

	flagged := 0
	for _, progress := range inProgress {
		minutes, ok := utils.DurationMinutes(progress.Lesson.Duration)
		if !ok {
			continue
		}
		if now.Sub(progress.UpdatedAt) <= time.Duration(minutes)*time.Minute {
			continue
		}
		if err := db.Model(&courseModels.Progress{}).
			Where("id = ?", progress.ID).
			Update("status", courseModels.ProgressOverStayed).Error; err != nil {
			log.Printf("[PROGRESS-SCHEDULER] Error flagging progress %d: %v", progress.ID, err)
			continue
		}
		flagged++

		if _, err := notificationController.Send(db, progress.StudentID,
			"Lesson Over-Stayed",
			"You have stayed on the lesson \""+progress.Lesson.Title+"\" past its expected duration. Complete it to keep your progress moving."); err != nil {
			log.Printf("[PROGRESS-SCHEDULER] Error notifying student %d: %v", progress.StudentID, err)
		}
	}

	if flagged > 0 {
		log.Printf("[PROGRESS-SCHEDULER] Flagged %d over-stayed lessons", flagged)
	}
	return flagged
}
