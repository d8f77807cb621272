package course

import (
	"academy/models"

	"gorm.io/gorm"
)

// Lesson progress statuses. over_stayed is advisory, not terminal: an
// over_stayed lesson can still be completed.
const (
	ProgressNotStarted = "not_started"
	ProgressStarted    = "started"
	ProgressOverStayed = "over_stayed"
	ProgressCompleted  = "completed"
)

// Progress tracks one student's state on one lesson. A row exists iff the
// lesson's module has been financially unlocked for the student.
type Progress struct {
	gorm.Model
	StudentID uint   `json:"student_id" gorm:"index:idx_student_lesson,unique;not null"`
	LessonID  uint   `json:"lesson_id" gorm:"index:idx_student_lesson,unique;not null"`
	Status    string `json:"status" gorm:"default:'not_started'"`

	Student models.User `json:"-" gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`
	Lesson  Lesson      `json:"-" gorm:"foreignKey:LessonID;constraint:OnDelete:CASCADE"`
}

// StudentModule is the derived completion cache: Completed is true iff
// every lesson in the module has a completed Progress row.
type StudentModule struct {
	gorm.Model
	StudentID uint `json:"student_id" gorm:"index:idx_student_module,unique;not null"`
	ModuleID  uint `json:"module_id" gorm:"index:idx_student_module,unique;not null"`
	Completed bool `json:"completed" gorm:"default:false"`

	Student models.User `json:"-" gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`
	Module  Module      `json:"-" gorm:"foreignKey:ModuleID;constraint:OnDelete:CASCADE"`
}
