package course

import (
	"academy/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Quiz is a set of questions attached to a module
type Quiz struct {
	gorm.Model
	ModuleID  uint           `json:"module_id" gorm:"index;not null"`
	Title     string         `json:"title"`
	Questions datatypes.JSON `json:"questions"`

	Module Module `json:"-" gorm:"foreignKey:ModuleID;constraint:OnDelete:CASCADE"`
}

// QuizResult holds one student's submission per module. Score stays 0
// until an admin grades it; submission and grading are independent.
type QuizResult struct {
	gorm.Model
	StudentID     uint           `json:"student_id" gorm:"index:idx_student_quiz,unique;not null"`
	ModuleID      uint           `json:"module_id" gorm:"index:idx_student_quiz,unique;not null"`
	Score         float64        `json:"score" gorm:"default:0"`
	TotalAnswered int            `json:"total_answered" gorm:"default:0"`
	Answers       datatypes.JSON `json:"answers"`

	Student models.User `json:"-" gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`
	Module  Module      `json:"-" gorm:"foreignKey:ModuleID;constraint:OnDelete:CASCADE"`
}
