package course

import (
	"academy/models"

	"gorm.io/gorm"
)

type Assignment struct {
	gorm.Model
	ModuleID    uint   `json:"module_id" gorm:"index;not null"`
	Title       string `json:"title"`
	Description string `json:"description" gorm:"type:text"`

	Module Module `json:"-" gorm:"foreignKey:ModuleID;constraint:OnDelete:CASCADE"`
}

type AssignmentSubmission struct {
	gorm.Model
	StudentID    uint     `json:"student_id" gorm:"index;not null"`
	AssignmentID uint     `json:"assignment_id" gorm:"index;not null"`
	FileURL      string   `json:"file_url"`
	Grade        *float64 `json:"grade"`
	Feedback     string   `json:"feedback" gorm:"type:text"`

	Student    models.User `json:"-" gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`
	Assignment Assignment  `json:"-" gorm:"foreignKey:AssignmentID;constraint:OnDelete:CASCADE"`
}

type Project struct {
	gorm.Model
	ModuleID    uint   `json:"module_id" gorm:"index;not null"`
	Title       string `json:"title"`
	Description string `json:"description" gorm:"type:text"`

	Module Module `json:"-" gorm:"foreignKey:ModuleID;constraint:OnDelete:CASCADE"`
}

type ProjectSubmission struct {
	gorm.Model
	StudentID uint     `json:"student_id" gorm:"index;not null"`
	ProjectID uint     `json:"project_id" gorm:"index;not null"`
	FileURL   string   `json:"file_url"`
	Grade     *float64 `json:"grade"`
	Feedback  string   `json:"feedback" gorm:"type:text"`

	Student models.User `json:"-" gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`
	Project Project     `json:"-" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}
