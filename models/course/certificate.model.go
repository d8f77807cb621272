package course

import (
	"time"

	"academy/models"

	"gorm.io/gorm"
)

const (
	CertificateCourse = "course"
	CertificateModule = "module"
)

// Certificate is issued once per (student, course, type). The unique index
// is the authority on uniqueness; issuance treats a duplicate-key error as
// "already issued" and returns the existing row.
type Certificate struct {
	gorm.Model
	StudentID         uint      `json:"student_id" gorm:"index:idx_cert_once,unique;not null"`
	CourseID          uint      `json:"course_id" gorm:"index:idx_cert_once,unique;not null"`
	ModuleID          *uint     `json:"module_id"`
	CertificateType   string    `json:"certificate_type" gorm:"index:idx_cert_once,unique;not null"` // course, module
	CertificateNumber string    `json:"certificate_number" gorm:"unique"`
	IssuedAt          time.Time `json:"issued_at"`
	FileURL           string    `json:"file_url"`

	Student models.User `json:"-" gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`
	Course  Course      `json:"-" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
}
