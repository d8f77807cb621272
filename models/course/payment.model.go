package course

import (
	"time"

	"academy/models"

	"gorm.io/gorm"
)

// Payment row statuses
const (
	PaymentAwaiting  = "awaiting_payment"
	PaymentPartial   = "part_payment"
	PaymentCompleted = "completed"
	PaymentDefaulted = "defaulted"
)

// StudentCourse ledger statuses
const (
	LedgerPending  = "pending"
	LedgerPartial  = "part_payment"
	LedgerPaid     = "paid"
	LedgerDefault  = "defaulted"
	LedgerRefunded = "refunded"
)

// Payment is one payment attempt for a course. Status only moves forward:
// awaiting_payment -> completed (verification) or defaulted (overdue sweep).
// DueDate is set when the ledger lands in part_payment after verification.
type Payment struct {
	gorm.Model
	StudentID     uint       `json:"student_id" gorm:"index;not null"`
	CourseID      uint       `json:"course_id" gorm:"index;not null"`
	Amount        float64    `json:"amount" gorm:"not null"`
	PaymentMethod string     `json:"payment_method"`
	Status        string     `json:"status" gorm:"default:'awaiting_payment'"`
	Reference     string     `json:"reference" gorm:"uniqueIndex"`
	Installment   bool       `json:"installment" gorm:"default:false"`
	DueDate       *time.Time `json:"due_date"`
	Receipt       string     `json:"receipt"`

	Student models.User `json:"-" gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`
	Course  Course      `json:"-" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
}

// StudentCourse is the enrollment ledger: one row per (student, course),
// tracking cumulative verified payment and the unlocked module count.
// UnlockedModules never decreases.
type StudentCourse struct {
	gorm.Model
	StudentID       uint    `json:"student_id" gorm:"index:idx_student_course,unique;not null"`
	CourseID        uint    `json:"course_id" gorm:"index:idx_student_course,unique;not null"`
	PaymentType     string  `json:"payment_type"` // full, installment
	PaymentStatus   string  `json:"payment_status" gorm:"default:'pending'"`
	PaidAmount      float64 `json:"paid_amount" gorm:"default:0"`
	UnlockedModules int     `json:"unlocked_modules" gorm:"default:0"`
	TotalModules    int     `json:"total_modules" gorm:"default:0"` // snapshot at enrollment creation

	Student models.User `json:"-" gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`
	Course  Course      `json:"-" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
}
