package models

import "gorm.io/gorm"

const (
	NotificationUnread = "unread"
	NotificationRead   = "read"
)

// Notification is an in-app message for one student, created by domain
// events (payment verified, lesson completed, module completed, ...).
type Notification struct {
	gorm.Model
	StudentID uint   `json:"student_id" gorm:"index;not null"`
	Title     string `json:"title" gorm:"not null"`
	Message   string `json:"message" gorm:"type:text;not null"`
	Status    string `json:"status" gorm:"default:'unread'"` // unread, read

	Student User `json:"-" gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE"`
}
