package course

import "gorm.io/gorm"

// Course represents a learning course in the catalog
type Course struct {
	gorm.Model
	Title            string   `json:"title"`
	ShortDescription string   `json:"short_description"`
	FullDescription  string   `json:"full_description" gorm:"type:text"`
	Price            *float64 `json:"price"` // nil until the course is priced
	Thumbnail        string   `json:"thumbnail"`
	Level            string   `json:"level" gorm:"default:'beginner'"` // beginner, intermediate, advanced
	Language         string   `json:"language" gorm:"default:'English'"`
	Duration         string   `json:"duration"`                      // free text, e.g. "4 weeks"
	Status           string   `json:"status" gorm:"default:'draft'"` // draft, pending_review, published, archived
	IsDeleted        bool     `gorm:"default:false"`
}

// Module is the unlock granularity of a course; ModuleOrder is the
// 1-based unlock sequence within the course.
type Module struct {
	gorm.Model
	CourseID    uint   `json:"course_id" gorm:"index;not null"`
	Title       string `json:"title"`
	Description string `json:"description" gorm:"type:text"`
	ModuleOrder int    `json:"module_order" gorm:"default:1"`
	Duration    string `json:"duration"`

	Course Course `json:"-" gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
}

type Lesson struct {
	gorm.Model
	ModuleID    uint   `json:"module_id" gorm:"index;not null"`
	Title       string `json:"title"`
	Content     string `json:"content" gorm:"type:text"`
	VideoURL    string `json:"video_url"`
	Duration    string `json:"duration"` // free text, e.g. "30 minutes"; drives overstay detection
	LessonOrder int    `json:"lesson_order" gorm:"default:1"`
	FreePreview bool   `json:"is_free_preview" gorm:"default:false"`

	Module Module `json:"-" gorm:"foreignKey:ModuleID;constraint:OnDelete:CASCADE"`
}
