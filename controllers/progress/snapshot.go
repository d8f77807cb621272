package controllers

import (
	"errors"
	"math"
	"sort"

	"academy/database"
	"academy/middleware"
	courseModels "academy/models/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var ErrNoModules = errors.New("no modules found for this course")

// LessonPointer identifies the next lesson a student should take.
type LessonPointer struct {
	LessonID    uint   `json:"lesson_id"`
	ModuleID    uint   `json:"module_id"`
	Title       string `json:"title"`
	LessonOrder int    `json:"lesson_order"`
}

type ModuleProgress struct {
	ModuleID         uint           `json:"module_id"`
	Title            string         `json:"title"`
	ModuleOrder      int            `json:"module_order"`
	CompletedLessons int            `json:"completed_lessons"`
	TotalLessons     int            `json:"total_lessons"`
	Percentage       float64        `json:"percentage"`
	ModuleCompleted  bool           `json:"module_completed"`
	NextLesson       *LessonPointer `json:"next_lesson"`
}

type CourseProgress struct {
	CourseID         uint             `json:"course_id"`
	StudentID        uint             `json:"student_id"`
	TotalLessons     int              `json:"total_lessons"`
	CompletedLessons int              `json:"completed_lessons"`
	Percentage       float64          `json:"progress_percentage"`
	Modules          []ModuleProgress `json:"modules"`
	NextLesson       *LessonPointer   `json:"next_lesson"`
}

// BuildCourseProgress is the read-only progress aggregation: per module
// completed/total counts and the next incomplete lesson, plus the same at
// course level. Lessons are walked in module-then-lesson order.
func BuildCourseProgress(db *gorm.DB, studentID, courseID uint) (*CourseProgress, error) {
	var modules []courseModels.Module
	if err := db.Where("course_id = ?", courseID).
		Order("module_order asc").Find(&modules).Error; err != nil {
		return nil, err
	}
	if len(modules) == 0 {
		return nil, ErrNoModules
	}

	moduleIDs := make([]uint, len(modules))
	moduleOrder := make(map[uint]int, len(modules))
	for i, m := range modules {
		moduleIDs[i] = m.ID
		moduleOrder[m.ID] = m.ModuleOrder
	}

	var lessons []courseModels.Lesson
	if err := db.Where("module_id IN ?", moduleIDs).Find(&lessons).Error; err != nil {
		return nil, err
	}
	sort.SliceStable(lessons, func(i, j int) bool {
		if moduleOrder[lessons[i].ModuleID] != moduleOrder[lessons[j].ModuleID] {
			return moduleOrder[lessons[i].ModuleID] < moduleOrder[lessons[j].ModuleID]
		}
		return lessons[i].LessonOrder < lessons[j].LessonOrder
	})

	lessonIDs := make([]uint, len(lessons))
	for i, l := range lessons {
		lessonIDs[i] = l.ID
	}

	var completedIDs []uint
	if err := db.Model(&courseModels.Progress{}).
		Where("student_id = ? AND lesson_id IN ? AND status = ?", studentID, lessonIDs, courseModels.ProgressCompleted).
		Pluck("lesson_id", &completedIDs).Error; err != nil {
		return nil, err
	}
	completedSet := make(map[uint]bool, len(completedIDs))
	for _, id := range completedIDs {
		completedSet[id] = true
	}

	var caches []courseModels.StudentModule
	if err := db.Where("student_id = ? AND module_id IN ?", studentID, moduleIDs).
		Find(&caches).Error; err != nil {
		return nil, err
	}
	cacheMap := make(map[uint]bool, len(caches))
	for _, sm := range caches {
		cacheMap[sm.ModuleID] = sm.Completed
	}

	snapshot := &CourseProgress{
		CourseID:  courseID,
		StudentID: studentID,
		Modules:   make([]ModuleProgress, 0, len(modules)),
	}

	for _, m := range modules {
		mp := ModuleProgress{ModuleID: m.ID, Title: m.Title, ModuleOrder: m.ModuleOrder}
		for _, l := range lessons {
			if l.ModuleID != m.ID {
				continue
			}
			mp.TotalLessons++
			if completedSet[l.ID] {
				mp.CompletedLessons++
			} else if mp.NextLesson == nil {
				mp.NextLesson = &LessonPointer{LessonID: l.ID, ModuleID: l.ModuleID, Title: l.Title, LessonOrder: l.LessonOrder}
			}
		}
		if mp.TotalLessons > 0 {
			mp.Percentage = roundPercent(float64(mp.CompletedLessons) / float64(mp.TotalLessons) * 100)
		}
		if completed, ok := cacheMap[m.ID]; ok {
			mp.ModuleCompleted = completed
		} else {
			mp.ModuleCompleted = mp.CompletedLessons == mp.TotalLessons
		}
		snapshot.Modules = append(snapshot.Modules, mp)
	}

	snapshot.TotalLessons = len(lessons)
	snapshot.CompletedLessons = len(completedSet)
	if snapshot.TotalLessons > 0 {
		snapshot.Percentage = roundPercent(float64(snapshot.CompletedLessons) / float64(snapshot.TotalLessons) * 100)
	}
	for _, l := range lessons {
		if !completedSet[l.ID] {
			snapshot.NextLesson = &LessonPointer{LessonID: l.ID, ModuleID: l.ModuleID, Title: l.Title, LessonOrder: l.LessonOrder}
			break
		}
	}

	return snapshot, nil
}

// GetCourseProgress returns the student's progress snapshot for a course
func GetCourseProgress(c *fiber.Ctx) error {
	studentID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(int)

	snapshot, err := BuildCourseProgress(database.Database.Db, studentID, uint(courseID))
	if err != nil {
		if errors.Is(err, ErrNoModules) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No modules found for this course!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch course progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course progress fetched successfully!", snapshot)
}

func roundPercent(v float64) float64 {
	return math.Round(v*100) / 100
}
