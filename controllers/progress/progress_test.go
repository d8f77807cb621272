package controllers

import (
	"fmt"
	"testing"

	"academy/database"
	"academy/models"
	courseModels "academy/models/course"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDb(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("setupTestDb() failed: %v", err)
	}
	database.RunMigrations(db)
	return db
}

// seedUnlockedCourse builds a course with module 1 (three lessons) and
// module 2 (one lesson), enrolls a student with unlockedModules modules
// paid for, and seeds the corresponding progress rows.
func seedUnlockedCourse(t *testing.T, db *gorm.DB, unlockedModules int) (models.User, courseModels.Course, [][]courseModels.Lesson) {
	t.Helper()

	student := models.User{Name: "Ada Obi", Email: "ada@example.com", Password: "x"}
	if err := db.Create(&student).Error; err != nil {
		t.Fatalf("create student: %v", err)
	}

	price := 100.0
	course := courseModels.Course{Title: "Frontend Development", Price: &price, Duration: "4 weeks", Status: "published"}
	if err := db.Create(&course).Error; err != nil {
		t.Fatalf("create course: %v", err)
	}

	lessonCounts := []int{3, 1}
	lessonsByModule := make([][]courseModels.Lesson, 0, len(lessonCounts))
	for m, count := range lessonCounts {
		module := courseModels.Module{CourseID: course.ID, Title: fmt.Sprintf("Module %d", m+1), ModuleOrder: m + 1}
		if err := db.Create(&module).Error; err != nil {
			t.Fatalf("create module: %v", err)
		}
		lessons := make([]courseModels.Lesson, 0, count)
		for l := 1; l <= count; l++ {
			lesson := courseModels.Lesson{
				ModuleID:    module.ID,
				Title:       fmt.Sprintf("Lesson %d.%d", m+1, l),
				LessonOrder: l,
				Duration:    "30 minutes",
			}
			if err := db.Create(&lesson).Error; err != nil {
				t.Fatalf("create lesson: %v", err)
			}
			lessons = append(lessons, lesson)
		}
		lessonsByModule = append(lessonsByModule, lessons)
	}

	ledger := courseModels.StudentCourse{
		StudentID:       student.ID,
		CourseID:        course.ID,
		PaymentStatus:   courseModels.LedgerPartial,
		UnlockedModules: unlockedModules,
		TotalModules:    len(lessonCounts),
	}
	if err := db.Create(&ledger).Error; err != nil {
		t.Fatalf("create ledger: %v", err)
	}

	for m := 1; m <= unlockedModules; m++ {
		if err := SeedModuleProgress(db, student.ID, course.ID, m); err != nil {
			t.Fatalf("seed module %d: %v", m, err)
		}
	}

	return student, course, lessonsByModule
}

func notificationCount(t *testing.T, db *gorm.DB, studentID uint, title string) int {
	t.Helper()
	var count int64
	if err := db.Model(&models.Notification{}).
		Where("student_id = ? AND title = ?", studentID, title).Count(&count).Error; err != nil {
		t.Fatalf("count notifications: %v", err)
	}
	return int(count)
}

func TestSeedModuleProgressIsIdempotent(t *testing.T) {
	db := setupTestDb(t)
	student, course, _ := seedUnlockedCourse(t, db, 2)

	var before int64
	db.Model(&courseModels.Progress{}).Where("student_id = ?", student.ID).Count(&before)
	assert.Equal(t, int64(4), before)

	assert.NoError(t, SeedModuleProgress(db, student.ID, course.ID, 1))

	var after int64
	db.Model(&courseModels.Progress{}).Where("student_id = ?", student.ID).Count(&after)
	assert.Equal(t, before, after)

	// a module number the catalog does not have is skipped silently
	assert.NoError(t, SeedModuleProgress(db, student.ID, course.ID, 99))
}

func TestCompleteLessonUpdatesSnapshot(t *testing.T) {
	db := setupTestDb(t)
	student, course, lessons := seedUnlockedCourse(t, db, 2)

	for _, lesson := range lessons[0][:2] {
		result, err := CompleteLesson(db, student.ID, student.Name, lesson.ID)
		assert.NoError(t, err)
		assert.True(t, result.LessonJustCompleted)
		assert.False(t, result.ModuleCompleted)
	}

	snapshot, err := BuildCourseProgress(db, student.ID, course.ID)
	assert.NoError(t, err)
	assert.Equal(t, 4, snapshot.TotalLessons)
	assert.Equal(t, 2, snapshot.CompletedLessons)
	assert.Equal(t, 50.0, snapshot.Percentage)

	// module 1: two of three lessons done
	assert.Equal(t, 66.67, snapshot.Modules[0].Percentage)
	assert.False(t, snapshot.Modules[0].ModuleCompleted)

	// the next lesson pointer lands on the third lesson of module 1
	assert.NotNil(t, snapshot.NextLesson)
	assert.Equal(t, lessons[0][2].ID, snapshot.NextLesson.LessonID)

	assert.Equal(t, 2, notificationCount(t, db, student.ID, "Lesson Completed"))
}

func TestCompleteLessonIsIdempotent(t *testing.T) {
	db := setupTestDb(t)
	student, _, lessons := seedUnlockedCourse(t, db, 2)

	first, err := CompleteLesson(db, student.ID, student.Name, lessons[0][0].ID)
	assert.NoError(t, err)
	assert.True(t, first.LessonJustCompleted)

	second, err := CompleteLesson(db, student.ID, student.Name, lessons[0][0].ID)
	assert.NoError(t, err)
	assert.False(t, second.LessonJustCompleted)

	assert.Equal(t, 1, notificationCount(t, db, student.ID, "Lesson Completed"))
}

func TestModuleCompletionNotifiesOnce(t *testing.T) {
	db := setupTestDb(t)
	student, _, lessons := seedUnlockedCourse(t, db, 2)

	var last *CompletionResult
	for _, lesson := range lessons[0] {
		var err error
		last, err = CompleteLesson(db, student.ID, student.Name, lesson.ID)
		assert.NoError(t, err)
	}
	assert.True(t, last.ModuleCompleted)
	assert.True(t, last.ModuleJustCompleted)
	assert.False(t, last.CourseCompleted)

	// completing a lesson of an already-complete module must not re-notify
	again, err := CompleteLesson(db, student.ID, student.Name, lessons[0][0].ID)
	assert.NoError(t, err)
	assert.True(t, again.ModuleCompleted)
	assert.False(t, again.ModuleJustCompleted)

	assert.Equal(t, 1, notificationCount(t, db, student.ID, "Module Completed"))
}

func TestCourseCompletionIssuesCertificateOnce(t *testing.T) {
	db := setupTestDb(t)
	student, course, lessons := seedUnlockedCourse(t, db, 2)

	var last *CompletionResult
	for _, moduleLessons := range lessons {
		for _, lesson := range moduleLessons {
			var err error
			last, err = CompleteLesson(db, student.ID, student.Name, lesson.ID)
			assert.NoError(t, err)
		}
	}

	assert.True(t, last.CourseCompleted)
	assert.NotNil(t, last.Certificate)
	assert.Equal(t, courseModels.CertificateCourse, last.Certificate.CertificateType)

	// re-completing the final lesson returns the same certificate
	again, err := CompleteLesson(db, student.ID, student.Name, lessons[1][0].ID)
	assert.NoError(t, err)
	assert.True(t, again.CourseCompleted)
	assert.NotNil(t, again.Certificate)
	assert.Equal(t, last.Certificate.ID, again.Certificate.ID)

	var certCount int64
	db.Model(&courseModels.Certificate{}).
		Where("student_id = ? AND course_id = ?", student.ID, course.ID).Count(&certCount)
	assert.Equal(t, int64(1), certCount)

	assert.Equal(t, 1, notificationCount(t, db, student.ID, "Course Completed"))
}

func TestCourseWithLessonLessModuleStillCompletes(t *testing.T) {
	db := setupTestDb(t)
	student, course, lessons := seedUnlockedCourse(t, db, 2)

	// a module that never received lessons must not hold the course open
	empty := courseModels.Module{CourseID: course.ID, Title: "Module 3", ModuleOrder: 3}
	assert.NoError(t, db.Create(&empty).Error)

	var last *CompletionResult
	for _, moduleLessons := range lessons {
		for _, lesson := range moduleLessons {
			var err error
			last, err = CompleteLesson(db, student.ID, student.Name, lesson.ID)
			assert.NoError(t, err)
		}
	}

	assert.True(t, last.CourseCompleted)
	assert.NotNil(t, last.Certificate)

	var cache courseModels.StudentModule
	assert.NoError(t, db.Where("student_id = ? AND module_id = ?", student.ID, empty.ID).First(&cache).Error)
	assert.True(t, cache.Completed)
}

func TestCompleteLessonLockedModule(t *testing.T) {
	db := setupTestDb(t)
	student, _, lessons := seedUnlockedCourse(t, db, 1)

	// module 2 is not paid for
	_, err := CompleteLesson(db, student.ID, student.Name, lessons[1][0].ID)
	assert.ErrorIs(t, err, ErrModuleLocked)
}

func TestCompleteLessonUnknownLesson(t *testing.T) {
	db := setupTestDb(t)
	student, _, _ := seedUnlockedCourse(t, db, 2)

	_, err := CompleteLesson(db, student.ID, student.Name, 9999)
	assert.ErrorIs(t, err, ErrLessonNotFound)
}

func TestOverStayedLessonCanStillComplete(t *testing.T) {
	db := setupTestDb(t)
	student, _, lessons := seedUnlockedCourse(t, db, 2)

	assert.NoError(t, db.Model(&courseModels.Progress{}).
		Where("student_id = ? AND lesson_id = ?", student.ID, lessons[0][0].ID).
		Update("status", courseModels.ProgressOverStayed).Error)

	result, err := CompleteLesson(db, student.ID, student.Name, lessons[0][0].ID)
	assert.NoError(t, err)
	assert.True(t, result.LessonJustCompleted)
	assert.Equal(t, courseModels.ProgressCompleted, result.Progress.Status)
}
