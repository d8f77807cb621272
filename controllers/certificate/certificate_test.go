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

// seedCompletedCourse enrolls a student in a two-module course with
// every module cache marked complete.
func seedCompletedCourse(t *testing.T, db *gorm.DB, allComplete bool) (models.User, courseModels.Course) {
	t.Helper()

	student := models.User{Name: "Ada Obi", Email: "ada@example.com", Password: "x"}
	if err := db.Create(&student).Error; err != nil {
		t.Fatalf("create student: %v", err)
	}
	course := courseModels.Course{Title: "Frontend Development", Status: "published"}
	if err := db.Create(&course).Error; err != nil {
		t.Fatalf("create course: %v", err)
	}

	for m := 1; m <= 2; m++ {
		module := courseModels.Module{CourseID: course.ID, Title: fmt.Sprintf("Module %d", m), ModuleOrder: m}
		if err := db.Create(&module).Error; err != nil {
			t.Fatalf("create module: %v", err)
		}
		lesson := courseModels.Lesson{ModuleID: module.ID, Title: fmt.Sprintf("Lesson %d.1", m), LessonOrder: 1}
		if err := db.Create(&lesson).Error; err != nil {
			t.Fatalf("create lesson: %v", err)
		}
		completed := allComplete || m == 1
		cache := courseModels.StudentModule{StudentID: student.ID, ModuleID: module.ID, Completed: completed}
		if err := db.Create(&cache).Error; err != nil {
			t.Fatalf("create module cache: %v", err)
		}
	}

	return student, course
}

func stubUpload(t *testing.T) *int {
	t.Helper()
	calls := 0
	restore := uploadCertificate
	uploadCertificate = func(data []byte, filename string) (string, error) {
		calls++
		return "https://cdn.example.com/" + filename, nil
	}
	t.Cleanup(func() { uploadCertificate = restore })
	return &calls
}

func TestIssueCourseCertificateCreatesOnce(t *testing.T) {
	db := setupTestDb(t)
	student, course := seedCompletedCourse(t, db, true)
	uploads := stubUpload(t)

	first, created, err := IssueCourseCertificate(db, student.ID, course.ID, student.Name, course.Title)
	assert.NoError(t, err)
	assert.True(t, created)
	assert.NotEmpty(t, first.CertificateNumber)
	assert.Contains(t, first.FileURL, "https://cdn.example.com/")

	// repeat issuance returns the existing row without re-rendering
	second, created, err := IssueCourseCertificate(db, student.ID, course.ID, student.Name, course.Title)
	assert.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, *uploads)

	var count int64
	db.Model(&courseModels.Certificate{}).Where("student_id = ?", student.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestIssueCourseCertificateIgnoresLessonLessModules(t *testing.T) {
	db := setupTestDb(t)
	student, course := seedCompletedCourse(t, db, true)
	stubUpload(t)

	// a lessonless module carries no cache row and must not block issuance
	empty := courseModels.Module{CourseID: course.ID, Title: "Module 3", ModuleOrder: 3}
	assert.NoError(t, db.Create(&empty).Error)

	_, created, err := IssueCourseCertificate(db, student.ID, course.ID, student.Name, course.Title)
	assert.NoError(t, err)
	assert.True(t, created)
}

func TestIssueCourseCertificateRequiresCompletion(t *testing.T) {
	db := setupTestDb(t)
	student, course := seedCompletedCourse(t, db, false)
	stubUpload(t)

	_, _, err := IssueCourseCertificate(db, student.ID, course.ID, student.Name, course.Title)
	assert.ErrorIs(t, err, ErrCourseNotCompleted)
}

func TestIssueCourseCertificateSurvivesUploadFailure(t *testing.T) {
	db := setupTestDb(t)
	student, course := seedCompletedCourse(t, db, true)

	restore := uploadCertificate
	uploadCertificate = func(data []byte, filename string) (string, error) {
		return "", fmt.Errorf("blob store down")
	}
	t.Cleanup(func() { uploadCertificate = restore })

	certificate, created, err := IssueCourseCertificate(db, student.ID, course.ID, student.Name, course.Title)
	assert.NoError(t, err)
	assert.True(t, created)
	assert.Empty(t, certificate.FileURL)
}
