package controllers

import (
	"errors"
	"io"

	"academy/database"
	"academy/middleware"
	courseModels "academy/models/course"
	"academy/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// swappable in tests
var uploadFile = utils.UploadToCloudinary

// AssignmentGradeRequest carries an admin's grade and feedback
type AssignmentGradeRequest struct {
	Grade    float64 `json:"grade" validate:"gte=0,lte=100"`
	Feedback string  `json:"feedback"`
}

// readSubmissionFile pulls the submitted file out of the request: either
// an uploaded multipart "file" or a pre-hosted "file_url" form value.
func readSubmissionFile(c *fiber.Ctx) (string, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		fileURL := c.FormValue("file_url")
		if fileURL == "" {
			return "", errors.New("no file or file_url provided")
		}
		return fileURL, nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	buffer, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}

	url, _, err := uploadFile(buffer, fileHeader.Filename)
	if err != nil {
		return "", err
	}
	return url, nil
}

// GetAssignmentsByModule lists a module's assignments, each with the
// current student's own submission if one exists
func GetAssignmentsByModule(c *fiber.Ctx) error {
	studentID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	moduleID := c.Locals("moduleID").(int)

	var assignments []courseModels.Assignment
	if err := database.Database.Db.Where("module_id = ?", moduleID).
		Order("created_at asc").Find(&assignments).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch assignments!", nil)
	}

	type assignmentWithSubmission struct {
		courseModels.Assignment
		Submission *courseModels.AssignmentSubmission `json:"submission"`
	}

	response := make([]assignmentWithSubmission, 0, len(assignments))
	for _, assignment := range assignments {
		entry := assignmentWithSubmission{Assignment: assignment}

		var submission courseModels.AssignmentSubmission
		err := database.Database.Db.Where("student_id = ? AND assignment_id = ?", studentID, assignment.ID).
			First(&submission).Error
		if err == nil {
			entry.Submission = &submission
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch submissions!", nil)
		}

		response = append(response, entry)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Assignments fetched successfully!", response)
}

// SubmitAssignment stores the student's work for an assignment
func SubmitAssignment(c *fiber.Ctx) error {
	studentID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	assignmentID := c.Locals("assignmentID").(int)

	var assignment courseModels.Assignment
	if err := database.Database.Db.First(&assignment, assignmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Assignment not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch assignment!", nil)
	}

	fileURL, err := readSubmissionFile(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A file upload or file_url is required!", nil)
	}

	submission := courseModels.AssignmentSubmission{
		StudentID:    studentID,
		AssignmentID: assignment.ID,
		FileURL:      fileURL,
	}
	if err := database.Database.Db.Create(&submission).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit assignment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Assignment submitted successfully!", submission)
}

// GradeAssignmentSubmission lets an admin grade a submission
func GradeAssignmentSubmission(c *fiber.Ctx) error {
	submissionID := c.Locals("submissionID").(int)
	request := c.Locals("assignmentGradeRequest").(AssignmentGradeRequest)

	var submission courseModels.AssignmentSubmission
	if err := database.Database.Db.First(&submission, submissionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Submission not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch submission!", nil)
	}

	submission.Grade = &request.Grade
	submission.Feedback = request.Feedback
	if err := database.Database.Db.Save(&submission).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to grade submission!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Submission graded successfully!", submission)
}

// SubmitProject stores the student's work for a module project
func SubmitProject(c *fiber.Ctx) error {
	studentID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	projectID := c.Locals("projectID").(int)

	var project courseModels.Project
	if err := database.Database.Db.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Project not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch project!", nil)
	}

	fileURL, err := readSubmissionFile(c)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "A file upload or file_url is required!", nil)
	}

	submission := courseModels.ProjectSubmission{
		StudentID: studentID,
		ProjectID: project.ID,
		FileURL:   fileURL,
	}
	if err := database.Database.Db.Create(&submission).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit project!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Project submitted successfully!", submission)
}

// GradeProjectSubmission lets an admin grade a project submission
func GradeProjectSubmission(c *fiber.Ctx) error {
	submissionID := c.Locals("submissionID").(int)
	request := c.Locals("assignmentGradeRequest").(AssignmentGradeRequest)

	var submission courseModels.ProjectSubmission
	if err := database.Database.Db.First(&submission, submissionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Submission not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch submission!", nil)
	}

	submission.Grade = &request.Grade
	submission.Feedback = request.Feedback
	if err := database.Database.Db.Save(&submission).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to grade submission!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Submission graded successfully!", submission)
}
