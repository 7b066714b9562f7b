package dto

import "time"

type CreateClassroomRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type CreateAssignmentRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
}

type SubmitRequest struct {
	FilePath string `json:"file_path"`
}

type GradeRequest struct {
	Grade    float64 `json:"grade"`
	Feedback string  `json:"feedback"`
}
