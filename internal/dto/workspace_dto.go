package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateWorkspaceRequest with a TeamID creates the workspace for that team
// and shares it with the team as members.
type CreateWorkspaceRequest struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	TeamID      *uuid.UUID `json:"team_id,omitempty"`
}

type ShareWorkspaceRequest struct {
	UserID *uuid.UUID `json:"user_id"`
	TeamID *uuid.UUID `json:"team_id"`
	Role   string     `json:"role"`
}

type CreateNoteRequest struct {
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	WorkspaceID *uuid.UUID `json:"workspace_id"`
}

type UpdateNoteRequest struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	AssigneeID  *uuid.UUID `json:"assignee_id"`
}

type CreateTodoRequest struct {
	Title string `json:"title"`
}

type CreateTimeBlockRequest struct {
	Title   string    `json:"title"`
	StartAt time.Time `json:"start_at"`
	EndAt   time.Time `json:"end_at"`
}
