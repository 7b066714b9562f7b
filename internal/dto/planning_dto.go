package dto

import "github.com/google/uuid"

type CreateRoadmapRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	TeamID      *uuid.UUID `json:"team_id,omitempty"`
}

type RoadmapItemRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Position    int    `json:"position"`
}

type MindmapItemRequest struct {
	Title    string     `json:"title"`
	Content  string     `json:"content"`
	ParentID *uuid.UUID `json:"parent_id"`
}

type CreateStudyPlanRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	TeamID      *uuid.UUID `json:"team_id,omitempty"`
}

type CourseRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}
