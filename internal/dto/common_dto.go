package dto

import "github.com/benote/benote-core/internal/relations"

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string          `json:"status"`
	Timestamp string          `json:"timestamp"`
	DB        string          `json:"db"`
	Modules   int             `json:"modules"`
	Graph     relations.Stats `json:"graph"`
}
