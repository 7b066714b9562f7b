package dto

import (
	"github.com/benote/benote-core/internal/models"
	"github.com/google/uuid"
)

// EmitRequest describes a notification. Action must match Type, see
// models.EncodeAction.
type EmitRequest struct {
	ReceiverID uuid.UUID               `json:"receiver_id"`
	SenderID   *uuid.UUID              `json:"sender_id,omitempty"`
	Type       models.NotificationType `json:"type"`
	Message    string                  `json:"message"`
	Action     any                     `json:"action,omitempty"`
}
