package models

import (
	"encoding/json"
	"time"

	"github.com/benote/benote-core/internal/apperrors"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Notification struct {
	ID         uuid.UUID        `gorm:"type:uuid;primaryKey" json:"id"`
	Message    string           `gorm:"type:text;not null" json:"message"`
	Type       NotificationType `gorm:"size:30;not null;index" json:"type"`
	Action     datatypes.JSON   `json:"action,omitempty"`
	ReceiverID uuid.UUID        `gorm:"type:uuid;not null;index" json:"receiver_id"`
	SenderID   *uuid.UUID       `gorm:"type:uuid;index" json:"sender_id,omitempty"`
	IsRead     bool             `gorm:"not null;index" json:"is_read"`
	CreatedAt  time.Time        `gorm:"index" json:"created_at"`
	UpdatedAt  time.Time        `json:"updated_at"`
	Receiver   *User            `gorm:"foreignKey:ReceiverID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Sender     *User            `gorm:"foreignKey:SenderID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
}

func (Notification) TableName() string { return "notifications" }

func (n *Notification) Validate() error {
	if err := requireText("message", n.Message); err != nil {
		return err
	}
	if !n.Type.Valid() {
		return apperrors.Validation("type", "unknown notification type "+string(n.Type))
	}
	return nil
}

// InvitationAction is the payload of an invitation notification.
type InvitationAction struct {
	TeamID uuid.UUID `json:"team_id"`
	Route  string    `json:"route"`
}

type StudyPlanAction struct {
	StudyPlanID uuid.UUID `json:"study_plan_id"`
	Route       string    `json:"route"`
}

// RouteAction is the optional payload of every other notification type.
type RouteAction struct {
	Route string `json:"route"`
}

// EncodeAction checks that the payload shape matches the notification type
// and serializes it. A nil action is allowed except for invitations.
func EncodeAction(t NotificationType, action any) (datatypes.JSON, error) {
	switch t {
	case NotificationInvitation:
		a, ok := action.(InvitationAction)
		if !ok || a.TeamID == uuid.Nil {
			return nil, apperrors.Validation("action", "invitation requires a team_id")
		}
	case NotificationStudyPlan:
		if action == nil {
			return nil, nil
		}
		if _, ok := action.(StudyPlanAction); !ok {
			return nil, apperrors.Validation("action", "study_plan action must carry study_plan_id")
		}
	default:
		if action == nil {
			return nil, nil
		}
		if _, ok := action.(RouteAction); !ok {
			return nil, apperrors.Validation("action", "unexpected action for "+string(t))
		}
	}
	b, err := json.Marshal(action)
	if err != nil {
		return nil, apperrors.Validation("action", err.Error())
	}
	return datatypes.JSON(b), nil
}

func (n *Notification) Invitation() (InvitationAction, error) {
	var a InvitationAction
	if n.Type != NotificationInvitation {
		return a, apperrors.Validation("type", "notification is not an invitation")
	}
	if len(n.Action) == 0 {
		return a, apperrors.Required("action")
	}
	if err := json.Unmarshal(n.Action, &a); err != nil {
		return a, apperrors.Validation("action", "malformed invitation payload")
	}
	if a.TeamID == uuid.Nil {
		return a, apperrors.Required("action.team_id")
	}
	return a, nil
}
