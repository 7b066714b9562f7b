package models

import "github.com/benote/benote-core/internal/apperrors"

const (
	UserRoleStudent = "student"
	UserRoleTeacher = "teacher"
	UserRoleAdmin   = "admin"
)

// Membership roles shared by teams and workspaces.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

type NotificationType string

const (
	NotificationInvitation     NotificationType = "invitation"
	NotificationSystem         NotificationType = "system"
	NotificationRecommendation NotificationType = "recommendation"
	NotificationInfo           NotificationType = "info"
	NotificationWarning        NotificationType = "warning"
	NotificationError          NotificationType = "error"
	NotificationSuccess        NotificationType = "success"
	NotificationStudyPlan      NotificationType = "study_plan"
)

var NotificationTypes = []NotificationType{
	NotificationInvitation,
	NotificationSystem,
	NotificationRecommendation,
	NotificationInfo,
	NotificationWarning,
	NotificationError,
	NotificationSuccess,
	NotificationStudyPlan,
}

func (t NotificationType) Valid() bool {
	for _, v := range NotificationTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Capability names one of the per-membership permission flags.
type Capability string

const (
	CapCreateWorkspace       Capability = "create_workspace"
	CapUploadFiles           Capability = "upload_files"
	CapParticipateDiscussion Capability = "participate_discussion"
	CapCreateTask            Capability = "create_task"
	CapCreateTodo            Capability = "create_todo"
	CapCreateRoadmap         Capability = "create_roadmap"
	CapCreateStudyPlan       Capability = "create_study_plan"
	CapCreateNotes           Capability = "create_notes"
	CapShareNotes            Capability = "share_notes"
)

var Capabilities = []Capability{
	CapCreateWorkspace,
	CapUploadFiles,
	CapParticipateDiscussion,
	CapCreateTask,
	CapCreateTodo,
	CapCreateRoadmap,
	CapCreateStudyPlan,
	CapCreateNotes,
	CapShareNotes,
}

func ParseCapability(s string) (Capability, error) {
	for _, c := range Capabilities {
		if string(c) == s {
			return c, nil
		}
	}
	return "", apperrors.Validation("capability", "unknown capability "+s)
}

// Column is the permission table column backing the capability.
func (c Capability) Column() string {
	return "can_" + string(c)
}
