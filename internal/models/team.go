package models

import (
	"time"

	"github.com/benote/benote-core/internal/apperrors"
	"github.com/google/uuid"
)

type Team struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:150;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatorID   uuid.UUID `gorm:"type:uuid;not null;index" json:"creator_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Creator     *User     `gorm:"foreignKey:CreatorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (Team) TableName() string { return "teams" }

func (t *Team) Validate() error {
	return firstErr(requireText("name", t.Name), maxLen("name", t.Name, 150))
}

type TeamMembership struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID             uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_team_memberships_user_team,priority:1" json:"user_id"`
	TeamID             uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:idx_team_memberships_user_team,priority:2" json:"team_id"`
	Role               string    `gorm:"size:20;not null" json:"role"`
	InvitationAccepted bool      `gorm:"not null" json:"invitation_accepted"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
	User               *User     `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Team               *Team     `gorm:"foreignKey:TeamID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (TeamMembership) TableName() string { return "team_memberships" }

func (m *TeamMembership) ApplyDefaults() {
	if m.Role == "" {
		m.Role = RoleMember
	}
}

func (m *TeamMembership) Validate() error {
	return oneOf("role", m.Role, RoleAdmin, RoleMember)
}

func (TeamMembership) UniqueKeys() [][]string { return [][]string{{"user_id", "team_id"}} }

// TeamMembershipPermission holds the capability flags of exactly one
// membership.
type TeamMembershipPermission struct {
	ID                       uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	TeamMembershipID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex" json:"team_membership_id"`
	CanCreateWorkspace       bool            `gorm:"not null" json:"can_create_workspace"`
	CanUploadFiles           bool            `gorm:"not null" json:"can_upload_files"`
	CanParticipateDiscussion bool            `gorm:"not null" json:"can_participate_discussion"`
	CanCreateTask            bool            `gorm:"not null" json:"can_create_task"`
	CanCreateTodo            bool            `gorm:"not null" json:"can_create_todo"`
	CanCreateRoadmap         bool            `gorm:"not null" json:"can_create_roadmap"`
	CanCreateStudyPlan       bool            `gorm:"not null" json:"can_create_study_plan"`
	CanCreateNotes           bool            `gorm:"not null" json:"can_create_notes"`
	CanShareNotes            bool            `gorm:"not null" json:"can_share_notes"`
	CreatedAt                time.Time       `json:"created_at"`
	UpdatedAt                time.Time       `json:"updated_at"`
	TeamMembership           *TeamMembership `gorm:"foreignKey:TeamMembershipID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (TeamMembershipPermission) TableName() string { return "team_membership_permissions" }

func (p *TeamMembershipPermission) Validate() error { return nil }

func (TeamMembershipPermission) UniqueKeys() [][]string {
	return [][]string{{"team_membership_id"}}
}

func (p *TeamMembershipPermission) flag(c Capability) *bool {
	switch c {
	case CapCreateWorkspace:
		return &p.CanCreateWorkspace
	case CapUploadFiles:
		return &p.CanUploadFiles
	case CapParticipateDiscussion:
		return &p.CanParticipateDiscussion
	case CapCreateTask:
		return &p.CanCreateTask
	case CapCreateTodo:
		return &p.CanCreateTodo
	case CapCreateRoadmap:
		return &p.CanCreateRoadmap
	case CapCreateStudyPlan:
		return &p.CanCreateStudyPlan
	case CapCreateNotes:
		return &p.CanCreateNotes
	case CapShareNotes:
		return &p.CanShareNotes
	}
	return nil
}

// Has reports the stored flag; unknown capabilities are never granted.
func (p *TeamMembershipPermission) Has(c Capability) bool {
	if f := p.flag(c); f != nil {
		return *f
	}
	return false
}

func (p *TeamMembershipPermission) Set(c Capability, v bool) error {
	f := p.flag(c)
	if f == nil {
		return apperrors.Validation("capability", "unknown capability "+string(c))
	}
	*f = v
	return nil
}

type Discussion struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Content   string    `gorm:"type:text" json:"content"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	TeamID    uuid.UUID `gorm:"type:uuid;not null;index" json:"team_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Team      *Team     `gorm:"foreignKey:TeamID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (Discussion) TableName() string { return "discussions" }

func (d *Discussion) Validate() error {
	return firstErr(requireText("title", d.Title), requireText("content", d.Content))
}

// Resource is an uploaded file shared with a team or a classroom.
type Resource struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string     `gorm:"size:255;not null" json:"name"`
	Path        string     `gorm:"size:1024;not null" json:"path"`
	Size        int64      `gorm:"not null" json:"size"`
	Description string     `gorm:"type:text" json:"description"`
	UploaderID  uuid.UUID  `gorm:"type:uuid;not null;index" json:"uploader_id"`
	TeamID      *uuid.UUID `gorm:"type:uuid;index" json:"team_id,omitempty"`
	ClassroomID *uuid.UUID `gorm:"type:uuid;index" json:"classroom_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Uploader    *User      `gorm:"foreignKey:UploaderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Team        *Team      `gorm:"foreignKey:TeamID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Classroom   *Classroom `gorm:"foreignKey:ClassroomID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (Resource) TableName() string { return "resources" }

func (r *Resource) Validate() error {
	if (r.TeamID == nil) == (r.ClassroomID == nil) {
		return apperrors.Validation("team_id", "exactly one of team_id or classroom_id must be set")
	}
	if r.Size < 0 {
		return apperrors.Validation("size", "must not be negative")
	}
	return firstErr(requireText("name", r.Name), requireText("path", r.Path))
}
