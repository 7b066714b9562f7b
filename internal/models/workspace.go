package models

import (
	"time"

	"github.com/benote/benote-core/internal/apperrors"
	"github.com/google/uuid"
)

const DefaultNoteTitle = "Untitled note"

type Workspace struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:150;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Owner       *User     `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (Workspace) TableName() string { return "workspaces" }

func (w *Workspace) Validate() error {
	return firstErr(requireText("name", w.Name), maxLen("name", w.Name, 150))
}

// WorkspaceMembership grants a user, or every accepted member of a team,
// access to a workspace.
type WorkspaceMembership struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	WorkspaceID uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_ws_memberships_ws_user,priority:1;uniqueIndex:idx_ws_memberships_ws_team,priority:1" json:"workspace_id"`
	UserID      *uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_ws_memberships_ws_user,priority:2" json:"user_id,omitempty"`
	TeamID      *uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_ws_memberships_ws_team,priority:2" json:"team_id,omitempty"`
	Role        string     `gorm:"size:20;not null" json:"role"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Workspace   *Workspace `gorm:"foreignKey:WorkspaceID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	User        *User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Team        *Team      `gorm:"foreignKey:TeamID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (WorkspaceMembership) TableName() string { return "workspace_memberships" }

func (m *WorkspaceMembership) ApplyDefaults() {
	if m.Role == "" {
		m.Role = RoleMember
	}
}

func (m *WorkspaceMembership) Validate() error {
	if (m.UserID == nil) == (m.TeamID == nil) {
		return apperrors.Validation("user_id", "exactly one of user_id or team_id must be set")
	}
	return oneOf("role", m.Role, RoleAdmin, RoleMember)
}

func (WorkspaceMembership) UniqueKeys() [][]string {
	return [][]string{{"workspace_id", "user_id"}, {"workspace_id", "team_id"}}
}

type Note struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Content     string     `gorm:"type:text" json:"content"`
	OwnerID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"owner_id"`
	WorkspaceID *uuid.UUID `gorm:"type:uuid;index" json:"workspace_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Owner       *User      `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Workspace   *Workspace `gorm:"foreignKey:WorkspaceID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (Note) TableName() string { return "notes" }

func (n *Note) ApplyDefaults() {
	if n.Title == "" {
		n.Title = DefaultNoteTitle
	}
}

func (n *Note) Validate() error {
	return firstErr(requireText("title", n.Title), maxLen("title", n.Title, 255))
}

type Task struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Status      string     `gorm:"size:20;not null;index" json:"status"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	AssigneeID  *uuid.UUID `gorm:"type:uuid;index" json:"assignee_id,omitempty"`
	WorkspaceID uuid.UUID  `gorm:"type:uuid;not null;index" json:"workspace_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Assignee    *User      `gorm:"foreignKey:AssigneeID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
	Workspace   *Workspace `gorm:"foreignKey:WorkspaceID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (Task) TableName() string { return "tasks" }

func (t *Task) ApplyDefaults() {
	if t.Status == "" {
		t.Status = StatusPending
	}
}

func (t *Task) Validate() error {
	return firstErr(
		requireText("title", t.Title),
		oneOf("status", t.Status, StatusPending, StatusInProgress, StatusCompleted),
	)
}

type Todo struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	WorkspaceID uuid.UUID  `gorm:"type:uuid;not null;index" json:"workspace_id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Workspace   *Workspace `gorm:"foreignKey:WorkspaceID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	User        *User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (Todo) TableName() string { return "todos" }

func (t *Todo) Validate() error {
	return requireText("title", t.Title)
}

type TodoItem struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	IsCompleted bool      `gorm:"not null" json:"is_completed"`
	TodoID      uuid.UUID `gorm:"type:uuid;not null;index" json:"todo_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Todo        *Todo     `gorm:"foreignKey:TodoID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (TodoItem) TableName() string { return "todo_items" }

func (i *TodoItem) Validate() error {
	return requireText("title", i.Title)
}

// TimeBlock reserves a slot of study time inside a workspace.
type TimeBlock struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	StartAt     time.Time  `gorm:"not null;index" json:"start_at"`
	EndAt       time.Time  `gorm:"not null" json:"end_at"`
	WorkspaceID uuid.UUID  `gorm:"type:uuid;not null;index" json:"workspace_id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Workspace   *Workspace `gorm:"foreignKey:WorkspaceID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	User        *User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (TimeBlock) TableName() string { return "time_blocks" }

func (b *TimeBlock) Validate() error {
	if err := requireText("title", b.Title); err != nil {
		return err
	}
	if b.StartAt.IsZero() {
		return apperrors.Required("start_at")
	}
	if !b.EndAt.After(b.StartAt) {
		return apperrors.Validation("end_at", "must be after start_at")
	}
	return nil
}
