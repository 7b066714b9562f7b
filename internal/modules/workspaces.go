package modules

import (
	"github.com/benote/benote-core/internal/models"
	"github.com/benote/benote-core/internal/relations"
)

// Workspaces owns workspaces and the content living in them.
type Workspaces struct{}

func (Workspaces) ID() string { return "workspaces" }

func (Workspaces) Models() []models.Entity {
	return []models.Entity{
		&models.Workspace{},
		&models.WorkspaceMembership{},
		&models.Note{},
		&models.Task{},
		&models.Todo{},
		&models.TodoItem{},
		&models.TimeBlock{},
	}
}

func (Workspaces) Relations(b *relations.Builder) {
	b.BelongsTo("workspaces", "owner_id", "users", relations.Cascade)

	b.BelongsTo("workspace_memberships", "workspace_id", "workspaces", relations.Cascade)
	b.BelongsTo("workspace_memberships", "user_id", "users", relations.Cascade)
	b.BelongsTo("workspace_memberships", "team_id", "teams", relations.Cascade)

	b.BelongsTo("notes", "owner_id", "users", relations.Cascade)
	b.BelongsTo("notes", "workspace_id", "workspaces", relations.Cascade)

	b.BelongsTo("tasks", "workspace_id", "workspaces", relations.Cascade)
	b.BelongsTo("tasks", "assignee_id", "users", relations.SetNull)

	b.BelongsTo("todos", "workspace_id", "workspaces", relations.Cascade)
	b.BelongsTo("todos", "user_id", "users", relations.Cascade)
	b.BelongsTo("todo_items", "todo_id", "todos", relations.Cascade)

	b.BelongsTo("time_blocks", "workspace_id", "workspaces", relations.Cascade)
	b.BelongsTo("time_blocks", "user_id", "users", relations.Cascade)
}
