package modules

import (
	"github.com/benote/benote-core/internal/models"
	"github.com/benote/benote-core/internal/relations"
)

type Teams struct{}

func (Teams) ID() string { return "teams" }

func (Teams) Models() []models.Entity {
	return []models.Entity{
		&models.Team{},
		&models.TeamMembership{},
		&models.TeamMembershipPermission{},
		&models.Discussion{},
		&models.Resource{},
	}
}

func (Teams) Relations(b *relations.Builder) {
	b.BelongsTo("teams", "creator_id", "users", relations.Cascade)
	b.Join("team_memberships", "user_id", "users", relations.Cascade)
	b.Join("team_memberships", "team_id", "teams", relations.Cascade)
	b.BelongsTo("team_membership_permissions", "team_membership_id", "team_memberships", relations.Cascade)
	b.BelongsTo("discussions", "user_id", "users", relations.Cascade)
	b.BelongsTo("discussions", "team_id", "teams", relations.Cascade)
	b.BelongsTo("resources", "uploader_id", "users", relations.Cascade)
	b.BelongsTo("resources", "team_id", "teams", relations.Cascade)
	b.BelongsTo("resources", "classroom_id", "classrooms", relations.Cascade)
}
