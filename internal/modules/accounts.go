package modules

import (
	"github.com/benote/benote-core/internal/models"
	"github.com/benote/benote-core/internal/relations"
)

// Accounts owns users, their profile and earned badges.
type Accounts struct{}

func (Accounts) ID() string { return "accounts" }

func (Accounts) Models() []models.Entity {
	return []models.Entity{
		&models.User{},
		&models.Profile{},
		&models.Badge{},
		&models.UserBadge{},
	}
}

func (Accounts) Relations(b *relations.Builder) {
	b.BelongsTo("profiles", "user_id", "users", relations.Cascade)
	b.Join("user_badges", "user_id", "users", relations.Cascade)
	b.Join("user_badges", "badge_id", "badges", relations.Cascade)
}
