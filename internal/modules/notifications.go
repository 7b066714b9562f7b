package modules

import (
	"github.com/benote/benote-core/internal/models"
	"github.com/benote/benote-core/internal/relations"
)

type Notifications struct{}

func (Notifications) ID() string { return "notifications" }

func (Notifications) Models() []models.Entity {
	return []models.Entity{&models.Notification{}}
}

func (Notifications) Relations(b *relations.Builder) {
	b.BelongsTo("notifications", "receiver_id", "users", relations.Cascade)
	b.BelongsTo("notifications", "sender_id", "users", relations.SetNull)
}
