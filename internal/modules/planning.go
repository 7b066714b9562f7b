package modules

import (
	"github.com/benote/benote-core/internal/models"
	"github.com/benote/benote-core/internal/relations"
)

// Planning owns roadmaps, mindmaps and study plans.
type Planning struct{}

func (Planning) ID() string { return "planning" }

func (Planning) Models() []models.Entity {
	return []models.Entity{
		&models.Roadmap{},
		&models.RoadmapItem{},
		&models.Mindmap{},
		&models.MindmapItem{},
		&models.StudyPlan{},
		&models.Course{},
	}
}

func (Planning) Relations(b *relations.Builder) {
	b.BelongsTo("roadmaps", "owner_id", "users", relations.Cascade)
	b.BelongsTo("roadmap_items", "roadmap_id", "roadmaps", relations.Cascade)

	b.BelongsTo("mindmaps", "owner_id", "users", relations.Cascade)
	b.BelongsTo("mindmap_items", "mindmap_id", "mindmaps", relations.Cascade)
	b.BelongsTo("mindmap_items", "parent_id", "mindmap_items", relations.Cascade)

	b.BelongsTo("study_plans", "owner_id", "users", relations.Cascade)
	b.BelongsTo("courses", "study_plan_id", "study_plans", relations.Cascade)
}
