package modules

import (
	"github.com/benote/benote-core/internal/models"
	"github.com/benote/benote-core/internal/relations"
)

type Classrooms struct{}

func (Classrooms) ID() string { return "classrooms" }

func (Classrooms) Models() []models.Entity {
	return []models.Entity{
		&models.Classroom{},
		&models.ClassroomStudent{},
		&models.Assignment{},
		&models.Submission{},
		&models.Announcement{},
	}
}

// Relations keeps grading data behind restrict: assignments block the
// deletion of their classroom and submissions block their assignment.
func (Classrooms) Relations(b *relations.Builder) {
	b.BelongsTo("submissions", "submitted_by", "users", relations.Cascade)
	b.BelongsTo("submissions", "graded_by", "users", relations.Cascade)
	b.BelongsTo("submissions", "assignment_id", "assignments", relations.Restrict)

	b.BelongsTo("assignments", "creator_id", "users", relations.Cascade)
	b.BelongsTo("assignments", "classroom_id", "classrooms", relations.Restrict)

	b.BelongsTo("classrooms", "teacher_id", "users", relations.Cascade)
	b.Join("classroom_students", "classroom_id", "classrooms", relations.Cascade)
	b.Join("classroom_students", "user_id", "users", relations.Cascade)

	b.BelongsTo("announcements", "classroom_id", "classrooms", relations.Cascade)
	b.BelongsTo("announcements", "teacher_id", "users", relations.Cascade)
}
