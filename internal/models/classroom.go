package models

import (
	"time"

	"github.com/benote/benote-core/internal/apperrors"
	"github.com/google/uuid"
)

type Classroom struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:150;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	TeacherID   uuid.UUID `gorm:"type:uuid;not null;index" json:"teacher_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Teacher     *User     `gorm:"foreignKey:TeacherID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (Classroom) TableName() string { return "classrooms" }

func (c *Classroom) Validate() error {
	return firstErr(requireText("name", c.Name), maxLen("name", c.Name, 150))
}

// ClassroomStudent enrolls a user in a classroom.
type ClassroomStudent struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ClassroomID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_classroom_students_pair,priority:1" json:"classroom_id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index;uniqueIndex:idx_classroom_students_pair,priority:2" json:"user_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Classroom   *Classroom `gorm:"foreignKey:ClassroomID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	User        *User      `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (ClassroomStudent) TableName() string { return "classroom_students" }

func (s *ClassroomStudent) Validate() error { return nil }

func (ClassroomStudent) UniqueKeys() [][]string { return [][]string{{"classroom_id", "user_id"}} }

type Assignment struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	ClassroomID uuid.UUID  `gorm:"type:uuid;not null;index" json:"classroom_id"`
	CreatorID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"creator_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Classroom   *Classroom `gorm:"foreignKey:ClassroomID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Creator     *User      `gorm:"foreignKey:CreatorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (Assignment) TableName() string { return "assignments" }

func (a *Assignment) Validate() error {
	return firstErr(requireText("title", a.Title), maxLen("title", a.Title, 255))
}

type Submission struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	AssignmentID uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_submissions_assignment_student,priority:1" json:"assignment_id"`
	SubmittedBy  uuid.UUID   `gorm:"type:uuid;not null;index;uniqueIndex:idx_submissions_assignment_student,priority:2" json:"submitted_by"`
	FilePath     string      `gorm:"size:1024;not null" json:"file_path"`
	SubmittedAt  time.Time   `gorm:"not null" json:"submitted_at"`
	GradedBy     *uuid.UUID  `gorm:"type:uuid;index" json:"graded_by,omitempty"`
	Grade        *float64    `json:"grade,omitempty"`
	Feedback     string      `gorm:"type:text" json:"feedback"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
	Assignment   *Assignment `gorm:"foreignKey:AssignmentID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"-"`
	Student      *User       `gorm:"foreignKey:SubmittedBy;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Grader       *User       `gorm:"foreignKey:GradedBy;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (Submission) TableName() string { return "submissions" }

func (s *Submission) ApplyDefaults() {
	if s.SubmittedAt.IsZero() {
		s.SubmittedAt = time.Now().UTC()
	}
}

func (s *Submission) Validate() error {
	if err := requireText("file_path", s.FilePath); err != nil {
		return err
	}
	if s.Grade != nil && (*s.Grade < 0 || *s.Grade > 100) {
		return apperrors.Validation("grade", "must be between 0 and 100")
	}
	if s.Grade != nil && s.GradedBy == nil {
		return apperrors.Required("graded_by")
	}
	return nil
}

func (Submission) UniqueKeys() [][]string {
	return [][]string{{"assignment_id", "submitted_by"}}
}

type Announcement struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ClassroomID uuid.UUID  `gorm:"type:uuid;not null;index" json:"classroom_id"`
	TeacherID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"teacher_id"`
	Content     string     `gorm:"type:text;not null" json:"content"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Classroom   *Classroom `gorm:"foreignKey:ClassroomID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Teacher     *User      `gorm:"foreignKey:TeacherID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (Announcement) TableName() string { return "announcements" }

func (a *Announcement) Validate() error {
	return requireText("content", a.Content)
}
