package models

import (
	"time"

	"github.com/google/uuid"
)

type Roadmap struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Status      string    `gorm:"size:20;not null" json:"status"`
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Owner       *User     `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (Roadmap) TableName() string { return "roadmaps" }

func (r *Roadmap) ApplyDefaults() {
	if r.Status == "" {
		r.Status = StatusPending
	}
}

func (r *Roadmap) Validate() error {
	return firstErr(
		requireText("title", r.Title),
		oneOf("status", r.Status, StatusPending, StatusInProgress, StatusCompleted),
	)
}

type RoadmapItem struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Status      string    `gorm:"size:20;not null" json:"status"`
	Position    int       `gorm:"not null" json:"position"`
	RoadmapID   uuid.UUID `gorm:"type:uuid;not null;index" json:"roadmap_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Roadmap     *Roadmap  `gorm:"foreignKey:RoadmapID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (RoadmapItem) TableName() string { return "roadmap_items" }

func (i *RoadmapItem) ApplyDefaults() {
	if i.Status == "" {
		i.Status = StatusPending
	}
}

func (i *RoadmapItem) Validate() error {
	return firstErr(
		requireText("title", i.Title),
		oneOf("status", i.Status, StatusPending, StatusInProgress, StatusCompleted),
	)
}

type Mindmap struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	OwnerID   uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Owner     *User     `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (Mindmap) TableName() string { return "mindmaps" }

func (m *Mindmap) Validate() error {
	return requireText("title", m.Title)
}

// MindmapItem is a node of a mindmap tree; root nodes have no parent.
type MindmapItem struct {
	ID        uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	Title     string       `gorm:"size:255;not null" json:"title"`
	Content   string       `gorm:"type:text" json:"content"`
	MindmapID uuid.UUID    `gorm:"type:uuid;not null;index" json:"mindmap_id"`
	ParentID  *uuid.UUID   `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
	Mindmap   *Mindmap     `gorm:"foreignKey:MindmapID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Parent    *MindmapItem `gorm:"foreignKey:ParentID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (MindmapItem) TableName() string { return "mindmap_items" }

func (MindmapItem) TreeScope() string { return "mindmap_id" }

func (i *MindmapItem) Validate() error {
	return requireText("title", i.Title)
}

type StudyPlan struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index" json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Owner       *User     `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (StudyPlan) TableName() string { return "study_plans" }

func (p *StudyPlan) Validate() error {
	return requireText("title", p.Title)
}

type Course struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	StudyPlanID uuid.UUID  `gorm:"type:uuid;not null;index" json:"study_plan_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	StudyPlan   *StudyPlan `gorm:"foreignKey:StudyPlanID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (Course) TableName() string { return "courses" }

func (c *Course) Validate() error {
	return requireText("title", c.Title)
}
