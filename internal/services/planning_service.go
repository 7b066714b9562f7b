package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/benote/benote-core/internal/apperrors"
	"github.com/benote/benote-core/internal/dto"
	"github.com/benote/benote-core/internal/models"
	"github.com/benote/benote-core/internal/store"
	"github.com/google/uuid"
)

type PlanningService struct {
	store *store.Store
}

func NewPlanningService(s *store.Store) *PlanningService {
	return &PlanningService{store: s}
}

// CreateRoadmap with a TeamID requires create_roadmap in that team.
func (s *PlanningService) CreateRoadmap(ctx context.Context, ownerID uuid.UUID, req *dto.CreateRoadmapRequest) (*models.Roadmap, error) {
	r := &models.Roadmap{Title: req.Title, Description: req.Description, OwnerID: ownerID}
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		if req.TeamID != nil {
			if err := requireCapability(ctx, tx, ownerID, *req.TeamID, models.CapCreateRoadmap); err != nil {
				return err
			}
		}
		return tx.Create(ctx, r)
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

func (s *PlanningService) AddRoadmapItem(ctx context.Context, ownerID, roadmapID uuid.UUID, req *dto.RoadmapItemRequest) (*models.RoadmapItem, error) {
	item := &models.RoadmapItem{
		Title:       req.Title,
		Description: req.Description,
		Position:    req.Position,
		RoadmapID:   roadmapID,
	}
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		var r models.Roadmap
		if err := tx.Get(ctx, &r, roadmapID); err != nil {
			return err
		}
		if r.OwnerID != ownerID {
			return apperrors.Forbidden("only the owner can edit a roadmap")
		}
		return tx.Create(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// RoadmapItems lists the items in position order.
func (s *PlanningService) RoadmapItems(ctx context.Context, roadmapID uuid.UUID) ([]models.RoadmapItem, error) {
	var items []models.RoadmapItem
	if err := s.store.List(ctx, &items, store.Where("roadmap_id", roadmapID), store.OrderBy("position")); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *PlanningService) CreateMindmap(ctx context.Context, ownerID uuid.UUID, title string) (*models.Mindmap, error) {
	m := &models.Mindmap{Title: title, OwnerID: ownerID}
	if err := s.store.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// AddMindmapItem adds a node; a parent must belong to the same mindmap.
func (s *PlanningService) AddMindmapItem(ctx context.Context, ownerID, mindmapID uuid.UUID, req *dto.MindmapItemRequest) (*models.MindmapItem, error) {
	item := &models.MindmapItem{
		Title:     req.Title,
		Content:   req.Content,
		MindmapID: mindmapID,
		ParentID:  req.ParentID,
	}
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		var m models.Mindmap
		if err := tx.Get(ctx, &m, mindmapID); err != nil {
			return err
		}
		if m.OwnerID != ownerID {
			return apperrors.Forbidden("only the owner can edit a mindmap")
		}
		if req.ParentID != nil {
			var parent models.MindmapItem
			if err := tx.Get(ctx, &parent, *req.ParentID); err != nil {
				return err
			}
			if parent.MindmapID != mindmapID {
				return apperrors.Validation("parent_id", "belongs to another mindmap")
			}
		}
		return tx.Create(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// CreateStudyPlan stores the plan and tells its owner it is ready. A TeamID
// requires create_study_plan in that team.
func (s *PlanningService) CreateStudyPlan(ctx context.Context, ownerID uuid.UUID, req *dto.CreateStudyPlanRequest) (*models.StudyPlan, error) {
	plan := &models.StudyPlan{Title: req.Title, Description: req.Description, OwnerID: ownerID}
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		if req.TeamID != nil {
			if err := requireCapability(ctx, tx, ownerID, *req.TeamID, models.CapCreateStudyPlan); err != nil {
				return err
			}
		}
		if err := tx.Create(ctx, plan); err != nil {
			return err
		}
		_, err := emit(ctx, tx, &dto.EmitRequest{
			ReceiverID: ownerID,
			Type:       models.NotificationStudyPlan,
			Message:    fmt.Sprintf("Your study plan %q is ready", plan.Title),
			Action:     models.StudyPlanAction{StudyPlanID: plan.ID, Route: "/study-plans/" + plan.ID.String()},
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	slog.Info("study plan created", "user_id", ownerID, "action", "create_study_plan", "study_plan_id", plan.ID)
	return plan, nil
}

func (s *PlanningService) AddCourse(ctx context.Context, ownerID, planID uuid.UUID, req *dto.CourseRequest) (*models.Course, error) {
	course := &models.Course{Title: req.Title, Description: req.Description, StudyPlanID: planID}
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		var plan models.StudyPlan
		if err := tx.Get(ctx, &plan, planID); err != nil {
			return err
		}
		if plan.OwnerID != ownerID {
			return apperrors.Forbidden("only the owner can edit a study plan")
		}
		return tx.Create(ctx, course)
	})
	if err != nil {
		return nil, err
	}
	return course, nil
}
