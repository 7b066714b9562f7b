package services

import (
	"context"

	"github.com/benote/benote-core/internal/dto"
	"github.com/benote/benote-core/internal/models"
	"github.com/benote/benote-core/internal/store"
	"github.com/google/uuid"
)

// TeamService covers team content guarded by capabilities.
type TeamService struct {
	store *store.Store
}

func NewTeamService(s *store.Store) *TeamService {
	return &TeamService{store: s}
}

func (s *TeamService) StartDiscussion(ctx context.Context, userID, teamID uuid.UUID, req *dto.StartDiscussionRequest) (*models.Discussion, error) {
	d := &models.Discussion{Title: req.Title, Content: req.Content, UserID: userID, TeamID: teamID}
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		if err := requireCapability(ctx, tx, userID, teamID, models.CapParticipateDiscussion); err != nil {
			return err
		}
		return tx.Create(ctx, d)
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (s *TeamService) UploadTeamResource(ctx context.Context, userID, teamID uuid.UUID, req *dto.UploadResourceRequest) (*models.Resource, error) {
	r := &models.Resource{
		Name:        req.Name,
		Path:        req.Path,
		Size:        req.Size,
		Description: req.Description,
		UploaderID:  userID,
		TeamID:      &teamID,
	}
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		if err := requireCapability(ctx, tx, userID, teamID, models.CapUploadFiles); err != nil {
			return err
		}
		return tx.Create(ctx, r)
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Discussions lists a team's discussions, newest first.
func (s *TeamService) Discussions(ctx context.Context, teamID uuid.UUID, page, size int) (store.Page[models.Discussion], error) {
	return store.Paginate[models.Discussion](ctx, s.store, page, size, store.Where("team_id", teamID), store.Newest())
}
