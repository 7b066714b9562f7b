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

type NotificationService struct {
	store    *store.Store
	pageSize int
}

func NewNotificationService(s *store.Store, pageSize int) *NotificationService {
	if pageSize < 1 {
		pageSize = 10
	}
	return &NotificationService{store: s, pageSize: pageSize}
}

// Emit stores an unread notification for the receiver.
func (s *NotificationService) Emit(ctx context.Context, req *dto.EmitRequest) (*models.Notification, error) {
	return emit(ctx, s.store, req)
}

// MarkRead is restricted to the receiver and idempotent.
func (s *NotificationService) MarkRead(ctx context.Context, id, requesterID uuid.UUID) (*models.Notification, error) {
	var n models.Notification
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		if err := receiverOnly(ctx, tx, &n, id, requesterID); err != nil {
			return err
		}
		return markRead(ctx, tx, &n)
	})
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// AcceptInvitation confirms the team membership named by the invitation and
// marks the notification read. Capabilities are left untouched.
func (s *NotificationService) AcceptInvitation(ctx context.Context, id, userID uuid.UUID) (*models.TeamMembership, error) {
	var m *models.TeamMembership
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		var n models.Notification
		if err := receiverOnly(ctx, tx, &n, id, userID); err != nil {
			return err
		}
		action, err := n.Invitation()
		if err != nil {
			return err
		}
		var team models.Team
		if err := tx.Get(ctx, &team, action.TeamID); err != nil {
			return err
		}

		m, err = membershipOf(ctx, tx, userID, action.TeamID)
		switch {
		case apperrors.IsNotFound(err):
			m, err = addMember(ctx, tx, userID, action.TeamID, models.RoleMember, true)
			if err != nil {
				return err
			}
		case err != nil:
			return err
		case !m.InvitationAccepted:
			if err := tx.Update(ctx, m, m.ID, func() error {
				m.InvitationAccepted = true
				return nil
			}); err != nil {
				return err
			}
		}
		return markRead(ctx, tx, &n)
	})
	if err != nil {
		return nil, err
	}
	slog.Info("invitation accepted", "user_id", userID, "action", "accept_invitation", "team_id", m.TeamID)
	return m, nil
}

// DeclineInvitation only marks the invitation read; the pending membership
// stays as it is.
func (s *NotificationService) DeclineInvitation(ctx context.Context, id, userID uuid.UUID) error {
	return s.store.Transaction(ctx, func(tx *store.Store) error {
		var n models.Notification
		if err := receiverOnly(ctx, tx, &n, id, userID); err != nil {
			return err
		}
		if n.Type != models.NotificationInvitation {
			return apperrors.Validation("type", "notification is not an invitation")
		}
		return markRead(ctx, tx, &n)
	})
}

// List returns the receiver's notifications newest first. A size below one
// falls back to the configured page size.
func (s *NotificationService) List(ctx context.Context, receiverID uuid.UUID, page, size int) (store.Page[models.Notification], error) {
	if size < 1 {
		size = s.pageSize
	}
	return store.Paginate[models.Notification](ctx, s.store, page, size, store.ForReceiver(receiverID), store.Newest())
}

func (s *NotificationService) UnreadCount(ctx context.Context, receiverID uuid.UUID) (int64, error) {
	return s.store.Count(ctx, &models.Notification{}, store.ForReceiver(receiverID), store.Unread())
}

// MarkAllRead returns how many notifications changed.
func (s *NotificationService) MarkAllRead(ctx context.Context, receiverID uuid.UUID) (int64, error) {
	res := s.store.DB(ctx).Model(&models.Notification{}).
		Scopes(store.ForReceiver(receiverID), store.Unread()).
		Update("is_read", true)
	if res.Error != nil {
		return 0, fmt.Errorf("mark notifications read: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (s *NotificationService) Delete(ctx context.Context, id, requesterID uuid.UUID) error {
	return s.store.Transaction(ctx, func(tx *store.Store) error {
		var n models.Notification
		if err := receiverOnly(ctx, tx, &n, id, requesterID); err != nil {
			return err
		}
		return tx.Delete(ctx, &n, id)
	})
}

func emit(ctx context.Context, s *store.Store, req *dto.EmitRequest) (*models.Notification, error) {
	if !req.Type.Valid() {
		return nil, apperrors.Validation("type", "unknown notification type "+string(req.Type))
	}
	action, err := models.EncodeAction(req.Type, req.Action)
	if err != nil {
		return nil, err
	}
	n := &models.Notification{
		Message:    req.Message,
		Type:       req.Type,
		Action:     action,
		ReceiverID: req.ReceiverID,
		SenderID:   req.SenderID,
	}
	if err := s.Create(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func receiverOnly(ctx context.Context, s *store.Store, n *models.Notification, id, userID uuid.UUID) error {
	if err := s.Get(ctx, n, id); err != nil {
		return err
	}
	if n.ReceiverID != userID {
		return apperrors.Forbidden("only the receiver can act on a notification")
	}
	return nil
}

func markRead(ctx context.Context, s *store.Store, n *models.Notification) error {
	if n.IsRead {
		return nil
	}
	return s.Update(ctx, n, n.ID, func() error {
		n.IsRead = true
		return nil
	})
}
