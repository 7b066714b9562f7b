package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/benote/benote-core/internal/apperrors"
	"github.com/benote/benote-core/internal/dto"
	"github.com/benote/benote-core/internal/models"
	"github.com/benote/benote-core/internal/store"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// DefaultBadges is the catalog seeded at startup.
var DefaultBadges = []models.Badge{
	{Name: "First Note", Icon: "note"},
	{Name: "Team Player", Icon: "team"},
	{Name: "Planner", Icon: "calendar"},
	{Name: "Scholar", Icon: "graduation-cap"},
	{Name: "Verified", Icon: "check"},
}

type AccountService struct {
	store *store.Store
}

func NewAccountService(s *store.Store) *AccountService {
	return &AccountService{store: s}
}

// CreateUser hashes the password and creates the user with an empty profile.
func (s *AccountService) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*models.User, error) {
	if len(req.Password) < 8 {
		return nil, apperrors.Validation("password", "must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    req.Email,
		Password: string(hash),
		Role:     req.Role,
	}
	err = s.store.Transaction(ctx, func(tx *store.Store) error {
		if err := tx.Create(ctx, user); err != nil {
			return err
		}
		return tx.Create(ctx, &models.Profile{UserID: user.ID})
	})
	if err != nil {
		return nil, err
	}
	slog.Info("user created", "user_id", user.ID, "action", "create_user")
	return user, nil
}

// Authenticate checks a password against the stored hash.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	err := s.store.First(ctx, &user, store.Where("email", strings.ToLower(strings.TrimSpace(email))))
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

func (s *AccountService) Profile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	var p models.Profile
	if err := s.store.First(ctx, &p, store.Where("user_id", userID)); err != nil {
		if apperrors.IsNotFound(err) {
			return nil, apperrors.NotFound("profiles", userID)
		}
		return nil, err
	}
	return &p, nil
}

// UpdateProfile changes only the fields present in req.
func (s *AccountService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*models.Profile, error) {
	p, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	err = s.store.Update(ctx, p, p.ID, func() error {
		if req.Bio != nil {
			p.Bio = *req.Bio
		}
		if req.AvatarURL != nil {
			p.AvatarURL = *req.AvatarURL
		}
		if req.School != nil {
			p.School = *req.School
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// VerifyProfile marks the profile verified and awards the Verified badge
// when the catalog has it.
func (s *AccountService) VerifyProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	p, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}
	err = s.store.Transaction(ctx, func(tx *store.Store) error {
		if err := tx.Update(ctx, p, p.ID, func() error {
			p.IsVerified = true
			return nil
		}); err != nil {
			return err
		}
		var badge models.Badge
		err := tx.First(ctx, &badge, store.Where("name", "Verified"))
		if apperrors.IsNotFound(err) {
			return nil
		}
		if err != nil {
			return err
		}
		_, err = awardBadge(ctx, tx, userID, badge.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	slog.Info("profile verified", "user_id", userID, "action", "verify_profile")
	return p, nil
}

// AwardBadge is idempotent: awarding a badge twice returns the first award.
func (s *AccountService) AwardBadge(ctx context.Context, userID, badgeID uuid.UUID) (*models.UserBadge, error) {
	var ub *models.UserBadge
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		var err error
		ub, err = awardBadge(ctx, tx, userID, badgeID)
		return err
	})
	return ub, err
}

func (s *AccountService) Badges(ctx context.Context, userID uuid.UUID) ([]models.Badge, error) {
	var badges []models.Badge
	err := s.store.DB(ctx).
		Joins("JOIN user_badges ON user_badges.badge_id = badges.id").
		Where("user_badges.user_id = ?", userID).
		Order("user_badges.awarded_at").
		Find(&badges).Error
	if err != nil {
		return nil, fmt.Errorf("list badges: %w", err)
	}
	return badges, nil
}

// SeedBadges inserts the missing entries of the default catalog.
func (s *AccountService) SeedBadges(ctx context.Context) error {
	for i := range DefaultBadges {
		b := DefaultBadges[i]
		n, err := s.store.Count(ctx, &models.Badge{}, store.Where("name", b.Name))
		if err != nil {
			return err
		}
		if n > 0 {
			continue
		}
		if err := s.store.Create(ctx, &b); err != nil {
			return fmt.Errorf("seed badge %s: %w", b.Name, err)
		}
	}
	return nil
}

// DeleteUser removes the user and everything the user owns.
func (s *AccountService) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	if err := s.store.Delete(ctx, &models.User{}, userID); err != nil {
		return err
	}
	slog.Info("user deleted", "user_id", userID, "action", "delete_user")
	return nil
}

func awardBadge(ctx context.Context, tx *store.Store, userID, badgeID uuid.UUID) (*models.UserBadge, error) {
	var existing models.UserBadge
	err := tx.First(ctx, &existing, store.Where("user_id", userID), store.Where("badge_id", badgeID))
	if err == nil {
		return &existing, nil
	}
	if !apperrors.IsNotFound(err) {
		return nil, err
	}
	ub := &models.UserBadge{UserID: userID, BadgeID: badgeID}
	if err := tx.Create(ctx, ub); err != nil {
		return nil, err
	}
	return ub, nil
}
