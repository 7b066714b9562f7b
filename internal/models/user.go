package models

import (
	"strings"
	"time"

	"github.com/benote/benote-core/internal/apperrors"
	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:120;not null" json:"name"`
	Email     string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password  string    `gorm:"not null" json:"-"`
	Role      string    `gorm:"size:20;not null" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

// Normalize lowercases the email so the unique key is case-insensitive.
func (u *User) Normalize() {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
}

func (u *User) ApplyDefaults() {
	if u.Role == "" {
		u.Role = UserRoleStudent
	}
}

func (u *User) Validate() error {
	return firstErr(
		requireText("name", u.Name),
		maxLen("name", u.Name, 120),
		requireText("email", u.Email),
		validEmail(u.Email),
		requireText("password", u.Password),
		oneOf("role", u.Role, UserRoleStudent, UserRoleTeacher, UserRoleAdmin),
	)
}

func (User) UniqueKeys() [][]string { return [][]string{{"email"}} }

func validEmail(email string) error {
	at := strings.Index(email, "@")
	if email != "" && (at <= 0 || at == len(email)-1) {
		return apperrors.Validation("email", "is not a valid address")
	}
	return nil
}

// Profile is the one-to-one public face of a user.
type Profile struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Bio        string    `gorm:"type:text" json:"bio"`
	AvatarURL  string    `gorm:"size:500" json:"avatar_url"`
	School     string    `gorm:"size:200" json:"school"`
	IsVerified bool      `gorm:"not null" json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	User       *User     `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (Profile) TableName() string { return "profiles" }

func (p *Profile) Validate() error {
	return firstErr(
		maxLen("avatar_url", p.AvatarURL, 500),
		maxLen("school", p.School, 200),
	)
}

func (Profile) UniqueKeys() [][]string { return [][]string{{"user_id"}} }

type Badge struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Icon      string    `gorm:"size:255" json:"icon"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Badge) TableName() string { return "badges" }

func (b *Badge) Validate() error {
	return requireText("name", b.Name)
}

func (Badge) UniqueKeys() [][]string { return [][]string{{"name"}} }

// UserBadge is the join row between users and badges.
type UserBadge struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_badges_user_badge,priority:1" json:"user_id"`
	BadgeID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_badges_user_badge,priority:2" json:"badge_id"`
	AwardedAt time.Time `gorm:"not null" json:"awarded_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Badge     *Badge    `gorm:"foreignKey:BadgeID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (UserBadge) TableName() string { return "user_badges" }

func (ub *UserBadge) ApplyDefaults() {
	if ub.AwardedAt.IsZero() {
		ub.AwardedAt = time.Now().UTC()
	}
}

func (ub *UserBadge) Validate() error { return nil }

func (UserBadge) UniqueKeys() [][]string { return [][]string{{"user_id", "badge_id"}} }
