package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/benote/benote-core/internal/apperrors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUser_DefaultsAndValidation(t *testing.T) {
	u := &User{Name: "Ada", Email: "  Ada@Example.COM ", Password: "hash"}
	u.ApplyDefaults()
	u.Normalize()
	require.NoError(t, u.Validate())
	assert.Equal(t, "ada@example.com", u.Email)
	assert.Equal(t, UserRoleStudent, u.Role)

	u.Role = "owner"
	assert.ErrorIs(t, u.Validate(), apperrors.ErrValidation)

	bad := &User{Name: "Bob", Email: "not-an-email", Password: "hash", Role: UserRoleStudent}
	var verr *apperrors.ValidationError
	require.ErrorAs(t, bad.Validate(), &verr)
	assert.Equal(t, "email", verr.Field)
}

func TestNote_DefaultTitle(t *testing.T) {
	n := &Note{}
	n.ApplyDefaults()
	assert.Equal(t, DefaultNoteTitle, n.Title)
	assert.NoError(t, n.Validate())
}

func TestMembershipRoleEnum(t *testing.T) {
	m := &TeamMembership{}
	m.ApplyDefaults()
	assert.Equal(t, RoleMember, m.Role)
	assert.NoError(t, m.Validate())

	m.Role = "owner"
	assert.ErrorIs(t, m.Validate(), apperrors.ErrValidation)
}

func TestWorkspaceMembership_ExactlyOneSubject(t *testing.T) {
	id := uuid.New()
	m := &WorkspaceMembership{WorkspaceID: uuid.New(), Role: RoleMember}
	assert.ErrorIs(t, m.Validate(), apperrors.ErrValidation)

	m.UserID = &id
	assert.NoError(t, m.Validate())

	m.TeamID = &id
	assert.ErrorIs(t, m.Validate(), apperrors.ErrValidation)
}

func TestTimeBlock_Ordering(t *testing.T) {
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	b := &TimeBlock{Title: "Calculus", StartAt: start, EndAt: start}
	assert.ErrorIs(t, b.Validate(), apperrors.ErrValidation)

	b.EndAt = start.Add(time.Hour)
	assert.NoError(t, b.Validate())
}

func TestPermission_Flags(t *testing.T) {
	p := &TeamMembershipPermission{}
	for _, c := range Capabilities {
		assert.False(t, p.Has(c), c)
	}

	require.NoError(t, p.Set(CapCreateTask, true))
	assert.True(t, p.Has(CapCreateTask))
	assert.True(t, p.CanCreateTask)
	assert.False(t, p.Has(CapShareNotes))

	assert.ErrorIs(t, p.Set(Capability("fly"), true), apperrors.ErrValidation)
	assert.False(t, p.Has(Capability("fly")))
}

func TestParseCapability(t *testing.T) {
	c, err := ParseCapability("create_study_plan")
	require.NoError(t, err)
	assert.Equal(t, CapCreateStudyPlan, c)
	assert.Equal(t, "can_create_study_plan", c.Column())

	_, err = ParseCapability("delete_everything")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestNotification_Validate(t *testing.T) {
	n := &Notification{Message: "hello", Type: NotificationInfo, ReceiverID: uuid.New()}
	assert.NoError(t, n.Validate())

	n.Type = "shout"
	assert.ErrorIs(t, n.Validate(), apperrors.ErrValidation)

	n.Type = NotificationInfo
	n.Message = "  "
	assert.ErrorIs(t, n.Validate(), apperrors.ErrValidation)
}

func TestEncodeAction(t *testing.T) {
	teamID := uuid.New()

	raw, err := EncodeAction(NotificationInvitation, InvitationAction{TeamID: teamID, Route: "/teams"})
	require.NoError(t, err)

	n := &Notification{Type: NotificationInvitation, Action: raw}
	inv, err := n.Invitation()
	require.NoError(t, err)
	assert.Equal(t, teamID, inv.TeamID)
	assert.Equal(t, "/teams", inv.Route)

	_, err = EncodeAction(NotificationInvitation, nil)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = EncodeAction(NotificationInfo, InvitationAction{TeamID: teamID})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	raw, err = EncodeAction(NotificationInfo, nil)
	require.NoError(t, err)
	assert.Empty(t, raw)

	raw, err = EncodeAction(NotificationSuccess, RouteAction{Route: "/notes"})
	require.NoError(t, err)
	var decoded map[string]string
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "/notes", decoded["route"])
}

func TestNotification_InvitationRejectsOtherTypes(t *testing.T) {
	n := &Notification{Type: NotificationSystem}
	_, err := n.Invitation()
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestSubmission_GradeBounds(t *testing.T) {
	grade := 120.0
	grader := uuid.New()
	s := &Submission{FilePath: "uploads/essay.pdf", Grade: &grade, GradedBy: &grader}
	assert.ErrorIs(t, s.Validate(), apperrors.ErrValidation)

	grade = 88
	assert.NoError(t, s.Validate())

	s.GradedBy = nil
	assert.ErrorIs(t, s.Validate(), apperrors.ErrValidation)
}
