package services

import (
	"context"
	"testing"

	"github.com/benote/benote-core/internal/apperrors"
	"github.com/benote/benote-core/internal/dto"
	"github.com/benote/benote-core/internal/models"
	"github.com/benote/benote-core/internal/store"
	"github.com/benote/benote-core/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateTeam_CreatorIsAcceptedAdmin(t *testing.T) {
	ctx := context.Background()
	s := testutil.Store(t)
	svc := NewMembershipService(s, nil)
	creator := testutil.SeedUser(t, ctx, s, "creator@benote.test")

	team, err := svc.CreateTeam(ctx, creator.ID, &dto.CreateTeamRequest{Name: "Chemistry"})
	require.NoError(t, err)

	m, err := membershipOf(ctx, s, creator.ID, team.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, m.Role)
	assert.True(t, m.InvitationAccepted)

	ok, err := svc.CheckCapability(ctx, creator.ID, team.ID, models.CapUploadFiles)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = svc.CreateTeam(ctx, creator.ID, &dto.CreateTeamRequest{})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestJoinTeam_PendingWithoutCapabilities(t *testing.T) {
	ctx := context.Background()
	s := testutil.Store(t)
	svc := NewMembershipService(s, nil)
	creator := testutil.SeedUser(t, ctx, s, "creator@benote.test")
	joiner := testutil.SeedUser(t, ctx, s, "joiner@benote.test")
	team, err := svc.CreateTeam(ctx, creator.ID, &dto.CreateTeamRequest{Name: "History"})
	require.NoError(t, err)

	m, err := svc.JoinTeam(ctx, joiner.ID, team.ID, models.RoleMember)
	require.NoError(t, err)
	assert.False(t, m.InvitationAccepted)

	var p models.TeamMembershipPermission
	require.NoError(t, s.First(ctx, &p, store.Where("team_membership_id", m.ID)))
	for _, c := range models.Capabilities {
		assert.False(t, p.Has(c), c)
	}

	_, err = svc.JoinTeam(ctx, joiner.ID, team.ID, models.RoleMember)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.JoinTeam(ctx, joiner.ID, uuid.New(), models.RoleMember)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = svc.JoinTeam(ctx, testutil.SeedUser(t, ctx, s, "x@benote.test").ID, team.ID, "owner")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestGrantCapability(t *testing.T) {
	ctx := context.Background()
	s := testutil.Store(t)
	svc := NewMembershipService(s, nil)
	creator := testutil.SeedUser(t, ctx, s, "creator@benote.test")
	member := testutil.SeedUser(t, ctx, s, "member@benote.test")
	team, err := svc.CreateTeam(ctx, creator.ID, &dto.CreateTeamRequest{Name: "Maths"})
	require.NoError(t, err)

	m, err := addMember(ctx, s, member.ID, team.ID, models.RoleMember, true)
	require.NoError(t, err)

	ok, err := svc.CheckCapability(ctx, member.ID, team.ID, models.CapCreateTask)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.GrantCapability(ctx, m.ID, models.CapCreateTask)
	require.NoError(t, err)

	ok, err = svc.CheckCapability(ctx, member.ID, team.ID, models.CapCreateTask)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.CheckCapability(ctx, member.ID, team.ID, models.CapShareNotes)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.RevokeCapability(ctx, m.ID, models.CapCreateTask)
	require.NoError(t, err)
	ok, err = svc.CheckCapability(ctx, member.ID, team.ID, models.CapCreateTask)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.GrantCapability(ctx, uuid.New(), models.CapCreateTask)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = svc.GrantCapability(ctx, m.ID, models.Capability("fly"))
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	ok, err = svc.CheckCapability(ctx, uuid.New(), team.ID, models.CapCreateTask)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckCapability_PendingMemberDenied(t *testing.T) {
	ctx := context.Background()
	s := testutil.Store(t)
	svc := NewMembershipService(s, nil)
	creator := testutil.SeedUser(t, ctx, s, "creator@benote.test")
	pending := testutil.SeedUser(t, ctx, s, "pending@benote.test")
	team, err := svc.CreateTeam(ctx, creator.ID, &dto.CreateTeamRequest{Name: "Art"})
	require.NoError(t, err)

	m, err := svc.JoinTeam(ctx, pending.ID, team.ID, models.RoleAdmin)
	require.NoError(t, err)
	_, err = svc.GrantCapability(ctx, m.ID, models.CapCreateTodo)
	require.NoError(t, err)

	ok, err := svc.CheckCapability(ctx, pending.ID, team.ID, models.CapCreateTodo)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestApplyPreset(t *testing.T) {
	ctx := context.Background()
	s := testutil.Store(t)
	svc := NewMembershipService(s, nil)
	creator := testutil.SeedUser(t, ctx, s, "creator@benote.test")
	member := testutil.SeedUser(t, ctx, s, "member@benote.test")
	team, err := svc.CreateTeam(ctx, creator.ID, &dto.CreateTeamRequest{Name: "Biology"})
	require.NoError(t, err)
	m, err := addMember(ctx, s, member.ID, team.ID, models.RoleMember, true)
	require.NoError(t, err)

	_, err = svc.GrantCapability(ctx, m.ID, models.CapCreateWorkspace)
	require.NoError(t, err)

	p, err := svc.ApplyPreset(ctx, m.ID, "contributor")
	require.NoError(t, err)
	assert.True(t, p.CanCreateNotes)
	assert.True(t, p.CanCreateTask)
	assert.False(t, p.CanCreateWorkspace)

	_, err = svc.ApplyPreset(ctx, m.ID, "superuser")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestInviteMember(t *testing.T) {
	ctx := context.Background()
	s := testutil.Store(t)
	svc := NewMembershipService(s, nil)
	admin := testutil.SeedUser(t, ctx, s, "admin@benote.test")
	member := testutil.SeedUser(t, ctx, s, "member@benote.test")
	invitee := testutil.SeedUser(t, ctx, s, "invitee@benote.test")
	team, err := svc.CreateTeam(ctx, admin.ID, &dto.CreateTeamRequest{Name: "Robotics"})
	require.NoError(t, err)
	_, err = addMember(ctx, s, member.ID, team.ID, models.RoleMember, true)
	require.NoError(t, err)

	_, _, err = svc.InviteMember(ctx, member.ID, team.ID, invitee.ID, models.RoleMember)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	m, n, err := svc.InviteMember(ctx, admin.ID, team.ID, invitee.ID, models.RoleMember)
	require.NoError(t, err)
	assert.False(t, m.InvitationAccepted)
	assert.Equal(t, models.NotificationInvitation, n.Type)
	assert.Equal(t, invitee.ID, n.ReceiverID)
	require.NotNil(t, n.SenderID)
	assert.Equal(t, admin.ID, *n.SenderID)

	action, err := n.Invitation()
	require.NoError(t, err)
	assert.Equal(t, team.ID, action.TeamID)

	// A second invitation fails on the membership and leaves no extra notification.
	_, _, err = svc.InviteMember(ctx, admin.ID, team.ID, invitee.ID, models.RoleMember)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
	count, err := s.Count(ctx, &models.Notification{}, store.ForReceiver(invitee.ID))
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestWorkspaceRole(t *testing.T) {
	ctx := context.Background()
	s := testutil.Store(t)
	svc := NewMembershipService(s, nil)
	owner := testutil.SeedUser(t, ctx, s, "owner@benote.test")
	direct := testutil.SeedUser(t, ctx, s, "direct@benote.test")
	viaTeam := testutil.SeedUser(t, ctx, s, "team@benote.test")
	pending := testutil.SeedUser(t, ctx, s, "pending@benote.test")
	stranger := testutil.SeedUser(t, ctx, s, "stranger@benote.test")
	ws := testutil.SeedWorkspace(t, ctx, s, owner.ID)

	team, err := svc.CreateTeam(ctx, viaTeam.ID, &dto.CreateTeamRequest{Name: "Readers"})
	require.NoError(t, err)
	_, err = svc.JoinTeam(ctx, pending.ID, team.ID, models.RoleMember)
	require.NoError(t, err)

	_, err = svc.ShareWorkspace(ctx, owner.ID, ws.ID, &dto.ShareWorkspaceRequest{UserID: &direct.ID, Role: models.RoleMember})
	require.NoError(t, err)
	_, err = svc.ShareWorkspace(ctx, owner.ID, ws.ID, &dto.ShareWorkspaceRequest{TeamID: &team.ID, Role: models.RoleAdmin})
	require.NoError(t, err)

	cases := map[uuid.UUID]string{
		owner.ID:    models.RoleAdmin,
		direct.ID:   models.RoleMember,
		viaTeam.ID:  models.RoleAdmin,
		pending.ID:  "",
		stranger.ID: "",
	}
	for userID, want := range cases {
		role, err := svc.WorkspaceRole(ctx, userID, ws.ID)
		require.NoError(t, err)
		assert.Equal(t, want, role)
	}

	_, err = svc.ShareWorkspace(ctx, direct.ID, ws.ID, &dto.ShareWorkspaceRequest{UserID: &stranger.ID, Role: models.RoleMember})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = svc.ShareWorkspace(ctx, owner.ID, ws.ID, &dto.ShareWorkspaceRequest{UserID: &stranger.ID, TeamID: &team.ID, Role: models.RoleMember})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.WorkspaceRole(ctx, owner.ID, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestLeaveTeam_RemovesPermissionRow(t *testing.T) {
	ctx := context.Background()
	s := testutil.Store(t)
	svc := NewMembershipService(s, nil)
	creator := testutil.SeedUser(t, ctx, s, "creator@benote.test")
	member := testutil.SeedUser(t, ctx, s, "member@benote.test")
	team, err := svc.CreateTeam(ctx, creator.ID, &dto.CreateTeamRequest{Name: "Drama"})
	require.NoError(t, err)
	_, err = svc.JoinTeam(ctx, member.ID, team.ID, models.RoleMember)
	require.NoError(t, err)

	require.NoError(t, svc.LeaveTeam(ctx, member.ID, team.ID))

	n, err := s.Count(ctx, &models.TeamMembershipPermission{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	assert.ErrorIs(t, svc.LeaveTeam(ctx, member.ID, team.ID), apperrors.ErrNotFound)
}

func TestInviteMember_StorageErrorIsNotForbidden(t *testing.T) {
	ctx := context.Background()
	s := testutil.Store(t)
	svc := NewMembershipService(s, nil)
	admin := testutil.SeedUser(t, ctx, s, "admin@benote.test")
	invitee := testutil.SeedUser(t, ctx, s, "invitee@benote.test")
	team, err := svc.CreateTeam(ctx, admin.ID, &dto.CreateTeamRequest{Name: "Chess"})
	require.NoError(t, err)

	require.NoError(t, s.DB(ctx).Migrator().DropTable(&models.TeamMembership{}))

	_, _, err = svc.InviteMember(ctx, admin.ID, team.ID, invitee.ID, models.RoleMember)
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrForbidden)
}
