package services

import (
	"context"
	"testing"
	"time"

	"github.com/benote/benote-core/internal/apperrors"
	"github.com/benote/benote-core/internal/dto"
	"github.com/benote/benote-core/internal/models"
	"github.com/benote/benote-core/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmit(t *testing.T) {
	ctx := context.Background()
	s := testutil.Store(t)
	svc := NewNotificationService(s, 10)
	u := testutil.SeedUser(t, ctx, s, "u@benote.test")

	n, err := svc.Emit(ctx, &dto.EmitRequest{ReceiverID: u.ID, Type: models.NotificationInfo, Message: "hello"})
	require.NoError(t, err)
	assert.False(t, n.IsRead)
	assert.Nil(t, n.SenderID)
	assert.Empty(t, n.Action)

	_, err = svc.Emit(ctx, &dto.EmitRequest{ReceiverID: u.ID, Type: "carrier_pigeon", Message: "hello"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Emit(ctx, &dto.EmitRequest{ReceiverID: u.ID, Type: models.NotificationInvitation, Message: "join"})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Emit(ctx, &dto.EmitRequest{ReceiverID: uuid.New(), Type: models.NotificationInfo, Message: "hello"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestMarkRead_ReceiverOnly(t *testing.T) {
	ctx := context.Background()
	s := testutil.Store(t)
	svc := NewNotificationService(s, 10)
	receiver := testutil.SeedUser(t, ctx, s, "receiver@benote.test")
	other := testutil.SeedUser(t, ctx, s, "other@benote.test")

	n, err := svc.Emit(ctx, &dto.EmitRequest{
		ReceiverID: receiver.ID,
		SenderID:   &other.ID,
		Type:       models.NotificationSuccess,
		Message:    "done",
		Action:     models.RouteAction{Route: "/done"},
	})
	require.NoError(t, err)

	_, err = svc.MarkRead(ctx, n.ID, other.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	read, err := svc.MarkRead(ctx, n.ID, receiver.ID)
	require.NoError(t, err)
	assert.True(t, read.IsRead)

	again, err := svc.MarkRead(ctx, n.ID, receiver.ID)
	require.NoError(t, err)
	assert.True(t, again.IsRead)

	_, err = svc.MarkRead(ctx, uuid.New(), receiver.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestInvitationFlow(t *testing.T) {
	ctx := context.Background()
	s := testutil.Store(t)
	members := NewMembershipService(s, nil)
	notifications := NewNotificationService(s, 10)
	admin := testutil.SeedUser(t, ctx, s, "admin@benote.test")
	invitee := testutil.SeedUser(t, ctx, s, "invitee@benote.test")
	team, err := members.CreateTeam(ctx, admin.ID, &dto.CreateTeamRequest{Name: "Orchestra"})
	require.NoError(t, err)

	_, n, err := members.InviteMember(ctx, admin.ID, team.ID, invitee.ID, models.RoleMember)
	require.NoError(t, err)

	unread, err := notifications.UnreadCount(ctx, invitee.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, unread)

	_, err = notifications.AcceptInvitation(ctx, n.ID, admin.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	m, err := notifications.AcceptInvitation(ctx, n.ID, invitee.ID)
	require.NoError(t, err)
	assert.True(t, m.InvitationAccepted)
	assert.Equal(t, team.ID, m.TeamID)

	unread, err = notifications.UnreadCount(ctx, invitee.ID)
	require.NoError(t, err)
	assert.Zero(t, unread)

	for _, c := range models.Capabilities {
		ok, err := members.CheckCapability(ctx, invitee.ID, team.ID, c)
		require.NoError(t, err)
		assert.False(t, ok, c)
	}
}

func TestAcceptInvitation_WithoutPendingMembership(t *testing.T) {
	ctx := context.Background()
	s := testutil.Store(t)
	members := NewMembershipService(s, nil)
	notifications := NewNotificationService(s, 10)
	admin := testutil.SeedUser(t, ctx, s, "admin@benote.test")
	invitee := testutil.SeedUser(t, ctx, s, "invitee@benote.test")
	team, err := members.CreateTeam(ctx, admin.ID, &dto.CreateTeamRequest{Name: "Chess"})
	require.NoError(t, err)

	n, err := notifications.Emit(ctx, &dto.EmitRequest{
		ReceiverID: invitee.ID,
		SenderID:   &admin.ID,
		Type:       models.NotificationInvitation,
		Message:    "come play",
		Action:     models.InvitationAction{TeamID: team.ID, Route: "/teams/" + team.ID.String()},
	})
	require.NoError(t, err)

	m, err := notifications.AcceptInvitation(ctx, n.ID, invitee.ID)
	require.NoError(t, err)
	assert.True(t, m.InvitationAccepted)
	assert.Equal(t, models.RoleMember, m.Role)
}

func TestAcceptInvitation_NotAnInvitation(t *testing.T) {
	ctx := context.Background()
	s := testutil.Store(t)
	svc := NewNotificationService(s, 10)
	u := testutil.SeedUser(t, ctx, s, "u@benote.test")
	n, err := svc.Emit(ctx, &dto.EmitRequest{ReceiverID: u.ID, Type: models.NotificationWarning, Message: "careful"})
	require.NoError(t, err)

	_, err = svc.AcceptInvitation(ctx, n.ID, u.ID)
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	assert.ErrorIs(t, svc.DeclineInvitation(ctx, n.ID, u.ID), apperrors.ErrValidation)
}

func TestDeclineInvitation_KeepsPendingMembership(t *testing.T) {
	ctx := context.Background()
	s := testutil.Store(t)
	members := NewMembershipService(s, nil)
	notifications := NewNotificationService(s, 10)
	admin := testutil.SeedUser(t, ctx, s, "admin@benote.test")
	invitee := testutil.SeedUser(t, ctx, s, "invitee@benote.test")
	team, err := members.CreateTeam(ctx, admin.ID, &dto.CreateTeamRequest{Name: "Debate"})
	require.NoError(t, err)
	_, n, err := members.InviteMember(ctx, admin.ID, team.ID, invitee.ID, models.RoleMember)
	require.NoError(t, err)

	require.NoError(t, notifications.DeclineInvitation(ctx, n.ID, invitee.ID))

	m, err := membershipOf(ctx, s, invitee.ID, team.ID)
	require.NoError(t, err)
	assert.False(t, m.InvitationAccepted)

	unread, err := notifications.UnreadCount(ctx, invitee.ID)
	require.NoError(t, err)
	assert.Zero(t, unread)
}

func TestListNotifications(t *testing.T) {
	ctx := context.Background()
	s := testutil.Store(t)
	svc := NewNotificationService(s, 2)
	u := testutil.SeedUser(t, ctx, s, "u@benote.test")
	other := testutil.SeedUser(t, ctx, s, "other@benote.test")

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, msg := range []string{"first", "second", "third"} {
		n := &models.Notification{
			Message:    msg,
			Type:       models.NotificationInfo,
			ReceiverID: u.ID,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, s.Create(ctx, n))
	}
	_, err := svc.Emit(ctx, &dto.EmitRequest{ReceiverID: other.ID, Type: models.NotificationInfo, Message: "not yours"})
	require.NoError(t, err)

	page, err := svc.List(ctx, u.ID, 1, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "third", page.Items[0].Message)
	assert.Equal(t, "second", page.Items[1].Message)

	page, err = svc.List(ctx, u.ID, 2, 0)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "first", page.Items[0].Message)
}

func TestMarkAllReadAndDelete(t *testing.T) {
	ctx := context.Background()
	s := testutil.Store(t)
	svc := NewNotificationService(s, 10)
	u := testutil.SeedUser(t, ctx, s, "u@benote.test")
	other := testutil.SeedUser(t, ctx, s, "other@benote.test")

	var last *models.Notification
	for i := 0; i < 3; i++ {
		n, err := svc.Emit(ctx, &dto.EmitRequest{ReceiverID: u.ID, Type: models.NotificationSystem, Message: "maintenance"})
		require.NoError(t, err)
		last = n
	}
	_, err := svc.MarkRead(ctx, last.ID, u.ID)
	require.NoError(t, err)

	changed, err := svc.MarkAllRead(ctx, u.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, changed)

	unread, err := svc.UnreadCount(ctx, u.ID)
	require.NoError(t, err)
	assert.Zero(t, unread)

	assert.ErrorIs(t, svc.Delete(ctx, last.ID, other.ID), apperrors.ErrForbidden)
	require.NoError(t, svc.Delete(ctx, last.ID, u.ID))

	page, err := svc.List(ctx, u.ID, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.Total)
}

func TestMarkAllRead_WrapsStorageErrors(t *testing.T) {
	ctx := context.Background()
	s := testutil.Store(t)
	svc := NewNotificationService(s, 10)
	u := testutil.SeedUser(t, ctx, s, "inbox@benote.test")
	require.NoError(t, s.DB(ctx).Migrator().DropTable(&models.Notification{}))

	_, err := svc.MarkAllRead(ctx, u.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mark notifications read")
}
