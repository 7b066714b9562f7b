package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/benote/benote-core/internal/apperrors"
	"github.com/benote/benote-core/internal/dto"
	"github.com/benote/benote-core/internal/models"
	"github.com/benote/benote-core/internal/permissions"
	"github.com/benote/benote-core/internal/store"
	"github.com/google/uuid"
)

type MembershipService struct {
	store   *store.Store
	chain   permissions.Chain
	presets *permissions.Presets
}

func NewMembershipService(s *store.Store, presets *permissions.Presets) *MembershipService {
	if presets == nil {
		presets = permissions.DefaultPresets()
	}
	return &MembershipService{store: s, chain: permissions.Default(), presets: presets}
}

// CreateTeam creates the team and makes the creator its accepted admin.
func (s *MembershipService) CreateTeam(ctx context.Context, creatorID uuid.UUID, req *dto.CreateTeamRequest) (*models.Team, error) {
	team := &models.Team{Name: req.Name, Description: req.Description, CreatorID: creatorID}
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		if err := tx.Create(ctx, team); err != nil {
			return err
		}
		_, err := addMember(ctx, tx, creatorID, team.ID, models.RoleAdmin, true)
		return err
	})
	if err != nil {
		return nil, err
	}
	slog.Info("team created", "user_id", creatorID, "action", "create_team", "team_id", team.ID)
	return team, nil
}

// JoinTeam adds a pending membership with no capabilities.
func (s *MembershipService) JoinTeam(ctx context.Context, userID, teamID uuid.UUID, role string) (*models.TeamMembership, error) {
	var m *models.TeamMembership
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		var err error
		m, err = addMember(ctx, tx, userID, teamID, role, false)
		return err
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// InviteMember lets an accepted team admin add a pending member and notify
// them. Both rows are written or neither.
func (s *MembershipService) InviteMember(ctx context.Context, inviterID, teamID, inviteeID uuid.UUID, role string) (*models.TeamMembership, *models.Notification, error) {
	var (
		m *models.TeamMembership
		n *models.Notification
	)
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		var team models.Team
		if err := tx.Get(ctx, &team, teamID); err != nil {
			return err
		}
		inviter, err := membershipOf(ctx, tx, inviterID, teamID)
		if err != nil && !apperrors.IsNotFound(err) {
			return err
		}
		if err != nil || !inviter.InvitationAccepted || inviter.Role != models.RoleAdmin {
			return apperrors.Forbidden("only team admins can invite members")
		}

		m, err = addMember(ctx, tx, inviteeID, teamID, role, false)
		if err != nil {
			return err
		}
		n, err = emit(ctx, tx, &dto.EmitRequest{
			ReceiverID: inviteeID,
			SenderID:   &inviterID,
			Type:       models.NotificationInvitation,
			Message:    fmt.Sprintf("You have been invited to join %s", team.Name),
			Action:     models.InvitationAction{TeamID: teamID, Route: "/teams/" + teamID.String()},
		})
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	slog.Info("member invited", "user_id", inviterID, "action", "invite_member", "team_id", teamID, "invitee_id", inviteeID)
	return m, n, nil
}

// LeaveTeam removes the membership and its permission row.
func (s *MembershipService) LeaveTeam(ctx context.Context, userID, teamID uuid.UUID) error {
	return s.store.Transaction(ctx, func(tx *store.Store) error {
		m, err := membershipOf(ctx, tx, userID, teamID)
		if err != nil {
			return err
		}
		return tx.Delete(ctx, &models.TeamMembership{}, m.ID)
	})
}

func (s *MembershipService) GrantCapability(ctx context.Context, membershipID uuid.UUID, c models.Capability) (*models.TeamMembershipPermission, error) {
	return s.setFlags(ctx, membershipID, func(p *models.TeamMembershipPermission) error {
		return p.Set(c, true)
	})
}

func (s *MembershipService) RevokeCapability(ctx context.Context, membershipID uuid.UUID, c models.Capability) (*models.TeamMembershipPermission, error) {
	return s.setFlags(ctx, membershipID, func(p *models.TeamMembershipPermission) error {
		return p.Set(c, false)
	})
}

// ApplyPreset replaces every flag with the preset's grants.
func (s *MembershipService) ApplyPreset(ctx context.Context, membershipID uuid.UUID, name string) (*models.TeamMembershipPermission, error) {
	preset, err := s.presets.Get(name)
	if err != nil {
		return nil, err
	}
	return s.setFlags(ctx, membershipID, func(p *models.TeamMembershipPermission) error {
		for _, c := range models.Capabilities {
			if err := p.Set(c, preset.Grants(c)); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *MembershipService) setFlags(ctx context.Context, membershipID uuid.UUID, apply func(p *models.TeamMembershipPermission) error) (*models.TeamMembershipPermission, error) {
	var p models.TeamMembershipPermission
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		err := tx.First(ctx, &p, store.Where("team_membership_id", membershipID))
		if apperrors.IsNotFound(err) {
			return apperrors.NotFound("team_membership_permissions", membershipID)
		}
		if err != nil {
			return err
		}
		return tx.Update(ctx, &p, p.ID, func() error { return apply(&p) })
	})
	if err != nil {
		return nil, err
	}
	slog.Info("capabilities updated", "action", "set_capabilities", "team_membership_id", membershipID)
	return &p, nil
}

// CheckCapability is false for non-members and pending members.
func (s *MembershipService) CheckCapability(ctx context.Context, userID, teamID uuid.UUID, c models.Capability) (bool, error) {
	return checkCapability(ctx, s.store, s.chain, userID, teamID, c)
}

// WorkspaceRole resolves the caller's effective role on the workspace, or ""
// when the user has no access. Admin wins over member.
func (s *MembershipService) WorkspaceRole(ctx context.Context, userID, workspaceID uuid.UUID) (string, error) {
	return workspaceRole(ctx, s.store, userID, workspaceID)
}

// ShareWorkspace grants a user or a team access to a workspace. The caller
// must be a workspace admin; an admin role held only through a team also
// needs share_notes in that team.
func (s *MembershipService) ShareWorkspace(ctx context.Context, callerID, workspaceID uuid.UUID, req *dto.ShareWorkspaceRequest) (*models.WorkspaceMembership, error) {
	m := &models.WorkspaceMembership{
		WorkspaceID: workspaceID,
		UserID:      req.UserID,
		TeamID:      req.TeamID,
		Role:        req.Role,
	}
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		if err := requireWorkspaceCapability(ctx, tx, callerID, workspaceID, models.RoleAdmin, models.CapShareNotes); err != nil {
			return err
		}
		return tx.Create(ctx, m)
	})
	if err != nil {
		return nil, err
	}
	slog.Info("workspace shared", "user_id", callerID, "action", "share_workspace", "workspace_id", workspaceID)
	return m, nil
}

func addMember(ctx context.Context, tx *store.Store, userID, teamID uuid.UUID, role string, accepted bool) (*models.TeamMembership, error) {
	m := &models.TeamMembership{UserID: userID, TeamID: teamID, Role: role, InvitationAccepted: accepted}
	if err := tx.Create(ctx, m); err != nil {
		return nil, err
	}
	if err := tx.Create(ctx, &models.TeamMembershipPermission{TeamMembershipID: m.ID}); err != nil {
		return nil, err
	}
	return m, nil
}

func membershipOf(ctx context.Context, s *store.Store, userID, teamID uuid.UUID) (*models.TeamMembership, error) {
	var m models.TeamMembership
	if err := s.First(ctx, &m, store.Where("user_id", userID), store.Where("team_id", teamID)); err != nil {
		return nil, err
	}
	return &m, nil
}

func checkCapability(ctx context.Context, s *store.Store, chain permissions.Chain, userID, teamID uuid.UUID, c models.Capability) (bool, error) {
	m, err := membershipOf(ctx, s, userID, teamID)
	if apperrors.IsNotFound(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	subject := permissions.Subject{Membership: m}
	var p models.TeamMembershipPermission
	err = s.First(ctx, &p, store.Where("team_membership_id", m.ID))
	switch {
	case err == nil:
		subject.Permission = &p
	case !apperrors.IsNotFound(err):
		return false, err
	}
	return chain.Allowed(subject, c), nil
}

// requireCapability turns a failed capability check into a ForbiddenError.
func requireCapability(ctx context.Context, s *store.Store, userID, teamID uuid.UUID, c models.Capability) error {
	ok, err := checkCapability(ctx, s, permissions.Default(), userID, teamID, c)
	if err != nil {
		return err
	}
	if !ok {
		return apperrors.Forbidden("missing capability " + string(c))
	}
	return nil
}

// workspaceGrant records how a user reaches a workspace: personally, as the
// owner or through a user row, and through accepted team memberships.
type workspaceGrant struct {
	personal string
	teams    map[uuid.UUID]string
}

// role is the effective role; admin wins over member.
func (g *workspaceGrant) role() string {
	role := g.personal
	for _, r := range g.teams {
		if r == models.RoleAdmin {
			return models.RoleAdmin
		}
		if role == "" {
			role = r
		}
	}
	return role
}

func resolveWorkspace(ctx context.Context, s *store.Store, userID, workspaceID uuid.UUID) (*workspaceGrant, error) {
	var ws models.Workspace
	if err := s.Get(ctx, &ws, workspaceID); err != nil {
		return nil, err
	}
	g := &workspaceGrant{teams: make(map[uuid.UUID]string)}
	if ws.OwnerID == userID {
		g.personal = models.RoleAdmin
		return g, nil
	}

	var rows []models.WorkspaceMembership
	if err := s.List(ctx, &rows, store.Where("workspace_id", workspaceID)); err != nil {
		return nil, err
	}
	for _, row := range rows {
		switch {
		case row.UserID != nil && *row.UserID == userID:
			if g.personal != models.RoleAdmin {
				g.personal = row.Role
			}
		case row.TeamID != nil:
			m, err := membershipOf(ctx, s, userID, *row.TeamID)
			if apperrors.IsNotFound(err) {
				continue
			}
			if err != nil {
				return nil, err
			}
			if !m.InvitationAccepted {
				continue
			}
			if g.teams[*row.TeamID] != models.RoleAdmin {
				g.teams[*row.TeamID] = row.Role
			}
		}
	}
	return g, nil
}

func workspaceRole(ctx context.Context, s *store.Store, userID, workspaceID uuid.UUID) (string, error) {
	g, err := resolveWorkspace(ctx, s, userID, workspaceID)
	if err != nil {
		return "", err
	}
	return g.role(), nil
}

// requireWorkspaceAccess returns ForbiddenError when the user has no role on
// the workspace.
func requireWorkspaceAccess(ctx context.Context, s *store.Store, userID, workspaceID uuid.UUID) (string, error) {
	role, err := workspaceRole(ctx, s, userID, workspaceID)
	if err != nil {
		return "", err
	}
	if role == "" {
		return "", apperrors.Forbidden("no access to workspace")
	}
	return role, nil
}

// requireWorkspaceCapability admits personal access as is. Access that comes
// only from teams needs c in one of the teams granting at least minRole.
func requireWorkspaceCapability(ctx context.Context, s *store.Store, userID, workspaceID uuid.UUID, minRole string, c models.Capability) error {
	g, err := resolveWorkspace(ctx, s, userID, workspaceID)
	if err != nil {
		return err
	}
	if covers(g.personal, minRole) {
		return nil
	}
	granted := false
	for teamID, role := range g.teams {
		if !covers(role, minRole) {
			continue
		}
		granted = true
		ok, err := checkCapability(ctx, s, permissions.Default(), userID, teamID, c)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	if !granted {
		if minRole == models.RoleAdmin && g.role() != "" {
			return apperrors.Forbidden("workspace admin role required")
		}
		return apperrors.Forbidden("no access to workspace")
	}
	return apperrors.Forbidden("missing capability " + string(c))
}

// covers reports whether role is at least minRole.
func covers(role, minRole string) bool {
	switch role {
	case models.RoleAdmin:
		return true
	case models.RoleMember:
		return minRole == models.RoleMember
	}
	return false
}
