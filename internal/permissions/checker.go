// Package permissions decides whether a team member holds a capability.
// Checkers are evaluated in order; the first one that does not abstain wins
// and the answer defaults to deny.
package permissions

import "github.com/benote/benote-core/internal/models"

type Decision int

const (
	Abstain Decision = iota
	Allow
	Deny
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Deny:
		return "deny"
	default:
		return "abstain"
	}
}

// Subject is an accepted membership and its permission row. Permission may be
// nil when the row is missing.
type Subject struct {
	Membership *models.TeamMembership
	Permission *models.TeamMembershipPermission
}

type CapabilityChecker interface {
	Evaluate(s Subject, c models.Capability) Decision
}

// RoleBased allows every capability to team admins.
type RoleBased struct{}

func (RoleBased) Evaluate(s Subject, _ models.Capability) Decision {
	if s.Membership != nil && s.Membership.Role == models.RoleAdmin {
		return Allow
	}
	return Abstain
}

// FlagBased answers from the stored permission flags.
type FlagBased struct{}

func (FlagBased) Evaluate(s Subject, c models.Capability) Decision {
	if s.Permission == nil {
		return Deny
	}
	if s.Permission.Has(c) {
		return Allow
	}
	return Deny
}

type Chain []CapabilityChecker

// Default is role first, then flags.
func Default() Chain {
	return Chain{RoleBased{}, FlagBased{}}
}

// Allowed requires an accepted membership before consulting the checkers.
func (ch Chain) Allowed(s Subject, c models.Capability) bool {
	if s.Membership == nil || !s.Membership.InvitationAccepted {
		return false
	}
	for _, checker := range ch {
		switch checker.Evaluate(s, c) {
		case Allow:
			return true
		case Deny:
			return false
		}
	}
	return false
}
