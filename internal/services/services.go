package services

import (
	"github.com/benote/benote-core/internal/convert"
	"github.com/benote/benote-core/internal/permissions"
	"github.com/benote/benote-core/internal/store"
)

// Services is the set of domain services sharing one store.
type Services struct {
	Accounts      *AccountService
	Memberships   *MembershipService
	Notifications *NotificationService
	Workspaces    *WorkspaceService
	Teams         *TeamService
	Classrooms    *ClassroomService
	Planning      *PlanningService
}

func New(s *store.Store, presets *permissions.Presets, converter convert.Converter, pageSize int) *Services {
	return &Services{
		Accounts:      NewAccountService(s),
		Memberships:   NewMembershipService(s, presets),
		Notifications: NewNotificationService(s, pageSize),
		Workspaces:    NewWorkspaceService(s, converter),
		Teams:         NewTeamService(s),
		Classrooms:    NewClassroomService(s),
		Planning:      NewPlanningService(s),
	}
}
