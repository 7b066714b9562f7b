package permissions

import (
	"testing"

	"github.com/benote/benote-core/internal/apperrors"
	"github.com/benote/benote-core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func subject(role string, accepted bool, grants ...models.Capability) Subject {
	p := &models.TeamMembershipPermission{}
	for _, c := range grants {
		_ = p.Set(c, true)
	}
	return Subject{
		Membership: &models.TeamMembership{Role: role, InvitationAccepted: accepted},
		Permission: p,
	}
}

func TestChain_Allowed(t *testing.T) {
	chain := Default()

	tests := []struct {
		name string
		s    Subject
		c    models.Capability
		want bool
	}{
		{"no membership", Subject{}, models.CapCreateTask, false},
		{"pending admin", subject(models.RoleAdmin, false), models.CapCreateTask, false},
		{"accepted admin without flags", subject(models.RoleAdmin, true), models.CapCreateTask, true},
		{"member without flag", subject(models.RoleMember, true), models.CapCreateTask, false},
		{"member with flag", subject(models.RoleMember, true, models.CapCreateTask), models.CapCreateTask, true},
		{"member with other flag", subject(models.RoleMember, true, models.CapShareNotes), models.CapCreateTask, false},
		{"member missing permission row", Subject{Membership: &models.TeamMembership{Role: models.RoleMember, InvitationAccepted: true}}, models.CapCreateTask, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, chain.Allowed(tt.s, tt.c))
		})
	}
}

func TestChain_Order(t *testing.T) {
	s := subject(models.RoleAdmin, true)
	assert.False(t, Chain{FlagBased{}, RoleBased{}}.Allowed(s, models.CapUploadFiles))
	assert.True(t, Chain{RoleBased{}, FlagBased{}}.Allowed(s, models.CapUploadFiles))
	assert.False(t, Chain{}.Allowed(s, models.CapUploadFiles))
}

func TestParsePresets(t *testing.T) {
	data := []byte(`
presets:
  - name: writer
    description: Notes only
    capabilities: [create_notes, share_notes]
  - name: empty
`)
	p, err := ParsePresets(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"empty", "writer"}, p.Names())

	writer, err := p.Get("writer")
	require.NoError(t, err)
	assert.True(t, writer.Grants(models.CapShareNotes))
	assert.False(t, writer.Grants(models.CapCreateTask))

	_, err = p.Get("missing")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestParsePresets_Invalid(t *testing.T) {
	_, err := ParsePresets([]byte("presets:\n  - name: bad\n    capabilities: [fly]\n"))
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = ParsePresets([]byte("presets:\n  - description: nameless\n"))
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = ParsePresets([]byte("presets: ["))
	assert.Error(t, err)
}

func TestDefaultPresets(t *testing.T) {
	p := DefaultPresets()
	manager, err := p.Get("manager")
	require.NoError(t, err)
	for _, c := range models.Capabilities {
		assert.True(t, manager.Grants(c), c)
	}
}

func TestLoadPresets_ShippedFile(t *testing.T) {
	p, err := LoadPresets("../../config/presets.yaml")
	require.NoError(t, err)
	assert.Equal(t, []string{"contributor", "manager", "planner", "viewer"}, p.Names())

	manager, err := p.Get("manager")
	require.NoError(t, err)
	for _, c := range models.Capabilities {
		assert.True(t, manager.Grants(c), c)
	}

	_, err = LoadPresets("does-not-exist.yaml")
	assert.Error(t, err)
}
