package relations

import (
	"testing"

	"github.com/benote/benote-core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func workspaceBuilder() *Builder {
	return NewBuilder().
		Node(&models.User{}).
		Node(&models.Workspace{}).
		Node(&models.Note{}).
		Node(&models.Task{}).
		BelongsTo("workspaces", "owner_id", "users", Cascade).
		BelongsTo("notes", "owner_id", "users", Cascade).
		BelongsTo("notes", "workspace_id", "workspaces", Cascade).
		BelongsTo("tasks", "workspace_id", "workspaces", Cascade).
		BelongsTo("tasks", "assignee_id", "users", SetNull)
}

func TestCompile_Valid(t *testing.T) {
	g, err := workspaceBuilder().Compile()
	require.NoError(t, err)

	assert.Equal(t, Stats{Nodes: 4, Edges: 5, Cascade: 4, SetNull: 1}, g.Stats())

	children := g.Children("workspaces")
	require.Len(t, children, 2)
	assert.Equal(t, "notes", children[0].Child)
	assert.Equal(t, "tasks", children[1].Child)

	parents := g.Parents("notes")
	require.Len(t, parents, 2)
	assert.False(t, parents[0].Optional)
	assert.True(t, parents[1].Optional)

	n, ok := g.Node("notes")
	require.True(t, ok)
	_, isNote := n.New().(*models.Note)
	assert.True(t, isNote)

	_, ok = g.Node("ghosts")
	assert.False(t, ok)
}

func TestCompile_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		builder func() *Builder
		want    string
	}{
		{
			name: "unknown parent",
			builder: func() *Builder {
				return NewBuilder().Node(&models.Note{}).BelongsTo("notes", "owner_id", "users", Cascade)
			},
			want: "unknown parent table",
		},
		{
			name: "unknown column",
			builder: func() *Builder {
				return NewBuilder().Node(&models.User{}).Node(&models.Note{}).BelongsTo("notes", "author_id", "users", Cascade)
			},
			want: "no such column",
		},
		{
			name: "set null on required column",
			builder: func() *Builder {
				return NewBuilder().Node(&models.User{}).Node(&models.Note{}).BelongsTo("notes", "owner_id", "users", SetNull)
			},
			want: "nullable",
		},
		{
			name: "duplicate edge",
			builder: func() *Builder {
				return workspaceBuilder().BelongsTo("notes", "owner_id", "users", Restrict)
			},
			want: "declared twice",
		},
		{
			name: "duplicate node",
			builder: func() *Builder {
				return workspaceBuilder().Node(&models.User{})
			},
			want: "registered twice",
		},
		{
			name: "cascade cycle",
			builder: func() *Builder {
				return NewBuilder().
					Node(&models.User{}).
					Node(&models.Profile{}).
					BelongsTo("profiles", "user_id", "users", Cascade).
					BelongsTo("users", "id", "profiles", Cascade)
			},
			want: "cascade cycle",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.builder().Compile()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestCompile_SelfReferenceAllowed(t *testing.T) {
	g, err := NewBuilder().
		Node(&models.User{}).
		Node(&models.Mindmap{}).
		Node(&models.MindmapItem{}).
		BelongsTo("mindmaps", "owner_id", "users", Cascade).
		BelongsTo("mindmap_items", "mindmap_id", "mindmaps", Cascade).
		BelongsTo("mindmap_items", "parent_id", "mindmap_items", Cascade).
		Compile()
	require.NoError(t, err)

	self := g.Parents("mindmap_items")[1]
	assert.True(t, self.Self())
	assert.True(t, self.Optional)
}
