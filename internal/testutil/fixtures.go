package testutil

import (
	"context"
	"testing"

	"github.com/benote/benote-core/internal/models"
	"github.com/benote/benote-core/internal/store"
	"github.com/google/uuid"
)

func SeedUser(tb testing.TB, ctx context.Context, s *store.Store, email string) *models.User {
	tb.Helper()
	u := &models.User{Name: "Test User", Email: email, Password: "x", Role: models.UserRoleStudent}
	if err := s.Create(ctx, u); err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedTeacher(tb testing.TB, ctx context.Context, s *store.Store, email string) *models.User {
	tb.Helper()
	u := &models.User{Name: "Test Teacher", Email: email, Password: "x", Role: models.UserRoleTeacher}
	if err := s.Create(ctx, u); err != nil {
		tb.Fatalf("seed teacher: %v", err)
	}
	return u
}

func SeedWorkspace(tb testing.TB, ctx context.Context, s *store.Store, ownerID uuid.UUID) *models.Workspace {
	tb.Helper()
	w := &models.Workspace{Name: "Finals", OwnerID: ownerID}
	if err := s.Create(ctx, w); err != nil {
		tb.Fatalf("seed workspace: %v", err)
	}
	return w
}

func SeedNote(tb testing.TB, ctx context.Context, s *store.Store, ownerID, workspaceID uuid.UUID) *models.Note {
	tb.Helper()
	n := &models.Note{OwnerID: ownerID, WorkspaceID: &workspaceID, Content: "content"}
	if err := s.Create(ctx, n); err != nil {
		tb.Fatalf("seed note: %v", err)
	}
	return n
}

func SeedTodo(tb testing.TB, ctx context.Context, s *store.Store, userID, workspaceID uuid.UUID, items int) *models.Todo {
	tb.Helper()
	todo := &models.Todo{Title: "Revision", UserID: userID, WorkspaceID: workspaceID}
	if err := s.Create(ctx, todo); err != nil {
		tb.Fatalf("seed todo: %v", err)
	}
	for i := 0; i < items; i++ {
		item := &models.TodoItem{Title: "Chapter", TodoID: todo.ID}
		if err := s.Create(ctx, item); err != nil {
			tb.Fatalf("seed todo item: %v", err)
		}
	}
	return todo
}

func SeedTeam(tb testing.TB, ctx context.Context, s *store.Store, creatorID uuid.UUID) *models.Team {
	tb.Helper()
	t := &models.Team{Name: "Study group", CreatorID: creatorID}
	if err := s.Create(ctx, t); err != nil {
		tb.Fatalf("seed team: %v", err)
	}
	return t
}

func SeedClassroom(tb testing.TB, ctx context.Context, s *store.Store, teacherID uuid.UUID) *models.Classroom {
	tb.Helper()
	c := &models.Classroom{Name: "Physics 101", TeacherID: teacherID}
	if err := s.Create(ctx, c); err != nil {
		tb.Fatalf("seed classroom: %v", err)
	}
	return c
}
