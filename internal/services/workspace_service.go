package services

import (
	"context"
	"log/slog"

	"github.com/benote/benote-core/internal/apperrors"
	"github.com/benote/benote-core/internal/convert"
	"github.com/benote/benote-core/internal/dto"
	"github.com/benote/benote-core/internal/models"
	"github.com/benote/benote-core/internal/store"
	"github.com/google/uuid"
)

type WorkspaceService struct {
	store     *store.Store
	converter convert.Converter
}

func NewWorkspaceService(s *store.Store, converter convert.Converter) *WorkspaceService {
	if converter == nil {
		converter = convert.TextConverter{}
	}
	return &WorkspaceService{store: s, converter: converter}
}

// CreateWorkspace creates a personal workspace, or a team workspace when
// req.TeamID is set and the owner holds create_workspace in that team.
func (s *WorkspaceService) CreateWorkspace(ctx context.Context, ownerID uuid.UUID, req *dto.CreateWorkspaceRequest) (*models.Workspace, error) {
	ws := &models.Workspace{Name: req.Name, Description: req.Description, OwnerID: ownerID}
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		if req.TeamID != nil {
			if err := requireCapability(ctx, tx, ownerID, *req.TeamID, models.CapCreateWorkspace); err != nil {
				return err
			}
		}
		if err := tx.Create(ctx, ws); err != nil {
			return err
		}
		if req.TeamID == nil {
			return nil
		}
		return tx.Create(ctx, &models.WorkspaceMembership{WorkspaceID: ws.ID, TeamID: req.TeamID, Role: models.RoleMember})
	})
	if err != nil {
		return nil, err
	}
	slog.Info("workspace created", "user_id", ownerID, "action", "create_workspace", "workspace_id", ws.ID)
	return ws, nil
}

// DeleteWorkspace is reserved to workspace admins and removes all content.
func (s *WorkspaceService) DeleteWorkspace(ctx context.Context, userID, workspaceID uuid.UUID) error {
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		role, err := workspaceRole(ctx, tx, userID, workspaceID)
		if err != nil {
			return err
		}
		if role != models.RoleAdmin {
			return apperrors.Forbidden("only workspace admins can delete it")
		}
		return tx.Delete(ctx, &models.Workspace{}, workspaceID)
	})
	if err != nil {
		return err
	}
	slog.Info("workspace deleted", "user_id", userID, "action", "delete_workspace", "workspace_id", workspaceID)
	return nil
}

// CreateNote creates a personal note, or a workspace note when the owner has
// access to the workspace. Team-only access needs create_notes.
func (s *WorkspaceService) CreateNote(ctx context.Context, ownerID uuid.UUID, req *dto.CreateNoteRequest) (*models.Note, error) {
	note := &models.Note{Title: req.Title, Content: req.Content, OwnerID: ownerID, WorkspaceID: req.WorkspaceID}
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		if req.WorkspaceID != nil {
			if err := requireWorkspaceCapability(ctx, tx, ownerID, *req.WorkspaceID, models.RoleMember, models.CapCreateNotes); err != nil {
				return err
			}
		}
		return tx.Create(ctx, note)
	})
	if err != nil {
		return nil, err
	}
	return note, nil
}

// ImportNote converts an uploaded file and stores the result as a note.
func (s *WorkspaceService) ImportNote(ctx context.Context, ownerID uuid.UUID, workspaceID *uuid.UUID, data []byte, ext string) (*models.Note, error) {
	out, err := s.converter.Convert(ctx, data, ext)
	if err != nil {
		slog.Error("note import failed", "user_id", ownerID, "action", "import_note", "error", err.Error())
		return nil, err
	}
	return s.CreateNote(ctx, ownerID, &dto.CreateNoteRequest{
		Title:       out.Title,
		Content:     out.Content,
		WorkspaceID: workspaceID,
	})
}

// UpdateNote is limited to the note owner.
func (s *WorkspaceService) UpdateNote(ctx context.Context, userID, noteID uuid.UUID, req *dto.UpdateNoteRequest) (*models.Note, error) {
	var note models.Note
	err := s.store.Update(ctx, &note, noteID, func() error {
		if note.OwnerID != userID {
			return apperrors.Forbidden("only the owner can edit a note")
		}
		if req.Title != nil {
			note.Title = *req.Title
		}
		if req.Content != nil {
			note.Content = *req.Content
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (s *WorkspaceService) DeleteNote(ctx context.Context, userID, noteID uuid.UUID) error {
	return s.store.Transaction(ctx, func(tx *store.Store) error {
		var note models.Note
		if err := tx.Get(ctx, &note, noteID); err != nil {
			return err
		}
		if note.OwnerID != userID {
			return apperrors.Forbidden("only the owner can delete a note")
		}
		return tx.Delete(ctx, &note, noteID)
	})
}

func (s *WorkspaceService) CreateTask(ctx context.Context, userID, workspaceID uuid.UUID, req *dto.CreateTaskRequest) (*models.Task, error) {
	task := &models.Task{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		AssigneeID:  req.AssigneeID,
		WorkspaceID: workspaceID,
	}
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		if err := requireWorkspaceCapability(ctx, tx, userID, workspaceID, models.RoleMember, models.CapCreateTask); err != nil {
			return err
		}
		return tx.Create(ctx, task)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (s *WorkspaceService) UpdateTaskStatus(ctx context.Context, userID, taskID uuid.UUID, status string) (*models.Task, error) {
	var task models.Task
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		return tx.Update(ctx, &task, taskID, func() error {
			if _, err := requireWorkspaceAccess(ctx, tx, userID, task.WorkspaceID); err != nil {
				return err
			}
			task.Status = status
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *WorkspaceService) CreateTodo(ctx context.Context, userID, workspaceID uuid.UUID, req *dto.CreateTodoRequest) (*models.Todo, error) {
	todo := &models.Todo{Title: req.Title, WorkspaceID: workspaceID, UserID: userID}
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		if err := requireWorkspaceCapability(ctx, tx, userID, workspaceID, models.RoleMember, models.CapCreateTodo); err != nil {
			return err
		}
		return tx.Create(ctx, todo)
	})
	if err != nil {
		return nil, err
	}
	return todo, nil
}

func (s *WorkspaceService) AddTodoItem(ctx context.Context, userID, todoID uuid.UUID, title string) (*models.TodoItem, error) {
	item := &models.TodoItem{Title: title, TodoID: todoID}
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		if err := ownTodo(ctx, tx, userID, todoID); err != nil {
			return err
		}
		return tx.Create(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// ToggleTodoItem flips the completion flag.
func (s *WorkspaceService) ToggleTodoItem(ctx context.Context, userID, itemID uuid.UUID) (*models.TodoItem, error) {
	var item models.TodoItem
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		return tx.Update(ctx, &item, itemID, func() error {
			if err := ownTodo(ctx, tx, userID, item.TodoID); err != nil {
				return err
			}
			item.IsCompleted = !item.IsCompleted
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *WorkspaceService) CreateTimeBlock(ctx context.Context, userID, workspaceID uuid.UUID, req *dto.CreateTimeBlockRequest) (*models.TimeBlock, error) {
	block := &models.TimeBlock{
		Title:       req.Title,
		StartAt:     req.StartAt,
		EndAt:       req.EndAt,
		WorkspaceID: workspaceID,
		UserID:      userID,
	}
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		if err := requireWorkspaceCapability(ctx, tx, userID, workspaceID, models.RoleMember, models.CapCreateTask); err != nil {
			return err
		}
		return tx.Create(ctx, block)
	})
	if err != nil {
		return nil, err
	}
	return block, nil
}

func ownTodo(ctx context.Context, s *store.Store, userID, todoID uuid.UUID) error {
	var todo models.Todo
	if err := s.Get(ctx, &todo, todoID); err != nil {
		return err
	}
	if todo.UserID != userID {
		return apperrors.Forbidden("only the owner can change a todo")
	}
	return nil
}
