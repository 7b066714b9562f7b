package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/benote/benote-core/internal/apperrors"
	"github.com/benote/benote-core/internal/dto"
	"github.com/benote/benote-core/internal/models"
	"github.com/benote/benote-core/internal/store"
	"github.com/google/uuid"
)

type ClassroomService struct {
	store *store.Store
}

func NewClassroomService(s *store.Store) *ClassroomService {
	return &ClassroomService{store: s}
}

// CreateClassroom requires a user with the teacher role.
func (s *ClassroomService) CreateClassroom(ctx context.Context, teacherID uuid.UUID, req *dto.CreateClassroomRequest) (*models.Classroom, error) {
	c := &models.Classroom{Name: req.Name, Description: req.Description, TeacherID: teacherID}
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		var u models.User
		if err := tx.Get(ctx, &u, teacherID); err != nil {
			return err
		}
		if u.Role != models.UserRoleTeacher {
			return apperrors.Forbidden("only teachers can create classrooms")
		}
		return tx.Create(ctx, c)
	})
	if err != nil {
		return nil, err
	}
	slog.Info("classroom created", "user_id", teacherID, "action", "create_classroom", "classroom_id", c.ID)
	return c, nil
}

func (s *ClassroomService) EnrollStudent(ctx context.Context, teacherID, classroomID, studentID uuid.UUID) (*models.ClassroomStudent, error) {
	cs := &models.ClassroomStudent{ClassroomID: classroomID, UserID: studentID}
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		if _, err := teacherOf(ctx, tx, teacherID, classroomID); err != nil {
			return err
		}
		return tx.Create(ctx, cs)
	})
	if err != nil {
		return nil, err
	}
	return cs, nil
}

func (s *ClassroomService) CreateAssignment(ctx context.Context, teacherID, classroomID uuid.UUID, req *dto.CreateAssignmentRequest) (*models.Assignment, error) {
	a := &models.Assignment{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		ClassroomID: classroomID,
		CreatorID:   teacherID,
	}
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		if _, err := teacherOf(ctx, tx, teacherID, classroomID); err != nil {
			return err
		}
		return tx.Create(ctx, a)
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (s *ClassroomService) PostAnnouncement(ctx context.Context, teacherID, classroomID uuid.UUID, content string) (*models.Announcement, error) {
	a := &models.Announcement{ClassroomID: classroomID, TeacherID: teacherID, Content: content}
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		if _, err := teacherOf(ctx, tx, teacherID, classroomID); err != nil {
			return err
		}
		return tx.Create(ctx, a)
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Submit records a student's single submission for an assignment. A second
// submission is rejected by the unique key.
func (s *ClassroomService) Submit(ctx context.Context, studentID, assignmentID uuid.UUID, req *dto.SubmitRequest) (*models.Submission, error) {
	sub := &models.Submission{
		AssignmentID: assignmentID,
		SubmittedBy:  studentID,
		FilePath:     req.FilePath,
		SubmittedAt:  time.Now().UTC(),
	}
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		var a models.Assignment
		if err := tx.Get(ctx, &a, assignmentID); err != nil {
			return err
		}
		n, err := tx.Count(ctx, &models.ClassroomStudent{},
			store.Where("classroom_id", a.ClassroomID), store.Where("user_id", studentID))
		if err != nil {
			return err
		}
		if n == 0 {
			return apperrors.Forbidden("only enrolled students can submit")
		}
		return tx.Create(ctx, sub)
	})
	if err != nil {
		return nil, err
	}
	slog.Info("assignment submitted", "user_id", studentID, "action", "submit", "assignment_id", assignmentID)
	return sub, nil
}

// Grade sets the grade and records the grader. Only the classroom teacher
// may grade.
func (s *ClassroomService) Grade(ctx context.Context, teacherID, submissionID uuid.UUID, req *dto.GradeRequest) (*models.Submission, error) {
	var sub models.Submission
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		return tx.Update(ctx, &sub, submissionID, func() error {
			var a models.Assignment
			if err := tx.Get(ctx, &a, sub.AssignmentID); err != nil {
				return err
			}
			if _, err := teacherOf(ctx, tx, teacherID, a.ClassroomID); err != nil {
				return err
			}
			grade := req.Grade
			sub.Grade = &grade
			sub.GradedBy = &teacherID
			sub.Feedback = req.Feedback
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	slog.Info("submission graded", "user_id", teacherID, "action", "grade", "submission_id", submissionID)
	return &sub, nil
}

// DeleteAssignment fails with a ConflictError while submissions exist unless
// purgeSubmissions is set.
func (s *ClassroomService) DeleteAssignment(ctx context.Context, teacherID, assignmentID uuid.UUID, purgeSubmissions bool) error {
	return s.store.Transaction(ctx, func(tx *store.Store) error {
		var a models.Assignment
		if err := tx.Get(ctx, &a, assignmentID); err != nil {
			return err
		}
		if _, err := teacherOf(ctx, tx, teacherID, a.ClassroomID); err != nil {
			return err
		}
		var opts []store.DeleteOption
		if purgeSubmissions {
			opts = append(opts, store.Purge("submissions"))
		}
		return tx.Delete(ctx, &a, assignmentID, opts...)
	})
}

// DeleteClassroom fails with a ConflictError while assignments exist.
func (s *ClassroomService) DeleteClassroom(ctx context.Context, teacherID, classroomID uuid.UUID) error {
	return s.store.Transaction(ctx, func(tx *store.Store) error {
		c, err := teacherOf(ctx, tx, teacherID, classroomID)
		if err != nil {
			return err
		}
		return tx.Delete(ctx, c, classroomID)
	})
}

// UploadResource shares a file with the classroom; teacher only.
func (s *ClassroomService) UploadResource(ctx context.Context, teacherID, classroomID uuid.UUID, req *dto.UploadResourceRequest) (*models.Resource, error) {
	r := &models.Resource{
		Name:        req.Name,
		Path:        req.Path,
		Size:        req.Size,
		Description: req.Description,
		UploaderID:  teacherID,
		ClassroomID: &classroomID,
	}
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		if _, err := teacherOf(ctx, tx, teacherID, classroomID); err != nil {
			return err
		}
		return tx.Create(ctx, r)
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

func teacherOf(ctx context.Context, s *store.Store, userID, classroomID uuid.UUID) (*models.Classroom, error) {
	var c models.Classroom
	if err := s.Get(ctx, &c, classroomID); err != nil {
		return nil, err
	}
	if c.TeacherID != userID {
		return nil, apperrors.Forbidden("only the classroom teacher can do this")
	}
	return &c, nil
}
