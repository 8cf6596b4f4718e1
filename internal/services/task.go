package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenprint/greenprint-backend/internal/platform/apperr"
	"github.com/greenprint/greenprint-backend/internal/platform/logger"
	"github.com/greenprint/greenprint-backend/internal/repos"
	"github.com/greenprint/greenprint-backend/internal/types"
)

// TaskService manages the user-scoped checklist under a recommendation.
// Tasks are a progress signal independent of the node graph; there is no
// prerequisite chain between them.
type TaskService interface {
	CreateTask(ctx context.Context, userID, recommendationID uuid.UUID, taskName string, dueDate time.Time) (*types.Task, error)
	AdvanceTask(ctx context.Context, taskID uuid.UUID, newStatus types.TaskStatus) (*types.Task, error)
	DeleteTask(ctx context.Context, taskID uuid.UUID) error
	ListOverdue(ctx context.Context, userID uuid.UUID, now time.Time) ([]*types.Task, error)
}

type taskService struct {
	db       *gorm.DB
	log      *logger.Logger
	taskRepo repos.TaskRepo
	recRepo  repos.RecommendationRepo
	progress ProgressService
}

func NewTaskService(
	db *gorm.DB,
	baseLog *logger.Logger,
	taskRepo repos.TaskRepo,
	recRepo repos.RecommendationRepo,
	progress ProgressService,
) TaskService {
	return &taskService{
		db:       db,
		log:      baseLog.With("service", "TaskService"),
		taskRepo: taskRepo,
		recRepo:  recRepo,
		progress: progress,
	}
}

func (s *taskService) CreateTask(ctx context.Context, userID, recommendationID uuid.UUID, taskName string, dueDate time.Time) (*types.Task, error) {
	if taskName == "" {
		return nil, fmt.Errorf("task name required")
	}

	var (
		task    *types.Task
		touched *types.UserProgress
	)
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recs, err := s.recRepo.GetByIDs(ctx, tx, []uuid.UUID{recommendationID})
		if err != nil {
			return fmt.Errorf("load recommendation: %w", err)
		}
		if len(recs) == 0 {
			return apperr.NotFound("recommendation %s does not exist", recommendationID)
		}

		task = &types.Task{
			ID:               uuid.New(),
			UserID:           userID,
			RecommendationID: recommendationID,
			TaskName:         taskName,
			DueDate:          dueDate,
			Status:           types.TaskPending,
		}
		if _, err := s.taskRepo.Create(ctx, tx, []*types.Task{task}); err != nil {
			return fmt.Errorf("create task: %w", err)
		}

		// New task changes this user's denominator.
		touched, err = s.progress.RecomputeTx(ctx, tx, userID, recommendationID)
		return err
	}); err != nil {
		return nil, err
	}
	s.progress.Publish(ctx, touched)
	return task, nil
}

func (s *taskService) AdvanceTask(ctx context.Context, taskID uuid.UUID, newStatus types.TaskStatus) (*types.Task, error) {
	if !newStatus.Valid() {
		return nil, apperr.InvalidTransition("unknown task status %q", string(newStatus))
	}

	var (
		task    *types.Task
		touched *types.UserProgress
	)
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tasks, err := s.taskRepo.GetByIDs(ctx, tx, []uuid.UUID{taskID})
		if err != nil {
			return fmt.Errorf("load task: %w", err)
		}
		if len(tasks) == 0 {
			return apperr.NotFound("task %s does not exist", taskID)
		}
		task = tasks[0]

		if task.Status == newStatus {
			return nil // replay, nothing to do
		}
		if !task.Status.CanTransition(newStatus) {
			return apperr.InvalidTransition("task %s cannot move %s -> %s", taskID, task.Status, newStatus)
		}

		var completedAt *time.Time
		if newStatus == types.TaskCompleted {
			now := time.Now().UTC()
			completedAt = &now
		}
		if err := s.taskRepo.UpdateStatus(ctx, tx, taskID, newStatus, completedAt); err != nil {
			return fmt.Errorf("update task status: %w", err)
		}
		task.Status = newStatus
		task.CompletedAt = completedAt

		if newStatus == types.TaskCompleted {
			touched, err = s.progress.RecomputeTx(ctx, tx, task.UserID, task.RecommendationID)
			return err
		}
		return nil
	}); err != nil {
		return nil, err
	}
	if touched != nil {
		s.progress.Publish(ctx, touched)
	}
	return task, nil
}

func (s *taskService) DeleteTask(ctx context.Context, taskID uuid.UUID) error {
	var touched *types.UserProgress
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tasks, err := s.taskRepo.GetByIDs(ctx, tx, []uuid.UUID{taskID})
		if err != nil {
			return fmt.Errorf("load task: %w", err)
		}
		if len(tasks) == 0 {
			return apperr.NotFound("task %s does not exist", taskID)
		}
		task := tasks[0]

		if err := s.taskRepo.DeleteByIDs(ctx, tx, []uuid.UUID{taskID}); err != nil {
			return fmt.Errorf("delete task: %w", err)
		}
		// Removal changes this user's denominator.
		touched, err = s.progress.RecomputeTx(ctx, tx, task.UserID, task.RecommendationID)
		return err
	}); err != nil {
		return err
	}
	s.progress.Publish(ctx, touched)
	return nil
}

func (s *taskService) ListOverdue(ctx context.Context, userID uuid.UUID, now time.Time) ([]*types.Task, error) {
	return s.taskRepo.ListOverdue(ctx, nil, userID, now)
}
