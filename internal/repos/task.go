package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenprint/greenprint-backend/internal/platform/logger"
	"github.com/greenprint/greenprint-backend/internal/types"
)

type TaskRepo interface {
	Create(ctx context.Context, tx *gorm.DB, tasks []*types.Task) ([]*types.Task, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Task, error)
	GetByUserAndRecommendationID(ctx context.Context, tx *gorm.DB, userID, recommendationID uuid.UUID) ([]*types.Task, error)
	CountByUserAndRecommendationID(ctx context.Context, tx *gorm.DB, userID, recommendationID uuid.UUID) (int64, error)
	CountByUserAndRecommendationIDAndStatus(ctx context.Context, tx *gorm.DB, userID, recommendationID uuid.UUID, status types.TaskStatus) (int64, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status types.TaskStatus, completedAt *time.Time) error
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
	ListOverdue(ctx context.Context, tx *gorm.DB, userID uuid.UUID, now time.Time) ([]*types.Task, error)
}

type taskRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTaskRepo(db *gorm.DB, baseLog *logger.Logger) TaskRepo {
	return &taskRepo{db: db, log: baseLog.With("repo", "TaskRepo")}
}

func (r *taskRepo) Create(ctx context.Context, tx *gorm.DB, tasks []*types.Task) ([]*types.Task, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(tasks) == 0 {
		return []*types.Task{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Task, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Task
	if len(ids) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *taskRepo) GetByUserAndRecommendationID(ctx context.Context, tx *gorm.DB, userID, recommendationID uuid.UUID) ([]*types.Task, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Task
	if userID == uuid.Nil || recommendationID == uuid.Nil {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND recommendation_id = ?", userID, recommendationID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *taskRepo) CountByUserAndRecommendationID(ctx context.Context, tx *gorm.DB, userID, recommendationID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Task{}).
		Where("user_id = ? AND recommendation_id = ?", userID, recommendationID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *taskRepo) CountByUserAndRecommendationIDAndStatus(ctx context.Context, tx *gorm.DB, userID, recommendationID uuid.UUID, status types.TaskStatus) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Task{}).
		Where("user_id = ? AND recommendation_id = ? AND status = ?", userID, recommendationID, status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *taskRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status types.TaskStatus, completedAt *time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	updates := map[string]interface{}{"status": status}
	if completedAt != nil {
		updates["completed_at"] = *completedAt
	}
	return transaction.WithContext(ctx).
		Model(&types.Task{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *taskRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.Task{}).Error
}

// ListOverdue derives overdueness at query time; nothing is stored, so the
// answer can never go stale.
func (r *taskRepo) ListOverdue(ctx context.Context, tx *gorm.DB, userID uuid.UUID, now time.Time) ([]*types.Task, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Task
	if userID == uuid.Nil {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND due_date < ? AND status <> ?", userID, now, types.TaskCompleted).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
