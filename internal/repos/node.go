package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenprint/greenprint-backend/internal/platform/logger"
	"github.com/greenprint/greenprint-backend/internal/types"
)

type NodeRepo interface {
	Create(ctx context.Context, tx *gorm.DB, nodes []*types.Node) ([]*types.Node, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Node, error)
	GetByRecommendationID(ctx context.Context, tx *gorm.DB, recommendationID uuid.UUID) ([]*types.Node, error)
	CountByRecommendationID(ctx context.Context, tx *gorm.DB, recommendationID uuid.UUID) (int64, error)
	CountByRecommendationIDAndStatus(ctx context.Context, tx *gorm.DB, recommendationID uuid.UUID, status types.NodeStatus) (int64, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status types.NodeStatus, completedAt *time.Time) error
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type nodeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNodeRepo(db *gorm.DB, baseLog *logger.Logger) NodeRepo {
	return &nodeRepo{db: db, log: baseLog.With("repo", "NodeRepo")}
}

func (r *nodeRepo) Create(ctx context.Context, tx *gorm.DB, nodes []*types.Node) ([]*types.Node, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(nodes) == 0 {
		return []*types.Node{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&nodes).Error; err != nil {
		return nil, err
	}
	return nodes, nil
}

func (r *nodeRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Node, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Node
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

func (r *nodeRepo) GetByRecommendationID(ctx context.Context, tx *gorm.DB, recommendationID uuid.UUID) ([]*types.Node, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Node
	if recommendationID == uuid.Nil {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("recommendation_id = ?", recommendationID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *nodeRepo) CountByRecommendationID(ctx context.Context, tx *gorm.DB, recommendationID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Node{}).
		Where("recommendation_id = ?", recommendationID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *nodeRepo) CountByRecommendationIDAndStatus(ctx context.Context, tx *gorm.DB, recommendationID uuid.UUID, status types.NodeStatus) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Node{}).
		Where("recommendation_id = ? AND status = ?", recommendationID, status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *nodeRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status types.NodeStatus, completedAt *time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	updates := map[string]interface{}{"status": status}
	if completedAt != nil {
		updates["completed_at"] = *completedAt
	}
	return transaction.WithContext(ctx).
		Model(&types.Node{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *nodeRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.Node{}).Error
}
