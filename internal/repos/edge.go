package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenprint/greenprint-backend/internal/platform/logger"
	"github.com/greenprint/greenprint-backend/internal/types"
)

type EdgeRepo interface {
	Create(ctx context.Context, tx *gorm.DB, edges []*types.Edge) ([]*types.Edge, error)
	GetBySourceNodeIDs(ctx context.Context, tx *gorm.DB, sourceIDs []uuid.UUID) ([]*types.Edge, error)
	GetByTargetNodeIDs(ctx context.Context, tx *gorm.DB, targetIDs []uuid.UUID) ([]*types.Edge, error)
	DeleteByNodeIDs(ctx context.Context, tx *gorm.DB, nodeIDs []uuid.UUID) error
}

type edgeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEdgeRepo(db *gorm.DB, baseLog *logger.Logger) EdgeRepo {
	return &edgeRepo{db: db, log: baseLog.With("repo", "EdgeRepo")}
}

func (r *edgeRepo) Create(ctx context.Context, tx *gorm.DB, edges []*types.Edge) ([]*types.Edge, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(edges) == 0 {
		return []*types.Edge{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&edges).Error; err != nil {
		return nil, err
	}
	return edges, nil
}

func (r *edgeRepo) GetBySourceNodeIDs(ctx context.Context, tx *gorm.DB, sourceIDs []uuid.UUID) ([]*types.Edge, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Edge
	if len(sourceIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("source_node_id IN ?", sourceIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *edgeRepo) GetByTargetNodeIDs(ctx context.Context, tx *gorm.DB, targetIDs []uuid.UUID) ([]*types.Edge, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Edge
	if len(targetIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("target_node_id IN ?", targetIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *edgeRepo) DeleteByNodeIDs(ctx context.Context, tx *gorm.DB, nodeIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(nodeIDs) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("source_node_id IN ? OR target_node_id IN ?", nodeIDs, nodeIDs).
		Delete(&types.Edge{}).Error
}
