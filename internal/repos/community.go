package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenprint/greenprint-backend/internal/platform/logger"
	"github.com/greenprint/greenprint-backend/internal/types"
)

type CommunityRepo interface {
	Create(ctx context.Context, tx *gorm.DB, communities []*types.Community) ([]*types.Community, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Community, error)
	GetByLeaderID(ctx context.Context, tx *gorm.DB, leaderID uuid.UUID) ([]*types.Community, error)
}

type communityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCommunityRepo(db *gorm.DB, baseLog *logger.Logger) CommunityRepo {
	return &communityRepo{db: db, log: baseLog.With("repo", "CommunityRepo")}
}

func (r *communityRepo) Create(ctx context.Context, tx *gorm.DB, communities []*types.Community) ([]*types.Community, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(communities) == 0 {
		return []*types.Community{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&communities).Error; err != nil {
		return nil, err
	}
	return communities, nil
}

func (r *communityRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Community, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Community
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

func (r *communityRepo) GetByLeaderID(ctx context.Context, tx *gorm.DB, leaderID uuid.UUID) ([]*types.Community, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Community
	if leaderID == uuid.Nil {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("leader_id = ?", leaderID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
