package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenprint/greenprint-backend/internal/platform/logger"
	"github.com/greenprint/greenprint-backend/internal/types"
)

type UserProgressRepo interface {
	GetByUserAndRecommendationID(ctx context.Context, tx *gorm.DB, userID, recommendationID uuid.UUID) (*types.UserProgress, error)
	GetByRecommendationID(ctx context.Context, tx *gorm.DB, recommendationID uuid.UUID) ([]*types.UserProgress, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*types.UserProgress, error)
	Upsert(ctx context.Context, tx *gorm.DB, row *types.UserProgress) error
}

type userProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserProgressRepo(db *gorm.DB, baseLog *logger.Logger) UserProgressRepo {
	return &userProgressRepo{db: db, log: baseLog.With("repo", "UserProgressRepo")}
}

// GetByUserAndRecommendationID returns nil (no error) when no row exists;
// lazy creation is the progress service's call, not the repo's.
func (r *userProgressRepo) GetByUserAndRecommendationID(ctx context.Context, tx *gorm.DB, userID, recommendationID uuid.UUID) (*types.UserProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.UserProgress
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND recommendation_id = ?", userID, recommendationID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *userProgressRepo) GetByRecommendationID(ctx context.Context, tx *gorm.DB, recommendationID uuid.UUID) ([]*types.UserProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.UserProgress
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

func (r *userProgressRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.UserProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.UserProgress
	if err := transaction.WithContext(ctx).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// Upsert keys on the unique (user_id, recommendation_id) pair. The lookup
// must not see row.ID: callers derive rows with a fresh ID, and a preset
// primary key would leak into the match conditions and miss the stored row.
func (r *userProgressRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.UserProgress) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil {
		return nil
	}
	existing, err := r.GetByUserAndRecommendationID(ctx, transaction, row.UserID, row.RecommendationID)
	if err != nil {
		return err
	}
	if existing == nil {
		return transaction.WithContext(ctx).Create(row).Error
	}
	row.ID = existing.ID
	return transaction.WithContext(ctx).
		Model(&types.UserProgress{}).
		Where("id = ?", existing.ID).
		Updates(map[string]interface{}{
			"progress_percentage": row.ProgressPercentage,
			"last_updated":        row.LastUpdated,
		}).Error
}
