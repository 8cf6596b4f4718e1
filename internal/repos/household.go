package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenprint/greenprint-backend/internal/platform/logger"
	"github.com/greenprint/greenprint-backend/internal/types"
)

type HouseholdRepo interface {
	Create(ctx context.Context, tx *gorm.DB, households []*types.Household) ([]*types.Household, error)
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Household, error)
	Update(ctx context.Context, tx *gorm.DB, row *types.Household) error
	DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type householdRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewHouseholdRepo(db *gorm.DB, baseLog *logger.Logger) HouseholdRepo {
	return &householdRepo{db: db, log: baseLog.With("repo", "HouseholdRepo")}
}

func (r *householdRepo) Create(ctx context.Context, tx *gorm.DB, households []*types.Household) ([]*types.Household, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(households) == 0 {
		return []*types.Household{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&households).Error; err != nil {
		return nil, err
	}
	return households, nil
}

func (r *householdRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.Household, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Household
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *householdRepo) Update(ctx context.Context, tx *gorm.DB, row *types.Household) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil {
		return nil
	}
	return transaction.WithContext(ctx).Save(row).Error
}

func (r *householdRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.Household{}).Error
}
