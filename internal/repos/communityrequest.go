package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenprint/greenprint-backend/internal/platform/logger"
	"github.com/greenprint/greenprint-backend/internal/types"
)

type CommunityRequestRepo interface {
	Create(ctx context.Context, tx *gorm.DB, requests []*types.CommunityRequest) ([]*types.CommunityRequest, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.CommunityRequest, error)
	GetByCommunityID(ctx context.Context, tx *gorm.DB, communityID uuid.UUID, status *types.RequestStatus) ([]*types.CommunityRequest, error)
	HasPending(ctx context.Context, tx *gorm.DB, userID, communityID uuid.UUID) (bool, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status types.RequestStatus) error
}

type communityRequestRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCommunityRequestRepo(db *gorm.DB, baseLog *logger.Logger) CommunityRequestRepo {
	return &communityRequestRepo{db: db, log: baseLog.With("repo", "CommunityRequestRepo")}
}

func (r *communityRequestRepo) Create(ctx context.Context, tx *gorm.DB, requests []*types.CommunityRequest) ([]*types.CommunityRequest, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(requests) == 0 {
		return []*types.CommunityRequest{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *communityRequestRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.CommunityRequest, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.CommunityRequest
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

func (r *communityRequestRepo) GetByCommunityID(ctx context.Context, tx *gorm.DB, communityID uuid.UUID, status *types.RequestStatus) ([]*types.CommunityRequest, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.CommunityRequest
	if communityID == uuid.Nil {
		return results, nil
	}
	query := transaction.WithContext(ctx).Where("community_id = ?", communityID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *communityRequestRepo) HasPending(ctx context.Context, tx *gorm.DB, userID, communityID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.CommunityRequest{}).
		Where("user_id = ? AND community_id = ? AND status = ?", userID, communityID, types.RequestPending).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *communityRequestRepo) UpdateStatus(ctx context.Context, tx *gorm.DB, id uuid.UUID, status types.RequestStatus) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.CommunityRequest{}).
		Where("id = ?", id).
		Update("status", status).Error
}
