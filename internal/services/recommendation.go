package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/greenprint/greenprint-backend/internal/platform/apperr"
	"github.com/greenprint/greenprint-backend/internal/platform/logger"
	"github.com/greenprint/greenprint-backend/internal/repos"
	"github.com/greenprint/greenprint-backend/internal/types"
)

type CreateRecommendationInput struct {
	UserID      *uuid.UUID
	CommunityID *uuid.UUID
	Text        string
	Category    types.RecommendationCategory
	Metadata    datatypes.JSON
}

// RecommendationService creates and tracks recommendations. Scope is
// optional on both sides: a row with neither user nor community is a
// library/template recommendation.
type RecommendationService interface {
	Create(ctx context.Context, input CreateRecommendationInput) (*types.Recommendation, error)
	GetByID(ctx context.Context, id uuid.UUID) (*types.Recommendation, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*types.Recommendation, error)
	ListByCommunity(ctx context.Context, communityID uuid.UUID) ([]*types.Recommendation, error)
	AdvanceStatus(ctx context.Context, id uuid.UUID, newStatus types.RecommendationStatus) (*types.Recommendation, error)
}

type recommendationService struct {
	db            *gorm.DB
	log           *logger.Logger
	recRepo       repos.RecommendationRepo
	userRepo      repos.UserRepo
	communityRepo repos.CommunityRepo
}

func NewRecommendationService(
	db *gorm.DB,
	baseLog *logger.Logger,
	recRepo repos.RecommendationRepo,
	userRepo repos.UserRepo,
	communityRepo repos.CommunityRepo,
) RecommendationService {
	return &recommendationService{
		db:            db,
		log:           baseLog.With("service", "RecommendationService"),
		recRepo:       recRepo,
		userRepo:      userRepo,
		communityRepo: communityRepo,
	}
}

func (s *recommendationService) Create(ctx context.Context, input CreateRecommendationInput) (*types.Recommendation, error) {
	if input.Text == "" {
		return nil, fmt.Errorf("recommendation text required")
	}
	if !input.Category.Valid() {
		return nil, fmt.Errorf("unknown recommendation category %q", string(input.Category))
	}

	var rec *types.Recommendation
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if input.UserID != nil {
			users, err := s.userRepo.GetByIDs(ctx, tx, []uuid.UUID{*input.UserID})
			if err != nil {
				return fmt.Errorf("load user: %w", err)
			}
			if len(users) == 0 {
				return apperr.NotFound("user %s does not exist", *input.UserID)
			}
		}
		if input.CommunityID != nil {
			communities, err := s.communityRepo.GetByIDs(ctx, tx, []uuid.UUID{*input.CommunityID})
			if err != nil {
				return fmt.Errorf("load community: %w", err)
			}
			if len(communities) == 0 {
				return apperr.NotFound("community %s does not exist", *input.CommunityID)
			}
		}

		rec = &types.Recommendation{
			ID:             uuid.New(),
			UserID:         input.UserID,
			CommunityID:    input.CommunityID,
			Recommendation: input.Text,
			Category:       input.Category,
			Status:         types.RecommendationPending,
			Metadata:       input.Metadata,
		}
		if _, err := s.recRepo.Create(ctx, tx, []*types.Recommendation{rec}); err != nil {
			return fmt.Errorf("create recommendation: %w", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *recommendationService) GetByID(ctx context.Context, id uuid.UUID) (*types.Recommendation, error) {
	recs, err := s.recRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, fmt.Errorf("load recommendation: %w", err)
	}
	if len(recs) == 0 {
		return nil, apperr.NotFound("recommendation %s does not exist", id)
	}
	return recs[0], nil
}

func (s *recommendationService) ListByUser(ctx context.Context, userID uuid.UUID) ([]*types.Recommendation, error) {
	return s.recRepo.GetByUserID(ctx, nil, userID)
}

func (s *recommendationService) ListByCommunity(ctx context.Context, communityID uuid.UUID) ([]*types.Recommendation, error) {
	return s.recRepo.GetByCommunityID(ctx, nil, communityID)
}

func (s *recommendationService) AdvanceStatus(ctx context.Context, id uuid.UUID, newStatus types.RecommendationStatus) (*types.Recommendation, error) {
	if !newStatus.Valid() {
		return nil, apperr.InvalidTransition("unknown recommendation status %q", string(newStatus))
	}

	var rec *types.Recommendation
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recs, err := s.recRepo.GetByIDs(ctx, tx, []uuid.UUID{id})
		if err != nil {
			return fmt.Errorf("load recommendation: %w", err)
		}
		if len(recs) == 0 {
			return apperr.NotFound("recommendation %s does not exist", id)
		}
		rec = recs[0]

		if rec.Status == newStatus {
			return nil
		}
		if !rec.Status.CanTransition(newStatus) {
			return apperr.InvalidTransition("recommendation %s cannot move %s -> %s", id, rec.Status, newStatus)
		}
		if err := s.recRepo.UpdateStatus(ctx, tx, id, newStatus); err != nil {
			return fmt.Errorf("update recommendation status: %w", err)
		}
		rec.Status = newStatus
		return nil
	}); err != nil {
		return nil, err
	}
	return rec, nil
}
