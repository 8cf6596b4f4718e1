package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenprint/greenprint-backend/internal/platform/apperr"
	"github.com/greenprint/greenprint-backend/internal/platform/logger"
	"github.com/greenprint/greenprint-backend/internal/repos"
	"github.com/greenprint/greenprint-backend/internal/types"
)

type CommunityService interface {
	CreateCommunity(ctx context.Context, name, description string, leaderID uuid.UUID) (*types.Community, error)
	GetByID(ctx context.Context, id uuid.UUID) (*types.Community, error)
	ListMembers(ctx context.Context, communityID uuid.UUID) ([]*types.Member, error)
	ListLedBy(ctx context.Context, leaderID uuid.UUID) ([]*types.Community, error)
}

type communityService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	communityRepo repos.CommunityRepo
	memberRepo    repos.MemberRepo
}

func NewCommunityService(
	db *gorm.DB,
	baseLog *logger.Logger,
	userRepo repos.UserRepo,
	communityRepo repos.CommunityRepo,
	memberRepo repos.MemberRepo,
) CommunityService {
	return &communityService{
		db:            db,
		log:           baseLog.With("service", "CommunityService"),
		userRepo:      userRepo,
		communityRepo: communityRepo,
		memberRepo:    memberRepo,
	}
}

func (s *communityService) CreateCommunity(ctx context.Context, name, description string, leaderID uuid.UUID) (*types.Community, error) {
	if name == "" {
		return nil, fmt.Errorf("community name required")
	}

	var community *types.Community
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users, err := s.userRepo.GetByIDs(ctx, tx, []uuid.UUID{leaderID})
		if err != nil {
			return fmt.Errorf("load leader: %w", err)
		}
		if len(users) == 0 {
			return apperr.NotFound("user %s does not exist", leaderID)
		}
		// Leader role is convention, not a constraint.
		if users[0].Role != types.RoleCommunityLeader {
			s.log.Warn("community leader does not hold the COMMUNITY_LEADER role",
				"user_id", leaderID, "role", string(users[0].Role))
		}

		community = &types.Community{
			ID:          uuid.New(),
			Name:        name,
			Description: description,
			LeaderID:    leaderID,
		}
		if _, err := s.communityRepo.Create(ctx, tx, []*types.Community{community}); err != nil {
			return fmt.Errorf("create community: %w", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return community, nil
}

func (s *communityService) GetByID(ctx context.Context, id uuid.UUID) (*types.Community, error) {
	communities, err := s.communityRepo.GetByIDs(ctx, nil, []uuid.UUID{id})
	if err != nil {
		return nil, fmt.Errorf("load community: %w", err)
	}
	if len(communities) == 0 {
		return nil, apperr.NotFound("community %s does not exist", id)
	}
	return communities[0], nil
}

func (s *communityService) ListMembers(ctx context.Context, communityID uuid.UUID) ([]*types.Member, error) {
	return s.memberRepo.GetByCommunityID(ctx, nil, communityID)
}

func (s *communityService) ListLedBy(ctx context.Context, leaderID uuid.UUID) ([]*types.Community, error) {
	return s.communityRepo.GetByLeaderID(ctx, nil, leaderID)
}
