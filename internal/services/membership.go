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

// MembershipService gates community membership behind leader approval.
// The invariant pair: a Member row exists if and only if an APPROVED
// request produced it (or the user is the leader, who needs no row).
type MembershipService interface {
	SubmitRequest(ctx context.Context, userID, communityID uuid.UUID) (*types.CommunityRequest, error)
	Decide(ctx context.Context, requestID uuid.UUID, decision types.RequestStatus, actingUserID uuid.UUID) (*types.CommunityRequest, error)
	IsMember(ctx context.Context, userID, communityID uuid.UUID) (bool, error)
	ListRequests(ctx context.Context, communityID uuid.UUID, status *types.RequestStatus) ([]*types.CommunityRequest, error)
}

type membershipService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	communityRepo repos.CommunityRepo
	memberRepo    repos.MemberRepo
	requestRepo   repos.CommunityRequestRepo
}

func NewMembershipService(
	db *gorm.DB,
	baseLog *logger.Logger,
	userRepo repos.UserRepo,
	communityRepo repos.CommunityRepo,
	memberRepo repos.MemberRepo,
	requestRepo repos.CommunityRequestRepo,
) MembershipService {
	return &membershipService{
		db:            db,
		log:           baseLog.With("service", "MembershipService"),
		userRepo:      userRepo,
		communityRepo: communityRepo,
		memberRepo:    memberRepo,
		requestRepo:   requestRepo,
	}
}

func (s *membershipService) SubmitRequest(ctx context.Context, userID, communityID uuid.UUID) (*types.CommunityRequest, error) {
	var request *types.CommunityRequest
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users, err := s.userRepo.GetByIDs(ctx, tx, []uuid.UUID{userID})
		if err != nil {
			return fmt.Errorf("load user: %w", err)
		}
		if len(users) == 0 {
			return apperr.NotFound("user %s does not exist", userID)
		}
		communities, err := s.communityRepo.GetByIDs(ctx, tx, []uuid.UUID{communityID})
		if err != nil {
			return fmt.Errorf("load community: %w", err)
		}
		if len(communities) == 0 {
			return apperr.NotFound("community %s does not exist", communityID)
		}

		// Storage allows duplicate rows; the workflow does not.
		pending, err := s.requestRepo.HasPending(ctx, tx, userID, communityID)
		if err != nil {
			return fmt.Errorf("check pending request: %w", err)
		}
		if pending {
			return apperr.DuplicateRequest("a pending request for user %s in community %s already exists", userID, communityID)
		}

		request = &types.CommunityRequest{
			ID:          uuid.New(),
			UserID:      userID,
			CommunityID: communityID,
			Status:      types.RequestPending,
			RequestedAt: time.Now().UTC(),
		}
		if _, err := s.requestRepo.Create(ctx, tx, []*types.CommunityRequest{request}); err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return request, nil
}

// Decide resolves a PENDING request exactly once. Approval flips the status
// and creates the Member row in the same transaction so neither can exist
// without the other.
func (s *membershipService) Decide(ctx context.Context, requestID uuid.UUID, decision types.RequestStatus, actingUserID uuid.UUID) (*types.CommunityRequest, error) {
	if !decision.Terminal() {
		return nil, apperr.InvalidTransition("decision must be %s or %s, got %q", types.RequestApproved, types.RequestRejected, string(decision))
	}

	var request *types.CommunityRequest
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		requests, err := s.requestRepo.GetByIDs(ctx, tx, []uuid.UUID{requestID})
		if err != nil {
			return fmt.Errorf("load request: %w", err)
		}
		if len(requests) == 0 {
			return apperr.NotFound("request %s does not exist", requestID)
		}
		request = requests[0]

		communities, err := s.communityRepo.GetByIDs(ctx, tx, []uuid.UUID{request.CommunityID})
		if err != nil {
			return fmt.Errorf("load community: %w", err)
		}
		if len(communities) == 0 {
			return apperr.NotFound("community %s does not exist", request.CommunityID)
		}
		if communities[0].LeaderID != actingUserID {
			return apperr.NotAuthorized("user %s is not the leader of community %s", actingUserID, request.CommunityID)
		}
		if !request.Status.CanTransition(decision) {
			return apperr.TerminalState("request %s already resolved as %s", requestID, request.Status)
		}

		if err := s.requestRepo.UpdateStatus(ctx, tx, requestID, decision); err != nil {
			return fmt.Errorf("update request status: %w", err)
		}
		request.Status = decision

		if decision == types.RequestApproved {
			exists, err := s.memberRepo.Exists(ctx, tx, request.UserID, request.CommunityID)
			if err != nil {
				return fmt.Errorf("check member: %w", err)
			}
			if !exists {
				member := &types.Member{
					ID:          uuid.New(),
					UserID:      request.UserID,
					CommunityID: request.CommunityID,
				}
				if _, err := s.memberRepo.Create(ctx, tx, []*types.Member{member}); err != nil {
					return fmt.Errorf("create member: %w", err)
				}
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}

	s.log.Info("community request resolved",
		"request_id", requestID,
		"community_id", request.CommunityID,
		"decision", string(request.Status),
	)
	return request, nil
}

// IsMember is implicitly true for the community's leader, who holds no
// Member row.
func (s *membershipService) IsMember(ctx context.Context, userID, communityID uuid.UUID) (bool, error) {
	communities, err := s.communityRepo.GetByIDs(ctx, nil, []uuid.UUID{communityID})
	if err != nil {
		return false, fmt.Errorf("load community: %w", err)
	}
	if len(communities) == 0 {
		return false, apperr.NotFound("community %s does not exist", communityID)
	}
	if communities[0].LeaderID == userID {
		return true, nil
	}
	return s.memberRepo.Exists(ctx, nil, userID, communityID)
}

func (s *membershipService) ListRequests(ctx context.Context, communityID uuid.UUID, status *types.RequestStatus) ([]*types.CommunityRequest, error) {
	return s.requestRepo.GetByCommunityID(ctx, nil, communityID, status)
}
