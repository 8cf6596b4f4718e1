package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenprint/greenprint-backend/internal/platform/logger"
	"github.com/greenprint/greenprint-backend/internal/realtime"
	"github.com/greenprint/greenprint-backend/internal/realtime/bus"
	"github.com/greenprint/greenprint-backend/internal/repos"
	"github.com/greenprint/greenprint-backend/internal/types"
)

// ProgressService keeps UserProgress.ProgressPercentage authoritative for
// each (user, recommendation) pair. Every write derives the percentage fresh
// from current node/task state; nothing is ever incremented, so replaying an
// event is harmless.
type ProgressService interface {
	// GetProgress returns the stored percentage, lazily creating the row at
	// its derived value when the user has no row yet. Always in [0, 100].
	GetProgress(ctx context.Context, userID, recommendationID uuid.UUID) (float64, error)

	// Recompute rewrites one row inside its own transaction and publishes
	// the update.
	Recompute(ctx context.Context, userID, recommendationID uuid.UUID) (*types.UserProgress, error)

	// RecomputeTx rewrites one row inside a caller-held transaction. The
	// caller publishes (via Publish) after its transaction commits.
	RecomputeTx(ctx context.Context, tx *gorm.DB, userID, recommendationID uuid.UUID) (*types.UserProgress, error)

	// RecomputeRecommendationTx rewrites every stored row of a
	// recommendation inside a caller-held transaction. Used when a node
	// event changes the numerator or denominator for all users at once.
	RecomputeRecommendationTx(ctx context.Context, tx *gorm.DB, recommendationID uuid.UUID) ([]*types.UserProgress, error)

	// Publish emits progress.updated events best-effort. Failures are
	// logged, never returned: the stored row is the source of truth.
	Publish(ctx context.Context, rows ...*types.UserProgress)
}

type progressService struct {
	db           *gorm.DB
	log          *logger.Logger
	nodeRepo     repos.NodeRepo
	taskRepo     repos.TaskRepo
	progressRepo repos.UserProgressRepo
	bus          bus.Bus
}

func NewProgressService(
	db *gorm.DB,
	baseLog *logger.Logger,
	nodeRepo repos.NodeRepo,
	taskRepo repos.TaskRepo,
	progressRepo repos.UserProgressRepo,
	progressBus bus.Bus,
) ProgressService {
	return &progressService{
		db:           db,
		log:          baseLog.With("service", "ProgressService"),
		nodeRepo:     nodeRepo,
		taskRepo:     taskRepo,
		progressRepo: progressRepo,
		bus:          progressBus,
	}
}

// computePercentage is the single place the progress formula lives: nodes
// are recommendation-global units, tasks are user-scoped units, weighted
// equally. Zero units means 0%, not NaN.
func computePercentage(completedUnits, totalUnits int64) float64 {
	if totalUnits <= 0 {
		return 0
	}
	return 100 * float64(completedUnits) / float64(totalUnits)
}

func (s *progressService) GetProgress(ctx context.Context, userID, recommendationID uuid.UUID) (float64, error) {
	row, err := s.progressRepo.GetByUserAndRecommendationID(ctx, nil, userID, recommendationID)
	if err != nil {
		return 0, fmt.Errorf("load progress: %w", err)
	}
	if row != nil {
		return row.ProgressPercentage, nil
	}
	// A user who has not started is at 0%, not absent.
	created, err := s.Recompute(ctx, userID, recommendationID)
	if err != nil {
		return 0, err
	}
	return created.ProgressPercentage, nil
}

func (s *progressService) Recompute(ctx context.Context, userID, recommendationID uuid.UUID) (*types.UserProgress, error) {
	var row *types.UserProgress
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		row, err = s.RecomputeTx(ctx, tx, userID, recommendationID)
		return err
	}); err != nil {
		return nil, err
	}
	s.Publish(ctx, row)
	return row, nil
}

func (s *progressService) RecomputeTx(ctx context.Context, tx *gorm.DB, userID, recommendationID uuid.UUID) (*types.UserProgress, error) {
	totalNodes, err := s.nodeRepo.CountByRecommendationID(ctx, tx, recommendationID)
	if err != nil {
		return nil, fmt.Errorf("count nodes: %w", err)
	}
	completedNodes, err := s.nodeRepo.CountByRecommendationIDAndStatus(ctx, tx, recommendationID, types.NodeCompleted)
	if err != nil {
		return nil, fmt.Errorf("count completed nodes: %w", err)
	}
	totalTasks, err := s.taskRepo.CountByUserAndRecommendationID(ctx, tx, userID, recommendationID)
	if err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}
	completedTasks, err := s.taskRepo.CountByUserAndRecommendationIDAndStatus(ctx, tx, userID, recommendationID, types.TaskCompleted)
	if err != nil {
		return nil, fmt.Errorf("count completed tasks: %w", err)
	}

	row := &types.UserProgress{
		ID:                 uuid.New(),
		UserID:             userID,
		RecommendationID:   recommendationID,
		ProgressPercentage: computePercentage(completedNodes+completedTasks, totalNodes+totalTasks),
		LastUpdated:        time.Now().UTC(),
	}
	if err := s.progressRepo.Upsert(ctx, tx, row); err != nil {
		return nil, fmt.Errorf("upsert progress: %w", err)
	}
	return row, nil
}

func (s *progressService) RecomputeRecommendationTx(ctx context.Context, tx *gorm.DB, recommendationID uuid.UUID) ([]*types.UserProgress, error) {
	existing, err := s.progressRepo.GetByRecommendationID(ctx, tx, recommendationID)
	if err != nil {
		return nil, fmt.Errorf("list progress rows: %w", err)
	}
	updated := make([]*types.UserProgress, 0, len(existing))
	for _, row := range existing {
		fresh, err := s.RecomputeTx(ctx, tx, row.UserID, recommendationID)
		if err != nil {
			return nil, err
		}
		updated = append(updated, fresh)
	}
	return updated, nil
}

func (s *progressService) Publish(ctx context.Context, rows ...*types.UserProgress) {
	if s.bus == nil {
		return
	}
	for _, row := range rows {
		if row == nil {
			continue
		}
		event := realtime.ProgressEvent{
			Type:               realtime.EventProgressUpdated,
			UserID:             row.UserID,
			RecommendationID:   row.RecommendationID,
			ProgressPercentage: row.ProgressPercentage,
			OccurredAt:         time.Now().UTC(),
		}
		if err := s.bus.Publish(ctx, event); err != nil {
			s.log.Warn("progress event publish failed", "error", err, "recommendation_id", row.RecommendationID)
		}
	}
}
