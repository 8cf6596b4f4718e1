package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenprint/greenprint-backend/internal/types"
)

func SeedUser(tb testing.TB, tx *gorm.DB, role types.Role) *types.User {
	tb.Helper()
	user := &types.User{
		ID:       uuid.New(),
		Email:    fmt.Sprintf("%s@example.com", uuid.New()),
		Password: "hashed",
		Name:     "Test User",
		Role:     role,
	}
	if err := tx.Create(user).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return user
}

func SeedCommunity(tb testing.TB, tx *gorm.DB, leaderID uuid.UUID) *types.Community {
	tb.Helper()
	community := &types.Community{
		ID:       uuid.New(),
		Name:     "Test Community",
		LeaderID: leaderID,
	}
	if err := tx.Create(community).Error; err != nil {
		tb.Fatalf("seed community: %v", err)
	}
	return community
}

func SeedRecommendation(tb testing.TB, tx *gorm.DB, userID *uuid.UUID) *types.Recommendation {
	tb.Helper()
	rec := &types.Recommendation{
		ID:             uuid.New(),
		UserID:         userID,
		Recommendation: "Install a rain barrel",
		Category:       types.CategoryWater,
		Status:         types.RecommendationPending,
	}
	if err := tx.Create(rec).Error; err != nil {
		tb.Fatalf("seed recommendation: %v", err)
	}
	return rec
}

func SeedNode(tb testing.TB, tx *gorm.DB, recommendationID uuid.UUID, label string) *types.Node {
	tb.Helper()
	node := &types.Node{
		ID:               uuid.New(),
		RecommendationID: recommendationID,
		Label:            label,
		Status:           types.NodeNotStarted,
	}
	if err := tx.Create(node).Error; err != nil {
		tb.Fatalf("seed node: %v", err)
	}
	return node
}

func SeedEdge(tb testing.TB, tx *gorm.DB, sourceID, targetID uuid.UUID) *types.Edge {
	tb.Helper()
	edge := &types.Edge{
		ID:           uuid.New(),
		SourceNodeID: sourceID,
		TargetNodeID: targetID,
	}
	if err := tx.Create(edge).Error; err != nil {
		tb.Fatalf("seed edge: %v", err)
	}
	return edge
}

func SeedTask(tb testing.TB, tx *gorm.DB, userID, recommendationID uuid.UUID, due time.Time) *types.Task {
	tb.Helper()
	task := &types.Task{
		ID:               uuid.New(),
		UserID:           userID,
		RecommendationID: recommendationID,
		TaskName:         "Measure the downspout",
		DueDate:          due,
		Status:           types.TaskPending,
	}
	if err := tx.Create(task).Error; err != nil {
		tb.Fatalf("seed task: %v", err)
	}
	return task
}
