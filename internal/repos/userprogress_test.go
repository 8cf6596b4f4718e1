package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/greenprint/greenprint-backend/internal/testutil"
	"github.com/greenprint/greenprint-backend/internal/types"
)

func TestUpsertKeepsOneRowPerPair(t *testing.T) {
	tx := testutil.Tx(t)
	log := testutil.Logger(t)
	repo := NewUserProgressRepo(tx, log)
	ctx := context.Background()

	user := testutil.SeedUser(t, tx, types.RoleResident)
	rec := testutil.SeedRecommendation(t, tx, &user.ID)

	first := &types.UserProgress{
		ID:                 uuid.New(),
		UserID:             user.ID,
		RecommendationID:   rec.ID,
		ProgressPercentage: 25,
		LastUpdated:        time.Now().UTC(),
	}
	if err := repo.Upsert(ctx, tx, first); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	second := &types.UserProgress{
		ID:                 uuid.New(),
		UserID:             user.ID,
		RecommendationID:   rec.ID,
		ProgressPercentage: 75,
		LastUpdated:        time.Now().UTC(),
	}
	if err := repo.Upsert(ctx, tx, second); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	rows, err := repo.GetByRecommendationID(ctx, tx, rec.ID)
	if err != nil {
		t.Fatalf("load rows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].ProgressPercentage != 75 {
		t.Fatalf("expected updated percentage 75, got %v", rows[0].ProgressPercentage)
	}
	// The second upsert carried a fresh ID; the stored row must keep the
	// first one, proving the pair match won over the preset primary key.
	if rows[0].ID != first.ID {
		t.Fatalf("stored row changed identity: %s vs %s", rows[0].ID, first.ID)
	}
	if second.ID != first.ID {
		t.Fatalf("upsert must rewrite the caller's row to the stored identity, got %s", second.ID)
	}
}

func TestUpsertSurvivesRepeatedDerivedRows(t *testing.T) {
	tx := testutil.Tx(t)
	log := testutil.Logger(t)
	repo := NewUserProgressRepo(tx, log)
	ctx := context.Background()

	user := testutil.SeedUser(t, tx, types.RoleResident)
	rec := testutil.SeedRecommendation(t, tx, &user.ID)

	// Each recompute derives a brand-new row value for the same pair.
	for i, pct := range []float64{0, 25, 50, 75, 100} {
		row := &types.UserProgress{
			ID:                 uuid.New(),
			UserID:             user.ID,
			RecommendationID:   rec.ID,
			ProgressPercentage: pct,
			LastUpdated:        time.Now().UTC(),
		}
		if err := repo.Upsert(ctx, tx, row); err != nil {
			t.Fatalf("upsert %d: %v", i, err)
		}
	}

	rows, err := repo.GetByRecommendationID(ctx, tx, rec.ID)
	if err != nil {
		t.Fatalf("load rows: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row after repeated upserts, got %d", len(rows))
	}
	if rows[0].ProgressPercentage != 100 {
		t.Fatalf("expected final percentage 100, got %v", rows[0].ProgressPercentage)
	}
}

func TestGetByUserAndRecommendationIDMissingRow(t *testing.T) {
	tx := testutil.Tx(t)
	log := testutil.Logger(t)
	repo := NewUserProgressRepo(tx, log)

	row, err := repo.GetByUserAndRecommendationID(context.Background(), tx, uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if row != nil {
		t.Fatalf("expected nil for missing row, got %+v", row)
	}
}
