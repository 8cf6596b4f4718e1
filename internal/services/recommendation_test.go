package services

import (
	"testing"

	"github.com/google/uuid"

	"github.com/greenprint/greenprint-backend/internal/platform/apperr"
	"github.com/greenprint/greenprint-backend/internal/testutil"
	"github.com/greenprint/greenprint-backend/internal/types"
)

func TestCreateRecommendationValidatesScopeAndCategory(t *testing.T) {
	h := newHarness(t)
	user := testutil.SeedUser(t, h.tx, types.RoleResident)

	rec, err := h.recs.Create(h.ctx, CreateRecommendationInput{
		UserID:   &user.ID,
		Text:     "Insulate the attic",
		Category: types.CategoryEnergy,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.Status != types.RecommendationPending {
		t.Fatalf("new recommendation must be PENDING, got %s", rec.Status)
	}

	if _, err := h.recs.Create(h.ctx, CreateRecommendationInput{
		UserID:   &user.ID,
		Text:     "Bad category",
		Category: types.RecommendationCategory("FOOD"),
	}); err == nil {
		t.Fatalf("expected error for unknown category")
	}

	ghost := uuid.New()
	_, err = h.recs.Create(h.ctx, CreateRecommendationInput{
		UserID:   &ghost,
		Text:     "Orphan",
		Category: types.CategoryWaste,
	})
	if !apperr.HasCode(err, apperr.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND for missing user, got %v", err)
	}
}

func TestRecommendationStatusAdvance(t *testing.T) {
	h := newHarness(t)
	user := testutil.SeedUser(t, h.tx, types.RoleResident)
	rec := testutil.SeedRecommendation(t, h.tx, &user.ID)

	advanced, err := h.recs.AdvanceStatus(h.ctx, rec.ID, types.RecommendationInProgress)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if advanced.Status != types.RecommendationInProgress {
		t.Fatalf("expected IN_PROGRESS, got %s", advanced.Status)
	}

	if _, err := h.recs.AdvanceStatus(h.ctx, rec.ID, types.RecommendationCompleted); err != nil {
		t.Fatalf("complete: %v", err)
	}
	_, err = h.recs.AdvanceStatus(h.ctx, rec.ID, types.RecommendationPending)
	if !apperr.HasCode(err, apperr.CodeInvalidTransition) {
		t.Fatalf("expected INVALID_TRANSITION going backward, got %v", err)
	}
}

func TestRecommendationListByScope(t *testing.T) {
	h := newHarness(t)
	user := testutil.SeedUser(t, h.tx, types.RoleResident)
	other := testutil.SeedUser(t, h.tx, types.RoleResident)
	testutil.SeedRecommendation(t, h.tx, &user.ID)
	testutil.SeedRecommendation(t, h.tx, &user.ID)
	testutil.SeedRecommendation(t, h.tx, &other.ID)

	mine, err := h.recs.ListByUser(h.ctx, user.ID)
	if err != nil {
		t.Fatalf("list by user: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("expected 2 recommendations, got %d", len(mine))
	}
}
