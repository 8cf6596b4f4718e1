package services

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/greenprint/greenprint-backend/internal/platform/apperr"
	"github.com/greenprint/greenprint-backend/internal/testutil"
	"github.com/greenprint/greenprint-backend/internal/types"
)

func TestAdvanceTaskForwardOnly(t *testing.T) {
	h := newHarness(t)
	user := testutil.SeedUser(t, h.tx, types.RoleResident)
	rec := testutil.SeedRecommendation(t, h.tx, &user.ID)
	task, err := h.tasks.CreateTask(h.ctx, user.ID, rec.ID, "swap bulbs", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if task.Status != types.TaskPending {
		t.Fatalf("new task must be PENDING, got %s", task.Status)
	}

	task, err = h.tasks.AdvanceTask(h.ctx, task.ID, types.TaskInProgress)
	if err != nil {
		t.Fatalf("advance to IN_PROGRESS: %v", err)
	}
	if task.Status != types.TaskInProgress {
		t.Fatalf("expected IN_PROGRESS, got %s", task.Status)
	}

	task, err = h.tasks.AdvanceTask(h.ctx, task.ID, types.TaskCompleted)
	if err != nil {
		t.Fatalf("advance to COMPLETED: %v", err)
	}
	if task.CompletedAt == nil {
		t.Fatalf("expected completed_at on completion")
	}

	_, err = h.tasks.AdvanceTask(h.ctx, task.ID, types.TaskPending)
	if !apperr.HasCode(err, apperr.CodeInvalidTransition) {
		t.Fatalf("expected INVALID_TRANSITION going backward, got %v", err)
	}
}

func TestAdvanceTaskAllowsSkippingInProgress(t *testing.T) {
	h := newHarness(t)
	user := testutil.SeedUser(t, h.tx, types.RoleResident)
	rec := testutil.SeedRecommendation(t, h.tx, &user.ID)
	task, err := h.tasks.CreateTask(h.ctx, user.ID, rec.ID, "quick win", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	task, err = h.tasks.AdvanceTask(h.ctx, task.ID, types.TaskCompleted)
	if err != nil {
		t.Fatalf("PENDING -> COMPLETED must be allowed: %v", err)
	}
	if task.Status != types.TaskCompleted {
		t.Fatalf("expected COMPLETED, got %s", task.Status)
	}
}

func TestAdvanceTaskSameStatusIsNoOp(t *testing.T) {
	h := newHarness(t)
	user := testutil.SeedUser(t, h.tx, types.RoleResident)
	rec := testutil.SeedRecommendation(t, h.tx, &user.ID)
	task, err := h.tasks.CreateTask(h.ctx, user.ID, rec.ID, "repeat me", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	replayed, err := h.tasks.AdvanceTask(h.ctx, task.ID, types.TaskPending)
	if err != nil {
		t.Fatalf("same-status advance must not fail: %v", err)
	}
	if replayed.Status != types.TaskPending {
		t.Fatalf("expected PENDING, got %s", replayed.Status)
	}
}

func TestListOverdueIsDerivedFromDueDate(t *testing.T) {
	h := newHarness(t)
	user := testutil.SeedUser(t, h.tx, types.RoleResident)
	rec := testutil.SeedRecommendation(t, h.tx, &user.ID)
	now := time.Now().UTC()

	overdue := testutil.SeedTask(t, h.tx, user.ID, rec.ID, now.Add(-48*time.Hour))
	testutil.SeedTask(t, h.tx, user.ID, rec.ID, now.Add(48*time.Hour))
	doneLate := testutil.SeedTask(t, h.tx, user.ID, rec.ID, now.Add(-24*time.Hour))
	if _, err := h.tasks.AdvanceTask(h.ctx, doneLate.ID, types.TaskCompleted); err != nil {
		t.Fatalf("complete task: %v", err)
	}

	tasks, err := h.tasks.ListOverdue(h.ctx, user.ID, now)
	if err != nil {
		t.Fatalf("list overdue: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected 1 overdue task, got %d", len(tasks))
	}
	if tasks[0].ID != overdue.ID {
		t.Fatalf("wrong overdue task: %s", tasks[0].ID)
	}
}

func TestCreateTaskRequiresRecommendation(t *testing.T) {
	h := newHarness(t)
	user := testutil.SeedUser(t, h.tx, types.RoleResident)

	_, err := h.tasks.CreateTask(h.ctx, user.ID, uuid.New(), "orphan", time.Now())
	if !apperr.HasCode(err, apperr.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}
