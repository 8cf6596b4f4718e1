package services

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/greenprint/greenprint-backend/internal/platform/apperr"
	"github.com/greenprint/greenprint-backend/internal/testutil"
	"github.com/greenprint/greenprint-backend/internal/types"
)

func TestAddNodeValidatesInput(t *testing.T) {
	h := newHarness(t)
	user := testutil.SeedUser(t, h.tx, types.RoleResident)
	rec := testutil.SeedRecommendation(t, h.tx, &user.ID)

	if _, err := h.graph.AddNode(h.ctx, rec.ID, "", nil); err == nil {
		t.Fatalf("expected error for empty label")
	}
	_, err := h.graph.AddNode(h.ctx, uuid.New(), "A", nil)
	if !apperr.HasCode(err, apperr.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND for missing recommendation, got %v", err)
	}

	node, err := h.graph.AddNode(h.ctx, rec.ID, "A", nil)
	if err != nil {
		t.Fatalf("add node: %v", err)
	}
	if node.Status != types.NodeNotStarted {
		t.Fatalf("new node must be NOT_STARTED, got %s", node.Status)
	}
}

func TestAddNodeGrowsEveryDenominator(t *testing.T) {
	h := newHarness(t)
	user := testutil.SeedUser(t, h.tx, types.RoleResident)
	rec := testutil.SeedRecommendation(t, h.tx, &user.ID)

	a, err := h.graph.AddNode(h.ctx, rec.ID, "A", nil)
	if err != nil {
		t.Fatalf("add A: %v", err)
	}
	if _, err := h.graph.MarkNodeComplete(h.ctx, a.ID); err != nil {
		t.Fatalf("complete A: %v", err)
	}
	// Materializes the stored row at 1/1.
	assertProgress(t, h, user.ID, rec.ID, 100)

	if _, err := h.graph.AddNode(h.ctx, rec.ID, "B", nil); err != nil {
		t.Fatalf("add B: %v", err)
	}
	// The addition itself must rewrite the stored row: 1 of 2 units.
	assertProgress(t, h, user.ID, rec.ID, 50)
}

func TestAddEdgeRejectsSelfLoop(t *testing.T) {
	h := newHarness(t)
	user := testutil.SeedUser(t, h.tx, types.RoleResident)
	rec := testutil.SeedRecommendation(t, h.tx, &user.ID)
	a := testutil.SeedNode(t, h.tx, rec.ID, "A")

	_, err := h.graph.AddEdge(h.ctx, a.ID, a.ID)
	if !apperr.HasCode(err, apperr.CodeInvalidGraph) {
		t.Fatalf("expected INVALID_GRAPH, got %v", err)
	}
}

func TestAddEdgeRejectsCycleAndLeavesGraphUnchanged(t *testing.T) {
	h := newHarness(t)
	user := testutil.SeedUser(t, h.tx, types.RoleResident)
	rec := testutil.SeedRecommendation(t, h.tx, &user.ID)
	a := testutil.SeedNode(t, h.tx, rec.ID, "A")
	b := testutil.SeedNode(t, h.tx, rec.ID, "B")
	c := testutil.SeedNode(t, h.tx, rec.ID, "C")

	if _, err := h.graph.AddEdge(h.ctx, a.ID, b.ID); err != nil {
		t.Fatalf("add A->B: %v", err)
	}
	if _, err := h.graph.AddEdge(h.ctx, b.ID, c.ID); err != nil {
		t.Fatalf("add B->C: %v", err)
	}

	_, err := h.graph.AddEdge(h.ctx, c.ID, a.ID)
	if !apperr.HasCode(err, apperr.CodeInvalidGraph) {
		t.Fatalf("expected INVALID_GRAPH for C->A, got %v", err)
	}

	edges, err := h.edgeRepo.GetBySourceNodeIDs(h.ctx, h.tx, []uuid.UUID{a.ID, b.ID, c.ID})
	if err != nil {
		t.Fatalf("load edges: %v", err)
	}
	if len(edges) != 2 {
		t.Fatalf("expected 2 edges after rejected cycle, got %d", len(edges))
	}
}

func TestAddEdgeRejectsCrossRecommendationEndpoints(t *testing.T) {
	h := newHarness(t)
	user := testutil.SeedUser(t, h.tx, types.RoleResident)
	rec1 := testutil.SeedRecommendation(t, h.tx, &user.ID)
	rec2 := testutil.SeedRecommendation(t, h.tx, &user.ID)
	a := testutil.SeedNode(t, h.tx, rec1.ID, "A")
	b := testutil.SeedNode(t, h.tx, rec2.ID, "B")

	_, err := h.graph.AddEdge(h.ctx, a.ID, b.ID)
	if !apperr.HasCode(err, apperr.CodeInvalidGraph) {
		t.Fatalf("expected INVALID_GRAPH for cross-recommendation edge, got %v", err)
	}
}

func TestAddEdgeRejectsMissingEndpoint(t *testing.T) {
	h := newHarness(t)
	user := testutil.SeedUser(t, h.tx, types.RoleResident)
	rec := testutil.SeedRecommendation(t, h.tx, &user.ID)
	a := testutil.SeedNode(t, h.tx, rec.ID, "A")

	_, err := h.graph.AddEdge(h.ctx, a.ID, uuid.New())
	if !apperr.HasCode(err, apperr.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestMarkNodeCompleteGatesOnPrerequisites(t *testing.T) {
	h := newHarness(t)
	user := testutil.SeedUser(t, h.tx, types.RoleResident)
	rec := testutil.SeedRecommendation(t, h.tx, &user.ID)
	a := testutil.SeedNode(t, h.tx, rec.ID, "A")
	b := testutil.SeedNode(t, h.tx, rec.ID, "B")
	if _, err := h.graph.AddEdge(h.ctx, a.ID, b.ID); err != nil {
		t.Fatalf("add A->B: %v", err)
	}

	_, err := h.graph.MarkNodeComplete(h.ctx, b.ID)
	if !apperr.HasCode(err, apperr.CodePrerequisiteNotMet) {
		t.Fatalf("expected PREREQUISITE_NOT_MET, got %v", err)
	}
	status, err := h.graph.NodeStatusOf(h.ctx, b.ID)
	if err != nil {
		t.Fatalf("node status: %v", err)
	}
	if status != types.NodeNotStarted {
		t.Fatalf("rejected completion must not change status, got %s", status)
	}

	if _, err := h.graph.MarkNodeComplete(h.ctx, a.ID); err != nil {
		t.Fatalf("complete A: %v", err)
	}
	completed, err := h.graph.MarkNodeComplete(h.ctx, b.ID)
	if err != nil {
		t.Fatalf("complete B after A: %v", err)
	}
	if completed.Status != types.NodeCompleted {
		t.Fatalf("expected COMPLETED, got %s", completed.Status)
	}
	if completed.CompletedAt == nil {
		t.Fatalf("expected completed_at to be set")
	}
}

func TestMarkNodeCompleteIsIdempotent(t *testing.T) {
	h := newHarness(t)
	user := testutil.SeedUser(t, h.tx, types.RoleResident)
	rec := testutil.SeedRecommendation(t, h.tx, &user.ID)
	a := testutil.SeedNode(t, h.tx, rec.ID, "A")

	first, err := h.graph.MarkNodeComplete(h.ctx, a.ID)
	if err != nil {
		t.Fatalf("complete A: %v", err)
	}
	second, err := h.graph.MarkNodeComplete(h.ctx, a.ID)
	if err != nil {
		t.Fatalf("replayed completion must not fail: %v", err)
	}
	if second.Status != types.NodeCompleted {
		t.Fatalf("expected COMPLETED, got %s", second.Status)
	}
	if first.CompletedAt == nil || second.CompletedAt == nil {
		t.Fatalf("expected completed_at on both calls")
	}
	if second.CompletedAt.Sub(*first.CompletedAt) > time.Second {
		t.Fatalf("replay must not move completed_at: %v vs %v", first.CompletedAt, second.CompletedAt)
	}
}

func TestActivateNode(t *testing.T) {
	h := newHarness(t)
	user := testutil.SeedUser(t, h.tx, types.RoleResident)
	rec := testutil.SeedRecommendation(t, h.tx, &user.ID)
	a := testutil.SeedNode(t, h.tx, rec.ID, "A")

	node, err := h.graph.ActivateNode(h.ctx, a.ID)
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	if node.Status != types.NodePending {
		t.Fatalf("expected PENDING, got %s", node.Status)
	}

	// Replay is a no-op.
	if _, err := h.graph.ActivateNode(h.ctx, a.ID); err != nil {
		t.Fatalf("replayed activation must not fail: %v", err)
	}

	if _, err := h.graph.MarkNodeComplete(h.ctx, a.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}
	_, err = h.graph.ActivateNode(h.ctx, a.ID)
	if !apperr.HasCode(err, apperr.CodeInvalidTransition) {
		t.Fatalf("expected INVALID_TRANSITION for COMPLETED -> PENDING, got %v", err)
	}
}

func TestTopologicalOrderRespectsEdgesAndIsDeterministic(t *testing.T) {
	h := newHarness(t)
	user := testutil.SeedUser(t, h.tx, types.RoleResident)
	rec := testutil.SeedRecommendation(t, h.tx, &user.ID)
	a := testutil.SeedNode(t, h.tx, rec.ID, "A")
	b := testutil.SeedNode(t, h.tx, rec.ID, "B")
	c := testutil.SeedNode(t, h.tx, rec.ID, "C")
	d := testutil.SeedNode(t, h.tx, rec.ID, "D")
	// Diamond: A before B and C, both before D.
	for _, pair := range [][2]uuid.UUID{{a.ID, b.ID}, {a.ID, c.ID}, {b.ID, d.ID}, {c.ID, d.ID}} {
		if _, err := h.graph.AddEdge(h.ctx, pair[0], pair[1]); err != nil {
			t.Fatalf("add edge: %v", err)
		}
	}

	order, err := h.graph.TopologicalOrder(h.ctx, rec.ID)
	if err != nil {
		t.Fatalf("topological order: %v", err)
	}
	if len(order) != 4 {
		t.Fatalf("expected 4 nodes, got %d", len(order))
	}
	pos := map[uuid.UUID]int{}
	for i, node := range order {
		pos[node.ID] = i
	}
	if pos[a.ID] > pos[b.ID] || pos[a.ID] > pos[c.ID] || pos[b.ID] > pos[d.ID] || pos[c.ID] > pos[d.ID] {
		t.Fatalf("order violates prerequisites: %v", pos)
	}

	again, err := h.graph.TopologicalOrder(h.ctx, rec.ID)
	if err != nil {
		t.Fatalf("second topological order: %v", err)
	}
	for i := range order {
		if order[i].ID != again[i].ID {
			t.Fatalf("order not deterministic at %d: %s vs %s", i, order[i].ID, again[i].ID)
		}
	}
}

func TestRemoveNodeDropsItsEdges(t *testing.T) {
	h := newHarness(t)
	user := testutil.SeedUser(t, h.tx, types.RoleResident)
	rec := testutil.SeedRecommendation(t, h.tx, &user.ID)
	a := testutil.SeedNode(t, h.tx, rec.ID, "A")
	b := testutil.SeedNode(t, h.tx, rec.ID, "B")
	if _, err := h.graph.AddEdge(h.ctx, a.ID, b.ID); err != nil {
		t.Fatalf("add A->B: %v", err)
	}

	if err := h.graph.RemoveNode(h.ctx, a.ID); err != nil {
		t.Fatalf("remove A: %v", err)
	}
	edges, err := h.edgeRepo.GetByTargetNodeIDs(h.ctx, h.tx, []uuid.UUID{b.ID})
	if err != nil {
		t.Fatalf("load edges: %v", err)
	}
	if len(edges) != 0 {
		t.Fatalf("expected dangling edges to be removed, got %d", len(edges))
	}

	// B no longer has a prerequisite.
	if _, err := h.graph.MarkNodeComplete(h.ctx, b.ID); err != nil {
		t.Fatalf("complete B after prerequisite removal: %v", err)
	}
}
