package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/greenprint/greenprint-backend/internal/platform/apperr"
	"github.com/greenprint/greenprint-backend/internal/platform/logger"
	"github.com/greenprint/greenprint-backend/internal/repos"
	"github.com/greenprint/greenprint-backend/internal/types"
)

// GraphService owns a recommendation's prerequisite DAG: nodes, directed
// edges, the cycle guard, and completion gating. Edges always stay within
// one recommendation; storage does not enforce that, this service does.
type GraphService interface {
	AddNode(ctx context.Context, recommendationID uuid.UUID, label string, position datatypes.JSON) (*types.Node, error)
	AddEdge(ctx context.Context, sourceNodeID, targetNodeID uuid.UUID) (*types.Edge, error)
	ActivateNode(ctx context.Context, nodeID uuid.UUID) (*types.Node, error)
	MarkNodeComplete(ctx context.Context, nodeID uuid.UUID) (*types.Node, error)
	RemoveNode(ctx context.Context, nodeID uuid.UUID) error
	NodeStatusOf(ctx context.Context, nodeID uuid.UUID) (types.NodeStatus, error)
	TopologicalOrder(ctx context.Context, recommendationID uuid.UUID) ([]*types.Node, error)
}

type graphService struct {
	db       *gorm.DB
	log      *logger.Logger
	nodeRepo repos.NodeRepo
	edgeRepo repos.EdgeRepo
	recRepo  repos.RecommendationRepo
	progress ProgressService
}

func NewGraphService(
	db *gorm.DB,
	baseLog *logger.Logger,
	nodeRepo repos.NodeRepo,
	edgeRepo repos.EdgeRepo,
	recRepo repos.RecommendationRepo,
	progress ProgressService,
) GraphService {
	return &graphService{
		db:       db,
		log:      baseLog.With("service", "GraphService"),
		nodeRepo: nodeRepo,
		edgeRepo: edgeRepo,
		recRepo:  recRepo,
		progress: progress,
	}
}

func (s *graphService) AddNode(ctx context.Context, recommendationID uuid.UUID, label string, position datatypes.JSON) (*types.Node, error) {
	if label == "" {
		return nil, fmt.Errorf("node label required")
	}

	var (
		node    *types.Node
		touched []*types.UserProgress
	)
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recs, err := s.recRepo.GetByIDs(ctx, tx, []uuid.UUID{recommendationID})
		if err != nil {
			return fmt.Errorf("load recommendation: %w", err)
		}
		if len(recs) == 0 {
			return apperr.NotFound("recommendation %s does not exist", recommendationID)
		}

		node = &types.Node{
			ID:               uuid.New(),
			RecommendationID: recommendationID,
			Label:            label,
			Status:           types.NodeNotStarted,
			Position:         position,
		}
		if _, err := s.nodeRepo.Create(ctx, tx, []*types.Node{node}); err != nil {
			return fmt.Errorf("create node: %w", err)
		}

		// New node changes every user's denominator.
		touched, err = s.progress.RecomputeRecommendationTx(ctx, tx, recommendationID)
		return err
	}); err != nil {
		return nil, err
	}
	s.progress.Publish(ctx, touched...)
	return node, nil
}

func (s *graphService) AddEdge(ctx context.Context, sourceNodeID, targetNodeID uuid.UUID) (*types.Edge, error) {
	if sourceNodeID == targetNodeID {
		return nil, apperr.InvalidGraph("self-loop on node %s", sourceNodeID)
	}

	var edge *types.Edge
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		nodes, err := s.nodeRepo.GetByIDs(ctx, tx, []uuid.UUID{sourceNodeID, targetNodeID})
		if err != nil {
			return fmt.Errorf("load endpoints: %w", err)
		}
		byID := make(map[uuid.UUID]*types.Node, len(nodes))
		for _, n := range nodes {
			byID[n.ID] = n
		}
		source, ok := byID[sourceNodeID]
		if !ok {
			return apperr.NotFound("source node %s does not exist", sourceNodeID)
		}
		target, ok := byID[targetNodeID]
		if !ok {
			return apperr.NotFound("target node %s does not exist", targetNodeID)
		}
		if source.RecommendationID != target.RecommendationID {
			return apperr.InvalidGraph("edge endpoints belong to different recommendations")
		}

		adjacency, err := s.loadAdjacency(ctx, tx, source.RecommendationID)
		if err != nil {
			return err
		}
		// The new edge closes a cycle exactly when the source is already
		// reachable from the target.
		if reachable(adjacency, targetNodeID, sourceNodeID) {
			return apperr.InvalidGraph("edge %s -> %s would create a cycle", sourceNodeID, targetNodeID)
		}

		edge = &types.Edge{
			ID:           uuid.New(),
			SourceNodeID: sourceNodeID,
			TargetNodeID: targetNodeID,
		}
		if _, err := s.edgeRepo.Create(ctx, tx, []*types.Edge{edge}); err != nil {
			return fmt.Errorf("create edge: %w", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return edge, nil
}

func (s *graphService) ActivateNode(ctx context.Context, nodeID uuid.UUID) (*types.Node, error) {
	var node *types.Node
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		node, err = s.loadNode(ctx, tx, nodeID)
		if err != nil {
			return err
		}
		if node.Status == types.NodePending {
			return nil // already active
		}
		if !node.Status.CanTransition(types.NodePending) {
			return apperr.InvalidTransition("node %s cannot move %s -> %s", nodeID, node.Status, types.NodePending)
		}
		if err := s.nodeRepo.UpdateStatus(ctx, tx, nodeID, types.NodePending, nil); err != nil {
			return fmt.Errorf("update node status: %w", err)
		}
		node.Status = types.NodePending
		return nil
	}); err != nil {
		return nil, err
	}
	return node, nil
}

func (s *graphService) MarkNodeComplete(ctx context.Context, nodeID uuid.UUID) (*types.Node, error) {
	var (
		node    *types.Node
		touched []*types.UserProgress
	)
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		node, err = s.loadNode(ctx, tx, nodeID)
		if err != nil {
			return err
		}
		if node.Status == types.NodeCompleted {
			return nil // completing twice is a no-op, not an error
		}
		if !node.Status.CanTransition(types.NodeCompleted) {
			return apperr.InvalidTransition("node %s cannot move %s -> %s", nodeID, node.Status, types.NodeCompleted)
		}

		incoming, err := s.edgeRepo.GetByTargetNodeIDs(ctx, tx, []uuid.UUID{nodeID})
		if err != nil {
			return fmt.Errorf("load incoming edges: %w", err)
		}
		if len(incoming) > 0 {
			sourceIDs := make([]uuid.UUID, 0, len(incoming))
			for _, e := range incoming {
				sourceIDs = append(sourceIDs, e.SourceNodeID)
			}
			sources, err := s.nodeRepo.GetByIDs(ctx, tx, sourceIDs)
			if err != nil {
				return fmt.Errorf("load prerequisite nodes: %w", err)
			}
			for _, src := range sources {
				if src.Status != types.NodeCompleted {
					return apperr.PrerequisiteNotMet("node %s requires %s (%s) to be completed first", nodeID, src.ID, src.Label)
				}
			}
		}

		now := time.Now().UTC()
		if err := s.nodeRepo.UpdateStatus(ctx, tx, nodeID, types.NodeCompleted, &now); err != nil {
			return fmt.Errorf("update node status: %w", err)
		}
		node.Status = types.NodeCompleted
		node.CompletedAt = &now

		touched, err = s.progress.RecomputeRecommendationTx(ctx, tx, node.RecommendationID)
		return err
	}); err != nil {
		return nil, err
	}
	s.progress.Publish(ctx, touched...)
	return node, nil
}

func (s *graphService) RemoveNode(ctx context.Context, nodeID uuid.UUID) error {
	var touched []*types.UserProgress
	if err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		node, err := s.loadNode(ctx, tx, nodeID)
		if err != nil {
			return err
		}
		if err := s.edgeRepo.DeleteByNodeIDs(ctx, tx, []uuid.UUID{nodeID}); err != nil {
			return fmt.Errorf("delete edges: %w", err)
		}
		if err := s.nodeRepo.DeleteByIDs(ctx, tx, []uuid.UUID{nodeID}); err != nil {
			return fmt.Errorf("delete node: %w", err)
		}
		// Removal changes every user's denominator.
		touched, err = s.progress.RecomputeRecommendationTx(ctx, tx, node.RecommendationID)
		return err
	}); err != nil {
		return err
	}
	s.progress.Publish(ctx, touched...)
	return nil
}

func (s *graphService) NodeStatusOf(ctx context.Context, nodeID uuid.UUID) (types.NodeStatus, error) {
	node, err := s.loadNode(ctx, nil, nodeID)
	if err != nil {
		return "", err
	}
	return node.Status, nil
}

// TopologicalOrder returns the recommendation's nodes so that every node
// appears after all of its prerequisites. Ties break on node ID string
// order, so the result is stable across calls.
func (s *graphService) TopologicalOrder(ctx context.Context, recommendationID uuid.UUID) ([]*types.Node, error) {
	nodes, err := s.nodeRepo.GetByRecommendationID(ctx, nil, recommendationID)
	if err != nil {
		return nil, fmt.Errorf("load nodes: %w", err)
	}
	if len(nodes) == 0 {
		return []*types.Node{}, nil
	}

	nodeIDs := make([]uuid.UUID, 0, len(nodes))
	byID := make(map[uuid.UUID]*types.Node, len(nodes))
	for _, n := range nodes {
		nodeIDs = append(nodeIDs, n.ID)
		byID[n.ID] = n
	}
	edges, err := s.edgeRepo.GetBySourceNodeIDs(ctx, nil, nodeIDs)
	if err != nil {
		return nil, fmt.Errorf("load edges: %w", err)
	}

	indegree := make(map[uuid.UUID]int, len(nodes))
	adjacency := make(map[uuid.UUID][]uuid.UUID, len(nodes))
	for _, e := range edges {
		adjacency[e.SourceNodeID] = append(adjacency[e.SourceNodeID], e.TargetNodeID)
		indegree[e.TargetNodeID]++
	}

	ready := make([]uuid.UUID, 0, len(nodes))
	for _, n := range nodes {
		if indegree[n.ID] == 0 {
			ready = append(ready, n.ID)
		}
	}

	ordered := make([]*types.Node, 0, len(nodes))
	for len(ready) > 0 {
		sort.Slice(ready, func(i, j int) bool { return ready[i].String() < ready[j].String() })
		next := ready[0]
		ready = ready[1:]
		ordered = append(ordered, byID[next])
		for _, dep := range adjacency[next] {
			indegree[dep]--
			if indegree[dep] == 0 {
				ready = append(ready, dep)
			}
		}
	}
	if len(ordered) != len(nodes) {
		return nil, apperr.InvalidGraph("recommendation %s graph contains a cycle", recommendationID)
	}
	return ordered, nil
}

func (s *graphService) loadNode(ctx context.Context, tx *gorm.DB, nodeID uuid.UUID) (*types.Node, error) {
	nodes, err := s.nodeRepo.GetByIDs(ctx, tx, []uuid.UUID{nodeID})
	if err != nil {
		return nil, fmt.Errorf("load node: %w", err)
	}
	if len(nodes) == 0 {
		return nil, apperr.NotFound("node %s does not exist", nodeID)
	}
	return nodes[0], nil
}

// loadAdjacency builds the outgoing-edge index for one recommendation's
// nodes (edges reference nodes by id only; nodes never embed edges).
func (s *graphService) loadAdjacency(ctx context.Context, tx *gorm.DB, recommendationID uuid.UUID) (map[uuid.UUID][]uuid.UUID, error) {
	nodes, err := s.nodeRepo.GetByRecommendationID(ctx, tx, recommendationID)
	if err != nil {
		return nil, fmt.Errorf("load graph nodes: %w", err)
	}
	nodeIDs := make([]uuid.UUID, 0, len(nodes))
	for _, n := range nodes {
		nodeIDs = append(nodeIDs, n.ID)
	}
	edges, err := s.edgeRepo.GetBySourceNodeIDs(ctx, tx, nodeIDs)
	if err != nil {
		return nil, fmt.Errorf("load graph edges: %w", err)
	}
	adjacency := make(map[uuid.UUID][]uuid.UUID, len(nodes))
	for _, e := range edges {
		adjacency[e.SourceNodeID] = append(adjacency[e.SourceNodeID], e.TargetNodeID)
	}
	return adjacency, nil
}

// reachable walks adjacency depth-first from `from` looking for `to`.
func reachable(adjacency map[uuid.UUID][]uuid.UUID, from, to uuid.UUID) bool {
	if from == to {
		return true
	}
	seen := map[uuid.UUID]bool{from: true}
	stack := []uuid.UUID{from}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, next := range adjacency[current] {
			if next == to {
				return true
			}
			if !seen[next] {
				seen[next] = true
				stack = append(stack, next)
			}
		}
	}
	return false
}
