package types

import "testing"

func TestRequestStatusTransitions(t *testing.T) {
	cases := []struct {
		from RequestStatus
		to   RequestStatus
		want bool
	}{
		{RequestPending, RequestApproved, true},
		{RequestPending, RequestRejected, true},
		{RequestPending, RequestPending, false},
		{RequestApproved, RequestRejected, false},
		{RequestApproved, RequestPending, false},
		{RequestRejected, RequestApproved, false},
	}
	for _, c := range cases {
		if got := c.from.CanTransition(c.to); got != c.want {
			t.Errorf("%s -> %s: got %v want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestRequestStatusTerminal(t *testing.T) {
	if RequestPending.Terminal() {
		t.Errorf("PENDING must not be terminal")
	}
	if !RequestApproved.Terminal() || !RequestRejected.Terminal() {
		t.Errorf("APPROVED and REJECTED must be terminal")
	}
}

func TestNodeStatusTransitions(t *testing.T) {
	cases := []struct {
		from NodeStatus
		to   NodeStatus
		want bool
	}{
		{NodeNotStarted, NodePending, true},
		{NodeNotStarted, NodeCompleted, true},
		{NodePending, NodeCompleted, true},
		{NodeCompleted, NodePending, false},
		{NodeCompleted, NodeNotStarted, false},
		{NodePending, NodeNotStarted, false},
	}
	for _, c := range cases {
		if got := c.from.CanTransition(c.to); got != c.want {
			t.Errorf("%s -> %s: got %v want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestTaskStatusTransitions(t *testing.T) {
	cases := []struct {
		from TaskStatus
		to   TaskStatus
		want bool
	}{
		{TaskPending, TaskInProgress, true},
		{TaskPending, TaskCompleted, true},
		{TaskInProgress, TaskCompleted, true},
		{TaskCompleted, TaskInProgress, false},
		{TaskCompleted, TaskPending, false},
		{TaskInProgress, TaskPending, false},
	}
	for _, c := range cases {
		if got := c.from.CanTransition(c.to); got != c.want {
			t.Errorf("%s -> %s: got %v want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestRecommendationStatusTransitions(t *testing.T) {
	if !RecommendationPending.CanTransition(RecommendationInProgress) {
		t.Errorf("PENDING -> IN_PROGRESS must be allowed")
	}
	if !RecommendationInProgress.CanTransition(RecommendationCompleted) {
		t.Errorf("IN_PROGRESS -> COMPLETED must be allowed")
	}
	if RecommendationCompleted.CanTransition(RecommendationPending) {
		t.Errorf("COMPLETED is terminal")
	}
}

func TestValid(t *testing.T) {
	if !RoleResident.Valid() || !RoleCommunityLeader.Valid() || !RoleNoUser.Valid() {
		t.Errorf("known roles must validate")
	}
	if Role("ADMIN").Valid() {
		t.Errorf("unknown role must not validate")
	}
	if RecommendationCategory("FOOD").Valid() {
		t.Errorf("unknown category must not validate")
	}
	if NodeStatus("DONE").Valid() {
		t.Errorf("unknown node status must not validate")
	}
}
