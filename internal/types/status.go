package types

// Enum values are stored as-is and must stay byte-identical to the original
// schema for interop.

type Role string

const (
	RoleResident        Role = "RESIDENT"
	RoleCommunityLeader Role = "COMMUNITY_LEADER"
	RoleNoUser          Role = "NOUSER"
)

func (r Role) Valid() bool {
	switch r {
	case RoleResident, RoleCommunityLeader, RoleNoUser:
		return true
	}
	return false
}

type RequestStatus string

const (
	RequestPending  RequestStatus = "PENDING"
	RequestApproved RequestStatus = "APPROVED"
	RequestRejected RequestStatus = "REJECTED"
)

func (s RequestStatus) Valid() bool {
	switch s {
	case RequestPending, RequestApproved, RequestRejected:
		return true
	}
	return false
}

// Terminal reports whether the request has been resolved. Terminal states
// are immutable.
func (s RequestStatus) Terminal() bool {
	return s == RequestApproved || s == RequestRejected
}

func (s RequestStatus) CanTransition(to RequestStatus) bool {
	return s == RequestPending && to.Terminal()
}

type RecommendationCategory string

const (
	CategoryEnergy RecommendationCategory = "ENERGY"
	CategoryWater  RecommendationCategory = "WATER"
	CategoryWaste  RecommendationCategory = "WASTE"
)

func (c RecommendationCategory) Valid() bool {
	switch c {
	case CategoryEnergy, CategoryWater, CategoryWaste:
		return true
	}
	return false
}

type RecommendationStatus string

const (
	RecommendationPending    RecommendationStatus = "PENDING"
	RecommendationInProgress RecommendationStatus = "IN_PROGRESS"
	RecommendationCompleted  RecommendationStatus = "COMPLETED"
)

func (s RecommendationStatus) Valid() bool {
	switch s {
	case RecommendationPending, RecommendationInProgress, RecommendationCompleted:
		return true
	}
	return false
}

// CanTransition permits forward moves only. Skipping IN_PROGRESS is
// allowed, same rule as tasks.
func (s RecommendationStatus) CanTransition(to RecommendationStatus) bool {
	switch s {
	case RecommendationPending:
		return to == RecommendationInProgress || to == RecommendationCompleted
	case RecommendationInProgress:
		return to == RecommendationCompleted
	}
	return false
}

type NodeStatus string

const (
	NodeNotStarted NodeStatus = "NOT_STARTED"
	NodePending    NodeStatus = "PENDING"
	NodeCompleted  NodeStatus = "COMPLETED"
)

func (s NodeStatus) Valid() bool {
	switch s {
	case NodeNotStarted, NodePending, NodeCompleted:
		return true
	}
	return false
}

// CanTransition: NOT_STARTED -> PENDING (activation) -> COMPLETED.
// Completing straight from NOT_STARTED is allowed; there are no backward
// moves and COMPLETED is terminal.
func (s NodeStatus) CanTransition(to NodeStatus) bool {
	switch s {
	case NodeNotStarted:
		return to == NodePending || to == NodeCompleted
	case NodePending:
		return to == NodeCompleted
	}
	return false
}

type TaskStatus string

const (
	TaskPending    TaskStatus = "PENDING"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskCompleted  TaskStatus = "COMPLETED"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskInProgress, TaskCompleted:
		return true
	}
	return false
}

// CanTransition permits forward moves only; PENDING -> COMPLETED skip is
// fine since tasks have no prerequisite chain between them.
func (s TaskStatus) CanTransition(to TaskStatus) bool {
	switch s {
	case TaskPending:
		return to == TaskInProgress || to == TaskCompleted
	case TaskInProgress:
		return to == TaskCompleted
	}
	return false
}
