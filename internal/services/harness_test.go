package services

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/greenprint/greenprint-backend/internal/repos"
	"github.com/greenprint/greenprint-backend/internal/testutil"
)

// harness wires every service over a per-test transaction so tests never
// see each other's rows. The services open savepoints inside it.
type harness struct {
	ctx context.Context
	tx  *gorm.DB

	users       UserService
	communities CommunityService
	membership  MembershipService
	recs        RecommendationService
	graph       GraphService
	tasks       TaskService
	progress    ProgressService

	userRepo     repos.UserRepo
	memberRepo   repos.MemberRepo
	requestRepo  repos.CommunityRequestRepo
	nodeRepo     repos.NodeRepo
	edgeRepo     repos.EdgeRepo
	taskRepo     repos.TaskRepo
	progressRepo repos.UserProgressRepo
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	tx := testutil.Tx(t)
	log := testutil.Logger(t)

	userRepo := repos.NewUserRepo(tx, log)
	communityRepo := repos.NewCommunityRepo(tx, log)
	memberRepo := repos.NewMemberRepo(tx, log)
	requestRepo := repos.NewCommunityRequestRepo(tx, log)
	recRepo := repos.NewRecommendationRepo(tx, log)
	nodeRepo := repos.NewNodeRepo(tx, log)
	edgeRepo := repos.NewEdgeRepo(tx, log)
	taskRepo := repos.NewTaskRepo(tx, log)
	progressRepo := repos.NewUserProgressRepo(tx, log)

	progress := NewProgressService(tx, log, nodeRepo, taskRepo, progressRepo, nil)

	return &harness{
		ctx:          context.Background(),
		tx:           tx,
		users:        NewUserService(tx, log, userRepo),
		communities:  NewCommunityService(tx, log, userRepo, communityRepo, memberRepo),
		membership:   NewMembershipService(tx, log, userRepo, communityRepo, memberRepo, requestRepo),
		recs:         NewRecommendationService(tx, log, recRepo, userRepo, communityRepo),
		graph:        NewGraphService(tx, log, nodeRepo, edgeRepo, recRepo, progress),
		tasks:        NewTaskService(tx, log, taskRepo, recRepo, progress),
		progress:     progress,
		userRepo:     userRepo,
		memberRepo:   memberRepo,
		requestRepo:  requestRepo,
		nodeRepo:     nodeRepo,
		edgeRepo:     edgeRepo,
		taskRepo:     taskRepo,
		progressRepo: progressRepo,
	}
}
