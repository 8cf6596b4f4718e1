// Backfill recomputes every stored user_progress row from current node and
// task state. Run after a bulk import or any manual data surgery that
// touched nodes or tasks behind the services' back.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/greenprint/greenprint-backend/internal/config"
	"github.com/greenprint/greenprint-backend/internal/db"
	"github.com/greenprint/greenprint-backend/internal/platform/logger"
	"github.com/greenprint/greenprint-backend/internal/repos"
	"github.com/greenprint/greenprint-backend/internal/services"
	"github.com/greenprint/greenprint-backend/internal/types"
)

func main() {
	var recFlag string
	var dryRun bool
	var workers int
	flag.StringVar(&recFlag, "recommendation", "", "restrict to one recommendation_id")
	flag.BoolVar(&dryRun, "dry-run", false, "print planned recomputes without writing")
	flag.IntVar(&workers, "workers", 4, "concurrent recomputes")
	flag.Parse()

	log, err := logger.New("production")
	if err != nil {
		fmt.Printf("init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"), log)
	if err != nil {
		fmt.Printf("load config: %v\n", err)
		os.Exit(1)
	}
	postgresService, err := db.NewPostgresService(cfg.Postgres, log)
	if err != nil {
		fmt.Printf("connect postgres: %v\n", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	nodeRepo := repos.NewNodeRepo(thePG, log)
	taskRepo := repos.NewTaskRepo(thePG, log)
	progressRepo := repos.NewUserProgressRepo(thePG, log)
	progressService := services.NewProgressService(thePG, log, nodeRepo, taskRepo, progressRepo, nil)

	ctx := context.Background()

	var (
		rows    []*types.UserProgress
		loadErr error
	)
	if recFlag != "" {
		recID, err := uuid.Parse(strings.TrimSpace(recFlag))
		if err != nil {
			fmt.Printf("invalid recommendation_id %q\n", recFlag)
			os.Exit(1)
		}
		rows, loadErr = progressRepo.GetByRecommendationID(ctx, nil, recID)
	} else {
		rows, loadErr = progressRepo.GetAll(ctx, nil)
	}
	if loadErr != nil {
		fmt.Printf("load progress rows: %v\n", loadErr)
		os.Exit(1)
	}

	if dryRun {
		for _, row := range rows {
			fmt.Printf("[dry-run] recompute user_id=%s recommendation_id=%s\n", row.UserID, row.RecommendationID)
		}
		fmt.Printf("done; planned=%d\n", len(rows))
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, row := range rows {
		row := row
		g.Go(func() error {
			if _, err := progressService.Recompute(gctx, row.UserID, row.RecommendationID); err != nil {
				return fmt.Errorf("recompute user=%s recommendation=%s: %w", row.UserID, row.RecommendationID, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Printf("backfill failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("done; recomputed=%d\n", len(rows))
}
