package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/greenprint/greenprint-backend/internal/config"
	"github.com/greenprint/greenprint-backend/internal/platform/logger"
	"github.com/greenprint/greenprint-backend/internal/types"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(cfg config.PostgresConfig, log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	log.Info("Connecting to Postgres...")
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		log.Error("Failed to enable uuid-ossp extension", "error", err)
		return nil, fmt.Errorf("failed to enable uuid-ossp extension: %w", err)
	}

	return &PostgresService{db: db, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&types.User{},
		&types.Household{},
		&types.Post{},
		&types.Community{},
		&types.Member{},
		&types.CommunityRequest{},
		&types.Recommendation{},
		&types.Node{},
		&types.Edge{},
		&types.Task{},
		&types.UserProgress{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}
	s.log.Info("Configuring foreign key relationships for postgres tables...")
	for _, ddl := range []string{
		`ALTER TABLE "edge"
		 ADD CONSTRAINT "fk_edge_source_node_id"
		 FOREIGN KEY ("source_node_id")
		 REFERENCES "node"("id")
		 ON DELETE CASCADE`,
		`ALTER TABLE "edge"
		 ADD CONSTRAINT "fk_edge_target_node_id"
		 FOREIGN KEY ("target_node_id")
		 REFERENCES "node"("id")
		 ON DELETE CASCADE`,
		`ALTER TABLE "node"
		 ADD CONSTRAINT "fk_node_recommendation_id"
		 FOREIGN KEY ("recommendation_id")
		 REFERENCES "recommendation"("id")
		 ON DELETE CASCADE`,
		`ALTER TABLE "task"
		 ADD CONSTRAINT "fk_task_recommendation_id"
		 FOREIGN KEY ("recommendation_id")
		 REFERENCES "recommendation"("id")
		 ON DELETE CASCADE`,
		`ALTER TABLE "member"
		 ADD CONSTRAINT "fk_member_community_id"
		 FOREIGN KEY ("community_id")
		 REFERENCES "community"("id")
		 ON DELETE CASCADE`,
		`ALTER TABLE "community_request"
		 ADD CONSTRAINT "fk_community_request_community_id"
		 FOREIGN KEY ("community_id")
		 REFERENCES "community"("id")
		 ON DELETE CASCADE`,
	} {
		if err := s.db.Exec(ddl).Error; err != nil {
			// Re-running migration against an existing schema hits
			// duplicate constraints; log and keep going.
			s.log.Debug("Skipping foreign key DDL", "error", err)
		}
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
