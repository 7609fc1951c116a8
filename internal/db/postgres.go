package db

import (
  "fmt"
  "gorm.io/driver/postgres"
  "gorm.io/gorm"
  "github.com/yungbote/ruleforge-backend/internal/types"
  "github.com/yungbote/ruleforge-backend/internal/utils"
  "github.com/yungbote/ruleforge-backend/internal/logger"
)

type PostgresService struct {
  db *gorm.DB
  log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
  serviceLog := log.With("service", "PostgresService")

  log.Info("Loading environment variables...")
  postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
  postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
  postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
  postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
  postgresName := utils.GetEnv("POSTGRES_NAME", "ruleforge", log)

  dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

  log.Info("Connecting to Postgres...")
  db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
    DisableForeignKeyConstraintWhenMigrating: true,
    TranslateError:                           true,
  })
  if err != nil {
    log.Error("Failed to connect to Postgres", "error", err)
    return nil, fmt.Errorf("Failed to connect to Postgres: %w", err)
  }

  return &PostgresService{db: db, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
  s.log.Info("Auto migrating postgres tables...")
  err := s.db.AutoMigrate(
    &types.User{},
    &types.UserToken{},
    &types.Category{},
    &types.Subfunction{},
    &types.Rule{},
    &types.RuleFunction{},
    &types.RuleFunctionStep{},
    &types.RuleVersion{},
    &types.RuleApproval{},
    &types.RuleStageHistory{},
  )
  if err != nil {
    s.log.Error("Auto migration failed for postgres tables", "error", err)
    return err
  }
  return ApplyConstraints(s.db)
}

// ApplyConstraints creates the indexes AutoMigrate cannot express. The partial
// unique index is what holds the at-most-one-pending invariant under
// concurrent approval requests; the slug index scopes uniqueness to live rows.
func ApplyConstraints(db *gorm.DB) error {
  if err := db.Exec(`
    CREATE UNIQUE INDEX IF NOT EXISTS idx_rule_approvals_one_pending
    ON rule_approvals (rule_version_id)
    WHERE status = 'PENDING'
  `).Error; err != nil {
    return fmt.Errorf("Failed to create pending approval unique index: %w", err)
  }
  if err := db.Exec(`
    CREATE UNIQUE INDEX IF NOT EXISTS idx_rules_slug_live
    ON rules (slug)
    WHERE deleted_at IS NULL
  `).Error; err != nil {
    return fmt.Errorf("Failed to create rule slug unique index: %w", err)
  }
  if err := db.Exec(`
    CREATE UNIQUE INDEX IF NOT EXISTS idx_rule_functions_rule_live
    ON rule_functions (rule_id)
    WHERE deleted_at IS NULL
  `).Error; err != nil {
    return fmt.Errorf("Failed to create rule function unique index: %w", err)
  }
  return nil
}

func (s *PostgresService) DB() *gorm.DB {
  return s.db
}
