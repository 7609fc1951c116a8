package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/yungbote/ruleforge-backend/internal/logger"
  "github.com/yungbote/ruleforge-backend/internal/types"
)

type RuleStageHistoryRepo interface {
  Create(ctx context.Context, tx *gorm.DB, entries []*types.RuleStageHistory) ([]*types.RuleStageHistory, error)
  GetByVersionIDs(ctx context.Context, tx *gorm.DB, versionIDs []uuid.UUID) ([]*types.RuleStageHistory, error)
}

type ruleStageHistoryRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewRuleStageHistoryRepo(db *gorm.DB, baseLog *logger.Logger) RuleStageHistoryRepo {
  repoLog := baseLog.With("repo", "RuleStageHistoryRepo")
  return &ruleStageHistoryRepo{db: db, log: repoLog}
}

func (rshr *ruleStageHistoryRepo) Create(ctx context.Context, tx *gorm.DB, entries []*types.RuleStageHistory) ([]*types.RuleStageHistory, error) {
  transaction := tx
  if transaction == nil {
    transaction = rshr.db
  }

  if len(entries) == 0 {
    return []*types.RuleStageHistory{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&entries).Error; err != nil {
    return nil, err
  }

  return entries, nil
}

func (rshr *ruleStageHistoryRepo) GetByVersionIDs(ctx context.Context, tx *gorm.DB, versionIDs []uuid.UUID) ([]*types.RuleStageHistory, error) {
  transaction := tx
  if transaction == nil {
    transaction = rshr.db
  }

  var results []*types.RuleStageHistory

  if len(versionIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("rule_version_id IN ?", versionIDs).
    Order("changed_at ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }

  return results, nil
}
