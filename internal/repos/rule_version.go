package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/yungbote/ruleforge-backend/internal/logger"
  "github.com/yungbote/ruleforge-backend/internal/types"
)

type RuleVersionRepo interface {
  Create(ctx context.Context, tx *gorm.DB, versions []*types.RuleVersion) ([]*types.RuleVersion, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, versionIDs []uuid.UUID) ([]*types.RuleVersion, error)
  GetByRuleIDs(ctx context.Context, tx *gorm.DB, ruleIDs []uuid.UUID) ([]*types.RuleVersion, error)
  GetByRuleAndNumber(ctx context.Context, tx *gorm.DB, ruleID uuid.UUID, major, minor int) (*types.RuleVersion, error)
  SetStage(ctx context.Context, tx *gorm.DB, versionID uuid.UUID, stage types.Stage) error
}

type ruleVersionRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewRuleVersionRepo(db *gorm.DB, baseLog *logger.Logger) RuleVersionRepo {
  repoLog := baseLog.With("repo", "RuleVersionRepo")
  return &ruleVersionRepo{db: db, log: repoLog}
}

func (rvr *ruleVersionRepo) Create(ctx context.Context, tx *gorm.DB, versions []*types.RuleVersion) ([]*types.RuleVersion, error) {
  transaction := tx
  if transaction == nil {
    transaction = rvr.db
  }

  if len(versions) == 0 {
    return []*types.RuleVersion{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&versions).Error; err != nil {
    return nil, err
  }

  return versions, nil
}

func (rvr *ruleVersionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, versionIDs []uuid.UUID) ([]*types.RuleVersion, error) {
  transaction := tx
  if transaction == nil {
    transaction = rvr.db
  }

  var results []*types.RuleVersion

  if len(versionIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("id IN ?", versionIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }

  return results, nil
}

func (rvr *ruleVersionRepo) GetByRuleIDs(ctx context.Context, tx *gorm.DB, ruleIDs []uuid.UUID) ([]*types.RuleVersion, error) {
  transaction := tx
  if transaction == nil {
    transaction = rvr.db
  }

  var results []*types.RuleVersion

  if len(ruleIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("rule_id IN ?", ruleIDs).
    Order("major_version DESC, minor_version DESC").
    Find(&results).Error; err != nil {
    return nil, err
  }

  return results, nil
}

func (rvr *ruleVersionRepo) GetByRuleAndNumber(ctx context.Context, tx *gorm.DB, ruleID uuid.UUID, major, minor int) (*types.RuleVersion, error) {
  transaction := tx
  if transaction == nil {
    transaction = rvr.db
  }

  var results []*types.RuleVersion
  if err := transaction.WithContext(ctx).
    Where("rule_id = ? AND major_version = ? AND minor_version = ?", ruleID, major, minor).
    Limit(1).
    Find(&results).Error; err != nil {
    return nil, err
  }
  if len(results) == 0 {
    return nil, nil
  }
  return results[0], nil
}

func (rvr *ruleVersionRepo) SetStage(ctx context.Context, tx *gorm.DB, versionID uuid.UUID, stage types.Stage) error {
  transaction := tx
  if transaction == nil {
    transaction = rvr.db
  }

  return transaction.WithContext(ctx).
    Model(&types.RuleVersion{}).
    Where("id = ?", versionID).
    Update("stage", stage).Error
}
