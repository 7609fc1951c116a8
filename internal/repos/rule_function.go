package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/yungbote/ruleforge-backend/internal/logger"
  "github.com/yungbote/ruleforge-backend/internal/types"
)

type RuleFunctionListFilter struct {
  Page  int
  Limit int
}

type RuleFunctionRepo interface {
  Create(ctx context.Context, tx *gorm.DB, functions []*types.RuleFunction) ([]*types.RuleFunction, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, functionIDs []uuid.UUID) ([]*types.RuleFunction, error)
  GetByRuleIDs(ctx context.Context, tx *gorm.DB, ruleIDs []uuid.UUID) ([]*types.RuleFunction, error)
  List(ctx context.Context, tx *gorm.DB, filter RuleFunctionListFilter) ([]*types.RuleFunction, int64, error)
  Update(ctx context.Context, tx *gorm.DB, function *types.RuleFunction) error
  SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, functionIDs []uuid.UUID) error
}

type ruleFunctionRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewRuleFunctionRepo(db *gorm.DB, baseLog *logger.Logger) RuleFunctionRepo {
  repoLog := baseLog.With("repo", "RuleFunctionRepo")
  return &ruleFunctionRepo{db: db, log: repoLog}
}

func (rfr *ruleFunctionRepo) Create(ctx context.Context, tx *gorm.DB, functions []*types.RuleFunction) ([]*types.RuleFunction, error) {
  transaction := tx
  if transaction == nil {
    transaction = rfr.db
  }

  if len(functions) == 0 {
    return []*types.RuleFunction{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&functions).Error; err != nil {
    return nil, err
  }

  return functions, nil
}

func (rfr *ruleFunctionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, functionIDs []uuid.UUID) ([]*types.RuleFunction, error) {
  transaction := tx
  if transaction == nil {
    transaction = rfr.db
  }

  var results []*types.RuleFunction

  if len(functionIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("id IN ?", functionIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }

  return results, nil
}

func (rfr *ruleFunctionRepo) GetByRuleIDs(ctx context.Context, tx *gorm.DB, ruleIDs []uuid.UUID) ([]*types.RuleFunction, error) {
  transaction := tx
  if transaction == nil {
    transaction = rfr.db
  }

  var results []*types.RuleFunction

  if len(ruleIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("rule_id IN ?", ruleIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }

  return results, nil
}

func (rfr *ruleFunctionRepo) List(ctx context.Context, tx *gorm.DB, filter RuleFunctionListFilter) ([]*types.RuleFunction, int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = rfr.db
  }

  page := filter.Page
  if page < 1 {
    page = 1
  }
  limit := filter.Limit
  if limit < 1 {
    limit = 10
  }

  query := transaction.WithContext(ctx).Model(&types.RuleFunction{})

  var total int64
  if err := query.Count(&total).Error; err != nil {
    return nil, 0, err
  }

  var results []*types.RuleFunction
  if err := query.
    Order("created_at DESC").
    Limit(limit).
    Offset((page - 1) * limit).
    Find(&results).Error; err != nil {
    return nil, 0, err
  }

  return results, total, nil
}

func (rfr *ruleFunctionRepo) Update(ctx context.Context, tx *gorm.DB, function *types.RuleFunction) error {
  transaction := tx
  if transaction == nil {
    transaction = rfr.db
  }

  if function == nil {
    return nil
  }

  return transaction.WithContext(ctx).Save(function).Error
}

func (rfr *ruleFunctionRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, functionIDs []uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = rfr.db
  }

  if len(functionIDs) == 0 {
    return nil
  }

  return transaction.WithContext(ctx).
    Where("id IN ?", functionIDs).
    Delete(&types.RuleFunction{}).Error
}
