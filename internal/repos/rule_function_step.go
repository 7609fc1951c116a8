package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/yungbote/ruleforge-backend/internal/logger"
  "github.com/yungbote/ruleforge-backend/internal/types"
)

type RuleFunctionStepListFilter struct {
  Page           int
  Limit          int
  RuleFunctionID *uuid.UUID
}

type RuleFunctionStepRepo interface {
  Create(ctx context.Context, tx *gorm.DB, steps []*types.RuleFunctionStep) ([]*types.RuleFunctionStep, error)
  GetByFunctionAndID(ctx context.Context, tx *gorm.DB, functionID uuid.UUID, stepID string) (*types.RuleFunctionStep, error)
  GetBySequence(ctx context.Context, tx *gorm.DB, functionID uuid.UUID, sequence int) (*types.RuleFunctionStep, error)
  GetByRuleFunctionIDs(ctx context.Context, tx *gorm.DB, functionIDs []uuid.UUID) ([]*types.RuleFunctionStep, error)
  List(ctx context.Context, tx *gorm.DB, filter RuleFunctionStepListFilter) ([]*types.RuleFunctionStep, int64, error)
  Update(ctx context.Context, tx *gorm.DB, step *types.RuleFunctionStep) error
  SoftDeleteByFunctionAndID(ctx context.Context, tx *gorm.DB, functionID uuid.UUID, stepID string) error
  HardDeleteByRuleFunctionIDs(ctx context.Context, tx *gorm.DB, functionIDs []uuid.UUID) error
}

type ruleFunctionStepRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewRuleFunctionStepRepo(db *gorm.DB, baseLog *logger.Logger) RuleFunctionStepRepo {
  repoLog := baseLog.With("repo", "RuleFunctionStepRepo")
  return &ruleFunctionStepRepo{db: db, log: repoLog}
}

func (rsr *ruleFunctionStepRepo) Create(ctx context.Context, tx *gorm.DB, steps []*types.RuleFunctionStep) ([]*types.RuleFunctionStep, error) {
  transaction := tx
  if transaction == nil {
    transaction = rsr.db
  }

  if len(steps) == 0 {
    return []*types.RuleFunctionStep{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&steps).Error; err != nil {
    return nil, err
  }

  return steps, nil
}

func (rsr *ruleFunctionStepRepo) GetByFunctionAndID(ctx context.Context, tx *gorm.DB, functionID uuid.UUID, stepID string) (*types.RuleFunctionStep, error) {
  transaction := tx
  if transaction == nil {
    transaction = rsr.db
  }

  var results []*types.RuleFunctionStep
  if err := transaction.WithContext(ctx).
    Where("rule_function_id = ? AND id = ?", functionID, stepID).
    Limit(1).
    Find(&results).Error; err != nil {
    return nil, err
  }
  if len(results) == 0 {
    return nil, nil
  }
  return results[0], nil
}

func (rsr *ruleFunctionStepRepo) GetBySequence(ctx context.Context, tx *gorm.DB, functionID uuid.UUID, sequence int) (*types.RuleFunctionStep, error) {
  transaction := tx
  if transaction == nil {
    transaction = rsr.db
  }

  var results []*types.RuleFunctionStep
  if err := transaction.WithContext(ctx).
    Where("rule_function_id = ? AND sequence = ?", functionID, sequence).
    Limit(1).
    Find(&results).Error; err != nil {
    return nil, err
  }
  if len(results) == 0 {
    return nil, nil
  }
  return results[0], nil
}

func (rsr *ruleFunctionStepRepo) GetByRuleFunctionIDs(ctx context.Context, tx *gorm.DB, functionIDs []uuid.UUID) ([]*types.RuleFunctionStep, error) {
  transaction := tx
  if transaction == nil {
    transaction = rsr.db
  }

  var results []*types.RuleFunctionStep

  if len(functionIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("rule_function_id IN ?", functionIDs).
    Order("sequence ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }

  return results, nil
}

func (rsr *ruleFunctionStepRepo) List(ctx context.Context, tx *gorm.DB, filter RuleFunctionStepListFilter) ([]*types.RuleFunctionStep, int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = rsr.db
  }

  page := filter.Page
  if page < 1 {
    page = 1
  }
  limit := filter.Limit
  if limit < 1 {
    limit = 10
  }

  query := transaction.WithContext(ctx).Model(&types.RuleFunctionStep{})
  if filter.RuleFunctionID != nil {
    query = query.Where("rule_function_id = ?", *filter.RuleFunctionID)
  }

  var total int64
  if err := query.Count(&total).Error; err != nil {
    return nil, 0, err
  }

  var results []*types.RuleFunctionStep
  if err := query.
    Order("sequence ASC").
    Limit(limit).
    Offset((page - 1) * limit).
    Find(&results).Error; err != nil {
    return nil, 0, err
  }

  return results, total, nil
}

func (rsr *ruleFunctionStepRepo) Update(ctx context.Context, tx *gorm.DB, step *types.RuleFunctionStep) error {
  transaction := tx
  if transaction == nil {
    transaction = rsr.db
  }

  if step == nil {
    return nil
  }

  return transaction.WithContext(ctx).Save(step).Error
}

func (rsr *ruleFunctionStepRepo) SoftDeleteByFunctionAndID(ctx context.Context, tx *gorm.DB, functionID uuid.UUID, stepID string) error {
  transaction := tx
  if transaction == nil {
    transaction = rsr.db
  }

  return transaction.WithContext(ctx).
    Where("rule_function_id = ? AND id = ?", functionID, stepID).
    Delete(&types.RuleFunctionStep{}).Error
}

// HardDeleteByRuleFunctionIDs clears a working copy's step graph for a full
// replace; soft-deleted leftovers would collide with re-used step ids.
func (rsr *ruleFunctionStepRepo) HardDeleteByRuleFunctionIDs(ctx context.Context, tx *gorm.DB, functionIDs []uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = rsr.db
  }

  if len(functionIDs) == 0 {
    return nil
  }

  return transaction.WithContext(ctx).
    Unscoped().
    Where("rule_function_id IN ?", functionIDs).
    Delete(&types.RuleFunctionStep{}).Error
}
