package repos

import (
  "context"
  "strings"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/yungbote/ruleforge-backend/internal/logger"
  "github.com/yungbote/ruleforge-backend/internal/types"
)

type RuleListFilter struct {
  Page   int
  Limit  int
  Status types.Stage
  Search string
}

type RuleRepo interface {
  Create(ctx context.Context, tx *gorm.DB, rules []*types.Rule) ([]*types.Rule, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, ruleIDs []uuid.UUID) ([]*types.Rule, error)
  GetBySlugs(ctx context.Context, tx *gorm.DB, slugs []string) ([]*types.Rule, error)
  List(ctx context.Context, tx *gorm.DB, filter RuleListFilter) ([]*types.Rule, int64, error)
  Update(ctx context.Context, tx *gorm.DB, rule *types.Rule) error
  SetStatus(ctx context.Context, tx *gorm.DB, ruleID uuid.UUID, status types.Stage) error
  SetVersionPointer(ctx context.Context, tx *gorm.DB, ruleID uuid.UUID, major, minor int) error
  SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ruleIDs []uuid.UUID) error
}

type ruleRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewRuleRepo(db *gorm.DB, baseLog *logger.Logger) RuleRepo {
  repoLog := baseLog.With("repo", "RuleRepo")
  return &ruleRepo{db: db, log: repoLog}
}

func (rr *ruleRepo) Create(ctx context.Context, tx *gorm.DB, rules []*types.Rule) ([]*types.Rule, error) {
  transaction := tx
  if transaction == nil {
    transaction = rr.db
  }

  if len(rules) == 0 {
    return []*types.Rule{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&rules).Error; err != nil {
    return nil, err
  }

  return rules, nil
}

func (rr *ruleRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ruleIDs []uuid.UUID) ([]*types.Rule, error) {
  transaction := tx
  if transaction == nil {
    transaction = rr.db
  }

  var results []*types.Rule

  if len(ruleIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("id IN ?", ruleIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }

  return results, nil
}

func (rr *ruleRepo) GetBySlugs(ctx context.Context, tx *gorm.DB, slugs []string) ([]*types.Rule, error) {
  transaction := tx
  if transaction == nil {
    transaction = rr.db
  }

  var results []*types.Rule

  if len(slugs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("slug IN ?", slugs).
    Find(&results).Error; err != nil {
    return nil, err
  }

  return results, nil
}

func (rr *ruleRepo) List(ctx context.Context, tx *gorm.DB, filter RuleListFilter) ([]*types.Rule, int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = rr.db
  }

  page := filter.Page
  if page < 1 {
    page = 1
  }
  limit := filter.Limit
  if limit < 1 {
    limit = 10
  }

  query := transaction.WithContext(ctx).Model(&types.Rule{})
  if filter.Status != "" {
    query = query.Where("status = ?", filter.Status)
  }
  if filter.Search != "" {
    term := "%" + strings.ToLower(filter.Search) + "%"
    query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(slug) LIKE ?", term, term, term)
  }

  var total int64
  if err := query.Count(&total).Error; err != nil {
    return nil, 0, err
  }

  var results []*types.Rule
  if err := query.
    Order("created_at DESC").
    Limit(limit).
    Offset((page - 1) * limit).
    Find(&results).Error; err != nil {
    return nil, 0, err
  }

  return results, total, nil
}

func (rr *ruleRepo) Update(ctx context.Context, tx *gorm.DB, rule *types.Rule) error {
  transaction := tx
  if transaction == nil {
    transaction = rr.db
  }

  if rule == nil {
    return nil
  }

  return transaction.WithContext(ctx).Save(rule).Error
}

func (rr *ruleRepo) SetStatus(ctx context.Context, tx *gorm.DB, ruleID uuid.UUID, status types.Stage) error {
  transaction := tx
  if transaction == nil {
    transaction = rr.db
  }

  return transaction.WithContext(ctx).
    Model(&types.Rule{}).
    Where("id = ?", ruleID).
    Update("status", status).Error
}

func (rr *ruleRepo) SetVersionPointer(ctx context.Context, tx *gorm.DB, ruleID uuid.UUID, major, minor int) error {
  transaction := tx
  if transaction == nil {
    transaction = rr.db
  }

  return transaction.WithContext(ctx).
    Model(&types.Rule{}).
    Where("id = ?", ruleID).
    Updates(map[string]interface{}{"version_major": major, "version_minor": minor}).Error
}

func (rr *ruleRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ruleIDs []uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = rr.db
  }

  if len(ruleIDs) == 0 {
    return nil
  }

  return transaction.WithContext(ctx).
    Where("id IN ?", ruleIDs).
    Delete(&types.Rule{}).Error
}
