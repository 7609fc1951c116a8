package repos

import (
  "context"
  "strings"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/yungbote/ruleforge-backend/internal/logger"
  "github.com/yungbote/ruleforge-backend/internal/types"
)

type SubfunctionListFilter struct {
  Page       int
  Limit      int
  CategoryID string
  Search     string
}

type SubfunctionRepo interface {
  Create(ctx context.Context, tx *gorm.DB, subfunctions []*types.Subfunction) ([]*types.Subfunction, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, subfunctionIDs []uuid.UUID) ([]*types.Subfunction, error)
  List(ctx context.Context, tx *gorm.DB, filter SubfunctionListFilter) ([]*types.Subfunction, int64, error)
  Update(ctx context.Context, tx *gorm.DB, subfunction *types.Subfunction) error
  SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, subfunctionIDs []uuid.UUID) error
}

type subfunctionRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewSubfunctionRepo(db *gorm.DB, baseLog *logger.Logger) SubfunctionRepo {
  repoLog := baseLog.With("repo", "SubfunctionRepo")
  return &subfunctionRepo{db: db, log: repoLog}
}

func (sr *subfunctionRepo) Create(ctx context.Context, tx *gorm.DB, subfunctions []*types.Subfunction) ([]*types.Subfunction, error) {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }

  if len(subfunctions) == 0 {
    return []*types.Subfunction{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&subfunctions).Error; err != nil {
    return nil, err
  }

  return subfunctions, nil
}

func (sr *subfunctionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, subfunctionIDs []uuid.UUID) ([]*types.Subfunction, error) {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }

  var results []*types.Subfunction

  if len(subfunctionIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("id IN ?", subfunctionIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }

  return results, nil
}

func (sr *subfunctionRepo) List(ctx context.Context, tx *gorm.DB, filter SubfunctionListFilter) ([]*types.Subfunction, int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }

  page := filter.Page
  if page < 1 {
    page = 1
  }
  limit := filter.Limit
  if limit < 1 {
    limit = 10
  }

  query := transaction.WithContext(ctx).Model(&types.Subfunction{})
  if filter.CategoryID != "" {
    query = query.Where("category_id = ?", filter.CategoryID)
  }
  if filter.Search != "" {
    term := "%" + strings.ToLower(filter.Search) + "%"
    query = query.Where("LOWER(name) LIKE ? OR LOWER(function_name) LIKE ?", term, term)
  }

  var total int64
  if err := query.Count(&total).Error; err != nil {
    return nil, 0, err
  }

  var results []*types.Subfunction
  if err := query.
    Order("name ASC").
    Limit(limit).
    Offset((page - 1) * limit).
    Find(&results).Error; err != nil {
    return nil, 0, err
  }

  return results, total, nil
}

func (sr *subfunctionRepo) Update(ctx context.Context, tx *gorm.DB, subfunction *types.Subfunction) error {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }

  if subfunction == nil {
    return nil
  }

  return transaction.WithContext(ctx).Save(subfunction).Error
}

func (sr *subfunctionRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, subfunctionIDs []uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = sr.db
  }

  if len(subfunctionIDs) == 0 {
    return nil
  }

  return transaction.WithContext(ctx).
    Where("id IN ?", subfunctionIDs).
    Delete(&types.Subfunction{}).Error
}
