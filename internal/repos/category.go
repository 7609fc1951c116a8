package repos

import (
  "context"
  "gorm.io/gorm"
  "github.com/yungbote/ruleforge-backend/internal/logger"
  "github.com/yungbote/ruleforge-backend/internal/types"
)

type CategoryRepo interface {
  Create(ctx context.Context, tx *gorm.DB, categories []*types.Category) ([]*types.Category, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, categoryIDs []string) ([]*types.Category, error)
  GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Category, error)
  Update(ctx context.Context, tx *gorm.DB, category *types.Category) error
  SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, categoryIDs []string) error
}

type categoryRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewCategoryRepo(db *gorm.DB, baseLog *logger.Logger) CategoryRepo {
  repoLog := baseLog.With("repo", "CategoryRepo")
  return &categoryRepo{db: db, log: repoLog}
}

func (cr *categoryRepo) Create(ctx context.Context, tx *gorm.DB, categories []*types.Category) ([]*types.Category, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }

  if len(categories) == 0 {
    return []*types.Category{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&categories).Error; err != nil {
    return nil, err
  }

  return categories, nil
}

func (cr *categoryRepo) GetByIDs(ctx context.Context, tx *gorm.DB, categoryIDs []string) ([]*types.Category, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }

  var results []*types.Category

  if len(categoryIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("id IN ?", categoryIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }

  return results, nil
}

func (cr *categoryRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Category, error) {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }

  var results []*types.Category
  if err := transaction.WithContext(ctx).
    Order("name ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }

  return results, nil
}

func (cr *categoryRepo) Update(ctx context.Context, tx *gorm.DB, category *types.Category) error {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }

  if category == nil {
    return nil
  }

  return transaction.WithContext(ctx).Save(category).Error
}

func (cr *categoryRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, categoryIDs []string) error {
  transaction := tx
  if transaction == nil {
    transaction = cr.db
  }

  if len(categoryIDs) == 0 {
    return nil
  }

  return transaction.WithContext(ctx).
    Where("id IN ?", categoryIDs).
    Delete(&types.Category{}).Error
}
