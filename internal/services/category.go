package services

import (
  "context"
  "fmt"

  "gorm.io/gorm"

  "github.com/yungbote/ruleforge-backend/internal/apierr"
  "github.com/yungbote/ruleforge-backend/internal/logger"
  "github.com/yungbote/ruleforge-backend/internal/repos"
  "github.com/yungbote/ruleforge-backend/internal/types"
)

type CategoryService interface {
  Create(ctx context.Context, category *types.Category) (*types.Category, error)
  GetByID(ctx context.Context, categoryID string) (*types.Category, error)
  GetAll(ctx context.Context) ([]*types.Category, error)
  Update(ctx context.Context, categoryID string, name, description *string) (*types.Category, error)
  Delete(ctx context.Context, categoryID string) error
}

type categoryService struct {
  db           *gorm.DB
  log          *logger.Logger
  categoryRepo repos.CategoryRepo
}

func NewCategoryService(db *gorm.DB, baseLog *logger.Logger, categoryRepo repos.CategoryRepo) CategoryService {
  serviceLog := baseLog.With("service", "CategoryService")
  return &categoryService{db: db, log: serviceLog, categoryRepo: categoryRepo}
}

func (cs *categoryService) Create(ctx context.Context, category *types.Category) (*types.Category, error) {
  if category == nil || category.ID == "" {
    return nil, apierr.Validation("missing_id", "category id is required")
  }
  if category.Name == "" {
    return nil, apierr.Validation("missing_name", "category name is required")
  }

  existing, err := cs.categoryRepo.GetByIDs(ctx, nil, []string{category.ID})
  if err != nil {
    return nil, apierr.Storage(fmt.Errorf("check category: %w", err))
  }
  if len(existing) > 0 {
    return nil, apierr.Conflict("category_exists", "category %q already exists", category.ID)
  }

  if _, err := cs.categoryRepo.Create(ctx, nil, []*types.Category{category}); err != nil {
    return nil, apierr.Storage(fmt.Errorf("create category: %w", err))
  }
  return category, nil
}

func (cs *categoryService) GetByID(ctx context.Context, categoryID string) (*types.Category, error) {
  categories, err := cs.categoryRepo.GetByIDs(ctx, nil, []string{categoryID})
  if err != nil {
    return nil, apierr.Storage(fmt.Errorf("load category: %w", err))
  }
  if len(categories) == 0 {
    return nil, apierr.NotFound("category_not_found", "category %q not found", categoryID)
  }
  return categories[0], nil
}

func (cs *categoryService) GetAll(ctx context.Context) ([]*types.Category, error) {
  categories, err := cs.categoryRepo.GetAll(ctx, nil)
  if err != nil {
    return nil, apierr.Storage(fmt.Errorf("list categories: %w", err))
  }
  return categories, nil
}

func (cs *categoryService) Update(ctx context.Context, categoryID string, name, description *string) (*types.Category, error) {
  categories, err := cs.categoryRepo.GetByIDs(ctx, nil, []string{categoryID})
  if err != nil {
    return nil, apierr.Storage(fmt.Errorf("load category: %w", err))
  }
  if len(categories) == 0 {
    return nil, apierr.NotFound("category_not_found", "category %q not found", categoryID)
  }
  category := categories[0]

  if name != nil {
    category.Name = *name
  }
  if description != nil {
    category.Description = *description
  }

  if err := cs.categoryRepo.Update(ctx, nil, category); err != nil {
    return nil, apierr.Storage(fmt.Errorf("update category: %w", err))
  }
  return category, nil
}

func (cs *categoryService) Delete(ctx context.Context, categoryID string) error {
  categories, err := cs.categoryRepo.GetByIDs(ctx, nil, []string{categoryID})
  if err != nil {
    return apierr.Storage(fmt.Errorf("load category: %w", err))
  }
  if len(categories) == 0 {
    return apierr.NotFound("category_not_found", "category %q not found", categoryID)
  }
  return cs.categoryRepo.SoftDeleteByIDs(ctx, nil, []string{categoryID})
}
