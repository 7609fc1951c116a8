package services

import (
  "context"
  "fmt"

  "github.com/google/uuid"
  "gorm.io/datatypes"
  "gorm.io/gorm"

  "github.com/yungbote/ruleforge-backend/internal/apierr"
  "github.com/yungbote/ruleforge-backend/internal/logger"
  "github.com/yungbote/ruleforge-backend/internal/repos"
  "github.com/yungbote/ruleforge-backend/internal/types"
)

type CreateSubfunctionInput struct {
  Name         string
  Description  string
  Version      string
  FunctionName string
  CategoryID   *string
  Code         string
  ReturnType   string
  InputParams  datatypes.JSON
}

type UpdateSubfunctionInput struct {
  Name         *string
  Description  *string
  Version      *string
  FunctionName *string
  CategoryID   *string
  Code         *string
  ReturnType   *string
  InputParams  datatypes.JSON
}

type SubfunctionService interface {
  Create(ctx context.Context, in CreateSubfunctionInput) (*types.Subfunction, error)
  GetByID(ctx context.Context, subfunctionID uuid.UUID) (*types.Subfunction, error)
  List(ctx context.Context, filter repos.SubfunctionListFilter) ([]*types.Subfunction, *Pagination, error)
  Update(ctx context.Context, subfunctionID uuid.UUID, in UpdateSubfunctionInput) (*types.Subfunction, error)
  Delete(ctx context.Context, subfunctionID uuid.UUID) error
}

type subfunctionService struct {
  db              *gorm.DB
  log             *logger.Logger
  subfunctionRepo repos.SubfunctionRepo
  categoryRepo    repos.CategoryRepo
}

func NewSubfunctionService(db *gorm.DB, baseLog *logger.Logger, subfunctionRepo repos.SubfunctionRepo, categoryRepo repos.CategoryRepo) SubfunctionService {
  serviceLog := baseLog.With("service", "SubfunctionService")
  return &subfunctionService{db: db, log: serviceLog, subfunctionRepo: subfunctionRepo, categoryRepo: categoryRepo}
}

func (ss *subfunctionService) Create(ctx context.Context, in CreateSubfunctionInput) (*types.Subfunction, error) {
  if in.Name == "" {
    return nil, apierr.Validation("missing_name", "subfunction name is required")
  }
  if in.FunctionName == "" {
    return nil, apierr.Validation("missing_function_name", "function_name is required")
  }
  if in.Code == "" {
    return nil, apierr.Validation("missing_code", "code is required")
  }

  if in.CategoryID != nil {
    categories, err := ss.categoryRepo.GetByIDs(ctx, nil, []string{*in.CategoryID})
    if err != nil {
      return nil, apierr.Storage(fmt.Errorf("check category: %w", err))
    }
    if len(categories) == 0 {
      return nil, apierr.Validation("unknown_category", "category %q does not exist", *in.CategoryID)
    }
  }

  version := in.Version
  if version == "" {
    version = "1.0"
  }

  subfunction := &types.Subfunction{
    ID:           uuid.New(),
    Name:         in.Name,
    Description:  in.Description,
    Version:      version,
    FunctionName: in.FunctionName,
    CategoryID:   in.CategoryID,
    Code:         in.Code,
    ReturnType:   in.ReturnType,
    InputParams:  in.InputParams,
  }

  if _, err := ss.subfunctionRepo.Create(ctx, nil, []*types.Subfunction{subfunction}); err != nil {
    return nil, apierr.Storage(fmt.Errorf("create subfunction: %w", err))
  }
  return subfunction, nil
}

func (ss *subfunctionService) GetByID(ctx context.Context, subfunctionID uuid.UUID) (*types.Subfunction, error) {
  subfunctions, err := ss.subfunctionRepo.GetByIDs(ctx, nil, []uuid.UUID{subfunctionID})
  if err != nil {
    return nil, apierr.Storage(fmt.Errorf("load subfunction: %w", err))
  }
  if len(subfunctions) == 0 {
    return nil, apierr.NotFound("subfunction_not_found", "subfunction %s not found", subfunctionID)
  }
  return subfunctions[0], nil
}

func (ss *subfunctionService) List(ctx context.Context, filter repos.SubfunctionListFilter) ([]*types.Subfunction, *Pagination, error) {
  subfunctions, total, err := ss.subfunctionRepo.List(ctx, nil, filter)
  if err != nil {
    return nil, nil, apierr.Storage(fmt.Errorf("list subfunctions: %w", err))
  }

  page := filter.Page
  if page < 1 {
    page = 1
  }
  limit := filter.Limit
  if limit < 1 {
    limit = 10
  }
  totalPages := int((total + int64(limit) - 1) / int64(limit))

  return subfunctions, &Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}, nil
}

func (ss *subfunctionService) Update(ctx context.Context, subfunctionID uuid.UUID, in UpdateSubfunctionInput) (*types.Subfunction, error) {
  subfunctions, err := ss.subfunctionRepo.GetByIDs(ctx, nil, []uuid.UUID{subfunctionID})
  if err != nil {
    return nil, apierr.Storage(fmt.Errorf("load subfunction: %w", err))
  }
  if len(subfunctions) == 0 {
    return nil, apierr.NotFound("subfunction_not_found", "subfunction %s not found", subfunctionID)
  }
  subfunction := subfunctions[0]

  if in.Name != nil {
    subfunction.Name = *in.Name
  }
  if in.Description != nil {
    subfunction.Description = *in.Description
  }
  if in.Version != nil {
    subfunction.Version = *in.Version
  }
  if in.FunctionName != nil {
    subfunction.FunctionName = *in.FunctionName
  }
  if in.CategoryID != nil {
    categories, err := ss.categoryRepo.GetByIDs(ctx, nil, []string{*in.CategoryID})
    if err != nil {
      return nil, apierr.Storage(fmt.Errorf("check category: %w", err))
    }
    if len(categories) == 0 {
      return nil, apierr.Validation("unknown_category", "category %q does not exist", *in.CategoryID)
    }
    subfunction.CategoryID = in.CategoryID
  }
  if in.Code != nil {
    subfunction.Code = *in.Code
  }
  if in.ReturnType != nil {
    subfunction.ReturnType = *in.ReturnType
  }
  if in.InputParams != nil {
    subfunction.InputParams = in.InputParams
  }

  if err := ss.subfunctionRepo.Update(ctx, nil, subfunction); err != nil {
    return nil, apierr.Storage(fmt.Errorf("update subfunction: %w", err))
  }
  return subfunction, nil
}

func (ss *subfunctionService) Delete(ctx context.Context, subfunctionID uuid.UUID) error {
  subfunctions, err := ss.subfunctionRepo.GetByIDs(ctx, nil, []uuid.UUID{subfunctionID})
  if err != nil {
    return apierr.Storage(fmt.Errorf("load subfunction: %w", err))
  }
  if len(subfunctions) == 0 {
    return apierr.NotFound("subfunction_not_found", "subfunction %s not found", subfunctionID)
  }
  return ss.subfunctionRepo.SoftDeleteByIDs(ctx, nil, []uuid.UUID{subfunctionID})
}
