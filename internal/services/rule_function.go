package services

import (
  "context"
  "errors"
  "fmt"

  "github.com/google/uuid"
  "gorm.io/datatypes"
  "gorm.io/gorm"

  "github.com/yungbote/ruleforge-backend/internal/apierr"
  "github.com/yungbote/ruleforge-backend/internal/logger"
  "github.com/yungbote/ruleforge-backend/internal/repos"
  "github.com/yungbote/ruleforge-backend/internal/types"
)

type CreateRuleFunctionInput struct {
  RuleID      uuid.UUID
  Code        string
  ReturnType  string
  InputParams datatypes.JSON
}

type UpdateRuleFunctionInput struct {
  Code        *string
  ReturnType  *string
  InputParams datatypes.JSON
}

// RuleFunctionService manages each rule's single editable working copy.
type RuleFunctionService interface {
  Create(ctx context.Context, in CreateRuleFunctionInput) (*types.RuleFunction, error)
  GetByID(ctx context.Context, functionID uuid.UUID) (*types.RuleFunction, error)
  GetByRuleID(ctx context.Context, ruleID uuid.UUID) (*types.RuleFunction, error)
  List(ctx context.Context, filter repos.RuleFunctionListFilter) ([]*types.RuleFunction, *Pagination, error)
  Update(ctx context.Context, functionID uuid.UUID, in UpdateRuleFunctionInput) (*types.RuleFunction, error)
  Delete(ctx context.Context, functionID uuid.UUID) error
}

type ruleFunctionService struct {
  db           *gorm.DB
  log          *logger.Logger
  functionRepo repos.RuleFunctionRepo
  stepRepo     repos.RuleFunctionStepRepo
  ruleRepo     repos.RuleRepo
}

func NewRuleFunctionService(
  db *gorm.DB,
  baseLog *logger.Logger,
  functionRepo repos.RuleFunctionRepo,
  stepRepo repos.RuleFunctionStepRepo,
  ruleRepo repos.RuleRepo,
) RuleFunctionService {
  serviceLog := baseLog.With("service", "RuleFunctionService")
  return &ruleFunctionService{
    db:           db,
    log:          serviceLog,
    functionRepo: functionRepo,
    stepRepo:     stepRepo,
    ruleRepo:     ruleRepo,
  }
}

func (fs *ruleFunctionService) Create(ctx context.Context, in CreateRuleFunctionInput) (*types.RuleFunction, error) {
  if in.RuleID == uuid.Nil {
    return nil, apierr.Validation("missing_rule_id", "rule_id is required")
  }
  if in.Code == "" {
    return nil, apierr.Validation("missing_code", "code is required")
  }

  function := &types.RuleFunction{
    ID:          uuid.New(),
    RuleID:      in.RuleID,
    Code:        in.Code,
    ReturnType:  in.ReturnType,
    InputParams: in.InputParams,
  }

  err := fs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    rules, err := fs.ruleRepo.GetByIDs(ctx, tx, []uuid.UUID{in.RuleID})
    if err != nil {
      return apierr.Storage(fmt.Errorf("load rule: %w", err))
    }
    if len(rules) == 0 {
      return apierr.NotFound("rule_not_found", "rule %s not found", in.RuleID)
    }

    existing, err := fs.functionRepo.GetByRuleIDs(ctx, tx, []uuid.UUID{in.RuleID})
    if err != nil {
      return apierr.Storage(fmt.Errorf("check working copy: %w", err))
    }
    if len(existing) > 0 {
      return apierr.Conflict("rule_function_exists", "rule %s already has a working copy", in.RuleID)
    }

    if _, err := fs.functionRepo.Create(ctx, tx, []*types.RuleFunction{function}); err != nil {
      if errors.Is(err, gorm.ErrDuplicatedKey) {
        return apierr.Conflict("rule_function_exists", "rule %s already has a working copy", in.RuleID)
      }
      return apierr.Storage(fmt.Errorf("create rule function: %w", err))
    }
    return nil
  })
  if err != nil {
    return nil, err
  }

  fs.log.Info("Rule function created", "rule_function_id", function.ID, "rule_id", function.RuleID)
  return function, nil
}

func (fs *ruleFunctionService) GetByID(ctx context.Context, functionID uuid.UUID) (*types.RuleFunction, error) {
  functions, err := fs.functionRepo.GetByIDs(ctx, nil, []uuid.UUID{functionID})
  if err != nil {
    return nil, apierr.Storage(fmt.Errorf("load rule function: %w", err))
  }
  if len(functions) == 0 {
    return nil, apierr.NotFound("rule_function_not_found", "rule function %s not found", functionID)
  }
  return functions[0], nil
}

func (fs *ruleFunctionService) GetByRuleID(ctx context.Context, ruleID uuid.UUID) (*types.RuleFunction, error) {
  functions, err := fs.functionRepo.GetByRuleIDs(ctx, nil, []uuid.UUID{ruleID})
  if err != nil {
    return nil, apierr.Storage(fmt.Errorf("load rule function: %w", err))
  }
  if len(functions) == 0 {
    return nil, apierr.NotFound("rule_function_not_found", "rule %s has no working copy", ruleID)
  }
  return functions[0], nil
}

func (fs *ruleFunctionService) List(ctx context.Context, filter repos.RuleFunctionListFilter) ([]*types.RuleFunction, *Pagination, error) {
  functions, total, err := fs.functionRepo.List(ctx, nil, filter)
  if err != nil {
    return nil, nil, apierr.Storage(fmt.Errorf("list rule functions: %w", err))
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

  return functions, &Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}, nil
}

func (fs *ruleFunctionService) Update(ctx context.Context, functionID uuid.UUID, in UpdateRuleFunctionInput) (*types.RuleFunction, error) {
  functions, err := fs.functionRepo.GetByIDs(ctx, nil, []uuid.UUID{functionID})
  if err != nil {
    return nil, apierr.Storage(fmt.Errorf("load rule function: %w", err))
  }
  if len(functions) == 0 {
    return nil, apierr.NotFound("rule_function_not_found", "rule function %s not found", functionID)
  }
  function := functions[0]

  if in.Code != nil {
    if *in.Code == "" {
      return nil, apierr.Validation("missing_code", "code cannot be empty")
    }
    function.Code = *in.Code
  }
  if in.ReturnType != nil {
    function.ReturnType = *in.ReturnType
  }
  if in.InputParams != nil {
    function.InputParams = in.InputParams
  }

  if err := fs.functionRepo.Update(ctx, nil, function); err != nil {
    return nil, apierr.Storage(fmt.Errorf("update rule function: %w", err))
  }
  return function, nil
}

// Delete removes the working copy and hard-deletes its step graph so a future
// working copy can re-use step ids.
func (fs *ruleFunctionService) Delete(ctx context.Context, functionID uuid.UUID) error {
  return fs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    functions, err := fs.functionRepo.GetByIDs(ctx, tx, []uuid.UUID{functionID})
    if err != nil {
      return apierr.Storage(fmt.Errorf("load rule function: %w", err))
    }
    if len(functions) == 0 {
      return apierr.NotFound("rule_function_not_found", "rule function %s not found", functionID)
    }
    if err := fs.stepRepo.HardDeleteByRuleFunctionIDs(ctx, tx, []uuid.UUID{functionID}); err != nil {
      return apierr.Storage(fmt.Errorf("delete rule function steps: %w", err))
    }
    if err := fs.functionRepo.SoftDeleteByIDs(ctx, tx, []uuid.UUID{functionID}); err != nil {
      return apierr.Storage(fmt.Errorf("delete rule function: %w", err))
    }
    return nil
  })
}
