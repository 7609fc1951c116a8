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

type CreateRuleFunctionStepInput struct {
  ID                 string
  RuleFunctionID     uuid.UUID
  Type               types.StepType
  OutputVariableName string
  ReturnType         string
  NextStep           datatypes.JSON
  Sequence           int
  SubfunctionID      *uuid.UUID
  SubfunctionParams  datatypes.JSON
  Conditions         datatypes.JSON
  OutputData         datatypes.JSON
}

type UpdateRuleFunctionStepInput struct {
  Type               *types.StepType
  OutputVariableName *string
  ReturnType         *string
  NextStep           datatypes.JSON
  Sequence           *int
  SubfunctionID      *uuid.UUID
  SubfunctionParams  datatypes.JSON
  Conditions         datatypes.JSON
  OutputData         datatypes.JSON
}

// RuleFunctionStepService manages the execution graph of a working copy.
// Step ids are caller-assigned and unique per rule function; sequences
// order execution and must not collide within a rule function.
type RuleFunctionStepService interface {
  Create(ctx context.Context, in CreateRuleFunctionStepInput) (*types.RuleFunctionStep, error)
  GetByID(ctx context.Context, functionID uuid.UUID, stepID string) (*types.RuleFunctionStep, error)
  List(ctx context.Context, filter repos.RuleFunctionStepListFilter) ([]*types.RuleFunctionStep, *Pagination, error)
  Update(ctx context.Context, functionID uuid.UUID, stepID string, in UpdateRuleFunctionStepInput) (*types.RuleFunctionStep, error)
  Delete(ctx context.Context, functionID uuid.UUID, stepID string) error
}

type ruleFunctionStepService struct {
  db              *gorm.DB
  log             *logger.Logger
  stepRepo        repos.RuleFunctionStepRepo
  functionRepo    repos.RuleFunctionRepo
  subfunctionRepo repos.SubfunctionRepo
}

func NewRuleFunctionStepService(
  db *gorm.DB,
  baseLog *logger.Logger,
  stepRepo repos.RuleFunctionStepRepo,
  functionRepo repos.RuleFunctionRepo,
  subfunctionRepo repos.SubfunctionRepo,
) RuleFunctionStepService {
  serviceLog := baseLog.With("service", "RuleFunctionStepService")
  return &ruleFunctionStepService{
    db:              db,
    log:             serviceLog,
    stepRepo:        stepRepo,
    functionRepo:    functionRepo,
    subfunctionRepo: subfunctionRepo,
  }
}

func (ss *ruleFunctionStepService) validatePayload(ctx context.Context, tx *gorm.DB, step *types.RuleFunctionStep) error {
  switch step.Type {
  case types.StepSubFunction:
    if step.SubfunctionID == nil {
      return apierr.Validation("missing_subfunction_id", "subFunction steps require subfunction_id")
    }
    subfunctions, err := ss.subfunctionRepo.GetByIDs(ctx, tx, []uuid.UUID{*step.SubfunctionID})
    if err != nil {
      return apierr.Storage(fmt.Errorf("check subfunction: %w", err))
    }
    if len(subfunctions) == 0 {
      return apierr.Validation("unknown_subfunction", "subfunction %s does not exist", *step.SubfunctionID)
    }
  case types.StepCondition:
    if len(step.Conditions) == 0 {
      return apierr.Validation("missing_conditions", "condition steps require conditions")
    }
  case types.StepOutput:
    if len(step.OutputData) == 0 {
      return apierr.Validation("missing_output_data", "output steps require output_data")
    }
  default:
    return apierr.Validation("invalid_step_type", "unknown step type %q", step.Type)
  }
  return nil
}

func (ss *ruleFunctionStepService) Create(ctx context.Context, in CreateRuleFunctionStepInput) (*types.RuleFunctionStep, error) {
  if in.ID == "" {
    return nil, apierr.Validation("missing_step_id", "step id is required")
  }
  if in.RuleFunctionID == uuid.Nil {
    return nil, apierr.Validation("missing_rule_function_id", "rule_function_id is required")
  }

  step := &types.RuleFunctionStep{
    ID:                 in.ID,
    RuleFunctionID:     in.RuleFunctionID,
    Type:               in.Type,
    OutputVariableName: in.OutputVariableName,
    ReturnType:         in.ReturnType,
    NextStep:           in.NextStep,
    Sequence:           in.Sequence,
    SubfunctionID:      in.SubfunctionID,
    SubfunctionParams:  in.SubfunctionParams,
    Conditions:         in.Conditions,
    OutputData:         in.OutputData,
  }

  err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    functions, err := ss.functionRepo.GetByIDs(ctx, tx, []uuid.UUID{in.RuleFunctionID})
    if err != nil {
      return apierr.Storage(fmt.Errorf("load rule function: %w", err))
    }
    if len(functions) == 0 {
      return apierr.NotFound("rule_function_not_found", "rule function %s not found", in.RuleFunctionID)
    }

    if err := ss.validatePayload(ctx, tx, step); err != nil {
      return err
    }

    existing, err := ss.stepRepo.GetByFunctionAndID(ctx, tx, in.RuleFunctionID, in.ID)
    if err != nil {
      return apierr.Storage(fmt.Errorf("check step id: %w", err))
    }
    if existing != nil {
      return apierr.Conflict("step_exists", "step %q already exists in this rule function", in.ID)
    }

    collision, err := ss.stepRepo.GetBySequence(ctx, tx, in.RuleFunctionID, in.Sequence)
    if err != nil {
      return apierr.Storage(fmt.Errorf("check step sequence: %w", err))
    }
    if collision != nil {
      return apierr.Conflict("sequence_taken", "sequence %d is already used by step %q", in.Sequence, collision.ID)
    }

    if _, err := ss.stepRepo.Create(ctx, tx, []*types.RuleFunctionStep{step}); err != nil {
      return apierr.Storage(fmt.Errorf("create step: %w", err))
    }
    return nil
  })
  if err != nil {
    return nil, err
  }

  ss.log.Info("Rule function step created", "rule_function_id", step.RuleFunctionID, "step_id", step.ID)
  return step, nil
}

func (ss *ruleFunctionStepService) GetByID(ctx context.Context, functionID uuid.UUID, stepID string) (*types.RuleFunctionStep, error) {
  step, err := ss.stepRepo.GetByFunctionAndID(ctx, nil, functionID, stepID)
  if err != nil {
    return nil, apierr.Storage(fmt.Errorf("load step: %w", err))
  }
  if step == nil {
    return nil, apierr.NotFound("step_not_found", "step %q not found in rule function %s", stepID, functionID)
  }
  return step, nil
}

func (ss *ruleFunctionStepService) List(ctx context.Context, filter repos.RuleFunctionStepListFilter) ([]*types.RuleFunctionStep, *Pagination, error) {
  steps, total, err := ss.stepRepo.List(ctx, nil, filter)
  if err != nil {
    return nil, nil, apierr.Storage(fmt.Errorf("list steps: %w", err))
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

  return steps, &Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}, nil
}

func (ss *ruleFunctionStepService) Update(ctx context.Context, functionID uuid.UUID, stepID string, in UpdateRuleFunctionStepInput) (*types.RuleFunctionStep, error) {
  var updated *types.RuleFunctionStep
  err := ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    step, err := ss.stepRepo.GetByFunctionAndID(ctx, tx, functionID, stepID)
    if err != nil {
      return apierr.Storage(fmt.Errorf("load step: %w", err))
    }
    if step == nil {
      return apierr.NotFound("step_not_found", "step %q not found in rule function %s", stepID, functionID)
    }

    if in.Type != nil {
      step.Type = *in.Type
    }
    if in.OutputVariableName != nil {
      step.OutputVariableName = *in.OutputVariableName
    }
    if in.ReturnType != nil {
      step.ReturnType = *in.ReturnType
    }
    if in.NextStep != nil {
      step.NextStep = in.NextStep
    }
    if in.Sequence != nil && *in.Sequence != step.Sequence {
      collision, err := ss.stepRepo.GetBySequence(ctx, tx, functionID, *in.Sequence)
      if err != nil {
        return apierr.Storage(fmt.Errorf("check step sequence: %w", err))
      }
      if collision != nil {
        return apierr.Conflict("sequence_taken", "sequence %d is already used by step %q", *in.Sequence, collision.ID)
      }
      step.Sequence = *in.Sequence
    }
    if in.SubfunctionID != nil {
      step.SubfunctionID = in.SubfunctionID
    }
    if in.SubfunctionParams != nil {
      step.SubfunctionParams = in.SubfunctionParams
    }
    if in.Conditions != nil {
      step.Conditions = in.Conditions
    }
    if in.OutputData != nil {
      step.OutputData = in.OutputData
    }

    if err := ss.validatePayload(ctx, tx, step); err != nil {
      return err
    }

    if err := ss.stepRepo.Update(ctx, tx, step); err != nil {
      return apierr.Storage(fmt.Errorf("update step: %w", err))
    }
    updated = step
    return nil
  })
  if err != nil {
    return nil, err
  }
  return updated, nil
}

func (ss *ruleFunctionStepService) Delete(ctx context.Context, functionID uuid.UUID, stepID string) error {
  step, err := ss.stepRepo.GetByFunctionAndID(ctx, nil, functionID, stepID)
  if err != nil {
    return apierr.Storage(fmt.Errorf("load step: %w", err))
  }
  if step == nil {
    return apierr.NotFound("step_not_found", "step %q not found in rule function %s", stepID, functionID)
  }
  return ss.stepRepo.SoftDeleteByFunctionAndID(ctx, nil, functionID, stepID)
}
