package services

import (
  "context"
  "encoding/json"
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

type CreateRuleInput struct {
  Slug        string
  Name        string
  Description string
  Author      string
}

type UpdateRuleInput struct {
  Name        *string
  Description *string
  Author      *string
}

type SaveVersionInput struct {
  MajorVersion            *int
  MinorVersion            *int
  RuleFunctionCode        string
  RuleFunctionInputParams datatypes.JSON
  RuleSteps               datatypes.JSON
  CreatedBy               string
  Comment                 string
}

type RuleService interface {
  Create(ctx context.Context, in CreateRuleInput) (*types.Rule, error)
  GetByID(ctx context.Context, ruleID uuid.UUID) (*types.Rule, error)
  List(ctx context.Context, filter repos.RuleListFilter) ([]*types.Rule, *Pagination, error)
  Update(ctx context.Context, ruleID uuid.UUID, in UpdateRuleInput) (*types.Rule, error)
  Delete(ctx context.Context, ruleID uuid.UUID) error
  SaveVersion(ctx context.Context, ruleID uuid.UUID, in SaveVersionInput) (*types.RuleVersion, error)
  ListVersions(ctx context.Context, ruleID uuid.UUID) ([]*types.RuleVersion, error)
  VersionHistory(ctx context.Context, versionID uuid.UUID) ([]*types.RuleStageHistory, error)
}

type ruleService struct {
  db           *gorm.DB
  log          *logger.Logger
  ruleRepo     repos.RuleRepo
  versionRepo  repos.RuleVersionRepo
  historyRepo  repos.RuleStageHistoryRepo
  functionRepo repos.RuleFunctionRepo
  stepRepo     repos.RuleFunctionStepRepo
}

func NewRuleService(
  db *gorm.DB,
  baseLog *logger.Logger,
  ruleRepo repos.RuleRepo,
  versionRepo repos.RuleVersionRepo,
  historyRepo repos.RuleStageHistoryRepo,
  functionRepo repos.RuleFunctionRepo,
  stepRepo repos.RuleFunctionStepRepo,
) RuleService {
  serviceLog := baseLog.With("service", "RuleService")
  return &ruleService{
    db:           db,
    log:          serviceLog,
    ruleRepo:     ruleRepo,
    versionRepo:  versionRepo,
    historyRepo:  historyRepo,
    functionRepo: functionRepo,
    stepRepo:     stepRepo,
  }
}

func (rs *ruleService) Create(ctx context.Context, in CreateRuleInput) (*types.Rule, error) {
  if in.Slug == "" {
    return nil, apierr.Validation("missing_slug", "slug is required")
  }
  if in.Name == "" {
    return nil, apierr.Validation("missing_name", "name is required")
  }

  rule := &types.Rule{
    ID:           uuid.New(),
    Slug:         in.Slug,
    Name:         in.Name,
    Description:  in.Description,
    Status:       types.StageWIP,
    VersionMajor: 0,
    VersionMinor: 1,
    Author:       in.Author,
  }

  err := rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    existing, err := rs.ruleRepo.GetBySlugs(ctx, tx, []string{in.Slug})
    if err != nil {
      return apierr.Storage(fmt.Errorf("check rule slug: %w", err))
    }
    if len(existing) > 0 {
      return apierr.Conflict("slug_taken", "a rule with slug %q already exists", in.Slug)
    }
    if _, err := rs.ruleRepo.Create(ctx, tx, []*types.Rule{rule}); err != nil {
      if errors.Is(err, gorm.ErrDuplicatedKey) {
        return apierr.Conflict("slug_taken", "a rule with slug %q already exists", in.Slug)
      }
      return apierr.Storage(fmt.Errorf("create rule: %w", err))
    }
    return nil
  })
  if err != nil {
    return nil, err
  }

  rs.log.Info("Rule created", "rule_id", rule.ID, "slug", rule.Slug)
  return rule, nil
}

func (rs *ruleService) GetByID(ctx context.Context, ruleID uuid.UUID) (*types.Rule, error) {
  rules, err := rs.ruleRepo.GetByIDs(ctx, nil, []uuid.UUID{ruleID})
  if err != nil {
    return nil, apierr.Storage(fmt.Errorf("load rule: %w", err))
  }
  if len(rules) == 0 {
    return nil, apierr.NotFound("rule_not_found", "rule %s not found", ruleID)
  }
  return rules[0], nil
}

func (rs *ruleService) List(ctx context.Context, filter repos.RuleListFilter) ([]*types.Rule, *Pagination, error) {
  rules, total, err := rs.ruleRepo.List(ctx, nil, filter)
  if err != nil {
    return nil, nil, apierr.Storage(fmt.Errorf("list rules: %w", err))
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

  return rules, &Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}, nil
}

func (rs *ruleService) Update(ctx context.Context, ruleID uuid.UUID, in UpdateRuleInput) (*types.Rule, error) {
  var updated *types.Rule
  err := rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    rules, err := rs.ruleRepo.GetByIDs(ctx, tx, []uuid.UUID{ruleID})
    if err != nil {
      return apierr.Storage(fmt.Errorf("load rule: %w", err))
    }
    if len(rules) == 0 {
      return apierr.NotFound("rule_not_found", "rule %s not found", ruleID)
    }
    rule := rules[0]

    if in.Name != nil {
      rule.Name = *in.Name
    }
    if in.Description != nil {
      rule.Description = *in.Description
    }
    if in.Author != nil {
      rule.Author = *in.Author
    }

    if err := rs.ruleRepo.Update(ctx, tx, rule); err != nil {
      return apierr.Storage(fmt.Errorf("update rule: %w", err))
    }
    updated = rule
    return nil
  })
  if err != nil {
    return nil, err
  }
  return updated, nil
}

func (rs *ruleService) Delete(ctx context.Context, ruleID uuid.UUID) error {
  rules, err := rs.ruleRepo.GetByIDs(ctx, nil, []uuid.UUID{ruleID})
  if err != nil {
    return apierr.Storage(fmt.Errorf("load rule: %w", err))
  }
  if len(rules) == 0 {
    return apierr.NotFound("rule_not_found", "rule %s not found", ruleID)
  }
  if err := rs.ruleRepo.SoftDeleteByIDs(ctx, nil, []uuid.UUID{ruleID}); err != nil {
    return apierr.Storage(fmt.Errorf("delete rule: %w", err))
  }
  rs.log.Info("Rule deleted", "rule_id", ruleID)
  return nil
}

// SaveVersion appends an immutable snapshot. Without an explicit (major, minor)
// the snapshot lands on the rule's current pointer; an explicit pair advances
// the pointer to match. Either way a duplicate pair is a conflict, never an
// overwrite. When the input carries no code the rule's working copy is
// snapshotted instead, steps serialized in sequence order.
func (rs *ruleService) SaveVersion(ctx context.Context, ruleID uuid.UUID, in SaveVersionInput) (*types.RuleVersion, error) {
  var version *types.RuleVersion
  err := rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    rules, err := rs.ruleRepo.GetByIDs(ctx, tx, []uuid.UUID{ruleID})
    if err != nil {
      return apierr.Storage(fmt.Errorf("load rule: %w", err))
    }
    if len(rules) == 0 {
      return apierr.NotFound("rule_not_found", "rule %s not found", ruleID)
    }
    rule := rules[0]

    major := rule.VersionMajor
    minor := rule.VersionMinor
    explicit := false
    if in.MajorVersion != nil && in.MinorVersion != nil {
      major = *in.MajorVersion
      minor = *in.MinorVersion
      explicit = true
    }

    existing, err := rs.versionRepo.GetByRuleAndNumber(ctx, tx, ruleID, major, minor)
    if err != nil {
      return apierr.Storage(fmt.Errorf("check existing version: %w", err))
    }
    if existing != nil {
      return apierr.Conflict("version_exists", "version %d.%d already exists for this rule", major, minor)
    }

    code := in.RuleFunctionCode
    inputParams := in.RuleFunctionInputParams
    steps := in.RuleSteps
    if code == "" {
      functions, err := rs.functionRepo.GetByRuleIDs(ctx, tx, []uuid.UUID{ruleID})
      if err != nil {
        return apierr.Storage(fmt.Errorf("load working copy: %w", err))
      }
      if len(functions) == 0 {
        return apierr.Validation("missing_code", "rule %s has no working copy and no code was supplied", ruleID)
      }
      working := functions[0]
      code = working.Code
      inputParams = working.InputParams

      workingSteps, err := rs.stepRepo.GetByRuleFunctionIDs(ctx, tx, []uuid.UUID{working.ID})
      if err != nil {
        return apierr.Storage(fmt.Errorf("load working copy steps: %w", err))
      }
      if len(workingSteps) > 0 {
        serialized, err := json.Marshal(workingSteps)
        if err != nil {
          return apierr.Storage(fmt.Errorf("serialize working copy steps: %w", err))
        }
        steps = serialized
      }
    }

    version = &types.RuleVersion{
      ID:                      uuid.New(),
      RuleID:                  ruleID,
      MajorVersion:            major,
      MinorVersion:            minor,
      Stage:                   rule.Status,
      RuleFunctionCode:        code,
      RuleFunctionInputParams: inputParams,
      RuleSteps:               steps,
      CreatedBy:               in.CreatedBy,
      Comment:                 in.Comment,
    }
    if _, err := rs.versionRepo.Create(ctx, tx, []*types.RuleVersion{version}); err != nil {
      if errors.Is(err, gorm.ErrDuplicatedKey) {
        return apierr.Conflict("version_exists", "version %d.%d already exists for this rule", major, minor)
      }
      return apierr.Storage(fmt.Errorf("create rule version: %w", err))
    }

    if explicit {
      if err := rs.ruleRepo.SetVersionPointer(ctx, tx, ruleID, major, minor); err != nil {
        return apierr.Storage(fmt.Errorf("advance rule version pointer: %w", err))
      }
    }
    return nil
  })
  if err != nil {
    return nil, err
  }

  rs.log.Info("Rule version saved",
    "rule_id", ruleID,
    "version_id", version.ID,
    "version", fmt.Sprintf("%d.%d", version.MajorVersion, version.MinorVersion),
  )
  return version, nil
}

func (rs *ruleService) ListVersions(ctx context.Context, ruleID uuid.UUID) ([]*types.RuleVersion, error) {
  rules, err := rs.ruleRepo.GetByIDs(ctx, nil, []uuid.UUID{ruleID})
  if err != nil {
    return nil, apierr.Storage(fmt.Errorf("load rule: %w", err))
  }
  if len(rules) == 0 {
    return nil, apierr.NotFound("rule_not_found", "rule %s not found", ruleID)
  }

  versions, err := rs.versionRepo.GetByRuleIDs(ctx, nil, []uuid.UUID{ruleID})
  if err != nil {
    return nil, apierr.Storage(fmt.Errorf("list rule versions: %w", err))
  }
  return versions, nil
}

func (rs *ruleService) VersionHistory(ctx context.Context, versionID uuid.UUID) ([]*types.RuleStageHistory, error) {
  versions, err := rs.versionRepo.GetByIDs(ctx, nil, []uuid.UUID{versionID})
  if err != nil {
    return nil, apierr.Storage(fmt.Errorf("load rule version: %w", err))
  }
  if len(versions) == 0 {
    return nil, apierr.NotFound("rule_version_not_found", "rule version %s not found", versionID)
  }

  history, err := rs.historyRepo.GetByVersionIDs(ctx, nil, []uuid.UUID{versionID})
  if err != nil {
    return nil, apierr.Storage(fmt.Errorf("load stage history: %w", err))
  }
  return history, nil
}
