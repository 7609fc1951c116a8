package services

import (
  "context"
  "errors"
  "fmt"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/yungbote/ruleforge-backend/internal/apierr"
  "github.com/yungbote/ruleforge-backend/internal/logger"
  "github.com/yungbote/ruleforge-backend/internal/permissions"
  "github.com/yungbote/ruleforge-backend/internal/repos"
  "github.com/yungbote/ruleforge-backend/internal/requestdata"
  "github.com/yungbote/ruleforge-backend/internal/stage"
  "github.com/yungbote/ruleforge-backend/internal/types"
)

type CreateApprovalInput struct {
  RuleVersionID  uuid.UUID
  RuleID         uuid.UUID
  FromStage      types.Stage
  ToStage        types.Stage
  RequestedBy    string
  RequestComment string
}

type DecideInput struct {
  Action        types.ApprovalAction
  ActionBy      string
  ActionComment string
}

type Pagination struct {
  Page       int   `json:"page"`
  Limit      int   `json:"limit"`
  Total      int64 `json:"total"`
  TotalPages int   `json:"totalPages"`
}

// ApprovalService moves rule versions through the promotion pipeline. Every
// mutating operation runs in a single transaction; partial state is never
// committed.
type ApprovalService interface {
  Request(ctx context.Context, in CreateApprovalInput) (*types.RuleApproval, error)
  Decide(ctx context.Context, approvalID uuid.UUID, in DecideInput) (*types.RuleApproval, error)
  Withdraw(ctx context.Context, approvalID uuid.UUID, withdrawnBy string) (*types.RuleApproval, error)
  List(ctx context.Context, filter repos.ApprovalListFilter) ([]*types.RuleApproval, *Pagination, error)
  GetByID(ctx context.Context, approvalID uuid.UUID) (*types.RuleApproval, error)
}

type approvalService struct {
  db           *gorm.DB
  log          *logger.Logger
  ruleRepo     repos.RuleRepo
  versionRepo  repos.RuleVersionRepo
  approvalRepo repos.RuleApprovalRepo
  historyRepo  repos.RuleStageHistoryRepo
}

func NewApprovalService(
  db *gorm.DB,
  baseLog *logger.Logger,
  ruleRepo repos.RuleRepo,
  versionRepo repos.RuleVersionRepo,
  approvalRepo repos.RuleApprovalRepo,
  historyRepo repos.RuleStageHistoryRepo,
) ApprovalService {
  serviceLog := baseLog.With("service", "ApprovalService")
  return &approvalService{
    db:           db,
    log:          serviceLog,
    ruleRepo:     ruleRepo,
    versionRepo:  versionRepo,
    approvalRepo: approvalRepo,
    historyRepo:  historyRepo,
  }
}

func (as *approvalService) Request(ctx context.Context, in CreateApprovalInput) (*types.RuleApproval, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    return nil, apierr.Forbidden("unauthenticated", "no request identity in context")
  }

  if !stage.IsLegalTransition(in.FromStage, in.ToStage) {
    return nil, apierr.Validation("invalid_transition", "%s to %s is not a legal stage transition", in.FromStage, in.ToStage)
  }
  if !permissions.CanRequest(rd.Permissions, in.FromStage, in.ToStage) {
    return nil, apierr.Forbidden("transition_request_denied", "you don't have permission to create %s to %s approval requests", in.FromStage, in.ToStage)
  }

  approval := &types.RuleApproval{
    ID:             uuid.New(),
    RuleVersionID:  in.RuleVersionID,
    RuleID:         in.RuleID,
    FromStage:      in.FromStage,
    ToStage:        in.ToStage,
    Status:         types.ApprovalStatusPending,
    Action:         types.ApprovalActionRequested,
    RequestedBy:    in.RequestedBy,
    RequestComment: in.RequestComment,
  }

  err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    versions, err := as.versionRepo.GetByIDs(ctx, tx, []uuid.UUID{in.RuleVersionID})
    if err != nil {
      return apierr.Storage(fmt.Errorf("load rule version: %w", err))
    }
    if len(versions) == 0 {
      return apierr.NotFound("rule_version_not_found", "rule version %s not found", in.RuleVersionID)
    }
    if versions[0].RuleID != in.RuleID {
      return apierr.Validation("rule_version_mismatch", "rule version %s does not belong to rule %s", in.RuleVersionID, in.RuleID)
    }

    // Check-then-insert stays atomic: the partial unique index on
    // (rule_version_id) WHERE status='PENDING' backstops racing requests
    // that both pass this read.
    pending, err := as.approvalRepo.GetPendingByVersionIDs(ctx, tx, []uuid.UUID{in.RuleVersionID})
    if err != nil {
      return apierr.Storage(fmt.Errorf("check pending approvals: %w", err))
    }
    if len(pending) > 0 {
      return apierr.Conflict("pending_approval_exists", "a pending approval already exists for this rule version")
    }

    if _, err := as.approvalRepo.Create(ctx, tx, []*types.RuleApproval{approval}); err != nil {
      if errors.Is(err, gorm.ErrDuplicatedKey) {
        return apierr.Conflict("pending_approval_exists", "a pending approval already exists for this rule version")
      }
      return apierr.Storage(fmt.Errorf("create approval: %w", err))
    }
    return nil
  })
  if err != nil {
    return nil, err
  }

  as.log.Info("Approval requested",
    "approval_id", approval.ID,
    "rule_version_id", in.RuleVersionID,
    "from_stage", in.FromStage,
    "to_stage", in.ToStage,
    "requested_by", in.RequestedBy,
  )
  return approval, nil
}

func (as *approvalService) Decide(ctx context.Context, approvalID uuid.UUID, in DecideInput) (*types.RuleApproval, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    return nil, apierr.Forbidden("unauthenticated", "no request identity in context")
  }

  var resolved *types.RuleApproval
  err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    approvals, err := as.approvalRepo.GetByIDs(ctx, tx, []uuid.UUID{approvalID})
    if err != nil {
      return apierr.Storage(fmt.Errorf("load approval: %w", err))
    }
    if len(approvals) == 0 {
      return apierr.NotFound("approval_not_found", "approval %s not found", approvalID)
    }
    approval := approvals[0]

    if approval.Status != types.ApprovalStatusPending {
      return apierr.InvalidState("approval_not_pending", "this approval request is no longer pending")
    }
    if !permissions.CanDecide(rd.Permissions, approval.FromStage, approval.ToStage, in.Action) {
      return apierr.Forbidden("decision_denied", "you don't have permission to decide %s to %s approval requests", approval.FromStage, approval.ToStage)
    }

    movedToStage := approval.ToStage
    if in.Action == types.ApprovalActionRejected {
      movedToStage = stage.RejectionTarget(approval.FromStage, approval.ToStage)
    }

    // The status guard inside Resolve makes a racing second decision lose
    // cleanly: zero rows updated, no stage change, no history row.
    rows, err := as.approvalRepo.Resolve(ctx, tx, approvalID, repos.ApprovalResolution{
      Status:        types.ApprovalStatus(in.Action),
      Action:        in.Action,
      ActionBy:      in.ActionBy,
      ActionComment: in.ActionComment,
      MovedToStage:  movedToStage,
    })
    if err != nil {
      return apierr.Storage(fmt.Errorf("resolve approval: %w", err))
    }
    if rows == 0 {
      return apierr.InvalidState("approval_not_pending", "this approval request is no longer pending")
    }

    if err := as.versionRepo.SetStage(ctx, tx, approval.RuleVersionID, movedToStage); err != nil {
      return apierr.Storage(fmt.Errorf("set version stage: %w", err))
    }
    if err := as.mirrorRuleStatus(ctx, tx, approval.RuleID, approval.RuleVersionID, movedToStage); err != nil {
      return err
    }

    comment := in.ActionComment
    if comment == "" {
      comment = "No comment"
    }
    reason := "Approved: " + comment
    if in.Action == types.ApprovalActionRejected {
      reason = "Rejected: " + comment
    }
    history := &types.RuleStageHistory{
      ID:            uuid.New(),
      RuleVersionID: approval.RuleVersionID,
      FromStage:     approval.FromStage,
      ToStage:       movedToStage,
      ChangedBy:     in.ActionBy,
      Reason:        reason,
    }
    if _, err := as.historyRepo.Create(ctx, tx, []*types.RuleStageHistory{history}); err != nil {
      return apierr.Storage(fmt.Errorf("append stage history: %w", err))
    }

    updated, err := as.approvalRepo.GetByIDs(ctx, tx, []uuid.UUID{approvalID})
    if err != nil || len(updated) == 0 {
      return apierr.Storage(fmt.Errorf("reload approval: %w", err))
    }
    resolved = updated[0]
    return nil
  })
  if err != nil {
    return nil, err
  }

  as.log.Info("Approval decided",
    "approval_id", approvalID,
    "action", in.Action,
    "moved_to_stage", resolved.MovedToStage,
    "action_by", in.ActionBy,
  )
  return resolved, nil
}

func (as *approvalService) Withdraw(ctx context.Context, approvalID uuid.UUID, withdrawnBy string) (*types.RuleApproval, error) {
  var resolved *types.RuleApproval
  err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    approvals, err := as.approvalRepo.GetByIDs(ctx, tx, []uuid.UUID{approvalID})
    if err != nil {
      return apierr.Storage(fmt.Errorf("load approval: %w", err))
    }
    if len(approvals) == 0 {
      return apierr.NotFound("approval_not_found", "approval %s not found", approvalID)
    }
    approval := approvals[0]

    if approval.Status != types.ApprovalStatusPending {
      return apierr.InvalidState("approval_not_pending", "this approval request is no longer pending")
    }

    // Withdrawal never moves stages; the version stays wherever it was.
    rows, err := as.approvalRepo.Resolve(ctx, tx, approvalID, repos.ApprovalResolution{
      Status:       types.ApprovalStatusWithdrawn,
      Action:       types.ApprovalActionWithdrawn,
      ActionBy:     withdrawnBy,
      MovedToStage: approval.FromStage,
    })
    if err != nil {
      return apierr.Storage(fmt.Errorf("resolve approval: %w", err))
    }
    if rows == 0 {
      return apierr.InvalidState("approval_not_pending", "this approval request is no longer pending")
    }

    history := &types.RuleStageHistory{
      ID:            uuid.New(),
      RuleVersionID: approval.RuleVersionID,
      FromStage:     approval.FromStage,
      ToStage:       approval.FromStage,
      ChangedBy:     withdrawnBy,
      Reason:        "Approval request withdrawn",
    }
    if _, err := as.historyRepo.Create(ctx, tx, []*types.RuleStageHistory{history}); err != nil {
      return apierr.Storage(fmt.Errorf("append stage history: %w", err))
    }

    updated, err := as.approvalRepo.GetByIDs(ctx, tx, []uuid.UUID{approvalID})
    if err != nil || len(updated) == 0 {
      return apierr.Storage(fmt.Errorf("reload approval: %w", err))
    }
    resolved = updated[0]
    return nil
  })
  if err != nil {
    return nil, err
  }

  as.log.Info("Approval withdrawn", "approval_id", approvalID, "withdrawn_by", withdrawnBy)
  return resolved, nil
}

func (as *approvalService) List(ctx context.Context, filter repos.ApprovalListFilter) ([]*types.RuleApproval, *Pagination, error) {
  rd := requestdata.GetRequestData(ctx)
  if rd == nil {
    return nil, nil, apierr.Forbidden("unauthenticated", "no request identity in context")
  }

  switch permissions.ViewScopeFor(rd.Permissions) {
  case permissions.ViewScopeAll:
    // no extra constraint
  case permissions.ViewScopePending:
    filter.Status = string(types.ApprovalStatusPending)
  case permissions.ViewScopeOwn:
    filter.RequestedBy = rd.Username
  default:
    return nil, nil, apierr.Forbidden("view_denied", "you don't have permission to view approval requests")
  }

  approvals, total, err := as.approvalRepo.List(ctx, nil, filter)
  if err != nil {
    return nil, nil, apierr.Storage(fmt.Errorf("list approvals: %w", err))
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

  return approvals, &Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}, nil
}

func (as *approvalService) GetByID(ctx context.Context, approvalID uuid.UUID) (*types.RuleApproval, error) {
  approval, err := as.approvalRepo.GetDetailByID(ctx, nil, approvalID)
  if err != nil {
    return nil, apierr.Storage(fmt.Errorf("load approval: %w", err))
  }
  if approval == nil {
    return nil, apierr.NotFound("approval_not_found", "approval %s not found", approvalID)
  }
  return approval, nil
}

// mirrorRuleStatus keeps Rule.Status equal to the stage of the rule's current
// version. Resolving an approval for an older snapshot leaves the rule alone.
func (as *approvalService) mirrorRuleStatus(ctx context.Context, tx *gorm.DB, ruleID, versionID uuid.UUID, moved types.Stage) error {
  rules, err := as.ruleRepo.GetByIDs(ctx, tx, []uuid.UUID{ruleID})
  if err != nil {
    return apierr.Storage(fmt.Errorf("load rule: %w", err))
  }
  if len(rules) == 0 {
    return apierr.NotFound("rule_not_found", "rule %s not found", ruleID)
  }
  rule := rules[0]

  versions, err := as.versionRepo.GetByIDs(ctx, tx, []uuid.UUID{versionID})
  if err != nil || len(versions) == 0 {
    return apierr.Storage(fmt.Errorf("load rule version: %w", err))
  }
  version := versions[0]

  if version.MajorVersion != rule.VersionMajor || version.MinorVersion != rule.VersionMinor {
    as.log.Debug("Skipping rule status mirror for non-current version",
      "rule_id", ruleID,
      "version", fmt.Sprintf("%d.%d", version.MajorVersion, version.MinorVersion),
      "current", fmt.Sprintf("%d.%d", rule.VersionMajor, rule.VersionMinor),
    )
    return nil
  }

  if err := as.ruleRepo.SetStatus(ctx, tx, ruleID, moved); err != nil {
    return apierr.Storage(fmt.Errorf("set rule status: %w", err))
  }
  return nil
}
