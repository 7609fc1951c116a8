package repos

import (
  "context"
  "strings"
  "time"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/yungbote/ruleforge-backend/internal/logger"
  "github.com/yungbote/ruleforge-backend/internal/types"
)

type ApprovalListFilter struct {
  Page        int
  Limit       int
  Status      string // an ApprovalStatus value or "ALL"
  RuleID      *uuid.UUID
  RequestedBy string
  Search      string
}

type ApprovalResolution struct {
  Status        types.ApprovalStatus
  Action        types.ApprovalAction
  ActionBy      string
  ActionComment string
  MovedToStage  types.Stage
}

type RuleApprovalRepo interface {
  Create(ctx context.Context, tx *gorm.DB, approvals []*types.RuleApproval) ([]*types.RuleApproval, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, approvalIDs []uuid.UUID) ([]*types.RuleApproval, error)
  GetDetailByID(ctx context.Context, tx *gorm.DB, approvalID uuid.UUID) (*types.RuleApproval, error)
  GetPendingByVersionIDs(ctx context.Context, tx *gorm.DB, versionIDs []uuid.UUID) ([]*types.RuleApproval, error)
  Resolve(ctx context.Context, tx *gorm.DB, approvalID uuid.UUID, res ApprovalResolution) (int64, error)
  List(ctx context.Context, tx *gorm.DB, filter ApprovalListFilter) ([]*types.RuleApproval, int64, error)
}

type ruleApprovalRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewRuleApprovalRepo(db *gorm.DB, baseLog *logger.Logger) RuleApprovalRepo {
  repoLog := baseLog.With("repo", "RuleApprovalRepo")
  return &ruleApprovalRepo{db: db, log: repoLog}
}

func (rar *ruleApprovalRepo) Create(ctx context.Context, tx *gorm.DB, approvals []*types.RuleApproval) ([]*types.RuleApproval, error) {
  transaction := tx
  if transaction == nil {
    transaction = rar.db
  }

  if len(approvals) == 0 {
    return []*types.RuleApproval{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&approvals).Error; err != nil {
    return nil, err
  }

  return approvals, nil
}

func (rar *ruleApprovalRepo) GetByIDs(ctx context.Context, tx *gorm.DB, approvalIDs []uuid.UUID) ([]*types.RuleApproval, error) {
  transaction := tx
  if transaction == nil {
    transaction = rar.db
  }

  var results []*types.RuleApproval

  if len(approvalIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("id IN ?", approvalIDs).
    Find(&results).Error; err != nil {
    return nil, err
  }

  return results, nil
}

func (rar *ruleApprovalRepo) GetDetailByID(ctx context.Context, tx *gorm.DB, approvalID uuid.UUID) (*types.RuleApproval, error) {
  transaction := tx
  if transaction == nil {
    transaction = rar.db
  }

  var results []*types.RuleApproval
  if err := transaction.WithContext(ctx).
    Preload("Rule").
    Preload("RuleVersion").
    Where("id = ?", approvalID).
    Limit(1).
    Find(&results).Error; err != nil {
    return nil, err
  }
  if len(results) == 0 {
    return nil, nil
  }
  return results[0], nil
}

func (rar *ruleApprovalRepo) GetPendingByVersionIDs(ctx context.Context, tx *gorm.DB, versionIDs []uuid.UUID) ([]*types.RuleApproval, error) {
  transaction := tx
  if transaction == nil {
    transaction = rar.db
  }

  var results []*types.RuleApproval

  if len(versionIDs) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("rule_version_id IN ? AND status = ?", versionIDs, types.ApprovalStatusPending).
    Find(&results).Error; err != nil {
    return nil, err
  }

  return results, nil
}

// Resolve is the terminal write. The status guard in the WHERE clause is what
// makes two racing decisions safe: the loser updates zero rows and the caller
// reports InvalidState.
func (rar *ruleApprovalRepo) Resolve(ctx context.Context, tx *gorm.DB, approvalID uuid.UUID, res ApprovalResolution) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = rar.db
  }

  now := time.Now()
  result := transaction.WithContext(ctx).
    Model(&types.RuleApproval{}).
    Where("id = ? AND status = ?", approvalID, types.ApprovalStatusPending).
    Updates(map[string]interface{}{
      "status":         res.Status,
      "action":         res.Action,
      "action_by":      res.ActionBy,
      "action_at":      now,
      "action_comment": res.ActionComment,
      "moved_to_stage": res.MovedToStage,
    })
  if result.Error != nil {
    return 0, result.Error
  }

  return result.RowsAffected, nil
}

func (rar *ruleApprovalRepo) List(ctx context.Context, tx *gorm.DB, filter ApprovalListFilter) ([]*types.RuleApproval, int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = rar.db
  }

  page := filter.Page
  if page < 1 {
    page = 1
  }
  limit := filter.Limit
  if limit < 1 {
    limit = 10
  }

  query := transaction.WithContext(ctx).
    Model(&types.RuleApproval{}).
    Joins("JOIN rules ON rules.id = rule_approvals.rule_id")

  if filter.Status != "" && filter.Status != "ALL" {
    query = query.Where("rule_approvals.status = ?", filter.Status)
  }
  if filter.RuleID != nil {
    query = query.Where("rule_approvals.rule_id = ?", *filter.RuleID)
  }
  if filter.RequestedBy != "" {
    query = query.Where("rule_approvals.requested_by = ?", filter.RequestedBy)
  }
  if filter.Search != "" {
    term := "%" + strings.ToLower(filter.Search) + "%"
    query = query.Where(
      "LOWER(rules.name) LIKE ? OR LOWER(rules.slug) LIKE ? OR LOWER(rule_approvals.request_comment) LIKE ? OR LOWER(rule_approvals.requested_by) LIKE ?",
      term, term, term, term,
    )
  }

  var total int64
  if err := query.Count(&total).Error; err != nil {
    return nil, 0, err
  }

  var results []*types.RuleApproval
  if err := query.
    Preload("Rule").
    Preload("RuleVersion").
    Order("rule_approvals.created_at DESC").
    Limit(limit).
    Offset((page - 1) * limit).
    Find(&results).Error; err != nil {
    return nil, 0, err
  }

  return results, total, nil
}
