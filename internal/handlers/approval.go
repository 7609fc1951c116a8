package handlers

import (
  "strconv"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/yungbote/ruleforge-backend/internal/logger"
  "github.com/yungbote/ruleforge-backend/internal/repos"
  "github.com/yungbote/ruleforge-backend/internal/requestdata"
  "github.com/yungbote/ruleforge-backend/internal/services"
  "github.com/yungbote/ruleforge-backend/internal/types"
)

type ApprovalHandler struct {
  log             *logger.Logger
  approvalService services.ApprovalService
}

func NewApprovalHandler(log *logger.Logger, approvalService services.ApprovalService) *ApprovalHandler {
  return &ApprovalHandler{
    log:             log.With("handler", "ApprovalHandler"),
    approvalService: approvalService,
  }
}

func (ah *ApprovalHandler) List(c *gin.Context) {
  filter := repos.ApprovalListFilter{
    Page:   parseIntQuery(c, "page", 1),
    Limit:  parseIntQuery(c, "limit", 10),
    Status: c.DefaultQuery("status", "PENDING"),
    Search: c.Query("search"),
  }
  if raw := c.Query("rule_id"); raw != "" {
    ruleID, err := uuid.Parse(raw)
    if err != nil {
      RespondBadRequest(c, "invalid_rule_id", "rule_id must be a valid uuid")
      return
    }
    filter.RuleID = &ruleID
  }

  approvals, pagination, err := ah.approvalService.List(c.Request.Context(), filter)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"approvals": approvals, "pagination": pagination})
}

func (ah *ApprovalHandler) GetByID(c *gin.Context) {
  approvalID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondBadRequest(c, "invalid_id", "approval id must be a valid uuid")
    return
  }

  approval, err := ah.approvalService.GetByID(c.Request.Context(), approvalID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"approval": approval})
}

func (ah *ApprovalHandler) Create(c *gin.Context) {
  var req struct {
    RuleVersionID  string `json:"rule_version_id"`
    RuleID         string `json:"rule_id"`
    FromStage      string `json:"from_stage"`
    ToStage        string `json:"to_stage"`
    RequestComment string `json:"request_comment"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondBadRequest(c, "invalid_body", "invalid request body")
    return
  }

  versionID, err := uuid.Parse(req.RuleVersionID)
  if err != nil {
    RespondBadRequest(c, "invalid_rule_version_id", "rule_version_id must be a valid uuid")
    return
  }
  ruleID, err := uuid.Parse(req.RuleID)
  if err != nil {
    RespondBadRequest(c, "invalid_rule_id", "rule_id must be a valid uuid")
    return
  }
  fromStage, err := types.ParseStage(req.FromStage)
  if err != nil {
    RespondBadRequest(c, "invalid_from_stage", err.Error())
    return
  }
  toStage, err := types.ParseStage(req.ToStage)
  if err != nil {
    RespondBadRequest(c, "invalid_to_stage", err.Error())
    return
  }

  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    RespondBadRequest(c, "unauthenticated", "no request identity")
    return
  }

  approval, err := ah.approvalService.Request(c.Request.Context(), services.CreateApprovalInput{
    RuleVersionID:  versionID,
    RuleID:         ruleID,
    FromStage:      fromStage,
    ToStage:        toStage,
    RequestedBy:    rd.Username,
    RequestComment: req.RequestComment,
  })
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondCreated(c, gin.H{"approval": approval})
}

func (ah *ApprovalHandler) Decide(c *gin.Context) {
  approvalID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondBadRequest(c, "invalid_id", "approval id must be a valid uuid")
    return
  }

  var req struct {
    Action        string `json:"action"`
    ActionComment string `json:"action_comment"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondBadRequest(c, "invalid_body", "invalid request body")
    return
  }
  action, err := types.ParseDecision(req.Action)
  if err != nil {
    RespondBadRequest(c, "invalid_action", err.Error())
    return
  }

  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    RespondBadRequest(c, "unauthenticated", "no request identity")
    return
  }

  approval, err := ah.approvalService.Decide(c.Request.Context(), approvalID, services.DecideInput{
    Action:        action,
    ActionBy:      rd.Username,
    ActionComment: req.ActionComment,
  })
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"approval": approval})
}

func (ah *ApprovalHandler) Withdraw(c *gin.Context) {
  approvalID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondBadRequest(c, "invalid_id", "approval id must be a valid uuid")
    return
  }

  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    RespondBadRequest(c, "unauthenticated", "no request identity")
    return
  }

  approval, err := ah.approvalService.Withdraw(c.Request.Context(), approvalID, rd.Username)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"approval": approval})
}

func parseIntQuery(c *gin.Context, key string, fallback int) int {
  raw := c.Query(key)
  if raw == "" {
    return fallback
  }
  value, err := strconv.Atoi(raw)
  if err != nil || value < 1 {
    return fallback
  }
  return value
}
