package handlers

import (
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "gorm.io/datatypes"

  "github.com/yungbote/ruleforge-backend/internal/logger"
  "github.com/yungbote/ruleforge-backend/internal/repos"
  "github.com/yungbote/ruleforge-backend/internal/requestdata"
  "github.com/yungbote/ruleforge-backend/internal/services"
  "github.com/yungbote/ruleforge-backend/internal/types"
)

type RuleHandler struct {
  log         *logger.Logger
  ruleService services.RuleService
}

func NewRuleHandler(log *logger.Logger, ruleService services.RuleService) *RuleHandler {
  return &RuleHandler{
    log:         log.With("handler", "RuleHandler"),
    ruleService: ruleService,
  }
}

func (rh *RuleHandler) List(c *gin.Context) {
  filter := repos.RuleListFilter{
    Page:   parseIntQuery(c, "page", 1),
    Limit:  parseIntQuery(c, "limit", 10),
    Search: c.Query("search"),
  }
  if raw := c.Query("status"); raw != "" {
    status, err := types.ParseStage(raw)
    if err != nil {
      RespondBadRequest(c, "invalid_status", err.Error())
      return
    }
    filter.Status = status
  }

  rules, pagination, err := rh.ruleService.List(c.Request.Context(), filter)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"rules": rules, "pagination": pagination})
}

func (rh *RuleHandler) GetByID(c *gin.Context) {
  ruleID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondBadRequest(c, "invalid_id", "rule id must be a valid uuid")
    return
  }

  rule, err := rh.ruleService.GetByID(c.Request.Context(), ruleID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"rule": rule})
}

func (rh *RuleHandler) Create(c *gin.Context) {
  var req struct {
    Slug        string `json:"slug"`
    Name        string `json:"name"`
    Description string `json:"description"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondBadRequest(c, "invalid_body", "invalid request body")
    return
  }

  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    RespondBadRequest(c, "unauthenticated", "no request identity")
    return
  }

  rule, err := rh.ruleService.Create(c.Request.Context(), services.CreateRuleInput{
    Slug:        req.Slug,
    Name:        req.Name,
    Description: req.Description,
    Author:      rd.Username,
  })
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondCreated(c, gin.H{"rule": rule})
}

func (rh *RuleHandler) Update(c *gin.Context) {
  ruleID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondBadRequest(c, "invalid_id", "rule id must be a valid uuid")
    return
  }

  var req struct {
    Name        *string `json:"name"`
    Description *string `json:"description"`
    Author      *string `json:"author"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondBadRequest(c, "invalid_body", "invalid request body")
    return
  }

  rule, err := rh.ruleService.Update(c.Request.Context(), ruleID, services.UpdateRuleInput{
    Name:        req.Name,
    Description: req.Description,
    Author:      req.Author,
  })
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"rule": rule})
}

func (rh *RuleHandler) Delete(c *gin.Context) {
  ruleID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondBadRequest(c, "invalid_id", "rule id must be a valid uuid")
    return
  }

  if err := rh.ruleService.Delete(c.Request.Context(), ruleID); err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"message": "rule deleted"})
}

func (rh *RuleHandler) SaveVersion(c *gin.Context) {
  ruleID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondBadRequest(c, "invalid_id", "rule id must be a valid uuid")
    return
  }

  var req struct {
    MajorVersion            *int           `json:"major_version"`
    MinorVersion            *int           `json:"minor_version"`
    RuleFunctionCode        string         `json:"rule_function_code"`
    RuleFunctionInputParams datatypes.JSON `json:"rule_function_input_params"`
    RuleSteps               datatypes.JSON `json:"rule_steps"`
    Comment                 string         `json:"comment"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondBadRequest(c, "invalid_body", "invalid request body")
    return
  }
  if (req.MajorVersion == nil) != (req.MinorVersion == nil) {
    RespondBadRequest(c, "invalid_version_pair", "major_version and minor_version must be given together")
    return
  }

  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    RespondBadRequest(c, "unauthenticated", "no request identity")
    return
  }

  version, err := rh.ruleService.SaveVersion(c.Request.Context(), ruleID, services.SaveVersionInput{
    MajorVersion:            req.MajorVersion,
    MinorVersion:            req.MinorVersion,
    RuleFunctionCode:        req.RuleFunctionCode,
    RuleFunctionInputParams: req.RuleFunctionInputParams,
    RuleSteps:               req.RuleSteps,
    CreatedBy:               rd.Username,
    Comment:                 req.Comment,
  })
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondCreated(c, gin.H{"version": version})
}

func (rh *RuleHandler) ListVersions(c *gin.Context) {
  ruleID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondBadRequest(c, "invalid_id", "rule id must be a valid uuid")
    return
  }

  versions, err := rh.ruleService.ListVersions(c.Request.Context(), ruleID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"versions": versions})
}

func (rh *RuleHandler) VersionHistory(c *gin.Context) {
  versionID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondBadRequest(c, "invalid_id", "version id must be a valid uuid")
    return
  }

  history, err := rh.ruleService.VersionHistory(c.Request.Context(), versionID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"history": history})
}
