package handlers

import (
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "gorm.io/datatypes"

  "github.com/yungbote/ruleforge-backend/internal/logger"
  "github.com/yungbote/ruleforge-backend/internal/repos"
  "github.com/yungbote/ruleforge-backend/internal/services"
)

type RuleFunctionHandler struct {
  log                 *logger.Logger
  ruleFunctionService services.RuleFunctionService
}

func NewRuleFunctionHandler(log *logger.Logger, ruleFunctionService services.RuleFunctionService) *RuleFunctionHandler {
  return &RuleFunctionHandler{
    log:                 log.With("handler", "RuleFunctionHandler"),
    ruleFunctionService: ruleFunctionService,
  }
}

func (fh *RuleFunctionHandler) List(c *gin.Context) {
  filter := repos.RuleFunctionListFilter{
    Page:  parseIntQuery(c, "page", 1),
    Limit: parseIntQuery(c, "limit", 10),
  }

  functions, pagination, err := fh.ruleFunctionService.List(c.Request.Context(), filter)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"rule_functions": functions, "pagination": pagination})
}

func (fh *RuleFunctionHandler) GetByID(c *gin.Context) {
  functionID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondBadRequest(c, "invalid_id", "rule function id must be a valid uuid")
    return
  }

  function, err := fh.ruleFunctionService.GetByID(c.Request.Context(), functionID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"rule_function": function})
}

func (fh *RuleFunctionHandler) GetByRuleID(c *gin.Context) {
  ruleID, err := uuid.Parse(c.Param("ruleId"))
  if err != nil {
    RespondBadRequest(c, "invalid_rule_id", "rule id must be a valid uuid")
    return
  }

  function, err := fh.ruleFunctionService.GetByRuleID(c.Request.Context(), ruleID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"rule_function": function})
}

func (fh *RuleFunctionHandler) Create(c *gin.Context) {
  var req struct {
    RuleID      string         `json:"rule_id"`
    Code        string         `json:"code"`
    ReturnType  string         `json:"return_type"`
    InputParams datatypes.JSON `json:"input_params"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondBadRequest(c, "invalid_body", "invalid request body")
    return
  }
  ruleID, err := uuid.Parse(req.RuleID)
  if err != nil {
    RespondBadRequest(c, "invalid_rule_id", "rule_id must be a valid uuid")
    return
  }

  function, err := fh.ruleFunctionService.Create(c.Request.Context(), services.CreateRuleFunctionInput{
    RuleID:      ruleID,
    Code:        req.Code,
    ReturnType:  req.ReturnType,
    InputParams: req.InputParams,
  })
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondCreated(c, gin.H{"rule_function": function})
}

func (fh *RuleFunctionHandler) Update(c *gin.Context) {
  functionID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondBadRequest(c, "invalid_id", "rule function id must be a valid uuid")
    return
  }

  var req struct {
    Code        *string        `json:"code"`
    ReturnType  *string        `json:"return_type"`
    InputParams datatypes.JSON `json:"input_params"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondBadRequest(c, "invalid_body", "invalid request body")
    return
  }

  function, err := fh.ruleFunctionService.Update(c.Request.Context(), functionID, services.UpdateRuleFunctionInput{
    Code:        req.Code,
    ReturnType:  req.ReturnType,
    InputParams: req.InputParams,
  })
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"rule_function": function})
}

func (fh *RuleFunctionHandler) Delete(c *gin.Context) {
  functionID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondBadRequest(c, "invalid_id", "rule function id must be a valid uuid")
    return
  }

  if err := fh.ruleFunctionService.Delete(c.Request.Context(), functionID); err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"message": "rule function deleted"})
}
