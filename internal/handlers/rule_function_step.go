package handlers

import (
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "gorm.io/datatypes"

  "github.com/yungbote/ruleforge-backend/internal/logger"
  "github.com/yungbote/ruleforge-backend/internal/repos"
  "github.com/yungbote/ruleforge-backend/internal/services"
  "github.com/yungbote/ruleforge-backend/internal/types"
)

type RuleFunctionStepHandler struct {
  log         *logger.Logger
  stepService services.RuleFunctionStepService
}

func NewRuleFunctionStepHandler(log *logger.Logger, stepService services.RuleFunctionStepService) *RuleFunctionStepHandler {
  return &RuleFunctionStepHandler{
    log:         log.With("handler", "RuleFunctionStepHandler"),
    stepService: stepService,
  }
}

func (sh *RuleFunctionStepHandler) List(c *gin.Context) {
  filter := repos.RuleFunctionStepListFilter{
    Page:  parseIntQuery(c, "page", 1),
    Limit: parseIntQuery(c, "limit", 10),
  }

  steps, pagination, err := sh.stepService.List(c.Request.Context(), filter)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"steps": steps, "pagination": pagination})
}

func (sh *RuleFunctionStepHandler) ListByRuleFunction(c *gin.Context) {
  functionID, err := uuid.Parse(c.Param("ruleFunctionId"))
  if err != nil {
    RespondBadRequest(c, "invalid_rule_function_id", "rule function id must be a valid uuid")
    return
  }

  filter := repos.RuleFunctionStepListFilter{
    Page:           parseIntQuery(c, "page", 1),
    Limit:          parseIntQuery(c, "limit", 10),
    RuleFunctionID: &functionID,
  }

  steps, pagination, err := sh.stepService.List(c.Request.Context(), filter)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"steps": steps, "pagination": pagination})
}

func (sh *RuleFunctionStepHandler) GetByID(c *gin.Context) {
  functionID, err := uuid.Parse(c.Param("ruleFunctionId"))
  if err != nil {
    RespondBadRequest(c, "invalid_rule_function_id", "rule function id must be a valid uuid")
    return
  }
  stepID := c.Param("id")

  step, err := sh.stepService.GetByID(c.Request.Context(), functionID, stepID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"step": step})
}

func (sh *RuleFunctionStepHandler) Create(c *gin.Context) {
  var req struct {
    ID                 string         `json:"id"`
    RuleFunctionID     string         `json:"rule_function_id"`
    Type               string         `json:"type"`
    OutputVariableName string         `json:"output_variable_name"`
    ReturnType         string         `json:"return_type"`
    NextStep           datatypes.JSON `json:"next_step"`
    Sequence           int            `json:"sequence"`
    SubfunctionID      *string        `json:"subfunction_id"`
    SubfunctionParams  datatypes.JSON `json:"subfunction_params"`
    Conditions         datatypes.JSON `json:"conditions"`
    OutputData         datatypes.JSON `json:"output_data"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondBadRequest(c, "invalid_body", "invalid request body")
    return
  }

  functionID, err := uuid.Parse(req.RuleFunctionID)
  if err != nil {
    RespondBadRequest(c, "invalid_rule_function_id", "rule_function_id must be a valid uuid")
    return
  }
  stepType, err := types.ParseStepType(req.Type)
  if err != nil {
    RespondBadRequest(c, "invalid_step_type", err.Error())
    return
  }
  var subfunctionID *uuid.UUID
  if req.SubfunctionID != nil {
    parsed, err := uuid.Parse(*req.SubfunctionID)
    if err != nil {
      RespondBadRequest(c, "invalid_subfunction_id", "subfunction_id must be a valid uuid")
      return
    }
    subfunctionID = &parsed
  }

  step, err := sh.stepService.Create(c.Request.Context(), services.CreateRuleFunctionStepInput{
    ID:                 req.ID,
    RuleFunctionID:     functionID,
    Type:               stepType,
    OutputVariableName: req.OutputVariableName,
    ReturnType:         req.ReturnType,
    NextStep:           req.NextStep,
    Sequence:           req.Sequence,
    SubfunctionID:      subfunctionID,
    SubfunctionParams:  req.SubfunctionParams,
    Conditions:         req.Conditions,
    OutputData:         req.OutputData,
  })
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondCreated(c, gin.H{"step": step})
}

func (sh *RuleFunctionStepHandler) Update(c *gin.Context) {
  functionID, err := uuid.Parse(c.Param("ruleFunctionId"))
  if err != nil {
    RespondBadRequest(c, "invalid_rule_function_id", "rule function id must be a valid uuid")
    return
  }
  stepID := c.Param("id")

  var req struct {
    Type               *string        `json:"type"`
    OutputVariableName *string        `json:"output_variable_name"`
    ReturnType         *string        `json:"return_type"`
    NextStep           datatypes.JSON `json:"next_step"`
    Sequence           *int           `json:"sequence"`
    SubfunctionID      *string        `json:"subfunction_id"`
    SubfunctionParams  datatypes.JSON `json:"subfunction_params"`
    Conditions         datatypes.JSON `json:"conditions"`
    OutputData         datatypes.JSON `json:"output_data"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondBadRequest(c, "invalid_body", "invalid request body")
    return
  }

  in := services.UpdateRuleFunctionStepInput{
    OutputVariableName: req.OutputVariableName,
    ReturnType:         req.ReturnType,
    NextStep:           req.NextStep,
    Sequence:           req.Sequence,
    SubfunctionParams:  req.SubfunctionParams,
    Conditions:         req.Conditions,
    OutputData:         req.OutputData,
  }
  if req.Type != nil {
    stepType, err := types.ParseStepType(*req.Type)
    if err != nil {
      RespondBadRequest(c, "invalid_step_type", err.Error())
      return
    }
    in.Type = &stepType
  }
  if req.SubfunctionID != nil {
    parsed, err := uuid.Parse(*req.SubfunctionID)
    if err != nil {
      RespondBadRequest(c, "invalid_subfunction_id", "subfunction_id must be a valid uuid")
      return
    }
    in.SubfunctionID = &parsed
  }

  step, err := sh.stepService.Update(c.Request.Context(), functionID, stepID, in)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"step": step})
}

func (sh *RuleFunctionStepHandler) Delete(c *gin.Context) {
  functionID, err := uuid.Parse(c.Param("ruleFunctionId"))
  if err != nil {
    RespondBadRequest(c, "invalid_rule_function_id", "rule function id must be a valid uuid")
    return
  }
  stepID := c.Param("id")

  if err := sh.stepService.Delete(c.Request.Context(), functionID, stepID); err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"message": "step deleted"})
}
