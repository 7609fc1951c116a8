package handlers

import (
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "gorm.io/datatypes"

  "github.com/yungbote/ruleforge-backend/internal/logger"
  "github.com/yungbote/ruleforge-backend/internal/repos"
  "github.com/yungbote/ruleforge-backend/internal/services"
)

type SubfunctionHandler struct {
  log                *logger.Logger
  subfunctionService services.SubfunctionService
}

func NewSubfunctionHandler(log *logger.Logger, subfunctionService services.SubfunctionService) *SubfunctionHandler {
  return &SubfunctionHandler{
    log:                log.With("handler", "SubfunctionHandler"),
    subfunctionService: subfunctionService,
  }
}

func (sh *SubfunctionHandler) List(c *gin.Context) {
  filter := repos.SubfunctionListFilter{
    Page:       parseIntQuery(c, "page", 1),
    Limit:      parseIntQuery(c, "limit", 10),
    CategoryID: c.Query("category_id"),
    Search:     c.Query("search"),
  }

  subfunctions, pagination, err := sh.subfunctionService.List(c.Request.Context(), filter)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"subfunctions": subfunctions, "pagination": pagination})
}

func (sh *SubfunctionHandler) GetByID(c *gin.Context) {
  subfunctionID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondBadRequest(c, "invalid_id", "subfunction id must be a valid uuid")
    return
  }

  subfunction, err := sh.subfunctionService.GetByID(c.Request.Context(), subfunctionID)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"subfunction": subfunction})
}

func (sh *SubfunctionHandler) Create(c *gin.Context) {
  var req struct {
    Name         string         `json:"name"`
    Description  string         `json:"description"`
    Version      string         `json:"version"`
    FunctionName string         `json:"function_name"`
    CategoryID   *string        `json:"category_id"`
    Code         string         `json:"code"`
    ReturnType   string         `json:"return_type"`
    InputParams  datatypes.JSON `json:"input_params"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondBadRequest(c, "invalid_body", "invalid request body")
    return
  }

  subfunction, err := sh.subfunctionService.Create(c.Request.Context(), services.CreateSubfunctionInput{
    Name:         req.Name,
    Description:  req.Description,
    Version:      req.Version,
    FunctionName: req.FunctionName,
    CategoryID:   req.CategoryID,
    Code:         req.Code,
    ReturnType:   req.ReturnType,
    InputParams:  req.InputParams,
  })
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondCreated(c, gin.H{"subfunction": subfunction})
}

func (sh *SubfunctionHandler) Update(c *gin.Context) {
  subfunctionID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondBadRequest(c, "invalid_id", "subfunction id must be a valid uuid")
    return
  }

  var req struct {
    Name         *string        `json:"name"`
    Description  *string        `json:"description"`
    Version      *string        `json:"version"`
    FunctionName *string        `json:"function_name"`
    CategoryID   *string        `json:"category_id"`
    Code         *string        `json:"code"`
    ReturnType   *string        `json:"return_type"`
    InputParams  datatypes.JSON `json:"input_params"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondBadRequest(c, "invalid_body", "invalid request body")
    return
  }

  subfunction, err := sh.subfunctionService.Update(c.Request.Context(), subfunctionID, services.UpdateSubfunctionInput{
    Name:         req.Name,
    Description:  req.Description,
    Version:      req.Version,
    FunctionName: req.FunctionName,
    CategoryID:   req.CategoryID,
    Code:         req.Code,
    ReturnType:   req.ReturnType,
    InputParams:  req.InputParams,
  })
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"subfunction": subfunction})
}

func (sh *SubfunctionHandler) Delete(c *gin.Context) {
  subfunctionID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondBadRequest(c, "invalid_id", "subfunction id must be a valid uuid")
    return
  }

  if err := sh.subfunctionService.Delete(c.Request.Context(), subfunctionID); err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"message": "subfunction deleted"})
}
