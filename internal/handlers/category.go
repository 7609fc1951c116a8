package handlers

import (
  "github.com/gin-gonic/gin"

  "github.com/yungbote/ruleforge-backend/internal/logger"
  "github.com/yungbote/ruleforge-backend/internal/services"
  "github.com/yungbote/ruleforge-backend/internal/types"
)

type CategoryHandler struct {
  log             *logger.Logger
  categoryService services.CategoryService
}

func NewCategoryHandler(log *logger.Logger, categoryService services.CategoryService) *CategoryHandler {
  return &CategoryHandler{
    log:             log.With("handler", "CategoryHandler"),
    categoryService: categoryService,
  }
}

func (ch *CategoryHandler) List(c *gin.Context) {
  categories, err := ch.categoryService.GetAll(c.Request.Context())
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"categories": categories})
}

func (ch *CategoryHandler) GetByID(c *gin.Context) {
  category, err := ch.categoryService.GetByID(c.Request.Context(), c.Param("id"))
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"category": category})
}

func (ch *CategoryHandler) Create(c *gin.Context) {
  var req struct {
    ID          string `json:"id"`
    Name        string `json:"name"`
    Description string `json:"description"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondBadRequest(c, "invalid_body", "invalid request body")
    return
  }

  category, err := ch.categoryService.Create(c.Request.Context(), &types.Category{
    ID:          req.ID,
    Name:        req.Name,
    Description: req.Description,
  })
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondCreated(c, gin.H{"category": category})
}

func (ch *CategoryHandler) Update(c *gin.Context) {
  var req struct {
    Name        *string `json:"name"`
    Description *string `json:"description"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondBadRequest(c, "invalid_body", "invalid request body")
    return
  }

  category, err := ch.categoryService.Update(c.Request.Context(), c.Param("id"), req.Name, req.Description)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"category": category})
}

func (ch *CategoryHandler) Delete(c *gin.Context) {
  if err := ch.categoryService.Delete(c.Request.Context(), c.Param("id")); err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"message": "category deleted"})
}
