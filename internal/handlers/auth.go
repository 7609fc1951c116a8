package handlers

import (
  "github.com/gin-gonic/gin"

  "github.com/yungbote/ruleforge-backend/internal/logger"
  "github.com/yungbote/ruleforge-backend/internal/services"
  "github.com/yungbote/ruleforge-backend/internal/types"
)

type AuthHandler struct {
  log         *logger.Logger
  authService services.AuthService
}

func NewAuthHandler(log *logger.Logger, authService services.AuthService) *AuthHandler {
  return &AuthHandler{
    log:         log.With("handler", "AuthHandler"),
    authService: authService,
  }
}

func (ah *AuthHandler) Register(c *gin.Context) {
  var req struct {
    Email    string `json:"email"`
    Username string `json:"username"`
    Password string `json:"password"`
    RoleID   int    `json:"role_id"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondBadRequest(c, "invalid_body", "invalid request body")
    return
  }

  user := types.User{
    Email:    req.Email,
    Username: req.Username,
    Password: req.Password,
    RoleID:   req.RoleID,
  }
  if err := ah.authService.RegisterUser(c.Request.Context(), &user); err != nil {
    RespondError(c, err)
    return
  }
  RespondCreated(c, gin.H{"user_id": user.ID})
}

func (ah *AuthHandler) Login(c *gin.Context) {
  var req struct {
    Email    string `json:"email"`
    Password string `json:"password"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondBadRequest(c, "invalid_body", "invalid request body")
    return
  }

  accessToken, refreshToken, user, err := ah.authService.LoginUser(c.Request.Context(), req.Email, req.Password)
  if err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{
    "access_token":  accessToken,
    "refresh_token": refreshToken,
    "user": gin.H{
      "id":       user.ID,
      "email":    user.Email,
      "username": user.Username,
      "role_id":  user.RoleID,
    },
  })
}

func (ah *AuthHandler) Logout(c *gin.Context) {
  if err := ah.authService.LogoutUser(c.Request.Context()); err != nil {
    RespondError(c, err)
    return
  }
  RespondOK(c, gin.H{"message": "logged out"})
}
