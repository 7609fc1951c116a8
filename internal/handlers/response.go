package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/yungbote/ruleforge-backend/internal/apierr"
)

type APIError struct {
  Message string `json:"message"`
  Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
  Success bool     `json:"success"`
  Error   APIError `json:"error"`
}

// RespondError maps the service error taxonomy onto HTTP status codes so
// handlers never hand-pick statuses themselves.
func RespondError(c *gin.Context, err error) {
  msg := "unknown error"
  if err != nil {
    msg = err.Error()
  }
  c.JSON(apierr.HTTPStatus(err), ErrorEnvelope{
    Success: false,
    Error: APIError{
      Message: msg,
      Code:    apierr.CodeOf(err),
    },
  })
}

func RespondBadRequest(c *gin.Context, code, message string) {
  c.JSON(http.StatusBadRequest, ErrorEnvelope{
    Success: false,
    Error:   APIError{Message: message, Code: code},
  })
}

func RespondOK(c *gin.Context, payload gin.H) {
  body := gin.H{"success": true}
  for k, v := range payload {
    body[k] = v
  }
  c.JSON(http.StatusOK, body)
}

func RespondCreated(c *gin.Context, payload gin.H) {
  body := gin.H{"success": true}
  for k, v := range payload {
    body[k] = v
  }
  c.JSON(http.StatusCreated, body)
}
