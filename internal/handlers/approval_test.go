package handlers

import (
  "context"
  "net/http"
  "net/http/httptest"
  "strings"
  "testing"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/yungbote/ruleforge-backend/internal/logger"
  "github.com/yungbote/ruleforge-backend/internal/repos"
  "github.com/yungbote/ruleforge-backend/internal/requestdata"
  "github.com/yungbote/ruleforge-backend/internal/services"
  "github.com/yungbote/ruleforge-backend/internal/types"
)

// approvalServiceStub records the input the handler passes down.
type approvalServiceStub struct {
  decided *services.DecideInput
}

func (s *approvalServiceStub) Request(ctx context.Context, in services.CreateApprovalInput) (*types.RuleApproval, error) {
  return &types.RuleApproval{}, nil
}

func (s *approvalServiceStub) Decide(ctx context.Context, approvalID uuid.UUID, in services.DecideInput) (*types.RuleApproval, error) {
  s.decided = &in
  return &types.RuleApproval{ID: approvalID}, nil
}

func (s *approvalServiceStub) Withdraw(ctx context.Context, approvalID uuid.UUID, withdrawnBy string) (*types.RuleApproval, error) {
  return &types.RuleApproval{ID: approvalID}, nil
}

func (s *approvalServiceStub) List(ctx context.Context, filter repos.ApprovalListFilter) ([]*types.RuleApproval, *services.Pagination, error) {
  return nil, &services.Pagination{}, nil
}

func (s *approvalServiceStub) GetByID(ctx context.Context, approvalID uuid.UUID) (*types.RuleApproval, error) {
  return &types.RuleApproval{ID: approvalID}, nil
}

func TestDecideBindsActionComment(t *testing.T) {
  gin.SetMode(gin.TestMode)

  log, err := logger.New("development")
  if err != nil {
    t.Fatalf("init logger: %v", err)
  }

  stub := &approvalServiceStub{}
  handler := NewApprovalHandler(log, stub)

  router := gin.New()
  router.Use(func(c *gin.Context) {
    ctx := requestdata.WithRequestData(c.Request.Context(), &requestdata.RequestData{
      UserID:   uuid.New(),
      Username: "qa1",
    })
    c.Request = c.Request.WithContext(ctx)
    c.Next()
  })
  router.PUT("/approvals/:id/action", handler.Decide)

  body := `{"action": "APPROVED", "action_comment": "meets the test plan"}`
  req := httptest.NewRequest(http.MethodPut, "/approvals/"+uuid.NewString()+"/action", strings.NewReader(body))
  req.Header.Set("Content-Type", "application/json")
  rec := httptest.NewRecorder()
  router.ServeHTTP(rec, req)

  if rec.Code != http.StatusOK {
    t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
  }
  if stub.decided == nil {
    t.Fatal("decide was never called")
  }
  if stub.decided.Action != types.ApprovalActionApproved {
    t.Errorf("action = %s, want APPROVED", stub.decided.Action)
  }
  if stub.decided.ActionComment != "meets the test plan" {
    t.Errorf("action_comment = %q, want it bound from the request body", stub.decided.ActionComment)
  }
  if stub.decided.ActionBy != "qa1" {
    t.Errorf("action_by = %q, want qa1", stub.decided.ActionBy)
  }
}
