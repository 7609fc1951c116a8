package services

import (
  "context"
  "testing"
  "time"

  "github.com/yungbote/ruleforge-backend/internal/apierr"
  "github.com/yungbote/ruleforge-backend/internal/logger"
  "github.com/yungbote/ruleforge-backend/internal/permissions"
  "github.com/yungbote/ruleforge-backend/internal/repos"
  "github.com/yungbote/ruleforge-backend/internal/requestdata"
  "github.com/yungbote/ruleforge-backend/internal/types"
)

func newAuthFixture(t *testing.T) AuthService {
  t.Helper()
  f := newApprovalFixture(t)

  log, err := logger.New("development")
  if err != nil {
    t.Fatalf("init logger: %v", err)
  }
  userRepo := repos.NewUserRepo(f.db, log)
  userTokenRepo := repos.NewUserTokenRepo(f.db, log)
  return NewAuthService(f.db, log, userRepo, userTokenRepo, "test-secret", time.Hour, 24*time.Hour)
}

func TestRegisterAndLogin(t *testing.T) {
  auth := newAuthFixture(t)
  ctx := context.Background()

  user := &types.User{
    Email:    "Dev1@Example.com",
    Username: "dev1",
    Password: "hunter22",
    RoleID:   permissions.RoleQA,
  }
  if err := auth.RegisterUser(ctx, user); err != nil {
    t.Fatalf("register: %v", err)
  }
  if user.Password == "hunter22" {
    t.Error("password stored in plaintext")
  }

  // Email lookup is case-insensitive.
  accessToken, refreshToken, loggedIn, err := auth.LoginUser(ctx, "dev1@example.com", "hunter22")
  if err != nil {
    t.Fatalf("login: %v", err)
  }
  if accessToken == "" || refreshToken == "" {
    t.Fatal("login returned empty tokens")
  }
  if loggedIn.Username != "dev1" {
    t.Errorf("username = %q", loggedIn.Username)
  }

  authedCtx, err := auth.SetContextFromToken(ctx, accessToken)
  if err != nil {
    t.Fatalf("set context from token: %v", err)
  }
  rd := requestdata.GetRequestData(authedCtx)
  if rd == nil {
    t.Fatal("no request data on context")
  }
  if rd.Username != "dev1" {
    t.Errorf("username = %q", rd.Username)
  }
  if !rd.HasPermission(permissions.ApproveWIPToTest) {
    t.Error("QA token missing ApproveWIPToTest permission")
  }
  if rd.HasPermission(permissions.ApprovePendingToProd) {
    t.Error("QA token has ApprovePendingToProd permission")
  }
}

func TestLoginWrongPassword(t *testing.T) {
  auth := newAuthFixture(t)
  ctx := context.Background()

  user := &types.User{Email: "dev2@example.com", Username: "dev2", Password: "correct-horse"}
  if err := auth.RegisterUser(ctx, user); err != nil {
    t.Fatalf("register: %v", err)
  }

  _, _, _, err := auth.LoginUser(ctx, "dev2@example.com", "wrong")
  if apierr.KindOf(err) != apierr.KindForbidden {
    t.Fatalf("err = %v, want forbidden", err)
  }
}

func TestRegisterDuplicateEmail(t *testing.T) {
  auth := newAuthFixture(t)
  ctx := context.Background()

  if err := auth.RegisterUser(ctx, &types.User{Email: "dev3@example.com", Username: "dev3", Password: "pw123456"}); err != nil {
    t.Fatalf("register: %v", err)
  }
  err := auth.RegisterUser(ctx, &types.User{Email: "dev3@example.com", Username: "other", Password: "pw123456"})
  if apierr.KindOf(err) != apierr.KindConflict {
    t.Fatalf("err = %v, want conflict", err)
  }
}

func TestRejectedToken(t *testing.T) {
  auth := newAuthFixture(t)

  if _, err := auth.SetContextFromToken(context.Background(), "not-a-jwt"); err == nil {
    t.Fatal("garbage token accepted")
  }
}

func TestLogoutInvalidatesSession(t *testing.T) {
  auth := newAuthFixture(t)
  ctx := context.Background()

  user := &types.User{Email: "dev4@example.com", Username: "dev4", Password: "pw123456"}
  if err := auth.RegisterUser(ctx, user); err != nil {
    t.Fatalf("register: %v", err)
  }
  accessToken, _, _, err := auth.LoginUser(ctx, "dev4@example.com", "pw123456")
  if err != nil {
    t.Fatalf("login: %v", err)
  }

  authedCtx, err := auth.SetContextFromToken(ctx, accessToken)
  if err != nil {
    t.Fatalf("set context: %v", err)
  }
  if err := auth.LogoutUser(authedCtx); err != nil {
    t.Fatalf("logout: %v", err)
  }

  // The JWT may still be unexpired but the session row is gone.
  if _, err := auth.SetContextFromToken(ctx, accessToken); err == nil {
    t.Fatal("token accepted after logout")
  }
}
