package services

import (
  "context"
  "errors"
  "testing"

  "github.com/google/uuid"
  "gorm.io/driver/sqlite"
  "gorm.io/gorm"

  "github.com/yungbote/ruleforge-backend/internal/apierr"
  "github.com/yungbote/ruleforge-backend/internal/db"
  "github.com/yungbote/ruleforge-backend/internal/logger"
  "github.com/yungbote/ruleforge-backend/internal/permissions"
  "github.com/yungbote/ruleforge-backend/internal/repos"
  "github.com/yungbote/ruleforge-backend/internal/requestdata"
  "github.com/yungbote/ruleforge-backend/internal/types"
)

type approvalFixture struct {
  db              *gorm.DB
  approvalService ApprovalService
  ruleService     RuleService
  ruleRepo        repos.RuleRepo
  versionRepo     repos.RuleVersionRepo
  approvalRepo    repos.RuleApprovalRepo
  historyRepo     repos.RuleStageHistoryRepo
  functionRepo    repos.RuleFunctionRepo
  stepRepo        repos.RuleFunctionStepRepo
  subfunctionRepo repos.SubfunctionRepo
  functionService RuleFunctionService
  stepService     RuleFunctionStepService
}

func newApprovalFixture(t *testing.T) *approvalFixture {
  t.Helper()

  gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
  if err != nil {
    t.Fatalf("open sqlite: %v", err)
  }
  sqlDB, err := gdb.DB()
  if err != nil {
    t.Fatalf("get sql db: %v", err)
  }
  // A single connection keeps every query on the same in-memory database.
  sqlDB.SetMaxOpenConns(1)

  if err := gdb.AutoMigrate(
    &types.User{},
    &types.UserToken{},
    &types.Category{},
    &types.Subfunction{},
    &types.Rule{},
    &types.RuleFunction{},
    &types.RuleFunctionStep{},
    &types.RuleVersion{},
    &types.RuleApproval{},
    &types.RuleStageHistory{},
  ); err != nil {
    t.Fatalf("auto migrate: %v", err)
  }
  if err := db.ApplyConstraints(gdb); err != nil {
    t.Fatalf("apply constraints: %v", err)
  }

  log, err := logger.New("development")
  if err != nil {
    t.Fatalf("init logger: %v", err)
  }

  ruleRepo := repos.NewRuleRepo(gdb, log)
  versionRepo := repos.NewRuleVersionRepo(gdb, log)
  approvalRepo := repos.NewRuleApprovalRepo(gdb, log)
  historyRepo := repos.NewRuleStageHistoryRepo(gdb, log)
  functionRepo := repos.NewRuleFunctionRepo(gdb, log)
  stepRepo := repos.NewRuleFunctionStepRepo(gdb, log)
  subfunctionRepo := repos.NewSubfunctionRepo(gdb, log)

  return &approvalFixture{
    db:              gdb,
    approvalService: NewApprovalService(gdb, log, ruleRepo, versionRepo, approvalRepo, historyRepo),
    ruleService:     NewRuleService(gdb, log, ruleRepo, versionRepo, historyRepo, functionRepo, stepRepo),
    ruleRepo:        ruleRepo,
    versionRepo:     versionRepo,
    approvalRepo:    approvalRepo,
    historyRepo:     historyRepo,
    functionRepo:    functionRepo,
    stepRepo:        stepRepo,
    subfunctionRepo: subfunctionRepo,
    functionService: NewRuleFunctionService(gdb, log, functionRepo, stepRepo, ruleRepo),
    stepService:     NewRuleFunctionStepService(gdb, log, stepRepo, functionRepo, subfunctionRepo),
  }
}

// seedRuleVersion inserts a rule whose version pointer matches the single
// version snapshot, both at the given stage.
func (f *approvalFixture) seedRuleVersion(t *testing.T, st types.Stage) (*types.Rule, *types.RuleVersion) {
  t.Helper()

  rule := &types.Rule{
    ID:           uuid.New(),
    Slug:         "rule-" + uuid.NewString()[:8],
    Name:         "Fee threshold check",
    Status:       st,
    VersionMajor: 0,
    VersionMinor: 1,
    Author:       "dev1",
  }
  if _, err := f.ruleRepo.Create(context.Background(), nil, []*types.Rule{rule}); err != nil {
    t.Fatalf("seed rule: %v", err)
  }

  version := &types.RuleVersion{
    ID:           uuid.New(),
    RuleID:       rule.ID,
    MajorVersion: 0,
    MinorVersion: 1,
    Stage:        st,
    CreatedBy:    "dev1",
  }
  if _, err := f.versionRepo.Create(context.Background(), nil, []*types.RuleVersion{version}); err != nil {
    t.Fatalf("seed version: %v", err)
  }
  return rule, version
}

func actorCtx(username string, perms ...int) context.Context {
  return requestdata.WithRequestData(context.Background(), &requestdata.RequestData{
    UserID:      uuid.New(),
    Username:    username,
    Permissions: perms,
  })
}

func (f *approvalFixture) request(t *testing.T, ctx context.Context, rule *types.Rule, version *types.RuleVersion, from, to types.Stage) *types.RuleApproval {
  t.Helper()
  approval, err := f.approvalService.Request(ctx, CreateApprovalInput{
    RuleVersionID:  version.ID,
    RuleID:         rule.ID,
    FromStage:      from,
    ToStage:        to,
    RequestedBy:    requestdata.GetRequestData(ctx).Username,
    RequestComment: "please promote",
  })
  if err != nil {
    t.Fatalf("request approval: %v", err)
  }
  return approval
}

func (f *approvalFixture) versionStage(t *testing.T, versionID uuid.UUID) types.Stage {
  t.Helper()
  versions, err := f.versionRepo.GetByIDs(context.Background(), nil, []uuid.UUID{versionID})
  if err != nil || len(versions) == 0 {
    t.Fatalf("reload version: %v", err)
  }
  return versions[0].Stage
}

func (f *approvalFixture) ruleStatus(t *testing.T, ruleID uuid.UUID) types.Stage {
  t.Helper()
  rules, err := f.ruleRepo.GetByIDs(context.Background(), nil, []uuid.UUID{ruleID})
  if err != nil || len(rules) == 0 {
    t.Fatalf("reload rule: %v", err)
  }
  return rules[0].Status
}

func (f *approvalFixture) history(t *testing.T, versionID uuid.UUID) []*types.RuleStageHistory {
  t.Helper()
  rows, err := f.historyRepo.GetByVersionIDs(context.Background(), nil, []uuid.UUID{versionID})
  if err != nil {
    t.Fatalf("load history: %v", err)
  }
  return rows
}

func TestRequestApproval(t *testing.T) {
  f := newApprovalFixture(t)
  rule, version := f.seedRuleVersion(t, types.StageWIP)

  ctx := actorCtx("dev1", permissions.CreateWIPToTestRequest)
  approval := f.request(t, ctx, rule, version, types.StageWIP, types.StageTest)

  if approval.Status != types.ApprovalStatusPending {
    t.Errorf("status = %s, want PENDING", approval.Status)
  }
  if approval.Action != types.ApprovalActionRequested {
    t.Errorf("action = %s, want REQUESTED", approval.Action)
  }
  if got := f.versionStage(t, version.ID); got != types.StageWIP {
    t.Errorf("version stage moved to %s on request", got)
  }
  if rows := f.history(t, version.ID); len(rows) != 0 {
    t.Errorf("request wrote %d history rows, want 0", len(rows))
  }
}

func TestRequestApprovalIllegalTransition(t *testing.T) {
  f := newApprovalFixture(t)
  rule, version := f.seedRuleVersion(t, types.StageWIP)
  ctx := actorCtx("dev1", permissions.CreateApprovalRequest)

  cases := []struct {
    name string
    from types.Stage
    to   types.Stage
  }{
    {"skip_stage", types.StageWIP, types.StagePending},
    {"wip_to_prod", types.StageWIP, types.StageProd},
    {"backwards", types.StageTest, types.StageWIP},
    {"self_loop", types.StageTest, types.StageTest},
  }
  for _, tc := range cases {
    t.Run(tc.name, func(t *testing.T) {
      _, err := f.approvalService.Request(ctx, CreateApprovalInput{
        RuleVersionID: version.ID,
        RuleID:        rule.ID,
        FromStage:     tc.from,
        ToStage:       tc.to,
        RequestedBy:   "dev1",
      })
      if apierr.KindOf(err) != apierr.KindValidation {
        t.Fatalf("err = %v, want validation error", err)
      }
    })
  }

  pending, err := f.approvalRepo.GetPendingByVersionIDs(context.Background(), nil, []uuid.UUID{version.ID})
  if err != nil {
    t.Fatalf("load pending: %v", err)
  }
  if len(pending) != 0 {
    t.Errorf("illegal transitions created %d approvals", len(pending))
  }
}

func TestRequestApprovalPermissionDenied(t *testing.T) {
  f := newApprovalFixture(t)
  rule, version := f.seedRuleVersion(t, types.StageTest)

  // Developer holds only the WIP to TEST create permission.
  ctx := actorCtx("dev1", permissions.CreateWIPToTestRequest)
  _, err := f.approvalService.Request(ctx, CreateApprovalInput{
    RuleVersionID: version.ID,
    RuleID:        rule.ID,
    FromStage:     types.StageTest,
    ToStage:       types.StagePending,
    RequestedBy:   "dev1",
  })
  if apierr.KindOf(err) != apierr.KindForbidden {
    t.Fatalf("err = %v, want forbidden", err)
  }

  // The generic create permission covers every edge.
  ctx = actorCtx("approver1", permissions.CreateApprovalRequest)
  f.request(t, ctx, rule, version, types.StageTest, types.StagePending)
}

func TestRequestApprovalDuplicatePending(t *testing.T) {
  f := newApprovalFixture(t)
  rule, version := f.seedRuleVersion(t, types.StageWIP)
  ctx := actorCtx("dev1", permissions.CreateWIPToTestRequest)

  f.request(t, ctx, rule, version, types.StageWIP, types.StageTest)

  _, err := f.approvalService.Request(ctx, CreateApprovalInput{
    RuleVersionID: version.ID,
    RuleID:        rule.ID,
    FromStage:     types.StageWIP,
    ToStage:       types.StageTest,
    RequestedBy:   "dev1",
  })
  if apierr.KindOf(err) != apierr.KindConflict {
    t.Fatalf("err = %v, want conflict", err)
  }
}

func TestDuplicatePendingBlockedByIndex(t *testing.T) {
  f := newApprovalFixture(t)
  rule, version := f.seedRuleVersion(t, types.StageWIP)
  ctx := actorCtx("dev1", permissions.CreateWIPToTestRequest)

  approval := f.request(t, ctx, rule, version, types.StageWIP, types.StageTest)

  // Insert straight through the repo, the way a second concurrent request
  // lands after both pre-checks saw no pending row. The partial unique index
  // must refuse it.
  dup := &types.RuleApproval{
    ID:            uuid.New(),
    RuleVersionID: version.ID,
    RuleID:        rule.ID,
    FromStage:     types.StageWIP,
    ToStage:       types.StageTest,
    Status:        types.ApprovalStatusPending,
    Action:        types.ApprovalActionRequested,
    RequestedBy:   "dev2",
  }
  _, err := f.approvalRepo.Create(context.Background(), nil, []*types.RuleApproval{dup})
  if !errors.Is(err, gorm.ErrDuplicatedKey) {
    t.Fatalf("second pending insert: err = %v, want duplicated key", err)
  }

  // Resolving the first frees the slot.
  qaCtx := actorCtx("qa1", permissions.ApproveWIPToTest)
  if _, err := f.approvalService.Decide(qaCtx, approval.ID, DecideInput{
    Action:   types.ApprovalActionApproved,
    ActionBy: "qa1",
  }); err != nil {
    t.Fatalf("decide: %v", err)
  }

  dup.ID = uuid.New()
  if _, err := f.approvalRepo.Create(context.Background(), nil, []*types.RuleApproval{dup}); err != nil {
    t.Fatalf("pending insert after resolve: %v", err)
  }
}

func TestRequestAfterWithdraw(t *testing.T) {
  f := newApprovalFixture(t)
  rule, version := f.seedRuleVersion(t, types.StageWIP)
  ctx := actorCtx("dev1", permissions.CreateWIPToTestRequest)

  approval := f.request(t, ctx, rule, version, types.StageWIP, types.StageTest)
  if _, err := f.approvalService.Withdraw(ctx, approval.ID, "dev1"); err != nil {
    t.Fatalf("withdraw: %v", err)
  }

  // Withdrawal frees the slot; a new request for the same version is fine.
  f.request(t, ctx, rule, version, types.StageWIP, types.StageTest)
}

func TestDecideApprove(t *testing.T) {
  f := newApprovalFixture(t)
  rule, version := f.seedRuleVersion(t, types.StageWIP)
  devCtx := actorCtx("dev1", permissions.CreateWIPToTestRequest)
  approval := f.request(t, devCtx, rule, version, types.StageWIP, types.StageTest)

  qaCtx := actorCtx("qa1", permissions.ApproveWIPToTest)
  resolved, err := f.approvalService.Decide(qaCtx, approval.ID, DecideInput{
    Action:        types.ApprovalActionApproved,
    ActionBy:      "qa1",
    ActionComment: "looks good",
  })
  if err != nil {
    t.Fatalf("decide: %v", err)
  }

  if resolved.Status != types.ApprovalStatusApproved {
    t.Errorf("status = %s, want APPROVED", resolved.Status)
  }
  if resolved.MovedToStage == nil || *resolved.MovedToStage != types.StageTest {
    t.Errorf("moved_to_stage = %v, want TEST", resolved.MovedToStage)
  }
  if got := f.versionStage(t, version.ID); got != types.StageTest {
    t.Errorf("version stage = %s, want TEST", got)
  }
  if got := f.ruleStatus(t, rule.ID); got != types.StageTest {
    t.Errorf("rule status = %s, want TEST", got)
  }

  rows := f.history(t, version.ID)
  if len(rows) != 1 {
    t.Fatalf("history rows = %d, want 1", len(rows))
  }
  if rows[0].FromStage != types.StageWIP || rows[0].ToStage != types.StageTest {
    t.Errorf("history %s -> %s, want WIP -> TEST", rows[0].FromStage, rows[0].ToStage)
  }
  if rows[0].Reason != "Approved: looks good" {
    t.Errorf("history reason = %q", rows[0].Reason)
  }
  if rows[0].ChangedBy != "qa1" {
    t.Errorf("history changed_by = %q", rows[0].ChangedBy)
  }
}

func TestDecideRejectRouting(t *testing.T) {
  cases := []struct {
    name       string
    from       types.Stage
    to         types.Stage
    wantTarget types.Stage
  }{
    {"wip_to_test_rejects_to_wip", types.StageWIP, types.StageTest, types.StageWIP},
    {"test_to_pending_rejects_to_test", types.StageTest, types.StagePending, types.StageTest},
    {"pending_to_prod_rejects_to_test", types.StagePending, types.StageProd, types.StageTest},
  }
  for _, tc := range cases {
    t.Run(tc.name, func(t *testing.T) {
      f := newApprovalFixture(t)
      rule, version := f.seedRuleVersion(t, tc.from)
      reqCtx := actorCtx("requester", permissions.CreateApprovalRequest)
      approval := f.request(t, reqCtx, rule, version, tc.from, tc.to)

      deciderCtx := actorCtx("approver1",
        permissions.ApproveWIPToTest,
        permissions.ApproveTestToPending,
        permissions.ApprovePendingToProd,
      )
      resolved, err := f.approvalService.Decide(deciderCtx, approval.ID, DecideInput{
        Action:   types.ApprovalActionRejected,
        ActionBy: "approver1",
      })
      if err != nil {
        t.Fatalf("decide: %v", err)
      }

      if resolved.Status != types.ApprovalStatusRejected {
        t.Errorf("status = %s, want REJECTED", resolved.Status)
      }
      if got := f.versionStage(t, version.ID); got != tc.wantTarget {
        t.Errorf("version stage = %s, want %s", got, tc.wantTarget)
      }
      if got := f.ruleStatus(t, rule.ID); got != tc.wantTarget {
        t.Errorf("rule status = %s, want %s", got, tc.wantTarget)
      }

      rows := f.history(t, version.ID)
      if len(rows) != 1 {
        t.Fatalf("history rows = %d, want 1", len(rows))
      }
      if rows[0].FromStage != tc.from || rows[0].ToStage != tc.wantTarget {
        t.Errorf("history %s -> %s, want %s -> %s", rows[0].FromStage, rows[0].ToStage, tc.from, tc.wantTarget)
      }
      if rows[0].Reason != "Rejected: No comment" {
        t.Errorf("history reason = %q", rows[0].Reason)
      }
    })
  }
}

func TestDecideGenericRejectPermission(t *testing.T) {
  f := newApprovalFixture(t)
  rule, version := f.seedRuleVersion(t, types.StageWIP)
  reqCtx := actorCtx("dev1", permissions.CreateWIPToTestRequest)
  approval := f.request(t, reqCtx, rule, version, types.StageWIP, types.StageTest)

  // RejectApproval alone cannot approve.
  rejectOnlyCtx := actorCtx("gate1", permissions.RejectApproval)
  _, err := f.approvalService.Decide(rejectOnlyCtx, approval.ID, DecideInput{
    Action:   types.ApprovalActionApproved,
    ActionBy: "gate1",
  })
  if apierr.KindOf(err) != apierr.KindForbidden {
    t.Fatalf("approve with reject-only permission: err = %v, want forbidden", err)
  }

  // But it can reject any edge.
  resolved, err := f.approvalService.Decide(rejectOnlyCtx, approval.ID, DecideInput{
    Action:   types.ApprovalActionRejected,
    ActionBy: "gate1",
  })
  if err != nil {
    t.Fatalf("reject: %v", err)
  }
  if resolved.Status != types.ApprovalStatusRejected {
    t.Errorf("status = %s, want REJECTED", resolved.Status)
  }
}

func TestDecideAlreadyResolved(t *testing.T) {
  f := newApprovalFixture(t)
  rule, version := f.seedRuleVersion(t, types.StageWIP)
  reqCtx := actorCtx("dev1", permissions.CreateWIPToTestRequest)
  approval := f.request(t, reqCtx, rule, version, types.StageWIP, types.StageTest)

  qaCtx := actorCtx("qa1", permissions.ApproveWIPToTest)
  if _, err := f.approvalService.Decide(qaCtx, approval.ID, DecideInput{
    Action:   types.ApprovalActionApproved,
    ActionBy: "qa1",
  }); err != nil {
    t.Fatalf("first decide: %v", err)
  }

  _, err := f.approvalService.Decide(qaCtx, approval.ID, DecideInput{
    Action:   types.ApprovalActionRejected,
    ActionBy: "qa1",
  })
  if apierr.KindOf(err) != apierr.KindInvalidState {
    t.Fatalf("second decide: err = %v, want invalid state", err)
  }

  // The losing decision must leave no trace.
  if got := f.versionStage(t, version.ID); got != types.StageTest {
    t.Errorf("version stage = %s, want TEST", got)
  }
  if rows := f.history(t, version.ID); len(rows) != 1 {
    t.Errorf("history rows = %d, want exactly 1", len(rows))
  }
}

func TestWithdraw(t *testing.T) {
  f := newApprovalFixture(t)
  rule, version := f.seedRuleVersion(t, types.StageTest)
  reqCtx := actorCtx("qa1", permissions.CreateTestToPendingRequest)
  approval := f.request(t, reqCtx, rule, version, types.StageTest, types.StagePending)

  resolved, err := f.approvalService.Withdraw(context.Background(), approval.ID, "qa1")
  if err != nil {
    t.Fatalf("withdraw: %v", err)
  }

  if resolved.Status != types.ApprovalStatusWithdrawn {
    t.Errorf("status = %s, want WITHDRAWN", resolved.Status)
  }
  if got := f.versionStage(t, version.ID); got != types.StageTest {
    t.Errorf("version stage = %s, want unchanged TEST", got)
  }
  if got := f.ruleStatus(t, rule.ID); got != types.StageTest {
    t.Errorf("rule status = %s, want unchanged TEST", got)
  }

  rows := f.history(t, version.ID)
  if len(rows) != 1 {
    t.Fatalf("history rows = %d, want 1", len(rows))
  }
  if rows[0].FromStage != types.StageTest || rows[0].ToStage != types.StageTest {
    t.Errorf("history %s -> %s, want TEST -> TEST", rows[0].FromStage, rows[0].ToStage)
  }
  if rows[0].Reason != "Approval request withdrawn" {
    t.Errorf("history reason = %q", rows[0].Reason)
  }

  _, err = f.approvalService.Withdraw(context.Background(), approval.ID, "qa1")
  if apierr.KindOf(err) != apierr.KindInvalidState {
    t.Fatalf("second withdraw: err = %v, want invalid state", err)
  }
}

func TestDecideOldVersionLeavesRuleStatus(t *testing.T) {
  f := newApprovalFixture(t)
  rule, oldVersion := f.seedRuleVersion(t, types.StageWIP)

  // Advance the rule's pointer past the seeded snapshot.
  newVersion := &types.RuleVersion{
    ID:           uuid.New(),
    RuleID:       rule.ID,
    MajorVersion: 0,
    MinorVersion: 2,
    Stage:        types.StageWIP,
  }
  if _, err := f.versionRepo.Create(context.Background(), nil, []*types.RuleVersion{newVersion}); err != nil {
    t.Fatalf("seed second version: %v", err)
  }
  if err := f.ruleRepo.SetVersionPointer(context.Background(), nil, rule.ID, 0, 2); err != nil {
    t.Fatalf("advance pointer: %v", err)
  }

  reqCtx := actorCtx("dev1", permissions.CreateWIPToTestRequest)
  approval := f.request(t, reqCtx, rule, oldVersion, types.StageWIP, types.StageTest)

  qaCtx := actorCtx("qa1", permissions.ApproveWIPToTest)
  if _, err := f.approvalService.Decide(qaCtx, approval.ID, DecideInput{
    Action:   types.ApprovalActionApproved,
    ActionBy: "qa1",
  }); err != nil {
    t.Fatalf("decide: %v", err)
  }

  // The old snapshot moves, the rule header stays on its current version.
  if got := f.versionStage(t, oldVersion.ID); got != types.StageTest {
    t.Errorf("old version stage = %s, want TEST", got)
  }
  if got := f.ruleStatus(t, rule.ID); got != types.StageWIP {
    t.Errorf("rule status = %s, want WIP", got)
  }
}

func TestListVisibilityScopes(t *testing.T) {
  f := newApprovalFixture(t)

  ruleA, versionA := f.seedRuleVersion(t, types.StageWIP)
  ruleB, versionB := f.seedRuleVersion(t, types.StageWIP)

  devACtx := actorCtx("devA", permissions.CreateWIPToTestRequest, permissions.ViewOwnRequests)
  devBCtx := actorCtx("devB", permissions.CreateWIPToTestRequest, permissions.ViewOwnRequests)
  approvalA := f.request(t, devACtx, ruleA, versionA, types.StageWIP, types.StageTest)
  f.request(t, devBCtx, ruleB, versionB, types.StageWIP, types.StageTest)

  // Resolve devA's request so one approval is no longer pending.
  qaCtx := actorCtx("qa1", permissions.ApproveWIPToTest, permissions.ViewPendingApprovals)
  if _, err := f.approvalService.Decide(qaCtx, approvalA.ID, DecideInput{
    Action:   types.ApprovalActionApproved,
    ActionBy: "qa1",
  }); err != nil {
    t.Fatalf("decide: %v", err)
  }

  t.Run("own_scope", func(t *testing.T) {
    approvals, _, err := f.approvalService.List(devACtx, repos.ApprovalListFilter{Status: "ALL"})
    if err != nil {
      t.Fatalf("list: %v", err)
    }
    if len(approvals) != 1 || approvals[0].RequestedBy != "devA" {
      t.Errorf("own scope returned %d approvals", len(approvals))
    }
  })

  t.Run("pending_scope", func(t *testing.T) {
    approvals, _, err := f.approvalService.List(qaCtx, repos.ApprovalListFilter{Status: "ALL"})
    if err != nil {
      t.Fatalf("list: %v", err)
    }
    if len(approvals) != 1 || approvals[0].Status != types.ApprovalStatusPending {
      t.Errorf("pending scope returned %d approvals", len(approvals))
    }
  })

  t.Run("all_scope", func(t *testing.T) {
    allCtx := actorCtx("approver1", permissions.ViewAllRequests)
    approvals, _, err := f.approvalService.List(allCtx, repos.ApprovalListFilter{Status: "ALL"})
    if err != nil {
      t.Fatalf("list: %v", err)
    }
    if len(approvals) != 2 {
      t.Errorf("all scope returned %d approvals, want 2", len(approvals))
    }
  })

  t.Run("no_scope", func(t *testing.T) {
    noneCtx := actorCtx("stranger")
    _, _, err := f.approvalService.List(noneCtx, repos.ApprovalListFilter{Status: "ALL"})
    if apierr.KindOf(err) != apierr.KindForbidden {
      t.Fatalf("err = %v, want forbidden", err)
    }
  })
}

func TestRequestVersionMismatch(t *testing.T) {
  f := newApprovalFixture(t)
  ruleA, _ := f.seedRuleVersion(t, types.StageWIP)
  _, versionB := f.seedRuleVersion(t, types.StageWIP)

  ctx := actorCtx("dev1", permissions.CreateWIPToTestRequest)
  _, err := f.approvalService.Request(ctx, CreateApprovalInput{
    RuleVersionID: versionB.ID,
    RuleID:        ruleA.ID,
    FromStage:     types.StageWIP,
    ToStage:       types.StageTest,
    RequestedBy:   "dev1",
  })
  if apierr.KindOf(err) != apierr.KindValidation {
    t.Fatalf("err = %v, want validation error", err)
  }
}
