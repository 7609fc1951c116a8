package permissions

import (
  "github.com/yungbote/ruleforge-backend/internal/types"
)

// Permission IDs match the seeded RBAC rows; keep in sync with db seed data.
const (
  // Rule management (1-7)
  CreateRule   = 1
  EditRule     = 2
  ViewRule     = 3
  TestRule     = 4
  ViewOwnRules = 5
  ViewAllRules = 6
  SaveVersion  = 7

  // Rule promotion (10-12)
  PromoteWIPToTest     = 10
  PromoteTestToPending = 11
  PromotePendingToProd = 12

  // Approval requests (20-24)
  ViewPendingApprovals       = 20
  ViewOwnRequests            = 21
  ViewAllRequests            = 22
  CreateApprovalRequest      = 23
  ViewApprovalRequestDetails = 24

  // Approval actions (30-33)
  ApproveWIPToTest     = 30
  ApproveTestToPending = 31
  ApprovePendingToProd = 32
  RejectApproval       = 33

  // Stage-specific create request (34-36)
  CreateWIPToTestRequest     = 34
  CreateTestToPendingRequest = 35
  CreatePendingToProdRequest = 36
)

// Role IDs matching the database.
const (
  RoleDeveloper = 1
  RoleQA        = 2
  RoleApprover  = 3
)

// RolePermissions is the seeded permission set per role.
var RolePermissions = map[int][]int{
  RoleDeveloper: {
    CreateRule, EditRule, ViewRule, TestRule, ViewOwnRules, SaveVersion,
    ViewOwnRequests, CreateWIPToTestRequest,
  },
  RoleQA: {
    ViewRule, TestRule, ViewAllRules,
    ViewPendingApprovals, ViewOwnRequests,
    ApproveWIPToTest, CreateTestToPendingRequest,
  },
  RoleApprover: {
    ViewRule, ViewAllRules,
    ViewPendingApprovals, ViewAllRequests, ViewApprovalRequestDetails,
    CreateApprovalRequest,
    ApproveWIPToTest, ApproveTestToPending, ApprovePendingToProd, RejectApproval,
  },
}

type edgePermissions struct {
  promote       int
  approve       int
  createRequest int
}

type edge struct {
  from types.Stage
  to   types.Stage
}

var stageTransitionPermissions = map[edge]edgePermissions{
  {types.StageWIP, types.StageTest}:     {promote: PromoteWIPToTest, approve: ApproveWIPToTest, createRequest: CreateWIPToTestRequest},
  {types.StageTest, types.StagePending}: {promote: PromoteTestToPending, approve: ApproveTestToPending, createRequest: CreateTestToPendingRequest},
  {types.StagePending, types.StageProd}: {promote: PromotePendingToProd, approve: ApprovePendingToProd, createRequest: CreatePendingToProdRequest},
}

func has(perms []int, id int) bool {
  for _, p := range perms {
    if p == id {
      return true
    }
  }
  return false
}

// CanRequest is a two-tier check: the stage-specific create-request permission
// for the edge, or the generic CreateApprovalRequest which covers every edge.
func CanRequest(perms []int, from, to types.Stage) bool {
  if has(perms, CreateApprovalRequest) {
    return true
  }
  ep, ok := stageTransitionPermissions[edge{from, to}]
  return ok && has(perms, ep.createRequest)
}

// CanDecide covers both approve and reject on an edge: the stage-specific
// approve permission, or the generic RejectApproval for the reject action class.
func CanDecide(perms []int, from, to types.Stage, action types.ApprovalAction) bool {
  ep, ok := stageTransitionPermissions[edge{from, to}]
  if ok && has(perms, ep.approve) {
    return true
  }
  if action == types.ApprovalActionRejected && has(perms, RejectApproval) {
    return true
  }
  return false
}

// Visibility tier for listing approvals, widest grant wins.
type ViewScope int

const (
  ViewScopeNone ViewScope = iota
  ViewScopeOwn            // only the caller's own requests
  ViewScopePending        // pending requests awaiting a decision
  ViewScopeAll
)

func ViewScopeFor(perms []int) ViewScope {
  switch {
  case has(perms, ViewAllRequests):
    return ViewScopeAll
  case has(perms, ViewPendingApprovals):
    return ViewScopePending
  case has(perms, ViewOwnRequests):
    return ViewScopeOwn
  default:
    return ViewScopeNone
  }
}
