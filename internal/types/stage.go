package types

import "fmt"

// Stage is a rule version's position in the promotion pipeline.
type Stage string

const (
  StageWIP     Stage = "WIP"
  StageTest    Stage = "TEST"
  StagePending Stage = "PENDING"
  StageProd    Stage = "PROD"
)

func ParseStage(s string) (Stage, error) {
  switch Stage(s) {
  case StageWIP, StageTest, StagePending, StageProd:
    return Stage(s), nil
  }
  return "", fmt.Errorf("unknown stage %q, must be one of: WIP, TEST, PENDING, PROD", s)
}

// ApprovalStatus is the lifecycle state of an approval request. PENDING is the
// only non-terminal state.
type ApprovalStatus string

const (
  ApprovalStatusPending   ApprovalStatus = "PENDING"
  ApprovalStatusApproved  ApprovalStatus = "APPROVED"
  ApprovalStatusRejected  ApprovalStatus = "REJECTED"
  ApprovalStatusWithdrawn ApprovalStatus = "WITHDRAWN"
)

func ParseApprovalStatus(s string) (ApprovalStatus, error) {
  switch ApprovalStatus(s) {
  case ApprovalStatusPending, ApprovalStatusApproved, ApprovalStatusRejected, ApprovalStatusWithdrawn:
    return ApprovalStatus(s), nil
  }
  return "", fmt.Errorf("unknown approval status %q, must be one of: PENDING, APPROVED, REJECTED, WITHDRAWN", s)
}

// ApprovalAction records the last action taken on an approval request.
type ApprovalAction string

const (
  ApprovalActionRequested ApprovalAction = "REQUESTED"
  ApprovalActionApproved  ApprovalAction = "APPROVED"
  ApprovalActionRejected  ApprovalAction = "REJECTED"
  ApprovalActionWithdrawn ApprovalAction = "WITHDRAWN"
)

// ParseDecision accepts the two terminal decide actions only.
func ParseDecision(s string) (ApprovalAction, error) {
  switch ApprovalAction(s) {
  case ApprovalActionApproved, ApprovalActionRejected:
    return ApprovalAction(s), nil
  }
  return "", fmt.Errorf("action must be APPROVED or REJECTED, got %q", s)
}
