package permissions

import (
	"testing"

	"github.com/yungbote/ruleforge-backend/internal/types"
)

func TestCanRequest(t *testing.T) {
	cases := []struct {
		name  string
		perms []int
		from  types.Stage
		to    types.Stage
		want  bool
	}{
		{
			name:  "specific_permission_on_its_edge",
			perms: []int{CreateWIPToTestRequest},
			from:  types.StageWIP, to: types.StageTest,
			want: true,
		},
		{
			name:  "specific_permission_wrong_edge",
			perms: []int{CreateWIPToTestRequest},
			from:  types.StageTest, to: types.StagePending,
			want: false,
		},
		{
			name:  "generic_covers_any_edge",
			perms: []int{CreateApprovalRequest},
			from:  types.StagePending, to: types.StageProd,
			want: true,
		},
		{
			name:  "no_permissions",
			perms: nil,
			from:  types.StageWIP, to: types.StageTest,
			want: false,
		},
		{
			name:  "unrelated_permissions",
			perms: []int{ViewRule, SaveVersion},
			from:  types.StageTest, to: types.StagePending,
			want: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanRequest(tc.perms, tc.from, tc.to); got != tc.want {
				t.Fatalf("CanRequest(%v, %s, %s)=%v, want %v", tc.perms, tc.from, tc.to, got, tc.want)
			}
		})
	}
}

func TestCanDecide(t *testing.T) {
	cases := []struct {
		name   string
		perms  []int
		from   types.Stage
		to     types.Stage
		action types.ApprovalAction
		want   bool
	}{
		{
			name:  "approver_on_its_edge",
			perms: []int{ApproveTestToPending},
			from:  types.StageTest, to: types.StagePending,
			action: types.ApprovalActionApproved,
			want:   true,
		},
		{
			name:  "approver_wrong_edge",
			perms: []int{ApproveTestToPending},
			from:  types.StagePending, to: types.StageProd,
			action: types.ApprovalActionApproved,
			want:   false,
		},
		{
			name:  "edge_approver_may_also_reject",
			perms: []int{ApprovePendingToProd},
			from:  types.StagePending, to: types.StageProd,
			action: types.ApprovalActionRejected,
			want:   true,
		},
		{
			name:  "generic_reject_covers_any_edge",
			perms: []int{RejectApproval},
			from:  types.StageWIP, to: types.StageTest,
			action: types.ApprovalActionRejected,
			want:   true,
		},
		{
			name:  "generic_reject_does_not_grant_approve",
			perms: []int{RejectApproval},
			from:  types.StageWIP, to: types.StageTest,
			action: types.ApprovalActionApproved,
			want:   false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CanDecide(tc.perms, tc.from, tc.to, tc.action)
			if got != tc.want {
				t.Fatalf("CanDecide(%v, %s, %s, %s)=%v, want %v", tc.perms, tc.from, tc.to, tc.action, got, tc.want)
			}
		})
	}
}

func TestViewScopeFor(t *testing.T) {
	cases := []struct {
		name  string
		perms []int
		want  ViewScope
	}{
		{name: "all_wins_over_pending", perms: []int{ViewPendingApprovals, ViewAllRequests}, want: ViewScopeAll},
		{name: "pending", perms: []int{ViewPendingApprovals}, want: ViewScopePending},
		{name: "own", perms: []int{ViewOwnRequests}, want: ViewScopeOwn},
		{name: "none", perms: []int{ViewRule}, want: ViewScopeNone},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ViewScopeFor(tc.perms); got != tc.want {
				t.Fatalf("ViewScopeFor(%v)=%v, want %v", tc.perms, got, tc.want)
			}
		})
	}
}
