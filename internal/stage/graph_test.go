package stage

import (
	"testing"

	"github.com/yungbote/ruleforge-backend/internal/types"
)

func TestIsLegalTransition(t *testing.T) {
	all := []types.Stage{types.StageWIP, types.StageTest, types.StagePending, types.StageProd}
	legal := map[[2]types.Stage]bool{
		{types.StageWIP, types.StageTest}:     true,
		{types.StageTest, types.StagePending}: true,
		{types.StagePending, types.StageProd}: true,
	}

	for _, from := range all {
		for _, to := range all {
			got := IsLegalTransition(from, to)
			want := legal[[2]types.Stage{from, to}]
			if got != want {
				t.Errorf("IsLegalTransition(%s, %s)=%v, want %v", from, to, got, want)
			}
		}
	}
}

func TestRejectionTarget(t *testing.T) {
	cases := []struct {
		name string
		from types.Stage
		to   types.Stage
		want types.Stage
	}{
		{name: "wip_to_test_rejects_to_wip", from: types.StageWIP, to: types.StageTest, want: types.StageWIP},
		{name: "test_to_pending_rejects_to_test", from: types.StageTest, to: types.StagePending, want: types.StageTest},
		{name: "pending_to_prod_rejects_to_test", from: types.StagePending, to: types.StageProd, want: types.StageTest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := RejectionTarget(tc.from, tc.to); got != tc.want {
				t.Fatalf("RejectionTarget(%s, %s)=%s, want %s", tc.from, tc.to, got, tc.want)
			}
		})
	}
}

func TestNext(t *testing.T) {
	if next, ok := Next(types.StageWIP); !ok || next != types.StageTest {
		t.Fatalf("Next(WIP)=%s,%v, want TEST,true", next, ok)
	}
	if _, ok := Next(types.StageProd); ok {
		t.Fatal("Next(PROD) should have no forward edge")
	}
}
