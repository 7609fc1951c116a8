package stage

import (
  "github.com/yungbote/ruleforge-backend/internal/types"
)

// The promotion pipeline is a total order with exactly three forward edges:
// WIP -> TEST -> PENDING -> PROD. Nothing else is a legal transition.
var forward = map[types.Stage]types.Stage{
  types.StageWIP:     types.StageTest,
  types.StageTest:    types.StagePending,
  types.StagePending: types.StageProd,
}

func IsLegalTransition(from, to types.Stage) bool {
  next, ok := forward[from]
  return ok && next == to
}

// Next returns the forward edge out of a stage. PROD has none.
func Next(from types.Stage) (types.Stage, bool) {
  next, ok := forward[from]
  return next, ok
}

// RejectionTarget is the stage a rejected transition falls back to. A rejected
// WIP->TEST request returns to WIP; every other rejection lands on TEST. In
// particular a rejected PENDING->PROD request goes back to TEST rather than
// PENDING, so a failed production promotion is always re-tested.
func RejectionTarget(from, to types.Stage) types.Stage {
  if from == types.StageWIP && to == types.StageTest {
    return types.StageWIP
  }
  return types.StageTest
}
