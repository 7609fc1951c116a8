package services

import (
  "context"
  "encoding/json"
  "strings"
  "testing"

  "github.com/google/uuid"
  "gorm.io/datatypes"

  "github.com/yungbote/ruleforge-backend/internal/apierr"
  "github.com/yungbote/ruleforge-backend/internal/types"
)

func (f *approvalFixture) seedWorkingCopy(t *testing.T, ruleID uuid.UUID, code string) *types.RuleFunction {
  t.Helper()
  function, err := f.functionService.Create(context.Background(), CreateRuleFunctionInput{
    RuleID:      ruleID,
    Code:        code,
    ReturnType:  "boolean",
    InputParams: datatypes.JSON(`[{"name": "amount", "type": "number"}]`),
  })
  if err != nil {
    t.Fatalf("seed working copy: %v", err)
  }
  return function
}

func TestCreateRuleFunction(t *testing.T) {
  f := newApprovalFixture(t)
  ctx := context.Background()

  rule, err := f.ruleService.Create(ctx, CreateRuleInput{Slug: "fee-cap", Name: "Fee cap"})
  if err != nil {
    t.Fatalf("create rule: %v", err)
  }

  function := f.seedWorkingCopy(t, rule.ID, "return amount < cap")
  if function.RuleID != rule.ID {
    t.Errorf("rule_id = %s, want %s", function.RuleID, rule.ID)
  }

  loaded, err := f.functionService.GetByRuleID(ctx, rule.ID)
  if err != nil {
    t.Fatalf("get by rule id: %v", err)
  }
  if loaded.ID != function.ID {
    t.Errorf("loaded %s, want %s", loaded.ID, function.ID)
  }
}

func TestCreateRuleFunctionOnePerRule(t *testing.T) {
  f := newApprovalFixture(t)
  ctx := context.Background()

  rule, err := f.ruleService.Create(ctx, CreateRuleInput{Slug: "limit-cap", Name: "Limit cap"})
  if err != nil {
    t.Fatalf("create rule: %v", err)
  }
  f.seedWorkingCopy(t, rule.ID, "return amount < cap")

  _, err = f.functionService.Create(ctx, CreateRuleFunctionInput{RuleID: rule.ID, Code: "return true"})
  if apierr.KindOf(err) != apierr.KindConflict {
    t.Fatalf("second working copy: err = %v, want conflict", err)
  }
}

func TestCreateRuleFunctionUnknownRule(t *testing.T) {
  f := newApprovalFixture(t)

  _, err := f.functionService.Create(context.Background(), CreateRuleFunctionInput{
    RuleID: uuid.New(),
    Code:   "return true",
  })
  if apierr.KindOf(err) != apierr.KindNotFound {
    t.Fatalf("err = %v, want not found", err)
  }
}

func TestStepTypeValidation(t *testing.T) {
  f := newApprovalFixture(t)
  ctx := context.Background()

  rule, err := f.ruleService.Create(ctx, CreateRuleInput{Slug: "rate-cap", Name: "Rate cap"})
  if err != nil {
    t.Fatalf("create rule: %v", err)
  }
  function := f.seedWorkingCopy(t, rule.ID, "return rate < cap")

  unknownSub := uuid.New()
  cases := []struct {
    name string
    in   CreateRuleFunctionStepInput
  }{
    {
      "subfunction_without_id",
      CreateRuleFunctionStepInput{ID: "s1", RuleFunctionID: function.ID, Type: types.StepSubFunction, Sequence: 1},
    },
    {
      "subfunction_unknown",
      CreateRuleFunctionStepInput{ID: "s2", RuleFunctionID: function.ID, Type: types.StepSubFunction, Sequence: 2, SubfunctionID: &unknownSub},
    },
    {
      "condition_without_conditions",
      CreateRuleFunctionStepInput{ID: "s3", RuleFunctionID: function.ID, Type: types.StepCondition, Sequence: 3},
    },
    {
      "output_without_data",
      CreateRuleFunctionStepInput{ID: "s4", RuleFunctionID: function.ID, Type: types.StepOutput, Sequence: 4},
    },
  }
  for _, tc := range cases {
    t.Run(tc.name, func(t *testing.T) {
      _, err := f.stepService.Create(ctx, tc.in)
      if apierr.KindOf(err) != apierr.KindValidation {
        t.Fatalf("err = %v, want validation error", err)
      }
    })
  }
}

func TestStepDuplicateIDAndSequence(t *testing.T) {
  f := newApprovalFixture(t)
  ctx := context.Background()

  rule, err := f.ruleService.Create(ctx, CreateRuleInput{Slug: "dup-check", Name: "Dup check"})
  if err != nil {
    t.Fatalf("create rule: %v", err)
  }
  function := f.seedWorkingCopy(t, rule.ID, "return true")

  if _, err := f.stepService.Create(ctx, CreateRuleFunctionStepInput{
    ID:             "step-1",
    RuleFunctionID: function.ID,
    Type:           types.StepOutput,
    Sequence:       1,
    OutputData:     datatypes.JSON(`{"result": true}`),
  }); err != nil {
    t.Fatalf("create step: %v", err)
  }

  _, err = f.stepService.Create(ctx, CreateRuleFunctionStepInput{
    ID:             "step-1",
    RuleFunctionID: function.ID,
    Type:           types.StepOutput,
    Sequence:       2,
    OutputData:     datatypes.JSON(`{"result": true}`),
  })
  if apierr.KindOf(err) != apierr.KindConflict {
    t.Fatalf("duplicate step id: err = %v, want conflict", err)
  }

  _, err = f.stepService.Create(ctx, CreateRuleFunctionStepInput{
    ID:             "step-2",
    RuleFunctionID: function.ID,
    Type:           types.StepOutput,
    Sequence:       1,
    OutputData:     datatypes.JSON(`{"result": true}`),
  })
  if apierr.KindOf(err) != apierr.KindConflict {
    t.Fatalf("duplicate sequence: err = %v, want conflict", err)
  }

  // The same step id is fine under a different rule's working copy.
  otherRule, err := f.ruleService.Create(ctx, CreateRuleInput{Slug: "dup-check-2", Name: "Dup check 2"})
  if err != nil {
    t.Fatalf("create second rule: %v", err)
  }
  otherFunction := f.seedWorkingCopy(t, otherRule.ID, "return false")
  if _, err := f.stepService.Create(ctx, CreateRuleFunctionStepInput{
    ID:             "step-1",
    RuleFunctionID: otherFunction.ID,
    Type:           types.StepOutput,
    Sequence:       1,
    OutputData:     datatypes.JSON(`{"result": false}`),
  }); err != nil {
    t.Fatalf("same step id in another working copy: %v", err)
  }
}

func TestSaveVersionSnapshotsWorkingCopy(t *testing.T) {
  f := newApprovalFixture(t)
  ctx := context.Background()

  rule, err := f.ruleService.Create(ctx, CreateRuleInput{Slug: "snapshot-check", Name: "Snapshot check"})
  if err != nil {
    t.Fatalf("create rule: %v", err)
  }
  function := f.seedWorkingCopy(t, rule.ID, "return amount < limit")

  for i, id := range []string{"second", "first"} {
    if _, err := f.stepService.Create(ctx, CreateRuleFunctionStepInput{
      ID:             id,
      RuleFunctionID: function.ID,
      Type:           types.StepOutput,
      Sequence:       2 - i,
      OutputData:     datatypes.JSON(`{"result": true}`),
    }); err != nil {
      t.Fatalf("create step %s: %v", id, err)
    }
  }

  version, err := f.ruleService.SaveVersion(ctx, rule.ID, SaveVersionInput{CreatedBy: "dev1"})
  if err != nil {
    t.Fatalf("save version: %v", err)
  }

  if version.RuleFunctionCode != "return amount < limit" {
    t.Errorf("snapshot code = %q, want the working copy code", version.RuleFunctionCode)
  }
  if string(version.RuleFunctionInputParams) != string(function.InputParams) {
    t.Errorf("snapshot input params = %s", version.RuleFunctionInputParams)
  }

  var steps []types.RuleFunctionStep
  if err := json.Unmarshal(version.RuleSteps, &steps); err != nil {
    t.Fatalf("unmarshal snapshot steps: %v", err)
  }
  if len(steps) != 2 {
    t.Fatalf("snapshot steps = %d, want 2", len(steps))
  }
  if steps[0].ID != "first" || steps[1].ID != "second" {
    t.Errorf("snapshot order = %s, %s, want sequence order", steps[0].ID, steps[1].ID)
  }
}

func TestSaveVersionWithoutCodeOrWorkingCopy(t *testing.T) {
  f := newApprovalFixture(t)
  ctx := context.Background()

  rule, err := f.ruleService.Create(ctx, CreateRuleInput{Slug: "empty-check", Name: "Empty check"})
  if err != nil {
    t.Fatalf("create rule: %v", err)
  }

  _, err = f.ruleService.SaveVersion(ctx, rule.ID, SaveVersionInput{CreatedBy: "dev1"})
  if apierr.KindOf(err) != apierr.KindValidation {
    t.Fatalf("err = %v, want validation error", err)
  }
  if err != nil && !strings.Contains(err.Error(), "working copy") {
    t.Errorf("err = %v, want a working copy hint", err)
  }
}
