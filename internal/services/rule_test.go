package services

import (
  "context"
  "testing"

  "github.com/yungbote/ruleforge-backend/internal/apierr"
  "github.com/yungbote/ruleforge-backend/internal/types"
)

func TestCreateRuleDuplicateSlug(t *testing.T) {
  f := newApprovalFixture(t)
  ctx := context.Background()

  if _, err := f.ruleService.Create(ctx, CreateRuleInput{Slug: "fee-check", Name: "Fee check", Author: "dev1"}); err != nil {
    t.Fatalf("create rule: %v", err)
  }
  _, err := f.ruleService.Create(ctx, CreateRuleInput{Slug: "fee-check", Name: "Fee check again", Author: "dev2"})
  if apierr.KindOf(err) != apierr.KindConflict {
    t.Fatalf("err = %v, want conflict", err)
  }
}

func TestCreateRuleStartsInWIP(t *testing.T) {
  f := newApprovalFixture(t)

  rule, err := f.ruleService.Create(context.Background(), CreateRuleInput{Slug: "limit-check", Name: "Limit check"})
  if err != nil {
    t.Fatalf("create rule: %v", err)
  }
  if rule.Status != types.StageWIP {
    t.Errorf("status = %s, want WIP", rule.Status)
  }
  if rule.VersionMajor != 0 || rule.VersionMinor != 1 {
    t.Errorf("version pointer = %d.%d, want 0.1", rule.VersionMajor, rule.VersionMinor)
  }
}

func TestSaveVersion(t *testing.T) {
  f := newApprovalFixture(t)
  ctx := context.Background()

  rule, err := f.ruleService.Create(ctx, CreateRuleInput{Slug: "rate-check", Name: "Rate check"})
  if err != nil {
    t.Fatalf("create rule: %v", err)
  }

  // No explicit pair: the snapshot lands on the rule's current pointer.
  version, err := f.ruleService.SaveVersion(ctx, rule.ID, SaveVersionInput{
    RuleFunctionCode: "return amount < limit",
    CreatedBy:        "dev1",
  })
  if err != nil {
    t.Fatalf("save version: %v", err)
  }
  if version.MajorVersion != 0 || version.MinorVersion != 1 {
    t.Errorf("version = %d.%d, want 0.1", version.MajorVersion, version.MinorVersion)
  }
  if version.Stage != types.StageWIP {
    t.Errorf("stage = %s, want WIP", version.Stage)
  }

  // Same pair again is a conflict, never an overwrite.
  _, err = f.ruleService.SaveVersion(ctx, rule.ID, SaveVersionInput{RuleFunctionCode: "changed"})
  if apierr.KindOf(err) != apierr.KindConflict {
    t.Fatalf("duplicate version: err = %v, want conflict", err)
  }

  // An explicit pair advances the rule's pointer.
  major, minor := 0, 2
  if _, err := f.ruleService.SaveVersion(ctx, rule.ID, SaveVersionInput{
    MajorVersion:     &major,
    MinorVersion:     &minor,
    RuleFunctionCode: "return amount <= limit",
  }); err != nil {
    t.Fatalf("save explicit version: %v", err)
  }

  reloaded, err := f.ruleService.GetByID(ctx, rule.ID)
  if err != nil {
    t.Fatalf("reload rule: %v", err)
  }
  if reloaded.VersionMajor != 0 || reloaded.VersionMinor != 2 {
    t.Errorf("pointer = %d.%d, want 0.2", reloaded.VersionMajor, reloaded.VersionMinor)
  }

  versions, err := f.ruleService.ListVersions(ctx, rule.ID)
  if err != nil {
    t.Fatalf("list versions: %v", err)
  }
  if len(versions) != 2 {
    t.Errorf("versions = %d, want 2", len(versions))
  }
}

func TestVersionHistoryUnknownVersion(t *testing.T) {
  f := newApprovalFixture(t)
  _, version := f.seedRuleVersion(t, types.StageWIP)

  history, err := f.ruleService.VersionHistory(context.Background(), version.ID)
  if err != nil {
    t.Fatalf("version history: %v", err)
  }
  if len(history) != 0 {
    t.Errorf("fresh version has %d history rows", len(history))
  }
}
