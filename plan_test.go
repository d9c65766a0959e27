package osmsplit

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
)

func writePlanFile(t *testing.T, dir, content string) string {
	fileName := filepath.Join(dir, "plan.yaml")
	err := ioutil.WriteFile(fileName, []byte(content), 0644)
	if err != nil {
		t.Fatal(err)
	}
	return fileName
}

func TestLoadSplitPlan(t *testing.T) {
	dir, err := ioutil.TempDir("", "osmsplit")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	fileName := writePlanFile(t, dir, `keep_history_on: first
splits:
  - node: 101
    ways: [10, 20]
    new_way_ids: [-5]
  - node: 102
`)
	plan, err := LoadSplitPlan(fileName)
	if err != nil {
		t.Error(err)
		return
	}
	if plan.KeepHistoryOn != "first" {
		t.Errorf("Plan mode must be 'first', but got '%s'", plan.KeepHistoryOn)
	}
	if len(plan.Splits) != 2 {
		t.Errorf("Plan must contain 2 splits, but got %d", len(plan.Splits))
		return
	}
	if plan.Splits[0].Node != 101 || len(plan.Splits[0].Ways) != 2 || len(plan.Splits[0].NewWayIDs) != 1 {
		t.Errorf("First entry must be node 101 with 2 ways and 1 new way ID, but got %+v", plan.Splits[0])
	}
	if plan.Splits[1].Node != 102 || len(plan.Splits[1].Ways) != 0 {
		t.Errorf("Second entry must be node 102 without restrictions, but got %+v", plan.Splits[1])
	}

	actions := plan.Actions()
	if len(actions) != 2 {
		t.Errorf("Plan must produce 2 actions, but got %d", len(actions))
		return
	}
	if !equalWayIDs(actions[0].LimitWays(), 10, 20) {
		t.Errorf("First action way restriction must be [10 20], but got %v", actions[0].LimitWays())
	}
	if len(actions[1].LimitWays()) != 0 {
		t.Errorf("Second action must have no way restriction, but got %v", actions[1].LimitWays())
	}
	for i, action := range actions {
		if action.KeepHistoryOn() != KEEP_HISTORY_ON_FIRST {
			t.Errorf("Action %d mode must be %v, but got %v", i, KEEP_HISTORY_ON_FIRST, action.KeepHistoryOn())
		}
	}
}

func TestLoadSplitPlanErrors(t *testing.T) {
	dir, err := ioutil.TempDir("", "osmsplit")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	if _, err := LoadSplitPlan(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Errorf("Missing plan file must produce an error")
	}

	fileName := writePlanFile(t, dir, `keep_history_on: sideways
splits:
  - node: 101
`)
	if _, err := LoadSplitPlan(fileName); err == nil {
		t.Errorf("Unknown history mode must produce an error")
	}

	fileName = writePlanFile(t, dir, `keep_history_on: first
splits: []
`)
	if _, err := LoadSplitPlan(fileName); err == nil {
		t.Errorf("Plan without splits must produce an error")
	}

	fileName = writePlanFile(t, dir, `splits:
  - ways: [10]
`)
	if _, err := LoadSplitPlan(fileName); err == nil {
		t.Errorf("Plan entry without a node must produce an error")
	}
}
