package osmsplit

import (
	"fmt"
	"io/ioutil"

	"github.com/paulmach/osm"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// SplitPlanEntry is a single planned split: one node, optionally restricted
// to certain ways and supplied with identifiers for the new fragments
type SplitPlanEntry struct {
	Node      int64   `yaml:"node"`
	Ways      []int64 `yaml:"ways,omitempty"`
	NewWayIDs []int64 `yaml:"new_way_ids,omitempty"`
}

// SplitPlan is a batch of splits loaded from a YAML file
type SplitPlan struct {
	KeepHistoryOn string           `yaml:"keep_history_on,omitempty"`
	Splits        []SplitPlanEntry `yaml:"splits"`
}

// LoadSplitPlan reads and validates a YAML split plan
func LoadSplitPlan(fileName string) (*SplitPlan, error) {
	data, err := ioutil.ReadFile(fileName)
	if err != nil {
		return nil, errors.Wrap(err, "Can't read split plan")
	}
	plan := SplitPlan{}
	err = yaml.Unmarshal(data, &plan)
	if err != nil {
		return nil, errors.Wrap(err, "Can't parse split plan")
	}
	if len(plan.Splits) == 0 {
		return nil, fmt.Errorf("Split plan '%s' contains no splits", fileName)
	}
	if plan.KeepHistoryOn != "" {
		_, err = ParseKeepHistoryMode(plan.KeepHistoryOn)
		if err != nil {
			return nil, errors.Wrap(err, "Can't validate split plan")
		}
	}
	for i := range plan.Splits {
		if plan.Splits[i].Node == 0 {
			return nil, fmt.Errorf("Split plan entry %d has no node", i)
		}
	}
	return &plan, nil
}

// Actions converts the plan into one split action per entry
func (plan *SplitPlan) Actions() []*SplitAction {
	actions := make([]*SplitAction, 0, len(plan.Splits))
	for _, entry := range plan.Splits {
		options := []func(*SplitAction){}
		if len(entry.Ways) > 0 {
			limitWays := make([]osm.WayID, 0, len(entry.Ways))
			for _, id := range entry.Ways {
				limitWays = append(limitWays, osm.WayID(id))
			}
			options = append(options, WithLimitWays(limitWays))
		}
		if len(entry.NewWayIDs) > 0 {
			newWayIDs := make([]osm.WayID, 0, len(entry.NewWayIDs))
			for _, id := range entry.NewWayIDs {
				newWayIDs = append(newWayIDs, osm.WayID(id))
			}
			options = append(options, WithNewWayIDs(newWayIDs))
		}
		if plan.KeepHistoryOn != "" {
			mode, err := ParseKeepHistoryMode(plan.KeepHistoryOn)
			if err == nil {
				options = append(options, WithKeepHistoryOn(mode))
			}
		}
		actions = append(actions, NewSplitAction([]osm.NodeID{osm.NodeID(entry.Node)}, options...))
	}
	return actions
}
