package ingest

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/jcorbett/rostergen/internal/config"
	"github.com/jcorbett/rostergen/pkg/core/model"
)

// DefaultDemandRules covers a store with no demand configuration: a weekday
// baseline and a heavier weekend pattern.
var DefaultDemandRules = []config.DemandRule{
	{
		RRule: "FREQ=DAILY;BYDAY=MO,TU,WE,TH,FR",
		Stations: map[string]int{
			"kitchen": 2, "counter": 2, "cafe": 1, "dessert": 1, "delivery": 1,
		},
	},
	{
		RRule: "FREQ=DAILY;BYDAY=SA,SU",
		Stations: map[string]int{
			"kitchen": 3, "counter": 3, "cafe": 1, "dessert": 1, "delivery": 2,
		},
	},
}

// stationTags maps config station names onto skill tags.
var stationTags = map[string]model.SkillTag{
	"kitchen":  model.SkillKitchen,
	"counter":  model.SkillCounter,
	"cafe":     model.SkillCafe,
	"dessert":  model.SkillDessert,
	"delivery": model.SkillDelivery,
}

// BuildDemand expands the configured demand rules over the planning window.
// Every date a rule's RRULE matches receives that rule's station headcounts;
// later rules override earlier ones station by station. An empty rule set
// falls back to DefaultDemandRules.
func BuildDemand(rules []config.DemandRule, start, end time.Time) (model.Demand, error) {
	if len(rules) == 0 {
		rules = DefaultDemandRules
	}

	start = model.Day(start)
	end = model.Day(end)
	demand := make(model.Demand)

	for i, rule := range rules {
		r, err := rrule.StrToRRule(rule.RRule)
		if err != nil {
			return nil, fmt.Errorf("invalid rrule in demand rule %d: %w", i, err)
		}
		r.DTStart(start)

		for _, occ := range r.Between(start, end, true) {
			day := model.Day(occ)
			if demand[day] == nil {
				demand[day] = make(map[model.SkillTag]int)
			}
			for station, n := range rule.Stations {
				tag, ok := stationTags[station]
				if !ok {
					return nil, fmt.Errorf("unknown station %q in demand rule %d", station, i)
				}
				demand[day][tag] = n
			}
		}
	}

	return demand, nil
}
