package models

import (
	"github.com/peoplepower/ppsync-go/pkg/enum"
	"github.com/peoplepower/ppsync-go/pkg/model"
	"github.com/peoplepower/ppsync-go/pkg/opt"
)

// GoalCategory is a bitmask of the areas a device goal serves.
type GoalCategory uint32

const (
	GoalEnergy    GoalCategory = 1 << 0
	GoalSecurity  GoalCategory = 1 << 1
	GoalCare      GoalCategory = 1 << 2
	GoalLifestyle GoalCategory = 1 << 3
	GoalHealth    GoalCategory = 1 << 4
	GoalWellness  GoalCategory = 1 << 5
)

// GoalCategories maps goal category bits.
var GoalCategories = enum.NewFlagTable("goal category", map[GoalCategory]string{
	GoalEnergy:    "energy",
	GoalSecurity:  "security",
	GoalCare:      "care",
	GoalLifestyle: "lifestyle",
	GoalHealth:    "health",
	GoalWellness:  "wellness",
})

// DeviceTypeGoal is a purpose a device type can be installed for.
type DeviceTypeGoal struct {
	ID          opt.Value[int]
	Name        opt.Value[string]
	Desc        opt.Value[string]
	Categories  opt.Value[GoalCategory]
	DeviceUsage opt.Value[int]
	Suggestions opt.Value[[]string]
}

// Has reports whether the goal is in category c.
func (g *DeviceTypeGoal) Has(c GoalCategory) bool {
	return g.Categories.Or(0)&c != 0
}

// DeviceTypeGoalTable is the field table of DeviceTypeGoal.
var DeviceTypeGoalTable = model.NewTable[DeviceTypeGoal]("deviceTypeGoal",
	model.Int("id", func(g *DeviceTypeGoal) *opt.Value[int] { return &g.ID }).Identity(),
	model.String("name", func(g *DeviceTypeGoal) *opt.Value[string] { return &g.Name }),
	model.String("desc", func(g *DeviceTypeGoal) *opt.Value[string] { return &g.Desc }),
	model.Flags("categories", func(g *DeviceTypeGoal) *opt.Value[GoalCategory] { return &g.Categories }, GoalCategories),
	model.Int("deviceUsage", func(g *DeviceTypeGoal) *opt.Value[int] { return &g.DeviceUsage }),
	model.Strings("suggestions", func(g *DeviceTypeGoal) *opt.Value[[]string] { return &g.Suggestions }),
)

// DeviceTypeGoalKey returns the collection key of a goal.
func DeviceTypeGoalKey(g *DeviceTypeGoal) int { return g.ID.Or(0) }
