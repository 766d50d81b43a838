package mappers

import (
	"github.com/iota-uz/ipr/modules/ipr/domain/competency"
	"github.com/iota-uz/ipr/modules/ipr/domain/plan"
	"github.com/iota-uz/ipr/modules/ipr/presentation/viewmodels"
)

var goalFields = map[plan.Section]string{
	plan.SectionGeneral: "goalsGeneral",
	plan.SectionTech:    "goalsTech",
	plan.SectionSoft:    "goalsSoft",
}

func levelLabel(level competency.Level, t plan.Translator) string {
	if level.IsNone() {
		return ""
	}
	return t(level.LocaleKey())
}

func PlanToViewModel(state plan.State, t plan.Translator) *viewmodels.Plan {
	goals := make([]viewmodels.Goal, 0, len(plan.Sections))
	for _, section := range plan.Sections {
		goal := state.Goal(section)
		goals = append(goals, viewmodels.Goal{
			Section:  string(section),
			Field:    goalFields[section],
			Label:    t(section.LocaleKey()),
			Derived:  plan.SplitLines(goal.Derived),
			Authored: goal.Authored,
		})
	}
	return &viewmodels.Plan{
		Name:          state.Name(),
		Manager:       state.Manager(),
		Position:      string(state.Position()),
		CurrentLevel:  state.CurrentLevel().String(),
		TargetLevel:   levelLabel(state.TargetLevel(), t),
		MinimumPeriod: state.MinimumPeriod(),
		Goals:         goals,
	}
}

// LevelOptions lists the table levels for the level select. Levels that cannot
// be planned from are shown disabled.
func LevelOptions(table *competency.Table, selected string, t plan.Translator) []viewmodels.Option {
	levels := table.Levels()
	options := make([]viewmodels.Option, 0, len(levels))
	for _, level := range levels {
		options = append(options, viewmodels.Option{
			Value:    level.String(),
			Label:    t(level.LocaleKey()),
			Selected: level.String() == selected,
			Disabled: table.IsTerminal(level),
		})
	}
	return options
}

func PositionOptions(selected string, t plan.Translator) []viewmodels.Option {
	options := make([]viewmodels.Option, 0, len(plan.Positions))
	for _, p := range plan.Positions {
		options = append(options, viewmodels.Option{
			Value:    string(p),
			Label:    t(p.LocaleKey()),
			Selected: string(p) == selected,
		})
	}
	return options
}

func LevelToViewModel(table *competency.Table, level competency.Level, t plan.Translator) viewmodels.Level {
	vm := viewmodels.Level{
		Level:      level.String(),
		Label:      t(level.LocaleKey()),
		Selectable: table.Contains(level) && !table.IsTerminal(level),
	}
	if next, ok := table.NextLevel(level); ok {
		vm.NextLevel = next.String()
	}
	if months, ok := table.MinimumTenureMonths(level); ok {
		vm.MinimumTenureMonths = months
	}
	return vm
}

func LevelToDetails(table *competency.Table, entry competency.Entry, t plan.Translator) viewmodels.LevelDetails {
	skills := make(map[string]string, len(competency.SoftSkillKeys))
	for i, text := range entry.SoftSkills.Ordered() {
		skills[competency.SoftSkillKeys[i]] = text
	}
	return viewmodels.LevelDetails{
		Level:      LevelToViewModel(table, entry.Level, t),
		English:    entry.English,
		Primary:    entry.PrimarySkill,
		SoftSkills: skills,
	}
}

func StateToCascade(state plan.State) viewmodels.Cascade {
	return viewmodels.Cascade{
		CurrentLevel:  state.CurrentLevel().String(),
		TargetLevel:   state.TargetLevel().String(),
		MinimumPeriod: state.MinimumPeriod(),
		Goals: viewmodels.DerivedGoals{
			General: state.Goal(plan.SectionGeneral).Derived,
			Tech:    state.Goal(plan.SectionTech).Derived,
			Soft:    state.Goal(plan.SectionSoft).Derived,
		},
	}
}
