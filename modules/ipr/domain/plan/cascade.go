package plan

import (
	"fmt"

	"github.com/iota-uz/ipr/modules/ipr/domain/competency"
)

// Resolver answers competency questions about levels.
type Resolver interface {
	NextLevel(level competency.Level) (competency.Level, bool)
	CompetencyData(level competency.Level) (competency.Guidelines, bool)
	MinimumTenureMonths(level competency.Level) (int, bool)
}

// PeriodFormatter renders a tenure in months for display.
type PeriodFormatter func(months int) string

func DefaultPeriodFormatter(months int) string {
	return fmt.Sprintf("%d months", months)
}

// Cascade recomputes the derived part of a State when the current level changes.
type Cascade struct {
	resolver Resolver
	period   PeriodFormatter
}

func NewCascade(resolver Resolver, period PeriodFormatter) *Cascade {
	if period == nil {
		period = DefaultPeriodFormatter
	}
	return &Cascade{resolver: resolver, period: period}
}

// WithPeriodFormatter returns a copy of the cascade that formats periods with f.
func (c *Cascade) WithPeriodFormatter(f PeriodFormatter) *Cascade {
	return NewCascade(c.resolver, f)
}

// Apply sets the current level and recomputes target level, minimum period and
// derived goal texts from it in one step. Guidelines come from the target
// level, the minimum period from the current one. An empty or unknown level
// leaves every derived field empty.
func (c *Cascade) Apply(s State, level competency.Level) State {
	s.currentLevel = level
	s.targetLevel = competency.LevelNone
	s.minimumPeriod = ""
	for _, section := range Sections {
		s = s.withDerived(section, "")
	}
	if level.IsNone() {
		return s
	}

	if target, ok := c.resolver.NextLevel(level); ok {
		s.targetLevel = target
		if data, ok := c.resolver.CompetencyData(target); ok {
			s = s.withDerived(SectionGeneral, data.English)
			s = s.withDerived(SectionTech, data.PrimarySkill)
			s = s.withDerived(SectionSoft, data.SoftSkills)
		}
	}
	if months, ok := c.resolver.MinimumTenureMonths(level); ok {
		s.minimumPeriod = c.period(months)
	}
	return s
}
