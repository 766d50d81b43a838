package services

import (
	"context"
	"io"

	"github.com/iota-uz/ipr/modules/ipr/domain/competency"
	"github.com/iota-uz/ipr/modules/ipr/domain/plan"
	"github.com/iota-uz/ipr/modules/ipr/infrastructure/matrix"
)

// PlanService answers level questions from the competency table and runs the
// level change cascade.
type PlanService struct {
	table *competency.Table
}

func NewPlanService(table *competency.Table) *PlanService {
	return &PlanService{table: table}
}

func (s *PlanService) Table() *competency.Table {
	return s.table
}

func (s *PlanService) Levels() []competency.Level {
	return s.table.Levels()
}

// Selectable reports whether a level can be picked as the current one.
// The terminal level has no successor to plan for.
func (s *PlanService) Selectable(level competency.Level) bool {
	return s.table.Contains(level) && !s.table.IsTerminal(level)
}

func (s *PlanService) Lookup(query string) (competency.Level, bool) {
	return s.table.Lookup(query)
}

func (s *PlanService) Cascade(period plan.PeriodFormatter) *plan.Cascade {
	return plan.NewCascade(s.table, period)
}

// ApplyLevel runs the level change cascade on a copy of state.
func (s *PlanService) ApplyLevel(state plan.State, level competency.Level, period plan.PeriodFormatter) plan.State {
	return s.Cascade(period).Apply(state, level)
}

// Validate checks submitted form values, including that the level exists in the table.
func (s *PlanService) Validate(ctx context.Context, dto *plan.CreateDTO) (map[string]string, bool) {
	return dto.Ok(plan.WithLevelSet(ctx, s.table))
}

// ExportMatrix writes the competency table as a spreadsheet.
func (s *PlanService) ExportMatrix(w io.Writer, translate func(string) string) error {
	return matrix.ExportXLSX(w, s.table, translate)
}
