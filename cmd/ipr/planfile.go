package main

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/go-faster/errors"
	"gopkg.in/yaml.v3"

	"github.com/iota-uz/ipr/modules/ipr/domain/plan"
)

// readPlan decodes a plan file. JSON input is accepted since it is valid YAML.
func readPlan(path string) (*plan.CreateDTO, error) {
	if strings.TrimSpace(path) == "" {
		return nil, withCode(exitUsage, errors.New("--input is required"))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, withCode(exitIO, errors.Wrapf(err, "read %s", path))
	}
	dto := &plan.CreateDTO{}
	if err := yaml.Unmarshal(data, dto); err != nil {
		return nil, withCode(exitValidation, errors.Wrapf(err, "decode %s", path))
	}
	return dto, nil
}

type validationError struct {
	errs map[string]string
}

func (e *validationError) Error() string {
	lines := make([]string, 0, len(e.errs))
	for _, field := range slices.Sorted(maps.Keys(e.errs)) {
		lines = append(lines, fmt.Sprintf("  %s: %s", field, e.errs[field]))
	}
	return "invalid plan:\n" + strings.Join(lines, "\n")
}

// resolvePlan applies the --level override, validates the plan and runs the
// level cascade on it.
func resolvePlan(rt *runtime, dto *plan.CreateDTO, levelQuery string) (plan.State, error) {
	if strings.TrimSpace(levelQuery) != "" {
		level, ok := rt.plans.Lookup(levelQuery)
		if !ok {
			return plan.State{}, withCode(exitValidation, errors.Errorf("unknown level %q", levelQuery))
		}
		dto.CurrentLevel = level.String()
	}
	if errs, ok := rt.plans.Validate(rt.ctx, dto); !ok {
		return plan.State{}, withCode(exitValidation, &validationError{errs: errs})
	}
	return dto.ToState(rt.plans.Cascade(rt.period())), nil
}
