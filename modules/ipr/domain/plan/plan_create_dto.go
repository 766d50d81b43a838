package plan

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/iota-uz/ipr/modules/ipr/domain/competency"
	"github.com/iota-uz/ipr/pkg/constants"
	"github.com/iota-uz/ipr/pkg/intl"
	"github.com/iota-uz/ipr/pkg/serrors"
)

// LevelSet reports whether a level exists in the competency table.
type LevelSet interface {
	Contains(level competency.Level) bool
}

type levelSetKey struct{}

// WithLevelSet makes the "level" validation rule check membership in levels.
// Without it, any non-empty level passes.
func WithLevelSet(ctx context.Context, levels LevelSet) context.Context {
	return context.WithValue(ctx, levelSetKey{}, levels)
}

func init() {
	err := constants.Validate.RegisterValidationCtx("level", func(ctx context.Context, fl validator.FieldLevel) bool {
		levels, ok := ctx.Value(levelSetKey{}).(LevelSet)
		if !ok || levels == nil {
			return true
		}
		return levels.Contains(competency.Level(fl.Field().String()))
	})
	if err != nil {
		panic(err)
	}
}

type CreateDTO struct {
	Name         string `form:"name" json:"name" yaml:"name" validate:"required,max=200"`
	Manager      string `form:"manager" json:"manager" yaml:"manager" validate:"required,max=200"`
	Position     string `form:"position" json:"position" yaml:"position" validate:"omitempty,oneof=technicianProgrammer engineerProgrammer"`
	CurrentLevel string `form:"currentLevel" json:"currentLevel" yaml:"currentLevel" validate:"required,level"`
	GoalsGeneral string `form:"goalsGeneral" json:"goalsGeneral" yaml:"goalsGeneral"`
	GoalsTech    string `form:"goalsTech" json:"goalsTech" yaml:"goalsTech"`
	GoalsSoft    string `form:"goalsSoft" json:"goalsSoft" yaml:"goalsSoft"`
}

func (d *CreateDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Manager = strings.TrimSpace(d.Manager)
	d.Position = strings.TrimSpace(d.Position)
	d.CurrentLevel = strings.TrimSpace(d.CurrentLevel)
}

func (d *CreateDTO) Ok(ctx context.Context) (map[string]string, bool) {
	l, ok := intl.UseLocalizer(ctx)
	if !ok {
		panic(intl.ErrNoLocalizer)
	}

	d.Normalize()

	errs := constants.Validate.StructCtx(ctx, d)
	if errs == nil {
		return map[string]string{}, true
	}

	validatorErrs, ok := errs.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"": errs.Error()}, false
	}
	getFieldLocaleKey := func(field string) string {
		switch field {
		case "Name":
			return KeyEmployeeName
		case "Manager":
			return KeyManager
		case "Position":
			return KeyPosition
		case "CurrentLevel":
			return KeyCurrentLevel
		default:
			return fmt.Sprintf("IPR.Fields.%s", field)
		}
	}
	trans := constants.ValidationTranslator(intl.UseLocale(ctx).String())
	validationErrors := serrors.ProcessValidatorErrors(validatorErrs, getFieldLocaleKey, func(fe validator.FieldError) string {
		return fe.Translate(trans)
	})
	return serrors.LocalizeValidationErrors(validationErrors, l), false
}

// ToState builds a form snapshot from the submitted values. Derived fields
// always come from the cascade, never from the request.
func (d *CreateDTO) ToState(cascade *Cascade) State {
	s := New().
		WithName(d.Name).
		WithManager(d.Manager).
		WithPosition(Position(d.Position))
	s = cascade.Apply(s, competency.Level(d.CurrentLevel))
	return s.
		WithAuthored(SectionGeneral, d.GoalsGeneral).
		WithAuthored(SectionTech, d.GoalsTech).
		WithAuthored(SectionSoft, d.GoalsSoft)
}
