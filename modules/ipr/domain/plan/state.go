package plan

import (
	"strings"

	"github.com/iota-uz/ipr/modules/ipr/domain/competency"
)

type Section string

const (
	SectionGeneral Section = "general"
	SectionTech    Section = "tech"
	SectionSoft    Section = "soft"
)

// Sections lists goal sections in document order.
var Sections = []Section{SectionGeneral, SectionTech, SectionSoft}

func (s Section) LocaleKey() string {
	switch s {
	case SectionGeneral:
		return KeyGoalsGeneral
	case SectionTech:
		return KeyGoalsTech
	case SectionSoft:
		return KeyGoalsSoft
	default:
		return ""
	}
}

type Position string

const (
	PositionNone                 Position = ""
	PositionTechnicianProgrammer Position = "technicianProgrammer"
	PositionEngineerProgrammer   Position = "engineerProgrammer"
)

var Positions = []Position{PositionTechnicianProgrammer, PositionEngineerProgrammer}

func (p Position) LocaleKey() string {
	return "IPR.Positions." + string(p)
}

// Goal pairs the guideline text derived from the target level with the text
// the user wrote. Derived is owned by the level cascade.
type Goal struct {
	Derived  string `json:"derived"`
	Authored string `json:"authored"`
}

// State is a snapshot of the plan form. Values are copied on every change so
// a State handed to the document builder never sees later edits.
type State struct {
	name          string
	manager       string
	position      Position
	currentLevel  competency.Level
	targetLevel   competency.Level
	minimumPeriod string
	general       Goal
	tech          Goal
	soft          Goal
}

// New returns an empty form state.
func New() State {
	return State{}
}

func (s State) Name() string                   { return s.name }
func (s State) Manager() string                { return s.manager }
func (s State) Position() Position             { return s.position }
func (s State) CurrentLevel() competency.Level { return s.currentLevel }
func (s State) TargetLevel() competency.Level  { return s.targetLevel }
func (s State) MinimumPeriod() string          { return s.minimumPeriod }

func (s State) Goal(section Section) Goal {
	switch section {
	case SectionGeneral:
		return s.general
	case SectionTech:
		return s.tech
	case SectionSoft:
		return s.soft
	default:
		return Goal{}
	}
}

func (s State) WithName(name string) State {
	s.name = strings.TrimSpace(name)
	return s
}

func (s State) WithManager(manager string) State {
	s.manager = strings.TrimSpace(manager)
	return s
}

func (s State) WithPosition(position Position) State {
	s.position = position
	return s
}

// WithAuthored sets the user written text of a section. Level changes never touch it.
func (s State) WithAuthored(section Section, text string) State {
	switch section {
	case SectionGeneral:
		s.general.Authored = text
	case SectionTech:
		s.tech.Authored = text
	case SectionSoft:
		s.soft.Authored = text
	}
	return s
}

func (s State) withDerived(section Section, text string) State {
	switch section {
	case SectionGeneral:
		s.general.Derived = text
	case SectionTech:
		s.tech.Derived = text
	case SectionSoft:
		s.soft.Derived = text
	}
	return s
}
