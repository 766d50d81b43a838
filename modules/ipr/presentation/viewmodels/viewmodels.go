package viewmodels

type Option struct {
	Value    string
	Label    string
	Selected bool
	Disabled bool
}

type Language struct {
	Code   string
	Label  string
	URL    string
	Active bool
}

// Goal is one goal section of the form. Field is the form input name of the
// authored text.
type Goal struct {
	Section  string
	Field    string
	Label    string
	Derived  []string
	Authored string
}

type Plan struct {
	Name          string
	Manager       string
	Position      string
	CurrentLevel  string
	TargetLevel   string
	MinimumPeriod string
	Goals         []Goal
}

// HasDerived reports whether a level with a successor is selected.
func (p *Plan) HasDerived() bool {
	return p.TargetLevel != ""
}

type Level struct {
	Level               string `json:"level"`
	Label               string `json:"label"`
	NextLevel           string `json:"nextLevel,omitempty"`
	MinimumTenureMonths int    `json:"minimumTenureMonths,omitempty"`
	Selectable          bool   `json:"selectable"`
}

type LevelDetails struct {
	Level
	English    string            `json:"english"`
	Primary    string            `json:"primarySkill"`
	SoftSkills map[string]string `json:"softSkills"`
}

type DerivedGoals struct {
	General string `json:"general"`
	Tech    string `json:"tech"`
	Soft    string `json:"soft"`
}

type Cascade struct {
	CurrentLevel  string       `json:"currentLevel"`
	TargetLevel   string       `json:"targetLevel"`
	MinimumPeriod string       `json:"minimumPeriod"`
	Goals         DerivedGoals `json:"goals"`
}

type DocumentPreview struct {
	FileName string `json:"fileName"`
	HTML     string `json:"html"`
}
