package competency

import "strings"

// SoftSkills holds the per-skill guideline texts of one level.
type SoftSkills struct {
	CustomerFocus      string `yaml:"customerFocus" json:"customerFocus"`
	Teamwork           string `yaml:"teamwork" json:"teamwork"`
	Learning           string `yaml:"learningCapability" json:"learningCapability"`
	SelfManagement     string `yaml:"selfManagement" json:"selfManagement"`
	Quality            string `yaml:"quality" json:"quality"`
	ProjectManagement  string `yaml:"projectManagement" json:"projectManagement"`
	AnalyticalThinking string `yaml:"analyticalThinking" json:"analyticalThinking"`
	StressTolerance    string `yaml:"stressTolerance" json:"stressTolerance"`
}

// Ordered returns the texts in their fixed presentation order.
func (s SoftSkills) Ordered() []string {
	return []string{
		s.CustomerFocus,
		s.Teamwork,
		s.Learning,
		s.SelfManagement,
		s.Quality,
		s.ProjectManagement,
		s.AnalyticalThinking,
		s.StressTolerance,
	}
}

// SoftSkillKeys are the locale keys of the soft skills, in Ordered order.
var SoftSkillKeys = []string{
	"IPR.SoftSkills.CustomerFocus",
	"IPR.SoftSkills.Teamwork",
	"IPR.SoftSkills.Learning",
	"IPR.SoftSkills.SelfManagement",
	"IPR.SoftSkills.Quality",
	"IPR.SoftSkills.ProjectManagement",
	"IPR.SoftSkills.AnalyticalThinking",
	"IPR.SoftSkills.StressTolerance",
}

// Entry is one row of the competency table.
type Entry struct {
	Level        Level
	English      string
	PrimarySkill string
	SoftSkills   SoftSkills
}

// Guidelines is the goal text a level contributes to a plan.
type Guidelines struct {
	English      string `json:"english"`
	PrimarySkill string `json:"primarySkill"`
	SoftSkills   string `json:"softSkills"`
}

// CombineSoftSkills joins the non-empty texts with a blank line, keeping their order.
func CombineSoftSkills(texts ...string) string {
	kept := make([]string, 0, len(texts))
	for _, text := range texts {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		kept = append(kept, text)
	}
	return strings.Join(kept, "\n\n")
}

func (e Entry) Guidelines() Guidelines {
	return Guidelines{
		English:      e.English,
		PrimarySkill: e.PrimarySkill,
		SoftSkills:   CombineSoftSkills(e.SoftSkills.Ordered()...),
	}
}
