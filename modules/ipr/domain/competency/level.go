package competency

// Level is a career grade. The order of levels is defined by the competency table.
type Level string

const (
	LevelNone        Level = ""
	LevelIntern      Level = "intern"
	LevelJuniorMinus Level = "juniorMinus"
	LevelJuniorEqual Level = "juniorEqual"
	LevelJuniorPlus  Level = "juniorPlus"
	LevelMiddleMinus Level = "middleMinus"
	LevelMiddleEqual Level = "middleEqual"
	LevelMiddlePlus  Level = "middlePlus"
	LevelSeniorMinus Level = "seniorMinus"
)

func (l Level) String() string {
	return string(l)
}

func (l Level) IsNone() bool {
	return l == LevelNone
}

// LocaleKey is the message id of the level label.
func (l Level) LocaleKey() string {
	return "IPR.Levels." + string(l)
}
