package competency_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iota-uz/ipr/modules/ipr/domain/competency"
)

var orderedLevels = []competency.Level{
	competency.LevelIntern,
	competency.LevelJuniorMinus,
	competency.LevelJuniorEqual,
	competency.LevelJuniorPlus,
	competency.LevelMiddleMinus,
	competency.LevelMiddleEqual,
	competency.LevelMiddlePlus,
	competency.LevelSeniorMinus,
}

var tenure = map[competency.Level]int{
	competency.LevelIntern:      3,
	competency.LevelJuniorMinus: 3,
	competency.LevelJuniorEqual: 3,
	competency.LevelJuniorPlus:  6,
	competency.LevelMiddleMinus: 9,
	competency.LevelMiddleEqual: 9,
	competency.LevelMiddlePlus:  12,
	competency.LevelSeniorMinus: 12,
}

func newTable(t *testing.T) *competency.Table {
	t.Helper()
	entries := make([]competency.Entry, 0, len(orderedLevels))
	for _, l := range orderedLevels {
		entries = append(entries, competency.Entry{
			Level:        l,
			English:      "english " + l.String(),
			PrimarySkill: "primary " + l.String(),
			SoftSkills: competency.SoftSkills{
				CustomerFocus: "focus " + l.String(),
				Teamwork:      "team " + l.String(),
			},
		})
	}
	table, err := competency.NewTable("test", entries, tenure)
	require.NoError(t, err)
	return table
}

func TestTable_NextLevel(t *testing.T) {
	t.Parallel()

	table := newTable(t)
	for i, l := range orderedLevels[:len(orderedLevels)-1] {
		next, ok := table.NextLevel(l)
		require.True(t, ok, l)
		require.Equal(t, orderedLevels[i+1], next)
	}

	for _, l := range []competency.Level{competency.LevelSeniorMinus, competency.LevelNone, "architect"} {
		next, ok := table.NextLevel(l)
		require.False(t, ok, l)
		require.Equal(t, competency.LevelNone, next)
	}
	require.True(t, table.IsTerminal(competency.LevelSeniorMinus))
	require.False(t, table.IsTerminal(competency.LevelIntern))
}

func TestTable_MinimumTenureMonths(t *testing.T) {
	t.Parallel()

	table := newTable(t)
	for l, want := range tenure {
		got, ok := table.MinimumTenureMonths(l)
		require.True(t, ok)
		require.Equal(t, want, got)
	}
	_, ok := table.MinimumTenureMonths("architect")
	require.False(t, ok)
	_, ok = table.MinimumTenureMonths(competency.LevelNone)
	require.False(t, ok)
}

func TestTable_CompetencyData(t *testing.T) {
	t.Parallel()

	table := newTable(t)
	got, ok := table.CompetencyData(competency.LevelJuniorEqual)
	require.True(t, ok)
	require.Equal(t, competency.Guidelines{
		English:      "english juniorEqual",
		PrimarySkill: "primary juniorEqual",
		SoftSkills:   "focus juniorEqual\n\nteam juniorEqual",
	}, got)

	got, ok = table.CompetencyData("architect")
	require.False(t, ok)
	require.Equal(t, competency.Guidelines{}, got)
}

func TestCombineSoftSkills(t *testing.T) {
	t.Parallel()

	skills := competency.SoftSkills{
		CustomerFocus:      "one",
		Teamwork:           "two",
		Learning:           "three",
		SelfManagement:     "   ",
		Quality:            "five",
		ProjectManagement:  "six",
		AnalyticalThinking: "seven",
		StressTolerance:    "eight",
	}
	combined := competency.CombineSoftSkills(skills.Ordered()...)
	parts := strings.Split(combined, "\n\n")
	require.Equal(t, []string{"one", "two", "three", "five", "six", "seven", "eight"}, parts)
	require.Empty(t, competency.CombineSoftSkills("", " "))
}

func TestNewTable_Validation(t *testing.T) {
	t.Parallel()

	entry := func(l competency.Level) competency.Entry { return competency.Entry{Level: l} }

	_, err := competency.NewTable("v", nil, nil)
	require.ErrorIs(t, err, competency.ErrEmptyTable)

	_, err = competency.NewTable("v", []competency.Entry{entry("a"), entry("")}, map[competency.Level]int{"a": 1})
	require.ErrorIs(t, err, competency.ErrEmptyLevel)

	_, err = competency.NewTable("v", []competency.Entry{entry("a"), entry("a")}, map[competency.Level]int{"a": 1})
	require.ErrorIs(t, err, competency.ErrDuplicateLevel)

	_, err = competency.NewTable("v", []competency.Entry{entry("a"), entry("b")}, map[competency.Level]int{"c": 1})
	require.ErrorIs(t, err, competency.ErrUnknownLevel)

	_, err = competency.NewTable("v", []competency.Entry{entry("a"), entry("b")}, nil)
	require.ErrorIs(t, err, competency.ErrInvalidTenure)

	_, err = competency.NewTable("v", []competency.Entry{entry("a"), entry("b")}, map[competency.Level]int{"a": 0})
	require.ErrorIs(t, err, competency.ErrInvalidTenure)

	table, err := competency.NewTable("v", []competency.Entry{entry("a"), entry("b")}, map[competency.Level]int{"a": 2})
	require.NoError(t, err)
	require.Equal(t, []competency.Level{"a", "b"}, table.Levels())
	require.Equal(t, "v", table.Version())
}

func TestNewTable_CopiesEntries(t *testing.T) {
	t.Parallel()

	entries := []competency.Entry{{Level: "a", English: "before"}, {Level: "b"}}
	table, err := competency.NewTable("v", entries, map[competency.Level]int{"a": 1})
	require.NoError(t, err)
	entries[0].English = "after"

	got, ok := table.CompetencyData("a")
	require.True(t, ok)
	require.Equal(t, "before", got.English)
}

func TestTable_Lookup(t *testing.T) {
	t.Parallel()

	table := newTable(t)
	cases := map[string]competency.Level{
		"middleEqual": competency.LevelMiddleEqual,
		"Middle+":     competency.LevelMiddlePlus,
		"junior -":    competency.LevelJuniorMinus,
		"Junior −":    competency.LevelJuniorMinus,
		"junior":      competency.LevelJuniorEqual,
		"middle=":     competency.LevelMiddleEqual,
		"senior":      competency.LevelSeniorMinus,
		"intern":      competency.LevelIntern,
		"mid+":        competency.LevelMiddlePlus,
	}
	for query, want := range cases {
		got, ok := table.Lookup(query)
		require.True(t, ok, query)
		require.Equal(t, want, got, query)
	}

	for _, query := range []string{"", "  ", "jun", "architect"} {
		_, ok := table.Lookup(query)
		require.False(t, ok, query)
	}
}
