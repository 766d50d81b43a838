package competency

import (
	"strings"

	"github.com/go-faster/errors"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

var (
	ErrEmptyTable     = errors.New("competency table has no levels")
	ErrEmptyLevel     = errors.New("competency entry without level")
	ErrDuplicateLevel = errors.New("duplicate competency level")
	ErrUnknownLevel   = errors.New("unknown competency level")
	ErrInvalidTenure  = errors.New("invalid minimum tenure")
)

// Table is the read-only competency matrix. Level order is the order of the
// entries it was built from; the last level has no successor.
type Table struct {
	version string
	entries []Entry
	index   map[Level]int
	tenure  map[Level]int
}

// NewTable validates the rows and the tenure mapping and builds a table.
// Every non-terminal level needs a positive tenure; the terminal one may omit it.
func NewTable(version string, entries []Entry, tenure map[Level]int) (*Table, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyTable
	}
	t := &Table{
		version: version,
		entries: make([]Entry, len(entries)),
		index:   make(map[Level]int, len(entries)),
		tenure:  make(map[Level]int, len(tenure)),
	}
	copy(t.entries, entries)
	for i, e := range t.entries {
		if e.Level.IsNone() {
			return nil, errors.Wrapf(ErrEmptyLevel, "row %d", i+1)
		}
		if _, dup := t.index[e.Level]; dup {
			return nil, errors.Wrapf(ErrDuplicateLevel, "level %q", e.Level)
		}
		t.index[e.Level] = i
	}
	for level, months := range tenure {
		if _, ok := t.index[level]; !ok {
			return nil, errors.Wrapf(ErrUnknownLevel, "tenure for %q", level)
		}
		if months <= 0 {
			return nil, errors.Wrapf(ErrInvalidTenure, "level %q: %d months", level, months)
		}
		t.tenure[level] = months
	}
	for _, e := range t.entries[:len(t.entries)-1] {
		if _, ok := t.tenure[e.Level]; !ok {
			return nil, errors.Wrapf(ErrInvalidTenure, "level %q has no minimum tenure", e.Level)
		}
	}
	return t, nil
}

func (t *Table) Version() string {
	return t.version
}

// Levels returns all levels in table order.
func (t *Table) Levels() []Level {
	levels := make([]Level, len(t.entries))
	for i, e := range t.entries {
		levels[i] = e.Level
	}
	return levels
}

// Entries returns a copy of the table rows.
func (t *Table) Entries() []Entry {
	entries := make([]Entry, len(t.entries))
	copy(entries, t.entries)
	return entries
}

func (t *Table) Contains(level Level) bool {
	_, ok := t.index[level]
	return ok
}

func (t *Table) IsTerminal(level Level) bool {
	i, ok := t.index[level]
	return ok && i == len(t.entries)-1
}

// NextLevel returns the level after the given one. It reports false for an
// unset or unknown level and for the terminal level.
func (t *Table) NextLevel(level Level) (Level, bool) {
	i, ok := t.index[level]
	if !ok || i+1 >= len(t.entries) {
		return LevelNone, false
	}
	return t.entries[i+1].Level, true
}

// CompetencyData returns the guideline texts of a level.
func (t *Table) CompetencyData(level Level) (Guidelines, bool) {
	i, ok := t.index[level]
	if !ok {
		return Guidelines{}, false
	}
	return t.entries[i].Guidelines(), true
}

func (t *Table) Entry(level Level) (Entry, bool) {
	i, ok := t.index[level]
	if !ok {
		return Entry{}, false
	}
	return t.entries[i], true
}

func (t *Table) MinimumTenureMonths(level Level) (int, bool) {
	months, ok := t.tenure[level]
	return months, ok
}

var levelSymbols = strings.NewReplacer(
	"+", "plus",
	"−", "minus",
	"-", "minus",
	"=", "equal",
	" ", "",
	"_", "",
)

// Lookup resolves a loosely typed level name such as "Middle+", "junior -"
// or "senior" to a level of the table.
func (t *Table) Lookup(query string) (Level, bool) {
	q := levelSymbols.Replace(strings.ToLower(strings.TrimSpace(query)))
	if q == "" {
		return LevelNone, false
	}
	for _, candidate := range []string{q, q + "equal"} {
		for _, e := range t.entries {
			if strings.EqualFold(string(e.Level), candidate) {
				return e.Level, true
			}
		}
	}

	names := make([]string, len(t.entries))
	for i, e := range t.entries {
		names[i] = string(e.Level)
	}
	ranks := fuzzy.RankFindNormalizedFold(q, names)
	if len(ranks) != 1 {
		return LevelNone, false
	}
	return t.entries[ranks[0].OriginalIndex].Level, true
}
