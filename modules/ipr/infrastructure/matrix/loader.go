// Package matrix loads the competency table from YAML and exports it to a spreadsheet.
package matrix

import (
	"bytes"
	_ "embed"
	"os"

	"github.com/go-faster/errors"
	"gopkg.in/yaml.v3"

	"github.com/iota-uz/ipr/modules/ipr/domain/competency"
)

//go:embed competencies.yaml
var embedded []byte

type fileRow struct {
	Level        string                `yaml:"level"`
	English      string                `yaml:"english"`
	PrimarySkill string                `yaml:"primarySkill"`
	SoftSkills   competency.SoftSkills `yaml:"softSkills"`
}

type file struct {
	Version string         `yaml:"version"`
	Tenure  map[string]int `yaml:"tenure"`
	Levels  []fileRow      `yaml:"levels"`
}

// Parse decodes a competency table document. Unknown keys are rejected.
func Parse(data []byte) (*competency.Table, error) {
	var f file
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, errors.Wrap(err, "decode competency table")
	}

	entries := make([]competency.Entry, 0, len(f.Levels))
	for _, row := range f.Levels {
		entries = append(entries, competency.Entry{
			Level:        competency.Level(row.Level),
			English:      row.English,
			PrimarySkill: row.PrimarySkill,
			SoftSkills:   row.SoftSkills,
		})
	}
	tenure := make(map[competency.Level]int, len(f.Tenure))
	for level, months := range f.Tenure {
		tenure[competency.Level(level)] = months
	}
	table, err := competency.NewTable(f.Version, entries, tenure)
	if err != nil {
		return nil, errors.Wrap(err, "build competency table")
	}
	return table, nil
}

// Load reads the table from path, or the embedded table when path is empty.
func Load(path string) (*competency.Table, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return Parse(data)
}

// Default returns the table shipped with the binary.
func Default() (*competency.Table, error) {
	return Parse(embedded)
}
