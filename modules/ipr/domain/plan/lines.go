package plan

import (
	"fmt"
	"strings"

	"github.com/iota-uz/ipr/modules/ipr/domain/competency"
)

// SplitLines splits text on newlines and keeps the lines that are not blank.
// Kept lines are returned untrimmed.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	parts := strings.Split(text, "\n")
	lines := make([]string, 0, len(parts))
	for _, line := range parts {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

const (
	fallbackName   = "employee"
	fallbackTarget = "unknown"
)

// FileName builds the export file name IPR_<name>_<target>.<ext>.
func FileName(name string, target competency.Level, ext string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = fallbackName
	}
	t := string(target)
	if t == "" {
		t = fallbackTarget
	}
	return fmt.Sprintf("IPR_%s_%s.%s", name, t, strings.TrimPrefix(ext, "."))
}
