package plan

import (
	"time"

	"github.com/iota-uz/ipr/modules/ipr/domain/competency"
)

// ExportedEvent is published after a plan document was assembled for download.
type ExportedEvent struct {
	FileName     string
	CurrentLevel competency.Level
	TargetLevel  competency.Level
	Bytes        int
	At           time.Time
}

func NewExportedEvent(s State, fileName string, size int, at time.Time) ExportedEvent {
	return ExportedEvent{
		FileName:     fileName,
		CurrentLevel: s.CurrentLevel(),
		TargetLevel:  s.TargetLevel(),
		Bytes:        size,
		At:           at,
	}
}
