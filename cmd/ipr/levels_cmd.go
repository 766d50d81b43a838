package main

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/iota-uz/ipr/modules/ipr/presentation/mappers"
	"github.com/iota-uz/ipr/modules/ipr/presentation/viewmodels"
)

func newLevelsCmd(global *globalOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "levels",
		Short: "List competency levels with their successors and tenure",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := global.load(cmd.Context())
			if err != nil {
				return err
			}
			levels := levelRows(rt)
			if asJSON {
				for _, level := range levels {
					if err := writeJSONLine(cmd.OutOrStdout(), level); err != nil {
						return err
					}
				}
				return nil
			}
			_, err = cmd.OutOrStdout().Write([]byte(renderLevels(rt, levels) + "\n"))
			return err
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print one JSON object per level")
	return cmd
}

func levelRows(rt *runtime) []viewmodels.Level {
	ct := rt.plans.Table()
	t := rt.translate()
	out := make([]viewmodels.Level, 0, len(ct.Levels()))
	for _, level := range ct.Levels() {
		out = append(out, mappers.LevelToViewModel(ct, level, t))
	}
	return out
}

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle     = lipgloss.NewStyle().Padding(0, 1)
	terminalStyle = cellStyle.Foreground(lipgloss.Color("#888888"))
)

func renderLevels(rt *runtime, levels []viewmodels.Level) string {
	t := rt.translate()
	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(t("IPR.Matrix.Level"), "", t("IPR.Matrix.NextLevel"), t("IPR.Matrix.MinimumTenure"))
	for _, level := range levels {
		tenure := ""
		if level.MinimumTenureMonths > 0 {
			tenure = strconv.Itoa(level.MinimumTenureMonths)
		}
		tbl.Row(level.Level, level.Label, level.NextLevel, tenure)
	}
	tbl.StyleFunc(func(row, col int) lipgloss.Style {
		switch {
		case row == table.HeaderRow:
			return headerStyle
		case row >= 0 && row < len(levels) && !levels[row].Selectable:
			return terminalStyle
		default:
			return cellStyle
		}
	})
	return tbl.String()
}
