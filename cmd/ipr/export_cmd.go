package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/iota-uz/ipr/pkg/composables"
)

type exportOptions struct {
	input  string
	level  string
	output string
}

type exportResult struct {
	File          string `json:"file"`
	CurrentLevel  string `json:"currentLevel"`
	TargetLevel   string `json:"targetLevel"`
	MinimumPeriod string `json:"minimumPeriod"`
	Bytes         int    `json:"bytes"`
}

func newExportCmd(global *globalOptions) *cobra.Command {
	var opts exportOptions
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Build a plan document from a YAML or JSON plan file",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := global.load(cmd.Context())
			if err != nil {
				return err
			}
			return runExport(cmd, rt, opts)
		},
	}
	cmd.Flags().StringVar(&opts.input, "input", "", "Plan file (required)")
	cmd.Flags().StringVar(&opts.level, "level", "", `Current level by key or label, e.g. "middle+"`)
	cmd.Flags().StringVar(&opts.output, "out", "", "Output file or directory (defaults to the current directory)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func runExport(cmd *cobra.Command, rt *runtime, opts exportOptions) error {
	dto, err := readPlan(opts.input)
	if err != nil {
		return err
	}
	state, err := resolvePlan(rt, dto, opts.level)
	if err != nil {
		return err
	}
	blob, fileName, err := rt.documents.Export(rt.ctx, state, rt.translate())
	if err != nil {
		return err
	}

	path := opts.output
	if path == "" || isDir(path) {
		path = filepath.Join(path, baseFileName(fileName))
	}
	if err := writeFile(path, blob); err != nil {
		return err
	}
	composables.UseLogger(rt.ctx).WithField("file", path).Info("plan document written")

	return writeJSONLine(cmd.OutOrStdout(), exportResult{
		File:          path,
		CurrentLevel:  state.CurrentLevel().String(),
		TargetLevel:   state.TargetLevel().String(),
		MinimumPeriod: state.MinimumPeriod(),
		Bytes:         len(blob),
	})
}
