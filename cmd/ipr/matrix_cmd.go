package main

import (
	"bytes"

	"github.com/spf13/cobra"
)

func newMatrixCmd(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "matrix",
		Short: "Competency table tools",
	}
	cmd.AddCommand(newMatrixExportCmd(global))
	return cmd
}

func newMatrixExportCmd(global *globalOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the competency table as an .xlsx spreadsheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := global.load(cmd.Context())
			if err != nil {
				return err
			}
			var buf bytes.Buffer
			if err := rt.plans.ExportMatrix(&buf, rt.translate()); err != nil {
				return err
			}
			return writeFile(output, buf.Bytes())
		},
	}
	cmd.Flags().StringVar(&output, "out", "competency-matrix.xlsx", "Output file")
	return cmd
}
