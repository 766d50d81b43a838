package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/iota-uz/ipr/modules/ipr/services"
	"github.com/iota-uz/ipr/pkg/docx"
)

type previewOptions struct {
	level  string
	output string
}

func newPreviewCmd(global *globalOptions) *cobra.Command {
	var opts previewOptions
	cmd := &cobra.Command{
		Use:   "preview FILE",
		Short: "Render a .docx document or a plan file as HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := global.load(cmd.Context())
			if err != nil {
				return err
			}
			return runPreview(cmd, rt, args[0], opts)
		},
	}
	cmd.Flags().StringVar(&opts.level, "level", "", "Current level override for plan files")
	cmd.Flags().StringVar(&opts.output, "out", "", "Write the HTML to this file instead of stdout")
	return cmd
}

func isPlanFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	default:
		return false
	}
}

func runPreview(cmd *cobra.Command, rt *runtime, path string, opts previewOptions) error {
	var (
		out string
		err error
	)
	if isPlanFile(path) {
		out, err = previewPlan(rt, path, opts.level)
	} else {
		out, err = previewDocument(rt, path)
	}
	if err != nil {
		return err
	}
	if opts.output != "" {
		return writeFile(opts.output, []byte(out))
	}
	if _, err := cmd.OutOrStdout().Write([]byte(out + "\n")); err != nil {
		return withCode(exitIO, err)
	}
	return nil
}

func previewPlan(rt *runtime, path, level string) (string, error) {
	dto, err := readPlan(path)
	if err != nil {
		return "", err
	}
	state, err := resolvePlan(rt, dto, level)
	if err != nil {
		return "", err
	}
	return rt.documents.Preview(rt.ctx, state, rt.translate())
}

func previewDocument(rt *runtime, path string) (string, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return "", withCode(exitIO, errors.Wrapf(err, "read %s", path))
	}
	out, err := rt.documents.RenderPreviewHTML(rt.ctx, blob)
	if errors.Is(err, services.ErrNotDocument) || errors.Is(err, docx.ErrNotDocx) {
		return "", withCode(exitValidation, errors.Errorf("%s: %s", path, services.ErrNotDocument.Localize(rt.localizer)))
	}
	return out, err
}
