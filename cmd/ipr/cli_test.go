package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/iota-uz/ipr/pkg/docx"
)

const planYAML = `name: Jane Doe
manager: John Smith
position: engineerProgrammer
currentLevel: juniorMinus
goalsGeneral: |
  Present one tech talk
goalsTech: Ship the billing export
`

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writePlan(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExport_WritesDocument(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	input := writePlan(t, dir, "plan.yaml", planYAML)

	out, err := runCLI(t, "export", "--input", input, "--out", dir)
	require.NoError(t, err)

	var result exportResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Equal(t, filepath.Join(dir, "IPR_Jane Doe_juniorEqual.docx"), result.File)
	require.Equal(t, "juniorMinus", result.CurrentLevel)
	require.Equal(t, "juniorEqual", result.TargetLevel)
	require.Equal(t, "3 months", result.MinimumPeriod)

	blob, err := os.ReadFile(result.File)
	require.NoError(t, err)
	require.Len(t, blob, result.Bytes)
	doc, err := docx.Parse(blob)
	require.NoError(t, err)
	text := doc.Text()
	require.Contains(t, text, "Individual Development Plan")
	require.Contains(t, text, "Jane Doe")
	require.Contains(t, text, "Present one tech talk")
	require.Contains(t, text, "Ship the billing export")
}

func TestExport_NameWithPathSeparators(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	out := filepath.Join(dir, "a", "b", "out")
	require.NoError(t, os.MkdirAll(out, 0o755))

	for name, want := range map[string]string{
		"Ivanov/Petrov":     "IPR_Ivanov_Petrov_juniorEqual.docx",
		"/../../../escaped": "IPR__.._.._.._escaped_juniorEqual.docx",
		`..\win`:            "IPR_.._win_juniorEqual.docx",
	} {
		input := writePlan(t, dir, "plan.yaml", strings.Replace(planYAML, "Jane Doe", "'"+name+"'", 1))
		stdout, err := runCLI(t, "export", "--input", input, "--out", out)
		require.NoError(t, err, name)

		var result exportResult
		require.NoError(t, json.Unmarshal([]byte(stdout), &result))
		require.Equal(t, filepath.Join(out, want), result.File, name)
		require.FileExists(t, result.File)
	}

	entries, err := os.ReadDir(filepath.Join(dir, "a"))
	require.NoError(t, err)
	require.Len(t, entries, 1, "nothing is written outside the output directory")
}

func TestExport_LevelOverrideAndRussian(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	input := writePlan(t, dir, "plan.json", `{"name":"Иван Петров","manager":"Анна","currentLevel":"intern"}`)
	target := filepath.Join(dir, "out", "plan.docx")

	out, err := runCLI(t, "--lang", "ru", "export", "--input", input, "--level", "middle+", "--out", target)
	require.NoError(t, err)

	var result exportResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Equal(t, target, result.File)
	require.Equal(t, "middlePlus", result.CurrentLevel)
	require.Equal(t, "seniorMinus", result.TargetLevel)

	blob, err := os.ReadFile(target)
	require.NoError(t, err)
	doc, err := docx.Parse(blob)
	require.NoError(t, err)
	require.Contains(t, doc.Text(), "Индивидуальный план развития")
}

func TestExport_ValidationFailure(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	input := writePlan(t, dir, "plan.yaml", "name: Jane Doe\ncurrentLevel: wizard\n")

	_, err := runCLI(t, "export", "--input", input, "--out", dir)
	require.Error(t, err)
	require.Equal(t, exitValidation, exitCode(err))
	require.Contains(t, err.Error(), "Manager is required")
	require.Contains(t, err.Error(), "Current level: unknown level")

	_, err = runCLI(t, "export", "--input", input, "--level", "wizard")
	require.Equal(t, exitValidation, exitCode(err))
	require.Contains(t, err.Error(), `unknown level "wizard"`)
}

func TestExport_UsageErrors(t *testing.T) {
	t.Parallel()

	_, err := runCLI(t, "export", "--input", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Equal(t, exitIO, exitCode(err))

	_, err = runCLI(t, "--lang", "de", "levels")
	require.Equal(t, exitUsage, exitCode(err))
}

func TestPreview_PlanAndDocument(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	input := writePlan(t, dir, "plan.yaml", planYAML)

	html, err := runCLI(t, "preview", input)
	require.NoError(t, err)
	require.Contains(t, html, "<h1><strong>Individual Development Plan</strong></h1>")
	require.Contains(t, html, "Present one tech talk")

	out, err := runCLI(t, "export", "--input", input, "--out", filepath.Join(dir, "plan.docx"))
	require.NoError(t, err)
	require.NotEmpty(t, out)

	htmlFile := filepath.Join(dir, "plan.html")
	_, err = runCLI(t, "preview", filepath.Join(dir, "plan.docx"), "--out", htmlFile)
	require.NoError(t, err)
	fromDocx, err := os.ReadFile(htmlFile)
	require.NoError(t, err)
	require.Equal(t, strings.TrimSpace(html), strings.TrimSpace(string(fromDocx)))
}

func TestPreview_RejectsNonDocument(t *testing.T) {
	t.Parallel()
	path := writePlan(t, t.TempDir(), "notes.docx", "plain text")

	_, err := runCLI(t, "preview", path)
	require.Equal(t, exitValidation, exitCode(err))
	require.Contains(t, err.Error(), "The file is not a Word document.")
}

func TestLevels(t *testing.T) {
	t.Parallel()

	out, err := runCLI(t, "levels", "--json")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 8)
	require.JSONEq(t, `{"level":"intern","label":"Intern","nextLevel":"juniorMinus","minimumTenureMonths":3,"selectable":true}`, lines[0])
	require.JSONEq(t, `{"level":"seniorMinus","label":"Senior −","minimumTenureMonths":12,"selectable":false}`, lines[7])

	out, err = runCLI(t, "--lang", "ru", "levels")
	require.NoError(t, err)
	require.Contains(t, out, "middlePlus")
	require.Contains(t, out, "Уровень")
}

func TestMatrixExport(t *testing.T) {
	t.Parallel()
	target := filepath.Join(t.TempDir(), "matrix.xlsx")

	_, err := runCLI(t, "matrix", "export", "--out", target)
	require.NoError(t, err)

	f, err := excelize.OpenFile(target)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 9)
	require.Equal(t, "Level", rows[0][0])
}
