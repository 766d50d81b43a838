package main

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-faster/errors"
)

func writeJSONLine(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return withCode(exitIO, errors.Wrap(err, "json encode"))
	}
	return nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// baseFileName keeps a derived file name inside its directory: the employee
// name may contain path separators.
func baseFileName(name string) string {
	name = strings.NewReplacer("/", "_", `\`, "_").Replace(name)
	if name == "." || name == ".." || name == "" {
		return "_"
	}
	return name
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return withCode(exitIO, errors.Wrapf(err, "mkdir %s", dir))
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return withCode(exitIO, errors.Wrapf(err, "write %s", path))
	}
	return nil
}
