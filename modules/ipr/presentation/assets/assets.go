package assets

import (
	"embed"

	"github.com/benbjohnson/hashfs"
)

//go:embed css/*.css js/*.js
var FS embed.FS

var HashFS = hashfs.NewFS(FS)

const (
	StylesheetPath = "css/ipr.css"
	ScriptPath     = "js/ipr.js"
)

// URL returns the content-hashed public URL of an embedded asset.
func URL(name string) string {
	return "/assets/" + HashFS.HashName(name)
}
