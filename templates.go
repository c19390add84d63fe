package rpwrap

import (
	"io/fs"

	"github.com/goliatone/go-rpwrap/pkg/templates"
)

// EmbeddedTemplates exposes the built-in pongo2 templates (module, function,
// error and package) so callers can copy and customise them for
// templates_dir.
func EmbeddedTemplates() fs.FS {
	return templates.FS()
}
