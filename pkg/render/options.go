package render

// RenderOptions carries per-run data that renderers can use without changing
// the bundle.
type RenderOptions struct {
	// Placeholders supplies extra values for custom module templates that
	// reference names beyond the required set. Required keys computed by the
	// renderer win over entries here.
	Placeholders map[string]string

	// Only restricts the module renderer to the named modules. Empty renders
	// every module in the bundle.
	Only []string
}

// Selected reports whether module should be rendered under these options.
func (o RenderOptions) Selected(module string) bool {
	if len(o.Only) == 0 {
		return true
	}
	for _, name := range o.Only {
		if name == module {
			return true
		}
	}
	return false
}
