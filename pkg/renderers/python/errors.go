package python

import (
	"context"
	"fmt"

	"github.com/goliatone/go-rpwrap/pkg/render"
	rendertemplate "github.com/goliatone/go-rpwrap/pkg/render/template"
	"github.com/goliatone/go-rpwrap/pkg/rperr"
	"github.com/goliatone/go-rpwrap/pkg/templates"
)

// Errors renders error.py from the status code table.
type Errors struct {
	templates rendertemplate.TemplateRenderer
}

func (r *Errors) Name() string {
	return NameErrors
}

func (r *Errors) Render(_ context.Context, bundle render.Bundle, _ render.RenderOptions) ([]render.Output, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("python renderer: template renderer is nil")
	}

	codes := make([]map[string]any, 0, len(rperr.Codes()))
	for _, code := range rperr.Codes() {
		codes = append(codes, map[string]any{
			"name":    code.Name(),
			"value":   int(code),
			"message": code.Message(),
		})
	}

	text, err := r.templates.RenderTemplate(templates.Errors, map[string]any{
		"qualname":  bundle.QualName("error"),
		"commit_id": bundle.CommitID,
		"codes":     codes,
	})
	if err != nil {
		return nil, fmt.Errorf("python renderer: render error.py: %w", err)
	}
	return []render.Output{{Path: "error.py", Text: text}}, nil
}
