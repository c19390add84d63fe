package python

import (
	"context"

	"github.com/goliatone/go-rpwrap/pkg/render"
)

// Constants copies the hand-written constants.py verbatim. It produces
// nothing when the bundle carries no constants.
type Constants struct{}

func (r *Constants) Name() string {
	return NameConstants
}

func (r *Constants) Render(_ context.Context, bundle render.Bundle, _ render.RenderOptions) ([]render.Output, error) {
	if len(bundle.Constants) == 0 {
		return nil, nil
	}
	return []render.Output{{Path: "constants.py", Text: string(bundle.Constants)}}, nil
}
