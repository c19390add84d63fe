package prompt

import (
	"context"
	"fmt"
)

// Answers offered when a hand-edited file is about to be replaced.
const (
	AnswerOverwrite = "overwrite"
	AnswerKeep      = "keep"
	AnswerAll       = "overwrite all"
	AnswerNone      = "keep all"
)

// Overwrite asks once per hand-edited file and remembers "all" answers for
// the rest of the run.
type Overwrite struct {
	driver Driver
	sticky *bool
}

// NewOverwrite wraps driver.
func NewOverwrite(driver Driver) *Overwrite {
	return &Overwrite{driver: driver}
}

// ConfirmOverwrite reports whether path may be replaced.
func (o *Overwrite) ConfirmOverwrite(ctx context.Context, path string) (bool, error) {
	if o.sticky != nil {
		return *o.sticky, nil
	}
	options := []string{AnswerKeep, AnswerOverwrite, AnswerAll, AnswerNone}
	idx, err := o.driver.Select(ctx, SelectConfig{
		Message:      fmt.Sprintf("%s was edited since it was generated. Overwrite?", path),
		Options:      options,
		DefaultIndex: 0,
		Help:         "Hand edits are lost when the file is regenerated.",
	})
	if err != nil {
		return false, err
	}
	if idx < 0 {
		return false, nil
	}
	switch options[idx] {
	case AnswerOverwrite:
		return true, nil
	case AnswerAll:
		yes := true
		o.sticky = &yes
		return true, nil
	case AnswerNone:
		no := false
		o.sticky = &no
		return false, nil
	default:
		return false, nil
	}
}
