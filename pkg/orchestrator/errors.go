package orchestrator

import "errors"

// ErrConfirmDeclined is returned by Writer.Write when hand-edited files were
// kept because the overwrite was not confirmed.
var ErrConfirmDeclined = errors.New("orchestrator: overwrite of edited files declined")
