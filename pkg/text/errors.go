package text

import "github.com/oneconcern/reviz/pkg/errors"

// ErrInvalidDiffFormat is returned when an edit script cannot be interpreted
var ErrInvalidDiffFormat = errors.New("invalid diff format")
