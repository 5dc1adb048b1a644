// Copyright © 2018 One Concern

package revision

import "github.com/oneconcern/reviz/pkg/errors"

var (
	// ErrRevisionFormat is returned when a revision cannot be built from its input
	ErrRevisionFormat = errors.New("invalid revision")

	// ErrNoOrigin is returned when asking for the origin of a trunk revision or of a top-level branch
	ErrNoOrigin = errors.New("revision has no origin")

	// ErrNotBranch is returned when a branch identifier is expected
	ErrNotBranch = errors.New("not a branch identifier")
)
