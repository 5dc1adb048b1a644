// Copyright © 2018 One Concern

package status

import "github.com/oneconcern/reviz/pkg/errors"

var (
	// ErrUnknownAlgorithm is returned when looking up an unregistered diff algorithm
	ErrUnknownAlgorithm = errors.New("unknown diff algorithm")

	// ErrMismatch is returned when an edit script does not fit the sequence it is applied to
	ErrMismatch = errors.New("edit script does not match input")
)
