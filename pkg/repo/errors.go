package repo

import "github.com/oneconcern/reviz/pkg/errors"

var (
	// ErrLockFailure is returned when a directory lock could not be acquired
	ErrLockFailure = errors.New("could not lock directory")

	// ErrNoFile is returned when a file has no delta chain in the repository
	ErrNoFile = errors.New("no such file in repository")

	// ErrNoBranch is returned when a branch tag does not name a head of the file
	ErrNoBranch = errors.New("no such branch")

	// ErrInvalidName is returned for file names escaping the repository or naming repository internals
	ErrInvalidName = errors.New("invalid file name")
)
