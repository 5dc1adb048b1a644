// Copyright © 2018 One Concern

// Package status defines the errors returned when reading or updating a
// delta chain.
package status

import "github.com/oneconcern/reviz/pkg/errors"

var (
	// ErrFormat is the root of all parse errors
	ErrFormat = errors.New("invalid rcs format")

	// ErrMissingDesc is returned when the desc phrase is absent
	ErrMissingDesc = ErrFormat.WrapMessage("missing desc")

	// ErrBadDate is returned for malformed dates
	ErrBadDate = ErrFormat.WrapMessage("malformed date")

	// ErrBadRevision is returned for malformed revision numbers in the file
	ErrBadRevision = ErrFormat.WrapMessage("malformed revision")

	// ErrDuplicate is returned when a revision, a deltatext or a phrase is repeated
	ErrDuplicate = ErrFormat.WrapMessage("duplicate entry")

	// ErrDanglingRevision is returned when a revision reference does not resolve
	ErrDanglingRevision = ErrFormat.WrapMessage("reference to an unknown revision")

	// ErrUnreachable is returned when a delta is not linked to the head
	ErrUnreachable = ErrFormat.WrapMessage("revision unreachable from head")

	// ErrMissingDeltaText is returned when a delta has no deltatext record
	ErrMissingDeltaText = ErrFormat.WrapMessage("missing deltatext")

	// ErrRevisionNotExist is returned when a revision is not in the file
	ErrRevisionNotExist = errors.New("revision does not exist")

	// ErrNotGreater is returned when committing a revision not greater than its predecessor
	ErrNotGreater = errors.New("revision is not greater than its predecessor")

	// ErrNotOnBranch is returned when the predecessor of a new revision is not on its branch
	ErrNotOnBranch = errors.New("predecessor is not on the target branch")

	// ErrNoPredecessor is returned when a branch revision has no origin in the file
	ErrNoPredecessor = errors.New("branch origin does not exist")

	// ErrInvalidWord is returned when an author, state or symbol cannot be written as an identifier
	ErrInvalidWord = errors.New("invalid identifier")

	// ErrAnnotateTarget is returned when the annotated revision cannot be reached
	ErrAnnotateTarget = errors.New("revision not reachable for annotation")

	// ErrAlreadyExist is returned when adding a file whose head is alive
	ErrAlreadyExist = errors.New("file already exists")

	// ErrNotExist is returned when changing a file whose head is dead
	ErrNotExist = errors.New("file does not exist")
)
