// Copyright © 2018 One Concern

package rcs

import (
	"bytes"
	"fmt"
)

// FormatError reports malformed delta chain input.
//
// Offset is -1 for errors found after the syntax was read, such as dangling
// revision references. It unwraps to one of the status.Err* format errors.
type FormatError struct {
	Offset   int
	Line     int
	Column   int
	Expected string
	Found    string
	Msg      string
	err      error
}

func (e *FormatError) Error() string {
	var detail string
	switch {
	case e.Msg != "":
		detail = e.Msg
	default:
		detail = fmt.Sprintf("expected %s, found %s", e.Expected, e.Found)
	}
	if e.Offset < 0 {
		return fmt.Sprintf("%v: %s", e.err, detail)
	}
	return fmt.Sprintf("%v: line %d, column %d: %s", e.err, e.Line, e.Column, detail)
}

// Unwrap the status error
func (e *FormatError) Unwrap() error {
	return e.err
}

// locate fills in the line and column of the error offset.
func (e *FormatError) locate(src []byte) {
	if e.Offset < 0 || e.Offset > len(src) {
		return
	}
	before := src[:e.Offset]
	e.Line = bytes.Count(before, []byte{'\n'}) + 1
	e.Column = e.Offset - bytes.LastIndexByte(before, '\n')
}
