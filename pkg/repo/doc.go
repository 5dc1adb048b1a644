// Copyright © 2018 One Concern

// Package repo manages the delta chains of a local repository.
//
// A repository is a directory tree holding one chain per tracked file, named
// after the file with a ",v" suffix. Chains whose trunk head is dead live in
// the Attic subdirectory next to them.
//
// Readers and writers coordinate through lock files in each directory: the
// master lock directory "#cvs.lock" serializes lock changes, "#cvs.rfl.<owner>"
// files mark readers and "#cvs.wfl.<owner>" marks the writer.
package repo
