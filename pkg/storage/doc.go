// Copyright © 2018 One Concern

// Package storage provides an interface to read and write delta chain files.
//
// This package supports the following backends:
//   - local file system, with plain or atomic (staged then renamed) writes
//
// Any backend may be wrapped with Instrument to trace and log calls.
package storage
