// Copyright (c) 2024 The pgsynth Authors. All rights reserved. Use of this
// source code is governed by a license that can be found in the License
// file.

package dd

import "errors"

// Sentinel errors returned by Kernel operations.
var (
	// ErrMemory is returned when the node table cannot grow any further to
	// satisfy a request, after a garbage collection was already attempted.
	ErrMemory = errors.New("dd: out of node memory")

	// ErrVarIndex is returned when a variable index is outside [0,varnum).
	ErrVarIndex = errors.New("dd: variable index out of range")

	// ErrBadCover is returned by the ZDD cover enumerator when asked to walk
	// a node that is not part of a well-formed ISOP cover set.
	ErrBadCover = errors.New("dd: malformed isop cover")
)
