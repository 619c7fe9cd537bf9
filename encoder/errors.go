// Copyright 2024 The pgsynth Authors. All rights reserved. Use of this
// source code is governed by a license that can be found in the License
// file.

package encoder

import "errors"

var (
	// ErrUnknownMode is returned by Encode for a Mode value it doesn't
	// recognise.
	ErrUnknownMode = errors.New("encoder: unknown mode")
	// ErrCoverMismatch is returned when a kernel's ISOP result doesn't
	// round-trip back to the function it was computed from, which would
	// indicate a kernel bug rather than anything the caller did wrong.
	ErrCoverMismatch = errors.New("encoder: isop cover does not match source function")
	// ErrNoCandidates is returned by BestOf when given an empty candidate
	// list.
	ErrNoCandidates = errors.New("encoder: no candidates to choose from")
)
