// Copyright 2024 The pgsynth Authors. All rights reserved. Use of this
// source code is governed by a license that can be found in the License
// file.

package game

import "errors"

// ErrNoWinner is returned by a solver when a vertex is unreachable from
// every starting point a caller asked about, so no winner can be reported
// for it.
var ErrNoWinner = errors.New("game: no winner computed for vertex")
