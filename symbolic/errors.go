// Copyright 2024 The pgsynth Authors. All rights reserved. Use of this
// source code is governed by a license that can be found in the License
// file.

package symbolic

import "errors"

// errNoStrategy is returned by BisimSolution when called before Solve has
// populated Strategies.
var errNoStrategy = errors.New("symbolic: no strategy computed, call Solve first")
