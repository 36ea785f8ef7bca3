// SPDX-License-Identifier: ISC
// Copyright (c) 2022-2024 NFTinder
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package constants

import (
	"time"
)

// the maximum age of an authorization message before it is stale
const (
	MaximumAuthorizationAge = 5 * time.Minute
)
