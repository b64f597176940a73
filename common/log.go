// Copyright © 2024 the gg20tss authors
//
// This file is part of gg20tss. See the LICENSE file at the root of the
// source code distribution tree.

package common

import (
	logging "github.com/ipfs/go-log"
)

// Logger is shared by every package in this module. Set its level with
// log.SetLogLevel("gg20tss", "debug") in tests or host applications.
var Logger = logging.Logger("gg20tss")
