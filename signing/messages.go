// Copyright © 2024 the gg20tss authors
//
// This file is part of gg20tss. See the LICENSE file at the root of the
// source code distribution tree.

// Package signing implements online finalization (spec.md §4.3): given a
// message hash and a presign package's CompletedPresig, each party emits
// one PartialSignature; combining every party's partial over the signer
// set reconstructs a standard ECDSA signature.
package signing

import "math/big"

// PartialSignature is the one message online finalization produces: this
// party's contribution s_i = m*k_i + r*sigma_i toward the assembled s.
type PartialSignature struct {
	Index int
	SI    *big.Int
}
