// Copyright © 2024 the gg20tss authors
//
// This file is part of gg20tss. See the LICENSE file at the root of the
// source code distribution tree.

// Package presign implements the seven-round offline signing state machine
// (spec.md §4.2): every member of a chosen signer set Sl converts its
// keygen-time additive share into a presignature that is independent of the
// message to be signed, so the online phase (package signing) can finish
// with a single round of local arithmetic.
package presign

import (
	"math/big"

	"github.com/threshold-sigs/gg20tss/curve"
	"github.com/threshold-sigs/gg20tss/keygen"
)

// CompletedPresig is the durable output of a finished presign run: enough
// for the online phase to produce a partial signature against any message,
// without further interaction with the other signers (spec.md §4.2
// "CompletedPresig").
type CompletedPresig struct {
	Index    int
	LocalKey *keygen.LocalPartySaveData
	R        *curve.ECPoint
	SigmaI   *big.Int
	TVec     map[int]*curve.ECPoint // signer index (incl. self) -> T_i
	WI       *big.Int
	KI       *big.Int
}
