// Copyright © 2024 the gg20tss authors
//
// This file is part of gg20tss. See the LICENSE file at the root of the
// source code distribution tree.

package common

import (
	"crypto/sha256"
	"math/big"
)

// RejectionSample converts a SHA512/256 hash into a value in [0, q) using
// rejection sampling, so Fiat-Shamir challenges are unbiased modulo q.
func RejectionSample(q *big.Int, eHash *big.Int) *big.Int {
	if len(q.Bytes()) > 32 {
		panic("RejectionSample: invalid q size")
	}
	auxiliary := new(big.Int).Set(eHash)
	e := new(big.Int).Set(q)
	qBytesLen := len(q.Bytes())
	for e.Cmp(q) != -1 {
		auxiliary.Add(auxiliary, one)
		reSampled := sha256.Sum256(auxiliary.Bytes())
		e = new(big.Int).SetBytes(reSampled[:qBytesLen])
	}
	return e
}
