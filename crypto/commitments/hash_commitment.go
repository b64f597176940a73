// Copyright © 2024 the gg20tss authors
//
// This file is part of gg20tss. See the LICENSE file at the root of the
// source code distribution tree.

// Package commitments implements the hash commit/decommit scheme used to
// hide a party's public contribution y_i = u_i*G (DKG) or Gamma_i (presign)
// until every party has committed, preventing the last sender from choosing
// its value adaptively (spec.md §4.1 round 1/2).
package commitments

import (
	"io"
	"math/big"

	"golang.org/x/crypto/sha3"

	"github.com/threshold-sigs/gg20tss/common"
)

const hashCommitmentBitsOfSecurity = 256

// HashCommitment is C = SHA3-256(r || secrets...), paired with the random
// blinding factor r and the original secrets for later decommitment.
type HashCommitment struct {
	C *big.Int
	D []*big.Int // [r, secrets...]
}

// NewHashCommitment draws a fresh random blinding factor from rnd and
// commits to the given secrets.
func NewHashCommitment(rnd io.Reader, secrets ...*big.Int) *HashCommitment {
	r := common.MustGetRandomInt(rnd, hashCommitmentBitsOfSecurity)
	input := append([]*big.Int{r}, secrets...)
	cHash := sha3Sum(input)
	d := make([]*big.Int, len(input))
	copy(d, input)
	return &HashCommitment{C: cHash, D: d}
}

func sha3Sum(ints []*big.Int) *big.Int {
	h := sha3.New256()
	for _, n := range ints {
		h.Write(n.Bytes())
	}
	return new(big.Int).SetBytes(h.Sum(nil))
}

// Verify checks that D, taken as [r, secrets...], hashes to C.
func (cmt *HashCommitment) Verify() bool {
	if cmt.C == nil || len(cmt.D) == 0 {
		return false
	}
	return sha3Sum(cmt.D).Cmp(cmt.C) == 0
}

// DeCommit checks the commitment and, if it verifies, returns the secrets
// (without the leading blinding factor).
func (cmt *HashCommitment) DeCommit() (bool, []*big.Int) {
	if !cmt.Verify() {
		return false, nil
	}
	return true, cmt.D[1:]
}

// Commit computes SHA3-256(blind || secrets...) directly, for callers that
// pick their own blinding factor instead of letting NewHashCommitment draw
// one (spec.md §4.1's DKG commitment, where blind_factor is sampled once
// and reused across the commit/decommit pair of broadcasts).
func Commit(blind *big.Int, secrets ...*big.Int) *big.Int {
	return sha3Sum(append([]*big.Int{blind}, secrets...))
}

// VerifyCommit reproduces Commit(blind, secrets...) and compares to com.
func VerifyCommit(com, blind *big.Int, secrets ...*big.Int) bool {
	if com == nil || blind == nil {
		return false
	}
	return Commit(blind, secrets...).Cmp(com) == 0
}
