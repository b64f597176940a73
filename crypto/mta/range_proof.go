// Copyright © 2024 the gg20tss authors
//
// This file is part of gg20tss. See the LICENSE file at the root of the
// source code distribution tree.

package mta

import (
	"io"
	"math/big"

	"github.com/threshold-sigs/gg20tss/common"
	"github.com/threshold-sigs/gg20tss/crypto/paillier"
	"github.com/threshold-sigs/gg20tss/curve"
)

// RangeProofAlice proves that the plaintext behind a Paillier ciphertext c
// lies in [0, q), bound to the verifier's ring-Pedersen parameters
// (N~, h1, h2) so the prover cannot choose them adversarially.
type RangeProofAlice struct {
	Z, U, W, S, S1, S2 *big.Int
}

// ProveRangeAlice builds the proof for ciphertext c=Enc(m, r) under pk.
func ProveRangeAlice(rnd io.Reader, pk *paillier.PublicKey, c *big.Int, ntilde, h1, h2 *big.Int, m, r *big.Int) *RangeProofAlice {
	q := curve.EC().Params().N
	q3 := new(big.Int).Exp(q, big.NewInt(3), nil)

	alpha := common.GetRandomPositiveInt(rnd, q3)
	beta := common.GetRandomPositiveRelativelyPrimeInt(rnd, pk.N)
	gamma := common.GetRandomPositiveInt(rnd, new(big.Int).Mul(q3, ntilde))
	rho := common.GetRandomPositiveInt(rnd, new(big.Int).Mul(q, ntilde))

	z := ringPedersenCommit(ntilde, h1, h2, m, rho)
	w := ringPedersenCommit(ntilde, h1, h2, alpha, gamma)

	modNSquare := common.ModInt(pk.NSquare)
	gAlpha := new(big.Int).Add(big.NewInt(1), new(big.Int).Mul(alpha, pk.N))
	gAlpha.Mod(gAlpha, pk.NSquare)
	u := modNSquare.Mul(gAlpha, modNSquare.Exp(beta, pk.N))

	e := common.RejectionSample(q, common.SHA512_256i(c, z, u, w))

	modN := common.ModInt(pk.N)
	s := modN.Mul(beta, modN.Exp(r, e))
	s1 := new(big.Int).Add(new(big.Int).Mul(e, m), alpha)
	s2 := new(big.Int).Add(new(big.Int).Mul(e, rho), gamma)

	return &RangeProofAlice{Z: z, U: u, W: w, S: s, S1: s1, S2: s2}
}

func ringPedersenCommit(ntilde, h1, h2, exp1, exp2 *big.Int) *big.Int {
	modNTilde := common.ModInt(ntilde)
	return modNTilde.Mul(modNTilde.Exp(h1, exp1), modNTilde.Exp(h2, exp2))
}

// Verify checks the proof against ciphertext c, prover's Paillier key pk,
// and the verifier's own ring-Pedersen parameters.
func (pf *RangeProofAlice) Verify(pk *paillier.PublicKey, c *big.Int, ntilde, h1, h2 *big.Int) bool {
	if pf == nil || pf.Z == nil || pf.U == nil || pf.W == nil || pf.S == nil || pf.S1 == nil || pf.S2 == nil {
		return false
	}
	q := curve.EC().Params().N
	q3 := new(big.Int).Exp(q, big.NewInt(3), nil)
	if pf.S1.Cmp(q3) > 0 || pf.S1.Sign() < 0 {
		return false
	}

	e := common.RejectionSample(q, common.SHA512_256i(c, pf.Z, pf.U, pf.W))

	modNSquare := common.ModInt(pk.NSquare)
	gS1 := new(big.Int).Add(big.NewInt(1), new(big.Int).Mul(pf.S1, pk.N))
	gS1.Mod(gS1, pk.NSquare)
	lhs1 := modNSquare.Mul(gS1, modNSquare.Exp(pf.S, pk.N))
	rhs1 := modNSquare.Mul(pf.U, modNSquare.Exp(c, e))
	if lhs1.Cmp(rhs1) != 0 {
		return false
	}

	modNTilde := common.ModInt(ntilde)
	lhs2 := ringPedersenCommit(ntilde, h1, h2, pf.S1, pf.S2)
	rhs2 := modNTilde.Mul(pf.W, modNTilde.Exp(pf.Z, e))
	return lhs2.Cmp(rhs2) == 0
}
