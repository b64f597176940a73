// Copyright © 2024 the gg20tss authors
//
// This file is part of gg20tss. See the LICENSE file at the root of the
// source code distribution tree.

package dlnproof

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/threshold-sigs/gg20tss/common"
)

func setupRingPedersen(t *testing.T) (p, q, N, h1, h2, x *big.Int) {
	t.Helper()
	sgpP := common.GetRandomSafePrime(rand.Reader, 96)
	sgpQ := common.GetRandomSafePrime(rand.Reader, 96)
	p, q = sgpP.SafePrime(), sgpQ.SafePrime()
	N = new(big.Int).Mul(p, q)
	phi := new(big.Int).Mul(new(big.Int).Sub(p, big.NewInt(1)), new(big.Int).Sub(q, big.NewInt(1)))

	f := common.GetRandomPositiveRelativelyPrimeInt(rand.Reader, N)
	alpha := common.GetRandomPositiveInt(rand.Reader, phi)
	modN := common.ModInt(N)
	h1 = modN.Mul(f, f)
	h2 = modN.Exp(h1, alpha)
	return p, q, N, h1, h2, alpha
}

func TestDLNProofVerifies(t *testing.T) {
	p, q, N, h1, h2, x := setupRingPedersen(t)
	pf := NewDLNProof(rand.Reader, h1, h2, x, p, q, N)
	assert.True(t, pf.Verify(h1, h2, N))
}

func TestDLNProofRejectsWrongStatement(t *testing.T) {
	p, q, N, h1, h2, x := setupRingPedersen(t)
	pf := NewDLNProof(rand.Reader, h1, h2, x, p, q, N)

	otherH2 := common.ModInt(N).Mul(h2, big.NewInt(2))
	assert.False(t, pf.Verify(h1, otherH2, N))
}
