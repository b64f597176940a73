// Copyright © 2024 the gg20tss authors
//
// This file is part of gg20tss. See the LICENSE file at the root of the
// source code distribution tree.

package mta

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/threshold-sigs/gg20tss/crypto/paillier"
	"github.com/threshold-sigs/gg20tss/curve"
)

const testModulusBits = 256

func setupKeysAndRing(t *testing.T) (*paillier.PrivateKey, *paillier.PublicKey, *big.Int, *big.Int, *big.Int) {
	t.Helper()
	skA, pkA, err := paillier.GenerateKeyPair(rand.Reader, testModulusBits)
	assert.NoError(t, err)

	sgpP := mustPrime(t, 96)
	sgpQ := mustPrime(t, 96)
	ntilde := new(big.Int).Mul(sgpP, sgpQ)
	h1 := big.NewInt(7)
	h2 := new(big.Int).Exp(h1, big.NewInt(3), ntilde)
	return skA, pkA, ntilde, h1, h2
}

func mustPrime(t *testing.T, bits int) *big.Int {
	t.Helper()
	p, err := rand.Prime(rand.Reader, bits)
	assert.NoError(t, err)
	return p
}

func TestMtAAdditiveConsistency(t *testing.T) {
	skA, pkA, ntildeA, h1A, h2A := setupKeysAndRing(t)
	_, _, ntildeB, h1B, h2B := setupKeysAndRing(t)

	q := curve.EC().Params().N
	a := big.NewInt(123456789)
	b := big.NewInt(987654321)

	// piA is bound to Bob's ring-Pedersen parameters: Bob verifies it.
	cA, piA, _, err := AliceInit(rand.Reader, pkA, a, ntildeB, h1B, h2B)
	assert.NoError(t, err)
	assert.True(t, piA.Verify(pkA, cA, ntildeB, h1B, h2B))

	// piB is bound to Alice's ring-Pedersen parameters: Alice verifies it.
	beta, cB, piB, err := BobMid(rand.Reader, pkA, piA, cA, b, ntildeA, h1A, h2A, ntildeB, h1B, h2B)
	assert.NoError(t, err)

	alpha, err := AliceEnd(skA, piB, h1A, h2A, ntildeA, cA, cB)
	assert.NoError(t, err)

	sum := new(big.Int).Mod(new(big.Int).Add(alpha, beta), q)
	expect := new(big.Int).Mod(new(big.Int).Mul(a, b), q)
	assert.Zero(t, sum.Cmp(expect))
}

func TestMtAWCAdditiveConsistency(t *testing.T) {
	skA, pkA, ntildeA, h1A, h2A := setupKeysAndRing(t)
	_, _, ntildeB, h1B, h2B := setupKeysAndRing(t)

	q := curve.EC().Params().N
	a := big.NewInt(42)
	b := big.NewInt(1337)
	B := curve.ScalarBaseMult(b)

	cA, piA, _, err := AliceInit(rand.Reader, pkA, a, ntildeB, h1B, h2B)
	assert.NoError(t, err)

	beta, cB, piB, err := BobMidWC(rand.Reader, pkA, piA, cA, b, ntildeA, h1A, h2A, ntildeB, h1B, h2B, B)
	assert.NoError(t, err)

	alpha, err := AliceEndWC(skA, piB, h1A, h2A, ntildeA, cA, cB, B)
	assert.NoError(t, err)

	sum := new(big.Int).Mod(new(big.Int).Add(alpha, beta), q)
	expect := new(big.Int).Mod(new(big.Int).Mul(a, b), q)
	assert.Zero(t, sum.Cmp(expect))
}
