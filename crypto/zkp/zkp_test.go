// Copyright © 2024 the gg20tss authors
//
// This file is part of gg20tss. See the LICENSE file at the root of the
// source code distribution tree.

package zkp

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/threshold-sigs/gg20tss/crypto/paillier"
	"github.com/threshold-sigs/gg20tss/curve"
)

func TestTProofRoundTrip(t *testing.T) {
	q := curve.EC().Params().N
	sigma, _ := rand.Int(rand.Reader, q)
	l, _ := rand.Int(rand.Reader, q)

	T, err := curve.ScalarBaseMult(sigma).Add(curve.H().ScalarMult(l))
	assert.NoError(t, err)

	pf, err := NewTProof(rand.Reader, T, sigma, l)
	assert.NoError(t, err)
	assert.True(t, pf.Verify(T))
}

func TestSTProofRoundTrip(t *testing.T) {
	q := curve.EC().Params().N
	sigma, _ := rand.Int(rand.Reader, q)
	l, _ := rand.Int(rand.Reader, q)
	k, _ := rand.Int(rand.Reader, q)
	R := curve.ScalarBaseMult(k)

	S := R.ScalarMult(sigma)
	T, err := curve.ScalarBaseMult(sigma).Add(curve.H().ScalarMult(l))
	assert.NoError(t, err)

	pf, err := NewSTProof(rand.Reader, R, S, T, sigma, l)
	assert.NoError(t, err)
	assert.True(t, pf.Verify(R, S, T))
}

func TestPDLwSlackProofRoundTrip(t *testing.T) {
	_, pk, err := paillier.GenerateKeyPair(rand.Reader, 256)
	assert.NoError(t, err)

	q := curve.EC().Params().N
	x, _ := rand.Int(rand.Reader, q)
	X := curve.ScalarBaseMult(x)

	c, r, err := pk.EncryptAndReturnRandomness(rand.Reader, x)
	assert.NoError(t, err)

	ntilde := big.NewInt(0).SetInt64(1000003 * 1000033)
	h1 := big.NewInt(7)
	h2 := new(big.Int).Exp(h1, big.NewInt(5), ntilde)

	statement := &PDLwSlackStatement{PK: pk, CipherText: c, X: X, NTilde: ntilde, H1: h1, H2: h2}
	witness := &PDLwSlackWitness{X: x, R: r}

	pf, err := NewPDLwSlackProof(rand.Reader, witness, statement)
	assert.NoError(t, err)
	assert.True(t, pf.Verify(statement))
}
