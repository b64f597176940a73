// Copyright © 2024 the gg20tss authors
//
// This file is part of gg20tss. See the LICENSE file at the root of the
// source code distribution tree.

package paillier

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

// testModulusBits is far below PaillierModulusBits; production keys use
// tss.PaillierModulusBits but that is too slow for a unit test's safe-prime
// search.
const testModulusBits = 256

func TestEncryptDecryptRoundTrip(t *testing.T) {
	sk, pk, err := GenerateKeyPair(rand.Reader, testModulusBits)
	assert.NoError(t, err)

	m := big.NewInt(424242)
	c, err := pk.Encrypt(rand.Reader, m)
	assert.NoError(t, err)

	got, err := sk.Decrypt(c)
	assert.NoError(t, err)
	assert.Zero(t, m.Cmp(got))
}

func TestHomomorphicAdd(t *testing.T) {
	sk, pk, err := GenerateKeyPair(rand.Reader, testModulusBits)
	assert.NoError(t, err)

	m1, m2 := big.NewInt(17), big.NewInt(25)
	c1, err := pk.Encrypt(rand.Reader, m1)
	assert.NoError(t, err)
	c2, err := pk.Encrypt(rand.Reader, m2)
	assert.NoError(t, err)

	cSum, err := pk.HomoAdd(c1, c2)
	assert.NoError(t, err)
	got, err := sk.Decrypt(cSum)
	assert.NoError(t, err)
	assert.Zero(t, got.Cmp(new(big.Int).Add(m1, m2)))
}

func TestHomomorphicMult(t *testing.T) {
	sk, pk, err := GenerateKeyPair(rand.Reader, testModulusBits)
	assert.NoError(t, err)

	m, scalar := big.NewInt(9), big.NewInt(7)
	c, err := pk.Encrypt(rand.Reader, m)
	assert.NoError(t, err)

	cMul, err := pk.HomoMult(scalar, c)
	assert.NoError(t, err)
	got, err := sk.Decrypt(cMul)
	assert.NoError(t, err)
	assert.Zero(t, got.Cmp(new(big.Int).Mul(m, scalar)))
}

func TestCorrectKeyProof(t *testing.T) {
	sk, pk, err := GenerateKeyPair(rand.Reader, testModulusBits)
	assert.NoError(t, err)

	ecdsaPub := []*big.Int{big.NewInt(1), big.NewInt(2)}
	pf, err := sk.CreateProof(ecdsaPub)
	assert.NoError(t, err)
	assert.True(t, pf.Verify(pk, ecdsaPub))
}

func TestCorrectKeyProofRejectsWrongKey(t *testing.T) {
	sk, _, err := GenerateKeyPair(rand.Reader, testModulusBits)
	assert.NoError(t, err)
	_, pk2, err := GenerateKeyPair(rand.Reader, testModulusBits)
	assert.NoError(t, err)

	ecdsaPub := []*big.Int{big.NewInt(1)}
	pf, err := sk.CreateProof(ecdsaPub)
	assert.NoError(t, err)
	assert.False(t, pf.Verify(pk2, ecdsaPub))
}
