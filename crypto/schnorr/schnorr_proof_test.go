// Copyright © 2024 the gg20tss authors
//
// This file is part of gg20tss. See the LICENSE file at the root of the
// source code distribution tree.

package schnorr

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/threshold-sigs/gg20tss/curve"
)

func TestZKProofRoundTrip(t *testing.T) {
	q := curve.EC().Params().N
	x, err := rand.Int(rand.Reader, q)
	assert.NoError(t, err)
	y := curve.ScalarBaseMult(x)

	pf, err := NewZKProof(rand.Reader, x, y)
	assert.NoError(t, err)
	assert.True(t, pf.Verify(y))
}

func TestZKProofRejectsWrongStatement(t *testing.T) {
	q := curve.EC().Params().N
	x, err := rand.Int(rand.Reader, q)
	assert.NoError(t, err)
	y := curve.ScalarBaseMult(x)
	other := curve.G() // a valid point distinct from y unless x == 1

	pf, err := NewZKProof(rand.Reader, x, y)
	assert.NoError(t, err)
	assert.False(t, pf.Verify(other))
}

func TestZKVProofRoundTrip(t *testing.T) {
	q := curve.EC().Params().N
	x, err := rand.Int(rand.Reader, q)
	assert.NoError(t, err)
	X := curve.ScalarBaseMult(x)

	s, err := rand.Int(rand.Reader, q)
	assert.NoError(t, err)
	l, err := rand.Int(rand.Reader, q)
	assert.NoError(t, err)

	V, err := X.ScalarMult(s).Add(curve.ScalarBaseMult(l))
	assert.NoError(t, err)

	pf, err := NewZKVProof(rand.Reader, X, V, s, l)
	assert.NoError(t, err)
	assert.True(t, pf.Verify(X, V))
}
