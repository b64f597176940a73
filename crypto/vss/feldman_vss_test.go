// Copyright © 2024 the gg20tss authors
//
// This file is part of gg20tss. See the LICENSE file at the root of the
// source code distribution tree.

package vss

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/threshold-sigs/gg20tss/curve"
)

func TestCreateVerifyReconstruct(t *testing.T) {
	secret := common_randomInt(t)
	threshold, num := 3, 7

	ids := make([]*big.Int, num)
	for i := 0; i < num; i++ {
		ids[i] = big.NewInt(int64(i + 1))
	}

	vs, shares, err := Create(rand.Reader, threshold, secret, ids)
	assert.NoError(t, err)
	assert.Len(t, vs, threshold+1)
	assert.Len(t, shares, num)

	for _, share := range shares {
		assert.True(t, share.Verify(vs))
	}

	// any t+1 shares reconstruct the same secret
	rebuilt, err := ReConstruct(shares[:threshold+1])
	assert.NoError(t, err)
	assert.Zero(t, secret.Cmp(rebuilt))

	rebuilt2, err := ReConstruct(shares[2 : 2+threshold+1])
	assert.NoError(t, err)
	assert.Zero(t, secret.Cmp(rebuilt2))
}

func TestCreateRejectsTooFewIndexes(t *testing.T) {
	secret := common_randomInt(t)
	ids := []*big.Int{big.NewInt(1), big.NewInt(2)}
	_, _, err := Create(rand.Reader, 3, secret, ids)
	assert.ErrorIs(t, err, ErrNumSharesBelowThreshold)
}

func TestVerifyRejectsTamperedShare(t *testing.T) {
	secret := common_randomInt(t)
	ids := []*big.Int{big.NewInt(1), big.NewInt(2), big.NewInt(3), big.NewInt(4)}
	vs, shares, err := Create(rand.Reader, 2, secret, ids)
	assert.NoError(t, err)

	tampered := &Share{Threshold: shares[0].Threshold, ID: shares[0].ID, Share: new(big.Int).Add(shares[0].Share, big.NewInt(1))}
	assert.False(t, tampered.Verify(vs))
}

func common_randomInt(t *testing.T) *big.Int {
	t.Helper()
	n, err := rand.Int(rand.Reader, curve.EC().Params().N)
	assert.NoError(t, err)
	return n
}
