// Copyright © 2024 the gg20tss authors
//
// This file is part of gg20tss. See the LICENSE file at the root of the
// source code distribution tree.

package commitments

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHashCommitmentVerifyAndDecommit(t *testing.T) {
	secrets := []*big.Int{big.NewInt(11), big.NewInt(23), big.NewInt(42)}
	cmt := NewHashCommitment(rand.Reader, secrets...)

	assert.True(t, cmt.Verify())

	ok, d := cmt.DeCommit()
	assert.True(t, ok)
	if assert.Len(t, d, len(secrets)) {
		for i, s := range secrets {
			assert.Zero(t, s.Cmp(d[i]))
		}
	}
}

func TestHashCommitmentRejectsTamperedSecret(t *testing.T) {
	cmt := NewHashCommitment(rand.Reader, big.NewInt(7))
	cmt.D[1] = big.NewInt(8)

	assert.False(t, cmt.Verify())
	ok, _ := cmt.DeCommit()
	assert.False(t, ok)
}
