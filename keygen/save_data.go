// Copyright © 2024 the gg20tss authors
//
// This file is part of gg20tss. See the LICENSE file at the root of the
// source code distribution tree.

// Package keygen implements the distributed key generation state machine:
// five rounds that leave every party holding an additive share of a shared
// ECDSA private key, plus the public material (Paillier keys, ring-Pedersen
// parameters, VSS commitments) needed to run offline signing against it.
package keygen

import (
	"math/big"

	"github.com/threshold-sigs/gg20tss/crypto/paillier"
	"github.com/threshold-sigs/gg20tss/crypto/vss"
	"github.com/threshold-sigs/gg20tss/curve"
)

// LocalPartySaveData is the durable output of a completed run: one party's
// share of the shared key plus everything needed to verify other parties'
// contributions during a later signing session (spec.md §3 "LocalKey").
type LocalPartySaveData struct {
	Index      int
	Threshold  int
	PartyCount int

	// Xi is this party's additive share of the shared ECDSA private key.
	Xi *big.Int
	// Y is the shared public key X = sk*G.
	Y *curve.ECPoint

	// PKVec[j-1] = x_j*G, every party's committed public share.
	PKVec []*curve.ECPoint

	PaillierDK    *paillier.PrivateKey
	PaillierEKVec []*paillier.PublicKey

	NTildeVec, H1Vec, H2Vec []*big.Int

	// VssSchemeVec[j-1] is party j's Feldman commitment vector, needed to
	// re-derive g^{x_i} independently of what a signer later claims.
	VssSchemeVec []vss.Vs

	// Ks holds the keygen-time party indices as big.Ints, ready for
	// Lagrange interpolation during signing.
	Ks []*big.Int
}
