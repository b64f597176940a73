// Copyright © 2024 the gg20tss authors
//
// This file is part of gg20tss. See the LICENSE file at the root of the
// source code distribution tree.

package keygen

import (
	"math/big"

	"github.com/threshold-sigs/gg20tss/crypto/dlnproof"
	"github.com/threshold-sigs/gg20tss/crypto/paillier"
	"github.com/threshold-sigs/gg20tss/crypto/schnorr"
	"github.com/threshold-sigs/gg20tss/crypto/vss"
	"github.com/threshold-sigs/gg20tss/curve"
)

// KeyGenBroadcast is round 0's output (wire round "R1" per spec.md §6.3):
// a party's Paillier key, ring-Pedersen parameters and their correctness
// proofs, and a commitment to y_i = u_i*G.
type KeyGenBroadcast struct {
	PaillierPK *paillier.PublicKey
	NTilde     *big.Int
	H1, H2     *big.Int
	Commitment *big.Int

	PaillierProof paillier.Proof
	// DLNProof1 proves h2=h1^xhi, DLNProof2 proves h1=h2^xhiInv (spec.md §9
	// "Global scalar H" / composite-DLog design note).
	DLNProof1, DLNProof2 *dlnproof.Proof
}

// KeyGenDecommit opens the commitment from KeyGenBroadcast (wire round R2).
type KeyGenDecommit struct {
	BlindFactor *big.Int
	Y           *curve.ECPoint
}

// FeldmanVSSShare is one party's VSS share of u_i sent to a specific peer,
// together with the commitment vector needed to verify it (wire round R3).
type FeldmanVSSShare struct {
	Share       *vss.Share
	Commitments vss.Vs
}

// DLogProofMsg closes out DKG: a proof of knowledge of x_i for the claimed
// public share Xi = x_i*G (wire round R4).
type DLogProofMsg struct {
	Proof *schnorr.ZKProof
	Xi    *curve.ECPoint
}
