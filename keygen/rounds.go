// Copyright © 2024 the gg20tss authors
//
// This file is part of gg20tss. See the LICENSE file at the root of the
// source code distribution tree.

package keygen

import (
	"math/big"

	errorspkg "github.com/pkg/errors"

	"github.com/threshold-sigs/gg20tss/common"
	"github.com/threshold-sigs/gg20tss/crypto/commitments"
	"github.com/threshold-sigs/gg20tss/crypto/dlnproof"
	"github.com/threshold-sigs/gg20tss/crypto/paillier"
	"github.com/threshold-sigs/gg20tss/crypto/schnorr"
	"github.com/threshold-sigs/gg20tss/crypto/vss"
	"github.com/threshold-sigs/gg20tss/curve"
	"github.com/threshold-sigs/gg20tss/tss"
)

func paillierSalt() *big.Int {
	return new(big.Int).SetBytes(common.SHA512_256(paillierCorrectKeySalt))
}

// moduliBitRange returns the [low, high] bit length a correctly generated
// Paillier/ring-Pedersen modulus must fall in for this party's configured
// safe-prime size: two safe primes of safePrimeBits bits multiply to a
// modulus of 2*safePrimeBits bits, occasionally one bit short.
func (p *LocalParty) moduliBitRange() (low, high int) {
	bits := p.params.SafePrimeBits()
	if bits == 0 {
		bits = tss.SafePrimeBits
	}
	return 2*bits - 1, 2 * bits
}

// round1 is the DKG state machine's local, expensive "round 0" of the
// spec: sample u_i, generate a Paillier keypair and ring-Pedersen
// parameters, commit to y_i, and broadcast everything but the opening.
func (p *LocalParty) round1() *tss.Error {
	common.Logger.Infof("party %s: keygen round 1 starting", p.partyID())
	rnd := p.params.Rand()
	q := curve.EC().Params().N

	p.ui = common.GetRandomPositiveInt(rnd, q)
	p.yi = curve.ScalarBaseMult(p.ui)

	bits := p.params.SafePrimeBits()
	if bits == 0 {
		bits = tss.SafePrimeBits
	}
	paillierSK, paillierPK, err := paillier.GenerateKeyPair(rnd, 2*bits)
	if err != nil {
		return tss.NewError(errorspkg.Wrapf(err, "paillier.GenerateKeyPair"), 1, p.partyID())
	}
	p.paillierSK = paillierSK

	sgpP := common.GetRandomSafePrime(rnd, bits-1)
	sgpQ := common.GetRandomSafePrime(rnd, bits-1)
	ntilde := new(big.Int).Mul(sgpP.SafePrime(), sgpQ.SafePrime())
	phiNtilde := new(big.Int).Mul(
		new(big.Int).Sub(sgpP.SafePrime(), big.NewInt(1)),
		new(big.Int).Sub(sgpQ.SafePrime(), big.NewInt(1)),
	)

	f := common.GetRandomPositiveRelativelyPrimeInt(rnd, ntilde)
	modNtilde := common.ModInt(ntilde)
	h1 := modNtilde.Mul(f, f)
	xhi := common.GetRandomPositiveRelativelyPrimeInt(rnd, phiNtilde)
	h2 := modNtilde.Exp(h1, xhi)
	xhiInv := new(big.Int).ModInverse(xhi, phiNtilde)

	p.ntilde, p.h1, p.h2 = ntilde, h1, h2

	p.blindFactor = common.MustGetRandomInt(rnd, 256)
	commitment := commitments.Commit(p.blindFactor, p.yi.X(), p.yi.Y())

	salt := paillierSalt()
	ecdsaPub := []*big.Int{salt, p.yi.X(), p.yi.Y()}
	paillierProof, err := paillierSK.CreateProof(ecdsaPub)
	if err != nil {
		return tss.NewError(errorspkg.Wrapf(err, "paillierSK.CreateProof"), 1, p.partyID())
	}

	dlnProof1 := dlnproof.NewDLNProof(rnd, h1, h2, xhi, sgpP.SafePrime(), sgpQ.SafePrime(), ntilde)
	dlnProof2 := dlnproof.NewDLNProof(rnd, h2, h1, xhiInv, sgpP.SafePrime(), sgpQ.SafePrime(), ntilde)

	p.broadcast(1, &KeyGenBroadcast{
		PaillierPK:    paillierPK,
		NTilde:        ntilde,
		H1:            h1,
		H2:            h2,
		Commitment:    commitment,
		PaillierProof: paillierProof,
		DLNProof1:     dlnProof1,
		DLNProof2:     dlnProof2,
	})
	p.round = 2
	common.Logger.Debugf("party %s: keygen round 1 finished", p.partyID())
	return nil
}

// round2 is cheap: having collected every party's round-1 broadcast,
// simply open the commitment (spec.md §4.1 round 1).
func (p *LocalParty) round2() *tss.Error {
	common.Logger.Infof("party %s: keygen round 2 starting", p.partyID())
	p.broadcast(2, &KeyGenDecommit{BlindFactor: p.blindFactor, Y: p.yi})
	p.round = 3
	common.Logger.Debugf("party %s: keygen round 2 finished", p.partyID())
	return nil
}

// round3 verifies every peer's round-1/round-2 pair, then runs Feldman VSS
// on u_i and ships a share to each peer (spec.md §4.1 round 2).
func (p *LocalParty) round3() *tss.Error {
	common.Logger.Infof("party %s: keygen round 3 starting", p.partyID())
	rnd := p.params.Rand()
	salt := paillierSalt()

	lowBitLen, highBitLen := p.moduliBitRange()

	failures := make(map[*tss.PartyID]error)
	for _, m := range p.r1Store.Finish() {
		bc := m.Body.(*KeyGenBroadcast)
		dm, _ := p.r2Store.Get(m.From.Index)
		dc, ok := dm.Body.(*KeyGenDecommit)
		if !ok {
			failures[m.From] = ErrInvalidKey
			continue
		}
		if !commitments.VerifyCommit(bc.Commitment, dc.BlindFactor, dc.Y.X(), dc.Y.Y()) {
			failures[m.From] = ErrInvalidKey
			continue
		}
		if bc.PaillierPK.N.BitLen() < lowBitLen || bc.PaillierPK.N.BitLen() > highBitLen {
			failures[m.From] = ErrInvalidKey
			continue
		}
		if bc.NTilde.BitLen() < lowBitLen || bc.NTilde.BitLen() > highBitLen {
			failures[m.From] = ErrInvalidKey
			continue
		}
		ecdsaPub := []*big.Int{salt, dc.Y.X(), dc.Y.Y()}
		if !bc.PaillierProof.Verify(bc.PaillierPK, ecdsaPub) {
			failures[m.From] = ErrInvalidKey
			continue
		}
		if !bc.DLNProof1.Verify(bc.H1, bc.H2, bc.NTilde) {
			failures[m.From] = ErrInvalidKey
			continue
		}
		if !bc.DLNProof2.Verify(bc.H2, bc.H1, bc.NTilde) {
			failures[m.From] = ErrInvalidKey
			continue
		}
	}
	if len(failures) > 0 {
		for culprit := range failures {
			common.Logger.Warnf("party %s: round 2 bad actor %s", p.partyID(), culprit)
		}
		return tss.WrapMulti(2, p.partyID(), failures)
	}

	ids := p.params.Parties().IDs()
	idxs := make([]*big.Int, len(ids))
	for i, id := range ids {
		idxs[i] = big.NewInt(int64(id.Index))
	}
	vs, shares, err := vss.Create(rnd, p.params.Threshold(), p.ui, idxs)
	if err != nil {
		return tss.NewError(errorspkg.Wrapf(err, "vss.Create"), 2, p.partyID())
	}
	p.vs = vs
	p.shares = shares

	p.vssSchemes = map[int]vss.Vs{p.partyID().Index: vs}

	ownIdx := p.partyID().Index
	for _, id := range ids {
		if id.Index == ownIdx {
			continue
		}
		share := shareForIndex(shares, id.Index)
		to := id
		p.outbound = append(p.outbound, tss.NewP2PMsg(p.partyID(), to, 3, &FeldmanVSSShare{Share: share, Commitments: vs}))
	}
	p.round = 4
	common.Logger.Debugf("party %s: keygen round 3 finished", p.partyID())
	return nil
}

func shareForIndex(shares []*vss.Share, idx int) *vss.Share {
	for _, s := range shares {
		if s.ID.Cmp(big.NewInt(int64(idx))) == 0 {
			return s
		}
	}
	return nil
}

// round4 verifies every peer's VSS share, sums shares into x_i, and
// broadcasts a Schnorr proof of knowledge of x_i (spec.md §4.1 round 3).
func (p *LocalParty) round4() *tss.Error {
	common.Logger.Infof("party %s: keygen round 4 starting", p.partyID())
	rnd := p.params.Rand()
	q := curve.EC().Params().N
	modQ := common.ModInt(q)

	ownIdx := p.partyID().Index
	xi := shareForIndex(p.shares, ownIdx).Share

	failures := make(map[*tss.PartyID]error)
	for _, m := range p.r3Store.Finish() {
		share := m.Body.(*FeldmanVSSShare)
		dm, _ := p.r2Store.Get(m.From.Index)
		dc := dm.Body.(*KeyGenDecommit)

		if !share.Share.Verify(share.Commitments) {
			failures[m.From] = ErrInvalidVSS
			continue
		}
		if !share.Commitments[0].Equals(dc.Y) {
			failures[m.From] = ErrInvalidVSS
			continue
		}
		p.vssSchemes[m.From.Index] = share.Commitments
		xi = modQ.Add(xi, share.Share.Share)
	}
	if len(failures) > 0 {
		for culprit := range failures {
			common.Logger.Warnf("party %s: round 3 bad actor %s", p.partyID(), culprit)
		}
		return tss.WrapMulti(3, p.partyID(), failures)
	}
	p.xi = xi

	pkI := curve.ScalarBaseMult(xi)
	proof, err := schnorr.NewZKProof(rnd, xi, pkI)
	if err != nil {
		return tss.NewError(errorspkg.Wrapf(err, "schnorr.NewZKProof"), 3, p.partyID())
	}
	p.broadcast(4, &DLogProofMsg{Proof: proof, Xi: pkI})
	p.round = 5
	common.Logger.Debugf("party %s: keygen round 4 finished", p.partyID())
	return nil
}

// round5 verifies every peer's DLog proof against the VSS-derived public
// share, sums the y_j commitments into the shared public key, and emits
// LocalPartySaveData (spec.md §4.1 round 4).
func (p *LocalParty) round5() *tss.Error {
	common.Logger.Infof("party %s: keygen round 5 starting", p.partyID())
	ids := p.params.Parties().IDs()
	n := len(ids)

	pkVec := make([]*curve.ECPoint, n)
	ekVec := make([]*paillier.PublicKey, n)
	ntildeVec := make([]*big.Int, n)
	h1Vec := make([]*big.Int, n)
	h2Vec := make([]*big.Int, n)
	vssVec := make([]vss.Vs, n)
	ksList := make([]*big.Int, n)

	y := p.yi
	ownIdx := p.partyID().Index

	failures := make(map[*tss.PartyID]error)

	for i, id := range ids {
		ksList[i] = big.NewInt(int64(id.Index))
		bigXj, err := combinedVssEvaluate(p.vssSchemes, big.NewInt(int64(id.Index)))
		if err != nil {
			failures[id] = ErrBadDLog
			continue
		}

		if id.Index == ownIdx {
			pkVec[i] = bigXj
			ekVec[i] = &p.paillierSK.PublicKey
			ntildeVec[i] = p.ntilde
			h1Vec[i] = p.h1
			h2Vec[i] = p.h2
			vssVec[i] = p.vssSchemes[ownIdx]
			continue
		}

		m, _ := p.r4Store.Get(id.Index)
		dlm, ok := m.Body.(*DLogProofMsg)
		if !ok {
			failures[id] = ErrBadDLog
			continue
		}
		if !dlm.Proof.Verify(dlm.Xi) {
			failures[id] = ErrBadDLog
			continue
		}
		if !dlm.Xi.Equals(bigXj) {
			failures[id] = ErrBadDLog
			continue
		}

		bcm, _ := p.r1Store.Get(id.Index)
		bcBody := bcm.Body.(*KeyGenBroadcast)
		dcm, _ := p.r2Store.Get(id.Index)
		dcBody := dcm.Body.(*KeyGenDecommit)

		pkVec[i] = dlm.Xi
		ekVec[i] = bcBody.PaillierPK
		ntildeVec[i] = bcBody.NTilde
		h1Vec[i] = bcBody.H1
		h2Vec[i] = bcBody.H2
		vssVec[i] = p.vssSchemes[id.Index]

		next, addErr := y.Add(dcBody.Y)
		if addErr != nil {
			failures[id] = ErrBadDLog
			continue
		}
		y = next
	}
	if len(failures) > 0 {
		for culprit := range failures {
			common.Logger.Warnf("party %s: round 4 bad actor %s", p.partyID(), culprit)
		}
		return tss.WrapMulti(4, p.partyID(), failures)
	}

	p.output = &LocalPartySaveData{
		Index:         ownIdx,
		Threshold:     p.params.Threshold(),
		PartyCount:    p.params.PartyCount(),
		Xi:            p.xi,
		Y:             y,
		PKVec:         pkVec,
		PaillierDK:    p.paillierSK,
		PaillierEKVec: ekVec,
		NTildeVec:     ntildeVec,
		H1Vec:         h1Vec,
		H2Vec:         h2Vec,
		VssSchemeVec:  vssVec,
		Ks:            ksList,
	}
	p.finished = true
	common.Logger.Infof("party %s: keygen finished", p.partyID())
	return nil
}

// combinedVssEvaluate sums every sender's VSS commitment vector evaluated
// at x, which is the group's independent recomputation of x_j*G for
// whichever party holds keygen index x (spec.md §4.1 round 3's "global xi
// commitment").
func combinedVssEvaluate(schemes map[int]vss.Vs, x *big.Int) (*curve.ECPoint, error) {
	var sum *curve.ECPoint
	for _, vs := range schemes {
		v, err := vs.Evaluate(x)
		if err != nil {
			return nil, err
		}
		if sum == nil {
			sum = v
			continue
		}
		next, err := sum.Add(v)
		if err != nil {
			return nil, err
		}
		sum = next
	}
	return sum, nil
}
