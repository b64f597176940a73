// Copyright © 2024 the gg20tss authors
//
// This file is part of gg20tss. See the LICENSE file at the root of the
// source code distribution tree.

package presign

import (
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/threshold-sigs/gg20tss/crypto/mta"
	"github.com/threshold-sigs/gg20tss/curve"
	"github.com/threshold-sigs/gg20tss/keygen"
	"github.com/threshold-sigs/gg20tss/tss"
)

const totalRounds = 7

var (
	ErrKeyIndexMismatch = errors.New("presign: local key does not belong to this party")
	ErrInvalidDelta     = errors.New("presign: commitment or MtA binding check failed")
	ErrInvalidTProof    = errors.New("presign: pedersen proof for t_i failed verification")
	ErrInvalidPDLProof  = errors.New("presign: pdl-with-slack proof failed verification")
	ErrInvalidRSum      = errors.New("presign: sum of r_i' shares did not reconstruct G")
	ErrInvalidSProof    = errors.New("presign: homomorphic-elgamal proof failed verification")
	ErrInvalidSSum      = errors.New("presign: sum of s_i shares did not reconstruct the public key")
)

// pendingGammaBinding holds the proof/ciphertext pair a peer, acting as Bob
// in the gamma-MtA for this party's k_i, sent back, retained so the binding
// to that peer's Gamma_j can be checked once round 4 reveals it.
type pendingGammaBinding struct {
	piGamma *mta.ProofBobWC
	cGamma  *big.Int
}

// LocalParty drives one signer's side of the seven-round offline signing
// state machine (spec.md §4.2). Like keygen.LocalParty, it is a pull-based
// state machine scoped to the chosen signer subset Sl rather than the full
// party set.
type LocalParty struct {
	params *tss.SignParameters
	key    *keygen.LocalPartySaveData

	mtx   sync.Mutex
	round int

	outbound []tss.Msg
	finished bool
	output   *CompletedPresig
	pickedUp bool

	r1Store *tss.BroadcastStore // awaits SignRound1Message
	r2Store *tss.P2PStore       // awaits SignRound2Message
	r3Store *tss.BroadcastStore // awaits SignRound3Message
	r4Store *tss.BroadcastStore // awaits SignRound4Message
	r5Store *tss.BroadcastStore // awaits SignRound5Message
	r6Store *tss.BroadcastStore // awaits SignRound6Message

	// local secrets and accumulators carried from round 1 through round 7
	wi      *big.Int
	bigWVec map[int]*curve.ECPoint // signer index (incl. self) -> lambda_j * PKVec[j-1]

	ki, gammai  *big.Int
	gammaPoint  *curve.ECPoint
	blindFactor *big.Int

	cki, ckiRandomness *big.Int

	betaGammaGiven map[int]*big.Int // peer index -> beta this party owes them
	betaWGiven     map[int]*big.Int

	gammaBindings map[int]pendingGammaBinding // peer index -> deferred check material

	sigmaI, li *big.Int
	ti         *curve.ECPoint
	tVec       map[int]*curve.ECPoint // signer index (incl. self) -> T_i

	deltaI, deltaInv *big.Int

	r *curve.ECPoint
}

// NewLocalParty validates params and constructs the per-round stores sized
// to the chosen signer subset Sl, not the full DKG party set.
func NewLocalParty(params *tss.SignParameters, key *keygen.LocalPartySaveData) (*LocalParty, *tss.Error) {
	if err := params.ValidateBasic(); err != nil {
		return nil, err
	}
	if key.Index != params.PartyID().Index {
		return nil, tss.NewError(ErrKeyIndexMismatch, -1, params.PartyID())
	}

	sl := params.Sl()
	ownIdx := params.PartyID().Index

	return &LocalParty{
		params:  params,
		key:     key,
		round:   1,
		r1Store: tss.NewBroadcastStore(ownIdx, sl),
		r2Store: tss.NewP2PStore(ownIdx, sl),
		r3Store: tss.NewBroadcastStore(ownIdx, sl),
		r4Store: tss.NewBroadcastStore(ownIdx, sl),
		r5Store: tss.NewBroadcastStore(ownIdx, sl),
		r6Store: tss.NewBroadcastStore(ownIdx, sl),

		betaGammaGiven: make(map[int]*big.Int),
		betaWGiven:     make(map[int]*big.Int),
		gammaBindings:  make(map[int]pendingGammaBinding),
		tVec:           make(map[int]*curve.ECPoint),
	}, nil
}

func (p *LocalParty) HandleIncoming(msg tss.Msg) error {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	switch msg.Round {
	case 1:
		if _, ok := msg.Body.(*SignRound1Message); !ok {
			return fmt.Errorf("presign: round 1 message has wrong body type")
		}
		return p.r1Store.Push(msg)
	case 2:
		if _, ok := msg.Body.(*SignRound2Message); !ok {
			return fmt.Errorf("presign: round 2 message has wrong body type")
		}
		return p.r2Store.Push(msg)
	case 3:
		if _, ok := msg.Body.(*SignRound3Message); !ok {
			return fmt.Errorf("presign: round 3 message has wrong body type")
		}
		return p.r3Store.Push(msg)
	case 4:
		if _, ok := msg.Body.(*SignRound4Message); !ok {
			return fmt.Errorf("presign: round 4 message has wrong body type")
		}
		return p.r4Store.Push(msg)
	case 5:
		if _, ok := msg.Body.(*SignRound5Message); !ok {
			return fmt.Errorf("presign: round 5 message has wrong body type")
		}
		return p.r5Store.Push(msg)
	case 6:
		if _, ok := msg.Body.(*SignRound6Message); !ok {
			return fmt.Errorf("presign: round 6 message has wrong body type")
		}
		return p.r6Store.Push(msg)
	default:
		return &tss.OutOfOrderError{CurrentRound: p.round, MsgRound: msg.Round}
	}
}

func (p *LocalParty) WantsToProceed() bool {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	return p.wantsToProceedLocked()
}

func (p *LocalParty) wantsToProceedLocked() bool {
	switch p.round {
	case 1:
		return true
	case 2:
		return !p.r1Store.WantsMore()
	case 3:
		return !p.r2Store.WantsMore()
	case 4:
		return !p.r3Store.WantsMore()
	case 5:
		return !p.r4Store.WantsMore()
	case 6:
		return !p.r5Store.WantsMore()
	case 7:
		return !p.r6Store.WantsMore()
	default:
		return false
	}
}

// isExpensive reports whether the round about to run does real crypto work;
// rounds 2 and 4 are comparatively cheap bookkeeping/opening steps.
func (p *LocalParty) isExpensive() bool {
	switch p.round {
	case 2, 4:
		return false
	default:
		return true
	}
}

func (p *LocalParty) Proceed(mayBlock bool) *tss.Error {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	for {
		if p.finished {
			return nil
		}
		if !p.wantsToProceedLocked() {
			return nil
		}
		if p.isExpensive() && !mayBlock {
			return nil
		}
		var err *tss.Error
		switch p.round {
		case 1:
			err = p.round1()
		case 2:
			err = p.round2()
		case 3:
			err = p.round3()
		case 4:
			err = p.round4()
		case 5:
			err = p.round5()
		case 6:
			err = p.round6()
		case 7:
			err = p.round7()
		}
		if err != nil {
			return err
		}
	}
}

func (p *LocalParty) MessageQueue() []tss.Msg {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	out := p.outbound
	p.outbound = nil
	return out
}

func (p *LocalParty) RoundBlame() (int, []int) {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	switch p.round {
	case 2:
		return p.r1Store.Blame()
	case 3:
		return p.r2Store.Blame()
	case 4:
		return p.r3Store.Blame()
	case 5:
		return p.r4Store.Blame()
	case 6:
		return p.r5Store.Blame()
	case 7:
		return p.r6Store.Blame()
	default:
		return 0, nil
	}
}

func (p *LocalParty) CurrentRound() int { p.mtx.Lock(); defer p.mtx.Unlock(); return p.round }

func (p *LocalParty) TotalRounds() int { return totalRounds }

func (p *LocalParty) IsFinished() bool {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	return p.finished
}

func (p *LocalParty) PickOutput() (*CompletedPresig, *tss.Error) {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	if !p.finished {
		return nil, nil
	}
	if p.pickedUp {
		return nil, tss.NewError(tss.ErrDoublePickOutput, p.round, p.params.PartyID())
	}
	p.pickedUp = true
	return p.output, nil
}

func (p *LocalParty) partyID() *tss.PartyID { return p.params.PartyID() }

func (p *LocalParty) broadcast(round int, body interface{}) {
	p.outbound = append(p.outbound, tss.NewBroadcastMsg(p.partyID(), round, body))
}

func (p *LocalParty) sendTo(to *tss.PartyID, round int, body interface{}) {
	p.outbound = append(p.outbound, tss.NewP2PMsg(p.partyID(), to, round, body))
}
