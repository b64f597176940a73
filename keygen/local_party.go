// Copyright © 2024 the gg20tss authors
//
// This file is part of gg20tss. See the LICENSE file at the root of the
// source code distribution tree.

package keygen

import (
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/threshold-sigs/gg20tss/crypto/paillier"
	"github.com/threshold-sigs/gg20tss/crypto/vss"
	"github.com/threshold-sigs/gg20tss/curve"
	"github.com/threshold-sigs/gg20tss/tss"
)

const totalRounds = 5

var (
	ErrInvalidKey = errors.New("keygen: broadcast/decommit verification failed")
	ErrInvalidVSS = errors.New("keygen: feldman share verification failed")
	ErrBadDLog    = errors.New("keygen: dlog proof verification failed")
)

// paillierCorrectKeySalt is the fixed salt the correct-key proof is bound
// to (spec.md §4.1 "non-interactive correct-key proof ... with a fixed
// salt").
var paillierCorrectKeySalt = []byte("gg20tss paillier correct-key proof v1")

// LocalParty drives one party's side of the five-round DKG state machine
// (spec.md §6.1). It is a pull-based state machine: the host pumps messages
// in with HandleIncoming, pulls outbound ones with MessageQueue, and
// repeatedly calls Proceed until IsFinished.
type LocalParty struct {
	params *tss.Parameters

	mtx   sync.Mutex
	round int // 1-based, 1..totalRounds

	outbound []tss.Msg
	finished bool
	output   *LocalPartySaveData
	pickedUp bool

	r1Store *tss.BroadcastStore // awaits KeyGenBroadcast
	r2Store *tss.BroadcastStore // awaits KeyGenDecommit
	r3Store *tss.P2PStore       // awaits FeldmanVSSShare
	r4Store *tss.BroadcastStore // awaits DLogProofMsg

	// local secrets carried from round 0 through to round 4
	ui          *big.Int
	yi          *curve.ECPoint
	blindFactor *big.Int
	paillierSK  *paillier.PrivateKey
	ntilde      *big.Int
	h1, h2      *big.Int

	vs         vss.Vs
	shares     []*vss.Share
	xi         *big.Int
	vssSchemes map[int]vss.Vs // sender index -> their commitment vector, incl. self
}

func NewLocalParty(params *tss.Parameters) (*LocalParty, *tss.Error) {
	if err := params.ValidateBasic(); err != nil {
		return nil, err
	}
	ids := params.Parties().IDs()
	ownIdx := params.PartyID().Index

	return &LocalParty{
		params:  params,
		round:   1,
		r1Store: tss.NewBroadcastStore(ownIdx, ids),
		r2Store: tss.NewBroadcastStore(ownIdx, ids),
		r3Store: tss.NewP2PStore(ownIdx, ids),
		r4Store: tss.NewBroadcastStore(ownIdx, ids),
	}, nil
}

// HandleIncoming places msg in the store matching its wire round. It never
// advances state and never blocks; a message for an unrecognized round is
// reported as out of order rather than silently dropped.
func (p *LocalParty) HandleIncoming(msg tss.Msg) error {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	switch msg.Round {
	case 1:
		if _, ok := msg.Body.(*KeyGenBroadcast); !ok {
			return fmt.Errorf("keygen: round 1 message has wrong body type")
		}
		return p.r1Store.Push(msg)
	case 2:
		if _, ok := msg.Body.(*KeyGenDecommit); !ok {
			return fmt.Errorf("keygen: round 2 message has wrong body type")
		}
		return p.r2Store.Push(msg)
	case 3:
		if _, ok := msg.Body.(*FeldmanVSSShare); !ok {
			return fmt.Errorf("keygen: round 3 message has wrong body type")
		}
		return p.r3Store.Push(msg)
	case 4:
		if _, ok := msg.Body.(*DLogProofMsg); !ok {
			return fmt.Errorf("keygen: round 4 message has wrong body type")
		}
		return p.r4Store.Push(msg)
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
	default:
		return false
	}
}

// isExpensive reports whether the round about to run does real crypto work
// (the rest are cheap store bookkeeping); proceed(false) defers these.
func (p *LocalParty) isExpensive() bool {
	return p.round != 2
}

// Proceed advances as many rounds as the current store contents allow. When
// mayBlock is false, an expensive round that is otherwise ready is left
// pending rather than run.
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

// RoundBlame reports which senders the round currently being awaited is
// still missing.
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
	default:
		return 0, nil
	}
}

func (p *LocalParty) CurrentRound() int {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	return p.round
}

func (p *LocalParty) TotalRounds() int { return totalRounds }

func (p *LocalParty) IsFinished() bool {
	p.mtx.Lock()
	defer p.mtx.Unlock()
	return p.finished
}

// PickOutput drains the completed LocalKey. A second call fails with
// ErrDoublePickOutput.
func (p *LocalParty) PickOutput() (*LocalPartySaveData, *tss.Error) {
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
