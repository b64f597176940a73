// Copyright © 2024 the gg20tss authors
//
// This file is part of gg20tss. See the LICENSE file at the root of the
// source code distribution tree.

package tss

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Error wraps a round failure with the sender indices responsible for it
// (spec.md §7: "round proceed" errors carry bad_actors plus a human string).
// Multiple concurrent verification failures within a round are folded into
// one Error via go-multierror rather than reported one at a time.
type Error struct {
	cause     error
	round     int
	victim    *PartyID
	culprits  []*PartyID
	badActors []int
}

func NewError(cause error, round int, victim *PartyID, culprits ...*PartyID) *Error {
	badActors := make([]int, len(culprits))
	for i, c := range culprits {
		if c != nil {
			badActors[i] = c.Index
		}
	}
	return &Error{cause: cause, round: round, victim: victim, culprits: culprits, badActors: badActors}
}

// WrapMulti aggregates several causes (e.g. one per failed sender in a
// round) behind a single *Error, recording every culprit.
func WrapMulti(round int, victim *PartyID, failures map[*PartyID]error) *Error {
	var merr *multierror.Error
	culprits := make([]*PartyID, 0, len(failures))
	for p, err := range failures {
		merr = multierror.Append(merr, err)
		culprits = append(culprits, p)
	}
	return NewError(merr.ErrorOrNil(), round, victim, culprits...)
}

func (err *Error) Cause() error          { return err.cause }
func (err *Error) Round() int            { return err.round }
func (err *Error) Victim() *PartyID      { return err.victim }
func (err *Error) Culprits() []*PartyID  { return err.culprits }
func (err *Error) BadActors() []int      { return err.badActors }

func (err *Error) Error() string {
	if err == nil {
		return "<nil tss.Error>"
	}
	if len(err.culprits) > 0 {
		return fmt.Sprintf("party %s, round %d, bad_actors %v: %s", err.victim, err.round, err.badActors, err.cause)
	}
	return fmt.Sprintf("party %s, round %d: %s", err.victim, err.round, err.cause)
}

// Internal driver-bug sentinels (spec.md §7 "Internal").
var (
	ErrStoreGone             = fmt.Errorf("store gone")
	ErrRetrieveRoundMessages = fmt.Errorf("could not retrieve round messages")
	ErrDoublePickOutput      = fmt.Errorf("pick_output called a second time")
)

// Configuration errors (spec.md §7 "Configuration"), fatal at construction.
var (
	ErrTooFewParties   = fmt.Errorf("too few parties")
	ErrTooManyParties  = fmt.Errorf("too many parties")
	ErrInvalidThreshold = fmt.Errorf("invalid threshold")
	ErrInvalidPartyIndex = fmt.Errorf("invalid party index")
	ErrInvalidSl       = fmt.Errorf("invalid signer subset")
)

// OutOfOrderError reports a message tagged with a round number for which the
// state machine keeps no message store (spec.md §7 "Message intake"); the
// message is discarded and the error is non-fatal. A message for an already
// completed round is not reported this way: it goes to that round's store,
// which rejects it only if its sender was already recorded there.
type OutOfOrderError struct {
	CurrentRound int
	MsgRound     int
}

func (e *OutOfOrderError) Error() string {
	return fmt.Sprintf("received out of order message: current round %d, message round %d", e.CurrentRound, e.MsgRound)
}
