// Copyright © 2024 the gg20tss authors
//
// This file is part of gg20tss. See the LICENSE file at the root of the
// source code distribution tree.

package tss

import "fmt"

// Msg is the envelope a state machine hands to its host for delivery, and
// the shape the host hands back into HandleIncoming. Receiver nil means
// broadcast to every other party; otherwise the message is point-to-point
// (spec.md §6.2).
type Msg struct {
	From     *PartyID
	To       *PartyID // nil => broadcast
	Round    int
	IsVerify bool // not set or read by any constructor or state machine in this module
	Body     interface{}
}

func NewBroadcastMsg(from *PartyID, round int, body interface{}) Msg {
	return Msg{From: from, Round: round, Body: body}
}

func NewP2PMsg(from, to *PartyID, round int, body interface{}) Msg {
	return Msg{From: from, To: to, Round: round, Body: body}
}

func (m Msg) IsBroadcast() bool { return m.To == nil }

func (m Msg) String() string {
	if m.IsBroadcast() {
		return fmt.Sprintf("Msg{round=%d, from=%s, to=*}", m.Round, m.From)
	}
	return fmt.Sprintf("Msg{round=%d, from=%s, to=%s}", m.Round, m.From, m.To)
}
