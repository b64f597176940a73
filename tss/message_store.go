// Copyright © 2024 the gg20tss authors
//
// This file is part of gg20tss. See the LICENSE file at the root of the
// source code distribution tree.

package tss

import "fmt"

// messageStore is the shape shared by BroadcastStore and P2PStore: push one
// message at a time, ask whether more are still awaited, finish to read
// everything back in canonical (by-sender-index) order, and blame to find
// out who hasn't sent yet (spec.md §9 "Per-round message stores").
type messageStore interface {
	WantsMore() bool
	Blame() (int, []int)
}

// BroadcastStore collects one message per sender, keyed by sender index.
// It rejects a second message from the same sender and rejects a message
// whose sender is the store owner itself.
type BroadcastStore struct {
	ownIndex int
	expected SortedPartyIDs
	received map[int]Msg
}

func NewBroadcastStore(ownIndex int, expected SortedPartyIDs) *BroadcastStore {
	return &BroadcastStore{ownIndex: ownIndex, expected: expected, received: make(map[int]Msg)}
}

func (s *BroadcastStore) Push(msg Msg) error {
	idx := msg.From.Index
	if idx == s.ownIndex {
		return fmt.Errorf("message_store: refusing message from own index %d", idx)
	}
	if _, ok := s.received[idx]; ok {
		return fmt.Errorf("message_store: duplicate message from sender %d", idx)
	}
	s.received[idx] = msg
	return nil
}

func (s *BroadcastStore) WantsMore() bool {
	for _, p := range s.expected {
		if p.Index == s.ownIndex {
			continue
		}
		if _, ok := s.received[p.Index]; !ok {
			return true
		}
	}
	return false
}

// Blame returns the count and sorted indices of senders still awaited.
func (s *BroadcastStore) Blame() (int, []int) {
	var missing []int
	for _, p := range s.expected {
		if p.Index == s.ownIndex {
			continue
		}
		if _, ok := s.received[p.Index]; !ok {
			missing = append(missing, p.Index)
		}
	}
	return len(missing), missing
}

// Finish returns the received messages in ascending sender-index order.
// It must only be called once WantsMore() is false.
func (s *BroadcastStore) Finish() []Msg {
	out := make([]Msg, 0, len(s.expected))
	for _, p := range s.expected {
		if p.Index == s.ownIndex {
			continue
		}
		if m, ok := s.received[p.Index]; ok {
			out = append(out, m)
		}
	}
	return out
}

func (s *BroadcastStore) Get(senderIndex int) (Msg, bool) {
	m, ok := s.received[senderIndex]
	return m, ok
}

// P2PStore collects one message per (sender, receiver) pair directed at
// ownIndex specifically; it is the receiving party's view of a round's
// point-to-point traffic.
type P2PStore struct {
	ownIndex int
	expected SortedPartyIDs
	received map[int]Msg
}

func NewP2PStore(ownIndex int, expected SortedPartyIDs) *P2PStore {
	return &P2PStore{ownIndex: ownIndex, expected: expected, received: make(map[int]Msg)}
}

func (s *P2PStore) Push(msg Msg) error {
	if msg.To == nil || msg.To.Index != s.ownIndex {
		return fmt.Errorf("message_store: p2p message not addressed to us")
	}
	idx := msg.From.Index
	if idx == s.ownIndex {
		return fmt.Errorf("message_store: refusing message from own index %d", idx)
	}
	if _, ok := s.received[idx]; ok {
		return fmt.Errorf("message_store: duplicate message from sender %d", idx)
	}
	s.received[idx] = msg
	return nil
}

func (s *P2PStore) WantsMore() bool {
	for _, p := range s.expected {
		if p.Index == s.ownIndex {
			continue
		}
		if _, ok := s.received[p.Index]; !ok {
			return true
		}
	}
	return false
}

func (s *P2PStore) Blame() (int, []int) {
	var missing []int
	for _, p := range s.expected {
		if p.Index == s.ownIndex {
			continue
		}
		if _, ok := s.received[p.Index]; !ok {
			missing = append(missing, p.Index)
		}
	}
	return len(missing), missing
}

func (s *P2PStore) Finish() []Msg {
	out := make([]Msg, 0, len(s.expected))
	for _, p := range s.expected {
		if p.Index == s.ownIndex {
			continue
		}
		if m, ok := s.received[p.Index]; ok {
			out = append(out, m)
		}
	}
	return out
}

func (s *P2PStore) Get(senderIndex int) (Msg, bool) {
	m, ok := s.received[senderIndex]
	return m, ok
}
