// Copyright © 2024 the gg20tss authors
//
// This file is part of gg20tss. See the LICENSE file at the root of the
// source code distribution tree.

// Package tss holds the types shared by the DKG and signing state machines:
// party identity, session parameters, the message envelope, and the typed
// error carrying cheater attribution.
package tss

import (
	"fmt"
	"sort"
)

// PartyID identifies a participant. Index is 1-based per spec.md §3 and is
// assigned by SortPartyIDs.
type PartyID struct {
	ID      string
	Moniker string
	Key     []byte
	Index   int
}

type (
	UnSortedPartyIDs []*PartyID
	SortedPartyIDs   []*PartyID
)

func NewPartyID(id, moniker string, key []byte) *PartyID {
	return &PartyID{ID: id, Moniker: moniker, Key: key, Index: -1}
}

func (pid *PartyID) String() string {
	return fmt.Sprintf("{%d,%s}", pid.Index, pid.Moniker)
}

// SortPartyIDs sorts by Key ascending and assigns 1-based Index, starting
// at startAt (default 1).
func SortPartyIDs(ids UnSortedPartyIDs, startAt ...int) SortedPartyIDs {
	sorted := make(SortedPartyIDs, len(ids))
	copy(sorted, ids)
	sort.Sort(sorted)
	frm := 1
	if len(startAt) > 0 {
		frm = startAt[0]
	}
	for i, id := range sorted {
		id.Index = i + frm
	}
	return sorted
}

func (spids SortedPartyIDs) Len() int { return len(spids) }
func (spids SortedPartyIDs) Less(a, b int) bool {
	return string(spids[a].Key) < string(spids[b].Key)
}
func (spids SortedPartyIDs) Swap(a, b int) { spids[a], spids[b] = spids[b], spids[a] }

func (spids SortedPartyIDs) FindByIndex(idx int) *PartyID {
	for _, pid := range spids {
		if pid.Index == idx {
			return pid
		}
	}
	return nil
}
