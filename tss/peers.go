// Copyright © 2024 the gg20tss authors
//
// This file is part of gg20tss. See the LICENSE file at the root of the
// source code distribution tree.

package tss

// PeerContext is the sorted party set agreed on before a session starts. It
// is shared, read-only, identical across all honest parties in a run.
type PeerContext struct {
	parties SortedPartyIDs
}

func NewPeerContext(parties SortedPartyIDs) *PeerContext {
	return &PeerContext{parties: parties}
}

func (p *PeerContext) IDs() SortedPartyIDs { return p.parties }

func (p *PeerContext) String() string {
	ids := make([]string, 0, len(p.parties))
	for _, party := range p.parties {
		ids = append(ids, party.String())
	}
	out := "["
	for i, s := range ids {
		if i > 0 {
			out += ","
		}
		out += s
	}
	return out + "]"
}
