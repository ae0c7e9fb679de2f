package codec

import (
	"github.com/ha1tch/stencil/pkg/atom"
	"github.com/ha1tch/stencil/pkg/lexicon"
)

// Extension is a job-local overflow region for fixed atoms the lexicon does
// not declare (an unusual whitespace run, rare punctuation). Ids continue
// from the lexicon's atom count; templates never reference them. The region
// belongs to one encoder and is never written back into the shared lexicon.
//
// A container that uses extension ids is only decodable by a decoder given
// the same extension; see Decoder.UseExtension.
type Extension struct {
	base    uint32
	entries []lexicon.Entry
	index   [atom.NumKinds]map[string]lexicon.AtomID
}

func newExtension(base int) *Extension {
	x := &Extension{base: uint32(base)}
	for k := range x.index {
		x.index[k] = make(map[string]lexicon.AtomID)
	}
	return x
}

// intern returns the extension id for a fixed atom, adding it on first use.
func (x *Extension) intern(kind atom.Kind, payload []byte) lexicon.AtomID {
	if id, ok := x.index[kind][string(payload)]; ok {
		return id
	}
	id := lexicon.AtomID(x.base + uint32(len(x.entries)))
	x.entries = append(x.entries, lexicon.Entry{Kind: kind, Payload: string(payload)})
	x.index[kind][string(payload)] = id
	return id
}

// internKind covers the degenerate case of a lexicon that omits one of the
// reserved slot-kind ids.
func (x *Extension) internKind(kind atom.Kind) lexicon.AtomID {
	return x.intern(kind, nil)
}

// Len returns the number of extension entries.
func (x *Extension) Len() int {
	if x == nil {
		return 0
	}
	return len(x.entries)
}

// Entry returns the entry for an absolute atom id in the extension range.
func (x *Extension) Entry(id lexicon.AtomID) (lexicon.Entry, bool) {
	if x == nil || uint32(id) < x.base || uint32(id) >= x.base+uint32(len(x.entries)) {
		return lexicon.Entry{}, false
	}
	return x.entries[uint32(id)-x.base], true
}
