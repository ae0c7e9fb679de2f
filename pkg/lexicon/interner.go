package lexicon

import (
	"fmt"

	"github.com/ha1tch/stencil/pkg/atom"
)

// AtomID is a dense nonnegative identifier for an interner entry.
type AtomID uint32

// Entry is one interned atom: a fixed atom's kind and exact payload bytes,
// or a slot kind with an empty payload.
type Entry struct {
	Kind    atom.Kind
	Payload string
}

// IsSlot reports whether the entry is one of the three reserved slot kinds.
func (e Entry) IsSlot() bool {
	return e.Kind.IsSlot()
}

// Interner is a bidirectional mapping between atoms and dense ids. Fixed
// atoms (LIT/WS/PUNC) are keyed by kind and payload; the slot kinds
// (VAR/CAP/NUM) are represented by exactly one id each, with no payload.
// Ids are assigned in insertion order and are contiguous from zero.
//
// The interner is append-only during lexicon construction and read-only
// afterwards; a loaded lexicon never grows its interner.
type Interner struct {
	entries []Entry
	index   [atom.NumKinds]map[string]AtomID
	kindIDs [atom.NumKinds]int32
}

// NewInterner returns an empty interner.
func NewInterner() *Interner {
	in := &Interner{}
	for k := range in.index {
		in.index[k] = make(map[string]AtomID)
	}
	for k := range in.kindIDs {
		in.kindIDs[k] = -1
	}
	return in
}

// Add interns an atom and returns its id. Slot kinds must be added with an
// empty payload. Adding an existing atom returns the existing id.
func (in *Interner) Add(kind atom.Kind, payload string) (AtomID, error) {
	if kind >= atom.NumKinds {
		return 0, fmt.Errorf("lexicon: invalid atom kind %d", kind)
	}
	if kind.IsSlot() && payload != "" {
		return 0, fmt.Errorf("lexicon: slot kind %v takes no payload", kind)
	}
	if id, ok := in.index[kind][payload]; ok {
		return id, nil
	}
	id := AtomID(len(in.entries))
	in.entries = append(in.entries, Entry{Kind: kind, Payload: payload})
	in.index[kind][payload] = id
	if kind.IsSlot() {
		in.kindIDs[kind] = int32(id)
	}
	return id, nil
}

// Fixed returns the id of the fixed atom with the given kind and payload.
func (in *Interner) Fixed(kind atom.Kind, payload []byte) (AtomID, bool) {
	if kind >= atom.NumKinds {
		return 0, false
	}
	id, ok := in.index[kind][string(payload)]
	return id, ok
}

// KindID returns the reserved id for a slot kind, if the lexicon declares it.
func (in *Interner) KindID(kind atom.Kind) (AtomID, bool) {
	if !kind.IsSlot() {
		return 0, false
	}
	id := in.kindIDs[kind]
	if id < 0 {
		return 0, false
	}
	return AtomID(id), true
}

// Entry returns the entry for id.
func (in *Interner) Entry(id AtomID) (Entry, bool) {
	if int(id) >= len(in.entries) {
		return Entry{}, false
	}
	return in.entries[id], true
}

// Len returns the number of interned atoms.
func (in *Interner) Len() int {
	return len(in.entries)
}
