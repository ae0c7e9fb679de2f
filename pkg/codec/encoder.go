package codec

import (
	"github.com/ha1tch/stencil/pkg/atom"
	"github.com/ha1tch/stencil/pkg/lexicon"
)

// Stats counts the work an encoder has done across its lifetime.
type Stats struct {
	Positions    uint64 // atom positions visited
	TrieSteps    uint64 // edge lookups across all trie descents
	TemplateHits uint64 // tokens emitted as template matches
	LiteralEmits uint64 // tokens emitted as literal fallbacks
}

// Encoder converts atom sequences into messages by greedy longest-prefix
// matching against the lexicon's trie, falling back to one literal token
// per unmatched atom. It never backtracks and never fails: fixed atoms
// absent from the lexicon intern into the job-local extension region.
type Encoder struct {
	lex   *lexicon.Lexicon
	ext   *Extension
	stats Stats
}

// NewEncoder returns an encoder for one job over lex.
func NewEncoder(lex *lexicon.Lexicon) *Encoder {
	return &Encoder{lex: lex, ext: newExtension(lex.AtomCount())}
}

// EncodeBytes atomizes data with the lexicon's stopword set and encodes the
// result.
func (e *Encoder) EncodeBytes(data []byte) *Message {
	return e.Encode(atom.Atomize(data, e.lex.Stopwords()))
}

// Encode converts an atom sequence into a message. Tokens appear in input
// order; slots appear in the order their source atoms appeared.
func (e *Encoder) Encode(atoms []atom.Atom) *Message {
	in := e.lex.Interner()
	ids := make([]lexicon.AtomID, len(atoms))
	for i, a := range atoms {
		if a.Kind.IsSlot() {
			id, ok := in.KindID(a.Kind)
			if !ok {
				id = e.ext.internKind(a.Kind)
			}
			ids[i] = id
			continue
		}
		id, ok := in.Fixed(a.Kind, a.Payload)
		if !ok {
			id = e.ext.intern(a.Kind, a.Payload)
		}
		ids[i] = id
	}

	trie := e.lex.Trie()
	base := uint32(e.lex.TemplateCount())
	msg := &Message{Tokens: make([]uint32, 0, len(atoms)/2+1)}

	pos := 0
	for pos < len(atoms) {
		e.stats.Positions++
		length, tid, steps := trie.MatchLongest(ids, pos)
		e.stats.TrieSteps += uint64(steps)

		if tid >= 0 {
			msg.Tokens = append(msg.Tokens, uint32(tid))
			e.stats.TemplateHits++
			for j := pos; j < pos+length; j++ {
				if atoms[j].Kind.IsSlot() {
					msg.Slots = append(msg.Slots, atoms[j].Payload)
				}
			}
			pos += length
		} else {
			msg.Tokens = append(msg.Tokens, base+uint32(ids[pos]))
			e.stats.LiteralEmits++
			if atoms[pos].Kind.IsSlot() {
				msg.Slots = append(msg.Slots, atoms[pos].Payload)
			}
			pos++
		}
	}
	return msg
}

// Stats returns the cumulative statistics for this encoder.
func (e *Encoder) Stats() Stats {
	return e.stats
}

// Extension returns the encoder's extension region. It is empty until an
// Encode meets a fixed atom the lexicon does not declare; pass it to a
// Decoder to make such messages decodable in-process.
func (e *Encoder) Extension() *Extension {
	return e.ext
}
