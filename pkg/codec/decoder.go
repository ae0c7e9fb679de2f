package codec

import (
	"fmt"

	"github.com/ha1tch/stencil/pkg/lexicon"
)

// Decoder inverts the encoder exactly. A decoded message's bytes equal the
// bytes the encoder's atom stream was built from; anything else is reported
// as an error, never silently repaired.
type Decoder struct {
	lex *lexicon.Lexicon
	ext *Extension
}

// NewDecoder returns a decoder for one job over lex.
func NewDecoder(lex *lexicon.Lexicon) *Decoder {
	return &Decoder{lex: lex}
}

// UseExtension attaches an encoder's extension region so messages that
// reference extension atom ids decode in-process. Without it such messages
// fail with ErrUnknownToken.
func (d *Decoder) UseExtension(ext *Extension) {
	d.ext = ext
}

// Decode expands msg back into the original bytes.
func (d *Decoder) Decode(msg *Message) ([]byte, error) {
	base := uint32(d.lex.TemplateCount())
	space := uint32(d.lex.AtomCount()) + uint32(d.ext.Len())

	var out []byte
	slotCur := 0
	for i, tok := range msg.Tokens {
		if tok < base {
			t, _ := d.lex.Template(tok)
			for _, aid := range t.Atoms {
				var err error
				out, slotCur, err = d.emit(out, aid, msg.Slots, slotCur, i)
				if err != nil {
					return nil, err
				}
			}
			continue
		}
		aid := tok - base
		if aid >= space {
			return nil, fmt.Errorf("token %d: %w: id %d outside space %d",
				i, ErrUnknownToken, tok, base+space)
		}
		var err error
		out, slotCur, err = d.emit(out, lexicon.AtomID(aid), msg.Slots, slotCur, i)
		if err != nil {
			return nil, err
		}
	}

	if slotCur != len(msg.Slots) {
		return nil, fmt.Errorf("%w: consumed %d of %d slots", ErrSlotCount, slotCur, len(msg.Slots))
	}
	return out, nil
}

// emit appends one atom's bytes: the interned payload for fixed atoms, the
// next slot for slot kinds.
func (d *Decoder) emit(out []byte, aid lexicon.AtomID, slots [][]byte, slotCur, tokIdx int) ([]byte, int, error) {
	e, ok := d.lex.Interner().Entry(aid)
	if !ok {
		e, ok = d.ext.Entry(aid)
	}
	if !ok {
		return nil, 0, fmt.Errorf("token %d: %w: atom %d", tokIdx, ErrUnknownAtom, aid)
	}
	if e.IsSlot() {
		if slotCur >= len(slots) {
			return nil, 0, fmt.Errorf("token %d: %w", tokIdx, ErrSlotUnderflow)
		}
		out = append(out, slots[slotCur]...)
		return out, slotCur + 1, nil
	}
	return append(out, e.Payload...), slotCur, nil
}
