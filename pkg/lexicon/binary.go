package lexicon

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/xxh3"

	"github.com/ha1tch/stencil/pkg/atom"
)

// Binary artifact layout (little-endian):
//
//	u32   magic 0x53544C58 ("STLX")
//	u32   version (1)
//	u64   compressed body length
//	u128  xxh3-128 of the uncompressed body (hi, lo)
//	      zstd-compressed body
//
// The body holds the text-form version string, the interner entries in id
// order, the template table in id order, and the flattened trie. Everything
// is written in id order and zstd runs single-threaded at a fixed level, so
// converting the same text artifact twice yields byte-identical binaries.
const (
	binaryMagic   uint32 = 0x53544C58
	binaryVersion uint32 = 1
	binaryHeader         = 4 + 4 + 8 + 16

	// maxDecompressed caps body decompression so a corrupt or hostile
	// length field cannot exhaust memory.
	maxDecompressed = 1 << 30
)

// isBinaryArtifact reports whether data starts with the binary magic.
func isBinaryArtifact(data []byte) bool {
	return len(data) >= 4 && binary.LittleEndian.Uint32(data) == binaryMagic
}

// WriteBinary writes the binary artifact image.
func (l *Lexicon) WriteBinary(w io.Writer) error {
	body := l.appendBody(nil)

	enc, err := zstd.NewWriter(nil,
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return fmt.Errorf("lexicon: %w", err)
	}
	compressed := enc.EncodeAll(body, nil)
	if err := enc.Close(); err != nil {
		return fmt.Errorf("lexicon: %w", err)
	}

	sum := xxh3.Hash128(body)
	header := make([]byte, binaryHeader)
	binary.LittleEndian.PutUint32(header[0:], binaryMagic)
	binary.LittleEndian.PutUint32(header[4:], binaryVersion)
	binary.LittleEndian.PutUint64(header[8:], uint64(len(compressed)))
	binary.LittleEndian.PutUint64(header[16:], sum.Hi)
	binary.LittleEndian.PutUint64(header[24:], sum.Lo)

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("lexicon: %w", err)
	}
	if _, err := w.Write(compressed); err != nil {
		return fmt.Errorf("lexicon: %w", err)
	}
	return nil
}

// LoadBinary reads a binary artifact image, verifying magic, version,
// length and checksum before rebuilding the lexicon.
func LoadBinary(r io.Reader) (*Lexicon, error) {
	header := make([]byte, binaryHeader)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("%w: short header: %v", ErrLexiconCorrupt, err)
	}
	if binary.LittleEndian.Uint32(header[0:]) != binaryMagic {
		return nil, fmt.Errorf("%w: bad magic", ErrLexiconCorrupt)
	}
	if v := binary.LittleEndian.Uint32(header[4:]); v != binaryVersion {
		return nil, fmt.Errorf("%w: unsupported binary version %d", ErrLexiconCorrupt, v)
	}
	bodyLen := binary.LittleEndian.Uint64(header[8:])
	if bodyLen > maxDecompressed {
		return nil, fmt.Errorf("%w: body length %d too large", ErrLexiconCorrupt, bodyLen)
	}
	compressed := make([]byte, bodyLen)
	if _, err := io.ReadFull(r, compressed); err != nil {
		return nil, fmt.Errorf("%w: short body: %v", ErrLexiconCorrupt, err)
	}

	dec, err := zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderMaxMemory(maxDecompressed))
	if err != nil {
		return nil, fmt.Errorf("lexicon: %w", err)
	}
	defer dec.Close()
	body, err := dec.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLexiconCorrupt, err)
	}

	sum := xxh3.Hash128(body)
	if sum.Hi != binary.LittleEndian.Uint64(header[16:]) ||
		sum.Lo != binary.LittleEndian.Uint64(header[24:]) {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrLexiconCorrupt)
	}
	return parseBody(body)
}

func (l *Lexicon) appendBody(b []byte) []byte {
	b = appendString(b, l.version)

	b = binary.LittleEndian.AppendUint32(b, uint32(l.in.Len()))
	for id := AtomID(0); int(id) < l.in.Len(); id++ {
		e, _ := l.in.Entry(id)
		b = append(b, byte(e.Kind))
		b = appendString(b, e.Payload)
	}

	b = binary.LittleEndian.AppendUint32(b, uint32(len(l.templates)))
	for _, t := range l.templates {
		b = binary.LittleEndian.AppendUint16(b, uint16(len(t.Atoms)))
		for _, a := range t.Atoms {
			b = binary.LittleEndian.AppendUint32(b, uint32(a))
		}
	}

	b = binary.LittleEndian.AppendUint32(b, uint32(len(l.trie.nodes)))
	for _, n := range l.trie.nodes {
		b = binary.LittleEndian.AppendUint32(b, uint32(n.terminal))
		b = binary.LittleEndian.AppendUint32(b, n.edgeStart)
		b = binary.LittleEndian.AppendUint16(b, n.edgeLen)
	}
	b = binary.LittleEndian.AppendUint32(b, uint32(len(l.trie.edges)))
	for _, e := range l.trie.edges {
		b = binary.LittleEndian.AppendUint32(b, uint32(e.label))
		b = binary.LittleEndian.AppendUint32(b, e.next)
	}
	return b
}

func parseBody(body []byte) (*Lexicon, error) {
	rd := bodyReader{data: body}

	version := rd.str()

	in := NewInterner()
	atomCount := rd.u32()
	for i := uint32(0); i < atomCount && rd.err == nil; i++ {
		kind := atom.Kind(rd.u8())
		payload := rd.str()
		if rd.err != nil {
			break
		}
		if _, err := in.Add(kind, payload); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLexiconCorrupt, err)
		}
	}

	templateCount := rd.u32()
	templates := make([]Template, 0, templateCount)
	for i := uint32(0); i < templateCount && rd.err == nil; i++ {
		n := rd.u16()
		atoms := make([]AtomID, 0, n)
		arity := 0
		for j := uint16(0); j < n && rd.err == nil; j++ {
			aid := AtomID(rd.u32())
			if e, ok := in.Entry(aid); ok && e.IsSlot() {
				arity++
			}
			atoms = append(atoms, aid)
		}
		templates = append(templates, Template{Atoms: atoms, Arity: arity})
	}

	// The stored trie image is validated against a rebuild; a disagreement
	// means the artifact was not produced by the deterministic conversion.
	nodeCount := rd.u32()
	var nodes []trieNode
	for i := uint32(0); i < nodeCount && rd.err == nil; i++ {
		terminal := int32(rd.u32())
		edgeStart := rd.u32()
		nodes = append(nodes, trieNode{terminal: terminal, edgeStart: edgeStart, edgeLen: rd.u16()})
	}
	edgeCount := rd.u32()
	var edges []trieEdge
	for i := uint32(0); i < edgeCount && rd.err == nil; i++ {
		label := AtomID(rd.u32())
		edges = append(edges, trieEdge{label: label, next: rd.u32()})
	}

	if rd.err != nil {
		return nil, fmt.Errorf("%w: truncated body", ErrLexiconCorrupt)
	}
	if rd.pos != len(body) {
		return nil, fmt.Errorf("%w: %d trailing body bytes", ErrLexiconCorrupt, len(body)-rd.pos)
	}

	lex, err := New(in, templates, version)
	if err != nil {
		return nil, err
	}
	mismatch := len(lex.trie.nodes) != len(nodes) || len(lex.trie.edges) != len(edges)
	for i := 0; !mismatch && i < len(nodes); i++ {
		mismatch = lex.trie.nodes[i] != nodes[i]
	}
	for i := 0; !mismatch && i < len(edges); i++ {
		mismatch = lex.trie.edges[i] != edges[i]
	}
	if mismatch {
		return nil, fmt.Errorf("%w: trie image disagrees with template table", ErrLexiconCorrupt)
	}
	return lex, nil
}

func appendString(b []byte, s string) []byte {
	b = binary.LittleEndian.AppendUint32(b, uint32(len(s)))
	return append(b, s...)
}

// bodyReader is a cursor over the decompressed body; the first failed read
// sticks in err so callers can check once.
type bodyReader struct {
	data []byte
	pos  int
	err  error
}

func (r *bodyReader) u8() byte {
	if r.err != nil || r.pos+1 > len(r.data) {
		r.fail()
		return 0
	}
	v := r.data[r.pos]
	r.pos++
	return v
}

func (r *bodyReader) u16() uint16 {
	if r.err != nil || r.pos+2 > len(r.data) {
		r.fail()
		return 0
	}
	v := binary.LittleEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v
}

func (r *bodyReader) u32() uint32 {
	if r.err != nil || r.pos+4 > len(r.data) {
		r.fail()
		return 0
	}
	v := binary.LittleEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v
}

func (r *bodyReader) str() string {
	n := r.u32()
	if r.err != nil || r.pos+int(n) > len(r.data) {
		r.fail()
		return ""
	}
	v := string(r.data[r.pos : r.pos+int(n)])
	r.pos += int(n)
	return v
}

func (r *bodyReader) fail() {
	if r.err == nil {
		r.err = fmt.Errorf("%w: truncated body", ErrLexiconCorrupt)
	}
}
