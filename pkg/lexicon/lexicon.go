// Package lexicon holds the codec's read-only artifact: the atom interner,
// the template table and the prefix trie over it, plus the stopword set the
// atomizer needs. A lexicon is produced externally (mined from a corpus),
// shipped as a text or binary artifact, loaded once and then shared by any
// number of encoders and decoders without synchronization.
package lexicon

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ha1tch/stencil/pkg/atom"
)

// ErrLexiconCorrupt reports an artifact that fails structural validation or
// checksum verification. It is fatal to the load.
var ErrLexiconCorrupt = errors.New("lexicon: corrupt artifact")

// Lexicon bundles interner, template table, trie and stopword set.
type Lexicon struct {
	version   string
	in        *Interner
	templates []Template
	trie      *Trie
	stop      *atom.StopSet
}

// New validates templates against the interner and assembles a lexicon.
// Template ids are the slice indices. The stopword set is derived from the
// interner's LIT entries; the trie is built here.
func New(in *Interner, templates []Template, version string) (*Lexicon, error) {
	for tid, t := range templates {
		if len(t.Atoms) == 0 {
			return nil, fmt.Errorf("%w: template %d is empty", ErrLexiconCorrupt, tid)
		}
		if len(t.Atoms) > MaxTemplateLen {
			return nil, fmt.Errorf("%w: template %d has %d atoms, max %d",
				ErrLexiconCorrupt, tid, len(t.Atoms), MaxTemplateLen)
		}
		arity := 0
		for _, a := range t.Atoms {
			e, ok := in.Entry(a)
			if !ok {
				return nil, fmt.Errorf("%w: template %d references unknown atom %d",
					ErrLexiconCorrupt, tid, a)
			}
			if e.IsSlot() {
				arity++
			}
		}
		if t.Arity != arity {
			return nil, fmt.Errorf("%w: template %d arity %d, counted %d",
				ErrLexiconCorrupt, tid, t.Arity, arity)
		}
	}

	var stopwords []string
	for id := AtomID(0); int(id) < in.Len(); id++ {
		e, _ := in.Entry(id)
		if e.Kind == atom.KindLit {
			stopwords = append(stopwords, e.Payload)
		}
	}

	return &Lexicon{
		version:   version,
		in:        in,
		templates: templates,
		trie:      BuildTrie(templates),
		stop:      atom.NewStopSet(stopwords),
	}, nil
}

// Version returns the artifact version tag.
func (l *Lexicon) Version() string { return l.version }

// TemplateCount returns T, the number of templates. Token ids below T are
// template matches; ids at or above T are literal atom fallbacks.
func (l *Lexicon) TemplateCount() int { return len(l.templates) }

// AtomCount returns A, the interner size.
func (l *Lexicon) AtomCount() int { return l.in.Len() }

// TokenSpace returns T + A, one past the largest token id the lexicon alone
// can decode.
func (l *Lexicon) TokenSpace() uint32 {
	return uint32(len(l.templates) + l.in.Len())
}

// Template returns the template with id tid.
func (l *Lexicon) Template(tid uint32) (Template, bool) {
	if int(tid) >= len(l.templates) {
		return Template{}, false
	}
	return l.templates[tid], true
}

// Interner returns the lexicon's interner. Callers must treat it as
// read-only.
func (l *Lexicon) Interner() *Interner { return l.in }

// Trie returns the prefix trie over the template table.
func (l *Lexicon) Trie() *Trie { return l.trie }

// Stopwords returns the stopword set implied by the LIT entries.
func (l *Lexicon) Stopwords() *atom.StopSet { return l.stop }

// Load reads a lexicon artifact from path, accepting either form: the
// binary image (sniffed by its magic) or the text JSON form.
func Load(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("lexicon: %w", err)
	}
	if isBinaryArtifact(data) {
		return LoadBinary(bytes.NewReader(data))
	}
	return LoadText(bytes.NewReader(data))
}

// Builder assembles a lexicon programmatically, assigning atom ids in
// insertion order. Used by tests, the compiled-in default lexicon, and any
// caller constructing a lexicon in memory.
type Builder struct {
	in        *Interner
	templates []Template
	version   string
	err       error
}

// NewBuilder returns a builder with an empty interner.
func NewBuilder(version string) *Builder {
	return &Builder{in: NewInterner(), version: version}
}

// Fixed interns a fixed atom and returns its id.
func (b *Builder) Fixed(kind atom.Kind, payload string) AtomID {
	id, err := b.in.Add(kind, payload)
	if err != nil && b.err == nil {
		b.err = err
	}
	return id
}

// Slot interns (or returns) the reserved id for a slot kind.
func (b *Builder) Slot(kind atom.Kind) AtomID {
	id, err := b.in.Add(kind, "")
	if err != nil && b.err == nil {
		b.err = err
	}
	return id
}

// Template appends a template over previously interned atom ids and returns
// its template id.
func (b *Builder) Template(atoms ...AtomID) uint32 {
	arity := 0
	for _, a := range atoms {
		if e, ok := b.in.Entry(a); ok && e.IsSlot() {
			arity++
		}
	}
	tid := uint32(len(b.templates))
	b.templates = append(b.templates, Template{Atoms: atoms, Arity: arity})
	return tid
}

// Build validates and returns the lexicon.
func (b *Builder) Build() (*Lexicon, error) {
	if b.err != nil {
		return nil, b.err
	}
	return New(b.in, b.templates, b.version)
}

// ReadFrom is a convenience for loading either artifact form from an
// in-memory reader, sniffing the binary magic.
func ReadFrom(r io.Reader) (*Lexicon, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("lexicon: %w", err)
	}
	if isBinaryArtifact(data) {
		return LoadBinary(bytes.NewReader(data))
	}
	return LoadText(bytes.NewReader(data))
}
