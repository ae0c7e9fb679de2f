// Package atom converts UTF-8 byte streams into atom sequences and back.
//
// An atom is the smallest structural unit the codec operates on. There are
// six kinds: three fixed kinds whose payload is determined by identity
// (LIT stopwords, WS whitespace runs, PUNC single code points) and three
// slot kinds whose payload varies per occurrence (VAR lowercase words,
// CAP capitalized words, NUM numeric literals).
//
// Atomize and Detokenize are exact inverses: concatenating the payloads of
// Atomize(b) reproduces b byte-for-byte, for every input including
// ill-formed UTF-8. Every consumer of the codec depends on this contract
// bit-exactly, so the recognition rules here are frozen.
package atom

// Kind identifies the structural class of an atom.
type Kind uint8

const (
	KindLit  Kind = iota // stopword from the lexicon's closed list
	KindWs               // whitespace run, preserved verbatim
	KindPunc             // single punctuation or other code point
	KindVar              // word, not capitalized, not a stopword
	KindCap              // word whose first code point is uppercase
	KindNum              // numeric literal [0-9]+(.[0-9]+)?

	// NumKinds is the number of atom kinds.
	NumKinds = 6
)

// IsSlot reports whether the kind carries its payload in the slot stream
// rather than in the lexicon.
func (k Kind) IsSlot() bool {
	return k == KindVar || k == KindCap || k == KindNum
}

func (k Kind) String() string {
	switch k {
	case KindLit:
		return "LIT"
	case KindWs:
		return "WS"
	case KindPunc:
		return "PUNC"
	case KindVar:
		return "VAR"
	case KindCap:
		return "CAP"
	case KindNum:
		return "NUM"
	default:
		return "UNKNOWN"
	}
}

// Atom is one structural unit of the input. Payload is a subslice of the
// atomized input and must not be mutated while the atom is in use.
type Atom struct {
	Kind    Kind
	Payload []byte
}

// StopSet is the closed set of stopwords recognized as LIT atoms.
// Matching is case-sensitive: the set ships with the lexicon and holds the
// exact bytes of each stopword.
type StopSet struct {
	words map[string]struct{}
}

// NewStopSet builds a stopword set from the given words.
func NewStopSet(words []string) *StopSet {
	s := &StopSet{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		s.words[w] = struct{}{}
	}
	return s
}

// Contains reports whether b is a stopword. A nil set contains nothing.
func (s *StopSet) Contains(b []byte) bool {
	if s == nil {
		return false
	}
	_, ok := s.words[string(b)]
	return ok
}

// Len returns the number of stopwords in the set.
func (s *StopSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.words)
}
