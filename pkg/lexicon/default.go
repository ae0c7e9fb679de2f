package lexicon

import (
	"sync"

	"github.com/ha1tch/stencil/pkg/atom"
)

// defaultStopwords is the stopword list shipped with the default lexicon.
// Real deployments read their list from the artifact's LIT entries; this one
// exists so the library, tests and bench work without an external file.
var defaultStopwords = []string{
	"the", "a", "an", "and", "or", "but", "if", "then", "else", "when", "while", "as",
	"of", "to", "in", "on", "at", "by", "for", "with", "from", "into", "over", "under",
	"is", "are", "was", "were", "be", "been", "being", "do", "does", "did", "doing",
	"have", "has", "had", "having", "will", "would", "can", "could", "may", "might",
	"i", "you", "he", "she", "it", "we", "they", "me", "him", "her", "us", "them",
	"this", "that", "these", "those", "there", "here",
}

// asciiPunct lists the fixed PUNC atoms the default lexicon declares: every
// ASCII punctuation code point the atomizer can emit.
const asciiPunct = "!\"#$%&'()*+,-./:;<=>?@[\\]^`{|}~"

// whitespaceRuns are the WS payloads the default lexicon declares. Runs not
// listed here fall into the encoder's extension region.
var whitespaceRuns = []string{
	" ", "\n", "\t", "\r", "\r\n", "  ", "    ", "\n\n", " \n", "\n\t",
}

var (
	defaultOnce sync.Once
	defaultLex  *Lexicon
)

// Default returns the compiled-in lexicon. It is built once and shared;
// like any lexicon it is immutable and safe for concurrent use.
func Default() *Lexicon {
	defaultOnce.Do(func() {
		lex, err := buildDefault()
		if err != nil {
			// The default lexicon is constructed from constants; failing to
			// build it is a programming error, not a runtime condition.
			panic(err)
		}
		defaultLex = lex
	})
	return defaultLex
}

func buildDefault() (*Lexicon, error) {
	b := NewBuilder("9.3")

	varID := b.Slot(atom.KindVar)
	capID := b.Slot(atom.KindCap)
	numID := b.Slot(atom.KindNum)

	sp := b.Fixed(atom.KindWs, " ")
	nl := b.Fixed(atom.KindWs, "\n")
	for _, ws := range whitespaceRuns[2:] {
		b.Fixed(atom.KindWs, ws)
	}

	lit := make(map[string]AtomID, len(defaultStopwords))
	for _, w := range defaultStopwords {
		lit[w] = b.Fixed(atom.KindLit, w)
	}

	comma := b.Fixed(atom.KindPunc, ",")
	dot := b.Fixed(atom.KindPunc, ".")
	for _, r := range asciiPunct {
		if r == ',' || r == '.' {
			continue
		}
		b.Fixed(atom.KindPunc, string(r))
	}

	// Starter templates: the recurring skeletons of English prose and
	// plain source text.
	b.Template(lit["the"], sp, varID, sp, lit["of"], sp, lit["the"], sp, varID)
	b.Template(lit["the"], sp, varID, sp, lit["of"], sp, varID)
	b.Template(lit["the"], sp, varID)
	b.Template(lit["a"], sp, varID)
	b.Template(lit["of"], sp, lit["the"], sp, varID)
	b.Template(lit["in"], sp, lit["the"], sp, varID)
	b.Template(lit["to"], sp, lit["the"], sp, varID)
	b.Template(varID, sp, varID)
	b.Template(varID, sp, lit["and"], sp, varID)
	b.Template(capID, sp, varID)
	b.Template(capID, comma, sp)
	b.Template(varID, dot, nl)
	b.Template(varID, comma, sp)
	b.Template(numID, dot, sp)
	b.Template(varID, sp, lit["is"], sp, varID)
	b.Template(lit["it"], sp, lit["is"], sp, varID)

	return b.Build()
}
