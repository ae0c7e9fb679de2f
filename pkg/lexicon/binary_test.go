package lexicon

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestBinaryRoundTrip(t *testing.T) {
	lex, err := LoadText(strings.NewReader(sampleText))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := lex.WriteBinary(&buf); err != nil {
		t.Fatal(err)
	}
	if !isBinaryArtifact(buf.Bytes()) {
		t.Fatal("written image does not carry the binary magic")
	}

	loaded, err := LoadBinary(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Version() != lex.Version() {
		t.Errorf("version: got %q, want %q", loaded.Version(), lex.Version())
	}
	if loaded.AtomCount() != lex.AtomCount() || loaded.TemplateCount() != lex.TemplateCount() {
		t.Fatalf("counts differ: %d/%d vs %d/%d",
			loaded.AtomCount(), loaded.TemplateCount(), lex.AtomCount(), lex.TemplateCount())
	}
	for tid := 0; tid < lex.TemplateCount(); tid++ {
		a, _ := lex.Template(uint32(tid))
		b, _ := loaded.Template(uint32(tid))
		if a.Arity != b.Arity || a.Len() != b.Len() {
			t.Errorf("template %d differs: %+v vs %+v", tid, a, b)
		}
		for i := range a.Atoms {
			if a.Atoms[i] != b.Atoms[i] {
				t.Errorf("template %d atom %d differs", tid, i)
			}
		}
	}
}

func TestBinaryDeterministic(t *testing.T) {
	lex, err := LoadText(strings.NewReader(sampleText))
	if err != nil {
		t.Fatal(err)
	}
	var a, b bytes.Buffer
	if err := lex.WriteBinary(&a); err != nil {
		t.Fatal(err)
	}
	if err := lex.WriteBinary(&b); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Error("two conversions of the same lexicon are not byte-identical")
	}

	// And through a reload: text -> binary -> lexicon -> binary.
	reloaded, err := LoadBinary(bytes.NewReader(a.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	var c bytes.Buffer
	if err := reloaded.WriteBinary(&c); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Bytes(), c.Bytes()) {
		t.Error("binary image is not stable across a reload")
	}
}

func TestBinaryCorruption(t *testing.T) {
	lex, err := LoadText(strings.NewReader(sampleText))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := lex.WriteBinary(&buf); err != nil {
		t.Fatal(err)
	}
	image := buf.Bytes()

	testCases := []struct {
		name   string
		mutate func([]byte) []byte
	}{
		{"empty", func(b []byte) []byte { return nil }},
		{"bad magic", func(b []byte) []byte { b[0] ^= 0xFF; return b }},
		{"bad version", func(b []byte) []byte { b[4] = 9; return b }},
		{"truncated header", func(b []byte) []byte { return b[:10] }},
		{"truncated body", func(b []byte) []byte { return b[:len(b)-3] }},
		{"flipped checksum", func(b []byte) []byte { b[17] ^= 0x01; return b }},
		{"flipped body byte", func(b []byte) []byte { b[len(b)-1] ^= 0x01; return b }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mutated := tc.mutate(append([]byte(nil), image...))
			if _, err := LoadBinary(bytes.NewReader(mutated)); !errors.Is(err, ErrLexiconCorrupt) {
				t.Errorf("got %v, want ErrLexiconCorrupt", err)
			}
		})
	}
}

func TestLoadSniffsBothForms(t *testing.T) {
	lex, err := LoadText(strings.NewReader(sampleText))
	if err != nil {
		t.Fatal(err)
	}
	var bin bytes.Buffer
	if err := lex.WriteBinary(&bin); err != nil {
		t.Fatal(err)
	}

	fromBin, err := ReadFrom(bytes.NewReader(bin.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	fromText, err := ReadFrom(strings.NewReader(sampleText))
	if err != nil {
		t.Fatal(err)
	}
	if fromBin.AtomCount() != fromText.AtomCount() ||
		fromBin.TemplateCount() != fromText.TemplateCount() {
		t.Error("the two artifact forms load differently")
	}
}
