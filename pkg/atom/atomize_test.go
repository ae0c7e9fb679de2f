package atom

import (
	"bytes"
	"strings"
	"testing"
)

var testStopwords = []string{
	"the", "a", "an", "and", "or", "of", "to", "in", "on", "is", "was",
}

func testStopSet() *StopSet {
	return NewStopSet(testStopwords)
}

func kinds(atoms []Atom) []Kind {
	out := make([]Kind, len(atoms))
	for i, a := range atoms {
		out[i] = a.Kind
	}
	return out
}

func payloads(atoms []Atom) []string {
	out := make([]string, len(atoms))
	for i, a := range atoms {
		out[i] = string(a.Payload)
	}
	return out
}

func TestAtomizeScenarios(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		kinds    []Kind
		payloads []string
	}{
		{
			name:     "empty",
			input:    "",
			kinds:    []Kind{},
			payloads: []string{},
		},
		{
			name:     "whitespace only is one run",
			input:    "   \n\t",
			kinds:    []Kind{KindWs},
			payloads: []string{"   \n\t"},
		},
		{
			name:     "hello world",
			input:    "Hello, world.\n",
			kinds:    []Kind{KindCap, KindPunc, KindWs, KindVar, KindPunc, KindWs},
			payloads: []string{"Hello", ",", " ", "world", ".", "\n"},
		},
		{
			name:     "numbers keep the dot only before digits",
			input:    "3.14 and 42",
			kinds:    []Kind{KindNum, KindWs, KindLit, KindWs, KindNum},
			payloads: []string{"3.14", " ", "and", " ", "42"},
		},
		{
			name:     "stopword boundary",
			input:    "theory",
			kinds:    []Kind{KindVar},
			payloads: []string{"theory"},
		},
		{
			name:     "stopword at end of input",
			input:    "the",
			kinds:    []Kind{KindLit},
			payloads: []string{"the"},
		},
		{
			name:     "trailing dot is punctuation",
			input:    "3.",
			kinds:    []Kind{KindNum, KindPunc},
			payloads: []string{"3", "."},
		},
		{
			name:     "number then word",
			input:    "3.14x",
			kinds:    []Kind{KindNum, KindVar},
			payloads: []string{"3.14", "x"},
		},
		{
			name:     "digits inside a word make it a word",
			input:    "3rd",
			kinds:    []Kind{KindVar},
			payloads: []string{"3rd"},
		},
		{
			name:     "underscore is a word character",
			input:    "snake_case_2",
			kinds:    []Kind{KindVar},
			payloads: []string{"snake_case_2"},
		},
		{
			name:     "capitalized stopword is CAP",
			input:    "The",
			kinds:    []Kind{KindCap},
			payloads: []string{"The"},
		},
		{
			name:     "phrase",
			input:    "the king of the castle",
			kinds:    []Kind{KindLit, KindWs, KindVar, KindWs, KindLit, KindWs, KindLit, KindWs, KindVar},
			payloads: []string{"the", " ", "king", " ", "of", " ", "the", " ", "castle"},
		},
		{
			name:     "source code shape",
			input:    "load(path):",
			kinds:    []Kind{KindVar, KindPunc, KindVar, KindPunc, KindPunc},
			payloads: []string{"load", "(", "path", ")", ":"},
		},
		{
			name:     "unicode word",
			input:    "Grüße",
			kinds:    []Kind{KindCap},
			payloads: []string{"Grüße"},
		},
		{
			name:     "non-ascii punctuation",
			input:    "a—b",
			kinds:    []Kind{KindLit, KindPunc, KindVar},
			payloads: []string{"a", "—", "b"},
		},
		{
			name:     "lone invalid byte",
			input:    "\xff",
			kinds:    []Kind{KindPunc},
			payloads: []string{"\xff"},
		},
		{
			name:     "invalid bytes split per byte",
			input:    "a\xc3\x28b",
			kinds:    []Kind{KindLit, KindPunc, KindPunc, KindVar},
			payloads: []string{"a", "\xc3", "(", "b"},
		},
	}

	stop := testStopSet()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			atoms := Atomize([]byte(tc.input), stop)
			if len(atoms) != len(tc.kinds) {
				t.Fatalf("atom count: got %d %v, want %d", len(atoms), kinds(atoms), len(tc.kinds))
			}
			for i := range atoms {
				if atoms[i].Kind != tc.kinds[i] {
					t.Errorf("atom %d kind: got %v, want %v", i, atoms[i].Kind, tc.kinds[i])
				}
				if string(atoms[i].Payload) != tc.payloads[i] {
					t.Errorf("atom %d payload: got %q, want %q", i, atoms[i].Payload, tc.payloads[i])
				}
			}
		})
	}
}

func TestAtomizeRoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"the quick brown fox jumps over the lazy dog",
		"Hello, world.\n",
		"func main() {\n\tfmt.Println(\"hi\")\n}\n",
		"3.14159 26535",
		"tabs\tand\r\nnewlines\n\n",
		"mixed Ünïcode — with dashes…",
		"price: $19.99 (20% off!)",
		"\xff\xfe binary \x00 junk \xc3",
		strings.Repeat("the castle of the king ", 50),
	}

	stop := testStopSet()
	for _, in := range inputs {
		atoms := Atomize([]byte(in), stop)
		got := Detokenize(atoms)
		if !bytes.Equal(got, []byte(in)) {
			t.Errorf("round trip failed for %q: got %q", in, got)
		}
	}
}

func TestAtomizeAllBytes(t *testing.T) {
	// Every single-byte input must survive the round trip, including the
	// 128 bytes that are never valid UTF-8 on their own.
	stop := testStopSet()
	for b := 0; b < 256; b++ {
		in := []byte{byte(b)}
		atoms := Atomize(in, stop)
		if got := Detokenize(atoms); !bytes.Equal(got, in) {
			t.Fatalf("byte 0x%02x: round trip got %q", b, got)
		}
		if len(atoms) != 1 {
			t.Fatalf("byte 0x%02x: got %d atoms, want 1", b, len(atoms))
		}
	}
}

func TestAtomizeNilStopSet(t *testing.T) {
	atoms := Atomize([]byte("the end"), nil)
	want := []Kind{KindVar, KindWs, KindVar}
	got := kinds(atoms)
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestKindIsSlot(t *testing.T) {
	slot := map[Kind]bool{
		KindLit: false, KindWs: false, KindPunc: false,
		KindVar: true, KindCap: true, KindNum: true,
	}
	for k, want := range slot {
		if k.IsSlot() != want {
			t.Errorf("%v.IsSlot() = %v, want %v", k, k.IsSlot(), want)
		}
	}
}

func TestStopSet(t *testing.T) {
	s := NewStopSet([]string{"the", "of"})
	if !s.Contains([]byte("the")) || !s.Contains([]byte("of")) {
		t.Error("missing expected stopwords")
	}
	if s.Contains([]byte("The")) {
		t.Error("stopword matching must be case-sensitive")
	}
	if s.Contains([]byte("theo")) {
		t.Error("prefix must not match")
	}
	if s.Len() != 2 {
		t.Errorf("Len: got %d, want 2", s.Len())
	}
	var nilSet *StopSet
	if nilSet.Contains([]byte("the")) || nilSet.Len() != 0 {
		t.Error("nil set must be empty")
	}
}
