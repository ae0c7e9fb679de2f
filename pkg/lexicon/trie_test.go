package lexicon

import "testing"

// ids used by the trie tests; the trie only sees opaque atom ids.
const (
	idA AtomID = iota
	idB
	idC
	idD
)

func buildTestTrie(t *testing.T, seqs ...[]AtomID) *Trie {
	t.Helper()
	templates := make([]Template, len(seqs))
	for i, s := range seqs {
		templates[i] = Template{Atoms: s}
	}
	return BuildTrie(templates)
}

func TestTrieMatchLongest(t *testing.T) {
	// T0: a b, T1: a b c, T2: b, T3: a d
	tr := buildTestTrie(t,
		[]AtomID{idA, idB},
		[]AtomID{idA, idB, idC},
		[]AtomID{idB},
		[]AtomID{idA, idD},
	)

	testCases := []struct {
		name   string
		stream []AtomID
		pos    int
		length int
		tid    int32
	}{
		{"longest wins", []AtomID{idA, idB, idC}, 0, 3, 1},
		{"shorter when suffix differs", []AtomID{idA, idB, idD}, 0, 2, 0},
		{"single atom template", []AtomID{idB, idA}, 0, 1, 2},
		{"no match", []AtomID{idC, idA}, 0, 0, -1},
		{"mid stream", []AtomID{idC, idA, idD}, 1, 2, 3},
		{"prefix of template only", []AtomID{idA}, 0, 0, -1},
		{"at end of stream", []AtomID{idA, idB}, 2, 0, -1},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			length, tid, _ := tr.MatchLongest(tc.stream, tc.pos)
			if length != tc.length || tid != tc.tid {
				t.Errorf("got (%d, %d), want (%d, %d)", length, tid, tc.length, tc.tid)
			}
		})
	}
}

func TestTrieDeterministicBuild(t *testing.T) {
	seqs := [][]AtomID{
		{idA, idB, idC},
		{idB, idC},
		{idA, idD},
		{idD},
	}
	a := buildTestTrie(t, seqs...)
	b := buildTestTrie(t, seqs...)
	if a.NodeCount() != b.NodeCount() || a.EdgeCount() != b.EdgeCount() {
		t.Fatalf("builds differ: %d/%d vs %d/%d",
			a.NodeCount(), a.EdgeCount(), b.NodeCount(), b.EdgeCount())
	}
	for i := range a.nodes {
		if a.nodes[i] != b.nodes[i] {
			t.Fatalf("node %d differs", i)
		}
	}
	for i := range a.edges {
		if a.edges[i] != b.edges[i] {
			t.Fatalf("edge %d differs", i)
		}
	}
}

func TestTrieEmptyTable(t *testing.T) {
	tr := BuildTrie(nil)
	length, tid, _ := tr.MatchLongest([]AtomID{idA}, 0)
	if length != 0 || tid != -1 {
		t.Errorf("empty trie matched (%d, %d)", length, tid)
	}
}
