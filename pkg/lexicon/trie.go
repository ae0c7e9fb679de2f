package lexicon

import "sort"

// Trie is a prefix index over the template table, keyed by atom id. It is
// stored flat: one node slice and one edge slice, each node owning a sorted
// contiguous run of edges looked up by binary search. Built once at lexicon
// load, read-only afterwards.
type trieNode struct {
	terminal  int32 // template id ending at this node, -1 if none
	edgeStart uint32
	edgeLen   uint16
}

type trieEdge struct {
	label AtomID
	next  uint32
}

// Trie supports the encoder's longest-prefix query.
type Trie struct {
	nodes []trieNode
	edges []trieEdge
}

// BuildTrie constructs the prefix trie for a template table. Templates are
// inserted in id order and edges are sorted by label, so two builds over the
// same table produce identical structures.
func BuildTrie(templates []Template) *Trie {
	children := []map[AtomID]uint32{{}}
	terminal := []int32{-1}

	for tid, t := range templates {
		node := uint32(0)
		for _, a := range t.Atoms {
			next, ok := children[node][a]
			if !ok {
				next = uint32(len(children))
				children[node][a] = next
				children = append(children, map[AtomID]uint32{})
				terminal = append(terminal, -1)
			}
			node = next
		}
		terminal[node] = int32(tid)
	}

	tr := &Trie{nodes: make([]trieNode, 0, len(children))}
	for i, ch := range children {
		start := uint32(len(tr.edges))
		labels := make([]AtomID, 0, len(ch))
		for label := range ch {
			labels = append(labels, label)
		}
		sort.Slice(labels, func(a, b int) bool { return labels[a] < labels[b] })
		for _, label := range labels {
			tr.edges = append(tr.edges, trieEdge{label: label, next: ch[label]})
		}
		tr.nodes = append(tr.nodes, trieNode{
			terminal:  terminal[i],
			edgeStart: start,
			edgeLen:   uint16(len(labels)),
		})
	}
	return tr
}

// MatchLongest descends from the root consuming stream[pos:], tracking the
// deepest terminal node visited. It returns the matched length and template
// id, or (0, -1) when no template prefixes the stream here. steps counts
// edge lookups, for encoder statistics.
func (t *Trie) MatchLongest(stream []AtomID, pos int) (length int, tid int32, steps int) {
	node := uint32(0)
	depth := 0
	tid = -1

	for pos+depth < len(stream) {
		n := &t.nodes[node]
		next, ok := t.findEdge(n, stream[pos+depth])
		steps++
		if !ok {
			break
		}
		node = next
		depth++
		if nt := t.nodes[node].terminal; nt >= 0 {
			length = depth
			tid = nt
		}
	}
	return length, tid, steps
}

func (t *Trie) findEdge(n *trieNode, label AtomID) (uint32, bool) {
	lo := int(n.edgeStart)
	hi := lo + int(n.edgeLen)
	for lo < hi {
		mid := (lo + hi) / 2
		switch e := t.edges[mid]; {
		case e.label == label:
			return e.next, true
		case e.label < label:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return 0, false
}

// NodeCount returns the number of trie nodes.
func (t *Trie) NodeCount() int {
	return len(t.nodes)
}

// EdgeCount returns the number of trie edges.
func (t *Trie) EdgeCount() int {
	return len(t.edges)
}
