package lexicon

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/ha1tch/stencil/pkg/atom"
)

// The text artifact is a JSON object with three fields: a version tag,
// str_to_id mapping atom textual forms to their interner ids, and
// id_to_template mapping "<Tn>" keys to atom textual form lists. The
// stopword set is implicit in the LIT entries.
type textArtifact struct {
	Version      string              `json:"version"`
	StrToID      map[string]uint32   `json:"str_to_id"`
	IDToTemplate map[string][]string `json:"id_to_template"`
}

var textVersions = map[string]bool{"9.2": true, "9.3": true}

// LoadText reads the text JSON form. Atom ids must be contiguous from zero
// and are reproduced exactly; template ids must be contiguous from zero.
func LoadText(r io.Reader) (*Lexicon, error) {
	var parsed textArtifact
	dec := json.NewDecoder(r)
	if err := dec.Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLexiconCorrupt, err)
	}
	if !textVersions[parsed.Version] {
		return nil, fmt.Errorf("%w: unsupported version %q", ErrLexiconCorrupt, parsed.Version)
	}

	in, err := buildInterner(parsed.StrToID)
	if err != nil {
		return nil, err
	}
	templates, err := buildTemplates(in, parsed.IDToTemplate)
	if err != nil {
		return nil, err
	}
	return New(in, templates, parsed.Version)
}

// buildInterner replays str_to_id in id order, verifying that insertion
// order reproduces every declared id. This pins the artifact's id space
// exactly; a gap or duplicate is a corrupt lexicon.
func buildInterner(strToID map[string]uint32) (*Interner, error) {
	type pair struct {
		form string
		id   uint32
	}
	pairs := make([]pair, 0, len(strToID))
	for s, id := range strToID {
		pairs = append(pairs, pair{s, id})
	}
	sort.Slice(pairs, func(a, b int) bool { return pairs[a].id < pairs[b].id })

	in := NewInterner()
	for _, p := range pairs {
		kind, payload, err := ParseAtomText(p.form)
		if err != nil {
			return nil, err
		}
		got, err := in.Add(kind, payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLexiconCorrupt, err)
		}
		if got != AtomID(p.id) {
			return nil, fmt.Errorf("%w: atom %q wants id %d, got %d",
				ErrLexiconCorrupt, p.form, p.id, got)
		}
	}
	return in, nil
}

func buildTemplates(in *Interner, idToTemplate map[string][]string) ([]Template, error) {
	type item struct {
		tid   int
		forms []string
	}
	items := make([]item, 0, len(idToTemplate))
	for key, forms := range idToTemplate {
		tid, err := parseTemplateKey(key)
		if err != nil {
			return nil, err
		}
		items = append(items, item{tid, forms})
	}
	sort.Slice(items, func(a, b int) bool { return items[a].tid < items[b].tid })

	templates := make([]Template, 0, len(items))
	for i, it := range items {
		if it.tid != i {
			return nil, fmt.Errorf("%w: template ids not contiguous, expected %d found %d",
				ErrLexiconCorrupt, i, it.tid)
		}
		atoms := make([]AtomID, 0, len(it.forms))
		arity := 0
		for _, form := range it.forms {
			kind, payload, err := ParseAtomText(form)
			if err != nil {
				return nil, err
			}
			var (
				aid AtomID
				ok  bool
			)
			if kind.IsSlot() {
				aid, ok = in.KindID(kind)
				arity++
			} else {
				aid, ok = in.Fixed(kind, []byte(payload))
			}
			if !ok {
				return nil, fmt.Errorf("%w: template %d references undeclared atom %q",
					ErrLexiconCorrupt, it.tid, form)
			}
			atoms = append(atoms, aid)
		}
		templates = append(templates, Template{Atoms: atoms, Arity: arity})
	}
	return templates, nil
}

// ParseAtomText parses an atom textual form: VAR, CAP, NUM, LIT(<word>),
// WS('<bytes>') or PUNC(<char>). The bytes inside the parentheses are taken
// verbatim; WS payloads may be wrapped in single quotes, which are stripped.
func ParseAtomText(s string) (atom.Kind, string, error) {
	switch s {
	case "VAR":
		return atom.KindVar, "", nil
	case "CAP":
		return atom.KindCap, "", nil
	case "NUM":
		return atom.KindNum, "", nil
	}

	open := strings.IndexByte(s, '(')
	end := strings.LastIndexByte(s, ')')
	if open < 0 || end <= open {
		return 0, "", fmt.Errorf("%w: bad atom form %q", ErrLexiconCorrupt, s)
	}
	payload := s[open+1 : end]

	var kind atom.Kind
	switch s[:open] {
	case "LIT":
		kind = atom.KindLit
	case "WS":
		kind = atom.KindWs
		if len(payload) >= 2 && payload[0] == '\'' && payload[len(payload)-1] == '\'' {
			payload = payload[1 : len(payload)-1]
		}
	case "PUNC":
		kind = atom.KindPunc
	default:
		return 0, "", fmt.Errorf("%w: unknown atom kind in %q", ErrLexiconCorrupt, s)
	}
	return kind, payload, nil
}

// FormatAtomText renders an interner entry in the textual form ParseAtomText
// accepts.
func FormatAtomText(e Entry) string {
	switch e.Kind {
	case atom.KindVar, atom.KindCap, atom.KindNum:
		return e.Kind.String()
	case atom.KindWs:
		return "WS('" + e.Payload + "')"
	default:
		return e.Kind.String() + "(" + e.Payload + ")"
	}
}

func parseTemplateKey(s string) (int, error) {
	if !strings.HasPrefix(s, "<T") || !strings.HasSuffix(s, ">") {
		return 0, fmt.Errorf("%w: bad template key %q", ErrLexiconCorrupt, s)
	}
	tid, err := strconv.Atoi(s[2 : len(s)-1])
	if err != nil || tid < 0 {
		return 0, fmt.Errorf("%w: bad template key %q", ErrLexiconCorrupt, s)
	}
	return tid, nil
}

// WriteText writes the lexicon in the text JSON form. The output is
// deterministic: encoding/json sorts object keys, and ids round-trip through
// LoadText unchanged.
func (l *Lexicon) WriteText(w io.Writer) error {
	out := textArtifact{
		Version:      l.version,
		StrToID:      make(map[string]uint32, l.in.Len()),
		IDToTemplate: make(map[string][]string, len(l.templates)),
	}
	for id := AtomID(0); int(id) < l.in.Len(); id++ {
		e, _ := l.in.Entry(id)
		out.StrToID[FormatAtomText(e)] = uint32(id)
	}
	for tid, t := range l.templates {
		forms := make([]string, len(t.Atoms))
		for i, a := range t.Atoms {
			e, _ := l.in.Entry(a)
			forms[i] = FormatAtomText(e)
		}
		out.IDToTemplate["<T"+strconv.Itoa(tid)+">"] = forms
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
