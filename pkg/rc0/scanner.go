// Package rc0 decodes and encodes looper patch files (.RC0).
//
// The on-disk format looks like XML but is not well-formed: sibling tags repeat,
// tag names are not identifiers (AA, AA_SLOW_GEAR, 1), and the <count> element
// sits outside the <database> root. The scanner here is therefore a plain text
// splitter rather than an XML parser.
package rc0

import (
	"strings"
)

// maxScanSteps bounds the number of tag searches a single scan may perform.
const maxScanSteps = 1 << 20

// scanBudgetFactor bounds the bytes a scan may examine, as a multiple of the
// input length. Well-formed input needs about two passes.
const scanBudgetFactor = 8

// scanBudgetSlack lets short inputs be scanned in full regardless of length.
const scanBudgetSlack = 4096

// Tag is one element found by ScanTags.
type Tag struct {
	Name  string
	Attrs string // raw attribute text after the name, if any
	Inner string
}

// Attr returns the value of a double-quoted attribute, e.g. id in `mem id="3"`.
func (t Tag) Attr(key string) (string, bool) {
	needle := key + `="`
	i := strings.Index(t.Attrs, needle)
	if i < 0 {
		return "", false
	}
	rest := t.Attrs[i+len(needle):]
	j := strings.IndexByte(rest, '"')
	if j < 0 {
		return "", false
	}
	return rest[:j], true
}

// OrderedMap keeps keys in first-insertion order. Setting an existing key
// replaces its value but keeps its position.
type OrderedMap[V any] struct {
	keys   []string
	values map[string]V
}

// NewOrderedMap creates an empty OrderedMap
func NewOrderedMap[V any]() *OrderedMap[V] {
	return &OrderedMap[V]{values: make(map[string]V)}
}

// Set stores v under key
func (m *OrderedMap[V]) Set(key string, v V) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

// Get returns the value for key
func (m *OrderedMap[V]) Get(key string) (V, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the keys in first-insertion order
func (m *OrderedMap[V]) Keys() []string {
	return append([]string(nil), m.keys...)
}

// Len returns the number of keys
func (m *OrderedMap[V]) Len() int {
	return len(m.keys)
}

// ScanTags splits text into its top-level tags.
//
// A repeated tag name keeps only its last content. Close tags with no open
// tag are skipped, and an open tag with no matching close is dropped along
// with its content.
func ScanTags(text string) *OrderedMap[Tag] {
	tags, _ := scanTags(text)
	return tags
}

// scanTags is ScanTags that also reports the names of dropped tags.
func scanTags(text string) (*OrderedMap[Tag], []string) {
	sc := newScanner(text)
	return sc.scan()
}

// scanner holds the state of one ScanTags call
type scanner struct {
	text     string
	budget   int            // bytes left to examine
	examined int            // bytes examined so far
	noClose  map[string]int // name -> offset from which no close tag follows
}

func newScanner(text string) *scanner {
	return &scanner{
		text:    text,
		budget:  scanBudgetFactor*len(text) + scanBudgetSlack,
		noClose: make(map[string]int),
	}
}

func (s *scanner) spend(n int) {
	s.budget -= n
	s.examined += n
}

func (s *scanner) scan() (*OrderedMap[Tag], []string) {
	text := s.text
	tags := NewOrderedMap[Tag]()
	var dropped []string

	pos := 0
	for steps := 0; steps < maxScanSteps; steps++ {
		lt := strings.IndexByte(text[pos:], '<')
		if lt < 0 {
			break
		}
		lt += pos
		gt := strings.IndexByte(text[lt+1:], '>')
		if gt < 0 {
			break
		}
		gt += lt + 1
		token := text[lt+1 : gt]
		pos = gt + 1

		if token == "" || strings.HasPrefix(token, "/") {
			continue
		}
		if strings.ContainsRune(token, '<') {
			// "<" inside the token: resume scanning at the inner "<".
			pos = lt + 1
			continue
		}

		name, attrs := splitToken(token)
		end, closeLen, ok := s.findClose(pos, name)
		if !ok {
			dropped = append(dropped, name)
			continue
		}
		tags.Set(name, Tag{Name: name, Attrs: attrs, Inner: text[pos:end]})
		pos = end + closeLen
	}
	return tags, dropped
}

func splitToken(token string) (name, attrs string) {
	token = strings.TrimSuffix(token, "/")
	if i := strings.IndexAny(token, " \t\r\n"); i >= 0 {
		return token[:i], strings.TrimSpace(token[i+1:])
	}
	return token, ""
}

// findClose finds the </name> that balances an open tag whose content starts
// at from. It returns the offset of the close tag and its length. It fails
// once the scan budget is spent.
func (s *scanner) findClose(from int, name string) (int, int, bool) {
	if at, ok := s.noClose[name]; ok && from >= at {
		return 0, 0, false
	}

	text := s.text
	closeTag := "</" + name + ">"
	openTag := "<" + name + ">"
	openAttr := "<" + name + " "

	depth := 1
	pos := from
	for s.budget > 0 {
		c := strings.Index(text[pos:], closeTag)
		if c < 0 {
			s.spend(len(text) - pos)
			if at, ok := s.noClose[name]; !ok || pos < at {
				s.noClose[name] = pos
			}
			return 0, 0, false
		}
		c += pos

		// Count same-name opens between pos and the candidate close.
		between := text[pos:c]
		s.spend(2*len(between) + len(closeTag))
		depth += strings.Count(between, openTag) + strings.Count(between, openAttr)
		depth--
		if depth == 0 {
			return c, len(closeTag), true
		}
		pos = c + len(closeTag)
	}
	return 0, 0, false
}
