package rc0

import (
	"sort"
	"strconv"
	"strings"
)

// ParameterSet maps parameter keys (usually single letters) to values
type ParameterSet map[string]int

// Clone returns a copy of the set. A nil set clones to nil.
func (p ParameterSet) Clone() ParameterSet {
	if p == nil {
		return nil
	}
	out := make(ParameterSet, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Get returns the value for key and whether it was present
func (p ParameterSet) Get(key string) (int, bool) {
	v, ok := p[key]
	return v, ok
}

// SortedKeys orders keys the way the writer emits them: single letters
// alphabetically first, then all other keys alphabetically.
func (p ParameterSet) SortedKeys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sortParamKeys(keys)
	return keys
}

func sortParamKeys(keys []string) {
	sort.Slice(keys, func(i, j int) bool {
		li, lj := isLetterKey(keys[i]), isLetterKey(keys[j])
		if li != lj {
			return li
		}
		return keys[i] < keys[j]
	})
}

func isLetterKey(k string) bool {
	return len(k) == 1 && isUpper(k[0])
}

func isUpper(b byte) bool {
	return b >= 'A' && b <= 'Z'
}

// DecodeParams reads <X>value</X> pairs from inner text. Values that are not
// integers are left out.
func DecodeParams(inner string) *OrderedMap[int] {
	out := NewOrderedMap[int]()
	tags := ScanTags(inner)
	for _, k := range tags.Keys() {
		t, _ := tags.Get(k)
		v, err := strconv.Atoi(strings.TrimSpace(t.Inner))
		if err != nil {
			continue
		}
		out.Set(k, v)
	}
	return out
}

// decodeParamSet is DecodeParams collapsed into a ParameterSet
func decodeParamSet(inner string) ParameterSet {
	m := DecodeParams(inner)
	out := make(ParameterSet, m.Len())
	for _, k := range m.Keys() {
		out[k], _ = m.Get(k)
	}
	return out
}

// fieldReader pulls typed fields out of a decoded group and remembers which
// keys were consumed so the rest can be kept as pass-through.
type fieldReader struct {
	params ParameterSet
	used   map[string]bool
}

func newFieldReader(params ParameterSet) *fieldReader {
	return &fieldReader{params: params, used: make(map[string]bool)}
}

func (r *fieldReader) num(key string, dst *int) {
	r.used[key] = true
	if v, ok := r.params[key]; ok {
		*dst = v
	}
}

func (r *fieldReader) flag(key string, dst *bool) {
	r.used[key] = true
	if v, ok := r.params[key]; ok {
		*dst = v != 0
	}
}

func (r *fieldReader) lookup(key string) (int, bool) {
	r.used[key] = true
	v, ok := r.params[key]
	return v, ok
}

// extra returns the keys nobody asked for, or nil when there are none
func (r *fieldReader) extra() ParameterSet {
	var out ParameterSet
	for k, v := range r.params {
		if r.used[k] {
			continue
		}
		if out == nil {
			out = make(ParameterSet)
		}
		out[k] = v
	}
	return out
}

// paramWriter collects a group's values for encoding
type paramWriter struct {
	params ParameterSet
}

func newParamWriter(extra ParameterSet) *paramWriter {
	w := &paramWriter{params: make(ParameterSet)}
	for k, v := range extra {
		w.params[k] = v
	}
	return w
}

func (w *paramWriter) num(key string, v int) {
	w.params[key] = v
}

func (w *paramWriter) flag(key string, v bool) {
	w.params[key] = boolInt(v)
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// bitsToBools expands a bitmask where bit i is entry i
func bitsToBools(mask int, dst []bool) {
	for i := range dst {
		dst[i] = mask&(1<<i) != 0
	}
}

func boolsToBits(src []bool) int {
	mask := 0
	for i, on := range src {
		if on {
			mask |= 1 << i
		}
	}
	return mask
}
