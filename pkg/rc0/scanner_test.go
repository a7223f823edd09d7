package rc0

import (
	"reflect"
	"strings"
	"testing"
)

func TestScanTags(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantKeys []string
		want     map[string]string
	}{
		{
			name:     "siblings",
			text:     "<A>1</A><B>2</B>",
			wantKeys: []string{"A", "B"},
			want:     map[string]string{"A": "1", "B": "2"},
		},
		{
			name:     "last occurrence wins",
			text:     "<A>1</A><B>2</B><A>3</A>",
			wantKeys: []string{"A", "B"},
			want:     map[string]string{"A": "3", "B": "2"},
		},
		{
			name:     "nested same name",
			text:     "<A>\n\t<A>0</A>\n\t<B>1</B>\n</A>",
			wantKeys: []string{"A"},
			want:     map[string]string{"A": "\n\t<A>0</A>\n\t<B>1</B>\n"},
		},
		{
			name:     "stray close skipped",
			text:     "</X><A>1</A>",
			wantKeys: []string{"A"},
			want:     map[string]string{"A": "1"},
		},
		{
			name:     "non identifier names",
			text:     "<AA_SLOW_GEAR>x</AA_SLOW_GEAR><1>y</1>",
			wantKeys: []string{"AA_SLOW_GEAR", "1"},
			want:     map[string]string{"AA_SLOW_GEAR": "x", "1": "y"},
		},
		{
			name:     "unterminated tag dropped",
			text:     "<A>1</A><B>2",
			wantKeys: []string{"A"},
			want:     map[string]string{"A": "1"},
		},
		{
			name:     "prolog ignored",
			text:     `<?xml version="1.0"?><A>1</A>`,
			wantKeys: []string{"A"},
			want:     map[string]string{"A": "1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tags := ScanTags(tt.text)
			if got := tags.Keys(); !reflect.DeepEqual(got, tt.wantKeys) {
				t.Fatalf("ScanTags().Keys() = %v, want %v", got, tt.wantKeys)
			}
			for k, want := range tt.want {
				tag, _ := tags.Get(k)
				if tag.Inner != want {
					t.Errorf("tag %q inner = %q, want %q", k, tag.Inner, want)
				}
			}
		})
	}
}

func TestScanTagsReportsDropped(t *testing.T) {
	_, dropped := scanTags("<A>1</A><B>2<C>3</C>")
	if !reflect.DeepEqual(dropped, []string{"B"}) {
		t.Errorf("dropped = %v, want [B]", dropped)
	}
}

func TestScanTagsAttributes(t *testing.T) {
	tags := ScanTags(`<mem id="7"><NAME></NAME></mem><count>00A1</count>`)

	mem, ok := tags.Get("mem")
	if !ok {
		t.Fatal("mem tag not found")
	}
	if id, ok := mem.Attr("id"); !ok || id != "7" {
		t.Errorf("Attr(id) = %q, %v, want 7, true", id, ok)
	}
	if _, ok := mem.Attr("name"); ok {
		t.Error("Attr(name) should be absent")
	}
	if mem.Inner != "<NAME></NAME>" {
		t.Errorf("mem inner = %q", mem.Inner)
	}
	if _, ok := tags.Get("count"); !ok {
		t.Error("count tag not found")
	}
}

func TestScanTagsPathologicalInput(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"unclosed opens", strings.Repeat("<a>", 80000)},
		{"one close after many opens", strings.Repeat("<a>", 80000) + "</a>"},
		{"nested unclosed", strings.Repeat("<a><b>", 40000) + "</b>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := newScanner(tt.text)
			sc.scan()
			limit := (scanBudgetFactor+3)*len(tt.text) + scanBudgetSlack
			if sc.examined > limit {
				t.Errorf("examined %d bytes of %d-byte input, want at most %d", sc.examined, len(tt.text), limit)
			}
		})
	}
}

func TestScanTagsUnclosedIsLinear(t *testing.T) {
	text := strings.Repeat("<A>", 5000) + "x"
	sc := newScanner(text)
	tags, dropped := sc.scan()
	if tags.Len() != 0 {
		t.Errorf("Len() = %d, want 0", tags.Len())
	}
	if len(dropped) != 5000 {
		t.Errorf("dropped %d tags, want 5000", len(dropped))
	}
	if sc.examined > 2*len(text) {
		t.Errorf("examined %d bytes, want at most %d", sc.examined, 2*len(text))
	}
}

func TestScanBudgetCoversWellFormedInput(t *testing.T) {
	doc := EncodePatch(NewPatch())
	sc := newScanner(doc)
	tags, dropped := sc.scan()
	if _, ok := tags.Get("database"); !ok {
		t.Fatal("database tag not found")
	}
	if sc.budget <= 0 {
		t.Errorf("budget spent on a well-formed document (dropped %v)", dropped)
	}
}

func TestDecodeParams(t *testing.T) {
	params := DecodeParams("<A>10</A><B>x</B><C> -3 </C><D></D><A>11</A>")

	if got, want := params.Keys(), []string{"A", "C"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Keys() = %v, want %v", got, want)
	}
	if v, _ := params.Get("A"); v != 11 {
		t.Errorf("A = %d, want 11", v)
	}
	if v, _ := params.Get("C"); v != -3 {
		t.Errorf("C = %d, want -3", v)
	}
	if _, ok := params.Get("B"); ok {
		t.Error("non-numeric B should be omitted")
	}
}

func TestSortedKeys(t *testing.T) {
	p := ParameterSet{"B": 1, "SEQ_SW": 0, "A": 2, "AB": 3, "Z": 4}
	want := []string{"A", "B", "Z", "AB", "SEQ_SW"}
	if got := p.SortedKeys(); !reflect.DeepEqual(got, want) {
		t.Errorf("SortedKeys() = %v, want %v", got, want)
	}
}
