package rc0

import (
	"reflect"
	"strconv"
	"testing"
)

// sectionGroup pulls one group's parameters out of an encoded document
func sectionGroup(t *testing.T, doc, section, group string) ParameterSet {
	t.Helper()
	db, ok := ScanTags(doc).Get("database")
	if !ok {
		t.Fatal("document has no <database>")
	}
	sec, ok := ScanTags(db.Inner).Get(section)
	if !ok {
		t.Fatalf("document has no <%s>", section)
	}
	g, ok := ScanTags(sec.Inner).Get(group)
	if !ok {
		t.Fatalf("<%s> has no <%s>", section, group)
	}
	return decodeParamSet(g.Inner)
}

// memDoc wraps groups in a minimal patch document
func memDoc(groups string) string {
	return `<?xml version="1.0" encoding="utf-8"?>
<database name="RC-600" revision="0">
<mem id="0">
` + groups + `
</mem>
</database>
<count>0001</count>
`
}

func TestPan(t *testing.T) {
	tests := []struct {
		wire int
		pan  int
	}{
		{0, -50},
		{50, 0},
		{100, 50},
		{73, 23},
	}

	for _, tt := range tests {
		p := DecodePatch(memDoc("<TRACK1><C>" + strconv.Itoa(tt.wire) + "</C></TRACK1>"))
		if p.Tracks[0].Pan != tt.pan {
			t.Errorf("wire %d decoded to pan %d, want %d", tt.wire, p.Tracks[0].Pan, tt.pan)
		}

		q := NewPatch()
		q.Tracks[2].Pan = tt.pan
		got := sectionGroup(t, EncodePatch(q), "mem", "TRACK3")["C"]
		if got != tt.wire {
			t.Errorf("pan %d encoded to wire %d, want %d", tt.pan, got, tt.wire)
		}
	}
}

func TestNamePadding(t *testing.T) {
	p := NewPatch()
	p.Name = "TEST PATCH1"
	doc := EncodePatch(p)

	name := sectionGroup(t, doc, "mem", "NAME")
	want := "TEST PATCH1 "
	for i := 0; i < NameLength; i++ {
		letter := string(rune('A' + i))
		if name[letter] != int(want[i]) {
			t.Errorf("NAME.%s = %d, want %d", letter, name[letter], want[i])
		}
	}
	if name["L"] != 32 {
		t.Errorf("NAME.L = %d, want 32", name["L"])
	}

	if got := DecodePatch(doc).Name; got != "TEST PATCH1" {
		t.Errorf("decoded name = %q, want %q", got, "TEST PATCH1")
	}
}

func TestNameKeepsUnknownLetters(t *testing.T) {
	doc := memDoc("<NAME><A>65</A><M>7</M></NAME>")
	p := DecodePatch(doc)
	if p.Name != "A" || p.NameExtra["M"] != 7 {
		t.Fatalf("Name = %q, NameExtra = %v", p.Name, p.NameExtra)
	}

	name := sectionGroup(t, EncodePatch(p), "mem", "NAME")
	if name["M"] != 7 || name["A"] != 65 || name["L"] != 32 {
		t.Errorf("NAME = %v, want M=7 kept", name)
	}
}

func TestNameTruncation(t *testing.T) {
	p := NewPatch()
	p.Name = "ABCDEFGHIJKLMNO"
	doc := EncodePatch(p)

	name := sectionGroup(t, doc, "mem", "NAME")
	if len(name) != NameLength {
		t.Errorf("NAME has %d letters, want %d", len(name), NameLength)
	}
	if got := DecodePatch(doc).Name; got != "ABCDEFGHIJKL" {
		t.Errorf("decoded name = %q, want ABCDEFGHIJKL", got)
	}
}

func TestPlayBitmask(t *testing.T) {
	p := NewPatch()
	p.Play.AllStartTracks = [NumTracks]bool{true, false, true, false, false, false}
	doc := EncodePatch(p)

	if got := sectionGroup(t, doc, "mem", "PLAY")["D"]; got != 5 {
		t.Errorf("PLAY.D = %d, want 5", got)
	}
	if got := DecodePatch(doc).Play.AllStartTracks; got != p.Play.AllStartTracks {
		t.Errorf("AllStartTracks = %v, want %v", got, p.Play.AllStartTracks)
	}
}

func TestTrackDecode(t *testing.T) {
	doc := memDoc(`<TRACK2>
	<A>1</A><B>0</B><C>40</C><D>90</D><E>1</E><F>2</F><G>1</G><H>0</H><I>1</I>
	<J>4</J><K>7</K><L>1</L><M>1</M><N>2</N><O>1</O><P>8</P><Q>65</Q>
	<R>9</R><S>3</S><T>10</T><U>11</U><V>12</V><W>1</W><X>13</X><Y>2</Y><Z>99</Z>
</TRACK2>`)
	tr := DecodePatch(doc).Tracks[1]

	if !tr.Reverse || tr.OneShot {
		t.Errorf("Reverse/OneShot = %v/%v, want true/false", tr.Reverse, tr.OneShot)
	}
	if tr.Pan != -10 || tr.Level != 90 {
		t.Errorf("Pan/Level = %d/%d, want -10/90", tr.Pan, tr.Level)
	}
	if tr.StartMode != StartFadeIn || tr.StopMode != StopLoopEnd || tr.OverdubMode != OverdubReplace {
		t.Errorf("modes = %v/%v/%v", tr.StartMode, tr.StopMode, tr.OverdubMode)
	}
	if tr.FXEnabled || tr.PlayMode != PlaySingle || tr.Measure != 4 || tr.MeasureB != 3 {
		t.Errorf("FXEnabled/PlayMode/Measure/MeasureB = %v/%v/%d/%d", tr.FXEnabled, tr.PlayMode, tr.Measure, tr.MeasureB)
	}
	if !tr.LoopSyncSw || !tr.TempoSyncSw || tr.TempoSyncMode != 2 || tr.TempoSyncSpeed != 1 || tr.LoopSyncMode != 2 {
		t.Error("sync fields not decoded")
	}
	if !tr.Input.Mic1 || tr.Input.Mic2 || !tr.Input.Rhythm {
		t.Errorf("Input = %+v, want Mic1 and Rhythm", tr.Input)
	}
	if !tr.BounceIn {
		t.Error("BounceIn should be set")
	}

	unknown := []int{tr.UnknownK, tr.UnknownP, tr.UnknownR, tr.UnknownT, tr.UnknownU, tr.UnknownV, tr.UnknownX}
	want := []int{7, 8, 9, 10, 11, 12, 13}
	for i := range want {
		if unknown[i] != want[i] {
			t.Errorf("unknown field %d = %d, want %d", i, unknown[i], want[i])
		}
	}
	if tr.Extra["Z"] != 99 || len(tr.Extra) != 1 {
		t.Errorf("Extra = %v, want map[Z:99]", tr.Extra)
	}

	// Unknown letters survive an encode.
	out := sectionGroup(t, EncodePatch(DecodePatch(doc)), "mem", "TRACK2")
	for letter, v := range map[string]int{"K": 7, "P": 8, "R": 9, "T": 10, "U": 11, "V": 12, "X": 13, "Z": 99, "Q": 65} {
		if out[letter] != v {
			t.Errorf("TRACK2.%s = %d, want %d", letter, out[letter], v)
		}
	}
}

func TestInputRoutingMask(t *testing.T) {
	for mask := 0; mask < 1<<7; mask++ {
		if got := InputRoutingFromMask(mask).Mask(); got != mask {
			t.Fatalf("mask %d round-tripped to %d", mask, got)
		}
	}
	r := InputRoutingFromMask(1<<2 | 1<<5)
	if !r.Mic1L || !r.Mic2R || r.Mic1 {
		t.Errorf("InputRoutingFromMask(36) = %+v", r)
	}
	if got := InputRoutingFromMask(0x85).Mask(); got != 0x85 {
		t.Errorf("high bits lost: got %#x", got)
	}
}

func TestRhythm(t *testing.T) {
	doc := memDoc("<RHYTHM><A>3</A><B>12</B><C>1</C><E>5</E><G>1</G><M>4</M></RHYTHM>")
	rh := DecodePatch(doc).Rhythm

	if rh.Genre != "3" || rh.Pattern != "12" || rh.PatternID != 11 || rh.Kit != "5" {
		t.Errorf("Genre/Pattern/PatternID/Kit = %s/%s/%d/%s", rh.Genre, rh.Pattern, rh.PatternID, rh.Kit)
	}
	if rh.Variation != "B" {
		t.Errorf("Variation = %q, want B", rh.Variation)
	}
	if !rh.FillIn || rh.UnknownM != 4 {
		t.Errorf("FillIn/UnknownM = %v/%d", rh.FillIn, rh.UnknownM)
	}

	out := sectionGroup(t, EncodePatch(DecodePatch(doc)), "mem", "RHYTHM")
	if out["B"] != 12 || out["C"] != 1 || out["A"] != 3 || out["E"] != 5 {
		t.Errorf("RHYTHM = %v", out)
	}
}

func TestRhythmVariationRoundTrip(t *testing.T) {
	tests := []struct {
		c    int
		want string
	}{
		{0, "A"},
		{3, "D"},
		{70, "\u0087"},
		{-1, "@"},
	}

	for _, tt := range tests {
		t.Run(strconv.Itoa(tt.c), func(t *testing.T) {
			doc := memDoc("<RHYTHM><C>" + strconv.Itoa(tt.c) + "</C></RHYTHM>")
			p := DecodePatch(doc)
			if p.Rhythm.Variation != tt.want || p.Rhythm.VariationID != tt.c {
				t.Errorf("Variation = %q (%d), want %q (%d)", p.Rhythm.Variation, p.Rhythm.VariationID, tt.want, tt.c)
			}

			out := EncodePatch(p)
			if got := sectionGroup(t, out, "mem", "RHYTHM")["C"]; got != tt.c {
				t.Errorf("RHYTHM.C = %d, want %d", got, tt.c)
			}
			if again := DecodePatch(out); !reflect.DeepEqual(again, p) {
				t.Error("Decode(Encode(p)) differs from p")
			}
		})
	}
}

func TestRecAndMaster(t *testing.T) {
	doc := memDoc(`<REC><A>1</A><B>1</B><C>0</C><D>40</D><E>1</E><F>34</F></REC>
<MASTER><A>2</A><B>8</B><C>1</C><D>120</D></MASTER>`)
	p := DecodePatch(doc)

	if p.Rec.Action != RecToPlay || !p.Rec.Quantize || p.Rec.AutoRec || p.Rec.AutoRecSensitivity != 40 || !p.Rec.Bounce {
		t.Errorf("Rec = %+v", p.Rec)
	}
	if want := [NumTracks]bool{false, true, false, false, false, true}; p.Rec.BounceTracks != want {
		t.Errorf("BounceTracks = %v, want %v", p.Rec.BounceTracks, want)
	}
	if p.Master.LoopPosition != 2 || p.Master.LoopLength != 8 || p.Master.ModeFlag != 1 || p.Master.ModeValue != 120 {
		t.Errorf("Master = %+v", p.Master)
	}
}

func TestAssign(t *testing.T) {
	doc := memDoc(`<ASSIGN1><A>1</A><B>9</B><C>1</C><D>0</D><E>10</E><F>90</F></ASSIGN1>
<ASSIGN2><A>0</A><B>2</B><D>3</D></ASSIGN2>`)
	p := DecodePatch(doc)

	if len(p.Assigns) != 2 {
		t.Fatalf("got %d assigns, want 2", len(p.Assigns))
	}
	a := p.Assigns[0]
	if a.Number != 1 || !a.Enabled || a.Source != 9 || a.SourceMode != 1 || a.Target != 0 {
		t.Errorf("Assigns[0] = %+v", a)
	}
	if a.TargetMin == nil || *a.TargetMin != 10 || a.TargetMax == nil || *a.TargetMax != 90 {
		t.Error("Assigns[0] range not decoded")
	}
	if a.SourceName() != "CTL1" || a.TargetName() != "TRK1 REC/PLAY" {
		t.Errorf("names = %q/%q", a.SourceName(), a.TargetName())
	}
	if p.Assigns[1].TargetMin != nil || p.Assigns[1].TargetMax != nil {
		t.Error("Assigns[1] should have no range")
	}

	out := EncodePatch(p)
	if _, ok := sectionGroup(t, out, "mem", "ASSIGN2")["E"]; ok {
		t.Error("ASSIGN2 should not emit a range")
	}
	if got := sectionGroup(t, out, "mem", "ASSIGN1")["F"]; got != 90 {
		t.Errorf("ASSIGN1.F = %d, want 90", got)
	}
}

func TestAssignNames(t *testing.T) {
	a := Assign{Source: 500, Target: 500}
	if a.SourceName() != "SOURCE 500" || a.TargetName() != "TARGET 500" {
		t.Errorf("names = %q/%q", a.SourceName(), a.TargetName())
	}
}
