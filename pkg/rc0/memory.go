package rc0

import (
	"strconv"
	"strings"
)

// memoryGroup decodes and encodes one group of the <mem> element
type memoryGroup struct {
	decode func(p *Patch, params ParameterSet)
	encode func(p *Patch) ParameterSet
}

// memoryGroups is keyed by group name. ASSIGNn groups are matched
// separately because their names carry a number.
var memoryGroups = map[string]memoryGroup{
	"NAME":   {decodeName, encodeName},
	"TRACK1": trackGroup(0),
	"TRACK2": trackGroup(1),
	"TRACK3": trackGroup(2),
	"TRACK4": trackGroup(3),
	"TRACK5": trackGroup(4),
	"TRACK6": trackGroup(5),
	"MASTER": {decodeMaster, encodeMaster},
	"REC":    {decodeRec, encodeRec},
	"PLAY":   {decodePlay, encodePlay},
	"RHYTHM": {decodeRhythm, encodeRhythm},
}

// memoryGroupOrder is the order the writer emits groups in
var memoryGroupOrder = []string{
	"NAME", "TRACK1", "TRACK2", "TRACK3", "TRACK4", "TRACK5", "TRACK6",
	"MASTER", "REC", "PLAY", "RHYTHM",
}

// NAME: A..L are character codes, padded with spaces

func decodeName(p *Patch, params ParameterSet) {
	r := newFieldReader(params)
	var b strings.Builder
	for i := 0; i < NameLength; i++ {
		v, ok := r.lookup(string(rune('A' + i)))
		if !ok {
			v = ' '
		}
		b.WriteRune(rune(v))
	}
	p.Name = strings.TrimRight(b.String(), " ")
	p.NameExtra = r.extra()
}

func encodeName(p *Patch) ParameterSet {
	name := []rune(p.Name)
	if len(name) > NameLength {
		name = name[:NameLength]
	}
	w := newParamWriter(p.NameExtra)
	for i := 0; i < NameLength; i++ {
		c := ' '
		if i < len(name) {
			c = name[i]
		}
		w.num(string(rune('A'+i)), int(c))
	}
	return w.params
}

// TRACKn

func trackGroup(i int) memoryGroup {
	return memoryGroup{
		decode: func(p *Patch, params ParameterSet) { decodeTrack(&p.Tracks[i], params) },
		encode: func(p *Patch) ParameterSet { return encodeTrack(&p.Tracks[i]) },
	}
}

func decodeTrack(t *Track, params ParameterSet) {
	r := newFieldReader(params)
	var v int

	r.flag("A", &t.Reverse)
	r.flag("B", &t.OneShot)
	if pan, ok := r.lookup("C"); ok {
		t.Pan = pan - panOffset
	}
	r.num("D", &t.Level)
	v = int(t.StartMode)
	r.num("E", &v)
	t.StartMode = StartMode(v)
	v = int(t.StopMode)
	r.num("F", &v)
	t.StopMode = StopMode(v)
	v = int(t.OverdubMode)
	r.num("G", &v)
	t.OverdubMode = OverdubMode(v)
	r.flag("H", &t.FXEnabled)
	v = int(t.PlayMode)
	r.num("I", &v)
	t.PlayMode = PlayMode(v)
	r.num("J", &t.Measure)
	r.num("K", &t.UnknownK)
	r.flag("L", &t.LoopSyncSw)
	r.flag("M", &t.TempoSyncSw)
	r.num("N", &t.TempoSyncMode)
	r.num("O", &t.TempoSyncSpeed)
	r.num("P", &t.UnknownP)
	if mask, ok := r.lookup("Q"); ok {
		t.Input = InputRoutingFromMask(mask)
	}
	r.num("R", &t.UnknownR)
	r.num("S", &t.MeasureB)
	r.num("T", &t.UnknownT)
	r.num("U", &t.UnknownU)
	r.num("V", &t.UnknownV)
	r.flag("W", &t.BounceIn)
	r.num("X", &t.UnknownX)
	r.num("Y", &t.LoopSyncMode)
	t.Extra = r.extra()
}

func encodeTrack(t *Track) ParameterSet {
	w := newParamWriter(t.Extra)
	w.flag("A", t.Reverse)
	w.flag("B", t.OneShot)
	w.num("C", t.Pan+panOffset)
	w.num("D", t.Level)
	w.num("E", int(t.StartMode))
	w.num("F", int(t.StopMode))
	w.num("G", int(t.OverdubMode))
	w.flag("H", t.FXEnabled)
	w.num("I", int(t.PlayMode))
	w.num("J", t.Measure)
	w.num("K", t.UnknownK)
	w.flag("L", t.LoopSyncSw)
	w.flag("M", t.TempoSyncSw)
	w.num("N", t.TempoSyncMode)
	w.num("O", t.TempoSyncSpeed)
	w.num("P", t.UnknownP)
	w.num("Q", t.Input.Mask())
	w.num("R", t.UnknownR)
	w.num("S", t.MeasureB)
	w.num("T", t.UnknownT)
	w.num("U", t.UnknownU)
	w.num("V", t.UnknownV)
	w.flag("W", t.BounceIn)
	w.num("X", t.UnknownX)
	w.num("Y", t.LoopSyncMode)
	return w.params
}

// MASTER

func decodeMaster(p *Patch, params ParameterSet) {
	m := &p.Master
	r := newFieldReader(params)
	r.num("A", &m.LoopPosition)
	r.num("B", &m.LoopLength)
	r.num("C", &m.ModeFlag)
	r.num("D", &m.ModeValue)
	m.Extra = r.extra()
}

func encodeMaster(p *Patch) ParameterSet {
	m := &p.Master
	w := newParamWriter(m.Extra)
	w.num("A", m.LoopPosition)
	w.num("B", m.LoopLength)
	w.num("C", m.ModeFlag)
	w.num("D", m.ModeValue)
	return w.params
}

// REC

func decodeRec(p *Patch, params ParameterSet) {
	rec := &p.Rec
	r := newFieldReader(params)
	v := int(rec.Action)
	r.num("A", &v)
	rec.Action = RecAction(v)
	r.flag("B", &rec.Quantize)
	r.flag("C", &rec.AutoRec)
	r.num("D", &rec.AutoRecSensitivity)
	r.flag("E", &rec.Bounce)
	if mask, ok := r.lookup("F"); ok {
		bitsToBools(mask, rec.BounceTracks[:])
	}
	rec.Extra = r.extra()
}

func encodeRec(p *Patch) ParameterSet {
	rec := &p.Rec
	w := newParamWriter(rec.Extra)
	w.num("A", int(rec.Action))
	w.flag("B", rec.Quantize)
	w.flag("C", rec.AutoRec)
	w.num("D", rec.AutoRecSensitivity)
	w.flag("E", rec.Bounce)
	w.num("F", boolsToBits(rec.BounceTracks[:]))
	return w.params
}

// PLAY

func decodePlay(p *Patch, params ParameterSet) {
	pl := &p.Play
	r := newFieldReader(params)
	v := int(pl.SingleTrackChange)
	r.num("A", &v)
	pl.SingleTrackChange = SingleTrackChange(v)
	r.num("B", &pl.FadeIn)
	r.num("C", &pl.FadeOut)
	if mask, ok := r.lookup("D"); ok {
		bitsToBools(mask, pl.AllStartTracks[:])
	}
	if mask, ok := r.lookup("E"); ok {
		bitsToBools(mask, pl.AllStopTracks[:])
	}
	r.num("F", &pl.LoopLength)
	v = int(pl.SpeedChange)
	r.num("G", &v)
	pl.SpeedChange = SpeedChange(v)
	v = int(pl.SyncAdjust)
	r.num("H", &v)
	pl.SyncAdjust = SyncAdjust(v)
	pl.Extra = r.extra()
}

func encodePlay(p *Patch) ParameterSet {
	pl := &p.Play
	w := newParamWriter(pl.Extra)
	w.num("A", int(pl.SingleTrackChange))
	w.num("B", pl.FadeIn)
	w.num("C", pl.FadeOut)
	w.num("D", boolsToBits(pl.AllStartTracks[:]))
	w.num("E", boolsToBits(pl.AllStopTracks[:]))
	w.num("F", pl.LoopLength)
	w.num("G", int(pl.SpeedChange))
	w.num("H", int(pl.SyncAdjust))
	return w.params
}

// RHYTHM

func decodeRhythm(p *Patch, params ParameterSet) {
	rh := &p.Rhythm
	r := newFieldReader(params)
	if v, ok := r.lookup("A"); ok {
		rh.Genre = strconv.Itoa(v)
	}
	if v, ok := r.lookup("B"); ok {
		rh.Pattern = strconv.Itoa(v)
		rh.PatternID = v - 1
	}
	if v, ok := r.lookup("C"); ok {
		rh.VariationID = v
		rh.Variation = string(rune('A' + v))
	}
	r.num("D", &rh.VariationChangeTiming)
	if v, ok := r.lookup("E"); ok {
		rh.Kit = strconv.Itoa(v)
	}
	r.num("F", &rh.Beat)
	r.flag("G", &rh.FillIn)
	r.flag("H", &rh.IntroOnRec)
	r.flag("I", &rh.IntroOnPlay)
	r.flag("J", &rh.Ending)
	r.num("K", &rh.StopTrig)
	r.num("L", &rh.StartTrig)
	r.num("M", &rh.UnknownM)
	rh.Extra = r.extra()
}

func encodeRhythm(p *Patch) ParameterSet {
	rh := &p.Rhythm
	w := newParamWriter(rh.Extra)
	w.num("A", atoiOrZero(rh.Genre))
	w.num("B", rh.PatternID+1)
	w.num("C", rh.VariationID)
	w.num("D", rh.VariationChangeTiming)
	w.num("E", atoiOrZero(rh.Kit))
	w.num("F", rh.Beat)
	w.flag("G", rh.FillIn)
	w.flag("H", rh.IntroOnRec)
	w.flag("I", rh.IntroOnPlay)
	w.flag("J", rh.Ending)
	w.num("K", rh.StopTrig)
	w.num("L", rh.StartTrig)
	w.num("M", rh.UnknownM)
	return w.params
}

func atoiOrZero(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return v
}

// ASSIGNn

const assignPrefix = "ASSIGN"

// assignNumber parses "ASSIGN3" to 3. A bare "ASSIGN" is number 0.
func assignNumber(name string) (int, bool) {
	rest, ok := strings.CutPrefix(name, assignPrefix)
	if !ok {
		return 0, false
	}
	if rest == "" {
		return 0, true
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func assignTagName(n int) string {
	if n == 0 {
		return assignPrefix
	}
	return assignPrefix + strconv.Itoa(n)
}

func decodeAssign(number int, params ParameterSet) Assign {
	a := Assign{Number: number}
	r := newFieldReader(params)
	r.flag("A", &a.Enabled)
	r.num("B", &a.Source)
	r.num("C", &a.SourceMode)
	r.num("D", &a.Target)
	if v, ok := r.lookup("E"); ok {
		a.TargetMin = &v
	}
	if v, ok := r.lookup("F"); ok {
		a.TargetMax = &v
	}
	a.Extra = r.extra()
	return a
}

func encodeAssign(a *Assign) ParameterSet {
	w := newParamWriter(a.Extra)
	w.flag("A", a.Enabled)
	w.num("B", a.Source)
	w.num("C", a.SourceMode)
	w.num("D", a.Target)
	if a.TargetMin != nil {
		w.num("E", *a.TargetMin)
	}
	if a.TargetMax != nil {
		w.num("F", *a.TargetMax)
	}
	return w.params
}
