package rc0

import (
	"fmt"
	"strconv"
	"strings"
)

// EffectInfo describes one effect type
type EffectInfo struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Sequence bool   `json:"sequence"` // supports the step sequencer (_SEQ tag)
}

// MaxEffectID is the highest effect id known to the registry
const MaxEffectID = 61

// effectTable is indexed by effect id and is also the canonical order the
// writer emits effect tags in.
var effectTable = [MaxEffectID + 1]EffectInfo{
	{0, "FILTER", false},
	{1, "LPF", true},
	{2, "BPF", true},
	{3, "HPF", true},
	{4, "PHASER", true},
	{5, "FLANGER", true},
	{6, "SYNTH", true},
	{7, "LOFI", true},
	{8, "RADIO", true},
	{9, "RING_MOD", true},
	{10, "G2B", false},
	{11, "SUSTAINER", false},
	{12, "AUTO_RIFF", false},
	{13, "SLOW_GEAR", false},
	{14, "TRANSPOSE", true},
	{15, "PITCH_BEND", true},
	{16, "ROBOT", true},
	{17, "ELECTRIC", false},
	{18, "HRM_MANUAL", false},
	{19, "HRM_AUTO", false},
	{20, "VOCODER", false},
	{21, "OSC_VOC", false},
	{22, "OSC_BOT", true},
	{23, "PREAMP", false},
	{24, "DIST", true},
	{25, "DYNAMICS", false},
	{26, "EQ", false},
	{27, "ISOLATOR", true},
	{28, "OCTAVE", false},
	{29, "AUTO_PAN", false},
	{30, "MANUAL_PAN", true},
	{31, "STEREO_ENHANCE", false},
	{32, "TREMOLO", false},
	{33, "VIBRATO", false},
	{34, "PATTERN_SLICER", false},
	{35, "STEP_SLICER", false},
	{36, "DELAY", false},
	{37, "PANNING_DELAY", false},
	{38, "REVERSE_DELAY", false},
	{39, "MOD_DELAY", false},
	{40, "TAPE_ECHO1", false},
	{41, "TAPE_ECHO2", false},
	{42, "GRANULAR_DELAY", false},
	{43, "WARP", false},
	{44, "TWIST", false},
	{45, "ROLL1", false},
	{46, "ROLL2", false},
	{47, "FREEZE", false},
	{48, "CHORUS", false},
	{49, "REVERB", false},
	{50, "GATE_REVERB", false},
	{51, "REVERSE_REVERB", false},
	{52, "BEAT_SCATTER", false},
	{53, "BEAT_REPEAT", false},
	{54, "BEAT_SHIFT", false},
	{55, "VINYL_FLICK", false},
	{56, "PEDAL_BEND", true},
	{57, "WAH", true},
	{58, "TOUCH_WAH", false},
	{59, "COMPRESSOR", false},
	{60, "BIT_CRUSHER", true},
	{61, "SHIFTER", true},
}

// effectAliases maps names written by older firmware to effect ids
var effectAliases = map[string]int{
	"LO_FI":            7,
	"RING_MODULATOR":   9,
	"GUITAR_TO_BASS":   10,
	"HARMONIST_MANUAL": 18,
	"HARMONIST_AUTO":   19,
	"OSC_VOCODER":      21,
	"TAPE_ECHO_1":      40,
	"TAPE_ECHO_2":      41,
	"ROLL_1":           45,
	"ROLL_2":           46,
}

// effectIDs is built once from effectTable
var effectIDs = func() map[string]int {
	m := make(map[string]int, len(effectTable)+len(effectAliases))
	for _, e := range effectTable {
		m[e.Name] = e.ID
	}
	for name, id := range effectAliases {
		m[name] = id
	}
	return m
}()

const syntheticEffectPrefix = "EFFECT_"

// Effects returns all known effect types in canonical order
func Effects() []EffectInfo {
	return append([]EffectInfo(nil), effectTable[:]...)
}

// EffectOrder returns the effect ids in canonical order
func EffectOrder() []int {
	ids := make([]int, len(effectTable))
	for i, e := range effectTable {
		ids[i] = e.ID
	}
	return ids
}

// LookupEffectID returns the registry entry for id
func LookupEffectID(id int) (EffectInfo, bool) {
	if id < 0 || id > MaxEffectID {
		return EffectInfo{}, false
	}
	return effectTable[id], true
}

// EffectName returns the canonical tag name for id. Unknown ids get a
// synthesized EFFECT_<id> name.
func EffectName(id int) string {
	if e, ok := LookupEffectID(id); ok {
		return e.Name
	}
	return fmt.Sprintf("%s%d", syntheticEffectPrefix, id)
}

// LookupEffect resolves a tag name, legacy alias or synthesized EFFECT_<id>
// name to an effect id.
func LookupEffect(name string) (int, bool) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if id, ok := effectIDs[name]; ok {
		return id, true
	}
	if rest, ok := strings.CutPrefix(name, syntheticEffectPrefix); ok {
		if id, err := strconv.Atoi(rest); err == nil {
			return id, true
		}
	}
	return 0, false
}

// IsSequenceEffect reports whether the effect type carries a _SEQ block
func IsSequenceEffect(id int) bool {
	e, ok := LookupEffectID(id)
	return ok && e.Sequence
}

// Sequence parameter keys as stored inside an effect's ParameterSet
const (
	SeqSwitch    = "SEQ_SW"
	SeqSync      = "SEQ_SYNC"
	SeqRetrigger = "SEQ_RETRIG"
	SeqTarget    = "SEQ_TARGET"
	SeqRate      = "SEQ_RATE"
	SeqMax       = "SEQ_MAX"
	SeqSteps     = 16
)

// SeqStepKey returns the key of step n (1-based)
func SeqStepKey(n int) string {
	return fmt.Sprintf("SEQ_STEP%d", n)
}

type seqField struct {
	letter string
	key    string
	def    int
}

// seqSchema is the fixed letter layout of a _SEQ tag
var seqSchema = func() []seqField {
	fields := []seqField{
		{"A", SeqSwitch, 0},
		{"B", SeqSync, 0},
		{"C", SeqRetrigger, 0},
		{"D", SeqTarget, 0},
		{"E", SeqRate, 6},
		{"F", SeqMax, 15},
	}
	for i := 0; i < SeqSteps; i++ {
		fields = append(fields, seqField{string(rune('G' + i)), SeqStepKey(i + 1), 0})
	}
	return fields
}()

func isSeqKey(k string) bool {
	return strings.HasPrefix(k, "SEQ_")
}

// withSeqDefaults fills in missing sequence keys of a sequence-capable
// effect's set in place.
func withSeqDefaults(p ParameterSet) {
	for _, f := range seqSchema {
		if _, ok := p[f.key]; !ok {
			p[f.key] = f.def
		}
	}
}
