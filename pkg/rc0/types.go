package rc0

// Track and effect layout constants
const (
	NumTracks    = 6
	NumBanks     = 4
	SlotsPerBank = 4
	NameLength   = 12
	panOffset    = 50
)

// Patch is one memory of the looper
type Patch struct {
	ID           int              `json:"id" yaml:"id"`
	Name         string           `json:"name" yaml:"name"`
	NameExtra    ParameterSet     `json:"name_extra,omitempty" yaml:"name_extra,omitempty"`
	Tracks       [NumTracks]Track `json:"tracks" yaml:"tracks"`
	Master       Master           `json:"master" yaml:"master"`
	Rec          Rec              `json:"rec" yaml:"rec"`
	Play         Play             `json:"play" yaml:"play"`
	Rhythm       Rhythm           `json:"rhythm" yaml:"rhythm"`
	Assigns      []Assign         `json:"assigns,omitempty" yaml:"assigns,omitempty"`
	InputFX      EffectRack       `json:"input_fx" yaml:"input_fx"`
	TrackFX      EffectRack       `json:"track_fx" yaml:"track_fx"`
	Control      ControlSettings  `json:"control" yaml:"control"`
	DatabaseName string           `json:"database_name" yaml:"database_name"`
	Revision     string           `json:"revision" yaml:"revision"`
	Count        string           `json:"count" yaml:"count"` // hex revision stamp
}

// NewPatch returns a patch holding construction defaults
func NewPatch() *Patch {
	p := &Patch{
		Rhythm:       NewRhythm(),
		InputFX:      NewEffectRack(CategoryInput),
		TrackFX:      NewEffectRack(CategoryTrack),
		DatabaseName: "RC-600",
		Revision:     "0",
		Count:        "0000",
	}
	for i := range p.Tracks {
		p.Tracks[i] = NewTrack()
	}
	return p
}

// StartMode is how a track starts playing
type StartMode int

const (
	StartImmediate StartMode = iota
	StartFadeIn
)

// StopMode is how a track stops
type StopMode int

const (
	StopImmediate StopMode = iota
	StopFadeOut
	StopLoopEnd
)

// OverdubMode selects overdub or replace
type OverdubMode int

const (
	OverdubOverdub OverdubMode = iota
	OverdubReplace
)

// PlayMode selects multi or single track play
type PlayMode int

const (
	PlayMulti PlayMode = iota
	PlaySingle
)

// InputRouting says which inputs feed a track. Bit i of the wire mask is the
// i-th field in declaration order.
type InputRouting struct {
	Mic1   bool `json:"mic1" yaml:"mic1"`
	Mic2   bool `json:"mic2" yaml:"mic2"`
	Mic1L  bool `json:"mic1_l" yaml:"mic1_l"`
	Mic1R  bool `json:"mic1_r" yaml:"mic1_r"`
	Mic2L  bool `json:"mic2_l" yaml:"mic2_l"`
	Mic2R  bool `json:"mic2_r" yaml:"mic2_r"`
	Rhythm bool `json:"rhythm" yaml:"rhythm"`
	Other  int  `json:"other,omitempty" yaml:"other,omitempty"` // bits 7 and up, kept as-is
}

// Mask returns the wire bitmask
func (r InputRouting) Mask() int {
	bits := []bool{r.Mic1, r.Mic2, r.Mic1L, r.Mic1R, r.Mic2L, r.Mic2R, r.Rhythm}
	return boolsToBits(bits) | r.Other&^0x7f
}

// InputRoutingFromMask decodes a wire bitmask
func InputRoutingFromMask(mask int) InputRouting {
	bits := make([]bool, 7)
	bitsToBools(mask, bits)
	return InputRouting{
		Mic1: bits[0], Mic2: bits[1],
		Mic1L: bits[2], Mic1R: bits[3],
		Mic2L: bits[4], Mic2R: bits[5],
		Rhythm: bits[6],
		Other:  mask &^ 0x7f,
	}
}

// Track holds the TRACKn group
type Track struct {
	Reverse        bool         `json:"reverse" yaml:"reverse"`
	OneShot        bool         `json:"one_shot" yaml:"one_shot"`
	Pan            int          `json:"pan" yaml:"pan"` // -50..+50
	Level          int          `json:"level" yaml:"level"`
	StartMode      StartMode    `json:"start_mode" yaml:"start_mode"`
	StopMode       StopMode     `json:"stop_mode" yaml:"stop_mode"`
	OverdubMode    OverdubMode  `json:"overdub_mode" yaml:"overdub_mode"`
	FXEnabled      bool         `json:"fx_enabled" yaml:"fx_enabled"`
	PlayMode       PlayMode     `json:"play_mode" yaml:"play_mode"`
	Measure        int          `json:"measure" yaml:"measure"`
	LoopSyncSw     bool         `json:"loop_sync_sw" yaml:"loop_sync_sw"`
	TempoSyncSw    bool         `json:"tempo_sync_sw" yaml:"tempo_sync_sw"`
	TempoSyncMode  int          `json:"tempo_sync_mode" yaml:"tempo_sync_mode"`
	TempoSyncSpeed int          `json:"tempo_sync_speed" yaml:"tempo_sync_speed"`
	Input          InputRouting `json:"input" yaml:"input"`
	MeasureB       int          `json:"measure_b" yaml:"measure_b"`
	BounceIn       bool         `json:"bounce_in" yaml:"bounce_in"`
	LoopSyncMode   int          `json:"loop_sync_mode" yaml:"loop_sync_mode"`

	// Letters with no known meaning; carried through unchanged.
	UnknownK int `json:"unknown_k" yaml:"unknown_k"`
	UnknownP int `json:"unknown_p" yaml:"unknown_p"`
	UnknownR int `json:"unknown_r" yaml:"unknown_r"`
	UnknownT int `json:"unknown_t" yaml:"unknown_t"`
	UnknownU int `json:"unknown_u" yaml:"unknown_u"`
	UnknownV int `json:"unknown_v" yaml:"unknown_v"`
	UnknownX int `json:"unknown_x" yaml:"unknown_x"`

	Extra ParameterSet `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// NewTrack returns a track with construction defaults
func NewTrack() Track {
	return Track{Level: 100, FXEnabled: true, Measure: 0, Input: InputRouting{Mic1: true}}
}

// Master holds the MASTER group
type Master struct {
	LoopPosition int          `json:"loop_position" yaml:"loop_position"`
	LoopLength   int          `json:"loop_length" yaml:"loop_length"`
	ModeFlag     int          `json:"mode_flag" yaml:"mode_flag"`
	ModeValue    int          `json:"mode_value" yaml:"mode_value"`
	Extra        ParameterSet `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// RecAction is what happens when recording ends
type RecAction int

const (
	RecToDub RecAction = iota
	RecToPlay
)

// Rec holds the REC group
type Rec struct {
	Action             RecAction       `json:"action" yaml:"action"`
	Quantize           bool            `json:"quantize" yaml:"quantize"`
	AutoRec            bool            `json:"auto_rec" yaml:"auto_rec"`
	AutoRecSensitivity int             `json:"auto_rec_sensitivity" yaml:"auto_rec_sensitivity"`
	Bounce             bool            `json:"bounce" yaml:"bounce"`
	BounceTracks       [NumTracks]bool `json:"bounce_tracks" yaml:"bounce_tracks"`
	Extra              ParameterSet    `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// SingleTrackChange is when a single-play track switch takes effect
type SingleTrackChange int

const (
	ChangeImmediate SingleTrackChange = iota
	ChangeMeasure
	ChangeLoopEnd
)

// SpeedChange is when a tempo change takes effect
type SpeedChange int

const (
	SpeedImmediate SpeedChange = iota
	SpeedLoopEnd
)

// SyncAdjust is the grid loop-sync aligns to
type SyncAdjust int

const (
	SyncMeasure SyncAdjust = iota
	SyncBeat
)

// Play holds the PLAY group
type Play struct {
	SingleTrackChange SingleTrackChange `json:"single_track_change" yaml:"single_track_change"`
	FadeIn            int               `json:"fade_in" yaml:"fade_in"`
	FadeOut           int               `json:"fade_out" yaml:"fade_out"`
	AllStartTracks    [NumTracks]bool   `json:"all_start_tracks" yaml:"all_start_tracks"`
	AllStopTracks     [NumTracks]bool   `json:"all_stop_tracks" yaml:"all_stop_tracks"`
	LoopLength        int               `json:"loop_length" yaml:"loop_length"` // 0 = auto
	SpeedChange       SpeedChange       `json:"speed_change" yaml:"speed_change"`
	SyncAdjust        SyncAdjust        `json:"sync_adjust" yaml:"sync_adjust"`
	Extra             ParameterSet      `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// Rhythm holds the RHYTHM group. Genre, Pattern and Kit keep the raw
// numbers as written so display tables can be keyed on them. The encoder
// writes PatternID and VariationID; Pattern and Variation are for display.
type Rhythm struct {
	Genre                 string       `json:"genre" yaml:"genre"`
	Pattern               string       `json:"pattern" yaml:"pattern"` // 1-based, as on the wire
	PatternID             int          `json:"pattern_id" yaml:"pattern_id"`
	Variation             string       `json:"variation" yaml:"variation"` // display letter
	VariationID           int          `json:"variation_id" yaml:"variation_id"`
	VariationChangeTiming int          `json:"variation_change_timing" yaml:"variation_change_timing"`
	Kit                   string       `json:"kit" yaml:"kit"`
	Beat                  int          `json:"beat" yaml:"beat"`
	FillIn                bool         `json:"fill_in" yaml:"fill_in"`
	IntroOnRec            bool         `json:"intro_on_rec" yaml:"intro_on_rec"`
	IntroOnPlay           bool         `json:"intro_on_play" yaml:"intro_on_play"`
	Ending                bool         `json:"ending" yaml:"ending"`
	StopTrig              int          `json:"stop_trig" yaml:"stop_trig"`
	StartTrig             int          `json:"start_trig" yaml:"start_trig"`
	UnknownM              int          `json:"unknown_m" yaml:"unknown_m"`
	Extra                 ParameterSet `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// NewRhythm returns rhythm settings with construction defaults
func NewRhythm() Rhythm {
	return Rhythm{Genre: "0", Pattern: "1", PatternID: 0, Variation: "A", Kit: "0"}
}

// Assign is one ASSIGNn group
type Assign struct {
	Number     int          `json:"number" yaml:"number"`
	Enabled    bool         `json:"enabled" yaml:"enabled"`
	Source     int          `json:"source" yaml:"source"`
	SourceMode int          `json:"source_mode" yaml:"source_mode"` // 0 momentary, 1 toggle
	Target     int          `json:"target" yaml:"target"`
	TargetMin  *int         `json:"target_min,omitempty" yaml:"target_min,omitempty"`
	TargetMax  *int         `json:"target_max,omitempty" yaml:"target_max,omitempty"`
	Extra      ParameterSet `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// ControlGroup is one opaque group of control parameters
type ControlGroup struct {
	Name   string       `json:"name" yaml:"name"`
	Params ParameterSet `json:"params" yaml:"params"`
}

// ControlSettings holds groups the codec passes through without interpreting
type ControlSettings struct {
	Groups []ControlGroup `json:"groups,omitempty" yaml:"groups,omitempty"`
}

// Group returns the named group
func (c ControlSettings) Group(name string) (ControlGroup, bool) {
	for _, g := range c.Groups {
		if g.Name == name {
			return g, true
		}
	}
	return ControlGroup{}, false
}
