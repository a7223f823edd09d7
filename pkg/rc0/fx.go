package rc0

import (
	"sort"
	"strings"
)

// Category tells the two effect racks apart
type Category string

const (
	CategoryInput Category = "input"
	CategoryTrack Category = "track"
)

// rackRoot pairs a rack with the document element holding it
type rackRoot struct {
	tag  string
	rack *EffectRack
}

func patchRacks(p *Patch) []rackRoot {
	return []rackRoot{{"ifx", &p.InputFX}, {"tfx", &p.TrackFX}}
}

// BankLetter returns "A".."D" for bank index 0..3
func BankLetter(i int) string {
	return string(rune('A' + i))
}

// EffectRack is the Input FX or Track FX block
type EffectRack struct {
	Category   Category       `json:"category" yaml:"category"`
	ActiveBank int            `json:"active_bank" yaml:"active_bank"` // 0..3 = A..D
	Banks      [NumBanks]Bank `json:"banks" yaml:"banks"`
	Setup      ParameterSet   `json:"setup_extra,omitempty" yaml:"setup_extra,omitempty"`
}

// NewEffectRack returns a rack with every bank and slot at its defaults
func NewEffectRack(c Category) EffectRack {
	r := EffectRack{Category: c}
	for b := range r.Banks {
		r.Banks[b] = NewBank(c, b)
	}
	return r
}

// Bank is one of the four banks of a rack
type Bank struct {
	Enabled bool               `json:"enabled" yaml:"enabled"`
	ParamB  int                `json:"param_b" yaml:"param_b"`
	ParamC  int                `json:"param_c" yaml:"param_c"`
	Slots   [SlotsPerBank]Slot `json:"slots" yaml:"slots"`
	Extra   ParameterSet       `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// NewBank returns bank index b with defaults
func NewBank(c Category, b int) Bank {
	bank := Bank{ParamB: 0, ParamC: 3}
	for s := range bank.Slots {
		bank.Slots[s] = NewSlot(c, b, s+1)
	}
	return bank
}

// Slot is one effect position. Params is the working set of the active
// effect; AllEffectSettings keeps every effect type the slot has held.
type Slot struct {
	Category          Category             `json:"category" yaml:"category"`
	Bank              string               `json:"bank" yaml:"bank"`
	Number            int                  `json:"number" yaml:"number"` // 1..4
	Enabled           bool                 `json:"enabled" yaml:"enabled"`
	SwitchMode        int                  `json:"switch_mode" yaml:"switch_mode"`
	Target            int                  `json:"target" yaml:"target"`
	EffectID          int                  `json:"effect_id" yaml:"effect_id"`
	EffectName        string               `json:"effect_name" yaml:"effect_name"`
	Params            ParameterSet         `json:"params" yaml:"params"`
	AllEffectSettings map[int]ParameterSet `json:"all_effect_settings" yaml:"all_effect_settings"`
	Extra             ParameterSet         `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// NewSlot returns slot n (1-based) of bank index b
func NewSlot(c Category, b, n int) Slot {
	return Slot{
		Category:          c,
		Bank:              BankLetter(b),
		Number:            n,
		EffectName:        EffectName(0),
		AllEffectSettings: make(map[int]ParameterSet),
	}
}

// Prefix returns the bank/slot tag prefix, e.g. "AB" for bank A slot 2
func (s *Slot) Prefix() string {
	return s.Bank + string(rune('A'+s.Number-1))
}

// Settings returns the stored set for an effect id, creating it on first
// touch. New sets of sequence-capable effects start with sequence defaults.
func (s *Slot) Settings(id int) ParameterSet {
	if s.AllEffectSettings == nil {
		s.AllEffectSettings = make(map[int]ParameterSet)
	}
	p, ok := s.AllEffectSettings[id]
	if !ok {
		p = make(ParameterSet)
		if IsSequenceEffect(id) {
			withSeqDefaults(p)
		}
		s.AllEffectSettings[id] = p
	}
	return p
}

// SelectEffect makes id the active effect. The outgoing working set is
// stored first; entries are never removed.
func (s *Slot) SelectEffect(id int) {
	if s.Params != nil {
		if s.AllEffectSettings == nil {
			s.AllEffectSettings = make(map[int]ParameterSet)
		}
		s.AllEffectSettings[s.EffectID] = s.Params
	}
	s.EffectID = id
	s.EffectName = EffectName(id)
	s.Params = s.Settings(id)
}

// settingsFor is the read-only view the writer uses: the working set for
// the active effect, the stored set otherwise.
func (s *Slot) settingsFor(id int) ParameterSet {
	if id == s.EffectID && s.Params != nil {
		return s.Params
	}
	return s.AllEffectSettings[id]
}

// effectIDs lists every effect the slot has settings for plus the active
// one: registry order first, then unknown ids ascending.
func (s *Slot) effectIDs() []int {
	have := make(map[int]bool, len(s.AllEffectSettings)+1)
	for id := range s.AllEffectSettings {
		have[id] = true
	}
	have[s.EffectID] = true

	var ids []int
	for _, id := range EffectOrder() {
		if have[id] {
			ids = append(ids, id)
			delete(have, id)
		}
	}
	var rest []int
	for id := range have {
		rest = append(rest, id)
	}
	sort.Ints(rest)
	return append(ids, rest...)
}

// tagKind is the classification of a tag inside an <ifx>/<tfx> block
type tagKind int

const (
	tagUnknown tagKind = iota
	tagSetup
	tagBank
	tagSlot
	tagSequence
	tagEffect
)

// classifyFXTag applies the precedence rules: one letter is a bank, two
// letters a slot, then _SEQ, then any other underscore name is an effect.
// Effect names may contain underscores, so the prefix is everything before
// the first one. Letters match in either case; the prefix is returned in
// upper case.
func classifyFXTag(name string) (kind tagKind, prefix, effect string) {
	switch {
	case name == "SETUP":
		return tagSetup, "", ""
	case len(name) == 1 && isLetter(name[0]):
		return tagBank, strings.ToUpper(name), ""
	case len(name) == 2 && isLetter(name[0]) && isLetter(name[1]):
		return tagSlot, strings.ToUpper(name), ""
	case strings.Contains(name, "_SEQ"):
		base := strings.TrimSuffix(name, "_SEQ")
		prefix, effect, _ = strings.Cut(base, "_")
		return tagSequence, strings.ToUpper(prefix), effect
	case strings.Contains(name, "_"):
		prefix, effect, _ = strings.Cut(name, "_")
		return tagEffect, strings.ToUpper(prefix), effect
	}
	return tagUnknown, "", ""
}

func isLetter(b byte) bool {
	return isUpper(b) || b >= 'a' && b <= 'z'
}

// slotAt resolves a two-letter prefix like "CB" to a slot of the rack
func (r *EffectRack) slotAt(prefix string) (*Slot, bool) {
	if len(prefix) != 2 {
		return nil, false
	}
	b := int(prefix[0] - 'A')
	n := int(prefix[1] - 'A')
	if b < 0 || b >= NumBanks || n < 0 || n >= SlotsPerBank {
		return nil, false
	}
	return &r.Banks[b].Slots[n], true
}

// decodeRack fills rack from the inner text of an <ifx>/<tfx> element
func (c *Codec) decodeRack(rack *EffectRack, inner string) {
	tags, dropped := scanTags(inner)
	for _, name := range dropped {
		c.logger.Debug("dropped unterminated tag", "rack", rack.Category, "tag", name)
	}

	for _, name := range tags.Keys() {
		t, _ := tags.Get(name)
		params := decodeParamSet(t.Inner)

		kind, prefix, effect := classifyFXTag(name)
		switch kind {
		case tagSetup:
			r := newFieldReader(params)
			r.num("A", &rack.ActiveBank)
			rack.Setup = r.extra()

		case tagBank:
			b := int(prefix[0] - 'A')
			if b >= NumBanks {
				c.logger.Debug("ignoring bank tag", "rack", rack.Category, "tag", name)
				continue
			}
			decodeBank(&rack.Banks[b], params)

		case tagSlot:
			slot, ok := rack.slotAt(prefix)
			if !ok {
				c.logger.Debug("ignoring slot tag", "rack", rack.Category, "tag", name)
				continue
			}
			decodeSlot(slot, params)

		case tagEffect, tagSequence:
			slot, ok := rack.slotAt(prefix)
			if !ok {
				c.logger.Debug("ignoring effect tag", "rack", rack.Category, "tag", name)
				continue
			}
			id, ok := LookupEffect(effect)
			if !ok {
				c.logger.Debug("unknown effect name", "rack", rack.Category, "tag", name)
				continue
			}
			if kind == tagSequence {
				if !IsSequenceEffect(id) {
					c.logger.Debug("sequence tag on effect without sequencer", "tag", name)
					continue
				}
				decodeSequence(slot.Settings(id), params)
				continue
			}
			set := slot.Settings(id)
			for k, v := range params {
				set[k] = v
			}

		default:
			c.logger.Debug("unclassified fx tag", "rack", rack.Category, "tag", name)
		}
	}
}

// normalize points every slot's active view at its stored entry, creating
// the entry when the document had no tag for the active effect.
func (r *EffectRack) normalize() {
	for b := range r.Banks {
		for s := range r.Banks[b].Slots {
			slot := &r.Banks[b].Slots[s]
			slot.EffectName = EffectName(slot.EffectID)
			slot.Params = slot.Settings(slot.EffectID)
		}
	}
}

func decodeBank(bank *Bank, params ParameterSet) {
	r := newFieldReader(params)
	r.flag("A", &bank.Enabled)
	r.num("B", &bank.ParamB)
	r.num("C", &bank.ParamC)
	bank.Extra = r.extra()
}

// decodeSlot applies a slot tag. If C names a different effect, the working
// set is stored and the new effect's stored set (or a fresh one) becomes
// the active view.
func decodeSlot(slot *Slot, params ParameterSet) {
	r := newFieldReader(params)
	r.flag("A", &slot.Enabled)
	r.num("B", &slot.SwitchMode)
	r.num("D", &slot.Target)
	if id, ok := r.lookup("C"); ok {
		slot.SelectEffect(id)
	}
	slot.Extra = r.extra()
}

func decodeSequence(set ParameterSet, params ParameterSet) {
	for _, f := range seqSchema {
		if v, ok := params[f.letter]; ok {
			set[f.key] = v
		}
	}
}

// encodeRack writes the rack's tags into w
func encodeRack(w *docWriter, rack *EffectRack) {
	setup := newParamWriter(rack.Setup)
	setup.num("A", rack.ActiveBank)
	w.group("SETUP", setup.params)

	for b := range rack.Banks {
		bank := &rack.Banks[b]
		bp := newParamWriter(bank.Extra)
		bp.flag("A", bank.Enabled)
		bp.num("B", bank.ParamB)
		bp.num("C", bank.ParamC)
		w.group(BankLetter(b), bp.params)

		for s := range bank.Slots {
			encodeSlot(w, &bank.Slots[s], b, s)
		}
	}
}

func encodeSlot(w *docWriter, slot *Slot, b, s int) {
	prefix := BankLetter(b) + string(rune('A'+s))

	sp := newParamWriter(slot.Extra)
	sp.flag("A", slot.Enabled)
	sp.num("B", slot.SwitchMode)
	sp.num("C", slot.EffectID)
	sp.num("D", slot.Target)
	w.group(prefix, sp.params)

	for _, id := range slot.effectIDs() {
		set := slot.settingsFor(id)
		tag := prefix + "_" + EffectName(id)

		plain := make(ParameterSet, len(set))
		for k, v := range set {
			if !isSeqKey(k) {
				plain[k] = v
			}
		}
		w.group(tag, plain)

		if IsSequenceEffect(id) {
			seq := make(ParameterSet, len(seqSchema))
			for _, f := range seqSchema {
				v, ok := set[f.key]
				if !ok {
					v = f.def
				}
				seq[f.letter] = v
			}
			w.group(tag+"_SEQ", seq)
		}
	}
}
