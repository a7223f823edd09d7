package rc0

import "testing"

func TestLookupEffect(t *testing.T) {
	tests := []struct {
		name   string
		wantID int
		wantOK bool
	}{
		{"LPF", 1, true},
		{"DELAY", 36, true},
		{"SLOW_GEAR", 13, true},
		{"slow_gear", 13, true},
		{"LO_FI", 7, true},
		{"TAPE_ECHO_1", 40, true},
		{"EFFECT_99", 99, true},
		{"EFFECT_x", 0, false},
		{"NOT_AN_EFFECT", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := LookupEffect(tt.name)
			if id != tt.wantID || ok != tt.wantOK {
				t.Errorf("LookupEffect(%q) = %d, %v, want %d, %v", tt.name, id, ok, tt.wantID, tt.wantOK)
			}
		})
	}
}

func TestEffectName(t *testing.T) {
	if got := EffectName(1); got != "LPF" {
		t.Errorf("EffectName(1) = %q, want LPF", got)
	}
	if got := EffectName(99); got != "EFFECT_99" {
		t.Errorf("EffectName(99) = %q, want EFFECT_99", got)
	}
	if got := EffectName(-1); got != "EFFECT_-1" {
		t.Errorf("EffectName(-1) = %q, want EFFECT_-1", got)
	}
}

func TestEffectRegistryConsistency(t *testing.T) {
	order := EffectOrder()
	if len(order) != MaxEffectID+1 {
		t.Fatalf("EffectOrder() has %d ids, want %d", len(order), MaxEffectID+1)
	}

	seen := make(map[string]bool)
	for i, e := range Effects() {
		if e.ID != i {
			t.Errorf("entry %d has id %d", i, e.ID)
		}
		if seen[e.Name] {
			t.Errorf("duplicate effect name %q", e.Name)
		}
		seen[e.Name] = true

		if id, ok := LookupEffect(e.Name); !ok || id != e.ID {
			t.Errorf("LookupEffect(%q) = %d, %v, want %d", e.Name, id, ok, e.ID)
		}
	}
	for alias, id := range effectAliases {
		if seen[alias] {
			t.Errorf("alias %q shadows a canonical name", alias)
		}
		if id < 0 || id > MaxEffectID {
			t.Errorf("alias %q points at unknown id %d", alias, id)
		}
	}
}

func TestIsSequenceEffect(t *testing.T) {
	if !IsSequenceEffect(1) {
		t.Error("LPF should support the sequencer")
	}
	if IsSequenceEffect(36) {
		t.Error("DELAY should not support the sequencer")
	}
	if IsSequenceEffect(99) {
		t.Error("unknown ids should not support the sequencer")
	}
}
