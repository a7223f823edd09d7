package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/james-see/rc0patch/pkg/converter"
	"github.com/james-see/rc0patch/pkg/rc0"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestMenuNavigation(t *testing.T) {
	m := New(nil, t.TempDir())

	next, _ := m.Update(key("up"))
	if got := next.(Model).menuIndex; got != 0 {
		t.Errorf("menuIndex after up at top = %d, want 0", got)
	}

	for i := 0; i < len(menuItems)+2; i++ {
		next, _ = next.Update(key("down"))
	}
	if got := next.(Model).menuIndex; got != len(menuItems)-1 {
		t.Errorf("menuIndex after many downs = %d, want %d", got, len(menuItems)-1)
	}
}

func TestMenuSelectOpensPicker(t *testing.T) {
	m := New(nil, t.TempDir())
	next, _ := m.Update(key("down"))
	next, _ = next.Update(key("down"))
	next, _ = next.Update(key("enter"))

	got := next.(Model)
	if got.state != StateFilePicker {
		t.Fatalf("state = %v, want StateFilePicker", got.state)
	}
	if got.conversion.ToFormat != converter.FormatYAML {
		t.Errorf("conversion = %+v, want RC0 → YAML", got.conversion)
	}

	next, _ = got.Update(key("esc"))
	if next.(Model).state != StateMenu {
		t.Error("esc should return to the menu")
	}
}

func TestConversionDone(t *testing.T) {
	m := New(nil, t.TempDir())
	m.state = StateConverting

	next, _ := m.Update(conversionDoneMsg{outputFile: "out.json"})
	got := next.(Model)
	if got.state != StateResult || got.outputFile != "out.json" {
		t.Fatalf("after done: state %v output %q", got.state, got.outputFile)
	}
	if !strings.Contains(got.View(), "Conversion complete") {
		t.Error("result view should report success")
	}

	next, _ = got.Update(key("enter"))
	if next.(Model).state != StateMenu || next.(Model).outputFile != "" {
		t.Error("enter should reset to the menu")
	}
}

func TestRunConversion(t *testing.T) {
	dir := t.TempDir()
	p := rc0.NewPatch()
	p.Name = "BRIDGE"
	input := filepath.Join(dir, "MEMORY003A.RC0")
	if err := os.WriteFile(input, []byte(rc0.EncodePatch(p)), 0644); err != nil {
		t.Fatal(err)
	}
	conv := converter.New(nil)

	msg := runConversion(conv, menuItems[1], input)
	if msg.err != nil {
		t.Fatalf("runConversion() error = %v", msg.err)
	}
	if msg.outputFile != filepath.Join(dir, "MEMORY003A.json") {
		t.Errorf("outputFile = %q", msg.outputFile)
	}
	if _, err := os.Stat(msg.outputFile); err != nil {
		t.Errorf("output not written: %v", err)
	}

	msg = runConversion(conv, menuItems[0], input)
	if msg.err != nil || !strings.Contains(msg.summary, "BRIDGE") {
		t.Errorf("inspect summary = %q, err %v", msg.summary, msg.err)
	}

	msg = runConversion(conv, menuItems[0], filepath.Join(dir, "missing.RC0"))
	if msg.err == nil {
		t.Error("runConversion() on a missing file should fail")
	}
}

func TestSummary(t *testing.T) {
	p := rc0.NewPatch()
	p.Name = "SOLO"
	p.Tracks[2].Reverse = true
	p.InputFX.Banks[0].Slots[0].EffectID = 13
	p.InputFX.Banks[0].Slots[0].Enabled = true

	out := Summary(p)
	for _, want := range []string{"SOLO", "rev", "SLOW_GEAR", "Track 6"} {
		if !strings.Contains(out, want) {
			t.Errorf("Summary() missing %q:\n%s", want, out)
		}
	}
}
