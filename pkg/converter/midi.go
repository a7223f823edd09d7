package converter

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/james-see/rc0patch/pkg/rc0"
)

// MIDI controller numbers used for bank select
const (
	ccBankMSB = 0
	ccBankLSB = 32
)

// MIDIConverter handles MIDI recall file parsing and generation
type MIDIConverter struct {
	ticksPerQuarter uint16
	tempo           float64
}

// NewMIDIConverter creates a new MIDI converter
func NewMIDIConverter() *MIDIConverter {
	return &MIDIConverter{
		ticksPerQuarter: 480,
		tempo:           120.0,
	}
}

// RecallFor returns the recall messages for p's memory on channel ch
func RecallFor(p *rc0.Patch, ch uint8) *Recall {
	mem := p.ID
	if mem < 0 {
		mem = 0
	}
	return &Recall{
		Name:    p.Name,
		Memory:  mem,
		Channel: ch & 0x0F,
		BankMSB: 0,
		BankLSB: uint8(mem / 128),
		Program: uint8(mem % 128),
	}
}

// GenerateRecall creates a one-track MIDI file that selects the memory:
// track name, bank select MSB/LSB, then program change.
func (m *MIDIConverter) GenerateRecall(r *Recall) ([]byte, error) {
	if r == nil {
		return nil, errors.New("nil recall")
	}

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(m.ticksPerQuarter)

	var track smf.Track
	track.Add(0, trackName(r.Name))
	track.Add(0, smf.MetaTempo(m.tempo))
	track.Add(0, midi.ControlChange(r.Channel, ccBankMSB, r.BankMSB))
	track.Add(0, midi.ControlChange(r.Channel, ccBankLSB, r.BankLSB))
	track.Add(0, midi.ProgramChange(r.Channel, r.Program))
	track.Close(0)

	if err := s.Add(track); err != nil {
		return nil, fmt.Errorf("failed to add track: %w", err)
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write MIDI: %w", err)
	}
	return buf.Bytes(), nil
}

// trackName builds a sequence/track name meta event (FF 03 len text)
func trackName(name string) smf.Message {
	if len(name) > 127 {
		name = name[:127]
	}
	msg := []byte{0xFF, 0x03, byte(len(name))}
	return smf.Message(append(msg, name...))
}

// ParseRecall reads the recall messages back out of a MIDI file
func (m *MIDIConverter) ParseRecall(data []byte) (*Recall, error) {
	s, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse MIDI: %w", err)
	}

	r := &Recall{}
	found := false
	for _, track := range s.Tracks {
		for _, ev := range track {
			msg := ev.Message
			if len(msg) < 2 {
				continue
			}

			// Track name meta event
			if msg[0] == 0xFF && msg[1] == 0x03 && len(msg) >= 3 {
				n := int(msg[2])
				if 3+n <= len(msg) {
					r.Name = string(msg[3 : 3+n])
				}
				continue
			}

			status := msg[0]
			switch {
			// Control Change (0xB0-0xBF)
			case status >= 0xB0 && status <= 0xBF && len(msg) >= 3:
				switch msg[1] {
				case ccBankMSB:
					r.BankMSB = msg[2]
				case ccBankLSB:
					r.BankLSB = msg[2]
				}
			// Program Change (0xC0-0xCF)
			case status >= 0xC0 && status <= 0xCF:
				r.Channel = status & 0x0F
				r.Program = msg[1]
				found = true
			}
		}
	}

	if !found {
		return nil, errors.New("no program change in MIDI file")
	}
	r.Memory = int(r.BankLSB)*128 + int(r.Program)
	return r, nil
}

// ParseRecallFile reads a recall MIDI file from disk
func (m *MIDIConverter) ParseRecallFile(filename string) (*Recall, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read MIDI file: %w", err)
	}
	return m.ParseRecall(data)
}
