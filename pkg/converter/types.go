// Package converter converts looper patches between RC0, JSON, YAML and MIDI recall files
package converter

import (
	"github.com/james-see/rc0patch/pkg/rc0"
)

// Recall holds the MIDI messages that call up one memory on the looper
type Recall struct {
	Name    string
	Memory  int   // 0-based memory number
	Channel uint8 // 0-15
	BankMSB uint8
	BankLSB uint8
	Program uint8
}

// ConversionResult holds the result of a conversion
type ConversionResult struct {
	Data     []byte
	Filename string
	Format   Format
	Error    error
}

// Converter handles format conversions
type Converter struct {
	codec   *rc0.Codec
	channel uint8
	indent  string
}

// New creates a new Converter around codec. A nil codec uses one that
// discards its log output.
func New(codec *rc0.Codec) *Converter {
	if codec == nil {
		codec = rc0.NewCodec(nil)
	}
	return &Converter{codec: codec, indent: "  "}
}

// GetCodec returns the patch codec
func (c *Converter) GetCodec() *rc0.Codec {
	return c.codec
}

// SetMIDIChannel sets the 0-based channel recall files are written on
func (c *Converter) SetMIDIChannel(ch uint8) {
	c.channel = ch & 0x0F
}

// MIDIChannel returns the 0-based recall channel
func (c *Converter) MIDIChannel() uint8 {
	return c.channel
}

// SetIndent sets the indent used for JSON output
func (c *Converter) SetIndent(indent string) {
	c.indent = indent
}
