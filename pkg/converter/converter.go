package converter

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/james-see/rc0patch/pkg/rc0"
)

// Format represents a file format
type Format string

const (
	FormatRC0     Format = "rc0"
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatMIDI    Format = "midi"
	FormatUnknown Format = "unknown"
)

// Extension returns the file extension written for f
func (f Format) Extension() string {
	switch f {
	case FormatRC0:
		return ".RC0"
	case FormatJSON:
		return ".json"
	case FormatYAML:
		return ".yaml"
	case FormatMIDI:
		return ".mid"
	}
	return ""
}

// conversions lists every supported input -> output pair
var conversions = []struct{ from, to Format }{
	{FormatRC0, FormatJSON},
	{FormatRC0, FormatYAML},
	{FormatRC0, FormatMIDI},
	{FormatJSON, FormatRC0},
	{FormatJSON, FormatYAML},
	{FormatYAML, FormatRC0},
	{FormatYAML, FormatJSON},
}

// DetectFormat detects the format of a file based on its extension
func DetectFormat(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".rc0":
		return FormatRC0
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".mid", ".midi":
		return FormatMIDI
	default:
		return FormatUnknown
	}
}

// DetectFormatFromContent detects format from file content
func DetectFormatFromContent(data []byte) Format {
	if len(data) < 4 {
		return FormatUnknown
	}

	// Standard MIDI files start with "MThd"
	if string(data[:4]) == "MThd" {
		return FormatMIDI
	}

	trimmed := bytes.TrimSpace(data)
	switch {
	case bytes.HasPrefix(trimmed, []byte("<")):
		return FormatRC0
	case bytes.HasPrefix(trimmed, []byte("{")):
		return FormatJSON
	}

	var doc map[string]interface{}
	if err := yaml.Unmarshal(trimmed, &doc); err == nil && len(doc) > 0 {
		return FormatYAML
	}
	return FormatUnknown
}

// Supported reports whether from -> to is a supported conversion
func Supported(from, to Format) bool {
	for _, c := range conversions {
		if c.from == from && c.to == to {
			return true
		}
	}
	return false
}

// ConvertFile converts a file from one format to another
func (c *Converter) ConvertFile(inputPath, outputPath string) error {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	inputFormat := DetectFormat(inputPath)
	if inputFormat == FormatUnknown {
		inputFormat = DetectFormatFromContent(data)
	}

	outputFormat := DetectFormat(outputPath)
	if outputFormat == FormatUnknown {
		return errors.New("cannot determine output format from filename")
	}

	res := c.Convert(data, inputFormat, outputFormat, filepath.Base(outputPath))
	if res.Error != nil {
		return res.Error
	}

	if err := os.WriteFile(outputPath, res.Data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// Convert converts data between formats in memory
func (c *Converter) Convert(data []byte, from, to Format, filename string) ConversionResult {
	res := ConversionResult{Filename: filename, Format: to}
	if !Supported(from, to) {
		res.Error = fmt.Errorf("unsupported conversion: %s to %s", from, to)
		return res
	}

	p, err := c.Decode(data, from)
	if err != nil {
		res.Error = fmt.Errorf("conversion failed: %w", err)
		return res
	}
	res.Data, err = c.Encode(p, to)
	if err != nil {
		res.Error = fmt.Errorf("conversion failed: %w", err)
	}
	return res
}

// Decode reads a patch stored in format f
func (c *Converter) Decode(data []byte, f Format) (*rc0.Patch, error) {
	switch f {
	case FormatRC0:
		return c.codec.DecodePatch(string(data)), nil
	case FormatJSON:
		p := rc0.NewPatch()
		if err := json.Unmarshal(data, p); err != nil {
			return nil, fmt.Errorf("failed to parse JSON patch: %w", err)
		}
		return c.canonical(p), nil
	case FormatYAML:
		p := rc0.NewPatch()
		if err := yaml.Unmarshal(data, p); err != nil {
			return nil, fmt.Errorf("failed to parse YAML patch: %w", err)
		}
		return c.canonical(p), nil
	}
	return nil, fmt.Errorf("cannot read a patch from %s", f)
}

// canonical passes p through the codec once so the slot views are linked the
// same way a decoded file's are.
func (c *Converter) canonical(p *rc0.Patch) *rc0.Patch {
	return c.codec.DecodePatch(c.codec.EncodePatch(p))
}

// Encode writes p in format f
func (c *Converter) Encode(p *rc0.Patch, f Format) ([]byte, error) {
	switch f {
	case FormatRC0:
		return []byte(c.codec.EncodePatch(p)), nil
	case FormatJSON:
		out, err := json.MarshalIndent(p, "", c.indent)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal patch to JSON: %w", err)
		}
		return append(out, '\n'), nil
	case FormatYAML:
		out, err := yaml.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal patch to YAML: %w", err)
		}
		return out, nil
	case FormatMIDI:
		return NewMIDIConverter().GenerateRecall(RecallFor(p, c.channel))
	}
	return nil, fmt.Errorf("cannot write a patch as %s", f)
}

// RC0ToJSON converts RC0 data to indented JSON
func (c *Converter) RC0ToJSON(data []byte) ([]byte, error) {
	return c.Encode(c.codec.DecodePatch(string(data)), FormatJSON)
}

// JSONToRC0 converts a JSON patch to RC0 data
func (c *Converter) JSONToRC0(data []byte) ([]byte, error) {
	p, err := c.Decode(data, FormatJSON)
	if err != nil {
		return nil, err
	}
	return c.Encode(p, FormatRC0)
}

// RC0ToYAML converts RC0 data to YAML
func (c *Converter) RC0ToYAML(data []byte) ([]byte, error) {
	return c.Encode(c.codec.DecodePatch(string(data)), FormatYAML)
}

// YAMLToRC0 converts a YAML patch to RC0 data
func (c *Converter) YAMLToRC0(data []byte) ([]byte, error) {
	p, err := c.Decode(data, FormatYAML)
	if err != nil {
		return nil, err
	}
	return c.Encode(p, FormatRC0)
}

// RC0ToMIDI builds a MIDI recall file for the memory in data
func (c *Converter) RC0ToMIDI(data []byte) ([]byte, error) {
	return c.Encode(c.codec.DecodePatch(string(data)), FormatMIDI)
}

// GetSupportedConversions returns a list of supported conversion paths
func GetSupportedConversions() []string {
	out := make([]string, len(conversions))
	for i, c := range conversions {
		out[i] = fmt.Sprintf("%s -> %s", c.from, c.to)
	}
	return out
}
