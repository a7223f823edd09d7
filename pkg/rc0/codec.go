package rc0

import (
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

// Codec decodes and encodes patches. It holds no per-call state, so one
// Codec may be shared between goroutines.
type Codec struct {
	logger *log.Logger
}

// NewCodec creates a Codec that reports lenient-decode events to logger.
// A nil logger discards them.
func NewCodec(logger *log.Logger) *Codec {
	if logger == nil {
		logger = discardLogger()
	}
	return &Codec{logger: logger}
}

var defaultCodec = NewCodec(nil)

func discardLogger() *log.Logger {
	l := log.New(io.Discard)
	l.SetLevel(log.FatalLevel)
	return l
}

// DecodePatch parses a patch document. It never fails: missing or broken
// sections leave the matching part of the patch at its defaults.
func DecodePatch(text string) *Patch {
	return defaultCodec.DecodePatch(text)
}

// DecodePatch parses a patch document. It never fails: missing or broken
// sections leave the matching part of the patch at its defaults.
func (c *Codec) DecodePatch(text string) *Patch {
	p := NewPatch()
	text = normalizeNewlines(text)

	top, dropped := scanTags(text)
	c.logDropped("document", dropped)

	roots := top
	if db, ok := top.Get("database"); ok {
		if v, ok := db.Attr("name"); ok {
			p.DatabaseName = v
		}
		if v, ok := db.Attr("revision"); ok {
			p.Revision = v
		}
		var inner []string
		roots, inner = scanTags(db.Inner)
		c.logDropped("database", inner)
	} else {
		c.logger.Debug("no <database> root, reading sections from top level")
	}

	if cnt, ok := top.Get("count"); ok {
		p.Count = strings.TrimSpace(cnt.Inner)
	}

	if mem, ok := roots.Get("mem"); ok {
		p.ID = tagID(mem, p.ID)
		c.decodeMemory(p, mem.Inner)
	} else {
		c.logger.Debug("no <mem> section, using defaults")
	}

	for _, r := range patchRacks(p) {
		if t, ok := roots.Get(r.tag); ok {
			c.decodeRack(r.rack, t.Inner)
		} else {
			c.logger.Debug("no fx section, using defaults", "section", r.tag)
		}
		r.rack.normalize()
	}
	return p
}

func tagID(t Tag, def int) int {
	v, ok := t.Attr("id")
	if !ok {
		return def
	}
	id, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return id
}

func (c *Codec) logDropped(where string, names []string) {
	for _, name := range names {
		c.logger.Debug("dropped unterminated tag", "in", where, "tag", name)
	}
}

// decodeMemory routes each group of <mem> to its mapper. Unknown groups
// become control settings.
func (c *Codec) decodeMemory(p *Patch, inner string) {
	tags, dropped := scanTags(inner)
	c.logDropped("mem", dropped)

	for _, name := range tags.Keys() {
		t, _ := tags.Get(name)
		params := decodeParamSet(t.Inner)

		if g, ok := memoryGroups[name]; ok {
			g.decode(p, params)
			continue
		}
		if n, ok := assignNumber(name); ok {
			p.Assigns = append(p.Assigns, decodeAssign(n, params))
			continue
		}
		p.Control.Groups = append(p.Control.Groups, ControlGroup{Name: name, Params: params})
	}
}

func isMemoryGroup(name string) bool {
	if _, ok := memoryGroups[name]; ok {
		return true
	}
	_, ok := assignNumber(name)
	return ok
}
