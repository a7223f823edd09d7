package rc0

import (
	"fmt"
	"strconv"
	"strings"
)

const xmlProlog = `<?xml version="1.0" encoding="utf-8"?>`

// docWriter accumulates the output document
type docWriter struct {
	b strings.Builder
}

func (w *docWriter) line(s string) {
	w.b.WriteString(s)
	w.b.WriteByte('\n')
}

// group writes <name> with one line per parameter in writer key order
func (w *docWriter) group(name string, params ParameterSet) {
	w.line("<" + name + ">")
	for _, k := range params.SortedKeys() {
		w.line("\t<" + k + ">" + strconv.Itoa(params[k]) + "</" + k + ">")
	}
	w.line("</" + name + ">")
}

func (w *docWriter) String() string {
	return normalizeNewlines(w.b.String())
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// EncodePatch serializes p. The input is not modified.
func EncodePatch(p *Patch) string {
	return defaultCodec.EncodePatch(p)
}

// EncodePatch serializes p. The input is not modified.
func (c *Codec) EncodePatch(p *Patch) string {
	var w docWriter

	w.line(xmlProlog)
	w.line(fmt.Sprintf(`<database name="%s" revision="%s">`,
		valueOr(p.DatabaseName, "RC-600"), valueOr(p.Revision, "0")))

	w.line(fmt.Sprintf(`<mem id="%d">`, p.ID))
	for _, name := range memoryGroupOrder {
		w.group(name, memoryGroups[name].encode(p))
	}
	for i := range p.Assigns {
		a := &p.Assigns[i]
		w.group(assignTagName(a.Number), encodeAssign(a))
	}
	writeControlGroups(&w, p.Control)
	w.line("</mem>")

	for _, r := range patchRacks(p) {
		w.line(fmt.Sprintf(`<%s id="%d">`, r.tag, p.ID))
		encodeRack(&w, r.rack)
		w.line("</" + r.tag + ">")
	}

	w.line("</database>")
	w.line("<count>" + valueOr(p.Count, "0000") + "</count>")

	c.logger.Debug("encoded patch", "id", p.ID, "name", p.Name)
	return w.String()
}

func valueOr(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func writeControlGroups(w *docWriter, cs ControlSettings) {
	for _, g := range cs.Groups {
		w.group(g.Name, g.Params)
	}
}
