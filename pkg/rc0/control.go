package rc0

// DecodeControlSettings reads opaque parameter groups. The text may be a bare
// run of groups or wrapped in <database> and then <mem> or <sys>; inside
// <mem> the groups the patch codec interprets are skipped.
func DecodeControlSettings(text string) ControlSettings {
	var cs ControlSettings

	tags := ScanTags(normalizeNewlines(text))
	if db, ok := tags.Get("database"); ok {
		tags = ScanTags(db.Inner)
	}
	skipMemory := false
	if mem, ok := tags.Get("mem"); ok {
		tags = ScanTags(mem.Inner)
		skipMemory = true
	} else if sys, ok := tags.Get("sys"); ok {
		tags = ScanTags(sys.Inner)
	}

	for _, name := range tags.Keys() {
		if skipMemory && isMemoryGroup(name) {
			continue
		}
		t, _ := tags.Get(name)
		cs.Groups = append(cs.Groups, ControlGroup{Name: name, Params: decodeParamSet(t.Inner)})
	}
	return cs
}

// EncodeControlSettings writes the groups as a bare fragment
func EncodeControlSettings(cs ControlSettings) string {
	var w docWriter
	writeControlGroups(&w, cs)
	return w.String()
}
