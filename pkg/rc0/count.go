package rc0

import (
	"strconv"
	"strings"
)

// ParseCount reads the hexadecimal <count> revision stamp of a document
func ParseCount(text string) (uint64, bool) {
	t, ok := ScanTags(text).Get("count")
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseUint(strings.TrimSpace(t.Inner), 16, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// FormatCount renders a revision stamp the way the device writes it
func FormatCount(v uint64) string {
	return strings.ToUpper(strconv.FormatUint(v, 16))
}
