// Package library works with the DATA directory of the looper. Each memory
// is stored twice, as MEMORYnnnA.RC0 and MEMORYnnnB.RC0, and the system
// settings as SYSTEM1.RC0 and SYSTEM2.RC0. Of each pair the copy with the
// higher <count> stamp is the current one.
package library

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"github.com/charmbracelet/log"

	"github.com/james-see/rc0patch/pkg/rc0"
)

// MaxMemory is the highest memory number on the device
const MaxMemory = 99

const fileExt = ".RC0"

// Kind tells memory files from system files
type Kind string

const (
	KindMemory Kind = "memory"
	KindSystem Kind = "system"
)

// Entry describes one .RC0 file in the directory
type Entry struct {
	Name     string    `json:"name"`
	Kind     Kind      `json:"kind"`
	Number   int       `json:"number"`            // memory 1..99 or system 1..2
	Variant  string    `json:"variant,omitempty"` // "A" or "B" for memories
	Count    uint64    `json:"count"`
	HasCount bool      `json:"has_count"`
	Size     int64     `json:"size"`
	ModTime  time.Time `json:"mod_time"`
}

// MemoryFileName returns the file name of memory n (1-based), variant "A" or "B"
func MemoryFileName(n int, variant string) string {
	return fmt.Sprintf("MEMORY%03d%s%s", n, strings.ToUpper(variant), fileExt)
}

// ParseMemoryFileName splits MEMORY001A.RC0 into 1 and "A"
func ParseMemoryFileName(name string) (int, string, bool) {
	base, ok := cutExt(name)
	if !ok {
		return 0, "", false
	}
	rest, ok := strings.CutPrefix(base, "MEMORY")
	if !ok || len(rest) != 4 {
		return 0, "", false
	}
	n, err := strconv.Atoi(rest[:3])
	if err != nil || n < 1 {
		return 0, "", false
	}
	variant := rest[3:]
	if variant != "A" && variant != "B" {
		return 0, "", false
	}
	return n, variant, true
}

// SystemFileName returns the file name of system copy n
func SystemFileName(n int) string {
	return fmt.Sprintf("SYSTEM%d%s", n, fileExt)
}

// ParseSystemFileName reads the copy number out of SYSTEM1.RC0
func ParseSystemFileName(name string) (int, bool) {
	base, ok := cutExt(name)
	if !ok {
		return 0, false
	}
	rest, ok := strings.CutPrefix(base, "SYSTEM")
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

func cutExt(name string) (string, bool) {
	upper := strings.ToUpper(name)
	if !strings.HasSuffix(upper, fileExt) {
		return "", false
	}
	return upper[:len(upper)-len(fileExt)], true
}

// Library is a DATA directory
type Library struct {
	dir    string
	codec  *rc0.Codec
	logger *log.Logger
}

// New opens the DATA directory at dir. A nil logger discards output.
func New(dir string, logger *log.Logger) *Library {
	if logger == nil {
		logger = log.New(io.Discard)
		logger.SetLevel(log.FatalLevel)
	}
	return &Library{
		dir:    dir,
		codec:  rc0.NewCodec(logger.WithPrefix("rc0")),
		logger: logger,
	}
}

// Dir returns the directory path
func (l *Library) Dir() string {
	return l.dir
}

// Codec returns the codec used to read and write patches
func (l *Library) Codec() *rc0.Codec {
	return l.codec
}

// List returns the .RC0 files in the directory: memories by number and
// variant, then system files. A missing directory lists as empty.
func (l *Library) List() ([]Entry, error) {
	dirEntries, err := os.ReadDir(l.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Entry{}, nil
		}
		return nil, fault.Wrap(err, fmsg.With("failed to list "+l.dir), ftag.With(ftag.Internal))
	}

	var entries []Entry
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		e, ok := parseEntry(de.Name())
		if !ok {
			continue
		}
		if info, err := de.Info(); err == nil {
			e.Size = info.Size()
			e.ModTime = info.ModTime()
		}
		e.Count, e.HasCount = l.readCount(de.Name())
		entries = append(entries, e)
	}

	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Kind != b.Kind {
			return a.Kind == KindMemory
		}
		if a.Number != b.Number {
			return a.Number < b.Number
		}
		return a.Variant < b.Variant
	})
	return entries, nil
}

func parseEntry(name string) (Entry, bool) {
	if n, v, ok := ParseMemoryFileName(name); ok {
		return Entry{Name: name, Kind: KindMemory, Number: n, Variant: v}, true
	}
	if n, ok := ParseSystemFileName(name); ok {
		return Entry{Name: name, Kind: KindSystem, Number: n}, true
	}
	return Entry{}, false
}

func (l *Library) readCount(name string) (uint64, bool) {
	data, err := os.ReadFile(filepath.Join(l.dir, name))
	if err != nil {
		l.logger.Debug("could not read count", "file", name, "err", err)
		return 0, false
	}
	return rc0.ParseCount(string(data))
}

// Path resolves a file name inside the directory. Names with path
// separators are rejected.
func (l *Library) Path(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fault.New("invalid file name "+name, ftag.With(ftag.InvalidArgument))
	}
	return filepath.Join(l.dir, name), nil
}

// Load reads a patch by file name
func (l *Library) Load(name string) (*rc0.Patch, error) {
	path, err := l.Path(name)
	if err != nil {
		return nil, err
	}
	return l.codec.ReadPatchFile(path)
}

// Save writes a patch under file name
func (l *Library) Save(name string, p *rc0.Patch) error {
	path, err := l.Path(name)
	if err != nil {
		return err
	}
	l.logger.Info("saving patch", "file", name, "name", p.Name)
	return l.codec.WritePatchFile(path, p)
}

// Memory loads the current copy of memory n
func (l *Library) Memory(n int) (*rc0.Patch, string, error) {
	if n < 1 || n > MaxMemory {
		return nil, "", fault.New(fmt.Sprintf("memory %d out of range 1..%d", n, MaxMemory), ftag.With(ftag.InvalidArgument))
	}
	name, err := l.current([]string{MemoryFileName(n, "A"), MemoryFileName(n, "B")})
	if err != nil {
		return nil, "", err
	}
	p, err := l.Load(name)
	return p, name, err
}

// AuthoritativeSystemFile returns the name of the SYSTEM file with the
// higher count stamp
func (l *Library) AuthoritativeSystemFile() (string, error) {
	return l.current([]string{SystemFileName(1), SystemFileName(2)})
}

// current picks the existing candidate with the highest count. Files
// without a readable count lose to any file with one; ties keep the first.
func (l *Library) current(candidates []string) (string, error) {
	best := ""
	var bestCount uint64
	bestHas := false

	for _, name := range candidates {
		if _, err := os.Stat(filepath.Join(l.dir, name)); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return "", fault.Wrap(err, fmsg.With("failed to stat "+name), ftag.With(ftag.Internal))
		}
		count, has := l.readCount(name)
		switch {
		case best == "":
		case has && !bestHas:
		case has && count > bestCount:
		default:
			continue
		}
		best, bestCount, bestHas = name, count, has
	}

	if best == "" {
		return "", fault.New(fmt.Sprintf("none of %s found in %s", strings.Join(candidates, ", "), l.dir), ftag.With(ftag.NotFound))
	}
	l.logger.Debug("selected current copy", "file", best, "count", bestCount)
	return best, nil
}
