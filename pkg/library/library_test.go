package library

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Southclaws/fault/ftag"

	"github.com/james-see/rc0patch/pkg/rc0"
)

func writeDoc(t *testing.T, dir, name, count string) {
	t.Helper()
	doc := `<database name="RC-600" revision="0"><mem id="0"></mem></database>` + "\n<count>" + count + "</count>\n"
	if err := os.WriteFile(filepath.Join(dir, name), []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestMemoryFileName(t *testing.T) {
	tests := []struct {
		n       int
		variant string
		want    string
	}{
		{1, "A", "MEMORY001A.RC0"},
		{42, "b", "MEMORY042B.RC0"},
		{99, "A", "MEMORY099A.RC0"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := MemoryFileName(tt.n, tt.variant); got != tt.want {
				t.Errorf("MemoryFileName(%d, %q) = %q, want %q", tt.n, tt.variant, got, tt.want)
			}
			n, v, ok := ParseMemoryFileName(tt.want)
			if !ok || n != tt.n || v != strings.ToUpper(tt.variant) {
				t.Errorf("ParseMemoryFileName(%q) = %d, %q, %v", tt.want, n, v, ok)
			}
		})
	}
}

func TestParseFileNames(t *testing.T) {
	tests := []struct {
		name   string
		memory bool
		system bool
	}{
		{"MEMORY001A.RC0", true, false},
		{"memory010b.rc0", true, false},
		{"MEMORY001C.RC0", false, false},
		{"MEMORY000A.RC0", false, false},
		{"MEMORY01A.RC0", false, false},
		{"SYSTEM1.RC0", false, true},
		{"SYSTEM2.RC0", false, true},
		{"SYSTEM.RC0", false, false},
		{"notes.txt", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, ok := ParseMemoryFileName(tt.name); ok != tt.memory {
				t.Errorf("ParseMemoryFileName(%q) ok = %v, want %v", tt.name, ok, tt.memory)
			}
			if _, ok := ParseSystemFileName(tt.name); ok != tt.system {
				t.Errorf("ParseSystemFileName(%q) ok = %v, want %v", tt.name, ok, tt.system)
			}
		})
	}
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "SYSTEM1.RC0", "0010")
	writeDoc(t, dir, "MEMORY002B.RC0", "0003")
	writeDoc(t, dir, "MEMORY002A.RC0", "0004")
	writeDoc(t, dir, "MEMORY001A.RC0", "0001")
	if err := os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "ROLAND"), 0755); err != nil {
		t.Fatal(err)
	}

	entries, err := New(dir, nil).List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}

	want := []string{"MEMORY001A.RC0", "MEMORY002A.RC0", "MEMORY002B.RC0", "SYSTEM1.RC0"}
	if len(entries) != len(want) {
		t.Fatalf("List() returned %d entries, want %d", len(entries), len(want))
	}
	for i, name := range want {
		if entries[i].Name != name {
			t.Errorf("entries[%d] = %q, want %q", i, entries[i].Name, name)
		}
	}
	if !entries[1].HasCount || entries[1].Count != 4 {
		t.Errorf("MEMORY002A count = %d, %v", entries[1].Count, entries[1].HasCount)
	}
	if entries[3].Kind != KindSystem || entries[3].Number != 1 {
		t.Errorf("SYSTEM1 entry = %+v", entries[3])
	}
}

func TestListMissingDir(t *testing.T) {
	entries, err := New(filepath.Join(t.TempDir(), "nope"), nil).List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("List() = %v, want empty", entries)
	}
}

func TestAuthoritativeSystemFile(t *testing.T) {
	tests := []struct {
		name   string
		files  map[string]string
		want   string
		wantOK bool
	}{
		{"higher count wins", map[string]string{"SYSTEM1.RC0": "0005", "SYSTEM2.RC0": "001A"}, "SYSTEM2.RC0", true},
		{"first wins a tie", map[string]string{"SYSTEM1.RC0": "0005", "SYSTEM2.RC0": "0005"}, "SYSTEM1.RC0", true},
		{"unreadable count loses", map[string]string{"SYSTEM1.RC0": "zz", "SYSTEM2.RC0": "0001"}, "SYSTEM2.RC0", true},
		{"single file", map[string]string{"SYSTEM2.RC0": "0001"}, "SYSTEM2.RC0", true},
		{"none", map[string]string{}, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for name, count := range tt.files {
				writeDoc(t, dir, name, count)
			}
			got, err := New(dir, nil).AuthoritativeSystemFile()
			if (err == nil) != tt.wantOK {
				t.Fatalf("AuthoritativeSystemFile() error = %v", err)
			}
			if !tt.wantOK && ftag.Get(err) != ftag.NotFound {
				t.Errorf("error kind = %v, want NotFound", ftag.Get(err))
			}
			if got != tt.want {
				t.Errorf("AuthoritativeSystemFile() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSaveAndMemory(t *testing.T) {
	dir := t.TempDir()
	lib := New(dir, nil)

	older := rc0.NewPatch()
	older.Name = "OLD"
	older.Count = "0001"
	newer := rc0.NewPatch()
	newer.Name = "NEW"
	newer.Count = "0002"

	if err := lib.Save(MemoryFileName(7, "A"), older); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := lib.Save(MemoryFileName(7, "B"), newer); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	p, name, err := lib.Memory(7)
	if err != nil {
		t.Fatalf("Memory() error = %v", err)
	}
	if name != "MEMORY007B.RC0" || p.Name != "NEW" {
		t.Errorf("Memory(7) = %q from %s, want NEW from MEMORY007B.RC0", p.Name, name)
	}

	if _, _, err := lib.Memory(8); !rc0.IsNotFound(err) {
		t.Errorf("Memory(8) error = %v, want not found", err)
	}
	if _, _, err := lib.Memory(100); ftag.Get(err) != ftag.InvalidArgument {
		t.Errorf("Memory(100) error = %v, want invalid argument", err)
	}
}

func TestPathRejectsTraversal(t *testing.T) {
	lib := New(t.TempDir(), nil)
	for _, name := range []string{"", "..", "../SYSTEM1.RC0", "sub/MEMORY001A.RC0"} {
		if _, err := lib.Path(name); err == nil {
			t.Errorf("Path(%q) should fail", name)
		}
	}
	if _, err := lib.Load("../x.RC0"); err == nil {
		t.Error("Load should reject a path outside the directory")
	}
}
