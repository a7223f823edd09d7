package rc0

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestReadPatchFileMissing(t *testing.T) {
	_, err := ReadPatchFile(filepath.Join(t.TempDir(), "MEMORY001A.RC0"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if !IsNotFound(err) {
		t.Errorf("IsNotFound(%v) = false", err)
	}
	if IsIOFailure(err) {
		t.Error("a missing file is not an I/O failure")
	}
}

func TestWriteThenRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "MEMORY004A.RC0")

	p := DecodePatch(samplePatch)
	if err := WritePatchFile(path, p); err != nil {
		t.Fatalf("WritePatchFile() error = %v", err)
	}

	got, err := ReadPatchFile(path)
	if err != nil {
		t.Fatalf("ReadPatchFile() error = %v", err)
	}
	if !reflect.DeepEqual(p, got) {
		t.Error("patch read back differs from the one written")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory holds %d entries, want only the patch file", len(entries))
	}
}

func TestWritePatchFileBadDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "MEMORY001A.RC0")
	err := WritePatchFile(path, NewPatch())
	if err == nil {
		t.Fatal("expected an error writing into a missing directory")
	}
	if IsIOFailure(err) == IsNotFound(err) {
		t.Errorf("error should carry exactly one kind: %v", err)
	}
}

func TestCount(t *testing.T) {
	tests := []struct {
		text   string
		want   uint64
		wantOK bool
	}{
		{"</database>\n<count>00FF</count>", 255, true},
		{"<count> 1a </count>", 26, true},
		{"<count>zz</count>", 0, false},
		{"<database></database>", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseCount(tt.text)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseCount(%q) = %d, %v, want %d, %v", tt.text, got, ok, tt.want, tt.wantOK)
		}
	}

	if got := FormatCount(0x1a3); got != "1A3" {
		t.Errorf("FormatCount(0x1a3) = %q, want 1A3", got)
	}
}
