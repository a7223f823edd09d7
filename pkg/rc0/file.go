package rc0

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
)

// ReadPatchFile reads and decodes a patch file. Only I/O fails; the
// content is always decoded leniently.
func ReadPatchFile(path string) (*Patch, error) {
	return defaultCodec.ReadPatchFile(path)
}

// ReadPatchFile reads and decodes a patch file
func (c *Codec) ReadPatchFile(path string) (*Patch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ioError(err, "failed to read patch file", path)
	}
	c.logger.Debug("read patch file", "path", path, "bytes", len(data))
	return c.DecodePatch(string(data)), nil
}

// WritePatchFile encodes p and writes it to path
func WritePatchFile(path string, p *Patch) error {
	return defaultCodec.WritePatchFile(path, p)
}

// WritePatchFile encodes p and writes it to path. The document is built in
// memory and moved into place in one step, so a failed write leaves no
// partial file behind.
func (c *Codec) WritePatchFile(path string, p *Patch) error {
	return writeFileAtomic(path, []byte(c.EncodePatch(p)))
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".rc0-*")
	if err != nil {
		return ioError(err, "failed to create temp file for", path)
	}
	name := tmp.Name()
	defer func() { _ = os.Remove(name) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return ioError(err, "failed to write", path)
	}
	if err := tmp.Close(); err != nil {
		return ioError(err, "failed to write", path)
	}
	if err := os.Chmod(name, 0644); err != nil {
		return ioError(err, "failed to write", path)
	}
	if err := os.Rename(name, path); err != nil {
		return ioError(err, "failed to write", path)
	}
	return nil
}

// ioError tags err as NotFound when the path is missing and Internal
// (I/O failure) otherwise.
func ioError(err error, msg, path string) error {
	kind := ftag.Internal
	if errors.Is(err, fs.ErrNotExist) {
		kind = ftag.NotFound
	}
	return fault.Wrap(err,
		fmsg.With(fmt.Sprintf("%s %s", msg, path)),
		ftag.With(kind),
	)
}

// IsNotFound reports whether err was caused by a missing path
func IsNotFound(err error) bool {
	return err != nil && ftag.Get(err) == ftag.NotFound
}

// IsIOFailure reports whether err is a read or write failure other than a
// missing path
func IsIOFailure(err error) bool {
	return err != nil && ftag.Get(err) == ftag.Internal
}
