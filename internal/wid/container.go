// Package wid opens the proprietary report containers produced by the legacy
// BI platform. A container file is an opaque wrapper header followed by an
// ordinary ZIP archive; the archive holds one folder per data provider plus
// document-wide definition entries.
package wid

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrNotContainer reports that no embedded archive signature was found in
// the input, meaning the file is not a recognized report container.
var ErrNotContainer = errors.New("wid: no embedded archive signature")

// zipMagic is the ZIP local-file-header signature the locator scans for.
var zipMagic = []byte("PK\x03\x04")

// GenericEntry is the per-provider definition entry name every extractor
// reads. It also appears outside provider folders in some archives.
const GenericEntry = "DP_Generic"

// Container is a read-only view of the archive embedded in a report file.
type Container struct {
	zr *zip.Reader

	// Offset is the byte position of the embedded archive inside the
	// original file. Bytes before it belong to the proprietary wrapper.
	Offset int
}

// Open locates the embedded ZIP archive inside raw container bytes and
// returns a read-only view of it. Wrapper bytes before the archive
// signature are ignored.
//
// Errors:
//   - ErrNotContainer when no signature is present.
//   - a wrapped archive/zip error when the signature is present but the
//     archive cannot be read.
func Open(raw []byte) (*Container, error) {
	off := bytes.Index(raw, zipMagic)
	if off < 0 {
		return nil, ErrNotContainer
	}
	payload := raw[off:]
	zr, err := zip.NewReader(bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		return nil, fmt.Errorf("wid: open embedded archive: %w", err)
	}
	return &Container{zr: zr, Offset: off}, nil
}

// OpenFile reads path and opens the container it holds. Errors are wrapped
// with the file path; ErrNotContainer still matches through errors.Is.
func OpenFile(path string) (*Container, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Open(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// EntryNames returns every archive entry path in archive order, directory
// entries included.
func (c *Container) EntryNames() []string {
	names := make([]string, 0, len(c.zr.File))
	for _, f := range c.zr.File {
		names = append(names, f.Name)
	}
	return names
}

// ReadEntry returns the raw bytes of the named entry. Directory entries
// read as empty. Unknown names return an error.
func (c *Container) ReadEntry(name string) ([]byte, error) {
	for _, f := range c.zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("wid: open entry %s: %w", name, err)
		}
		defer rc.Close()
		b, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("wid: read entry %s: %w", name, err)
		}
		return b, nil
	}
	return nil, fmt.Errorf("wid: no such entry %s", name)
}

// HasEntry reports whether the archive contains an entry with this exact
// name.
func (c *Container) HasEntry(name string) bool {
	for _, f := range c.zr.File {
		if f.Name == name {
			return true
		}
	}
	return false
}

// ProviderDir is one data provider folder inside the archive.
type ProviderDir struct {
	// ID is the DP<n> token, taken from the deepest folder segment.
	ID string

	// Generic is the entry path of the provider's DP_Generic definition,
	// or "" when the folder has no such entry (nothing to extract).
	Generic string
}

// Providers lists the data provider folders in archive order. A folder
// qualifies when it is an explicit directory entry whose path contains a
// /DATAPROVIDERS/DP segment; the provider id is the deepest path segment.
func (c *Container) Providers() []ProviderDir {
	var out []ProviderDir
	for _, f := range c.zr.File {
		name := f.Name
		if !strings.HasSuffix(name, "/") || !strings.Contains(name, "/DATAPROVIDERS/DP") {
			continue
		}
		parts := strings.Split(name, "/")
		if len(parts) < 2 {
			continue
		}
		p := ProviderDir{ID: parts[len(parts)-2]}
		if generic := name + GenericEntry; c.HasEntry(generic) {
			p.Generic = generic
		}
		out = append(out, p)
	}
	return out
}
